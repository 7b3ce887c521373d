//nolint:whitespace // can't make both editor and linter happy
package runs

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/f1decoder/f1-warehouse-manager-go/pkg/model"
	"github.com/f1decoder/f1-warehouse-manager-go/pkg/repository"
)

var selector = `select run_id, started_at, finished_at, status, season, round,
	session_type, code_version, notes from metadata.ingestion_runs`

// Create records the start of an ingestion run in running state.
// Notes stay empty until the run is finalized.
func Create(ctx context.Context, conn repository.Querier, run *model.IngestionRun) error {
	_, err := conn.Exec(ctx, `
	insert into metadata.ingestion_runs (
		run_id, started_at, status, season, round, session_type, code_version
	) values ($1,$2,$3,$4,$5,$6,$7)
		`,
		run.RunID, run.StartedAt, run.Status, run.Season, run.Round,
		run.SessionType, run.CodeVersion,
	)
	return err
}

// Finalize closes a run with its terminal status and notes, returns
// number of rows updated.
func Finalize(
	ctx context.Context,
	conn repository.Querier,
	runId string,
	status model.RunStatus,
	finishedAt time.Time,
	notes map[string]any,
) (int, error) {
	if notes == nil {
		notes = map[string]any{}
	}
	cmdTag, err := conn.Exec(ctx, `
	update metadata.ingestion_runs set
		finished_at=$1,
		status=$2,
		notes=$3
	where run_id=$4
	`, finishedAt, status, notes, runId)
	if err != nil {
		return 0, err
	}
	return int(cmdTag.RowsAffected()), nil
}

func LoadById(ctx context.Context, conn repository.Querier, runId string) (
	*model.IngestionRun, error,
) {
	row := conn.QueryRow(ctx, fmt.Sprintf("%s where run_id=$1", selector), runId)
	ret, err := readData(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNoData
		}
		return nil, err
	}
	return ret, nil
}

// LoadByRace returns all run attempts for one race, most recent first.
func LoadByRace(
	ctx context.Context,
	conn repository.Querier,
	season int,
	round int,
	sessionType string,
) ([]*model.IngestionRun, error) {
	row, err := conn.Query(ctx,
		fmt.Sprintf(
			"%s where season=$1 and round=$2 and session_type=$3 order by started_at desc",
			selector),
		season, round, sessionType)
	if err != nil {
		return nil, err
	}
	defer row.Close()
	ret := make([]*model.IngestionRun, 0)
	for row.Next() {
		item, err := readData(row)
		if err != nil {
			return nil, err
		}
		ret = append(ret, item)
	}
	return ret, nil
}

// deletes an entry from the database, returns number of rows deleted.
// Quality check rows cascade.
func DeleteById(ctx context.Context, conn repository.Querier, runId string) (int, error) {
	cmdTag, err := conn.Exec(ctx, "delete from metadata.ingestion_runs where run_id=$1", runId)
	if err != nil {
		return 0, err
	}
	return int(cmdTag.RowsAffected()), nil
}

func readData(row pgx.Row) (*model.IngestionRun, error) {
	var item model.IngestionRun
	if err := row.Scan(
		&item.RunID, &item.StartedAt, &item.FinishedAt, &item.Status, &item.Season,
		&item.Round, &item.SessionType, &item.CodeVersion, &item.Notes,
	); err != nil {
		return nil, err
	}
	return &item, nil
}
