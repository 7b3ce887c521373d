//nolint:whitespace // can't make both editor and linter happy
package results

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/f1decoder/f1-warehouse-manager-go/pkg/model"
	"github.com/f1decoder/f1-warehouse-manager-go/pkg/repository"
)

var selector = `select race_id, driver_id, team_id, grid_position,
	finish_position, classified_position, status, points, race_time_ms,
	gap_to_winner_ms from curated.fact_session_results`

// Upsert inserts or overwrites one classification row keyed on
// (race_id, driver_id).
func Upsert(ctx context.Context, conn repository.Querier, res *model.FactResult) error {
	_, err := conn.Exec(ctx, `
	insert into curated.fact_session_results (
		race_id, driver_id, team_id, grid_position, finish_position,
		classified_position, status, points, race_time_ms, gap_to_winner_ms
	) values ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
	on conflict (race_id, driver_id) do update set
		team_id=excluded.team_id,
		grid_position=excluded.grid_position,
		finish_position=excluded.finish_position,
		classified_position=excluded.classified_position,
		status=excluded.status,
		points=excluded.points,
		race_time_ms=excluded.race_time_ms,
		gap_to_winner_ms=excluded.gap_to_winner_ms
		`,
		res.RaceID, res.DriverID, res.TeamID, res.GridPosition, res.FinishPosition,
		res.ClassifiedPosition, res.Status, res.Points, res.RaceTimeMS,
		res.GapToWinnerMS,
	)
	return err
}

func LoadByRaceId(ctx context.Context, conn repository.Querier, raceId string) (
	[]*model.FactResult, error,
) {
	row, err := conn.Query(ctx,
		fmt.Sprintf("%s where race_id=$1 order by finish_position nulls last, driver_id",
			selector),
		raceId)
	if err != nil {
		return nil, err
	}
	defer row.Close()
	ret := make([]*model.FactResult, 0)
	for row.Next() {
		item, err := readData(row)
		if err != nil {
			return nil, err
		}
		ret = append(ret, item)
	}
	return ret, nil
}

// deletes all classification rows of a race, returns number of rows deleted.
func DeleteByRaceId(ctx context.Context, conn repository.Querier, raceId string) (int, error) {
	cmdTag, err := conn.Exec(ctx,
		"delete from curated.fact_session_results where race_id=$1", raceId)
	if err != nil {
		return 0, err
	}
	return int(cmdTag.RowsAffected()), nil
}

func readData(row pgx.Row) (*model.FactResult, error) {
	var item model.FactResult
	if err := row.Scan(
		&item.RaceID, &item.DriverID, &item.TeamID, &item.GridPosition,
		&item.FinishPosition, &item.ClassifiedPosition, &item.Status,
		&item.Points, &item.RaceTimeMS, &item.GapToWinnerMS,
	); err != nil {
		return nil, err
	}
	return &item, nil
}
