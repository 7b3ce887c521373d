//nolint:whitespace,dupl // repetitive by nature
package staging

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/f1decoder/f1-warehouse-manager-go/pkg/model"
	"github.com/f1decoder/f1-warehouse-manager-go/pkg/repository"
)

var resultSelector = `select run_id, race_id, season, round, session_type,
	driver_code, driver_number, first_name, last_name, full_name, team_name,
	team_color, grid_position, finish_position, classified_position, status,
	points, race_time_ms from staging.session_results`

// ReplaceResults swaps the staged classification of one race for the
// given rows.
func ReplaceResults(
	ctx context.Context,
	conn repository.Querier,
	raceId string,
	results []*model.StagingResult,
) error {
	if _, err := conn.Exec(ctx,
		"delete from staging.session_results where race_id=$1", raceId); err != nil {
		return err
	}
	for i := range results {
		r := results[i]
		_, err := conn.Exec(ctx, `
	insert into staging.session_results (
		run_id, race_id, season, round, session_type, driver_code, driver_number,
		first_name, last_name, full_name, team_name, team_color, grid_position,
		finish_position, classified_position, status, points, race_time_ms
	) values ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18)
		`,
			r.RunID, r.RaceID, r.Season, r.Round, r.SessionType, r.DriverCode,
			r.DriverNumber, r.FirstName, r.LastName, r.FullName, r.TeamName,
			r.TeamColor, r.GridPosition, r.FinishPosition, r.ClassifiedPosition,
			r.Status, r.Points, r.RaceTimeMS,
		)
		if err != nil {
			return err
		}
	}
	return nil
}

func LoadResultsByRaceId(ctx context.Context, conn repository.Querier, raceId string) (
	[]*model.StagingResult, error,
) {
	row, err := conn.Query(ctx,
		fmt.Sprintf("%s where race_id=$1 order by driver_code", resultSelector), raceId)
	if err != nil {
		return nil, err
	}
	defer row.Close()
	ret := make([]*model.StagingResult, 0)
	for row.Next() {
		item, err := readResult(row)
		if err != nil {
			return nil, err
		}
		ret = append(ret, item)
	}
	return ret, nil
}

func readResult(row pgx.Row) (*model.StagingResult, error) {
	var item model.StagingResult
	if err := row.Scan(
		&item.RunID, &item.RaceID, &item.Season, &item.Round, &item.SessionType,
		&item.DriverCode, &item.DriverNumber, &item.FirstName, &item.LastName,
		&item.FullName, &item.TeamName, &item.TeamColor, &item.GridPosition,
		&item.FinishPosition, &item.ClassifiedPosition, &item.Status,
		&item.Points, &item.RaceTimeMS,
	); err != nil {
		return nil, err
	}
	return &item, nil
}
