//nolint:whitespace,dupl // repetitive by nature
package marts

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/f1decoder/f1-warehouse-manager-go/pkg/model"
	"github.com/f1decoder/f1-warehouse-manager-go/pkg/repository"
)

var stintSummarySelector = `select race_id, driver_id, stint, start_lap,
	end_lap, compound, stint_laps, median_lap_ms, avg_lap_ms, pit_lap
	from marts.mart_stint_summary`

// ReplaceStintSummary rebuilds the stint summary of one race from scratch.
func ReplaceStintSummary(
	ctx context.Context,
	conn repository.Querier,
	raceId string,
	rows []*model.StintSummaryRow,
) error {
	if _, err := conn.Exec(ctx,
		"delete from marts.mart_stint_summary where race_id=$1", raceId); err != nil {
		return err
	}
	for i := range rows {
		r := rows[i]
		_, err := conn.Exec(ctx, `
	insert into marts.mart_stint_summary (
		race_id, driver_id, stint, start_lap, end_lap, compound, stint_laps,
		median_lap_ms, avg_lap_ms, pit_lap
	) values ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
		`,
			r.RaceID, r.DriverID, r.Stint, r.StartLap, r.EndLap, r.Compound,
			r.StintLaps, r.MedianLapMS, r.AvgLapMS, r.PitLap,
		)
		if err != nil {
			return err
		}
	}
	return nil
}

func LoadStintSummaryByRaceId(ctx context.Context, conn repository.Querier, raceId string) (
	[]*model.StintSummaryRow, error,
) {
	row, err := conn.Query(ctx,
		fmt.Sprintf("%s where race_id=$1 order by driver_id, stint",
			stintSummarySelector),
		raceId)
	if err != nil {
		return nil, err
	}
	defer row.Close()
	ret := make([]*model.StintSummaryRow, 0)
	for row.Next() {
		item, err := readStintSummary(row)
		if err != nil {
			return nil, err
		}
		ret = append(ret, item)
	}
	return ret, nil
}

func readStintSummary(row pgx.Row) (*model.StintSummaryRow, error) {
	var item model.StintSummaryRow
	if err := row.Scan(
		&item.RaceID, &item.DriverID, &item.Stint, &item.StartLap, &item.EndLap,
		&item.Compound, &item.StintLaps, &item.MedianLapMS, &item.AvgLapMS,
		&item.PitLap,
	); err != nil {
		return nil, err
	}
	return &item, nil
}
