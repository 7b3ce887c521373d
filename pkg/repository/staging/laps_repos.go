//nolint:whitespace,dupl // repetitive by nature
package staging

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/f1decoder/f1-warehouse-manager-go/pkg/model"
	"github.com/f1decoder/f1-warehouse-manager-go/pkg/repository"
)

var lapSelector = `select run_id, race_id, season, round, session_type,
	driver_code, driver_number, lap_number, position, lap_time_ms, stint,
	compound, tyre_life_laps, fresh_tyre, is_accurate, is_pit_in_lap,
	is_pit_out_lap, pit_in_time_ms, pit_out_time_ms, track_status_flags,
	sector1_ms, sector2_ms, sector3_ms from staging.session_laps`

// ReplaceLaps swaps the staged laps of one race for the given rows.
// Staging never mixes rows of two runs for the same race.
func ReplaceLaps(
	ctx context.Context,
	conn repository.Querier,
	raceId string,
	laps []*model.StagingLap,
) error {
	if _, err := conn.Exec(ctx,
		"delete from staging.session_laps where race_id=$1", raceId); err != nil {
		return err
	}
	for i := range laps {
		l := laps[i]
		_, err := conn.Exec(ctx, `
	insert into staging.session_laps (
		run_id, race_id, season, round, session_type, driver_code, driver_number,
		lap_number, position, lap_time_ms, stint, compound, tyre_life_laps,
		fresh_tyre, is_accurate, is_pit_in_lap, is_pit_out_lap, pit_in_time_ms,
		pit_out_time_ms, track_status_flags, sector1_ms, sector2_ms, sector3_ms
	) values ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,
		$19,$20,$21,$22,$23)
		`,
			l.RunID, l.RaceID, l.Season, l.Round, l.SessionType, l.DriverCode,
			l.DriverNumber, l.LapNumber, l.Position, l.LapTimeMS, l.Stint,
			l.Compound, l.TyreLifeLaps, l.FreshTyre, l.IsAccurate, l.IsPitInLap,
			l.IsPitOutLap, l.PitInTimeMS, l.PitOutTimeMS, l.TrackStatusFlags,
			l.Sector1MS, l.Sector2MS, l.Sector3MS,
		)
		if err != nil {
			return err
		}
	}
	return nil
}

func LoadLapsByRaceId(ctx context.Context, conn repository.Querier, raceId string) (
	[]*model.StagingLap, error,
) {
	row, err := conn.Query(ctx,
		fmt.Sprintf("%s where race_id=$1 order by driver_code, lap_number", lapSelector),
		raceId)
	if err != nil {
		return nil, err
	}
	defer row.Close()
	ret := make([]*model.StagingLap, 0)
	for row.Next() {
		item, err := readLap(row)
		if err != nil {
			return nil, err
		}
		ret = append(ret, item)
	}
	return ret, nil
}

func readLap(row pgx.Row) (*model.StagingLap, error) {
	var item model.StagingLap
	if err := row.Scan(
		&item.RunID, &item.RaceID, &item.Season, &item.Round, &item.SessionType,
		&item.DriverCode, &item.DriverNumber, &item.LapNumber, &item.Position,
		&item.LapTimeMS, &item.Stint, &item.Compound, &item.TyreLifeLaps,
		&item.FreshTyre, &item.IsAccurate, &item.IsPitInLap, &item.IsPitOutLap,
		&item.PitInTimeMS, &item.PitOutTimeMS, &item.TrackStatusFlags,
		&item.Sector1MS, &item.Sector2MS, &item.Sector3MS,
	); err != nil {
		return nil, err
	}
	return &item, nil
}
