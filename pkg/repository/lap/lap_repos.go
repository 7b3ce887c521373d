//nolint:whitespace // can't make both editor and linter happy
package lap

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/f1decoder/f1-warehouse-manager-go/pkg/model"
	"github.com/f1decoder/f1-warehouse-manager-go/pkg/repository"
)

var selector = `select race_id, driver_id, lap_number, position, lap_time_ms,
	stint, compound, tyre_life_laps, fresh_tyre, is_accurate, is_pit_in_lap,
	is_pit_out_lap, pit_in_time_ms, pit_out_time_ms, track_status_flags,
	sector1_ms, sector2_ms, sector3_ms from curated.fact_lap`

// Upsert inserts or overwrites one lap fact row keyed on
// (race_id, driver_id, lap_number).
func Upsert(ctx context.Context, conn repository.Querier, lap *model.FactLap) error {
	_, err := conn.Exec(ctx, `
	insert into curated.fact_lap (
		race_id, driver_id, lap_number, position, lap_time_ms, stint, compound,
		tyre_life_laps, fresh_tyre, is_accurate, is_pit_in_lap, is_pit_out_lap,
		pit_in_time_ms, pit_out_time_ms, track_status_flags, sector1_ms,
		sector2_ms, sector3_ms
	) values ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18)
	on conflict (race_id, driver_id, lap_number) do update set
		position=excluded.position,
		lap_time_ms=excluded.lap_time_ms,
		stint=excluded.stint,
		compound=excluded.compound,
		tyre_life_laps=excluded.tyre_life_laps,
		fresh_tyre=excluded.fresh_tyre,
		is_accurate=excluded.is_accurate,
		is_pit_in_lap=excluded.is_pit_in_lap,
		is_pit_out_lap=excluded.is_pit_out_lap,
		pit_in_time_ms=excluded.pit_in_time_ms,
		pit_out_time_ms=excluded.pit_out_time_ms,
		track_status_flags=excluded.track_status_flags,
		sector1_ms=excluded.sector1_ms,
		sector2_ms=excluded.sector2_ms,
		sector3_ms=excluded.sector3_ms
		`,
		lap.RaceID, lap.DriverID, lap.LapNumber, lap.Position, lap.LapTimeMS,
		lap.Stint, lap.Compound, lap.TyreLifeLaps, lap.FreshTyre, lap.IsAccurate,
		lap.IsPitInLap, lap.IsPitOutLap, lap.PitInTimeMS, lap.PitOutTimeMS,
		lap.TrackStatusFlags, lap.Sector1MS, lap.Sector2MS, lap.Sector3MS,
	)
	return err
}

func LoadByRaceId(ctx context.Context, conn repository.Querier, raceId string) (
	[]*model.FactLap, error,
) {
	row, err := conn.Query(ctx,
		fmt.Sprintf("%s where race_id=$1 order by driver_id, lap_number", selector),
		raceId)
	if err != nil {
		return nil, err
	}
	defer row.Close()
	ret := make([]*model.FactLap, 0)
	for row.Next() {
		item, err := readData(row)
		if err != nil {
			return nil, err
		}
		ret = append(ret, item)
	}
	return ret, nil
}

// deletes all lap facts of a race, returns number of rows deleted.
func DeleteByRaceId(ctx context.Context, conn repository.Querier, raceId string) (int, error) {
	cmdTag, err := conn.Exec(ctx, "delete from curated.fact_lap where race_id=$1", raceId)
	if err != nil {
		return 0, err
	}
	return int(cmdTag.RowsAffected()), nil
}

func readData(row pgx.Row) (*model.FactLap, error) {
	var item model.FactLap
	if err := row.Scan(
		&item.RaceID, &item.DriverID, &item.LapNumber, &item.Position,
		&item.LapTimeMS, &item.Stint, &item.Compound, &item.TyreLifeLaps,
		&item.FreshTyre, &item.IsAccurate, &item.IsPitInLap, &item.IsPitOutLap,
		&item.PitInTimeMS, &item.PitOutTimeMS, &item.TrackStatusFlags,
		&item.Sector1MS, &item.Sector2MS, &item.Sector3MS,
	); err != nil {
		return nil, err
	}
	return &item, nil
}
