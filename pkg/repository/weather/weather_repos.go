//nolint:whitespace // can't make both editor and linter happy
package weather

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/f1decoder/f1-warehouse-manager-go/pkg/model"
	"github.com/f1decoder/f1-warehouse-manager-go/pkg/repository"
)

var selector = `select race_id, timestamp_utc, air_temp_c, track_temp_c,
	humidity_pct, pressure_mbar, rainfall, wind_dir_deg, wind_speed_ms
	from curated.fact_weather_minute`

// Upsert inserts or overwrites one minute bucket keyed on
// (race_id, timestamp_utc).
func Upsert(ctx context.Context, conn repository.Querier, w *model.FactWeatherMinute) error {
	_, err := conn.Exec(ctx, `
	insert into curated.fact_weather_minute (
		race_id, timestamp_utc, air_temp_c, track_temp_c, humidity_pct,
		pressure_mbar, rainfall, wind_dir_deg, wind_speed_ms
	) values ($1,$2,$3,$4,$5,$6,$7,$8,$9)
	on conflict (race_id, timestamp_utc) do update set
		air_temp_c=excluded.air_temp_c,
		track_temp_c=excluded.track_temp_c,
		humidity_pct=excluded.humidity_pct,
		pressure_mbar=excluded.pressure_mbar,
		rainfall=excluded.rainfall,
		wind_dir_deg=excluded.wind_dir_deg,
		wind_speed_ms=excluded.wind_speed_ms
		`,
		w.RaceID, w.TimestampUTC, w.AirTempC, w.TrackTempC, w.HumidityPct,
		w.PressureMbar, w.Rainfall, w.WindDirDeg, w.WindSpeedMS,
	)
	return err
}

func LoadByRaceId(ctx context.Context, conn repository.Querier, raceId string) (
	[]*model.FactWeatherMinute, error,
) {
	row, err := conn.Query(ctx,
		fmt.Sprintf("%s where race_id=$1 order by timestamp_utc", selector), raceId)
	if err != nil {
		return nil, err
	}
	defer row.Close()
	ret := make([]*model.FactWeatherMinute, 0)
	for row.Next() {
		item, err := readData(row)
		if err != nil {
			return nil, err
		}
		ret = append(ret, item)
	}
	return ret, nil
}

// deletes all weather rows of a race, returns number of rows deleted.
func DeleteByRaceId(ctx context.Context, conn repository.Querier, raceId string) (int, error) {
	cmdTag, err := conn.Exec(ctx,
		"delete from curated.fact_weather_minute where race_id=$1", raceId)
	if err != nil {
		return 0, err
	}
	return int(cmdTag.RowsAffected()), nil
}

func readData(row pgx.Row) (*model.FactWeatherMinute, error) {
	var item model.FactWeatherMinute
	if err := row.Scan(
		&item.RaceID, &item.TimestampUTC, &item.AirTempC, &item.TrackTempC,
		&item.HumidityPct, &item.PressureMbar, &item.Rainfall, &item.WindDirDeg,
		&item.WindSpeedMS,
	); err != nil {
		return nil, err
	}
	return &item, nil
}
