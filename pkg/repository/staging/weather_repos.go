//nolint:whitespace,dupl // repetitive by nature
package staging

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/f1decoder/f1-warehouse-manager-go/pkg/model"
	"github.com/f1decoder/f1-warehouse-manager-go/pkg/repository"
)

var weatherSelector = `select run_id, race_id, timestamp_utc, air_temp_c,
	track_temp_c, humidity_pct, pressure_mbar, rainfall, wind_dir_deg,
	wind_speed_ms from staging.session_weather`

// ReplaceWeather swaps the staged weather samples of one race for the
// given rows.
func ReplaceWeather(
	ctx context.Context,
	conn repository.Querier,
	raceId string,
	samples []*model.StagingWeather,
) error {
	if _, err := conn.Exec(ctx,
		"delete from staging.session_weather where race_id=$1", raceId); err != nil {
		return err
	}
	for i := range samples {
		w := samples[i]
		_, err := conn.Exec(ctx, `
	insert into staging.session_weather (
		run_id, race_id, timestamp_utc, air_temp_c, track_temp_c, humidity_pct,
		pressure_mbar, rainfall, wind_dir_deg, wind_speed_ms
	) values ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
		`,
			w.RunID, w.RaceID, w.TimestampUTC, w.AirTempC, w.TrackTempC,
			w.HumidityPct, w.PressureMbar, w.Rainfall, w.WindDirDeg, w.WindSpeedMS,
		)
		if err != nil {
			return err
		}
	}
	return nil
}

func LoadWeatherByRaceId(ctx context.Context, conn repository.Querier, raceId string) (
	[]*model.StagingWeather, error,
) {
	row, err := conn.Query(ctx,
		fmt.Sprintf("%s where race_id=$1 order by timestamp_utc", weatherSelector), raceId)
	if err != nil {
		return nil, err
	}
	defer row.Close()
	ret := make([]*model.StagingWeather, 0)
	for row.Next() {
		item, err := readWeather(row)
		if err != nil {
			return nil, err
		}
		ret = append(ret, item)
	}
	return ret, nil
}

func readWeather(row pgx.Row) (*model.StagingWeather, error) {
	var item model.StagingWeather
	if err := row.Scan(
		&item.RunID, &item.RaceID, &item.TimestampUTC, &item.AirTempC,
		&item.TrackTempC, &item.HumidityPct, &item.PressureMbar, &item.Rainfall,
		&item.WindDirDeg, &item.WindSpeedMS,
	); err != nil {
		return nil, err
	}
	return &item, nil
}
