//nolint:whitespace,funlen // long selects
package analysis

import (
	"context"

	"github.com/f1decoder/f1-warehouse-manager-go/pkg/model"
	"github.com/f1decoder/f1-warehouse-manager-go/pkg/repository"
)

// The dashboard never writes and never touches staging. Everything it
// renders comes from the queries in this package.

// LoadIngestedRaces returns the season's races available to the
// dashboard, in round order.
func LoadIngestedRaces(ctx context.Context, conn repository.Querier, season int) (
	[]*model.RaceCatalogEntry, error,
) {
	row, err := conn.Query(ctx, `
	select race_id, season, round, event_name, circuit, country,
		race_datetime_utc, source_event_key, session_type, is_ingested,
		last_ingested_at, wikipedia_url, formula1_url
	from metadata.races_catalog
	where season=$1 and session_type='R' and is_ingested
	order by round
	`, season)
	if err != nil {
		return nil, err
	}
	defer row.Close()
	ret := make([]*model.RaceCatalogEntry, 0)
	for row.Next() {
		var item model.RaceCatalogEntry
		if err := row.Scan(
			&item.RaceID, &item.Season, &item.Round, &item.EventName, &item.Circuit,
			&item.Country, &item.RaceDatetimeUTC, &item.SourceEventKey,
			&item.SessionType, &item.IsIngested, &item.LastIngestedAt,
			&item.WikipediaURL, &item.Formula1URL,
		); err != nil {
			return nil, err
		}
		ret = append(ret, &item)
	}
	return ret, nil
}

// LoadGapTimeline returns the gap timeline with leader and P2 resolved
// to driver attributes.
func LoadGapTimeline(ctx context.Context, conn repository.Querier, raceId string) (
	[]*model.GapAnalysisRow, error,
) {
	row, err := conn.Query(ctx, `
	select g.race_id, g.lap_number, g.leader_driver_id, g.p2_driver_id,
		g.gap_p2_to_leader_ms,
		d1.driver_code as leader_driver_code, d1.full_name as leader_full_name,
		d2.driver_code as p2_driver_code, d2.full_name as p2_full_name
	from marts.mart_gap_timeline g
	left join curated.dim_driver d1 on d1.driver_id = g.leader_driver_id
	left join curated.dim_driver d2 on d2.driver_id = g.p2_driver_id
	where g.race_id=$1
	order by g.lap_number
	`, raceId)
	if err != nil {
		return nil, err
	}
	defer row.Close()
	ret := make([]*model.GapAnalysisRow, 0)
	for row.Next() {
		var item model.GapAnalysisRow
		if err := row.Scan(
			&item.RaceID, &item.LapNumber, &item.LeaderDriverID, &item.P2DriverID,
			&item.GapP2ToLeaderMS, &item.LeaderDriverCode, &item.LeaderFullName,
			&item.P2DriverCode, &item.P2FullName,
		); err != nil {
			return nil, err
		}
		ret = append(ret, &item)
	}
	return ret, nil
}

// LoadPitMarkers returns the laps on which each driver entered the pits.
func LoadPitMarkers(ctx context.Context, conn repository.Querier, raceId string) (
	[]*model.PitMarker, error,
) {
	row, err := conn.Query(ctx, `
	select f.race_id, f.driver_id, f.lap_number, d.driver_code, d.full_name
	from curated.fact_lap f
	left join curated.dim_driver d on d.driver_id = f.driver_id
	where f.race_id=$1 and f.is_pit_in_lap
	order by f.lap_number
	`, raceId)
	if err != nil {
		return nil, err
	}
	defer row.Close()
	ret := make([]*model.PitMarker, 0)
	for row.Next() {
		var item model.PitMarker
		if err := row.Scan(
			&item.RaceID, &item.DriverID, &item.LapNumber, &item.DriverCode,
			&item.FullName,
		); err != nil {
			return nil, err
		}
		ret = append(ret, &item)
	}
	return ret, nil
}

// LoadPositions returns the position chart with driver and team
// attributes resolved.
func LoadPositions(ctx context.Context, conn repository.Querier, raceId string) (
	[]*model.PositionAnalysisRow, error,
) {
	row, err := conn.Query(ctx, `
	select p.race_id, p.driver_id, p.lap_number, p.position, p.team_id,
		d.driver_code, d.full_name, t.team_color, t.team_name
	from marts.mart_position_chart p
	left join curated.dim_driver d on d.driver_id = p.driver_id
	left join curated.dim_team t on t.team_id = p.team_id
	where p.race_id=$1
	order by p.lap_number
	`, raceId)
	if err != nil {
		return nil, err
	}
	defer row.Close()
	ret := make([]*model.PositionAnalysisRow, 0)
	for row.Next() {
		var item model.PositionAnalysisRow
		if err := row.Scan(
			&item.RaceID, &item.DriverID, &item.LapNumber, &item.Position,
			&item.TeamID, &item.DriverCode, &item.FullName, &item.TeamColor,
			&item.TeamName,
		); err != nil {
			return nil, err
		}
		ret = append(ret, &item)
	}
	return ret, nil
}

// LoadStints returns the stint summary with driver and team attributes.
// The team comes from the driver's classified entry of the same race.
func LoadStints(ctx context.Context, conn repository.Querier, raceId string) (
	[]*model.StintAnalysisRow, error,
) {
	row, err := conn.Query(ctx, `
	select s.race_id, s.driver_id, s.stint, s.start_lap, s.end_lap, s.compound,
		s.stint_laps, s.median_lap_ms, s.avg_lap_ms, s.pit_lap,
		d.driver_code, d.full_name, t.team_color, t.team_name
	from marts.mart_stint_summary s
	left join curated.dim_driver d on d.driver_id = s.driver_id
	left join curated.fact_session_results r
		on r.race_id = s.race_id and r.driver_id = s.driver_id
	left join curated.dim_team t on t.team_id = r.team_id
	where s.race_id=$1
	order by d.driver_code, s.stint
	`, raceId)
	if err != nil {
		return nil, err
	}
	defer row.Close()
	ret := make([]*model.StintAnalysisRow, 0)
	for row.Next() {
		var item model.StintAnalysisRow
		if err := row.Scan(
			&item.RaceID, &item.DriverID, &item.Stint, &item.StartLap, &item.EndLap,
			&item.Compound, &item.StintLaps, &item.MedianLapMS, &item.AvgLapMS,
			&item.PitLap, &item.DriverCode, &item.FullName, &item.TeamColor,
			&item.TeamName,
		); err != nil {
			return nil, err
		}
		ret = append(ret, &item)
	}
	return ret, nil
}

// LoadResults returns the classification with driver and team attributes.
func LoadResults(ctx context.Context, conn repository.Querier, raceId string) (
	[]*model.ResultAnalysisRow, error,
) {
	row, err := conn.Query(ctx, `
	select r.driver_id, r.team_id, r.grid_position, r.finish_position,
		r.classified_position, r.status, r.points, r.race_time_ms,
		r.gap_to_winner_ms, d.driver_code, d.full_name, t.team_name, t.team_color
	from curated.fact_session_results r
	left join curated.dim_driver d on d.driver_id = r.driver_id
	left join curated.dim_team t on t.team_id = r.team_id
	where r.race_id=$1
	order by r.finish_position nulls last
	`, raceId)
	if err != nil {
		return nil, err
	}
	defer row.Close()
	ret := make([]*model.ResultAnalysisRow, 0)
	for row.Next() {
		var item model.ResultAnalysisRow
		if err := row.Scan(
			&item.DriverID, &item.TeamID, &item.GridPosition, &item.FinishPosition,
			&item.ClassifiedPosition, &item.Status, &item.Points, &item.RaceTimeMS,
			&item.GapToWinnerMS, &item.DriverCode, &item.FullName, &item.TeamName,
			&item.TeamColor,
		); err != nil {
			return nil, err
		}
		ret = append(ret, &item)
	}
	return ret, nil
}

// LoadLapTimes returns every lap with driver and team attributes for the
// lap time explorer.
func LoadLapTimes(ctx context.Context, conn repository.Querier, raceId string) (
	[]*model.LapTimeAnalysisRow, error,
) {
	row, err := conn.Query(ctx, `
	select f.race_id, f.driver_id, f.lap_number, f.lap_time_ms, f.sector1_ms,
		f.sector2_ms, f.sector3_ms, f.compound, f.tyre_life_laps, f.position,
		f.is_pit_in_lap, f.is_pit_out_lap, f.is_accurate,
		d.driver_code, d.full_name, t.team_name, t.team_color
	from curated.fact_lap f
	left join curated.dim_driver d on d.driver_id = f.driver_id
	left join curated.fact_session_results r
		on r.race_id = f.race_id and r.driver_id = f.driver_id
	left join curated.dim_team t on t.team_id = r.team_id
	where f.race_id=$1
	order by f.lap_number, d.driver_code
	`, raceId)
	if err != nil {
		return nil, err
	}
	defer row.Close()
	ret := make([]*model.LapTimeAnalysisRow, 0)
	for row.Next() {
		var item model.LapTimeAnalysisRow
		if err := row.Scan(
			&item.RaceID, &item.DriverID, &item.LapNumber, &item.LapTimeMS,
			&item.Sector1MS, &item.Sector2MS, &item.Sector3MS, &item.Compound,
			&item.TyreLifeLaps, &item.Position, &item.IsPitInLap, &item.IsPitOutLap,
			&item.IsAccurate, &item.DriverCode, &item.FullName, &item.TeamName,
			&item.TeamColor,
		); err != nil {
			return nil, err
		}
		ret = append(ret, &item)
	}
	return ret, nil
}

// LoadRaceControl returns the per-lap flag rows for the track state
// bands behind the charts.
func LoadRaceControl(ctx context.Context, conn repository.Querier, raceId string) (
	[]*model.FactRaceControl, error,
) {
	row, err := conn.Query(ctx, `
	select race_id, lap_number, is_sc, is_vsc, is_red_flag, is_yellow_flag
	from curated.fact_race_control
	where race_id=$1
	order by lap_number
	`, raceId)
	if err != nil {
		return nil, err
	}
	defer row.Close()
	ret := make([]*model.FactRaceControl, 0)
	for row.Next() {
		var item model.FactRaceControl
		if err := row.Scan(
			&item.RaceID, &item.LapNumber, &item.IsSC, &item.IsVSC,
			&item.IsRedFlag, &item.IsYellowFlag,
		); err != nil {
			return nil, err
		}
		ret = append(ret, &item)
	}
	return ret, nil
}

// LoadWeather returns the minute weather series the dashboard plots,
// without the pressure and wind fields it never renders.
func LoadWeather(ctx context.Context, conn repository.Querier, raceId string) (
	[]*model.WeatherAnalysisRow, error,
) {
	row, err := conn.Query(ctx, `
	select race_id, timestamp_utc, air_temp_c, track_temp_c, humidity_pct, rainfall
	from curated.fact_weather_minute
	where race_id=$1
	order by timestamp_utc
	`, raceId)
	if err != nil {
		return nil, err
	}
	defer row.Close()
	ret := make([]*model.WeatherAnalysisRow, 0)
	for row.Next() {
		var item model.WeatherAnalysisRow
		if err := row.Scan(
			&item.RaceID, &item.TimestampUTC, &item.AirTempC, &item.TrackTempC,
			&item.HumidityPct, &item.Rainfall,
		); err != nil {
			return nil, err
		}
		ret = append(ret, &item)
	}
	return ret, nil
}

// LoadRaceDrivers returns the classified participants of a race in
// finishing order.
func LoadRaceDrivers(ctx context.Context, conn repository.Querier, raceId string) (
	[]*model.RaceDriver, error,
) {
	row, err := conn.Query(ctx, `
	select d.driver_id, d.driver_code, d.full_name, t.team_name, r.finish_position
	from curated.fact_session_results r
	join curated.dim_driver d on d.driver_id = r.driver_id
	left join curated.dim_team t on t.team_id = r.team_id
	where r.race_id=$1
	order by r.finish_position nulls last, d.driver_code
	`, raceId)
	if err != nil {
		return nil, err
	}
	defer row.Close()
	ret := make([]*model.RaceDriver, 0)
	for row.Next() {
		var item model.RaceDriver
		if err := row.Scan(
			&item.DriverID, &item.DriverCode, &item.FullName, &item.TeamName,
			&item.FinishPosition,
		); err != nil {
			return nil, err
		}
		ret = append(ret, &item)
	}
	return ret, nil
}
