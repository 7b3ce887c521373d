package transform

import (
	"time"

	"github.com/f1decoder/f1-warehouse-manager-go/log"
	"github.com/f1decoder/f1-warehouse-manager-go/pkg/model"
	"github.com/f1decoder/f1-warehouse-manager-go/pkg/timing"
	"github.com/f1decoder/f1-warehouse-manager-go/pkg/utils"
)

// RaceFromSession derives the dim_race row from session metadata.
func RaceFromSession(event timing.SessionEvent) *model.DimRace {
	ret := &model.DimRace{
		RaceID:    utils.MakeRaceID(event.Season, event.Round, event.SessionType),
		Season:    event.Season,
		Round:     event.Round,
		EventName: event.EventName,
		Circuit:   normStr(event.Circuit),
		Country:   normStr(event.Country),
	}
	if event.SessionStartUTC != nil {
		utc := event.SessionStartUTC.UTC()
		ret.RaceDateUTC = &utc
	}
	return ret
}

// BuildStagingBundle coerces one fetched session into staging rows:
// durations stay integer milliseconds, timestamps become UTC, empty
// strings become NULL. Laps without a lap number and weather samples
// without a resolvable timestamp are dropped with a logged skip.
//
//nolint:funlen // row-by-row mapping
func (t *Transformer) BuildStagingBundle(
	session *timing.SessionData,
	runID string,
) *StagingBundle {
	event := session.Event
	raceID := utils.MakeRaceID(event.Season, event.Round, event.SessionType)
	ret := &StagingBundle{
		RaceID:  raceID,
		Laps:    make([]*model.StagingLap, 0, len(session.Laps)),
		Results: make([]*model.StagingResult, 0, len(session.Results)),
		Weather: make([]*model.StagingWeather, 0, len(session.Weather)),
	}

	lapSkips := 0
	for _, l := range session.Laps {
		if l.Lap == nil {
			lapSkips++
			continue
		}
		ret.Laps = append(ret.Laps, &model.StagingLap{
			RunID:            runID,
			RaceID:           raceID,
			Season:           event.Season,
			Round:            event.Round,
			SessionType:      event.SessionType,
			DriverCode:       normStr(l.Driver),
			DriverNumber:     normStr(l.DriverNumber),
			LapNumber:        *l.Lap,
			Position:         l.Position,
			LapTimeMS:        l.LapTimeMS,
			Stint:            l.Stint,
			Compound:         normStr(l.Compound),
			TyreLifeLaps:     l.TyreLife,
			FreshTyre:        l.FreshTyre,
			IsAccurate:       l.IsAccurate,
			IsPitInLap:       l.PitInTimeMS != nil,
			IsPitOutLap:      l.PitOutTimeMS != nil,
			PitInTimeMS:      l.PitInTimeMS,
			PitOutTimeMS:     l.PitOutTimeMS,
			TrackStatusFlags: normStr(l.TrackStatus),
			Sector1MS:        l.Sector1MS,
			Sector2MS:        l.Sector2MS,
			Sector3MS:        l.Sector3MS,
		})
	}
	if lapSkips > 0 {
		t.logger.Warn("dropped laps without lap number",
			log.String("race", raceID), log.Int("count", lapSkips))
	}

	for _, r := range session.Results {
		ret.Results = append(ret.Results, &model.StagingResult{
			RunID:              runID,
			RaceID:             raceID,
			Season:             event.Season,
			Round:              event.Round,
			SessionType:        event.SessionType,
			DriverCode:         normStr(r.Abbreviation),
			DriverNumber:       normStr(r.DriverNumber),
			FirstName:          normStr(r.FirstName),
			LastName:           normStr(r.LastName),
			FullName:           normStr(r.FullName),
			TeamName:           normStr(r.TeamName),
			TeamColor:          normStr(r.TeamColor),
			GridPosition:       r.GridPosition,
			FinishPosition:     r.FinishPosition,
			ClassifiedPosition: normStr(r.ClassifiedPosition),
			Status:             normStr(r.Status),
			Points:             r.Points,
			RaceTimeMS:         r.RaceTimeMS,
		})
	}

	weatherSkips := 0
	for _, w := range session.Weather {
		var ts *model.StagingWeather
		switch {
		case w.TimestampUTC != nil:
			utc := w.TimestampUTC.UTC()
			ts = &model.StagingWeather{TimestampUTC: utc}
		case w.OffsetMS != nil && event.SessionStartUTC != nil:
			utc := event.SessionStartUTC.UTC().
				Add(time.Duration(*w.OffsetMS) * time.Millisecond)
			ts = &model.StagingWeather{TimestampUTC: utc}
		default:
			weatherSkips++
			continue
		}
		ts.RunID = runID
		ts.RaceID = raceID
		ts.AirTempC = w.AirTempC
		ts.TrackTempC = w.TrackTempC
		ts.HumidityPct = w.HumidityPct
		ts.PressureMbar = w.PressureMbar
		ts.Rainfall = w.Rainfall
		ts.WindDirDeg = w.WindDirDeg
		ts.WindSpeedMS = w.WindSpeedMS
		ret.Weather = append(ret.Weather, ts)
	}
	if weatherSkips > 0 {
		t.logger.Warn("dropped weather samples without timestamp",
			log.String("race", raceID), log.Int("count", weatherSkips))
	}

	return ret
}
