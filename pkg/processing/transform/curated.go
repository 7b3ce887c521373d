//nolint:whitespace // can't make both editor and linter happy
package transform

import (
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/f1decoder/f1-warehouse-manager-go/log"
	"github.com/f1decoder/f1-warehouse-manager-go/pkg/model"
	"github.com/f1decoder/f1-warehouse-manager-go/pkg/utils"
)

// UnknownCompound marks laps whose tyre data never arrived. Synthetic
// stints carry it so every driver keeps full lap-to-stint coverage.
const UnknownCompound = "UNKNOWN"

// BuildCuratedBundle derives all dimension and fact rows of one race
// from its staging rows. Rows lacking required keys (driver code, lap
// number) are skipped with a logged count, never fatal.
func (t *Transformer) BuildCuratedBundle(
	race *model.DimRace,
	laps []*model.StagingLap,
	results []*model.StagingResult,
	weather []*model.StagingWeather,
) *CuratedBundle {
	ret := &CuratedBundle{Race: race}
	ret.Drivers = t.buildDrivers(laps, results)
	ret.Teams = buildTeams(results)
	ret.DriverTeams = buildDriverTeams(race.Season, results)
	ret.Laps = t.buildFactLaps(race.RaceID, laps)
	ret.Results = t.buildFactResults(race.RaceID, results)
	ret.RaceControl = buildRaceControl(race.RaceID, laps)
	ret.Weather = foldWeather(race.RaceID, weather)
	return ret
}

type driverCandidate struct {
	code   string
	number *string
	first  *string
	last   *string
	full   *string
}

func (c *driverCandidate) completeness() int {
	ret := 0
	for _, v := range []*string{c.number, c.first, c.last, c.full} {
		if v != nil {
			ret++
		}
	}
	return ret
}

// buildDrivers merges the results-side and laps-side identities per
// driver code, keeping the most complete one. The ID depends on the
// code only.
func (t *Transformer) buildDrivers(
	laps []*model.StagingLap,
	results []*model.StagingResult,
) []*model.DimDriver {
	byCode := make(map[string]*driverCandidate)
	upsert := func(cand *driverCandidate) {
		prev, ok := byCode[cand.code]
		if !ok || cand.completeness() > prev.completeness() {
			byCode[cand.code] = cand
		}
	}
	for _, r := range results {
		if r.DriverCode == nil {
			continue
		}
		upsert(&driverCandidate{
			code:   *r.DriverCode,
			number: r.DriverNumber,
			first:  r.FirstName,
			last:   r.LastName,
			full:   r.FullName,
		})
	}
	for _, l := range laps {
		if l.DriverCode == nil {
			continue
		}
		upsert(&driverCandidate{code: *l.DriverCode, number: l.DriverNumber})
	}

	codes := make([]string, 0, len(byCode))
	for code := range byCode {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	ret := make([]*model.DimDriver, 0, len(codes))
	for _, code := range codes {
		cand := byCode[code]
		ret = append(ret, &model.DimDriver{
			DriverID:     utils.DriverID(code),
			DriverCode:   code,
			DriverNumber: cand.number,
			FirstName:    cand.first,
			LastName:     cand.last,
			FullName:     cand.full,
		})
	}
	return ret
}

func buildTeams(results []*model.StagingResult) []*model.DimTeam {
	byName := make(map[string]*model.DimTeam)
	for _, r := range results {
		if r.TeamName == nil {
			continue
		}
		entry, ok := byName[*r.TeamName]
		if !ok {
			entry = &model.DimTeam{
				TeamID:   utils.TeamID(*r.TeamName),
				TeamName: *r.TeamName,
			}
			byName[*r.TeamName] = entry
		}
		if entry.TeamColor == nil {
			entry.TeamColor = r.TeamColor
		}
	}

	names := make([]string, 0, len(byName))
	for name := range byName {
		names = append(names, name)
	}
	sort.Strings(names)
	ret := make([]*model.DimTeam, 0, len(names))
	for _, name := range names {
		ret = append(ret, byName[name])
	}
	return ret
}

func buildDriverTeams(season int, results []*model.StagingResult) []*model.DriverTeamSeason {
	seen := make(map[string]bool)
	ret := make([]*model.DriverTeamSeason, 0, len(results))
	for _, r := range results {
		if r.DriverCode == nil || r.TeamName == nil {
			continue
		}
		driverID := utils.DriverID(*r.DriverCode)
		teamID := utils.TeamID(*r.TeamName)
		key := driverID + "|" + teamID
		if seen[key] {
			continue
		}
		seen[key] = true
		ret = append(ret, &model.DriverTeamSeason{
			Season:   season,
			DriverID: driverID,
			TeamID:   teamID,
		})
	}
	sort.Slice(ret, func(i, j int) bool {
		if ret[i].DriverID != ret[j].DriverID {
			return ret[i].DriverID < ret[j].DriverID
		}
		return ret[i].TeamID < ret[j].TeamID
	})
	return ret
}

// buildFactLaps maps staging laps onto fact rows and closes the stint
// coverage: contiguous runs of laps without a stint number become
// synthetic stints numbered after the driver's highest real stint, and
// laps without a compound get the UNKNOWN sentinel.
func (t *Transformer) buildFactLaps(
	raceID string,
	laps []*model.StagingLap,
) []*model.FactLap {
	skips := 0
	byDriver := make(map[string][]*model.StagingLap)
	for _, l := range laps {
		if l.DriverCode == nil {
			skips++
			continue
		}
		byDriver[*l.DriverCode] = append(byDriver[*l.DriverCode], l)
	}
	if skips > 0 {
		t.logger.Warn("skipping laps without driver code",
			log.String("race", raceID), log.Int("count", skips))
	}

	codes := make([]string, 0, len(byDriver))
	for code := range byDriver {
		codes = append(codes, code)
	}
	sort.Strings(codes)

	ret := make([]*model.FactLap, 0, len(laps))
	for _, code := range codes {
		driverLaps := byDriver[code]
		sort.SliceStable(driverLaps, func(i, j int) bool {
			return driverLaps[i].LapNumber < driverLaps[j].LapNumber
		})
		maxReal := 0
		for _, l := range driverLaps {
			if l.Stint != nil && *l.Stint > maxReal {
				maxReal = *l.Stint
			}
		}
		driverID := utils.DriverID(code)
		synthetic := maxReal
		inRun := false
		for _, l := range driverLaps {
			stint := l.Stint
			if stint != nil && *stint > 0 {
				inRun = false
			} else {
				if !inRun {
					synthetic++
					inRun = true
				}
				assigned := synthetic
				stint = &assigned
			}
			compound := l.Compound
			if compound == nil {
				sentinel := UnknownCompound
				compound = &sentinel
			}
			ret = append(ret, &model.FactLap{
				RaceID:           raceID,
				DriverID:         driverID,
				LapNumber:        l.LapNumber,
				Position:         l.Position,
				LapTimeMS:        l.LapTimeMS,
				Stint:            stint,
				Compound:         compound,
				TyreLifeLaps:     l.TyreLifeLaps,
				FreshTyre:        l.FreshTyre,
				IsAccurate:       l.IsAccurate,
				IsPitInLap:       l.IsPitInLap,
				IsPitOutLap:      l.IsPitOutLap,
				PitInTimeMS:      l.PitInTimeMS,
				PitOutTimeMS:     l.PitOutTimeMS,
				TrackStatusFlags: l.TrackStatusFlags,
				Sector1MS:        l.Sector1MS,
				Sector2MS:        l.Sector2MS,
				Sector3MS:        l.Sector3MS,
			})
		}
	}
	return ret
}

// buildFactResults resolves dimension IDs and derives gap_to_winner_ms
// from the winner's race time. The gap stays NULL when either side has
// no time.
func (t *Transformer) buildFactResults(
	raceID string,
	results []*model.StagingResult,
) []*model.FactResult {
	var winnerTime *int64
	for _, r := range results {
		if r.FinishPosition != nil && *r.FinishPosition == 1 {
			winnerTime = r.RaceTimeMS
			break
		}
	}

	skips := 0
	ret := make([]*model.FactResult, 0, len(results))
	for _, r := range results {
		if r.DriverCode == nil {
			skips++
			continue
		}
		item := &model.FactResult{
			RaceID:             raceID,
			DriverID:           utils.DriverID(*r.DriverCode),
			GridPosition:       r.GridPosition,
			FinishPosition:     r.FinishPosition,
			ClassifiedPosition: r.ClassifiedPosition,
			Status:             r.Status,
			RaceTimeMS:         r.RaceTimeMS,
		}
		if r.TeamName != nil {
			teamID := utils.TeamID(*r.TeamName)
			item.TeamID = &teamID
		}
		if r.Points != nil {
			item.Points = decimal.NewNullDecimal(decimal.NewFromFloat(*r.Points))
		}
		if winnerTime != nil && r.RaceTimeMS != nil {
			gap := *r.RaceTimeMS - *winnerTime
			item.GapToWinnerMS = &gap
		}
		ret = append(ret, item)
	}
	if skips > 0 {
		t.logger.Warn("skipping results without driver code",
			log.String("race", raceID), log.Int("count", skips))
	}
	sort.Slice(ret, func(i, j int) bool { return ret[i].DriverID < ret[j].DriverID })
	return ret
}

// buildRaceControl aggregates the per-driver track status digit codes
// into one flag row per lap (SC=4, VSC=6|7, red=5, yellow=2|3).
func buildRaceControl(raceID string, laps []*model.StagingLap) []*model.FactRaceControl {
	byLap := make(map[int]*model.FactRaceControl)
	for _, l := range laps {
		entry, ok := byLap[l.LapNumber]
		if !ok {
			entry = &model.FactRaceControl{RaceID: raceID, LapNumber: l.LapNumber}
			byLap[l.LapNumber] = entry
		}
		if l.TrackStatusFlags == nil {
			continue
		}
		flags := *l.TrackStatusFlags
		entry.IsSC = entry.IsSC || strings.ContainsRune(flags, '4')
		entry.IsVSC = entry.IsVSC || strings.ContainsAny(flags, "67")
		entry.IsRedFlag = entry.IsRedFlag || strings.ContainsRune(flags, '5')
		entry.IsYellowFlag = entry.IsYellowFlag || strings.ContainsAny(flags, "23")
	}

	ret := make([]*model.FactRaceControl, 0, len(byLap))
	for _, entry := range byLap {
		ret = append(ret, entry)
	}
	sort.Slice(ret, func(i, j int) bool { return ret[i].LapNumber < ret[j].LapNumber })
	return ret
}

type meanAcc struct {
	sum float64
	n   int
}

func (a *meanAcc) add(v *float64) {
	if v != nil {
		a.sum += *v
		a.n++
	}
}

func (a *meanAcc) mean() *float64 {
	if a.n == 0 {
		return nil
	}
	m := a.sum / float64(a.n)
	return &m
}

type weatherBucket struct {
	air, track, humidity, pressure, windDir, windSpeed meanAcc
	rainAny                                            bool
	rainSeen                                           bool
}

// foldWeather folds raw samples into minute buckets: mean for the
// numeric fields, max for rainfall.
func foldWeather(raceID string, weather []*model.StagingWeather) []*model.FactWeatherMinute {
	buckets := make(map[time.Time]*weatherBucket)
	for _, w := range weather {
		minute := w.TimestampUTC.UTC().Truncate(time.Minute)
		bucket, ok := buckets[minute]
		if !ok {
			bucket = &weatherBucket{}
			buckets[minute] = bucket
		}
		bucket.air.add(w.AirTempC)
		bucket.track.add(w.TrackTempC)
		bucket.humidity.add(w.HumidityPct)
		bucket.pressure.add(w.PressureMbar)
		bucket.windDir.add(w.WindDirDeg)
		bucket.windSpeed.add(w.WindSpeedMS)
		if w.Rainfall != nil {
			bucket.rainSeen = true
			bucket.rainAny = bucket.rainAny || *w.Rainfall
		}
	}

	minutes := make([]time.Time, 0, len(buckets))
	for minute := range buckets {
		minutes = append(minutes, minute)
	}
	sort.Slice(minutes, func(i, j int) bool { return minutes[i].Before(minutes[j]) })
	ret := make([]*model.FactWeatherMinute, 0, len(minutes))
	for _, minute := range minutes {
		bucket := buckets[minute]
		item := &model.FactWeatherMinute{
			RaceID:       raceID,
			TimestampUTC: minute,
			AirTempC:     bucket.air.mean(),
			TrackTempC:   bucket.track.mean(),
			HumidityPct:  bucket.humidity.mean(),
			PressureMbar: bucket.pressure.mean(),
			WindDirDeg:   bucket.windDir.mean(),
			WindSpeedMS:  bucket.windSpeed.mean(),
		}
		if bucket.rainSeen {
			rain := bucket.rainAny
			item.Rainfall = &rain
		}
		ret = append(ret, item)
	}
	return ret
}
