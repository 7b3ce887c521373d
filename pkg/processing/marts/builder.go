//nolint:whitespace // can't make both editor and linter happy
package marts

import (
	"cmp"
	"math"
	"slices"
	"sort"

	"github.com/f1decoder/f1-warehouse-manager-go/pkg/model"
)

// Mart rows are recomputed from curated facts on every load. The
// builders are pure; persistence is the caller's concern.

type elapsedEntry struct {
	driverID string
	elapsed  int64
}

// BuildGapTimeline computes the per-lap leader, P2 and their gap from
// cumulative lap times. Laps where fewer than two drivers have timing
// yield no row.
func BuildGapTimeline(raceID string, laps []*model.FactLap) []*model.GapTimelineRow {
	byDriver := groupByDriver(laps)
	codes := sortedKeys(byDriver)

	byLap := make(map[int][]elapsedEntry)
	for _, driverID := range codes {
		var elapsed int64
		for _, l := range byDriver[driverID] {
			if l.LapTimeMS == nil {
				continue
			}
			elapsed += *l.LapTimeMS
			byLap[l.LapNumber] = append(byLap[l.LapNumber],
				elapsedEntry{driverID: driverID, elapsed: elapsed})
		}
	}

	lapNumbers := make([]int, 0, len(byLap))
	for lap := range byLap {
		lapNumbers = append(lapNumbers, lap)
	}
	sort.Ints(lapNumbers)

	ret := make([]*model.GapTimelineRow, 0, len(lapNumbers))
	for _, lap := range lapNumbers {
		entries := byLap[lap]
		if len(entries) < 2 {
			continue
		}
		slices.SortStableFunc(entries, func(a, b elapsedEntry) int {
			if a.elapsed != b.elapsed {
				return cmp.Compare(a.elapsed, b.elapsed)
			}
			return cmp.Compare(a.driverID, b.driverID)
		})
		ret = append(ret, &model.GapTimelineRow{
			RaceID:          raceID,
			LapNumber:       lap,
			LeaderDriverID:  entries[0].driverID,
			P2DriverID:      entries[1].driverID,
			GapP2ToLeaderMS: entries[1].elapsed - entries[0].elapsed,
		})
	}
	return ret
}

// BuildPositionChart projects the lap fact positions, denormalized with
// the driver's team of the season.
func BuildPositionChart(
	raceID string,
	laps []*model.FactLap,
	driverTeams []*model.DriverTeamSeason,
) []*model.PositionChartRow {
	teamByDriver := make(map[string]string)
	for _, dts := range driverTeams {
		if _, ok := teamByDriver[dts.DriverID]; !ok {
			teamByDriver[dts.DriverID] = dts.TeamID
		}
	}

	ret := make([]*model.PositionChartRow, 0, len(laps))
	byDriver := groupByDriver(laps)
	for _, driverID := range sortedKeys(byDriver) {
		for _, l := range byDriver[driverID] {
			item := &model.PositionChartRow{
				RaceID:    raceID,
				DriverID:  driverID,
				LapNumber: l.LapNumber,
				Position:  l.Position,
			}
			if teamID, ok := teamByDriver[driverID]; ok {
				item.TeamID = &teamID
			}
			ret = append(ret, item)
		}
	}
	return ret
}

// BuildStintSummary aggregates laps into stints per driver: lap range,
// first compound, lap count, median and mean lap time, and the pit-in
// lap closing the stint (NULL at the checkered flag).
func BuildStintSummary(raceID string, laps []*model.FactLap) []*model.StintSummaryRow {
	type stintKey struct {
		driverID string
		stint    int
	}
	grouped := make(map[stintKey][]*model.FactLap)
	for _, l := range laps {
		if l.Stint == nil {
			continue
		}
		key := stintKey{driverID: l.DriverID, stint: *l.Stint}
		grouped[key] = append(grouped[key], l)
	}

	keys := make([]stintKey, 0, len(grouped))
	for key := range grouped {
		keys = append(keys, key)
	}
	slices.SortFunc(keys, func(a, b stintKey) int {
		if a.driverID != b.driverID {
			return cmp.Compare(a.driverID, b.driverID)
		}
		return a.stint - b.stint
	})

	ret := make([]*model.StintSummaryRow, 0, len(keys))
	for _, key := range keys {
		stintLaps := grouped[key]
		slices.SortStableFunc(stintLaps, func(a, b *model.FactLap) int {
			return a.LapNumber - b.LapNumber
		})
		item := &model.StintSummaryRow{
			RaceID:    raceID,
			DriverID:  key.driverID,
			Stint:     key.stint,
			StartLap:  stintLaps[0].LapNumber,
			EndLap:    stintLaps[len(stintLaps)-1].LapNumber,
			Compound:  stintLaps[0].Compound,
			StintLaps: len(stintLaps),
		}
		times := make([]int64, 0, len(stintLaps))
		for _, l := range stintLaps {
			if l.LapTimeMS != nil {
				times = append(times, *l.LapTimeMS)
			}
			if l.IsPitInLap {
				pit := l.LapNumber
				item.PitLap = &pit
			}
		}
		if len(times) > 0 {
			median := medianMS(times)
			mean := meanMS(times)
			item.MedianLapMS = &median
			item.AvgLapMS = &mean
		}
		ret = append(ret, item)
	}
	return ret
}

func groupByDriver(laps []*model.FactLap) map[string][]*model.FactLap {
	ret := make(map[string][]*model.FactLap)
	for _, l := range laps {
		ret[l.DriverID] = append(ret[l.DriverID], l)
	}
	for _, driverLaps := range ret {
		slices.SortStableFunc(driverLaps, func(a, b *model.FactLap) int {
			return a.LapNumber - b.LapNumber
		})
	}
	return ret
}

func sortedKeys(m map[string][]*model.FactLap) []string {
	ret := make([]string, 0, len(m))
	for key := range m {
		ret = append(ret, key)
	}
	sort.Strings(ret)
	return ret
}

func medianMS(values []int64) int64 {
	times := make([]int64, len(values))
	copy(times, values)
	slices.Sort(times)
	mid := len(times) / 2
	if len(times)%2 == 1 {
		return times[mid]
	}
	return int64(math.Round(float64(times[mid-1]+times[mid]) / 2.0))
}

func meanMS(times []int64) int64 {
	var sum int64
	for _, t := range times {
		sum += t
	}
	return int64(math.Round(float64(sum) / float64(len(times))))
}
