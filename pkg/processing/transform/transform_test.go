//nolint:funlen,errcheck //ok for this test code
package transform

import (
	"reflect"
	"sort"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gotest.tools/v3/assert"

	"github.com/f1decoder/f1-warehouse-manager-go/pkg/model"
	"github.com/f1decoder/f1-warehouse-manager-go/pkg/timing"
	"github.com/f1decoder/f1-warehouse-manager-go/pkg/utils"
	"github.com/f1decoder/f1-warehouse-manager-go/testsupport/basedata"
)

// numeric(5,1) reloads change the decimal exponent, so compare by value
var decimalByValue = cmp.Comparer(func(a, b decimal.NullDecimal) bool {
	if a.Valid != b.Valid {
		return false
	}
	if !a.Valid {
		return true
	}
	return a.Decimal.Equal(b.Decimal)
})

func sortFactLaps(laps []*model.FactLap) {
	sort.Slice(laps, func(i, j int) bool {
		if laps[i].DriverID != laps[j].DriverID {
			return laps[i].DriverID < laps[j].DriverID
		}
		return laps[i].LapNumber < laps[j].LapNumber
	})
}

func TestBuildStagingBundle(t *testing.T) {
	runId := uuid.NewString()
	bundle := NewTransformer().BuildStagingBundle(basedata.SampleSessionData(), runId)

	assert.Equal(t, bundle.RaceID, basedata.SampleRaceId())
	if !reflect.DeepEqual(bundle.Laps, basedata.SampleStagingLaps(runId)) {
		t.Errorf("laps = %v, want %v", bundle.Laps, basedata.SampleStagingLaps(runId))
	}
	if !reflect.DeepEqual(bundle.Results, basedata.SampleStagingResults(runId)) {
		t.Errorf("results = %v, want %v", bundle.Results, basedata.SampleStagingResults(runId))
	}
	if !reflect.DeepEqual(bundle.Weather, basedata.SampleStagingWeather(runId)) {
		t.Errorf("weather = %v, want %v", bundle.Weather, basedata.SampleStagingWeather(runId))
	}
}

func TestBuildStagingBundleSkipsBrokenRows(t *testing.T) {
	session := basedata.SampleSessionData()
	// no lap number, no timestamp: both dropped
	session.Laps = append(session.Laps, &timing.LapData{Driver: strPtr("VER")})
	session.Weather = append(session.Weather, &timing.WeatherData{AirTempC: floatPtr(30.0)})
	// empty strings become NULL
	session.Results[0].Status = strPtr("  ")

	bundle := NewTransformer().BuildStagingBundle(session, uuid.NewString())
	assert.Equal(t, len(bundle.Laps), len(basedata.SampleStagingLaps("")))
	assert.Equal(t, len(bundle.Weather), len(basedata.SampleStagingWeather("")))
	assert.Assert(t, bundle.Results[0].Status == nil)
}

func TestBuildStagingBundleAbsoluteWeatherTimestamps(t *testing.T) {
	session := basedata.SampleSessionData()
	ts := basedata.TestTime().Add(30 * time.Second)
	session.Weather = []*timing.WeatherData{
		{TimestampUTC: &ts, AirTempC: floatPtr(27.5)},
	}

	bundle := NewTransformer().BuildStagingBundle(session, uuid.NewString())
	assert.Equal(t, len(bundle.Weather), 1)
	assert.Assert(t, bundle.Weather[0].TimestampUTC.Equal(ts))
}

func TestBuildCuratedBundleDimensions(t *testing.T) {
	runId := uuid.NewString()
	bundle := NewTransformer().BuildCuratedBundle(
		basedata.SampleDimRace(),
		basedata.SampleStagingLaps(runId),
		basedata.SampleStagingResults(runId),
		basedata.SampleStagingWeather(runId),
	)

	wantDrivers := basedata.SampleDimDrivers()
	sort.Slice(wantDrivers, func(i, j int) bool {
		return wantDrivers[i].DriverCode < wantDrivers[j].DriverCode
	})
	if !reflect.DeepEqual(bundle.Drivers, wantDrivers) {
		t.Errorf("drivers = %v, want %v", bundle.Drivers, wantDrivers)
	}

	wantTeams := basedata.SampleDimTeams()
	sort.Slice(wantTeams, func(i, j int) bool {
		return wantTeams[i].TeamName < wantTeams[j].TeamName
	})
	if !reflect.DeepEqual(bundle.Teams, wantTeams) {
		t.Errorf("teams = %v, want %v", bundle.Teams, wantTeams)
	}

	wantLinks := basedata.SampleDriverTeamSeasons()
	sort.Slice(wantLinks, func(i, j int) bool {
		return wantLinks[i].DriverID < wantLinks[j].DriverID
	})
	if !reflect.DeepEqual(bundle.DriverTeams, wantLinks) {
		t.Errorf("driver teams = %v, want %v", bundle.DriverTeams, wantLinks)
	}
}

func TestDriverDedupPrefersCompleteRow(t *testing.T) {
	runId := uuid.NewString()
	laps := basedata.SampleStagingLaps(runId)
	// a driver appearing in laps only still gets a dimension row
	laps = append(laps, &model.StagingLap{
		RunID: runId, RaceID: basedata.SampleRaceId(),
		Season: basedata.SampleSeason, Round: basedata.SampleRound,
		SessionType: basedata.SampleSessionType,
		DriverCode:  strPtr("PIA"), DriverNumber: strPtr("81"), LapNumber: 1,
	})

	bundle := NewTransformer().BuildCuratedBundle(
		basedata.SampleDimRace(), laps,
		basedata.SampleStagingResults(runId), nil)
	assert.Equal(t, len(bundle.Drivers), 4)

	var pia *model.DimDriver
	for _, d := range bundle.Drivers {
		if d.DriverCode == "PIA" {
			pia = d
		}
	}
	assert.Assert(t, pia != nil)
	assert.Equal(t, pia.DriverID, utils.DriverID("PIA"))
	assert.Equal(t, *pia.DriverNumber, "81")
	assert.Assert(t, pia.FullName == nil)
}

func TestBuildCuratedBundleLaps(t *testing.T) {
	runId := uuid.NewString()
	bundle := NewTransformer().BuildCuratedBundle(
		basedata.SampleDimRace(),
		basedata.SampleStagingLaps(runId),
		basedata.SampleStagingResults(runId),
		basedata.SampleStagingWeather(runId),
	)

	want := basedata.SampleFactLaps()
	sortFactLaps(want)
	got := bundle.Laps
	sortFactLaps(got)
	if !reflect.DeepEqual(got, want) {
		t.Errorf("laps = %v, want %v", got, want)
	}
}

func TestStintSynthesisNumbersAfterRealStints(t *testing.T) {
	runId := uuid.NewString()
	mk := func(lap int, stint int) *model.StagingLap {
		item := &model.StagingLap{
			RunID: runId, RaceID: basedata.SampleRaceId(),
			Season: basedata.SampleSeason, Round: basedata.SampleRound,
			SessionType: basedata.SampleSessionType,
			DriverCode:  strPtr("VER"), LapNumber: lap,
		}
		if stint > 0 {
			item.Stint = &stint
			item.Compound = strPtr("SOFT")
		}
		return item
	}
	// two separate gaps become two synthetic stints
	laps := []*model.StagingLap{
		mk(1, 1), mk(2, 0), mk(3, 0), mk(4, 2), mk(5, 0),
	}

	bundle := NewTransformer().BuildCuratedBundle(
		basedata.SampleDimRace(), laps, nil, nil)
	stints := make([]int, 0, len(bundle.Laps))
	for _, l := range bundle.Laps {
		stints = append(stints, *l.Stint)
	}
	assert.DeepEqual(t, stints, []int{1, 3, 3, 2, 4})
	assert.Equal(t, *bundle.Laps[1].Compound, UnknownCompound)
	assert.Equal(t, *bundle.Laps[3].Compound, "SOFT")
}

func TestBuildCuratedBundleResults(t *testing.T) {
	runId := uuid.NewString()
	bundle := NewTransformer().BuildCuratedBundle(
		basedata.SampleDimRace(),
		basedata.SampleStagingLaps(runId),
		basedata.SampleStagingResults(runId),
		nil,
	)

	want := basedata.SampleFactResults()
	sort.Slice(want, func(i, j int) bool { return want[i].DriverID < want[j].DriverID })
	if diff := cmp.Diff(want, bundle.Results, decimalByValue); diff != "" {
		t.Errorf("results mismatch (-want +got):\n%s", diff)
	}
}

func TestGapToWinnerWithoutWinnerTime(t *testing.T) {
	runId := uuid.NewString()
	results := basedata.SampleStagingResults(runId)
	results[0].RaceTimeMS = nil // the winner has no total

	bundle := NewTransformer().BuildCuratedBundle(
		basedata.SampleDimRace(), nil, results, nil)
	for _, r := range bundle.Results {
		assert.Assert(t, r.GapToWinnerMS == nil)
	}
}

func TestBuildCuratedBundleRaceControl(t *testing.T) {
	runId := uuid.NewString()
	bundle := NewTransformer().BuildCuratedBundle(
		basedata.SampleDimRace(),
		basedata.SampleStagingLaps(runId),
		nil, nil,
	)

	want := basedata.SampleFactRaceControl()
	if !reflect.DeepEqual(bundle.RaceControl, want) {
		t.Errorf("race control = %v, want %v", bundle.RaceControl, want)
	}
}

func TestRaceControlFlagCombinations(t *testing.T) {
	mk := func(lap int, status string) *model.StagingLap {
		return &model.StagingLap{
			RaceID: basedata.SampleRaceId(), DriverCode: strPtr("VER"),
			LapNumber: lap, TrackStatusFlags: &status,
		}
	}
	laps := []*model.StagingLap{
		mk(1, "45"), // red flag behind the safety car
		mk(2, "67"),
		mk(3, "1"),
	}

	bundle := NewTransformer().BuildCuratedBundle(
		basedata.SampleDimRace(), laps, nil, nil)
	assert.Equal(t, len(bundle.RaceControl), 3)
	assert.Assert(t, bundle.RaceControl[0].IsSC)
	assert.Assert(t, bundle.RaceControl[0].IsRedFlag)
	assert.Assert(t, !bundle.RaceControl[0].IsYellowFlag)
	assert.Assert(t, bundle.RaceControl[1].IsVSC)
	assert.Assert(t, !bundle.RaceControl[2].IsSC)
}

func TestBuildCuratedBundleWeather(t *testing.T) {
	runId := uuid.NewString()
	bundle := NewTransformer().BuildCuratedBundle(
		basedata.SampleDimRace(),
		nil, nil,
		basedata.SampleStagingWeather(runId),
	)

	want := basedata.SampleFactWeather()
	if diff := cmp.Diff(want, bundle.Weather,
		cmpopts.EquateApprox(0, 1e-9)); diff != "" {
		t.Errorf("weather mismatch (-want +got):\n%s", diff)
	}
}

func strPtr(s string) *string     { return &s }
func floatPtr(f float64) *float64 { return &f }
