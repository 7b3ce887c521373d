package basedata

import (
	"context"
	"log"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/f1decoder/f1-warehouse-manager-go/pkg/model"
	driverrepos "github.com/f1decoder/f1-warehouse-manager-go/pkg/repository/driver"
	laprepos "github.com/f1decoder/f1-warehouse-manager-go/pkg/repository/lap"
	racecontrolrepos "github.com/f1decoder/f1-warehouse-manager-go/pkg/repository/racecontrol"
	racerepos "github.com/f1decoder/f1-warehouse-manager-go/pkg/repository/race"
	resultsrepos "github.com/f1decoder/f1-warehouse-manager-go/pkg/repository/results"
	teamrepos "github.com/f1decoder/f1-warehouse-manager-go/pkg/repository/team"
	weatherrepos "github.com/f1decoder/f1-warehouse-manager-go/pkg/repository/weather"
	"github.com/f1decoder/f1-warehouse-manager-go/pkg/timing"
	"github.com/f1decoder/f1-warehouse-manager-go/pkg/utils"
)

// Sample race: 2024 round 1, three drivers over five laps. The lead
// changes twice (pit stop on lap 3) and one driver is missing stint
// data on the last two laps.

const (
	SampleSeason      = 2024
	SampleRound       = 1
	SampleSessionType = "R"
)

func SampleRaceId() string {
	return utils.MakeRaceID(SampleSeason, SampleRound, SampleSessionType)
}

func TestTime() time.Time {
	t, _ := time.Parse(time.RFC3339, "2024-03-02T15:00:00Z")
	return t
}

func ptr[T any](v T) *T { return &v }

func SampleCatalogEntry() *model.RaceCatalogEntry {
	raceTime := TestTime()
	return &model.RaceCatalogEntry{
		RaceID:          SampleRaceId(),
		Season:          SampleSeason,
		Round:           SampleRound,
		EventName:       "Bahrain Grand Prix",
		Circuit:         ptr("Sakhir"),
		Country:         ptr("Bahrain"),
		RaceDatetimeUTC: &raceTime,
		SourceEventKey:  ptr("2024-1-R"),
		SessionType:     SampleSessionType,
	}
}

func SampleDimRace() *model.DimRace {
	raceTime := TestTime()
	return &model.DimRace{
		RaceID:      SampleRaceId(),
		Season:      SampleSeason,
		Round:       SampleRound,
		EventName:   "Bahrain Grand Prix",
		Circuit:     ptr("Sakhir"),
		Country:     ptr("Bahrain"),
		RaceDateUTC: &raceTime,
	}
}

func SampleDimTeams() []*model.DimTeam {
	return []*model.DimTeam{
		{
			TeamID:    utils.TeamID("Red Bull Racing"),
			TeamName:  "Red Bull Racing",
			TeamColor: ptr("3671C6"),
		},
		{
			TeamID:    utils.TeamID("Ferrari"),
			TeamName:  "Ferrari",
			TeamColor: ptr("E8002D"),
		},
		{
			TeamID:    utils.TeamID("Mercedes"),
			TeamName:  "Mercedes",
			TeamColor: ptr("27F4D2"),
		},
	}
}

func SampleDimDrivers() []*model.DimDriver {
	return []*model.DimDriver{
		{
			DriverID:     utils.DriverID("VER"),
			DriverCode:   "VER",
			DriverNumber: ptr("1"),
			FirstName:    ptr("Max"),
			LastName:     ptr("Verstappen"),
			FullName:     ptr("Max Verstappen"),
		},
		{
			DriverID:     utils.DriverID("LEC"),
			DriverCode:   "LEC",
			DriverNumber: ptr("16"),
			FirstName:    ptr("Charles"),
			LastName:     ptr("Leclerc"),
			FullName:     ptr("Charles Leclerc"),
		},
		{
			DriverID:     utils.DriverID("HAM"),
			DriverCode:   "HAM",
			DriverNumber: ptr("44"),
			FirstName:    ptr("Lewis"),
			LastName:     ptr("Hamilton"),
			FullName:     ptr("Lewis Hamilton"),
		},
	}
}

func SampleDriverTeamSeasons() []*model.DriverTeamSeason {
	return []*model.DriverTeamSeason{
		{Season: SampleSeason, DriverID: utils.DriverID("VER"), TeamID: utils.TeamID("Red Bull Racing")},
		{Season: SampleSeason, DriverID: utils.DriverID("LEC"), TeamID: utils.TeamID("Ferrari")},
		{Season: SampleSeason, DriverID: utils.DriverID("HAM"), TeamID: utils.TeamID("Mercedes")},
	}
}

// lapSpec keeps the sample lap table compact. A stint of 0 or an empty
// compound means the value is missing upstream.
type lapSpec struct {
	code     string
	num      string
	lap      int
	timeMS   int64
	pos      int
	stint    int
	compound string
	life     int
	fresh    bool
	pitIn    bool
	pitOut   bool
	status   string
	accurate bool
}

///nolint:lll // table data
func sampleLapSpecs() []lapSpec {
	return []lapSpec{
		{code: "VER", num: "1", lap: 1, timeMS: 96000, pos: 1, stint: 1, compound: "SOFT", life: 1, fresh: true, status: "1", accurate: true},
		{code: "VER", num: "1", lap: 2, timeMS: 95500, pos: 1, stint: 1, compound: "SOFT", life: 2, status: "1", accurate: true},
		{code: "VER", num: "1", lap: 3, timeMS: 97500, pos: 2, stint: 1, compound: "SOFT", life: 3, pitIn: true, status: "2", accurate: true},
		{code: "VER", num: "1", lap: 4, timeMS: 98000, pos: 2, stint: 2, compound: "HARD", life: 1, fresh: true, pitOut: true, status: "1", accurate: true},
		{code: "VER", num: "1", lap: 5, timeMS: 93800, pos: 1, stint: 2, compound: "HARD", life: 2, status: "1", accurate: true},
		{code: "LEC", num: "16", lap: 1, timeMS: 96500, pos: 2, stint: 1, compound: "MEDIUM", life: 1, fresh: true, status: "1", accurate: true},
		{code: "LEC", num: "16", lap: 2, timeMS: 95900, pos: 2, stint: 1, compound: "MEDIUM", life: 2, status: "1", accurate: true},
		{code: "LEC", num: "16", lap: 3, timeMS: 96200, pos: 1, stint: 1, compound: "MEDIUM", life: 3, status: "2", accurate: true},
		{code: "LEC", num: "16", lap: 4, timeMS: 96800, pos: 1, stint: 1, compound: "MEDIUM", life: 4, status: "1", accurate: true},
		{code: "LEC", num: "16", lap: 5, timeMS: 95600, pos: 2, stint: 1, compound: "MEDIUM", life: 5, status: "1", accurate: true},
		{code: "HAM", num: "44", lap: 1, timeMS: 97000, pos: 3, stint: 1, compound: "SOFT", life: 1, fresh: true, status: "1", accurate: true},
		{code: "HAM", num: "44", lap: 2, timeMS: 97200, pos: 3, stint: 1, compound: "SOFT", life: 2, status: "1", accurate: true},
		{code: "HAM", num: "44", lap: 3, timeMS: 97300, pos: 3, stint: 1, compound: "SOFT", life: 3, status: "2", accurate: true},
		{code: "HAM", num: "44", lap: 4, timeMS: 97400, pos: 3, status: "4", accurate: false},
		{code: "HAM", num: "44", lap: 5, timeMS: 96100, pos: 3, status: "1", accurate: true},
	}
}

func SampleStagingLaps(runId string) []*model.StagingLap {
	specs := sampleLapSpecs()
	ret := make([]*model.StagingLap, 0, len(specs))
	for i := range specs {
		s := specs[i]
		item := &model.StagingLap{
			RunID:            runId,
			RaceID:           SampleRaceId(),
			Season:           SampleSeason,
			Round:            SampleRound,
			SessionType:      SampleSessionType,
			DriverCode:       ptr(s.code),
			DriverNumber:     ptr(s.num),
			LapNumber:        s.lap,
			Position:         ptr(s.pos),
			LapTimeMS:        ptr(s.timeMS),
			FreshTyre:        ptr(s.fresh),
			IsAccurate:       ptr(s.accurate),
			IsPitInLap:       s.pitIn,
			IsPitOutLap:      s.pitOut,
			TrackStatusFlags: ptr(s.status),
		}
		if s.stint > 0 {
			item.Stint = ptr(s.stint)
			item.Compound = ptr(s.compound)
			item.TyreLifeLaps = ptr(s.life)
		}
		if s.pitIn {
			item.PitInTimeMS = ptr(s.timeMS * int64(s.lap))
		}
		if s.pitOut {
			item.PitOutTimeMS = ptr(s.timeMS * int64(s.lap))
		}
		ret = append(ret, item)
	}
	return ret
}

// SampleFactLaps mirrors SampleStagingLaps after transformation: driver
// codes resolved to IDs and the missing stint data of HAM synthesized
// as an UNKNOWN stint 2.
func SampleFactLaps() []*model.FactLap {
	specs := sampleLapSpecs()
	ret := make([]*model.FactLap, 0, len(specs))
	for i := range specs {
		s := specs[i]
		item := &model.FactLap{
			RaceID:           SampleRaceId(),
			DriverID:         utils.DriverID(s.code),
			LapNumber:        s.lap,
			Position:         ptr(s.pos),
			LapTimeMS:        ptr(s.timeMS),
			FreshTyre:        ptr(s.fresh),
			IsAccurate:       ptr(s.accurate),
			IsPitInLap:       s.pitIn,
			IsPitOutLap:      s.pitOut,
			TrackStatusFlags: ptr(s.status),
		}
		if s.stint > 0 {
			item.Stint = ptr(s.stint)
			item.Compound = ptr(s.compound)
			item.TyreLifeLaps = ptr(s.life)
		} else {
			item.Stint = ptr(2)
			item.Compound = ptr("UNKNOWN")
		}
		if s.pitIn {
			item.PitInTimeMS = ptr(s.timeMS * int64(s.lap))
		}
		if s.pitOut {
			item.PitOutTimeMS = ptr(s.timeMS * int64(s.lap))
		}
		ret = append(ret, item)
	}
	return ret
}

func SampleStagingResults(runId string) []*model.StagingResult {
	mk := func(code, num, first, last, team, color string,
		grid, finish int, points float64, raceTimeMS int64,
	) *model.StagingResult {
		full := first + " " + last
		return &model.StagingResult{
			RunID:              runId,
			RaceID:             SampleRaceId(),
			Season:             SampleSeason,
			Round:              SampleRound,
			SessionType:        SampleSessionType,
			DriverCode:         ptr(code),
			DriverNumber:       ptr(num),
			FirstName:          ptr(first),
			LastName:           ptr(last),
			FullName:           ptr(full),
			TeamName:           ptr(team),
			TeamColor:          ptr(color),
			GridPosition:       ptr(grid),
			FinishPosition:     ptr(finish),
			ClassifiedPosition: ptr(strconv.Itoa(finish)),
			Status:             ptr("Finished"),
			Points:             ptr(points),
			RaceTimeMS:         ptr(raceTimeMS),
		}
	}
	return []*model.StagingResult{
		mk("VER", "1", "Max", "Verstappen", "Red Bull Racing", "3671C6", 1, 1, 25, 480800),
		mk("LEC", "16", "Charles", "Leclerc", "Ferrari", "E8002D", 2, 2, 18, 481000),
		mk("HAM", "44", "Lewis", "Hamilton", "Mercedes", "27F4D2", 3, 3, 15, 485000),
	}
}

func SampleFactResults() []*model.FactResult {
	// points carry the one decimal place the warehouse column stores
	mk := func(code, team string, grid, finish int, points string,
		raceTimeMS, gapMS int64,
	) *model.FactResult {
		return &model.FactResult{
			RaceID:             SampleRaceId(),
			DriverID:           utils.DriverID(code),
			TeamID:             ptr(utils.TeamID(team)),
			GridPosition:       ptr(grid),
			FinishPosition:     ptr(finish),
			ClassifiedPosition: ptr(strconv.Itoa(finish)),
			Status:             ptr("Finished"),
			Points:             decimal.NewNullDecimal(decimal.RequireFromString(points)),
			RaceTimeMS:         ptr(raceTimeMS),
			GapToWinnerMS:      ptr(gapMS),
		}
	}
	return []*model.FactResult{
		mk("VER", "Red Bull Racing", 1, 1, "25.0", 480800, 0),
		mk("LEC", "Ferrari", 2, 2, "18.0", 481000, 200),
		mk("HAM", "Mercedes", 3, 3, "15.0", 485000, 4200),
	}
}

func SampleFactRaceControl() []*model.FactRaceControl {
	mk := func(lap int, sc, yellow bool) *model.FactRaceControl {
		return &model.FactRaceControl{
			RaceID:       SampleRaceId(),
			LapNumber:    lap,
			IsSC:         sc,
			IsYellowFlag: yellow,
		}
	}
	return []*model.FactRaceControl{
		mk(1, false, false),
		mk(2, false, false),
		mk(3, false, true),
		mk(4, true, false),
		mk(5, false, false),
	}
}

func SampleStagingWeather(runId string) []*model.StagingWeather {
	mk := func(offset time.Duration, air, track, hum, press float64,
		rain bool, dir, speed float64,
	) *model.StagingWeather {
		return &model.StagingWeather{
			RunID:        runId,
			RaceID:       SampleRaceId(),
			TimestampUTC: TestTime().Add(offset),
			AirTempC:     ptr(air),
			TrackTempC:   ptr(track),
			HumidityPct:  ptr(hum),
			PressureMbar: ptr(press),
			Rainfall:     ptr(rain),
			WindDirDeg:   ptr(dir),
			WindSpeedMS:  ptr(speed),
		}
	}
	return []*model.StagingWeather{
		mk(10*time.Second, 28.0, 41.0, 38.0, 1012.0, false, 120.0, 3.5),
		mk(40*time.Second, 28.4, 41.4, 38.4, 1012.2, false, 130.0, 3.9),
		mk(70*time.Second, 28.6, 41.8, 38.8, 1012.4, true, 140.0, 4.1),
		mk(100*time.Second, 28.8, 42.0, 39.0, 1012.6, false, 150.0, 4.3),
	}
}

// SampleFactWeather mirrors SampleStagingWeather folded into minute
// buckets: numeric means, rainfall max.
func SampleFactWeather() []*model.FactWeatherMinute {
	mk := func(offset time.Duration, air, track, hum, press float64,
		rain bool, dir, speed float64,
	) *model.FactWeatherMinute {
		return &model.FactWeatherMinute{
			RaceID:       SampleRaceId(),
			TimestampUTC: TestTime().Add(offset),
			AirTempC:     ptr(air),
			TrackTempC:   ptr(track),
			HumidityPct:  ptr(hum),
			PressureMbar: ptr(press),
			Rainfall:     ptr(rain),
			WindDirDeg:   ptr(dir),
			WindSpeedMS:  ptr(speed),
		}
	}
	return []*model.FactWeatherMinute{
		mk(0, 28.2, 41.2, 38.2, 1012.1, false, 125.0, 3.7),
		mk(time.Minute, 28.7, 41.9, 38.9, 1012.5, true, 145.0, 4.2),
	}
}

// SampleSessionData is the wire form of the sample race: coercing it
// into staging yields exactly SampleStagingLaps/Results/Weather.
func SampleSessionData() *timing.SessionData {
	start := TestTime()
	ret := &timing.SessionData{
		Event: timing.SessionEvent{
			Season:          SampleSeason,
			Round:           SampleRound,
			SessionType:     SampleSessionType,
			EventName:       "Bahrain Grand Prix",
			Circuit:         ptr("Sakhir"),
			Country:         ptr("Bahrain"),
			SessionStartUTC: &start,
			OfficialKey:     ptr("2024-1-R"),
		},
	}
	for _, s := range sampleLapSpecs() {
		item := &timing.LapData{
			Driver:       ptr(s.code),
			DriverNumber: ptr(s.num),
			Lap:          ptr(s.lap),
			Position:     ptr(s.pos),
			LapTimeMS:    ptr(s.timeMS),
			FreshTyre:    ptr(s.fresh),
			IsAccurate:   ptr(s.accurate),
			TrackStatus:  ptr(s.status),
		}
		if s.stint > 0 {
			item.Stint = ptr(s.stint)
			item.Compound = ptr(s.compound)
			item.TyreLife = ptr(s.life)
		}
		if s.pitIn {
			item.PitInTimeMS = ptr(s.timeMS * int64(s.lap))
		}
		if s.pitOut {
			item.PitOutTimeMS = ptr(s.timeMS * int64(s.lap))
		}
		ret.Laps = append(ret.Laps, item)
	}
	for _, r := range SampleStagingResults("") {
		ret.Results = append(ret.Results, &timing.ResultData{
			Abbreviation:       r.DriverCode,
			DriverNumber:       r.DriverNumber,
			FirstName:          r.FirstName,
			LastName:           r.LastName,
			FullName:           r.FullName,
			TeamName:           r.TeamName,
			TeamColor:          r.TeamColor,
			GridPosition:       r.GridPosition,
			FinishPosition:     r.FinishPosition,
			ClassifiedPosition: r.ClassifiedPosition,
			Status:             r.Status,
			Points:             r.Points,
			RaceTimeMS:         r.RaceTimeMS,
		})
	}
	// weather comes as offsets anchored at the session start
	for _, w := range SampleStagingWeather("") {
		offset := w.TimestampUTC.Sub(start).Milliseconds()
		ret.Weather = append(ret.Weather, &timing.WeatherData{
			OffsetMS:     ptr(offset),
			AirTempC:     w.AirTempC,
			TrackTempC:   w.TrackTempC,
			HumidityPct:  w.HumidityPct,
			PressureMbar: w.PressureMbar,
			Rainfall:     w.Rainfall,
			WindDirDeg:   w.WindDirDeg,
			WindSpeedMS:  w.WindSpeedMS,
		})
	}
	return ret
}

// SampleSchedule lists the sample season: pre-season testing (round 0)
// plus the sample race.
func SampleSchedule() *timing.Schedule {
	raceTime := TestTime()
	return &timing.Schedule{
		Season: SampleSeason,
		Events: []*timing.ScheduleEvent{
			{
				Round:     0,
				EventName: "Pre-Season Testing",
				Circuit:   ptr("Sakhir"),
				Country:   ptr("Bahrain"),
			},
			{
				Round:        1,
				EventName:    "Bahrain Grand Prix",
				Circuit:      ptr("Sakhir"),
				Country:      ptr("Bahrain"),
				EventDateUTC: &raceTime,
				OfficialKey:  ptr("2024-1"),
			},
		},
	}
}

// CreateSampleRace persists the whole sample race (dimensions plus all
// four fact tables) and returns its race dimension row.
func CreateSampleRace(db *pgxpool.Pool) *model.DimRace {
	ctx := context.Background()
	sampleRace := SampleDimRace()
	err := pgx.BeginFunc(ctx, db, func(tx pgx.Tx) error {
		if err := racerepos.Upsert(ctx, tx, sampleRace); err != nil {
			return err
		}
		for _, t := range SampleDimTeams() {
			if err := teamrepos.Upsert(ctx, tx, t); err != nil {
				return err
			}
		}
		for _, d := range SampleDimDrivers() {
			if err := driverrepos.Upsert(ctx, tx, d); err != nil {
				return err
			}
		}
		for _, dts := range SampleDriverTeamSeasons() {
			if err := driverrepos.UpsertTeamSeason(ctx, tx, dts); err != nil {
				return err
			}
		}
		for _, l := range SampleFactLaps() {
			if err := laprepos.Upsert(ctx, tx, l); err != nil {
				return err
			}
		}
		for _, r := range SampleFactResults() {
			if err := resultsrepos.Upsert(ctx, tx, r); err != nil {
				return err
			}
		}
		for _, rc := range SampleFactRaceControl() {
			if err := racecontrolrepos.Upsert(ctx, tx, rc); err != nil {
				return err
			}
		}
		for _, w := range SampleFactWeather() {
			if err := weatherrepos.Upsert(ctx, tx, w); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		log.Fatalf("createSampleRace: %v\n", err)
	}

	return sampleRace
}
