package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type DimRace struct {
	RaceID      string
	Season      int
	Round       int
	EventName   string
	Circuit     *string
	Country     *string
	RaceDateUTC *time.Time
}

// DimDriver holds one row per driver code across all seasons.
type DimDriver struct {
	DriverID     string
	DriverCode   string
	DriverNumber *string
	FirstName    *string
	LastName     *string
	FullName     *string
}

type DimTeam struct {
	TeamID    string
	TeamName  string
	TeamColor *string
}

// DriverTeamSeason records which team a driver raced for in a season.
type DriverTeamSeason struct {
	Season   int
	DriverID string
	TeamID   string
}

type FactLap struct {
	RaceID           string
	DriverID         string
	LapNumber        int
	Position         *int
	LapTimeMS        *int64
	Stint            *int
	Compound         *string
	TyreLifeLaps     *int
	FreshTyre        *bool
	IsAccurate       *bool
	IsPitInLap       bool
	IsPitOutLap      bool
	PitInTimeMS      *int64
	PitOutTimeMS     *int64
	TrackStatusFlags *string
	Sector1MS        *int64
	Sector2MS        *int64
	Sector3MS        *int64
}

type FactResult struct {
	RaceID             string
	DriverID           string
	TeamID             *string
	GridPosition       *int
	FinishPosition     *int
	ClassifiedPosition *string
	Status             *string
	Points             decimal.NullDecimal
	RaceTimeMS         *int64
	GapToWinnerMS      *int64
}

// FactRaceControl aggregates the track status flags of one lap across
// all drivers.
type FactRaceControl struct {
	RaceID       string
	LapNumber    int
	IsSC         bool
	IsVSC        bool
	IsRedFlag    bool
	IsYellowFlag bool
}

// FactWeatherMinute folds the raw weather samples into minute buckets.
type FactWeatherMinute struct {
	RaceID       string
	TimestampUTC time.Time
	AirTempC     *float64
	TrackTempC   *float64
	HumidityPct  *float64
	PressureMbar *float64
	Rainfall     *bool
	WindDirDeg   *float64
	WindSpeedMS  *float64
}
