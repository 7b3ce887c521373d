package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Analysis rows are the denormalized shapes the dashboard reads: mart
// and fact rows joined with driver and team attributes.

type GapAnalysisRow struct {
	RaceID           string
	LapNumber        int
	LeaderDriverID   string
	P2DriverID       string
	GapP2ToLeaderMS  int64
	LeaderDriverCode *string
	LeaderFullName   *string
	P2DriverCode     *string
	P2FullName       *string
}

type PitMarker struct {
	RaceID     string
	DriverID   string
	LapNumber  int
	DriverCode *string
	FullName   *string
}

type PositionAnalysisRow struct {
	RaceID     string
	DriverID   string
	LapNumber  int
	Position   *int
	TeamID     *string
	DriverCode *string
	FullName   *string
	TeamColor  *string
	TeamName   *string
}

type StintAnalysisRow struct {
	RaceID      string
	DriverID    string
	Stint       int
	StartLap    int
	EndLap      int
	Compound    *string
	StintLaps   int
	MedianLapMS *int64
	AvgLapMS    *int64
	PitLap      *int
	DriverCode  *string
	FullName    *string
	TeamColor   *string
	TeamName    *string
}

type ResultAnalysisRow struct {
	DriverID           string
	TeamID             *string
	GridPosition       *int
	FinishPosition     *int
	ClassifiedPosition *string
	Status             *string
	Points             decimal.NullDecimal
	RaceTimeMS         *int64
	GapToWinnerMS      *int64
	DriverCode         *string
	FullName           *string
	TeamName           *string
	TeamColor          *string
}

type LapTimeAnalysisRow struct {
	RaceID       string
	DriverID     string
	LapNumber    int
	LapTimeMS    *int64
	Sector1MS    *int64
	Sector2MS    *int64
	Sector3MS    *int64
	Compound     *string
	TyreLifeLaps *int
	Position     *int
	IsPitInLap   bool
	IsPitOutLap  bool
	IsAccurate   *bool
	DriverCode   *string
	FullName     *string
	TeamName     *string
	TeamColor    *string
}

// RaceDriver is one classified participant of a race.
type RaceDriver struct {
	DriverID       string
	DriverCode     string
	FullName       *string
	TeamName       *string
	FinishPosition *int
}

// WeatherAnalysisRow is the reduced weather series the dashboard plots.
type WeatherAnalysisRow struct {
	RaceID       string
	TimestampUTC time.Time
	AirTempC     *float64
	TrackTempC   *float64
	HumidityPct  *float64
	Rainfall     *bool
}
