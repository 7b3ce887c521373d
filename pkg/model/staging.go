package model

import "time"

// Staging rows carry the raw extracted data with type coercion only
// (durations to integer milliseconds, timestamps to UTC). Every row is
// tagged with the run that produced it.

type StagingLap struct {
	RunID            string
	RaceID           string
	Season           int
	Round            int
	SessionType      string
	DriverCode       *string
	DriverNumber     *string
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

type StagingResult struct {
	RunID              string
	RaceID             string
	Season             int
	Round              int
	SessionType        string
	DriverCode         *string
	DriverNumber       *string
	FirstName          *string
	LastName           *string
	FullName           *string
	TeamName           *string
	TeamColor          *string
	GridPosition       *int
	FinishPosition     *int
	ClassifiedPosition *string
	Status             *string
	Points             *float64
	RaceTimeMS         *int64
}

type StagingWeather struct {
	RunID        string
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
