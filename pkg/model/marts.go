package model

// Mart rows are pure derivations from curated facts, rebuilt per race.

type GapTimelineRow struct {
	RaceID          string
	LapNumber       int
	LeaderDriverID  string
	P2DriverID      string
	GapP2ToLeaderMS int64
}

type PositionChartRow struct {
	RaceID    string
	DriverID  string
	LapNumber int
	Position  *int
	TeamID    *string
}

type StintSummaryRow struct {
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
}
