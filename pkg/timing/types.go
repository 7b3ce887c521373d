package timing

import "time"

// Wire types of the timing archive API. Optional fields are pointers so
// incomplete upstream data passes through unchanged; defaults are
// synthesized downstream.

type Schedule struct {
	Season int              `json:"season"`
	Events []*ScheduleEvent `json:"events"`
}

type ScheduleEvent struct {
	Round        int        `json:"round"`
	EventName    string     `json:"event_name"`
	Circuit      *string    `json:"circuit,omitempty"`
	Country      *string    `json:"country,omitempty"`
	EventDateUTC *time.Time `json:"event_date_utc,omitempty"`
	OfficialKey  *string    `json:"official_key,omitempty"`
}

type SessionData struct {
	Event   SessionEvent   `json:"event"`
	Laps    []*LapData     `json:"laps"`
	Results []*ResultData  `json:"results"`
	Weather []*WeatherData `json:"weather"`
}

type SessionEvent struct {
	Season          int        `json:"season"`
	Round           int        `json:"round"`
	SessionType     string     `json:"session_type"`
	EventName       string     `json:"event_name"`
	Circuit         *string    `json:"circuit,omitempty"`
	Country         *string    `json:"country,omitempty"`
	SessionStartUTC *time.Time `json:"session_start_utc,omitempty"`
	OfficialKey     *string    `json:"official_key,omitempty"`
}

type LapData struct {
	Driver       *string `json:"driver,omitempty"`
	DriverNumber *string `json:"driver_number,omitempty"`
	Lap          *int    `json:"lap,omitempty"`
	Position     *int    `json:"position,omitempty"`
	LapTimeMS    *int64  `json:"lap_time_ms,omitempty"`
	Stint        *int    `json:"stint,omitempty"`
	Compound     *string `json:"compound,omitempty"`
	TyreLife     *int    `json:"tyre_life,omitempty"`
	FreshTyre    *bool   `json:"fresh_tyre,omitempty"`
	IsAccurate   *bool   `json:"is_accurate,omitempty"`
	PitInTimeMS  *int64  `json:"pit_in_time_ms,omitempty"`
	PitOutTimeMS *int64  `json:"pit_out_time_ms,omitempty"`
	TrackStatus  *string `json:"track_status,omitempty"`
	Sector1MS    *int64  `json:"sector1_ms,omitempty"`
	Sector2MS    *int64  `json:"sector2_ms,omitempty"`
	Sector3MS    *int64  `json:"sector3_ms,omitempty"`
}

type ResultData struct {
	Abbreviation       *string  `json:"abbreviation,omitempty"`
	DriverNumber       *string  `json:"driver_number,omitempty"`
	FirstName          *string  `json:"first_name,omitempty"`
	LastName           *string  `json:"last_name,omitempty"`
	FullName           *string  `json:"full_name,omitempty"`
	TeamName           *string  `json:"team_name,omitempty"`
	TeamColor          *string  `json:"team_color,omitempty"`
	GridPosition       *int     `json:"grid_position,omitempty"`
	FinishPosition     *int     `json:"finish_position,omitempty"`
	ClassifiedPosition *string  `json:"classified_position,omitempty"`
	Status             *string  `json:"status,omitempty"`
	Points             *float64 `json:"points,omitempty"`
	RaceTimeMS         *int64   `json:"race_time_ms,omitempty"`
}

// WeatherData samples carry either an absolute timestamp or an offset
// relative to the session start.
type WeatherData struct {
	TimestampUTC *time.Time `json:"timestamp_utc,omitempty"`
	OffsetMS     *int64     `json:"offset_ms,omitempty"`
	AirTempC     *float64   `json:"air_temp_c,omitempty"`
	TrackTempC   *float64   `json:"track_temp_c,omitempty"`
	HumidityPct  *float64   `json:"humidity_pct,omitempty"`
	PressureMbar *float64   `json:"pressure_mbar,omitempty"`
	Rainfall     *bool      `json:"rainfall,omitempty"`
	WindDirDeg   *float64   `json:"wind_dir_deg,omitempty"`
	WindSpeedMS  *float64   `json:"wind_speed_ms,omitempty"`
}
