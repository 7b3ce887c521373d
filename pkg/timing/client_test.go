//nolint:funlen,errcheck //ok for this test code
package timing

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"gotest.tools/v3/assert"
)

const sessionPayload = `{
	"event": {
		"season": 2024, "round": 1, "session_type": "R",
		"event_name": "Bahrain Grand Prix", "circuit": "Sakhir",
		"country": "Bahrain", "session_start_utc": "2024-03-02T15:00:00Z"
	},
	"laps": [
		{"driver": "VER", "driver_number": "1", "lap": 1, "position": 1,
		 "lap_time_ms": 96000, "stint": 1, "compound": "SOFT", "tyre_life": 1,
		 "fresh_tyre": true, "is_accurate": true, "track_status": "1",
		 "sector1_ms": 30000, "sector2_ms": 33000, "sector3_ms": 33000},
		{"driver": "VER", "lap": 2, "position": 1, "lap_time_ms": 95500,
		 "pit_in_time_ms": 191500}
	],
	"results": [
		{"abbreviation": "VER", "driver_number": "1", "first_name": "Max",
		 "last_name": "Verstappen", "full_name": "Max Verstappen",
		 "team_name": "Red Bull Racing", "team_color": "3671C6",
		 "grid_position": 1, "finish_position": 1, "classified_position": "1",
		 "status": "Finished", "points": 25, "race_time_ms": 5520000}
	],
	"weather": [
		{"offset_ms": 30000, "air_temp_c": 28.0, "rainfall": false}
	]
}`

const schedulePayload = `{
	"season": 2024,
	"events": [
		{"round": 0, "event_name": "Pre-Season Testing", "circuit": "Sakhir",
		 "country": "Bahrain"},
		{"round": 1, "event_name": "Bahrain Grand Prix", "circuit": "Sakhir",
		 "country": "Bahrain", "event_date_utc": "2024-03-02T15:00:00Z",
		 "official_key": "2024-1"}
	]
}`

// advanceRetries unblocks the given number of backoff sleeps following
// the 2/4/8/16s schedule.
func advanceRetries(clock *clockwork.FakeClock, sleeps int) {
	for i := 0; i < sleeps; i++ {
		clock.BlockUntil(1)
		clock.Advance(DefaultBackoffBase * time.Duration(1<<i))
	}
}

func TestFetchSessionOk(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(
		func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, r.URL.Path, "/v1/seasons/2024/rounds/1/sessions/R")
			fmt.Fprint(w, sessionPayload)
		}))
	defer server.Close()

	client := NewClient(server.URL)
	got, err := client.FetchSession(context.Background(), 2024, 1, "R")
	assert.NilError(t, err)
	assert.Equal(t, got.Event.EventName, "Bahrain Grand Prix")
	assert.Equal(t, len(got.Laps), 2)
	assert.Equal(t, *got.Laps[0].Driver, "VER")
	assert.Equal(t, *got.Laps[0].LapTimeMS, int64(96000))
	assert.Assert(t, got.Laps[0].PitInTimeMS == nil)
	assert.Assert(t, *got.Laps[1].PitInTimeMS == 191500)
	assert.Equal(t, len(got.Results), 1)
	assert.Equal(t, *got.Results[0].Points, 25.0)
	assert.Equal(t, len(got.Weather), 1)
	assert.Equal(t, *got.Weather[0].OffsetMS, int64(30000))
	assert.Assert(t, got.Weather[0].TimestampUTC == nil)
}

func TestFetchSessionRetriesRateLimit(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(
		func(w http.ResponseWriter, r *http.Request) {
			if calls.Add(1) <= 2 {
				w.WriteHeader(http.StatusTooManyRequests)
				return
			}
			fmt.Fprint(w, sessionPayload)
		}))
	defer server.Close()

	clock := clockwork.NewFakeClock()
	client := NewClient(server.URL, WithClock(clock))

	result := make(chan error, 1)
	go func() {
		_, err := client.FetchSession(context.Background(), 2024, 1, "R")
		result <- err
	}()
	advanceRetries(clock, 2)
	assert.NilError(t, <-result)
	assert.Equal(t, calls.Load(), int32(3))
}

func TestFetchSessionExhausted(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(
		func(w http.ResponseWriter, r *http.Request) {
			calls.Add(1)
			w.WriteHeader(http.StatusInternalServerError)
		}))
	defer server.Close()

	clock := clockwork.NewFakeClock()
	client := NewClient(server.URL, WithClock(clock))

	result := make(chan error, 1)
	go func() {
		_, err := client.FetchSession(context.Background(), 2024, 1, "R")
		result <- err
	}()
	advanceRetries(clock, DefaultSessionAttempts-1)
	err := <-result
	assert.Assert(t, err != nil)
	assert.Equal(t, calls.Load(), int32(DefaultSessionAttempts))

	var extErr *ExtractionError
	assert.Assert(t, errors.As(err, &extErr))
	assert.Equal(t, extErr.Season, 2024)
	assert.Equal(t, extErr.Round, 1)
	assert.Equal(t, extErr.SessionType, "R")
}

func TestFetchSessionNotFound(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(
		func(w http.ResponseWriter, r *http.Request) {
			calls.Add(1)
			w.WriteHeader(http.StatusNotFound)
		}))
	defer server.Close()

	client := NewClient(server.URL)
	_, err := client.FetchSession(context.Background(), 2024, 99, "R")
	assert.Assert(t, err != nil)
	// classified but not retried
	assert.Equal(t, calls.Load(), int32(1))
	assert.Assert(t, errors.Is(err, ErrNotFound))
	var extErr *ExtractionError
	assert.Assert(t, errors.As(err, &extErr))
}

func TestFetchSessionNoLapsRetries(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(
		func(w http.ResponseWriter, r *http.Request) {
			calls.Add(1)
			fmt.Fprint(w, `{"event":{"season":2024,"round":1,"session_type":"R",
				"event_name":"Bahrain Grand Prix"},"laps":[],"results":[],"weather":[]}`)
		}))
	defer server.Close()

	clock := clockwork.NewFakeClock()
	client := NewClient(server.URL, WithClock(clock))

	result := make(chan error, 1)
	go func() {
		_, err := client.FetchSession(context.Background(), 2024, 1, "R")
		result <- err
	}()
	advanceRetries(clock, DefaultSessionAttempts-1)
	err := <-result
	assert.Assert(t, err != nil)
	assert.Equal(t, calls.Load(), int32(DefaultSessionAttempts))
}

func TestFetchScheduleOk(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(
		func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, r.URL.Path, "/v1/seasons/2024/schedule")
			fmt.Fprint(w, schedulePayload)
		}))
	defer server.Close()

	client := NewClient(server.URL)
	got, err := client.FetchSchedule(context.Background(), 2024)
	assert.NilError(t, err)
	assert.Equal(t, got.Season, 2024)
	assert.Equal(t, len(got.Events), 2)
	assert.Equal(t, got.Events[0].Round, 0)
	assert.Equal(t, got.Events[1].EventName, "Bahrain Grand Prix")
	assert.Equal(t, *got.Events[1].OfficialKey, "2024-1")
}

func TestFetchScheduleEmptyExhausts(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(
		func(w http.ResponseWriter, r *http.Request) {
			calls.Add(1)
			fmt.Fprint(w, `{"season":2024,"events":[]}`)
		}))
	defer server.Close()

	clock := clockwork.NewFakeClock()
	client := NewClient(server.URL, WithClock(clock))

	result := make(chan error, 1)
	go func() {
		_, err := client.FetchSchedule(context.Background(), 2024)
		result <- err
	}()
	advanceRetries(clock, DefaultScheduleAttempts-1)
	err := <-result
	assert.Assert(t, err != nil)
	assert.Equal(t, calls.Load(), int32(DefaultScheduleAttempts))
	var extErr *ExtractionError
	assert.Assert(t, errors.As(err, &extErr))
	assert.Equal(t, extErr.Season, 2024)
	assert.Equal(t, extErr.SessionType, "")
}

func TestFetchSessionCancel(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(
		func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		}))
	defer server.Close()

	clock := clockwork.NewFakeClock()
	client := NewClient(server.URL, WithClock(clock))

	ctx, cancel := context.WithCancel(context.Background())
	result := make(chan error, 1)
	go func() {
		_, err := client.FetchSession(ctx, 2024, 1, "R")
		result <- err
	}()
	// cancel while the client waits out the first backoff
	clock.BlockUntil(1)
	cancel()
	err := <-result
	assert.Assert(t, errors.Is(err, context.Canceled))
}
