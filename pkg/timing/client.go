//nolint:whitespace // can't make both editor and linter happy
package timing

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/f1decoder/f1-warehouse-manager-go/log"
)

const (
	DefaultSessionAttempts  = 4
	DefaultScheduleAttempts = 5
	DefaultBackoffBase      = 2 * time.Second
)

type (
	Option func(*Client)
	// Client fetches schedule and session data from the timing archive.
	// It owns no warehouse connection.
	Client struct {
		httpClient       *http.Client
		baseURL          string
		clock            clockwork.Clock
		logger           *log.Logger
		sessionAttempts  int
		scheduleAttempts int
		backoffBase      time.Duration
		retryHook        func()
	}
)

func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) { c.httpClient = httpClient }
}

// WithClock replaces the clock used for backoff sleeps.
func WithClock(clock clockwork.Clock) Option {
	return func(c *Client) { c.clock = clock }
}

func WithLogger(logger *log.Logger) Option {
	return func(c *Client) { c.logger = logger }
}

func WithBackoffBase(base time.Duration) Option {
	return func(c *Client) { c.backoffBase = base }
}

func WithSessionAttempts(attempts int) Option {
	return func(c *Client) { c.sessionAttempts = attempts }
}

func WithScheduleAttempts(attempts int) Option {
	return func(c *Client) { c.scheduleAttempts = attempts }
}

// WithRetryHook installs a callback fired once per repeated attempt.
func WithRetryHook(hook func()) Option {
	return func(c *Client) { c.retryHook = hook }
}

func NewClient(baseURL string, opts ...Option) *Client {
	ret := &Client{
		httpClient:       &http.Client{Timeout: 60 * time.Second},
		baseURL:          baseURL,
		clock:            clockwork.NewRealClock(),
		logger:           log.Default().Named("timing"),
		sessionAttempts:  DefaultSessionAttempts,
		scheduleAttempts: DefaultScheduleAttempts,
		backoffBase:      DefaultBackoffBase,
	}
	for _, opt := range opts {
		opt(ret)
	}
	return ret
}

// FetchSchedule loads the season's event schedule. An empty schedule
// counts as a failed attempt since the archive occasionally serves
// incomplete documents.
func (c *Client) FetchSchedule(ctx context.Context, season int) (*Schedule, error) {
	url := fmt.Sprintf("%s/v1/seasons/%d/schedule", c.baseURL, season)
	var ret Schedule
	err := c.withRetry(ctx, c.scheduleAttempts, func() (bool, error) {
		ret = Schedule{}
		if retry, err := c.getJSON(ctx, url, &ret); err != nil {
			return retry, err
		}
		if len(ret.Events) == 0 {
			return true, fmt.Errorf("empty schedule for season %d", season)
		}
		return false, nil
	})
	if err != nil {
		return nil, &ExtractionError{Season: season, Err: err}
	}
	return &ret, nil
}

// FetchSession loads one session's laps, results and weather rows. A
// session without lap rows counts as a failed attempt.
func (c *Client) FetchSession(
	ctx context.Context,
	season, round int,
	sessionType string,
) (*SessionData, error) {
	url := fmt.Sprintf("%s/v1/seasons/%d/rounds/%d/sessions/%s",
		c.baseURL, season, round, sessionType)
	var ret SessionData
	err := c.withRetry(ctx, c.sessionAttempts, func() (bool, error) {
		ret = SessionData{}
		if retry, err := c.getJSON(ctx, url, &ret); err != nil {
			return retry, err
		}
		if len(ret.Laps) == 0 {
			return true, fmt.Errorf("no lap data for %d round %d session %s",
				season, round, sessionType)
		}
		return false, nil
	})
	if err != nil {
		return nil, &ExtractionError{
			Season: season, Round: round, SessionType: sessionType, Err: err,
		}
	}
	return &ret, nil
}

// withRetry runs op up to attempts times, sleeping base*2^(n-1) between
// attempts via the injected clock. op reports whether its error is worth
// another attempt.
func (c *Client) withRetry(
	ctx context.Context,
	attempts int,
	op func() (bool, error),
) error {
	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if attempt > 1 {
			delay := c.backoffBase * time.Duration(1<<(attempt-2))
			c.logger.Debug("retrying fetch",
				log.Int("attempt", attempt),
				log.Duration("delay", delay),
				log.ErrorField(lastErr))
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-c.clock.After(delay):
			}
			if c.retryHook != nil {
				c.retryHook()
			}
		}
		retry, err := op()
		if err == nil {
			return nil
		}
		if !retry {
			return err
		}
		lastErr = err
	}
	return lastErr
}

//nolint:errcheck // draining the body on close is best effort
func (c *Client) getJSON(ctx context.Context, url string, out any) (bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return false, err
	}
	req.Header.Set("Accept", "application/json")
	resp, err := c.httpClient.Do(req)
	if err != nil {
		// transport errors and timeouts are transient
		return true, fmt.Errorf("request %s failed: %w", url, err)
	}
	defer resp.Body.Close()
	switch {
	case resp.StatusCode == http.StatusOK:
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return false, fmt.Errorf("decoding %s: %w", url, err)
		}
		return false, nil
	case resp.StatusCode == http.StatusNotFound:
		return false, fmt.Errorf("%w: %s", ErrNotFound, url)
	case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
		return true, fmt.Errorf("status %d from %s", resp.StatusCode, url)
	default:
		return false, fmt.Errorf("status %d from %s", resp.StatusCode, url)
	}
}
