//nolint:whitespace // can't make both editor and linter happy
// Package backfill replays whole seasons through the ingest pipeline
// until every race is loaded or the pass budget runs out.
package backfill

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jonboulle/clockwork"
	"github.com/samber/lo"

	"github.com/f1decoder/f1-warehouse-manager-go/log"
	"github.com/f1decoder/f1-warehouse-manager-go/pkg/observability"
	catalogrepos "github.com/f1decoder/f1-warehouse-manager-go/pkg/repository/catalog"
)

const (
	DefaultMaxPasses = 8
	DefaultSleepRace = 1 * time.Second
	DefaultSleepPass = 20 * time.Second
)

// Ingester is the slice of the ingest service the orchestrator drives.
type Ingester interface {
	IngestRace(ctx context.Context, season, round int, sessionType string) error
	RefreshSchedule(ctx context.Context, season int, sessionType string) (int, error)
}

type raceState int

const (
	statePending raceState = iota
	stateInProgress
	stateSucceeded
	stateFailed
)

// raceItem tracks one catalog race across passes. The in-memory state
// is authoritative for the lifetime of one Run call.
type raceItem struct {
	season      int
	round       int
	sessionType string
	state       raceState
	attempts    int
	lastErr     error
}

// FailedRace describes a race that never succeeded within the pass budget.
type FailedRace struct {
	Season      int
	Round       int
	SessionType string
	Attempts    int
	LastErr     error
}

// Report summarizes one backfill run. Succeeded counts races ingested
// during this run, not races that were already loaded.
type Report struct {
	Passes    int
	Succeeded int
	Failed    []*FailedRace
}

type (
	Option func(*BackfillService)
	// BackfillService drives bounded ingest passes over a season range.
	BackfillService struct {
		pool        *pgxpool.Pool
		ingester    Ingester
		clock       clockwork.Clock
		logger      *log.Logger
		metrics     *observability.Metrics
		sessionType string
		maxPasses   int
		sleepRace   time.Duration
		sleepPass   time.Duration
	}
)

func WithClock(clock clockwork.Clock) Option {
	return func(s *BackfillService) { s.clock = clock }
}

func WithLogger(logger *log.Logger) Option {
	return func(s *BackfillService) { s.logger = logger }
}

func WithMetrics(metrics *observability.Metrics) Option {
	return func(s *BackfillService) { s.metrics = metrics }
}

func WithSessionType(sessionType string) Option {
	return func(s *BackfillService) { s.sessionType = sessionType }
}

func WithMaxPasses(maxPasses int) Option {
	return func(s *BackfillService) { s.maxPasses = maxPasses }
}

func WithSleepRace(d time.Duration) Option {
	return func(s *BackfillService) { s.sleepRace = d }
}

func WithSleepPass(d time.Duration) Option {
	return func(s *BackfillService) { s.sleepPass = d }
}

func InitBackfillService(
	pool *pgxpool.Pool,
	ingester Ingester,
	opts ...Option,
) *BackfillService {
	ret := &BackfillService{
		pool:        pool,
		ingester:    ingester,
		clock:       clockwork.NewRealClock(),
		logger:      log.Default().Named("backfill"),
		metrics:     observability.NewUnregisteredMetrics(),
		sessionType: "R",
		maxPasses:   DefaultMaxPasses,
		sleepRace:   DefaultSleepRace,
		sleepPass:   DefaultSleepPass,
	}
	for _, opt := range opts {
		opt(ret)
	}
	return ret
}

// Run executes up to maxPasses ingest passes over the season range and
// reports the races that never succeeded. Individual race failures never
// abort the loop, only configuration and catalog errors do.
func (s *BackfillService) Run(
	ctx context.Context,
	seasonStart int,
	seasonEnd int,
) (*Report, error) {
	if seasonStart > seasonEnd {
		return nil, fmt.Errorf("invalid season range %d-%d", seasonStart, seasonEnd)
	}
	if s.maxPasses < 1 {
		return nil, fmt.Errorf("maxPasses must be at least 1, got %d", s.maxPasses)
	}

	items := make(map[string]*raceItem)
	report := &Report{}
	for pass := 1; pass <= s.maxPasses; pass++ {
		report.Passes = pass
		s.metrics.PassesRun.Inc()
		s.refreshSeasons(ctx, seasonStart, seasonEnd)
		if err := s.syncState(ctx, items, seasonStart, seasonEnd); err != nil {
			return nil, fmt.Errorf("reading races catalog: %w", err)
		}
		pending := pendingRaces(items)
		if len(pending) == 0 {
			s.logger.Info("nothing left to ingest", log.Int("pass", pass))
			break
		}
		s.logger.Info("starting pass",
			log.Int("pass", pass),
			log.Int("races", len(pending)))

		progress := 0
		for i, item := range pending {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			if s.attemptRace(ctx, item) {
				progress++
				report.Succeeded++
			}
			if i < len(pending)-1 {
				s.sleep(ctx, s.sleepRace)
			}
		}
		if progress == 0 {
			s.logger.Warn("pass made no progress", log.Int("pass", pass))
		}
		s.logSeasonTotals(ctx, seasonStart, seasonEnd)
		if len(pendingRaces(items)) == 0 {
			break
		}
		if pass < s.maxPasses {
			s.sleep(ctx, s.sleepPass)
		}
	}

	report.Failed = failedRaces(items)
	if len(report.Failed) > 0 {
		s.logger.Error("races left unloaded after final pass",
			log.Int("passes", report.Passes),
			log.Int("count", len(report.Failed)))
	}
	return report, nil
}

func (s *BackfillService) attemptRace(ctx context.Context, item *raceItem) bool {
	item.state = stateInProgress
	item.attempts++
	s.metrics.RacesAttempted.Inc()
	err := s.ingester.IngestRace(ctx, item.season, item.round, item.sessionType)
	if err != nil {
		item.state = stateFailed
		item.lastErr = err
		s.metrics.RacesFailed.Inc()
		s.logger.Warn("race ingest failed",
			log.Int("season", item.season),
			log.Int("round", item.round),
			log.Int("attempt", item.attempts),
			log.ErrorField(err))
		return false
	}
	item.state = stateSucceeded
	s.metrics.RacesSucceeded.Inc()
	return true
}

// refreshSeasons updates the catalog from the timing archive. A failed
// refresh keeps the pass going with the races already known.
func (s *BackfillService) refreshSeasons(ctx context.Context, seasonStart, seasonEnd int) {
	for season := seasonStart; season <= seasonEnd; season++ {
		if _, err := s.ingester.RefreshSchedule(ctx, season, s.sessionType); err != nil {
			s.logger.Warn("schedule refresh failed",
				log.Int("season", season),
				log.ErrorField(err))
		}
	}
}

// logSeasonTotals reports ingestion progress per season after a pass.
// The totals come from the catalog, so races loaded outside this run
// count too.
func (s *BackfillService) logSeasonTotals(ctx context.Context, seasonStart, seasonEnd int) {
	totals, err := catalogrepos.LoadSeasonTotals(ctx, s.pool)
	if err != nil {
		s.logger.Warn("season totals unavailable", log.ErrorField(err))
		return
	}
	for _, t := range totals {
		if t.Season < seasonStart || t.Season > seasonEnd {
			continue
		}
		s.logger.Info("season totals",
			log.Int("season", t.Season),
			log.Int("ingested", t.Ingested),
			log.Int("total", t.Total))
	}
}

// syncState folds catalog rows into the state table. Races seen for the
// first time start pending, or succeeded when already ingested. Races
// already tracked keep their in-memory state.
func (s *BackfillService) syncState(
	ctx context.Context,
	items map[string]*raceItem,
	seasonStart int,
	seasonEnd int,
) error {
	for season := seasonStart; season <= seasonEnd; season++ {
		entries, err := catalogrepos.LoadBySeason(ctx, s.pool, season, s.sessionType)
		if err != nil {
			return err
		}
		for _, entry := range entries {
			if _, ok := items[entry.RaceID]; ok {
				continue
			}
			item := &raceItem{
				season:      entry.Season,
				round:       entry.Round,
				sessionType: entry.SessionType,
			}
			if entry.IsIngested {
				item.state = stateSucceeded
			}
			items[entry.RaceID] = item
		}
	}
	return nil
}

func (s *BackfillService) sleep(ctx context.Context, d time.Duration) {
	if d <= 0 {
		return
	}
	select {
	case <-ctx.Done():
	case <-s.clock.After(d):
	}
}

func pendingRaces(items map[string]*raceItem) []*raceItem {
	ret := lo.Filter(lo.Values(items), func(item *raceItem, _ int) bool {
		return item.state != stateSucceeded
	})
	sortItems(ret)
	return ret
}

func failedRaces(items map[string]*raceItem) []*FailedRace {
	left := lo.Filter(lo.Values(items), func(item *raceItem, _ int) bool {
		return item.state != stateSucceeded
	})
	sortItems(left)
	return lo.Map(left, func(item *raceItem, _ int) *FailedRace {
		return &FailedRace{
			Season:      item.season,
			Round:       item.round,
			SessionType: item.sessionType,
			Attempts:    item.attempts,
			LastErr:     item.lastErr,
		}
	})
}

func sortItems(items []*raceItem) {
	sort.Slice(items, func(i, j int) bool {
		if items[i].season != items[j].season {
			return items[i].season < items[j].season
		}
		return items[i].round < items[j].round
	})
}
