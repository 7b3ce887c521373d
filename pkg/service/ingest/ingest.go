// Package ingest drives the per-race pipeline: fetch, stage, transform,
// load curated, rebuild marts, run the quality battery. Every attempt is
// tracked as one ingestion run.
package ingest

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/f1decoder/f1-warehouse-manager-go/log"
	"github.com/f1decoder/f1-warehouse-manager-go/pkg/model"
	martsbuilder "github.com/f1decoder/f1-warehouse-manager-go/pkg/processing/marts"
	"github.com/f1decoder/f1-warehouse-manager-go/pkg/processing/transform"
	"github.com/f1decoder/f1-warehouse-manager-go/pkg/quality"
	catalogrepos "github.com/f1decoder/f1-warehouse-manager-go/pkg/repository/catalog"
	driverrepos "github.com/f1decoder/f1-warehouse-manager-go/pkg/repository/driver"
	laprepos "github.com/f1decoder/f1-warehouse-manager-go/pkg/repository/lap"
	martsrepos "github.com/f1decoder/f1-warehouse-manager-go/pkg/repository/marts"
	qualityrepos "github.com/f1decoder/f1-warehouse-manager-go/pkg/repository/quality"
	racerepos "github.com/f1decoder/f1-warehouse-manager-go/pkg/repository/race"
	racecontrolrepos "github.com/f1decoder/f1-warehouse-manager-go/pkg/repository/racecontrol"
	resultsrepos "github.com/f1decoder/f1-warehouse-manager-go/pkg/repository/results"
	runsrepos "github.com/f1decoder/f1-warehouse-manager-go/pkg/repository/runs"
	stagingrepos "github.com/f1decoder/f1-warehouse-manager-go/pkg/repository/staging"
	teamrepos "github.com/f1decoder/f1-warehouse-manager-go/pkg/repository/team"
	weatherrepos "github.com/f1decoder/f1-warehouse-manager-go/pkg/repository/weather"
	"github.com/f1decoder/f1-warehouse-manager-go/pkg/timing"
	"github.com/f1decoder/f1-warehouse-manager-go/pkg/utils"
	"github.com/f1decoder/f1-warehouse-manager-go/version"
)

type IngestService struct {
	pool   *pgxpool.Pool
	client *timing.Client
	tr     *transform.Transformer
	logger *log.Logger
}

type Option func(*IngestService)

func WithLogger(logger *log.Logger) Option {
	return func(s *IngestService) { s.logger = logger }
}

func InitIngestService(pool *pgxpool.Pool, client *timing.Client, opts ...Option) *IngestService {
	ret := &IngestService{
		pool:   pool,
		client: client,
		logger: log.Default().Named("ingest"),
	}
	for _, opt := range opts {
		opt(ret)
	}
	ret.tr = transform.NewTransformer(transform.WithLogger(ret.logger))
	return ret
}

// IngestRace runs the whole pipeline for one race. The run row is
// finalized exactly once, also on failure; quality failures downgrade
// the run to partial but never abort it.
//
//nolint:funlen,gocognit // the pipeline reads top to bottom
func (s *IngestService) IngestRace(
	ctx context.Context,
	season int,
	round int,
	sessionType string,
) error {
	raceID := utils.MakeRaceID(season, round, sessionType)
	run := &model.IngestionRun{
		RunID:       uuid.NewString(),
		StartedAt:   time.Now().UTC(),
		Status:      model.RunStatusRunning,
		Season:      season,
		Round:       round,
		SessionType: sessionType,
		CodeVersion: version.Version,
	}
	if err := runsrepos.Create(ctx, s.pool, run); err != nil {
		return fmt.Errorf("creating ingestion run: %w", err)
	}
	s.logger.Info("ingesting race",
		log.String("raceId", raceID),
		log.String("runId", run.RunID))

	status := model.RunStatusFailed
	notes := map[string]any{}
	timings := map[string]float64{}
	defer func() {
		notes["timings_sec"] = timings
		// runs are finalized even when the pipeline context is gone
		if _, err := runsrepos.Finalize(context.Background(), s.pool,
			run.RunID, status, time.Now().UTC(), notes); err != nil {
			s.logger.Error("finalizing run failed",
				log.String("runId", run.RunID), log.ErrorField(err))
		}
	}()
	fail := func(stage string, err error) error {
		notes["error"] = err.Error()
		s.logger.Error("ingest failed",
			log.String("raceId", raceID),
			log.String("stage", stage),
			log.ErrorField(err))
		return fmt.Errorf("%s: %w", stage, err)
	}

	start := time.Now()
	if _, err := s.RefreshSchedule(ctx, season, sessionType); err != nil {
		return fail("schedule_refresh", err)
	}
	timings["schedule_refresh"] = time.Since(start).Seconds()

	start = time.Now()
	session, err := s.client.FetchSession(ctx, season, round, sessionType)
	if err != nil {
		return fail("extract_fetch", err)
	}
	timings["extract_fetch"] = time.Since(start).Seconds()

	start = time.Now()
	staged := s.tr.BuildStagingBundle(session, run.RunID)
	err = pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		if err := stagingrepos.ReplaceLaps(ctx, tx, staged.RaceID, staged.Laps); err != nil {
			return err
		}
		if err := stagingrepos.ReplaceResults(ctx, tx, staged.RaceID, staged.Results); err != nil {
			return err
		}
		return stagingrepos.ReplaceWeather(ctx, tx, staged.RaceID, staged.Weather)
	})
	if err != nil {
		return fail("stage_load", err)
	}
	timings["stage_load"] = time.Since(start).Seconds()

	start = time.Now()
	curated, err := s.transformStaged(ctx, session.Event, staged.RaceID)
	if err != nil {
		return fail("transform", err)
	}
	timings["transform"] = time.Since(start).Seconds()

	start = time.Now()
	if err := s.loadCurated(ctx, curated); err != nil {
		return fail("curated_load", err)
	}
	timings["curated_load"] = time.Since(start).Seconds()

	start = time.Now()
	if err := s.rebuildMarts(ctx, raceID, season); err != nil {
		return fail("marts_build", err)
	}
	timings["marts_build"] = time.Since(start).Seconds()

	start = time.Now()
	checks, err := quality.RunChecks(ctx, s.pool, run.RunID, raceID)
	if err != nil {
		return fail("quality_checks", err)
	}
	err = pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		for _, check := range checks {
			if err := qualityrepos.Create(ctx, tx, check); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fail("quality_checks", err)
	}
	timings["quality_checks"] = time.Since(start).Seconds()
	notes["quality_checks"] = quality.Summary(checks)

	// the race counts as ingested even when quality flagged it
	num, err := catalogrepos.MarkIngested(ctx, s.pool, raceID, time.Now().UTC())
	if err != nil {
		return fail("mark_ingested", err)
	}
	if num == 0 {
		s.logger.Warn("race missing from catalog",
			log.String("raceId", raceID))
	}

	if quality.AllPassed(checks) {
		status = model.RunStatusSuccess
	} else {
		status = model.RunStatusPartial
		s.logger.Warn("quality checks failed",
			log.String("raceId", raceID),
			log.Any("summary", notes["quality_checks"]))
	}
	s.logger.Info("race ingested",
		log.String("raceId", raceID),
		log.String("status", string(status)),
		log.Int("laps", len(curated.Laps)))
	return nil
}

// transformStaged reads the freshly staged rows back and derives the
// curated bundle from them, so curated always reflects what staging
// durably holds.
func (s *IngestService) transformStaged(
	ctx context.Context,
	event timing.SessionEvent,
	raceID string,
) (*transform.CuratedBundle, error) {
	laps, err := stagingrepos.LoadLapsByRaceId(ctx, s.pool, raceID)
	if err != nil {
		return nil, err
	}
	results, err := stagingrepos.LoadResultsByRaceId(ctx, s.pool, raceID)
	if err != nil {
		return nil, err
	}
	weather, err := stagingrepos.LoadWeatherByRaceId(ctx, s.pool, raceID)
	if err != nil {
		return nil, err
	}
	race := transform.RaceFromSession(event)
	return s.tr.BuildCuratedBundle(race, laps, results, weather), nil
}

// loadCurated upserts dimensions and facts in one transaction per race.
//
//nolint:gocognit // just a sequence of upsert loops
func (s *IngestService) loadCurated(ctx context.Context, curated *transform.CuratedBundle) error {
	return pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		if err := racerepos.Upsert(ctx, tx, curated.Race); err != nil {
			return err
		}
		for _, t := range curated.Teams {
			if err := teamrepos.Upsert(ctx, tx, t); err != nil {
				return err
			}
		}
		for _, d := range curated.Drivers {
			if err := driverrepos.Upsert(ctx, tx, d); err != nil {
				return err
			}
		}
		for _, dts := range curated.DriverTeams {
			if err := driverrepos.UpsertTeamSeason(ctx, tx, dts); err != nil {
				return err
			}
		}
		for _, l := range curated.Laps {
			if err := laprepos.Upsert(ctx, tx, l); err != nil {
				return err
			}
		}
		for _, r := range curated.Results {
			if err := resultsrepos.Upsert(ctx, tx, r); err != nil {
				return err
			}
		}
		for _, rc := range curated.RaceControl {
			if err := racecontrolrepos.Upsert(ctx, tx, rc); err != nil {
				return err
			}
		}
		for _, w := range curated.Weather {
			if err := weatherrepos.Upsert(ctx, tx, w); err != nil {
				return err
			}
		}
		return nil
	})
}

// rebuildMarts recomputes all three marts of a race from the curated
// facts just written.
func (s *IngestService) rebuildMarts(ctx context.Context, raceID string, season int) error {
	laps, err := laprepos.LoadByRaceId(ctx, s.pool, raceID)
	if err != nil {
		return err
	}
	driverTeams, err := driverrepos.LoadTeamSeasons(ctx, s.pool, season)
	if err != nil {
		return err
	}
	gaps := martsbuilder.BuildGapTimeline(raceID, laps)
	positions := martsbuilder.BuildPositionChart(raceID, laps, driverTeams)
	stints := martsbuilder.BuildStintSummary(raceID, laps)

	return pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		if err := martsrepos.ReplaceGapTimeline(ctx, tx, raceID, gaps); err != nil {
			return err
		}
		if err := martsrepos.ReplacePositionChart(ctx, tx, raceID, positions); err != nil {
			return err
		}
		return martsrepos.ReplaceStintSummary(ctx, tx, raceID, stints)
	})
}
