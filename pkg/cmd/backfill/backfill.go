package backfill

import (
	"context"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"

	"github.com/f1decoder/f1-warehouse-manager-go/log"
	"github.com/f1decoder/f1-warehouse-manager-go/pkg/config"
	"github.com/f1decoder/f1-warehouse-manager-go/pkg/db/postgres"
	"github.com/f1decoder/f1-warehouse-manager-go/pkg/observability"
	backfillsvc "github.com/f1decoder/f1-warehouse-manager-go/pkg/service/backfill"
	ingestsvc "github.com/f1decoder/f1-warehouse-manager-go/pkg/service/ingest"
	"github.com/f1decoder/f1-warehouse-manager-go/pkg/timing"
	"github.com/f1decoder/f1-warehouse-manager-go/pkg/utils"
)

var (
	season      int
	seasonStart int
	seasonEnd   int
	maxPasses   = backfillsvc.DefaultMaxPasses
	sleepRace   = backfillsvc.DefaultSleepRace
	sleepPass   = backfillsvc.DefaultSleepPass
)

func NewBackfillCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "backfill",
		Short: "loads historical races in bulk",
	}

	cmd.PersistentFlags().StringVar(&config.SessionType,
		"session-type",
		"R",
		"session type to backfill (R=race, S=sprint)")

	cmd.AddCommand(newSeasonCmd())
	cmd.AddCommand(newRangeCmd())
	cmd.AddCommand(newAutoCmd())
	return cmd
}

func newSeasonCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "season",
		Short: "attempts every race of one season once",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBackfill(season, season, 1)
		},
	}
	cmd.Flags().IntVar(&season, "season", 0, "championship season (year)")
	//nolint:errcheck // the flag exists
	cmd.MarkFlagRequired("season")
	return cmd
}

func newRangeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "range",
		Short: "attempts every race of an inclusive season range once",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBackfill(seasonStart, seasonEnd, 1)
		},
	}
	cmd.Flags().IntVar(&seasonStart, "season-start", 0, "first season (inclusive)")
	cmd.Flags().IntVar(&seasonEnd, "season-end", 0, "last season (inclusive)")
	//nolint:errcheck // the flags exist
	cmd.MarkFlagRequired("season-start")
	//nolint:errcheck // the flags exist
	cmd.MarkFlagRequired("season-end")
	return cmd
}

func newAutoCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auto",
		Short: "repeats passes until every race is loaded or the pass budget is spent",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBackfill(seasonStart, seasonEnd, maxPasses)
		},
	}
	cmd.Flags().IntVar(&seasonStart, "season-start", 0, "first season (inclusive)")
	cmd.Flags().IntVar(&seasonEnd, "season-end", 0, "last season (inclusive)")
	cmd.Flags().IntVar(&maxPasses, "max-passes",
		backfillsvc.DefaultMaxPasses, "upper bound of passes over the remaining races")
	cmd.Flags().DurationVar(&sleepRace, "sleep-race",
		backfillsvc.DefaultSleepRace, "pause between two races within a pass")
	cmd.Flags().DurationVar(&sleepPass, "sleep-pass",
		backfillsvc.DefaultSleepPass, "pause between two passes")
	cmd.Flags().StringVar(&config.MetricsAddr, "metrics-addr",
		"", "prometheus listen address, e.g. :8090 (empty disables the listener)")
	//nolint:errcheck // the flags exist
	cmd.MarkFlagRequired("season-start")
	//nolint:errcheck // the flags exist
	cmd.MarkFlagRequired("season-end")
	return cmd
}

func runBackfill(seasonStart, seasonEnd, passes int) error {
	waitForDatabase()
	pool := postgres.InitWithURL(config.DB,
		postgres.WithTracer(log.Default().Named("sql"),
			parseLogLevel(config.SQLLogLevel, log.DebugLevel)))
	defer pool.Close()

	metrics := observability.NewUnregisteredMetrics()
	clientOpts := []timing.Option{}
	if config.MetricsAddr != "" {
		metrics = observability.NewMetrics()
		clientOpts = append(clientOpts, timing.WithRetryHook(metrics.ExtractionRetries.Inc))
		go serveMetrics(config.MetricsAddr)
	}
	client := timing.NewClient(config.TimingURL, clientOpts...)
	svc := backfillsvc.InitBackfillService(pool,
		ingestsvc.InitIngestService(pool, client),
		backfillsvc.WithMetrics(metrics),
		backfillsvc.WithSessionType(config.SessionType),
		backfillsvc.WithMaxPasses(passes),
		backfillsvc.WithSleepRace(sleepRace),
		backfillsvc.WithSleepPass(sleepPass))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	report, err := svc.Run(ctx, seasonStart, seasonEnd)
	if err != nil {
		return err
	}

	// races that stayed failed are reported, not fatal
	log.Info("backfill finished",
		log.Int("passes", report.Passes),
		log.Int("succeeded", report.Succeeded),
		log.Int("failed", len(report.Failed)))
	for _, f := range report.Failed {
		log.Error("race never loaded",
			log.Int("season", f.Season),
			log.Int("round", f.Round),
			log.String("sessionType", f.SessionType),
			log.Int("attempts", f.Attempts),
			log.ErrorField(f.LastErr))
	}
	return nil
}

func serveMetrics(addr string) {
	if err := observability.ServeMetrics(addr, log.Default()); err != nil {
		log.Error("metrics server stopped", log.ErrorField(err))
	}
}

func parseLogLevel(l string, defaultVal log.Level) log.Level {
	level, err := log.ParseLevel(l)
	if err != nil {
		return defaultVal
	}
	return level
}

// wait for database
func waitForDatabase() {
	timeout, err := time.ParseDuration(config.WaitForServices)
	if err != nil {
		log.Warn("Invalid duration value. Setting default 60s", log.ErrorField(err))
		timeout = 60 * time.Second
	}
	postgresAddr := utils.ExtractFromDBURL(config.DB)
	if err = utils.WaitForTCP(postgresAddr, timeout); err != nil {
		log.Fatal("database not ready", log.ErrorField(err))
	}
}
