package ingest

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"github.com/f1decoder/f1-warehouse-manager-go/log"
	"github.com/f1decoder/f1-warehouse-manager-go/pkg/config"
	"github.com/f1decoder/f1-warehouse-manager-go/pkg/db/postgres"
	ingestsvc "github.com/f1decoder/f1-warehouse-manager-go/pkg/service/ingest"
	"github.com/f1decoder/f1-warehouse-manager-go/pkg/timing"
	"github.com/f1decoder/f1-warehouse-manager-go/pkg/utils"
)

var (
	season int
	round  int
)

func NewIngestCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ingest",
		Short: "runs the full pipeline for a single race",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runIngest()
		},
	}

	cmd.Flags().IntVar(&season, "season", 0, "championship season (year)")
	cmd.Flags().IntVar(&round, "round", 0, "round within the season")
	cmd.Flags().StringVar(&config.SessionType,
		"session-type",
		"R",
		"session type to ingest (R=race, S=sprint)")
	//nolint:errcheck // the flags exist
	cmd.MarkFlagRequired("season")
	//nolint:errcheck // the flags exist
	cmd.MarkFlagRequired("round")
	return cmd
}

func runIngest() error {
	waitForDatabase()
	pool := postgres.InitWithURL(config.DB,
		postgres.WithTracer(log.Default().Named("sql"),
			parseLogLevel(config.SQLLogLevel, log.DebugLevel)))
	defer pool.Close()

	client := timing.NewClient(config.TimingURL)
	svc := ingestsvc.InitIngestService(pool, client)
	return svc.IngestRace(context.Background(), season, round, config.SessionType)
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
