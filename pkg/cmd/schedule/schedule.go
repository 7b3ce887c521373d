package schedule

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

var season int

func NewScheduleCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "schedule",
		Short: "maintains the races catalog",
	}

	cmd.PersistentFlags().StringVar(&config.SessionType,
		"session-type",
		"R",
		"session type for catalog entries")

	cmd.AddCommand(newRefreshCmd())
	cmd.AddCommand(newSeedLinksCmd())
	return cmd
}

func newRefreshCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "refresh",
		Short: "upserts the catalog from the season schedule",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRefresh()
		},
	}
	cmd.Flags().IntVar(&season, "season", 0, "championship season (year)")
	//nolint:errcheck // the flag exists
	cmd.MarkFlagRequired("season")
	return cmd
}

func newSeedLinksCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seedlinks",
		Short: "populates wikipedia and formula1.com links for catalog races",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSeedLinks()
		},
	}
}

func runRefresh() error {
	waitForDatabase()
	pool := postgres.InitWithURL(config.DB)
	defer pool.Close()

	svc := ingestsvc.InitIngestService(pool, timing.NewClient(config.TimingURL))
	num, err := svc.RefreshSchedule(context.Background(), season, config.SessionType)
	if err != nil {
		return err
	}
	log.Info("schedule refreshed", log.Int("season", season), log.Int("races", num))
	return nil
}

func runSeedLinks() error {
	waitForDatabase()
	pool := postgres.InitWithURL(config.DB)
	defer pool.Close()

	svc := ingestsvc.InitIngestService(pool, timing.NewClient(config.TimingURL))
	num, err := svc.SeedCatalogLinks(context.Background())
	if err != nil {
		return err
	}
	log.Info("race links seeded", log.Int("races", num))
	return nil
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
