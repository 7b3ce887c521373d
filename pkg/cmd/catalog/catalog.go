package catalog

import (
	"context"
	"fmt"
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
	seasonStart int
	seasonEnd   int
)

func NewCatalogCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "inspects the races catalog",
	}
	cmd.AddCommand(newStatusCmd())
	return cmd
}

func newStatusCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status",
		Short: "prints ingested/total races per season",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStatus()
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

func runStatus() error {
	waitForDatabase()
	pool := postgres.InitWithURL(config.DB)
	defer pool.Close()

	svc := ingestsvc.InitIngestService(pool, timing.NewClient(config.TimingURL))
	totals, err := svc.SeasonStatus(context.Background(), seasonStart, seasonEnd)
	if err != nil {
		return err
	}
	for _, t := range totals {
		fmt.Printf("%d: %d/%d races ingested\n", t.Season, t.Ingested, t.Total)
	}
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
