package migrate

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/f1decoder/f1-warehouse-manager-go/log"
	"github.com/f1decoder/f1-warehouse-manager-go/pkg/config"
	dbmigrate "github.com/f1decoder/f1-warehouse-manager-go/pkg/db/migrate"
	"github.com/f1decoder/f1-warehouse-manager-go/pkg/utils"
)

func NewMigrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "manages the warehouse schema",
	}

	cmd.PersistentFlags().StringVarP(&config.MigrationSourceURL,
		"migration-source-url",
		"m",
		"",
		"migration files location (default is the embedded set)")

	cmd.AddCommand(newUpCmd())
	cmd.AddCommand(newDownCmd())
	return cmd
}

func newUpCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "up",
		Short: "migrates the warehouse schema to the latest version",
		RunE: func(cmd *cobra.Command, args []string) error {
			waitForDatabase()
			log.Info("Migrating database")
			return dbmigrate.MigrateDB(config.DB, config.MigrationSourceURL)
		},
	}
}

func newDownCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "down",
		Short: "tears down all warehouse schemas",
		RunE: func(cmd *cobra.Command, args []string) error {
			waitForDatabase()
			log.Info("Rolling back database")
			return dbmigrate.RollbackDB(config.DB, config.MigrationSourceURL)
		},
	}
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
