//nolint:errcheck // testsetup
package tcpostgres

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/docker/go-connections/nat"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/f1decoder/f1-warehouse-manager-go/pkg/db/migrate"
	database "github.com/f1decoder/f1-warehouse-manager-go/pkg/db/postgres"
)

// create a pg connection pool for the warehouse testdatabase
func SetupTestDb() *pgxpool.Pool {
	ctx := context.Background()
	port, err := nat.NewPort("tcp", "5432")
	if err != nil {
		log.Fatal(err)
	}
	container, err := SetupPostgres(ctx,
		WithPort(port.Port()),
		WithInitialDatabase("postgres", "password", "postgres"),
		WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(5*time.Second)),
		WithName("f1-warehouse-manager-test"),
	)
	if err != nil {
		log.Fatal(err)
	}
	containerPort, _ := container.MappedPort(ctx, port)
	host, _ := container.Host(ctx)
	dbUrl := fmt.Sprintf("postgresql://postgres:password@%s:%s/postgres",
		host, containerPort.Port())

	if err = migrate.MigrateDB(dbUrl, ""); err != nil {
		log.Fatal(err)
	}

	pool := database.InitWithURL(dbUrl)
	return pool
}

// connect to a database provided via TESTDB_URL instead of starting a
// container. Used on CI where the database runs as a service.
func SetupExternalTestDb() *pgxpool.Pool {
	dbUrl := os.Getenv("TESTDB_URL")
	if err := migrate.MigrateDB(dbUrl, ""); err != nil {
		log.Fatal(err)
	}
	return database.InitWithURL(dbUrl)
}

func ClearMartTables(pool *pgxpool.Pool) {
	pool.Exec(context.Background(), "delete from marts.mart_gap_timeline")
	pool.Exec(context.Background(), "delete from marts.mart_position_chart")
	pool.Exec(context.Background(), "delete from marts.mart_stint_summary")
}

func ClearCuratedTables(pool *pgxpool.Pool) {
	pool.Exec(context.Background(), "delete from curated.fact_lap")
	pool.Exec(context.Background(), "delete from curated.fact_session_results")
	pool.Exec(context.Background(), "delete from curated.fact_race_control")
	pool.Exec(context.Background(), "delete from curated.fact_weather_minute")
	pool.Exec(context.Background(), "delete from curated.dim_driver_team_season")
	pool.Exec(context.Background(), "delete from curated.dim_driver")
	pool.Exec(context.Background(), "delete from curated.dim_team")
	pool.Exec(context.Background(), "delete from curated.dim_race")
}

func ClearStagingTables(pool *pgxpool.Pool) {
	pool.Exec(context.Background(), "delete from staging.session_laps")
	pool.Exec(context.Background(), "delete from staging.session_results")
	pool.Exec(context.Background(), "delete from staging.session_weather")
}

func ClearMetadataTables(pool *pgxpool.Pool) {
	// quality checks cascade with their run
	pool.Exec(context.Background(), "delete from metadata.ingestion_runs")
	pool.Exec(context.Background(), "delete from metadata.races_catalog")
}

func ClearAllTables(pool *pgxpool.Pool) {
	ClearMartTables(pool)
	ClearCuratedTables(pool)
	ClearStagingTables(pool)
	ClearMetadataTables(pool)
}
