//nolint:dupl,funlen,errcheck,gocognit //ok for this test code
package analysis

import (
	"context"
	"log"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"gotest.tools/v3/assert"

	"github.com/f1decoder/f1-warehouse-manager-go/pkg/model"
	catalogrepos "github.com/f1decoder/f1-warehouse-manager-go/pkg/repository/catalog"
	martsrepos "github.com/f1decoder/f1-warehouse-manager-go/pkg/repository/marts"
	"github.com/f1decoder/f1-warehouse-manager-go/pkg/utils"
	"github.com/f1decoder/f1-warehouse-manager-go/testsupport/basedata"
	"github.com/f1decoder/f1-warehouse-manager-go/testsupport/testdb"
)

func ptr[T any](v T) *T { return &v }

// createDashboardFixture persists the sample race plus the mart rows the
// dashboard queries join against.
func createDashboardFixture(db *pgxpool.Pool) {
	ctx := context.Background()
	basedata.CreateSampleRace(db)

	gaps := []*model.GapTimelineRow{
		{RaceID: basedata.SampleRaceId(), LapNumber: 1,
			LeaderDriverID: utils.DriverID("VER"), P2DriverID: utils.DriverID("LEC"),
			GapP2ToLeaderMS: 500},
		{RaceID: basedata.SampleRaceId(), LapNumber: 2,
			LeaderDriverID: utils.DriverID("VER"), P2DriverID: utils.DriverID("LEC"),
			GapP2ToLeaderMS: 900},
		{RaceID: basedata.SampleRaceId(), LapNumber: 3,
			LeaderDriverID: utils.DriverID("LEC"), P2DriverID: utils.DriverID("VER"),
			GapP2ToLeaderMS: 400},
	}
	positions := []*model.PositionChartRow{
		{RaceID: basedata.SampleRaceId(), DriverID: utils.DriverID("VER"),
			LapNumber: 1, Position: ptr(1), TeamID: ptr(utils.TeamID("Red Bull Racing"))},
		{RaceID: basedata.SampleRaceId(), DriverID: utils.DriverID("LEC"),
			LapNumber: 1, Position: ptr(2), TeamID: ptr(utils.TeamID("Ferrari"))},
	}
	stints := []*model.StintSummaryRow{
		{RaceID: basedata.SampleRaceId(), DriverID: utils.DriverID("VER"),
			Stint: 1, StartLap: 1, EndLap: 3, Compound: ptr("SOFT"), StintLaps: 3,
			MedianLapMS: ptr(int64(96000)), AvgLapMS: ptr(int64(96333)), PitLap: ptr(3)},
		{RaceID: basedata.SampleRaceId(), DriverID: utils.DriverID("LEC"),
			Stint: 1, StartLap: 1, EndLap: 5, Compound: ptr("MEDIUM"), StintLaps: 5,
			MedianLapMS: ptr(int64(96200)), AvgLapMS: ptr(int64(96200))},
	}
	err := pgx.BeginFunc(ctx, db, func(tx pgx.Tx) error {
		if err := martsrepos.ReplaceGapTimeline(ctx, tx, basedata.SampleRaceId(), gaps); err != nil {
			return err
		}
		if err := martsrepos.ReplacePositionChart(ctx, tx, basedata.SampleRaceId(), positions); err != nil {
			return err
		}
		return martsrepos.ReplaceStintSummary(ctx, tx, basedata.SampleRaceId(), stints)
	})
	if err != nil {
		log.Fatalf("createDashboardFixture: %v\n", err)
	}
}

func TestLoadIngestedRaces(t *testing.T) {
	pool := testdb.InitTestDb()
	ctx := context.Background()

	entry := basedata.SampleCatalogEntry()
	assert.NilError(t, catalogrepos.Upsert(ctx, pool, entry))

	// not ingested yet, not visible
	got, err := LoadIngestedRaces(ctx, pool, basedata.SampleSeason)
	assert.NilError(t, err)
	assert.Equal(t, len(got), 0)

	_, err = catalogrepos.MarkIngested(ctx, pool, entry.RaceID, time.Now().UTC())
	assert.NilError(t, err)

	got, err = LoadIngestedRaces(ctx, pool, basedata.SampleSeason)
	assert.NilError(t, err)
	assert.Equal(t, len(got), 1)
	assert.Equal(t, got[0].RaceID, entry.RaceID)
	assert.Assert(t, got[0].IsIngested)
}

func TestLoadGapTimeline(t *testing.T) {
	pool := testdb.InitTestDb()
	createDashboardFixture(pool)
	ctx := context.Background()

	got, err := LoadGapTimeline(ctx, pool, basedata.SampleRaceId())
	assert.NilError(t, err)
	assert.Equal(t, len(got), 3)
	assert.Equal(t, *got[0].LeaderDriverCode, "VER")
	assert.Equal(t, *got[0].P2DriverCode, "LEC")
	assert.Equal(t, got[0].GapP2ToLeaderMS, int64(500))
	// lead change on lap 3
	assert.Equal(t, *got[2].LeaderDriverCode, "LEC")
	assert.Equal(t, *got[2].LeaderFullName, "Charles Leclerc")
}

func TestLoadPitMarkers(t *testing.T) {
	pool := testdb.InitTestDb()
	createDashboardFixture(pool)
	ctx := context.Background()

	got, err := LoadPitMarkers(ctx, pool, basedata.SampleRaceId())
	assert.NilError(t, err)
	assert.Equal(t, len(got), 1)
	assert.Equal(t, *got[0].DriverCode, "VER")
	assert.Equal(t, got[0].LapNumber, 3)
}

func TestLoadPositions(t *testing.T) {
	pool := testdb.InitTestDb()
	createDashboardFixture(pool)
	ctx := context.Background()

	got, err := LoadPositions(ctx, pool, basedata.SampleRaceId())
	assert.NilError(t, err)
	assert.Equal(t, len(got), 2)
	for _, p := range got {
		switch *p.DriverCode {
		case "VER":
			assert.Equal(t, *p.TeamName, "Red Bull Racing")
			assert.Equal(t, *p.TeamColor, "3671C6")
		case "LEC":
			assert.Equal(t, *p.TeamName, "Ferrari")
		default:
			t.Errorf("unexpected driver %s", *p.DriverCode)
		}
	}
}

func TestLoadStints(t *testing.T) {
	pool := testdb.InitTestDb()
	createDashboardFixture(pool)
	ctx := context.Background()

	got, err := LoadStints(ctx, pool, basedata.SampleRaceId())
	assert.NilError(t, err)
	assert.Equal(t, len(got), 2)
	// ordered by driver code
	assert.Equal(t, *got[0].DriverCode, "LEC")
	assert.Equal(t, *got[0].TeamName, "Ferrari")
	assert.Equal(t, *got[1].DriverCode, "VER")
	assert.Equal(t, *got[1].PitLap, 3)
}

func TestLoadResults(t *testing.T) {
	pool := testdb.InitTestDb()
	createDashboardFixture(pool)
	ctx := context.Background()

	got, err := LoadResults(ctx, pool, basedata.SampleRaceId())
	assert.NilError(t, err)
	assert.Equal(t, len(got), 3)
	// finishing order
	assert.Equal(t, *got[0].DriverCode, "VER")
	assert.Equal(t, *got[1].DriverCode, "LEC")
	assert.Equal(t, *got[2].DriverCode, "HAM")
	assert.Equal(t, *got[1].GapToWinnerMS, int64(200))
	assert.Assert(t, got[0].Points.Valid)
	assert.Equal(t, got[0].Points.Decimal.String(), "25")
}

func TestLoadLapTimes(t *testing.T) {
	pool := testdb.InitTestDb()
	createDashboardFixture(pool)
	ctx := context.Background()

	got, err := LoadLapTimes(ctx, pool, basedata.SampleRaceId())
	assert.NilError(t, err)
	assert.Equal(t, len(got), len(basedata.SampleFactLaps()))
	// lap 1 first, drivers in code order within the lap
	assert.Equal(t, got[0].LapNumber, 1)
	assert.Equal(t, *got[0].DriverCode, "HAM")
	assert.Equal(t, *got[0].TeamName, "Mercedes")
	assert.Equal(t, *got[1].DriverCode, "LEC")
	assert.Equal(t, *got[2].DriverCode, "VER")
}

func TestLoadRaceControl(t *testing.T) {
	pool := testdb.InitTestDb()
	createDashboardFixture(pool)
	ctx := context.Background()

	got, err := LoadRaceControl(ctx, pool, basedata.SampleRaceId())
	assert.NilError(t, err)
	assert.Equal(t, len(got), 5)
	// yellow on lap 3, safety car on lap 4
	assert.Assert(t, got[2].IsYellowFlag)
	assert.Assert(t, !got[2].IsSC)
	assert.Assert(t, got[3].IsSC)
	assert.Assert(t, !got[0].IsYellowFlag)
}

func TestLoadWeather(t *testing.T) {
	pool := testdb.InitTestDb()
	createDashboardFixture(pool)
	ctx := context.Background()

	got, err := LoadWeather(ctx, pool, basedata.SampleRaceId())
	assert.NilError(t, err)
	assert.Equal(t, len(got), 2)
	assert.Equal(t, got[0].TimestampUTC, basedata.TestTime())
	assert.Equal(t, *got[0].AirTempC, 28.2)
	assert.Equal(t, *got[1].TrackTempC, 41.9)
	assert.Assert(t, *got[1].Rainfall)
}

func TestLoadRaceDrivers(t *testing.T) {
	pool := testdb.InitTestDb()
	createDashboardFixture(pool)
	ctx := context.Background()

	got, err := LoadRaceDrivers(ctx, pool, basedata.SampleRaceId())
	assert.NilError(t, err)
	assert.Equal(t, len(got), 3)
	assert.Equal(t, got[0].DriverCode, "VER")
	assert.Equal(t, *got[0].FinishPosition, 1)
	assert.Equal(t, *got[0].TeamName, "Red Bull Racing")
}
