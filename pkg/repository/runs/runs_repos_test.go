//nolint:dupl,funlen,errcheck,gocognit //ok for this test code
package runs

import (
	"context"
	"errors"
	"log"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"gotest.tools/v3/assert"

	"github.com/f1decoder/f1-warehouse-manager-go/pkg/model"
	"github.com/f1decoder/f1-warehouse-manager-go/pkg/repository"
	qualityrepos "github.com/f1decoder/f1-warehouse-manager-go/pkg/repository/quality"
	"github.com/f1decoder/f1-warehouse-manager-go/testsupport/basedata"
	"github.com/f1decoder/f1-warehouse-manager-go/testsupport/testdb"
)

func sampleRun() *model.IngestionRun {
	return &model.IngestionRun{
		RunID:       uuid.NewString(),
		StartedAt:   basedata.TestTime(),
		Status:      model.RunStatusRunning,
		Season:      basedata.SampleSeason,
		Round:       basedata.SampleRound,
		SessionType: basedata.SampleSessionType,
		CodeVersion: "0.0.0-test",
	}
}

func createSampleEntry(db *pgxpool.Pool) *model.IngestionRun {
	ctx := context.Background()
	sample := sampleRun()
	err := pgx.BeginFunc(ctx, db, func(tx pgx.Tx) error {
		return Create(ctx, tx, sample)
	})
	if err != nil {
		log.Fatalf("createSampleEntry: %v\n", err)
	}
	return sample
}

func TestCreateAndLoad(t *testing.T) {
	pool := testdb.InitTestDb()
	sample := createSampleEntry(pool)
	ctx := context.Background()

	got, err := LoadById(ctx, pool, sample.RunID)
	assert.NilError(t, err)
	assert.Equal(t, got.RunID, sample.RunID)
	assert.Equal(t, got.Status, model.RunStatusRunning)
	assert.Equal(t, got.Season, sample.Season)
	assert.Assert(t, got.FinishedAt == nil)
	assert.Assert(t, got.Notes == nil)
}

func TestFinalize(t *testing.T) {
	pool := testdb.InitTestDb()
	sample := createSampleEntry(pool)
	ctx := context.Background()

	finishedAt := basedata.TestTime().Add(2 * time.Minute)
	notes := map[string]any{
		"timings_sec": map[string]any{"extract_fetch": 1.5},
		"quality_checks": map[string]any{
			"fact_lap_rowcount": "pass",
		},
	}
	num, err := Finalize(ctx, pool, sample.RunID, model.RunStatusSuccess, finishedAt, notes)
	assert.NilError(t, err)
	assert.Equal(t, num, 1)

	got, err := LoadById(ctx, pool, sample.RunID)
	assert.NilError(t, err)
	assert.Equal(t, got.Status, model.RunStatusSuccess)
	assert.Assert(t, got.FinishedAt != nil)
	assert.Assert(t, got.FinishedAt.Equal(finishedAt))
	timings, ok := got.Notes["timings_sec"].(map[string]any)
	assert.Assert(t, ok)
	assert.Equal(t, timings["extract_fetch"], 1.5)
}

func TestFinalizeUnknownRun(t *testing.T) {
	pool := testdb.InitTestDb()
	ctx := context.Background()

	num, err := Finalize(ctx, pool, uuid.NewString(), model.RunStatusFailed,
		time.Now().UTC(), nil)
	assert.NilError(t, err)
	assert.Equal(t, num, 0)
}

func TestLoadByRace(t *testing.T) {
	pool := testdb.InitTestDb()
	ctx := context.Background()

	first := sampleRun()
	second := sampleRun()
	second.StartedAt = first.StartedAt.Add(time.Hour)
	assert.NilError(t, Create(ctx, pool, first))
	assert.NilError(t, Create(ctx, pool, second))

	got, err := LoadByRace(ctx, pool, basedata.SampleSeason, basedata.SampleRound,
		basedata.SampleSessionType)
	assert.NilError(t, err)
	assert.Equal(t, len(got), 2)
	// most recent first
	assert.Equal(t, got[0].RunID, second.RunID)
	assert.Equal(t, got[1].RunID, first.RunID)
}

func TestLoadByIdUnknown(t *testing.T) {
	pool := testdb.InitTestDb()
	ctx := context.Background()

	_, err := LoadById(ctx, pool, uuid.NewString())
	if !errors.Is(err, repository.ErrNoData) {
		t.Errorf("LoadById() error = %v, want ErrNoData", err)
	}
}

func TestDeleteCascadesChecks(t *testing.T) {
	pool := testdb.InitTestDb()
	sample := createSampleEntry(pool)
	ctx := context.Background()

	check := &model.QualityCheck{
		RunID:     sample.RunID,
		CheckName: "fact_lap_rowcount",
		Status:    model.CheckStatusPass,
		Details:   map[string]any{"rows": 100},
	}
	assert.NilError(t, qualityrepos.Create(ctx, pool, check))

	num, err := DeleteById(ctx, pool, sample.RunID)
	assert.NilError(t, err)
	assert.Equal(t, num, 1)

	remaining, err := qualityrepos.LoadByRunId(ctx, pool, sample.RunID)
	assert.NilError(t, err)
	assert.Equal(t, len(remaining), 0)
}
