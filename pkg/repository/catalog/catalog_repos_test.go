//nolint:dupl,funlen,errcheck,gocognit //ok for this test code
package catalog

import (
	"context"
	"errors"
	"log"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"gotest.tools/v3/assert"

	"github.com/f1decoder/f1-warehouse-manager-go/pkg/model"
	"github.com/f1decoder/f1-warehouse-manager-go/pkg/repository"
	"github.com/f1decoder/f1-warehouse-manager-go/pkg/utils"
	"github.com/f1decoder/f1-warehouse-manager-go/testsupport/basedata"
	"github.com/f1decoder/f1-warehouse-manager-go/testsupport/testdb"
)

func createSampleEntry(db *pgxpool.Pool) *model.RaceCatalogEntry {
	ctx := context.Background()
	sample := basedata.SampleCatalogEntry()
	err := pgx.BeginFunc(ctx, db, func(tx pgx.Tx) error {
		return Upsert(ctx, tx, sample)
	})
	if err != nil {
		log.Fatalf("createSampleEntry: %v\n", err)
	}
	return sample
}

func TestUpsertKeepsIngestMarkers(t *testing.T) {
	pool := testdb.InitTestDb()
	sample := createSampleEntry(pool)
	ctx := context.Background()

	ts := time.Date(2024, 3, 3, 10, 0, 0, 0, time.UTC)
	num, err := MarkIngested(ctx, pool, sample.RaceID, ts)
	assert.NilError(t, err)
	assert.Equal(t, num, 1)

	wiki := "https://en.wikipedia.org/wiki/2024_Bahrain_Grand_Prix"
	num, err = UpdateLinks(ctx, pool, sample.RaceID, &wiki, nil)
	assert.NilError(t, err)
	assert.Equal(t, num, 1)

	// a schedule refresh must not reset what ingestion recorded
	refreshed := basedata.SampleCatalogEntry()
	refreshed.EventName = "Bahrain Grand Prix (updated)"
	assert.NilError(t, Upsert(ctx, pool, refreshed))

	got, err := LoadByRaceId(ctx, pool, sample.RaceID)
	assert.NilError(t, err)
	assert.Equal(t, got.EventName, "Bahrain Grand Prix (updated)")
	assert.Equal(t, got.IsIngested, true)
	assert.Assert(t, got.LastIngestedAt != nil)
	assert.Assert(t, got.WikipediaURL != nil)
	assert.Equal(t, *got.WikipediaURL, wiki)
}

func TestLoadByRaceId(t *testing.T) {
	pool := testdb.InitTestDb()
	sample := createSampleEntry(pool)
	type args struct {
		raceId string
	}
	tests := []struct {
		name    string
		args    args
		wantErr bool
	}{
		{
			name: "existing entry",
			args: args{raceId: sample.RaceID},
		},
		{
			name:    "unknown entry",
			args:    args{raceId: "1999_99_R"},
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			pool.AcquireFunc(ctx, func(c *pgxpool.Conn) error {
				got, err := LoadByRaceId(ctx, c.Conn(), tt.args.raceId)
				if (err != nil) != tt.wantErr {
					t.Errorf("LoadByRaceId() error = %v, wantErr %v", err, tt.wantErr)
					return err
				}
				if tt.wantErr {
					if !errors.Is(err, repository.ErrNoData) {
						t.Errorf("LoadByRaceId() error = %v, want ErrNoData", err)
					}
					return nil
				}
				if got.RaceID != tt.args.raceId {
					t.Errorf("LoadByRaceId() = %v, want %v", got.RaceID, tt.args.raceId)
				}
				return nil
			})
		})
	}
}

func TestLoadBySeason(t *testing.T) {
	pool := testdb.InitTestDb()
	ctx := context.Background()

	// rounds out of order plus a testing entry (round 0) to be skipped
	for _, round := range []int{3, 1, 2, 0} {
		entry := basedata.SampleCatalogEntry()
		entry.Round = round
		entry.RaceID = utils.MakeRaceID(basedata.SampleSeason, round, "R")
		assert.NilError(t, Upsert(ctx, pool, entry))
	}

	got, err := LoadBySeason(ctx, pool, basedata.SampleSeason, "R")
	assert.NilError(t, err)
	assert.Equal(t, len(got), 3)
	for i, want := range []int{1, 2, 3} {
		assert.Equal(t, got[i].Round, want)
	}
}

func TestLoadSeasonTotals(t *testing.T) {
	pool := testdb.InitTestDb()
	ctx := context.Background()

	for _, round := range []int{1, 2, 3} {
		entry := basedata.SampleCatalogEntry()
		entry.Round = round
		entry.RaceID = utils.MakeRaceID(basedata.SampleSeason, round, "R")
		assert.NilError(t, Upsert(ctx, pool, entry))
	}
	_, err := MarkIngested(ctx, pool,
		utils.MakeRaceID(basedata.SampleSeason, 1, "R"), time.Now().UTC())
	assert.NilError(t, err)

	got, err := LoadSeasonTotals(ctx, pool)
	assert.NilError(t, err)
	assert.Equal(t, len(got), 1)
	assert.Equal(t, got[0].Season, basedata.SampleSeason)
	assert.Equal(t, got[0].Ingested, 1)
	assert.Equal(t, got[0].Total, 3)
}

func TestDeleteByRaceId(t *testing.T) {
	db := testdb.InitTestDb()
	sample := createSampleEntry(db)

	type args struct {
		raceId string
	}
	tests := []struct {
		name    string
		args    args
		want    int
		wantErr bool
	}{
		{
			name: "delete_existing",
			args: args{raceId: sample.RaceID},
			want: 1,
		},
		{
			name: "delete_non_existing",
			args: args{raceId: "1999_99_R"}, // doesn't exist
			want: 0,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			db.AcquireFunc(ctx, func(c *pgxpool.Conn) error {
				got, err := DeleteByRaceId(ctx, c.Conn(), tt.args.raceId)
				if (err != nil) != tt.wantErr {
					t.Errorf("DeleteByRaceId() error = %v, wantErr %v", err, tt.wantErr)
					return nil
				}
				if got != tt.want {
					t.Errorf("DeleteByRaceId() = %v, want %v", got, tt.want)
				}
				return nil
			})
		})
	}
}
