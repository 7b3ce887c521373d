//nolint:dupl,funlen,errcheck,gocognit //ok for this test code
package racecontrol

import (
	"context"
	"reflect"
	"testing"

	"gotest.tools/v3/assert"

	"github.com/f1decoder/f1-warehouse-manager-go/testsupport/basedata"
	"github.com/f1decoder/f1-warehouse-manager-go/testsupport/testdb"
)

func TestLoadByRaceId(t *testing.T) {
	pool := testdb.InitTestDb()
	basedata.CreateSampleRace(pool)
	ctx := context.Background()

	got, err := LoadByRaceId(ctx, pool, basedata.SampleRaceId())
	assert.NilError(t, err)
	want := basedata.SampleFactRaceControl()
	if !reflect.DeepEqual(got, want) {
		t.Errorf("LoadByRaceId() = %v, want %v", got, want)
	}
}

func TestUpsertConverges(t *testing.T) {
	pool := testdb.InitTestDb()
	basedata.CreateSampleRace(pool)
	ctx := context.Background()

	// a late red flag replay overwrites the lap flags
	want := basedata.SampleFactRaceControl()
	want[4].IsRedFlag = true
	assert.NilError(t, Upsert(ctx, pool, want[4]))

	got, err := LoadByRaceId(ctx, pool, basedata.SampleRaceId())
	assert.NilError(t, err)
	assert.Equal(t, len(got), len(want))
	if !reflect.DeepEqual(got, want) {
		t.Errorf("LoadByRaceId() after upsert = %v, want %v", got, want)
	}
}

func TestDeleteByRaceId(t *testing.T) {
	pool := testdb.InitTestDb()
	basedata.CreateSampleRace(pool)
	ctx := context.Background()

	num, err := DeleteByRaceId(ctx, pool, basedata.SampleRaceId())
	assert.NilError(t, err)
	assert.Equal(t, num, len(basedata.SampleFactRaceControl()))
}
