//nolint:dupl,funlen,errcheck,gocognit //ok for this test code
package lap

import (
	"context"
	"reflect"
	"sort"
	"testing"

	"gotest.tools/v3/assert"

	"github.com/f1decoder/f1-warehouse-manager-go/pkg/model"
	"github.com/f1decoder/f1-warehouse-manager-go/pkg/utils"
	"github.com/f1decoder/f1-warehouse-manager-go/testsupport/basedata"
	"github.com/f1decoder/f1-warehouse-manager-go/testsupport/testdb"
)

func sortedFactLaps(laps []*model.FactLap) []*model.FactLap {
	ret := make([]*model.FactLap, len(laps))
	copy(ret, laps)
	sort.Slice(ret, func(i, j int) bool {
		if ret[i].DriverID != ret[j].DriverID {
			return ret[i].DriverID < ret[j].DriverID
		}
		return ret[i].LapNumber < ret[j].LapNumber
	})
	return ret
}

func TestLoadByRaceId(t *testing.T) {
	pool := testdb.InitTestDb()
	basedata.CreateSampleRace(pool)
	ctx := context.Background()

	got, err := LoadByRaceId(ctx, pool, basedata.SampleRaceId())
	assert.NilError(t, err)
	want := sortedFactLaps(basedata.SampleFactLaps())
	if !reflect.DeepEqual(got, want) {
		t.Errorf("LoadByRaceId() = %v, want %v", got, want)
	}
}

func TestUpsertConverges(t *testing.T) {
	pool := testdb.InitTestDb()
	basedata.CreateSampleRace(pool)
	ctx := context.Background()

	// re-deliver one lap with a corrected time
	corrected := int64(96900)
	laps := basedata.SampleFactLaps()
	var target *model.FactLap
	for _, l := range laps {
		if l.DriverID == utils.DriverID("VER") && l.LapNumber == 3 {
			target = l
		}
	}
	assert.Assert(t, target != nil)
	target.LapTimeMS = &corrected
	assert.NilError(t, Upsert(ctx, pool, target))

	got, err := LoadByRaceId(ctx, pool, basedata.SampleRaceId())
	assert.NilError(t, err)
	want := sortedFactLaps(laps)
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
	assert.Equal(t, num, len(basedata.SampleFactLaps()))

	num, err = DeleteByRaceId(ctx, pool, basedata.SampleRaceId())
	assert.NilError(t, err)
	assert.Equal(t, num, 0)
}
