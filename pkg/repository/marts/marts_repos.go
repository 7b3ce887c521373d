package marts

import (
	"context"

	"github.com/f1decoder/f1-warehouse-manager-go/pkg/repository"
)

// DeleteByRaceId removes all mart rows of a race across the three mart
// tables, returns the total number of rows deleted.
func DeleteByRaceId(ctx context.Context, conn repository.Querier, raceId string) (int, error) {
	total := 0
	for _, table := range []string{
		"marts.mart_gap_timeline",
		"marts.mart_position_chart",
		"marts.mart_stint_summary",
	} {
		cmdTag, err := conn.Exec(ctx, "delete from "+table+" where race_id=$1", raceId)
		if err != nil {
			return total, err
		}
		total += int(cmdTag.RowsAffected())
	}
	return total, nil
}
