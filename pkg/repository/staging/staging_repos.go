package staging

import (
	"context"

	"github.com/f1decoder/f1-warehouse-manager-go/pkg/repository"
)

// DeleteByRaceId removes all staged rows of a race across the three
// staging tables, returns the total number of rows deleted.
func DeleteByRaceId(ctx context.Context, conn repository.Querier, raceId string) (int, error) {
	total := 0
	for _, table := range []string{
		"staging.session_laps",
		"staging.session_results",
		"staging.session_weather",
	} {
		cmdTag, err := conn.Exec(ctx, "delete from "+table+" where race_id=$1", raceId)
		if err != nil {
			return total, err
		}
		total += int(cmdTag.RowsAffected())
	}
	return total, nil
}
