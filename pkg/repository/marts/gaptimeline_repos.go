//nolint:whitespace,dupl // repetitive by nature
package marts

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/f1decoder/f1-warehouse-manager-go/pkg/model"
	"github.com/f1decoder/f1-warehouse-manager-go/pkg/repository"
)

var gapTimelineSelector = `select race_id, lap_number, leader_driver_id,
	p2_driver_id, gap_p2_to_leader_ms from marts.mart_gap_timeline`

// ReplaceGapTimeline rebuilds the gap timeline of one race from scratch.
func ReplaceGapTimeline(
	ctx context.Context,
	conn repository.Querier,
	raceId string,
	rows []*model.GapTimelineRow,
) error {
	if _, err := conn.Exec(ctx,
		"delete from marts.mart_gap_timeline where race_id=$1", raceId); err != nil {
		return err
	}
	for i := range rows {
		r := rows[i]
		_, err := conn.Exec(ctx, `
	insert into marts.mart_gap_timeline (
		race_id, lap_number, leader_driver_id, p2_driver_id, gap_p2_to_leader_ms
	) values ($1,$2,$3,$4,$5)
		`,
			r.RaceID, r.LapNumber, r.LeaderDriverID, r.P2DriverID, r.GapP2ToLeaderMS,
		)
		if err != nil {
			return err
		}
	}
	return nil
}

func LoadGapTimelineByRaceId(ctx context.Context, conn repository.Querier, raceId string) (
	[]*model.GapTimelineRow, error,
) {
	row, err := conn.Query(ctx,
		fmt.Sprintf("%s where race_id=$1 order by lap_number", gapTimelineSelector), raceId)
	if err != nil {
		return nil, err
	}
	defer row.Close()
	ret := make([]*model.GapTimelineRow, 0)
	for row.Next() {
		item, err := readGapTimeline(row)
		if err != nil {
			return nil, err
		}
		ret = append(ret, item)
	}
	return ret, nil
}

func readGapTimeline(row pgx.Row) (*model.GapTimelineRow, error) {
	var item model.GapTimelineRow
	if err := row.Scan(
		&item.RaceID, &item.LapNumber, &item.LeaderDriverID, &item.P2DriverID,
		&item.GapP2ToLeaderMS,
	); err != nil {
		return nil, err
	}
	return &item, nil
}
