//nolint:whitespace,dupl // repetitive by nature
package marts

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/f1decoder/f1-warehouse-manager-go/pkg/model"
	"github.com/f1decoder/f1-warehouse-manager-go/pkg/repository"
)

var positionChartSelector = `select race_id, driver_id, lap_number, position,
	team_id from marts.mart_position_chart`

// ReplacePositionChart rebuilds the position chart of one race from scratch.
func ReplacePositionChart(
	ctx context.Context,
	conn repository.Querier,
	raceId string,
	rows []*model.PositionChartRow,
) error {
	if _, err := conn.Exec(ctx,
		"delete from marts.mart_position_chart where race_id=$1", raceId); err != nil {
		return err
	}
	for i := range rows {
		r := rows[i]
		_, err := conn.Exec(ctx, `
	insert into marts.mart_position_chart (
		race_id, driver_id, lap_number, position, team_id
	) values ($1,$2,$3,$4,$5)
		`,
			r.RaceID, r.DriverID, r.LapNumber, r.Position, r.TeamID,
		)
		if err != nil {
			return err
		}
	}
	return nil
}

func LoadPositionChartByRaceId(ctx context.Context, conn repository.Querier, raceId string) (
	[]*model.PositionChartRow, error,
) {
	row, err := conn.Query(ctx,
		fmt.Sprintf("%s where race_id=$1 order by driver_id, lap_number",
			positionChartSelector),
		raceId)
	if err != nil {
		return nil, err
	}
	defer row.Close()
	ret := make([]*model.PositionChartRow, 0)
	for row.Next() {
		item, err := readPositionChart(row)
		if err != nil {
			return nil, err
		}
		ret = append(ret, item)
	}
	return ret, nil
}

func readPositionChart(row pgx.Row) (*model.PositionChartRow, error) {
	var item model.PositionChartRow
	if err := row.Scan(
		&item.RaceID, &item.DriverID, &item.LapNumber, &item.Position, &item.TeamID,
	); err != nil {
		return nil, err
	}
	return &item, nil
}
