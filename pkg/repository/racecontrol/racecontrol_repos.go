//nolint:whitespace // can't make both editor and linter happy
package racecontrol

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/f1decoder/f1-warehouse-manager-go/pkg/model"
	"github.com/f1decoder/f1-warehouse-manager-go/pkg/repository"
)

var selector = `select race_id, lap_number, is_sc, is_vsc, is_red_flag,
	is_yellow_flag from curated.fact_race_control`

// Upsert inserts or overwrites the track state flags of one lap keyed on
// (race_id, lap_number).
func Upsert(ctx context.Context, conn repository.Querier, rc *model.FactRaceControl) error {
	_, err := conn.Exec(ctx, `
	insert into curated.fact_race_control (
		race_id, lap_number, is_sc, is_vsc, is_red_flag, is_yellow_flag
	) values ($1,$2,$3,$4,$5,$6)
	on conflict (race_id, lap_number) do update set
		is_sc=excluded.is_sc,
		is_vsc=excluded.is_vsc,
		is_red_flag=excluded.is_red_flag,
		is_yellow_flag=excluded.is_yellow_flag
		`,
		rc.RaceID, rc.LapNumber, rc.IsSC, rc.IsVSC, rc.IsRedFlag, rc.IsYellowFlag,
	)
	return err
}

func LoadByRaceId(ctx context.Context, conn repository.Querier, raceId string) (
	[]*model.FactRaceControl, error,
) {
	row, err := conn.Query(ctx,
		fmt.Sprintf("%s where race_id=$1 order by lap_number", selector), raceId)
	if err != nil {
		return nil, err
	}
	defer row.Close()
	ret := make([]*model.FactRaceControl, 0)
	for row.Next() {
		item, err := readData(row)
		if err != nil {
			return nil, err
		}
		ret = append(ret, item)
	}
	return ret, nil
}

// deletes all race control rows of a race, returns number of rows deleted.
func DeleteByRaceId(ctx context.Context, conn repository.Querier, raceId string) (int, error) {
	cmdTag, err := conn.Exec(ctx,
		"delete from curated.fact_race_control where race_id=$1", raceId)
	if err != nil {
		return 0, err
	}
	return int(cmdTag.RowsAffected()), nil
}

func readData(row pgx.Row) (*model.FactRaceControl, error) {
	var item model.FactRaceControl
	if err := row.Scan(
		&item.RaceID, &item.LapNumber, &item.IsSC, &item.IsVSC,
		&item.IsRedFlag, &item.IsYellowFlag,
	); err != nil {
		return nil, err
	}
	return &item, nil
}
