//nolint:whitespace // can't make both editor and linter happy
package team

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/f1decoder/f1-warehouse-manager-go/pkg/model"
	"github.com/f1decoder/f1-warehouse-manager-go/pkg/repository"
)

var selector = `select team_id, team_name, team_color from curated.dim_team`

// Upsert inserts or overwrites one team dimension row.
func Upsert(ctx context.Context, conn repository.Querier, team *model.DimTeam) error {
	_, err := conn.Exec(ctx, `
	insert into curated.dim_team (
		team_id, team_name, team_color
	) values ($1,$2,$3)
	on conflict (team_id) do update set
		team_name=excluded.team_name,
		team_color=excluded.team_color
		`,
		team.TeamID, team.TeamName, team.TeamColor,
	)
	return err
}

func LoadById(ctx context.Context, conn repository.Querier, teamId string) (
	*model.DimTeam, error,
) {
	row := conn.QueryRow(ctx, fmt.Sprintf("%s where team_id=$1", selector), teamId)
	ret, err := readData(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNoData
		}
		return nil, err
	}
	return ret, nil
}

func LoadAll(ctx context.Context, conn repository.Querier) (
	[]*model.DimTeam, error,
) {
	row, err := conn.Query(ctx, fmt.Sprintf("%s order by team_name", selector))
	if err != nil {
		return nil, err
	}
	defer row.Close()
	ret := make([]*model.DimTeam, 0)
	for row.Next() {
		item, err := readData(row)
		if err != nil {
			return nil, err
		}
		ret = append(ret, item)
	}
	return ret, nil
}

// deletes an entry from the database, returns number of rows deleted.
func DeleteById(ctx context.Context, conn repository.Querier, teamId string) (int, error) {
	cmdTag, err := conn.Exec(ctx, "delete from curated.dim_team where team_id=$1", teamId)
	if err != nil {
		return 0, err
	}
	return int(cmdTag.RowsAffected()), nil
}

func readData(row pgx.Row) (*model.DimTeam, error) {
	var item model.DimTeam
	if err := row.Scan(&item.TeamID, &item.TeamName, &item.TeamColor); err != nil {
		return nil, err
	}
	return &item, nil
}
