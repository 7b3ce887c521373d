//nolint:whitespace // can't make both editor and linter happy
package driver

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/f1decoder/f1-warehouse-manager-go/pkg/model"
	"github.com/f1decoder/f1-warehouse-manager-go/pkg/repository"
)

var selector = `select driver_id, driver_code, driver_number, first_name,
	last_name, full_name from curated.dim_driver`

// Upsert inserts or overwrites one driver dimension row.
func Upsert(ctx context.Context, conn repository.Querier, driver *model.DimDriver) error {
	_, err := conn.Exec(ctx, `
	insert into curated.dim_driver (
		driver_id, driver_code, driver_number, first_name, last_name, full_name
	) values ($1,$2,$3,$4,$5,$6)
	on conflict (driver_id) do update set
		driver_code=excluded.driver_code,
		driver_number=excluded.driver_number,
		first_name=excluded.first_name,
		last_name=excluded.last_name,
		full_name=excluded.full_name
		`,
		driver.DriverID, driver.DriverCode, driver.DriverNumber, driver.FirstName,
		driver.LastName, driver.FullName,
	)
	return err
}

// UpsertTeamSeason links a driver to the team they raced for in a
// season. Existing links are left as they are.
func UpsertTeamSeason(
	ctx context.Context,
	conn repository.Querier,
	dts *model.DriverTeamSeason,
) error {
	_, err := conn.Exec(ctx, `
	insert into curated.dim_driver_team_season (
		season, driver_id, team_id
	) values ($1,$2,$3)
	on conflict (season, driver_id, team_id) do nothing
		`,
		dts.Season, dts.DriverID, dts.TeamID,
	)
	return err
}

func LoadById(ctx context.Context, conn repository.Querier, driverId string) (
	*model.DimDriver, error,
) {
	row := conn.QueryRow(ctx, fmt.Sprintf("%s where driver_id=$1", selector), driverId)
	ret, err := readData(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNoData
		}
		return nil, err
	}
	return ret, nil
}

func LoadByCode(ctx context.Context, conn repository.Querier, code string) (
	*model.DimDriver, error,
) {
	row := conn.QueryRow(ctx, fmt.Sprintf("%s where driver_code=$1", selector), code)
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
	[]*model.DimDriver, error,
) {
	row, err := conn.Query(ctx, fmt.Sprintf("%s order by driver_code", selector))
	if err != nil {
		return nil, err
	}
	defer row.Close()
	ret := make([]*model.DimDriver, 0)
	for row.Next() {
		item, err := readData(row)
		if err != nil {
			return nil, err
		}
		ret = append(ret, item)
	}
	return ret, nil
}

// LoadTeamSeasons returns all team links of a season.
func LoadTeamSeasons(ctx context.Context, conn repository.Querier, season int) (
	[]*model.DriverTeamSeason, error,
) {
	row, err := conn.Query(ctx, `
	select season, driver_id, team_id from curated.dim_driver_team_season
	where season=$1 order by driver_id, team_id
	`, season)
	if err != nil {
		return nil, err
	}
	defer row.Close()
	ret := make([]*model.DriverTeamSeason, 0)
	for row.Next() {
		var item model.DriverTeamSeason
		if err := row.Scan(&item.Season, &item.DriverID, &item.TeamID); err != nil {
			return nil, err
		}
		ret = append(ret, &item)
	}
	return ret, nil
}

// deletes an entry from the database, returns number of rows deleted.
func DeleteById(ctx context.Context, conn repository.Querier, driverId string) (int, error) {
	_, err := conn.Exec(ctx,
		"delete from curated.dim_driver_team_season where driver_id=$1", driverId)
	if err != nil {
		return 0, err
	}
	cmdTag, err := conn.Exec(ctx,
		"delete from curated.dim_driver where driver_id=$1", driverId)
	if err != nil {
		return 0, err
	}
	return int(cmdTag.RowsAffected()), nil
}

func readData(row pgx.Row) (*model.DimDriver, error) {
	var item model.DimDriver
	if err := row.Scan(
		&item.DriverID, &item.DriverCode, &item.DriverNumber, &item.FirstName,
		&item.LastName, &item.FullName,
	); err != nil {
		return nil, err
	}
	return &item, nil
}
