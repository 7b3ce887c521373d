//nolint:whitespace // can't make both editor and linter happy
package race

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/f1decoder/f1-warehouse-manager-go/pkg/model"
	"github.com/f1decoder/f1-warehouse-manager-go/pkg/repository"
)

var selector = `select race_id, season, round, event_name, circuit, country,
	race_date_utc from curated.dim_race`

// Upsert inserts or overwrites one race dimension row.
func Upsert(ctx context.Context, conn repository.Querier, race *model.DimRace) error {
	_, err := conn.Exec(ctx, `
	insert into curated.dim_race (
		race_id, season, round, event_name, circuit, country, race_date_utc
	) values ($1,$2,$3,$4,$5,$6,$7)
	on conflict (race_id) do update set
		season=excluded.season,
		round=excluded.round,
		event_name=excluded.event_name,
		circuit=excluded.circuit,
		country=excluded.country,
		race_date_utc=excluded.race_date_utc
		`,
		race.RaceID, race.Season, race.Round, race.EventName, race.Circuit,
		race.Country, race.RaceDateUTC,
	)
	return err
}

func LoadById(ctx context.Context, conn repository.Querier, raceId string) (
	*model.DimRace, error,
) {
	row := conn.QueryRow(ctx, fmt.Sprintf("%s where race_id=$1", selector), raceId)
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
	[]*model.DimRace, error,
) {
	row, err := conn.Query(ctx, fmt.Sprintf("%s order by season, round", selector))
	if err != nil {
		return nil, err
	}
	defer row.Close()
	ret := make([]*model.DimRace, 0)
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
func DeleteById(ctx context.Context, conn repository.Querier, raceId string) (int, error) {
	cmdTag, err := conn.Exec(ctx, "delete from curated.dim_race where race_id=$1", raceId)
	if err != nil {
		return 0, err
	}
	return int(cmdTag.RowsAffected()), nil
}

func readData(row pgx.Row) (*model.DimRace, error) {
	var item model.DimRace
	if err := row.Scan(
		&item.RaceID, &item.Season, &item.Round, &item.EventName, &item.Circuit,
		&item.Country, &item.RaceDateUTC,
	); err != nil {
		return nil, err
	}
	return &item, nil
}
