//nolint:whitespace // can't make both editor and linter happy
package catalog

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/f1decoder/f1-warehouse-manager-go/pkg/model"
	"github.com/f1decoder/f1-warehouse-manager-go/pkg/repository"
)

var selector = `select race_id, season, round, event_name, circuit, country,
	race_datetime_utc, source_event_key, session_type, is_ingested,
	last_ingested_at, wikipedia_url, formula1_url from metadata.races_catalog`

// Upsert writes the schedule attributes of one race. The ingest markers
// (is_ingested, last_ingested_at) and the seeded links survive a refresh.
func Upsert(ctx context.Context, conn repository.Querier, entry *model.RaceCatalogEntry) error {
	_, err := conn.Exec(ctx, `
	insert into metadata.races_catalog (
		race_id, season, round, event_name, circuit, country,
		race_datetime_utc, source_event_key, session_type
	) values ($1,$2,$3,$4,$5,$6,$7,$8,$9)
	on conflict (race_id) do update set
		season=excluded.season,
		round=excluded.round,
		event_name=excluded.event_name,
		circuit=excluded.circuit,
		country=excluded.country,
		race_datetime_utc=excluded.race_datetime_utc,
		source_event_key=excluded.source_event_key,
		session_type=excluded.session_type
		`,
		entry.RaceID, entry.Season, entry.Round, entry.EventName, entry.Circuit,
		entry.Country, entry.RaceDatetimeUTC, entry.SourceEventKey, entry.SessionType,
	)
	return err
}

// UpdateLinks sets the reference links of a race, returns number of rows updated.
func UpdateLinks(
	ctx context.Context,
	conn repository.Querier,
	raceId string,
	wikipediaURL *string,
	formula1URL *string,
) (int, error) {
	cmdTag, err := conn.Exec(ctx, `
	update metadata.races_catalog set
		wikipedia_url=coalesce($1,wikipedia_url),
		formula1_url=coalesce($2,formula1_url)
	where race_id=$3
	`, wikipediaURL, formula1URL, raceId)
	if err != nil {
		return 0, err
	}
	return int(cmdTag.RowsAffected()), nil
}

// MarkIngested flags a race as ingested, returns number of rows updated.
func MarkIngested(
	ctx context.Context,
	conn repository.Querier,
	raceId string,
	ts time.Time,
) (int, error) {
	cmdTag, err := conn.Exec(ctx, `
	update metadata.races_catalog set
		is_ingested=true,
		last_ingested_at=$1
	where race_id=$2
	`, ts, raceId)
	if err != nil {
		return 0, err
	}
	return int(cmdTag.RowsAffected()), nil
}

func LoadByRaceId(ctx context.Context, conn repository.Querier, raceId string) (
	*model.RaceCatalogEntry, error,
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

// LoadBySeason returns the season's races in round order. Rounds <= 0
// (pre-season testing) are excluded.
func LoadBySeason(
	ctx context.Context,
	conn repository.Querier,
	season int,
	sessionType string,
) ([]*model.RaceCatalogEntry, error) {
	row, err := conn.Query(ctx,
		fmt.Sprintf("%s where season=$1 and session_type=$2 and round > 0 order by round",
			selector),
		season, sessionType)
	if err != nil {
		return nil, err
	}
	defer row.Close()
	ret := make([]*model.RaceCatalogEntry, 0)
	for row.Next() {
		item, err := readData(row)
		if err != nil {
			return nil, err
		}
		ret = append(ret, item)
	}
	return ret, nil
}

// LoadAll returns the whole catalog ordered by season and round.
func LoadAll(ctx context.Context, conn repository.Querier) (
	[]*model.RaceCatalogEntry, error,
) {
	row, err := conn.Query(ctx,
		fmt.Sprintf("%s order by season, round, session_type", selector))
	if err != nil {
		return nil, err
	}
	defer row.Close()
	ret := make([]*model.RaceCatalogEntry, 0)
	for row.Next() {
		item, err := readData(row)
		if err != nil {
			return nil, err
		}
		ret = append(ret, item)
	}
	return ret, nil
}

// LoadSeasonTotals reports ingested vs known races per season.
func LoadSeasonTotals(ctx context.Context, conn repository.Querier) (
	[]*model.SeasonTotals, error,
) {
	row, err := conn.Query(ctx, `
	select season,
		count(*) filter (where is_ingested) as ingested,
		count(*) as total
	from metadata.races_catalog
	where round > 0
	group by season
	order by season
	`)
	if err != nil {
		return nil, err
	}
	defer row.Close()
	ret := make([]*model.SeasonTotals, 0)
	for row.Next() {
		var item model.SeasonTotals
		if err := row.Scan(&item.Season, &item.Ingested, &item.Total); err != nil {
			return nil, err
		}
		ret = append(ret, &item)
	}
	return ret, nil
}

// deletes an entry from the database, returns number of rows deleted.
func DeleteByRaceId(ctx context.Context, conn repository.Querier, raceId string) (int, error) {
	cmdTag, err := conn.Exec(ctx, "delete from metadata.races_catalog where race_id=$1", raceId)
	if err != nil {
		return 0, err
	}
	return int(cmdTag.RowsAffected()), nil
}

func readData(row pgx.Row) (*model.RaceCatalogEntry, error) {
	var item model.RaceCatalogEntry
	if err := row.Scan(
		&item.RaceID, &item.Season, &item.Round, &item.EventName, &item.Circuit,
		&item.Country, &item.RaceDatetimeUTC, &item.SourceEventKey, &item.SessionType,
		&item.IsIngested, &item.LastIngestedAt, &item.WikipediaURL, &item.Formula1URL,
	); err != nil {
		return nil, err
	}
	return &item, nil
}
