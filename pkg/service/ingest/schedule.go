package ingest

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/samber/lo"

	"github.com/f1decoder/f1-warehouse-manager-go/log"
	"github.com/f1decoder/f1-warehouse-manager-go/pkg/model"
	catalogrepos "github.com/f1decoder/f1-warehouse-manager-go/pkg/repository/catalog"
	"github.com/f1decoder/f1-warehouse-manager-go/pkg/timing"
	"github.com/f1decoder/f1-warehouse-manager-go/pkg/utils"
)

// RefreshSchedule pulls the season schedule and upserts the races
// catalog. Ingest markers and seeded links survive. Returns the number
// of catalog entries written.
func (s *IngestService) RefreshSchedule(
	ctx context.Context,
	season int,
	sessionType string,
) (int, error) {
	schedule, err := s.client.FetchSchedule(ctx, season)
	if err != nil {
		return 0, err
	}
	entries := lo.Map(schedule.Events,
		func(ev *timing.ScheduleEvent, _ int) *model.RaceCatalogEntry {
			return &model.RaceCatalogEntry{
				RaceID:          utils.MakeRaceID(season, ev.Round, sessionType),
				Season:          season,
				Round:           ev.Round,
				EventName:       ev.EventName,
				Circuit:         ev.Circuit,
				Country:         ev.Country,
				RaceDatetimeUTC: ev.EventDateUTC,
				SourceEventKey:  ev.OfficialKey,
				SessionType:     sessionType,
			}
		})
	err = pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		for _, entry := range entries {
			if err := catalogrepos.Upsert(ctx, tx, entry); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	s.logger.Debug("schedule refreshed",
		log.Int("season", season), log.Int("events", len(entries)))
	return len(entries), nil
}

// SeedCatalogLinks fills in wikipedia_url and formula1_url for every
// catalog race that can be mapped. Idempotent; existing links are
// overwritten with the derived ones.
func (s *IngestService) SeedCatalogLinks(ctx context.Context) (int, error) {
	all, err := catalogrepos.LoadAll(ctx, s.pool)
	if err != nil {
		return 0, err
	}
	// testing events have no race page
	races := lo.Filter(all, func(entry *model.RaceCatalogEntry, _ int) bool {
		return entry.Round > 0
	})

	seeded := 0
	for _, entry := range races {
		wiki := utils.BuildWikipediaURL(entry.Season, entry.Round, entry.EventName)
		var f1URL *string
		country := ""
		if entry.Country != nil {
			country = *entry.Country
		}
		if url := utils.BuildFormula1URL(entry.Season, entry.EventName, country); url != "" {
			f1URL = &url
		}
		num, err := catalogrepos.UpdateLinks(ctx, s.pool, entry.RaceID, &wiki, f1URL)
		if err != nil {
			return seeded, err
		}
		seeded += num
	}
	s.logger.Info("catalog links seeded", log.Int("races", seeded))
	return seeded, nil
}

// SeasonStatus reports ingestion progress for the given season range,
// both bounds inclusive.
func (s *IngestService) SeasonStatus(
	ctx context.Context,
	seasonStart int,
	seasonEnd int,
) ([]*model.SeasonTotals, error) {
	if seasonStart > seasonEnd {
		return nil, fmt.Errorf("invalid season range %d-%d", seasonStart, seasonEnd)
	}
	totals, err := catalogrepos.LoadSeasonTotals(ctx, s.pool)
	if err != nil {
		return nil, err
	}
	return lo.Filter(totals, func(t *model.SeasonTotals, _ int) bool {
		return t.Season >= seasonStart && t.Season <= seasonEnd
	}), nil
}
