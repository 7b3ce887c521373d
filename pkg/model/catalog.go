package model

import "time"

// RaceCatalogEntry is one row of metadata.races_catalog. It tracks
// whether a race has ever been ingested and carries the schedule
// attributes plus external links.
type RaceCatalogEntry struct {
	RaceID          string
	Season          int
	Round           int
	EventName       string
	Circuit         *string
	Country         *string
	RaceDatetimeUTC *time.Time
	SourceEventKey  *string
	SessionType     string
	IsIngested      bool
	LastIngestedAt  *time.Time
	WikipediaURL    *string
	Formula1URL     *string
}

// SeasonTotals is the per-season ingestion progress report.
type SeasonTotals struct {
	Season   int
	Ingested int
	Total    int
}
