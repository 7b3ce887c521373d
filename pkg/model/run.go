package model

import "time"

type RunStatus string

const (
	RunStatusRunning RunStatus = "running"
	RunStatusSuccess RunStatus = "success"
	// RunStatusPartial marks a run whose data is loaded but failed at
	// least one quality check.
	RunStatusPartial RunStatus = "partial"
	RunStatusFailed  RunStatus = "failed"
)

// IngestionRun is one row of metadata.ingestion_runs: a single attempt
// to ingest one (season, round, session type).
type IngestionRun struct {
	RunID       string
	StartedAt   time.Time
	FinishedAt  *time.Time
	Status      RunStatus
	Season      int
	Round       int
	SessionType string
	CodeVersion string
	Notes       map[string]any
}

type CheckStatus string

const (
	CheckStatusPass CheckStatus = "pass"
	CheckStatusFail CheckStatus = "fail"
)

// QualityCheck is one row of metadata.data_quality_checks, append-only
// and owned by its run.
type QualityCheck struct {
	ID        int64
	RunID     string
	CheckName string
	Status    CheckStatus
	Details   map[string]any
	CheckedAt time.Time
}
