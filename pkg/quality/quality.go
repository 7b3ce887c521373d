// Package quality runs the post-load check battery over the curated
// tables of a single race. Checks never modify data; persisting the
// outcome and deciding the run status is up to the caller.
package quality

import (
	"context"
	"fmt"

	"github.com/f1decoder/f1-warehouse-manager-go/pkg/model"
	"github.com/f1decoder/f1-warehouse-manager-go/pkg/repository"
)

// Battery check names, in execution order.
const (
	CheckLapRowcount    = "fact_lap_rowcount"
	CheckLapDuplicates  = "fact_lap_pk_duplicates"
	CheckLapSanity      = "lap_number_sanity"
	CheckLapContinuity  = "lap_continuity_per_driver"
	CheckWinnerExists   = "winner_exists"
)

const (
	minLapRows   = 100
	maxLapNumber = 120
)

// RunChecks executes the battery for one race and returns one row per
// check, stamped with runID. An error means a check could not run at
// all, not that data failed it.
func RunChecks(
	ctx context.Context,
	conn repository.Querier,
	runID string,
	raceID string,
) ([]*model.QualityCheck, error) {
	checks := []func(context.Context, repository.Querier, string) (*model.QualityCheck, error){
		checkLapRowcount,
		checkLapDuplicates,
		checkLapSanity,
		checkLapContinuity,
		checkWinnerExists,
	}
	ret := make([]*model.QualityCheck, 0, len(checks))
	for _, check := range checks {
		item, err := check(ctx, conn, raceID)
		if err != nil {
			return nil, fmt.Errorf("quality battery aborted: %w", err)
		}
		item.RunID = runID
		ret = append(ret, item)
	}
	return ret, nil
}

// AllPassed reports whether no check in the battery failed.
func AllPassed(checks []*model.QualityCheck) bool {
	for _, c := range checks {
		if c.Status != model.CheckStatusPass {
			return false
		}
	}
	return true
}

// Summary condenses the battery into note-friendly form.
func Summary(checks []*model.QualityCheck) map[string]any {
	failed := make([]string, 0)
	for _, c := range checks {
		if c.Status != model.CheckStatusPass {
			failed = append(failed, c.CheckName)
		}
	}
	return map[string]any{
		"total":  len(checks),
		"failed": failed,
	}
}

func newCheck(name string, passed bool, details map[string]any) *model.QualityCheck {
	status := model.CheckStatusPass
	if !passed {
		status = model.CheckStatusFail
	}
	return &model.QualityCheck{CheckName: name, Status: status, Details: details}
}

func checkLapRowcount(
	ctx context.Context,
	conn repository.Querier,
	raceID string,
) (*model.QualityCheck, error) {
	row := conn.QueryRow(ctx,
		"select count(*) from curated.fact_lap where race_id=$1", raceID)
	var rows int
	if err := row.Scan(&rows); err != nil {
		return nil, err
	}
	return newCheck(CheckLapRowcount, rows > minLapRows,
		map[string]any{"rows": rows, "threshold": minLapRows}), nil
}

func checkLapDuplicates(
	ctx context.Context,
	conn repository.Querier,
	raceID string,
) (*model.QualityCheck, error) {
	// the primary key makes duplicates impossible, the check documents it
	row := conn.QueryRow(ctx, `
select count(*) from (
  select driver_id, lap_number from curated.fact_lap
  where race_id=$1 group by driver_id, lap_number having count(*) > 1
) dupes`, raceID)
	var dupes int
	if err := row.Scan(&dupes); err != nil {
		return nil, err
	}
	return newCheck(CheckLapDuplicates, dupes == 0,
		map[string]any{"duplicates": dupes}), nil
}

func checkLapSanity(
	ctx context.Context,
	conn repository.Querier,
	raceID string,
) (*model.QualityCheck, error) {
	row := conn.QueryRow(ctx, `
select coalesce(min(lap_number),0), coalesce(max(lap_number),0)
from curated.fact_lap where race_id=$1`, raceID)
	var minLap, maxLap int
	if err := row.Scan(&minLap, &maxLap); err != nil {
		return nil, err
	}
	return newCheck(CheckLapSanity, minLap >= 1 && maxLap <= maxLapNumber,
		map[string]any{"min": minLap, "max": maxLap, "limit": maxLapNumber}), nil
}

func checkLapContinuity(
	ctx context.Context,
	conn repository.Querier,
	raceID string,
) (*model.QualityCheck, error) {
	row := conn.QueryRow(ctx, `
select count(*) from (
  select driver_id from curated.fact_lap
  where race_id=$1 group by driver_id
  having count(*) <> max(lap_number) - min(lap_number) + 1
) gaps`, raceID)
	var gapped int
	if err := row.Scan(&gapped); err != nil {
		return nil, err
	}
	return newCheck(CheckLapContinuity, gapped == 0,
		map[string]any{"drivers_with_gaps": gapped}), nil
}

func checkWinnerExists(
	ctx context.Context,
	conn repository.Querier,
	raceID string,
) (*model.QualityCheck, error) {
	row := conn.QueryRow(ctx, `
select count(*) from curated.fact_session_results
where race_id=$1 and finish_position = 1`, raceID)
	var winners int
	if err := row.Scan(&winners); err != nil {
		return nil, err
	}
	return newCheck(CheckWinnerExists, winners == 1,
		map[string]any{"winners": winners}), nil
}
