//nolint:whitespace // can't make both editor and linter happy
package quality

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/f1decoder/f1-warehouse-manager-go/pkg/model"
	"github.com/f1decoder/f1-warehouse-manager-go/pkg/repository"
)

var selector = `select id, run_id, check_name, status, details_json, checked_at
	from metadata.data_quality_checks`

// Create appends one check result for a run. The generated id and
// check timestamp are written back into the passed struct.
func Create(ctx context.Context, conn repository.Querier, check *model.QualityCheck) error {
	details := check.Details
	if details == nil {
		details = map[string]any{}
	}
	row := conn.QueryRow(ctx, `
	insert into metadata.data_quality_checks (
		run_id, check_name, status, details_json
	) values ($1,$2,$3,$4)
	returning id, checked_at
		`,
		check.RunID, check.CheckName, check.Status, details,
	)
	if err := row.Scan(&check.ID, &check.CheckedAt); err != nil {
		return err
	}
	return nil
}

func LoadByRunId(ctx context.Context, conn repository.Querier, runId string) (
	[]*model.QualityCheck, error,
) {
	row, err := conn.Query(ctx, fmt.Sprintf("%s where run_id=$1 order by id", selector), runId)
	if err != nil {
		return nil, err
	}
	defer row.Close()
	ret := make([]*model.QualityCheck, 0)
	for row.Next() {
		item, err := readData(row)
		if err != nil {
			return nil, err
		}
		ret = append(ret, item)
	}
	return ret, nil
}

// deletes all check rows of a run, returns number of rows deleted.
func DeleteByRunId(ctx context.Context, conn repository.Querier, runId string) (int, error) {
	cmdTag, err := conn.Exec(ctx,
		"delete from metadata.data_quality_checks where run_id=$1", runId)
	if err != nil {
		return 0, err
	}
	return int(cmdTag.RowsAffected()), nil
}

func readData(row pgx.Row) (*model.QualityCheck, error) {
	var item model.QualityCheck
	if err := row.Scan(
		&item.ID, &item.RunID, &item.CheckName, &item.Status,
		&item.Details, &item.CheckedAt,
	); err != nil {
		return nil, err
	}
	return &item, nil
}
