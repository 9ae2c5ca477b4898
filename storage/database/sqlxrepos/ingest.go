package sqlxrepos

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/assignkun/assignkun/core/ingest"
)

const (
	insertHistogramQuery = `
INSERT INTO histograms (
	histogram_ac_code, histogram_ac_name, histogram_pj_br_num, histogram_pj_name,
	histogram_pj_contract_form, histogram_costs_unit, histogram_year,
	histogram_01month, histogram_02month, histogram_03month, histogram_04month,
	histogram_05month, histogram_06month, histogram_07month, histogram_08month,
	histogram_09month, histogram_10month, histogram_11month, histogram_12month
) VALUES (
	:histogram_ac_code, :histogram_ac_name, :histogram_pj_br_num, :histogram_pj_name,
	:histogram_pj_contract_form, :histogram_costs_unit, :histogram_year,
	:histogram_01month, :histogram_02month, :histogram_03month, :histogram_04month,
	:histogram_05month, :histogram_06month, :histogram_07month, :histogram_08month,
	:histogram_09month, :histogram_10month, :histogram_11month, :histogram_12month
)`

	insertProjectQuery = `
INSERT INTO projects (
	project_br_num, name, project_contract_form, project_sched_self,
	project_sched_to, project_type_name, project_classification, project_budget_no
) VALUES (
	:project_br_num, :name, :project_contract_form, :project_sched_self,
	:project_sched_to, :project_type_name, :project_classification, :project_budget_no
)`

	insertUserQuery = `
INSERT INTO users (user_code, name, user_team, user_type)
VALUES (:user_code, :name, :user_team, :user_type)`

	insertAssignQuery = `
INSERT INTO assigns (
	user_name, assin_execution, assin_maintenance, assin_prospect,
	assin_common_cost, assin_most_com_ps, assin_sales_mane, assin_investigation,
	assin_project_code, assin_directly, assin_common, assin_sales_sup
) VALUES (
	:user_name, :assin_execution, :assin_maintenance, :assin_prospect,
	:assin_common_cost, :assin_most_com_ps, :assin_sales_mane, :assin_investigation,
	:assin_project_code, :assin_directly, :assin_common, :assin_sales_sup
)`
)

type ingestRepository struct {
	db *sqlx.DB
}

var _ ingest.Repository = (*ingestRepository)(nil) // interface compliance check

func NewIngestRepository(db *sqlx.DB) *ingestRepository {
	return &ingestRepository{db: db}
}

// replace clears table and bulk-inserts rows in a single transaction.
func (repo ingestRepository) replace(ctx context.Context, table, insertQuery string, rows interface{}, n int) (int, error) {
	tx, err := repo.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, errors.Wrap(err, "beginning transaction")
	}
	defer func() { _ = tx.Rollback() }()

	if _, err = tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
		return 0, errors.Wrapf(err, "clearing %s", table)
	}
	if n > 0 {
		if _, err = tx.NamedExecContext(ctx, insertQuery, rows); err != nil {
			return 0, errors.Wrapf(err, "inserting into %s", table)
		}
	}
	if err = tx.Commit(); err != nil {
		return 0, errors.Wrap(err, "committing transaction")
	}
	return n, nil
}

func (repo ingestRepository) ReplaceHistograms(ctx context.Context, rows []ingest.Histogram) (int, error) {
	return repo.replace(ctx, "histograms", insertHistogramQuery, rows, len(rows))
}

func (repo ingestRepository) ReplaceProjects(ctx context.Context, rows []ingest.Project) (int, error) {
	return repo.replace(ctx, "projects", insertProjectQuery, rows, len(rows))
}

func (repo ingestRepository) ReplaceUsers(ctx context.Context, rows []ingest.User) (int, error) {
	return repo.replace(ctx, "users", insertUserQuery, rows, len(rows))
}

func (repo ingestRepository) ReplaceAssigns(ctx context.Context, rows []ingest.Assign) (int, error) {
	return repo.replace(ctx, "assigns", insertAssignQuery, rows, len(rows))
}
