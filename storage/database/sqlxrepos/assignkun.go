package sqlxrepos

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/assignkun/assignkun/core/assignkun"
	"github.com/assignkun/assignkun/core/ingest"
)

type assignKunRepository struct {
	db *sqlx.DB
}

var _ assignkun.Repository = (*assignKunRepository)(nil) // interface compliance check

func NewAssignKunRepository(db *sqlx.DB) *assignKunRepository {
	return &assignKunRepository{db: db}
}

func (repo assignKunRepository) QueryHistograms(ctx context.Context) ([]ingest.Histogram, error) {
	var rows []ingest.Histogram
	if err := repo.db.SelectContext(ctx, &rows, "SELECT * FROM histograms ORDER BY id"); err != nil {
		return nil, errors.Wrap(err, "selecting histograms")
	}
	return rows, nil
}

func (repo assignKunRepository) QueryProjects(ctx context.Context) ([]ingest.Project, error) {
	var rows []ingest.Project
	if err := repo.db.SelectContext(ctx, &rows, "SELECT * FROM projects ORDER BY id"); err != nil {
		return nil, errors.Wrap(err, "selecting projects")
	}
	return rows, nil
}

func (repo assignKunRepository) QueryUsers(ctx context.Context) ([]ingest.User, error) {
	var rows []ingest.User
	if err := repo.db.SelectContext(ctx, &rows, "SELECT * FROM users ORDER BY id"); err != nil {
		return nil, errors.Wrap(err, "selecting users")
	}
	return rows, nil
}

func (repo assignKunRepository) QueryNotices(ctx context.Context) ([]assignkun.Notice, error) {
	var rows []assignkun.Notice
	if err := repo.db.SelectContext(ctx, &rows, "SELECT * FROM notices ORDER BY notice_time DESC"); err != nil {
		return nil, errors.Wrap(err, "selecting notices")
	}
	return rows, nil
}

func (repo assignKunRepository) QueryAssigns(ctx context.Context) ([]ingest.Assign, error) {
	var rows []ingest.Assign
	if err := repo.db.SelectContext(ctx, &rows, "SELECT * FROM assigns ORDER BY id"); err != nil {
		return nil, errors.Wrap(err, "selecting assigns")
	}
	return rows, nil
}

func (repo assignKunRepository) CreateAssigns(ctx context.Context, rows []ingest.Assign) error {
	if len(rows) == 0 {
		return nil
	}
	if _, err := repo.db.NamedExecContext(ctx, insertAssignQuery, rows); err != nil {
		return errors.Wrap(err, "inserting assigns")
	}
	return nil
}
