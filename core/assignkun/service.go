package assignkun

import (
	"context"

	"github.com/pkg/errors"

	"github.com/assignkun/assignkun/core"
	"github.com/assignkun/assignkun/core/ingest"
)

type (
	// Repository reads the dashboard tables and seeds demonstration assigns.
	Repository interface {
		QueryHistograms(ctx context.Context) ([]ingest.Histogram, error)
		QueryProjects(ctx context.Context) ([]ingest.Project, error)
		QueryUsers(ctx context.Context) ([]ingest.User, error)
		QueryNotices(ctx context.Context) ([]Notice, error)
		QueryAssigns(ctx context.Context) ([]ingest.Assign, error)
		CreateAssigns(ctx context.Context, rows []ingest.Assign) error
	}

	// Service serves the assign-kun read API.
	Service struct {
		repo Repository
	}
)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Histograms returns all histogram rows. month, when non-nil, must be 1..12;
// it scopes the dashboard view and is validated here even though all rows
// carry all twelve month columns.
func (svc *Service) Histograms(ctx context.Context, month *int) ([]ingest.Histogram, error) {
	if month != nil && (*month < 1 || *month > 12) {
		return nil, core.NewValidationError(errors.New("month must be between 1 and 12"),
			core.FieldError{Field: "month", Error: "must be between 1 and 12"})
	}
	rows, err := svc.repo.QueryHistograms(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "querying histograms")
	}
	if rows == nil {
		rows = []ingest.Histogram{}
	}
	return rows, nil
}

// Projects returns one page of project rows.
func (svc *Service) Projects(ctx context.Context, page, perPage int) (ProjectList, error) {
	rows, err := svc.repo.QueryProjects(ctx)
	if err != nil {
		return ProjectList{}, errors.Wrap(err, "querying projects")
	}
	page, perPage = cleanPage(page, perPage)
	start, end := pageBounds(len(rows), page, perPage)
	return ProjectList{
		Projects:   append([]ingest.Project{}, rows[start:end]...),
		TotalCount: len(rows),
		Page:       page,
		PerPage:    perPage,
	}, nil
}

// Users returns one page of user rows, optionally filtered by team and type.
func (svc *Service) Users(ctx context.Context, page, perPage int, team, userType string) (UserList, error) {
	rows, err := svc.repo.QueryUsers(ctx)
	if err != nil {
		return UserList{}, errors.Wrap(err, "querying users")
	}

	filtered := rows[:0:0]
	for _, u := range rows {
		if team != "" && u.UserTeam != team {
			continue
		}
		if userType != "" && u.UserType != userType {
			continue
		}
		filtered = append(filtered, u)
	}

	page, perPage = cleanPage(page, perPage)
	start, end := pageBounds(len(filtered), page, perPage)
	return UserList{
		Users:      append([]ingest.User{}, filtered[start:end]...),
		TotalCount: len(filtered),
		Page:       page,
		PerPage:    perPage,
	}, nil
}

// Notices returns one page of notice rows, optionally filtered by user name
// and notice type.
func (svc *Service) Notices(ctx context.Context, page, perPage int, userName, noticeType string) (NoticeList, error) {
	rows, err := svc.repo.QueryNotices(ctx)
	if err != nil {
		return NoticeList{}, errors.Wrap(err, "querying notices")
	}

	filtered := rows[:0:0]
	for _, n := range rows {
		if userName != "" && n.UserName != userName {
			continue
		}
		if noticeType != "" && n.NoticeType != noticeType {
			continue
		}
		filtered = append(filtered, n)
	}

	page, perPage = cleanPage(page, perPage)
	start, end := pageBounds(len(filtered), page, perPage)
	return NoticeList{
		Notices:    append([]Notice{}, filtered[start:end]...),
		TotalCount: len(filtered),
		Page:       page,
		PerPage:    perPage,
	}, nil
}

// AssignSummary groups all assignment rows by user name in first-seen order,
// summing the ten workload columns and keeping a per-row project breakdown.
// An empty table is seeded with two demonstration rows first.
func (svc *Service) AssignSummary(ctx context.Context) (AssignSummaryList, error) {
	rows, err := svc.repo.QueryAssigns(ctx)
	if err != nil {
		return AssignSummaryList{}, errors.Wrap(err, "querying assigns")
	}
	if len(rows) == 0 {
		if err = svc.repo.CreateAssigns(ctx, demoAssigns()); err != nil {
			return AssignSummaryList{}, errors.Wrap(err, "seeding demo assigns")
		}
		if rows, err = svc.repo.QueryAssigns(ctx); err != nil {
			return AssignSummaryList{}, errors.Wrap(err, "querying assigns")
		}
	}

	index := make(map[string]int, len(rows))
	summaries := make([]AssignSummary, 0, len(rows))
	for _, row := range rows {
		i, ok := index[row.UserName]
		if !ok {
			i = len(summaries)
			index[row.UserName] = i
			summaries = append(summaries, AssignSummary{UserName: row.UserName})
		}
		s := &summaries[i]
		s.ExecutionTotal += row.Execution
		s.MaintenanceTotal += row.Maintenance
		s.ProspectTotal += row.Prospect
		s.CommonCostTotal += row.CommonCost
		s.MostComPSTotal += row.MostComPS
		s.SalesManeTotal += row.SalesMane
		s.InvestigationTotal += row.Investigation
		s.DirectlyTotal += row.Directly
		s.CommonTotal += row.Common
		s.SalesSupTotal += row.SalesSup
		s.Projects = append(s.Projects, AssignProjectEntry{
			ProjectCode: row.ProjectCode,
			Execution:   row.Execution,
			Directly:    row.Directly,
		})
	}

	return AssignSummaryList{Assigns: summaries, TotalUsers: len(summaries)}, nil
}

func demoAssigns() []ingest.Assign {
	return []ingest.Assign{
		{
			UserName: "田中太郎", Execution: 120, Maintenance: 20, Prospect: 10,
			CommonCost: 5, MostComPS: 3, SalesMane: 2, Investigation: 0,
			ProjectCode: 1, Directly: 140, Common: 15, SalesSup: 5,
		},
		{
			UserName: "佐藤花子", Execution: 90, Maintenance: 35, Prospect: 15,
			CommonCost: 8, MostComPS: 4, SalesMane: 6, Investigation: 2,
			ProjectCode: 2, Directly: 110, Common: 20, SalesSup: 8,
		},
	}
}

func cleanPage(page, perPage int) (int, int) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = 10
	}
	if perPage > 100 {
		perPage = 100
	}
	return page, perPage
}

func pageBounds(total, page, perPage int) (int, int) {
	start := (page - 1) * perPage
	if start > total {
		start = total
	}
	end := start + perPage
	if end > total {
		end = total
	}
	return start, end
}
