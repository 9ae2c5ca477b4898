// Package inmem holds an in-memory repository backing the service tests so
// they do not need a running database.
package inmem

import (
	"context"
	"sync"

	"github.com/assignkun/assignkun/core/assignkun"
	"github.com/assignkun/assignkun/core/ingest"
)

// Repository keeps all tables in memory. It implements both the ingest and
// the assign-kun repository interfaces.
type Repository struct {
	mu         sync.RWMutex
	histograms []ingest.Histogram
	projects   []ingest.Project
	users      []ingest.User
	assigns    []ingest.Assign
	notices    []assignkun.Notice
	nextID     int
}

var (
	_ ingest.Repository    = (*Repository)(nil) // interface compliance check
	_ assignkun.Repository = (*Repository)(nil) // interface compliance check
)

func NewRepository() *Repository {
	return &Repository{nextID: 1}
}

func (repo *Repository) id() int {
	id := repo.nextID
	repo.nextID++
	return id
}

func (repo *Repository) ReplaceHistograms(_ context.Context, rows []ingest.Histogram) (int, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	repo.histograms = make([]ingest.Histogram, len(rows))
	for i, row := range rows {
		row.ID = repo.id()
		repo.histograms[i] = row
	}
	return len(rows), nil
}

func (repo *Repository) ReplaceProjects(_ context.Context, rows []ingest.Project) (int, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	repo.projects = make([]ingest.Project, len(rows))
	for i, row := range rows {
		row.ID = repo.id()
		repo.projects[i] = row
	}
	return len(rows), nil
}

func (repo *Repository) ReplaceUsers(_ context.Context, rows []ingest.User) (int, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	repo.users = make([]ingest.User, len(rows))
	for i, row := range rows {
		row.ID = repo.id()
		repo.users[i] = row
	}
	return len(rows), nil
}

func (repo *Repository) ReplaceAssigns(_ context.Context, rows []ingest.Assign) (int, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	repo.assigns = make([]ingest.Assign, len(rows))
	for i, row := range rows {
		row.ID = repo.id()
		repo.assigns[i] = row
	}
	return len(rows), nil
}

func (repo *Repository) QueryHistograms(_ context.Context) ([]ingest.Histogram, error) {
	repo.mu.RLock()
	defer repo.mu.RUnlock()
	return append([]ingest.Histogram{}, repo.histograms...), nil
}

func (repo *Repository) QueryProjects(_ context.Context) ([]ingest.Project, error) {
	repo.mu.RLock()
	defer repo.mu.RUnlock()
	return append([]ingest.Project{}, repo.projects...), nil
}

func (repo *Repository) QueryUsers(_ context.Context) ([]ingest.User, error) {
	repo.mu.RLock()
	defer repo.mu.RUnlock()
	return append([]ingest.User{}, repo.users...), nil
}

func (repo *Repository) QueryNotices(_ context.Context) ([]assignkun.Notice, error) {
	repo.mu.RLock()
	defer repo.mu.RUnlock()
	return append([]assignkun.Notice{}, repo.notices...), nil
}

func (repo *Repository) QueryAssigns(_ context.Context) ([]ingest.Assign, error) {
	repo.mu.RLock()
	defer repo.mu.RUnlock()
	return append([]ingest.Assign{}, repo.assigns...), nil
}

func (repo *Repository) CreateAssigns(_ context.Context, rows []ingest.Assign) error {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	for _, row := range rows {
		row.ID = repo.id()
		repo.assigns = append(repo.assigns, row)
	}
	return nil
}

// SeedNotices loads notice rows for tests.
func (repo *Repository) SeedNotices(rows ...assignkun.Notice) {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	for _, row := range rows {
		row.ID = repo.id()
		repo.notices = append(repo.notices, row)
	}
}
