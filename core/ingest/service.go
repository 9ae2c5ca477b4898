package ingest

import (
	"context"
	"sync"

	"github.com/pkg/errors"
)

type (
	// Repository persists validated batches. Each Replace* call must be
	// all-or-nothing: delete all existing rows and insert the batch in one
	// transaction, leaving the table untouched on failure.
	Repository interface {
		ReplaceHistograms(ctx context.Context, rows []Histogram) (int, error)
		ReplaceProjects(ctx context.Context, rows []Project) (int, error)
		ReplaceUsers(ctx context.Context, rows []User) (int, error)
		ReplaceAssigns(ctx context.Context, rows []Assign) (int, error)
	}

	// Service runs the parse -> validate -> bulk-replace pipeline. Replace
	// calls for the same dataset are serialized with a per-dataset lock so
	// concurrent uploads cannot interleave their delete/insert.
	Service struct {
		repo      Repository
		validator *Validator

		mu    sync.Mutex
		locks map[Dataset]*sync.Mutex
	}
)

func NewService(repo Repository, validator *Validator) *Service {
	return &Service{
		repo:      repo,
		validator: validator,
		locks:     make(map[Dataset]*sync.Mutex, 4),
	}
}

func (svc *Service) lock(dataset Dataset) *sync.Mutex {
	svc.mu.Lock()
	defer svc.mu.Unlock()
	l, ok := svc.locks[dataset]
	if !ok {
		l = &sync.Mutex{}
		svc.locks[dataset] = l
	}
	return l
}

// Replace clears the dataset's table and inserts the batch, returning the
// inserted count.
func (svc *Service) Replace(ctx context.Context, batch Batch) (int, error) {
	l := svc.lock(batch.Dataset)
	l.Lock()
	defer l.Unlock()

	switch batch.Dataset {
	case DatasetHistograms:
		return svc.repo.ReplaceHistograms(ctx, batch.Histograms)
	case DatasetProjects:
		return svc.repo.ReplaceProjects(ctx, batch.Projects)
	case DatasetUsers:
		return svc.repo.ReplaceUsers(ctx, batch.Users)
	case DatasetAssigns:
		return svc.repo.ReplaceAssigns(ctx, batch.Assigns)
	}
	return 0, errors.Wrap(ErrUnknownDataset, string(batch.Dataset))
}

// Ingest runs the full pipeline on raw CSV bytes and returns the number of
// rows now in the dataset's table.
func (svc *Service) Ingest(ctx context.Context, dataset Dataset, content []byte) (int, error) {
	records, err := Parse(content)
	if err != nil {
		return 0, err
	}
	batch, err := svc.validator.ValidateRows(dataset, records)
	if err != nil {
		return 0, err
	}
	cnt, err := svc.Replace(ctx, batch)
	if err != nil {
		return 0, errors.Wrapf(err, "replacing %s", dataset)
	}
	return cnt, nil
}
