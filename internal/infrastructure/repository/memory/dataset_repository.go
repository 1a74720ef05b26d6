package memory

import (
	"context"
	"sync"

	"github.com/scoutlens/scoutlens/internal/domain/record"
)

var _ record.DatasetRepository = (*DatasetRepository)(nil)

type DatasetRepository struct {
	mu      sync.RWMutex
	dataset record.Dataset
	loaded  bool
}

func NewDatasetRepository() *DatasetRepository {
	return &DatasetRepository{}
}

func (r *DatasetRepository) Replace(_ context.Context, ds record.Dataset) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.dataset = ds
	r.loaded = true

	return nil
}

func (r *DatasetRepository) Current(_ context.Context) (record.Dataset, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.dataset, r.loaded, nil
}
