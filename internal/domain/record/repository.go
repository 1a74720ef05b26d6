package record

import "context"

// Dataset is one loaded export plus its identity hash, used as the cache key
// for derived indexes.
type Dataset struct {
	Players []Player
	Columns []string
	Hash    string
	Source  string
}

// DatasetRepository holds the session's loaded dataset. Replace swaps the
// whole snapshot atomically.
type DatasetRepository interface {
	Replace(ctx context.Context, ds Dataset) error
	Current(ctx context.Context) (Dataset, bool, error)
}
