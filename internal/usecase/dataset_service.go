package usecase

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/scoutlens/scoutlens/internal/domain/leaguetier"
	"github.com/scoutlens/scoutlens/internal/domain/record"
	"github.com/scoutlens/scoutlens/internal/infrastructure/ingest"
	"github.com/scoutlens/scoutlens/internal/platform/cache"
	"github.com/scoutlens/scoutlens/internal/platform/logging"
)

// DatasetSummary describes the loaded export.
type DatasetSummary struct {
	Hash       string         `json:"hash"`
	Source     string         `json:"source"`
	Players    int            `json:"players"`
	Clubs      int            `json:"clubs"`
	Leagues    int            `json:"leagues"`
	Columns    []string       `json:"columns"`
	TierCounts map[string]int `json:"tierCounts"`
}

type DatasetService struct {
	repo   record.DatasetRepository
	loader *ingest.Loader
	store  *cache.Store
	logger *logging.Logger
}

func NewDatasetService(repo record.DatasetRepository, loader *ingest.Loader, store *cache.Store, logger *logging.Logger) *DatasetService {
	if logger == nil {
		logger = logging.Default()
	}
	return &DatasetService{
		repo:   repo,
		loader: loader,
		store:  store,
		logger: logger,
	}
}

// Load parses the export payload, swaps it in as the active dataset, and
// drops every derived index from the cache.
func (s *DatasetService) Load(ctx context.Context, data []byte, format string) (DatasetSummary, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.DatasetService.Load")
	defer span.End()

	format = strings.ToLower(strings.TrimSpace(format))
	switch ingest.Format(format) {
	case ingest.FormatAuto, ingest.FormatCSV, ingest.FormatHTML:
	default:
		return DatasetSummary{}, fmt.Errorf("%w: unsupported format %q", ErrInvalidInput, format)
	}

	ds, err := s.loader.Load(data, ingest.Format(format))
	if err != nil {
		return DatasetSummary{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	if err := s.repo.Replace(ctx, ds); err != nil {
		return DatasetSummary{}, fmt.Errorf("replace dataset: %w", err)
	}
	if s.store != nil {
		s.store.DeletePrefix(ctx, cacheKeyAnalysis)
		s.store.DeletePrefix(ctx, cacheKeyAnchor)
	}

	s.logger.InfoContext(ctx, "dataset replaced", "hash", ds.Hash, "players", len(ds.Players))

	return summarize(ds), nil
}

// Summary reports the active dataset.
func (s *DatasetService) Summary(ctx context.Context) (DatasetSummary, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.DatasetService.Summary")
	defer span.End()

	ds, ok, err := s.repo.Current(ctx)
	if err != nil {
		return DatasetSummary{}, fmt.Errorf("get dataset: %w", err)
	}
	if !ok {
		return DatasetSummary{}, ErrNoDataset
	}

	return summarize(ds), nil
}

func summarize(ds record.Dataset) DatasetSummary {
	clubs := make(map[string]struct{})
	leagues := make(map[string]struct{})
	tiers := make(map[string]int)
	for _, p := range ds.Players {
		if p.Club != "" {
			clubs[p.Club] = struct{}{}
		}
		if p.League != "" {
			leagues[p.League] = struct{}{}
		}
		tiers[string(leaguetier.Classify(p.League))]++
	}

	columns := make([]string, len(ds.Columns))
	copy(columns, ds.Columns)
	sort.Strings(columns)

	return DatasetSummary{
		Hash:       ds.Hash,
		Source:     ds.Source,
		Players:    len(ds.Players),
		Clubs:      len(clubs),
		Leagues:    len(leagues),
		Columns:    columns,
		TierCounts: tiers,
	}
}
