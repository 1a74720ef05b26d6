package usecase

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/scoutlens/scoutlens/internal/domain/valuation"
	"github.com/scoutlens/scoutlens/internal/infrastructure/uistate"
	"github.com/scoutlens/scoutlens/internal/platform/cache"
	"github.com/scoutlens/scoutlens/internal/platform/logging"
	"github.com/scoutlens/scoutlens/internal/platform/numparse"
)

// StateKeyValueConfig is the uistate key holding the saved value-config
// overlay.
const StateKeyValueConfig = "value-config"

// ValuationReport is the full financial picture for one player.
type ValuationReport struct {
	Name          string                   `json:"name"`
	Club          string                   `json:"club"`
	League        string                   `json:"league"`
	Result        valuation.Result         `json:"result"`
	ValueDisplay  string                   `json:"valueDisplay"`
	BuyAtM        float64                  `json:"buyAtM"`
	BuyAtDisplay  string                   `json:"buyAtDisplay"`
	WeeklyWage    float64                  `json:"weeklyWage"`
	WeeklyWageMax float64                  `json:"weeklyWageMax"`
	Contract      valuation.ContractInfo   `json:"contract"`
	Anchoring     *valuation.Anchoring     `json:"anchoring,omitempty"`
	PoolSize      int                      `json:"poolSize"`
}

// RebuildConfigFunc layers a saved overlay on top of the configured
// defaults. The app wires this to the config loader.
type RebuildConfigFunc func(overlay []byte) (valuation.Config, error)

type ValuationService struct {
	analysis  *AnalysisService
	state     *uistate.Store
	store     *cache.Store
	rebuild   RebuildConfigFunc
	anchoring bool
	now       func() time.Time
	logger    *logging.Logger

	mu  sync.RWMutex
	cfg valuation.Config
}

func NewValuationService(
	analysis *AnalysisService,
	state *uistate.Store,
	store *cache.Store,
	cfg valuation.Config,
	rebuild RebuildConfigFunc,
	anchoring bool,
	now func() time.Time,
	logger *logging.Logger,
) *ValuationService {
	if now == nil {
		now = time.Now
	}
	if logger == nil {
		logger = logging.Default()
	}
	cfg = cfg.Normalize()

	return &ValuationService{
		analysis:  analysis,
		state:     state,
		store:     store,
		rebuild:   rebuild,
		anchoring: anchoring,
		now:       now,
		logger:    logger,
		cfg:       cfg,
	}
}

// Config returns the active value model constants.
func (s *ValuationService) Config(ctx context.Context) valuation.Config {
	_, span := startUsecaseSpan(ctx, "usecase.ValuationService.Config")
	defer span.End()

	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.cfg
}

// UpdateConfig layers a partial JSON overlay over the configured defaults,
// persists it, and swaps the active config.
func (s *ValuationService) UpdateConfig(ctx context.Context, overlay []byte) (valuation.Config, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ValuationService.UpdateConfig")
	defer span.End()

	if s.rebuild == nil {
		return valuation.Config{}, fmt.Errorf("%w: config updates are disabled", ErrInvalidInput)
	}

	cfg, err := s.rebuild(overlay)
	if err != nil {
		return valuation.Config{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	if s.state != nil {
		if err := s.state.Put(ctx, StateKeyValueConfig, overlay); err != nil {
			return valuation.Config{}, fmt.Errorf("persist value config: %w", err)
		}
	}

	s.mu.Lock()
	s.cfg = cfg
	s.mu.Unlock()

	s.logger.InfoContext(ctx, "value config updated", "bytes", len(overlay))

	return cfg, nil
}

// ResetConfig discards the saved overlay and reloads file-plus-defaults.
func (s *ValuationService) ResetConfig(ctx context.Context) (valuation.Config, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ValuationService.ResetConfig")
	defer span.End()

	if s.rebuild == nil {
		return valuation.Config{}, fmt.Errorf("%w: config updates are disabled", ErrInvalidInput)
	}

	cfg, err := s.rebuild(nil)
	if err != nil {
		return valuation.Config{}, fmt.Errorf("reload value config: %w", err)
	}
	if s.state != nil {
		if err := s.state.Delete(ctx, StateKeyValueConfig); err != nil {
			return valuation.Config{}, fmt.Errorf("clear value config: %w", err)
		}
	}

	s.mu.Lock()
	s.cfg = cfg
	s.mu.Unlock()

	return cfg, nil
}

// Value runs the full valuation pipeline for one player against the scope
// pool.
func (s *ValuationService) Value(ctx context.Context, name string, f Filter) (ValuationReport, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ValuationService.Value")
	defer span.End()

	name = strings.TrimSpace(name)
	if name == "" {
		return ValuationReport{}, fmt.Errorf("%w: player name is required", ErrInvalidInput)
	}

	ix, err := s.analysis.IndexFor(ctx, f)
	if err != nil {
		return ValuationReport{}, err
	}
	ev, ok := findEval(ix.Evals, name)
	if !ok {
		return ValuationReport{}, fmt.Errorf("%w: player=%s", ErrNotFound, name)
	}

	cfg := s.Config(ctx)
	now := s.now()

	var anch *valuation.Anchoring
	if s.anchoring {
		a, err := s.anchoringFor(ctx)
		if err != nil {
			return ValuationReport{}, err
		}
		cfg = a.Apply(cfg)
		anch = &a
	}

	eng := s.engine(ix, now)
	result := eng.TrueValue(ev.Player, cfg)
	buyAt := eng.BuyAt(ev.Player, cfg)
	wage := eng.WeeklyWage(ev.Player, cfg)
	wageMax := eng.WeeklyWageMax(ev.Player, cfg)
	contract := valuation.Contract(ev.Player.Cell("Expires"), int(now.Month()), now.Year())

	return ValuationReport{
		Name:          ev.Player.Name,
		Club:          ev.Player.Club,
		League:        ev.Player.League,
		Result:        result,
		ValueDisplay:  numparse.FormatMoney(result.ValueM * 1e6),
		BuyAtM:        buyAt,
		BuyAtDisplay:  numparse.FormatMoney(buyAt * 1e6),
		WeeklyWage:    wage,
		WeeklyWageMax: wageMax,
		Contract:      contract,
		Anchoring:     anch,
		PoolSize:      len(ix.Pool),
	}, nil
}

func (s *ValuationService) engine(ix *Index, now time.Time) valuation.Engine {
	return valuation.Engine{
		Catalog:    s.analysis.Catalog(),
		Index:      ix.Pct,
		Month:      int(now.Month()),
		Year:       now.Year(),
		PoolSize:   len(ix.Pool),
		PeerScores: ix.PeerScores,
	}
}

// anchoringFor derives tier anchoring from the full dataset's in-game
// transfer values, memoized per dataset hash.
func (s *ValuationService) anchoringFor(ctx context.Context) (valuation.Anchoring, error) {
	ix, err := s.analysis.IndexFor(ctx, Filter{})
	if err != nil {
		return valuation.Anchoring{}, err
	}

	now := s.now()
	compute := func(context.Context) (any, error) {
		return valuation.ComputeAnchoring(ix.Pool, int(now.Month()), now.Year()), nil
	}

	if s.store == nil {
		v, _ := compute(ctx)
		return v.(valuation.Anchoring), nil
	}

	key := fmt.Sprintf("%s%s:%d-%d", cacheKeyAnchor, ix.Hash, now.Year(), now.Month())
	v, err := s.store.GetOrLoad(ctx, key, compute)
	if err != nil {
		return valuation.Anchoring{}, err
	}

	return v.(valuation.Anchoring), nil
}
