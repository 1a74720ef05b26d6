package usecase

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/panjf2000/ants/v2"

	"github.com/scoutlens/scoutlens/internal/domain/position"
	"github.com/scoutlens/scoutlens/internal/domain/squad"
	"github.com/scoutlens/scoutlens/internal/platform/logging"
)

const defaultTransferLimit = 25

// TransferCriteria describes a transfer market search for one buying club.
type TransferCriteria struct {
	Club       string  `json:"club" validate:"required"`
	Position   string  `json:"position"`
	Role       string  `json:"role"`
	BudgetM    float64 `json:"budgetM" validate:"gte=0"`
	MaxWage    float64 `json:"maxWage" validate:"gte=0"`
	MaxAge     float64 `json:"maxAge" validate:"gte=0"`
	MinScore   float64 `json:"minScore" validate:"gte=0,lte=100"`
	MinMinutes float64 `json:"minMinutes" validate:"gte=0"`
	Limit      int     `json:"limit" validate:"gte=0,lte=200"`
}

// TransferTarget is one recommended signing.
type TransferTarget struct {
	Name           string               `json:"name"`
	Club           string               `json:"club"`
	League         string               `json:"league"`
	Age            float64              `json:"age,omitempty"`
	BestRole       string               `json:"bestRole"`
	BestScore      float64              `json:"bestScore"`
	ValueM         float64              `json:"valueM"`
	BuyAtM         float64              `json:"buyAtM"`
	WeeklyWage     float64              `json:"weeklyWage"`
	Recommendation squad.Recommendation `json:"recommendation"`
}

type TransferService struct {
	analysis  *AnalysisService
	valuation *ValuationService
	squads    *SquadService
	workers   int
	logger    *logging.Logger
}

func NewTransferService(analysis *AnalysisService, val *ValuationService, squads *SquadService, workers int, logger *logging.Logger) *TransferService {
	if workers < 1 {
		workers = 1
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &TransferService{
		analysis:  analysis,
		valuation: val,
		squads:    squads,
		workers:   workers,
		logger:    logger,
	}
}

// Search scans the whole market for signings that fit the club's squad
// context, budget, and criteria. Candidates are valued concurrently.
func (s *TransferService) Search(ctx context.Context, c TransferCriteria) ([]TransferTarget, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.TransferService.Search")
	defer span.End()

	c.Club = strings.TrimSpace(c.Club)
	if c.Club == "" {
		return nil, fmt.Errorf("%w: club is required", ErrInvalidInput)
	}
	if c.Limit <= 0 {
		c.Limit = defaultTransferLimit
	}

	sc, err := s.squads.Analyze(ctx, c.Club)
	if err != nil {
		return nil, err
	}

	ix, err := s.analysis.IndexFor(ctx, Filter{})
	if err != nil {
		return nil, err
	}

	var posTokens []string
	if c.Position != "" {
		posTokens = position.Expand(c.Position)
	}

	var candidates []Evaluation
	for _, ev := range ix.Evals {
		if strings.EqualFold(ev.Player.Club, sc.Club) {
			continue
		}
		if len(posTokens) > 0 && !position.SharesAny(ev.Player.Positions, posTokens) {
			continue
		}
		if c.Role != "" && !strings.EqualFold(ev.Best.Role, c.Role) {
			continue
		}
		if c.MinScore > 0 && ev.Best.Score < c.MinScore {
			continue
		}
		if c.MaxAge > 0 && !(ev.Player.Age <= c.MaxAge) {
			continue
		}
		if c.MinMinutes > 0 && !(ev.Player.Minutes >= c.MinMinutes) {
			continue
		}
		candidates = append(candidates, ev)
	}

	cfg := s.valuation.Config(ctx)
	if s.valuation.anchoring {
		a, err := s.valuation.anchoringFor(ctx)
		if err != nil {
			return nil, err
		}
		cfg = a.Apply(cfg)
	}
	eng := s.valuation.engine(ix, s.valuation.now())

	workers, err := ants.NewPool(s.workers)
	if err != nil {
		return nil, fmt.Errorf("create worker pool: %w", err)
	}
	defer workers.Release()

	var (
		mu      sync.Mutex
		targets []TransferTarget
	)
	score := func(ev Evaluation) {
		result := eng.TrueValue(ev.Player, cfg)
		buyAt := eng.BuyAt(ev.Player, cfg)
		if c.BudgetM > 0 && buyAt > c.BudgetM {
			return
		}
		wage := eng.WeeklyWage(ev.Player, cfg)
		if c.MaxWage > 0 && wage > c.MaxWage {
			return
		}

		rec := squad.Recommend(squad.Candidate{
			Name:               ev.Player.Name,
			BestRole:           ev.Best.Role,
			BestScore:          ev.Best.Score,
			Family:             ev.Player.Family,
			Tier:               ev.Tier,
			Value:              result.ValueM * 1e6,
			PerformanceTier:    result.PerformanceTier,
			ContractMultiplier: result.ContractMultiplier,
			Versatility:        result.Versatility.Multiplier,
		}, sc)

		mu.Lock()
		targets = append(targets, TransferTarget{
			Name:           ev.Player.Name,
			Club:           ev.Player.Club,
			League:         ev.Player.League,
			Age:            orZero(ev.Player.Age),
			BestRole:       ev.Best.Role,
			BestScore:      ev.Best.Score,
			ValueM:         result.ValueM,
			BuyAtM:         buyAt,
			WeeklyWage:     wage,
			Recommendation: rec,
		})
		mu.Unlock()
	}
	if err := scanCandidates(candidates, workers.Submit, score); err != nil {
		return nil, err
	}

	sort.SliceStable(targets, func(i, j int) bool {
		a, b := targets[i], targets[j]
		if a.Recommendation.AdjustedScore != b.Recommendation.AdjustedScore {
			return a.Recommendation.AdjustedScore > b.Recommendation.AdjustedScore
		}
		if a.BuyAtM != b.BuyAtM {
			return a.BuyAtM < b.BuyAtM
		}
		return a.Name < b.Name
	})
	if len(targets) > c.Limit {
		targets = targets[:c.Limit]
	}

	s.logger.InfoContext(ctx, "transfer search complete",
		"club", sc.Club,
		"candidates", len(candidates),
		"targets", len(targets),
	)

	return targets, nil
}

// scanCandidates fans the scoring work out over the pool. On a failed
// submission it drains the tasks already in flight before returning so no
// goroutine outlives the call.
func scanCandidates(candidates []Evaluation, submit func(task func()) error, score func(Evaluation)) error {
	var wg sync.WaitGroup
	for _, ev := range candidates {
		wg.Add(1)
		ev := ev
		task := func() {
			defer wg.Done()
			score(ev)
		}
		if err := submit(task); err != nil {
			wg.Done()
			wg.Wait()
			return fmt.Errorf("submit candidate: %w", err)
		}
	}
	wg.Wait()
	return nil
}
