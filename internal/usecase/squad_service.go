package usecase

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/scoutlens/scoutlens/internal/domain/leaguetier"
	"github.com/scoutlens/scoutlens/internal/domain/squad"
	"github.com/scoutlens/scoutlens/internal/platform/logging"
)

// ClubSummary is one club of the dataset.
type ClubSummary struct {
	Club      string          `json:"club"`
	League    string          `json:"league"`
	Tier      leaguetier.Tier `json:"tier"`
	SquadSize int             `json:"squadSize"`
}

type SquadService struct {
	analysis *AnalysisService
	logger   *logging.Logger
}

func NewSquadService(analysis *AnalysisService, logger *logging.Logger) *SquadService {
	if logger == nil {
		logger = logging.Default()
	}
	return &SquadService{analysis: analysis, logger: logger}
}

// Clubs lists every club in the dataset with its league tier.
func (s *SquadService) Clubs(ctx context.Context) ([]ClubSummary, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SquadService.Clubs")
	defer span.End()

	ix, err := s.analysis.IndexFor(ctx, Filter{})
	if err != nil {
		return nil, err
	}

	byClub := make(map[string]*ClubSummary)
	for _, ev := range ix.Evals {
		if ev.Player.Club == "" {
			continue
		}
		cs, ok := byClub[ev.Player.Club]
		if !ok {
			cs = &ClubSummary{
				Club:   ev.Player.Club,
				League: ev.Player.League,
				Tier:   ev.Tier,
			}
			byClub[ev.Player.Club] = cs
		}
		cs.SquadSize++
	}

	out := make([]ClubSummary, 0, len(byClub))
	for _, cs := range byClub {
		out = append(out, *cs)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Club < out[j].Club })

	return out, nil
}

// Analyze rolls up one club's squad by position family and role against
// league-tier expectations. Percentiles come from the whole dataset so a
// squad is judged against the full market.
func (s *SquadService) Analyze(ctx context.Context, club string) (*squad.Context, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SquadService.Analyze")
	defer span.End()

	club = strings.TrimSpace(club)
	if club == "" {
		return nil, fmt.Errorf("%w: club is required", ErrInvalidInput)
	}

	ix, err := s.analysis.IndexFor(ctx, Filter{})
	if err != nil {
		return nil, err
	}

	// The caller may not match the dataset's casing.
	canonical := club
	for _, ev := range ix.Evals {
		if strings.EqualFold(ev.Player.Club, club) {
			canonical = ev.Player.Club
			break
		}
	}

	sc, ok := squad.Analyze(canonical, ix.Pool, s.analysis.Catalog(), ix.Pct)
	if !ok {
		return nil, fmt.Errorf("%w: club=%s", ErrNotFound, club)
	}

	return sc, nil
}
