package usecase

import (
	"context"
	"fmt"
	"math"
	"runtime"
	"sort"
	"strings"
	"sync"

	"github.com/sourcegraph/conc/pool"

	"github.com/scoutlens/scoutlens/internal/domain/leaguetier"
	"github.com/scoutlens/scoutlens/internal/domain/percentile"
	"github.com/scoutlens/scoutlens/internal/domain/position"
	"github.com/scoutlens/scoutlens/internal/domain/record"
	"github.com/scoutlens/scoutlens/internal/domain/role"
	"github.com/scoutlens/scoutlens/internal/platform/cache"
	"github.com/scoutlens/scoutlens/internal/platform/logging"
)

const (
	cacheKeyAnalysis = "analysis:"
	cacheKeyAnchor   = "anchor:"

	defaultLeaderLimit = 10
)

// Filter narrows the comparison pool. Role restricts the pool to players
// eligible for that archetype, which is how like-for-like percentile
// baselines are built. A filter that leaves at most one player falls back
// to the whole dataset so percentiles stay meaningful.
type Filter struct {
	Position   string  `json:"position"`
	Club       string  `json:"club"`
	League     string  `json:"league"`
	Tier       string  `json:"tier"`
	Role       string  `json:"role"`
	MinMinutes float64 `json:"minMinutes"`
	MaxAge     float64 `json:"maxAge"`
	Query      string  `json:"query"`
}

func (f Filter) key() string {
	return strings.Join([]string{
		f.Position, f.Club, f.League, f.Tier, f.Role,
		fmt.Sprintf("%g|%g", f.MinMinutes, f.MaxAge),
		strings.ToLower(f.Query),
	}, "|")
}

func (f Filter) isZero() bool {
	return f == Filter{}
}

// Evaluation pairs a player with their classification under one pool.
type Evaluation struct {
	Player record.Player
	Tier   leaguetier.Tier
	Best   role.Best
}

// Index is every derived structure for one dataset and scope: percentile
// pools per stat, per-player evaluations, and best-role scores grouped by
// league tier for the valuation engine.
type Index struct {
	Hash       string
	Pool       []record.Player
	Pct        percentile.Index
	Evals      []Evaluation
	PeerScores map[leaguetier.Tier][]float64
	Fallback   bool
}

// PlayerSummary is one row of the ranked player listing.
type PlayerSummary struct {
	Name      string          `json:"name"`
	Club      string          `json:"club"`
	League    string          `json:"league"`
	Tier      leaguetier.Tier `json:"tier"`
	Position  string          `json:"position"`
	Family    position.Family `json:"family"`
	Age       float64         `json:"age,omitempty"`
	Minutes   float64         `json:"minutes,omitempty"`
	BestRole  string          `json:"bestRole"`
	BestScore float64         `json:"bestScore"`
}

// StatLine is one statistic of a player profile with its pool percentile.
type StatLine struct {
	Stat       string  `json:"stat"`
	Label      string  `json:"label"`
	Value      float64 `json:"value"`
	Percentile float64 `json:"percentile"`
	Inverted   bool    `json:"inverted"`
}

// PlayerProfile is the full percentile breakdown for one player.
type PlayerProfile struct {
	Summary    PlayerSummary `json:"summary"`
	Stats      []StatLine    `json:"stats"`
	RoleScores []role.Best   `json:"roleScores"`
	PoolSize   int           `json:"poolSize"`
	Fallback   bool          `json:"fallback"`
}

// LeaderEntry is one row of a stat leaderboard.
type LeaderEntry struct {
	Name       string  `json:"name"`
	Club       string  `json:"club"`
	Value      float64 `json:"value"`
	Percentile float64 `json:"percentile"`
}

// ScatterPoint is one player plotted on two stats.
type ScatterPoint struct {
	Name string  `json:"name"`
	Club string  `json:"club"`
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
}

type AnalysisService struct {
	repo   record.DatasetRepository
	store  *cache.Store
	logger *logging.Logger

	mu      sync.RWMutex
	catalog []role.Archetype
}

func NewAnalysisService(repo record.DatasetRepository, store *cache.Store, logger *logging.Logger) *AnalysisService {
	if logger == nil {
		logger = logging.Default()
	}
	catalog := make([]role.Archetype, len(role.Builtin))
	copy(catalog, role.Builtin)

	return &AnalysisService{
		repo:    repo,
		store:   store,
		logger:  logger,
		catalog: catalog,
	}
}

// Catalog returns the current archetype catalog, built-ins first.
func (s *AnalysisService) Catalog() []role.Archetype {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]role.Archetype, len(s.catalog))
	copy(out, s.catalog)

	return out
}

// RegisterRole adds a custom archetype to the catalog. Names must not
// collide with existing entries.
func (s *AnalysisService) RegisterRole(ctx context.Context, a role.Archetype) error {
	_, span := startUsecaseSpan(ctx, "usecase.AnalysisService.RegisterRole")
	defer span.End()

	if err := a.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.catalog {
		if strings.EqualFold(existing.Name, a.Name) {
			return fmt.Errorf("%w: role %q already exists", ErrInvalidInput, a.Name)
		}
	}
	s.catalog = append(s.catalog, a)

	if s.store != nil {
		s.store.DeletePrefix(ctx, cacheKeyAnalysis)
	}
	s.logger.InfoContext(ctx, "custom role registered", "role", a.Name)

	return nil
}

// Players lists the scope pool ranked by best-role score.
func (s *AnalysisService) Players(ctx context.Context, f Filter) ([]PlayerSummary, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.AnalysisService.Players")
	defer span.End()

	ix, err := s.IndexFor(ctx, f)
	if err != nil {
		return nil, err
	}

	out := make([]PlayerSummary, 0, len(ix.Evals))
	for _, ev := range ix.Evals {
		out = append(out, summaryOf(ev))
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].BestScore > out[j].BestScore })

	return out, nil
}

// Profile builds the full percentile breakdown for one player against the
// scope pool.
func (s *AnalysisService) Profile(ctx context.Context, name string, f Filter) (PlayerProfile, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.AnalysisService.Profile")
	defer span.End()

	name = strings.TrimSpace(name)
	if name == "" {
		return PlayerProfile{}, fmt.Errorf("%w: player name is required", ErrInvalidInput)
	}

	ix, err := s.IndexFor(ctx, f)
	if err != nil {
		return PlayerProfile{}, err
	}

	ev, ok := findEval(ix.Evals, name)
	if !ok {
		// The player may be excluded by the filter; look them up in the
		// full dataset but keep the scope pool as the baseline.
		all, err2 := s.IndexFor(ctx, Filter{})
		if err2 != nil {
			return PlayerProfile{}, err2
		}
		full, ok2 := findEval(all.Evals, name)
		if !ok2 {
			return PlayerProfile{}, fmt.Errorf("%w: player=%s", ErrNotFound, name)
		}
		ev = Evaluation{
			Player: full.Player,
			Tier:   full.Tier,
			Best:   role.BestFor(full.Player, s.Catalog(), ix.Pct),
		}
	}

	catalog := s.Catalog()
	stats := role.AllStats(catalog)
	lines := make([]StatLine, 0, len(stats))
	for _, stat := range stats {
		v := ev.Player.Num(stat)
		if math.IsNaN(v) {
			continue
		}
		lines = append(lines, StatLine{
			Stat:       stat,
			Label:      record.DisplayLabel(stat),
			Value:      v,
			Percentile: ix.Pct.Percentile(stat, v),
			Inverted:   percentile.Inverted(stat),
		})
	}

	return PlayerProfile{
		Summary:    summaryOf(ev),
		Stats:      lines,
		RoleScores: role.EligibleScores(ev.Player, catalog, ix.Pct),
		PoolSize:   len(ix.Pool),
		Fallback:   ix.Fallback,
	}, nil
}

// axis resolves a leaders/scatter dimension. A name matching a catalog role
// ranks by that role's score; anything else must resolve to a stat column.
type axis struct {
	role   *role.Archetype
	column string
}

func (s *AnalysisService) resolveAxis(name string, columns []string) (axis, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return axis{}, fmt.Errorf("%w: axis name is required", ErrInvalidInput)
	}

	for _, a := range s.Catalog() {
		if strings.EqualFold(a.Name, name) {
			picked := a
			return axis{role: &picked}, nil
		}
	}

	column := record.FindColumn(columns, name, record.DisplayLabel(name))
	if column == "" {
		return axis{}, fmt.Errorf("%w: stat=%s", ErrNotFound, name)
	}
	return axis{column: column}, nil
}

func (a axis) value(p record.Player, ix percentile.Index) float64 {
	if a.role != nil {
		if !position.SharesAny(p.Positions, a.role.NormalizedBaseline()) {
			return math.NaN()
		}
		return role.Score(p, *a.role, ix)
	}
	return p.Num(a.column)
}

// Leaders returns the top players for one statistic or role. Lower-is-better
// stats rank ascending.
func (s *AnalysisService) Leaders(ctx context.Context, stat string, f Filter, limit int) ([]LeaderEntry, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.AnalysisService.Leaders")
	defer span.End()

	if limit <= 0 {
		limit = defaultLeaderLimit
	}

	ix, err := s.IndexFor(ctx, f)
	if err != nil {
		return nil, err
	}

	ds, _, err := s.repo.Current(ctx)
	if err != nil {
		return nil, fmt.Errorf("get dataset: %w", err)
	}
	ax, err := s.resolveAxis(stat, ds.Columns)
	if err != nil {
		return nil, err
	}

	entries := make([]LeaderEntry, 0, len(ix.Pool))
	for _, p := range ix.Pool {
		v := ax.value(p, ix.Pct)
		if math.IsNaN(v) {
			continue
		}
		pct := v
		if ax.column != "" {
			pct = ix.Pct.Percentile(ax.column, v)
		}
		entries = append(entries, LeaderEntry{
			Name:       p.Name,
			Club:       p.Club,
			Value:      v,
			Percentile: pct,
		})
	}

	asc := ax.column != "" && percentile.Inverted(ax.column)
	sort.SliceStable(entries, func(i, j int) bool {
		if asc {
			return entries[i].Value < entries[j].Value
		}
		return entries[i].Value > entries[j].Value
	})
	if len(entries) > limit {
		entries = entries[:limit]
	}

	return entries, nil
}

// Scatter plots the scope pool on two axes, each a statistic or a role score,
// skipping players missing either value.
func (s *AnalysisService) Scatter(ctx context.Context, xStat, yStat string, f Filter) ([]ScatterPoint, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.AnalysisService.Scatter")
	defer span.End()

	ix, err := s.IndexFor(ctx, f)
	if err != nil {
		return nil, err
	}

	ds, _, err := s.repo.Current(ctx)
	if err != nil {
		return nil, fmt.Errorf("get dataset: %w", err)
	}
	xAxis, err := s.resolveAxis(xStat, ds.Columns)
	if err != nil {
		return nil, err
	}
	yAxis, err := s.resolveAxis(yStat, ds.Columns)
	if err != nil {
		return nil, err
	}

	points := make([]ScatterPoint, 0, len(ix.Pool))
	for _, p := range ix.Pool {
		x := xAxis.value(p, ix.Pct)
		y := yAxis.value(p, ix.Pct)
		if math.IsNaN(x) || math.IsNaN(y) {
			continue
		}
		points = append(points, ScatterPoint{Name: p.Name, Club: p.Club, X: x, Y: y})
	}

	return points, nil
}

// IndexFor resolves the scope pool for the filter and returns the derived
// index, memoized per dataset hash and filter key.
func (s *AnalysisService) IndexFor(ctx context.Context, f Filter) (*Index, error) {
	ds, ok, err := s.repo.Current(ctx)
	if err != nil {
		return nil, fmt.Errorf("get dataset: %w", err)
	}
	if !ok {
		return nil, ErrNoDataset
	}

	build := func(ctx context.Context) (any, error) {
		return s.buildIndex(ctx, ds, f), nil
	}

	if s.store == nil {
		ix, _ := build(ctx)
		return ix.(*Index), nil
	}

	key := cacheKeyAnalysis + ds.Hash + ":" + f.key()
	v, err := s.store.GetOrLoad(ctx, key, build)
	if err != nil {
		return nil, err
	}

	return v.(*Index), nil
}

func (s *AnalysisService) buildIndex(ctx context.Context, ds record.Dataset, f Filter) *Index {
	catalog := s.Catalog()

	selected := s.applyFilter(ds.Players, f, catalog)
	fallback := false
	if len(selected) <= 1 && !f.isZero() {
		selected = ds.Players
		fallback = true
	}

	stats := role.AllStats(catalog)
	pools := make([]percentile.Pool, len(stats))
	w := pool.New().WithMaxGoroutines(runtime.GOMAXPROCS(0))
	for i, stat := range stats {
		w.Go(func() {
			values := make([]float64, 0, len(selected))
			for _, p := range selected {
				if v := p.Num(stat); !math.IsNaN(v) {
					values = append(values, v)
				}
			}
			pools[i] = percentile.NewPool(values)
		})
	}
	w.Wait()

	pct := make(percentile.Index, len(stats))
	for i, stat := range stats {
		pct[stat] = pools[i]
	}

	evals := make([]Evaluation, len(selected))
	peers := make(map[leaguetier.Tier][]float64)
	for i, p := range selected {
		tier := leaguetier.Classify(p.League)
		best := role.BestFor(p, catalog, pct)
		evals[i] = Evaluation{Player: p, Tier: tier, Best: best}
		peers[tier] = append(peers[tier], best.Score)
	}
	for tier := range peers {
		sort.Sort(sort.Reverse(sort.Float64Slice(peers[tier])))
	}

	s.logger.DebugContext(ctx, "index built",
		"hash", ds.Hash,
		"pool", len(selected),
		"stats", len(stats),
		"fallback", fallback,
	)

	return &Index{
		Hash:       ds.Hash,
		Pool:       selected,
		Pct:        pct,
		Evals:      evals,
		PeerScores: peers,
		Fallback:   fallback,
	}
}

func (s *AnalysisService) applyFilter(players []record.Player, f Filter, catalog []role.Archetype) []record.Player {
	if f.isZero() {
		return players
	}

	var baseline []string
	if f.Role != "" {
		for _, a := range catalog {
			if strings.EqualFold(a.Name, f.Role) {
				baseline = a.NormalizedBaseline()
				break
			}
		}
		if baseline == nil {
			return nil
		}
	}

	var posTokens []string
	if f.Position != "" {
		posTokens = position.Expand(f.Position)
	}
	query := strings.ToLower(strings.TrimSpace(f.Query))

	out := make([]record.Player, 0, len(players))
	for _, p := range players {
		if f.Club != "" && !strings.EqualFold(p.Club, f.Club) {
			continue
		}
		if f.League != "" && !strings.EqualFold(p.League, f.League) {
			continue
		}
		if f.Tier != "" && string(leaguetier.Classify(p.League)) != f.Tier {
			continue
		}
		if len(posTokens) > 0 && !position.SharesAny(p.Positions, posTokens) {
			continue
		}
		if baseline != nil && !position.SharesAny(p.Positions, baseline) {
			continue
		}
		if f.MinMinutes > 0 && !(p.Minutes >= f.MinMinutes) {
			continue
		}
		if f.MaxAge > 0 && !(p.Age <= f.MaxAge) {
			continue
		}
		if query != "" && !strings.Contains(strings.ToLower(p.Name), query) {
			continue
		}
		out = append(out, p)
	}

	return out
}

func summaryOf(ev Evaluation) PlayerSummary {
	return PlayerSummary{
		Name:      ev.Player.Name,
		Club:      ev.Player.Club,
		League:    ev.Player.League,
		Tier:      ev.Tier,
		Position:  ev.Player.Cell("Pos"),
		Family:    ev.Player.Family,
		Age:       orZero(ev.Player.Age),
		Minutes:   orZero(ev.Player.Minutes),
		BestRole:  ev.Best.Role,
		BestScore: ev.Best.Score,
	}
}

func orZero(v float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	return v
}

func findEval(evals []Evaluation, name string) (Evaluation, bool) {
	want := record.NormalizeName(name)
	for _, ev := range evals {
		if record.NormalizeName(ev.Player.Name) == want {
			return ev, true
		}
	}
	return Evaluation{}, false
}
