package catalog

import (
	"context"
	"sort"
	"strings"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/spec-kit/parts-assistant/internal/domain"
)

const (
	DefaultMaxResults = 5
	DefaultMinScore   = 0.4
	// NoMinScore disables the SearchByText relevance threshold.
	NoMinScore        = -1.0
	symptomMinScore   = 0.1
	loadKey           = "catalog"
)

// Match is a part with the score it earned for a query.
type Match struct {
	Part  domain.Part
	Score float64
}

// SearchOptions tunes SearchByText. Zero values select the defaults.
type SearchOptions struct {
	Category   domain.Category
	MaxResults int
	// MinScore of zero means DefaultMinScore; any negative value, such as
	// NoMinScore, keeps every candidate.
	MinScore   float64
	SortBy     domain.SortField
	SortOrder  domain.SortOrder
}

// SymptomOptions tunes SearchBySymptom.
type SymptomOptions struct {
	Category   domain.Category
	MaxResults int
}

// CompatibleOptions tunes FindCompatible. MaxResults <= 0 returns every match.
type CompatibleOptions struct {
	MaxResults int
	SortBy     domain.SortField
	SortOrder  domain.SortOrder
}

// CompatibilityResult is the verdict of CheckCompatibility.
type CompatibilityResult struct {
	Compatible       bool
	Part             *domain.Part
	CompatibleModels []string
}

// Store holds the part catalog in memory. The dataset is loaded on first use and
// shared read-only until Invalidate is called.
type Store struct {
	source Source
	logger *zap.Logger

	group singleflight.Group
	mu    sync.RWMutex
	data  *Dataset
}

// NewStore constructs a lazily loading store.
func NewStore(source Source, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{source: source, logger: logger}
}

func (s *Store) dataset(ctx context.Context) (*Dataset, error) {
	s.mu.RLock()
	ds := s.data
	s.mu.RUnlock()
	if ds != nil {
		return ds, nil
	}

	v, err, _ := s.group.Do(loadKey, func() (any, error) {
		s.mu.RLock()
		current := s.data
		s.mu.RUnlock()
		if current != nil {
			return current, nil
		}

		loaded, err := s.source.Load(ctx)
		if err != nil {
			return nil, err
		}
		if err := validate(loaded); err != nil {
			return nil, err
		}
		for i := range loaded.Parts {
			loaded.Parts[i].SearchText = loaded.Parts[i].BuildSearchText()
		}

		s.mu.Lock()
		s.data = loaded
		s.mu.Unlock()
		s.logger.Info("catalog loaded",
			zap.Int("parts", len(loaded.Parts)),
			zap.Int("models", len(loaded.Models)),
			zap.Int("orders", len(loaded.Orders)))
		return loaded, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*Dataset), nil
}

// Invalidate drops the cached dataset; the next read reloads from the source.
func (s *Store) Invalidate() {
	s.mu.Lock()
	s.data = nil
	s.mu.Unlock()
	s.group.Forget(loadKey)
}

// LoadAll returns the full part list. The slice is shared and must not be modified.
func (s *Store) LoadAll(ctx context.Context) ([]domain.Part, error) {
	ds, err := s.dataset(ctx)
	if err != nil {
		return nil, err
	}
	return ds.Parts, nil
}

// Models returns the appliance model reference data.
func (s *Store) Models(ctx context.Context) ([]domain.ModelInfo, error) {
	ds, err := s.dataset(ctx)
	if err != nil {
		return nil, err
	}
	return ds.Models, nil
}

// FindModel looks a model up by exact, case-insensitive number.
func (s *Store) FindModel(ctx context.Context, modelNumber string) (domain.ModelInfo, bool, error) {
	models, err := s.Models(ctx)
	if err != nil {
		return domain.ModelInfo{}, false, err
	}
	for _, m := range models {
		if strings.EqualFold(m.ModelNumber, modelNumber) {
			return m, true, nil
		}
	}
	return domain.ModelInfo{}, false, nil
}

// Orders returns the seed orders.
func (s *Store) Orders(ctx context.Context) ([]domain.Order, error) {
	ds, err := s.dataset(ctx)
	if err != nil {
		return nil, err
	}
	return ds.Orders, nil
}

// FindOrder looks an order up by exact, case-insensitive number.
func (s *Store) FindOrder(ctx context.Context, orderNumber string) (domain.Order, bool, error) {
	orders, err := s.Orders(ctx)
	if err != nil {
		return domain.Order{}, false, err
	}
	for _, o := range orders {
		if strings.EqualFold(o.OrderNumber, strings.TrimSpace(orderNumber)) {
			return o, true, nil
		}
	}
	return domain.Order{}, false, nil
}

// FindByPartNumber performs a case-insensitive exact lookup.
func (s *Store) FindByPartNumber(ctx context.Context, partNumber string) (domain.Part, bool, error) {
	parts, err := s.LoadAll(ctx)
	if err != nil {
		return domain.Part{}, false, err
	}
	needle := strings.TrimSpace(partNumber)
	for _, p := range parts {
		if strings.EqualFold(p.PartNumber, needle) {
			return p, true, nil
		}
	}
	return domain.Part{}, false, nil
}

// SampleByCategory returns the first n parts of a category, or of the whole catalog
// when category is empty.
func (s *Store) SampleByCategory(ctx context.Context, category domain.Category, n int) ([]domain.Part, error) {
	parts, err := s.LoadAll(ctx)
	if err != nil {
		return nil, err
	}
	var out []domain.Part
	for _, p := range parts {
		if category != "" && p.Category != category {
			continue
		}
		out = append(out, p)
		if len(out) == n {
			break
		}
	}
	return out, nil
}

// SearchByText scores every candidate with the term-overlap heuristic.
func (s *Store) SearchByText(ctx context.Context, query string, opts SearchOptions) ([]Match, error) {
	parts, err := s.LoadAll(ctx)
	if err != nil {
		return nil, err
	}
	if opts.MaxResults <= 0 {
		opts.MaxResults = DefaultMaxResults
	}
	if opts.MinScore == 0 {
		opts.MinScore = DefaultMinScore
	}
	if opts.SortBy == "" {
		opts.SortBy = domain.SortRelevance
	}
	if opts.SortOrder == "" {
		opts.SortOrder = domain.SortDesc
	}

	tokens := tokenize(query)
	if len(tokens) == 0 {
		return nil, nil
	}

	var matches []Match
	for _, p := range parts {
		if opts.Category != "" && p.Category != opts.Category {
			continue
		}
		score := overlapScore(tokens, p.SearchText, strings.ToLower(p.Name))
		if score >= opts.MinScore {
			matches = append(matches, Match{Part: p, Score: score})
		}
	}
	sortMatches(matches, opts.SortBy, opts.SortOrder)
	return truncate(matches, opts.MaxResults), nil
}

// SearchBySymptom ranks parts that declare symptoms against a free-text complaint.
func (s *Store) SearchBySymptom(ctx context.Context, symptom string, opts SymptomOptions) ([]Match, error) {
	parts, err := s.LoadAll(ctx)
	if err != nil {
		return nil, err
	}
	if opts.MaxResults <= 0 {
		opts.MaxResults = DefaultMaxResults
	}
	needle := strings.ToLower(strings.TrimSpace(symptom))
	if needle == "" {
		return nil, nil
	}
	tokens := tokenize(needle)

	var matches []Match
	for _, p := range parts {
		if len(p.Symptoms) == 0 {
			continue
		}
		if opts.Category != "" && p.Category != opts.Category {
			continue
		}
		hits := 0
		for _, sym := range p.Symptoms {
			lower := strings.ToLower(sym)
			if strings.Contains(lower, needle) || strings.Contains(needle, lower) {
				hits++
			}
		}
		var score float64
		if hits > 0 {
			score = 1 + 0.2*float64(hits)
		} else {
			score = overlapScore(tokens, p.SearchText, "")
		}
		if score > symptomMinScore {
			matches = append(matches, Match{Part: p, Score: score})
		}
	}
	sortMatches(matches, domain.SortRelevance, domain.SortDesc)
	return truncate(matches, opts.MaxResults), nil
}

// FindCompatible returns parts listing a model that contains modelNumber.
func (s *Store) FindCompatible(ctx context.Context, modelNumber string, opts CompatibleOptions) ([]domain.Part, error) {
	parts, err := s.LoadAll(ctx)
	if err != nil {
		return nil, err
	}
	needle := strings.ToLower(strings.TrimSpace(modelNumber))
	if needle == "" {
		return nil, nil
	}
	if opts.SortBy == "" {
		opts.SortBy = domain.SortRating
	}
	if opts.SortOrder == "" {
		opts.SortOrder = domain.SortDesc
	}

	var matches []Match
	for _, p := range parts {
		for _, m := range p.CompatibleModels {
			if strings.Contains(strings.ToLower(m), needle) {
				matches = append(matches, Match{Part: p})
				break
			}
		}
	}
	sortMatches(matches, opts.SortBy, opts.SortOrder)
	if opts.MaxResults > 0 {
		matches = truncate(matches, opts.MaxResults)
	}
	return Parts(matches), nil
}

// CheckCompatibility tests bidirectional containment between modelNumber and each
// model the part lists.
func (s *Store) CheckCompatibility(ctx context.Context, partNumber, modelNumber string) (CompatibilityResult, error) {
	part, ok, err := s.FindByPartNumber(ctx, partNumber)
	if err != nil {
		return CompatibilityResult{}, err
	}
	if !ok {
		return CompatibilityResult{CompatibleModels: []string{}}, nil
	}
	query := strings.ToLower(strings.TrimSpace(modelNumber))
	compatible := false
	if query != "" {
		for _, m := range part.CompatibleModels {
			lower := strings.ToLower(m)
			if strings.Contains(lower, query) || strings.Contains(query, lower) {
				compatible = true
				break
			}
		}
	}
	return CompatibilityResult{
		Compatible:       compatible,
		Part:             &part,
		CompatibleModels: part.CompatibleModels,
	}, nil
}

// Parts strips scores from a match list.
func Parts(matches []Match) []domain.Part {
	if len(matches) == 0 {
		return nil
	}
	out := make([]domain.Part, len(matches))
	for i, m := range matches {
		out[i] = m.Part
	}
	return out
}

func truncate(matches []Match, n int) []Match {
	if n > 0 && len(matches) > n {
		return matches[:n]
	}
	return matches
}

func sortMatches(matches []Match, by domain.SortField, order domain.SortOrder) {
	asc := order == domain.SortAsc
	var key func(m Match) float64
	switch by {
	case domain.SortPrice:
		key = func(m Match) float64 { return m.Part.Price }
	case domain.SortRating:
		key = func(m Match) float64 { return m.Part.Rating }
	case domain.SortReviews:
		key = func(m Match) float64 { return float64(m.Part.ReviewCount) }
	default:
		key = func(m Match) float64 { return m.Score }
	}
	sort.SliceStable(matches, func(i, j int) bool {
		if asc {
			return key(matches[i]) < key(matches[j])
		}
		return key(matches[i]) > key(matches[j])
	})
}
