package recipes

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/d-okonkwo/fridgewise/internal/config"
	"github.com/d-okonkwo/fridgewise/internal/inventory"
)

// Service is the recommendation pipeline exposed to the presentation layer:
// classify the inventory, ask the remote model for candidates, then select a
// bounded covering subset.
type Service struct {
	store      inventory.Store
	client     *Client
	logger     *zap.Logger
	windowDays int
	minCount   int
	maxCount   int

	// now is swapped out in tests.
	now func() time.Time
}

// NewService creates a recommendation service.
func NewService(store inventory.Store, client *Client, cfg *config.Config, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		store:      store,
		client:     client,
		logger:     logger,
		windowDays: cfg.ExpiryWindowDays,
		minCount:   cfg.SelectMinRecipes,
		maxCount:   cfg.SelectMaxRecipes,
		now:        time.Now,
	}
}

// GenerateSmartRecipes fetches candidates for the given ingredient lists and
// returns the covering selection. With no expiring ingredients there is
// nothing to prioritize, so no request is made and the result is empty.
// On failure it returns exactly one taxonomy error.
func (s *Service) GenerateSmartRecipes(ctx context.Context, expiring, available []string) ([]*Candidate, error) {
	if len(expiring) == 0 {
		s.logger.Debug("no expiring ingredients, skipping recommendation")
		return nil, nil
	}

	candidates, err := s.client.FetchCandidates(ctx, available, expiring)
	if err != nil {
		return nil, err
	}

	selected := SelectCovering(candidates, expiring, s.minCount, s.maxCount)
	s.logger.Info("selected recipes",
		zap.Int("candidates", len(candidates)),
		zap.Int("selected", len(selected)),
		zap.Int("expiring_ingredients", len(expiring)))
	return selected, nil
}

// SuggestFromInventory runs the full pipeline against the current inventory
// snapshot: expired items are left out of the ingredient pool, expiring-soon
// items become the priority set.
func (s *Service) SuggestFromInventory(ctx context.Context) ([]*Candidate, error) {
	items, err := s.store.ListItems(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load inventory: %w", err)
	}

	classified := inventory.Classify(items, s.now(), s.windowDays)
	expiring := ingredientNames(classified.ExpiringSoon)
	available := ingredientNames(append(classified.ExpiringSoon, classified.Fresh...))

	s.logger.Debug("classified inventory",
		zap.Int("expired", len(classified.Expired)),
		zap.Int("expiring_soon", len(classified.ExpiringSoon)),
		zap.Int("fresh", len(classified.Fresh)))

	return s.GenerateSmartRecipes(ctx, expiring, available)
}

// ingredientNames lower-cases, dedupes, and sorts item names so the request
// payload is deterministic for a given snapshot.
func ingredientNames(items []*inventory.Item) []string {
	seen := make(map[string]bool, len(items))
	names := make([]string, 0, len(items))
	for _, item := range items {
		name := strings.ToLower(strings.TrimSpace(item.Name))
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
