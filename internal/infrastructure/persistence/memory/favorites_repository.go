package memory

import (
	"context"
	"sync"

	"github.com/alchemorsel/mealprep/internal/domain/mealplan"
	"github.com/alchemorsel/mealprep/internal/ports/outbound"
)

// FavoritesRepository is an in-memory outbound.FavoritesRepository keyed
// by user ID, used in tests and as the zero-config default.
type FavoritesRepository struct {
	mu        sync.RWMutex
	favorites map[string][]mealplan.Recipe
	recent    map[string][]mealplan.Recipe
}

func NewFavoritesRepository() outbound.FavoritesRepository {
	return &FavoritesRepository{
		favorites: make(map[string][]mealplan.Recipe),
		recent:    make(map[string][]mealplan.Recipe),
	}
}

func (r *FavoritesRepository) ListFavorites(ctx context.Context, userID string) ([]mealplan.Recipe, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]mealplan.Recipe(nil), r.favorites[userID]...), nil
}

func (r *FavoritesRepository) ListRecent(ctx context.Context, userID string, limit int) ([]mealplan.Recipe, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	recent := r.recent[userID]
	if limit > 0 && len(recent) > limit {
		recent = recent[len(recent)-limit:]
	}
	return append([]mealplan.Recipe(nil), recent...), nil
}

// AddFavorite and AddRecent are test/seed helpers — the core never
// mutates favorites/recent directly (spec.md §1 scopes persistence out
// of the orchestration engine).
func (r *FavoritesRepository) AddFavorite(userID string, recipe mealplan.Recipe) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.favorites[userID] = append(r.favorites[userID], recipe)
}

func (r *FavoritesRepository) AddRecent(userID string, recipe mealplan.Recipe) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.recent[userID] = append(r.recent[userID], recipe)
}
