package outbound

import (
	"context"

	"github.com/alchemorsel/mealprep/internal/domain/mealplan"
)

// PlanRepository and FavoritesRepository are thin, interface-only ports.
// spec.md §1 places persistence of plans/favorites out of the core's
// scope ("specified only by interface"); these exist so the HTTP layer
// and chat orchestrator have a concrete dependency to read
// current-plan/favorites state from in a real deployment, without the
// core depending on any particular store.
type PlanRepository interface {
	GetCurrentPlan(ctx context.Context, userID string) (map[mealplan.Weekday][]string, error)
	SaveItem(ctx context.Context, userID string, item mealplan.PlanItem) error
}

type FavoritesRepository interface {
	ListFavorites(ctx context.Context, userID string) ([]mealplan.Recipe, error)
	ListRecent(ctx context.Context, userID string, limit int) ([]mealplan.Recipe, error)
}
