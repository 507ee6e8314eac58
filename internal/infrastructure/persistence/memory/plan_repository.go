package memory

import (
	"context"
	"sync"

	"github.com/alchemorsel/mealprep/internal/domain/mealplan"
	"github.com/alchemorsel/mealprep/internal/ports/outbound"
)

// PlanRepository is an in-memory outbound.PlanRepository keyed by user ID,
// used in tests and as the zero-config default.
type PlanRepository struct {
	mu    sync.RWMutex
	items map[string][]mealplan.PlanItem
}

func NewPlanRepository() outbound.PlanRepository {
	return &PlanRepository{items: make(map[string][]mealplan.PlanItem)}
}

func (r *PlanRepository) GetCurrentPlan(ctx context.Context, userID string) (map[mealplan.Weekday][]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	plan := make(map[mealplan.Weekday][]string)
	for _, it := range r.items[userID] {
		plan[it.Slot.Weekday] = append(plan[it.Slot.Weekday], it.Recipe.Title)
	}
	return plan, nil
}

func (r *PlanRepository) SaveItem(ctx context.Context, userID string, item mealplan.PlanItem) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing := r.items[userID]
	for i, it := range existing {
		if it.Slot == item.Slot {
			existing[i] = item
			return nil
		}
	}
	r.items[userID] = append(existing, item)
	return nil
}
