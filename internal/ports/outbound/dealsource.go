package outbound

import (
	"context"

	"github.com/alchemorsel/mealprep/internal/domain/mealplan"
)

// DealSource wraps a store-locator and returns a normalized set of
// on-sale item names for a (store, postal code) pair. It is a pure
// function of its inputs and may return an empty set on failure — the
// core never treats a Deal Source failure as fatal (spec.md §4.11).
type DealSource interface {
	// GetWeeklyDeals returns the current deal set for the given store and
	// postal code, already expanded through the bilingual synonym table.
	GetWeeklyDeals(ctx context.Context, store, postalCode string) ([]mealplan.DealItem, error)
}
