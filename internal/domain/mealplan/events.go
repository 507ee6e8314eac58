package mealplan

import (
	"time"

	"github.com/alchemorsel/mealprep/internal/domain/shared"
)

// Domain events raised by the orchestration engine. These are request-
// scoped notifications (for structured logging / metrics hooks), not an
// event-sourced history — the engine holds no persistent event store.

// SlotGeneratedEvent is raised once a slot's recipe generation completes
// (successfully or via fallback).
type SlotGeneratedEvent struct {
	Weekday     Weekday
	MealType    MealType
	RecipeTitle string
	UsedFallback bool
	OccurredAtTime time.Time
}

func (e SlotGeneratedEvent) EventName() string { return "mealplan.slot.generated" }
func (e SlotGeneratedEvent) OccurredAt() time.Time { return e.OccurredAtTime }

// KitAssembledEvent is raised once a meal-prep kit's phase synthesis
// completes.
type KitAssembledEvent struct {
	KitID          string
	RecipeCount    int
	OccurredAtTime time.Time
}

func (e KitAssembledEvent) EventName() string { return "mealplan.kit.assembled" }
func (e KitAssembledEvent) OccurredAt() time.Time { return e.OccurredAtTime }

// ModificationProposedEvent is raised when the chat router produces a
// pending_* payload (add-meal or modify-recipe).
type ModificationProposedEvent struct {
	ModificationType ModificationType
	OccurredAtTime   time.Time
}

func (e ModificationProposedEvent) EventName() string { return "mealplan.modification.proposed" }
func (e ModificationProposedEvent) OccurredAt() time.Time { return e.OccurredAtTime }

var (
	_ shared.DomainEvent = SlotGeneratedEvent{}
	_ shared.DomainEvent = KitAssembledEvent{}
	_ shared.DomainEvent = ModificationProposedEvent{}
)
