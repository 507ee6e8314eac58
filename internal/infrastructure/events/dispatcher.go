// Package events provides the process-local shared.EventDispatcher the
// orchestration components use to surface the domain events defined in
// internal/domain/mealplan/events.go as structured log lines. There is no
// event store and no cross-process bus — every handler runs synchronously
// in the dispatching goroutine (spec.md §1 scopes persistence/messaging
// infrastructure out of the core).
package events

import (
	"go.uber.org/zap"

	"github.com/alchemorsel/mealprep/internal/domain/mealplan"
	"github.com/alchemorsel/mealprep/internal/domain/shared"
)

// LoggingDispatcher implements shared.EventDispatcher by logging every
// dispatched event through zap, with a type-switch over the mealplan
// domain events to attach their distinguishing fields.
type LoggingDispatcher struct {
	logger   *zap.Logger
	handlers map[string][]shared.EventHandler
}

func NewLoggingDispatcher(logger *zap.Logger) *LoggingDispatcher {
	return &LoggingDispatcher{
		logger:   logger.Named("events"),
		handlers: make(map[string][]shared.EventHandler),
	}
}

var _ shared.EventDispatcher = (*LoggingDispatcher)(nil)

// Register adds a handler invoked, in addition to the built-in logging,
// whenever an event with the given name is dispatched.
func (d *LoggingDispatcher) Register(eventName string, handler shared.EventHandler) {
	d.handlers[eventName] = append(d.handlers[eventName], handler)
}

// Dispatch logs event and runs any handlers registered for its name.
// A handler error is logged and does not block the remaining handlers —
// event dispatch never fails the request that raised it.
func (d *LoggingDispatcher) Dispatch(event shared.DomainEvent) error {
	d.logger.Info(event.EventName(), eventFields(event)...)

	for _, handler := range d.handlers[event.EventName()] {
		if err := handler(event); err != nil {
			d.logger.Warn("event handler failed", zap.String("event", event.EventName()), zap.Error(err))
		}
	}
	return nil
}

func eventFields(event shared.DomainEvent) []zap.Field {
	fields := []zap.Field{zap.Time("occurred_at", event.OccurredAt())}

	switch e := event.(type) {
	case mealplan.SlotGeneratedEvent:
		fields = append(fields,
			zap.String("weekday", string(e.Weekday)),
			zap.String("meal_type", string(e.MealType)),
			zap.String("recipe_title", e.RecipeTitle),
			zap.Bool("used_fallback", e.UsedFallback),
		)
	case mealplan.KitAssembledEvent:
		fields = append(fields, zap.String("kit_id", e.KitID), zap.Int("recipe_count", e.RecipeCount))
	case mealplan.ModificationProposedEvent:
		fields = append(fields, zap.String("modification_type", string(e.ModificationType)))
	}

	return fields
}
