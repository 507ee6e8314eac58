package outbound

import "time"

// Clock abstracts wall-clock time so the orchestrator's timestamped
// outputs (MealPrepKit.CreatedAt) stay deterministic under test (spec.md
// §6 "internal interfaces the core consumes: Clock.Now()").
type Clock interface {
	Now() time.Time
}

// SystemClock is the process-scoped Clock used outside tests.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }

// IDGenerator abstracts ID minting (spec.md §6 "IDGenerator.NewUUID()").
// The Phase Synthesizer calls github.com/google/uuid directly for its
// per-step IDs (spec.md §4.9 only requires freshness, not an injectable
// source); this port exists for the orchestrator-level IDs — MealPrepKit.ID
// — where tests want a predictable value.
type IDGenerator interface {
	NewUUID() string
}
