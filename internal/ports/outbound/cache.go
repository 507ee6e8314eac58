package outbound

import (
	"context"
	"time"
)

// CacheRepository is a generic byte-value TTL cache, used as the Deal
// Source's best-effort in-process cache (spec.md §5: "a best-effort
// in-process cache of deal sets by (store, postal-code) is allowed and,
// if present, must be safe for concurrent read and single-writer
// refresh") and optionally as the LLM-response cache.
//
// Grounded on the teacher's outbound.CacheRepository; trimmed to the
// subset this service exercises (no pub/sub set operations — the teacher's
// SAdd/SMembers/SRem are a recipe-tagging concern this domain has no use
// for).
type CacheRepository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
}
