// Package idgen provides the process-scoped outbound.IDGenerator backed
// by github.com/google/uuid.
package idgen

import "github.com/google/uuid"

// Generator is the default outbound.IDGenerator implementation.
type Generator struct{}

func (Generator) NewUUID() string { return uuid.New().String() }
