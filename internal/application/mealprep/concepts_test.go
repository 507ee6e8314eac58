package mealprep

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/alchemorsel/mealprep/internal/domain/mealplan"
)

func TestConceptGenerator_Generate_Success(t *testing.T) {
	backend := &fakeLLM{responses: []string{`[
		{"name": "A", "description": "desc a", "cuisine": "italian", "tags": ["x"]},
		{"name": "B", "description": "desc b", "cuisine": null, "tags": []},
		{"name": "C", "description": "desc c", "cuisine": null, "tags": ["y", "z"]}
	]`}}
	g := NewConceptGenerator(backend, &fakeIDGenerator{}, zap.NewNop(), nil)

	concepts := g.Generate(context.Background(), mealplan.Constraints{}, "en")
	require.Len(t, concepts, 3)
	assert.Equal(t, "A", concepts[0].Name)
	assert.Equal(t, "italian", *concepts[0].Cuisine)
	assert.NotEmpty(t, concepts[0].ID)
}

func TestConceptGenerator_Generate_FallsBackOnTransportError(t *testing.T) {
	backend := &fakeLLM{err: errors.New("down")}
	g := NewConceptGenerator(backend, &fakeIDGenerator{}, zap.NewNop(), nil)

	concepts := g.Generate(context.Background(), mealplan.Constraints{}, "en")
	require.Len(t, concepts, 3)
	assert.Equal(t, "Mediterranean", concepts[0].Name)
}

func TestConceptGenerator_Generate_FallsBackOnWrongArrayLength(t *testing.T) {
	backend := &fakeLLM{responses: []string{`[{"name": "Only One", "description": "d", "cuisine": null, "tags": []}]`}}
	g := NewConceptGenerator(backend, &fakeIDGenerator{}, zap.NewNop(), nil)

	concepts := g.Generate(context.Background(), mealplan.Constraints{}, "en")
	require.Len(t, concepts, 3)
	assert.Equal(t, "Mediterranean", concepts[0].Name)
}

func TestConceptGenerator_Generate_FrenchFallback(t *testing.T) {
	backend := &fakeLLM{err: errors.New("down")}
	g := NewConceptGenerator(backend, &fakeIDGenerator{}, zap.NewNop(), nil)

	concepts := g.Generate(context.Background(), mealplan.Constraints{}, "fr")
	require.Len(t, concepts, 3)
	assert.Equal(t, "Méditerranéen", concepts[0].Name)
}
