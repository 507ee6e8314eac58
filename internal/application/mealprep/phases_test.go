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

func TestPhaseSynthesizer_Synthesize_Success(t *testing.T) {
	backend := &fakeLLM{responses: []string{`{
		"Cook": {"total_minutes": 20, "steps": [{"description": "Sear the chicken in a hot pan.", "recipe_title": "Stir Fry", "recipe_index": 0, "estimated_minutes": 10, "is_parallel": false, "parallel_note": null}]},
		"Assemble": {"total_minutes": 10, "steps": []},
		"Cool": {"total_minutes": 5, "steps": []},
		"Store": {"total_minutes": 5, "steps": []}
	}`}}
	s := NewPhaseSynthesizer(backend, zap.NewNop(), nil)

	recipes := []mealplan.KitRecipeRef{{Recipe: mealplan.Recipe{Title: "Stir Fry", Servings: 4, TotalMinutes: 30}}}
	phases, err := s.Synthesize(context.Background(), recipes, "en")

	require.NoError(t, err)
	require.Len(t, phases, 4)
	assert.Equal(t, mealplan.PhaseCook, phases[0].Title)
	assert.Equal(t, mealplan.PhaseAssemble, phases[1].Title)
	assert.Equal(t, mealplan.PhaseCool, phases[2].Title)
	assert.Equal(t, mealplan.PhaseStore, phases[3].Title)
	require.Len(t, phases[0].Steps, 1)
	assert.NotEmpty(t, phases[0].Steps[0].ID)
	assert.Equal(t, 20, phases[0].TotalMinutes)
}

func TestPhaseSynthesizer_Synthesize_FallsBackOnExhaustedRetries(t *testing.T) {
	backend := &fakeLLM{err: errors.New("transport down")}
	s := NewPhaseSynthesizer(backend, zap.NewNop(), nil)

	phases, err := s.Synthesize(context.Background(), nil, "en")
	require.NoError(t, err)
	require.Len(t, phases, 4)
	for i, title := range mealplan.PhaseTitles {
		assert.Equal(t, title, phases[i].Title)
		assert.Equal(t, 0, phases[i].TotalMinutes)
		assert.Empty(t, phases[i].Steps)
	}
}

func TestPhaseSynthesizer_Synthesize_RetriesOnMissingPhase(t *testing.T) {
	backend := &fakeLLM{responses: []string{
		`{"Cook": {"total_minutes": 10, "steps": []}, "Assemble": null, "Cool": null, "Store": null}`,
		`{
			"Cook": {"total_minutes": 10, "steps": []},
			"Assemble": {"total_minutes": 5, "steps": []},
			"Cool": {"total_minutes": 5, "steps": []},
			"Store": {"total_minutes": 5, "steps": []}
		}`,
	}}
	s := NewPhaseSynthesizer(backend, zap.NewNop(), nil)

	phases, err := s.Synthesize(context.Background(), nil, "en")
	require.NoError(t, err)
	require.Len(t, phases, 4)
	assert.Equal(t, 2, backend.calls)
}

func TestPhaseSynthesizer_Synthesize_ComputesTotalFromStepsWhenAbsent(t *testing.T) {
	backend := &fakeLLM{responses: []string{`{
		"Cook": {"total_minutes": null, "steps": [
			{"description": "Sear", "recipe_title": "A", "recipe_index": 0, "estimated_minutes": 7, "is_parallel": false, "parallel_note": null},
			{"description": "Simmer", "recipe_title": "A", "recipe_index": 0, "estimated_minutes": 8, "is_parallel": false, "parallel_note": null}
		]},
		"Assemble": {"total_minutes": 0, "steps": []},
		"Cool": {"total_minutes": 0, "steps": []},
		"Store": {"total_minutes": 0, "steps": []}
	}`}}
	s := NewPhaseSynthesizer(backend, zap.NewNop(), nil)

	phases, err := s.Synthesize(context.Background(), nil, "en")
	require.NoError(t, err)
	assert.Equal(t, 15, phases[0].TotalMinutes)
}
