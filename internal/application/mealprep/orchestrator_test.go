package mealprep

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/alchemorsel/mealprep/internal/domain/mealplan"
	"github.com/alchemorsel/mealprep/internal/ports/inbound"
	"github.com/alchemorsel/mealprep/pkg/metrics"
)

// recordingLLM is a concurrency-safe outbound.LLMService test double that
// records every user prompt it receives and replies with a recipe whose
// title encodes the call index, so tests can distinguish per-slot prompts
// from a parallel fan-out without relying on call order.
type recordingLLM struct {
	mu      sync.Mutex
	prompts []string
}

func (r *recordingLLM) ChatCompletion(ctx context.Context, system, user string, temperature float64, maxTokens int) (string, error) {
	r.mu.Lock()
	idx := len(r.prompts)
	r.prompts = append(r.prompts, user)
	r.mu.Unlock()

	return fmt.Sprintf(`{
		"title": "Recipe %d",
		"servings": 4,
		"total_minutes": 20,
		"ingredients": [{"name": "chicken", "quantity": 1, "unit": "unit", "category": "meats"}],
		"steps": ["dice onion", "season", "cook", "plate", "serve"],
		"equipment": [],
		"tags": []
	}`, idx), nil
}

func (r *recordingLLM) ChatCompletionWithImage(ctx context.Context, system, user, imageBase64 string, temperature float64, maxTokens int) (string, error) {
	return r.ChatCompletion(ctx, system, user, temperature, maxTokens)
}

func (r *recordingLLM) HealthCheck(ctx context.Context) error { return nil }

func (r *recordingLLM) promptFor(title string) (string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, p := range r.prompts {
		if fmt.Sprintf("Recipe %d", i) == title {
			return p, true
		}
	}
	return "", false
}

// fixedClock is a minimal outbound.Clock test double, avoiding a
// dependency on the infrastructure layer's SystemClock just to satisfy
// the port in tests.
type fixedClock struct{}

func (fixedClock) Now() time.Time { return time.Time{} }

func newTestOrchestrator(backend *recordingLLM) *Orchestrator {
	logger := zap.NewNop()
	var reg *metrics.Registry
	llmAdapter := NewLLMAdapter(backend, logger, reg)
	phases := NewPhaseSynthesizer(backend, logger, reg)
	concepts := NewConceptGenerator(backend, &fakeIDGenerator{}, logger, reg)
	return NewOrchestrator(llmAdapter, phases, concepts, nil, nil, fixedClock{}, &fakeIDGenerator{}, logger, reg, nil)
}

func TestGeneratePlan_PreservesSlotOrder(t *testing.T) {
	backend := &recordingLLM{}
	o := newTestOrchestrator(backend)

	slots := []mealplan.Slot{
		{Weekday: mealplan.Monday, MealType: mealplan.Lunch},
		{Weekday: mealplan.Monday, MealType: mealplan.Dinner},
		{Weekday: mealplan.Tuesday, MealType: mealplan.Dinner},
	}

	resp, err := o.GeneratePlan(context.Background(), inbound.PlanRequest{
		Slots:       slots,
		Constraints: mealplan.Constraints{PreferredProteins: []string{"chicken", "beef"}},
		Language:    "en",
	})

	require.NoError(t, err)
	require.Len(t, resp.Items, len(slots))
	for i, slot := range slots {
		assert.Equal(t, slot, resp.Items[i].Slot)
	}
}

func TestGeneratePlan_AllergenBlockIsFirstForEverySlot(t *testing.T) {
	backend := &recordingLLM{}
	o := newTestOrchestrator(backend)

	slots := []mealplan.Slot{
		{Weekday: mealplan.Monday, MealType: mealplan.Lunch},
		{Weekday: mealplan.Monday, MealType: mealplan.Dinner},
	}

	resp, err := o.GeneratePlan(context.Background(), inbound.PlanRequest{
		Slots:       slots,
		Constraints: mealplan.Constraints{PreferredProteins: []string{"chicken", "beef"}, Evict: []string{"peanuts"}},
		Language:    "en",
	})
	require.NoError(t, err)

	for _, item := range resp.Items {
		prompt, ok := backend.promptFor(item.Recipe.Title)
		require.True(t, ok, "expected to find the recorded prompt for %q", item.Recipe.Title)
		assert.Contains(t, prompt, "peanuts")

		allergenIdx := indexOf(prompt, "NON-NEGOTIABLE PROHIBITION")
		proteinIdx := indexOf(prompt, "ONLY USE THESE PROTEINS")
		require.NotEqual(t, -1, allergenIdx, "allergen block must be present")
		require.NotEqual(t, -1, proteinIdx, "protein override block must be present")
		assert.Less(t, allergenIdx, proteinIdx, "allergen block must precede the protein guidance block")
	}
}

// fakePlanRepo is a hand-rolled outbound.PlanRepository test double that
// records every SaveItem call.
type fakePlanRepo struct {
	mu    sync.Mutex
	saved map[string][]mealplan.PlanItem
}

func (f *fakePlanRepo) GetCurrentPlan(ctx context.Context, userID string) (map[mealplan.Weekday][]string, error) {
	return nil, nil
}

func (f *fakePlanRepo) SaveItem(ctx context.Context, userID string, item mealplan.PlanItem) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.saved == nil {
		f.saved = make(map[string][]mealplan.PlanItem)
	}
	f.saved[userID] = append(f.saved[userID], item)
	return nil
}

func TestGeneratePlan_PersistsItemsWhenUserIDSupplied(t *testing.T) {
	backend := &recordingLLM{}
	logger := zap.NewNop()
	var reg *metrics.Registry
	repo := &fakePlanRepo{}
	llmAdapter := NewLLMAdapter(backend, logger, reg)
	phases := NewPhaseSynthesizer(backend, logger, reg)
	concepts := NewConceptGenerator(backend, &fakeIDGenerator{}, logger, reg)
	o := NewOrchestrator(llmAdapter, phases, concepts, nil, repo, fixedClock{}, &fakeIDGenerator{}, logger, reg, nil)

	slots := []mealplan.Slot{{Weekday: mealplan.Monday, MealType: mealplan.Dinner}}
	resp, err := o.GeneratePlan(context.Background(), inbound.PlanRequest{
		UserID:      "user-1",
		Slots:       slots,
		Constraints: mealplan.Constraints{PreferredProteins: []string{"chicken", "beef"}},
		Language:    "en",
	})
	require.NoError(t, err)

	require.Len(t, repo.saved["user-1"], 1)
	assert.Equal(t, resp.Items[0].Recipe.Title, repo.saved["user-1"][0].Recipe.Title)
}

func TestGeneratePlan_DoesNotPersistWithoutUserID(t *testing.T) {
	backend := &recordingLLM{}
	logger := zap.NewNop()
	var reg *metrics.Registry
	repo := &fakePlanRepo{}
	llmAdapter := NewLLMAdapter(backend, logger, reg)
	phases := NewPhaseSynthesizer(backend, logger, reg)
	concepts := NewConceptGenerator(backend, &fakeIDGenerator{}, logger, reg)
	o := NewOrchestrator(llmAdapter, phases, concepts, nil, repo, fixedClock{}, &fakeIDGenerator{}, logger, reg, nil)

	slots := []mealplan.Slot{{Weekday: mealplan.Monday, MealType: mealplan.Dinner}}
	_, err := o.GeneratePlan(context.Background(), inbound.PlanRequest{
		Slots:       slots,
		Constraints: mealplan.Constraints{PreferredProteins: []string{"chicken", "beef"}},
		Language:    "en",
	})
	require.NoError(t, err)
	assert.Empty(t, repo.saved)
}

func indexOf(haystack, needle string) int {
	for i := 0; i+len(needle) <= len(haystack); i++ {
		if haystack[i:i+len(needle)] == needle {
			return i
		}
	}
	return -1
}
