package mealprep

import (
	"math/rand"

	"github.com/alchemorsel/mealprep/internal/domain/mealplan"
	"github.com/alchemorsel/mealprep/pkg/metrics"
)

// defaultProteinsPlan and defaultProteinsKit mirror the reference
// implementation's default pools (original_source/mock-server/main.py:
// distribute_proteins_for_plan / distribute_proteins_for_meal_prep). The
// kit pool additionally carries "tuna".
var defaultProteinsPlan = []string{"chicken", "beef", "pork", "fish", "salmon", "shrimp", "tofu", "turkey", "lamb"}
var defaultProteinsKit = []string{"chicken", "beef", "pork", "fish", "salmon", "shrimp", "tofu", "turkey", "lamb", "tuna"}

var breakfastProteinPool = []string{"eggs", "turkey", "salmon", "tofu", "yogurt"}
var breakfastOnlyProteins = map[string]bool{"eggs": true, "yogurt": true, "bacon": true}

// ProteinDistributor implements spec.md §4.3. Each call owns its own
// *rand.Rand (seeded per call, not a package-level global) so concurrent
// requests never share mutable shuffle state — unlike the Python
// original's bare random.shuffle against the process-global RNG.
type ProteinDistributor struct {
	rng     *rand.Rand
	metrics *metrics.Registry
}

// NewProteinDistributor builds a distributor seeded from seed. Callers
// typically derive seed from a per-request diversity_seed or a
// time-based source; tests pass a fixed seed for determinism.
func NewProteinDistributor(seed int64, reg *metrics.Registry) *ProteinDistributor {
	return &ProteinDistributor{rng: rand.New(rand.NewSource(seed)), metrics: reg}
}

// DistributeForPlan assigns one protein per slot (plan mode, spec.md
// §4.3). Breakfast slots draw from a fixed lighter pool, excluding the
// last two assigned proteins when possible; lunch/dinner slots cycle
// through a shuffled candidate pool, skipping forward once on an
// immediate repeat.
func (d *ProteinDistributor) DistributeForPlan(slots []mealplan.Slot, prefs mealplan.Preferences) []string {
	pool := prefs.PreferredProteins
	if len(pool) == 0 {
		pool = defaultProteinsPlan
	}
	if len(pool) < 3 {
		pool = unionDedup(pool, defaultProteinsPlan[:5])
	}

	shuffled := shuffleCopy(d.rng, pool)

	suggested := make([]string, 0, len(slots))
	for i, slot := range slots {
		if slot.MealType == mealplan.Breakfast {
			available := excludeLast(breakfastProteinPool, suggested, 2)
			if len(available) == 0 {
				available = breakfastProteinPool
			}
			suggested = append(suggested, available[d.rng.Intn(len(available))])
			continue
		}

		cycleIdx := i % len(shuffled)
		protein := shuffled[cycleIdx]
		if len(suggested) > 0 && protein == suggested[len(suggested)-1] {
			cycleIdx = (cycleIdx + 1) % len(shuffled)
			protein = shuffled[cycleIdx]
		}
		suggested = append(suggested, protein)
	}

	return suggested
}

// DistributeForKit assigns one protein per recipe (kit mode, spec.md
// §4.3): lunch/dinner only, unique_count >= max(2, n-1), max_count <= 2,
// with last-slot repetition as the only legal postcondition violation.
func (d *ProteinDistributor) DistributeForKit(numRecipes int, prefs mealplan.Preferences) []string {
	var pool []string
	if len(prefs.PreferredProteins) > 0 {
		pool = filterOut(prefs.PreferredProteins, breakfastOnlyProteins)
	} else {
		pool = defaultProteinsKit
	}
	if len(pool) < 3 {
		pool = unionDedup(pool, defaultProteinsKit[:7])
	}

	minUnique := numRecipes - 1
	if minUnique < 2 {
		minUnique = 2
	}
	if len(pool) < minUnique {
		pool = unionDedup(pool, defaultProteinsKit)
	}

	shuffled := shuffleCopy(d.rng, pool)

	suggested := make([]string, 0, numRecipes)
	counts := make(map[string]int, len(shuffled))
	poolIndex := 0
	maxAttempts := len(shuffled) * 2

	for i := 0; i < numRecipes; i++ {
		placed := false
		for attempts := 0; attempts < maxAttempts; attempts++ {
			candidate := shuffled[poolIndex%len(shuffled)]
			poolIndex++

			current := counts[candidate]
			if current >= 2 {
				continue
			}
			if len(suggested) == 0 || suggested[len(suggested)-1] != candidate {
				suggested = append(suggested, candidate)
				counts[candidate] = current + 1
				placed = true
				break
			}
			if i == numRecipes-1 {
				// Legal last-slot repetition (spec.md §4.3, §4.11).
				suggested = append(suggested, candidate)
				counts[candidate] = current + 1
				placed = true
				if d.metrics != nil {
					d.metrics.ProteinRepeatTotal.Inc()
				}
				break
			}
		}
		if !placed {
			fallback := shuffled[i%len(shuffled)]
			suggested = append(suggested, fallback)
			counts[fallback]++
		}
	}

	return suggested
}

func shuffleCopy(rng *rand.Rand, in []string) []string {
	out := make([]string, len(in))
	copy(out, in)
	rng.Shuffle(len(out), func(i, j int) { out[i], out[j] = out[j], out[i] })
	return out
}

func unionDedup(a, b []string) []string {
	seen := make(map[string]bool, len(a)+len(b))
	out := make([]string, 0, len(a)+len(b))
	for _, s := range append(append([]string{}, a...), b...) {
		if !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	return out
}

func filterOut(in []string, exclude map[string]bool) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if !exclude[s] {
			out = append(out, s)
		}
	}
	return out
}

func excludeLast(pool []string, used []string, n int) []string {
	tail := used
	if len(tail) > n {
		tail = tail[len(tail)-n:]
	}
	recent := make(map[string]bool, len(tail))
	for _, p := range tail {
		recent[p] = true
	}
	out := make([]string, 0, len(pool))
	for _, p := range pool {
		if !recent[p] {
			out = append(out, p)
		}
	}
	return out
}
