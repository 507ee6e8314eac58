package mealprep

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/alchemorsel/mealprep/internal/domain/mealplan"
)

// SlotGenerationTask is one unit of work the Parallel Generator fans out:
// everything needed to produce one slot's (or kit recipe's) recipe,
// precomputed by the Distributor/Scheduler/Prompt Assembler before
// fan-out (spec.md §4.5: "protein guidance is precomputed per slot by
// the Distributor").
type SlotGenerationTask struct {
	Index    int
	Sections PromptSections
	TimeCap  int
	Language string
}

// GenerateParallel fans out one GenerateRecipeWithRetry call per task,
// bounded by maxConcurrency, and returns results indexed by the task's
// original Index so the caller's output preserves input order regardless
// of completion order (spec.md §4.5, §8 "Order preservation"). If ctx is
// cancelled, errgroup.WithContext propagates cancellation to every
// outstanding call (spec.md §5 cooperative cancellation).
func GenerateParallel(ctx context.Context, adapter *LLMAdapter, tasks []SlotGenerationTask, maxConcurrency int) ([]mealplan.Recipe, error) {
	if maxConcurrency <= 0 {
		maxConcurrency = len(tasks)
	}

	results := make([]mealplan.Recipe, len(tasks))
	g, gctx := errgroup.WithContext(ctx)
	sem := make(chan struct{}, maxConcurrency)

	for _, task := range tasks {
		task := task
		g.Go(func() error {
			select {
			case sem <- struct{}{}:
			case <-gctx.Done():
				return gctx.Err()
			}
			defer func() { <-sem }()

			recipe, err := adapter.GenerateRecipeWithRetry(gctx, task.Sections, task.TimeCap, task.Language)
			if err != nil {
				return err
			}
			results[task.Index] = recipe
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
