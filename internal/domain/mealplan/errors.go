package mealplan

import "errors"

// Domain errors for meal-plan entity validation.

var (
	// Ingredient
	ErrIngredientNameRequired = errors.New("ingredient name is required")
	ErrIngredientQuantityNeg  = errors.New("ingredient quantity cannot be negative")

	// Recipe
	ErrRecipeTitleRequired  = errors.New("recipe title is required")
	ErrRecipeServingsNotPos = errors.New("recipe servings must be greater than zero")
	ErrRecipeMinutesNotPos  = errors.New("recipe total_minutes must be greater than zero")
	ErrRecipeTooFewSteps    = errors.New("recipe must have at least five steps")
	ErrRecipeOverTimeCap    = errors.New("recipe total_minutes exceeds the caller-supplied cap")
	ErrRecipeShelfLifeRange = errors.New("shelf_life_days must be between 1 and 7")

	// Slot
	ErrInvalidWeekday = errors.New("unrecognized weekday")
	ErrInvalidMeal    = errors.New("unrecognized meal type")

	// KitRecipeRef
	ErrShelfLifeBelowFloor = errors.New("shelf_life_days is below the target day's required floor")

	// Protein Distributor
	ErrProteinPoolTooSmall = errors.New("protein candidate pool is too small after extension with defaults")

	// Prep Grouper / Phase Synthesizer
	ErrPhaseMissingKey  = errors.New("phase synthesis response is missing a required phase key")
	ErrPhaseStepInvalid = errors.New("phase step is missing a required field")

	// Chat
	ErrPendingModificationExpired = errors.New("pending modification no longer matches the resolving turn")
)
