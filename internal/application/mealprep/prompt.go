package mealprep

import (
	"fmt"
	"strings"

	"github.com/alchemorsel/mealprep/internal/domain/mealplan"
)

// proteinPortionTable gives fixed per-protein gram ranges per person
// (spec.md §4.2 section 6).
var proteinPortionTable = map[string]string{
	"chicken": "120-180g",
	"beef":    "120-170g",
	"pork":    "120-170g",
	"fish":    "140-180g",
	"salmon":  "140-180g",
	"shrimp":  "100-150g",
	"tofu":    "150-200g",
	"turkey":  "120-180g",
	"lamb":    "120-170g",
	"tuna":    "100-150g",
	"eggs":    "2-3 eggs",
	"yogurt":  "150-250g",
}

// PromptSections is the assembled Prompt Assembler output: the system
// prompt is fixed framing, the user prompt carries the 13 ordered
// sections from spec.md §4.2.
type PromptSections struct {
	System string
	User   string
}

// PromptRequest bundles every input the Prompt Assembler reads. It is
// pure over this struct — identical PromptRequest values always produce
// an identical PromptSections (spec.md §4.2 contract).
type PromptRequest struct {
	Language             string
	MealType             mealplan.MealType
	Units                mealplan.UnitSystem
	Servings             int
	Constraints          mealplan.Constraints
	Preferences          mealplan.Preferences
	ComplexityBand       mealplan.ComplexityBand
	MinShelfLifeRequired int
	ConceptTheme         string
	SuggestedProtein     string
	ForbiddenProteins    []string
}

// AssemblePrompt builds the system/user prompt pair for a single
// recipe-generation call, in the fixed 13-section order spec.md §4.2
// requires. The allergen block (section 1) is textually first whenever
// Constraints.Evict is non-empty.
func AssemblePrompt(req PromptRequest) PromptSections {
	var b strings.Builder

	writeAllergenBlock(&b, req.Constraints.Evict)
	writeDietaryRegime(&b, req.Constraints.Diet)
	writeComplexityInstructions(&b, req.ComplexityBand)
	writePreferenceFragment(&b, req.Constraints, req.Preferences)
	writePreferredProteinOverride(&b, req.Constraints, req.Preferences)
	writeProteinPortionsTable(&b, req.SuggestedProtein)
	writeStorageInstructions(&b, req.MinShelfLifeRequired)
	writeConceptTheme(&b, req.ConceptTheme)
	writeDiversityBlock(&b, req.SuggestedProtein, req.ForbiddenProteins)
	writePrepStepDirective(&b)
	writeTemperatureDirective(&b)
	writeStructuredOutputSchema(&b)
	writeUnitsAndCategories(&b, req.Units)

	return PromptSections{
		System: recipeSystemPrompt(req.Language),
		User:   b.String(),
	}
}

func recipeSystemPrompt(lang string) string {
	if lang == "fr" {
		return "Vous êtes un chef cuisinier qui génère des recettes structurées. Répondez UNIQUEMENT avec un objet JSON valide respectant le schéma fourni."
	}
	return "You are a culinary assistant that generates structured recipes. Respond with ONLY a valid JSON object matching the provided schema."
}

// 1. Absolute allergen block — highest priority, always first when evict
// is non-empty (spec.md §8 "Allergen exclusion").
func writeAllergenBlock(b *strings.Builder, evict []string) {
	if len(evict) == 0 {
		return
	}
	b.WriteString("NON-NEGOTIABLE PROHIBITION: this recipe must NEVER contain, in any form or close substitute, the following: ")
	b.WriteString(strings.Join(evict, ", "))
	b.WriteString(". Do not suggest similar ingredients as substitutes for any of the above.\n\n")
}

// 2. Dietary regime list.
func writeDietaryRegime(b *strings.Builder, diet []string) {
	if len(diet) == 0 {
		return
	}
	b.WriteString("Dietary regime: ")
	b.WriteString(strings.Join(diet, ", "))
	b.WriteString(".\n\n")
}

// 3. Complexity-band instructions with technique set and minimum
// ingredient floor (simple >= 5, medium 6-7, complex 8-10).
func writeComplexityInstructions(b *strings.Builder, band mealplan.ComplexityBand) {
	switch band {
	case mealplan.ComplexityComplex:
		b.WriteString("Complexity: complex. Use advanced techniques (braising, reduction, layered sauces). Use at least 8 and at most 10 ingredients.\n\n")
	case mealplan.ComplexityMedium:
		b.WriteString("Complexity: medium. Use standard techniques (roasting, sauteing, simmering). Use 6 to 7 ingredients.\n\n")
	default:
		b.WriteString("Complexity: simple. Use quick techniques (grilling, one-pan, sheet-pan). Use at least 5 ingredients.\n\n")
	}
}

// 4. Preference fragment: prefer the pre-built string verbatim; else
// synthesize from Preferences in a fixed order.
func writePreferenceFragment(b *strings.Builder, c mealplan.Constraints, p mealplan.Preferences) {
	if c.PreferencesString != "" {
		b.WriteString(c.PreferencesString)
		b.WriteString("\n\n")
		return
	}

	var frag strings.Builder
	if p.WeekdayMaxMinutes != nil || p.WeekendMaxMinutes != nil || p.MaxMinutes != nil {
		frag.WriteString("Time budget: ")
		if p.MaxMinutes != nil {
			fmt.Fprintf(&frag, "%d minutes overall. ", *p.MaxMinutes)
		}
		if p.WeekdayMaxMinutes != nil {
			fmt.Fprintf(&frag, "%d minutes on weekdays. ", *p.WeekdayMaxMinutes)
		}
		if p.WeekendMaxMinutes != nil {
			fmt.Fprintf(&frag, "%d minutes on weekends. ", *p.WeekendMaxMinutes)
		}
		frag.WriteString("\n")
	}
	if p.SpiceLevel != nil {
		fmt.Fprintf(&frag, "Spice level: %s.\n", *p.SpiceLevel)
	}
	if len(p.PreferredProteins) > 0 {
		fmt.Fprintf(&frag, "Preferred proteins: %s.\n", strings.Join(p.PreferredProteins, ", "))
	}
	if len(p.AvailableAppliances) > 0 {
		fmt.Fprintf(&frag, "Available appliances: %s.\n", strings.Join(p.AvailableAppliances, ", "))
	}
	if p.KidFriendly != nil && *p.KidFriendly {
		frag.WriteString("Must be kid-friendly.\n")
	}
	if frag.Len() > 0 {
		b.WriteString(frag.String())
		b.WriteString("\n")
	}
}

// 5. Preferred-protein override: hard directive if preferences didn't
// already surface it.
func writePreferredProteinOverride(b *strings.Builder, c mealplan.Constraints, p mealplan.Preferences) {
	if len(c.PreferredProteins) == 0 {
		return
	}
	if len(p.PreferredProteins) > 0 {
		return
	}
	b.WriteString("ONLY USE THESE PROTEINS: ")
	b.WriteString(strings.Join(c.PreferredProteins, ", "))
	b.WriteString(".\n\n")
}

// 6. Protein portions table (fixed per-protein gram ranges per person).
func writeProteinPortionsTable(b *strings.Builder, suggestedProtein string) {
	if suggestedProtein == "" {
		return
	}
	portion, ok := proteinPortionTable[strings.ToLower(suggestedProtein)]
	if !ok {
		return
	}
	fmt.Fprintf(b, "Protein portion guidance: %s per person of %s.\n\n", portion, suggestedProtein)
}

// 7. Storage instructions when min_shelf_life_required >= 4.
func writeStorageInstructions(b *strings.Builder, minShelfLifeRequired int) {
	if minShelfLifeRequired < 4 {
		return
	}
	b.WriteString("Storage requirement: this recipe must keep well for multiple days. ")
	b.WriteString("Prefer soups, stews, and casseroles. Avoid raw salads and fresh fish.\n\n")
}

// 8. Concept-theme block when a concept is provided.
func writeConceptTheme(b *strings.Builder, theme string) {
	if theme == "" {
		return
	}
	fmt.Fprintf(b, "Concept theme: %s.\n\n", theme)
}

// 9. Diversity block: suggested protein, forbidden-protein list, and a
// varietal directive.
func writeDiversityBlock(b *strings.Builder, suggested string, forbidden []string) {
	if suggested == "" && len(forbidden) == 0 {
		return
	}
	if suggested != "" {
		fmt.Fprintf(b, "Suggested protein for this dish: %s.\n", suggested)
	}
	if len(forbidden) > 0 {
		fmt.Fprintf(b, "Do not use these proteins, already used elsewhere in this plan: %s.\n", strings.Join(forbidden, ", "))
	}
	b.WriteString("Vary cooking format from other dishes in this plan (avoid repeating the same technique).\n\n")
}

// 10. Preparation-step directive.
func writePrepStepDirective(b *strings.Builder) {
	b.WriteString("The recipe must begin with explicit preparation steps that name cuts and quantities (e.g. \"dice 1 onion\").\n\n")
}

// 11. Temperature-format directive.
func writeTemperatureDirective(b *strings.Builder) {
	b.WriteString("Every temperature must be rendered as \"X°C (Y°F)\".\n\n")
}

// 12. Structured-output schema: a literal JSON skeleton.
func writeStructuredOutputSchema(b *strings.Builder) {
	b.WriteString("CRITICAL: respond with ONLY a valid JSON object in exactly this shape, no surrounding prose:\n")
	b.WriteString(`{
  "title": "string",
  "servings": 4,
  "total_minutes": 30,
  "ingredients": [{"name": "string", "quantity": 1.0, "unit": "string", "category": "string"}],
  "steps": ["string", "string", "string", "string", "string"],
  "equipment": ["string"],
  "tags": ["string"]
}`)
	b.WriteString("\n\n")
}

// 13. Unit-system and category enumeration.
func writeUnitsAndCategories(b *strings.Builder, units mealplan.UnitSystem) {
	fmt.Fprintf(b, "Unit system: %s. Ingredient categories: vegetables, fruits, meats, fish, dairy, dry goods, condiments, canned goods.\n", units)
}
