// Package domain defines the core types and interfaces for the pantry client.
// All other packages depend on domain; domain depends on nothing.
package domain

// Ingredient is a catalog entry. Reference data — the client never mutates it.
type Ingredient struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Category string `json:"category,omitempty"`
}

// RecipeIngredient is one line of a recipe's ingredient list.
type RecipeIngredient struct {
	Ingredient Ingredient `json:"ingredient"`
	Quantity   string     `json:"quantity"`
	Unit       string     `json:"unit,omitempty"`
}

// Recipe is the full recipe record as the remote service reports it.
// Time fields are zero when the server omits them.
type Recipe struct {
	ID                     string             `json:"id"`
	Title                  string             `json:"title"`
	Description            string             `json:"description,omitempty"`
	Instructions           []string           `json:"instructions,omitempty"`
	PreparationTimeMinutes int                `json:"preparationTimeMinutes,omitempty"`
	CookingTimeMinutes     int                `json:"cookingTimeMinutes,omitempty"`
	TotalTime              int                `json:"totalTime,omitempty"`
	Difficulty             string             `json:"difficulty,omitempty"`
	Ingredients            []RecipeIngredient `json:"ingredients,omitempty"`
}

// MissingIngredient describes an ingredient the user lacks for a suggestion.
type MissingIngredient struct {
	Name     string `json:"name"`
	Quantity string `json:"quantity"`
	Unit     string `json:"unit"`
}

// SuggestedRecipe is one ranked match computed server-side from the user's
// inventory. Read-only; recomputed on every suggestion request.
type SuggestedRecipe struct {
	Recipe                       Recipe              `json:"recipe"`
	MatchPercentage              float64             `json:"matchPercentage"`
	MissingIngredients           []MissingIngredient `json:"missingIngredients"`
	AvailableUserIngredientsUsed []string            `json:"availableUserIngredientsUsed"`
}

// SuggestionSet is the server's full answer to a suggestion request.
// Ordering is the server's ranking; the client never re-sorts it.
type SuggestionSet struct {
	SuggestedRecipes          []SuggestedRecipe `json:"suggestedRecipes"`
	TotalAvailableIngredients int               `json:"totalAvailableIngredients"`
	TotalFoundRecipes         int               `json:"totalFoundRecipes"`
}

// RecipeInstructions is the per-recipe detail payload.
type RecipeInstructions struct {
	Recipe       Recipe   `json:"recipe"`
	TotalTime    int      `json:"totalTime"`
	Instructions []string `json:"instructions"`
}

// EditDraft is a wholesale recipe edit submission. Nil fields are left
// untouched server-side and omitted from the wire payload entirely.
// TotalTime is split into preparation/cooking halves by the gateway before
// submission; it never travels as-is.
type EditDraft struct {
	Title       *string
	Description *string
	Difficulty  *string
	TotalTime   *int
	Steps       []string
}
