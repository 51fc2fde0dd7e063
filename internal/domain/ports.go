package domain

import "context"

// Gateway is the typed surface of the remote recipe service. The production
// implementation wraps HTTP; tests substitute fakes.
type Gateway interface {
	Login(ctx context.Context, email, password string) (*AuthResult, error)
	Register(ctx context.Context, reg Registration) (*AuthResult, error)
	ListIngredients(ctx context.Context) ([]Ingredient, error)
	UserIngredients(ctx context.Context) ([]Ingredient, error)
	SetUserIngredients(ctx context.Context, ingredientIDs []string) error
	SuggestRecipes(ctx context.Context) (*SuggestionSet, error)
	RecipeInstructions(ctx context.Context, recipeID string) (*RecipeInstructions, error)
	EditRecipe(ctx context.Context, recipeID string, draft EditDraft) (*Recipe, error)
}

// CredentialStore persists the session credentials across restarts.
// Implementations must write and clear token and user atomically — the pair
// is never allowed to be half-present.
type CredentialStore interface {
	Save(ctx context.Context, token string, user *User) error
	Load(ctx context.Context) (token string, user *User, err error)
	Clear(ctx context.Context) error
}

// CredentialSource supplies the current bearer token to the gateway and is
// told when the service rejects it. The session store implements this; the
// gateway calls Invalidate on any credential-rejected response so the global
// forced-logout happens no matter which workflow issued the request.
type CredentialSource interface {
	Token() string
	Invalidate()
}
