package workflow

import (
	"context"
	"sync"

	"pantrychef/internal/domain"
	"pantrychef/internal/logger"
)

// fakeGateway is a scriptable in-memory service for workflow tests. Each
// operation delegates to its function field when set and counts its calls.
type fakeGateway struct {
	mu    sync.Mutex
	calls map[string]int

	listIngredientsFn    func(ctx context.Context) ([]domain.Ingredient, error)
	userIngredientsFn    func(ctx context.Context) ([]domain.Ingredient, error)
	setUserIngredientsFn func(ctx context.Context, ids []string) error
	suggestFn            func(ctx context.Context) (*domain.SuggestionSet, error)
	instructionsFn       func(ctx context.Context, id string) (*domain.RecipeInstructions, error)
	editFn               func(ctx context.Context, id string, d domain.EditDraft) (*domain.Recipe, error)
}

// Compile-time interface check.
var _ domain.Gateway = (*fakeGateway)(nil)

func newFakeGateway() *fakeGateway {
	return &fakeGateway{calls: make(map[string]int)}
}

func (g *fakeGateway) count(op string) {
	g.mu.Lock()
	g.calls[op]++
	g.mu.Unlock()
}

func (g *fakeGateway) callCount(op string) int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.calls[op]
}

func (g *fakeGateway) Login(ctx context.Context, email, password string) (*domain.AuthResult, error) {
	g.count("login")
	return nil, domain.ErrNotFound
}

func (g *fakeGateway) Register(ctx context.Context, reg domain.Registration) (*domain.AuthResult, error) {
	g.count("register")
	return nil, domain.ErrNotFound
}

func (g *fakeGateway) ListIngredients(ctx context.Context) ([]domain.Ingredient, error) {
	g.count("listIngredients")
	if g.listIngredientsFn == nil {
		return nil, nil
	}
	return g.listIngredientsFn(ctx)
}

func (g *fakeGateway) UserIngredients(ctx context.Context) ([]domain.Ingredient, error) {
	g.count("userIngredients")
	if g.userIngredientsFn == nil {
		return nil, nil
	}
	return g.userIngredientsFn(ctx)
}

func (g *fakeGateway) SetUserIngredients(ctx context.Context, ids []string) error {
	g.count("setUserIngredients")
	if g.setUserIngredientsFn == nil {
		return nil
	}
	return g.setUserIngredientsFn(ctx, ids)
}

func (g *fakeGateway) SuggestRecipes(ctx context.Context) (*domain.SuggestionSet, error) {
	g.count("suggest")
	if g.suggestFn == nil {
		return &domain.SuggestionSet{}, nil
	}
	return g.suggestFn(ctx)
}

func (g *fakeGateway) RecipeInstructions(ctx context.Context, id string) (*domain.RecipeInstructions, error) {
	g.count("instructions")
	if g.instructionsFn == nil {
		return &domain.RecipeInstructions{}, nil
	}
	return g.instructionsFn(ctx, id)
}

func (g *fakeGateway) EditRecipe(ctx context.Context, id string, d domain.EditDraft) (*domain.Recipe, error) {
	g.count("edit")
	if g.editFn == nil {
		return &domain.Recipe{ID: id}, nil
	}
	return g.editFn(ctx, id, d)
}

func testLogger() *logger.Logger {
	return logger.New(logger.LevelOff, nil)
}

func testCatalog() []domain.Ingredient {
	return []domain.Ingredient{
		{ID: "i1", Name: "Tomato", Category: "vegetable"},
		{ID: "i2", Name: "Onion", Category: "vegetable"},
		{ID: "i3", Name: "Rice", Category: "grain"},
		{ID: "i4", Name: "Chicken", Category: "meat"},
	}
}
