package workflow

import (
	"context"
	"fmt"
	"sync"

	"pantrychef/internal/domain"
	"pantrychef/internal/logger"
)

// Suggestions is the recipe suggestion workflow. It holds the last ranked
// suggestion set and the user's available ingredients as of that request.
// Safe for concurrent use.
type Suggestions struct {
	gw  domain.Gateway
	log *logger.Logger

	mu              sync.RWMutex
	set             *domain.SuggestionSet
	userIngredients []domain.Ingredient
	loaded          bool
}

// NewSuggestions creates the workflow with no data loaded.
func NewSuggestions(gw domain.Gateway, log *logger.Logger) *Suggestions {
	return &Suggestions{gw: gw, log: log}
}

// Load requests ranked suggestions and the user's current ingredient set
// concurrently and replaces any prior list wholesale. Either fetch failing
// fails the whole load — and the prior list stays discarded, so the view
// clears rather than showing stale results.
func (s *Suggestions) Load(ctx context.Context) error {
	// Discard before dispatch: a failed refresh must not leave old data up.
	s.mu.Lock()
	s.set = nil
	s.userIngredients = nil
	s.loaded = false
	s.mu.Unlock()

	setCh := make(chan suggestResult, 1)
	ingCh := make(chan ingredientsResult, 1)

	go func() {
		v, err := s.gw.SuggestRecipes(ctx)
		setCh <- suggestResult{v, err}
	}()
	go func() {
		v, err := s.gw.UserIngredients(ctx)
		ingCh <- ingredientsResult{v, err}
	}()

	set := <-setCh
	ing := <-ingCh

	if set.err != nil {
		return fmt.Errorf("loading suggestions: %w", set.err)
	}
	if ing.err != nil {
		return fmt.Errorf("loading user ingredients: %w", ing.err)
	}

	s.mu.Lock()
	s.set = set.v
	s.userIngredients = ing.v
	s.loaded = true
	s.mu.Unlock()

	s.log.Debug("suggestions: %d recipes for %d ingredients",
		len(set.v.SuggestedRecipes), len(ing.v))
	return nil
}

// Refresh re-runs Load. Manual, user-triggered re-ranking.
func (s *Suggestions) Refresh(ctx context.Context) error {
	return s.Load(ctx)
}

// Select returns the already-fetched suggestion for the given recipe id.
// Pure lookup, no network call; ok is false when the id is not in the
// current list.
func (s *Suggestions) Select(recipeID string) (domain.SuggestedRecipe, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.set == nil {
		return domain.SuggestedRecipe{}, false
	}
	for _, sr := range s.set.SuggestedRecipes {
		if sr.Recipe.ID == recipeID {
			return sr, true
		}
	}
	return domain.SuggestedRecipe{}, false
}

// Reset drops all loaded data. Called when the session ends so the next
// user never sees this one's suggestions.
func (s *Suggestions) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.set = nil
	s.userIngredients = nil
	s.loaded = false
}

// Loaded reports whether suggestion data is currently held.
func (s *Suggestions) Loaded() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loaded
}

// Set returns the current suggestion set in server order, or nil.
func (s *Suggestions) Set() *domain.SuggestionSet {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.set == nil {
		return nil
	}
	cp := *s.set
	cp.SuggestedRecipes = append([]domain.SuggestedRecipe(nil), s.set.SuggestedRecipes...)
	return &cp
}

// UserIngredients returns the user's available ingredients as of the last
// successful load.
func (s *Suggestions) UserIngredients() []domain.Ingredient {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]domain.Ingredient(nil), s.userIngredients...)
}

type suggestResult struct {
	v   *domain.SuggestionSet
	err error
}
