// Package workflow implements the client's three data workflows: ingredient
// selection, recipe suggestions, and recipe detail/edit. Each workflow owns
// its view state and talks to the service only through the domain.Gateway
// port, so all of them are testable against fakes.
package workflow

import (
	"context"
	"fmt"
	"sync"

	"pantrychef/internal/domain"
	"pantrychef/internal/logger"
)

// Pantry is the ingredient selection workflow: the full catalog, the
// server-confirmed current selection, and the locally pending toggle set.
// Safe for concurrent use.
type Pantry struct {
	gw  domain.Gateway
	log *logger.Logger

	mu       sync.RWMutex
	catalog  []domain.Ingredient
	current  []domain.Ingredient
	selected map[string]bool
	loaded   bool
}

// NewPantry creates the workflow with an empty selection.
func NewPantry(gw domain.Gateway, log *logger.Logger) *Pantry {
	return &Pantry{
		gw:       gw,
		log:      log,
		selected: make(map[string]bool),
	}
}

// Load fetches the catalog and the user's current selection concurrently
// and seeds the pending set from the server's answer. Either fetch failing
// fails the whole load and leaves previously loaded data untouched.
// Retryable by calling Load again.
func (p *Pantry) Load(ctx context.Context) error {
	catCh := make(chan ingredientsResult, 1)
	selCh := make(chan ingredientsResult, 1)

	go func() {
		v, err := p.gw.ListIngredients(ctx)
		catCh <- ingredientsResult{v, err}
	}()
	go func() {
		v, err := p.gw.UserIngredients(ctx)
		selCh <- ingredientsResult{v, err}
	}()

	cat := <-catCh
	sel := <-selCh

	if cat.err != nil {
		return fmt.Errorf("loading ingredient catalog: %w", cat.err)
	}
	if sel.err != nil {
		return fmt.Errorf("loading current selection: %w", sel.err)
	}

	selected := make(map[string]bool, len(sel.v))
	for _, ing := range sel.v {
		selected[ing.ID] = true
	}

	p.mu.Lock()
	p.catalog = cat.v
	p.current = sel.v
	p.selected = selected
	p.loaded = true
	p.mu.Unlock()

	p.log.Debug("pantry: loaded %d catalog, %d selected", len(cat.v), len(sel.v))
	return nil
}

// Toggle flips membership of one ingredient in the pending selection.
// Purely local; no network call.
func (p *Pantry) Toggle(ingredientID string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.selected[ingredientID] {
		delete(p.selected, ingredientID)
	} else {
		p.selected[ingredientID] = true
	}
}

// Save replaces the server-side selection with the full pending set. On
// success the displayed current selection becomes the selected ingredients
// filtered from the catalog; on failure the pending set is preserved.
func (p *Pantry) Save(ctx context.Context) error {
	ids := p.SelectedIDs()

	if err := p.gw.SetUserIngredients(ctx, ids); err != nil {
		return fmt.Errorf("saving ingredient selection: %w", err)
	}

	p.mu.Lock()
	current := make([]domain.Ingredient, 0, len(ids))
	for _, ing := range p.catalog {
		if p.selected[ing.ID] {
			current = append(current, ing)
		}
	}
	p.current = current
	p.mu.Unlock()

	p.log.Info("pantry: saved %d ingredients", len(ids))
	return nil
}

// Reset drops all loaded data and the pending selection. Called when the
// session ends so the next user never sees this one's data.
func (p *Pantry) Reset() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.catalog = nil
	p.current = nil
	p.selected = make(map[string]bool)
	p.loaded = false
}

// Loaded reports whether an initial load has succeeded.
func (p *Pantry) Loaded() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.loaded
}

// Catalog returns the full ingredient catalog in server order.
func (p *Pantry) Catalog() []domain.Ingredient {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return append([]domain.Ingredient(nil), p.catalog...)
}

// Current returns the server-confirmed selection as last loaded or saved.
func (p *Pantry) Current() []domain.Ingredient {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return append([]domain.Ingredient(nil), p.current...)
}

// IsSelected reports pending membership of one ingredient.
func (p *Pantry) IsSelected(ingredientID string) bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.selected[ingredientID]
}

// SelectedIDs returns the pending set in catalog order. IDs toggled on that
// are not in the catalog (possible only if the server's selection mentions
// an ingredient the catalog omits) are appended after it.
func (p *Pantry) SelectedIDs() []string {
	p.mu.RLock()
	defer p.mu.RUnlock()

	ids := make([]string, 0, len(p.selected))
	seen := make(map[string]bool, len(p.selected))
	for _, ing := range p.catalog {
		if p.selected[ing.ID] {
			ids = append(ids, ing.ID)
			seen[ing.ID] = true
		}
	}
	for id := range p.selected {
		if !seen[id] {
			ids = append(ids, id)
		}
	}
	return ids
}

// SelectedCount returns the size of the pending set.
func (p *Pantry) SelectedCount() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return len(p.selected)
}

type ingredientsResult struct {
	v   []domain.Ingredient
	err error
}
