package workflow

import (
	"context"
	"fmt"
	"sync"

	"pantrychef/internal/domain"
	"pantrychef/internal/logger"
)

// Mode is the detail workflow's view state.
type Mode int

const (
	// ModeViewing shows the recipe read-only.
	ModeViewing Mode = iota
	// ModeEditing holds an active draft.
	ModeEditing
)

// Detail is the recipe detail/edit workflow for one suggested recipe. It is
// created per navigation from the suggestion list, so the suggestion
// payload itself never needs refetching. Safe for concurrent use.
type Detail struct {
	gw  domain.Gateway
	log *logger.Logger

	mu           sync.RWMutex
	suggested    domain.SuggestedRecipe
	instructions *domain.RecipeInstructions
	mode         Mode
	draft        *Draft
}

// NewDetail creates the workflow around an already-fetched suggestion.
func NewDetail(gw domain.Gateway, log *logger.Logger, suggested domain.SuggestedRecipe) *Detail {
	return &Detail{gw: gw, log: log, suggested: suggested}
}

// LoadInstructions fetches the full instructions for this recipe. Failure
// leaves any previously loaded instructions in place and is not fatal to
// the view.
func (d *Detail) LoadInstructions(ctx context.Context) error {
	ins, err := d.gw.RecipeInstructions(ctx, d.suggested.Recipe.ID)
	if err != nil {
		return fmt.Errorf("loading instructions: %w", err)
	}

	d.mu.Lock()
	d.instructions = ins
	d.mu.Unlock()
	return nil
}

// BeginEdit transitions Viewing → Editing, seeding the draft from the
// recipe's metadata and the loaded instruction lines. A second call while
// already editing keeps the existing draft.
func (d *Detail) BeginEdit() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.mode == ModeEditing {
		return
	}

	var steps []string
	if d.instructions != nil {
		steps = d.instructions.Instructions
	}
	d.draft = newDraft(d.suggested.Recipe, steps)
	d.mode = ModeEditing
}

// CancelEdit discards the draft and returns to Viewing. No network call;
// the displayed recipe and instructions are exactly as before the edit.
func (d *Detail) CancelEdit() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.draft = nil
	d.mode = ModeViewing
}

// SaveEdit submits the full draft as a wholesale replacement. On service
// failure the workflow stays in Editing with the draft preserved. On
// success the draft is discarded, the mode returns to Viewing, and the
// instructions are reloaded — the server's view is authoritative, the
// draft is never promoted to displayed state. A reload failure after a
// successful save is returned, with the view already back in Viewing.
func (d *Detail) SaveEdit(ctx context.Context) error {
	d.mu.RLock()
	mode := d.mode
	recipeID := d.suggested.Recipe.ID
	d.mu.RUnlock()
	draft := d.DraftCopy()

	if mode != ModeEditing || draft == nil {
		return domain.ErrNotEditing
	}

	updated, err := d.gw.EditRecipe(ctx, recipeID, draft.toEdit())
	if err != nil {
		return fmt.Errorf("saving recipe edit: %w", err)
	}

	d.mu.Lock()
	d.draft = nil
	d.mode = ModeViewing
	// Keep the suggestion's recipe metadata in step with the edit so the
	// header shows the new title without a suggestions reload.
	d.suggested.Recipe = *updated
	d.mu.Unlock()

	d.log.Info("recipe %s edited", recipeID)
	return d.LoadInstructions(ctx)
}

// ── Draft mutation (pure local edits) ────────────────────────────

// SetTitle updates the draft title.
func (d *Detail) SetTitle(title string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.draft != nil {
		d.draft.Title = title
	}
}

// SetDescription updates the draft description.
func (d *Detail) SetDescription(desc string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.draft != nil {
		d.draft.Description = desc
	}
}

// SetDifficulty updates the draft difficulty.
func (d *Detail) SetDifficulty(diff string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.draft != nil {
		d.draft.Difficulty = diff
	}
}

// SetTotalTime sets the combined total-time field. nil means "not edited";
// the gateway then omits both minute fields from the submission.
func (d *Detail) SetTotalTime(minutes *int) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.draft != nil {
		d.draft.TotalTime = minutes
	}
}

// SetStep replaces one step's text.
func (d *Detail) SetStep(index int, text string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.draft == nil {
		return domain.ErrNotEditing
	}
	if index < 0 || index >= len(d.draft.Steps) {
		return domain.ErrBadStepIndex
	}
	d.draft.Steps[index] = text
	return nil
}

// AddStep appends an empty step to the draft.
func (d *Detail) AddStep() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.draft != nil {
		d.draft.Steps = append(d.draft.Steps, "")
	}
}

// RemoveStep deletes the step at index.
func (d *Detail) RemoveStep(index int) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.draft == nil {
		return domain.ErrNotEditing
	}
	if index < 0 || index >= len(d.draft.Steps) {
		return domain.ErrBadStepIndex
	}
	d.draft.Steps = append(d.draft.Steps[:index], d.draft.Steps[index+1:]...)
	return nil
}

// ── Accessors ────────────────────────────────────────────────────

// Mode returns the current view state.
func (d *Detail) Mode() Mode {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.mode
}

// Suggested returns the suggestion this view was opened with, including
// any metadata updates from a successful edit.
func (d *Detail) Suggested() domain.SuggestedRecipe {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.suggested
}

// Instructions returns the loaded instructions, or nil before the first
// successful load.
func (d *Detail) Instructions() *domain.RecipeInstructions {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.instructions
}

// DraftCopy returns a snapshot of the active draft, or nil when viewing.
func (d *Detail) DraftCopy() *Draft {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.draft == nil {
		return nil
	}
	cp := *d.draft
	cp.Steps = append([]string(nil), d.draft.Steps...)
	if d.draft.TotalTime != nil {
		t := *d.draft.TotalTime
		cp.TotalTime = &t
	}
	return &cp
}
