package workflow

import (
	"context"
	"errors"
	"testing"

	"pantrychef/internal/domain"
)

func testInstructions() *domain.RecipeInstructions {
	return &domain.RecipeInstructions{
		Recipe:       domain.Recipe{ID: "r1", Title: "Tomato Rice"},
		TotalTime:    30,
		Instructions: []string{"Chop tomatoes", "Cook rice", "Combine"},
	}
}

func setupDetail(t *testing.T) (*Detail, *fakeGateway) {
	t.Helper()
	gw := newFakeGateway()
	gw.instructionsFn = func(ctx context.Context, id string) (*domain.RecipeInstructions, error) {
		return testInstructions(), nil
	}
	sr := domain.SuggestedRecipe{
		Recipe: domain.Recipe{
			ID:          "r1",
			Title:       "Tomato Rice",
			Description: "Weeknight staple",
			Difficulty:  "easy",
		},
		MatchPercentage: 92.5,
	}
	return NewDetail(gw, testLogger(), sr), gw
}

func TestLoadInstructions(t *testing.T) {
	ctx := context.Background()
	d, gw := setupDetail(t)

	if d.Instructions() != nil {
		t.Fatal("expected no instructions before load")
	}
	if err := d.LoadInstructions(ctx); err != nil {
		t.Fatalf("load: %v", err)
	}
	ins := d.Instructions()
	if ins == nil || len(ins.Instructions) != 3 {
		t.Fatalf("unexpected instructions: %+v", ins)
	}
	if gw.callCount("instructions") != 1 {
		t.Fatalf("expected 1 fetch, got %d", gw.callCount("instructions"))
	}
}

func TestLoadInstructionsFailureKeepsPrior(t *testing.T) {
	ctx := context.Background()
	d, gw := setupDetail(t)

	if err := d.LoadInstructions(ctx); err != nil {
		t.Fatalf("first load: %v", err)
	}

	gw.instructionsFn = func(ctx context.Context, id string) (*domain.RecipeInstructions, error) {
		return nil, errors.New("boom")
	}
	if err := d.LoadInstructions(ctx); err == nil {
		t.Fatal("expected load failure")
	}
	// The steps from the first load remain on screen.
	if ins := d.Instructions(); ins == nil || len(ins.Instructions) != 3 {
		t.Fatalf("prior instructions must survive a failed reload, got %+v", ins)
	}
}

func TestBeginEditSeedsDraft(t *testing.T) {
	ctx := context.Background()
	d, _ := setupDetail(t)
	if err := d.LoadInstructions(ctx); err != nil {
		t.Fatalf("load: %v", err)
	}

	if d.Mode() != ModeViewing || d.DraftCopy() != nil {
		t.Fatal("expected Viewing with no draft initially")
	}

	d.BeginEdit()
	if d.Mode() != ModeEditing {
		t.Fatal("expected Editing after BeginEdit")
	}
	draft := d.DraftCopy()
	if draft == nil {
		t.Fatal("expected a seeded draft")
	}
	if draft.Title != "Tomato Rice" || draft.Description != "Weeknight staple" || draft.Difficulty != "easy" {
		t.Fatalf("draft not seeded from recipe: %+v", draft)
	}
	if draft.TotalTime != nil {
		t.Fatal("total time starts unedited")
	}
	if len(draft.Steps) != 3 || draft.Steps[0] != "Chop tomatoes" {
		t.Fatalf("draft steps not seeded from instructions: %v", draft.Steps)
	}

	// Re-entering edit mode must not reset in-progress work.
	d.SetTitle("Better Tomato Rice")
	d.BeginEdit()
	if got := d.DraftCopy().Title; got != "Better Tomato Rice" {
		t.Fatalf("second BeginEdit reset the draft: %q", got)
	}
}

func TestCancelEditDiscardsDraftOnly(t *testing.T) {
	ctx := context.Background()
	d, _ := setupDetail(t)
	if err := d.LoadInstructions(ctx); err != nil {
		t.Fatalf("load: %v", err)
	}

	d.BeginEdit()
	d.SetTitle("Scrapped Title")
	d.SetDescription("Scrapped")
	d.AddStep()
	d.CancelEdit()

	if d.Mode() != ModeViewing || d.DraftCopy() != nil {
		t.Fatal("expected Viewing with no draft after cancel")
	}
	if d.Suggested().Recipe.Title != "Tomato Rice" {
		t.Fatal("cancel must not touch the displayed recipe")
	}
	if ins := d.Instructions(); len(ins.Instructions) != 3 {
		t.Fatalf("cancel must not touch the instructions, got %v", ins.Instructions)
	}
}

func TestDraftStepEdits(t *testing.T) {
	ctx := context.Background()
	d, _ := setupDetail(t)
	if err := d.LoadInstructions(ctx); err != nil {
		t.Fatalf("load: %v", err)
	}
	d.BeginEdit()

	if err := d.SetStep(1, "Cook rice until fluffy"); err != nil {
		t.Fatalf("set step: %v", err)
	}
	d.AddStep()
	if err := d.SetStep(3, "Serve hot"); err != nil {
		t.Fatalf("set appended step: %v", err)
	}
	if err := d.RemoveStep(0); err != nil {
		t.Fatalf("remove step: %v", err)
	}

	got := d.DraftCopy().Steps
	want := []string{"Cook rice until fluffy", "Combine", "Serve hot"}
	if len(got) != len(want) {
		t.Fatalf("steps = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("steps = %v, want %v", got, want)
		}
	}

	if err := d.SetStep(7, "x"); !errors.Is(err, domain.ErrBadStepIndex) {
		t.Fatalf("out-of-range SetStep: %v", err)
	}
	if err := d.RemoveStep(-1); !errors.Is(err, domain.ErrBadStepIndex) {
		t.Fatalf("negative RemoveStep: %v", err)
	}

	// Step edits never leak into the displayed instructions.
	if ins := d.Instructions(); ins.Instructions[0] != "Chop tomatoes" {
		t.Fatalf("instructions mutated by draft edits: %v", ins.Instructions)
	}
}

func TestSaveEditSubmitsWholesaleDraft(t *testing.T) {
	ctx := context.Background()
	d, gw := setupDetail(t)
	if err := d.LoadInstructions(ctx); err != nil {
		t.Fatalf("load: %v", err)
	}

	var gotID string
	var gotDraft domain.EditDraft
	gw.editFn = func(ctx context.Context, id string, ed domain.EditDraft) (*domain.Recipe, error) {
		gotID = id
		gotDraft = ed
		return &domain.Recipe{ID: "r1", Title: *ed.Title, Description: *ed.Description}, nil
	}
	gw.instructionsFn = func(ctx context.Context, id string) (*domain.RecipeInstructions, error) {
		return &domain.RecipeInstructions{
			Recipe:       domain.Recipe{ID: "r1", Title: "Better Tomato Rice"},
			Instructions: []string{"New step"},
		}, nil
	}

	d.BeginEdit()
	d.SetTitle("Better Tomato Rice")
	minutes := 45
	d.SetTotalTime(&minutes)

	if err := d.SaveEdit(ctx); err != nil {
		t.Fatalf("save: %v", err)
	}

	if gotID != "r1" {
		t.Fatalf("edited recipe id = %q", gotID)
	}
	if *gotDraft.Title != "Better Tomato Rice" || *gotDraft.TotalTime != 45 {
		t.Fatalf("unexpected submission: %+v", gotDraft)
	}
	if len(gotDraft.Steps) != 3 {
		t.Fatalf("expected all 3 steps submitted, got %v", gotDraft.Steps)
	}

	if d.Mode() != ModeViewing || d.DraftCopy() != nil {
		t.Fatal("expected Viewing with draft discarded after save")
	}
	// The server's answer is authoritative, not the draft.
	if d.Suggested().Recipe.Title != "Better Tomato Rice" {
		t.Fatalf("displayed recipe not updated: %+v", d.Suggested().Recipe)
	}
	if ins := d.Instructions(); len(ins.Instructions) != 1 || ins.Instructions[0] != "New step" {
		t.Fatalf("instructions not reloaded after save: %+v", ins)
	}
}

func TestSaveEditFailureStaysEditing(t *testing.T) {
	ctx := context.Background()
	d, gw := setupDetail(t)
	if err := d.LoadInstructions(ctx); err != nil {
		t.Fatalf("load: %v", err)
	}

	gw.editFn = func(ctx context.Context, id string, ed domain.EditDraft) (*domain.Recipe, error) {
		return nil, errors.New("boom")
	}

	d.BeginEdit()
	d.SetTitle("Unsaved Title")

	if err := d.SaveEdit(ctx); err == nil {
		t.Fatal("expected save failure")
	}
	if d.Mode() != ModeEditing {
		t.Fatal("failed save must stay in Editing")
	}
	if got := d.DraftCopy().Title; got != "Unsaved Title" {
		t.Fatalf("draft lost on failed save: %q", got)
	}
	if d.Suggested().Recipe.Title != "Tomato Rice" {
		t.Fatal("displayed recipe must be untouched by a failed save")
	}
}

func TestSaveEditRequiresEditing(t *testing.T) {
	ctx := context.Background()
	d, gw := setupDetail(t)

	if err := d.SaveEdit(ctx); !errors.Is(err, domain.ErrNotEditing) {
		t.Fatalf("SaveEdit outside Editing: %v", err)
	}
	if gw.callCount("edit") != 0 {
		t.Fatal("no submission may happen outside Editing")
	}
}
