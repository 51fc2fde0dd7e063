package workflow

import "pantrychef/internal/domain"

// Draft is the transient edit buffer for one recipe. It is seeded from the
// displayed recipe when editing begins, mutated freely, and either
// submitted wholesale or discarded. The zero TotalTime pointer means "not
// edited" and keeps the time fields off the wire entirely.
type Draft struct {
	Title       string
	Description string
	Difficulty  string
	TotalTime   *int
	Steps       []string
}

// newDraft seeds a draft from the recipe metadata and the currently loaded
// instruction lines (one draft step each).
func newDraft(r domain.Recipe, instructions []string) *Draft {
	return &Draft{
		Title:       r.Title,
		Description: r.Description,
		Difficulty:  r.Difficulty,
		Steps:       append([]string(nil), instructions...),
	}
}

// toEdit converts the draft into the gateway's submission shape. All seeded
// fields are sent; the difficulty rides along in the draft but the edit
// endpoint has no field for it, so the gateway drops it.
func (d *Draft) toEdit() domain.EditDraft {
	title := d.Title
	desc := d.Description
	diff := d.Difficulty
	return domain.EditDraft{
		Title:       &title,
		Description: &desc,
		Difficulty:  &diff,
		TotalTime:   d.TotalTime,
		Steps:       append([]string(nil), d.Steps...),
	}
}
