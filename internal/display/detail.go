package display

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"pantrychef/internal/workflow"
)

// Fixed edit-form field positions; step fields follow.
const (
	fieldTitle = iota
	fieldDescription
	fieldDifficulty
	fieldTotalTime
	fieldFirstStep
)

// detailView wraps one Detail workflow plus the edit form widgets.
type detailView struct {
	flow    *workflow.Detail
	busy    bool
	pending int
	errMsg  string

	inputs []textinput.Model
	focus  int
}

func newDetailView(flow *workflow.Detail) *detailView {
	return &detailView{flow: flow}
}

// buildForm creates one textinput per draft field, seeded from the draft.
func (v *detailView) buildForm() {
	draft := v.flow.DraftCopy()
	if draft == nil {
		return
	}

	mk := func(placeholder, value string) textinput.Model {
		ti := textinput.New()
		ti.Placeholder = placeholder
		ti.SetValue(value)
		ti.CharLimit = 500
		ti.Width = 60
		ti.PromptStyle = promptStyle
		return ti
	}

	total := ""
	if draft.TotalTime != nil {
		total = strconv.Itoa(*draft.TotalTime)
	}

	v.inputs = []textinput.Model{
		mk("Title", draft.Title),
		mk("Description", draft.Description),
		mk("Difficulty", draft.Difficulty),
		mk("Total time (minutes)", total),
	}
	for i, step := range draft.Steps {
		v.inputs = append(v.inputs, mk(fmt.Sprintf("Step %d", i+1), step))
	}

	v.focus = fieldTitle
	v.inputs[v.focus].Focus()
}

// setFocus moves form focus, wrapping at both ends.
func (v *detailView) setFocus(idx int) {
	if len(v.inputs) == 0 {
		return
	}
	if idx < 0 {
		idx = len(v.inputs) - 1
	}
	if idx >= len(v.inputs) {
		idx = 0
	}
	v.inputs[v.focus].Blur()
	v.focus = idx
	v.inputs[v.focus].Focus()
}

// syncFocused pushes the focused input's value into the draft.
func (v *detailView) syncFocused() {
	val := v.inputs[v.focus].Value()
	switch v.focus {
	case fieldTitle:
		v.flow.SetTitle(val)
	case fieldDescription:
		v.flow.SetDescription(val)
	case fieldDifficulty:
		v.flow.SetDifficulty(val)
	case fieldTotalTime:
		if n, err := strconv.Atoi(strings.TrimSpace(val)); err == nil && n > 0 {
			v.flow.SetTotalTime(&n)
		} else {
			v.flow.SetTotalTime(nil)
		}
	default:
		_ = v.flow.SetStep(v.focus-fieldFirstStep, val)
	}
}

// ── Commands ─────────────────────────────────────────────────────

func (m *Model) loadInstructionsCmd() tea.Cmd {
	seq := m.nextSeq()
	m.detail.busy = true
	m.detail.pending = seq
	m.detail.errMsg = ""

	flow := m.detail.flow
	return func() tea.Msg {
		return instructionsLoadedMsg{seq: seq, err: flow.LoadInstructions(context.Background())}
	}
}

func (m *Model) saveEditCmd() tea.Cmd {
	seq := m.nextSeq()
	m.detail.busy = true
	m.detail.pending = seq
	m.detail.errMsg = ""

	flow := m.detail.flow
	return func() tea.Msg {
		return editSavedMsg{seq: seq, err: flow.SaveEdit(context.Background())}
	}
}

// ── Update ───────────────────────────────────────────────────────

func (m Model) updateDetail(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.detail == nil {
		m.screen = screenDashboard
		return m, nil
	}
	v := m.detail

	switch msg := msg.(type) {
	case instructionsLoadedMsg:
		if msg.seq != v.pending {
			return m, nil // view was torn down or superseded; drop it
		}
		v.busy = false
		if msg.err != nil {
			if sessionExpired(msg.err) {
				return m.forceAuth("Your session expired. Please sign in again.")
			}
			m.log.Error("instructions load: %v", msg.err)
			v.errMsg = "Could not load recipe instructions"
		}
		return m, nil

	case editSavedMsg:
		if msg.seq != v.pending {
			return m, nil
		}
		v.busy = false
		if msg.err != nil {
			if sessionExpired(msg.err) {
				return m.forceAuth("Your session expired. Please sign in again.")
			}
			m.log.Error("edit save: %v", msg.err)
			if v.flow.Mode() == workflow.ModeEditing {
				// The PATCH itself failed; draft is preserved.
				v.errMsg = "Could not save recipe changes"
			} else {
				// Save landed but the follow-up reload did not.
				v.errMsg = "Saved, but could not reload instructions"
				v.inputs = nil
			}
			return m, nil
		}
		v.inputs = nil
		return m, nil

	case tea.KeyMsg:
		if v.busy {
			return m, nil
		}
		if v.flow.Mode() == workflow.ModeEditing {
			return m.updateDetailEditing(msg)
		}
		return m.updateDetailViewing(msg)
	}
	return m, nil
}

func (m Model) updateDetailViewing(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	v := m.detail
	switch msg.String() {
	case "esc", "b":
		m.detail = nil
		m.screen = screenDashboard
		m.activeTab = tabRecipes
		return m, nil
	case "e":
		v.flow.BeginEdit()
		v.buildForm()
		return m, textinput.Blink
	case "r":
		return m, m.loadInstructionsCmd()
	}
	return m, nil
}

func (m Model) updateDetailEditing(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	v := m.detail
	switch msg.String() {
	case "esc":
		v.flow.CancelEdit()
		v.inputs = nil
		v.errMsg = ""
		return m, nil
	case "ctrl+s":
		return m, m.saveEditCmd()
	case "tab", "down":
		v.setFocus(v.focus + 1)
		return m, nil
	case "shift+tab", "up":
		v.setFocus(v.focus - 1)
		return m, nil
	case "ctrl+n":
		v.flow.AddStep()
		draft := v.flow.DraftCopy()
		ti := textinput.New()
		ti.Placeholder = fmt.Sprintf("Step %d", len(draft.Steps))
		ti.CharLimit = 500
		ti.Width = 60
		ti.PromptStyle = promptStyle
		v.inputs = append(v.inputs, ti)
		v.setFocus(len(v.inputs) - 1)
		return m, nil
	case "ctrl+d":
		if v.focus >= fieldFirstStep {
			if err := v.flow.RemoveStep(v.focus - fieldFirstStep); err == nil {
				v.inputs = append(v.inputs[:v.focus], v.inputs[v.focus+1:]...)
				v.setFocus(v.focus - 1)
			}
		}
		return m, nil
	}

	var cmd tea.Cmd
	v.inputs[v.focus], cmd = v.inputs[v.focus].Update(msg)
	v.syncFocused()
	return m, cmd
}

// ── View ─────────────────────────────────────────────────────────

func (m Model) viewDetail() string {
	v := m.detail
	if v == nil {
		return ""
	}

	var b strings.Builder
	b.WriteString(m.header() + "\n\n")
	b.WriteString(errLine(v.errMsg))

	if v.flow.Mode() == workflow.ModeEditing {
		m.renderEditForm(&b)
		return b.String()
	}

	sr := v.flow.Suggested()
	b.WriteString(titleStyle.Render("  "+sr.Recipe.Title) + "  " +
		matchStyle.Render(fmtPercent(sr.MatchPercentage)+" match"))
	if sr.Recipe.Difficulty != "" {
		b.WriteString(secondaryStyle.Render("  •  " + sr.Recipe.Difficulty))
	}
	b.WriteByte('\n')
	if sr.Recipe.Description != "" {
		b.WriteString(secondaryStyle.Render("  "+sr.Recipe.Description) + "\n")
	}
	b.WriteByte('\n')

	if len(sr.AvailableUserIngredientsUsed) > 0 {
		b.WriteString(selectedStyle.Render("  ✓ You have: ") +
			primaryStyle.Render(strings.Join(sr.AvailableUserIngredientsUsed, ", ")) + "\n")
	}
	if len(sr.MissingIngredients) > 0 {
		parts := make([]string, len(sr.MissingIngredients))
		for i, mi := range sr.MissingIngredients {
			parts[i] = fmt.Sprintf("%s (%s %s)", mi.Name, mi.Quantity, mi.Unit)
		}
		b.WriteString(missingStyle.Render("  ⚠ Missing: ") +
			primaryStyle.Render(strings.Join(parts, ", ")) + "\n")
	}
	b.WriteByte('\n')

	if v.busy {
		b.WriteString(busyLine(m.spin, "Loading instructions..."))
	} else if ins := v.flow.Instructions(); ins != nil {
		b.WriteString(titleStyle.Render("  Instructions"))
		if ins.TotalTime > 0 {
			b.WriteString(secondaryStyle.Render(fmt.Sprintf("  (~%d min total)", ins.TotalTime)))
		}
		b.WriteByte('\n')
		for i, step := range ins.Instructions {
			b.WriteString(primaryStyle.Render(fmt.Sprintf("  %d. %s", i+1, step)) + "\n")
		}
	} else {
		b.WriteString(secondaryStyle.Render("  Instructions unavailable. Press r to retry.") + "\n")
	}

	b.WriteByte('\n')
	b.WriteString(m.footer("e edit  •  r reload  •  esc back"))
	return b.String()
}

func (m Model) renderEditForm(b *strings.Builder) {
	v := m.detail
	labels := []string{"Title", "Description", "Difficulty", "Total time (min)"}

	b.WriteString(titleStyle.Render("  Edit recipe") + "\n\n")
	for i, ti := range v.inputs {
		label := ""
		if i < len(labels) {
			label = labels[i]
		} else {
			label = fmt.Sprintf("Step %d", i-fieldFirstStep+1)
		}
		marker := "  "
		if i == v.focus {
			marker = cursorStyle.Render("› ")
		}
		b.WriteString(marker + secondaryStyle.Render(fmt.Sprintf("%-16s", label)) + ti.View() + "\n")
	}

	if v.busy {
		b.WriteString(busyLine(m.spin, "Saving..."))
	}

	b.WriteByte('\n')
	b.WriteString(m.footer("tab next field  •  ctrl+n add step  •  ctrl+d remove step  •  ctrl+s save  •  esc cancel"))
}
