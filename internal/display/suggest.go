package display

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"pantrychef/internal/domain"
	"pantrychef/internal/workflow"
)

// suggestView is the recipe-suggestions tab's local view state.
type suggestView struct {
	cursor  int
	offset  int
	busy    bool
	pending int
	errMsg  string
}

func (m Model) suggestionsLoaded(msg suggestionsLoadedMsg) (tea.Model, tea.Cmd) {
	if msg.seq != m.suggest.pending {
		return m, nil
	}
	m.suggest.busy = false
	if msg.err != nil {
		if sessionExpired(msg.err) {
			return m.forceAuth("Your session expired. Please sign in again.")
		}
		m.log.Error("suggestions load: %v", msg.err)
		m.suggest.errMsg = "Could not load recipe suggestions"
	}
	return m, nil
}

func (m Model) updateSuggest(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.suggest.busy {
			return m, nil
		}
		set := m.suggestions.Set()
		count := 0
		if set != nil {
			count = len(set.SuggestedRecipes)
		}
		switch msg.String() {
		case "up", "k":
			if m.suggest.cursor > 0 {
				m.suggest.cursor--
			}
		case "down", "j":
			if m.suggest.cursor < count-1 {
				m.suggest.cursor++
			}
		case "r":
			return m, m.loadSuggestionsCmd()
		case "enter":
			if set == nil || m.suggest.cursor >= count {
				return m, nil
			}
			id := set.SuggestedRecipes[m.suggest.cursor].Recipe.ID
			sr, ok := m.suggestions.Select(id)
			if !ok {
				return m, nil
			}
			return m.enterDetail(sr)
		}
	}
	return m, nil
}

// enterDetail pushes into the detail view for an already-fetched
// suggestion and starts the instruction load.
func (m Model) enterDetail(sr domain.SuggestedRecipe) (Model, tea.Cmd) {
	m.detail = newDetailView(workflow.NewDetail(m.gw, m.log, sr))
	m.screen = screenDetail
	return m, m.loadInstructionsCmd()
}

func (m Model) viewSuggest() string {
	var b strings.Builder

	if m.suggest.busy {
		b.WriteString(busyLine(m.spin, "Loading suggestions..."))
		return b.String()
	}

	b.WriteString(errLine(m.suggest.errMsg))

	set := m.suggestions.Set()
	if set == nil {
		b.WriteString(secondaryStyle.Render("  No suggestions yet. Press r to load.") + "\n\n")
		b.WriteString(m.footer("r refresh  •  1 ingredients  •  ctrl+l logout"))
		return b.String()
	}

	avail := m.suggestions.UserIngredients()
	b.WriteString(titleStyle.Render(fmt.Sprintf("  Your available ingredients (%d)", len(avail))) + "\n")
	if len(avail) > 0 {
		names := make([]string, len(avail))
		for i, ing := range avail {
			names[i] = ing.Name
		}
		b.WriteString(secondaryStyle.Render("  "+strings.Join(names, ", ")) + "\n")
	}
	b.WriteByte('\n')

	b.WriteString(titleStyle.Render(fmt.Sprintf("  Suggested recipes (%d)", set.TotalFoundRecipes)) + "\n")
	if len(set.SuggestedRecipes) == 0 {
		b.WriteString(secondaryStyle.Render("  No recipes match your current ingredients. Add more to see suggestions.") + "\n")
	}

	visible := m.listHeight() / 2 // two rows per recipe card
	if visible < 2 {
		visible = 2
	}
	sv := m.suggest
	sv.clampScroll(len(set.SuggestedRecipes), visible)
	end := min(sv.offset+visible, len(set.SuggestedRecipes))

	for i := sv.offset; i < end; i++ {
		sr := set.SuggestedRecipes[i]
		title := fmt.Sprintf("%s  %s", sr.Recipe.Title, matchStyle.Render(fmtPercent(sr.MatchPercentage)+" match"))
		if prep := prepMinutes(sr.Recipe); prep > 0 {
			title += secondaryStyle.Render(fmt.Sprintf("  ~%dm prep", prep))
		}

		info := selectedStyle.Render(fmt.Sprintf("✓ %d available", len(sr.AvailableUserIngredientsUsed)))
		if n := len(sr.MissingIngredients); n > 0 {
			info += missingStyle.Render(fmt.Sprintf("   ⚠ %d missing", n))
		}

		if i == sv.cursor {
			b.WriteString(cursorStyle.Render("› ") + primaryStyle.Render(title) + "\n")
		} else {
			b.WriteString("  " + primaryStyle.Render(title) + "\n")
		}
		b.WriteString("    " + info + "\n")
	}

	b.WriteByte('\n')
	b.WriteString(m.footer("↑/↓ move  •  enter open  •  r refresh  •  1 ingredients  •  ctrl+l logout"))
	return b.String()
}

// prepMinutes mirrors the suggestion card's display rule: preparation
// minutes when the server sends them, else the combined total time.
func prepMinutes(r domain.Recipe) int {
	if r.PreparationTimeMinutes > 0 {
		return r.PreparationTimeMinutes
	}
	return r.TotalTime
}

func (v *suggestView) clampScroll(total, visible int) {
	if v.cursor >= total {
		v.cursor = max(total-1, 0)
	}
	if v.cursor < v.offset {
		v.offset = v.cursor
	}
	if visible > 0 && v.cursor >= v.offset+visible {
		v.offset = v.cursor - visible + 1
	}
}
