package display

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
)

// updateDashboard handles tab navigation and delegates to the active tab.
func (m Model) updateDashboard(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "1":
			if m.activeTab != tabIngredients {
				m.activeTab = tabIngredients
				if !m.pantry.Loaded() && !m.pantryV.busy {
					return m, m.loadPantryCmd()
				}
			}
			return m, nil
		case "2":
			if m.activeTab != tabRecipes {
				m.activeTab = tabRecipes
				if !m.suggestions.Loaded() && !m.suggest.busy {
					return m, m.loadSuggestionsCmd()
				}
			}
			return m, nil
		case "tab":
			if m.activeTab == tabIngredients {
				m.activeTab = tabRecipes
				if !m.suggestions.Loaded() && !m.suggest.busy {
					return m, m.loadSuggestionsCmd()
				}
			} else {
				m.activeTab = tabIngredients
			}
			return m, nil
		case "ctrl+l":
			return m.logout()
		}
	}

	if m.activeTab == tabIngredients {
		return m.updatePantry(msg)
	}
	return m.updateSuggest(msg)
}

func (m Model) viewDashboard() string {
	body := ""
	if m.activeTab == tabIngredients {
		body = m.viewPantry()
	} else {
		body = m.viewSuggest()
	}
	return m.header() + "\n\n" + body
}

// ── Commands ─────────────────────────────────────────────────────

func (m *Model) loadPantryCmd() tea.Cmd {
	seq := m.nextSeq()
	m.pantryV.busy = true
	m.pantryV.pending = seq
	m.pantryV.errMsg = ""

	pantry := m.pantry
	return func() tea.Msg {
		return pantryLoadedMsg{seq: seq, err: pantry.Load(context.Background())}
	}
}

func (m *Model) savePantryCmd() tea.Cmd {
	seq := m.nextSeq()
	m.pantryV.busy = true
	m.pantryV.pending = seq
	m.pantryV.errMsg = ""

	pantry := m.pantry
	return func() tea.Msg {
		return pantrySavedMsg{seq: seq, err: pantry.Save(context.Background())}
	}
}

func (m *Model) loadSuggestionsCmd() tea.Cmd {
	seq := m.nextSeq()
	m.suggest.busy = true
	m.suggest.pending = seq
	m.suggest.errMsg = ""
	m.suggest.cursor = 0

	suggestions := m.suggestions
	return func() tea.Msg {
		return suggestionsLoadedMsg{seq: seq, err: suggestions.Load(context.Background())}
	}
}
