package display

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

// pantryView is the ingredient-selection tab's local view state. The data
// itself lives in the workflow; this only tracks cursor, scroll, and the
// in-flight operation.
type pantryView struct {
	cursor  int
	offset  int
	busy    bool
	pending int
	errMsg  string
}

func (m Model) pantryLoaded(msg pantryLoadedMsg) (tea.Model, tea.Cmd) {
	if msg.seq != m.pantryV.pending {
		return m, nil // reply for a view state that no longer exists
	}
	m.pantryV.busy = false
	if msg.err != nil {
		if sessionExpired(msg.err) {
			return m.forceAuth("Your session expired. Please sign in again.")
		}
		m.log.Error("pantry load: %v", msg.err)
		m.pantryV.errMsg = "Could not load ingredients"
	}
	return m, nil
}

func (m Model) pantrySaved(msg pantrySavedMsg) (tea.Model, tea.Cmd) {
	if msg.seq != m.pantryV.pending {
		return m, nil
	}
	m.pantryV.busy = false
	if msg.err != nil {
		if sessionExpired(msg.err) {
			return m.forceAuth("Your session expired. Please sign in again.")
		}
		m.log.Error("pantry save: %v", msg.err)
		m.pantryV.errMsg = "Could not save ingredients"
	}
	return m, nil
}

func (m Model) updatePantry(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.pantryV.busy {
			return m, nil
		}
		catalog := m.pantry.Catalog()
		switch msg.String() {
		case "up", "k":
			if m.pantryV.cursor > 0 {
				m.pantryV.cursor--
			}
		case "down", "j":
			if m.pantryV.cursor < len(catalog)-1 {
				m.pantryV.cursor++
			}
		case " ", "enter":
			if m.pantryV.cursor < len(catalog) {
				m.pantry.Toggle(catalog[m.pantryV.cursor].ID)
			}
		case "s":
			return m, m.savePantryCmd()
		case "r":
			return m, m.loadPantryCmd()
		}
	}
	return m, nil
}

func (m Model) viewPantry() string {
	var b strings.Builder

	if m.pantryV.busy && !m.pantry.Loaded() {
		b.WriteString(busyLine(m.spin, "Loading ingredients..."))
		return b.String()
	}

	b.WriteString(errLine(m.pantryV.errMsg))

	// Server-confirmed selection, as last loaded or saved.
	current := m.pantry.Current()
	b.WriteString(titleStyle.Render("  Current ingredients") + "\n")
	if len(current) == 0 {
		b.WriteString(secondaryStyle.Render("  none selected yet") + "\n")
	} else {
		names := make([]string, len(current))
		for i, ing := range current {
			names[i] = ing.Name
		}
		b.WriteString(primaryStyle.Render("  "+strings.Join(names, ", ")) + "\n")
	}
	b.WriteByte('\n')

	b.WriteString(titleStyle.Render(fmt.Sprintf("  Select ingredients (%d pending)", m.pantry.SelectedCount())) + "\n")

	catalog := m.pantry.Catalog()
	m.pantryV.clampScroll(len(catalog), m.listHeight())
	end := min(m.pantryV.offset+m.listHeight(), len(catalog))

	for i := m.pantryV.offset; i < end; i++ {
		ing := catalog[i]
		mark := "[ ]"
		style := primaryStyle
		if m.pantry.IsSelected(ing.ID) {
			mark = "[x]"
			style = selectedStyle
		}
		line := fmt.Sprintf("%s %s", mark, ing.Name)
		if ing.Category != "" {
			line += secondaryStyle.Render("  (" + ing.Category + ")")
		}
		if i == m.pantryV.cursor {
			b.WriteString(cursorStyle.Render("› ") + style.Render(line) + "\n")
		} else {
			b.WriteString("  " + style.Render(line) + "\n")
		}
	}

	if m.pantryV.busy {
		b.WriteString(busyLine(m.spin, "Saving..."))
	}

	b.WriteByte('\n')
	b.WriteString(m.footer("↑/↓ move  •  space toggle  •  s save  •  r reload  •  2 recipes  •  ctrl+l logout"))
	return b.String()
}

// clampScroll keeps the cursor on screen.
func (v *pantryView) clampScroll(total, visible int) {
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

// listHeight is the number of list rows that fit under the chrome.
func (m Model) listHeight() int {
	h := m.height - 10
	if h < 5 {
		h = 5
	}
	return h
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
