package display

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"pantrychef/internal/domain"
)

// Login form field positions.
const (
	loginEmail = iota
	loginPassword
)

// Register form field positions.
const (
	regName = iota
	regEmail
	regPassword
	regDietary
	regLevel
)

// authView is the login/register screen.
type authView struct {
	registering bool
	inputs      []textinput.Model
	focus       int
	busy        bool
	pending     int
	errMsg      string
	notice      string // e.g. "session expired" after a forced logout
}

func newAuthView() authView {
	v := authView{}
	v.buildInputs()
	return v
}

func (v *authView) buildInputs() {
	mk := func(placeholder string) textinput.Model {
		ti := textinput.New()
		ti.Placeholder = placeholder
		ti.CharLimit = 200
		ti.Width = 40
		ti.PromptStyle = promptStyle
		return ti
	}

	if v.registering {
		pw := mk("Password")
		pw.EchoMode = textinput.EchoPassword
		v.inputs = []textinput.Model{
			mk("Name"),
			mk("Email"),
			pw,
			mk("Dietary restrictions (comma separated, optional)"),
			mk("Cooking level (optional)"),
		}
	} else {
		pw := mk("Password")
		pw.EchoMode = textinput.EchoPassword
		v.inputs = []textinput.Model{
			mk("Email"),
			pw,
		}
	}
	v.focus = 0
	v.inputs[0].Focus()
}

func (v *authView) setFocus(idx int) {
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

func (m Model) updateAuth(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case authDoneMsg:
		if msg.seq != m.auth.pending {
			return m, nil
		}
		m.auth.busy = false
		if msg.err != nil {
			m.log.Error("auth: %v", msg.err)
			if m.auth.registering {
				m.auth.errMsg = "Could not create the account"
			} else {
				m.auth.errMsg = "Could not sign in"
			}
			return m, nil
		}
		return m.enterDashboard()

	case tea.KeyMsg:
		if m.auth.busy {
			return m, nil
		}
		switch msg.String() {
		case "tab", "down":
			m.auth.setFocus(m.auth.focus + 1)
			return m, nil
		case "shift+tab", "up":
			m.auth.setFocus(m.auth.focus - 1)
			return m, nil
		case "ctrl+r":
			m.auth.registering = !m.auth.registering
			m.auth.errMsg = ""
			m.auth.buildInputs()
			return m, textinput.Blink
		case "enter":
			if m.auth.focus < len(m.auth.inputs)-1 {
				m.auth.setFocus(m.auth.focus + 1)
				return m, nil
			}
			return m, m.submitAuthCmd()
		}

		var cmd tea.Cmd
		m.auth.inputs[m.auth.focus], cmd = m.auth.inputs[m.auth.focus].Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *Model) submitAuthCmd() tea.Cmd {
	seq := m.nextSeq()
	m.auth.busy = true
	m.auth.pending = seq
	m.auth.errMsg = ""
	m.auth.notice = ""

	store := m.store
	if m.auth.registering {
		reg := domain.Registration{
			Name:         strings.TrimSpace(m.auth.inputs[regName].Value()),
			Email:        strings.TrimSpace(m.auth.inputs[regEmail].Value()),
			Password:     m.auth.inputs[regPassword].Value(),
			CookingLevel: strings.TrimSpace(m.auth.inputs[regLevel].Value()),
		}
		if raw := strings.TrimSpace(m.auth.inputs[regDietary].Value()); raw != "" {
			for _, part := range strings.Split(raw, ",") {
				if p := strings.TrimSpace(part); p != "" {
					reg.DietaryRestrictions = append(reg.DietaryRestrictions, p)
				}
			}
		}
		return func() tea.Msg {
			_, err := store.Register(context.Background(), reg)
			return authDoneMsg{seq: seq, err: err}
		}
	}

	email := strings.TrimSpace(m.auth.inputs[loginEmail].Value())
	password := m.auth.inputs[loginPassword].Value()
	return func() tea.Msg {
		_, err := store.Login(context.Background(), email, password)
		return authDoneMsg{seq: seq, err: err}
	}
}

func (m Model) viewAuth() string {
	var b strings.Builder

	b.WriteString("\n" + titleStyle.Render("  PantryChef") + "\n")
	if m.auth.registering {
		b.WriteString(secondaryStyle.Render("  Create an account") + "\n\n")
	} else {
		b.WriteString(secondaryStyle.Render("  Sign in to your account") + "\n\n")
	}

	if m.auth.notice != "" {
		b.WriteString(secondaryStyle.Render("  "+m.auth.notice) + "\n\n")
	}
	b.WriteString(errLine(m.auth.errMsg))

	for i, ti := range m.auth.inputs {
		marker := "  "
		if i == m.auth.focus {
			marker = cursorStyle.Render("› ")
		}
		b.WriteString(marker + ti.View() + "\n")
	}

	if m.auth.busy {
		b.WriteByte('\n')
		b.WriteString(busyLine(m.spin, "Contacting the kitchen..."))
	}

	b.WriteByte('\n')
	if m.auth.registering {
		b.WriteString(m.footer("enter submit  •  tab next field  •  ctrl+r back to sign in"))
	} else {
		b.WriteString(m.footer("enter submit  •  tab next field  •  ctrl+r create account"))
	}
	return b.String()
}
