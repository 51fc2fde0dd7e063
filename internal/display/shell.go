package display

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"pantrychef/internal/domain"
	"pantrychef/internal/logger"
	"pantrychef/internal/session"
	"pantrychef/internal/workflow"
)

type screen int

const (
	screenAuth screen = iota
	screenDashboard
	screenDetail
)

type tab int

const (
	tabIngredients tab = iota
	tabRecipes
)

// ── Messages ─────────────────────────────────────────────────────

type restoredMsg struct{ state session.State }

type authDoneMsg struct {
	seq int
	err error
}

type pantryLoadedMsg struct {
	seq int
	err error
}

type pantrySavedMsg struct {
	seq int
	err error
}

type suggestionsLoadedMsg struct {
	seq int
	err error
}

type instructionsLoadedMsg struct {
	seq int
	err error
}

type editSavedMsg struct {
	seq int
	err error
}

// Deps carries the wired application pieces into the display.
type Deps struct {
	Store       *session.Store
	Gateway     domain.Gateway
	Pantry      *workflow.Pantry
	Suggestions *workflow.Suggestions
	Log         *logger.Logger
}

// Model is the root Bubble Tea model.
type Model struct {
	store       *session.Store
	gw          domain.Gateway
	pantry      *workflow.Pantry
	suggestions *workflow.Suggestions
	log         *logger.Logger

	screen    screen
	activeTab tab
	width     int
	height    int
	spin      spinner.Model
	seq       int // monotonic tag for in-flight operations

	auth    authView
	pantryV pantryView
	suggest suggestView
	detail  *detailView
}

// New builds the root model. The program starts on a restoring splash and
// lands on the auth screen or the dashboard depending on persisted state.
func New(deps Deps) Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = promptStyle

	return Model{
		store:       deps.Store,
		gw:          deps.Gateway,
		pantry:      deps.Pantry,
		suggestions: deps.Suggestions,
		log:         deps.Log,
		screen:      screenAuth,
		spin:        sp,
		auth:        newAuthView(),
	}
}

// Init starts the session restore and the spinner.
func (m Model) Init() tea.Cmd {
	store := m.store
	return tea.Batch(
		m.spin.Tick,
		func() tea.Msg { return restoredMsg{state: store.Restore(context.Background())} },
	)
}

// nextSeq returns a fresh operation tag.
func (m *Model) nextSeq() int {
	m.seq++
	return m.seq
}

// Update routes messages to the active view.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd

	case restoredMsg:
		if msg.state == session.StateAuthenticated {
			return m.enterDashboard()
		}
		m.screen = screenAuth
		return m, nil

	// Workflow replies are handled here, not in the per-tab dispatch: the
	// dashboard views still exist while another tab or the detail screen is
	// showing, so a result that arrives then must land instead of leaving
	// the view stuck busy. The seq guard alone decides whether the
	// consuming view state is still alive.
	case pantryLoadedMsg:
		return m.pantryLoaded(msg)
	case pantrySavedMsg:
		return m.pantrySaved(msg)
	case suggestionsLoadedMsg:
		return m.suggestionsLoaded(msg)
	}

	switch m.screen {
	case screenAuth:
		return m.updateAuth(msg)
	case screenDashboard:
		return m.updateDashboard(msg)
	case screenDetail:
		return m.updateDetail(msg)
	}
	return m, nil
}

// enterDashboard switches to the dashboard and kicks off the ingredient
// load for the default tab.
func (m Model) enterDashboard() (Model, tea.Cmd) {
	m.screen = screenDashboard
	m.activeTab = tabIngredients
	m.pantryV = pantryView{}
	m.suggest = suggestView{}
	m.detail = nil
	return m, m.loadPantryCmd()
}

// forceAuth tears the dashboard down and returns to the login entry point.
// Used for the global 401 reaction; the session store has already cleared
// its persisted state by the time an ErrUnauthorized reaches a view. The
// workflows are reset so nothing loaded for this session survives into the
// next one, and the view structs are zeroed so any still-in-flight reply
// fails the seq guard.
func (m Model) forceAuth(notice string) (Model, tea.Cmd) {
	m.pantry.Reset()
	m.suggestions.Reset()
	m.pantryV = pantryView{}
	m.suggest = suggestView{}
	m.screen = screenAuth
	m.auth = newAuthView()
	m.auth.notice = notice
	m.detail = nil
	return m, nil
}

// sessionExpired reports whether err is the global credentials-rejected
// signal, handled identically no matter which workflow tripped it.
func sessionExpired(err error) bool {
	return errors.Is(err, domain.ErrUnauthorized)
}

// logout clears the session and returns to the auth screen.
func (m Model) logout() (Model, tea.Cmd) {
	m.store.Logout(context.Background())
	return m.forceAuth("")
}

// View renders the active screen.
func (m Model) View() string {
	switch m.screen {
	case screenAuth:
		return m.viewAuth()
	case screenDashboard:
		return m.viewDashboard()
	case screenDetail:
		return m.viewDetail()
	}
	return ""
}

// header renders the top bar with the app name, tabs, and the user.
func (m Model) header() string {
	name := titleStyle.Render("PantryChef")

	tabs := ""
	if m.screen != screenAuth {
		ing := tabStyle.Render("[1] My Ingredients")
		rec := tabStyle.Render("[2] Find Recipes")
		if m.screen == screenDashboard && m.activeTab == tabIngredients {
			ing = tabActiveStyle.Render("[1] My Ingredients")
		}
		if m.screen == screenDetail || (m.screen == screenDashboard && m.activeTab == tabRecipes) {
			rec = tabActiveStyle.Render("[2] Find Recipes")
		}
		tabs = ing + rec
	}

	who := ""
	if u := m.store.User(); u != nil {
		who = secondaryStyle.Render("Hi, " + u.Name)
	}

	left := name + "  " + tabs
	gap := m.width - lipgloss.Width(left) - lipgloss.Width(who) - 2
	if gap < 1 {
		gap = 1
	}
	return headerStyle.Width(max(m.width, 0)).Render(left + strings.Repeat(" ", gap) + who)
}

func (m Model) footer(hints string) string {
	return footerStyle.Render("  " + hints + "  •  ctrl+c quit")
}

func errLine(msg string) string {
	if msg == "" {
		return ""
	}
	return errorStyle.Render("  ✗ " + msg) + "\n"
}

func busyLine(spin spinner.Model, text string) string {
	return "  " + spin.View() + secondaryStyle.Render(" "+text) + "\n"
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func fmtPercent(p float64) string {
	return fmt.Sprintf("%.0f%%", p)
}
