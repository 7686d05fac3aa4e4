// Package app holds the root Bubble Tea model for the Meal Selector
// client. It is the session controller: it owns the active page and the
// logged-in user, and it is the only place transitions happen. Pages emit
// intent messages; this model interprets them.
package app

import (
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"mealselector/cmd/mealselector/ui"
	"mealselector/internal/auth"
)

// Page identifies which of the four screens is active. Exactly one is.
type Page int

const (
	PageLogin Page = iota
	PageRegister
	PageProfile
	PageChat
)

// String returns the page name for logging.
func (p Page) String() string {
	names := []string{"login", "register", "profile", "chat"}
	if int(p) < len(names) {
		return names[p]
	}
	return "unknown"
}

// Model is the root application model.
type Model struct {
	page Page
	user *ui.User

	login    ui.LoginPageModel
	register ui.RegisterPageModel
	profile  ui.ProfilePageModel
	chat     ui.ChatPageModel

	width  int
	height int
	log    *zap.Logger
}

// New wires the four pages to the gateway and starts on the login page.
// log may be nil.
func New(gw ui.Gateway, tokens *auth.TokenStore, styles ui.Styles, log *zap.Logger) Model {
	if log == nil {
		log = zap.NewNop()
	}
	return Model{
		page:     PageLogin,
		login:    ui.NewLoginPage(gw, tokens, styles),
		register: ui.NewRegisterPage(gw, styles),
		profile:  ui.NewProfilePage(gw, styles),
		chat:     ui.NewChatPage(gw, styles),
		log:      log,
	}
}

// Page returns the active page.
func (m Model) Page() Page { return m.page }

// User returns the logged-in user, or nil.
func (m Model) User() *ui.User { return m.user }

func (m Model) Init() tea.Cmd {
	return m.login.Init()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.login.SetSize(msg.Width, msg.Height)
		m.register.SetSize(msg.Width, msg.Height)
		m.profile.SetSize(msg.Width, msg.Height)
		m.chat.SetSize(msg.Width, msg.Height)
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		// Keystrokes go only to the active page.
		return m.updateActivePage(msg)

	case ui.LoginSucceededMsg:
		return m.completeLogin(msg.User), nil

	case ui.SwitchToRegisterMsg:
		return m.goTo(PageRegister), nil

	case ui.SwitchToLoginMsg:
		return m.goTo(PageLogin), nil

	case ui.ProfileSavedMsg:
		// Chat requires a session; a stray message after logout is dropped.
		if m.user == nil {
			return m, nil
		}
		return m.goTo(PageChat), nil

	case ui.LogoutRequestedMsg:
		return m.logout(), nil
	}

	// Everything else (round-trip results, spinner ticks) is broadcast, so
	// a page still resolves its request after the user navigated away.
	return m.updateAllPages(msg)
}

func (m Model) updateActivePage(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.page {
	case PageLogin:
		m.login, cmd = m.login.Update(msg)
	case PageRegister:
		m.register, cmd = m.register.Update(msg)
	case PageProfile:
		m.profile, cmd = m.profile.Update(msg)
	case PageChat:
		m.chat, cmd = m.chat.Update(msg)
	}
	return m, cmd
}

func (m Model) updateAllPages(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd
	var cmd tea.Cmd
	m.login, cmd = m.login.Update(msg)
	cmds = append(cmds, cmd)
	m.register, cmd = m.register.Update(msg)
	cmds = append(cmds, cmd)
	m.profile, cmd = m.profile.Update(msg)
	cmds = append(cmds, cmd)
	m.chat, cmd = m.chat.Update(msg)
	cmds = append(cmds, cmd)
	return m, tea.Batch(cmds...)
}

// goTo sets the active page unconditionally.
func (m Model) goTo(p Page) Model {
	m.log.Debug("page transition",
		zap.String("from", m.page.String()),
		zap.String("to", p.String()))
	m.page = p
	return m
}

// completeLogin records the user and moves to the profile page.
func (m Model) completeLogin(u ui.User) Model {
	m.user = &u
	m.profile.SetUser(u)
	m.profile.ResetStatus()
	m.chat.SetUser(u)
	m.log.Info("login completed", zap.String("user_id", u.ID))
	return m.goTo(PageProfile)
}

// logout clears the user, reseeds the chat log and returns to login.
func (m Model) logout() Model {
	m.user = nil
	m.chat.Reset()
	m.log.Info("logged out")
	return m.goTo(PageLogin)
}

func (m Model) View() string {
	switch m.page {
	case PageRegister:
		return m.register.View()
	case PageProfile:
		return m.profile.View()
	case PageChat:
		return m.chat.View()
	default:
		return m.login.View()
	}
}
