package ui

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"mealselector/internal/auth"
	"mealselector/internal/validate"
)

// LoginPageModel is the sign-in form. On success it persists the session
// token (when the backend issued one) and emits LoginSucceededMsg.
type LoginPageModel struct {
	email    textinput.Model
	password textinput.Model
	focus    int
	spinner  spinner.Model

	status Status
	errMsg string

	gateway Gateway
	tokens  *auth.TokenStore
	styles  Styles

	width  int
	height int
}

// NewLoginPage builds the login form. tokens may be nil (token persistence
// is then skipped).
func NewLoginPage(gw Gateway, tokens *auth.TokenStore, styles Styles) LoginPageModel {
	email := textinput.New()
	email.Placeholder = "e.g. ayse@example.com"
	email.CharLimit = 128
	email.Focus()

	password := textinput.New()
	password.Placeholder = "Your password"
	password.EchoMode = textinput.EchoPassword
	password.EchoCharacter = '•'
	password.CharLimit = 128

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = styles.Spinner

	return LoginPageModel{
		email:    email,
		password: password,
		spinner:  sp,
		gateway:  gw,
		tokens:   tokens,
		styles:   styles,
	}
}

// Status exposes the submission state for the root model and tests.
func (m LoginPageModel) Status() Status { return m.status }

// SetSize records the window dimensions for centering.
func (m *LoginPageModel) SetSize(w, h int) {
	m.width = w
	m.height = h
}

func (m LoginPageModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m LoginPageModel) Update(msg tea.Msg) (LoginPageModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "tab", "shift+tab", "up", "down":
			m.cycleFocus()
			return m, nil
		case "enter":
			return m, m.submit()
		case "ctrl+n":
			return m, func() tea.Msg { return SwitchToRegisterMsg{} }
		}

	case loginResultMsg:
		return m.handleResult(msg)

	case spinner.TickMsg:
		if m.status == StatusPending {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
		return m, nil
	}

	// Editing a field after a failure returns the form to Idle.
	var cmds []tea.Cmd
	var cmd tea.Cmd
	m.email, cmd = m.email.Update(msg)
	cmds = append(cmds, cmd)
	m.password, cmd = m.password.Update(msg)
	cmds = append(cmds, cmd)
	if _, isKey := msg.(tea.KeyMsg); isKey && m.status == StatusError {
		m.status = StatusIdle
		m.errMsg = ""
	}
	return m, tea.Batch(cmds...)
}

func (m *LoginPageModel) cycleFocus() {
	// Two fields, so forward and backward are the same hop.
	m.focus = (m.focus + 1) % 2
	if m.focus == 0 {
		m.email.Focus()
		m.password.Blur()
	} else {
		m.password.Focus()
		m.email.Blur()
	}
}

// submit runs the local checks and, only when they pass, issues the login
// round trip. Validation failures never touch the network.
func (m *LoginPageModel) submit() tea.Cmd {
	if m.status == StatusPending {
		return nil
	}

	email := strings.TrimSpace(m.email.Value())
	password := m.password.Value()

	if !validate.IsValidEmail(email) {
		m.status = StatusError
		m.errMsg = invalidEmailText
		return nil
	}
	if password == "" {
		m.status = StatusError
		m.errMsg = emptyPasswordText
		return nil
	}

	m.status = StatusPending
	m.errMsg = ""

	gw := m.gateway
	return tea.Batch(m.spinner.Tick, func() tea.Msg {
		sess, err := gw.Login(context.Background(), email, password)
		return loginResultMsg{session: sess, err: err}
	})
}

func (m LoginPageModel) handleResult(msg loginResultMsg) (LoginPageModel, tea.Cmd) {
	if msg.err != nil {
		m.status = StatusError
		m.errMsg = errorText(msg.err, loginFailedText)
		return m, nil
	}

	email := strings.TrimSpace(m.email.Value())
	if m.tokens != nil && msg.session.Token != "" {
		// Best effort: a failed write must not block the login.
		_ = m.tokens.Save(auth.StoredToken{Token: msg.session.Token, Email: email})
	}

	m.status = StatusSaved
	user := User{ID: msg.session.UserID, Username: msg.session.Username, Email: email}
	return m, func() tea.Msg { return LoginSucceededMsg{User: user} }
}

func (m LoginPageModel) View() string {
	var sb strings.Builder

	sb.WriteString(m.styles.Title.Render("Meal Selector"))
	sb.WriteString("\n")
	sb.WriteString(m.styles.Subtitle.Render("Sign in and get your meal recommendations!"))
	sb.WriteString("\n\n")

	switch m.status {
	case StatusSaved:
		sb.WriteString(m.styles.Success.Render("✅ Login successful! Redirecting..."))
		sb.WriteString("\n\n")
	case StatusError:
		sb.WriteString(m.styles.Error.Render("⚠ " + m.errMsg))
		sb.WriteString("\n\n")
	}

	sb.WriteString(m.styles.Label.Render("Email"))
	sb.WriteString("\n")
	sb.WriteString(m.inputView(m.email, m.focus == 0))
	sb.WriteString("\n\n")

	sb.WriteString(m.styles.Label.Render("Password"))
	sb.WriteString("\n")
	sb.WriteString(m.inputView(m.password, m.focus == 1))
	sb.WriteString("\n\n")

	if m.status == StatusPending {
		sb.WriteString(m.spinner.View() + " Signing in...")
	} else {
		sb.WriteString(m.styles.SubmitButton.Render("Enter: Sign in"))
	}
	sb.WriteString("\n\n")
	sb.WriteString(m.styles.Hint.Render("No account yet? Ctrl+N: Register"))

	card := m.styles.Card.Render(sb.String())
	if m.width <= 0 {
		return card
	}
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, card)
}

func (m LoginPageModel) inputView(in textinput.Model, focused bool) string {
	if focused {
		return m.styles.FocusedInput.Render(in.View())
	}
	return m.styles.BlurredInput.Render(in.View())
}
