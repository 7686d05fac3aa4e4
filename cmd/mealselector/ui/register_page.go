package ui

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"mealselector/internal/validate"
)

// RegisterPageModel is the account creation form. Success clears the form
// and shows a confirmation; going back to the login page stays an explicit
// keypress, never automatic.
type RegisterPageModel struct {
	inputs  []textinput.Model // name, email, password, confirm
	focus   int
	spinner spinner.Model

	status Status
	errMsg string

	gateway Gateway
	styles  Styles

	width  int
	height int
}

const (
	regFieldName = iota
	regFieldEmail
	regFieldPassword
	regFieldConfirm
	regFieldCount
)

// NewRegisterPage builds the registration form.
func NewRegisterPage(gw Gateway, styles Styles) RegisterPageModel {
	inputs := make([]textinput.Model, regFieldCount)
	for i := range inputs {
		in := textinput.New()
		in.CharLimit = 128
		inputs[i] = in
	}
	inputs[regFieldName].Placeholder = "e.g. Ayse Yilmaz"
	inputs[regFieldEmail].Placeholder = "e.g. ayse@example.com"
	inputs[regFieldPassword].Placeholder = "At least 6 characters"
	inputs[regFieldPassword].EchoMode = textinput.EchoPassword
	inputs[regFieldPassword].EchoCharacter = '•'
	inputs[regFieldConfirm].Placeholder = "Repeat your password"
	inputs[regFieldConfirm].EchoMode = textinput.EchoPassword
	inputs[regFieldConfirm].EchoCharacter = '•'
	inputs[regFieldName].Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = styles.Spinner

	return RegisterPageModel{
		inputs:  inputs,
		spinner: sp,
		gateway: gw,
		styles:  styles,
	}
}

// Status exposes the submission state for the root model and tests.
func (m RegisterPageModel) Status() Status { return m.status }

// SetSize records the window dimensions for centering.
func (m *RegisterPageModel) SetSize(w, h int) {
	m.width = w
	m.height = h
}

func (m RegisterPageModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m RegisterPageModel) Update(msg tea.Msg) (RegisterPageModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "tab", "down":
			m.setFocus((m.focus + 1) % regFieldCount)
			return m, nil
		case "shift+tab", "up":
			m.setFocus((m.focus + regFieldCount - 1) % regFieldCount)
			return m, nil
		case "enter":
			return m, m.submit()
		case "esc", "ctrl+l":
			return m, func() tea.Msg { return SwitchToLoginMsg{} }
		}

	case registerResultMsg:
		return m.handleResult(msg)

	case spinner.TickMsg:
		if m.status == StatusPending {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
		return m, nil
	}

	var cmds []tea.Cmd
	for i := range m.inputs {
		var cmd tea.Cmd
		m.inputs[i], cmd = m.inputs[i].Update(msg)
		cmds = append(cmds, cmd)
	}
	if _, isKey := msg.(tea.KeyMsg); isKey && m.status == StatusError {
		m.status = StatusIdle
		m.errMsg = ""
	}
	return m, tea.Batch(cmds...)
}

func (m *RegisterPageModel) setFocus(i int) {
	m.focus = i
	for j := range m.inputs {
		if j == i {
			m.inputs[j].Focus()
		} else {
			m.inputs[j].Blur()
		}
	}
}

// submit validates locally in a fixed order, short-circuiting at the first
// violation: email shape, then confirmation equality, then length. Only a
// fully valid form issues the network call.
func (m *RegisterPageModel) submit() tea.Cmd {
	if m.status == StatusPending {
		return nil
	}

	name := strings.TrimSpace(m.inputs[regFieldName].Value())
	email := strings.TrimSpace(m.inputs[regFieldEmail].Value())
	password := m.inputs[regFieldPassword].Value()
	confirm := m.inputs[regFieldConfirm].Value()

	switch {
	case !validate.IsValidEmail(email):
		m.status = StatusError
		m.errMsg = invalidEmailText
		return nil
	case !validate.PasswordsMatch(password, confirm):
		m.status = StatusError
		m.errMsg = passwordMismatchText
		return nil
	case !validate.MeetsMinLength(password, MinPasswordLength):
		m.status = StatusError
		m.errMsg = passwordTooShortText
		return nil
	}

	m.status = StatusPending
	m.errMsg = ""

	gw := m.gateway
	return tea.Batch(m.spinner.Tick, func() tea.Msg {
		return registerResultMsg{err: gw.Register(context.Background(), name, email, password)}
	})
}

func (m RegisterPageModel) handleResult(msg registerResultMsg) (RegisterPageModel, tea.Cmd) {
	if msg.err != nil {
		m.status = StatusError
		m.errMsg = errorText(msg.err, registerFailedText)
		return m, nil
	}

	for i := range m.inputs {
		m.inputs[i].Reset()
	}
	m.setFocus(regFieldName)
	m.status = StatusSaved
	return m, nil
}

func (m RegisterPageModel) View() string {
	var sb strings.Builder

	sb.WriteString(m.styles.Title.Render("Meal Selector"))
	sb.WriteString("\n")
	sb.WriteString(m.styles.Subtitle.Render("Create your account for personalized meal ideas!"))
	sb.WriteString("\n\n")

	switch m.status {
	case StatusSaved:
		sb.WriteString(m.styles.Success.Render("✅ " + registerSuccessText))
		sb.WriteString("\n\n")
	case StatusError:
		sb.WriteString(m.styles.Error.Render("⚠ " + m.errMsg))
		sb.WriteString("\n\n")
	}

	labels := []string{"Full name", "Email", "Password", "Confirm password"}
	for i, in := range m.inputs {
		sb.WriteString(m.styles.Label.Render(labels[i]))
		sb.WriteString("\n")
		if i == m.focus {
			sb.WriteString(m.styles.FocusedInput.Render(in.View()))
		} else {
			sb.WriteString(m.styles.BlurredInput.Render(in.View()))
		}
		sb.WriteString("\n\n")
	}

	if m.status == StatusPending {
		sb.WriteString(m.spinner.View() + " Creating account...")
	} else {
		sb.WriteString(m.styles.SubmitButton.Render("Enter: Register"))
	}
	sb.WriteString("\n\n")
	sb.WriteString(m.styles.Hint.Render("Already have an account? Esc: Sign in"))

	card := m.styles.Card.Render(sb.String())
	if m.width <= 0 {
		return card
	}
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, card)
}
