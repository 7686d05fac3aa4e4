package ui

import (
	"context"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"mealselector/internal/api"
)

// savedToChatDelay is how long the "saved" confirmation stays visible
// before the app moves on to the chat page. Purely cosmetic.
const savedToChatDelay = 600 * time.Millisecond

// ProfilePageModel is the dietary profile form. A successful save shows
// the confirmation, then emits ProfileSavedMsg once after a short delay.
type ProfilePageModel struct {
	inputs  []textinput.Model // diets, allergens, food preferences
	focus   int
	spinner spinner.Model

	status Status
	errMsg string

	// navScheduled guards the saved-to-chat handoff: however fast the user
	// resubmits, ProfileSavedMsg is emitted exactly once.
	navScheduled bool

	user    User
	gateway Gateway
	styles  Styles

	width  int
	height int
}

const (
	profFieldDiets = iota
	profFieldAllergens
	profFieldFoods
	profFieldCount
)

// NewProfilePage builds the profile form.
func NewProfilePage(gw Gateway, styles Styles) ProfilePageModel {
	inputs := make([]textinput.Model, profFieldCount)
	for i := range inputs {
		in := textinput.New()
		in.CharLimit = 256
		inputs[i] = in
	}
	inputs[profFieldDiets].Placeholder = "e.g. vegan, gluten-free"
	inputs[profFieldAllergens].Placeholder = "e.g. peanuts, shrimp"
	inputs[profFieldFoods].Placeholder = "e.g. pizza, sushi"
	inputs[profFieldDiets].Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = styles.Spinner

	return ProfilePageModel{
		inputs:  inputs,
		spinner: sp,
		gateway: gw,
		styles:  styles,
	}
}

// Status exposes the submission state for the root model and tests.
func (m ProfilePageModel) Status() Status { return m.status }

// SetUser records who the profile belongs to; the payload always carries
// the user id.
func (m *ProfilePageModel) SetUser(u User) {
	m.user = u
}

// ResetStatus returns the form to Idle for a fresh session. Field values
// are deliberately kept.
func (m *ProfilePageModel) ResetStatus() {
	m.status = StatusIdle
	m.errMsg = ""
	m.navScheduled = false
}

// SetSize records the window dimensions for centering.
func (m *ProfilePageModel) SetSize(w, h int) {
	m.width = w
	m.height = h
}

func (m ProfilePageModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m ProfilePageModel) Update(msg tea.Msg) (ProfilePageModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "tab", "down":
			m.setFocus((m.focus + 1) % profFieldCount)
			return m, nil
		case "shift+tab", "up":
			m.setFocus((m.focus + profFieldCount - 1) % profFieldCount)
			return m, nil
		case "enter":
			return m, m.submit()
		case "ctrl+l":
			return m, func() tea.Msg { return LogoutRequestedMsg{} }
		}

	case profileResultMsg:
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

func (m *ProfilePageModel) setFocus(i int) {
	m.focus = i
	for j := range m.inputs {
		if j == i {
			m.inputs[j].Focus()
		} else {
			m.inputs[j].Blur()
		}
	}
}

// submit clears any prior status and issues the save. Free-text fields are
// sent as typed; there is nothing to validate locally.
func (m *ProfilePageModel) submit() tea.Cmd {
	if m.status == StatusPending || m.navScheduled {
		return nil
	}

	m.status = StatusPending
	m.errMsg = ""

	profile := api.Profile{
		Diets:           m.inputs[profFieldDiets].Value(),
		Allergens:       m.inputs[profFieldAllergens].Value(),
		FoodPreferences: m.inputs[profFieldFoods].Value(),
	}
	gw, userID := m.gateway, m.user.ID
	return tea.Batch(m.spinner.Tick, func() tea.Msg {
		return profileResultMsg{err: gw.SaveProfile(context.Background(), userID, profile)}
	})
}

func (m ProfilePageModel) handleResult(msg profileResultMsg) (ProfilePageModel, tea.Cmd) {
	if msg.err != nil {
		m.status = StatusError
		m.errMsg = errorText(msg.err, profileFailedText)
		return m, nil
	}

	m.status = StatusSaved
	if m.navScheduled {
		return m, nil
	}
	m.navScheduled = true
	return m, tea.Tick(savedToChatDelay, func(time.Time) tea.Msg {
		return ProfileSavedMsg{}
	})
}

func (m ProfilePageModel) View() string {
	var sb strings.Builder

	sb.WriteString(m.styles.Title.Render("Meal Selector"))
	sb.WriteString("\n")
	if m.user.Username != "" {
		sb.WriteString(m.styles.Label.Render("Welcome, " + m.user.Username + "! 👋"))
		sb.WriteString("\n")
	}
	sb.WriteString(m.styles.Subtitle.Render("Save your preferences so we can suggest the right meals."))
	sb.WriteString("\n\n")

	switch m.status {
	case StatusSaved:
		sb.WriteString(m.styles.Success.Render(profileSavedText))
		sb.WriteString("\n\n")
	case StatusError:
		sb.WriteString(m.styles.Error.Render("⚠ " + m.errMsg))
		sb.WriteString("\n\n")
	}

	labels := []string{"🍽️ Diet", "⚠️ Allergens", "❤️ Favorite foods"}
	hints := []string{
		"Separate multiple entries with commas: vegan, gluten-free",
		"Foods you medically cannot eat, comma separated",
		"These get positive weight in your recommendations",
	}
	for i, in := range m.inputs {
		sb.WriteString(m.styles.Label.Render(labels[i]))
		sb.WriteString("\n")
		if i == m.focus {
			sb.WriteString(m.styles.FocusedInput.Render(in.View()))
		} else {
			sb.WriteString(m.styles.BlurredInput.Render(in.View()))
		}
		sb.WriteString("\n")
		sb.WriteString(m.styles.Hint.Render(hints[i]))
		sb.WriteString("\n\n")
	}

	if m.status == StatusPending {
		sb.WriteString(m.spinner.View() + " Saving profile...")
	} else {
		sb.WriteString(m.styles.SubmitButton.Render("Enter: Save profile"))
	}
	sb.WriteString("\n\n")
	sb.WriteString(m.styles.Hint.Render("Ctrl+L: Logout"))

	card := m.styles.Card.Render(sb.String())
	if m.width <= 0 {
		return card
	}
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, card)
}
