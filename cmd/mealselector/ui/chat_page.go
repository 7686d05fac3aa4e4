package ui

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
)

// Sender identifies who produced a chat message.
type Sender int

const (
	SenderBot Sender = iota
	SenderUser
)

// Message is one entry in the conversation log. Entries are append-only:
// never mutated, never removed.
type Message struct {
	Sender Sender
	Text   string
}

// ChatPageModel is the conversation screen. One send may be in flight at a
// time; failures degrade into a bot turn instead of an error banner.
type ChatPageModel struct {
	input    textinput.Model
	viewport viewport.Model
	spinner  spinner.Model
	renderer *glamour.TermRenderer

	messages []Message
	pending  bool

	user    User
	gateway Gateway
	styles  Styles

	width  int
	height int
	ready  bool
}

// NewChatPage builds the chat screen with the seeded greeting.
func NewChatPage(gw Gateway, styles Styles) ChatPageModel {
	input := textinput.New()
	input.Placeholder = "Type something..."
	input.CharLimit = 512
	input.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = styles.Spinner

	// Markdown rendering is best effort; a nil renderer falls back to
	// plain text.
	renderer, _ := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(0),
	)

	return ChatPageModel{
		input:    input,
		viewport: viewport.New(80, 20),
		spinner:  sp,
		renderer: renderer,
		messages: []Message{{Sender: SenderBot, Text: ChatGreetingText}},
		gateway:  gw,
		styles:   styles,
	}
}

// Messages returns the conversation log.
func (m ChatPageModel) Messages() []Message { return m.messages }

// Pending reports whether a send is in flight.
func (m ChatPageModel) Pending() bool { return m.pending }

// SetUser records whose conversation this is.
func (m *ChatPageModel) SetUser(u User) {
	m.user = u
}

// Reset reseeds the log with the greeting. Called on logout so the next
// session starts fresh.
func (m *ChatPageModel) Reset() {
	m.messages = []Message{{Sender: SenderBot, Text: ChatGreetingText}}
	m.pending = false
	m.input.Reset()
	m.refreshViewport()
}

// SetSize resizes the viewport; reserved rows cover header, input and footer.
func (m *ChatPageModel) SetSize(w, h int) {
	m.width = w
	m.height = h
	vpHeight := h - 8
	if vpHeight < 3 {
		vpHeight = 3
	}
	m.viewport.Width = w - 4
	m.viewport.Height = vpHeight
	m.ready = true
	m.refreshViewport()
}

func (m ChatPageModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m ChatPageModel) Update(msg tea.Msg) (ChatPageModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "enter":
			return m, m.send()
		case "ctrl+l":
			return m, func() tea.Msg { return LogoutRequestedMsg{} }
		case "pgup", "pgdown":
			var cmd tea.Cmd
			m.viewport, cmd = m.viewport.Update(msg)
			return m, cmd
		}

	case chatResultMsg:
		return m.handleResult(msg)

	case spinner.TickMsg:
		if m.pending {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			m.refreshViewport()
			return m, cmd
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// send is a no-op, not an error, for blank input or while a round trip is
// pending. Otherwise the user's message is appended before the network is
// touched, so it is visible immediately.
func (m *ChatPageModel) send() tea.Cmd {
	text := strings.TrimSpace(m.input.Value())
	if text == "" || m.pending {
		return nil
	}

	m.messages = append(m.messages, Message{Sender: SenderUser, Text: text})
	m.input.Reset()
	m.pending = true
	m.refreshViewport()

	gw, userID := m.gateway, m.user.ID
	return tea.Batch(m.spinner.Tick, func() tea.Msg {
		reply, err := gw.Chat(context.Background(), userID, text)
		return chatResultMsg{reply: reply, err: err}
	})
}

// handleResult appends the bot turn and releases the busy guard. Any
// failure, HTTP or transport, becomes the fixed fallback line.
func (m ChatPageModel) handleResult(msg chatResultMsg) (ChatPageModel, tea.Cmd) {
	m.pending = false
	if msg.err != nil {
		m.messages = append(m.messages, Message{Sender: SenderBot, Text: ChatFallbackText})
	} else {
		m.messages = append(m.messages, Message{Sender: SenderBot, Text: msg.reply})
	}
	m.refreshViewport()
	return m, nil
}

func (m *ChatPageModel) refreshViewport() {
	m.viewport.SetContent(m.renderLog())
	m.viewport.GotoBottom()
}

func (m *ChatPageModel) renderLog() string {
	var sb strings.Builder

	for _, msg := range m.messages {
		switch msg.Sender {
		case SenderUser:
			sb.WriteString(m.styles.Label.Render("You") + "\n")
			sb.WriteString(m.styles.UserBubble.Render(msg.Text))
			sb.WriteString("\n\n")
		default:
			sb.WriteString(m.styles.BotName.Render("Meal Selector") + "\n")
			sb.WriteString(m.styles.BotBubble.Render(m.safeRenderMarkdown(msg.Text)))
			sb.WriteString("\n\n")
		}
	}

	if m.pending {
		sb.WriteString(m.styles.BotName.Render("Meal Selector") + "\n")
		sb.WriteString(m.styles.Muted.Render("  " + m.spinner.View() + " Typing... ✍️"))
		sb.WriteString("\n")
	}

	return sb.String()
}

// safeRenderMarkdown renders a bot turn as markdown with panic recovery;
// on any trouble the raw text is shown instead.
func (m *ChatPageModel) safeRenderMarkdown(content string) (result string) {
	defer func() {
		if r := recover(); r != nil {
			result = content
		}
	}()

	if m.renderer != nil && content != "" {
		if rendered, err := m.renderer.Render(content); err == nil {
			return strings.TrimRight(rendered, "\n")
		}
	}
	return content
}

func (m ChatPageModel) View() string {
	title := m.styles.Title.Render("Meal Selector Chat")
	subtitle := m.styles.Subtitle.Render("Tell us what you feel like eating 🍽️")

	inputStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(m.styles.Theme.Accent).
		Padding(0, 1)
	if m.viewport.Width > 2 {
		inputStyle = inputStyle.Width(m.viewport.Width - 2)
	}

	footer := m.styles.Footer.Render("Enter: Send | PgUp/PgDn: Scroll | Ctrl+L: Logout | Ctrl+C: Quit")

	return lipgloss.JoinVertical(
		lipgloss.Left,
		title,
		subtitle,
		m.viewport.View(),
		inputStyle.Render(m.input.View()),
		footer,
	)
}
