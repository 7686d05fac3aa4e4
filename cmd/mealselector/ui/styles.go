// Visual styling for the Meal Selector TUI, with light/dark mode support.
package ui

import (
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	// Light mode colors
	LightBackground = lipgloss.Color("#fdf6ee")
	LightForeground = lipgloss.Color("#3b2f2f")
	LightPrimary    = lipgloss.Color("#d35400") // Pumpkin
	LightAccent     = lipgloss.Color("#27ae60") // Avocado green
	LightMuted      = lipgloss.Color("#9b8f84")
	LightBorder     = lipgloss.Color("#e0d5c8")
	LightCard       = lipgloss.Color("#ffffff")

	// Dark mode colors
	DarkBackground = lipgloss.Color("#1f1b16")
	DarkForeground = lipgloss.Color("#f2ece4")
	DarkPrimary    = lipgloss.Color("#e67e22")
	DarkAccent     = lipgloss.Color("#2ecc71")
	DarkMuted      = lipgloss.Color("#7d736a")
	DarkBorder     = lipgloss.Color("#3a332c")
	DarkCard       = lipgloss.Color("#2a241e")

	// Semantic colors (same in both modes)
	Destructive = lipgloss.Color("#e53935")
	Success     = lipgloss.Color("#27ae60")
	Warning     = lipgloss.Color("#FFC107")
)

// Theme holds the current color scheme.
type Theme struct {
	Background lipgloss.Color
	Foreground lipgloss.Color
	Primary    lipgloss.Color
	Accent     lipgloss.Color
	Muted      lipgloss.Color
	Border     lipgloss.Color
	Card       lipgloss.Color
	IsDark     bool
}

// LightTheme returns the light mode theme.
func LightTheme() Theme {
	return Theme{
		Background: LightBackground,
		Foreground: LightForeground,
		Primary:    LightPrimary,
		Accent:     LightAccent,
		Muted:      LightMuted,
		Border:     LightBorder,
		Card:       LightCard,
	}
}

// DarkTheme returns the dark mode theme.
func DarkTheme() Theme {
	return Theme{
		Background: DarkBackground,
		Foreground: DarkForeground,
		Primary:    DarkPrimary,
		Accent:     DarkAccent,
		Muted:      DarkMuted,
		Border:     DarkBorder,
		Card:       DarkCard,
		IsDark:     true,
	}
}

// ThemeFor resolves a configured theme name; empty means auto-detect.
func ThemeFor(name string) Theme {
	switch name {
	case "light":
		return LightTheme()
	case "dark":
		return DarkTheme()
	default:
		return DetectTheme()
	}
}

// DetectTheme guesses the terminal background from COLORFGBG, the same
// heuristic codebases around bubbletea tend to use. Defaults to light.
func DetectTheme() Theme {
	if os.Getenv("MEALSELECTOR_DARK_MODE") == "1" {
		return DarkTheme()
	}
	colorTerm := os.Getenv("COLORFGBG")
	if parts := strings.Split(colorTerm, ";"); len(parts) == 2 {
		if bgIdx, err := strconv.Atoi(parts[1]); err == nil {
			if (bgIdx >= 0 && bgIdx <= 6) || bgIdx == 8 {
				return DarkTheme()
			}
		}
	}
	return LightTheme()
}

// Styles holds all the styled components.
type Styles struct {
	Theme Theme

	// Text
	Title    lipgloss.Style
	Subtitle lipgloss.Style
	Label    lipgloss.Style
	Hint     lipgloss.Style
	Muted    lipgloss.Style

	// Forms
	Card         lipgloss.Style
	FocusedInput lipgloss.Style
	BlurredInput lipgloss.Style
	SubmitButton lipgloss.Style

	// Status banners
	Success lipgloss.Style
	Error   lipgloss.Style

	// Chat
	UserBubble lipgloss.Style
	BotBubble  lipgloss.Style
	BotName    lipgloss.Style

	// Chrome
	Footer  lipgloss.Style
	Spinner lipgloss.Style
}

// NewStyles creates a Styles instance for the given theme.
func NewStyles(theme Theme) Styles {
	return Styles{
		Theme: theme,

		Title: lipgloss.NewStyle().
			Foreground(theme.Primary).
			Bold(true).
			MarginBottom(1),

		Subtitle: lipgloss.NewStyle().
			Foreground(theme.Muted).
			Italic(true).
			MarginBottom(1),

		Label: lipgloss.NewStyle().
			Foreground(theme.Foreground).
			Bold(true),

		Hint: lipgloss.NewStyle().
			Foreground(theme.Muted),

		Muted: lipgloss.NewStyle().
			Foreground(theme.Muted),

		Card: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(theme.Border).
			Padding(1, 3),

		FocusedInput: lipgloss.NewStyle().
			Foreground(theme.Primary),

		BlurredInput: lipgloss.NewStyle().
			Foreground(theme.Muted),

		SubmitButton: lipgloss.NewStyle().
			Background(theme.Accent).
			Foreground(lipgloss.Color("#ffffff")).
			Padding(0, 2).
			Bold(true),

		Success: lipgloss.NewStyle().
			Foreground(Success).
			Bold(true),

		Error: lipgloss.NewStyle().
			Foreground(Destructive).
			Bold(true),

		UserBubble: lipgloss.NewStyle().
			Foreground(theme.Primary).
			PaddingLeft(2),

		BotBubble: lipgloss.NewStyle().
			Foreground(theme.Foreground).
			PaddingLeft(2).
			BorderLeft(true).
			BorderStyle(lipgloss.ThickBorder()).
			BorderForeground(theme.Accent),

		BotName: lipgloss.NewStyle().
			Foreground(theme.Accent).
			Bold(true),

		Footer: lipgloss.NewStyle().
			Foreground(theme.Muted).
			MarginTop(1),

		Spinner: lipgloss.NewStyle().
			Foreground(theme.Accent),
	}
}

// DefaultStyles returns styles with the auto-detected theme.
func DefaultStyles() Styles {
	return NewStyles(DetectTheme())
}

// RenderDivider returns a horizontal divider.
func (s Styles) RenderDivider(width int) string {
	if width <= 0 {
		return ""
	}
	return s.Muted.Render(strings.Repeat("─", width))
}
