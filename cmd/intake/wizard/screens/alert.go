package screens

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rayahealth/intake/cmd/intake/wizard/components"
)

var (
	alertTitleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Bold(true)

	alertMessageStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("252"))
)

// AlertScreen blocks the wizard with a message until it is dismissed.
type AlertScreen struct {
	title     string
	message   string
	done      bool
	cancelled bool
	width     int
	height    int
}

// NewAlertScreen creates a new alert
func NewAlertScreen(title, message string) *AlertScreen {
	return &AlertScreen{
		title:   title,
		message: message,
	}
}

// Init implements tea.Model
func (s *AlertScreen) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model
func (s *AlertScreen) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			s.cancelled = true
			return s, tea.Quit
		case "esc", "enter", " ":
			s.done = true
		}
	case tea.WindowSizeMsg:
		s.width = msg.Width
		s.height = msg.Height
	}

	return s, nil
}

// View implements tea.Model
func (s *AlertScreen) View() string {
	var sb strings.Builder
	sb.WriteString(alertTitleStyle.Render("✗ " + s.title))
	sb.WriteString("\n\n")
	sb.WriteString(alertMessageStyle.Render(s.message))

	panel := components.PanelStyle.BorderForeground(lipgloss.Color("196")).Render(sb.String())
	return panel + "\n\n" + components.HintStyle.Render("Press Enter to continue")
}

// Done returns true once the alert was dismissed
func (s *AlertScreen) Done() bool {
	return s.done
}

// Cancelled returns true if the user quit
func (s *AlertScreen) Cancelled() bool {
	return s.cancelled
}

// Message returns the text shown
func (s *AlertScreen) Message() string {
	return s.message
}
