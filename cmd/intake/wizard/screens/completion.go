package screens

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rayahealth/intake/cmd/intake/wizard/components"
)

var (
	completionSuccessStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("42")).
				Bold(true)

	completionTextStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("252"))

	completionLinkStyle = lipgloss.NewStyle().
				Background(lipgloss.Color("236")).
				Foreground(lipgloss.Color("252")).
				Padding(0, 1)

	completionButtonFocusedStyle = lipgloss.NewStyle().
					Background(lipgloss.Color("33")).
					Foreground(lipgloss.Color("255")).
					Padding(0, 2).
					Bold(true)
)

// CompletionMsg describes a finished intake.
type CompletionMsg struct {
	Title   string
	Message string
	// ListTitle heads Items.
	ListTitle string
	Items     []string
	// Link is where the user goes next, if anywhere.
	Link string
}

// CompletionScreen is shown after a successful submission
type CompletionScreen struct {
	msg    CompletionMsg
	done   bool
	width  int
	height int
}

// NewCompletionScreen creates a new completion screen
func NewCompletionScreen(msg CompletionMsg) *CompletionScreen {
	return &CompletionScreen{msg: msg}
}

// Init implements tea.Model
func (s *CompletionScreen) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model
func (s *CompletionScreen) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc", "enter", "q":
			s.done = true
			return s, tea.Quit
		}
	case tea.WindowSizeMsg:
		s.width = msg.Width
		s.height = msg.Height
	}

	return s, nil
}

// View implements tea.Model
func (s *CompletionScreen) View() string {
	var sb strings.Builder

	sb.WriteString(completionSuccessStyle.Render("🎉 " + s.msg.Title))
	sb.WriteString("\n\n")
	sb.WriteString(completionTextStyle.Render(s.msg.Message))
	sb.WriteString("\n\n")

	if len(s.msg.Items) > 0 {
		sb.WriteString(components.TitleStyle.Render(s.msg.ListTitle))
		sb.WriteString("\n")
		for _, item := range s.msg.Items {
			sb.WriteString("  ✓ ")
			sb.WriteString(item)
			sb.WriteString("\n")
		}
		sb.WriteString("\n")
	}

	if s.msg.Link != "" {
		sb.WriteString("Continue at ")
		sb.WriteString(completionLinkStyle.Render(s.msg.Link))
		sb.WriteString("\n\n")
	}

	sb.WriteString(completionButtonFocusedStyle.Render("Exit"))
	sb.WriteString("\n\n")
	sb.WriteString(components.HintStyle.Render("Press Enter or q to exit"))

	return sb.String()
}

// Done returns true if the user is finished
func (s *CompletionScreen) Done() bool {
	return s.done
}
