package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// returns a new welcome screen
func NewWelcome(mode string, client *ChatClient) *Welcome {
	commands := []Command{
		{Name: "chat", Description: "talk to customer support", Available: true},
		{Name: "status", Description: "show the knowledge base index status", Available: true},
		{Name: "rebuild", Description: "rebuild the knowledge base from the company PDF", Available: mode == "development"},
		{Name: "quit", Description: "exit", Available: true},
	}

	return &Welcome{
		mode:     mode,
		commands: commands,
		client:   client,
	}
}

func (m *Welcome) Update(msg tea.Msg) (*Welcome, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "enter":
			cmd := m.executeCommand()
			m.input = ""

			return m, cmd

		case "backspace":
			if len(m.input) > 0 {
				m.input = m.input[:len(m.input)-1]
			}

		default:
			if len(msg.String()) == 1 {
				m.input += msg.String()
			}
		}

	case StatusMsg:
		m.status = formatStatus(msg.status)

	case IngesterCompleteMsg:
		m.status = "knowledge base rebuilt"
	}

	return m, nil
}

func (m *Welcome) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render(logo))
	b.WriteString("\n")
	b.WriteString(subtitleStyle.Render("TechCorp Solutions customer support"))
	b.WriteString("\n\n")

	modeText := fmt.Sprintf("mode: %s", strings.ToUpper(m.mode))
	b.WriteString(infoStyle.Render(modeText))
	b.WriteString("\n")

	if m.status != "" {
		b.WriteString(infoStyle.Render(m.status))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(lipgloss.NewStyle().Bold(true).Foreground(colorWhite).Render("commands:"))
	b.WriteString("\n\n")

	for _, cmd := range m.commands {
		if !cmd.Available {
			continue
		}

		line := fmt.Sprintf("  %s %s",
			commandStyle.Render(cmd.Name),
			commandDescStyle.Render("- "+cmd.Description),
		)
		b.WriteString(line)
		b.WriteString("\n")
	}

	b.WriteString("\n")

	prompt := promptStyle.Render("> ")
	input := inputStyle.Render(m.input + "_")
	b.WriteString(prompt + input)
	b.WriteString("\n\n")

	b.WriteString(helpStyle.Render("type a command and press enter. press ctrl+c to quit."))

	return b.String()
}

func (m *Welcome) executeCommand() tea.Cmd {
	cmd := strings.TrimSpace(m.input)

	switch cmd {
	case "quit":
		return tea.Quit

	case "status":
		return m.client.StatusCmd()

	case "rebuild":
		if m.mode == "development" {
			m.status = "rebuilding knowledge base..."
			return runIngester
		}

		return func() tea.Msg {
			return ErrorMsg{err: fmt.Errorf("rebuild not available in production mode")}
		}

	case "chat":
		return func() tea.Msg {
			return EnterChatMsg{}
		}

	default:
		if cmd != "" {
			return func() tea.Msg {
				return ErrorMsg{err: fmt.Errorf("unknown command: %s", cmd)}
			}
		}

		return nil
	}
}
