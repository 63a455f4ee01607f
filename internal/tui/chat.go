package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
)

const (
	chatHeaderHeight = 2
	chatFooterHeight = 6
	maxMessageLength = 5000
)

// returns a new chat screen
func NewChatModel(client *ChatClient) *ChatModel {
	ti := textinput.New()
	ti.Placeholder = "ask about our services, pricing or support..."
	ti.Focus()
	ti.CharLimit = maxMessageLength
	ti.Width = 80
	ti.Prompt = "> "
	ti.PromptStyle = promptStyle
	ti.TextStyle = lipgloss.NewStyle().Foreground(colorWhite)

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = infoStyle

	return &ChatModel{
		input:   ti,
		spinner: sp,
		client:  client,
	}
}

func (m *ChatModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m *ChatModel) Update(msg tea.Msg) (*ChatModel, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "enter":
			return m, m.submit(m.input.Value())

		case "tab":
			// fill the input with the first suggestion
			if len(m.suggestions) > 0 && m.input.Value() == "" {
				m.input.SetValue(m.suggestions[0])
				m.input.CursorEnd()
			}

			return m, nil

		case "ctrl+l":
			m.reset()
			return m, nil
		}

	case ChatResponseMsg:
		m.isFetching = false
		m.conversationID = msg.conversationID
		m.suggestions = msg.suggestions
		m.history = append(m.history, MessageModel{
			Role:     "assistant",
			Content:  msg.response,
			Metadata: msg.metadata,
		})
		m.shouldScrollBottom = true
		m.input.Focus()
		m.refresh()

		return m, nil

	case ChatErrorMsg:
		m.isFetching = false
		m.history = append(m.history, MessageModel{
			Role:    "error",
			Content: msg.err.Error(),
		})
		m.shouldScrollBottom = true
		m.input.Focus()
		m.refresh()

		return m, nil

	case spinner.TickMsg:
		if !m.isFetching {
			return m, nil
		}

		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)

		return m, cmd

	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
	}

	var cmd tea.Cmd

	m.input, cmd = m.input.Update(msg)
	cmds = append(cmds, cmd)

	if m.ready {
		m.viewport, cmd = m.viewport.Update(msg)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

// sends message unless it is blank or a request is in flight
func (m *ChatModel) submit(message string) tea.Cmd {
	message = strings.TrimSpace(message)
	if message == "" || m.isFetching {
		return nil
	}

	m.isFetching = true
	m.suggestions = nil
	m.input.SetValue("")
	m.history = append(m.history, MessageModel{Role: "user", Content: message})
	m.shouldScrollBottom = true
	m.refresh()

	return tea.Batch(m.client.SendCmd(message, m.conversationID), m.spinner.Tick)
}

// starts a new conversation
func (m *ChatModel) reset() {
	m.input.SetValue("")
	m.history = nil
	m.suggestions = nil
	m.conversationID = ""
	m.isFetching = false
	m.refresh()
}

func (m *ChatModel) resize(width, height int) {
	m.width = width
	m.height = height
	m.input.Width = max(10, width-10)

	vpHeight := max(3, height-chatHeaderHeight-chatFooterHeight)

	if !m.ready {
		m.viewport = viewport.New(width-4, vpHeight)
		m.ready = true
	} else {
		m.viewport.Width = width - 4
		m.viewport.Height = vpHeight
	}

	renderer, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle("dark"),
		glamour.WithWordWrap(max(20, width-8)),
	)
	if err == nil {
		m.glamourRenderer = renderer
	}

	m.refresh()
}

// re-renders the transcript into the viewport
func (m *ChatModel) refresh() {
	if !m.ready {
		return
	}

	m.viewport.SetContent(m.renderHistory())

	if m.shouldScrollBottom {
		m.viewport.GotoBottom()
		m.shouldScrollBottom = false
	}
}

func (m *ChatModel) renderHistory() string {
	if len(m.history) == 0 {
		return infoStyle.Render("ready! ask a question and press enter. ctrl+l starts a new conversation.")
	}

	var b strings.Builder

	for _, msg := range m.history {
		switch msg.Role {
		case "user":
			b.WriteString(userLabelStyle.Render("you"))
			b.WriteString("\n")
			b.WriteString(msg.Content)

		case "assistant":
			b.WriteString(assistantLabelStyle.Render("support"))
			b.WriteString("\n")
			b.WriteString(m.renderMarkdown(msg.Content))

			if msg.Metadata != "" {
				b.WriteString("\n")
				b.WriteString(infoStyle.Render(msg.Metadata))
			}

		default:
			b.WriteString(errorStyle.Render("error: " + msg.Content))
		}

		b.WriteString("\n\n")
	}

	return b.String()
}

// answers are markdown; falls back to plain text without a renderer
func (m *ChatModel) renderMarkdown(content string) string {
	if m.glamourRenderer == nil {
		return content
	}

	rendered, err := m.glamourRenderer.Render(content)
	if err != nil {
		return content
	}

	return strings.TrimSpace(rendered)
}

func (m *ChatModel) View() string {
	if !m.ready {
		return "\n  loading..."
	}

	var b strings.Builder

	header := lipgloss.NewStyle().
		Bold(true).
		Foreground(colorWhite).
		Render("SUPPORT CHAT")

	help := lipgloss.NewStyle().
		Foreground(colorGray).
		Render("[Enter: Send] [Tab: Suggestion] [Ctrl+L: New] [Ctrl+C: Exit]")

	headerLine := lipgloss.JoinHorizontal(lipgloss.Left,
		header,
		strings.Repeat(" ", max(0, m.width-lipgloss.Width(header)-lipgloss.Width(help)-2)),
		help,
	)

	b.WriteString(headerLine)
	b.WriteString("\n")
	b.WriteString(borderStyle.Width(m.width - 2).Render(m.viewport.View()))
	b.WriteString("\n")

	if len(m.suggestions) > 0 {
		b.WriteString(infoStyle.Render("try: " + strings.Join(m.suggestions, " · ")))
	}

	b.WriteString("\n")

	inputBox := borderStyle.
		Width(m.width - 4).
		Padding(0, 1).
		Render(m.input.View())

	b.WriteString(inputBox)
	b.WriteString("\n")

	if m.isFetching {
		b.WriteString(fmt.Sprintf("%s %s", m.spinner.View(), infoStyle.Render("waiting for support...")))
	}

	return b.String()
}
