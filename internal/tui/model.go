package tui

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog"

	"supportbot/internal/domain"
)

// EnginePort is the TUI-facing subset of the turn engine.
type EnginePort interface {
	HandleTurn(ctx context.Context, sess domain.Session, text string) (string, domain.Session)
}

const greeting = "Hello! I'm Moses, your customer support assistant. How can I help you today?"

// Model is the Bubble Tea model for the chat application.
type Model struct {
	engine  EnginePort
	session domain.Session
	input   textinput.Model
	view    viewport.Model
	status  string
	ready   bool
	log     zerolog.Logger
}

// New creates a new chat model around a fresh session.
func New(engine EnginePort, session domain.Session, log zerolog.Logger) Model {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "Type your message and press Enter"
	ti.Focus()
	ti.CharLimit = 0
	vp := viewport.New(0, 0)
	return Model{engine: engine, session: session, input: ti, view: vp, status: "Ready.", log: log}
}

// Init initializes the model (text input cursor blink).
func (m Model) Init() tea.Cmd { return textinput.Blink }

// Update handles key and window events and updates the view state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.ready = true
		_, ch := chatBoxStyle.GetFrameSize()
		_, ih := inputBoxStyle.GetFrameSize()
		reserved := 2 + 1 + ih + 1 // header + greeting, spacer, input frame, status
		vh := msg.Height - reserved
		if vh < 3 {
			vh = 3
		}
		m.view.Width = max(20, msg.Width)
		m.view.Height = max(3, vh-ch)
		m.view.SetContent(m.renderConversation())
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC || msg.Type == tea.KeyCtrlD {
			return m, tea.Quit
		}
		if msg.String() == "enter" {
			text := strings.TrimSpace(m.input.Value())
			if text == "" {
				break
			}
			m.input.Reset()
			if path, ok := strings.CutPrefix(text, "/attach "); ok {
				m.acknowledgeAttachment(strings.TrimSpace(path))
			} else {
				// the reply is already part of the session transcript
				_, m.session = m.engine.HandleTurn(context.Background(), m.session, text)
				if m.session.Active() {
					m.status = fmt.Sprintf("Topic: %s / %s", m.session.Intent, m.session.SubIntent)
				} else {
					m.status = "Ready."
				}
			}
			m.view.SetContent(m.renderConversation())
			m.view.GotoBottom()
			return m, nil
		}
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// View renders the chat layout.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	header := lipgloss.NewStyle().Bold(true).Render("Customer Support Chatbot")
	hello := lipgloss.NewStyle().Foreground(lipgloss.Color("8")).Render(greeting)
	chat := chatBoxStyle.Render(m.view.View())
	input := inputBoxStyle.Render(m.input.View())
	status := lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Render(m.status)
	return header + "\n" + hello + "\n" + chat + "\n" + input + "\n" + status
}

// acknowledgeAttachment records receipt of an uploaded file. The file is not
// processed further.
func (m *Model) acknowledgeAttachment(path string) {
	info, err := os.Stat(path)
	if err != nil {
		m.status = "Could not read file: " + path
		return
	}
	m.log.Info().Str("session", m.session.ID).Str("filename", info.Name()).Int64("size", info.Size()).Msg("file uploaded")
	m.session.Conversation = append(m.session.Conversation, domain.Turn{
		Speaker: domain.SpeakerBot,
		Text:    fmt.Sprintf("File '%s' uploaded successfully.", info.Name()),
	})
	m.status = "Attachment received."
}

func (m Model) renderConversation() string {
	if len(m.session.Conversation) == 0 {
		return "No messages yet."
	}
	width := max(20, m.view.Width-4)
	lines := make([]string, 0, len(m.session.Conversation))
	for _, turn := range m.session.Conversation {
		switch turn.Speaker {
		case domain.SpeakerUser:
			lines = append(lines, userStyle.Width(width).Render("You: "+turn.Text))
		case domain.SpeakerBot:
			lines = append(lines, botStyle.Width(width).Render("Bot: "+turn.Text))
		}
	}
	return strings.Join(lines, "\n")
}

var (
	chatBoxStyle  = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	inputBoxStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	userStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("2")).Align(lipgloss.Right)
	botStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("7")).Align(lipgloss.Left)
)

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
