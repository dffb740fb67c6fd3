// Package tui is a terminal front end for a chat session.
//
// All session mutations happen inside Update: Enter begins a turn, the chat request
// runs as a command that only talks to the network, and its result message completes
// the turn. This keeps the thread single-writer even though commands run on goroutines.
package tui

import (
	"context"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/korylprince/twin-client/chatbot"
)

type chatResultMsg struct {
	resp *chatbot.ChatResponse
	err  error
}

type statusMsg struct{ err error }

type refreshMsg struct{}

// Model is the bubbletea model for a chat session
type Model struct {
	ctx     context.Context
	sess    *chatbot.Session
	refresh time.Duration

	input      textinput.Model
	spin       spinner.Model
	prompts    []string
	nextPrompt int
	width      int
}

// New returns a Model for sess. If refresh is positive the status is fetched again on that interval.
func New(ctx context.Context, sess *chatbot.Session, refresh time.Duration) Model {
	in := textinput.New()
	in.Placeholder = "Ask me anything"
	in.Prompt = "You> "
	in.CharLimit = 0
	in.Width = 60
	in.Focus()

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = spinnerStyle

	return Model{
		ctx:     ctx,
		sess:    sess,
		refresh: refresh,
		input:   in,
		spin:    s,
		prompts: chatbot.SuggestedPrompts(),
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.fetchStatus())
}

func (m Model) fetchStatus() tea.Cmd {
	sess, ctx := m.sess, m.ctx
	return func() tea.Msg {
		return statusMsg{err: sess.Status.Fetch(ctx)}
	}
}

func (m Model) ask(turn *chatbot.Turn) tea.Cmd {
	sess, ctx := m.sess, m.ctx
	return func() tea.Msg {
		resp, err := sess.Orchestrator.Request(ctx, turn.Request)
		return chatResultMsg{resp: resp, err: err}
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.input.Width = max(msg.Width-len(m.input.Prompt)-2, 10)
		return m, nil

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			return m, tea.Quit

		case tea.KeyEnter:
			value := strings.TrimSpace(m.input.Value())
			if lower := strings.ToLower(value); lower == "exit" || lower == "quit" {
				return m, tea.Quit
			}

			turn, err := m.sess.Orchestrator.Begin(value)
			if err != nil {
				// empty input or a turn already in flight
				return m, nil
			}
			m.input.Reset()
			return m, tea.Batch(m.ask(turn), m.spin.Tick)

		case tea.KeyTab:
			if m.input.Value() == "" && len(m.prompts) > 0 {
				m.input.SetValue(m.prompts[m.nextPrompt])
				m.input.CursorEnd()
				m.nextPrompt = (m.nextPrompt + 1) % len(m.prompts)
			}
			return m, nil
		}

	case chatResultMsg:
		m.sess.Orchestrator.Complete(msg.resp, msg.err)
		return m, nil

	case statusMsg:
		if m.refresh > 0 {
			return m, tea.Tick(m.refresh, func(time.Time) tea.Msg { return refreshMsg{} })
		}
		return m, nil

	case refreshMsg:
		return m, m.fetchStatus()

	case spinner.TickMsg:
		if !m.sess.Orchestrator.Pending() {
			return m, nil
		}
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}
