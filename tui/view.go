package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/korylprince/twin-client/twin"
)

var (
	headerStyle  = lipgloss.NewStyle().Bold(true)
	faintStyle   = lipgloss.NewStyle().Faint(true)
	bannerStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("9"))
	userStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	twinStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("10"))
	spinnerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	panelStyle   = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			Padding(0, 1)
)

// MeetingBanner is shown while the owner is in a meeting
const MeetingBanner = "📅 In a meeting right now"

func (m Model) View() string {
	var b strings.Builder

	b.WriteString(m.panelView())
	b.WriteString("\n\n")

	msgs := m.sess.Thread.Messages()
	if len(msgs) == 0 {
		b.WriteString(faintStyle.Render("Try asking (tab to fill):"))
		b.WriteString("\n")
		for _, p := range m.prompts {
			b.WriteString(faintStyle.Render("  • " + p))
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	for _, msg := range msgs {
		b.WriteString(m.messageView(msg))
		b.WriteString("\n")
	}

	if m.sess.Orchestrator.Pending() {
		b.WriteString(m.spin.View() + " Thinking…\n\n")
	}

	b.WriteString(m.input.View())
	b.WriteString("\n")
	b.WriteString(faintStyle.Render("enter send • tab suggestion • esc quit"))
	b.WriteString("\n")

	return b.String()
}

func (m Model) panelView() string {
	p := twin.DescribeStatus(m.sess.Status.Current())
	if !p.Known {
		return panelStyle.Render(p.Emoji + " Loading status…")
	}

	lines := []string{
		headerStyle.Render(p.Badge()) + faintStyle.Render(fmt.Sprintf(" · energy %s · %s", p.Energy, p.MeetingsLine())),
	}
	if p.Banner {
		lines = append(lines, bannerStyle.Render(MeetingBanner))
	}
	if p.Summary != "" {
		lines = append(lines, m.wrap(faintStyle, p.Summary))
	}

	return panelStyle.Render(strings.Join(lines, "\n"))
}

func (m Model) messageView(msg twin.Message) string {
	var b strings.Builder
	if msg.Role == twin.RoleUser {
		b.WriteString(userStyle.Render("You: "))
	} else {
		b.WriteString(twinStyle.Render("Twin: "))
	}
	b.WriteString(m.wrap(lipgloss.NewStyle(), msg.Content))
	b.WriteString("\n")

	if len(msg.Sources) > 0 {
		b.WriteString(faintStyle.Render("  Sources: " + strings.Join(msg.Sources, ", ")))
		b.WriteString("\n")
	}
	return b.String()
}

func (m Model) wrap(style lipgloss.Style, s string) string {
	if m.width > 0 {
		style = style.Width(m.width - 4)
	}
	return style.Render(s)
}
