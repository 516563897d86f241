package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/notedrop/notedrop/internal/logtail"
)

func (m *Model) handleLogsLoaded(msg logsLoadedMsg) {
	switch {
	case msg.err != nil:
		m.logLines = []string{"Could not read log: " + msg.err.Error()}
	case len(msg.lines) == 0:
		m.logLines = []string{"No log entries yet."}
	default:
		m.logLines = msg.lines
	}
	m.logViewport.Width = max(m.width-2, 1)
	m.logViewport.Height = max(m.height-2, 1)
	m.logViewport.SetContent(m.renderLogLines())
	m.logViewport.GotoBottom()
}

// renderLogLines formats zap JSON lines and colors them by level.
func (m Model) renderLogLines() string {
	styles := m.theme.Styles()
	width := max(m.width-4, 10)
	out := make([]string, 0, len(m.logLines))
	for _, line := range m.logLines {
		entry := logtail.Parse(line)
		text := truncate(logtail.Format(entry), width)
		var style lipgloss.Style
		switch strings.ToLower(entry.Level) {
		case "error", "dpanic", "panic", "fatal":
			style = styles.DangerText
		case "warn":
			style = styles.WarningText
		case "debug":
			style = styles.FaintText
		default:
			style = styles.Text
		}
		out = append(out, style.Render(text))
	}
	return strings.Join(out, "\n")
}

// renderLogs shows the application log in a full-screen box.
func (m Model) renderLogs() string {
	title := "Application Log"
	if m.logPath != "" {
		title += " · " + m.logPath
	}
	return m.renderTitledBox(title, m.logViewport.View(), m.width, m.height, true)
}
