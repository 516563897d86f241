package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/notedrop/notedrop/internal/filter"
	"github.com/notedrop/notedrop/internal/route"
	"github.com/notedrop/notedrop/internal/state"
)

// renderMain stacks the header, address bar, page body and command bar.
func (m Model) renderMain() string {
	var b strings.Builder

	b.WriteString(m.renderHeader())
	b.WriteString("\n")
	b.WriteString(m.renderAddressBar())
	b.WriteString("\n")

	switch m.nav.current.Page {
	case route.PageListing:
		b.WriteString(m.renderListingPage())
	case route.PageDetail:
		b.WriteString(padLines(m.detail.viewport.View(), m.bodyHeight()))
	case route.PageNotFound:
		b.WriteString(m.renderNotFound())
	default:
		b.WriteString(padLines(m.static.viewport.View(), m.bodyHeight()))
	}
	b.WriteString("\n")
	b.WriteString(m.renderCommandBar())

	return b.String()
}

// bodyHeight is the space between the address bar and the command bar.
func (m Model) bodyHeight() int {
	return max(m.height-3, 1)
}

// renderHeader shows the logo, connectivity and any transient status.
func (m Model) renderHeader() string {
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := NewBgStyle(m.theme.Surface)
	sep := bg.Spaces(2)

	var network string
	switch m.snapshot.Network() {
	case state.NetworkOnline:
		network = bg.Render("● Online", styles.SuccessText)
	case state.NetworkOffline:
		network = bg.Render("● Offline", styles.DangerText)
	default:
		network = bg.Render("● Connecting...", styles.WarningText.Bold(true))
	}

	parts := []string{
		bg.Render("notedrop", styles.Logo),
		bg.Render("Network:", styles.FaintText) + bg.Space() + network,
	}
	if m.snapshot.IsOffline() && m.snapshot.LastError != nil {
		parts = append(parts, bg.Render(truncate(m.snapshot.LastError.Error(), 60), styles.MutedText))
	}
	if m.status != "" {
		parts = append(parts, bg.Render(m.status, styles.WarningText))
	}

	return styles.Header.Width(m.width).Render(strings.Join(parts, sep))
}

// renderAddressBar shows the current location, or the location editor.
func (m Model) renderAddressBar() string {
	styles := m.theme.Styles().WithBackground(m.theme.SurfaceAlt)
	bg := NewBgStyle(m.theme.SurfaceAlt)

	if m.editingAddress {
		return lipgloss.NewStyle().
			Background(lipgloss.Color(m.theme.FocusBg)).
			Width(m.width).
			Padding(0, 1).
			Render(styles.FaintText.Background(lipgloss.Color(m.theme.FocusBg)).Render("Location") + "  " + m.address.View())
	}
	label := bg.Render("Location", styles.FaintText) + bg.Spaces(2)
	location := truncate(m.Location(), max(m.width-14, 8))
	return lipgloss.NewStyle().
		Background(bg.Color()).
		Width(m.width).
		Padding(0, 1).
		Render(label + bg.Render(location, styles.AccentText))
}

// renderCommandBar lists the keys that apply to the current view.
func (m Model) renderCommandBar() string {
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := NewBgStyle(m.theme.Surface)

	type cmd struct{ key, desc string }
	var commands []cmd

	switch {
	case m.editingAddress:
		commands = []cmd{{"enter", "Go"}, {"esc", "Cancel"}}
	case m.searching:
		commands = []cmd{{"enter", "Apply"}, {"esc", "Done"}}
	case m.nav.current.Page == route.PageListing && m.engine.Menu() != filter.MenuNone:
		commands = []cmd{{"j/k", "Choose"}, {"enter", "Select"}, {"esc", "Close"}}
	case m.nav.current.Page == route.PageListing:
		commands = []cmd{
			{"/", "Search"},
			{"1-4", "Filters"},
			{"x", "Clear"},
			{"enter", "Open"},
		}
		if m.hasMore() {
			commands = append(commands, cmd{"m", "More"})
		}
		commands = append(commands, cmd{":", "Go to"}, cmd{"?", "More"}, cmd{"q", "Quit"})
	case m.nav.current.Page == route.PageDetail:
		commands = []cmd{
			{"j/k", "Scroll"},
			{"b", "Back to all airdrops"},
			{"r", "Reload"},
			{"?", "More"},
			{"q", "Quit"},
		}
	default:
		commands = []cmd{
			{"j/k", "Scroll"},
			{"b", "Back"},
			{"A/F/P/S", "Pages"},
			{"?", "More"},
			{"q", "Quit"},
		}
	}

	colon := bg.Sep(":")
	sep := bg.Spaces(2)

	segments := make([]string, 0, len(commands)+1)
	for _, c := range commands {
		segments = append(segments,
			bg.Render(c.key, styles.AccentText)+colon+bg.Render(c.desc, styles.MutedText))
	}

	segments = append(segments,
		bg.Render("T", styles.AccentText)+colon+bg.Render(m.theme.Name, styles.FaintText))

	return styles.Header.Width(m.width).Render(strings.Join(segments, sep))
}

// renderNotFound is shown for locations that match no page.
func (m Model) renderNotFound() string {
	styles := m.theme.Styles()
	body := lipgloss.JoinVertical(lipgloss.Center,
		styles.Text.Bold(true).Render("Page not found"),
		"",
		styles.MutedText.Render("Press b to go back to all airdrops."),
	)
	return lipgloss.Place(m.width, m.bodyHeight(), lipgloss.Center, lipgloss.Center, body)
}
