package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/notedrop/notedrop/internal/content"
	"github.com/notedrop/notedrop/internal/route"
)

// handlePageKey drives the static pages and the not-found page.
func (m Model) handlePageKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Back) {
		return m.back()
	}
	if m.nav.current.Page == route.PageNotFound {
		return m, nil
	}
	var cmd tea.Cmd
	m.static.viewport, cmd = m.static.viewport.Update(msg)
	return m, cmd
}

// renderStaticContent renders the About, FAQ, Privacy or Terms page.
func (m *Model) renderStaticContent(width int) string {
	slug := m.nav.current.Page.Slug()
	if slug != m.static.slug {
		m.static.slug = slug
		m.static.viewport.GotoTop()
	}
	page, ok := content.Lookup(slug)
	if !ok {
		return ""
	}

	styles := m.theme.Styles()
	width = max(width, 20)

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(styles.AccentText.Bold(true).Render(page.Title))
	b.WriteString("\n")
	if page.Subtitle != "" {
		b.WriteString(styles.FaintText.Render(page.Subtitle))
		b.WriteString("\n")
	}

	body, err := content.RenderTerminal(page.Markdown, width, m.theme.Light)
	if err != nil {
		body = lipgloss.NewStyle().Width(width).Render(page.Markdown)
	}
	b.WriteString(body)
	b.WriteString("\n")
	b.WriteString(styles.AccentText.Render("b  Back"))
	b.WriteString("\n")

	return lipgloss.NewStyle().Padding(0, 2).Render(b.String())
}
