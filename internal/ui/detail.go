package ui

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"go.uber.org/zap"

	"github.com/notedrop/notedrop/internal/airdrop"
	"github.com/notedrop/notedrop/internal/catalog"
	"github.com/notedrop/notedrop/internal/content"
	"github.com/notedrop/notedrop/internal/route"
)

func (m Model) handleDetailKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Back):
		return m.back()
	case key.Matches(msg, m.keys.Reload):
		return m, m.startDetail(m.nav.current.ID)
	}
	var cmd tea.Cmd
	m.detail.viewport, cmd = m.detail.viewport.Update(msg)
	return m, cmd
}

// startDetail begins a fetch for id. Replies to older requests are dropped.
func (m *Model) startDetail(id string) tea.Cmd {
	m.detail.seq++
	m.detail.id = id
	m.detail.loading = true
	m.detail.loaded = false
	m.detail.err = nil
	m.detail.record = airdrop.Record{}
	m.detail.viewport.GotoTop()
	m.refreshViewports()
	return m.fetchDetailCmd(m.detail.seq, id)
}

func (m *Model) handleDetailLoaded(msg detailLoadedMsg) {
	if msg.seq != m.detail.seq || m.nav.current.Page != route.PageDetail {
		m.logger.Debug("discarding stale detail", zap.String("id", msg.id), zap.Int("seq", msg.seq))
		return
	}
	m.detail.loading = false
	if msg.err == nil && msg.record.ID == "" {
		msg.err = fmt.Errorf("airdrop %q: %w", msg.id, catalog.ErrNotFound)
	}
	if msg.err != nil {
		m.detail.err = msg.err
		if !errors.Is(msg.err, catalog.ErrNotFound) {
			m.logger.Warn("load airdrop", zap.String("id", msg.id), zap.Error(msg.err))
		}
	} else {
		m.detail.record = msg.record
		m.detail.loaded = true
	}
	m.refreshViewports()
}

// renderDetailContent renders the scrollable body of the detail view.
func (m Model) renderDetailContent(width int) string {
	styles := m.theme.Styles()
	width = max(width, 20)
	pad := lipgloss.NewStyle().Padding(0, 2)

	switch {
	case m.detail.loading:
		return pad.Render("\n" + styles.WarningText.Render("Loading airdrop..."))
	case m.detail.err != nil:
		failure := catalog.Classify(m.detail.err)
		lines := []string{"", styles.DangerText.Render(failure.Message()), ""}
		if failure.Retryable() {
			lines = append(lines, styles.MutedText.Render("Press r to retry."))
		}
		lines = append(lines, styles.AccentText.Render("b  Back to all airdrops"))
		return pad.Render(strings.Join(lines, "\n"))
	case !m.detail.loaded:
		return ""
	}

	r := m.detail.record
	now := m.now()
	wrap := lipgloss.NewStyle().Width(width)
	var b strings.Builder

	title := styles.Text.Bold(true).Render(r.DisplayName())
	if r.IsNew(now) {
		title += " " + styles.Badge(m.theme.Accent).Render("NEW")
	}
	b.WriteString("\n" + title + "\n")
	b.WriteString(wrap.Render(styles.MutedText.Render(r.DisplaySubtitle())) + "\n\n")

	badges := make([]string, 0, 3)
	if chain := strings.TrimSpace(r.Chain); chain != "" {
		badges = append(badges, styles.Badge(m.theme.Info).Render(chain))
	}
	badges = append(badges, styles.Badge(ternary(r.IsFree(), m.theme.Success, m.theme.Warning)).Render(r.CostLabel()))
	if stage := r.StageLabel(); stage != "" {
		badges = append(badges, styles.StageStyle(r.StageKind()).Render(stage))
	}
	b.WriteString(strings.Join(badges, " ") + "\n\n")

	if banner := r.Banner(); banner != "" {
		b.WriteString(styles.FaintText.Render("Image  ") + styles.InfoText.Render(truncate(banner, width-7)) + "\n")
	}
	if !r.CreatedAt.IsZero() {
		b.WriteString(styles.FaintText.Render("Added  ") + styles.MutedText.Render(humanize.Time(r.CreatedAt)) + "\n")
	}

	if desc := strings.TrimSpace(r.Description); desc != "" {
		b.WriteString(m.section("About"))
		rendered, err := content.RenderTerminal(desc, width, m.theme.Light)
		if err != nil {
			rendered = wrap.Render(desc)
		}
		b.WriteString(strings.Trim(rendered, "\n") + "\n")
	}

	b.WriteString(m.section("Requirements"))
	b.WriteString(m.renderEntries(r.Requirements.Normalize(), "No specific requirements listed.", width))

	b.WriteString(m.section("How to Participate"))
	b.WriteString(m.renderEntries(r.HowToSteps.Normalize(), "No steps listed.", width))

	if backers := r.CleanBackers(); len(backers) > 0 {
		b.WriteString(m.section("Backers"))
		for i, name := range backers {
			fmt.Fprintf(&b, "%s %s\n", styles.AccentText.Render(fmt.Sprintf("%d.", i+1)), styles.Text.Render(name))
		}
	}

	if comment := strings.TrimSpace(r.Comment); comment != "" {
		b.WriteString(m.section("Comment"))
		b.WriteString(wrap.Render(styles.Text.Italic(true).Render(comment)) + "\n")
	}

	b.WriteString("\n" + styles.AccentText.Render("b  Back to all airdrops") + "\n")
	return pad.Render(b.String())
}

func (m Model) section(title string) string {
	styles := m.theme.Styles()
	return "\n" + styles.AccentText.Bold(true).Render(title) + "\n"
}

// renderEntries numbers requirement or step entries.
func (m Model) renderEntries(entries []airdrop.Entry, empty string, width int) string {
	styles := m.theme.Styles()
	if len(entries) == 0 {
		return styles.MutedText.Render(empty) + "\n"
	}
	indent := lipgloss.NewStyle().Width(max(width-4, 10)).PaddingLeft(4)
	var b strings.Builder
	for i, e := range entries {
		fmt.Fprintf(&b, "%s %s\n", styles.AccentText.Render(fmt.Sprintf("%d.", i+1)), styles.Text.Bold(true).Render(e.Title))
		if e.Description != "" {
			b.WriteString(indent.Render(styles.MutedText.Render(e.Description)) + "\n")
		}
	}
	return b.String()
}
