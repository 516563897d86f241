package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/notedrop/notedrop/internal/airdrop"
	"github.com/notedrop/notedrop/internal/catalog"
	"github.com/notedrop/notedrop/internal/filter"
	"github.com/notedrop/notedrop/internal/route"
)

// Empty-state messages.
const (
	emptyBackendText  = "No airdrops available at the moment."
	emptyFilteredText = "No airdrops match your filters"
)

func (m Model) handleListingKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	visible := m.visible()

	switch {
	case key.Matches(msg, m.keys.Search):
		m.engine.CloseMenu()
		m.searching = true
		m.search.CursorEnd()
		return m, m.search.Focus()

	case key.Matches(msg, m.keys.ChainMenu):
		m.openMenu(filter.MenuChain)
	case key.Matches(msg, m.keys.CostMenu):
		m.openMenu(filter.MenuCost)
	case key.Matches(msg, m.keys.StageMenu):
		m.openMenu(filter.MenuStage)
	case key.Matches(msg, m.keys.NewMenu):
		m.openMenu(filter.MenuNew)

	case key.Matches(msg, m.keys.Clear):
		m.clearFilters()

	case key.Matches(msg, m.keys.LoadMore):
		if m.hasMore() && !m.listing.loading {
			m.listing.loading = true
			return m, m.fetchPageCmd(m.listing.pages + 1)
		}

	case key.Matches(msg, m.keys.Reload):
		m.listing.loading = true
		m.listing.err = nil
		return m, m.fetchPageCmd(1)

	case key.Matches(msg, m.keys.Open):
		if m.listing.selected >= 0 && m.listing.selected < len(visible) {
			return m.navigate(route.Detail(visible[m.listing.selected].ID))
		}

	case key.Matches(msg, m.keys.Back):
		if len(m.nav.history) > 0 {
			return m.back()
		}

	case key.Matches(msg, m.keys.Up):
		m.moveSelection(-1, len(visible))
	case key.Matches(msg, m.keys.Down):
		m.moveSelection(1, len(visible))
	case key.Matches(msg, m.keys.Top):
		m.listing.selected = 0
	case key.Matches(msg, m.keys.Bottom):
		m.listing.selected = max(len(visible)-1, 0)
	case key.Matches(msg, m.keys.PageUp):
		m.moveSelection(-m.perScreen(), len(visible))
	case key.Matches(msg, m.keys.PageDown):
		m.moveSelection(m.perScreen(), len(visible))
	}
	return m, nil
}

func (m *Model) moveSelection(delta, count int) {
	if count == 0 {
		m.listing.selected = 0
		return
	}
	m.listing.selected = min(max(m.listing.selected+delta, 0), count-1)
}

// handlePageLoaded merges a listing page. Page 1 replaces the records and
// tells the store whether the backend has any; later pages append.
func (m *Model) handlePageLoaded(msg pageLoadedMsg) {
	m.listing.loading = false
	if msg.err != nil {
		m.listing.err = msg.err
		m.logger.Warn("listing page failed",
			zap.Int("page", msg.page),
			zap.Stringer("failure", catalog.Classify(msg.err)),
			zap.Error(msg.err),
		)
		return
	}
	m.listing.err = nil

	switch {
	case msg.page == 1:
		m.listing.records = msg.result.Records
		m.listing.pages = 1
		m.store.SetBackendEmpty(len(msg.result.Records) == 0)
		m.snapshot = m.store.Snapshot()
	case msg.page == m.listing.pages+1:
		m.listing.records = append(m.listing.records, msg.result.Records...)
		m.listing.pages = msg.page
	default:
		m.logger.Debug("dropping out of order page", zap.Int("page", msg.page))
		return
	}
	m.listing.total = msg.result.Total
	if len(msg.result.Records) == 0 && msg.page > 1 {
		m.listing.total = len(m.listing.records)
	}
	m.listing.options = filter.OptionsFor(m.listing.records)
	m.moveSelection(0, len(m.visible()))
}

// hasMore reports whether another page can be requested.
func (m Model) hasMore() bool {
	if m.listing.pages == 0 {
		return false
	}
	return catalog.Page{Total: m.listing.total, Records: m.listing.records}.HasMore(len(m.listing.records))
}

func (m Model) visible() []airdrop.Record {
	return m.engine.Visible(m.listing.records, m.now())
}

// contentHeight is the height left for cards or table rows.
func (m Model) contentHeight() int {
	return max(m.height-chromeRows-m.dropdownRows(), 1)
}

// perScreen is how many records fit in the content area.
func (m Model) perScreen() int {
	if m.width < LayoutCardsWidth {
		return max(m.contentHeight()/cardHeight, 1)
	}
	return max(m.contentHeight()-1, 1)
}

// renderListingPage draws the filter bar, any open menu, the summary line
// and the records.
func (m Model) renderListingPage() string {
	lines := []string{m.renderFilterBar()}
	lines = append(lines, m.renderDropdown()...)
	lines = append(lines, m.renderSummary())
	lines = append(lines, padLines(m.renderRecords(), m.contentHeight()))
	return strings.Join(lines, "\n")
}

// renderSummary shows the result count and load state.
func (m Model) renderSummary() string {
	styles := m.theme.Styles()
	visible := m.visible()

	parts := []string{styles.MutedText.Render(filter.Summary(len(visible), len(m.listing.records), m.engine.State()))}
	switch {
	case m.listing.loading && m.listing.pages > 0:
		parts = append(parts, styles.WarningText.Render("Loading more..."))
	case m.hasMore():
		more := fmt.Sprintf("m: load more (%d of %d loaded)", len(m.listing.records), m.listing.total)
		if m.listing.total < 0 {
			more = "m: load more"
		}
		parts = append(parts, styles.FaintText.Render(more))
	}
	if m.listing.err != nil && len(m.listing.records) > 0 {
		parts = append(parts, styles.DangerText.Render(catalog.Classify(m.listing.err).Message()))
	}
	return firstLine(lipgloss.NewStyle().Padding(0, 1).Render(strings.Join(parts, "  ·  ")))
}

// renderRecords picks the empty state, cards or table.
func (m Model) renderRecords() string {
	styles := m.theme.Styles()
	visible := m.visible()

	switch {
	case m.listing.loading && m.listing.pages == 0:
		return m.centered(styles.WarningText.Render("Loading airdrops..."))

	case m.listing.err != nil && len(m.listing.records) == 0:
		failure := catalog.Classify(m.listing.err)
		body := styles.DangerText.Render(failure.Message())
		if failure.Retryable() {
			body = lipgloss.JoinVertical(lipgloss.Center, body, "", styles.MutedText.Render("Press r to retry."))
		}
		return m.centered(body)

	case len(m.listing.records) == 0:
		return m.centered(styles.MutedText.Render(emptyBackendText))

	case len(visible) == 0:
		return m.centered(lipgloss.JoinVertical(lipgloss.Center,
			styles.Text.Bold(true).Render(emptyFilteredText),
			"",
			styles.MutedText.Render("Press x to clear all filters."),
		))
	}

	if m.width < LayoutCardsWidth {
		return m.renderCards(visible)
	}
	return m.renderTable(visible)
}

func (m Model) centered(body string) string {
	return lipgloss.Place(m.width, m.contentHeight(), lipgloss.Center, lipgloss.Center, body)
}

// pageWindow returns the slice of records on the selection's screen.
func (m Model) pageWindow(count int) (start, end int) {
	per := m.perScreen()
	start = (m.listing.selected / per) * per
	return start, min(start+per, count)
}

// renderCards stacks one bordered card per record for narrow terminals.
func (m Model) renderCards(records []airdrop.Record) string {
	styles := m.theme.Styles()
	start, end := m.pageWindow(len(records))
	width := max(m.width, 20)
	inner := width - 4
	now := m.now()

	cards := make([]string, 0, end-start)
	for i := start; i < end; i++ {
		r := records[i]
		focused := i == m.listing.selected
		cardStyles := styles.WithBackground(ternary(focused, m.theme.FocusBg, m.theme.SurfaceAlt))
		bg := NewBgStyle(ternary(focused, m.theme.FocusBg, m.theme.SurfaceAlt))

		badges := []string{
			styles.Badge(m.theme.Info).Render(truncate(r.Chain, 16)),
			styles.Badge(ternary(r.IsFree(), m.theme.Success, m.theme.Warning)).Render(r.CostLabel()),
		}
		if stage := r.StageLabel(); stage != "" {
			badges = append(badges, styles.StageStyle(r.StageKind()).Render(stage))
		}
		if r.IsNew(now) {
			badges = append(badges, styles.Badge(m.theme.Accent).Render("NEW"))
		}

		body := strings.Join([]string{
			" " + bg.Render(truncate(r.DisplaySubtitle(), inner-1), cardStyles.MutedText),
			" " + strings.Join(badges, bg.Space()),
			" " + bg.Render(truncate("Backers: "+r.BackersLabel(), inner-1), cardStyles.FaintText),
			"",
		}, "\n")
		cards = append(cards, m.renderTitledBox(r.DisplayName(), body, width, cardHeight, focused))
	}
	return strings.Join(cards, "\n")
}

// table column widths; the name column takes the rest.
const (
	colChain   = 14
	colCost    = 10
	colStage   = 10
	colBackers = 28
	colNew     = 5
)

// renderTable shows one row per record for wide terminals. The backers
// column appears once the terminal is wide enough.
func (m Model) renderTable(records []airdrop.Record) string {
	styles := m.theme.Styles()
	wide := m.width >= LayoutWideWidth
	now := m.now()

	fixed := colChain + colCost + colStage + colNew + 5
	if wide {
		fixed += colBackers + 1
	}
	nameW := max(m.width-2-fixed, 12)

	cells := func(name, chain, cost, stage, backers, isNew string) []string {
		out := []string{fit(name, nameW), fit(chain, colChain), fit(cost, colCost), fit(stage, colStage)}
		if wide {
			out = append(out, fit(backers, colBackers))
		}
		return append(out, fit(isNew, colNew))
	}

	header := strings.Join(cells("Name", "Chain", "Cost", "Stage", "Backers", "New"), " ")
	lines := []string{" " + styles.FaintText.Bold(true).Render(header)}

	start, end := m.pageWindow(len(records))
	for i := start; i < end; i++ {
		r := records[i]
		row := cells(r.DisplayName(), r.Chain, r.CostLabel(), r.StageLabel(), r.BackersLabel(), ternary(r.IsNew(now), "NEW", ""))
		if i == m.listing.selected {
			lines = append(lines, " "+styles.Selected.Render(strings.Join(row, " ")))
			continue
		}
		colored := []string{
			styles.Text.Bold(true).Render(row[0]),
			styles.InfoText.Render(row[1]),
			lipgloss.NewStyle().Foreground(lipgloss.Color(ternary(r.IsFree(), m.theme.Success, m.theme.Warning))).Render(row[2]),
			lipgloss.NewStyle().Foreground(lipgloss.Color(m.theme.StageColor(r.StageKind()))).Render(row[3]),
		}
		for _, c := range row[4:] {
			if strings.TrimSpace(c) == "NEW" {
				colored = append(colored, styles.AccentText.Bold(true).Render(c))
				continue
			}
			colored = append(colored, styles.MutedText.Render(c))
		}
		lines = append(lines, " "+strings.Join(colored, " "))
	}
	return strings.Join(lines, "\n")
}
