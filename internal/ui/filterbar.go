package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/notedrop/notedrop/internal/filter"
)

// menuOption is one choice in a filter dropdown.
type menuOption struct {
	label    string
	selected bool
	apply    func(*filter.Engine)
}

// barSegment is a clickable region of the filter bar. Columns are absolute
// screen columns, x1 exclusive.
type barSegment struct {
	menu  filter.Menu
	clear bool
	text  string
	x0    int
	x1    int
}

type hitKind int

const (
	hitNothing hitKind = iota
	hitSearch
	hitMenuHeader
	hitMenuOption
	hitClear
)

type hitResult struct {
	kind   hitKind
	menu   filter.Menu
	option int
}

var barMenus = []filter.Menu{filter.MenuChain, filter.MenuCost, filter.MenuStage, filter.MenuNew}

// searchWidth is the width of the search box including its prompt.
func (m Model) searchWidth() int {
	return min(maxSearchWidth, max(m.width/3, 12))
}

// menuLabel is the current choice shown on a menu header.
func (m Model) menuLabel(menu filter.Menu) string {
	s := m.engine.State()
	switch menu {
	case filter.MenuChain:
		return ternary(s.Chain == "", "All Chains", s.Chain)
	case filter.MenuCost:
		return s.Cost.Label()
	case filter.MenuStage:
		return ternary(s.Stage == "", "All Stages", titleCase(s.Stage))
	case filter.MenuNew:
		return ternary(s.NewOnly, "New Only", "All Projects")
	default:
		return ""
	}
}

// menuOptions lists the choices for menu. The chain and stage menus offer the
// values seen in the loaded records, plus the current selection when a
// location named one that is not loaded.
func (m Model) menuOptions(menu filter.Menu) []menuOption {
	s := m.engine.State()
	switch menu {
	case filter.MenuChain:
		opts := []menuOption{{
			label:    "All Chains",
			selected: s.Chain == "",
			apply:    func(e *filter.Engine) { e.SetChain("") },
		}}
		for _, chain := range withCurrent(m.listing.options.Chains, s.Chain) {
			opts = append(opts, menuOption{
				label:    chain,
				selected: strings.EqualFold(chain, s.Chain),
				apply:    func(e *filter.Engine) { e.SetChain(chain) },
			})
		}
		return opts

	case filter.MenuCost:
		opts := make([]menuOption, 0, 3)
		for _, c := range []filter.Cost{filter.CostAny, filter.CostFree, filter.CostPaid} {
			opts = append(opts, menuOption{
				label:    c.Label(),
				selected: s.Cost == c,
				apply:    func(e *filter.Engine) { e.SetCost(c) },
			})
		}
		return opts

	case filter.MenuStage:
		opts := []menuOption{{
			label:    "All Stages",
			selected: s.Stage == "",
			apply:    func(e *filter.Engine) { e.SetStage("") },
		}}
		for _, stage := range withCurrent(m.listing.options.Stages, s.Stage) {
			opts = append(opts, menuOption{
				label:    titleCase(stage),
				selected: strings.EqualFold(stage, s.Stage),
				apply:    func(e *filter.Engine) { e.SetStage(stage) },
			})
		}
		return opts

	case filter.MenuNew:
		return []menuOption{
			{label: "All Projects", selected: !s.NewOnly, apply: func(e *filter.Engine) { e.SetNewOnly(false) }},
			{label: "New Only", selected: s.NewOnly, apply: func(e *filter.Engine) { e.SetNewOnly(true) }},
		}
	}
	return nil
}

func withCurrent(values []string, current string) []string {
	if current == "" {
		return values
	}
	for _, v := range values {
		if strings.EqualFold(v, current) {
			return values
		}
	}
	return append(append([]string(nil), values...), current)
}

// barSegments lays out the menu headers and the clear action after the
// search box.
func (m Model) barSegments() []barSegment {
	x := 1 + m.searchWidth() + 1
	segs := make([]barSegment, 0, len(barMenus)+1)
	for i, menu := range barMenus {
		text := fmt.Sprintf("%d %s ▾", i+1, m.menuLabel(menu))
		w := lipgloss.Width(text)
		segs = append(segs, barSegment{menu: menu, text: text, x0: x, x1: x + w})
		x += w + 1
	}
	if s := m.engine.State(); !s.IsDefault() {
		text := "x Clear"
		if n := s.ActiveCount(); n > 0 {
			text = fmt.Sprintf("x Clear (%d)", n)
		}
		w := lipgloss.Width(text)
		segs = append(segs, barSegment{menu: filter.MenuNone, clear: true, text: text, x0: x, x1: x + w})
	}
	return segs
}

// dropdownWidth is the width of the open menu's option list.
func dropdownWidth(opts []menuOption) int {
	w := 0
	for _, o := range opts {
		w = max(w, lipgloss.Width(o.label))
	}
	return w + 4
}

// dropdownRows is the number of screen rows the open menu occupies.
func (m Model) dropdownRows() int {
	if m.engine.Menu() == filter.MenuNone {
		return 0
	}
	return len(m.menuOptions(m.engine.Menu()))
}

// hitTest maps a click on the listing page to a filter bar target.
func (m Model) hitTest(x, y int) hitResult {
	segs := m.barSegments()

	if y == rowFilterBar {
		if x >= 1 && x < 1+m.searchWidth() {
			return hitResult{kind: hitSearch}
		}
		for _, seg := range segs {
			if x < seg.x0 || x >= seg.x1 {
				continue
			}
			if seg.clear {
				return hitResult{kind: hitClear}
			}
			return hitResult{kind: hitMenuHeader, menu: seg.menu}
		}
		return hitResult{}
	}

	open := m.engine.Menu()
	if open == filter.MenuNone {
		return hitResult{}
	}
	opts := m.menuOptions(open)
	row := y - rowFilterBar - 1
	if row < 0 || row >= len(opts) {
		return hitResult{}
	}
	for _, seg := range segs {
		if seg.menu != open {
			continue
		}
		if x >= seg.x0 && x < seg.x0+dropdownWidth(opts) {
			return hitResult{kind: hitMenuOption, menu: open, option: row}
		}
	}
	return hitResult{}
}

// openMenu toggles menu and puts the cursor on its current choice.
func (m *Model) openMenu(menu filter.Menu) {
	m.engine.ToggleMenu(menu)
	m.menuCursor = 0
	if m.engine.Menu() != menu {
		return
	}
	for i, o := range m.menuOptions(menu) {
		if o.selected {
			m.menuCursor = i
			break
		}
	}
}

func (m *Model) applyMenuOption(i int) {
	opts := m.menuOptions(m.engine.Menu())
	if i < 0 || i >= len(opts) {
		m.engine.CloseMenu()
		return
	}
	opts[i].apply(m.engine)
	m.listing.selected = 0
}

func (m *Model) clearFilters() {
	m.engine.Clear()
	m.search.SetValue("")
	m.listing.selected = 0
}

// handleMenuKey drives an open dropdown. Keys it does not use close the menu
// and are handled as usual.
func (m Model) handleMenuKey(msg tea.KeyMsg) (Model, tea.Cmd, bool) {
	opts := m.menuOptions(m.engine.Menu())
	switch {
	case key.Matches(msg, m.keys.Up):
		m.menuCursor = max(m.menuCursor-1, 0)
		return m, nil, true
	case key.Matches(msg, m.keys.Down):
		m.menuCursor = min(m.menuCursor+1, len(opts)-1)
		return m, nil, true
	case key.Matches(msg, m.keys.Open):
		m.applyMenuOption(m.menuCursor)
		return m, nil, true
	case key.Matches(msg, m.keys.CloseMenu):
		m.engine.CloseMenu()
		return m, nil, true
	case key.Matches(msg, m.keys.ChainMenu, m.keys.CostMenu, m.keys.StageMenu, m.keys.NewMenu):
		return m, nil, false
	}
	m.engine.CloseMenu()
	return m, nil, false
}

// renderFilterBar draws the search box and the menu headers.
func (m Model) renderFilterBar() string {
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := NewBgStyle(m.theme.Surface)

	sw := m.searchWidth()
	var search string
	if m.searching {
		search = lipgloss.NewStyle().
			Background(lipgloss.Color(m.theme.FocusBg)).
			Width(sw).MaxWidth(sw).
			Render(m.search.View())
	} else {
		text := m.engine.State().Search
		style := styles.Text
		if text == "" {
			text = m.search.Placeholder
			style = styles.FaintText
		}
		search = bg.Render(fit("/ "+text, sw), style)
	}

	open := m.engine.Menu()
	parts := []string{search}
	for _, seg := range m.barSegments() {
		style := styles.MutedText
		switch {
		case seg.clear:
			style = styles.WarningText
		case seg.menu == open:
			style = styles.Selected
		case m.menuActive(seg.menu):
			style = styles.AccentText.Bold(true)
		}
		parts = append(parts, style.Render(seg.text))
	}

	line := strings.Join(parts, bg.Space())
	return firstLine(styles.Header.Width(m.width).Render(line))
}

// menuActive reports whether menu holds a non-default choice.
func (m Model) menuActive(menu filter.Menu) bool {
	s := m.engine.State()
	switch menu {
	case filter.MenuChain:
		return s.Chain != ""
	case filter.MenuCost:
		return s.Cost != filter.CostAny
	case filter.MenuStage:
		return s.Stage != ""
	case filter.MenuNew:
		return s.NewOnly
	}
	return false
}

// renderDropdown draws the open menu's options below its header.
func (m Model) renderDropdown() []string {
	open := m.engine.Menu()
	if open == filter.MenuNone {
		return nil
	}
	opts := m.menuOptions(open)
	x0 := 0
	for _, seg := range m.barSegments() {
		if seg.menu == open {
			x0 = seg.x0
		}
	}

	styles := m.theme.Styles()
	item := lipgloss.NewStyle().
		Background(lipgloss.Color(m.theme.SurfaceAlt)).
		Foreground(lipgloss.Color(m.theme.Text))
	w := dropdownWidth(opts)

	lines := make([]string, 0, len(opts))
	for i, o := range opts {
		mark := ternary(o.selected, "✓ ", "  ")
		text := fit(" "+mark+o.label, w)
		style := item
		if i == m.menuCursor {
			style = styles.Selected
		}
		lines = append(lines, strings.Repeat(" ", x0)+style.Render(text))
	}
	return lines
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}
