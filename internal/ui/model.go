package ui

import (
	"context"
	"net/url"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/notedrop/notedrop/internal/airdrop"
	"github.com/notedrop/notedrop/internal/catalog"
	"github.com/notedrop/notedrop/internal/filter"
	"github.com/notedrop/notedrop/internal/prefs"
	"github.com/notedrop/notedrop/internal/route"
	"github.com/notedrop/notedrop/internal/state"
)

// Options configures the UI.
type Options struct {
	Context   context.Context
	Source    catalog.Source
	Store     *state.Store
	Location  string // initial location, e.g. "/?chain=Ethereum"
	PageSize  int
	Debounce  time.Duration
	PrefsPath string
	LogPath   string
	Logger    *zap.Logger
	Now       func() time.Time
}

// navigator holds the current location and the back history. Every copy of
// the Model shares one navigator so the filter engine can rewrite the query
// of the current location.
type navigator struct {
	current route.Route
	history []route.Route
}

func (n *navigator) push(r route.Route) {
	n.history = append(n.history, n.current)
	n.current = r
}

func (n *navigator) back() bool {
	if len(n.history) == 0 {
		return false
	}
	last := len(n.history) - 1
	n.current = n.history[last]
	n.history = n.history[:last]
	return true
}

func (n *navigator) replaceQuery(q url.Values) {
	if n.current.Page == route.PageListing {
		n.current.Query = q
	}
}

type listingState struct {
	records  []airdrop.Record
	total    int
	pages    int
	loading  bool
	err      error
	selected int
	options  filter.Options
}

type detailState struct {
	seq      int
	id       string
	loading  bool
	loaded   bool
	record   airdrop.Record
	err      error
	viewport viewport.Model
}

type staticState struct {
	slug     string
	viewport viewport.Model
}

// Model is the root application state for Bubble Tea.
type Model struct {
	// Configuration
	ctx       context.Context
	source    catalog.Source
	store     *state.Store
	logger    *zap.Logger
	keys      keyMap
	now       func() time.Time
	prefsPath string
	logPath   string
	pageSize  int

	// Shared across copies
	nav      *navigator
	engine   *filter.Engine
	debounce *filter.Debouncer
	updates  chan state.Snapshot

	// UI state
	theme    Theme
	snapshot state.Snapshot
	width    int
	height   int
	ready    bool
	status   string

	// Inputs
	search         textinput.Model
	searching      bool
	address        textinput.Model
	editingAddress bool
	menuCursor     int

	// Views
	listing listingState
	detail  detailState
	static  staticState

	// Overlays
	showHelp    bool
	showLogs    bool
	logViewport viewport.Model
	logLines    []string
}

// New creates a new Bubble Tea model.
func New(opts Options) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	store := opts.Store
	if store == nil {
		store = state.NewStore(state.ThemeDark)
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	pageSize := opts.PageSize
	if pageSize <= 0 {
		pageSize = catalog.DefaultPageSize
	}
	prefsPath := opts.PrefsPath
	if prefsPath == "" {
		prefsPath = prefs.DefaultPath()
	}

	start := route.Parse(opts.Location)
	nav := &navigator{current: start}
	initial := filter.State{}
	if start.Page == route.PageListing {
		initial = filter.FromQuery(start.Query)
		nav.current = route.Listing(initial.Query())
	}
	debounce := filter.NewDebouncer(opts.Debounce)

	search := textinput.New()
	search.Placeholder = "Search airdrops..."
	search.Prompt = "/ "
	search.CharLimit = 120
	search.SetValue(initial.Search)

	address := textinput.New()
	address.Prompt = ""
	address.CharLimit = 512

	snap := store.Snapshot()
	m := Model{
		ctx:       ctx,
		source:    opts.Source,
		store:     store,
		logger:    logger,
		keys:      DefaultKeyMap(),
		now:       now,
		prefsPath: prefsPath,
		logPath:   opts.LogPath,
		pageSize:  pageSize,
		nav:       nav,
		engine:    filter.NewEngine(initial, debounce, nav.replaceQuery),
		debounce:  debounce,
		updates:   make(chan state.Snapshot, 1),
		theme:     GetTheme(snap.Theme),
		snapshot:  snap,
		search:    search,
		address:   address,
		listing:   listingState{loading: true},
		detail:    detailState{viewport: viewport.New(0, 0)},
		static:    staticState{viewport: viewport.New(0, 0)},

		logViewport: viewport.New(0, 0),
	}
	if start.Page == route.PageDetail {
		m.detail.seq = 1
		m.detail.id = start.ID
		m.detail.loading = true
	}
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{
		m.fetchPageCmd(1),
		waitForSearch(m.debounce),
		waitForSnapshot(m.updates),
	}
	if m.nav.current.Page == route.PageDetail {
		cmds = append(cmds, m.fetchDetailCmd(m.detail.seq, m.detail.id))
	}
	return tea.Batch(cmds...)
}

// Location returns the current location, e.g. "/?chain=Ethereum".
func (m Model) Location() string {
	return m.nav.current.String()
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		return m.handleMouse(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.search.Width = m.searchWidth() - 4
		m.address.Width = max(m.width-14, 10)
		m.refreshViewports()
		return m, nil

	case pageLoadedMsg:
		m.handlePageLoaded(msg)
		return m, nil

	case detailLoadedMsg:
		m.handleDetailLoaded(msg)
		return m, nil

	case searchSettledMsg:
		if m.engine.Settle(string(msg)) {
			m.listing.selected = 0
		}
		return m, waitForSearch(m.debounce)

	case snapshotMsg:
		prev := m.snapshot.Theme
		m.snapshot = state.Snapshot(msg)
		if m.snapshot.Theme != prev {
			m.theme = GetTheme(m.snapshot.Theme)
			m.refreshViewports()
		}
		return m, waitForSnapshot(m.updates)

	case logsLoadedMsg:
		m.handleLogsLoaded(msg)
		return m, nil
	}

	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	if m.showHelp {
		return m.renderHelp()
	}
	if m.showLogs {
		return m.renderLogs()
	}
	return m.renderMain()
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}

	// Any key closes help
	if m.showHelp {
		m.showHelp = false
		return m, nil
	}

	if m.showLogs {
		switch msg.String() {
		case "esc", "L", "q", "b":
			m.showLogs = false
			return m, nil
		}
		var cmd tea.Cmd
		m.logViewport, cmd = m.logViewport.Update(msg)
		return m, cmd
	}

	if m.editingAddress {
		return m.handleAddressKey(msg)
	}
	if m.searching {
		return m.handleSearchKey(msg)
	}
	if m.engine.Menu() != filter.MenuNone && m.nav.current.Page == route.PageListing {
		if next, cmd, handled := m.handleMenuKey(msg); handled {
			return next, cmd
		}
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
		return m, nil

	case key.Matches(msg, m.keys.ToggleTheme):
		m.toggleTheme()
		return m, nil

	case key.Matches(msg, m.keys.Logs):
		m.showLogs = true
		return m, loadLogsCmd(m.logPath)

	case key.Matches(msg, m.keys.Address):
		m.editingAddress = true
		m.address.SetValue(m.Location())
		m.address.CursorEnd()
		return m, m.address.Focus()

	case key.Matches(msg, m.keys.About):
		return m.navigate(route.Static(route.PageAbout))
	case key.Matches(msg, m.keys.FAQ):
		return m.navigate(route.Static(route.PageFAQ))
	case key.Matches(msg, m.keys.Privacy):
		return m.navigate(route.Static(route.PagePrivacy))
	case key.Matches(msg, m.keys.Terms):
		return m.navigate(route.Static(route.PageTerms))
	}

	switch m.nav.current.Page {
	case route.PageListing:
		return m.handleListingKey(msg)
	case route.PageDetail:
		return m.handleDetailKey(msg)
	default:
		return m.handlePageKey(msg)
	}
}

func (m Model) handleAddressKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		m.editingAddress = false
		m.address.Blur()
		return m.navigate(route.Parse(m.address.Value()))
	case "esc":
		m.editingAddress = false
		m.address.Blur()
		return m, nil
	}
	var cmd tea.Cmd
	m.address, cmd = m.address.Update(msg)
	return m, cmd
}

func (m Model) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		m.searching = false
		m.search.Blur()
		if m.engine.SettleNow() {
			m.listing.selected = 0
		}
		return m, nil
	case "esc", "tab":
		m.searching = false
		m.search.Blur()
		return m, nil
	}
	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	m.engine.SetSearchText(m.search.Value())
	return m, cmd
}

// handleMouse toggles menus from the filter bar and closes them on clicks
// anywhere else.
func (m Model) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if msg.Action != tea.MouseActionPress || msg.Button != tea.MouseButtonLeft {
		return m, nil
	}
	if m.showHelp || m.showLogs || m.nav.current.Page != route.PageListing {
		return m, nil
	}

	hit := m.hitTest(msg.X, msg.Y)
	switch hit.kind {
	case hitMenuHeader:
		m.openMenu(hit.menu)
	case hitMenuOption:
		m.applyMenuOption(hit.option)
	case hitClear:
		m.clearFilters()
	case hitSearch:
		m.engine.CloseMenu()
		m.searching = true
		return m, m.search.Focus()
	default:
		m.engine.CloseMenu()
	}
	return m, nil
}

// navigate pushes r onto the history and prepares its view.
func (m Model) navigate(r route.Route) (tea.Model, tea.Cmd) {
	m.engine.CloseMenu()
	m.searching = false
	m.search.Blur()

	if r.Page == route.PageListing {
		m.reseed(filter.FromQuery(r.Query))
		r = route.Listing(m.engine.State().Query())
	}
	m.nav.push(r)
	return m, m.enterRoute()
}

// back returns to the previous location, or the listing when there is none.
func (m Model) back() (tea.Model, tea.Cmd) {
	if !m.nav.back() {
		if m.nav.current.Page == route.PageListing {
			return m, nil
		}
		m.nav.current = route.Listing(m.engine.State().Query())
	}
	return m, m.enterRoute()
}

// enterRoute prepares the view for the current location.
func (m *Model) enterRoute() tea.Cmd {
	switch r := m.nav.current; r.Page {
	case route.PageDetail:
		return m.startDetail(r.ID)
	case route.PageListing:
		if q := m.engine.State().Query().Encode(); q != r.Query.Encode() {
			m.reseed(filter.FromQuery(r.Query))
		}
		return nil
	default:
		m.refreshViewports()
		return nil
	}
}

// reseed replaces the filter engine, as when a typed location carries a
// different query.
func (m *Model) reseed(s filter.State) {
	m.debounce.Cancel()
	m.engine = filter.NewEngine(s, m.debounce, m.nav.replaceQuery)
	m.search.SetValue(s.Search)
	m.listing.selected = 0
}

func (m *Model) toggleTheme() {
	next := m.store.ToggleTheme()
	m.snapshot = m.store.Snapshot()
	m.theme = GetTheme(next)
	m.refreshViewports()
	if err := prefs.Save(m.prefsPath, prefs.Prefs{Theme: string(next)}); err != nil {
		m.logger.Warn("save theme preference", zap.Error(err))
		m.status = "Theme not saved"
		return
	}
	m.status = ""
}

func (m *Model) refreshViewports() {
	if !m.ready {
		return
	}
	height := max(m.height-3, 1)
	switch m.nav.current.Page {
	case route.PageDetail:
		m.detail.viewport.Width = m.width
		m.detail.viewport.Height = height
		m.detail.viewport.SetContent(m.renderDetailContent(m.width - 4))
	case route.PageListing:
	default:
		m.static.viewport.Width = m.width
		m.static.viewport.Height = height
		m.static.viewport.SetContent(m.renderStaticContent(m.width - 4))
	}
	m.logViewport.Width = max(m.width-2, 1)
	m.logViewport.Height = max(m.height-2, 1)
	if len(m.logLines) > 0 {
		m.logViewport.SetContent(m.renderLogLines())
	}
}

// Run starts the Bubble Tea program and returns the final location.
func Run(opts Options) (string, error) {
	m := New(opts)

	cancel := m.store.Subscribe(func(s state.Snapshot) {
		select {
		case m.updates <- s:
		default:
			// Replace a snapshot the UI has not read yet.
			select {
			case <-m.updates:
			default:
			}
			select {
			case m.updates <- s:
			default:
			}
		}
	})
	defer cancel()
	defer m.debounce.Close()

	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion(), tea.WithContext(m.ctx))
	final, err := p.Run()
	if fm, ok := final.(Model); ok {
		return fm.Location(), err
	}
	return m.Location(), err
}
