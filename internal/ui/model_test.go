package ui

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/notedrop/notedrop/internal/airdrop"
	"github.com/notedrop/notedrop/internal/catalog"
	"github.com/notedrop/notedrop/internal/filter"
	"github.com/notedrop/notedrop/internal/prefs"
	"github.com/notedrop/notedrop/internal/route"
	"github.com/notedrop/notedrop/internal/state"
)

var testNow = time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)

func sampleRecords() []airdrop.Record {
	return []airdrop.Record{
		{ID: "eth-1", Name: "LayerZero", Subtitle: "Omnichain messaging", Chain: "Ethereum", Stage: "active", Cost: 0,
			CreatedAt: testNow.Add(-24 * time.Hour), Backers: []string{"a16z", "Sequoia"},
			Requirements: airdrop.List("Bridge assets", "Hold a domain")},
		{ID: "sol-1", Name: "Jupiter", Subtitle: "Swap aggregator", Chain: "Solana", Stage: "upcoming", Cost: 5,
			CreatedAt: testNow.Add(-72 * time.Hour)},
		{ID: "eth-2", Name: "Scroll", Subtitle: "zkEVM rollup", Chain: "Ethereum", Stage: "ended", Cost: 0,
			CreatedAt: testNow.Add(-30 * 24 * time.Hour)},
	}
}

func newTestModel(t *testing.T, src catalog.Source, location string, width int) (Model, *state.Store) {
	t.Helper()
	store := state.NewStore(state.ThemeDark)
	m := New(Options{
		Source:    src,
		Store:     store,
		Location:  location,
		PageSize:  20,
		PrefsPath: filepath.Join(t.TempDir(), "prefs.toml"),
		Now:       func() time.Time { return testNow },
	})
	t.Cleanup(m.debounce.Close)

	m = update(t, m, tea.WindowSizeMsg{Width: width, Height: 40})
	m = update(t, m, m.fetchPageCmd(1)())
	return m, store
}

func update(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, _ := m.Update(msg)
	return next.(Model)
}

func updateCmd(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	return next.(Model), cmd
}

func keyPress(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func click(x, y int) tea.MouseMsg {
	return tea.MouseMsg{X: x, Y: y, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft}
}

func segmentFor(t *testing.T, m Model, menu filter.Menu) barSegment {
	t.Helper()
	for _, seg := range m.barSegments() {
		if seg.menu == menu && !seg.clear {
			return seg
		}
	}
	t.Fatalf("no segment for menu %v", menu)
	return barSegment{}
}

func TestListing_LayoutFollowsWidth(t *testing.T) {
	src := catalog.NewMemory(sampleRecords())

	table, _ := newTestModel(t, src, "/", 120)
	view := table.View()
	if !strings.Contains(view, "Name") || !strings.Contains(view, "Stage") {
		t.Fatalf("table header missing at width 120:\n%s", view)
	}
	if strings.Contains(view, "┌") {
		t.Fatal("cards rendered at width 120")
	}
	if strings.Contains(view, "Backers") {
		t.Fatal("backers column shown below the wide breakpoint")
	}

	wide, _ := newTestModel(t, src, "/", 140)
	if !strings.Contains(wide.View(), "Backers") {
		t.Fatal("backers column missing at width 140")
	}

	cards, _ := newTestModel(t, src, "/", 80)
	view = cards.View()
	if !strings.Contains(view, "┌") || !strings.Contains(view, "LayerZero") {
		t.Fatalf("cards missing at width 80:\n%s", view)
	}
	if !strings.Contains(view, "Backers: a16z, Sequoia") {
		t.Fatal("card backers line missing")
	}
}

func TestListing_SummaryAndNewBadge(t *testing.T) {
	m, store := newTestModel(t, catalog.NewMemory(sampleRecords()), "/", 120)
	view := m.View()
	if !strings.Contains(view, "Showing 3 of 3 airdrops") {
		t.Fatalf("summary missing:\n%s", view)
	}
	if !strings.Contains(view, "NEW") {
		t.Fatal("NEW marker missing for a record created yesterday")
	}
	if got := store.Network(); got != state.NetworkOnline {
		t.Fatalf("network = %v after a non-empty listing, want online", got)
	}
	store.RecordProbe(errors.New("dial tcp: refused"))
	store.RecordProbe(errors.New("dial tcp: refused"))
	m = update(t, m, snapshotMsg(store.Snapshot()))
	if !strings.Contains(m.View(), "Offline") {
		t.Fatal("header does not show offline after two failed probes")
	}
}

func TestListing_EmptyBackend(t *testing.T) {
	m, store := newTestModel(t, catalog.NewMemory(nil), "/", 120)
	if !strings.Contains(m.View(), emptyBackendText) {
		t.Fatalf("empty backend message missing:\n%s", m.View())
	}
	if got := store.Network(); got != state.NetworkOffline {
		t.Fatalf("network = %v with an empty backend, want offline", got)
	}
}

func TestListing_FiltersExcludeEverything(t *testing.T) {
	m, _ := newTestModel(t, catalog.NewMemory(sampleRecords()), "/?chain=Cosmos", 120)
	view := m.View()
	if !strings.Contains(view, emptyFilteredText) {
		t.Fatalf("filtered empty state missing:\n%s", view)
	}
	if !strings.Contains(view, "Cosmos") {
		t.Fatal("chain menu header does not show the location's chain")
	}
}

func TestListing_ClearFilters(t *testing.T) {
	m, _ := newTestModel(t, catalog.NewMemory(sampleRecords()), "/?chain=Ethereum&cost=FREE", 120)
	if got := len(m.visible()); got != 2 {
		t.Fatalf("visible = %d, want 2", got)
	}

	m = update(t, m, keyPress("x"))
	if got := m.Location(); got != "/" {
		t.Fatalf("location after clear = %q, want /", got)
	}
	if got := len(m.visible()); got != 3 {
		t.Fatalf("visible after clear = %d, want 3", got)
	}
}

func TestListing_MenuClicks(t *testing.T) {
	m, _ := newTestModel(t, catalog.NewMemory(sampleRecords()), "/", 120)

	chain := segmentFor(t, m, filter.MenuChain)
	m = update(t, m, click(chain.x0, rowFilterBar))
	if m.engine.Menu() != filter.MenuChain {
		t.Fatalf("menu = %v after header click, want chain", m.engine.Menu())
	}

	// Option 0 is "All Chains"; option 1 is the first chain seen.
	m = update(t, m, click(chain.x0+1, rowFilterBar+2))
	if m.engine.Menu() != filter.MenuNone {
		t.Fatal("menu still open after choosing an option")
	}
	if got := m.Location(); got != "/?chain=Ethereum" {
		t.Fatalf("location = %q, want /?chain=Ethereum", got)
	}

	cost := segmentFor(t, m, filter.MenuCost)
	m = update(t, m, click(cost.x0, rowFilterBar))
	if m.engine.Menu() != filter.MenuCost {
		t.Fatalf("menu = %v, want cost", m.engine.Menu())
	}
	m = update(t, m, click(cost.x0, rowFilterBar))
	if m.engine.Menu() != filter.MenuNone {
		t.Fatal("second header click did not close the menu")
	}

	m = update(t, m, click(cost.x0, rowFilterBar))
	m = update(t, m, click(2, 30))
	if m.engine.Menu() != filter.MenuNone {
		t.Fatal("click outside did not close the menu")
	}
	if got := m.Location(); got != "/?chain=Ethereum" {
		t.Fatalf("click outside changed the location to %q", got)
	}
}

func TestListing_MenuKeys(t *testing.T) {
	m, _ := newTestModel(t, catalog.NewMemory(sampleRecords()), "/", 120)

	m = update(t, m, keyPress("2"))
	if m.engine.Menu() != filter.MenuCost {
		t.Fatalf("menu = %v, want cost", m.engine.Menu())
	}
	m = update(t, m, keyPress("j"))
	m = update(t, m, keyPress("enter"))
	if got := m.engine.State().Cost; got != filter.CostFree {
		t.Fatalf("cost = %v, want free", got)
	}
	if got := len(m.visible()); got != 2 {
		t.Fatalf("visible = %d, want 2 free records", got)
	}

	m = update(t, m, keyPress("4"))
	m = update(t, m, keyPress("3"))
	if m.engine.Menu() != filter.MenuStage {
		t.Fatalf("menu = %v, want stage after switching", m.engine.Menu())
	}
	m = update(t, m, keyPress("esc"))
	if m.engine.Menu() != filter.MenuNone {
		t.Fatal("esc did not close the menu")
	}
}

func TestListing_SearchSettlesIntoLocation(t *testing.T) {
	m, _ := newTestModel(t, catalog.NewMemory(sampleRecords()), "/", 120)

	m = update(t, m, keyPress("/"))
	if !m.searching {
		t.Fatal("search not focused")
	}
	m = update(t, m, keyPress("jup"))
	if got := m.engine.State().Search; got != "jup" {
		t.Fatalf("raw search = %q, want jup", got)
	}
	if got := len(m.visible()); got != 3 {
		t.Fatalf("visible = %d before settle, want 3", got)
	}

	m = update(t, m, searchSettledMsg("ju"))
	if got := m.Location(); got != "/" {
		t.Fatalf("stale settle changed location to %q", got)
	}

	m = update(t, m, searchSettledMsg("jup"))
	if got := m.Location(); got != "/?search=jup" {
		t.Fatalf("location = %q, want /?search=jup", got)
	}
	if got := len(m.visible()); got != 1 {
		t.Fatalf("visible = %d after settle, want 1", got)
	}
}

func TestListing_LoadMore(t *testing.T) {
	var records []airdrop.Record
	for i := 0; i < 25; i++ {
		records = append(records, airdrop.Record{
			ID:        fmt.Sprintf("r%02d", i),
			Name:      fmt.Sprintf("Project %02d", i),
			CreatedAt: testNow.Add(-time.Duration(i+1) * time.Hour),
		})
	}
	m, _ := newTestModel(t, catalog.NewMemory(records), "/", 120)
	if len(m.listing.records) != 20 || !m.hasMore() {
		t.Fatalf("first page = %d records, hasMore %v", len(m.listing.records), m.hasMore())
	}

	m, cmd := updateCmd(t, m, keyPress("m"))
	if cmd == nil {
		t.Fatal("load more returned no command")
	}
	m = update(t, m, cmd())
	if len(m.listing.records) != 25 || m.hasMore() {
		t.Fatalf("after load more = %d records, hasMore %v", len(m.listing.records), m.hasMore())
	}
}

func TestDetail_OpenAndBack(t *testing.T) {
	m, _ := newTestModel(t, catalog.NewMemory(sampleRecords()), "/?chain=Ethereum", 120)

	m, cmd := updateCmd(t, m, keyPress("enter"))
	if got := m.Location(); got != "/eth-1" {
		t.Fatalf("location = %q, want /eth-1", got)
	}
	m = update(t, m, cmd())
	content := m.renderDetailContent(100)
	for _, want := range []string{"LayerZero", "Bridge assets", "Hold a domain", "Backers", "Sequoia", "Back to all airdrops"} {
		if !strings.Contains(content, want) {
			t.Errorf("detail missing %q", want)
		}
	}

	m = update(t, m, keyPress("b"))
	if got := m.Location(); got != "/?chain=Ethereum" {
		t.Fatalf("location after back = %q, want /?chain=Ethereum", got)
	}
	if got := len(m.visible()); got != 2 {
		t.Fatalf("visible after back = %d, want 2", got)
	}
}

func TestDetail_EmptySectionsAndNotFound(t *testing.T) {
	m, _ := newTestModel(t, catalog.NewMemory(sampleRecords()), "/sol-1", 120)
	m = update(t, m, m.fetchDetailCmd(m.detail.seq, m.detail.id)())
	content := m.renderDetailContent(100)
	if !strings.Contains(content, "No specific requirements listed.") {
		t.Error("empty requirements text missing")
	}
	if strings.Contains(content, "Backers") {
		t.Error("backers section shown for a record without backers")
	}

	missing, _ := newTestModel(t, catalog.NewMemory(sampleRecords()), "/nope", 120)
	missing = update(t, missing, missing.fetchDetailCmd(missing.detail.seq, "nope")())
	if !strings.Contains(missing.View(), "This airdrop could not be found.") {
		t.Fatalf("not-found message missing:\n%s", missing.View())
	}
}

func TestDetail_StaleResultDiscarded(t *testing.T) {
	m, _ := newTestModel(t, catalog.NewMemory(sampleRecords()), "/", 120)

	m = update(t, m, keyPress("enter"))
	first := m.detail.seq
	m = update(t, m, keyPress("b"))
	m = update(t, m, keyPress("j"))
	m, cmd := updateCmd(t, m, keyPress("enter"))
	if got := m.Location(); got != "/sol-1" {
		t.Fatalf("location = %q, want /sol-1", got)
	}

	m = update(t, m, detailLoadedMsg{seq: first, id: "eth-1", record: sampleRecords()[0]})
	if m.detail.loaded {
		t.Fatal("stale reply was applied")
	}

	m = update(t, m, cmd())
	if !m.detail.loaded || m.detail.record.ID != "sol-1" {
		t.Fatalf("current reply not applied: %+v", m.detail.record)
	}
}

func TestStaticPages(t *testing.T) {
	m, _ := newTestModel(t, catalog.NewMemory(sampleRecords()), "/", 120)

	m = update(t, m, keyPress("F"))
	if got := m.Location(); got != "/faq" {
		t.Fatalf("location = %q, want /faq", got)
	}
	if !strings.Contains(m.View(), "Frequently Asked Questions") {
		t.Fatal("FAQ title missing")
	}

	m = update(t, m, keyPress(":"))
	m.address.SetValue("/about")
	m = update(t, m, keyPress("enter"))
	if m.nav.current.Page != route.PageAbout {
		t.Fatalf("page = %v, want about", m.nav.current.Page)
	}
	if !strings.Contains(m.View(), "About NoteDrop") {
		t.Fatal("About title missing")
	}

	m = update(t, m, keyPress("b"))
	m = update(t, m, keyPress("b"))
	if got := m.Location(); got != "/" {
		t.Fatalf("location after two backs = %q, want /", got)
	}
}

func TestAddressBar_ListingQueryReseedsFilters(t *testing.T) {
	m, _ := newTestModel(t, catalog.NewMemory(sampleRecords()), "/", 120)

	m = update(t, m, keyPress(":"))
	m.address.SetValue("/?stage=upcoming&cost=bogus")
	m = update(t, m, keyPress("enter"))

	if got := m.Location(); got != "/?stage=upcoming" {
		t.Fatalf("location = %q, want /?stage=upcoming", got)
	}
	if got := len(m.visible()); got != 1 {
		t.Fatalf("visible = %d, want 1", got)
	}
}

func TestToggleThemeSavesPreference(t *testing.T) {
	m, store := newTestModel(t, catalog.NewMemory(sampleRecords()), "/", 120)

	m = update(t, m, keyPress("T"))
	if store.Theme() != state.ThemeLight {
		t.Fatalf("store theme = %v, want light", store.Theme())
	}
	if !m.theme.Light {
		t.Fatal("model palette not switched to light")
	}
	p, err := prefs.Load(m.prefsPath)
	if err != nil {
		t.Fatalf("load prefs: %v", err)
	}
	if p.Theme != "light" {
		t.Fatalf("saved theme = %q, want light", p.Theme)
	}
}

func TestSnapshotMessageAppliesExternalTheme(t *testing.T) {
	m, store := newTestModel(t, catalog.NewMemory(sampleRecords()), "/", 120)

	store.SetTheme(state.ThemeLight)
	m = update(t, m, snapshotMsg(store.Snapshot()))
	if m.theme.Name != "light" {
		t.Fatalf("theme = %q, want light", m.theme.Name)
	}
}

func TestListing_ConfigErrorHasNoRetry(t *testing.T) {
	m, _ := newTestModel(t, catalog.Misconfigured("backend url is empty"), "/", 120)
	view := m.View()
	if !strings.Contains(view, catalog.FailureConfig.Message()) {
		t.Fatalf("config message missing:\n%s", view)
	}
	if strings.Contains(view, "Press r to retry.") {
		t.Fatal("config failures must not offer a retry")
	}
}

func TestNavigator(t *testing.T) {
	n := &navigator{current: route.Listing(nil)}
	n.push(route.Detail("a"))
	n.replaceQuery(map[string][]string{"chain": {"x"}})
	if n.current.Page != route.PageDetail || n.current.Query != nil {
		t.Fatal("replaceQuery touched a detail route")
	}
	if !n.back() || n.current.Page != route.PageListing {
		t.Fatal("back did not return to the listing")
	}
	if n.back() {
		t.Fatal("back succeeded with empty history")
	}
}

func TestNew_NormalizesStartingListingLocation(t *testing.T) {
	tests := map[string]string{
		"/?cost=bogus&chain=&new=yes&junk=1": "/",
		"/?junk=1&cost=free&chain=Solana":    "/?chain=Solana&cost=FREE",
		"/faq":                               "/faq",
	}
	for in, want := range tests {
		m := New(Options{Location: in, PrefsPath: filepath.Join(t.TempDir(), "prefs.toml")})
		m.debounce.Close()
		if got := m.Location(); got != want {
			t.Errorf("New(%q).Location() = %q, want %q", in, got, want)
		}
	}
}

func TestTitleCase_MultibyteWords(t *testing.T) {
	tests := map[string]string{
		"élite":        "Élite",
		"ñew_stage":    "Ñew Stage",
		"ÜBER  active": "Über Active",
		"":             "",
	}
	for in, want := range tests {
		if got := titleCase(in); got != want {
			t.Errorf("titleCase(%q) = %q, want %q", in, got, want)
		}
	}
}
