package filter

import (
	"net/url"
	"strings"
	"time"

	"github.com/notedrop/notedrop/internal/airdrop"
)

// Menu identifies one of the filter dropdowns.
type Menu int

const (
	MenuNone Menu = iota
	MenuChain
	MenuCost
	MenuStage
	MenuNew
)

func (m Menu) String() string {
	switch m {
	case MenuChain:
		return "chain"
	case MenuCost:
		return "cost"
	case MenuStage:
		return "stage"
	case MenuNew:
		return "new"
	default:
		return "none"
	}
}

// LocationFunc receives the query whenever the synced filters change.
type LocationFunc func(url.Values)

// Engine owns the filter state of one listing. It is not safe for
// concurrent use; the UI loop is its only caller.
type Engine struct {
	state     State
	menu      Menu
	debounce  *Debouncer
	onChange  LocationFunc
	lastQuery string
}

// NewEngine starts from initial, typically FromQuery of the current location.
// The initial query is not echoed back through onChange.
func NewEngine(initial State, debounce *Debouncer, onChange LocationFunc) *Engine {
	return &Engine{
		state:     initial,
		debounce:  debounce,
		onChange:  onChange,
		lastQuery: initial.Query().Encode(),
	}
}

// State returns a copy of the current selection.
func (e *Engine) State() State { return e.state }

// Menu returns the open dropdown, or MenuNone.
func (e *Engine) Menu() Menu { return e.menu }

// Query returns the encoded query for the current settled state.
func (e *Engine) Query() string { return e.state.Query().Encode() }

// SetSearchText records typed text and restarts the settle window. The
// visible list is unchanged until Settle runs.
func (e *Engine) SetSearchText(text string) {
	if text == e.state.Search {
		return
	}
	e.state.Search = text
	if e.debounce != nil {
		e.debounce.Push(text)
	}
}

// Settle applies settled search text delivered by the debouncer. Text that
// no longer matches the input box is stale and ignored.
func (e *Engine) Settle(text string) bool {
	if text != e.state.Search {
		return false
	}
	if text == e.state.Settled {
		return false
	}
	e.state.Settled = text
	e.sync()
	return true
}

// SettleNow skips the settle window, as when the user submits the search.
func (e *Engine) SettleNow() bool {
	if e.debounce != nil {
		e.debounce.Cancel()
	}
	return e.Settle(e.state.Search)
}

func (e *Engine) SetChain(chain string) {
	e.menu = MenuNone
	e.state.Chain = strings.TrimSpace(chain)
	e.sync()
}

func (e *Engine) SetCost(c Cost) {
	e.menu = MenuNone
	e.state.Cost = c
	e.sync()
}

func (e *Engine) SetStage(stage string) {
	e.menu = MenuNone
	e.state.Stage = strings.TrimSpace(stage)
	e.sync()
}

func (e *Engine) SetNewOnly(on bool) {
	e.menu = MenuNone
	e.state.NewOnly = on
	e.sync()
}

// Clear resets every filter and the search box, cancels pending search
// input, and closes any open menu.
func (e *Engine) Clear() {
	if e.debounce != nil {
		e.debounce.Cancel()
	}
	e.state = State{}
	e.menu = MenuNone
	e.sync()
}

// ToggleMenu opens m, closing any other menu, or closes m if it is open.
func (e *Engine) ToggleMenu(m Menu) {
	if e.menu == m {
		e.menu = MenuNone
		return
	}
	e.menu = m
}

// CloseMenu closes the open menu, as a click outside it does.
func (e *Engine) CloseMenu() {
	e.menu = MenuNone
}

// Visible applies the current state to records.
func (e *Engine) Visible(records []airdrop.Record, now time.Time) []airdrop.Record {
	return Visible(records, e.state, now)
}

func (e *Engine) sync() {
	q := e.state.Query()
	encoded := q.Encode()
	if encoded == e.lastQuery {
		return
	}
	e.lastQuery = encoded
	if e.onChange != nil {
		e.onChange(q)
	}
}

// Options lists the choices offered by the chain and stage menus.
type Options struct {
	Chains []string
	Stages []string
}

// OptionsFor collects distinct non-empty chains and stages in first-seen
// order. Values differing only by case are listed once.
func OptionsFor(records []airdrop.Record) Options {
	return Options{
		Chains: distinct(records, func(r airdrop.Record) string { return r.Chain }),
		Stages: distinct(records, func(r airdrop.Record) string { return r.Stage }),
	}
}

func distinct(records []airdrop.Record, field func(airdrop.Record) string) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, r := range records {
		v := strings.TrimSpace(field(r))
		if v == "" {
			continue
		}
		key := strings.ToLower(v)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, v)
	}
	return out
}
