package filter

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/notedrop/notedrop/internal/airdrop"
)

// Query parameter names shared by the terminal location and the web routes.
const (
	ParamSearch = "search"
	ParamChain  = "chain"
	ParamCost   = "cost"
	ParamStage  = "stage"
	ParamNew    = "new"
)

// Cost selects records by price.
type Cost int

const (
	CostAny Cost = iota
	CostFree
	CostPaid
)

// ParseCost maps the query value to a Cost. Unknown values mean CostAny.
func ParseCost(s string) Cost {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "FREE":
		return CostFree
	case "PAID":
		return CostPaid
	default:
		return CostAny
	}
}

// String returns the query value, empty for CostAny.
func (c Cost) String() string {
	switch c {
	case CostFree:
		return "FREE"
	case CostPaid:
		return "PAID"
	default:
		return ""
	}
}

// Label is the menu text for the option.
func (c Cost) Label() string {
	switch c {
	case CostFree:
		return "Free"
	case CostPaid:
		return "Paid"
	default:
		return "All Costs"
	}
}

// State is the full filter selection. Search is the text as typed; Settled
// is the debounced copy that matching and location sync use.
type State struct {
	Search  string
	Settled string
	Chain   string
	Cost    Cost
	Stage   string
	NewOnly bool
}

// Match reports whether r passes every active predicate.
func (s State) Match(r airdrop.Record, now time.Time) bool {
	if s.Settled != "" {
		q := strings.ToLower(s.Settled)
		if !strings.Contains(strings.ToLower(r.Name), q) &&
			!strings.Contains(strings.ToLower(r.Subtitle), q) {
			return false
		}
	}
	if s.Chain != "" && !strings.EqualFold(strings.TrimSpace(r.Chain), strings.TrimSpace(s.Chain)) {
		return false
	}
	switch s.Cost {
	case CostFree:
		if !r.IsFree() {
			return false
		}
	case CostPaid:
		if r.IsFree() {
			return false
		}
	}
	if s.Stage != "" && !strings.EqualFold(strings.TrimSpace(r.Stage), strings.TrimSpace(s.Stage)) {
		return false
	}
	if s.NewOnly && !r.IsNew(now) {
		return false
	}
	return true
}

// Visible returns the records that match s, in input order.
func Visible(records []airdrop.Record, s State, now time.Time) []airdrop.Record {
	out := make([]airdrop.Record, 0, len(records))
	for _, r := range records {
		if s.Match(r, now) {
			out = append(out, r)
		}
	}
	return out
}

// IsDefault reports whether no filter or search is applied.
func (s State) IsDefault() bool {
	return s.Settled == "" && s.ActiveCount() == 0
}

// ActiveCount counts the non-default menu filters. Search is not counted.
func (s State) ActiveCount() int {
	n := 0
	if s.Chain != "" {
		n++
	}
	if s.Cost != CostAny {
		n++
	}
	if s.Stage != "" {
		n++
	}
	if s.NewOnly {
		n++
	}
	return n
}

// Query encodes exactly the non-default filters.
func (s State) Query() url.Values {
	v := url.Values{}
	if s.Settled != "" {
		v.Set(ParamSearch, s.Settled)
	}
	if s.Chain != "" {
		v.Set(ParamChain, s.Chain)
	}
	if c := s.Cost.String(); c != "" {
		v.Set(ParamCost, c)
	}
	if s.Stage != "" {
		v.Set(ParamStage, s.Stage)
	}
	if s.NewOnly {
		v.Set(ParamNew, "true")
	}
	return v
}

// FromQuery seeds a State from location parameters. Both the raw and the
// settled search text take the search value.
func FromQuery(v url.Values) State {
	search := v.Get(ParamSearch)
	return State{
		Search:  search,
		Settled: search,
		Chain:   strings.TrimSpace(v.Get(ParamChain)),
		Cost:    ParseCost(v.Get(ParamCost)),
		Stage:   strings.TrimSpace(v.Get(ParamStage)),
		NewOnly: v.Get(ParamNew) == "true",
	}
}

// Summary renders the results line shown above the listing.
func Summary(visible, total int, s State) string {
	line := fmt.Sprintf("Showing %d of %d airdrops", visible, total)
	if !s.IsDefault() {
		line += " with filters applied"
	}
	return line
}
