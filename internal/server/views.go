package server

import (
	"fmt"
	"html/template"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/notedrop/notedrop/internal/airdrop"
	"github.com/notedrop/notedrop/internal/content"
	"github.com/notedrop/notedrop/internal/filter"
)

// cardView is one record as shown in the listing.
type cardView struct {
	ID         string
	Href       string
	Name       string
	Subtitle   string
	Chain      string
	Cost       string
	Free       bool
	Stage      string
	StageClass string
	Backers    string
	New        bool
}

func newCardView(r airdrop.Record, now time.Time) cardView {
	return cardView{
		ID:         r.ID,
		Href:       "/" + url.PathEscape(r.ID),
		Name:       r.DisplayName(),
		Subtitle:   r.DisplaySubtitle(),
		Chain:      r.Chain,
		Cost:       r.CostLabel(),
		Free:       r.IsFree(),
		Stage:      r.StageLabel(),
		StageClass: stageClass(r.StageKind()),
		Backers:    r.BackersLabel(),
		New:        r.IsNew(now),
	}
}

func stageClass(kind airdrop.StageKind) string {
	switch kind {
	case airdrop.StageActive:
		return "stage-active"
	case airdrop.StageUpcoming:
		return "stage-upcoming"
	case airdrop.StageEnded:
		return "stage-ended"
	default:
		return "stage-other"
	}
}

// selectOption is one <option> of a filter menu.
type selectOption struct {
	Value    string
	Label    string
	Selected bool
}

// listingView feeds listing.html.
type listingView struct {
	Search      string
	Chains      []selectOption
	Costs       []selectOption
	Stages      []selectOption
	News        []selectOption
	ActiveCount int
	Filtered    bool
	Records     []cardView
	Summary     string
	Empty       bool
	NoMatches   bool
	MoreURL     string
}

func newListingView(s filter.State, records []airdrop.Record, more bool, page int, query url.Values, now time.Time) listingView {
	visible := filter.Visible(records, s, now)
	opts := filter.OptionsFor(records)

	v := listingView{
		Search:      s.Settled,
		ActiveCount: s.ActiveCount(),
		Filtered:    !s.IsDefault(),
		Summary:     filter.Summary(len(visible), len(records), s),
		Empty:       len(records) == 0,
		NoMatches:   len(records) > 0 && len(visible) == 0,
	}

	v.Chains = []selectOption{{Value: "", Label: "All Chains", Selected: s.Chain == ""}}
	for _, c := range withCurrent(opts.Chains, s.Chain) {
		v.Chains = append(v.Chains, selectOption{Value: c, Label: c, Selected: strings.EqualFold(c, s.Chain)})
	}
	for _, c := range []filter.Cost{filter.CostAny, filter.CostFree, filter.CostPaid} {
		v.Costs = append(v.Costs, selectOption{Value: c.String(), Label: c.Label(), Selected: s.Cost == c})
	}
	v.Stages = []selectOption{{Value: "", Label: "All Stages", Selected: s.Stage == ""}}
	for _, st := range withCurrent(opts.Stages, s.Stage) {
		v.Stages = append(v.Stages, selectOption{Value: st, Label: airdrop.Capitalize(st), Selected: strings.EqualFold(st, s.Stage)})
	}
	v.News = []selectOption{
		{Value: "", Label: "All Projects", Selected: !s.NewOnly},
		{Value: "true", Label: "New Only", Selected: s.NewOnly},
	}

	v.Records = make([]cardView, 0, len(visible))
	for _, r := range visible {
		v.Records = append(v.Records, newCardView(r, now))
	}

	if more {
		next := url.Values{}
		for k, vals := range query {
			next[k] = vals
		}
		next.Set("page", strconv.Itoa(page+1))
		v.MoreURL = "/?" + next.Encode()
	}
	return v
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

// detailView feeds detail.html.
type detailView struct {
	Card         cardView
	Banner       string
	Created      time.Time
	Description  template.HTML
	Requirements []airdrop.Entry
	Steps        []airdrop.Entry
	Backers      []string
	Comment      string
}

func newDetailView(r airdrop.Record, now time.Time) (detailView, error) {
	v := detailView{
		Card:         newCardView(r, now),
		Banner:       r.Banner(),
		Created:      r.CreatedAt,
		Requirements: r.Requirements.Normalize(),
		Steps:        r.HowToSteps.Normalize(),
		Backers:      r.CleanBackers(),
		Comment:      strings.TrimSpace(r.Comment),
	}
	if desc := strings.TrimSpace(r.Description); desc != "" {
		html, err := content.RenderHTML(desc)
		if err != nil {
			return detailView{}, fmt.Errorf("render description: %w", err)
		}
		v.Description = template.HTML(html) //nolint:gosec // sanitized by bluemonday
	}
	return v, nil
}

// staticView feeds page.html.
type staticView struct {
	Title    string
	Subtitle string
	HTML     template.HTML
}

// errorView feeds error.html.
type errorView struct {
	Status  int
	Message string
	Retry   bool
}
