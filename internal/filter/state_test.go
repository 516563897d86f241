package filter

import (
	"net/url"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/notedrop/notedrop/internal/airdrop"
)

var testNow = time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)

func sampleRecords() []airdrop.Record {
	return []airdrop.Record{
		{ID: "1", Name: "Layer Zero", Subtitle: "Omnichain messaging", Chain: "Ethereum", Stage: "active", Cost: 0, CreatedAt: testNow.Add(-24 * time.Hour)},
		{ID: "2", Name: "Jupiter", Subtitle: "Swap aggregator", Chain: "Solana", Stage: "Upcoming", Cost: 5, CreatedAt: testNow.Add(-30 * 24 * time.Hour)},
		{ID: "3", Name: "Scroll", Subtitle: "zkEVM rollup", Chain: "ethereum", Stage: "ended", Cost: 0},
	}
}

func ids(records []airdrop.Record) []string {
	out := make([]string, 0, len(records))
	for _, r := range records {
		out = append(out, r.ID)
	}
	return out
}

func TestVisible_Predicates(t *testing.T) {
	records := sampleRecords()

	tests := []struct {
		name  string
		state State
		want  []string
	}{
		{"no filters", State{}, []string{"1", "2", "3"}},
		{"search name case insensitive", State{Settled: "JUPI"}, []string{"2"}},
		{"search subtitle", State{Settled: "rollup"}, []string{"3"}},
		{"raw search ignored until settled", State{Search: "jupiter"}, []string{"1", "2", "3"}},
		{"chain case insensitive", State{Chain: "Ethereum"}, []string{"1", "3"}},
		{"free", State{Cost: CostFree}, []string{"1", "3"}},
		{"paid", State{Cost: CostPaid}, []string{"2"}},
		{"stage case insensitive", State{Stage: "upcoming"}, []string{"2"}},
		{"new only", State{NewOnly: true}, []string{"1"}},
		{"combined", State{Chain: "ethereum", Cost: CostFree, Stage: "ENDED"}, []string{"3"}},
		{"no match", State{Chain: "Cosmos"}, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ids(Visible(records, tt.state, testNow))
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Fatalf("Visible mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestVisible_ChainScenario(t *testing.T) {
	records := []airdrop.Record{{Chain: "Ethereum"}, {Chain: "Solana"}, {Chain: "Ethereum"}}
	if got := len(Visible(records, State{Chain: "Ethereum"}, testNow)); got != 2 {
		t.Fatalf("visible = %d, want 2", got)
	}
}

func TestVisible_CostScenario(t *testing.T) {
	records := []airdrop.Record{{Cost: 0}, {Cost: 5}, {Cost: 0}}
	if got := len(Visible(records, State{Cost: CostFree}, testNow)); got != 2 {
		t.Fatalf("FREE visible = %d, want 2", got)
	}
	if got := len(Visible(records, State{Cost: CostPaid}, testNow)); got != 1 {
		t.Fatalf("PAID visible = %d, want 1", got)
	}
}

func TestVisible_MissingFieldsNeverMatchFilters(t *testing.T) {
	records := []airdrop.Record{{ID: "empty"}}
	states := []State{
		{Settled: "x"},
		{Chain: "Ethereum"},
		{Cost: CostPaid},
		{Stage: "active"},
		{NewOnly: true},
	}
	for _, s := range states {
		if got := Visible(records, s, testNow); len(got) != 0 {
			t.Errorf("Visible(%+v) = %v, want empty", s, ids(got))
		}
	}
	if got := Visible(records, State{Cost: CostFree}, testNow); len(got) != 1 {
		t.Errorf("record with no cost should count as free")
	}
}

// Every combination yields a subsequence of the input that satisfies Match.
func TestVisible_SubsetOfAllCombinations(t *testing.T) {
	records := sampleRecords()
	for _, search := range []string{"", "a", "scroll"} {
		for _, chain := range []string{"", "Ethereum", "Solana"} {
			for _, cost := range []Cost{CostAny, CostFree, CostPaid} {
				for _, stage := range []string{"", "active", "upcoming", "ended"} {
					for _, newOnly := range []bool{false, true} {
						s := State{Settled: search, Chain: chain, Cost: cost, Stage: stage, NewOnly: newOnly}
						got := Visible(records, s, testNow)
						j := 0
						for _, r := range records {
							if j < len(got) && got[j].ID == r.ID {
								j++
								continue
							}
							if s.Match(r, testNow) {
								t.Fatalf("state %+v dropped matching record %s", s, r.ID)
							}
						}
						if j != len(got) {
							t.Fatalf("state %+v returned records out of order: %v", s, ids(got))
						}
					}
				}
			}
		}
	}
}

func TestQuery_OmitsDefaults(t *testing.T) {
	if got := (State{}).Query().Encode(); got != "" {
		t.Fatalf("default query = %q, want empty", got)
	}

	s := State{Search: "typing", Settled: "zk", Chain: "Ethereum", Cost: CostPaid, Stage: "active", NewOnly: true}
	want := url.Values{
		"search": {"zk"},
		"chain":  {"Ethereum"},
		"cost":   {"PAID"},
		"stage":  {"active"},
		"new":    {"true"},
	}
	if diff := cmp.Diff(want, s.Query()); diff != "" {
		t.Fatalf("Query mismatch (-want +got):\n%s", diff)
	}
}

func TestFromQuery(t *testing.T) {
	v, _ := url.ParseQuery("search=zk&chain=Solana&cost=free&stage=ended&new=true")
	got := FromQuery(v)
	want := State{Search: "zk", Settled: "zk", Chain: "Solana", Cost: CostFree, Stage: "ended", NewOnly: true}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("FromQuery mismatch (-want +got):\n%s", diff)
	}

	v, _ = url.ParseQuery("cost=cheap&new=1")
	got = FromQuery(v)
	if got.Cost != CostAny || got.NewOnly {
		t.Fatalf("FromQuery should ignore unknown values, got %+v", got)
	}
}

func TestActiveCount_ExcludesSearch(t *testing.T) {
	s := State{Settled: "x", Chain: "Ethereum", NewOnly: true}
	if got := s.ActiveCount(); got != 2 {
		t.Fatalf("ActiveCount = %d, want 2", got)
	}
}

func TestSummary(t *testing.T) {
	if got := Summary(3, 3, State{}); got != "Showing 3 of 3 airdrops" {
		t.Fatalf("Summary = %q", got)
	}
	if got := Summary(1, 3, State{Cost: CostPaid}); got != "Showing 1 of 3 airdrops with filters applied" {
		t.Fatalf("Summary = %q", got)
	}
}

func TestMatch_SearchUsesTextAsTyped(t *testing.T) {
	records := sampleRecords()
	if got := ids(Visible(records, State{Settled: " zero"}, testNow)); len(got) != 1 || got[0] != "1" {
		t.Fatalf("search %q = %v, want [1]", " zero", got)
	}
	if got := Visible(records, State{Settled: " jupiter"}, testNow); len(got) != 0 {
		t.Fatalf("search %q = %v, want none", " jupiter", ids(got))
	}

	s := State{Settled: " zero"}
	if got := s.Query().Get(ParamSearch); got != " zero" {
		t.Fatalf("query search = %q, want %q", got, " zero")
	}
	if back := FromQuery(s.Query()); back.Settled != " zero" {
		t.Fatalf("FromQuery settled = %q, want %q", back.Settled, " zero")
	}
}

func TestMatch_CostFiltersAgreeWithLabels(t *testing.T) {
	records := []airdrop.Record{{ID: "neg", Cost: -3}, {ID: "zero"}, {ID: "paid", Cost: 2}}
	for _, r := range records {
		free := (State{Cost: CostFree}).Match(r, testNow)
		paid := (State{Cost: CostPaid}).Match(r, testNow)
		if free == paid {
			t.Fatalf("record %s: free=%v paid=%v, want exactly one", r.ID, free, paid)
		}
		if free != r.IsFree() {
			t.Fatalf("record %s: FREE filter = %v, IsFree = %v", r.ID, free, r.IsFree())
		}
	}
}
