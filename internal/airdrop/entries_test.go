package airdrop

import (
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"
	"gopkg.in/yaml.v3"
)

func TestEntriesNormalize_JSONShapes(t *testing.T) {
	tests := []struct {
		name  string
		input string
		kind  EntriesKind
		want  []Entry
	}{
		{"list", `["a","b"]`, KindList, []Entry{{Title: "a"}, {Title: "b"}}},
		{"keyed", `{"x":"y"}`, KindKeyed, []Entry{{Title: "x", Description: "y"}}},
		{"keyed keeps order", `{"zeta":"1","alpha":"2","mid":"3"}`, KindKeyed, []Entry{
			{Title: "zeta", Description: "1"},
			{Title: "alpha", Description: "2"},
			{Title: "mid", Description: "3"},
		}},
		{"blank items dropped", `["a","  ",""]`, KindList, []Entry{{Title: "a"}}},
		{"scalars stringified", `[1, true, null, {"k":"v"}]`, KindList, []Entry{{Title: "1"}, {Title: "true"}}},
		{"nested value blanked", `{"Wallet":{"deep":true}}`, KindKeyed, []Entry{{Title: "Wallet"}}},
		{"json inside string", `"[\"a\"]"`, KindList, []Entry{{Title: "a"}}},
		{"plain string", `"hold tokens"`, KindNone, nil},
		{"number", `42`, KindNone, nil},
		{"null", `null`, KindNone, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var e Entries
			if err := json.Unmarshal([]byte(tt.input), &e); err != nil {
				t.Fatalf("Unmarshal returned error: %v", err)
			}
			if e.Kind() != tt.kind {
				t.Fatalf("Kind = %v, want %v", e.Kind(), tt.kind)
			}
			if diff := cmp.Diff(tt.want, e.Normalize()); diff != "" {
				t.Fatalf("Normalize mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestEntries_MalformedFieldInsideRecord(t *testing.T) {
	var r Record
	payload := `{"id":"1","requirements":"not a list","how_to_steps":7}`
	if err := json.Unmarshal([]byte(payload), &r); err != nil {
		t.Fatalf("Unmarshal returned error: %v", err)
	}
	if got := r.Requirements.Normalize(); len(got) != 0 {
		t.Fatalf("Requirements = %#v, want empty", got)
	}
	if got := r.HowToSteps.Normalize(); len(got) != 0 {
		t.Fatalf("HowToSteps = %#v, want empty", got)
	}
}

func TestEntries_MarshalKeepsShape(t *testing.T) {
	keyed := Keyed(Pair{"b", "2"}, Pair{"a", "1"})
	got, err := json.Marshal(keyed)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if string(got) != `{"b":"2","a":"1"}` {
		t.Fatalf("Marshal keyed = %s", got)
	}

	got, err = json.Marshal(List())
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if string(got) != `[]` {
		t.Fatalf("Marshal empty list = %s", got)
	}

	got, err = json.Marshal(Entries{})
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if string(got) != `null` {
		t.Fatalf("Marshal none = %s", got)
	}
}

func TestEntries_YAML(t *testing.T) {
	doc := `
requirements:
  - Hold a wallet
  - ""
  - Bridge funds
how_to_steps:
  Connect: Open the app
  Swap: Trade once
  Claim: ~
`
	var v struct {
		Requirements Entries `yaml:"requirements"`
		HowToSteps   Entries `yaml:"how_to_steps"`
	}
	if err := yaml.Unmarshal([]byte(doc), &v); err != nil {
		t.Fatalf("yaml.Unmarshal: %v", err)
	}

	wantReq := []Entry{{Title: "Hold a wallet"}, {Title: "Bridge funds"}}
	if diff := cmp.Diff(wantReq, v.Requirements.Normalize()); diff != "" {
		t.Fatalf("requirements mismatch (-want +got):\n%s", diff)
	}
	wantSteps := []Entry{
		{Title: "Connect", Description: "Open the app"},
		{Title: "Swap", Description: "Trade once"},
		{Title: "Claim"},
	}
	if diff := cmp.Diff(wantSteps, v.HowToSteps.Normalize()); diff != "" {
		t.Fatalf("steps mismatch (-want +got):\n%s", diff)
	}
}

func TestEntries_SQLRoundTrip(t *testing.T) {
	orig := Keyed(Pair{"one", "first"}, Pair{"two", "second"})
	v, err := orig.Value()
	if err != nil {
		t.Fatalf("Value: %v", err)
	}

	var scanned Entries
	if err := scanned.Scan(v); err != nil {
		t.Fatalf("Scan: %v", err)
	}
	if diff := cmp.Diff(orig.Normalize(), scanned.Normalize()); diff != "" {
		t.Fatalf("round trip mismatch (-want +got):\n%s", diff)
	}

	if v, _ := (Entries{}).Value(); v != nil {
		t.Fatalf("Value of empty entries = %v, want nil", v)
	}
	if err := scanned.Scan(nil); err != nil || scanned.Kind() != KindNone {
		t.Fatalf("Scan(nil) = %v kind %v, want nil error and KindNone", err, scanned.Kind())
	}
}
