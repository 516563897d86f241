package route

import (
	"net/url"
	"testing"
)

func TestParse(t *testing.T) {
	tests := []struct {
		in     string
		page   Page
		id     string
		chain  string
		render string
	}{
		{"", PageListing, "", "", "/"},
		{"/", PageListing, "", "", "/"},
		{"/?chain=Solana&cost=FREE", PageListing, "", "Solana", "/?chain=Solana&cost=FREE"},
		{"?chain=Base", PageListing, "", "Base", "/?chain=Base"},
		{"/abc-123", PageDetail, "abc-123", "", "/abc-123"},
		{"/a%20b", PageDetail, "a b", "", "/a%20b"},
		{"/about", PageAbout, "", "", "/about"},
		{"/FAQ", PageFAQ, "", "", "/faq"},
		{"/privacy", PagePrivacy, "", "", "/privacy"},
		{"/terms/", PageTerms, "", "", "/terms"},
		{"/a/b", PageNotFound, "", "", "/404"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			r := Parse(tt.in)
			if r.Page != tt.page {
				t.Fatalf("Parse(%q).Page = %v, want %v", tt.in, r.Page, tt.page)
			}
			if r.ID != tt.id {
				t.Fatalf("Parse(%q).ID = %q, want %q", tt.in, r.ID, tt.id)
			}
			if got := r.Query.Get("chain"); got != tt.chain {
				t.Fatalf("Parse(%q) chain = %q, want %q", tt.in, got, tt.chain)
			}
			if got := r.String(); got != tt.render {
				t.Fatalf("Parse(%q).String() = %q, want %q", tt.in, got, tt.render)
			}
		})
	}
}

func TestListingString_EmptyQuery(t *testing.T) {
	if got := Listing(url.Values{}).String(); got != "/" {
		t.Fatalf("String = %q, want /", got)
	}
	if got := Listing(nil).String(); got != "/" {
		t.Fatalf("String = %q, want /", got)
	}
}

func TestIsStatic(t *testing.T) {
	for _, p := range []Page{PageAbout, PageFAQ, PagePrivacy, PageTerms} {
		if !p.IsStatic() {
			t.Errorf("%v.IsStatic() = false", p)
		}
	}
	for _, p := range []Page{PageListing, PageDetail, PageNotFound} {
		if p.IsStatic() {
			t.Errorf("%v.IsStatic() = true", p)
		}
	}
}
