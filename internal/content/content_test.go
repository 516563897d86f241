package content

import (
	"regexp"
	"strings"
	"testing"
)

var ansi = regexp.MustCompile(`\x1b\[[0-9;]*m`)

func TestPages(t *testing.T) {
	for _, slug := range []string{"about", "faq", "privacy", "terms"} {
		p, ok := Lookup(slug)
		if !ok {
			t.Fatalf("Lookup(%q) missing", slug)
		}
		if p.Title == "" || strings.TrimSpace(p.Markdown) == "" {
			t.Fatalf("page %q is empty: %+v", slug, p)
		}
	}
	if _, ok := Lookup("  FAQ "); !ok {
		t.Fatal("Lookup should ignore case and spaces")
	}
	if _, ok := Lookup("blog"); ok {
		t.Fatal("Lookup(blog) found a page")
	}
}

func TestFAQHasSixQuestions(t *testing.T) {
	p, _ := Lookup("faq")
	if got := strings.Count(p.Markdown, "### "); got != 6 {
		t.Fatalf("FAQ questions = %d, want 6", got)
	}
}

func TestContactAddresses(t *testing.T) {
	privacy, _ := Lookup("privacy")
	terms, _ := Lookup("terms")
	if !strings.Contains(privacy.Markdown, "privacy@notedrop.xyz") {
		t.Fatal("privacy page lacks its contact address")
	}
	if !strings.Contains(terms.Markdown, "contact@notedrop.xyz") {
		t.Fatal("terms page lacks its contact address")
	}
}

func TestRenderHTML_Sanitizes(t *testing.T) {
	out, err := RenderHTML("# Title\n\n<script>alert(1)</script>\n\n**bold** https://notedrop.xyz")
	if err != nil {
		t.Fatalf("RenderHTML returned error: %v", err)
	}
	if strings.Contains(out, "<script>") {
		t.Fatalf("script survived sanitizing: %q", out)
	}
	if !strings.Contains(out, "<strong>bold</strong>") || !strings.Contains(out, "<h1") {
		t.Fatalf("markdown not rendered: %q", out)
	}
}

func TestRenderTerminal(t *testing.T) {
	out, err := RenderTerminal("## Our Mission\n\nHelp users.", 60, false)
	if err != nil {
		t.Fatalf("RenderTerminal returned error: %v", err)
	}
	out = ansi.ReplaceAllString(out, "")
	if !strings.Contains(out, "Our Mission") || !strings.Contains(out, "Help users.") {
		t.Fatalf("RenderTerminal output = %q", out)
	}
}
