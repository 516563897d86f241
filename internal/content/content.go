// Package content holds the static pages and renders markdown for both the
// terminal and the HTML site.
package content

import (
	"bytes"
	"embed"
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

//go:embed pages/*.md
var pagesFS embed.FS

// Page is one static page.
type Page struct {
	Slug     string
	Title    string
	Subtitle string
	Markdown string
}

var pages = []Page{
	{Slug: "about", Title: "About NoteDrop", Subtitle: "Your trusted source for Web3 airdrops and blockchain projects"},
	{Slug: "faq", Title: "Frequently Asked Questions", Subtitle: "Everything you need to know about Web3 airdrops and how to participate in them."},
	{Slug: "privacy", Title: "Privacy Policy", Subtitle: "Last updated: June 1, 2023"},
	{Slug: "terms", Title: "Terms of Service", Subtitle: "Last updated: June 1, 2023"},
}

func init() {
	for i := range pages {
		data, err := pagesFS.ReadFile("pages/" + pages[i].Slug + ".md")
		if err != nil {
			panic(fmt.Sprintf("content: missing page %s: %v", pages[i].Slug, err))
		}
		pages[i].Markdown = string(data)
	}
}

// Lookup returns the page for slug.
func Lookup(slug string) (Page, bool) {
	slug = strings.ToLower(strings.TrimSpace(slug))
	for _, p := range pages {
		if p.Slug == slug {
			return p, true
		}
	}
	return Page{}, false
}

// Pages returns every static page in footer order.
func Pages() []Page {
	out := make([]Page, len(pages))
	copy(out, pages)
	return out
}

// RenderTerminal renders markdown with glamour using the light or dark style.
func RenderTerminal(markdown string, width int, light bool) (string, error) {
	if width < 20 {
		width = 20
	}
	style := "dark"
	if light {
		style = "light"
	}
	renderer, err := glamour.NewTermRenderer(
		glamour.WithStylePath(style),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return "", fmt.Errorf("create renderer: %w", err)
	}
	out, err := renderer.Render(markdown)
	if err != nil {
		return "", fmt.Errorf("render markdown: %w", err)
	}
	return strings.TrimRight(out, "\n"), nil
}

var (
	htmlMarkdown = goldmark.New(goldmark.WithExtensions(extension.Linkify, extension.Strikethrough))
	htmlPolicy   = bluemonday.UGCPolicy()
)

// RenderHTML converts markdown to sanitized HTML. Record descriptions come
// from the backend, so raw HTML in them is stripped by the policy.
func RenderHTML(markdown string) (string, error) {
	var buf bytes.Buffer
	if err := htmlMarkdown.Convert([]byte(markdown), &buf); err != nil {
		return "", fmt.Errorf("render markdown: %w", err)
	}
	return string(htmlPolicy.SanitizeBytes(buf.Bytes())), nil
}
