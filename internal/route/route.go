// Package route maps addressable locations to pages. The same locations are
// used by the terminal client's address bar and by the web server.
package route

import (
	"net/url"
	"strings"
)

// Page identifies a screen.
type Page int

const (
	PageListing Page = iota
	PageDetail
	PageAbout
	PageFAQ
	PagePrivacy
	PageTerms
	PageNotFound
)

var staticPages = map[string]Page{
	"about":   PageAbout,
	"faq":     PageFAQ,
	"privacy": PagePrivacy,
	"terms":   PageTerms,
}

// Slug returns the path segment of a static page, or "".
func (p Page) Slug() string {
	for slug, page := range staticPages {
		if page == p {
			return slug
		}
	}
	return ""
}

// IsStatic reports whether p is one of the informational pages.
func (p Page) IsStatic() bool {
	return p.Slug() != ""
}

// Route is a parsed location.
type Route struct {
	Page  Page
	ID    string     // PageDetail only
	Query url.Values // PageListing only
}

// Listing returns the listing route with the given filter query.
func Listing(q url.Values) Route {
	return Route{Page: PageListing, Query: q}
}

// Detail returns the route of one record.
func Detail(id string) Route {
	return Route{Page: PageDetail, ID: id}
}

// Static returns the route of an informational page.
func Static(p Page) Route {
	return Route{Page: p}
}

// Parse reads a location such as "/?chain=Solana" or "/abc123". Empty input
// is the listing.
func Parse(location string) Route {
	location = strings.TrimSpace(location)
	if location == "" {
		return Listing(url.Values{})
	}
	u, err := url.Parse(location)
	if err != nil {
		return Route{Page: PageNotFound}
	}
	path := strings.Trim(u.Path, "/")
	switch {
	case path == "":
		return Listing(u.Query())
	case strings.Contains(path, "/"):
		return Route{Page: PageNotFound}
	}
	if page, ok := staticPages[strings.ToLower(path)]; ok {
		return Static(page)
	}
	return Detail(path)
}

// String renders the location. Listing queries omit the "?" when empty.
func (r Route) String() string {
	switch r.Page {
	case PageListing:
		if q := r.Query.Encode(); q != "" {
			return "/?" + q
		}
		return "/"
	case PageDetail:
		return "/" + url.PathEscape(r.ID)
	case PageNotFound:
		return "/404"
	default:
		return "/" + r.Page.Slug()
	}
}
