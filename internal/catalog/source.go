package catalog

import (
	"context"
	"fmt"

	"github.com/notedrop/notedrop/internal/airdrop"
)

// DefaultPageSize is the number of records a listing page requests.
const DefaultPageSize = 20

// Page is one slice of the newest-first record list.
type Page struct {
	Records []airdrop.Record
	Total   int // total rows available; -1 when unknown
}

// HasMore reports whether rows beyond loaded remain.
func (p Page) HasMore(loaded int) bool {
	if p.Total < 0 {
		return len(p.Records) > 0
	}
	return loaded < p.Total
}

// Source is the read-only data access contract used by the listing and
// detail views. Pages are 1-based.
type Source interface {
	List(ctx context.Context, page, pageSize int) (Page, error)
	Get(ctx context.Context, id string) (airdrop.Record, error)
}

// Pinger is implemented by sources that can report reachability.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Misconfigured returns a Source that fails every call with ErrNotConfigured.
// It lets the UI start and explain the problem instead of exiting.
func Misconfigured(reason string) Source {
	return misconfigured{reason: reason}
}

type misconfigured struct {
	reason string
}

func (m misconfigured) err() error {
	return fmt.Errorf("%s: %w", m.reason, ErrNotConfigured)
}

func (m misconfigured) List(context.Context, int, int) (Page, error) {
	return Page{}, m.err()
}

func (m misconfigured) Get(context.Context, string) (airdrop.Record, error) {
	return airdrop.Record{}, m.err()
}

func (m misconfigured) Ping(context.Context) error {
	return m.err()
}

func normalizePaging(page, pageSize int) (int, int) {
	if page < 1 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return page, pageSize
}
