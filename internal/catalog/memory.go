package catalog

import (
	"context"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/notedrop/notedrop/internal/airdrop"
)

var (
	_ Source = (*Memory)(nil)
	_ Pinger = (*Memory)(nil)
)

// Memory serves records from memory, newest first. It backs the "file"
// backend kind and tests.
type Memory struct {
	mu      sync.RWMutex
	records []airdrop.Record
}

// NewMemory copies records and sorts them by creation time, newest first.
func NewMemory(records []airdrop.Record) *Memory {
	m := &Memory{}
	m.Replace(records)
	return m
}

// Replace swaps the served records.
func (m *Memory) Replace(records []airdrop.Record) {
	dup := make([]airdrop.Record, len(records))
	copy(dup, records)
	sort.SliceStable(dup, func(i, j int) bool {
		return dup[i].CreatedAt.After(dup[j].CreatedAt)
	})
	m.mu.Lock()
	m.records = dup
	m.mu.Unlock()
}

func (m *Memory) List(ctx context.Context, page, pageSize int) (Page, error) {
	if err := ctx.Err(); err != nil {
		return Page{}, err
	}
	page, pageSize = normalizePaging(page, pageSize)

	m.mu.RLock()
	defer m.mu.RUnlock()
	total := len(m.records)
	start := min((page-1)*pageSize, total)
	end := min(start+pageSize, total)
	out := make([]airdrop.Record, end-start)
	copy(out, m.records[start:end])
	return Page{Records: out, Total: total}, nil
}

func (m *Memory) Get(ctx context.Context, id string) (airdrop.Record, error) {
	if err := ctx.Err(); err != nil {
		return airdrop.Record{}, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, r := range m.records {
		if r.ID == id {
			return r, nil
		}
	}
	return airdrop.Record{}, fmt.Errorf("airdrop %q: %w", id, ErrNotFound)
}

func (m *Memory) Ping(ctx context.Context) error {
	return ctx.Err()
}

// seedFile is the document layout read by ReadSeed.
type seedFile struct {
	Airdrops []airdrop.Record `yaml:"airdrops"`
}

// ReadSeed loads records from a YAML seed file.
func ReadSeed(path string) ([]airdrop.Record, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open seed: %w", err)
	}
	defer file.Close()
	return DecodeSeed(file)
}

// DecodeSeed parses a YAML seed document. Records without a name and id
// are rejected; records without an id get one from AssignIDs.
func DecodeSeed(r io.Reader) ([]airdrop.Record, error) {
	var doc seedFile
	dec := yaml.NewDecoder(r)
	if err := dec.Decode(&doc); err != nil {
		if err == io.EOF {
			return nil, nil
		}
		return nil, fmt.Errorf("parse seed: %w", err)
	}
	for i := range doc.Airdrops {
		rec := &doc.Airdrops[i]
		rec.ID = strings.TrimSpace(rec.ID)
		if rec.ID == "" && strings.TrimSpace(rec.Name) == "" {
			return nil, fmt.Errorf("parse seed: airdrop %d has neither id nor name", i+1)
		}
		if rec.Cost < 0 {
			rec.Cost = 0
		}
	}
	AssignIDs(doc.Airdrops)
	return doc.Airdrops, nil
}

var seedNamespace = uuid.MustParse("6f1c2b9e-3d4a-4e8f-9b27-5a0c1d7e8f42")

// AssignIDs gives records without an id a UUID derived from the name, so
// locations stay stable across imports.
func AssignIDs(records []airdrop.Record) {
	for i := range records {
		if records[i].ID != "" {
			continue
		}
		name := strings.ToLower(strings.TrimSpace(records[i].Name))
		records[i].ID = uuid.NewSHA1(seedNamespace, []byte(name)).String()
	}
}
