package state

import (
	"fmt"
	"strings"
	"sync"
	"time"
)

// Theme names a color scheme.
type Theme string

const (
	ThemeDark  Theme = "dark"
	ThemeLight Theme = "light"
)

// ParseTheme maps free text to a theme, defaulting to dark.
func ParseTheme(s string) Theme {
	if strings.EqualFold(strings.TrimSpace(s), string(ThemeLight)) {
		return ThemeLight
	}
	return ThemeDark
}

// Toggle returns the other theme.
func (t Theme) Toggle() Theme {
	if t == ThemeLight {
		return ThemeDark
	}
	return ThemeLight
}

func (t Theme) orDefault() Theme {
	if t == "" {
		return ThemeDark
	}
	return t
}

// Network is the derived backend status shown in the header.
type Network int

const (
	NetworkLoading Network = iota
	NetworkOnline
	NetworkOffline
)

func (n Network) String() string {
	switch n {
	case NetworkOnline:
		return "online"
	case NetworkOffline:
		return "offline"
	default:
		return "loading"
	}
}

// Snapshot represents the latest state available to the UI.
type Snapshot struct {
	Theme               Theme
	ConsecutiveFailures int // Number of consecutive failed probes
	LastError           error
	LastProbe           time.Time
	BackendKnown        bool
	BackendEmpty        bool
}

// IsOffline returns true when the backend has been unreachable for multiple probes.
func (s Snapshot) IsOffline() bool {
	return s.ConsecutiveFailures >= 2
}

// Network derives the header status.
func (s Snapshot) Network() Network {
	switch {
	case s.IsOffline():
		return NetworkOffline
	case !s.BackendKnown:
		return NetworkLoading
	case s.BackendEmpty:
		return NetworkOffline
	default:
		return NetworkOnline
	}
}

// Store coordinates concurrent updates to the snapshot.
type Store struct {
	mu       sync.RWMutex
	snapshot Snapshot
	subs     map[int]func(Snapshot)
	nextSub  int
}

// NewStore returns a store starting with the given theme.
func NewStore(theme Theme) *Store {
	s := &Store{}
	s.snapshot.Theme = theme.orDefault()
	return s
}

// Snapshot returns a copy of the current snapshot.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := s.snapshot
	snap.Theme = snap.Theme.orDefault()
	if s.snapshot.LastError != nil {
		snap.LastError = fmt.Errorf("%w", s.snapshot.LastError)
	}
	return snap
}

func (s *Store) Theme() Theme {
	return s.Snapshot().Theme
}

func (s *Store) Network() Network {
	return s.Snapshot().Network()
}

// SetTheme replaces the active theme.
func (s *Store) SetTheme(t Theme) {
	s.update(func(snap *Snapshot) { snap.Theme = t.orDefault() })
}

// ToggleTheme flips the theme and returns the new value.
func (s *Store) ToggleTheme() Theme {
	var next Theme
	s.update(func(snap *Snapshot) {
		next = snap.Theme.orDefault().Toggle()
		snap.Theme = next
	})
	return next
}

// RecordProbe records one connectivity probe. A nil error resets the failure
// count; otherwise the error is kept for display and the count grows.
func (s *Store) RecordProbe(err error) {
	s.update(func(snap *Snapshot) {
		snap.LastProbe = time.Now()
		if err != nil {
			snap.LastError = err
			snap.ConsecutiveFailures++
			return
		}
		snap.LastError = nil
		snap.ConsecutiveFailures = 0
	})
}

// SetBackendEmpty records whether the unfiltered listing returned no records.
func (s *Store) SetBackendEmpty(empty bool) {
	s.update(func(snap *Snapshot) {
		snap.BackendKnown = true
		snap.BackendEmpty = empty
	})
}

// Subscribe registers fn to run after every change of Theme or Network. The
// returned func removes the subscription.
func (s *Store) Subscribe(fn func(Snapshot)) (cancel func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.subs == nil {
		s.subs = make(map[int]func(Snapshot))
	}
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.subs, id)
			s.mu.Unlock()
		})
	}
}

func (s *Store) update(mutate func(*Snapshot)) {
	s.mu.Lock()
	before := s.snapshot
	before.Theme = before.Theme.orDefault()
	mutate(&s.snapshot)
	after := s.snapshot
	after.Theme = after.Theme.orDefault()

	var notify []func(Snapshot)
	if before.Theme != after.Theme || before.Network() != after.Network() {
		notify = make([]func(Snapshot), 0, len(s.subs))
		for _, fn := range s.subs {
			notify = append(notify, fn)
		}
	}
	s.mu.Unlock()

	for _, fn := range notify {
		fn(after)
	}
}
