package ui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/notedrop/notedrop/internal/airdrop"
	"github.com/notedrop/notedrop/internal/catalog"
	"github.com/notedrop/notedrop/internal/filter"
	"github.com/notedrop/notedrop/internal/logtail"
	"github.com/notedrop/notedrop/internal/state"
)

// Messages

// pageLoadedMsg carries one listing page.
type pageLoadedMsg struct {
	page   int
	result catalog.Page
	err    error
}

// detailLoadedMsg carries one record. seq identifies the request so a reply
// for a location the user already left is dropped.
type detailLoadedMsg struct {
	seq    int
	id     string
	record airdrop.Record
	err    error
}

// searchSettledMsg is search text that survived the settle window.
type searchSettledMsg string

// snapshotMsg is a theme or network change from the shared store.
type snapshotMsg state.Snapshot

type logsLoadedMsg struct {
	lines []string
	err   error
}

// Commands

func (m Model) fetchPageCmd(page int) tea.Cmd {
	ctx, src, size := m.ctx, m.source, m.pageSize
	return func() tea.Msg {
		if src == nil {
			return pageLoadedMsg{page: page, err: catalog.ErrNotConfigured}
		}
		ctx, cancel := context.WithTimeout(ctx, FetchTimeout)
		defer cancel()
		result, err := src.List(ctx, page, size)
		return pageLoadedMsg{page: page, result: result, err: err}
	}
}

func (m Model) fetchDetailCmd(seq int, id string) tea.Cmd {
	ctx, src := m.ctx, m.source
	return func() tea.Msg {
		if src == nil {
			return detailLoadedMsg{seq: seq, id: id, err: catalog.ErrNotConfigured}
		}
		ctx, cancel := context.WithTimeout(ctx, FetchTimeout)
		defer cancel()
		record, err := src.Get(ctx, id)
		return detailLoadedMsg{seq: seq, id: id, record: record, err: err}
	}
}

// waitForSearch blocks until the debouncer settles. It returns nil once the
// debouncer is closed.
func waitForSearch(d *filter.Debouncer) tea.Cmd {
	return func() tea.Msg {
		text, ok := <-d.C()
		if !ok {
			return nil
		}
		return searchSettledMsg(text)
	}
}

func waitForSnapshot(ch <-chan state.Snapshot) tea.Cmd {
	return func() tea.Msg {
		snap, ok := <-ch
		if !ok {
			return nil
		}
		return snapshotMsg(snap)
	}
}

func loadLogsCmd(path string) tea.Cmd {
	return func() tea.Msg {
		if path == "" {
			return logsLoadedMsg{}
		}
		lines, err := logtail.Read(path, LogTailLines)
		return logsLoadedMsg{lines: lines, err: err}
	}
}
