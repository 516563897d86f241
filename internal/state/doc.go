// Package state holds the process-wide presentation state shared between the
// background poller, the preferences watcher and the UI.
//
// # Overview
//
// The Store carries two independent concerns:
//
//   - Theme: the active color scheme ("dark" or "light"). The UI toggles it
//     and the preferences watcher replaces it when prefs.toml changes on disk.
//   - Network: a derived status (Loading, Online, Offline) computed from the
//     poller's connectivity probes and from whether the unfiltered listing
//     came back empty.
//
// # Producers and consumers
//
//	Poller ──RecordProbe(err)──┐
//	Listing ─SetBackendEmpty()─┼──→ Store ──Snapshot()──→ UI render
//	Prefs watcher ─SetTheme()──┘        └──Subscribe(fn)──→ UI messages
//
// Writers take the write lock only for the field update. Subscribers are
// called after the lock is released, and only when Theme or Network changed,
// so a subscriber may call back into the Store.
//
// # Network derivation
//
// Connectivity is offline after two consecutive failed probes and recovers on
// the next success. Offline connectivity wins over everything else. Otherwise
// a known empty backend reports Offline, a known non-empty backend reports
// Online, and an unknown backend reports Loading.
//
// The zero Store is ready to use with the dark theme.
package state
