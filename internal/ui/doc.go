// Package ui is the terminal client for the airdrop directory, built on Bubble
// Tea.
//
// The screen is a stack of fixed rows: a header with the network status, an
// address bar showing the current location ("/", "/{id}", "/about" and so on),
// the page body and a command bar. The listing page adds a filter bar with the
// search box and the chain, cost, stage and new-project menus, and a summary
// line. Records render as bordered cards below LayoutCardsWidth columns and as
// a table from there up.
//
// Fetches run as tea.Cmds and re-enter Update as messages. Search input is
// debounced by filter.Debouncer; the settled text arrives through a command
// that waits on the debouncer channel. Theme and network changes published by
// state.Store reach the loop the same way.
//
// Key bindings are listed in keys.go and shown by the help overlay (?).
package ui
