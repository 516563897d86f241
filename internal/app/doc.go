// Package app wires configuration, logging, the record backend, the shared
// state store and the connectivity poller into the three commands.
//
//	Run     terminal client (ui.Run), returns the final location
//	Serve   HTTP server (server.Server) plus the poller, under one errgroup
//	Import  YAML seed file into the SQLite or PostgreSQL backend
//
// Run and Serve start the same way:
//
//  1. config.Load reads ~/.config/notedrop/config.toml and env overrides
//  2. logging.New opens the zap logger (file for the TUI, stderr for serve)
//  3. prefs.Load seeds state.Store with the saved theme
//  4. openBackend picks the REST client, a SQL store or a seed file
//  5. StartPoller probes the backend and records results in the store
//
// A REST backend without URL or key does not stop startup. The source
// returned by openBackend fails every call with catalog.ErrNotConfigured and
// the views show the configuration message.
//
// The poller backs off exponentially while probes fail, capped at 30s. Two
// consecutive failures mark the network offline.
package app
