// Package catalog is the data access layer for airdrop records.
//
// Every backend implements Source: a paged, newest-first List and a Get by
// id. Three implementations exist:
//
//   - Client: a PostgREST-compatible hosted table (Supabase), with a
//     client-side token bucket and Content-Range totals
//   - Memory: records held in memory, loaded from a YAML seed file
//   - database.Store (separate package): SQLite or PostgreSQL
//
// Errors are wrapped around three sentinels (ErrNotConfigured, ErrRateLimited,
// ErrNotFound). Callers never inspect HTTP details; they call Classify and
// show Failure.Message to the user.
package catalog
