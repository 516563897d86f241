// Package filter implements the listing's search and filter engine.
//
// A State holds one value per filter: search text, chain, cost, stage and
// the new-only toggle. Visible derives the displayed subset of an in-memory
// list; it never reorders records. The Engine wraps a State with the
// interactive rules of the listing:
//
//   - typed search text only takes effect after the Debouncer settle window
//   - every settled change rewrites the location query, omitting defaults
//   - at most one filter menu is open at a time
//   - Clear resets all filters, cancels pending input and closes menus
package filter
