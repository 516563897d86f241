package ui

import "time"

// Terminal width thresholds for responsive layouts.
const (
	// LayoutCardsWidth is the width below which the listing shows cards
	// instead of a table.
	LayoutCardsWidth = 100

	// LayoutWideWidth is the minimum width to show the backers column.
	LayoutWideWidth = 130
)

// Fixed rows: header, address bar, filter bar, summary and command bar.
const (
	rowHeader    = 0
	rowAddress   = 1
	rowFilterBar = 2
	chromeRows   = 5
)

// cardHeight is the rendered height of one listing card including borders.
const cardHeight = 6

// Log overlay limits.
const (
	// LogTailLines is the number of log lines read for the overlay.
	LogTailLines = 400
)

// Timing constants.
const (
	// FetchTimeout bounds one listing or detail request.
	FetchTimeout = 15 * time.Second

	// maxSearchWidth caps the search box width.
	maxSearchWidth = 32
)
