// Package dispatch maps a textual "mode" to the fetch/render strategy that
// answers a data query, and orchestrates the fetch-render-package stage.
package dispatch

import (
	"context"

	"github.com/zen-systems/waypoint/pkg/state"
)

// Row is one record returned by an upstream source. Field sets may vary
// row to row; the renderers unify them.
type Row = map[string]any

// Meta echoes the paging window and provenance of a fetch.
type Meta struct {
	Skip   int    `json:"skip"`
	Limit  int    `json:"limit"`
	Count  int    `json:"count"`
	Source string `json:"source"`
}

// FetchResult is the normalized output of a handler fetch. Row order is
// whatever the upstream source returned.
type FetchResult struct {
	Rows []Row          `json:"rows"`
	Echo map[string]any `json:"echo,omitempty"`
	Meta Meta           `json:"meta"`
}

// Handler is the strategy contract for one dispatch mode. Implementations
// are registered once at startup and must be safe for concurrent use.
type Handler interface {
	// Mode is the unique string key this handler answers.
	Mode() string

	// Keywords are the phrases used to infer this mode from free text.
	Keywords() []string

	// SourceLabel is the human-readable provenance shown to the user.
	SourceLabel() string

	// Fetch retrieves rows for the current request. Failures are
	// normalized into *Error.
	Fetch(ctx context.Context, st *state.State, skip, limit int) (*FetchResult, error)

	// RenderTable renders rows as a table, bounded to the first
	// TableRowLimit rows.
	RenderTable(rows []Row) string

	// RenderFlat renders rows as a flat file, bounded to the first
	// FlatRowLimit rows.
	RenderFlat(rows []Row) string
}
