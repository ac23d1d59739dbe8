package handlers

import (
	"context"

	"github.com/zen-systems/waypoint/pkg/dispatch"
	"github.com/zen-systems/waypoint/pkg/state"
)

// RESTHandler implements dispatch.Handler against one REST list endpoint.
// Concrete modes differ only in their mode key, keywords, provenance
// label, endpoint path and preferred field order.
type RESTHandler struct {
	mode        string
	keywords    []string
	sourceLabel string
	path        string
	preferred   []string
	client      *Client
}

// NewRESTHandler builds a handler for one upstream list endpoint.
func NewRESTHandler(mode, sourceLabel, path string, keywords, preferred []string, client *Client) *RESTHandler {
	return &RESTHandler{
		mode:        mode,
		keywords:    keywords,
		sourceLabel: sourceLabel,
		path:        path,
		preferred:   preferred,
		client:      client,
	}
}

func (h *RESTHandler) Mode() string        { return h.mode }
func (h *RESTHandler) Keywords() []string  { return h.keywords }
func (h *RESTHandler) SourceLabel() string { return h.sourceLabel }

// Fetch retrieves one page of rows for the current request.
func (h *RESTHandler) Fetch(ctx context.Context, _ *state.State, skip, limit int) (*dispatch.FetchResult, error) {
	rows, total, err := h.client.FetchRows(ctx, h.path, skip, limit)
	if err != nil {
		return nil, err
	}
	return &dispatch.FetchResult{
		Rows: rows,
		Echo: map[string]any{"total": total},
		Meta: dispatch.Meta{
			Skip:   skip,
			Limit:  limit,
			Count:  len(rows),
			Source: h.sourceLabel,
		},
	}, nil
}

// RenderTable renders rows with this handler's preferred field order.
func (h *RESTHandler) RenderTable(rows []dispatch.Row) string {
	return dispatch.RenderTable(rows, h.preferred)
}

// RenderFlat renders rows as a flat file with this handler's preferred
// field order.
func (h *RESTHandler) RenderFlat(rows []dispatch.Row) string {
	return dispatch.RenderFlat(rows, h.preferred)
}
