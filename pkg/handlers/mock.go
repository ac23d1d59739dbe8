package handlers

import (
	"context"

	"github.com/zen-systems/waypoint/pkg/dispatch"
	"github.com/zen-systems/waypoint/pkg/state"
)

// MockHandler returns deterministic rows for local runs and tests.
type MockHandler struct {
	ModeName  string
	Words     []string
	Label     string
	Preferred []string
	Rows      []dispatch.Row
	Err       error
}

// NewMockHandler creates a mock handler for the given mode.
func NewMockHandler(mode string, rows []dispatch.Row) *MockHandler {
	return &MockHandler{
		ModeName: mode,
		Words:    []string{mode},
		Label:    "Mock " + mode + " Service",
		Rows:     rows,
	}
}

func (m *MockHandler) Mode() string        { return m.ModeName }
func (m *MockHandler) Keywords() []string  { return m.Words }
func (m *MockHandler) SourceLabel() string { return m.Label }

// Fetch returns the configured rows or error.
func (m *MockHandler) Fetch(_ context.Context, _ *state.State, skip, limit int) (*dispatch.FetchResult, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	return &dispatch.FetchResult{
		Rows: m.Rows,
		Meta: dispatch.Meta{
			Skip:   skip,
			Limit:  limit,
			Count:  len(m.Rows),
			Source: m.Label,
		},
	}, nil
}

func (m *MockHandler) RenderTable(rows []dispatch.Row) string {
	return dispatch.RenderTable(rows, m.Preferred)
}

func (m *MockHandler) RenderFlat(rows []dispatch.Row) string {
	return dispatch.RenderFlat(rows, m.Preferred)
}
