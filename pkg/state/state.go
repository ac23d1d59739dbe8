// Package state holds the per-request execution context shared by the
// routing engine and the dispatch layer. A State is owned by one request's
// run loop and is never shared across requests.
package state

import (
	"github.com/google/uuid"

	"github.com/zen-systems/waypoint/pkg/profile"
)

// RoutingSignals lets upstream planning pre-commit a routing decision.
// When Locked is set the target overrides the routing heuristics.
type RoutingSignals struct {
	Target string `json:"target"`
	Locked bool   `json:"locked"`
}

// State is the mutable pipeline context for a single request.
type State struct {
	RequestID string
	Query     string

	// ModeHint is an optional upstream hint naming a dispatch mode.
	ModeHint string

	// PlannedAgents is the ordered list of stage names the planner
	// intends to execute.
	PlannedAgents []string

	Routing *RoutingSignals

	// Profile is attached once by the profiling stage and read-only
	// afterwards.
	Profile *profile.QueryProfile

	// Meta carries open agent output metadata keyed by stage name.
	Meta map[string]any
}

// New creates the state for one inbound query.
func New(query string) *State {
	return &State{
		RequestID: uuid.NewString(),
		Query:     query,
		Meta:      make(map[string]any),
	}
}

// PlansFinal reports whether the planner scheduled a "final" stage.
func (s *State) PlansFinal() bool {
	if s == nil {
		return false
	}
	for _, name := range s.PlannedAgents {
		if name == "final" {
			return true
		}
	}
	return false
}

// SetMeta records stage output metadata.
func (s *State) SetMeta(key string, value any) {
	if s.Meta == nil {
		s.Meta = make(map[string]any)
	}
	s.Meta[key] = value
}
