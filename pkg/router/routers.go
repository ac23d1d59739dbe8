package router

import (
	"github.com/zen-systems/waypoint/pkg/state"
)

// Stage names returned by the built-in routers. The enclosing graph walker
// maps these to concrete next stages; "reflect" is a virtual destination
// resolved from configuration.
const (
	StageDataQuery = "data_query"
	StageFinal     = "final"
	StageReflect   = "reflect"
	StageEnd       = "end"
)

// Built-in router names.
const (
	RouteQueryOrFinalName   = "route_query_or_final"
	RouteQueryOrReflectName = "route_query_or_reflect"
	RouteQueryOrEndName     = "route_query_or_end"
)

// RegisterBuiltins installs the built-in routers into the registry.
func RegisterBuiltins(r *Registry) error {
	builtins := map[string]Func{
		RouteQueryOrFinalName:   RouteQueryOrFinal,
		RouteQueryOrReflectName: RouteQueryOrReflect,
		RouteQueryOrEndName:     RouteQueryOrEnd,
	}
	for name, fn := range builtins {
		if err := r.Register(name, fn); err != nil {
			return err
		}
	}
	return nil
}

// IsDataQuery reports whether the profiled query should be answered by the
// data-query stage. A locked routing signal overrides the profile heuristic
// entirely: a locked "data_query" target forces true, any other locked
// target forces false.
func IsDataQuery(s *state.State) bool {
	if s == nil {
		return false
	}
	if s.Routing != nil && s.Routing.Locked {
		return s.Routing.Target == StageDataQuery
	}

	p := s.Profile
	if p.Intent != "action" {
		return false
	}
	if v, ok := p.Signal("intent", "action_type"); ok && v == "query" {
		return true
	}
	if v, ok := p.Signal("intent", "is_query"); ok {
		if b, isBool := v.(bool); isBool && b {
			return true
		}
	}
	for _, key := range []string{"table", "tables", "topic"} {
		if _, ok := p.Signal("intent", key); ok {
			return true
		}
	}
	return false
}

// RouteQueryOrFinal sends data queries to the data-query stage and
// everything else straight to the final answer stage.
func RouteQueryOrFinal(s *state.State) (stage string) {
	defer func() {
		if r := recover(); r != nil {
			stage = StageFinal
		}
	}()
	if IsDataQuery(s) {
		return StageDataQuery
	}
	return StageFinal
}

// RouteQueryOrReflect sends data queries to the data-query stage and
// everything else to the reflection destination.
func RouteQueryOrReflect(s *state.State) (stage string) {
	defer func() {
		if r := recover(); r != nil {
			stage = StageReflect
		}
	}()
	if IsDataQuery(s) {
		return StageDataQuery
	}
	return StageReflect
}

// RouteQueryOrEnd sends data queries to the data-query stage and otherwise
// terminates the pipeline early. Early termination must never skip a
// planner-scheduled final stage: when the plan contains "final" this router
// returns "final" instead of "end", including when the predicate panics.
func RouteQueryOrEnd(s *state.State) (stage string) {
	defer func() {
		if r := recover(); r != nil {
			if s.PlansFinal() {
				stage = StageFinal
			} else {
				stage = StageEnd
			}
		}
	}()
	if IsDataQuery(s) {
		return StageDataQuery
	}
	if s.PlansFinal() {
		return StageFinal
	}
	return StageEnd
}
