package handlers

import "github.com/zen-systems/waypoint/pkg/dispatch"

// constructors is the explicit registration table. Handlers are installed
// in this order, which is also the inference tie-break order, so the list
// is the single place to check registry completeness.
var constructors = []func() dispatch.Handler{
	NewStudents,
	NewCourses,
	NewInstructors,
	NewEnrollments,
	NewEvents,
	NewAssets,
}

// RegisterAll installs every built-in mode handler into the registry.
// Call during startup, before request traffic begins.
func RegisterAll(reg *dispatch.Registry) {
	for _, ctor := range constructors {
		reg.Register(ctor())
	}
}
