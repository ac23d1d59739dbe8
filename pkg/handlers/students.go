package handlers

import "github.com/zen-systems/waypoint/pkg/dispatch"

const (
	studentsEnvVar  = "WAYPOINT_STUDENTS_URL"
	studentsBaseURL = "http://records.internal:8080"
)

// NewStudents is the default fallback mode handler.
func NewStudents() dispatch.Handler {
	return NewRESTHandler(
		"students",
		"Student Records Service",
		"/api/students",
		[]string{"student", "students", "enrollee", "enrollees", "roster", "class list"},
		[]string{"id", "name", "email", "program", "year"},
		NewClient(baseURL(studentsEnvVar, studentsBaseURL)),
	)
}
