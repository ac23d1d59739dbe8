package handlers

import "github.com/zen-systems/waypoint/pkg/dispatch"

const (
	instructorsEnvVar  = "WAYPOINT_INSTRUCTORS_URL"
	instructorsBaseURL = "http://faculty.internal:8080"
)

func NewInstructors() dispatch.Handler {
	return NewRESTHandler(
		"instructors",
		"Faculty Directory Service",
		"/api/instructors",
		[]string{"instructor", "instructors", "teacher", "teachers", "professor", "professors", "faculty"},
		[]string{"id", "name", "email", "department", "title"},
		NewClient(baseURL(instructorsEnvVar, instructorsBaseURL)),
	)
}
