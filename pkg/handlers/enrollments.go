package handlers

import "github.com/zen-systems/waypoint/pkg/dispatch"

const (
	enrollmentsEnvVar  = "WAYPOINT_ENROLLMENTS_URL"
	enrollmentsBaseURL = "http://records.internal:8080"
)

func NewEnrollments() dispatch.Handler {
	return NewRESTHandler(
		"enrollments",
		"Enrollment Records Service",
		"/api/enrollments",
		[]string{"enrollment", "enrollments", "registration", "registrations", "sign-ups"},
		[]string{"id", "student_id", "course_code", "term", "status"},
		NewClient(baseURL(enrollmentsEnvVar, enrollmentsBaseURL)),
	)
}
