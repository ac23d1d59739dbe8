package handlers

import "github.com/zen-systems/waypoint/pkg/dispatch"

const (
	coursesEnvVar  = "WAYPOINT_COURSES_URL"
	coursesBaseURL = "http://catalog.internal:8080"
)

func NewCourses() dispatch.Handler {
	return NewRESTHandler(
		"courses",
		"Course Catalog Service",
		"/api/courses",
		[]string{"course", "courses", "class", "classes", "subject", "curriculum", "course catalog"},
		[]string{"code", "title", "credits", "department", "instructor"},
		NewClient(baseURL(coursesEnvVar, coursesBaseURL)),
	)
}
