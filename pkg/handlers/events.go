package handlers

import "github.com/zen-systems/waypoint/pkg/dispatch"

const (
	eventsEnvVar  = "WAYPOINT_EVENTS_URL"
	eventsBaseURL = "http://calendar.internal:8080"
)

func NewEvents() dispatch.Handler {
	return NewRESTHandler(
		"events",
		"Campus Events Service",
		"/api/events",
		[]string{"event", "events", "calendar", "schedule", "deadline", "deadlines", "campus events"},
		[]string{"id", "title", "date", "location", "organizer"},
		NewClient(baseURL(eventsEnvVar, eventsBaseURL)),
	)
}
