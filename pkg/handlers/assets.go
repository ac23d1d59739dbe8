package handlers

import "github.com/zen-systems/waypoint/pkg/dispatch"

const (
	assetsEnvVar  = "WAYPOINT_ASSETS_URL"
	assetsBaseURL = "http://inventory.internal:8080"
)

func NewAssets() dispatch.Handler {
	return NewRESTHandler(
		"assets",
		"Asset Inventory Service",
		"/api/assets",
		[]string{"asset", "assets", "equipment", "inventory", "device", "devices", "laptop", "laptops"},
		[]string{"tag", "name", "category", "assigned_to", "status"},
		NewClient(baseURL(assetsEnvVar, assetsBaseURL)),
	)
}
