// File: handlers/bundle.go
package handlers

import (
	"neighborly/middleware"
)

// HandlerBundle groups all endpoint handlers into one struct.
type HandlerBundle struct {
	Sessions   middleware.SessionLoader
	CookieName string

	Auth         *AuthHandler
	Availability *AvailabilityHandler
	Tasks        *TaskHandler
	Profile      *ProfileHandler
	Admin        *AdminHandler
	Geo          *GeoHandler
	Health       *HealthHandler
}
