// File: utils/constants.go
package utils

// Redis key prefixes.
const (
	ResponseCachePrefix = "resp:"
	GeocodeCachePrefix  = "geo:"
	DraftPrefix         = "draft:"
)

// Gin context keys.
const (
	ContextSessionKey = "session"
	ContextLoggerKey  = "logger"
)

// SessionHeader lets non-browser clients pass the session ID without a cookie.
const SessionHeader = "X-Session-ID"
