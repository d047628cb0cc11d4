package handlers

import (
	"net/http"
	"strconv"

	"neighborly/services/geo"

	"github.com/gin-gonic/gin"
)

// GeoHandler proxies reverse geocoding for the task location picker.
type GeoHandler struct {
	Geocoder geo.Geocoder
}

func NewGeoHandler(g geo.Geocoder) *GeoHandler {
	return &GeoHandler{Geocoder: g}
}

func (h *GeoHandler) ReverseGeocode(c *gin.Context) {
	latitude := c.Query("latitude")
	longitude := c.Query("longitude")
	if latitude == "" || longitude == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing required query parameters: latitude, longitude"})
		return
	}
	lat, errLat := strconv.ParseFloat(latitude, 64)
	lng, errLng := strconv.ParseFloat(longitude, 64)
	if errLat != nil || errLng != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "latitude and longitude must be numbers"})
		return
	}

	addr, err := h.Geocoder.ReverseGeocode(c.Request.Context(), lat, lng)
	if err != nil {
		respondError(c, err, "Reverse geocoding failed")
		return
	}
	c.JSON(http.StatusOK, gin.H{"address": addr})
}
