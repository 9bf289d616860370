package api

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"tripplanner-backend/internal/geocode"
)

// GeocodeHandler exposes place-name lookups to the client.
type GeocodeHandler struct {
	geocoder geocode.Geocoder
}

// NewGeocodeHandler creates a new GeocodeHandler.
func NewGeocodeHandler(g geocode.Geocoder) *GeocodeHandler {
	return &GeocodeHandler{geocoder: g}
}

// Geocode handles GET /geocode?q=. An unresolvable place is a 200 with found=false.
func (h *GeocodeHandler) Geocode(c *gin.Context) {
	place := strings.TrimSpace(c.Query("q"))
	if place == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Query parameter 'q' is required"})
		return
	}

	res := h.geocoder.Geocode(c.Request.Context(), place)
	if !res.Found {
		c.JSON(http.StatusOK, GeocodeResponse{Found: false})
		return
	}
	lat, lon := res.Coordinates.Lat, res.Coordinates.Lon
	c.JSON(http.StatusOK, GeocodeResponse{Found: true, Lat: &lat, Lon: &lon})
}
