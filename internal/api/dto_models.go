package api

import "tripplanner-backend/internal/models"

// ErrorResponse is a generic structure for returning errors via API.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// CreateTripResponse is returned by POST /trips.
type CreateTripResponse struct {
	ID string `json:"id"`
}

// TripListResponse is returned by GET /trips. Degraded is set when the store
// could not be read and Trips is empty for that reason rather than because the
// user has none.
type TripListResponse struct {
	Trips    []*models.Trip `json:"trips"`
	Degraded bool           `json:"degraded,omitempty"`
}

// ItineraryResponse is returned by GET /trips/:tripId/itinerary.
type ItineraryResponse struct {
	TripID    string       `json:"tripId"`
	Itinerary []models.Day `json:"itinerary"`
}

// GeocodeResponse is returned by GET /geocode. Lat and Lon are present only when Found.
type GeocodeResponse struct {
	Found bool     `json:"found"`
	Lat   *float64 `json:"lat,omitempty"`
	Lon   *float64 `json:"lon,omitempty"`
}
