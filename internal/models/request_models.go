package models

// CreateTripRequest represents the request body for creating a new trip.
// Required fields are checked by the trip service rather than by binding tags
// so that every caller goes through the same validation boundary.
type CreateTripRequest struct {
	Name        string `json:"name"`
	Destination string `json:"destination"`
	StartDate   string `json:"startDate"` // YYYY-MM-DD
	EndDate     string `json:"endDate"`   // YYYY-MM-DD
	Description string `json:"description,omitempty"`
}
