package models

import "time"

// Trip is a planned journey stored under trips/{id}.
type Trip struct {
	ID          string       `json:"id" firestore:"id"`
	Name        string       `json:"name" firestore:"name"`
	Destination string       `json:"destination" firestore:"destination"`
	Location    *Coordinates `json:"location,omitempty" firestore:"location,omitempty"` // only set by an explicit geocode
	Travelers   []string     `json:"travelers" firestore:"travelers"`
	StartDate   string       `json:"startDate" firestore:"startDate"` // YYYY-MM-DD
	EndDate     string       `json:"endDate" firestore:"endDate"`     // YYYY-MM-DD
	Description string       `json:"description" firestore:"description"`
	Itinerary   []Day        `json:"itinerary" firestore:"itinerary"`
	CreatedAt   time.Time    `json:"createdAt" firestore:"createdAt"`
	UpdatedAt   time.Time    `json:"updatedAt" firestore:"updatedAt"`
}

// Day is one calendar date of a trip's itinerary.
type Day struct {
	Date  string `json:"date" firestore:"date"`
	Stops []Stop `json:"stops" firestore:"stops"`
}

// Stop is a place/time entry within a Day. Stops are always empty at creation
// and carry no fields yet.
type Stop struct{}

// Coordinates is a resolved latitude/longitude pair.
type Coordinates struct {
	Lat float64 `json:"lat" firestore:"lat"`
	Lon float64 `json:"lon" firestore:"lon"`
}

// HasTraveler reports whether uid is one of the trip's travelers.
func (t *Trip) HasTraveler(uid string) bool {
	for _, id := range t.Travelers {
		if id == uid {
			return true
		}
	}
	return false
}

// Normalize replaces nil slices with empty ones so documents decoded from the
// store serialize as [] rather than null.
func (t *Trip) Normalize() {
	if t.Travelers == nil {
		t.Travelers = []string{}
	}
	if t.Itinerary == nil {
		t.Itinerary = []Day{}
	}
	for i := range t.Itinerary {
		if t.Itinerary[i].Stops == nil {
			t.Itinerary[i].Stops = []Stop{}
		}
	}
}
