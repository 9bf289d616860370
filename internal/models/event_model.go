package models

import "time"

// TripEventCreated is the type of the event published after a trip is stored.
const TripEventCreated = "trip.created"

// TripEvent is the message body published to the trip events queue.
type TripEvent struct {
	Type       string    `json:"type"`
	TripID     string    `json:"tripId"`
	OwnerID    string    `json:"ownerId"`
	OccurredAt time.Time `json:"occurredAt"`
}
