package core

import (
	"context"

	"tripplanner-backend/internal/models"
)

// UserService defines the interface for user-profile operations.
type UserService interface {
	// SyncUser creates the profile for identity on first sight and leaves an
	// existing profile untouched. The bool reports whether it was created.
	SyncUser(ctx context.Context, identity models.Identity) (*models.User, bool, error)
	GetByID(ctx context.Context, userID string) (*models.User, error)
}

// TripService defines the interface for trip operations.
type TripService interface {
	// CreateTrip validates req, stores the trip with its itinerary skeleton and
	// links it to the owner. It returns the new trip ID.
	CreateTrip(ctx context.Context, ownerID string, req models.CreateTripRequest) (string, error)
	// GetTrip reports found=false, with a nil error, when the trip does not exist.
	GetTrip(ctx context.Context, tripID string) (trip *models.Trip, found bool, err error)
	// GetTripsForUser resolves the user's trip references, skipping stale ones.
	GetTripsForUser(ctx context.Context, userID string) ([]*models.Trip, error)
}
