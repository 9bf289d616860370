package db

import (
	"context"

	"tripplanner-backend/internal/models"
)

// UserRepository defines the storage operations for user profiles.
type UserRepository interface {
	GetByID(ctx context.Context, userID string) (*models.User, error)
	// Create stores a new profile and fails with ErrAlreadyExists when the
	// document is already present. It never overwrites.
	Create(ctx context.Context, user *models.User) error
}

// TripRepository defines the storage operations for trips.
type TripRepository interface {
	// CreateForOwner stores the trip and adds its ID to the owner's trips set.
	// Fails with ErrNotFound when the owner has no profile.
	CreateForOwner(ctx context.Context, trip *models.Trip, ownerID string) error
	GetByID(ctx context.Context, tripID string) (*models.Trip, error)
	// GetByIDs returns the trips that still exist, in the order of tripIDs.
	// IDs that do not resolve are skipped.
	GetByIDs(ctx context.Context, tripIDs []string) ([]*models.Trip, error)
}
