package db

import (
	"context"
	"errors"
	"fmt"

	"cloud.google.com/go/firestore"
	"go.uber.org/zap"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"tripplanner-backend/internal/models"
)

const (
	tripsCollection = "trips"
	userTripsField  = "trips"
)

// firestoreTripRepository implements the TripRepository interface using Firestore.
type firestoreTripRepository struct {
	client *firestore.Client
	logger *zap.Logger
}

// NewFirestoreTripRepository creates a new instance of firestoreTripRepository.
func NewFirestoreTripRepository(client *firestore.Client, logger *zap.Logger) TripRepository {
	if client == nil {
		panic("db: nil Firestore client for TripRepository")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &firestoreTripRepository{client: client, logger: logger}
}

// CreateForOwner writes trips/{id} and unions the ID into users/{ownerID}.trips
// in one transaction, so a trip is never left without its owner back-reference.
func (r *firestoreTripRepository) CreateForOwner(ctx context.Context, trip *models.Trip, ownerID string) error {
	if trip.ID == "" {
		return errors.New("trip ID cannot be empty for CreateForOwner operation")
	}
	if ownerID == "" {
		return fmt.Errorf("empty owner ID: %w", ErrNotFound)
	}
	userRef := r.client.Collection(usersCollection).Doc(ownerID)
	tripRef := r.client.Collection(tripsCollection).Doc(trip.ID)

	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		// Transactions require all reads before any write.
		if _, err := tx.Get(userRef); err != nil {
			if status.Code(err) == codes.NotFound {
				return fmt.Errorf("owner '%s' not found: %w", ownerID, ErrNotFound)
			}
			return fmt.Errorf("failed to read owner '%s': %w", ownerID, err)
		}
		if err := tx.Create(tripRef, trip); err != nil {
			return fmt.Errorf("failed to create trip '%s': %w", trip.ID, err)
		}
		return tx.Update(userRef, []firestore.Update{
			{Path: userTripsField, Value: firestore.ArrayUnion(trip.ID)},
		})
	})
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return err
		}
		if status.Code(err) == codes.AlreadyExists {
			return fmt.Errorf("trip with ID '%s': %w", trip.ID, ErrAlreadyExists)
		}
		return fmt.Errorf("create trip transaction for owner '%s': %w", ownerID, err)
	}
	return nil
}

// GetByID retrieves a trip document by its ID.
func (r *firestoreTripRepository) GetByID(ctx context.Context, tripID string) (*models.Trip, error) {
	if tripID == "" {
		return nil, fmt.Errorf("empty trip ID: %w", ErrNotFound)
	}
	docSnap, err := r.client.Collection(tripsCollection).Doc(tripID).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, fmt.Errorf("trip with ID '%s' not found: %w", tripID, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get trip with ID '%s': %w", tripID, err)
	}
	return decodeTrip(docSnap)
}

// GetByIDs fetches all referenced trips in a single batched read. Missing
// documents and documents that fail to decode are skipped.
func (r *firestoreTripRepository) GetByIDs(ctx context.Context, tripIDs []string) ([]*models.Trip, error) {
	trips := make([]*models.Trip, 0, len(tripIDs))
	refs := make([]*firestore.DocumentRef, 0, len(tripIDs))
	for _, id := range tripIDs {
		if id == "" {
			continue
		}
		refs = append(refs, r.client.Collection(tripsCollection).Doc(id))
	}
	if len(refs) == 0 {
		return trips, nil
	}

	snaps, err := r.client.GetAll(ctx, refs)
	if err != nil {
		return nil, fmt.Errorf("failed to batch get %d trips: %w", len(refs), err)
	}
	for _, snap := range snaps {
		if !snap.Exists() {
			r.logger.Debug("Skipping stale trip reference", zap.String("tripID", snap.Ref.ID))
			continue
		}
		trip, err := decodeTrip(snap)
		if err != nil {
			r.logger.Warn("Skipping undecodable trip", zap.String("tripID", snap.Ref.ID), zap.Error(err))
			continue
		}
		trips = append(trips, trip)
	}
	return trips, nil
}

func decodeTrip(snap *firestore.DocumentSnapshot) (*models.Trip, error) {
	var trip models.Trip
	if err := snap.DataTo(&trip); err != nil {
		return nil, fmt.Errorf("failed to decode trip data for ID '%s': %w", snap.Ref.ID, err)
	}
	trip.ID = snap.Ref.ID
	trip.Normalize()
	return &trip, nil
}
