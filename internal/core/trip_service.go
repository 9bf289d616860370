package core

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"tripplanner-backend/internal/db"
	"tripplanner-backend/internal/itinerary"
	"tripplanner-backend/internal/metrics"
	"tripplanner-backend/internal/models"
	"tripplanner-backend/pkg/messagequeue"
)

// MaxTripDays is the longest trip, in inclusive days, that CreateTrip accepts.
const MaxTripDays = 366

// tripService implements the TripService interface.
type tripService struct {
	tripRepo   db.TripRepository
	userRepo   db.UserRepository
	mq         messagequeue.MessageQueue
	eventQueue string
	logger     *zap.Logger
	now        func() time.Time
}

// NewTripService creates a new TripService instance. A nil mq disables trip events.
func NewTripService(tripRepo db.TripRepository, userRepo db.UserRepository, mq messagequeue.MessageQueue, eventQueue string, logger *zap.Logger) TripService {
	if mq == nil {
		mq = messagequeue.Noop{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &tripService{
		tripRepo:   tripRepo,
		userRepo:   userRepo,
		mq:         mq,
		eventQueue: eventQueue,
		logger:     logger,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

// CreateTrip validates the request, builds the itinerary skeleton and persists the
// trip together with the owner's reference to it.
func (s *tripService) CreateTrip(ctx context.Context, ownerID string, req models.CreateTripRequest) (string, error) {
	// All validation happens here, before the first store call.
	trip, err := s.newTrip(ownerID, req)
	if err != nil {
		return "", err
	}

	// Checked again inside the transaction; this read gives an early, clean not-found.
	if _, err := s.userRepo.GetByID(ctx, ownerID); err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return "", fmt.Errorf("%w: user with ID '%s'", ErrUserNotFound, ownerID)
		}
		return "", fmt.Errorf("failed to get owner '%s': %w", ownerID, err)
	}

	if err := s.tripRepo.CreateForOwner(ctx, trip, ownerID); err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return "", fmt.Errorf("%w: user with ID '%s'", ErrUserNotFound, ownerID)
		}
		return "", fmt.Errorf("failed to create trip for user '%s': %w", ownerID, err)
	}

	// From here on the trip is committed; nothing below may fail the request.
	metrics.TripsCreated.Inc()
	s.logger.Info("Trip created",
		zap.String("tripID", trip.ID),
		zap.String("ownerID", ownerID),
		zap.Int("days", len(trip.Itinerary)),
	)
	s.publishCreated(trip, ownerID)
	return trip.ID, nil
}

// newTrip performs all validation. It never touches the store.
func (s *tripService) newTrip(ownerID string, req models.CreateTripRequest) (*models.Trip, error) {
	ownerID = strings.TrimSpace(ownerID)
	name := strings.TrimSpace(req.Name)
	destination := strings.TrimSpace(req.Destination)

	var problems []string
	if ownerID == "" {
		problems = append(problems, "owner is required")
	}
	if name == "" {
		problems = append(problems, "name is required")
	}
	if destination == "" {
		problems = append(problems, "destination is required")
	}
	if strings.TrimSpace(req.StartDate) == "" {
		problems = append(problems, "start date is required")
	}
	if strings.TrimSpace(req.EndDate) == "" {
		problems = append(problems, "end date is required")
	}
	if len(problems) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrValidation, strings.Join(problems, ", "))
	}

	start, err := itinerary.ParseDate(req.StartDate)
	if err != nil {
		return nil, fmt.Errorf("%w: start date: %v", ErrValidation, err)
	}
	end, err := itinerary.ParseDate(req.EndDate)
	if err != nil {
		return nil, fmt.Errorf("%w: end date: %v", ErrValidation, err)
	}
	if end.Before(start) {
		return nil, fmt.Errorf("%w: end date must not be before start date", ErrValidation)
	}

	startDate := start.Format(itinerary.DateLayout)
	endDate := end.Format(itinerary.DateLayout)

	// Bound the span before expanding it; each day becomes an element of the
	// trip document, and Firestore caps documents at 1 MiB.
	span, err := itinerary.DayCount(startDate, endDate)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}
	if span > MaxTripDays {
		return nil, fmt.Errorf("%w: trip spans %d days, at most %d are allowed", ErrValidation, span, MaxTripDays)
	}

	// Each day starts with no stops; the client fills them in later.
	days, err := itinerary.BuildDays(startDate, endDate)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	now := s.now()
	return &models.Trip{
		ID:          uuid.NewString(),
		Name:        name,
		Destination: destination,
		Travelers:   []string{ownerID},
		StartDate:   startDate,
		EndDate:     endDate,
		Description: strings.TrimSpace(req.Description),
		Itinerary:   days,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

// publishCreated is best-effort: failures are logged and counted, never returned.
func (s *tripService) publishCreated(trip *models.Trip, ownerID string) {
	body, err := json.Marshal(models.TripEvent{
		Type:       models.TripEventCreated,
		TripID:     trip.ID,
		OwnerID:    ownerID,
		OccurredAt: trip.CreatedAt,
	})
	if err != nil {
		metrics.TripEventPublishFailures.Inc()
		s.logger.Error("Failed to marshal trip event", zap.String("tripID", trip.ID), zap.Error(err))
		return
	}
	if err := s.mq.Publish(s.eventQueue, body); err != nil {
		metrics.TripEventPublishFailures.Inc()
		s.logger.Warn("Failed to publish trip event",
			zap.String("tripID", trip.ID),
			zap.String("queue", s.eventQueue),
			zap.Error(err),
		)
	}
}

// GetTrip retrieves a trip by ID. A missing trip is reported through found, not err.
func (s *tripService) GetTrip(ctx context.Context, tripID string) (*models.Trip, bool, error) {
	tripID = strings.TrimSpace(tripID)
	if tripID == "" {
		return nil, false, nil
	}
	trip, err := s.tripRepo.GetByID(ctx, tripID)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("failed to get trip '%s': %w", tripID, err)
	}
	return trip, true, nil
}

// GetTripsForUser resolves the trips referenced by the user's profile.
func (s *tripService) GetTripsForUser(ctx context.Context, userID string) ([]*models.Trip, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return []*models.Trip{}, nil
		}
		return nil, fmt.Errorf("failed to get user '%s': %w", userID, err)
	}

	// The trips array has set semantics, but collapse duplicates in case a
	// document was written outside ArrayUnion.
	ids := make([]string, 0, len(user.Trips))
	seen := make(map[string]struct{}, len(user.Trips))
	for _, id := range user.Trips {
		if id == "" {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	if len(ids) == 0 {
		return []*models.Trip{}, nil
	}

	// One batched read; ids that no longer resolve are skipped by the repository.
	trips, err := s.tripRepo.GetByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to get trips for user '%s': %w", userID, err)
	}
	if trips == nil {
		trips = []*models.Trip{}
	}
	return trips, nil
}
