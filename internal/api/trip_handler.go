package api

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"tripplanner-backend/internal/core"
	"tripplanner-backend/internal/middleware"
	"tripplanner-backend/internal/models"
)

// TripHandler handles API endpoints related to trips.
type TripHandler struct {
	tripService core.TripService
	logger      *zap.Logger
}

// NewTripHandler creates a new TripHandler.
func NewTripHandler(ts core.TripService, logger *zap.Logger) *TripHandler {
	return &TripHandler{tripService: ts, logger: logger}
}

// CreateTrip handles POST /trips
func (h *TripHandler) CreateTrip(c *gin.Context) {
	session, ok := middleware.SessionFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Authentication error: User ID not found in context"})
		return
	}

	var req models.CreateTripRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body", Details: err.Error()})
		return
	}

	tripID, err := h.tripService.CreateTrip(c.Request.Context(), session.UID, req)
	if err != nil {
		respondWithError(c, h.logger, err, "Failed to create trip")
		return
	}
	c.JSON(http.StatusCreated, CreateTripResponse{ID: tripID})
}

// ListTrips handles GET /trips. A store failure is not surfaced as an error:
// the list comes back empty and marked degraded.
func (h *TripHandler) ListTrips(c *gin.Context) {
	session, ok := middleware.SessionFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Authentication error: User ID not found in context"})
		return
	}

	trips, err := h.tripService.GetTripsForUser(c.Request.Context(), session.UID)
	if err != nil {
		h.logger.Warn("Trip list degraded", zap.String("userID", session.UID), zap.Error(err))
		c.JSON(http.StatusOK, TripListResponse{Trips: []*models.Trip{}, Degraded: true})
		return
	}
	c.JSON(http.StatusOK, TripListResponse{Trips: trips})
}

// GetTrip handles GET /trips/:tripId
func (h *TripHandler) GetTrip(c *gin.Context) {
	trip, ok := h.loadTrip(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, trip)
}

// GetItinerary handles GET /trips/:tripId/itinerary
func (h *TripHandler) GetItinerary(c *gin.Context) {
	trip, ok := h.loadTrip(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, ItineraryResponse{TripID: trip.ID, Itinerary: trip.Itinerary})
}

// loadTrip reads the trip named by the path and checks that the caller is one
// of its travelers. It writes the error response itself and reports whether the
// handler should continue. A store failure answers 503 rather than an empty
// result, since a single trip has no meaningful empty form.
func (h *TripHandler) loadTrip(c *gin.Context) (*models.Trip, bool) {
	session, ok := middleware.SessionFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Authentication error: User ID not found in context"})
		return nil, false
	}
	tripID := c.Param("tripId")

	trip, found, err := h.tripService.GetTrip(c.Request.Context(), tripID)
	if err != nil {
		h.logger.Error("Failed to load trip", zap.String("tripID", tripID), zap.Error(err))
		c.JSON(http.StatusServiceUnavailable, ErrorResponse{Error: "Trip storage is temporarily unavailable"})
		return nil, false
	}
	if !found {
		respondWithError(c, h.logger, fmt.Errorf("%w: %s", core.ErrTripNotFound, tripID), "")
		return nil, false
	}
	if !trip.HasTraveler(session.UID) {
		respondWithError(c, h.logger, fmt.Errorf("%w: trip %s", core.ErrForbiddenAccess, tripID), "")
		return nil, false
	}
	return trip, true
}
