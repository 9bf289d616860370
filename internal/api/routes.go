package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"tripplanner-backend/internal/core"
	"tripplanner-backend/internal/geocode"
	"tripplanner-backend/internal/metrics"
	"tripplanner-backend/internal/middleware"
)

// SetupRoutes configures all the application routes with their handlers and middleware.
// Global middleware (logging, recovery, CORS, metrics) is expected to be applied
// to router by the caller.
func SetupRoutes(
	router *gin.Engine,
	logger *zap.Logger,
	verifier middleware.TokenVerifier,
	userService core.UserService,
	tripService core.TripService,
	geocoder geocode.Geocoder,
) {
	authMW := middleware.NewAuthMiddleware(verifier, logger)

	authHandler := NewAuthHandler(userService, logger)
	userHandler := NewUserHandler(userService, logger)
	tripHandler := NewTripHandler(tripService, logger)
	geocodeHandler := NewGeocodeHandler(geocoder)

	apiV1 := router.Group("/api/v1", authMW.VerifyToken())
	{
		users := apiV1.Group("/users")
		{
			users.POST("/sync", authHandler.SyncUserProfile)
			users.GET("/me", userHandler.GetCurrentUserProfile)
		}

		trips := apiV1.Group("/trips")
		{
			trips.POST("", tripHandler.CreateTrip)
			trips.GET("", tripHandler.ListTrips)
			trips.GET("/:tripId", tripHandler.GetTrip)
			trips.GET("/:tripId/itinerary", tripHandler.GetItinerary)
		}

		apiV1.GET("/geocode", geocodeHandler.Geocode)
	}

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "UP"})
	})
	router.GET("/metrics", metrics.Handler())

	logger.Info("API routes configured under /api/v1, /health and /metrics")
}
