package api_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"firebase.google.com/go/v4/auth"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"tripplanner-backend/internal/api"
	"tripplanner-backend/internal/core"
	"tripplanner-backend/internal/geocode"
	"tripplanner-backend/internal/models"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// tokenIsUID accepts any bearer token and uses it as the caller's UID.
type tokenIsUID struct{}

func (tokenIsUID) VerifyIDToken(_ context.Context, idToken string) (*auth.Token, error) {
	if idToken == "invalid" {
		return nil, errors.New("bad signature")
	}
	return &auth.Token{UID: idToken, Claims: map[string]interface{}{"email": idToken + "@example.com"}}, nil
}

type fakeUserService struct {
	syncFn    func(ctx context.Context, identity models.Identity) (*models.User, bool, error)
	getByIDFn func(ctx context.Context, userID string) (*models.User, error)
}

func (f *fakeUserService) SyncUser(ctx context.Context, identity models.Identity) (*models.User, bool, error) {
	return f.syncFn(ctx, identity)
}

func (f *fakeUserService) GetByID(ctx context.Context, userID string) (*models.User, error) {
	return f.getByIDFn(ctx, userID)
}

type fakeTripService struct {
	createFn  func(ctx context.Context, ownerID string, req models.CreateTripRequest) (string, error)
	getFn     func(ctx context.Context, tripID string) (*models.Trip, bool, error)
	forUserFn func(ctx context.Context, userID string) ([]*models.Trip, error)
}

func (f *fakeTripService) CreateTrip(ctx context.Context, ownerID string, req models.CreateTripRequest) (string, error) {
	return f.createFn(ctx, ownerID, req)
}

func (f *fakeTripService) GetTrip(ctx context.Context, tripID string) (*models.Trip, bool, error) {
	return f.getFn(ctx, tripID)
}

func (f *fakeTripService) GetTripsForUser(ctx context.Context, userID string) ([]*models.Trip, error) {
	return f.forUserFn(ctx, userID)
}

type fakeGeocoder struct {
	results map[string]geocode.Result
}

func (f *fakeGeocoder) Geocode(_ context.Context, place string) geocode.Result {
	return f.results[place]
}

func newRouter(us core.UserService, ts core.TripService, g geocode.Geocoder) *gin.Engine {
	if us == nil {
		us = &fakeUserService{}
	}
	if ts == nil {
		ts = &fakeTripService{}
	}
	if g == nil {
		g = &fakeGeocoder{}
	}
	r := gin.New()
	api.SetupRoutes(r, zap.NewNop(), tokenIsUID{}, us, ts, g)
	return r
}

func do(r http.Handler, method, path, uid string, body io.Reader) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, body)
	if uid != "" {
		req.Header.Set("Authorization", "Bearer "+uid)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func sampleTrip(id string, travelers ...string) *models.Trip {
	return &models.Trip{
		ID:          id,
		Name:        "Summer",
		Destination: "Paris",
		Travelers:   travelers,
		StartDate:   "2025-06-01",
		EndDate:     "2025-06-02",
		Itinerary: []models.Day{
			{Date: "2025-06-01", Stops: []models.Stop{}},
			{Date: "2025-06-02", Stops: []models.Stop{}},
		},
	}
}

func TestHealth(t *testing.T) {
	w := do(newRouter(nil, nil, nil), http.MethodGet, "/health", "", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"UP"}`, w.Body.String())
}

func TestAPIRequiresToken(t *testing.T) {
	r := newRouter(nil, nil, nil)
	for _, path := range []string{"/api/v1/trips", "/api/v1/users/me", "/api/v1/trips/t1", "/api/v1/geocode?q=Paris"} {
		w := do(r, http.MethodGet, path, "", nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code, path)
	}

	w := do(r, http.MethodGet, "/api/v1/trips", "invalid", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestSyncUserProfile(t *testing.T) {
	var got models.Identity
	us := &fakeUserService{syncFn: func(_ context.Context, identity models.Identity) (*models.User, bool, error) {
		got = identity
		return &models.User{ID: identity.UID, Email: identity.Email, Trips: []string{}}, identity.UID == "new", nil
	}}
	r := newRouter(us, nil, nil)

	w := do(r, http.MethodPost, "/api/v1/users/sync", "new", nil)
	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "new@example.com", got.Email)

	w = do(r, http.MethodPost, "/api/v1/users/sync", "old", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"uid":"old"`)
}

func TestSyncUserProfile_Failure(t *testing.T) {
	us := &fakeUserService{syncFn: func(context.Context, models.Identity) (*models.User, bool, error) {
		return nil, false, errors.New("rpc error: deadline exceeded")
	}}

	w := do(newRouter(us, nil, nil), http.MethodPost, "/api/v1/users/sync", "u1", nil)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "deadline")
}

func TestGetCurrentUserProfile(t *testing.T) {
	us := &fakeUserService{getByIDFn: func(_ context.Context, userID string) (*models.User, error) {
		if userID == "u1" {
			return &models.User{ID: "u1", DisplayName: "Ada", Trips: []string{"t1"}}, nil
		}
		return nil, fmt.Errorf("%w: %s", core.ErrUserNotFound, userID)
	}}
	r := newRouter(us, nil, nil)

	w := do(r, http.MethodGet, "/api/v1/users/me", "u1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"displayName":"Ada"`)

	w = do(r, http.MethodGet, "/api/v1/users/me", "u2", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCreateTrip(t *testing.T) {
	var gotOwner string
	var gotReq models.CreateTripRequest
	ts := &fakeTripService{createFn: func(_ context.Context, ownerID string, req models.CreateTripRequest) (string, error) {
		gotOwner, gotReq = ownerID, req
		return "trip-1", nil
	}}

	body := `{"name":"Summer","destination":"Paris","startDate":"2025-06-01","endDate":"2025-06-03"}`
	w := do(newRouter(nil, ts, nil), http.MethodPost, "/api/v1/trips", "u1", strings.NewReader(body))

	require.Equal(t, http.StatusCreated, w.Code)
	assert.JSONEq(t, `{"id":"trip-1"}`, w.Body.String())
	assert.Equal(t, "u1", gotOwner)
	assert.Equal(t, "Paris", gotReq.Destination)
	assert.Equal(t, "2025-06-03", gotReq.EndDate)
}

func TestCreateTrip_Errors(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		err        error
		wantStatus int
		wantError  string
	}{
		{"malformed body", `{"name":`, nil, http.StatusBadRequest, "Invalid request body"},
		{"validation", `{}`, fmt.Errorf("%w: name is required", core.ErrValidation), http.StatusBadRequest, "Validation failed"},
		{"unknown owner", `{}`, fmt.Errorf("%w: u1", core.ErrUserNotFound), http.StatusNotFound, "User profile not found"},
		{"store failure", `{}`, errors.New("firestore: unavailable"), http.StatusInternalServerError, "Failed to create trip"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := &fakeTripService{createFn: func(context.Context, string, models.CreateTripRequest) (string, error) {
				return "", tt.err
			}}

			w := do(newRouter(nil, ts, nil), http.MethodPost, "/api/v1/trips", "u1", strings.NewReader(tt.body))

			assert.Equal(t, tt.wantStatus, w.Code)
			var resp api.ErrorResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.Equal(t, tt.wantError, resp.Error)
			assert.NotContains(t, w.Body.String(), "firestore")
		})
	}
}

func TestListTrips(t *testing.T) {
	ts := &fakeTripService{forUserFn: func(_ context.Context, userID string) ([]*models.Trip, error) {
		return []*models.Trip{sampleTrip("t1", userID)}, nil
	}}

	w := do(newRouter(nil, ts, nil), http.MethodGet, "/api/v1/trips", "u1", nil)

	require.Equal(t, http.StatusOK, w.Code)
	var resp api.TripListResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Trips, 1)
	assert.Equal(t, "t1", resp.Trips[0].ID)
	assert.False(t, resp.Degraded)
	assert.NotContains(t, w.Body.String(), "degraded")
}

func TestListTrips_Empty(t *testing.T) {
	ts := &fakeTripService{forUserFn: func(context.Context, string) ([]*models.Trip, error) {
		return []*models.Trip{}, nil
	}}

	w := do(newRouter(nil, ts, nil), http.MethodGet, "/api/v1/trips", "u1", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"trips":[]}`, w.Body.String())
}

func TestListTrips_DegradesOnStoreFailure(t *testing.T) {
	ts := &fakeTripService{forUserFn: func(context.Context, string) ([]*models.Trip, error) {
		return nil, errors.New("firestore: unavailable")
	}}

	w := do(newRouter(nil, ts, nil), http.MethodGet, "/api/v1/trips", "u1", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"trips":[],"degraded":true}`, w.Body.String())
}

func tripLookup(trips map[string]*models.Trip, err error) *fakeTripService {
	return &fakeTripService{getFn: func(_ context.Context, tripID string) (*models.Trip, bool, error) {
		if err != nil {
			return nil, false, err
		}
		trip, ok := trips[tripID]
		return trip, ok, nil
	}}
}

func TestGetTrip(t *testing.T) {
	ts := tripLookup(map[string]*models.Trip{"t1": sampleTrip("t1", "u1", "u2")}, nil)
	r := newRouter(nil, ts, nil)

	w := do(r, http.MethodGet, "/api/v1/trips/t1", "u2", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var trip models.Trip
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &trip))
	assert.Equal(t, "t1", trip.ID)
	assert.Len(t, trip.Itinerary, 2)

	w = do(r, http.MethodGet, "/api/v1/trips/t1", "stranger", nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = do(r, http.MethodGet, "/api/v1/trips/missing", "u1", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetTrip_StoreFailure(t *testing.T) {
	ts := tripLookup(nil, errors.New("firestore: unavailable"))

	w := do(newRouter(nil, ts, nil), http.MethodGet, "/api/v1/trips/t1", "u1", nil)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestGetItinerary(t *testing.T) {
	ts := tripLookup(map[string]*models.Trip{"t1": sampleTrip("t1", "u1")}, nil)
	r := newRouter(nil, ts, nil)

	w := do(r, http.MethodGet, "/api/v1/trips/t1/itinerary", "u1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"tripId":"t1","itinerary":[{"date":"2025-06-01","stops":[]},{"date":"2025-06-02","stops":[]}]}`, w.Body.String())

	w = do(r, http.MethodGet, "/api/v1/trips/t1/itinerary", "u2", nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = do(r, http.MethodGet, "/api/v1/trips/nope/itinerary", "u1", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGeocode(t *testing.T) {
	g := &fakeGeocoder{results: map[string]geocode.Result{
		"Paris": {Found: true, Coordinates: models.Coordinates{Lat: 48.8566, Lon: 2.3522}},
	}}
	r := newRouter(nil, nil, g)

	w := do(r, http.MethodGet, "/api/v1/geocode?q=Paris", "u1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"found":true,"lat":48.8566,"lon":2.3522}`, w.Body.String())

	w = do(r, http.MethodGet, "/api/v1/geocode?q=Atlantis", "u1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"found":false}`, w.Body.String())

	w = do(r, http.MethodGet, "/api/v1/geocode?q=%20", "u1", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
