package core

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"tripplanner-backend/internal/db"
	"tripplanner-backend/internal/models"
)

// userService implements the UserService interface.
type userService struct {
	userRepo db.UserRepository
	logger   *zap.Logger
}

// NewUserService creates a new UserService instance.
func NewUserService(userRepo db.UserRepository, logger *zap.Logger) UserService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &userService{userRepo: userRepo, logger: logger}
}

// SyncUser is idempotent: the first call for a UID creates the profile from the
// identity, later calls return the stored profile even if identity differs.
func (s *userService) SyncUser(ctx context.Context, identity models.Identity) (*models.User, bool, error) {
	identity.UID = strings.TrimSpace(identity.UID)
	if identity.UID == "" {
		return nil, false, fmt.Errorf("%w: user ID is required", ErrValidation)
	}

	// Existing profiles are returned as stored, never refreshed from the token.
	user, err := s.userRepo.GetByID(ctx, identity.UID)
	if err == nil {
		return user, false, nil
	}
	if !errors.Is(err, db.ErrNotFound) {
		return nil, false, fmt.Errorf("failed to get user by ID '%s': %w", identity.UID, err)
	}

	// Create fails with ErrAlreadyExists rather than overwriting.
	newUser := models.NewUserFromIdentity(identity, time.Now().UTC())
	if err := s.userRepo.Create(ctx, newUser); err != nil {
		if !errors.Is(err, db.ErrAlreadyExists) {
			return nil, false, fmt.Errorf("failed to create user '%s': %w", identity.UID, err)
		}
		// A concurrent sync created it first; theirs wins.
		existing, getErr := s.userRepo.GetByID(ctx, identity.UID)
		if getErr != nil {
			return nil, false, fmt.Errorf("failed to get user '%s' after concurrent create: %w", identity.UID, getErr)
		}
		return existing, false, nil
	}

	s.logger.Info("User profile created", zap.String("userID", identity.UID))
	return newUser, true, nil
}

// GetByID retrieves a user profile by UID.
func (s *userService) GetByID(ctx context.Context, userID string) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, fmt.Errorf("%w: user with ID '%s'", ErrUserNotFound, userID)
		}
		return nil, fmt.Errorf("failed to get user by ID '%s': %w", userID, err)
	}
	return user, nil
}
