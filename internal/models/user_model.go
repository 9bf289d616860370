package models

import "time"

// User is the profile document stored under users/{uid}.
type User struct {
	ID          string    `json:"uid" firestore:"-"` // Firebase Auth UID, used as the document ID
	DisplayName string    `json:"displayName" firestore:"displayName"`
	Email       string    `json:"email" firestore:"email"`
	PhoneNumber string    `json:"phoneNumber" firestore:"phoneNumber"`
	PhotoURL    string    `json:"photoURL" firestore:"photoURL"`
	CreatedAt   time.Time `json:"createdAt" firestore:"createdAt"`
	Trips       []string  `json:"trips" firestore:"trips"` // trip IDs, set semantics
}

// Identity is the assertion extracted from a verified Firebase ID token.
// It is never persisted as-is; SyncUser copies its fields into a User.
type Identity struct {
	UID         string `json:"uid"`
	DisplayName string `json:"displayName,omitempty"`
	Email       string `json:"email,omitempty"`
	PhoneNumber string `json:"phoneNumber,omitempty"`
	PhotoURL    string `json:"photoURL,omitempty"`
}

// NewUserFromIdentity builds the first-sight profile for an identity.
func NewUserFromIdentity(id Identity, now time.Time) *User {
	return &User{
		ID:          id.UID,
		DisplayName: id.DisplayName,
		Email:       id.Email,
		PhoneNumber: id.PhoneNumber,
		PhotoURL:    id.PhotoURL,
		CreatedAt:   now,
		Trips:       []string{},
	}
}

// HasTrip reports whether tripID is referenced by the user's trips set.
func (u *User) HasTrip(tripID string) bool {
	for _, id := range u.Trips {
		if id == tripID {
			return true
		}
	}
	return false
}
