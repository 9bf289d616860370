package core_test

import (
	"context"
	"errors"
	"sync"

	"tripplanner-backend/internal/db"
	"tripplanner-backend/internal/models"
)

// memStore is an in-memory stand-in for both Firestore repositories.
type memStore struct {
	mu    sync.Mutex
	users map[string]*models.User
	trips map[string]*models.Trip

	calls int
	// failWith, when set, is returned from every store call.
	failWith error
}

func newMemStore() *memStore {
	return &memStore{users: map[string]*models.User{}, trips: map[string]*models.Trip{}}
}

func (m *memStore) enter() error {
	m.mu.Lock()
	m.calls++
	return m.failWith
}

func (m *memStore) GetByID(_ context.Context, userID string) (*models.User, error) {
	defer m.mu.Unlock()
	if err := m.enter(); err != nil {
		return nil, err
	}
	u, ok := m.users[userID]
	if !ok {
		return nil, db.ErrNotFound
	}
	cp := *u
	cp.Trips = append([]string{}, u.Trips...)
	return &cp, nil
}

func (m *memStore) Create(_ context.Context, user *models.User) error {
	defer m.mu.Unlock()
	if err := m.enter(); err != nil {
		return err
	}
	if _, ok := m.users[user.ID]; ok {
		return db.ErrAlreadyExists
	}
	cp := *user
	m.users[user.ID] = &cp
	return nil
}

// tripRepo exposes the trip half of memStore, since both repositories share GetByID.
type tripRepo struct{ *memStore }

func (r tripRepo) CreateForOwner(_ context.Context, trip *models.Trip, ownerID string) error {
	m := r.memStore
	defer m.mu.Unlock()
	if err := m.enter(); err != nil {
		return err
	}
	owner, ok := m.users[ownerID]
	if !ok {
		return db.ErrNotFound
	}
	if _, ok := m.trips[trip.ID]; ok {
		return db.ErrAlreadyExists
	}
	cp := *trip
	m.trips[trip.ID] = &cp
	// ArrayUnion: re-adding an id is a no-op.
	if owner.HasTrip(trip.ID) {
		return nil
	}
	owner.Trips = append(owner.Trips, trip.ID)
	return nil
}

func (r tripRepo) GetByID(_ context.Context, tripID string) (*models.Trip, error) {
	m := r.memStore
	defer m.mu.Unlock()
	if err := m.enter(); err != nil {
		return nil, err
	}
	t, ok := m.trips[tripID]
	if !ok {
		return nil, db.ErrNotFound
	}
	cp := *t
	return &cp, nil
}

func (r tripRepo) GetByIDs(_ context.Context, tripIDs []string) ([]*models.Trip, error) {
	m := r.memStore
	defer m.mu.Unlock()
	if err := m.enter(); err != nil {
		return nil, err
	}
	out := make([]*models.Trip, 0, len(tripIDs))
	for _, id := range tripIDs {
		if t, ok := m.trips[id]; ok {
			cp := *t
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (m *memStore) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// recordingQueue captures published messages.
type recordingQueue struct {
	mu       sync.Mutex
	queue    []string
	bodies   [][]byte
	failWith error
}

func (q *recordingQueue) Publish(queueName string, body []byte) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.failWith != nil {
		return q.failWith
	}
	q.queue = append(q.queue, queueName)
	q.bodies = append(q.bodies, body)
	return nil
}

func (q *recordingQueue) Close() error { return nil }

var errStoreDown = errors.New("firestore unavailable")
