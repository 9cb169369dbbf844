package identity

import (
	"context"
	"sync"
	"time"
)

type memoryRepository struct {
	mu      sync.RWMutex
	byID    map[string]Identity
	byEmail map[string]string
	byPhone map[string]string
	byNIN   map[string]string
}

// NewMemoryRepository builds an in-memory identity store for tests and dev
// mode. Uniqueness rules match the Postgres schema.
func NewMemoryRepository() Repository {
	return &memoryRepository{
		byID:    make(map[string]Identity),
		byEmail: make(map[string]string),
		byPhone: make(map[string]string),
		byNIN:   make(map[string]string),
	}
}

func (r *memoryRepository) Create(_ context.Context, rec Identity) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.byEmail[rec.Email]; exists {
		return ErrConflict
	}
	if _, exists := r.byPhone[rec.Phone]; exists {
		return ErrConflict
	}
	if _, exists := r.byNIN[rec.NIN]; exists {
		return ErrConflict
	}
	r.byID[rec.ID] = rec
	r.byEmail[rec.Email] = rec.ID
	r.byPhone[rec.Phone] = rec.ID
	r.byNIN[rec.NIN] = rec.ID
	return nil
}

func (r *memoryRepository) FindByID(_ context.Context, id string) (Identity, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	rec, ok := r.byID[id]
	if !ok {
		return Identity{}, ErrNotFound
	}
	return rec, nil
}

func (r *memoryRepository) FindByEmail(_ context.Context, email string) (Identity, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	id, ok := r.byEmail[email]
	if !ok {
		return Identity{}, ErrNotFound
	}
	return r.byID[id], nil
}

func (r *memoryRepository) FindByNIN(_ context.Context, nin string) (Identity, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	id, ok := r.byNIN[nin]
	if !ok {
		return Identity{}, ErrNotFound
	}
	return r.byID[id], nil
}

func (r *memoryRepository) SetVerificationStatus(_ context.Context, id string, status VerificationStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	rec, ok := r.byID[id]
	if !ok {
		return ErrNotFound
	}
	rec.VerificationStatus = status
	rec.UpdatedAt = time.Now().UTC()
	r.byID[id] = rec
	return nil
}

func (r *memoryRepository) ApplyBlock(_ context.Context, id string, until time.Time, reason string) (Identity, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rec, ok := r.byID[id]
	if !ok {
		return Identity{}, ErrNotFound
	}
	u := until.UTC()
	rec.IsBlocked = true
	rec.BlockedUntil = &u
	rec.BlockReason = reason
	rec.UpdatedAt = time.Now().UTC()
	r.byID[id] = rec
	return rec, nil
}

func (r *memoryRepository) FindAll(_ context.Context) ([]Identity, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	all := make([]Identity, 0, len(r.byID))
	for _, rec := range r.byID {
		rec.CredentialHash = nil
		all = append(all, rec)
	}
	return all, nil
}
