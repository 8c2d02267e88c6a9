package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"qrbaker/internal/entities"
)

// In-memory implementations of the repository ports. They back the test
// suite and small single-node deployments; semantics (not-found as
// (nil, nil), atomic counters, newest-first listing) match the postgres
// repositories exactly.

type MemoryProfileRepository struct {
	mu       sync.Mutex
	profiles map[string]entities.UserProfile
	byEmail  map[string]string
}

func NewMemoryProfileRepository() *MemoryProfileRepository {
	return &MemoryProfileRepository{
		profiles: make(map[string]entities.UserProfile),
		byEmail:  make(map[string]string),
	}
}

func (r *MemoryProfileRepository) Create(_ context.Context, p *entities.UserProfile) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byEmail[p.Email]; ok {
		return entities.ErrConflict
	}
	r.profiles[p.ID] = *p
	r.byEmail[p.Email] = p.ID
	return nil
}

func (r *MemoryProfileRepository) GetByID(_ context.Context, id string) (*entities.UserProfile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.profiles[id]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (r *MemoryProfileRepository) GetByEmail(ctx context.Context, email string) (*entities.UserProfile, error) {
	r.mu.Lock()
	id, ok := r.byEmail[email]
	r.mu.Unlock()
	if !ok {
		return nil, nil
	}
	return r.GetByID(ctx, id)
}

func (r *MemoryProfileRepository) UpdatePlan(_ context.Context, id string, plan entities.Plan) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.profiles[id]
	if !ok {
		return entities.ErrNotFound
	}
	p.Plan = plan
	r.profiles[id] = p
	return nil
}

func (r *MemoryProfileRepository) IncrementUsage(_ context.Context, id string, limit int) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.profiles[id]
	if !ok {
		return false, entities.ErrNotFound
	}
	if limit >= 0 && p.QRCount >= limit {
		return false, nil
	}
	p.QRCount++
	r.profiles[id] = p
	return true, nil
}

func (r *MemoryProfileRepository) DecrementUsage(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.profiles[id]
	if !ok {
		return entities.ErrNotFound
	}
	if p.QRCount > 0 {
		p.QRCount--
	}
	r.profiles[id] = p
	return nil
}

type MemoryQRRepository struct {
	mu      sync.Mutex
	records map[string]entities.QRRecord
}

func NewMemoryQRRepository() *MemoryQRRepository {
	return &MemoryQRRepository{records: make(map[string]entities.QRRecord)}
}

func (r *MemoryQRRepository) Insert(_ context.Context, rec *entities.QRRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.records[rec.ID]; ok {
		return entities.ErrConflict
	}
	r.records[rec.ID] = *rec
	return nil
}

func (r *MemoryQRRepository) GetByID(_ context.Context, id string) (*entities.QRRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rec, ok := r.records[id]
	if !ok {
		return nil, nil
	}
	return &rec, nil
}

func (r *MemoryQRRepository) ListByOwner(_ context.Context, ownerID string, since time.Time, limit int) ([]entities.QRRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	matches := []entities.QRRecord{}
	for _, rec := range r.records {
		if rec.UserID != ownerID {
			continue
		}
		if !since.IsZero() && rec.CreatedAt.Before(since) {
			continue
		}
		matches = append(matches, rec)
	}
	sort.Slice(matches, func(i, j int) bool {
		return matches[i].CreatedAt.After(matches[j].CreatedAt)
	})
	if limit > 0 && len(matches) > limit {
		matches = matches[:limit]
	}
	return matches, nil
}

func (r *MemoryQRRepository) UpdateDestination(_ context.Context, shortCode, destination string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, rec := range r.records {
		if rec.ShortCode == shortCode {
			rec.Destination = destination
			r.records[id] = rec
			return nil
		}
	}
	return entities.ErrNotFound
}

func (r *MemoryQRRepository) Delete(_ context.Context, id, ownerID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	rec, ok := r.records[id]
	if !ok || rec.UserID != ownerID {
		return entities.ErrNotFound
	}
	delete(r.records, id)
	return nil
}

type MemoryRedirectRepository struct {
	mu      sync.Mutex
	entries map[string]entities.RedirectEntry
}

func NewMemoryRedirectRepository() *MemoryRedirectRepository {
	return &MemoryRedirectRepository{entries: make(map[string]entities.RedirectEntry)}
}

func (r *MemoryRedirectRepository) Insert(_ context.Context, e *entities.RedirectEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.entries[e.ShortCode]; ok {
		return entities.ErrConflict
	}
	r.entries[e.ShortCode] = *e
	return nil
}

func (r *MemoryRedirectRepository) GetByCode(_ context.Context, code string) (*entities.RedirectEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.entries[code]
	if !ok {
		return nil, nil
	}
	return &e, nil
}

func (r *MemoryRedirectRepository) Exists(_ context.Context, code string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.entries[code]
	return ok, nil
}

func (r *MemoryRedirectRepository) UpdateDestination(_ context.Context, code, destination string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.entries[code]
	if !ok {
		return entities.ErrNotFound
	}
	e.Destination = destination
	e.UpdatedAt = time.Now().UTC()
	r.entries[code] = e
	return nil
}

func (r *MemoryRedirectRepository) IncrementClicks(_ context.Context, code string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.entries[code]
	if !ok {
		return entities.ErrNotFound
	}
	e.Clicks++
	r.entries[code] = e
	return nil
}

func (r *MemoryRedirectRepository) Delete(_ context.Context, code string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.entries[code]; !ok {
		return entities.ErrNotFound
	}
	delete(r.entries, code)
	return nil
}
