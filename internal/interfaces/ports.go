package interfaces

import (
	"context"
	"time"

	"qrbaker/internal/entities"
)

// ProfileRepository stores user profiles and owns the usage counter.
// Get methods return (nil, nil) when no profile matches.
type ProfileRepository interface {
	Create(ctx context.Context, p *entities.UserProfile) error
	GetByID(ctx context.Context, id string) (*entities.UserProfile, error)
	GetByEmail(ctx context.Context, email string) (*entities.UserProfile, error)
	UpdatePlan(ctx context.Context, id string, plan entities.Plan) error

	// IncrementUsage atomically adds one to qr_count while it is still
	// below limit (limit < 0 means unbounded). Returns false when the
	// quota is already spent; the check and the write are one operation.
	IncrementUsage(ctx context.Context, id string, limit int) (bool, error)
	// DecrementUsage atomically subtracts one, flooring at zero.
	DecrementUsage(ctx context.Context, id string) error
}

// QRRecordRepository stores saved QR codes.
type QRRecordRepository interface {
	Insert(ctx context.Context, rec *entities.QRRecord) error
	// GetByID returns (nil, nil) when no record matches.
	GetByID(ctx context.Context, id string) (*entities.QRRecord, error)
	// ListByOwner returns the owner's records created at or after since
	// (zero since = no cutoff), newest first, capped at limit
	// (limit <= 0 = no cap).
	ListByOwner(ctx context.Context, ownerID string, since time.Time, limit int) ([]entities.QRRecord, error)
	// UpdateDestination reconciles the denormalized destination copy on
	// the record owning shortCode.
	UpdateDestination(ctx context.Context, shortCode, destination string) error
	Delete(ctx context.Context, id, ownerID string) error
}

// RedirectRepository stores the authoritative redirect entries behind
// dynamic QR codes.
type RedirectRepository interface {
	Insert(ctx context.Context, e *entities.RedirectEntry) error
	// GetByCode returns (nil, nil) when no entry matches.
	GetByCode(ctx context.Context, code string) (*entities.RedirectEntry, error)
	Exists(ctx context.Context, code string) (bool, error)
	UpdateDestination(ctx context.Context, code, destination string) error
	// IncrementClicks is an atomic counter bump, not read-then-write.
	IncrementClicks(ctx context.Context, code string) error
	Delete(ctx context.Context, code string) error
}
