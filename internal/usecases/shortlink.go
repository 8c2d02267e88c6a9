package usecases

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"

	"go.uber.org/zap"

	"qrbaker/internal/entities"
	"qrbaker/internal/interfaces"
)

const (
	shortCodeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"
	shortCodeLength   = 8

	// A collision on an 8-char base62 code is vanishingly rare, so a
	// handful of attempts is plenty before giving up.
	maxAllocateAttempts = 5
)

// DynamicLinkRegistry owns short-code allocation and the redirect
// entries behind dynamic QR codes. Every Resolve reads the store fresh:
// the whole point of a dynamic code is that the destination can change
// after the code is printed.
type DynamicLinkRegistry struct {
	redirects interfaces.RedirectRepository
	records   interfaces.QRRecordRepository
	logger    *zap.Logger
}

func NewDynamicLinkRegistry(redirects interfaces.RedirectRepository, records interfaces.QRRecordRepository, logger *zap.Logger) *DynamicLinkRegistry {
	return &DynamicLinkRegistry{redirects: redirects, records: records, logger: logger}
}

// Allocate generates a short code and verifies it is not already
// persisted. The uniqueness check is mandatory; generation alone does
// not look at existing codes.
func (r *DynamicLinkRegistry) Allocate(ctx context.Context) (string, error) {
	for attempt := 0; attempt < maxAllocateAttempts; attempt++ {
		code, err := generateShortCode()
		if err != nil {
			return "", fmt.Errorf("generate short code: %w", err)
		}
		exists, err := r.redirects.Exists(ctx, code)
		if err != nil {
			return "", fmt.Errorf("check short code uniqueness: %w", err)
		}
		if !exists {
			return code, nil
		}
		r.logger.Warn("short code collision, regenerating", zap.String("code", code))
	}
	return "", fmt.Errorf("short code allocation: %w", entities.ErrConflict)
}

func generateShortCode() (string, error) {
	buf := make([]byte, shortCodeLength)
	max := big.NewInt(int64(len(shortCodeAlphabet)))
	for i := range buf {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		buf[i] = shortCodeAlphabet[n.Int64()]
	}
	return string(buf), nil
}

// Resolve looks up the current destination for a short code. The click
// counter bump is fire-and-forget: a failed count never blocks the
// visitor's navigation.
func (r *DynamicLinkRegistry) Resolve(ctx context.Context, code string) (string, error) {
	entry, err := r.redirects.GetByCode(ctx, code)
	if err != nil {
		return "", fmt.Errorf("resolve %s: %w", code, err)
	}
	if entry == nil || !entry.Active {
		return "", entities.ErrNotFound
	}

	if err := r.redirects.IncrementClicks(ctx, code); err != nil {
		r.logger.Warn("click count not recorded", zap.String("code", code), zap.Error(err))
	}
	return entry.Destination, nil
}

// UpdateDestination repoints a dynamic code. The RedirectEntry write is
// authoritative; the denormalized copy on the QR record is reconciled
// best-effort, and a failure there is logged but does not fail the
// update, because the redirect behavior is the user-visible contract.
func (r *DynamicLinkRegistry) UpdateDestination(ctx context.Context, code, newDestination, requesterID string) error {
	if !ValidAbsoluteURL(newDestination) {
		return &entities.ValidationError{Field: "destination", Reason: "must be a valid http or https URL"}
	}

	entry, err := r.redirects.GetByCode(ctx, code)
	if err != nil {
		return fmt.Errorf("load redirect %s: %w", code, err)
	}
	if entry == nil {
		return entities.ErrNotFound
	}
	if entry.UserID != requesterID {
		return entities.ErrForbidden
	}

	if err := r.redirects.UpdateDestination(ctx, code, newDestination); err != nil {
		return fmt.Errorf("update redirect %s: %w", code, err)
	}

	if err := r.records.UpdateDestination(ctx, code, newDestination); err != nil {
		// Sanctioned swallow: the redirect already points at the new
		// destination, so the operation succeeded for the user.
		r.logger.Error("denormalized qr_codes destination out of sync",
			zap.String("code", code), zap.Error(err))
	}
	return nil
}

// Delete removes the entry outright; any later Resolve reports NotFound.
func (r *DynamicLinkRegistry) Delete(ctx context.Context, code, requesterID string) error {
	entry, err := r.redirects.GetByCode(ctx, code)
	if err != nil {
		return fmt.Errorf("load redirect %s: %w", code, err)
	}
	if entry == nil {
		return entities.ErrNotFound
	}
	if entry.UserID != requesterID {
		return entities.ErrForbidden
	}
	return r.redirects.Delete(ctx, code)
}
