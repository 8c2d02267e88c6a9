package usecases

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"qrbaker/internal/entities"
	"qrbaker/internal/repository"
)

func newTestRegistry() (*DynamicLinkRegistry, *repository.MemoryRedirectRepository, *repository.MemoryQRRepository) {
	redirects := repository.NewMemoryRedirectRepository()
	records := repository.NewMemoryQRRepository()
	return NewDynamicLinkRegistry(redirects, records, zap.NewNop()), redirects, records
}

func seedRedirect(t *testing.T, redirects *repository.MemoryRedirectRepository, code, ownerID, destination string) {
	t.Helper()
	now := time.Now().UTC()
	err := redirects.Insert(context.Background(), &entities.RedirectEntry{
		ShortCode:   code,
		UserID:      ownerID,
		Destination: destination,
		Label:       "test",
		Active:      true,
		CreatedAt:   now,
		UpdatedAt:   now,
	})
	if err != nil {
		t.Fatalf("seed redirect: %v", err)
	}
}

func TestGenerateShortCodeShape(t *testing.T) {
	code, err := generateShortCode()
	if err != nil {
		t.Fatalf("generateShortCode error = %v", err)
	}
	if len(code) != shortCodeLength {
		t.Fatalf("len(code) = %d, want %d", len(code), shortCodeLength)
	}
	for _, r := range code {
		if !((r >= 'A' && r <= 'Z') || (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9')) {
			t.Fatalf("code %q contains symbol outside the base62 alphabet", code)
		}
	}
}

func TestAllocateTenThousandUnique(t *testing.T) {
	reg, _, _ := newTestRegistry()
	ctx := context.Background()

	seen := make(map[string]bool, 10_000)
	for i := 0; i < 10_000; i++ {
		code, err := reg.Allocate(ctx)
		if err != nil {
			t.Fatalf("Allocate #%d error = %v", i, err)
		}
		if seen[code] {
			t.Fatalf("duplicate short code %q at allocation %d", code, i)
		}
		seen[code] = true
	}
}

func TestAllocateRegeneratesOnCollision(t *testing.T) {
	reg, redirects, _ := newTestRegistry()
	ctx := context.Background()

	// Persisted codes force the uniqueness check to matter.
	seedRedirect(t, redirects, "AAAAAAAA", "owner", "https://example.com")

	code, err := reg.Allocate(ctx)
	if err != nil {
		t.Fatalf("Allocate error = %v", err)
	}
	if code == "AAAAAAAA" {
		t.Fatalf("Allocate returned an already-persisted code")
	}
}

func TestResolveReadsLatestDestination(t *testing.T) {
	reg, redirects, records := newTestRegistry()
	ctx := context.Background()

	seedRedirect(t, redirects, "Ab3dEf9h", "owner-1", "https://old.example.com")
	if err := records.Insert(ctx, &entities.QRRecord{
		ID: "rec-1", UserID: "owner-1", Kind: entities.KindDynamic,
		IsDynamic: true, ShortCode: "Ab3dEf9h", Destination: "https://old.example.com",
		CreatedAt: time.Now().UTC(),
	}); err != nil {
		t.Fatalf("seed record: %v", err)
	}

	if err := reg.UpdateDestination(ctx, "Ab3dEf9h", "https://new.example.com", "owner-1"); err != nil {
		t.Fatalf("UpdateDestination error = %v", err)
	}

	dest, err := reg.Resolve(ctx, "Ab3dEf9h")
	if err != nil {
		t.Fatalf("Resolve error = %v", err)
	}
	if dest != "https://new.example.com" {
		t.Fatalf("Resolve = %q, want the updated destination", dest)
	}

	// The denormalized copy must follow the authoritative one.
	rec, _ := records.GetByID(ctx, "rec-1")
	if rec.Destination != "https://new.example.com" {
		t.Fatalf("qr record destination = %q, want reconciled copy", rec.Destination)
	}
}

func TestUpdateDestinationSucceedsWhenRecordCopyMissing(t *testing.T) {
	reg, redirects, _ := newTestRegistry()
	ctx := context.Background()

	// No QR record behind the code: the denormalized write fails, the
	// redirect is still authoritative and the update must succeed.
	seedRedirect(t, redirects, "Ab3dEf9h", "owner-1", "https://old.example.com")

	if err := reg.UpdateDestination(ctx, "Ab3dEf9h", "https://new.example.com", "owner-1"); err != nil {
		t.Fatalf("UpdateDestination error = %v, want success despite missing copy", err)
	}
	dest, err := reg.Resolve(ctx, "Ab3dEf9h")
	if err != nil || dest != "https://new.example.com" {
		t.Fatalf("Resolve = (%q, %v), want the updated destination", dest, err)
	}
}

func TestUpdateDestinationChecksOwnership(t *testing.T) {
	reg, redirects, _ := newTestRegistry()
	ctx := context.Background()
	seedRedirect(t, redirects, "Ab3dEf9h", "owner-1", "https://example.com")

	err := reg.UpdateDestination(ctx, "Ab3dEf9h", "https://evil.example.com", "someone-else")
	if !errors.Is(err, entities.ErrForbidden) {
		t.Fatalf("err = %v, want ErrForbidden", err)
	}

	dest, _ := reg.Resolve(ctx, "Ab3dEf9h")
	if dest != "https://example.com" {
		t.Fatalf("destination changed by non-owner")
	}
}

func TestUpdateDestinationValidatesURL(t *testing.T) {
	reg, redirects, _ := newTestRegistry()
	seedRedirect(t, redirects, "Ab3dEf9h", "owner-1", "https://example.com")

	err := reg.UpdateDestination(context.Background(), "Ab3dEf9h", "not-a-url", "owner-1")
	var vErr *entities.ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("err = %v (%T), want ValidationError", err, err)
	}
}

func TestResolveUnknownCode(t *testing.T) {
	reg, _, _ := newTestRegistry()
	_, err := reg.Resolve(context.Background(), "missing1")
	if !errors.Is(err, entities.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestResolveInactiveCode(t *testing.T) {
	reg, redirects, _ := newTestRegistry()
	ctx := context.Background()
	now := time.Now().UTC()
	redirects.Insert(ctx, &entities.RedirectEntry{
		ShortCode: "Ab3dEf9h", UserID: "owner-1",
		Destination: "https://example.com", Active: false,
		CreatedAt: now, UpdatedAt: now,
	})

	_, err := reg.Resolve(ctx, "Ab3dEf9h")
	if !errors.Is(err, entities.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound for inactive entry", err)
	}
}

func TestResolveCountsClicks(t *testing.T) {
	reg, redirects, _ := newTestRegistry()
	ctx := context.Background()
	seedRedirect(t, redirects, "Ab3dEf9h", "owner-1", "https://example.com")

	for i := 0; i < 3; i++ {
		if _, err := reg.Resolve(ctx, "Ab3dEf9h"); err != nil {
			t.Fatalf("Resolve error = %v", err)
		}
	}

	entry, _ := redirects.GetByCode(ctx, "Ab3dEf9h")
	if entry.Clicks != 3 {
		t.Fatalf("clicks = %d, want 3", entry.Clicks)
	}
}

func TestDeleteThenResolveNotFound(t *testing.T) {
	reg, redirects, _ := newTestRegistry()
	ctx := context.Background()
	seedRedirect(t, redirects, "Ab3dEf9h", "owner-1", "https://example.com")

	if err := reg.Delete(ctx, "Ab3dEf9h", "owner-1"); err != nil {
		t.Fatalf("Delete error = %v", err)
	}
	if _, err := reg.Resolve(ctx, "Ab3dEf9h"); !errors.Is(err, entities.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound after delete", err)
	}
}
