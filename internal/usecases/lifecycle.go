package usecases

import (
	"context"
	"encoding/base64"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/skip2/go-qrcode"
	"go.uber.org/zap"

	"qrbaker/internal/entities"
	"qrbaker/internal/interfaces"
)

const (
	// historyPageSize bounds one listing page.
	historyPageSize = 50

	qrImageSize = 256
)

// RecordLifecycleManager orchestrates create, list and delete of QR
// records as one logical sequence: quota gate, encoding, redirect
// allocation, rendering, persistence and counter mutation.
type RecordLifecycleManager struct {
	quota    *QuotaGuard
	encoder  ContentEncoder
	registry *DynamicLinkRegistry

	records   interfaces.QRRecordRepository
	redirects interfaces.RedirectRepository
	logger    *zap.Logger
}

func NewRecordLifecycleManager(
	quota *QuotaGuard,
	encoder ContentEncoder,
	registry *DynamicLinkRegistry,
	records interfaces.QRRecordRepository,
	redirects interfaces.RedirectRepository,
	logger *zap.Logger,
) *RecordLifecycleManager {
	return &RecordLifecycleManager{
		quota:     quota,
		encoder:   encoder,
		registry:  registry,
		records:   records,
		redirects: redirects,
		logger:    logger,
	}
}

// Create runs the full creation sequence. Quota is checked twice: an
// advisory check up front for a fast denial, and the conditional
// counter increment at the end, which is the enforcement point under
// concurrent requests. Any failure after the redirect entry is
// persisted rolls it back so no orphaned redirect survives.
func (m *RecordLifecycleManager) Create(ctx context.Context, profile *entities.UserProfile, req entities.EncodeRequest) (*entities.QRRecord, error) {
	if decision := m.quota.CheckQuota(profile); !decision.Allowed {
		return nil, &entities.QuotaError{Plan: profile.Plan, Limit: decision.Limit, Used: decision.Used}
	}

	isDynamic := req.Kind == entities.KindDynamic
	if isDynamic {
		code, err := m.registry.Allocate(ctx)
		if err != nil {
			return nil, err
		}
		req.ShortCode = code
	}

	payload, label, err := m.encoder.Encode(req)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	if isDynamic {
		entry := &entities.RedirectEntry{
			ShortCode:   req.ShortCode,
			UserID:      profile.ID,
			Destination: req.Destination,
			Label:       label,
			Active:      true,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		if err := m.redirects.Insert(ctx, entry); err != nil {
			return nil, fmt.Errorf("persist redirect entry: %w", err)
		}
	}

	dataURL, err := renderPNGDataURL(payload)
	if err != nil {
		m.rollbackRedirect(ctx, req.ShortCode)
		return nil, fmt.Errorf("render QR image: %w", err)
	}

	rec := &entities.QRRecord{
		ID:        uuid.NewString(),
		UserID:    profile.ID,
		Kind:      req.Kind,
		Content:   payload,
		Label:     label,
		DataURL:   dataURL,
		IsDynamic: isDynamic,
		CreatedAt: now,
	}
	if isDynamic {
		rec.ShortCode = req.ShortCode
		rec.Destination = req.Destination
	}

	if err := m.records.Insert(ctx, rec); err != nil {
		m.rollbackRedirect(ctx, req.ShortCode)
		return nil, fmt.Errorf("persist qr record: %w", err)
	}

	committed, err := m.quota.IncrementUsage(ctx, profile)
	if err != nil {
		m.rollbackRecord(ctx, rec)
		return nil, fmt.Errorf("increment usage: %w", err)
	}
	if !committed {
		// A concurrent creation spent the last slot after the advisory
		// check passed.
		m.rollbackRecord(ctx, rec)
		limits := entities.LimitsFor(profile.Plan)
		return nil, &entities.QuotaError{Plan: profile.Plan, Limit: limits.MaxCodes, Used: limits.MaxCodes}
	}

	return rec, nil
}

// List returns the owner's records inside the plan's retention window,
// newest first, one bounded page.
func (m *RecordLifecycleManager) List(ctx context.Context, profile *entities.UserProfile) ([]entities.QRRecord, error) {
	limits := entities.LimitsFor(profile.Plan)
	var since time.Time
	if limits.HistoryDays != entities.Unlimited {
		since = time.Now().UTC().AddDate(0, 0, -limits.HistoryDays)
	}
	return m.records.ListByOwner(ctx, profile.ID, since, historyPageSize)
}

// Delete removes a record, its redirect entry when dynamic, and
// decrements usage. A failed redirect cleanup is surfaced, not
// swallowed: the record is already gone and the caller must know a
// resolvable orphan remains.
func (m *RecordLifecycleManager) Delete(ctx context.Context, profile *entities.UserProfile, recordID string) error {
	rec, err := m.records.GetByID(ctx, recordID)
	if err != nil {
		return fmt.Errorf("load qr record: %w", err)
	}
	if rec == nil {
		return entities.ErrNotFound
	}
	if rec.UserID != profile.ID {
		return entities.ErrForbidden
	}

	if err := m.records.Delete(ctx, recordID, profile.ID); err != nil {
		return fmt.Errorf("delete qr record: %w", err)
	}

	if rec.IsDynamic && rec.ShortCode != "" {
		if err := m.redirects.Delete(ctx, rec.ShortCode); err != nil {
			m.logger.Error("redirect cleanup failed, orphaned entry remains",
				zap.String("code", rec.ShortCode), zap.Error(err))
			return fmt.Errorf("delete redirect %s: %w", rec.ShortCode, err)
		}
	}

	if err := m.quota.DecrementUsage(ctx, profile.ID); err != nil {
		return fmt.Errorf("decrement usage: %w", err)
	}
	return nil
}

// DayActivity is one point of the creation-activity series.
type DayActivity struct {
	Date  string `json:"date"` // YYYY-MM-DD
	Count int    `json:"count"`
}

type DashboardStats struct {
	Total     int                    `json:"total"`
	Limit     int                    `json:"limit"`     // entities.Unlimited when uncapped
	Remaining int                    `json:"remaining"` // entities.Unlimited when uncapped
	ByKind    map[entities.QRKind]int `json:"by_kind"`
	Activity  []DayActivity          `json:"activity"` // last 7 days, oldest first
}

// Stats summarizes the owner's codes for the dashboard: totals,
// remaining quota, per-type counts and a 7-day creation series.
func (m *RecordLifecycleManager) Stats(ctx context.Context, profile *entities.UserProfile) (*DashboardStats, error) {
	all, err := m.records.ListByOwner(ctx, profile.ID, time.Time{}, 0)
	if err != nil {
		return nil, fmt.Errorf("list qr records: %w", err)
	}

	limits := entities.LimitsFor(profile.Plan)
	stats := &DashboardStats{
		Total:     profile.QRCount,
		Limit:     limits.MaxCodes,
		Remaining: entities.Unlimited,
		ByKind:    make(map[entities.QRKind]int),
	}
	if limits.MaxCodes != entities.Unlimited {
		stats.Remaining = limits.MaxCodes - profile.QRCount
		if stats.Remaining < 0 {
			stats.Remaining = 0
		}
	}

	today := time.Now().UTC().Truncate(24 * time.Hour)
	byDay := make(map[string]int, 7)
	for i := 6; i >= 0; i-- {
		day := today.AddDate(0, 0, -i).Format("2006-01-02")
		byDay[day] = 0
		stats.Activity = append(stats.Activity, DayActivity{Date: day})
	}

	for _, rec := range all {
		stats.ByKind[rec.Kind]++
		day := rec.CreatedAt.UTC().Format("2006-01-02")
		if _, ok := byDay[day]; ok {
			byDay[day]++
		}
	}
	for i := range stats.Activity {
		stats.Activity[i].Count = byDay[stats.Activity[i].Date]
	}
	return stats, nil
}

// rollbackRedirect undoes a redirect insert after a later step failed.
// A failed rollback is the dangling-reference case and is logged loudly.
func (m *RecordLifecycleManager) rollbackRedirect(ctx context.Context, code string) {
	if code == "" {
		return
	}
	if err := m.redirects.Delete(ctx, code); err != nil {
		m.logger.Error("rollback left an orphaned redirect",
			zap.String("code", code), zap.Error(err))
	}
}

func (m *RecordLifecycleManager) rollbackRecord(ctx context.Context, rec *entities.QRRecord) {
	if err := m.records.Delete(ctx, rec.ID, rec.UserID); err != nil {
		m.logger.Error("rollback left an orphaned qr record",
			zap.String("id", rec.ID), zap.Error(err))
	}
	m.rollbackRedirect(ctx, rec.ShortCode)
}

// renderPNGDataURL delegates the matrix rendering to the barcode library
// and wraps the PNG the way the web client stores it.
func renderPNGDataURL(payload string) (string, error) {
	png, err := qrcode.Encode(payload, qrcode.Highest, qrImageSize)
	if err != nil {
		return "", err
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(png), nil
}
