package usecases

import (
	"context"
	"fmt"

	"qrbaker/internal/entities"
	"qrbaker/internal/interfaces"
)

// QuotaGuard decides whether a profile may create another QR code and
// owns the usage counter mutations. The CheckQuota decision is advisory;
// the conditional increment at persistence time is what actually
// enforces the limit under concurrent requests.
type QuotaGuard struct {
	profiles interfaces.ProfileRepository
}

func NewQuotaGuard(profiles interfaces.ProfileRepository) *QuotaGuard {
	return &QuotaGuard{profiles: profiles}
}

type QuotaDecision struct {
	Allowed bool   `json:"allowed"`
	Limit   int    `json:"limit"` // entities.Unlimited when the plan has no cap
	Used    int    `json:"used"`
	Reason  string `json:"reason,omitempty"`
}

// CheckQuota denies iff used >= limit. Unbounded plans never deny.
func (g *QuotaGuard) CheckQuota(profile *entities.UserProfile) QuotaDecision {
	limits := entities.LimitsFor(profile.Plan)
	used := profile.QRCount

	if limits.MaxCodes != entities.Unlimited && used >= limits.MaxCodes {
		plan := profile.Plan
		if !entities.ValidPlan(plan) {
			plan = entities.PlanFree
		}
		return QuotaDecision{
			Allowed: false,
			Limit:   limits.MaxCodes,
			Used:    used,
			Reason:  fmt.Sprintf("You've reached your %s plan limit of %d QR codes. Upgrade to create more!", plan, limits.MaxCodes),
		}
	}
	return QuotaDecision{Allowed: true, Limit: limits.MaxCodes, Used: used}
}

// IncrementUsage re-validates the quota at the moment of the write via a
// single conditional update. Returns false when the plan limit was
// reached between the advisory check and now.
func (g *QuotaGuard) IncrementUsage(ctx context.Context, profile *entities.UserProfile) (bool, error) {
	limits := entities.LimitsFor(profile.Plan)
	return g.profiles.IncrementUsage(ctx, profile.ID, limits.MaxCodes)
}

// DecrementUsage floors at zero inside the store.
func (g *QuotaGuard) DecrementUsage(ctx context.Context, ownerID string) error {
	return g.profiles.DecrementUsage(ctx, ownerID)
}
