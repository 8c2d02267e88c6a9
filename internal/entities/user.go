package entities

import "time"

type Plan string

const (
	PlanFree     Plan = "free"
	PlanPro      Plan = "pro"
	PlanBusiness Plan = "business"
)

// Unlimited marks a plan dimension that has no cap.
const Unlimited = -1

// PlanLimits caps how many QR codes a plan may hold and how far back
// its history reaches.
type PlanLimits struct {
	MaxCodes    int `json:"max_codes"`    // Unlimited = no cap
	HistoryDays int `json:"history_days"` // Unlimited = full history
}

var planLimits = map[Plan]PlanLimits{
	PlanFree:     {MaxCodes: 5, HistoryDays: 7},
	PlanPro:      {MaxCodes: 100, HistoryDays: 30},
	PlanBusiness: {MaxCodes: Unlimited, HistoryDays: Unlimited},
}

// LimitsFor resolves the limits for a plan. Unknown or empty plans fall
// back to free, the most restrictive tier.
func LimitsFor(p Plan) PlanLimits {
	if limits, ok := planLimits[p]; ok {
		return limits
	}
	return planLimits[PlanFree]
}

// ValidPlan reports whether p is one of the three billing tiers.
func ValidPlan(p Plan) bool {
	_, ok := planLimits[p]
	return ok
}

type UserProfile struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	DisplayName  string    `json:"display_name"`
	PasswordHash string    `json:"-"`
	Plan         Plan      `json:"plan"`
	QRCount      int       `json:"qr_count"` // live QR records owned; never negative
	CreatedAt    time.Time `json:"created_at"`
}
