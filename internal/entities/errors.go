package entities

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound covers unknown short codes, records, and profiles.
	ErrNotFound = errors.New("not found")
	// ErrForbidden is returned when a requester does not own the target.
	ErrForbidden = errors.New("forbidden")
	// ErrConflict is returned when short-code allocation keeps colliding.
	ErrConflict = errors.New("conflict")
)

// ValidationError identifies which input field failed and why. It is a
// structured denial, not an opaque failure: handlers render it verbatim.
type ValidationError struct {
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// QuotaError is the structured denial for a plan at its creation limit.
type QuotaError struct {
	Plan  Plan `json:"plan"`
	Limit int  `json:"limit"`
	Used  int  `json:"used"`
}

func (e *QuotaError) Error() string {
	return fmt.Sprintf("You've reached your %s plan limit of %d QR codes. Upgrade to create more!", e.Plan, e.Limit)
}
