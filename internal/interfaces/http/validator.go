package http

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// Input validation constants
const (
	MaxLabelLength   = 256
	MaxTextLength    = 10000
	MaxURLLength     = 2048
	MaxEmailLength   = 255
	MinPasswordLen   = 6
	MaxShortCodeLen  = 16
)

var (
	shortCodeRe = regexp.MustCompile(`^[a-zA-Z0-9]+$`)
	emailRe     = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)
	uuidRe      = regexp.MustCompile(`^[0-9a-fA-F-]{36}$`)
)

// ValidShortCode checks if a short code is safe (base62 symbols only)
func ValidShortCode(s string) bool {
	if s == "" || len(s) > MaxShortCodeLen {
		return false
	}
	return shortCodeRe.MatchString(s)
}

// ValidEmail is a shape check, not deliverability
func ValidEmail(s string) bool {
	return len(s) <= MaxEmailLength && emailRe.MatchString(s)
}

// ValidRecordID checks if an id looks like a UUID
func ValidRecordID(s string) bool {
	return uuidRe.MatchString(s)
}

// SanitizeString removes null bytes and keeps only valid UTF-8
func SanitizeString(s string) string {
	s = strings.ReplaceAll(s, "\x00", "")

	if !utf8.ValidString(s) {
		v := make([]rune, 0, len(s))
		for _, r := range s {
			if r != utf8.RuneError {
				v = append(v, r)
			}
		}
		s = string(v)
	}
	return s
}

// ValidateLength checks if string is within bounds
func ValidateLength(s string, min, max int) bool {
	l := len(s)
	return l >= min && l <= max
}
