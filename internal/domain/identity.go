package domain

import (
	"fmt"
	"net/mail"
	"strings"
)

// NormalizeIdentity validates an account identity (an email address) and
// returns its canonical lowercase form, so lookups are case-insensitive.
func NormalizeIdentity(s string) (string, error) {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return "", NewInvalidInput("email is required")
	}
	addr, err := mail.ParseAddress(trimmed)
	if err != nil || addr.Address != trimmed {
		return "", NewInvalidInput(fmt.Sprintf("invalid email: %q", s))
	}
	return strings.ToLower(trimmed), nil
}
