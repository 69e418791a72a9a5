// File: internal/domain/model/userkey.go
package model

import (
	"regexp"
	"strings"
)

// UserKey is the canonical per-platform identifier of a user: a normalized
// phone number for WhatsApp, a decimal chat id for Telegram. Keys are unique
// within a platform only.
type UserKey = string

// Platform names used in logs, metrics and gateway routing.
const (
	PlatformWhatsApp = "whatsapp"
	PlatformTelegram = "telegram"
)

// NormalizeUserKey canonicalizes a raw platform-supplied identifier.
// It strips "+" and whitespace and nothing else; malformed input passes
// through unchanged. Idempotent: NormalizeUserKey(NormalizeUserKey(x)) ==
// NormalizeUserKey(x).
func NormalizeUserKey(raw string) UserKey {
	var b strings.Builder
	b.Grow(len(raw))
	for _, r := range raw {
		if r == '+' || r == ' ' || r == '\t' || r == '\n' || r == '\r' {
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// WaRecipient rewrites a normalized key into the wa-id the Graph API expects.
// Numbers in the historical 770-prefixed format get the 78 operator prefix
// prepended in place of the leading 7; everything else is sent as is.
func WaRecipient(key UserKey) string {
	if strings.HasPrefix(key, "770") {
		return "78" + key[1:]
	}
	return key
}

var phoneStrip = regexp.MustCompile(`[\s\-()]+`)

// ValidPhone checks free-form text against the accepted phone shapes:
// +7 followed by 10 digits, or 87 followed by 9 digits, ignoring spaces,
// hyphens and parentheses. It returns the digits-only form on success.
func ValidPhone(text string) (string, bool) {
	s := phoneStrip.ReplaceAllString(text, "")
	if strings.HasPrefix(s, "+7") && allDigits(s[1:]) && len(s) == 12 {
		return s[1:], true
	}
	if strings.HasPrefix(s, "87") && allDigits(s) && len(s) == 11 {
		return s, true
	}
	return "", false
}

func allDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
