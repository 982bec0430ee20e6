package emailutil

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Clean trims surrounding whitespace (Unicode spaces included) and lowercases
// the address. It does not validate.
func Clean(email string) string {
	trimmed := strings.TrimSpace(email)
	if trimmed == "" {
		return ""
	}
	// cases.Caser keeps state between calls, so one per call.
	return cases.Lower(language.Und).String(trimmed)
}

// Split splits an address at its last '@'.
// ok is false when there is no '@' or when either side would be empty.
func Split(email string) (local, domain string, ok bool) {
	at := strings.LastIndexByte(email, '@')
	if at <= 0 || at == len(email)-1 {
		return "", "", false
	}
	return email[:at], email[at+1:], true
}

// ExtractDomain returns everything after the last '@', or email unchanged
// when it has none, so bare domains and "@domain" fragments pass through.
func ExtractDomain(email string) string {
	return email[strings.LastIndexByte(email, '@')+1:]
}
