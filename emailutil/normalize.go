package emailutil

import "strings"

// Normalize trims and lowercases email, validates it, and strips the
// sub-address tag ("+tag") from the local part. The domain is left alone
// beyond case and whitespace; there is no provider-specific handling such as
// Gmail dot removal.
//
// Errors wrap ErrInvalidArgument: ErrEmpty for blank input, ErrInvalidFormat
// when validation fails. A returned address always passes IsValid.
func Normalize(email string) (string, error) {
	cleaned, err := prepare(email)
	if err != nil {
		return "", err
	}

	// IsValid guarantees exactly one '@'.
	at := strings.IndexByte(cleaned, '@')
	local, domain := cleaned[:at], cleaned[at+1:]
	if plus := strings.IndexByte(local, '+'); plus != -1 {
		local = local[:plus]
	}

	return local + "@" + domain, nil
}

// prepare is the shared front half of Normalize and Fix: blank check, trim,
// lowercase, validate. The order is fixed.
func prepare(email string) (string, error) {
	cleaned := Clean(email)
	if cleaned == "" {
		return "", ErrEmpty
	}
	if !IsValid(cleaned) {
		return "", ErrInvalidFormat
	}
	return cleaned, nil
}
