package emailutil

const (
	minLength = 6
	maxLength = 100
)

// IsValid reports whether email passes the package's lexical rules. The input
// is checked exactly as given; callers wanting trimming or lowercasing should
// use Clean first.
//
// The rules, applied in a single left-to-right pass:
//   - length is within [6, 100] and the first character is not '-' or '+'
//   - exactly one '@', not in first position
//   - only ASCII letters, digits and . - + @ _ are allowed
//   - '+' only appears before the '@'
//   - '_' only appears before the '@', between two alphanumerics
//   - '.' always sits between two alphanumerics
//   - after the '@', no two characters from {'.', '-'} are adjacent
//   - the domain has a dot, and the segment after its last dot is at least
//     two characters long and holds no digit or '-'
func IsValid(email string) bool {
	n := len(email)
	if n < minLength || n > maxLength || email[0] == '-' || email[0] == '+' {
		return false
	}

	at := -1
	lastDot := -1
	badSuffix := false

	for i := 0; i < n; i++ {
		c := email[i]

		if at != -1 {
			if c == '+' {
				return false
			}
			if isDotOrHyphen(c) && isDotOrHyphen(email[i-1]) {
				return false
			}
		}

		switch {
		case c == '@':
			if i == 0 || at != -1 {
				return false
			}
			at = i
			continue
		case c == '.':
			if !betweenAlnum(email, i) {
				return false
			}
			if at != -1 {
				lastDot = i
				badSuffix = false
			}
			continue
		case c == '_':
			if at != -1 || !betweenAlnum(email, i) {
				return false
			}
		case !isAllowed(c):
			return false
		}

		// Cleared at every domain dot, so only the final segment counts.
		if c == '-' || isDigit(c) {
			badSuffix = true
		}
	}

	return at != -1 && lastDot > at && n-lastDot >= 3 && !badSuffix
}

func betweenAlnum(s string, i int) bool {
	return i > 0 && i < len(s)-1 && isAlnum(s[i-1]) && isAlnum(s[i+1])
}

func isAllowed(c byte) bool {
	switch c {
	case '.', '-', '+', '@', '_':
		return true
	}
	return isAlnum(c)
}

func isAlnum(c byte) bool {
	return isDigit(c) || ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z')
}

func isDigit(c byte) bool {
	return '0' <= c && c <= '9'
}

func isDotOrHyphen(c byte) bool {
	return c == '.' || c == '-'
}
