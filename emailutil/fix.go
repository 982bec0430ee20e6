package emailutil

// MatchKind describes how a domain was matched against the provider tables.
type MatchKind int

const (
	MatchNone      MatchKind = iota // no provider matched; domain kept
	MatchCanonical                  // already a canonical domain
	MatchExact                      // listed typo
	MatchFuzzy                      // one edit from the bucket's canonical domain
)

func (k MatchKind) String() string {
	switch k {
	case MatchNone:
		return "none"
	case MatchCanonical:
		return "canonical"
	case MatchExact:
		return "exact"
	case MatchFuzzy:
		return "fuzzy"
	default:
		return "unknown"
	}
}

// Suggestion is the outcome of Suggest.
type Suggestion struct {
	// Input is the trimmed, lowercased address.
	Input string
	// Email is Input with the domain replaced when a typo was found.
	Email string
	Kind  MatchKind
}

// Changed reports whether the domain was corrected.
func (s Suggestion) Changed() bool {
	return s.Email != s.Input
}

// Fix trims, lowercases and validates email, then corrects the domain when it
// is a known or one-edit misspelling of gmail.com, hotmail.com, icloud.com,
// outlook.com or yahoo.com. The local part is never touched. Unknown domains
// come back normalized but uncorrected. Fix is idempotent.
//
// Errors wrap ErrInvalidArgument, as with Normalize.
func Fix(email string) (string, error) {
	s, err := Suggest(email)
	if err != nil {
		return "", err
	}
	return s.Email, nil
}

// Suggest does the work of Fix and also reports how the domain matched.
func Suggest(email string) (Suggestion, error) {
	cleaned, err := prepare(email)
	if err != nil {
		return Suggestion{}, err
	}

	s := Suggestion{Input: cleaned, Email: cleaned}

	local, domain, ok := Split(cleaned)
	if !ok {
		return s, nil
	}

	canonical, kind := CorrectDomain(domain)
	s.Kind = kind
	if kind == MatchExact || kind == MatchFuzzy {
		s.Email = local + "@" + canonical
	}
	return s, nil
}

// CorrectDomain maps a lowercase domain onto a canonical provider domain.
// Canonical domains short-circuit, then the typo tables are consulted in
// provider order, then a single-edit match against the provider sharing the
// domain's first letter. Without a match the domain is returned with
// MatchNone.
func CorrectDomain(domain string) (string, MatchKind) {
	if domain == "" {
		return domain, MatchNone
	}
	if IsCanonicalDomain(domain) {
		return domain, MatchCanonical
	}

	for _, p := range providers {
		if p.IsTypo(domain) {
			return p.Domain, MatchExact
		}
	}

	if p, ok := fuzzyBuckets[domain[0]]; ok && WithinOneEdit(domain, p.Domain) {
		return p.Domain, MatchFuzzy
	}

	return domain, MatchNone
}
