// Package disposable detects addresses hosted by throwaway mail services.
package disposable

import "github.com/dgellow/perfectemail/emailutil"

// builtin is a seed list of well-known disposable providers. Callers extend it
// through New; the list is not meant to be exhaustive.
var builtin = []string{
	"0-mail.com",
	"10minutemail.com",
	"20minutemail.com",
	"33mail.com",
	"anonbox.net",
	"discard.email",
	"dispostable.com",
	"emailondeck.com",
	"fakeinbox.com",
	"getairmail.com",
	"getnada.com",
	"guerrillamail.com",
	"guerrillamail.net",
	"guerrillamail.org",
	"incognitomail.org",
	"mailcatch.com",
	"maildrop.cc",
	"mailinator.com",
	"mailnesia.com",
	"mintemail.com",
	"mohmal.com",
	"mytemp.email",
	"sharklasers.com",
	"spam4.me",
	"spamgourmet.com",
	"temp-mail.org",
	"tempail.com",
	"tempmail.com",
	"tempr.email",
	"throwawaymail.com",
	"trashmail.com",
	"trashmail.de",
	"yopmail.com",
	"yopmail.net",
}

// Checker answers disposable-domain lookups. It is immutable after New and
// safe for concurrent use.
type Checker struct {
	domains map[string]struct{}
}

// New returns a Checker seeded with the built-in list plus extra domains.
// Extras are cleaned the same way lookups are; blank entries are ignored.
func New(extra ...string) *Checker {
	domains := make(map[string]struct{}, len(builtin)+len(extra))
	for _, d := range builtin {
		domains[d] = struct{}{}
	}
	for _, d := range extra {
		if d = emailutil.Clean(d); d != "" {
			domains[d] = struct{}{}
		}
	}
	return &Checker{domains: domains}
}

// Len returns the number of known disposable domains.
func (c *Checker) Len() int {
	return len(c.domains)
}

// IsDisposableDomain reports whether domain belongs to a known disposable
// provider. Surrounding whitespace and case are ignored.
func (c *Checker) IsDisposableDomain(domain string) bool {
	domain = emailutil.Clean(domain)
	if domain == "" {
		return false
	}
	_, ok := c.domains[domain]
	return ok
}

// IsDisposableEmail reports whether s is hosted by a disposable provider. s
// may be a full address, an "@domain" fragment, or a bare domain; everything
// after the last '@' is treated as the domain. The address is not validated.
func (c *Checker) IsDisposableEmail(s string) bool {
	return c.IsDisposableDomain(emailutil.ExtractDomain(emailutil.Clean(s)))
}
