package emailutil

import "slices"

// Canonical provider domains that Fix corrects towards.
const (
	DomainGmail   = "gmail.com"
	DomainHotmail = "hotmail.com"
	DomainIcloud  = "icloud.com"
	DomainOutlook = "outlook.com"
	DomainYahoo   = "yahoo.com"
)

// Provider is a canonical mail domain plus the known misspellings of it.
type Provider struct {
	Domain string
	typos  map[string]struct{}
}

// Typos returns the provider's known misspellings, sorted.
func (p Provider) Typos() []string {
	out := make([]string, 0, len(p.typos))
	for t := range p.typos {
		out = append(out, t)
	}
	slices.Sort(out)
	return out
}

// IsTypo reports whether domain is a known misspelling of p.Domain.
func (p Provider) IsTypo(domain string) bool {
	_, ok := p.typos[domain]
	return ok
}

func newProvider(domain string, typos ...string) Provider {
	set := make(map[string]struct{}, len(typos))
	for _, t := range typos {
		set[t] = struct{}{}
	}
	return Provider{Domain: domain, typos: set}
}

// providers is never written after package initialization.
var providers = []Provider{
	newProvider(DomainGmail,
		"gamial.com", "gamil.co", "gamil.com", "gemail.com", "gimail.com", "gma.com", "gmaal.com", "gmai.com",
		"gmaii.com", "gmaiil.com", "gmaik.com", "gmail.cim", "gmail.cm", "gmail.co", "gmail.comm", "gmail.con",
		"gmail.cpm", "gmail.dom", "gmail.om", "gmail.vom", "gmail.xom", "gmailc.om", "gmailk.com", "gmaill.com",
		"gmailm.com", "gmailn.com", "gmaio.com", "gmaip.com", "gmal.com", "gmali.com", "gmaul.com", "gmial.com",
		"gmil.com", "gmqil.com", "gnail.com", "gogglemail.com", "googlemail.com",
	),
	newProvider(DomainHotmail,
		"homail.com", "hootmail.com", "hormail.com", "hotmai.com", "hotmaik.com", "hotmail.cim", "hotmail.cm",
		"hotmail.co", "hotmail.comm", "hotmail.con", "hotmail.cpm", "hotmail.om", "hotmaill.com", "hotmal.com",
		"hotmale.com", "hotmali.com", "hotmial.co", "hotmial.com", "hotmil.com", "hotnail.com",
	),
	newProvider(DomainIcloud,
		"icload.com", "iclod.cim", "iclod.co", "iclod.com", "iclodmail.com", "iclou.com", "icloud.cim", "icloud.cm",
		"icloud.co", "icloud.comm", "icloud.con", "icloud.cpm", "icloud.om", "icloudd.com", "icloude.com", "iclould.com",
		"iclud.co", "iclud.com", "icluod.com", "icoud.com",
	),
	newProvider(DomainOutlook,
		"otlook.com", "otulook.com", "oulok.com", "oultoook.com", "outllk.com", "outllok.com", "outllook.com",
		"outlluk.com", "outlock.com", "outlok.co", "outlok.com", "outlokk.com", "outlook.cim", "outlook.cm",
		"outlook.co", "outlook.comm", "outlook.con", "outlook.cpm", "outlook.om", "outloook.com", "outluk.com",
		"outlukc.com", "outolok.com",
	),
	newProvider(DomainYahoo,
		"yaahu.com", "yahho.com", "yaho.co", "yaho.com", "yaho0.com", "yahoo.cim", "yahoo.cm", "yahoo.co",
		"yahoo.comm", "yahoo.con", "yahoo.cpm", "yahoo.om", "yahooh.com", "yahool.com", "yahu.com", "yaoho.com",
		"yaohoo.com", "yaoo.com", "yhaoo.com", "yhoo.com",
	),
}

// fuzzyBuckets scopes fuzzy matching to the provider sharing the domain's
// first letter, so "post.com" can never land on a canonical domain.
var fuzzyBuckets = func() map[byte]Provider {
	m := make(map[byte]Provider, len(providers))
	for _, p := range providers {
		m[p.Domain[0]] = p
	}
	return m
}()

// Providers returns the canonical providers in lookup order.
func Providers() []Provider {
	return slices.Clone(providers)
}

// IsCanonicalDomain reports whether domain is one of the five canonical
// provider domains.
func IsCanonicalDomain(domain string) bool {
	for _, p := range providers {
		if p.Domain == domain {
			return true
		}
	}
	return false
}
