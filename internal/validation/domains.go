package validation

import (
	"strings"

	"golang.org/x/net/publicsuffix"
)

// EmailClass categorizes an email address by its domain.
type EmailClass string

const (
	ClassEducational EmailClass = "educational"
	ClassFree        EmailClass = "free"
	ClassDisposable  EmailClass = "disposable"
	ClassCorporate   EmailClass = "corporate"
	ClassUnknown     EmailClass = "unknown"
)

// disposableDomains is the reject list for throwaway providers.
// Membership checks are case-insensitive.
var disposableDomains = map[string]struct{}{
	"mailinator.com":     {},
	"guerrillamail.com":  {},
	"10minutemail.com":   {},
	"tempmail.com":       {},
	"temp-mail.org":      {},
	"throwawaymail.com":  {},
	"yopmail.com":        {},
	"getnada.com":        {},
	"trashmail.com":      {},
	"sharklasers.com":    {},
	"dispostable.com":    {},
	"maildrop.cc":        {},
	"mintemail.com":      {},
	"fakeinbox.com":      {},
	"mailnesia.com":      {},
	"spamgourmet.com":    {},
	"mytrashmail.com":    {},
	"tempinbox.com":      {},
}

// freeDomains lists well-known consumer providers, including the Korean
// providers the platform's user base actually signs up with.
var freeDomains = map[string]struct{}{
	"gmail.com":      {},
	"yahoo.com":      {},
	"hotmail.com":    {},
	"outlook.com":    {},
	"live.com":       {},
	"msn.com":        {},
	"aol.com":        {},
	"icloud.com":     {},
	"protonmail.com": {},
	"proton.me":      {},
	"mail.com":       {},
	"zoho.com":       {},
	"gmx.com":        {},
	"naver.com":      {},
	"daum.net":       {},
	"hanmail.net":    {},
	"kakao.com":      {},
}

// educationalSuffixes holds curated country-specific academic TLD
// patterns. A domain is educational when it ends with one of these.
var educationalSuffixes = []string{
	".edu",
	".edu.au",
	".edu.cn",
	".edu.sg",
	".edu.my",
	".edu.ph",
	".edu.vn",
	".ac.uk",
	".ac.kr",
	".ac.jp",
	".ac.in",
	".ac.th",
	".ac.tz",
	".ac.ke",
	".ac.ug",
	".ac.za",
	".ac.nz",
}

// ExtractDomain returns the lowercased domain part of an email address,
// or "" when the address has no @.
func ExtractDomain(email string) string {
	at := strings.LastIndex(email, "@")
	if at < 0 || at == len(email)-1 {
		return ""
	}
	return strings.ToLower(email[at+1:])
}

// IsDisposableEmail reports whether the address uses a known throwaway
// provider.
func IsDisposableEmail(email string) bool {
	domain := ExtractDomain(email)
	if domain == "" {
		return false
	}
	_, ok := disposableDomains[domain]
	return ok
}

// IsFreeEmail reports whether the address uses a known consumer provider.
func IsFreeEmail(email string) bool {
	domain := ExtractDomain(email)
	if domain == "" {
		return false
	}
	_, ok := freeDomains[domain]
	return ok
}

// IsEducationalEmail reports whether the address belongs to an academic
// institution, by suffix membership in the curated list or an "edu"
// public suffix.
func IsEducationalEmail(email string) bool {
	domain := ExtractDomain(email)
	if domain == "" {
		return false
	}

	for _, suffix := range educationalSuffixes {
		if strings.HasSuffix(domain, suffix) {
			return true
		}
	}

	suffix, _ := publicsuffix.PublicSuffix(domain)
	return suffix == "edu" || strings.HasPrefix(suffix, "edu.") || strings.HasPrefix(suffix, "ac.")
}

// ClassifyEmail returns the domain class of an address. Educational wins
// over free, free over disposable; anything unmatched is corporate.
func ClassifyEmail(email string) EmailClass {
	domain := ExtractDomain(email)
	if domain == "" {
		return ClassUnknown
	}

	switch {
	case IsEducationalEmail(email):
		return ClassEducational
	case IsFreeEmail(email):
		return ClassFree
	case IsDisposableEmail(email):
		return ClassDisposable
	default:
		return ClassCorporate
	}
}

// hasValidSuffix reports whether the domain ends in a suffix the public
// suffix list knows about. Used by strict email validation to reject
// made-up TLDs.
func hasValidSuffix(domain string) bool {
	_, icann := publicsuffix.PublicSuffix(strings.ToLower(domain))
	return icann
}
