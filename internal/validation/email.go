package validation

import (
	"regexp"
	"strings"

	"github.com/gpslab/clientcore/internal/locale"
)

const (
	maxEmailLength     = 254
	maxLocalPartLength = 64
)

// emailPattern is a practical RFC 5322 subset: printable local part,
// dot-separated alphanumeric labels with internal hyphens in the domain.
var emailPattern = regexp.MustCompile(
	`^[a-zA-Z0-9.!#$%&'*+/=?^_` + "`" + `{|}~-]+@[a-zA-Z0-9](?:[a-zA-Z0-9-]{0,61}[a-zA-Z0-9])?(?:\.[a-zA-Z0-9](?:[a-zA-Z0-9-]{0,61}[a-zA-Z0-9])?)*$`)

// EmailOptions configures ValidateEmail. The zero value means: optional
// field, lenient domain checking, disposable providers allowed, English
// messages.
type EmailOptions struct {
	// Required rejects empty input instead of passing it through.
	Required bool

	// Strict additionally requires the domain to end in a known public
	// suffix, rejecting made-up TLDs.
	Strict bool

	// AllowDisposable permits known throwaway providers. Registration
	// flows disable this.
	AllowDisposable bool

	// RequireEducational only accepts academic institution domains.
	RequireEducational bool

	// Locale selects the message language.
	Locale locale.Locale
}

// DefaultEmailOptions mirrors the platform's registration form: required,
// strict, disposable providers rejected.
func DefaultEmailOptions() EmailOptions {
	return EmailOptions{
		Required:        true,
		Strict:          true,
		AllowDisposable: false,
	}
}

// ValidateEmail checks an address against format and policy rules,
// short-circuiting in a fixed order: required, length, format, domain
// shape, disposable policy, educational policy.
func ValidateEmail(email string, opts EmailOptions) Result {
	loc := opts.Locale
	email = strings.TrimSpace(email)

	if email == "" {
		if opts.Required {
			return Invalid(locale.T(loc, locale.KeyEmailRequired))
		}
		return Valid()
	}

	if len(email) > maxEmailLength {
		return Invalid(locale.T(loc, locale.KeyEmailTooLong))
	}

	at := strings.LastIndex(email, "@")
	if at <= 0 || at == len(email)-1 {
		return Invalid(locale.T(loc, locale.KeyEmailFormat))
	}
	local, domain := email[:at], email[at+1:]

	if len(local) > maxLocalPartLength {
		return Invalid(locale.T(loc, locale.KeyEmailTooLong))
	}

	if strings.HasPrefix(local, ".") || strings.HasSuffix(local, ".") || strings.Contains(local, "..") {
		return Invalid(locale.T(loc, locale.KeyEmailFormat))
	}

	if !emailPattern.MatchString(email) {
		return Invalid(locale.T(loc, locale.KeyEmailFormat))
	}

	if !strings.Contains(domain, ".") {
		return Invalid(locale.T(loc, locale.KeyEmailDomain))
	}

	if opts.Strict && !hasValidSuffix(domain) {
		return Invalid(locale.T(loc, locale.KeyEmailDomain))
	}

	if !opts.AllowDisposable && IsDisposableEmail(email) {
		return Invalid(locale.T(loc, locale.KeyEmailDisposable))
	}

	if opts.RequireEducational && !IsEducationalEmail(email) {
		return Invalid(locale.T(loc, locale.KeyEmailEducational))
	}

	return Valid()
}
