package validation

import (
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/gpslab/clientcore/internal/locale"
)

// FieldContext is passed to every rule. FormValues lets cross-field rules
// (password confirmation) see sibling values.
type FieldContext struct {
	Locale     locale.Locale
	FormValues map[string]string
}

// Rule checks a single string value. Rules other than Required treat an
// empty value as passing; emptiness is Required's concern.
type Rule interface {
	Validate(value string, ctx FieldContext) Result
}

// RuleFunc adapts a plain predicate function into a Rule.
type RuleFunc func(value string, ctx FieldContext) Result

// Validate implements Rule.
func (f RuleFunc) Validate(value string, ctx FieldContext) Result {
	return f(value, ctx)
}

// Required rejects empty or whitespace-only values.
type Required struct{}

func (Required) Validate(value string, ctx FieldContext) Result {
	if strings.TrimSpace(value) == "" {
		return Invalid(locale.T(ctx.Locale, locale.KeyFieldRequired))
	}
	return Valid()
}

// MinLength requires at least N characters (runes).
type MinLength struct{ N int }

func (r MinLength) Validate(value string, ctx FieldContext) Result {
	if value == "" {
		return Valid()
	}
	if len([]rune(value)) < r.N {
		return Invalid(locale.T(ctx.Locale, locale.KeyMinLength, r.N))
	}
	return Valid()
}

// MaxLength permits at most N characters (runes).
type MaxLength struct{ N int }

func (r MaxLength) Validate(value string, ctx FieldContext) Result {
	if len([]rune(value)) > r.N {
		return Invalid(locale.T(ctx.Locale, locale.KeyMaxLength, r.N))
	}
	return Valid()
}

// MinValue requires a numeric value of at least Min.
type MinValue struct{ Min float64 }

func (r MinValue) Validate(value string, ctx FieldContext) Result {
	if value == "" {
		return Valid()
	}
	n, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil {
		return Invalid(locale.T(ctx.Locale, locale.KeyInvalidNumber))
	}
	if n < r.Min {
		return Invalid(locale.T(ctx.Locale, locale.KeyMinValue, trimFloat(r.Min)))
	}
	return Valid()
}

// MaxValue permits a numeric value of at most Max.
type MaxValue struct{ Max float64 }

func (r MaxValue) Validate(value string, ctx FieldContext) Result {
	if value == "" {
		return Valid()
	}
	n, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil {
		return Invalid(locale.T(ctx.Locale, locale.KeyInvalidNumber))
	}
	if n > r.Max {
		return Invalid(locale.T(ctx.Locale, locale.KeyMaxValue, trimFloat(r.Max)))
	}
	return Valid()
}

func trimFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// Pattern requires the value to match a compiled regular expression.
// Message overrides the generic "invalid format" key when set.
type Pattern struct {
	Regexp  *regexp.Regexp
	Message locale.Key
}

func (r Pattern) Validate(value string, ctx FieldContext) Result {
	if value == "" {
		return Valid()
	}
	if r.Regexp == nil || r.Regexp.MatchString(value) {
		return Valid()
	}
	key := r.Message
	if key == "" {
		key = locale.KeyPattern
	}
	return Invalid(locale.T(ctx.Locale, key))
}

// URL requires a parseable http(s) URL with a host. With AutoPrefix set,
// scheme-less input is retried with https:// prepended, matching how the
// platform's link fields accept "example.com".
type URL struct{ AutoPrefix bool }

func (r URL) Validate(value string, ctx FieldContext) Result {
	if value == "" {
		return Valid()
	}
	candidate := strings.TrimSpace(value)
	if r.AutoPrefix && !strings.Contains(candidate, "://") {
		candidate = "https://" + candidate
	}

	parsed, err := url.Parse(candidate)
	if err != nil || parsed.Host == "" || (parsed.Scheme != "http" && parsed.Scheme != "https") {
		return Invalid(locale.T(ctx.Locale, locale.KeyInvalidURL))
	}
	return Valid()
}

// phonePattern is deliberately permissive: digits with optional leading
// +, separators, and grouping, 7-20 significant characters.
var phonePattern = regexp.MustCompile(`^\+?[0-9(][0-9\s\-().]{5,18}[0-9]$`)

// Phone validates a phone number by charset, not by national plan.
type Phone struct{}

func (Phone) Validate(value string, ctx FieldContext) Result {
	if value == "" {
		return Valid()
	}
	if !phonePattern.MatchString(strings.TrimSpace(value)) {
		return Invalid(locale.T(ctx.Locale, locale.KeyInvalidPhone))
	}
	return Valid()
}

// dateLayouts are tried in order when parsing date fields.
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
	"2006/01/02",
}

// Date parses the value as a calendar date and optionally bounds it.
type Date struct {
	Min time.Time
	Max time.Time
}

func (r Date) Validate(value string, ctx FieldContext) Result {
	if value == "" {
		return Valid()
	}

	parsed, ok := parseDate(strings.TrimSpace(value))
	if !ok {
		return Invalid(locale.T(ctx.Locale, locale.KeyInvalidDate))
	}
	if !r.Min.IsZero() && parsed.Before(r.Min) {
		return Invalid(locale.T(ctx.Locale, locale.KeyDateTooEarly, r.Min.Format("2006-01-02")))
	}
	if !r.Max.IsZero() && parsed.After(r.Max) {
		return Invalid(locale.T(ctx.Locale, locale.KeyDateTooLate, r.Max.Format("2006-01-02")))
	}
	return Valid()
}

func parseDate(value string) (time.Time, bool) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// Number requires a parseable number; Integer additionally forbids a
// fractional part.
type Number struct{ Integer bool }

func (r Number) Validate(value string, ctx FieldContext) Result {
	if value == "" {
		return Valid()
	}
	trimmed := strings.TrimSpace(value)
	if r.Integer {
		if _, err := strconv.ParseInt(trimmed, 10, 64); err != nil {
			return Invalid(locale.T(ctx.Locale, locale.KeyInvalidInteger))
		}
		return Valid()
	}
	if _, err := strconv.ParseFloat(trimmed, 64); err != nil {
		return Invalid(locale.T(ctx.Locale, locale.KeyInvalidNumber))
	}
	return Valid()
}

var usernamePattern = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9_]{2,19}$`)

// Username enforces the platform handle format: starts with a letter,
// 3-20 characters of letters, digits, and underscores.
type Username struct{}

func (Username) Validate(value string, ctx FieldContext) Result {
	if value == "" {
		return Valid()
	}
	if !usernamePattern.MatchString(value) {
		return Invalid(locale.T(ctx.Locale, locale.KeyInvalidUsername))
	}
	return Valid()
}

// Currency requires a positive amount.
type Currency struct{}

func (Currency) Validate(value string, ctx FieldContext) Result {
	if value == "" {
		return Valid()
	}
	n, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil || n <= 0 {
		return Invalid(locale.T(ctx.Locale, locale.KeyInvalidAmount))
	}
	return Valid()
}

// Stage bounds for the study map.
const (
	MinStageNumber = 1
	MaxStageNumber = 35
)

// StageNumber requires an integer stage within the study map bounds.
type StageNumber struct{}

func (StageNumber) Validate(value string, ctx FieldContext) Result {
	if value == "" {
		return Valid()
	}
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil || n < MinStageNumber || n > MaxStageNumber {
		return Invalid(locale.T(ctx.Locale, locale.KeyInvalidStage, MinStageNumber, MaxStageNumber))
	}
	return Valid()
}

// missionIDPattern matches mission identifiers like "NAV-001".
var missionIDPattern = regexp.MustCompile(`^[A-Z]{2,4}-[0-9]{3}$`)

// MissionID validates the fixed mission identifier format.
type MissionID struct{}

func (MissionID) Validate(value string, ctx FieldContext) Result {
	if value == "" {
		return Valid()
	}
	if !missionIDPattern.MatchString(value) {
		return Invalid(locale.T(ctx.Locale, locale.KeyInvalidMission))
	}
	return Valid()
}

// Email adapts ValidateEmail into a field rule.
type Email struct{ Options EmailOptions }

func (r Email) Validate(value string, ctx FieldContext) Result {
	opts := r.Options
	opts.Locale = ctx.Locale
	return ValidateEmail(value, opts)
}

// Password adapts ValidatePassword into a field rule, flattening the
// report's error list.
type Password struct{ Options PasswordOptions }

func (r Password) Validate(value string, ctx FieldContext) Result {
	opts := r.Options
	opts.Locale = ctx.Locale
	report := ValidatePassword(value, opts)
	if report.IsValid {
		return Valid()
	}
	return invalidAll(report.Errors)
}

// MatchesField requires the value to equal another form field, e.g. a
// password confirmation.
type MatchesField struct {
	Field   string
	Message locale.Key
}

func (r MatchesField) Validate(value string, ctx FieldContext) Result {
	other := ctx.FormValues[r.Field]
	if value == other {
		return Valid()
	}
	key := r.Message
	if key == "" {
		key = locale.KeyPasswordMismatch
	}
	return Invalid(locale.T(ctx.Locale, key))
}
