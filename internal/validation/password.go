package validation

import (
	"math"
	"strings"
	"unicode"

	"github.com/gpslab/clientcore/internal/locale"
)

// PasswordPolicy holds every knob of the password checker. The zero value
// is not usable; start from DefaultPasswordPolicy.
type PasswordPolicy struct {
	MinLength int
	MaxLength int

	RequireUppercase bool
	RequireLowercase bool
	RequireNumbers   bool
	RequireSpecial   bool

	// MaxRepeats is the longest permitted run of one character. A run
	// strictly longer than this fails the check.
	MaxRepeats int

	RejectCommon           bool
	RejectUserInfo         bool
	RejectKeyboardPatterns bool
}

// DefaultPasswordPolicy is the platform's registration policy.
func DefaultPasswordPolicy() PasswordPolicy {
	return PasswordPolicy{
		MinLength:              8,
		MaxLength:              128,
		RequireUppercase:       true,
		RequireLowercase:       true,
		RequireNumbers:         true,
		RequireSpecial:         true,
		MaxRepeats:             3,
		RejectCommon:           true,
		RejectUserInfo:         true,
		RejectKeyboardPatterns: true,
	}
}

// UserInfo carries the account fields a password must not contain.
// Fragments shorter than three characters are ignored.
type UserInfo struct {
	Email    string
	Username string
	Name     string
}

// PasswordOptions configures ValidatePassword.
type PasswordOptions struct {
	Policy PasswordPolicy
	User   UserInfo
	Locale locale.Locale
}

// Requirements reports each individual check. All fields are true for a
// fully conforming password.
type Requirements struct {
	Length            bool `json:"length"`
	Uppercase         bool `json:"uppercase"`
	Lowercase         bool `json:"lowercase"`
	Numbers           bool `json:"numbers"`
	SpecialChars      bool `json:"specialChars"`
	NoRepeats         bool `json:"noRepeats"`
	NotCommon         bool `json:"notCommon"`
	NoUserInfo        bool `json:"noUserInfo"`
	NoKeyboardPattern bool `json:"noKeyboardPattern"`
}

// Strength is the heuristic score band, 0-4. Not a cryptographic
// estimate; it exists to drive the strength meter in the UI.
type Strength struct {
	Score       int     `json:"score"`
	EntropyBits float64 `json:"entropyBits"`
	Label       string  `json:"label"`
	Color       string  `json:"color"`
}

var strengthLabels = [5]string{"Very Weak", "Weak", "Fair", "Strong", "Very Strong"}
var strengthColors = [5]string{"#ef4444", "#f97316", "#eab308", "#22c55e", "#16a34a"}

// PasswordReport is the full outcome of ValidatePassword. Errors lists
// every failed check, not just the first.
type PasswordReport struct {
	IsValid      bool         `json:"isValid"`
	Errors       []string     `json:"errors,omitempty"`
	Requirements Requirements `json:"requirements"`
	Strength     Strength     `json:"strength"`
}

// ValidatePassword runs every policy check and computes the strength
// band. A zero-value Policy is replaced with the default policy.
func ValidatePassword(password string, opts PasswordOptions) PasswordReport {
	policy := opts.Policy
	if policy == (PasswordPolicy{}) {
		policy = DefaultPasswordPolicy()
	}
	loc := opts.Locale

	if password == "" {
		return PasswordReport{
			IsValid: false,
			Errors:  []string{locale.T(loc, locale.KeyPasswordRequired)},
		}
	}

	var errs []string
	req := Requirements{}

	length := len([]rune(password))
	req.Length = length >= policy.MinLength && length <= policy.MaxLength
	if length < policy.MinLength {
		errs = append(errs, locale.T(loc, locale.KeyPasswordTooShort, policy.MinLength))
	} else if length > policy.MaxLength {
		errs = append(errs, locale.T(loc, locale.KeyPasswordTooLong, policy.MaxLength))
	}

	classes := classifyRunes(password)

	req.Uppercase = classes.upper
	if policy.RequireUppercase && !classes.upper {
		errs = append(errs, locale.T(loc, locale.KeyPasswordUppercase))
	}
	req.Lowercase = classes.lower
	if policy.RequireLowercase && !classes.lower {
		errs = append(errs, locale.T(loc, locale.KeyPasswordLowercase))
	}
	req.Numbers = classes.digit
	if policy.RequireNumbers && !classes.digit {
		errs = append(errs, locale.T(loc, locale.KeyPasswordNumber))
	}
	req.SpecialChars = classes.special
	if policy.RequireSpecial && !classes.special {
		errs = append(errs, locale.T(loc, locale.KeyPasswordSpecial))
	}

	repeats := longestRun(password) > policy.MaxRepeats
	req.NoRepeats = !repeats
	if repeats && policy.MaxRepeats > 0 {
		errs = append(errs, locale.T(loc, locale.KeyPasswordRepeats, policy.MaxRepeats+1))
	}

	common := isCommonPassword(password)
	req.NotCommon = !common
	if policy.RejectCommon && common {
		errs = append(errs, locale.T(loc, locale.KeyPasswordCommon))
	}

	userInfo := containsUserInfo(password, opts.User)
	req.NoUserInfo = !userInfo
	if policy.RejectUserInfo && userInfo {
		errs = append(errs, locale.T(loc, locale.KeyPasswordUserInfo))
	}

	keyboard := containsKeyboardPattern(password)
	req.NoKeyboardPattern = !keyboard
	if policy.RejectKeyboardPatterns && keyboard {
		errs = append(errs, locale.T(loc, locale.KeyPasswordKeyboard))
	}

	report := PasswordReport{
		IsValid:      len(errs) == 0,
		Errors:       errs,
		Requirements: req,
		Strength:     scoreStrength(password, classes, common, keyboard, userInfo, repeats),
	}
	return report
}

// ValidatePasswordMatch checks that a confirmation field equals the
// password.
func ValidatePasswordMatch(password, confirmation string, loc locale.Locale) Result {
	if password != confirmation {
		return Invalid(locale.T(loc, locale.KeyPasswordMismatch))
	}
	return Valid()
}

type runeClasses struct {
	upper, lower, digit, special bool
}

func classifyRunes(s string) runeClasses {
	var c runeClasses
	for _, r := range s {
		switch {
		case unicode.IsUpper(r):
			c.upper = true
		case unicode.IsLower(r):
			c.lower = true
		case unicode.IsDigit(r):
			c.digit = true
		default:
			c.special = true
		}
	}
	return c
}

// longestRun returns the length of the longest run of one rune.
func longestRun(s string) int {
	longest, current := 0, 0
	var prev rune = -1
	for _, r := range s {
		if r == prev {
			current++
		} else {
			current = 1
			prev = r
		}
		if current > longest {
			longest = current
		}
	}
	return longest
}

func isCommonPassword(password string) bool {
	_, ok := commonPasswords[strings.ToLower(password)]
	return ok
}

func containsKeyboardPattern(password string) bool {
	lowered := strings.ToLower(password)
	for _, pattern := range keyboardPatterns {
		if strings.Contains(lowered, pattern) {
			return true
		}
	}
	return false
}

// containsUserInfo reports whether the password embeds any fragment of
// the user's email local part, username, or name. Fragments under three
// characters are too short to be meaningful and are skipped.
func containsUserInfo(password string, user UserInfo) bool {
	lowered := strings.ToLower(password)

	var fragments []string
	if at := strings.Index(user.Email, "@"); at > 0 {
		fragments = append(fragments, splitFragments(user.Email[:at])...)
	}
	fragments = append(fragments, splitFragments(user.Username)...)
	fragments = append(fragments, strings.Fields(user.Name)...)

	for _, fragment := range fragments {
		fragment = strings.ToLower(strings.TrimSpace(fragment))
		if len(fragment) < 3 {
			continue
		}
		if strings.Contains(lowered, fragment) {
			return true
		}
	}
	return false
}

func splitFragments(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool {
		return r == '.' || r == '_' || r == '-' || r == '+'
	})
}

// entropyBits estimates length * log2(charset size implied by the
// character classes present).
func entropyBits(password string, classes runeClasses) float64 {
	size := 0
	if classes.lower {
		size += 26
	}
	if classes.upper {
		size += 26
	}
	if classes.digit {
		size += 10
	}
	if classes.special {
		size += 33
	}
	if size == 0 {
		return 0
	}
	return float64(len([]rune(password))) * math.Log2(float64(size))
}

// scoreStrength applies the additive heuristic: length tiers, class
// half-points, entropy bonuses, then penalties, floored into a 0-4 band.
func scoreStrength(password string, classes runeClasses, common, keyboard, userInfo, repeats bool) Strength {
	length := len([]rune(password))
	bits := entropyBits(password, classes)

	score := 0.0
	for _, tier := range []int{8, 12, 16} {
		if length >= tier {
			score++
		}
	}
	for _, present := range []bool{classes.upper, classes.lower, classes.digit, classes.special} {
		if present {
			score += 0.5
		}
	}
	if bits >= 60 {
		score += 0.5
	}
	if bits >= 80 {
		score += 0.5
	}

	if common {
		score -= 3
	}
	if keyboard {
		score--
	}
	if userInfo {
		score--
	}
	if repeats {
		score -= 0.5
	}

	if score < 0 {
		score = 0
	}
	band := int(math.Floor(score))
	if band > 4 {
		band = 4
	}

	return Strength{
		Score:       band,
		EntropyBits: bits,
		Label:       strengthLabels[band],
		Color:       strengthColors[band],
	}
}
