package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gpslab/clientcore/internal/locale"
)

func TestValidatePasswordRequirementsReported(t *testing.T) {
	report := ValidatePassword("Password1!", PasswordOptions{})

	// Every structural requirement is met even though the password is
	// rejected for being on the common list.
	assert.True(t, report.Requirements.Length)
	assert.True(t, report.Requirements.Uppercase)
	assert.True(t, report.Requirements.Lowercase)
	assert.True(t, report.Requirements.Numbers)
	assert.True(t, report.Requirements.SpecialChars)
	assert.False(t, report.Requirements.NotCommon)
	assert.False(t, report.IsValid)
}

func TestCommonPasswordPenaltyDepressesScore(t *testing.T) {
	common := ValidatePassword("Password1!", PasswordOptions{})
	structured := ValidatePassword("Kxrmvual1!", PasswordOptions{})

	// Same length and class mix, but list membership must strictly
	// reduce the band.
	assert.Less(t, common.Strength.Score, structured.Strength.Score)
}

func TestValidPasswordPasses(t *testing.T) {
	report := ValidatePassword("Tr!ckyOrange42", PasswordOptions{})

	require.True(t, report.IsValid, "errors: %v", report.Errors)
	assert.Empty(t, report.Errors)
	assert.True(t, report.Requirements.NotCommon)
	assert.GreaterOrEqual(t, report.Strength.Score, 3)
}

func TestEmptyPassword(t *testing.T) {
	report := ValidatePassword("", PasswordOptions{})

	assert.False(t, report.IsValid)
	assert.Equal(t, []string{locale.T(locale.English, locale.KeyPasswordRequired)}, report.Errors)
	assert.Equal(t, 0, report.Strength.Score)
}

func TestRegistrationRejectsQwerty123WithAllReasons(t *testing.T) {
	policy := DefaultPasswordPolicy()
	policy.MinLength = 12 // registration form policy

	report := ValidatePassword("qwerty123", PasswordOptions{Policy: policy})

	require.False(t, report.IsValid)
	assert.Contains(t, report.Errors, locale.T(locale.English, locale.KeyPasswordTooShort, 12))
	assert.Contains(t, report.Errors, locale.T(locale.English, locale.KeyPasswordCommon))
	assert.Contains(t, report.Errors, locale.T(locale.English, locale.KeyPasswordKeyboard))
	assert.Greater(t, len(report.Errors), 1, "all failed checks must be reported, not just the first")
}

func TestRepeatedCharacterRun(t *testing.T) {
	report := ValidatePassword("Gooood!Morning7", PasswordOptions{})

	assert.False(t, report.Requirements.NoRepeats)
	assert.Contains(t, report.Errors, locale.T(locale.English, locale.KeyPasswordRepeats, 4))
}

func TestUserInfoRejection(t *testing.T) {
	opts := PasswordOptions{
		User: UserInfo{Email: "jane.doe@example.com", Username: "janedoe", Name: "Jane Doe"},
	}

	report := ValidatePassword("Doe!Secure99x", opts)
	assert.False(t, report.Requirements.NoUserInfo)
	assert.Contains(t, report.Errors, locale.T(locale.English, locale.KeyPasswordUserInfo))

	// Fragments under three characters are ignored.
	shortOpts := PasswordOptions{User: UserInfo{Username: "jd"}}
	clean := ValidatePassword("Vf!morning42Q", shortOpts)
	assert.True(t, clean.Requirements.NoUserInfo)
}

func TestStrengthBands(t *testing.T) {
	tests := []struct {
		name     string
		password string
		minScore int
		maxScore int
	}{
		{"short lowercase", "abc", 0, 0},
		{"fair mixed", "Mangrove7!", 2, 3},
		{"long mixed", "Vf!morning42Qx8pansDK", 4, 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			report := ValidatePassword(tt.password, PasswordOptions{})
			assert.GreaterOrEqual(t, report.Strength.Score, tt.minScore)
			assert.LessOrEqual(t, report.Strength.Score, tt.maxScore)
			assert.Equal(t, strengthLabels[report.Strength.Score], report.Strength.Label)
			assert.Equal(t, strengthColors[report.Strength.Score], report.Strength.Color)
		})
	}
}

func TestEntropyBonus(t *testing.T) {
	// 13 chars over a 95-symbol charset is ~85 bits: both bonuses apply.
	report := ValidatePassword("Vf!morning42Q", PasswordOptions{})
	assert.Greater(t, report.Strength.EntropyBits, 80.0)
}

func TestValidatePasswordMatch(t *testing.T) {
	assert.True(t, ValidatePasswordMatch("a", "a", locale.English).IsValid)

	result := ValidatePasswordMatch("a", "b", locale.English)
	assert.False(t, result.IsValid)
	assert.Equal(t, locale.T(locale.English, locale.KeyPasswordMismatch), result.Error)

	korean := ValidatePasswordMatch("a", "b", locale.Korean)
	assert.Equal(t, locale.T(locale.Korean, locale.KeyPasswordMismatch), korean.Error)
}

func TestLongestRun(t *testing.T) {
	assert.Equal(t, 1, longestRun("abc"))
	assert.Equal(t, 4, longestRun("aabbbb"))
	assert.Equal(t, 3, longestRun("xxxyyxx"))
	assert.Equal(t, 0, longestRun(""))
}
