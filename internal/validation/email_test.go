package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/gpslab/clientcore/internal/locale"
)

func TestValidateEmailAccepts(t *testing.T) {
	opts := DefaultEmailOptions()
	opts.AllowDisposable = true

	valid := []string{
		"student@snu.ac.kr",
		"jane.doe@gmail.com",
		"a@b.co",
		"first+tag@example.com",
		"upper.CASE@Example.COM",
		"o'brien@company.org",
	}

	for _, email := range valid {
		result := ValidateEmail(email, opts)
		assert.True(t, result.IsValid, "%q should be valid: %s", email, result.Error)
		assert.Empty(t, result.Error)
	}
}

func TestValidateEmailRejects(t *testing.T) {
	opts := DefaultEmailOptions()
	opts.AllowDisposable = true

	invalid := []string{
		"",
		"plainaddress",
		"@no-local.com",
		"no-domain@",
		"double..dot@example.com",
		".leading@example.com",
		"trailing.@example.com",
		"spaces in@example.com",
		"user@nodot",
		"user@" + strings.Repeat("a", 250) + ".com",
		strings.Repeat("x", 65) + "@example.com",
	}

	for _, email := range invalid {
		result := ValidateEmail(email, opts)
		assert.False(t, result.IsValid, "%q should be invalid", email)
		assert.NotEmpty(t, result.Error, "%q should carry an error message", email)
	}
}

func TestValidateEmailOptionalEmpty(t *testing.T) {
	result := ValidateEmail("", EmailOptions{Required: false})
	assert.True(t, result.IsValid)
}

func TestValidateEmailTotalLengthBound(t *testing.T) {
	// local(64) + @ + long domain pushes the address over 254.
	local := strings.Repeat("a", 64)
	domain := strings.Repeat("b", 60) + "." + strings.Repeat("c", 60) + "." +
		strings.Repeat("d", 60) + "." + strings.Repeat("e", 10) + ".com"
	email := local + "@" + domain

	assert.Greater(t, len(email), 254)
	result := ValidateEmail(email, EmailOptions{Required: true, AllowDisposable: true})
	assert.False(t, result.IsValid)
}

func TestValidateEmailDisposablePolicy(t *testing.T) {
	opts := DefaultEmailOptions()

	result := ValidateEmail("someone@mailinator.com", opts)
	assert.False(t, result.IsValid)
	assert.Equal(t, locale.T(locale.English, locale.KeyEmailDisposable), result.Error)

	opts.AllowDisposable = true
	assert.True(t, ValidateEmail("someone@mailinator.com", opts).IsValid)
}

func TestValidateEmailEducationalPolicy(t *testing.T) {
	opts := DefaultEmailOptions()
	opts.RequireEducational = true

	assert.True(t, ValidateEmail("prof@kaist.ac.kr", opts).IsValid)
	assert.True(t, ValidateEmail("student@mit.edu", opts).IsValid)

	result := ValidateEmail("someone@gmail.com", opts)
	assert.False(t, result.IsValid)
	assert.Equal(t, locale.T(locale.English, locale.KeyEmailEducational), result.Error)
}

func TestValidateEmailStrictSuffix(t *testing.T) {
	opts := EmailOptions{Required: true, Strict: true, AllowDisposable: true}
	assert.False(t, ValidateEmail("user@example.notarealtld", opts).IsValid)

	opts.Strict = false
	assert.True(t, ValidateEmail("user@example.notarealtld", opts).IsValid)
}

func TestValidateEmailLocalizedMessages(t *testing.T) {
	opts := DefaultEmailOptions()
	opts.Locale = locale.Korean

	result := ValidateEmail("", opts)
	assert.Equal(t, locale.T(locale.Korean, locale.KeyEmailRequired), result.Error)
}

func TestIsDisposableEmailCaseInsensitive(t *testing.T) {
	assert.True(t, IsDisposableEmail("foo@mailinator.com"))
	assert.True(t, IsDisposableEmail("FOO@MAILINATOR.COM"))
	assert.False(t, IsDisposableEmail("foo@gmail.com"))
	assert.False(t, IsDisposableEmail("not-an-email"))
}

func TestClassifyEmail(t *testing.T) {
	tests := []struct {
		email    string
		expected EmailClass
	}{
		{"student@snu.ac.kr", ClassEducational},
		{"student@stanford.edu", ClassEducational},
		{"user@gmail.com", ClassFree},
		{"user@naver.com", ClassFree},
		{"user@yopmail.com", ClassDisposable},
		{"employee@stripe.com", ClassCorporate},
		{"garbage", ClassUnknown},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, ClassifyEmail(tt.email), tt.email)
	}
}

func TestExtractDomain(t *testing.T) {
	assert.Equal(t, "example.com", ExtractDomain("User@Example.COM"))
	assert.Equal(t, "b.com", ExtractDomain("a@b@b.com"))
	assert.Equal(t, "", ExtractDomain("nodomain"))
	assert.Equal(t, "", ExtractDomain("trailing@"))
}
