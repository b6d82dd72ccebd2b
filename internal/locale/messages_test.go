package locale

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEveryKeyHasEnglish(t *testing.T) {
	for _, key := range Keys() {
		templates := catalog[key]
		english, ok := templates[English]
		assert.True(t, ok, "key %q missing English entry", key)
		assert.NotEmpty(t, english, "key %q has empty English entry", key)
	}
}

func TestEveryKeyHasAllLocales(t *testing.T) {
	// The catalog ships complete tables for all three locales; a gap would
	// silently fall back to English, which the platform treats as a
	// translation regression.
	for _, key := range Keys() {
		for _, loc := range []Locale{English, Korean, Swahili} {
			assert.NotEmpty(t, catalog[key][loc], "key %q missing %s", key, loc)
		}
	}
}

func TestFormatDirectivesAgreeAcrossLocales(t *testing.T) {
	for _, key := range Keys() {
		english := catalog[key][English]
		wantVerbs := strings.Count(english, "%")
		for _, loc := range []Locale{Korean, Swahili} {
			template, ok := catalog[key][loc]
			if !ok {
				continue
			}
			assert.Equal(t, wantVerbs, strings.Count(template, "%"),
				"key %q: %s has different format verb count than English", key, loc)
		}
	}
}

func TestT(t *testing.T) {
	assert.Equal(t, "Password must be at least 8 characters", T(English, KeyPasswordTooShort, 8))
	assert.Equal(t, "비밀번호는 최소 8자 이상이어야 합니다", T(Korean, KeyPasswordTooShort, 8))
	assert.Equal(t, "Nenosiri lazima liwe na angalau herufi 8", T(Swahili, KeyPasswordTooShort, 8))

	// Unknown key echoes the key rather than returning an empty string.
	assert.Equal(t, "no_such_key", T(English, Key("no_such_key")))
}

func TestMatch(t *testing.T) {
	tests := []struct {
		tag      string
		expected Locale
	}{
		{"en", English},
		{"en-US", English},
		{"ko", Korean},
		{"ko-KR", Korean},
		{"sw", Swahili},
		{"sw-TZ", Swahili},
		{"fr", English},
		{"", English},
		{"not a tag", English},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, Match(tt.tag), "tag %q", tt.tag)
	}
}
