package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gpslab/clientcore/internal/locale"
)

func TestRuleFromSpec(t *testing.T) {
	tests := []struct {
		name    string
		spec    RuleSpec
		value   string
		wantOK  bool
	}{
		{"required passes", RuleSpec{Type: "required"}, "x", true},
		{"required fails empty", RuleSpec{Type: "required"}, "", false},
		{"min_length", RuleSpec{Type: "min_length", N: 3}, "ab", false},
		{"max_length", RuleSpec{Type: "max_length", N: 3}, "abcd", false},
		{"min_value", RuleSpec{Type: "min_value", Min: 10}, "5", false},
		{"pattern", RuleSpec{Type: "pattern", Pattern: "^[a-z]+$"}, "abc", true},
		{"url", RuleSpec{Type: "url"}, "example.com/path", true},
		{"phone", RuleSpec{Type: "phone"}, "+82 10-1234-5678", true},
		{"date", RuleSpec{Type: "date"}, "2026-03-15", true},
		{"date bounds", RuleSpec{Type: "date", MinDate: "2026-01-01"}, "2025-12-31", false},
		{"integer", RuleSpec{Type: "integer"}, "12.5", false},
		{"username", RuleSpec{Type: "username"}, "gps_student", true},
		{"stage_number", RuleSpec{Type: "stage_number"}, "36", false},
		{"mission_id", RuleSpec{Type: "mission_id"}, "NAV-001", true},
		{"email", RuleSpec{Type: "email"}, "student@university.edu", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rule, err := RuleFromSpec(tt.spec)
			require.NoError(t, err)
			result := rule.Validate(tt.value, FieldContext{Locale: locale.English})
			assert.Equal(t, tt.wantOK, result.IsValid)
		})
	}
}

func TestRuleFromSpecErrors(t *testing.T) {
	_, err := RuleFromSpec(RuleSpec{Type: "telepathy"})
	assert.Error(t, err)

	_, err = RuleFromSpec(RuleSpec{Type: "pattern", Pattern: "["})
	assert.Error(t, err)

	_, err = RuleFromSpec(RuleSpec{Type: "matches"})
	assert.Error(t, err)

	_, err = RuleFromSpec(RuleSpec{Type: "date", MinDate: "yesterday"})
	assert.Error(t, err)
}

func TestSchemaFromSpecs(t *testing.T) {
	schema, err := SchemaFromSpecs(map[string][]RuleSpec{
		"username": {{Type: "required"}, {Type: "username"}},
		"confirm":  {{Type: "matches", Field: "password"}},
	})
	require.NoError(t, err)
	assert.Len(t, schema["username"], 2)

	result := ValidateForm(
		map[string]string{"username": "gps_student", "password": "a", "confirm": "b"},
		schema,
		FieldOptions{},
	)
	assert.False(t, result.IsValid)
	assert.NotEmpty(t, result.Errors["confirm"])
	assert.Empty(t, result.Errors["username"])

	_, err = SchemaFromSpecs(map[string][]RuleSpec{
		"x": {{Type: "nope"}},
	})
	assert.Error(t, err)
}
