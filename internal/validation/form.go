package validation

import "github.com/gpslab/clientcore/internal/locale"

// FieldOptions configures ValidateField and ValidateForm.
type FieldOptions struct {
	Locale locale.Locale

	// FormValues exposes sibling fields to cross-field rules.
	FormValues map[string]string

	// StopOnFirst aborts after the first failing rule instead of
	// collecting every failure.
	StopOnFirst bool
}

// ValidateField runs the rules in order against one value, collecting
// error messages.
func ValidateField(value string, rules []Rule, opts FieldOptions) Result {
	ctx := FieldContext{
		Locale:     opts.Locale,
		FormValues: opts.FormValues,
	}

	var errs []string
	for _, rule := range rules {
		result := rule.Validate(value, ctx)
		if result.IsValid {
			continue
		}
		if len(result.Errors) > 0 {
			errs = append(errs, result.Errors...)
		} else if result.Error != "" {
			errs = append(errs, result.Error)
		}
		if opts.StopOnFirst {
			break
		}
	}

	if len(errs) == 0 {
		return Valid()
	}
	return invalidAll(errs)
}

// Schema maps field names to their rule lists.
type Schema map[string][]Rule

// FormResult aggregates per-field failures. Errors contains an entry for
// exactly the fields that failed.
type FormResult struct {
	IsValid bool                `json:"isValid"`
	Errors  map[string][]string `json:"errors,omitempty"`
}

// ValidateForm runs ValidateField once per schema entry. Fields absent
// from values are validated as empty strings, so Required still fires.
func ValidateForm(values map[string]string, schema Schema, opts FieldOptions) FormResult {
	fieldOpts := opts
	fieldOpts.FormValues = values

	result := FormResult{IsValid: true}
	for field, rules := range schema {
		fieldResult := ValidateField(values[field], rules, fieldOpts)
		if fieldResult.IsValid {
			continue
		}
		if result.Errors == nil {
			result.Errors = make(map[string][]string)
		}
		result.Errors[field] = fieldResult.Errors
		result.IsValid = false
	}
	return result
}

// FormValidator is a schema partially applied with options, for forms
// validated repeatedly as the user types.
type FormValidator struct {
	schema Schema
	opts   FieldOptions
}

// NewFormValidator builds a reusable validator for a schema.
func NewFormValidator(schema Schema, opts FieldOptions) *FormValidator {
	return &FormValidator{schema: schema, opts: opts}
}

// Validate checks a full value map against the schema.
func (v *FormValidator) Validate(values map[string]string) FormResult {
	return ValidateForm(values, v.schema, v.opts)
}

// ValidateField checks a single field by name, with cross-field rules
// seeing the supplied values.
func (v *FormValidator) ValidateField(field string, values map[string]string) Result {
	rules, ok := v.schema[field]
	if !ok {
		return Valid()
	}
	opts := v.opts
	opts.FormValues = values
	return ValidateField(values[field], rules, opts)
}
