package validation

import (
	"fmt"
	"regexp"
	"time"
)

// RuleSpec is the declarative form of one field rule, as carried in API
// requests and form definition files.
type RuleSpec struct {
	Type    string  `json:"type"`
	N       int     `json:"n,omitempty"`
	Min     float64 `json:"min,omitempty"`
	Max     float64 `json:"max,omitempty"`
	MinDate string  `json:"minDate,omitempty"`
	MaxDate string  `json:"maxDate,omitempty"`
	Pattern string  `json:"pattern,omitempty"`
	Field   string  `json:"field,omitempty"`
}

// RuleFromSpec materializes a RuleSpec into a Rule.
func RuleFromSpec(spec RuleSpec) (Rule, error) {
	switch spec.Type {
	case "required":
		return Required{}, nil
	case "min_length":
		return MinLength{N: spec.N}, nil
	case "max_length":
		return MaxLength{N: spec.N}, nil
	case "min_value":
		return MinValue{Min: spec.Min}, nil
	case "max_value":
		return MaxValue{Max: spec.Max}, nil
	case "pattern":
		re, err := regexp.Compile(spec.Pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid pattern %q: %w", spec.Pattern, err)
		}
		return Pattern{Regexp: re}, nil
	case "url":
		return URL{AutoPrefix: true}, nil
	case "phone":
		return Phone{}, nil
	case "date":
		var rule Date
		if spec.MinDate != "" {
			min, err := time.Parse("2006-01-02", spec.MinDate)
			if err != nil {
				return nil, fmt.Errorf("invalid minDate %q", spec.MinDate)
			}
			rule.Min = min
		}
		if spec.MaxDate != "" {
			max, err := time.Parse("2006-01-02", spec.MaxDate)
			if err != nil {
				return nil, fmt.Errorf("invalid maxDate %q", spec.MaxDate)
			}
			rule.Max = max
		}
		return rule, nil
	case "number":
		return Number{}, nil
	case "integer":
		return Number{Integer: true}, nil
	case "username":
		return Username{}, nil
	case "currency":
		return Currency{}, nil
	case "stage_number":
		return StageNumber{}, nil
	case "mission_id":
		return MissionID{}, nil
	case "email":
		return Email{Options: DefaultEmailOptions()}, nil
	case "password":
		return Password{}, nil
	case "matches":
		if spec.Field == "" {
			return nil, fmt.Errorf("matches rule needs a field")
		}
		return MatchesField{Field: spec.Field}, nil
	default:
		return nil, fmt.Errorf("unknown rule type %q", spec.Type)
	}
}

// SchemaFromSpecs materializes a whole schema, failing on the first bad
// rule.
func SchemaFromSpecs(fields map[string][]RuleSpec) (Schema, error) {
	schema := Schema{}
	for field, specs := range fields {
		rules := make([]Rule, 0, len(specs))
		for _, spec := range specs {
			rule, err := RuleFromSpec(spec)
			if err != nil {
				return nil, fmt.Errorf("field %q: %w", field, err)
			}
			rules = append(rules, rule)
		}
		schema[field] = rules
	}
	return schema, nil
}
