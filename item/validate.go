package item

import (
	"encoding/json"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

var (
	errNotString   = validation.NewError("validation_not_string", "must be a string")
	errNotNumber   = validation.NewError("validation_not_number", "must be a number")
	errNegative    = validation.NewError("validation_negative", "must be no less than 0")
	errEmptyString = validation.NewError("validation_required", "cannot be blank")
)

type fieldRule struct {
	name  string
	rules []validation.Rule
}

// checked in order; the first failing field is reported
var fieldRules = []fieldRule{
	{name: "name", rules: requiredString()},
	{name: "category", rules: requiredString()},
	{name: "price", rules: []validation.Rule{
		validation.NotNil,
		validation.By(isNumber),
		validation.By(nonNegative),
	}},
}

func requiredString() []validation.Rule {
	return []validation.Rule{
		validation.NotNil,
		validation.By(isString),
		validation.By(nonEmpty),
	}
}

// Validate checks an inbound payload against the mutation rules.
func Validate(payload any) error {
	fields, ok := payload.(map[string]any)
	if !ok || fields == nil {
		return NewValidationError("", nil)
	}

	for _, fr := range fieldRules {
		if err := validation.Validate(fields[fr.name], fr.rules...); err != nil {
			return NewValidationError(fr.name, err)
		}
	}
	return nil
}

func isString(value any) error {
	if _, ok := value.(string); !ok {
		return errNotString
	}
	return nil
}

func nonEmpty(value any) error {
	if s, _ := value.(string); s == "" {
		return errEmptyString
	}
	return nil
}

func isNumber(value any) error {
	if _, ok := toFloat(value); !ok {
		return errNotNumber
	}
	return nil
}

func nonNegative(value any) error {
	if f, _ := toFloat(value); f < 0 {
		return errNegative
	}
	return nil
}

func toFloat(value any) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case int32:
		return float64(v), true
	case json.Number:
		f, err := v.Float64()
		return f, err == nil
	default:
		return 0, false
	}
}
