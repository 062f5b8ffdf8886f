package validation

import (
	"context"
	"errors"
	"fmt"

	"github.com/mitchellh/mapstructure"
)

// Validate checks data against s and decodes the coerced values into T using json tags.
// On failure the returned error is Violations.
func Validate[T any](ctx context.Context, s *Schema, data map[string]any) (T, error) {
	var out T
	clean, errs := s.Check(ctx, data)
	if errs != nil {
		return out, errs
	}
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName: "json",
		Result:  &out,
	})
	if err != nil {
		return out, err
	}
	if err := dec.Decode(clean); err != nil {
		return out, fmt.Errorf("validation: decode %s: %w", s.name, err)
	}
	return out, nil
}

// AsViolations extracts Violations from err, if that is what it carries.
func AsViolations(err error) (Violations, bool) {
	var v Violations
	if errors.As(err, &v) {
		return v, true
	}
	return nil, false
}
