package validation

import (
	"fmt"
	"strings"
)

// Constraint codes reported in addition to the validator tag names ("email", "min", ...).
const (
	CodeRequired    = "required"
	CodeInvalidType = "invalid_type"
	CodeNotEqual    = "not_equal"
)

// Violation is one failed constraint. Path is dotted, with array indexes as segments,
// e.g. "shipping_address.country_code" or "items.0.quantity".
type Violation struct {
	Path    string `json:"path"`
	Message string `json:"message"`
	Code    string `json:"code"`
}

// Violations is the ordered list of everything wrong with one input.
type Violations []Violation

func (v Violations) Error() string {
	parts := make([]string, 0, len(v))
	for _, e := range v {
		parts = append(parts, fmt.Sprintf("%s: %s", e.Path, e.Message))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Paths returns the violated field paths in order, with duplicates kept.
func (v Violations) Paths() []string {
	out := make([]string, 0, len(v))
	for _, e := range v {
		out = append(out, e.Path)
	}
	return out
}

// Codes returns the violated constraint codes in order.
func (v Violations) Codes() []string {
	out := make([]string, 0, len(v))
	for _, e := range v {
		out = append(out, e.Code)
	}
	return out
}

func (v *Violations) add(path []string, message, code string) {
	*v = append(*v, Violation{Path: strings.Join(path, "."), Message: message, Code: code})
}

func typeMessage(want Kind, raw any) string {
	return fmt.Sprintf("Expected %s, received %s", want, describe(raw))
}

func ruleMessage(tag string, kind Kind) string {
	code := ruleCode(tag)
	param := ""
	for _, part := range strings.Split(tag, ",") {
		if name, p, ok := strings.Cut(part, "="); ok && name == code {
			param = p
		}
	}

	numeric := kind == KindInt || kind == KindNumber
	switch code {
	case "email":
		return "Invalid email"
	case "uuid", "uuid4":
		return "Invalid uuid"
	case "url":
		return "Invalid url"
	case "len":
		return fmt.Sprintf("Must be exactly %s characters", param)
	case "min":
		switch {
		case numeric:
			return fmt.Sprintf("Must be greater than or equal to %s", param)
		case kind == KindArray:
			return fmt.Sprintf("Must contain at least %s element(s)", param)
		}
		return fmt.Sprintf("Must be at least %s characters", param)
	case "max":
		switch {
		case numeric:
			return fmt.Sprintf("Must be less than or equal to %s", param)
		case kind == KindArray:
			return fmt.Sprintf("Must contain at most %s element(s)", param)
		}
		return fmt.Sprintf("Must be at most %s characters", param)
	case "gt":
		return fmt.Sprintf("Must be greater than %s", param)
	case "gte":
		return fmt.Sprintf("Must be greater than or equal to %s", param)
	case "oneof":
		valids := []string{}
		for _, p := range strings.Fields(param) {
			valids = append(valids, fmt.Sprintf("%q", p))
		}
		return "Must be one of the following: " + strings.Join(valids, ", ")
	case "number":
		return "Must contain only digits"
	case "phone":
		return "Invalid phone format"
	case "handle":
		return "Invalid handle format"
	case "mimetype":
		return "Invalid MIME type"
	}
	return fmt.Sprintf("Failed %s validation", code)
}
