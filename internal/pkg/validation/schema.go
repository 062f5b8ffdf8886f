package validation

import (
	"context"
	"strconv"
	"strings"
)

type equality struct {
	field   string
	other   string
	message string
}

// Schema is an ordered, immutable description of one request shape.
type Schema struct {
	name   string
	fields []*Field
	equals []equality
}

// New builds a schema. name identifies it in logs and metrics.
func New(name string, fields ...*Field) *Schema {
	return &Schema{name: name, fields: fields}
}

// Name returns the schema's identifier.
func (s *Schema) Name() string { return s.name }

// MustEqual requires two top-level fields to hold equal values. The violation is
// reported against field. The check is skipped when either value is missing or invalid.
func (s *Schema) MustEqual(field, other, message string) *Schema {
	s.equals = append(s.equals, equality{field: field, other: other, message: message})
	return s
}

// Partial derives a schema in which every top-level field is optional and absent keys
// stay absent, so top-level defaults are dropped. Constraints and nested shapes are unchanged.
func (s *Schema) Partial(name string) *Schema {
	p := &Schema{name: name, equals: append([]equality(nil), s.equals...)}
	for _, f := range s.fields {
		c := f.clone()
		c.optional = true
		c.def = nil
		p.fields = append(p.fields, c)
	}
	return p
}

// Check validates data against every field and returns the coerced values, or every
// violation found. It never stops at the first failure.
func (s *Schema) Check(ctx context.Context, data map[string]any) (map[string]any, Violations) {
	if data == nil {
		data = map[string]any{}
	}
	var errs Violations
	out := checkObject(ctx, s.fields, data, nil, &errs)

	for _, eq := range s.equals {
		a, okA := out[eq.field]
		b, okB := out[eq.other]
		if !okA || !okB {
			continue
		}
		if err := validate.VarWithValue(a, b, "eqfield"); err != nil {
			errs = append(errs, Violation{Path: eq.field, Message: eq.message, Code: CodeNotEqual})
		}
	}

	if len(errs) > 0 {
		return nil, errs
	}
	return out, nil
}

func checkObject(ctx context.Context, fields []*Field, data map[string]any, path []string, errs *Violations) map[string]any {
	out := make(map[string]any, len(fields))
	for _, f := range fields {
		p := child(path, f.name)
		raw, ok := data[f.name]
		if ok && raw == nil {
			ok = false
		}
		if !ok {
			switch {
			case f.def != nil:
				out[f.name] = f.def
			case !f.optional:
				errs.add(p, "Required", CodeRequired)
			}
			continue
		}
		if v, valid := checkValue(ctx, f, raw, p, errs); valid {
			out[f.name] = v
		}
	}
	return out
}

func checkValue(ctx context.Context, f *Field, raw any, path []string, errs *Violations) (any, bool) {
	switch f.kind {
	case KindObject:
		m, ok := raw.(map[string]any)
		if !ok {
			errs.add(path, typeMessage(f.kind, raw), CodeInvalidType)
			return nil, false
		}
		before := len(*errs)
		nested := checkObject(ctx, f.fields, m, path, errs)
		return nested, len(*errs) == before

	case KindArray:
		items, ok := raw.([]any)
		if !ok {
			errs.add(path, typeMessage(f.kind, raw), CodeInvalidType)
			return nil, false
		}
		before := len(*errs)
		out := make([]any, 0, len(items))
		for i, item := range items {
			if item == nil {
				errs.add(child(path, strconv.Itoa(i)), "Required", CodeRequired)
				continue
			}
			if v, valid := checkValue(ctx, f.elem, item, child(path, strconv.Itoa(i)), errs); valid {
				out = append(out, v)
			}
		}
		applyRules(f, items, path, errs)
		return out, len(*errs) == before
	}

	v, ok := coerce(f, raw)
	if !ok {
		errs.add(path, typeMessage(f.kind, raw), CodeInvalidType)
		return nil, false
	}
	if s, isString := v.(string); isString && f.modifiers != "" {
		if err := conform.Field(ctx, &s, f.modifiers); err == nil {
			v = s
		}
	}
	before := len(*errs)
	applyRules(f, v, path, errs)
	return v, len(*errs) == before
}

func applyRules(f *Field, v any, path []string, errs *Violations) {
	for _, r := range f.rules {
		if err := validate.Var(v, r.Tag); err != nil {
			msg := r.Message
			if msg == "" {
				msg = ruleMessage(r.Tag, f.kind)
			}
			errs.add(path, msg, ruleCode(r.Tag))
		}
	}
}

func child(path []string, seg string) []string {
	p := make([]string, len(path)+1)
	copy(p, path)
	p[len(path)] = seg
	return p
}

// ruleCode reduces a validator tag to its constraint name: "omitempty,min=8" → "min".
func ruleCode(tag string) string {
	parts := strings.Split(tag, ",")
	for _, part := range parts {
		if part == "omitempty" {
			continue
		}
		name, _, _ := strings.Cut(part, "=")
		return name
	}
	return tag
}
