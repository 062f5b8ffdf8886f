package validation

// Kind is the primitive type a field accepts.
type Kind int

const (
	KindString Kind = iota
	KindInt
	KindNumber
	KindBool
	KindObject
	KindArray
)

func (k Kind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindInt:
		return "integer"
	case KindNumber:
		return "number"
	case KindBool:
		return "boolean"
	case KindObject:
		return "object"
	case KindArray:
		return "array"
	}
	return "unknown"
}

// Rule is one constraint expressed as a validator tag, e.g. "email" or "min=8".
// An empty Message falls back to a generated one.
type Rule struct {
	Tag     string
	Message string
}

// Field describes one input key. Build fields with String, Int, Number, Bool, Object
// and Array, then chain modifiers. Fields must not be changed once handed to New.
type Field struct {
	name      string
	kind      Kind
	optional  bool
	coerce    bool
	def       any
	modifiers string
	rules     []Rule
	fields    []*Field
	elem      *Field
}

func String(name string) *Field { return &Field{name: name, kind: KindString} }
func Int(name string) *Field    { return &Field{name: name, kind: KindInt} }
func Number(name string) *Field { return &Field{name: name, kind: KindNumber} }
func Bool(name string) *Field   { return &Field{name: name, kind: KindBool} }

// Object is a nested object whose keys are described by fields.
func Object(name string, fields ...*Field) *Field {
	return &Field{name: name, kind: KindObject, fields: fields}
}

// Array is a list whose elements are described by elem. elem's name is ignored.
func Array(name string, elem *Field) *Field {
	return &Field{name: name, kind: KindArray, elem: elem}
}

// Name returns the input key.
func (f *Field) Name() string { return f.name }

// Optional lets the key be absent (or null).
func (f *Field) Optional() *Field {
	f.optional = true
	return f
}

// Coerce accepts string input for scalar kinds ("2" for an int, "true" for a bool).
func (f *Field) Coerce() *Field {
	f.coerce = true
	return f
}

// Default fills an absent key. The default itself is not validated.
func (f *Field) Default(v any) *Field {
	f.def = v
	return f
}

// Modify applies mold modifiers (e.g. "trim,lcase") to string input before the rules run.
func (f *Field) Modify(tags string) *Field {
	f.modifiers = tags
	return f
}

// Rule appends a constraint with a custom message.
func (f *Field) Rule(tag, message string) *Field {
	f.rules = append(f.rules, Rule{Tag: tag, Message: message})
	return f
}

// Check appends a constraint with the generated message.
func (f *Field) Check(tags ...string) *Field {
	for _, tag := range tags {
		f.rules = append(f.rules, Rule{Tag: tag})
	}
	return f
}

func (f *Field) clone() *Field {
	c := *f
	return &c
}
