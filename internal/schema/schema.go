package schema

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

// Kind enumerates the field types a stage contract can declare.
type Kind string

const (
	KindString      Kind = "string"
	KindNumber      Kind = "number"
	KindInteger     Kind = "integer"
	KindBoolean     Kind = "boolean"
	KindStringArray Kind = "string_array"
	KindObjectArray Kind = "object_array"
)

// Field declares one output field: its type, whether it is required, and
// optional enum/range constraints enforced on the generated payload.
type Field struct {
	Name        string
	Kind        Kind
	Required    bool
	Description string
	Enum        []string
	Min         *float64
	Max         *float64
}

// Schema is the declarative output contract for one generation stage.
type Schema struct {
	Name   string
	Fields []Field
}

// Range builds min/max pointers for field constraints.
func Range(min, max float64) (*float64, *float64) {
	return &min, &max
}

// Confidence returns the standard self-reported reliability field carried by
// every stage schema.
func Confidence() Field {
	min, max := Range(0, 1)
	return Field{
		Name:        "confidence",
		Kind:        KindNumber,
		Required:    true,
		Description: "your confidence in this result, 0 to 1",
		Min:         min,
		Max:         max,
	}
}

// Validate checks a decoded JSON object against the contract. It returns an
// error describing every violation so failures surface with full detail.
func (s Schema) Validate(payload map[string]any) error {
	if payload == nil {
		return fmt.Errorf("schema %s: payload missing", s.Name)
	}
	var violations []string
	for _, field := range s.Fields {
		value, present := payload[field.Name]
		if !present || value == nil {
			if field.Required {
				violations = append(violations, fmt.Sprintf("%s: required field missing", field.Name))
			}
			continue
		}
		if err := field.check(value); err != nil {
			violations = append(violations, fmt.Sprintf("%s: %v", field.Name, err))
		}
	}
	if len(violations) > 0 {
		return fmt.Errorf("schema %s: %s", s.Name, strings.Join(violations, "; "))
	}
	return nil
}

func (f Field) check(value any) error {
	switch f.Kind {
	case KindString:
		text, ok := value.(string)
		if !ok {
			return fmt.Errorf("expected string, got %T", value)
		}
		return f.checkEnum(text)
	case KindNumber:
		number, ok := asFloat(value)
		if !ok {
			return fmt.Errorf("expected number, got %T", value)
		}
		return f.checkRange(number)
	case KindInteger:
		number, ok := asFloat(value)
		if !ok || number != math.Trunc(number) {
			return fmt.Errorf("expected integer, got %v", value)
		}
		return f.checkRange(number)
	case KindBoolean:
		if _, ok := value.(bool); !ok {
			return fmt.Errorf("expected boolean, got %T", value)
		}
		return nil
	case KindStringArray:
		items, ok := value.([]any)
		if !ok {
			return fmt.Errorf("expected array of strings, got %T", value)
		}
		for i, item := range items {
			text, ok := item.(string)
			if !ok {
				return fmt.Errorf("element %d: expected string, got %T", i, item)
			}
			if err := f.checkEnum(text); err != nil {
				return fmt.Errorf("element %d: %v", i, err)
			}
		}
		return nil
	case KindObjectArray:
		if _, ok := value.([]any); !ok {
			return fmt.Errorf("expected array of objects, got %T", value)
		}
		return nil
	default:
		return fmt.Errorf("unknown field kind %q", f.Kind)
	}
}

func (f Field) checkEnum(text string) error {
	if len(f.Enum) == 0 {
		return nil
	}
	for _, allowed := range f.Enum {
		if strings.EqualFold(strings.TrimSpace(text), allowed) {
			return nil
		}
	}
	return fmt.Errorf("value %q not in %v", text, f.Enum)
}

func (f Field) checkRange(number float64) error {
	if f.Min != nil && number < *f.Min {
		return fmt.Errorf("value %v below minimum %v", number, *f.Min)
	}
	if f.Max != nil && number > *f.Max {
		return fmt.Errorf("value %v above maximum %v", number, *f.Max)
	}
	return nil
}

// Directive renders the contract into response instructions appended to the
// system prompt so the model emits exactly the declared object.
func (s Schema) Directive() string {
	var b strings.Builder
	b.WriteString("You must respond ONLY with a single JSON object containing these fields:\n")
	for _, field := range s.Fields {
		b.WriteString("- \"")
		b.WriteString(field.Name)
		b.WriteString("\" (")
		b.WriteString(string(field.Kind))
		if field.Required {
			b.WriteString(", required")
		}
		b.WriteString(")")
		if field.Description != "" {
			b.WriteString(": ")
			b.WriteString(field.Description)
		}
		if len(field.Enum) > 0 {
			b.WriteString(" [one of: ")
			b.WriteString(strings.Join(field.Enum, ", "))
			b.WriteString("]")
		}
		if field.Min != nil && field.Max != nil {
			fmt.Fprintf(&b, " [between %v and %v]", *field.Min, *field.Max)
		}
		b.WriteString("\n")
	}
	b.WriteString("Do not include any other keys, commentary, or markdown fences.")
	return b.String()
}

// Validate checks the schema definition itself for internal consistency.
func (s Schema) ValidateDefinition() error {
	if strings.TrimSpace(s.Name) == "" {
		return errors.New("schema name required")
	}
	if len(s.Fields) == 0 {
		return fmt.Errorf("schema %s: at least one field required", s.Name)
	}
	seen := make(map[string]struct{}, len(s.Fields))
	for _, field := range s.Fields {
		if strings.TrimSpace(field.Name) == "" {
			return fmt.Errorf("schema %s: field with empty name", s.Name)
		}
		if _, dup := seen[field.Name]; dup {
			return fmt.Errorf("schema %s: duplicate field %q", s.Name, field.Name)
		}
		seen[field.Name] = struct{}{}
	}
	return nil
}

func asFloat(value any) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	default:
		return 0, false
	}
}
