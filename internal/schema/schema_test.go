package schema

import (
	"strings"
	"testing"
)

func testSchema() Schema {
	min, max := Range(0, 100)
	return Schema{
		Name: "test",
		Fields: []Field{
			{Name: "title", Kind: KindString, Required: true},
			{Name: "level", Kind: KindString, Enum: []string{"LOW", "MEDIUM", "HIGH"}},
			{Name: "count", Kind: KindInteger, Min: min, Max: max},
			{Name: "tags", Kind: KindStringArray},
			{Name: "active", Kind: KindBoolean},
			Confidence(),
		},
	}
}

func TestValidateAccepts(t *testing.T) {
	payload := map[string]any{
		"title":      "Opening chase",
		"level":      "medium",
		"count":      float64(12),
		"tags":       []any{"night", "exterior"},
		"active":     true,
		"confidence": 0.85,
	}
	if err := testSchema().Validate(payload); err != nil {
		t.Fatalf("unexpected validation error: %v", err)
	}
}

func TestValidateMissingRequired(t *testing.T) {
	err := testSchema().Validate(map[string]any{"confidence": 0.5})
	if err == nil {
		t.Fatal("expected error for missing required field")
	}
	if !strings.Contains(err.Error(), "title: required field missing") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidateEnumViolation(t *testing.T) {
	payload := map[string]any{"title": "x", "level": "EXTREME", "confidence": 0.5}
	err := testSchema().Validate(payload)
	if err == nil || !strings.Contains(err.Error(), "not in") {
		t.Fatalf("expected enum violation, got %v", err)
	}
}

func TestValidateRangeViolation(t *testing.T) {
	payload := map[string]any{"title": "x", "confidence": 1.5}
	err := testSchema().Validate(payload)
	if err == nil || !strings.Contains(err.Error(), "above maximum") {
		t.Fatalf("expected range violation, got %v", err)
	}
}

func TestValidateTypeViolations(t *testing.T) {
	payload := map[string]any{
		"title":      7,
		"count":      3.5,
		"tags":       []any{1},
		"active":     "yes",
		"confidence": 0.5,
	}
	err := testSchema().Validate(payload)
	if err == nil {
		t.Fatal("expected type violations")
	}
	for _, want := range []string{"expected string", "expected integer", "element 0", "expected boolean"} {
		if !strings.Contains(err.Error(), want) {
			t.Fatalf("expected %q in error, got %v", want, err)
		}
	}
}

func TestValidateNilPayload(t *testing.T) {
	if err := testSchema().Validate(nil); err == nil {
		t.Fatal("expected error for nil payload")
	}
}

func TestDirectiveMentionsFieldsAndConstraints(t *testing.T) {
	directive := testSchema().Directive()
	for _, want := range []string{"\"title\"", "required", "one of: LOW, MEDIUM, HIGH", "between 0 and 100", "ONLY with a single JSON object"} {
		if !strings.Contains(directive, want) {
			t.Fatalf("directive missing %q:\n%s", want, directive)
		}
	}
}

func TestValidateDefinition(t *testing.T) {
	if err := testSchema().ValidateDefinition(); err != nil {
		t.Fatalf("unexpected definition error: %v", err)
	}
	dup := Schema{Name: "dup", Fields: []Field{{Name: "a", Kind: KindString}, {Name: "a", Kind: KindString}}}
	if err := dup.ValidateDefinition(); err == nil {
		t.Fatal("expected duplicate field error")
	}
	if err := (Schema{}).ValidateDefinition(); err == nil {
		t.Fatal("expected empty schema error")
	}
}
