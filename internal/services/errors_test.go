package services

import (
	"errors"
	"testing"
)

func TestWrapTagsMarker(t *testing.T) {
	err := Wrap(ErrValidation, "elements", "decode payload", "schema mismatch", errors.New("boom"))
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("expected validation marker, got %v", err)
	}
	if got := err.Error(); got != "validation error: elements: decode payload: schema mismatch: boom" {
		t.Fatalf("unexpected message: %q", got)
	}
}

func TestWrapDefaultsToTransient(t *testing.T) {
	err := Wrap(nil, "", "", "", nil)
	if !errors.Is(err, ErrTransient) {
		t.Fatalf("expected transient marker, got %v", err)
	}
	if got := err.Error(); got != "transient failure: service failure" {
		t.Fatalf("unexpected message: %q", got)
	}
}

func TestMessageStripsSentinelPrefix(t *testing.T) {
	err := Wrap(ErrTimeout, "schedule_draft", "generate", "deadline exceeded", nil)
	if got := Message(err); got != "schedule_draft: generate: deadline exceeded" {
		t.Fatalf("unexpected message: %q", got)
	}
	if got := Message(nil); got != "" {
		t.Fatalf("expected empty message for nil error, got %q", got)
	}
}
