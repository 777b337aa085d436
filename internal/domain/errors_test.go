package domain

import (
	"errors"
	"strings"
	"testing"
)

func TestOpErrorWrapUnwrap(t *testing.T) {
	root := errors.New("root")
	err := &OpError{
		Op:   "kb.load",
		Kind: KindInvalidConfig,
		Path: "knowledge/infections.yaml",
		Err:  root,
	}

	if !errors.Is(err, root) {
		t.Fatalf("expected errors.Is to match cause")
	}

	var got *OpError
	if !errors.As(err, &got) {
		t.Fatalf("expected errors.As to match OpError")
	}
	if got.Kind != KindInvalidConfig {
		t.Fatalf("expected kind %s", KindInvalidConfig)
	}
	if !strings.Contains(err.Error(), "path=knowledge/infections.yaml") {
		t.Fatalf("expected path in message, got %q", err.Error())
	}
}

func TestIsKind(t *testing.T) {
	err := &OpError{Op: "x", Kind: KindNotFound, Err: ErrNotFound}

	if !IsKind(err, KindNotFound) {
		t.Fatalf("expected IsKind to match")
	}
	if IsKind(err, KindInvalidInput) {
		t.Fatalf("expected IsKind mismatch for other kind")
	}
	if IsKind(errors.New("plain"), KindNotFound) {
		t.Fatalf("plain errors carry no kind")
	}
}

func TestNilOpError(t *testing.T) {
	var e *OpError
	if e.Error() != "<nil>" {
		t.Fatalf("unexpected nil message %q", e.Error())
	}
	if e.Unwrap() != nil {
		t.Fatalf("expected nil unwrap")
	}
}
