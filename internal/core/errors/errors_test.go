package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestDomainError(t *testing.T) {
	t.Run("New", func(t *testing.T) {
		err := New(CodeNotFound, "config not found")
		if err.Error() != "[NOT_FOUND] config not found" {
			t.Errorf("expected [NOT_FOUND] config not found, got %s", err.Error())
		}
	})

	t.Run("Wrap", func(t *testing.T) {
		original := errors.New("unexpected EOF")
		err := Wrap(original, CodeParse, "parse failed")
		expected := "[PARSE_ERROR] parse failed: unexpected EOF"
		if err.Error() != expected {
			t.Errorf("expected %s, got %s", expected, err.Error())
		}
		if !errors.Is(err, original) {
			t.Error("expected wrapped cause to be reachable")
		}
	})

	t.Run("ContextIsSorted", func(t *testing.T) {
		err := AddContext(New(CodeValidationError, "bad hook spec"), CtxKey, "rule.static_hooks.useX")
		err = AddContext(err, CtxHook, "useX")
		expected := "[VALIDATION_ERROR] bad hook spec (hook=useX key=rule.static_hooks.useX)"
		if err.Error() != expected {
			t.Errorf("expected %s, got %s", expected, err.Error())
		}
	})

	t.Run("AddContextWrapsForeignErrors", func(t *testing.T) {
		err := AddContext(errors.New("boom"), CtxPath, "a.jsx")
		if !IsCode(err, CodeInternal) {
			t.Errorf("expected internal code, got %q", CodeOf(err))
		}
	})

	t.Run("IsCodeThroughFmtWrap", func(t *testing.T) {
		err := fmt.Errorf("lint: %w", New(CodeNotSupported, "unsupported file type"))
		if !IsCode(err, CodeNotSupported) {
			t.Error("expected IsCode to see through fmt wrapping")
		}
		if IsCode(err, CodeNotFound) {
			t.Error("expected IsCode to return false for CodeNotFound")
		}
		if CodeOf(errors.New("plain")) != "" {
			t.Error("plain errors have no code")
		}
	})
}
