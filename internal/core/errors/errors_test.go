package errors

import (
	stderrors "errors"
	"strings"
	"testing"
)

func TestWrapAndUnwrap(t *testing.T) {
	cause := stderrors.New("boom")
	err := Wrap(cause, CodeParseError, "parse failed")

	if !stderrors.Is(err, cause) {
		t.Error("wrapped error should match cause via errors.Is")
	}
	if !IsCode(err, CodeParseError) {
		t.Error("expected PARSE_ERROR code")
	}
	if IsCode(err, CodeNotFound) {
		t.Error("unexpected NOT_FOUND code match")
	}
}

func TestErrorMessageIncludesContext(t *testing.T) {
	err := New(CodeNotFound, "workspace missing")
	err = AddContext(err, CtxPath, "/tmp/missing")

	msg := err.Error()
	if !strings.Contains(msg, "NOT_FOUND") {
		t.Errorf("expected code in message, got %q", msg)
	}
	if !strings.Contains(msg, "/tmp/missing") {
		t.Errorf("expected context in message, got %q", msg)
	}
}

func TestAddContextOnPlainError(t *testing.T) {
	err := AddContext(stderrors.New("plain"), CtxOperation, "scan")
	if !IsCode(err, CodeInternal) {
		t.Error("plain errors should be wrapped as INTERNAL_ERROR")
	}
}
