package errors

import (
	"errors"
	"testing"
)

func TestNew(t *testing.T) {
	err := New(ErrCodeInvalidDimensions, "width out of range: %d", 6000)

	if err.Code != ErrCodeInvalidDimensions {
		t.Errorf("Code = %v, want %v", err.Code, ErrCodeInvalidDimensions)
	}

	if err.Message != "width out of range: 6000" {
		t.Errorf("Message = %v, want %v", err.Message, "width out of range: 6000")
	}

	expected := "INVALID_DIMENSIONS: width out of range: 6000"
	if err.Error() != expected {
		t.Errorf("Error() = %v, want %v", err.Error(), expected)
	}
}

func TestWrap(t *testing.T) {
	cause := errors.New("underlying error")
	err := Wrap(ErrCodeImageLoadFailure, cause, "failed to fetch image")

	if err.Code != ErrCodeImageLoadFailure {
		t.Errorf("Code = %v, want %v", err.Code, ErrCodeImageLoadFailure)
	}

	if err.Cause != cause {
		t.Errorf("Cause = %v, want %v", err.Cause, cause)
	}

	// Test Unwrap
	unwrapped := errors.Unwrap(err)
	if unwrapped != cause {
		t.Errorf("Unwrap() = %v, want %v", unwrapped, cause)
	}

	// Test errors.Is with wrapped error
	if !errors.Is(err, cause) {
		t.Error("errors.Is(err, cause) = false, want true")
	}
}

func TestMissingField(t *testing.T) {
	err := MissingField("radius")

	if err.Code != ErrCodeMissingField {
		t.Errorf("Code = %v, want %v", err.Code, ErrCodeMissingField)
	}
	if err.Message != `missing required field "radius"` {
		t.Errorf("Message = %v", err.Message)
	}
}

func TestIs(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		code     Code
		expected bool
	}{
		{
			name:     "matching code",
			err:      New(ErrCodeSessionNotFound, "test"),
			code:     ErrCodeSessionNotFound,
			expected: true,
		},
		{
			name:     "non-matching code",
			err:      New(ErrCodeSessionNotFound, "test"),
			code:     ErrCodeImageLoadFailure,
			expected: false,
		},
		{
			name:     "wrapped error",
			err:      Wrap(ErrCodeImageLoadFailure, New(ErrCodeInternal, "inner"), "outer"),
			code:     ErrCodeImageLoadFailure,
			expected: true,
		},
		{
			name:     "plain error",
			err:      errors.New("plain"),
			code:     ErrCodeInternal,
			expected: false,
		},
		{
			name:     "nil error",
			err:      nil,
			code:     ErrCodeInternal,
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Is(tt.err, tt.code); got != tt.expected {
				t.Errorf("Is() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestGetCode(t *testing.T) {
	if got := GetCode(New(ErrCodeRegistryFull, "full")); got != ErrCodeRegistryFull {
		t.Errorf("GetCode() = %v, want %v", got, ErrCodeRegistryFull)
	}
	if got := GetCode(errors.New("plain")); got != "" {
		t.Errorf("GetCode(plain) = %v, want empty", got)
	}
}

func TestUserMessage(t *testing.T) {
	err := New(ErrCodeInvalidField, "bad color %q", "zebra")
	if got := UserMessage(err); got != `bad color "zebra"` {
		t.Errorf("UserMessage() = %v", got)
	}

	plain := errors.New("boom")
	if got := UserMessage(plain); got != "boom" {
		t.Errorf("UserMessage(plain) = %v", got)
	}
}
