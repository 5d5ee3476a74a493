package errors

import (
	"context"
	"errors"
	"fmt"
	"testing"
)

func TestErrorClass_String(t *testing.T) {
	tests := []struct {
		class    ErrorClass
		expected string
	}{
		{ErrorTransient, "transient"},
		{ErrorInvalid, "invalid"},
		{ErrorFatal, "fatal"},
		{ErrorClass(999), "unknown"},
	}

	for _, test := range tests {
		t.Run(test.expected, func(t *testing.T) {
			result := test.class.String()
			if result != test.expected {
				t.Errorf("expected %s, got %s", test.expected, result)
			}
		})
	}
}

func TestIsTransient(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected bool
	}{
		{"nil error", nil, false},
		{"connection timeout", ErrConnectionTimeout, true},
		{"connection lost", ErrConnectionLost, true},
		{"publish failed", ErrPublishFailed, true},
		{"read failed", ErrReadFailed, true},
		{"context deadline exceeded", context.DeadlineExceeded, true},
		{"context canceled", context.Canceled, true},
		{"invalid config", ErrInvalidConfig, false},
		{"capability missing", ErrCapabilityMissing, false},
		{"timeout in message", fmt.Errorf("operation timeout occurred"), true},
		{"network error", fmt.Errorf("network connection failed"), true},
		{"classified transient", &ClassifiedError{Class: ErrorTransient, Err: fmt.Errorf("test")}, true},
		{"classified fatal", &ClassifiedError{Class: ErrorFatal, Err: fmt.Errorf("test")}, false},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			result := IsTransient(test.err)
			if result != test.expected {
				t.Errorf("expected %v, got %v for error: %v", test.expected, result, test.err)
			}
		})
	}
}

func TestIsInvalid(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected bool
	}{
		{"nil error", nil, false},
		{"invalid config", ErrInvalidConfig, true},
		{"missing config", ErrMissingConfig, true},
		{"invalid period", ErrInvalidPeriod, true},
		{"capability missing", ErrCapabilityMissing, true},
		{"invalid joint count", ErrInvalidJointCount, true},
		{"axis name unknown", ErrAxisNameUnknown, true},
		{"driver not found", ErrDriverNotFound, true},
		{"publish failed", ErrPublishFailed, false},
		{"classified invalid", &ClassifiedError{Class: ErrorInvalid, Err: fmt.Errorf("test")}, true},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			result := IsInvalid(test.err)
			if result != test.expected {
				t.Errorf("expected %v, got %v for error: %v", test.expected, result, test.err)
			}
		})
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected ErrorClass
	}{
		{"nil error defaults transient", nil, ErrorTransient},
		{"missing config is invalid", ErrMissingConfig, ErrorInvalid},
		{"capability missing is invalid", ErrCapabilityMissing, ErrorInvalid},
		{"read failed is transient", ErrReadFailed, ErrorTransient},
		{"fatal pattern", fmt.Errorf("fatal: state corrupted"), ErrorFatal},
		{"unknown defaults transient", fmt.Errorf("something odd"), ErrorTransient},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			if got := Classify(test.err); got != test.expected {
				t.Errorf("expected %v, got %v", test.expected, got)
			}
		})
	}
}

func TestWrap(t *testing.T) {
	base := fmt.Errorf("underlying")

	wrapped := Wrap(base, "Wrapper", "Open", "period parsing")
	if wrapped == nil {
		t.Fatal("expected non-nil error")
	}
	expected := "Wrapper.Open: period parsing failed: underlying"
	if wrapped.Error() != expected {
		t.Errorf("expected %q, got %q", expected, wrapped.Error())
	}
	if !errors.Is(wrapped, base) {
		t.Error("wrapped error should unwrap to base")
	}

	if Wrap(nil, "Wrapper", "Open", "anything") != nil {
		t.Error("wrapping nil should return nil")
	}
}

func TestWrapClassified(t *testing.T) {
	base := ErrCapabilityMissing

	err := WrapInvalid(base, "Binding", "Bind", "capability resolution")
	if !IsInvalid(err) {
		t.Error("WrapInvalid result should classify as invalid")
	}
	if !errors.Is(err, ErrCapabilityMissing) {
		t.Error("classified error should preserve the sentinel")
	}

	var ce *ClassifiedError
	if !errors.As(err, &ce) {
		t.Fatal("expected ClassifiedError in chain")
	}
	if ce.Component != "Binding" || ce.Operation != "Bind" {
		t.Errorf("unexpected context: %s.%s", ce.Component, ce.Operation)
	}

	terr := WrapTransient(ErrReadFailed, "Wrapper", "sample", "velocity read")
	if !IsTransient(terr) {
		t.Error("WrapTransient result should classify as transient")
	}

	ferr := WrapFatal(fmt.Errorf("boom"), "Wrapper", "run", "loop")
	if !IsFatal(ferr) {
		t.Error("WrapFatal result should classify as fatal")
	}
}
