package ml

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestErrorMessages(t *testing.T) {
	cases := []struct {
		err  error
		want string
	}{
		{&FormatError{Field: "Fecha-O", Value: "bad"}, `field Fecha-O: cannot parse "bad" as timestamp`},
		{&MissingFieldError{Field: "Fecha-I"}, "field Fecha-I is required"},
		{&FitError{Reason: "empty training set"}, "fit: empty training set"},
		{ErrNotFitted, "classifier not fitted"},
	}
	for _, tc := range cases {
		if got := tc.err.Error(); got != tc.want {
			t.Fatalf("expected %q, got %q", tc.want, got)
		}
	}
}

func TestErrorKindsDistinguishable(t *testing.T) {
	wrapped := fmt.Errorf("build features: %w", &FormatError{Field: "Fecha-I", Value: "x"})

	var formatErr *FormatError
	if !errors.As(wrapped, &formatErr) {
		t.Fatalf("expected FormatError through wrapping, got %v", wrapped)
	}
	var missing *MissingFieldError
	if errors.As(wrapped, &missing) {
		t.Fatal("FormatError must not match MissingFieldError")
	}
	if errors.Is(wrapped, ErrNotFitted) {
		t.Fatal("FormatError must not match ErrNotFitted")
	}
	if !strings.Contains(wrapped.Error(), "Fecha-I") {
		t.Fatalf("expected field name in message, got %q", wrapped.Error())
	}
}
