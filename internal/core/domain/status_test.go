package domain

import (
	"errors"
	"testing"
)

func TestNewStatus(t *testing.T) {
	for value, want := range map[int]string{0: "pending", 1: "active", 2: "inactive"} {
		status, err := NewStatus(value)
		if err != nil {
			t.Fatalf("value %d: unexpected error: %v", value, err)
		}
		if status.String() != want {
			t.Errorf("value %d: got %q, want %q", value, status.String(), want)
		}
		if status.Int() != value {
			t.Errorf("value %d: Int round trip got %d", value, status.Int())
		}
	}

	for _, value := range []int{-1, 3, 42} {
		if _, err := NewStatus(value); !errors.Is(err, ErrInvalidValueObject) {
			t.Errorf("value %d: expected ErrInvalidValueObject, got %v", value, err)
		}
	}
}

func TestParseStatus(t *testing.T) {
	for name, want := range map[string]Status{
		"pending":  StatusPending,
		"active":   StatusActive,
		"inactive": StatusInactive,
	} {
		status, err := ParseStatus(name)
		if err != nil {
			t.Fatalf("%q: unexpected error: %v", name, err)
		}
		if status != want {
			t.Errorf("%q: got %v, want %v", name, status, want)
		}
	}

	for _, name := range []string{"", "PENDING", "frozen"} {
		if _, err := ParseStatus(name); !errors.Is(err, ErrInvalidValueObject) {
			t.Errorf("%q: expected ErrInvalidValueObject, got %v", name, err)
		}
	}
}

func TestStatus_Predicates(t *testing.T) {
	if !StatusPending.IsPending() || StatusPending.IsActive() || StatusPending.IsInactive() {
		t.Error("pending predicates wrong")
	}
	if !StatusActive.IsActive() || StatusActive.IsPending() {
		t.Error("active predicates wrong")
	}
	if !StatusInactive.IsInactive() || StatusInactive.IsActive() {
		t.Error("inactive predicates wrong")
	}
}
