package domain

import (
	"errors"
	"fmt"
	"testing"
)

func TestCycleErrorMessage(t *testing.T) {
	err := &CycleError{Remaining: []string{"a", "b", "c"}}
	want := "circular dependency detected: a -> b -> c"
	if err.Error() != want {
		t.Errorf("got %q, want %q", err.Error(), want)
	}
}

func TestCycleErrorUnwrapsThroughAs(t *testing.T) {
	wrapped := fmt.Errorf("schedule failed: %w", &CycleError{Remaining: []string{"a"}})
	var cycleErr *CycleError
	if !errors.As(wrapped, &cycleErr) {
		t.Fatal("errors.As failed to find *CycleError")
	}
	if len(cycleErr.Remaining) != 1 || cycleErr.Remaining[0] != "a" {
		t.Errorf("unexpected remaining ids: %v", cycleErr.Remaining)
	}
}

func TestUnknownChannelErrorMessage(t *testing.T) {
	err := &UnknownChannelError{TaskReference: "STL-1", ChannelID: "ch-x"}
	want := "task STL-1 references unknown channel ch-x"
	if err.Error() != want {
		t.Errorf("got %q, want %q", err.Error(), want)
	}
}

func TestHorizonExhaustedErrorMessage(t *testing.T) {
	err := &HorizonExhaustedError{TaskReference: "STL-1", Days: 365, Op: "find operating slot"}
	want := "cannot find operating slot for task STL-1 within 365 days"
	if err.Error() != want {
		t.Errorf("got %q, want %q", err.Error(), want)
	}
}
