package model

import (
	"fmt"
	"testing"
)

func TestAPIError_Error(t *testing.T) {
	err := &APIError{Code: ErrNotFound, Message: "Room '9999' not found"}
	want := "NOT_FOUND: Room '9999' not found"
	if got := err.Error(); got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}

func TestNewNotFoundError(t *testing.T) {
	err := NewNotFoundError("Room", "9999")
	if err.Code != ErrNotFound {
		t.Errorf("Code = %q, want %q", err.Code, ErrNotFound)
	}
	if err.Message != "Room '9999' not found" {
		t.Errorf("Message = %q, want %q", err.Message, "Room '9999' not found")
	}
}

func TestNewValidationError(t *testing.T) {
	err := NewValidationError("minutes must be positive")
	if err.Code != ErrValidation {
		t.Errorf("Code = %q, want %q", err.Code, ErrValidation)
	}
}

func TestAPIErrorFor(t *testing.T) {
	tests := []struct {
		err  error
		want ErrorCode
	}{
		{ErrUnknownResource, ErrNotFound},
		{ErrUnknownTask, ErrNotFound},
		{ErrInvalidDuration, ErrValidation},
		{ErrConfigurationConflict, ErrConflict},
		{ErrNoWorkerAvailable, ErrInternal},
		{fmt.Errorf("room lookup: %w", ErrUnknownResource), ErrNotFound},
		{fmt.Errorf("something else"), ErrInternal},
	}
	for _, tt := range tests {
		if got := APIErrorFor(tt.err); got.Code != tt.want {
			t.Errorf("APIErrorFor(%v).Code = %q, want %q", tt.err, got.Code, tt.want)
		}
	}
}
