package apperror

import (
	"errors"
	"testing"
)

func TestErrorsIs(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		target    error
		wantMatch bool
	}{
		{
			name:      "NotFound wraps ErrNotFound",
			err:       NotFound("post", 7),
			target:    ErrNotFound,
			wantMatch: true,
		},
		{
			name:      "ValidationFailed wraps ErrValidation",
			err:       ValidationFailed("title", "title is required"),
			target:    ErrValidation,
			wantMatch: true,
		},
		{
			name:      "Conflict wraps ErrConflict",
			err:       Conflict("snapshot", "revision mismatch"),
			target:    ErrConflict,
			wantMatch: true,
		},
		{
			name:      "Forbidden wraps ErrForbidden",
			err:       Forbidden("wrong admin key"),
			target:    ErrForbidden,
			wantMatch: true,
		},
		{
			name:      "ConfigIncomplete wraps ErrConfig",
			err:       ConfigIncomplete([]string{"STORE_TOKEN"}),
			target:    ErrConfig,
			wantMatch: true,
		},
		{
			name:      "NotFound does NOT match ErrValidation",
			err:       NotFound("post", 7),
			target:    ErrValidation,
			wantMatch: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := errors.Is(tt.err, tt.target); got != tt.wantMatch {
				t.Errorf("errors.Is(%v, %v) = %v, want %v", tt.err, tt.target, got, tt.wantMatch)
			}
		})
	}
}

func TestErrorMessages(t *testing.T) {
	tests := []struct {
		name        string
		err         *AppError
		wantMessage string
	}{
		{
			name:        "NotFound message includes resource and id",
			err:         NotFound("post", 7),
			wantMessage: "post not found with id 7",
		},
		{
			name:        "ValidationFailed uses custom message",
			err:         ValidationFailed("title", "title is required"),
			wantMessage: "title is required",
		},
		{
			name:        "ConfigIncomplete lists every missing key",
			err:         ConfigIncomplete([]string{"STORE_OWNER", "STORE_TOKEN"}),
			wantMessage: "missing required settings: STORE_OWNER, STORE_TOKEN",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.wantMessage {
				t.Errorf("Error() = %q, want %q", got, tt.wantMessage)
			}
		})
	}
}

// StoreWriteFailed joins the sentinel with the transport error, so callers
// can match either: the handler checks ErrStoreWrite, a log line may want
// the original cause.
func TestStoreWriteFailedKeepsCause(t *testing.T) {
	cause := errors.New("contents API returned 409")
	err := StoreWriteFailed(cause)

	if !errors.Is(err, ErrStoreWrite) {
		t.Error("StoreWriteFailed must match ErrStoreWrite")
	}
	if !errors.Is(err, cause) {
		t.Error("StoreWriteFailed must keep the underlying cause in the chain")
	}
}

func TestValidationFailedField(t *testing.T) {
	err := ValidationFailed("author", "author is required")
	if err.Field != "author" {
		t.Errorf("Field = %q, want %q", err.Field, "author")
	}
}
