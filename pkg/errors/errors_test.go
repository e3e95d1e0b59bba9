package errors

import (
	"errors"
	"net/http"
	"testing"
)

func TestNew(t *testing.T) {
	err := New(CodeConflict, "booking already accepted", http.StatusBadRequest)

	if err.Code != CodeConflict {
		t.Errorf("expected code %s, got %s", CodeConflict, err.Code)
	}
	if err.Message != "booking already accepted" {
		t.Errorf("expected message 'booking already accepted', got %s", err.Message)
	}
	if err.HTTPStatus != http.StatusBadRequest {
		t.Errorf("expected status %d, got %d", http.StatusBadRequest, err.HTTPStatus)
	}
}

func TestAppError_Error(t *testing.T) {
	tests := []struct {
		name     string
		appErr   *AppError
		expected string
	}{
		{
			name: "without underlying error",
			appErr: &AppError{
				Code:    CodeNotFound,
				Message: "booking not found",
			},
			expected: "NOT_FOUND: booking not found",
		},
		{
			name: "with underlying error",
			appErr: &AppError{
				Code:    CodeInternal,
				Message: "failed to update booking",
				Err:     errors.New("connection reset"),
			},
			expected: "INTERNAL_ERROR: failed to update booking (caused by: connection reset)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.appErr.Error()
			if got != tt.expected {
				t.Errorf("Error() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestAppError_Unwrap(t *testing.T) {
	originalErr := errors.New("write conflict")
	appErr := Internal("transition failed", originalErr)

	if unwrapped := errors.Unwrap(appErr); unwrapped != originalErr {
		t.Errorf("Unwrap() should return the original error")
	}
}

func TestConstructorStatusCodes(t *testing.T) {
	tests := []struct {
		name       string
		err        *AppError
		wantCode   string
		wantStatus int
	}{
		{"not found", NotFound("Booking"), CodeNotFound, http.StatusNotFound},
		{"validation", Validation("bad input", nil), CodeValidation, http.StatusBadRequest},
		{"invalid input", InvalidInput("bad id"), CodeInvalidInput, http.StatusBadRequest},
		{"unauthorized", Unauthorized("missing token"), CodeUnauthorized, http.StatusUnauthorized},
		{"forbidden", Forbidden("not your booking"), CodeForbidden, http.StatusForbidden},
		{"conflict", Conflict("not pending"), CodeConflict, http.StatusBadRequest},
		{"internal", Internal("boom", errors.New("x")), CodeInternal, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.err.Code != tt.wantCode {
				t.Errorf("Code = %s, want %s", tt.err.Code, tt.wantCode)
			}
			if tt.err.StatusCode() != tt.wantStatus {
				t.Errorf("StatusCode() = %d, want %d", tt.err.StatusCode(), tt.wantStatus)
			}
		})
	}
}

func TestNotFoundWithID(t *testing.T) {
	err := NotFoundWithID("Booking", "abc123")

	if err.Details["resource"] != "Booking" {
		t.Errorf("expected resource detail 'Booking', got %v", err.Details["resource"])
	}
	if err.Details["id"] != "abc123" {
		t.Errorf("expected id detail 'abc123', got %v", err.Details["id"])
	}
}

func TestAsAppError(t *testing.T) {
	appErr := Forbidden("denied")
	if got := AsAppError(appErr); got != appErr {
		t.Error("AsAppError should return the same *AppError unchanged")
	}

	plain := errors.New("driver error")
	wrapped := AsAppError(plain)
	if wrapped.Code != CodeInternal {
		t.Errorf("expected plain errors to map to %s, got %s", CodeInternal, wrapped.Code)
	}
	if wrapped.HTTPStatus != http.StatusInternalServerError {
		t.Errorf("expected status 500, got %d", wrapped.HTTPStatus)
	}
	if !errors.Is(wrapped, plain) {
		t.Error("wrapped error should unwrap to the original")
	}
}
