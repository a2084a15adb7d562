package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"testing"
)

func TestErrorIsMatchesByCode(t *testing.T) {
	err := New(CodeTimerAlreadyRunning, "timer is already running")
	target := New(CodeTimerAlreadyRunning, "different message")

	if !stderrors.Is(err, target) {
		t.Fatal("expected errors with the same code to match")
	}

	other := New(CodeNotFound, "record not found")
	if stderrors.Is(err, other) {
		t.Fatal("expected errors with different codes not to match")
	}
}

func TestWrapPreservesCause(t *testing.T) {
	cause := fmt.Errorf("disk full")
	err := Wrap(CodeUnknown, "persist entry", cause)

	if !stderrors.Is(err, cause) {
		t.Fatal("expected wrapped cause to be reachable via errors.Is")
	}
	if err.Error() != "persist entry" {
		t.Fatalf("Error() = %q, want internal message", err.Error())
	}
}

func TestHTTPStatus(t *testing.T) {
	cases := []struct {
		code Code
		want int
	}{
		{CodeProjectInvalidBudget, http.StatusBadRequest},
		{CodeUnauthenticated, http.StatusUnauthorized},
		{CodeSessionExpired, http.StatusUnauthorized},
		{CodePermissionDenied, http.StatusForbidden},
		{CodeNotFound, http.StatusNotFound},
		{CodeTimerAlreadyRunning, http.StatusConflict},
		{CodeInviteTokenExpired, http.StatusConflict},
		{CodeUnknown, http.StatusInternalServerError},
	}

	for _, tc := range cases {
		if got := tc.code.HTTPStatus(); got != tc.want {
			t.Errorf("HTTPStatus(%s) = %d, want %d", tc.code, got, tc.want)
		}
	}
}
