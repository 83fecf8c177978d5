package errors

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"testing"
)

func TestHTTPStatusMapsKnownKinds(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want int
	}{
		{name: "nil", err: nil, want: http.StatusOK},
		{name: "bad request", err: BadRequest("invalid UUID"), want: http.StatusBadRequest},
		{name: "not found", err: NotFound("user not found"), want: http.StatusNotFound},
		{name: "internal", err: Internal("boom", nil), want: http.StatusInternalServerError},
		{name: "untyped", err: errors.New("boom"), want: http.StatusInternalServerError},
		{name: "wrapped", err: fmt.Errorf("get user: %w", NotFound("user not found")), want: http.StatusNotFound},
		{name: "unknown kind", err: Error{Kind: Kind("teapot")}, want: http.StatusInternalServerError},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := HTTPStatus(tc.err); got != tc.want {
				t.Fatalf("HTTPStatus() = %d, want %d", got, tc.want)
			}
		})
	}
}

func TestPublicMessage(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want string
	}{
		{name: "nil", err: nil, want: ""},
		{name: "bad request", err: BadRequest("name and email are required"), want: "bad request: name and email are required"},
		{name: "bad request without message", err: BadRequest(""), want: "bad request"},
		{name: "not found", err: NotFound("user not found"), want: "user not found"},
		{name: "not found without message", err: NotFound(""), want: "not found"},
		{name: "internal hides cause", err: Internal("generate id", errors.New("entropy exhausted")), want: "internal server error"},
		{name: "untyped", err: errors.New("db password leaked"), want: "internal server error"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := PublicMessage(tc.err); got != tc.want {
				t.Fatalf("PublicMessage() = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestErrorStringFallsBackToKindWhenMessageEmpty(t *testing.T) {
	t.Parallel()

	err := Error{Kind: KindNotFound}
	if got := err.Error(); got != string(KindNotFound) {
		t.Fatalf("Error() = %q, want %q", got, string(KindNotFound))
	}
}

func TestInternalUnwrapsCause(t *testing.T) {
	t.Parallel()

	cause := errors.New("entropy exhausted")
	err := Internal("generate id", cause)
	if !errors.Is(err, cause) {
		t.Fatal("expected internal error to unwrap to its cause")
	}
	if !strings.Contains(err.Error(), "entropy exhausted") {
		t.Fatalf("Error() = %q, want cause included", err.Error())
	}
}

func TestKindOf(t *testing.T) {
	t.Parallel()

	if got := KindOf(nil); got != "" {
		t.Fatalf("KindOf(nil) = %q, want empty", got)
	}
	if got := KindOf(errors.New("boom")); got != KindInternal {
		t.Fatalf("KindOf(untyped) = %q, want %q", got, KindInternal)
	}
	if got := KindOf(BadRequest("x")); got != KindInvalidInput {
		t.Fatalf("KindOf(BadRequest) = %q, want %q", got, KindInvalidInput)
	}
}
