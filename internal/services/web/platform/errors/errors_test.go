package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/louisbranch/postdesk/internal/posts"
)

func TestHTTPStatusMapsKnownKinds(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want int
	}{
		{name: "nil", err: nil, want: http.StatusOK},
		{name: "invalid input", err: E(KindInvalidInput, "bad"), want: http.StatusBadRequest},
		{name: "unavailable", err: E(KindUnavailable, "down"), want: http.StatusServiceUnavailable},
		{name: "not found", err: E(KindNotFound, "missing"), want: http.StatusNotFound},
		{name: "method", err: E(KindMethod, "nope"), want: http.StatusMethodNotAllowed},
		{name: "unknown", err: E(KindUnknown, "boom"), want: http.StatusInternalServerError},
		{name: "wrapped", err: fmt.Errorf("render: %w", E(KindNotFound, "missing")), want: http.StatusNotFound},
	}
	for _, tc := range tests {
		if got := HTTPStatus(tc.err); got != tc.want {
			t.Fatalf("%s: status = %d, want %d", tc.name, got, tc.want)
		}
	}
}

func TestHTTPStatusMapsResourceFailures(t *testing.T) {
	t.Parallel()

	if got := HTTPStatus(posts.HTTPError(posts.OpListPosts, http.StatusTeapot)); got != http.StatusBadGateway {
		t.Fatalf("http failure status = %d, want %d", got, http.StatusBadGateway)
	}
	if got := HTTPStatus(posts.TransportError(posts.OpCreatePost, errors.New("dial"))); got != http.StatusBadGateway {
		t.Fatalf("transport failure status = %d, want %d", got, http.StatusBadGateway)
	}
	if got := HTTPStatus(posts.ValidationError(posts.OpCreatePost, "")); got != http.StatusBadRequest {
		t.Fatalf("validation status = %d, want %d", got, http.StatusBadRequest)
	}
}

func TestHTTPStatusDefaultsToInternalError(t *testing.T) {
	t.Parallel()

	if got := HTTPStatus(errors.New("boom")); got != http.StatusInternalServerError {
		t.Fatalf("status = %d, want %d", got, http.StatusInternalServerError)
	}
}

func TestErrorStringFallsBackToKindWhenMessageEmpty(t *testing.T) {
	t.Parallel()

	err := Error{Kind: KindNotFound}
	if got := err.Error(); got != string(KindNotFound) {
		t.Fatalf("Error() = %q, want %q", got, string(KindNotFound))
	}
}

func TestLocalizationKey(t *testing.T) {
	t.Parallel()

	if got := LocalizationKey(EK(KindNotFound, " core.error_not_found ", "missing")); got != "core.error_not_found" {
		t.Fatalf("LocalizationKey() = %q, want %q", got, "core.error_not_found")
	}
	if got := LocalizationKey(errors.New("plain")); got != "" {
		t.Fatalf("LocalizationKey(plain) = %q, want empty", got)
	}
	if got := LocalizationKey(nil); got != "" {
		t.Fatalf("LocalizationKey(nil) = %q, want empty", got)
	}
}
