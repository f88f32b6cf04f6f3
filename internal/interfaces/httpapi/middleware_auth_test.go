package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/fedegarcia/hockeyclub/internal/domain/user"
	"github.com/fedegarcia/hockeyclub/internal/usecase"
)

type fakeVerifier struct {
	principal user.Principal
	err       error
}

func (f fakeVerifier) VerifyAccessToken(_ context.Context, _ string) (user.Principal, error) {
	return f.principal, f.err
}

func TestRequireAuth_MissingHeader(t *testing.T) {
	handler := RequireAuth(fakeVerifier{}, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/v1/teams", nil)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected status 401, got %d", rec.Code)
	}
}

func TestRequireAuth_BadScheme(t *testing.T) {
	handler := RequireAuth(fakeVerifier{}, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/v1/teams", nil)
	req.Header.Set("Authorization", "Basic abc123")
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected status 401, got %d", rec.Code)
	}
}

func TestRequireAuth_RejectedToken(t *testing.T) {
	verifier := fakeVerifier{err: fmt.Errorf("%w: token revoked", usecase.ErrUnauthorized)}
	handler := RequireAuth(verifier, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/v1/teams", nil)
	req.Header.Set("Authorization", "Bearer some-token")
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected status 401, got %d", rec.Code)
	}
}

func TestRequireAuth_AttachesPrincipal(t *testing.T) {
	verifier := fakeVerifier{principal: user.Principal{UserID: "user-1", Email: "coach@hockeyclub.ar"}}

	var got user.Principal
	var ok bool
	handler := RequireAuth(verifier, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, ok = principalFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/v1/teams", nil)
	req.Header.Set("Authorization", "Bearer some-token")
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	if !ok || got.UserID != "user-1" {
		t.Fatalf("expected principal user-1 in context, got %+v (ok=%v)", got, ok)
	}
}
