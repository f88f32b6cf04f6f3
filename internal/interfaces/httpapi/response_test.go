package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	sonic "github.com/bytedance/sonic"

	"github.com/fedegarcia/hockeyclub/internal/usecase"
)

func TestWriteSuccess_Envelope(t *testing.T) {
	rec := httptest.NewRecorder()
	writeSuccess(context.Background(), rec, http.StatusOK, map[string]string{"status": "ok"})

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}

	var body map[string]any
	if err := sonic.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal response body: %v", err)
	}

	if got, _ := body["success"].(bool); !got {
		t.Fatalf("expected success=true, got %v", body["success"])
	}
	if _, ok := body["data"]; !ok {
		t.Fatalf("expected data key in success response")
	}
	if _, ok := body["errors"]; ok {
		t.Fatalf("did not expect errors key in success response")
	}
}

func TestWriteError_Envelope(t *testing.T) {
	rec := httptest.NewRecorder()
	writeError(context.Background(), rec, fmt.Errorf("%w: bad payload", usecase.ErrInvalidInput))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", rec.Code)
	}

	var body map[string]any
	if err := sonic.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal response body: %v", err)
	}

	if got, _ := body["success"].(bool); got {
		t.Fatalf("expected success=false, got %v", body["success"])
	}
	items, ok := body["errors"].([]any)
	if !ok || len(items) != 1 {
		t.Fatalf("expected one error item, got %v", body["errors"])
	}
	item, _ := items[0].(map[string]any)
	if got, _ := item["reason"].(string); got != "invalidInput" {
		t.Fatalf("expected reason invalidInput, got %v", item["reason"])
	}
}

func TestMapError_SentinelStatuses(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		reason string
	}{
		{name: "invalid input", err: usecase.ErrInvalidInput, status: http.StatusBadRequest, reason: "invalidInput"},
		{name: "not found", err: usecase.ErrNotFound, status: http.StatusNotFound, reason: "notFound"},
		{name: "unauthorized", err: usecase.ErrUnauthorized, status: http.StatusUnauthorized, reason: "unauthorized"},
		{name: "forbidden", err: usecase.ErrForbidden, status: http.StatusForbidden, reason: "forbidden"},
		{name: "conflict", err: usecase.ErrConflict, status: http.StatusConflict, reason: "conflict"},
		{name: "dependency unavailable", err: usecase.ErrDependencyUnavailable, status: http.StatusServiceUnavailable, reason: "dependencyUnavailable"},
		{name: "unknown", err: fmt.Errorf("boom"), status: http.StatusInternalServerError, reason: "internalError"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mapped := mapError(context.Background(), fmt.Errorf("wrapped: %w", tt.err))
			if mapped.HTTPStatus != tt.status {
				t.Fatalf("expected status %d, got %d", tt.status, mapped.HTTPStatus)
			}
			if mapped.Reason != tt.reason {
				t.Fatalf("expected reason %q, got %q", tt.reason, mapped.Reason)
			}
		})
	}
}
