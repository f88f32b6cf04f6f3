package observability

import (
	"context"
	"testing"

	"github.com/fedegarcia/hockeyclub/internal/config"
	"github.com/fedegarcia/hockeyclub/internal/platform/logging"
)

func TestInitUptrace_Disabled(t *testing.T) {
	cfg := config.Config{
		UptraceEnabled: false,
		ServiceName:    "hockeyclub-api",
		ServiceVersion: "dev",
		AppEnv:         config.EnvDev,
	}

	shutdown, err := InitUptrace(cfg, logging.NewNop())
	if err != nil {
		t.Fatalf("init uptrace: %v", err)
	}
	if err := shutdown(context.Background()); err != nil {
		t.Fatalf("shutdown uptrace: %v", err)
	}
}

func TestUptraceLogMirror_SkipsHealthProbes(t *testing.T) {
	if !shouldSkipUptraceLog("http_request", []any{"http_path", "/healthz"}) {
		t.Fatalf("expected health probe request log to be skipped")
	}
	if shouldSkipUptraceLog("http_request", []any{"http_path", "/v1/teams"}) {
		t.Fatalf("expected regular request log to be forwarded")
	}
	if shouldSkipUptraceLog("db connected", nil) {
		t.Fatalf("expected non-request log to be forwarded")
	}
}
