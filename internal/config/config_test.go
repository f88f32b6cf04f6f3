package config

import (
	"testing"
	"time"
)

func TestLoad_AppEnvValidation(t *testing.T) {
	t.Setenv("APP_ENV", "invalid")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error for invalid APP_ENV")
	}
}

func TestLoad_JWTSecret(t *testing.T) {
	t.Run("required outside dev", func(t *testing.T) {
		t.Setenv("APP_ENV", EnvProd)
		t.Setenv("JWT_SECRET", "")

		if _, err := Load(); err == nil {
			t.Fatalf("expected error when JWT_SECRET is empty in prod")
		}
	})

	t.Run("dev falls back to a local secret", func(t *testing.T) {
		t.Setenv("APP_ENV", EnvDev)
		t.Setenv("JWT_SECRET", "")

		cfg, err := Load()
		if err != nil {
			t.Fatalf("load config: %v", err)
		}
		if cfg.JWTSecret == "" {
			t.Fatalf("expected a non-empty dev JWT secret")
		}
	})
}

func TestLoad_TokenTTLs(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("JWT_ACCESS_TTL", "30m")
	t.Setenv("JWT_REFRESH_TTL", "168h")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.JWTAccessTTL != 30*time.Minute {
		t.Fatalf("unexpected JWTAccessTTL: %s", cfg.JWTAccessTTL)
	}
	if cfg.JWTRefreshTTL != 168*time.Hour {
		t.Fatalf("unexpected JWTRefreshTTL: %s", cfg.JWTRefreshTTL)
	}
}

func TestLoad_RefreshTTLMustExceedAccessTTL(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("JWT_ACCESS_TTL", "2h")
	t.Setenv("JWT_REFRESH_TTL", "1h")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error when JWT_REFRESH_TTL <= JWT_ACCESS_TTL")
	}
}

func TestLoad_BcryptCostRange(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("BCRYPT_COST", "32")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error for BCRYPT_COST out of range")
	}
}

func TestLoad_ImportPoolParsing(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("IMPORT_MAX_WORKERS", "8")
	t.Setenv("IMPORT_MAX_ROWS", "100")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.ImportMaxWorkers != 8 {
		t.Fatalf("unexpected ImportMaxWorkers: %d", cfg.ImportMaxWorkers)
	}
	if cfg.ImportMaxRows != 100 {
		t.Fatalf("unexpected ImportMaxRows: %d", cfg.ImportMaxRows)
	}
}

func TestLoad_DBCircuitParsing(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		t.Setenv("APP_ENV", EnvDev)

		cfg, err := Load()
		if err != nil {
			t.Fatalf("load config: %v", err)
		}
		if !cfg.DBCircuitEnabled {
			t.Fatalf("expected DBCircuitEnabled=true by default")
		}
		if cfg.DBCircuitFailureCount != 5 {
			t.Fatalf("unexpected DBCircuitFailureCount: %d", cfg.DBCircuitFailureCount)
		}
		if cfg.DBCircuitOpenTimeout != 15*time.Second {
			t.Fatalf("unexpected DBCircuitOpenTimeout: %s", cfg.DBCircuitOpenTimeout)
		}
	})

	t.Run("rejects zero failure count", func(t *testing.T) {
		t.Setenv("APP_ENV", EnvDev)
		t.Setenv("DB_CIRCUIT_FAILURE_COUNT", "0")

		if _, err := Load(); err == nil {
			t.Fatalf("expected error for DB_CIRCUIT_FAILURE_COUNT=0")
		}
	})
}

func TestLoad_UptraceRequiresDSNWhenEnabled(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "true")
	t.Setenv("UPTRACE_DSN", "")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error when UPTRACE_ENABLED=true without UPTRACE_DSN")
	}
}

func TestLoad_UptraceDSNFromOTLPHeaders(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "true")
	t.Setenv("UPTRACE_DSN", "")
	t.Setenv("OTEL_EXPORTER_OTLP_HEADERS", `uptrace-dsn="https://token@api.uptrace.dev?grpc=4317"`)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.UptraceDSN != "https://token@api.uptrace.dev?grpc=4317" {
		t.Fatalf("unexpected UptraceDSN: %q", cfg.UptraceDSN)
	}
}

func TestLoad_PprofDefaultsAddrWhenEnabled(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("PPROF_ENABLED", "true")
	t.Setenv("PPROF_ADDR", "  ")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.PprofAddr != ":6060" {
		t.Fatalf("expected default pprof addr :6060, got %q", cfg.PprofAddr)
	}
}

func TestLoad_PyroscopeRequiresServerAddressWhenEnabled(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("PYROSCOPE_ENABLED", "true")
	t.Setenv("PYROSCOPE_SERVER_ADDRESS", "")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error when PYROSCOPE_ENABLED=true without PYROSCOPE_SERVER_ADDRESS")
	}
}

func TestLoad_PyroscopeAppNameDefaultsToServiceName(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("APP_SERVICE_NAME", "hockeyclub-api-test")
	t.Setenv("PYROSCOPE_ENABLED", "false")
	t.Setenv("PYROSCOPE_APP_NAME", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.PyroscopeAppName != "hockeyclub-api-test" {
		t.Fatalf("unexpected PyroscopeAppName: %q", cfg.PyroscopeAppName)
	}
}

func TestLoad_CORSAllowedOrigins(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://app.hockeyclub.ar, https://staging.hockeyclub.ar")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if len(cfg.CORSAllowedOrigins) != 2 {
		t.Fatalf("unexpected origins: %v", cfg.CORSAllowedOrigins)
	}
	if cfg.CORSAllowedOrigins[1] != "https://staging.hockeyclub.ar" {
		t.Fatalf("unexpected origin: %q", cfg.CORSAllowedOrigins[1])
	}
}

func TestLoad_LogLevelParsing(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("APP_LOG_LEVEL", "warn")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.LogLevel.String() != "warn" {
		t.Fatalf("unexpected LogLevel: %s", cfg.LogLevel.String())
	}
}
