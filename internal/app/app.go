package app

import (
	"net/http"

	crerr "github.com/cockroachdb/errors"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/uptrace/opentelemetry-go-extra/otelsql"
	"github.com/uptrace/opentelemetry-go-extra/otelsqlx"

	"github.com/fedegarcia/hockeyclub/internal/config"
	"github.com/fedegarcia/hockeyclub/internal/domain/division"
	"github.com/fedegarcia/hockeyclub/internal/infrastructure/repository/cache"
	"github.com/fedegarcia/hockeyclub/internal/infrastructure/repository/postgres"
	"github.com/fedegarcia/hockeyclub/internal/interfaces/httpapi"
	basecache "github.com/fedegarcia/hockeyclub/internal/platform/cache"
	idgen "github.com/fedegarcia/hockeyclub/internal/platform/id"
	"github.com/fedegarcia/hockeyclub/internal/platform/logging"
	"github.com/fedegarcia/hockeyclub/internal/platform/resilience"
	"github.com/fedegarcia/hockeyclub/internal/usecase"
)

// NewHTTPServer wires config, storage, usecases and the HTTP surface into a
// ready-to-run server. The returned *sqlx.DB must be closed by the caller on
// shutdown.
func NewHTTPServer(cfg config.Config, logger *logging.Logger) (*http.Server, *sqlx.DB, error) {
	if logger == nil {
		logger = logging.Default()
	}

	dbURL := normalizeDBURL(cfg.DBURL, cfg.DBDisablePreparedBinary)
	db, err := otelsqlx.Connect("postgres", dbURL,
		otelsql.WithDBName(dbNameFromURL(dbURL)),
		otelsql.WithQueryFormatter(formatDBQueryForTrace),
	)
	if err != nil {
		return nil, nil, crerr.Wrap(err, "connect database")
	}

	userRepo := postgres.NewUserRepository(db)
	tokenRepo := postgres.NewTokenRepository(db)
	teamRepo := postgres.NewTeamRepository(db)
	playerRepo := postgres.NewPlayerRepository(db)
	sessionRepo := postgres.NewSessionRepository(db)
	attendanceRepo := postgres.NewAttendanceRepository(db)
	formationRepo := postgres.NewFormationRepository(db)

	divisionRepo := newDivisionRepo(cfg, db)

	idGen := idgen.NewUUIDGenerator()

	authSvc := usecase.NewAuthService(userRepo, tokenRepo, usecase.AuthConfig{
		Secret:     cfg.JWTSecret,
		Issuer:     cfg.JWTIssuer,
		AccessTTL:  cfg.JWTAccessTTL,
		RefreshTTL: cfg.JWTRefreshTTL,
		BcryptCost: cfg.BcryptCost,
	}, idGen, logger)
	divisionSvc := usecase.NewDivisionService(divisionRepo)
	teamSvc := usecase.NewTeamService(teamRepo, playerRepo, divisionRepo, userRepo, idGen, logger)
	playerSvc := usecase.NewPlayerService(playerRepo, teamRepo, divisionRepo, idGen, logger)
	importSvc := usecase.NewRosterImportService(playerSvc, cfg.ImportMaxWorkers, cfg.ImportMaxRows, logger)
	trainingSvc := usecase.NewTrainingService(sessionRepo, attendanceRepo, teamRepo, playerRepo, idGen, logger)
	formationSvc := usecase.NewFormationService(formationRepo, teamRepo, playerRepo, idGen, logger)

	handler := httpapi.NewHandler(
		authSvc,
		divisionSvc,
		teamSvc,
		playerSvc,
		importSvc,
		trainingSvc,
		formationSvc,
		logger,
	)
	router := httpapi.NewRouter(handler, authSvc, logger, cfg.CORSAllowedOrigins)

	server := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	if server.Addr == "" {
		db.Close()
		return nil, nil, crerr.New("http server addr cannot be empty")
	}

	return server, db, nil
}

// newDivisionRepo layers the TTL cache (and optionally a circuit breaker)
// over the postgres division reads. Divisions are near-static, so a stale
// window of CacheTTL is acceptable.
func newDivisionRepo(cfg config.Config, db *sqlx.DB) division.Repository {
	base := postgres.NewDivisionRepository(db)
	if !cfg.CacheEnabled {
		return base
	}

	var breaker *resilience.CircuitBreaker
	if cfg.DBCircuitEnabled {
		breakerCfg := resilience.NormalizeCircuitBreakerConfig(resilience.CircuitBreakerConfig{
			Enabled:          true,
			FailureThreshold: cfg.DBCircuitFailureCount,
			OpenTimeout:      cfg.DBCircuitOpenTimeout,
			HalfOpenMaxReq:   cfg.DBCircuitHalfOpenMaxReq,
		})
		breaker = resilience.NewCircuitBreaker(
			breakerCfg.FailureThreshold,
			breakerCfg.OpenTimeout,
			breakerCfg.HalfOpenMaxReq,
		)
	}

	return cache.NewDivisionRepository(base, basecache.NewStore(cfg.CacheTTL), breaker)
}
