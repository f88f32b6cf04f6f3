package usecase

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/fedegarcia/hockeyclub/internal/domain/plan"
	"github.com/fedegarcia/hockeyclub/internal/domain/user"
	idgen "github.com/fedegarcia/hockeyclub/internal/platform/id"
	"github.com/fedegarcia/hockeyclub/internal/platform/logging"
)

// AuthConfig carries the token and hashing knobs the auth service needs.
type AuthConfig struct {
	Secret     string
	Issuer     string
	AccessTTL  time.Duration
	RefreshTTL time.Duration
	BcryptCost int
}

type RegisterInput struct {
	Email    string
	Password string
	FullName string
}

type LoginInput struct {
	Email    string
	Password string
}

// TokenPair is what login and refresh hand back to the client.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
	ExpiresAt    time.Time
}

type AuthService struct {
	userRepo  user.Repository
	tokenRepo user.TokenRepository
	cfg       AuthConfig
	idGen     idgen.Generator
	logger    *logging.Logger
	now       func() time.Time
}

func NewAuthService(
	userRepo user.Repository,
	tokenRepo user.TokenRepository,
	cfg AuthConfig,
	idGen idgen.Generator,
	logger *logging.Logger,
) *AuthService {
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.BcryptCost < bcrypt.MinCost || cfg.BcryptCost > bcrypt.MaxCost {
		cfg.BcryptCost = bcrypt.DefaultCost
	}

	return &AuthService{
		userRepo:  userRepo,
		tokenRepo: tokenRepo,
		cfg:       cfg,
		idGen:     idGen,
		logger:    logger,
		now:       time.Now,
	}
}

type accessClaims struct {
	Email string `json:"email"`
	Role  string `json:"role"`
	Plan  string `json:"plan"`
	jwt.RegisteredClaims
}

func (s *AuthService) Register(ctx context.Context, input RegisterInput) (user.User, error) {
	ctx, span := startUsecaseSpan(ctx, "AuthService.Register")
	defer span.End()

	input.Email = strings.ToLower(strings.TrimSpace(input.Email))
	input.FullName = strings.TrimSpace(input.FullName)

	if input.Email == "" {
		return user.User{}, fmt.Errorf("%w: email is required", ErrInvalidInput)
	}
	if len(input.Password) < 8 {
		return user.User{}, fmt.Errorf("%w: la contraseña debe tener al menos 8 caracteres", ErrInvalidInput)
	}

	_, exists, err := s.userRepo.GetByEmail(ctx, input.Email)
	if err != nil {
		return user.User{}, fmt.Errorf("get user by email: %w", err)
	}
	if exists {
		return user.User{}, fmt.Errorf("%w: el email ya está registrado", ErrConflict)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), s.cfg.BcryptCost)
	if err != nil {
		return user.User{}, fmt.Errorf("hash password: %w", err)
	}

	now := s.now().UTC()
	item := user.User{
		ID:                 s.idGen.NewID(),
		Email:              input.Email,
		PasswordHash:       string(hash),
		FullName:           input.FullName,
		Role:               user.RoleCoach,
		Plan:               plan.PlanTwoTeams,
		SubscriptionStatus: plan.StatusActive,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
	if err := item.Validate(); err != nil {
		return user.User{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	if err := s.userRepo.Create(ctx, item); err != nil {
		if errors.Is(err, user.ErrEmailTaken) {
			return user.User{}, fmt.Errorf("%w: el email ya está registrado", ErrConflict)
		}
		return user.User{}, fmt.Errorf("create user: %w", err)
	}

	s.logger.InfoContext(ctx, "user registered", "user_id", item.ID)

	return item, nil
}

func (s *AuthService) Login(ctx context.Context, input LoginInput) (user.User, TokenPair, error) {
	ctx, span := startUsecaseSpan(ctx, "AuthService.Login")
	defer span.End()

	input.Email = strings.ToLower(strings.TrimSpace(input.Email))
	if input.Email == "" || input.Password == "" {
		return user.User{}, TokenPair{}, fmt.Errorf("%w: email and password are required", ErrInvalidInput)
	}

	account, exists, err := s.userRepo.GetByEmail(ctx, input.Email)
	if err != nil {
		return user.User{}, TokenPair{}, fmt.Errorf("get user by email: %w", err)
	}
	if !exists {
		return user.User{}, TokenPair{}, fmt.Errorf("%w: credenciales inválidas", ErrUnauthorized)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(input.Password)); err != nil {
		return user.User{}, TokenPair{}, fmt.Errorf("%w: credenciales inválidas", ErrUnauthorized)
	}

	pair, err := s.issueTokens(ctx, account)
	if err != nil {
		return user.User{}, TokenPair{}, err
	}

	s.logger.InfoContext(ctx, "user logged in", "user_id", account.ID)

	return account, pair, nil
}

func (s *AuthService) Refresh(ctx context.Context, rawRefreshToken string) (TokenPair, error) {
	ctx, span := startUsecaseSpan(ctx, "AuthService.Refresh")
	defer span.End()

	rawRefreshToken = strings.TrimSpace(rawRefreshToken)
	if rawRefreshToken == "" {
		return TokenPair{}, fmt.Errorf("%w: refresh token is required", ErrInvalidInput)
	}

	tokenHash := hashToken(rawRefreshToken)
	stored, exists, err := s.tokenRepo.GetRefreshToken(ctx, tokenHash)
	if err != nil {
		return TokenPair{}, fmt.Errorf("get refresh token: %w", err)
	}
	if !exists || !stored.Active(s.now().UTC()) {
		return TokenPair{}, fmt.Errorf("%w: refresh token is expired or revoked", ErrUnauthorized)
	}

	account, found, err := s.userRepo.GetByID(ctx, stored.UserID)
	if err != nil {
		return TokenPair{}, fmt.Errorf("get user: %w", err)
	}
	if !found {
		return TokenPair{}, fmt.Errorf("%w: user no longer exists", ErrUnauthorized)
	}

	// Rotation: the presented token dies with the exchange.
	if err := s.tokenRepo.RevokeRefreshToken(ctx, tokenHash); err != nil {
		return TokenPair{}, fmt.Errorf("revoke refresh token: %w", err)
	}

	return s.issueTokens(ctx, account)
}

func (s *AuthService) Logout(ctx context.Context, principal user.Principal, rawRefreshToken string) error {
	ctx, span := startUsecaseSpan(ctx, "AuthService.Logout")
	defer span.End()

	if rawRefreshToken = strings.TrimSpace(rawRefreshToken); rawRefreshToken != "" {
		if err := s.tokenRepo.RevokeRefreshToken(ctx, hashToken(rawRefreshToken)); err != nil {
			return fmt.Errorf("revoke refresh token: %w", err)
		}
	}

	expiresAt := principal.ExpiresAt
	if expiresAt.IsZero() {
		expiresAt = s.now().UTC().Add(s.cfg.AccessTTL)
	}
	if err := s.tokenRepo.RevokeAccessToken(ctx, user.RevokedAccessToken{
		JTI:       principal.JTI,
		UserID:    principal.UserID,
		ExpiresAt: expiresAt,
	}); err != nil {
		return fmt.Errorf("revoke access token: %w", err)
	}

	s.logger.InfoContext(ctx, "user logged out", "user_id", principal.UserID)

	return nil
}

// VerifyAccessToken parses and validates a bearer token, rejecting revoked
// jtis via the shared denylist.
func (s *AuthService) VerifyAccessToken(ctx context.Context, rawToken string) (user.Principal, error) {
	claims := &accessClaims{}
	token, err := jwt.ParseWithClaims(rawToken, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(s.cfg.Secret), nil
	}, jwt.WithIssuer(s.cfg.Issuer), jwt.WithExpirationRequired(), jwt.WithTimeFunc(func() time.Time {
		return s.now().UTC()
	}))
	if err != nil || !token.Valid {
		return user.Principal{}, fmt.Errorf("%w: invalid access token", ErrUnauthorized)
	}

	revoked, err := s.tokenRepo.IsAccessTokenRevoked(ctx, claims.ID)
	if err != nil {
		return user.Principal{}, fmt.Errorf("check token revocation: %w", err)
	}
	if revoked {
		return user.Principal{}, fmt.Errorf("%w: access token is revoked", ErrUnauthorized)
	}

	var expiresAt time.Time
	if claims.ExpiresAt != nil {
		expiresAt = claims.ExpiresAt.Time
	}

	return user.Principal{
		UserID:    claims.Subject,
		Email:     claims.Email,
		Role:      user.Role(claims.Role),
		Plan:      plan.Plan(claims.Plan),
		JTI:       claims.ID,
		ExpiresAt: expiresAt,
	}, nil
}

// Profile backs GET /v1/me.
func (s *AuthService) Profile(ctx context.Context, userID string) (user.User, error) {
	account, exists, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return user.User{}, fmt.Errorf("get user: %w", err)
	}
	if !exists {
		return user.User{}, fmt.Errorf("%w: user=%s", ErrNotFound, userID)
	}

	return account, nil
}

func (s *AuthService) issueTokens(ctx context.Context, account user.User) (TokenPair, error) {
	now := s.now().UTC()
	expiresAt := now.Add(s.cfg.AccessTTL)

	claims := accessClaims{
		Email: account.Email,
		Role:  string(account.Role),
		Plan:  string(account.Plan),
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        s.idGen.NewID(),
			Subject:   account.ID,
			Issuer:    s.cfg.Issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	accessToken, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.cfg.Secret))
	if err != nil {
		return TokenPair{}, fmt.Errorf("sign access token: %w", err)
	}

	rawRefresh := s.idGen.NewID() + "." + s.idGen.NewID()
	if err := s.tokenRepo.SaveRefreshToken(ctx, user.RefreshToken{
		UserID:    account.ID,
		TokenHash: hashToken(rawRefresh),
		ExpiresAt: now.Add(s.cfg.RefreshTTL),
	}); err != nil {
		return TokenPair{}, fmt.Errorf("save refresh token: %w", err)
	}

	return TokenPair{
		AccessToken:  accessToken,
		RefreshToken: rawRefresh,
		ExpiresAt:    expiresAt,
	}, nil
}

func hashToken(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}
