package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/gatherly/identity/internal/auth"
	"github.com/gatherly/identity/internal/domain"
	"github.com/gatherly/identity/internal/repository"
	apperrors "github.com/gatherly/identity/pkg/errors"
)

// minPasswordLength is the minimum password length required.
const minPasswordLength = 8

// Prefixes for generated identifiers.
const (
	userIDPrefix         = "usr_"
	refreshTokenIDPrefix = "urt_"
)

// AuthService implements the business logic for registration, login, and the
// refresh token lifecycle.
type AuthService struct {
	userRepo  repository.UserRepository
	tokenRepo repository.RefreshTokenRepository
	tokens    *auth.TokenManager
	// refreshTTL is the lifetime of newly issued refresh tokens.
	refreshTTL time.Duration
	logger     *slog.Logger
}

// NewAuthService creates a new auth service.
func NewAuthService(
	userRepo repository.UserRepository,
	tokenRepo repository.RefreshTokenRepository,
	tokens *auth.TokenManager,
	refreshTTL time.Duration,
	logger *slog.Logger,
) *AuthService {
	return &AuthService{
		userRepo:   userRepo,
		tokenRepo:  tokenRepo,
		tokens:     tokens,
		refreshTTL: refreshTTL,
		logger:     logger,
	}
}

// --- Input types ---

// RegisterInput holds the parameters for registering a new user.
type RegisterInput struct {
	Email       string
	Password    string
	DisplayName *string
}

// LoginInput holds the parameters for user login.
type LoginInput struct {
	Email    string
	Password string
}

// --- Operations ---

// Register creates a new user account, hashes the password, and returns the
// user together with a fresh token pair.
func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*domain.User, *domain.TokenPair, error) {
	email := normalizeEmail(input.Email)
	if email == "" {
		return nil, nil, apperrors.InvalidInput("email is required")
	}
	if len(input.Password) < minPasswordLength {
		return nil, nil, apperrors.InvalidInput(auth.PasswordStrengthHint)
	}

	passwordHash, err := auth.HashPassword(input.Password)
	if err != nil {
		return nil, nil, fmt.Errorf("hash password: %w", err)
	}

	now := time.Now().UTC()
	user := &domain.User{
		ID:           userIDPrefix + uuid.New().String(),
		Email:        email,
		DisplayName:  normalizeDisplayName(input.DisplayName),
		PasswordHash: passwordHash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, apperrors.ErrAlreadyExists) {
			return nil, nil, err
		}
		return nil, nil, fmt.Errorf("create user: %w", err)
	}

	tokens, err := s.issueTokens(ctx, user)
	if err != nil {
		return nil, nil, fmt.Errorf("issue tokens: %w", err)
	}

	s.logger.InfoContext(ctx, "user registered",
		slog.String("user_id", user.ID),
		slog.String("email", user.Email),
	)

	return user, tokens, nil
}

// Login authenticates a user with email and password, returning the user and
// a fresh token pair. Unknown email and wrong password produce the same
// unauthorized error.
func (s *AuthService) Login(ctx context.Context, input LoginInput) (*domain.User, *domain.TokenPair, error) {
	email := normalizeEmail(input.Email)
	if email == "" {
		return nil, nil, apperrors.InvalidInput("email is required")
	}
	if input.Password == "" {
		return nil, nil, apperrors.InvalidInput("password is required")
	}

	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, nil, apperrors.Unauthorized("invalid email or password")
		}
		return nil, nil, fmt.Errorf("get user by email: %w", err)
	}

	if !auth.VerifyPassword(input.Password, user.PasswordHash) {
		return nil, nil, apperrors.Unauthorized("invalid email or password")
	}

	// Transparently re-hash when the stored record predates the current
	// parameters. Login succeeds even if the upgrade write fails.
	if upgraded, err := auth.UpgradeHashIfNeeded(input.Password, user.PasswordHash); err == nil && upgraded != user.PasswordHash {
		if err := s.userRepo.UpdatePasswordHash(ctx, user.ID, upgraded); err != nil {
			s.logger.ErrorContext(ctx, "failed to persist upgraded password hash",
				slog.String("user_id", user.ID),
				slog.String("error", err.Error()),
			)
		} else {
			user.PasswordHash = upgraded
		}
	}

	tokens, err := s.issueTokens(ctx, user)
	if err != nil {
		return nil, nil, fmt.Errorf("issue tokens: %w", err)
	}

	s.logger.InfoContext(ctx, "user logged in",
		slog.String("user_id", user.ID),
		slog.String("email", user.Email),
	)

	return user, tokens, nil
}

// Refresh rotates a refresh token: the presented token is revoked and a new
// pair is issued in its place. A token that is unknown, revoked, expired, or
// already consumed by a concurrent refresh yields the same unauthorized error.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*domain.TokenPair, error) {
	if refreshToken == "" {
		return nil, apperrors.Unauthorized("refresh token is required")
	}

	stored, err := s.tokenRepo.GetByHash(ctx, auth.HashRefreshToken(refreshToken))
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.Unauthorized("invalid refresh token")
		}
		return nil, fmt.Errorf("get refresh token: %w", err)
	}

	if stored.Revoked() {
		return nil, apperrors.Unauthorized("refresh token has been revoked")
	}

	if time.Now().UTC().After(stored.ExpiresAt) {
		s.revokeBestEffort(ctx, stored.ID)
		return nil, apperrors.Unauthorized("refresh token has expired")
	}

	user, err := s.userRepo.GetByID(ctx, stored.UserID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			s.revokeBestEffort(ctx, stored.ID)
			return nil, apperrors.Unauthorized("invalid refresh token")
		}
		return nil, fmt.Errorf("get user for token refresh: %w", err)
	}

	// Consume the old token first. The conditional update in the repository
	// guarantees exactly one concurrent refresh wins; the losers land here
	// with ErrNotFound and are rejected without issuing anything.
	if err := s.tokenRepo.Revoke(ctx, stored.ID); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.Unauthorized("refresh token has been revoked")
		}
		return nil, fmt.Errorf("revoke refresh token: %w", err)
	}

	tokens, err := s.issueTokens(ctx, user)
	if err != nil {
		return nil, fmt.Errorf("issue tokens: %w", err)
	}

	s.logger.InfoContext(ctx, "tokens refreshed",
		slog.String("user_id", user.ID),
	)

	return tokens, nil
}

// Logout revokes the presented refresh token. It is idempotent: an unknown or
// already revoked token is not an error, so repeated logouts and logouts with
// stale cookies all succeed.
func (s *AuthService) Logout(ctx context.Context, refreshToken string) error {
	if refreshToken == "" {
		return nil
	}

	stored, err := s.tokenRepo.GetByHash(ctx, auth.HashRefreshToken(refreshToken))
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil
		}
		return fmt.Errorf("get refresh token: %w", err)
	}

	if err := s.tokenRepo.Revoke(ctx, stored.ID); err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		return fmt.Errorf("revoke refresh token: %w", err)
	}

	s.logger.InfoContext(ctx, "user logged out",
		slog.String("user_id", stored.UserID),
	)

	return nil
}

// Authenticate verifies an access token and returns the identity it proves.
// Every verification failure collapses to a single unauthorized error; the
// precise cause is logged, never returned.
func (s *AuthService) Authenticate(ctx context.Context, accessToken string) (*domain.AuthUser, error) {
	claims, err := s.tokens.Verify(accessToken)
	if err != nil {
		s.logger.DebugContext(ctx, "access token rejected",
			slog.String("reason", err.Error()),
		)
		return nil, apperrors.Unauthorized("invalid or expired token")
	}

	return &domain.AuthUser{
		ID:          claims.Subject,
		Email:       claims.Email,
		DisplayName: claims.DisplayName,
	}, nil
}

// GetUser retrieves a user by their ID.
func (s *AuthService) GetUser(ctx context.Context, id string) (*domain.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.NotFound("user", id)
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return user, nil
}

// issueTokens signs an access token and mints a refresh token for the user,
// persisting only the refresh token's hash.
func (s *AuthService) issueTokens(ctx context.Context, user *domain.User) (*domain.TokenPair, error) {
	accessToken, claims, err := s.tokens.Sign(user.ID, user.Email, user.DisplayName)
	if err != nil {
		return nil, err
	}

	refresh, err := auth.NewRefreshToken(s.refreshTTL)
	if err != nil {
		return nil, err
	}

	record := &domain.RefreshToken{
		ID:        refreshTokenIDPrefix + uuid.New().String(),
		UserID:    user.ID,
		TokenHash: refresh.Hash,
		ExpiresAt: refresh.ExpiresAt,
		CreatedAt: time.Now().UTC(),
	}

	if err := s.tokenRepo.Create(ctx, record); err != nil {
		return nil, fmt.Errorf("store refresh token: %w", err)
	}

	return &domain.TokenPair{
		AccessToken:           accessToken,
		RefreshToken:          refresh.Plaintext,
		AccessTokenExpiresAt:  claims.ExpiresAt.Time,
		RefreshTokenExpiresAt: refresh.ExpiresAt,
	}, nil
}

// revokeBestEffort revokes a token without surfacing failures; used when the
// token is being rejected anyway and revocation is only cleanup.
func (s *AuthService) revokeBestEffort(ctx context.Context, id string) {
	if err := s.tokenRepo.Revoke(ctx, id); err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		s.logger.ErrorContext(ctx, "failed to revoke refresh token",
			slog.String("token_id", id),
			slog.String("error", err.Error()),
		)
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// normalizeDisplayName trims whitespace and collapses empty names to nil.
func normalizeDisplayName(name *string) *string {
	if name == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*name)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
