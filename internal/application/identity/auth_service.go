package identity

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopfront/backend/internal/domain/identity"
	"github.com/shopfront/backend/internal/domain/shared"
	"github.com/shopfront/backend/internal/domain/shared/valueobject"
	"github.com/shopfront/backend/internal/infrastructure/auth"
	"go.uber.org/zap"
)

// Authentication errors. Credential failures share one message so a
// caller cannot tell an unknown email from a wrong password.
var (
	ErrInvalidCredentials = shared.NewDomainError("INVALID_CREDENTIALS", "Invalid email or password")
	ErrAccountLocked      = shared.NewDomainError("ACCOUNT_LOCKED", "Too many failed login attempts. Try again later")
)

// AuthServiceConfig holds configuration for the auth service
type AuthServiceConfig struct {
	MaxLoginAttempts int
	LockDuration     time.Duration
}

// DefaultAuthServiceConfig returns default configuration
func DefaultAuthServiceConfig() AuthServiceConfig {
	return AuthServiceConfig{
		MaxLoginAttempts: 5,
		LockDuration:     15 * time.Minute,
	}
}

// BootstrapAdmin is the account created on an empty installation
type BootstrapAdmin struct {
	Email    string
	Name     string
	Password string
}

// AuthService handles admin authentication
type AuthService struct {
	userRepo   identity.AdminUserRepository
	jwtService *auth.JWTService
	revoked    auth.RevocationList
	config     AuthServiceConfig
	logger     *zap.Logger
	now        func() time.Time
}

// NewAuthService creates a new AuthService
func NewAuthService(
	userRepo identity.AdminUserRepository,
	jwtService *auth.JWTService,
	revoked auth.RevocationList,
	config AuthServiceConfig,
	logger *zap.Logger,
) *AuthService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthService{
		userRepo:   userRepo,
		jwtService: jwtService,
		revoked:    revoked,
		config:     config,
		logger:     logger,
		now:        time.Now,
	}
}

// WithClock overrides the time source used for lockouts
func (s *AuthService) WithClock(now func() time.Time) *AuthService {
	s.now = now
	return s
}

// Login authenticates an admin and issues a token pair
func (s *AuthService) Login(ctx context.Context, req LoginRequest) (*TokenResponse, error) {
	email := valueobject.NormalizeEmail(req.Email)
	now := s.now()

	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			s.logger.Warn("Login attempt for unknown admin", zap.String("email", email))
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if user.IsLocked(now) {
		s.logger.Warn("Login attempt for locked admin", zap.String("email", email))
		return nil, ErrAccountLocked
	}
	if !user.CanLogin(now) {
		s.logger.Warn("Login attempt for inactive admin", zap.String("email", email))
		return nil, ErrInvalidCredentials
	}

	if !user.VerifyPassword(req.Password) {
		locked := user.RecordLoginFailure(now, s.config.MaxLoginAttempts, s.config.LockDuration)
		if err := s.userRepo.Save(ctx, user); err != nil {
			s.logger.Error("Failed to record login failure", zap.Error(err))
		}
		if locked {
			s.logger.Warn("Admin locked after too many failed attempts",
				zap.String("email", email),
				zap.Int("attempts", s.config.MaxLoginAttempts))
			return nil, ErrAccountLocked
		}
		s.logger.Warn("Invalid password attempt",
			zap.String("email", email),
			zap.Int("failed_attempts", user.FailedAttempts))
		return nil, ErrInvalidCredentials
	}

	pair, err := s.jwtService.GenerateTokenPair(auth.GenerateTokenInput{UserID: user.ID, Email: user.Email})
	if err != nil {
		s.logger.Error("Failed to generate token pair", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to generate authentication tokens")
	}

	user.RecordLoginSuccess(now)
	if err := s.userRepo.Save(ctx, user); err != nil {
		s.logger.Error("Failed to record successful login", zap.Error(err))
	}

	s.logger.Info("Admin logged in",
		zap.String("email", email),
		zap.String("user_id", user.ID.String()))

	return toTokenResponse(pair, user), nil
}

// Refresh exchanges a refresh token for a new pair. The account must
// still be allowed to sign in.
func (s *AuthService) Refresh(ctx context.Context, req RefreshRequest) (*TokenResponse, error) {
	claims, err := s.jwtService.ValidateRefreshToken(req.RefreshToken)
	if err != nil {
		return nil, mapTokenError(err)
	}
	userID, err := claims.GetUserUUID()
	if err != nil {
		return nil, mapTokenError(auth.ErrInvalidClaims)
	}

	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("TOKEN_INVALID", "Invalid refresh token")
		}
		return nil, err
	}
	if !user.CanLogin(s.now()) {
		return nil, shared.NewDomainError("TOKEN_INVALID", "Account can no longer sign in")
	}

	pair, _, err := s.jwtService.RefreshTokenPair(req.RefreshToken)
	if err != nil {
		return nil, mapTokenError(err)
	}

	s.logger.Info("Admin token refreshed", zap.String("user_id", userID.String()))
	return toTokenResponse(pair, user), nil
}

// Logout revokes the access token identified by claims for the rest of its
// lifetime
func (s *AuthService) Logout(ctx context.Context, claims *auth.Claims) error {
	if s.revoked == nil || claims == nil || claims.ID == "" {
		return nil
	}
	if err := s.revoked.Revoke(ctx, claims.ID, claims.GetRemainingTTL(s.now())); err != nil {
		s.logger.Error("Failed to revoke token", zap.Error(err))
		return err
	}
	s.logger.Info("Admin logged out", zap.String("user_id", claims.UserID))
	return nil
}

// Me returns the signed-in admin
func (s *AuthService) Me(ctx context.Context, userID uuid.UUID) (*AdminUserResponse, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	resp := ToAdminUserResponse(user)
	return &resp, nil
}

// ChangePassword replaces the password after checking the current one
func (s *AuthService) ChangePassword(ctx context.Context, userID uuid.UUID, req ChangePasswordRequest) error {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return err
	}
	if !user.VerifyPassword(req.CurrentPassword) {
		return shared.NewDomainError("INVALID_PASSWORD", "Current password is incorrect")
	}
	if err := user.SetPassword(req.NewPassword); err != nil {
		return err
	}
	if err := s.userRepo.Save(ctx, user); err != nil {
		return err
	}
	s.logger.Info("Admin password changed", zap.String("user_id", userID.String()))
	return nil
}

// EnsureBootstrapAdmin creates the configured admin when no admin exists.
// It returns true when an account was created.
func (s *AuthService) EnsureBootstrapAdmin(ctx context.Context, admin BootstrapAdmin) (bool, error) {
	count, err := s.userRepo.Count(ctx)
	if err != nil {
		return false, err
	}
	if count > 0 {
		return false, nil
	}
	if strings.TrimSpace(admin.Email) == "" || admin.Password == "" {
		s.logger.Warn("No admin account exists and no bootstrap admin is configured")
		return false, nil
	}

	user, err := identity.NewAdminUser(admin.Email, admin.Name, admin.Password)
	if err != nil {
		return false, err
	}
	if err := s.userRepo.Save(ctx, user); err != nil {
		return false, err
	}

	s.logger.Info("Bootstrap admin created", zap.String("email", user.Email))
	return true, nil
}

// mapTokenError converts token validation errors to domain errors
func mapTokenError(err error) error {
	switch {
	case errors.Is(err, auth.ErrExpiredToken):
		return shared.NewDomainError("TOKEN_EXPIRED", "Refresh token has expired")
	case errors.Is(err, auth.ErrMaxRefreshExceeded):
		return shared.NewDomainError("TOKEN_MAX_REFRESH", "Maximum token refresh limit reached. Please login again")
	default:
		return shared.NewDomainError("TOKEN_INVALID", "Invalid refresh token")
	}
}
