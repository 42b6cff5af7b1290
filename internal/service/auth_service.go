package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"cartify/internal/auth"
	apperrors "cartify/internal/errors"
	"cartify/internal/metrics"
	"cartify/internal/model"
	"cartify/internal/repository"
)

// DefaultBcryptCost is the work factor used when none is configured.
const DefaultBcryptCost = 10

// AuthService handles registration, login and the refresh token lifecycle.
type AuthService interface {
	Register(ctx context.Context, username, email, password string) (*model.User, *auth.TokenPair, error)
	Login(ctx context.Context, email, password string) (*model.User, *auth.TokenPair, error)
	Refresh(ctx context.Context, refreshToken string) (*auth.TokenPair, error)
	Logout(ctx context.Context, userID uuid.UUID, accessTokenID string, accessExpiresAt time.Time) error
}

type authService struct {
	userRepo   repository.UserRepository
	jwtService *auth.JWTService
	tokenStore auth.TokenStoreInterface
	bcryptCost int
}

// NewAuthService creates a new authentication service.
func NewAuthService(userRepo repository.UserRepository, jwtService *auth.JWTService, tokenStore auth.TokenStoreInterface, bcryptCost int) AuthService {
	if bcryptCost < bcrypt.MinCost {
		bcryptCost = DefaultBcryptCost
	}
	return &authService{
		userRepo:   userRepo,
		jwtService: jwtService,
		tokenStore: tokenStore,
		bcryptCost: bcryptCost,
	}
}

// Register creates a user with a hashed password and logs them in.
func (s *authService) Register(ctx context.Context, username, email, password string) (*model.User, *auth.TokenPair, error) {
	username = strings.TrimSpace(username)
	email = normalizeEmail(email)
	if username == "" || email == "" || strings.TrimSpace(password) == "" {
		return nil, nil, fmt.Errorf("%w: all fields are required", apperrors.ErrInvalidInput)
	}

	exists, err := s.userRepo.ExistsByUsernameOrEmail(ctx, username, email)
	if err != nil {
		return nil, nil, fmt.Errorf("check user existence: %w", err)
	}
	if exists {
		return nil, nil, apperrors.ErrUserAlreadyExists
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return nil, nil, fmt.Errorf("hash password: %w", err)
	}

	user := &model.User{
		ID:           uuid.New(),
		Username:     username,
		Email:        email,
		PasswordHash: string(hashedPassword),
		Role:         model.RoleUser,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		// Lost a race with a concurrent signup for the same name or email.
		if repository.IsDuplicate(err) {
			return nil, nil, apperrors.ErrUserAlreadyExists
		}
		return nil, nil, fmt.Errorf("create user: %w", err)
	}

	pair, err := s.issue(ctx, user)
	if err != nil {
		return nil, nil, err
	}
	metrics.AuthEvent(metrics.AuthSignup)
	return user, pair, nil
}

// Login verifies credentials and issues a fresh token pair, replacing any
// previously stored refresh token.
func (s *authService) Login(ctx context.Context, email, password string) (*model.User, *auth.TokenPair, error) {
	email = normalizeEmail(email)
	if email == "" {
		return nil, nil, fmt.Errorf("%w: email is required", apperrors.ErrInvalidInput)
	}

	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		if repository.IsNotFound(err) {
			metrics.AuthEvent(metrics.AuthLoginFailed)
			return nil, nil, apperrors.ErrUserNotFound
		}
		return nil, nil, fmt.Errorf("find user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		metrics.AuthEvent(metrics.AuthLoginFailed)
		return nil, nil, apperrors.ErrInvalidCredentials
	}

	pair, err := s.issue(ctx, user)
	if err != nil {
		return nil, nil, err
	}
	metrics.AuthEvent(metrics.AuthLogin)
	return user, pair, nil
}

// Refresh exchanges a current refresh token for a new pair. The stored hash
// is swapped with a conditional write, so a token can be exchanged once.
func (s *authService) Refresh(ctx context.Context, refreshToken string) (*auth.TokenPair, error) {
	if refreshToken == "" {
		return nil, apperrors.ErrMissingRefreshToken
	}

	claims, err := s.jwtService.ParseRefreshToken(refreshToken)
	if err != nil {
		metrics.AuthEvent(metrics.AuthRefreshRejected)
		return nil, fmt.Errorf("%w: %v", apperrors.ErrInvalidRefreshToken, err)
	}
	userID, err := uuid.Parse(claims.UserID)
	if err != nil {
		metrics.AuthEvent(metrics.AuthRefreshRejected)
		return nil, apperrors.ErrInvalidRefreshToken
	}

	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}

	presented := auth.HashToken(refreshToken)
	if user.RefreshTokenHash == nil || *user.RefreshTokenHash != presented {
		metrics.AuthEvent(metrics.AuthRefreshRejected)
		return nil, apperrors.ErrInvalidRefreshToken
	}

	pair, err := s.jwtService.IssuePair(user)
	if err != nil {
		return nil, fmt.Errorf("issue tokens: %w", err)
	}
	rotated, err := s.userRepo.RotateRefreshToken(ctx, user.ID, presented, auth.HashToken(pair.RefreshToken))
	if err != nil {
		return nil, fmt.Errorf("rotate refresh token: %w", err)
	}
	if !rotated {
		// A concurrent refresh or login replaced the token after we read it.
		metrics.AuthEvent(metrics.AuthRefreshRejected)
		return nil, apperrors.ErrInvalidRefreshToken
	}

	metrics.AuthEvent(metrics.AuthRefresh)
	return pair, nil
}

// Logout forgets the stored refresh token and revokes the presented access
// token for the rest of its lifetime.
func (s *authService) Logout(ctx context.Context, userID uuid.UUID, accessTokenID string, accessExpiresAt time.Time) error {
	if err := s.userRepo.ClearRefreshToken(ctx, userID); err != nil {
		return fmt.Errorf("clear refresh token: %w", err)
	}
	if err := s.tokenStore.DenyAccessToken(ctx, accessTokenID, time.Until(accessExpiresAt)); err != nil {
		return fmt.Errorf("deny access token: %w", err)
	}
	metrics.AuthEvent(metrics.AuthLogout)
	return nil
}

// issue mints a pair and persists the refresh token hash on the user.
func (s *authService) issue(ctx context.Context, user *model.User) (*auth.TokenPair, error) {
	pair, err := s.jwtService.IssuePair(user)
	if err != nil {
		return nil, fmt.Errorf("issue tokens: %w", err)
	}
	hash := auth.HashToken(pair.RefreshToken)
	if err := s.userRepo.SetRefreshToken(ctx, user.ID, hash); err != nil {
		return nil, fmt.Errorf("store refresh token: %w", err)
	}
	user.RefreshTokenHash = &hash
	return pair, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
