package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/sangkips/posdelivery-api/internal/domain/entity"
	"github.com/sangkips/posdelivery-api/internal/domain/repository"
	"github.com/sangkips/posdelivery-api/internal/domain/session"
	"github.com/sangkips/posdelivery-api/pkg/apperror"
	"github.com/sangkips/posdelivery-api/pkg/utils"
)

// AuthService handles authentication-related operations
type AuthService struct {
	userRepo   repository.UserRepository
	jwtManager *utils.JWTManager
	log        zerolog.Logger
}

// NewAuthService creates a new auth service
func NewAuthService(userRepo repository.UserRepository, jwtManager *utils.JWTManager, log zerolog.Logger) *AuthService {
	return &AuthService{
		userRepo:   userRepo,
		jwtManager: jwtManager,
		log:        log.With().Str("service", "auth").Logger(),
	}
}

// LoginInput represents the login input
type LoginInput struct {
	Email    string
	Password string
}

// LoginOutput represents the login output
type LoginOutput struct {
	User        *entity.User
	AccessToken string
	ExpiresAt   time.Time
}

// Login authenticates a user and returns an access token
func (s *AuthService) Login(ctx context.Context, input *LoginInput) (*LoginOutput, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))
	if email == "" || input.Password == "" {
		return nil, apperror.ErrInvalidCredentials
	}

	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if user == nil || !utils.CheckPasswordHash(input.Password, user.Password) {
		s.log.Warn().Str("email", email).Msg("failed login")
		return nil, apperror.ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, apperror.NewForbiddenError("Account is disabled")
	}

	accessToken, err := s.jwtManager.GenerateAccessToken(user.ID, user.Email, user.Roles())
	if err != nil {
		return nil, err
	}

	now := time.Now()
	if err := s.userRepo.UpdateLastLogin(ctx, user.ID, now); err != nil {
		s.log.Warn().Err(err).Str("user_id", user.ID.String()).Msg("update last login")
	} else {
		user.LastLoginAt = &now
	}

	return &LoginOutput{
		User:        user,
		AccessToken: accessToken,
		ExpiresAt:   now.Add(s.jwtManager.Expiry()),
	}, nil
}

// SessionFromToken validates an access token and returns the session it carries
func (s *AuthService) SessionFromToken(token string) (session.Session, error) {
	claims, err := s.jwtManager.ValidateAccessToken(token)
	if err != nil {
		return session.Session{}, apperror.ErrInvalidToken
	}
	return session.Session{UserID: claims.UserID, Email: claims.Email, Roles: claims.Roles}, nil
}

// GetCurrentUser retrieves the account behind the session
func (s *AuthService) GetCurrentUser(ctx context.Context, userID uuid.UUID) (*entity.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperror.NewNotFoundError("User")
	}
	return user, nil
}
