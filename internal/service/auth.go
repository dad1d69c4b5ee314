package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/authgate/authgate-go/internal/apperror"
	"github.com/authgate/authgate-go/internal/crypto"
	"github.com/authgate/authgate-go/internal/model"
	"github.com/authgate/authgate-go/internal/repository"
)

// ErrInvalidCredentials matches, via errors.Is, every failed login.
var ErrInvalidCredentials = errors.New("invalid credentials")

func invalidCredentials() error {
	return apperror.Unauthorized("Invalid email or password").WithCause(ErrInvalidCredentials)
}

// UserStore is the persistence the auth flows need. *repository.UserRepository
// implements it.
type UserStore interface {
	Create(ctx context.Context, user *model.User) error
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	GetByID(ctx context.Context, id string) (*model.User, error)
	UpdateName(ctx context.Context, id, name string) error
}

// AuthService handles authentication business logic.
type AuthService struct {
	users  UserStore
	hasher *crypto.PasswordHasher
	tokens *crypto.TokenManager
}

// NewAuthService creates a new AuthService.
func NewAuthService(users UserStore, hasher *crypto.PasswordHasher, tokens *crypto.TokenManager) *AuthService {
	return &AuthService{
		users:  users,
		hasher: hasher,
		tokens: tokens,
	}
}

// Signup creates a new user account and returns an auth token. The request
// is expected to have passed validation.SignupSchema.
func (s *AuthService) Signup(ctx context.Context, req model.SignupRequest) (model.AuthResponse, error) {
	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return model.AuthResponse{}, err
	}

	user := &model.User{
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: hash,
		Role:         model.RoleUser,
	}

	if err := s.users.Create(ctx, user); err != nil {
		return model.AuthResponse{}, err
	}

	return s.authResponse(user)
}

// Login authenticates a user and returns an auth token. Unknown emails and
// wrong passwords are indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, req model.LoginRequest) (model.AuthResponse, error) {
	user, err := s.users.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return model.AuthResponse{}, invalidCredentials()
		}
		return model.AuthResponse{}, err
	}

	match, err := s.hasher.Compare(req.Password, user.PasswordHash)
	if err != nil {
		return model.AuthResponse{}, err
	}
	if !match {
		return model.AuthResponse{}, invalidCredentials()
	}

	return s.authResponse(user)
}

// GetUser retrieves a user by ID and returns safe user data.
func (s *AuthService) GetUser(ctx context.Context, userID string) (model.UserResponse, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return model.UserResponse{}, apperror.NotFound("User not found")
		}
		return model.UserResponse{}, err
	}

	return user.Response(), nil
}

// UpdateProfile renames the user and returns the stored result.
func (s *AuthService) UpdateProfile(ctx context.Context, userID string, req model.ProfileUpdateRequest) (model.UserResponse, error) {
	if err := s.users.UpdateName(ctx, userID, req.Name); err != nil {
		return model.UserResponse{}, err
	}
	return s.GetUser(ctx, userID)
}

// RequestPasswordReset records a reset request. The outcome is not reported
// to the caller so that registered emails cannot be enumerated.
func (s *AuthService) RequestPasswordReset(ctx context.Context, req model.PasswordResetRequest) error {
	user, err := s.users.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			slog.Info("password reset requested for unknown email")
			return nil
		}
		return err
	}

	slog.Info("password reset requested", "user_id", user.ID)
	return nil
}

func (s *AuthService) authResponse(user *model.User) (model.AuthResponse, error) {
	token, err := s.tokens.GenerateToken(crypto.TokenPayload{
		UserID: user.ID,
		Email:  user.Email,
		Role:   user.Role,
	})
	if err != nil {
		return model.AuthResponse{}, err
	}

	return model.AuthResponse{
		Token: token,
		User:  user.Response(),
	}, nil
}
