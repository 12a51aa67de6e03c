package service

import (
	"context"
	"net/http"

	"github.com/debanjo/microledger/internal/domain"
	"github.com/debanjo/microledger/internal/models"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// ErrInvalidCredentials deliberately does not say whether the email or the
// password was wrong.
var ErrInvalidCredentials = &domain.Error{
	Kind:   domain.KindInvalidInput,
	Detail: "Invalid credentials",
	Status: http.StatusUnauthorized,
}

// UserStore is the registration storage contract.
type UserStore interface {
	Create(ctx context.Context, user *models.User) error
	GetByEmail(ctx context.Context, email string) (*models.User, error)
}

// UserService handles registration and credential checks. No tokens or
// sessions are issued; login only verifies the password.
type UserService struct {
	users  UserStore
	logger *zap.Logger
}

func NewUserService(users UserStore, logger *zap.Logger) *UserService {
	return &UserService{users: users, logger: logger}
}

func (s *UserService) Register(ctx context.Context, email, password string) (*models.User, error) {
	email, err := domain.NormalizeIdentity(email)
	if err != nil {
		return nil, err
	}
	if len(password) < 8 {
		return nil, domain.NewInvalidInput("password must be at least 8 characters")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, domain.NewInfrastructure("failed to hash password", err)
	}

	user := &models.User{Email: email, PasswordHash: string(hash)}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *UserService) Login(ctx context.Context, email, password string) error {
	email, err := domain.NormalizeIdentity(email)
	if err != nil {
		return ErrInvalidCredentials
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if domain.KindOf(err) == domain.KindNotFound {
			return ErrInvalidCredentials
		}
		return err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return ErrInvalidCredentials
	}
	return nil
}
