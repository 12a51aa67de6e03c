package service

import (
	"context"
	"testing"

	"github.com/debanjo/microledger/internal/domain"
	"github.com/debanjo/microledger/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeUserStore struct {
	users map[string]*models.User
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{users: make(map[string]*models.User)}
}

func (f *fakeUserStore) Create(ctx context.Context, user *models.User) error {
	if _, ok := f.users[user.Email]; ok {
		return domain.NewAlreadyExists("Email already registered")
	}
	user.ID = int64(len(f.users) + 1)
	f.users[user.Email] = user
	return nil
}

func (f *fakeUserStore) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	user, ok := f.users[email]
	if !ok {
		return nil, domain.NewNotFound("User not found")
	}
	return user, nil
}

func TestUserService_RegisterAndLogin(t *testing.T) {
	svc := NewUserService(newFakeUserStore(), zap.NewNop())
	ctx := context.Background()

	user, err := svc.Register(ctx, "Ayo@Example.com", "correct-horse")
	require.NoError(t, err)
	assert.Equal(t, "ayo@example.com", user.Email)
	assert.NotEqual(t, "correct-horse", user.PasswordHash)

	require.NoError(t, svc.Login(ctx, "ayo@example.com", "correct-horse"))
	assert.ErrorIs(t, svc.Login(ctx, "ayo@example.com", "wrong-password"), ErrInvalidCredentials)
	assert.ErrorIs(t, svc.Login(ctx, "nobody@example.com", "correct-horse"), ErrInvalidCredentials)
}

func TestUserService_RegisterRejects(t *testing.T) {
	svc := NewUserService(newFakeUserStore(), zap.NewNop())
	ctx := context.Background()

	_, err := svc.Register(ctx, "not-an-email", "correct-horse")
	assert.Equal(t, domain.KindInvalidInput, domain.KindOf(err))

	_, err = svc.Register(ctx, "a@example.com", "short")
	assert.Equal(t, domain.KindInvalidInput, domain.KindOf(err))

	_, err = svc.Register(ctx, "a@example.com", "correct-horse")
	require.NoError(t, err)
	_, err = svc.Register(ctx, "a@example.com", "correct-horse")
	assert.Equal(t, domain.KindAlreadyExists, domain.KindOf(err))
}
