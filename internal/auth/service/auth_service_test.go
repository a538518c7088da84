package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/Daniel-Kats256/simulations/internal/auth/domain"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memUserStore is a minimal in-memory UserStore for service tests.
type memUserStore struct {
	mu    sync.Mutex
	users map[string]*domain.User
}

func newMemUserStore() *memUserStore {
	return &memUserStore{users: make(map[string]*domain.User)}
}

func (s *memUserStore) Create(_ context.Context, u *domain.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.users[u.Username]; exists {
		return domain.ErrUsernameTaken
	}
	if u.ID == "" {
		u.ID = uuid.New().String()
	}
	cp := *u
	s.users[u.Username] = &cp
	return nil
}

func (s *memUserStore) GetByUsername(_ context.Context, username string) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[username]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	cp := *u
	return &cp, nil
}

func TestRegister(t *testing.T) {
	svc := NewAuthService(newMemUserStore(), "test-secret", time.Hour)
	ctx := context.Background()

	t.Run("creates user with hashed password", func(t *testing.T) {
		u, err := svc.Register(ctx, "Ana Lyst", "ana", "hunter2", domain.RoleAnalyst)
		require.NoError(t, err)
		assert.NotEmpty(t, u.ID)
		assert.Equal(t, domain.RoleAnalyst, u.Role)
		assert.NotEqual(t, "hunter2", u.PasswordHash)
	})

	t.Run("role defaults to viewer", func(t *testing.T) {
		u, err := svc.Register(ctx, "Vic Ewer", "vic", "pw", "")
		require.NoError(t, err)
		assert.Equal(t, domain.RoleViewer, u.Role)
	})

	t.Run("unknown role is rejected", func(t *testing.T) {
		_, err := svc.Register(ctx, "X", "x", "pw", "superuser")
		assert.Error(t, err)
	})

	t.Run("duplicate username is rejected", func(t *testing.T) {
		_, err := svc.Register(ctx, "Ana Again", "ana", "pw", domain.RoleViewer)
		assert.ErrorIs(t, err, domain.ErrUsernameTaken)
	})

	t.Run("missing fields are rejected", func(t *testing.T) {
		_, err := svc.Register(ctx, "", "u", "pw", "")
		assert.Error(t, err)
		_, err = svc.Register(ctx, "N", "", "pw", "")
		assert.Error(t, err)
		_, err = svc.Register(ctx, "N", "u", "", "")
		assert.Error(t, err)
	})
}

func TestLoginAndVerify(t *testing.T) {
	svc := NewAuthService(newMemUserStore(), "test-secret", time.Hour)
	ctx := context.Background()

	registered, err := svc.Register(ctx, "Ana Lyst", "ana", "hunter2", domain.RoleAnalyst)
	require.NoError(t, err)

	t.Run("valid credentials yield a verifiable token", func(t *testing.T) {
		token, u, err := svc.Login(ctx, "ana", "hunter2")
		require.NoError(t, err)
		assert.Equal(t, registered.ID, u.ID)

		p, err := svc.VerifyToken(token)
		require.NoError(t, err)
		assert.Equal(t, registered.ID, p.ID)
		assert.Equal(t, "Ana Lyst", p.Name)
		assert.Equal(t, "ana", p.Username)
		assert.Equal(t, domain.RoleAnalyst, p.Role)
	})

	t.Run("wrong password and unknown user are indistinguishable", func(t *testing.T) {
		_, _, badPw := svc.Login(ctx, "ana", "wrong")
		_, _, badUser := svc.Login(ctx, "nobody", "hunter2")
		assert.ErrorIs(t, badPw, domain.ErrInvalidCredentials)
		assert.ErrorIs(t, badUser, domain.ErrInvalidCredentials)
	})
}

func TestVerifyToken_Rejections(t *testing.T) {
	store := newMemUserStore()
	svc := NewAuthService(store, "test-secret", time.Hour)
	ctx := context.Background()

	_, err := svc.Register(ctx, "Ana", "ana", "pw", domain.RoleAnalyst)
	require.NoError(t, err)
	token, _, err := svc.Login(ctx, "ana", "pw")
	require.NoError(t, err)

	t.Run("garbage token", func(t *testing.T) {
		_, err := svc.VerifyToken("not-a-token")
		assert.ErrorIs(t, err, domain.ErrInvalidToken)
	})

	t.Run("tampered token", func(t *testing.T) {
		_, err := svc.VerifyToken(token + "x")
		assert.ErrorIs(t, err, domain.ErrInvalidToken)
	})

	t.Run("token signed with a different secret", func(t *testing.T) {
		other := NewAuthService(store, "other-secret", time.Hour)
		_, err := other.VerifyToken(token)
		assert.ErrorIs(t, err, domain.ErrInvalidToken)
	})

	t.Run("expired token", func(t *testing.T) {
		short := NewAuthService(store, "test-secret", -time.Minute)
		expired, _, err := short.Login(ctx, "ana", "pw")
		require.NoError(t, err)
		_, err = short.VerifyToken(expired)
		assert.ErrorIs(t, err, domain.ErrInvalidToken)
	})
}
