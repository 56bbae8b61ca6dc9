package accounts

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/cryptohub/cryptohub/internal/auth"
	"github.com/cryptohub/cryptohub/internal/platform/httpx"
	_ "github.com/cryptohub/cryptohub/testing"
)

type mockRepository struct {
	usersByID       map[int64]*User
	usersByEmail    map[string]*User
	usersByUsername map[string]*User
	settings        map[int64]*Settings
	nextID          int64

	// Error injection
	createErr error
	lookupErr error
}

func newMockRepository() *mockRepository {
	return &mockRepository{
		usersByID:       make(map[int64]*User),
		usersByEmail:    make(map[string]*User),
		usersByUsername: make(map[string]*User),
		settings:        make(map[int64]*Settings),
		nextID:          1,
	}
}

func (m *mockRepository) FindByEmailOrUsername(ctx context.Context, email, username string) (*User, error) {
	if m.lookupErr != nil {
		return nil, m.lookupErr
	}
	if u, ok := m.usersByEmail[email]; ok {
		return u, nil
	}
	if u, ok := m.usersByUsername[username]; ok {
		return u, nil
	}
	return nil, httpx.ErrNotFound
}

func (m *mockRepository) CreateWithSettings(ctx context.Context, email, username, passwordHash string) (*User, error) {
	if m.createErr != nil {
		return nil, m.createErr
	}
	if _, taken := m.usersByEmail[email]; taken {
		return nil, fmt.Errorf("accounts: create user: %w", httpx.ErrDuplicate)
	}
	if _, taken := m.usersByUsername[username]; taken {
		return nil, fmt.Errorf("accounts: create user: %w", httpx.ErrDuplicate)
	}
	now := time.Now()
	user := &User{
		ID:           m.nextID,
		Email:        email,
		Username:     username,
		PasswordHash: passwordHash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	m.nextID++
	m.usersByID[user.ID] = user
	m.usersByEmail[email] = user
	m.usersByUsername[username] = user
	m.settings[user.ID] = &Settings{
		UserID:    user.ID,
		Theme:     DefaultTheme,
		Currency:  DefaultCurrency,
		CreatedAt: now,
		UpdatedAt: now,
	}
	return user, nil
}

func (m *mockRepository) FindByEmail(ctx context.Context, email string) (*User, error) {
	if u, ok := m.usersByEmail[email]; ok {
		return u, nil
	}
	return nil, httpx.ErrNotFound
}

func (m *mockRepository) FindByID(ctx context.Context, id int64) (*User, error) {
	if u, ok := m.usersByID[id]; ok {
		return u, nil
	}
	return nil, httpx.ErrNotFound
}

func (m *mockRepository) GetSettings(ctx context.Context, userID int64) (*Settings, error) {
	if s, ok := m.settings[userID]; ok {
		return s, nil
	}
	return nil, httpx.ErrNotFound
}

var _ Repository = (*mockRepository)(nil)

func newTestService(repo Repository) *Service {
	hasher := auth.NewHasher(bcrypt.MinCost)
	codec := auth.NewTokenCodec([]byte("service-test-secret"), time.Hour)
	return NewService(repo, hasher, codec)
}

func TestRegisterSuccess(t *testing.T) {
	repo := newMockRepository()
	svc := newTestService(repo)

	result, err := svc.Register(context.Background(), "A@X.com", "alice", "pass123")
	require.NoError(t, err)
	assert.NotEmpty(t, result.Token)
	assert.Equal(t, "a@x.com", result.User.Email, "email is stored case-normalized")
	assert.Equal(t, "alice", result.User.Username)
	assert.NotZero(t, result.User.ID)

	settings, err := repo.GetSettings(context.Background(), result.User.ID)
	require.NoError(t, err)
	assert.Equal(t, DefaultTheme, settings.Theme)
	assert.Equal(t, DefaultCurrency, settings.Currency)
	assert.False(t, settings.NotificationsEnabled)
	assert.False(t, settings.EmailAlerts)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	repo := newMockRepository()
	svc := newTestService(repo)

	_, err := svc.Register(context.Background(), "a@x.com", "alice", "pass123")
	require.NoError(t, err)

	_, err = svc.Register(context.Background(), "a@x.com", "bob", "pass456")
	assert.ErrorIs(t, err, httpx.ErrDuplicate)
}

func TestRegisterDuplicateUsername(t *testing.T) {
	repo := newMockRepository()
	svc := newTestService(repo)

	_, err := svc.Register(context.Background(), "a@x.com", "alice", "pass123")
	require.NoError(t, err)

	_, err = svc.Register(context.Background(), "b@x.com", "alice", "pass456")
	assert.ErrorIs(t, err, httpx.ErrDuplicate)
}

func TestRegisterInsertTimeConflict(t *testing.T) {
	// The pre-check passed but a concurrent registration won the insert; the
	// constraint violation must map to the same conflict error.
	repo := newMockRepository()
	repo.createErr = fmt.Errorf("accounts: create user: %w", httpx.ErrDuplicate)
	svc := newTestService(repo)

	_, err := svc.Register(context.Background(), "a@x.com", "alice", "pass123")
	assert.ErrorIs(t, err, httpx.ErrDuplicate)
	assert.Empty(t, repo.settings, "no orphan settings row after failed registration")
}

func TestLoginSuccess(t *testing.T) {
	repo := newMockRepository()
	svc := newTestService(repo)

	registered, err := svc.Register(context.Background(), "a@x.com", "alice", "pass123")
	require.NoError(t, err)

	result, err := svc.Login(context.Background(), "A@X.COM", "pass123")
	require.NoError(t, err)
	assert.Equal(t, registered.User.ID, result.User.ID)
	assert.NotEmpty(t, result.Token)
}

func TestLoginFailuresAreIndistinguishable(t *testing.T) {
	repo := newMockRepository()
	svc := newTestService(repo)

	_, err := svc.Register(context.Background(), "a@x.com", "alice", "pass123")
	require.NoError(t, err)

	_, wrongPassword := svc.Login(context.Background(), "a@x.com", "wrongpw1")
	_, unknownEmail := svc.Login(context.Background(), "nobody@x.com", "pass123")

	assert.ErrorIs(t, wrongPassword, httpx.ErrInvalidCredentials)
	assert.ErrorIs(t, unknownEmail, httpx.ErrInvalidCredentials)
	assert.Equal(t, wrongPassword.Error(), unknownEmail.Error())
}

func TestGetProfile(t *testing.T) {
	repo := newMockRepository()
	svc := newTestService(repo)

	registered, err := svc.Register(context.Background(), "a@x.com", "alice", "pass123")
	require.NoError(t, err)

	user, err := svc.GetProfile(context.Background(), registered.User.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice", user.Username)

	_, err = svc.GetProfile(context.Background(), 9999)
	assert.ErrorIs(t, err, httpx.ErrNotFound)
}

func TestIssuedTokenCarriesIdentity(t *testing.T) {
	repo := newMockRepository()
	hasher := auth.NewHasher(bcrypt.MinCost)
	codec := auth.NewTokenCodec([]byte("service-test-secret"), time.Hour)
	svc := NewService(repo, hasher, codec)

	result, err := svc.Register(context.Background(), "a@x.com", "alice", "pass123")
	require.NoError(t, err)

	claims, err := codec.Verify(result.Token)
	require.NoError(t, err)
	assert.Equal(t, result.User.ID, claims.UserID)
	assert.Equal(t, "a@x.com", claims.Email)
	assert.Equal(t, "alice", claims.Username)
}
