package accounts

import (
	"context"
	"errors"
	"fmt"

	"github.com/cryptohub/cryptohub/internal/auth"
	"github.com/cryptohub/cryptohub/internal/platform/httpx"
)

// AuthResult pairs a freshly issued token with the account it asserts.
type AuthResult struct {
	Token string
	User  User
}

// Service orchestrates registration and login against the repository,
// hasher and token codec.
type Service struct {
	repo   Repository
	hasher *auth.Hasher
	codec  *auth.TokenCodec
}

// NewService constructs a new Service.
func NewService(repo Repository, hasher *auth.Hasher, codec *auth.TokenCodec) *Service {
	return &Service{repo: repo, hasher: hasher, codec: codec}
}

// Register creates an account with default settings and issues a session
// token. Duplicate email or username yields httpx.ErrDuplicate whether the
// pre-check or the insert-time constraint catches it.
func (s *Service) Register(ctx context.Context, email, username, password string) (*AuthResult, error) {
	email = NormalizeEmail(email)

	_, err := s.repo.FindByEmailOrUsername(ctx, email, username)
	switch {
	case err == nil:
		return nil, fmt.Errorf("accounts: register: %w", httpx.ErrDuplicate)
	case !errors.Is(err, httpx.ErrNotFound):
		return nil, fmt.Errorf("accounts: register lookup: %w", err)
	}

	passwordHash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, err
	}

	user, err := s.repo.CreateWithSettings(ctx, email, username, passwordHash)
	if err != nil {
		return nil, err
	}

	token, err := s.codec.Issue(user.ID, user.Email, user.Username)
	if err != nil {
		return nil, err
	}
	return &AuthResult{Token: token, User: *user}, nil
}

// Login verifies credentials and issues a session token. Unknown email and
// wrong password both return httpx.ErrInvalidCredentials so callers cannot
// tell which check failed.
func (s *Service) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	user, err := s.repo.FindByEmail(ctx, NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, httpx.ErrNotFound) {
			return nil, httpx.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("accounts: login lookup: %w", err)
	}

	if !s.hasher.Verify(password, user.PasswordHash) {
		return nil, httpx.ErrInvalidCredentials
	}

	token, err := s.codec.Issue(user.ID, user.Email, user.Username)
	if err != nil {
		return nil, err
	}
	return &AuthResult{Token: token, User: *user}, nil
}

// GetProfile looks up a user by primary key. A valid token does not
// guarantee the row still exists, so callers must handle httpx.ErrNotFound.
func (s *Service) GetProfile(ctx context.Context, userID int64) (*User, error) {
	return s.repo.FindByID(ctx, userID)
}

// GetSettings returns the settings row owned by the user.
func (s *Service) GetSettings(ctx context.Context, userID int64) (*Settings, error) {
	return s.repo.GetSettings(ctx, userID)
}
