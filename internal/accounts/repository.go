package accounts

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cryptohub/cryptohub/internal/platform/db"
	"github.com/cryptohub/cryptohub/internal/platform/httpx"
)

// Repository defines persistence operations for accounts.
type Repository interface {
	// FindByEmailOrUsername returns a user matching either key, or
	// httpx.ErrNotFound when neither is taken.
	FindByEmailOrUsername(ctx context.Context, email, username string) (*User, error)
	// CreateWithSettings inserts the user and its default settings row in one
	// transaction. A unique-constraint violation surfaces as
	// httpx.ErrDuplicate.
	CreateWithSettings(ctx context.Context, email, username, passwordHash string) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	FindByID(ctx context.Context, id int64) (*User, error)
	GetSettings(ctx context.Context, userID int64) (*Settings, error)
}

// PGRepository implements Repository using PostgreSQL.
type PGRepository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a PostgreSQL repository.
func NewRepository(pool *pgxpool.Pool) *PGRepository {
	return &PGRepository{pool: pool}
}

const userColumns = `id, email, username, password_hash, created_at, updated_at`

func scanUser(row pgx.Row) (*User, error) {
	var user User
	err := row.Scan(&user.ID, &user.Email, &user.Username, &user.PasswordHash, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, httpx.ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

// FindByEmailOrUsername fetches a user holding either unique key.
func (r *PGRepository) FindByEmailOrUsername(ctx context.Context, email, username string) (*User, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE email = $1 OR username = $2`,
		email, username)
	return scanUser(row)
}

// CreateWithSettings persists a new user and its default settings
// atomically. The unique constraints on email and username are the
// authoritative duplicate guard; a violation here maps to the same conflict
// error the pre-check produces.
func (r *PGRepository) CreateWithSettings(ctx context.Context, email, username, passwordHash string) (*User, error) {
	user := &User{Email: email, Username: username, PasswordHash: passwordHash}
	err := db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		row := tx.QueryRow(ctx,
			`INSERT INTO users (email, username, password_hash)
			 VALUES ($1, $2, $3)
			 RETURNING id, created_at, updated_at`,
			email, username, passwordHash)
		if err := row.Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt); err != nil {
			return err
		}
		_, err := tx.Exec(ctx,
			`INSERT INTO user_settings (user_id, theme, currency, notifications_enabled, email_alerts)
			 VALUES ($1, $2, $3, $4, $5)`,
			user.ID, DefaultTheme, DefaultCurrency, false, false)
		return err
	})
	if err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("accounts: create user: %w", httpx.ErrDuplicate)
		}
		return nil, fmt.Errorf("accounts: create user: %w", err)
	}
	return user, nil
}

// FindByEmail fetches a user by email.
func (r *PGRepository) FindByEmail(ctx context.Context, email string) (*User, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE email = $1`, email)
	return scanUser(row)
}

// FindByID fetches a user by primary key.
func (r *PGRepository) FindByID(ctx context.Context, id int64) (*User, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	return scanUser(row)
}

// GetSettings fetches the settings row for a user.
func (r *PGRepository) GetSettings(ctx context.Context, userID int64) (*Settings, error) {
	var s Settings
	err := r.pool.QueryRow(ctx,
		`SELECT user_id, theme, currency, notifications_enabled, email_alerts, created_at, updated_at
		 FROM user_settings WHERE user_id = $1`, userID).
		Scan(&s.UserID, &s.Theme, &s.Currency, &s.NotificationsEnabled, &s.EmailAlerts, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, httpx.ErrNotFound
		}
		return nil, err
	}
	return &s, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation
}

var _ Repository = (*PGRepository)(nil)
