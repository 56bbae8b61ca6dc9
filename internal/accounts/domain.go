package accounts

import (
	"strings"
	"time"
)

// User is a registered account. PasswordHash never leaves this package in
// any outward-facing response.
type User struct {
	ID           int64
	Email        string
	Username     string
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Settings is the per-user preference row created together with each
// account.
type Settings struct {
	UserID               int64
	Theme                string
	Currency             string
	NotificationsEnabled bool
	EmailAlerts          bool
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

// Defaults applied to the settings row at registration.
const (
	DefaultTheme    = "light"
	DefaultCurrency = "USD"
)

// NormalizeEmail lowercases and trims an email address so that lookups and
// the unique constraint are case-insensitive.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
