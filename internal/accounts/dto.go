package accounts

import "time"

type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Username string `json:"username" validate:"required,min=3,max=100,username_charset"`
	Password string `json:"password" validate:"required,min=6,containsany=0123456789"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// UserSummary is the outward-facing projection of a User.
type UserSummary struct {
	ID       int64  `json:"id"`
	Email    string `json:"email"`
	Username string `json:"username"`
}

type AuthResponse struct {
	Token string      `json:"token"`
	User  UserSummary `json:"user"`
}

type ProfileResponse struct {
	ID        int64     `json:"id"`
	Email     string    `json:"email"`
	Username  string    `json:"username"`
	CreatedAt time.Time `json:"created_at"`
}

type SettingsResponse struct {
	Theme                string `json:"theme"`
	Currency             string `json:"currency"`
	NotificationsEnabled bool   `json:"notifications_enabled"`
	EmailAlerts          bool   `json:"email_alerts"`
}
