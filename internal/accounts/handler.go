package accounts

import (
	"errors"
	"log/slog"
	"net/http"
	"regexp"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/cryptohub/cryptohub/internal/auth"
	"github.com/cryptohub/cryptohub/internal/platform/httpx"
)

var usernameCharset = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

// Handler wires HTTP endpoints for registration, login and profile access.
type Handler struct {
	logger    *slog.Logger
	service   *Service
	codec     *auth.TokenCodec
	validator *validator.Validate
}

// NewHandler constructs a Handler instance.
func NewHandler(logger *slog.Logger, service *Service, codec *auth.TokenCodec) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	v := validator.New()
	_ = v.RegisterValidation("username_charset", func(fl validator.FieldLevel) bool {
		return usernameCharset.MatchString(fl.Field().String())
	})
	return &Handler{
		logger:    logger,
		service:   service,
		codec:     codec,
		validator: v,
	}
}

// MountRoutes registers account routes on the provided router.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Post("/register", h.handleRegister)
	r.Post("/login", h.handleLogin)
	r.Group(func(r chi.Router) {
		r.Use(auth.Middleware(h.logger, h.codec))
		r.Get("/me", h.handleMe)
		r.Get("/settings", h.handleSettings)
	})
}

func (h *Handler) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Fail(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	req.Username = strings.TrimSpace(req.Username)

	if errs := h.validate(req); len(errs) > 0 {
		httpx.ValidationFailed(w, errs)
		return
	}

	result, err := h.service.Register(r.Context(), req.Email, req.Username, req.Password)
	if err != nil {
		if !errors.Is(err, httpx.ErrDuplicate) {
			h.logger.Error("register user", slog.Any("error", err))
		}
		httpx.RespondError(w, err)
		return
	}

	httpx.Success(w, http.StatusCreated, "User registered successfully", AuthResponse{
		Token: result.Token,
		User:  summarize(result.User),
	})
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Fail(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if errs := h.validate(req); len(errs) > 0 {
		httpx.ValidationFailed(w, errs)
		return
	}

	result, err := h.service.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		if !errors.Is(err, httpx.ErrInvalidCredentials) {
			h.logger.Error("login user", slog.Any("error", err))
		}
		httpx.RespondError(w, err)
		return
	}

	httpx.Success(w, http.StatusOK, "Login successful", AuthResponse{
		Token: result.Token,
		User:  summarize(result.User),
	})
}

func (h *Handler) handleMe(w http.ResponseWriter, r *http.Request) {
	identity, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		httpx.RespondError(w, httpx.ErrUnauthorized)
		return
	}

	user, err := h.service.GetProfile(r.Context(), identity.UserID)
	if err != nil {
		if !errors.Is(err, httpx.ErrNotFound) {
			h.logger.Error("get profile", slog.Any("error", err))
		}
		httpx.RespondError(w, err)
		return
	}

	httpx.Success(w, http.StatusOK, "User profile retrieved", ProfileResponse{
		ID:        user.ID,
		Email:     user.Email,
		Username:  user.Username,
		CreatedAt: user.CreatedAt,
	})
}

func (h *Handler) handleSettings(w http.ResponseWriter, r *http.Request) {
	identity, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		httpx.RespondError(w, httpx.ErrUnauthorized)
		return
	}

	settings, err := h.service.GetSettings(r.Context(), identity.UserID)
	if err != nil {
		if !errors.Is(err, httpx.ErrNotFound) {
			h.logger.Error("get settings", slog.Any("error", err))
		}
		httpx.RespondError(w, err)
		return
	}

	httpx.Success(w, http.StatusOK, "User settings retrieved", SettingsResponse{
		Theme:                settings.Theme,
		Currency:             settings.Currency,
		NotificationsEnabled: settings.NotificationsEnabled,
		EmailAlerts:          settings.EmailAlerts,
	})
}

func (h *Handler) validate(req any) []httpx.FieldError {
	err := h.validator.Struct(req)
	if err == nil {
		return nil
	}
	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return []httpx.FieldError{{Field: "", Message: "invalid input"}}
	}
	fieldErrs := make([]httpx.FieldError, 0, len(validationErrs))
	for _, fe := range validationErrs {
		field := strings.ToLower(fe.Field())
		fieldErrs = append(fieldErrs, httpx.FieldError{Field: field, Message: fieldMessage(field, fe.Tag())})
	}
	return fieldErrs
}

func fieldMessage(field, tag string) string {
	switch field {
	case "email":
		return "Please provide a valid email"
	case "username":
		switch tag {
		case "min", "max":
			return "Username must be between 3 and 100 characters"
		case "username_charset":
			return "Username can only contain letters, numbers, underscores, and hyphens"
		}
		return "Username is required"
	case "password":
		switch tag {
		case "min":
			return "Password must be at least 6 characters long"
		case "containsany":
			return "Password must contain at least one number"
		}
		return "Password is required"
	}
	return "Invalid value"
}

func summarize(user User) UserSummary {
	return UserSummary{ID: user.ID, Email: user.Email, Username: user.Username}
}
