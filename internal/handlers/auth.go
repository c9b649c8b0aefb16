package handlers

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/BradenHooton/complaintbox/internal/auth"
	"github.com/BradenHooton/complaintbox/internal/services"
	pkghttp "github.com/BradenHooton/complaintbox/pkg/http"
)

// AuthServiceInterface defines the credential checks used by AuthHandler
type AuthServiceInterface interface {
	Authenticate(ctx context.Context, identifier, password string, client services.ClientInfo) (auth.Principal, error)
	AuthenticateAdmin(ctx context.Context, username, password string, client services.ClientInfo) (auth.Principal, error)
	RecordLogout(p auth.Principal, client services.ClientInfo)
}

// UserServiceInterface defines account creation
type UserServiceInterface interface {
	Signup(ctx context.Context, in services.SignupInput, client services.ClientInfo) (int64, error)
}

// SessionManagerInterface establishes and destroys browser sessions
type SessionManagerInterface interface {
	Establish(ctx context.Context, w http.ResponseWriter, r *http.Request, p auth.Principal) error
	Destroy(ctx context.Context, w http.ResponseWriter, r *http.Request) error
}

// AuthHandler handles signup, login and logout
type AuthHandler struct {
	authService AuthServiceInterface
	userService UserServiceInterface
	sessions    SessionManagerInterface
	ipConfig    *pkghttp.IPConfig
	logger      *slog.Logger
	errs        errorResponder
}

func NewAuthHandler(authService AuthServiceInterface, userService UserServiceInterface, sessions SessionManagerInterface, ipConfig *pkghttp.IPConfig, logger *slog.Logger, env string) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		userService: userService,
		sessions:    sessions,
		ipConfig:    ipConfig,
		logger:      logger,
		errs:        newErrorResponder(env),
	}
}

// Request DTOs

// SignupRequest is validated by the user service, which trims before checking
type SignupRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Username string `json:"username"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Identifier string `json:"identifier" validate:"required"`
	Password   string `json:"password" validate:"required"`
}

type AdminLoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse reports which kind of principal logged in
type LoginResponse struct {
	Success bool   `json:"success"`
	Type    string `json:"type"`
}

// Signup handles POST /api/signup
func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req SignupRequest
	if err := pkghttp.DecodeJSON(w, r, &req); err != nil {
		pkghttp.WriteBadRequest(w, "Invalid request body")
		return
	}

	_, err := h.userService.Signup(r.Context(), services.SignupInput{
		Name:     req.Name,
		Email:    req.Email,
		Username: req.Username,
		Password: req.Password,
	}, clientInfo(r, h.ipConfig))
	if err != nil {
		h.errs.write(w, err)
		return
	}

	pkghttp.WriteJSON(w, http.StatusOK, successResponse{Success: true, Message: "User created successfully"})
}

// Login handles POST /api/login for both users and admins
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := pkghttp.DecodeJSON(w, r, &req); err != nil {
		pkghttp.WriteBadRequest(w, "Invalid request body")
		return
	}

	if err := ValidateRequest(req); err != nil {
		pkghttp.WriteBadRequest(w, "Identifier and password required")
		return
	}

	p, err := h.authService.Authenticate(r.Context(), req.Identifier, req.Password, clientInfo(r, h.ipConfig))
	if err != nil {
		h.errs.write(w, err)
		return
	}

	if !h.establish(w, r, p) {
		return
	}

	pkghttp.WriteJSON(w, http.StatusOK, LoginResponse{Success: true, Type: p.Kind().String()})
}

// AdminLogin handles POST /api/admin/login
func (h *AuthHandler) AdminLogin(w http.ResponseWriter, r *http.Request) {
	var req AdminLoginRequest
	if err := pkghttp.DecodeJSON(w, r, &req); err != nil {
		pkghttp.WriteBadRequest(w, "Invalid request body")
		return
	}

	if err := ValidateRequest(req); err != nil {
		pkghttp.WriteBadRequest(w, "Username and password required")
		return
	}

	p, err := h.authService.AuthenticateAdmin(r.Context(), req.Username, req.Password, clientInfo(r, h.ipConfig))
	if err != nil {
		h.errs.write(w, err)
		return
	}

	if !h.establish(w, r, p) {
		return
	}

	pkghttp.WriteJSON(w, http.StatusOK, successResponse{Success: true})
}

// Logout handles POST /api/logout. It succeeds with or without a session.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	p := auth.GetPrincipal(r)

	if err := h.sessions.Destroy(r.Context(), w, r); err != nil {
		// the cookie is already expired; a stale record ages out through its TTL
		h.logger.Warn("failed to delete session record", slog.Any("error", err))
	}

	if !p.IsAnonymous() {
		h.authService.RecordLogout(p, clientInfo(r, h.ipConfig))
	}

	pkghttp.WriteJSON(w, http.StatusOK, successResponse{Success: true})
}

func (h *AuthHandler) establish(w http.ResponseWriter, r *http.Request, p auth.Principal) bool {
	if err := h.sessions.Establish(r.Context(), w, r, p); err != nil {
		h.logger.Error("failed to establish session",
			slog.String("principal_kind", p.Kind().String()),
			slog.Any("error", err),
		)
		h.errs.internal(w, err)
		return false
	}
	return true
}
