package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/authd/authd/internal/handler/dto"
	"github.com/authd/authd/internal/service"
)

// unauthorizedMessage is the single message returned for every token
// rejection, so callers cannot distinguish revoked from malformed or
// expired tokens.
const unauthorizedMessage = "could not validate credentials"

// UserHandler handles HTTP requests for the user endpoints.
type UserHandler struct {
	svc    *service.UserService
	logger *slog.Logger
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(svc *service.UserService, logger *slog.Logger) *UserHandler {
	return &UserHandler{
		svc:    svc,
		logger: logger,
	}
}

// Register handles POST {prefix}/register/.
func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req dto.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}

	if err := req.Validate(); err != nil {
		h.writeError(w, http.StatusBadRequest, "VALIDATION_FAILED", err.Error())
		return
	}

	user, err := h.svc.Register(r.Context(), req.Email, req.Password)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	h.logger.Info("user_registered", "user_id", user.ID)
	writeJSON(w, http.StatusCreated, dto.ToUserResponse(user))
}

// Login handles POST {prefix}/login/.
func (h *UserHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req dto.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}

	access, err := h.svc.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.TokenResponse{
		Access:    access,
		TokenType: "bearer",
	})
}

// Me handles GET {prefix}/me/.
func (h *UserHandler) Me(w http.ResponseWriter, r *http.Request) {
	token := extractToken(r)
	if token == "" {
		h.writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", unauthorizedMessage)
		return
	}

	user, err := h.svc.CurrentUser(r.Context(), token)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ToUserResponse(user))
}

// Logout handles POST {prefix}/logout/.
func (h *UserHandler) Logout(w http.ResponseWriter, r *http.Request) {
	token := extractToken(r)
	if token == "" {
		h.writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", unauthorizedMessage)
		return
	}

	if err := h.svc.Logout(r.Context(), token); err != nil {
		h.handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.LogoutResponse{
		Detail: "successfully logged out",
	})
}

// handleServiceError maps service errors to HTTP responses.
func (h *UserHandler) handleServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrEmailTaken):
		h.writeError(w, http.StatusBadRequest, "EMAIL_EXISTS", "Email already exists")
	case errors.Is(err, service.ErrInvalidCredentials):
		h.writeError(w, http.StatusBadRequest, "INVALID_CREDENTIALS", "Incorrect email or password")
	case errors.Is(err, service.ErrAlreadyLoggedOut):
		h.writeError(w, http.StatusUnprocessableEntity, "ALREADY_LOGGED_OUT", "Already logged out")
	case errors.Is(err, service.ErrWrongTokenClass):
		h.writeError(w, http.StatusUnprocessableEntity, "WRONG_TOKEN_CLASS", "Not an access token")
	case errors.Is(err, service.ErrUnauthorized):
		h.writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", unauthorizedMessage)
	case errors.Is(err, service.ErrPersistence):
		h.writeError(w, http.StatusInternalServerError, "PERSISTENCE_ERROR", "Could not persist user")
	default:
		h.logger.Error("unhandled service error", "error", err)
		h.writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error")
	}
}

// writeError writes an error response.
func (h *UserHandler) writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, dto.ErrorResponse{
		Error: message,
		Code:  code,
	})
}

// extractToken extracts the access token from the request.
// Supports "Authorization: Bearer <token>" and a "token" query parameter.
func extractToken(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimPrefix(authHeader, "Bearer ")
	}

	return r.URL.Query().Get("token")
}
