// Package handler adapts HTTP requests to the user and removal services.
package handler

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/dmitrijs2005/userhub/internal/common"
	"github.com/dmitrijs2005/userhub/internal/logging"
	"github.com/dmitrijs2005/userhub/internal/models"
	"github.com/dmitrijs2005/userhub/internal/server/api/middleware"
	"github.com/dmitrijs2005/userhub/internal/server/services"
	"github.com/go-chi/chi/v5"
)

type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

type RegisterResponse struct {
	ID string `json:"id"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// TokenResponse is returned by login and refresh.
type TokenResponse struct {
	AccessToken           string    `json:"access_token"`
	RefreshToken          string    `json:"refresh_token"`
	AccessTokenExpiresAt  time.Time `json:"access_token_expires_at"`
	RefreshTokenExpiresAt time.Time `json:"refresh_token_expires_at"`
}

// UpdateUserRequest accepts "username", or "name" from older clients.
type UpdateUserRequest struct {
	Username string `json:"username"`
	Name     string `json:"name"`
}

// RemoveUserResponse relays the account service's reply.
type RemoveUserResponse struct {
	Message string              `json:"message"`
	Account *models.AccountView `json:"account,omitempty"`
}

type UserHandler struct {
	users   *services.UserService
	removal *services.RemovalDelegate
	logger  logging.Logger
}

func NewUserHandler(users *services.UserService, removal *services.RemovalDelegate, l logging.Logger) *UserHandler {
	return &UserHandler{users: users, removal: removal, logger: l.With("module", "http")}
}

// RegisterPublicRoutes mounts the routes that never require a token.
func (h *UserHandler) RegisterPublicRoutes(r chi.Router) {
	r.Post("/register", h.register)
	r.Post("/login", h.login)
	r.Patch("/user/refresh/{id}", h.refresh)
}

// RegisterUserRoutes mounts the account listing and rename routes.
func (h *UserHandler) RegisterUserRoutes(r chi.Router) {
	r.Get("/users", h.list)
	r.Patch("/users/{id}", h.updateName)
}

// RegisterAdminRoutes mounts account removal.
func (h *UserHandler) RegisterAdminRoutes(r chi.Router) {
	r.Delete("/users/{id}", h.remove)
}

func (h *UserHandler) register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid request payload: "+err.Error())
		return
	}

	id, err := h.users.Register(r.Context(), services.RegisterInput{
		Username: req.Username,
		Email:    req.Email,
		Password: models.PlaintextSecret(req.Password),
		Role:     req.Role,
		Caller:   middleware.OptionalRole(r.Context()),
	})
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	common.RespondWithJSON(w, http.StatusCreated, RegisterResponse{ID: id.String()})
}

func (h *UserHandler) login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid request payload: "+err.Error())
		return
	}

	session, err := h.users.Login(r.Context(), req.Email, models.PlaintextSecret(req.Password))
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, tokenResponse(session))
}

func (h *UserHandler) refresh(w http.ResponseWriter, r *http.Request) {
	presented := strings.TrimPrefix(r.Header.Get(common.AuthorizationHeaderName), common.BearerPrefix)

	session, err := h.users.Refresh(r.Context(), chi.URLParam(r, "id"), presented)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, tokenResponse(session))
}

func (h *UserHandler) list(w http.ResponseWriter, r *http.Request) {
	views, err := h.users.List(r.Context())
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, views)
}

func (h *UserHandler) updateName(w http.ResponseWriter, r *http.Request) {
	var req UpdateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid request payload: "+err.Error())
		return
	}
	name := req.Username
	if name == "" {
		name = req.Name
	}

	if err := h.users.UpdateName(r.Context(), chi.URLParam(r, "id"), name); err != nil {
		h.respondError(w, r, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, common.MessageResponse{Message: "User updated successfully"})
}

func (h *UserHandler) remove(w http.ResponseWriter, r *http.Request) {
	reply, err := h.removal.Remove(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	status := http.StatusOK
	if reply.Account == nil {
		status = http.StatusNotFound
	}
	common.RespondWithJSON(w, status, RemoveUserResponse{Message: reply.Message, Account: reply.Account})
}

// msgUnavailable is returned for every upstream failure; the transport error
// may name internal addresses.
const msgUnavailable = "service temporarily unavailable"

// respondError writes the mapped status. Internal and upstream details never
// reach the client.
func (h *UserHandler) respondError(w http.ResponseWriter, r *http.Request, err error) {
	code := common.HTTPStatusFromError(err)
	msg := err.Error()
	switch code {
	case http.StatusInternalServerError:
		h.logger.Error(r.Context(), "Request failed", "method", r.Method, "path", r.URL.Path, "error", err)
		msg = http.StatusText(code)
	case http.StatusServiceUnavailable:
		h.logger.Warn(r.Context(), "Upstream unavailable", "method", r.Method, "path", r.URL.Path, "error", err)
		msg = msgUnavailable
	}
	common.RespondWithError(w, code, msg)
}

func tokenResponse(s *models.Session) TokenResponse {
	return TokenResponse{
		AccessToken:           string(s.AccessToken),
		RefreshToken:          string(s.RefreshToken),
		AccessTokenExpiresAt:  s.AccessExpiresAt,
		RefreshTokenExpiresAt: s.RefreshExpiresAt,
	}
}
