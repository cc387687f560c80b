package user

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/equiptrack/inventory-management/internal"
	"github.com/equiptrack/inventory-management/internal/audit"
	"github.com/equiptrack/inventory-management/internal/auth"
	"github.com/equiptrack/inventory-management/internal/permissions"
	"github.com/equiptrack/inventory-management/internal/transport"
	"github.com/equiptrack/inventory-management/pkg/logger"
	"github.com/go-chi/chi"
)

type Handler struct {
	*transport.BaseHandler
	Service *Service
	Audit   audit.Recorder
}

func NewHandler(svc *Service, recorder audit.Recorder) *Handler {
	lg := logger.LoggerWrapper()
	if lg == nil {
		lg = slog.Default()
	}
	return &Handler{
		BaseHandler: transport.NewBaseHandler(lg),
		Service:     svc,
		Audit:       recorder,
	}
}

// GetCurrentUser handles GET /users/me
func (h *Handler) GetCurrentUser(w http.ResponseWriter, r *http.Request) {
	ident, ok := auth.IdentityFromContext(r.Context())
	if !ok || !ident.Resolved() {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	u, err := h.Service.GetByID(r.Context(), ident.UserID)
	if err != nil {
		h.Logger.Error("failed to load current user", "user_id", ident.UserID, "error", err)
		h.WriteError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	h.WriteJSON(w, http.StatusOK, u)
}

// CreateUser handles POST /users
func (h *Handler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var dto CreateUserDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	u, err := h.Service.Create(r.Context(), dto)
	if err != nil {
		h.Logger.Error("user creation failed", "email", dto.Email, "error", err)
		switch {
		case errors.Is(err, ErrAlreadyExists):
			h.WriteAppError(w, internal.ErrUserAlreadyExists)
		default:
			var verr ValidationError
			if errors.As(err, &verr) {
				h.WriteError(w, http.StatusBadRequest, err.Error())
				return
			}
			h.WriteError(w, http.StatusInternalServerError, "internal server error")
		}
		return
	}

	if ident, ok := auth.IdentityFromContext(r.Context()); ok {
		h.Audit.Record(ident, audit.ModuleUsers, audit.ActionCreate, fmt.Sprintf("created user %s (%s)", u.Email, u.Role))
	}

	h.WriteJSON(w, http.StatusCreated, u)
}

// GetUser handles GET /users/{id}
func (h *Handler) GetUser(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.pathUserID(w, r)
	if !ok {
		return
	}

	u, err := h.Service.GetByID(r.Context(), userID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			h.WriteAppError(w, internal.ErrUserNotFound)
			return
		}
		h.Logger.Error("failed to load user", "user_id", userID, "error", err)
		h.WriteError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	h.WriteJSON(w, http.StatusOK, u)
}

// ListUsers handles GET /users
func (h *Handler) ListUsers(w http.ResponseWriter, r *http.Request) {
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	users, total, err := h.Service.List(r.Context(), offset, limit)
	if err != nil {
		h.Logger.Error("failed to list users", "error", err)
		h.WriteError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"users": users,
		"total": total,
	})
}

// UpdatePermissions handles PUT /users/{id}/permissions
func (h *Handler) UpdatePermissions(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.pathUserID(w, r)
	if !ok {
		return
	}

	var dto UpdatePermissionsDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	set, err := h.Service.UpdatePermissions(r.Context(), userID, dto)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			h.WriteError(w, http.StatusNotFound, "user not found")
			return
		}
		h.Logger.Error("permission update failed", "user_id", userID, "error", err)
		h.WriteError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	if ident, ok := auth.IdentityFromContext(r.Context()); ok {
		h.Audit.Record(ident, audit.ModuleUsers, audit.ActionUpdate, fmt.Sprintf("updated permissions for user %d", userID))
	}

	h.WriteJSON(w, http.StatusOK, map[string]permissions.Set{"permissions": set})
}

// SetActive handles PUT /users/{id}/active
func (h *Handler) SetActive(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.pathUserID(w, r)
	if !ok {
		return
	}

	var body struct {
		Active bool `json:"active"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.Service.SetActive(r.Context(), userID, body.Active); err != nil {
		if errors.Is(err, ErrNotFound) {
			h.WriteError(w, http.StatusNotFound, "user not found")
			return
		}
		h.Logger.Error("failed to update user status", "user_id", userID, "error", err)
		h.WriteError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	if ident, ok := auth.IdentityFromContext(r.Context()); ok {
		h.Audit.Record(ident, audit.ModuleUsers, audit.ActionUpdate, fmt.Sprintf("set user %d active=%t", userID, body.Active))
	}

	h.WriteJSON(w, http.StatusOK, map[string]bool{"active": body.Active})
}

func (h *Handler) pathUserID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	idStr := chi.URLParam(r, "id")
	userID, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil || userID <= 0 {
		h.WriteError(w, http.StatusBadRequest, "invalid user id")
		return 0, false
	}
	return userID, true
}
