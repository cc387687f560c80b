package profile

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/equiptrack/inventory-management/internal/audit"
	"github.com/equiptrack/inventory-management/internal/auth"
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

// GetProfiles handles GET /profiles
func (h *Handler) GetProfiles(w http.ResponseWriter, r *http.Request) {
	profiles, err := h.Service.GetActiveProfiles(r.Context())
	if err != nil {
		h.WriteError(w, http.StatusInternalServerError, "failed to load equipment profiles")
		return
	}

	h.WriteJSON(w, http.StatusOK, ProfilesResponse{Profiles: profiles})
}

// CreateProfile handles POST /profiles
func (h *Handler) CreateProfile(w http.ResponseWriter, r *http.Request) {
	var dto CreateProfileDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	p, err := h.Service.Create(r.Context(), dto)
	if err != nil {
		if errors.Is(err, ErrAlreadyExists) {
			h.WriteError(w, http.StatusConflict, "equipment profile already exists")
			return
		}
		h.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	if ident, ok := auth.IdentityFromContext(r.Context()); ok {
		h.Audit.Record(ident, audit.ModuleProfiles, audit.ActionCreate, fmt.Sprintf("created equipment profile %s", p.Name))
	}

	h.WriteJSON(w, http.StatusCreated, p)
}

// DeactivateProfile handles DELETE /profiles/{id}
func (h *Handler) DeactivateProfile(w http.ResponseWriter, r *http.Request) {
	idStr := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil || id <= 0 {
		h.WriteError(w, http.StatusBadRequest, "invalid profile id")
		return
	}

	if err := h.Service.Deactivate(r.Context(), id); err != nil {
		if errors.Is(err, ErrNotFound) {
			h.WriteError(w, http.StatusNotFound, "equipment profile not found")
			return
		}
		h.Logger.Error("failed to deactivate profile", "profile_id", id, "error", err)
		h.WriteError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	if ident, ok := auth.IdentityFromContext(r.Context()); ok {
		h.Audit.Record(ident, audit.ModuleProfiles, audit.ActionDelete, fmt.Sprintf("deactivated equipment profile %d", id))
	}

	w.WriteHeader(http.StatusNoContent)
}
