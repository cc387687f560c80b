package asset

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/equiptrack/inventory-management/internal"
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

// CreateAsset handles POST /assets
func (h *Handler) CreateAsset(w http.ResponseWriter, r *http.Request) {
	var dto CreateAssetDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	a, err := h.Service.Create(r.Context(), dto)
	if err != nil {
		if errors.Is(err, ErrTagAlreadyExists) {
			h.WriteError(w, http.StatusConflict, "asset tag already exists")
			return
		}
		h.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	h.record(r, audit.ActionCreate, fmt.Sprintf("registered asset %s", a.Tag))
	h.WriteJSON(w, http.StatusCreated, a)
}

// GetAsset handles GET /assets/{id}
func (h *Handler) GetAsset(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathAssetID(w, r)
	if !ok {
		return
	}

	a, err := h.Service.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			h.WriteAppError(w, internal.ErrAssetNotFound)
			return
		}
		h.Logger.Error("failed to load asset", "asset_id", id, "error", err)
		h.WriteError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	h.WriteJSON(w, http.StatusOK, a)
}

// ListAssets handles GET /assets
func (h *Handler) ListAssets(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	offset, _ := strconv.Atoi(q.Get("offset"))
	limit, _ := strconv.Atoi(q.Get("limit"))
	assignedTo, _ := strconv.ParseInt(q.Get("assigned_to"), 10, 64)
	departmentID, _ := strconv.ParseInt(q.Get("department_id"), 10, 64)

	filter := ListFilter{
		Status:       q.Get("status"),
		AssignedTo:   assignedTo,
		DepartmentID: departmentID,
		Offset:       offset,
		Limit:        limit,
	}

	assets, total, err := h.Service.List(r.Context(), filter)
	if err != nil {
		h.Logger.Error("failed to list assets", "error", err)
		h.WriteError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"assets": assets,
		"total":  total,
	})
}

// UpdateAsset handles PATCH /assets/{id}
func (h *Handler) UpdateAsset(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathAssetID(w, r)
	if !ok {
		return
	}

	var dto UpdateAssetDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	a, err := h.Service.Update(r.Context(), id, dto)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			h.WriteAppError(w, internal.ErrAssetNotFound)
			return
		}
		h.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	h.record(r, audit.ActionUpdate, fmt.Sprintf("updated asset %s", a.Tag))
	h.WriteJSON(w, http.StatusOK, a)
}

// AssignAsset handles PATCH /assets/{id}/assign
func (h *Handler) AssignAsset(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathAssetID(w, r)
	if !ok {
		return
	}

	var dto AssignAssetDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := dto.Validate(); err != nil {
		h.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	a, err := h.Service.Assign(r.Context(), id, dto.UserID)
	if err != nil {
		h.writeTransitionError(w, id, err)
		return
	}

	h.record(r, audit.ActionAssign, fmt.Sprintf("assigned asset %s to user %d", a.Tag, dto.UserID))
	h.WriteJSON(w, http.StatusOK, a)
}

// ReturnAsset handles PATCH /assets/{id}/return
func (h *Handler) ReturnAsset(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, (*Service).Return, audit.ActionAssign, "returned asset %s")
}

// StartMaintenance handles PATCH /assets/{id}/maintenance
func (h *Handler) StartMaintenance(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, (*Service).SendToMaintenance, audit.ActionUpdate, "sent asset %s to maintenance")
}

// CompleteMaintenance handles PATCH /assets/{id}/maintenance/complete
func (h *Handler) CompleteMaintenance(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, (*Service).CompleteMaintenance, audit.ActionUpdate, "completed maintenance for asset %s")
}

// RetireAsset handles PATCH /assets/{id}/retire
func (h *Handler) RetireAsset(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, (*Service).Retire, audit.ActionDelete, "retired asset %s")
}

func (h *Handler) transition(w http.ResponseWriter, r *http.Request, apply func(*Service, context.Context, int64) (*Asset, error), actionID int, detailFormat string) {
	id, ok := h.pathAssetID(w, r)
	if !ok {
		return
	}

	a, err := apply(h.Service, r.Context(), id)
	if err != nil {
		h.writeTransitionError(w, id, err)
		return
	}

	h.record(r, actionID, fmt.Sprintf(detailFormat, a.Tag))
	h.WriteJSON(w, http.StatusOK, a)
}

func (h *Handler) writeTransitionError(w http.ResponseWriter, id int64, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		h.WriteAppError(w, internal.ErrAssetNotFound)
	case errors.Is(err, ErrInvalidTransition):
		h.WriteError(w, http.StatusConflict, "asset status does not allow this operation")
	default:
		h.Logger.Error("asset operation failed", "asset_id", id, "error", err)
		h.WriteError(w, http.StatusInternalServerError, "internal server error")
	}
}

func (h *Handler) record(r *http.Request, actionID int, details string) {
	if ident, ok := auth.IdentityFromContext(r.Context()); ok {
		h.Audit.Record(ident, audit.ModuleAssets, actionID, details)
	}
}

func (h *Handler) pathAssetID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	idStr := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil || id <= 0 {
		h.WriteError(w, http.StatusBadRequest, "invalid asset id")
		return 0, false
	}
	return id, true
}
