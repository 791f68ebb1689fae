package artisan

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/Wuchinator/artisan-market/internal/identity"
	"github.com/Wuchinator/artisan-market/pkg/respond"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type Handler struct {
	service *Service
	logger  *zap.Logger
}

func NewHandler(service *Service, logger *zap.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// List handles GET /artisans?profession=&city=&limit=&offset=.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	filter, err := parseFilter(r)
	if err != nil {
		respond.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	filter.Status = StatusApproved

	h.list(w, r, filter)
}

// ListForModeration handles GET /admin/artisans?status=.
func (h *Handler) ListForModeration(w http.ResponseWriter, r *http.Request) {
	filter, err := parseFilter(r)
	if err != nil {
		respond.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	filter.Status = StatusPending
	if s := Status(r.URL.Query().Get("status")); s != "" {
		if !s.Valid() {
			respond.Error(w, http.StatusBadRequest, ErrInvalidStatus.Error())
			return
		}
		filter.Status = s
	}

	h.list(w, r, filter)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request, filter Filter) {
	artisans, err := h.service.List(r.Context(), filter)
	if err != nil {
		h.logger.Error("failed to list artisans", zap.Error(err))
		respond.Error(w, http.StatusInternalServerError, "failed to list artisans")
		return
	}

	respond.JSON(w, http.StatusOK, map[string]any{"artisans": artisans})
}

// Get handles GET /artisans/{id}. Profiles that are not approved are only
// visible to their owner and to admins.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	artisanID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respond.Error(w, http.StatusBadRequest, ErrInvalidArtisanID.Error())
		return
	}

	a, err := h.service.Get(r.Context(), artisanID)
	if err != nil {
		if errors.Is(err, ErrArtisanNotFound) {
			respond.Error(w, http.StatusNotFound, err.Error())
			return
		}
		h.logger.Error("failed to get artisan", zap.Error(err), zap.String("artisan_id", artisanID.String()))
		respond.Error(w, http.StatusInternalServerError, "failed to get artisan")
		return
	}

	if !a.Visible() {
		viewer := identity.FromContext(r.Context())
		if viewer == nil || (!viewer.IsAdmin() && viewer.UserID != a.UserID) {
			respond.Error(w, http.StatusNotFound, ErrArtisanNotFound.Error())
			return
		}
	}

	respond.JSON(w, http.StatusOK, a)
}

// Register handles POST /artisans.
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var in RegisterInput
	if err := respond.Decode(r, &in); err != nil {
		respond.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	a, err := h.service.Register(r.Context(), identity.FromContext(r.Context()), in)
	switch {
	case err == nil:
		respond.JSON(w, http.StatusCreated, a)
	case errors.Is(err, ErrUnauthorized):
		respond.Error(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, ErrAlreadyRegistered):
		respond.Error(w, http.StatusConflict, err.Error())
	case isValidationError(err):
		respond.Error(w, http.StatusBadRequest, err.Error())
	default:
		respond.Error(w, http.StatusInternalServerError, "failed to register artisan")
	}
}

type statusRequest struct {
	Status Status `json:"status"`
}

// SetStatus handles PATCH /admin/artisans/{id}/status.
func (h *Handler) SetStatus(w http.ResponseWriter, r *http.Request) {
	artisanID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respond.Error(w, http.StatusBadRequest, ErrInvalidArtisanID.Error())
		return
	}

	var req statusRequest
	if err := respond.Decode(r, &req); err != nil {
		respond.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	err = h.service.SetStatus(r.Context(), artisanID, req.Status)
	switch {
	case err == nil:
		respond.JSON(w, http.StatusOK, map[string]any{"id": artisanID, "status": req.Status})
	case errors.Is(err, ErrInvalidStatus):
		respond.Error(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, ErrArtisanNotFound):
		respond.Error(w, http.StatusNotFound, err.Error())
	default:
		h.logger.Error("failed to set artisan status", zap.Error(err), zap.String("artisan_id", artisanID.String()))
		respond.Error(w, http.StatusInternalServerError, "failed to update artisan status")
	}
}

func parseFilter(r *http.Request) (Filter, error) {
	q := r.URL.Query()
	filter := Filter{
		Profession: q.Get("profession"),
		City:       q.Get("city"),
	}

	var err error
	if v := q.Get("limit"); v != "" {
		if filter.Limit, err = strconv.Atoi(v); err != nil {
			return filter, errors.New("limit must be an integer")
		}
	}
	if v := q.Get("offset"); v != "" {
		if filter.Offset, err = strconv.Atoi(v); err != nil {
			return filter, errors.New("offset must be an integer")
		}
	}

	return filter, nil
}

func isValidationError(err error) bool {
	for _, target := range []error{
		ErrInvalidFullName,
		ErrInvalidProfession,
		ErrInvalidCity,
		ErrMissingContact,
		ErrBioTooLong,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
