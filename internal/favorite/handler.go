package favorite

import (
	"errors"
	"net/http"

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

type toggleRequest struct {
	IsFavorite *bool `json:"isFavorite"`
}

// Toggle handles POST /artisans/{id}/favorite.
func (h *Handler) Toggle(w http.ResponseWriter, r *http.Request) {
	artisanID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respond.Error(w, http.StatusBadRequest, ErrInvalidArtisanID.Error())
		return
	}

	var req toggleRequest
	if err := respond.Decode(r, &req); err != nil {
		respond.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.IsFavorite == nil {
		respond.Error(w, http.StatusBadRequest, "isFavorite is required")
		return
	}

	result, err := h.service.Toggle(r.Context(), identity.FromContext(r.Context()), artisanID, *req.IsFavorite)
	switch {
	case err == nil:
		respond.JSON(w, http.StatusOK, result)
	case errors.Is(err, ErrUnauthorized):
		respond.JSON(w, http.StatusUnauthorized, result)
	case errors.Is(err, ErrAlreadyFavorite):
		respond.JSON(w, http.StatusConflict, result)
	case errors.Is(err, ErrArtisanNotFound):
		respond.JSON(w, http.StatusNotFound, result)
	default:
		respond.JSON(w, http.StatusInternalServerError, result)
	}
}

// Status handles GET /artisans/{id}/favorite.
func (h *Handler) Status(w http.ResponseWriter, r *http.Request) {
	artisanID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respond.Error(w, http.StatusBadRequest, ErrInvalidArtisanID.Error())
		return
	}

	isFavorite, err := h.service.IsFavorite(r.Context(), identity.FromContext(r.Context()), artisanID)
	if err != nil {
		if errors.Is(err, ErrUnauthorized) {
			respond.Error(w, http.StatusUnauthorized, err.Error())
			return
		}
		h.logger.Error("failed to read favorite status", zap.Error(err))
		respond.Error(w, http.StatusInternalServerError, "failed to read favorite status")
		return
	}

	respond.JSON(w, http.StatusOK, map[string]bool{"isFavorite": isFavorite})
}

// List handles GET /favorites.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	favorites, err := h.service.List(r.Context(), identity.FromContext(r.Context()))
	if err != nil {
		if errors.Is(err, ErrUnauthorized) {
			respond.Error(w, http.StatusUnauthorized, err.Error())
			return
		}
		respond.Error(w, http.StatusInternalServerError, "failed to list favorites")
		return
	}

	respond.JSON(w, http.StatusOK, map[string]any{"favorites": favorites})
}
