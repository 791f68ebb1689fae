package review

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

type createRequest struct {
	Rating  int    `json:"rating"`
	Comment string `json:"comment"`
}

// Create handles POST /artisans/{id}/reviews.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	artisanID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respond.Error(w, http.StatusBadRequest, ErrInvalidArtisanID.Error())
		return
	}

	var req createRequest
	if err := respond.Decode(r, &req); err != nil {
		respond.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	review, err := h.service.Create(r.Context(), identity.FromContext(r.Context()), artisanID, req.Rating, req.Comment)
	switch {
	case err == nil:
		respond.JSON(w, http.StatusCreated, review)
	case errors.Is(err, ErrUnauthorized):
		respond.Error(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, ErrInvalidRating), errors.Is(err, ErrCommentTooLong):
		respond.Error(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, ErrDuplicateReview):
		respond.Error(w, http.StatusConflict, err.Error())
	case errors.Is(err, ErrSelfReview):
		respond.Error(w, http.StatusForbidden, err.Error())
	case errors.Is(err, ErrArtisanNotFound):
		respond.Error(w, http.StatusNotFound, err.Error())
	default:
		respond.Error(w, http.StatusInternalServerError, "failed to create review")
	}
}

// List handles GET /artisans/{id}/reviews.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	artisanID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respond.Error(w, http.StatusBadRequest, ErrInvalidArtisanID.Error())
		return
	}

	summary, err := h.service.ListByArtisan(r.Context(), artisanID)
	if err != nil {
		h.logger.Error("failed to list reviews", zap.Error(err), zap.String("artisan_id", artisanID.String()))
		respond.Error(w, http.StatusInternalServerError, "failed to list reviews")
		return
	}

	respond.JSON(w, http.StatusOK, summary)
}

// Delete handles DELETE /admin/reviews/{id}.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	reviewID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respond.Error(w, http.StatusBadRequest, ErrInvalidReviewID.Error())
		return
	}

	if err := h.service.Delete(r.Context(), reviewID); err != nil {
		if errors.Is(err, ErrReviewNotFound) {
			respond.Error(w, http.StatusNotFound, err.Error())
			return
		}
		h.logger.Error("failed to delete review", zap.Error(err), zap.String("review_id", reviewID.String()))
		respond.Error(w, http.StatusInternalServerError, "failed to delete review")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
