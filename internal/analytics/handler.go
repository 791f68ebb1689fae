package analytics

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/Wuchinator/artisan-market/internal/interaction"
	"github.com/Wuchinator/artisan-market/pkg/respond"
	"go.uber.org/zap"
)

const (
	defaultRange    = 30 * 24 * time.Hour
	defaultTopLimit = 10
	maxTopLimit     = 100
)

type Handler struct {
	service *Service
	now     func() time.Time
	logger  *zap.Logger
}

func NewHandler(service *Service, logger *zap.Logger) *Handler {
	return &Handler{
		service: service,
		now:     time.Now,
		logger:  logger,
	}
}

// Summaries handles GET /admin/interactions?from=&to=&kind=.
func (h *Handler) Summaries(w http.ResponseWriter, r *http.Request) {
	from, to, err := h.parseRange(r)
	if err != nil {
		respond.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	kind := r.URL.Query().Get("kind")
	if kind != "" && !interaction.Kind(kind).Valid() {
		respond.Error(w, http.StatusBadRequest, ErrUnknownKind.Error())
		return
	}

	summaries, err := h.service.GetSummaries(r.Context(), from, to, kind)
	if err != nil {
		h.logger.Error("failed to get summaries", zap.Error(err))
		respond.Error(w, http.StatusInternalServerError, "failed to get interaction summaries")
		return
	}

	respond.JSON(w, http.StatusOK, map[string]any{
		"from":      from.Format(time.DateOnly),
		"to":        to.Format(time.DateOnly),
		"summaries": summaries,
	})
}

// TopArtisans handles GET /admin/top-artisans?from=&to=&kind=&limit=.
func (h *Handler) TopArtisans(w http.ResponseWriter, r *http.Request) {
	from, to, err := h.parseRange(r)
	if err != nil {
		respond.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	q := r.URL.Query()
	var kinds []interaction.Kind
	for _, k := range q["kind"] {
		if !interaction.Kind(k).Valid() {
			respond.Error(w, http.StatusBadRequest, ErrUnknownKind.Error())
			return
		}
		kinds = append(kinds, interaction.Kind(k))
	}

	limit := defaultTopLimit
	if v := q.Get("limit"); v != "" {
		if limit, err = strconv.Atoi(v); err != nil || limit <= 0 {
			respond.Error(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
	}
	limit = min(limit, maxTopLimit)

	stats, err := h.service.TopArtisans(r.Context(), from, to, limit, kinds...)
	if err != nil {
		respond.Error(w, http.StatusInternalServerError, "failed to get top artisans")
		return
	}

	respond.JSON(w, http.StatusOK, map[string]any{"artisans": stats})
}

func (h *Handler) parseRange(r *http.Request) (time.Time, time.Time, error) {
	q := r.URL.Query()
	to := Day(h.now())
	from := Day(h.now().Add(-defaultRange))

	var err error
	if v := q.Get("from"); v != "" {
		if from, err = time.Parse(time.DateOnly, v); err != nil {
			return from, to, errors.New("from must be a YYYY-MM-DD date")
		}
	}
	if v := q.Get("to"); v != "" {
		if to, err = time.Parse(time.DateOnly, v); err != nil {
			return from, to, errors.New("to must be a YYYY-MM-DD date")
		}
	}
	if to.Before(from) {
		return from, to, errors.New("from must not be after to")
	}

	return from, to, nil
}
