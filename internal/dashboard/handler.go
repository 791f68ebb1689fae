package dashboard

import (
	"net/http"

	"github.com/Wuchinator/artisan-market/pkg/respond"
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

// Get handles GET /admin/dashboard.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	d, err := h.service.Get(r.Context())
	if err != nil {
		h.logger.Error("failed to build dashboard", zap.Error(err))
		respond.Error(w, http.StatusInternalServerError, "failed to build dashboard")
		return
	}

	w.Header().Set("Cache-Control", "no-store")
	respond.JSON(w, http.StatusOK, d)
}
