package market

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/cryptocoin/app/internal/httpx"
)

// Handler serves the market data endpoint.
type Handler struct {
	service *Service
	log     *slog.Logger
}

// NewHandler wires the market endpoint. A nil logger discards output.
func NewHandler(service *Service, log *slog.Logger) *Handler {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Handler{service: service, log: log}
}

// Routes mounts the market endpoint on the router.
func (h *Handler) Routes(r chi.Router) {
	r.Get("/api/market/latest", h.latest)
}

func (h *Handler) latest(w http.ResponseWriter, r *http.Request) {
	snap, err := h.service.Latest(r.Context())
	if err != nil {
		h.log.ErrorContext(r.Context(), "market fetch failed", slog.Any("error", err))
		httpx.Error(w, http.StatusInternalServerError, "Failed to fetch market data")
		return
	}
	httpx.JSON(w, http.StatusOK, snap)
}
