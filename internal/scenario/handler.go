package scenario

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/cryptocoin/app/internal/httpx"
	"github.com/cryptocoin/app/pkg/sanitizer"
)

// Handler serves the scenario CRUD API.
type Handler struct {
	store Store
	log   *slog.Logger
}

// NewHandler wires the scenario endpoints. A nil logger discards
// output.
func NewHandler(store Store, log *slog.Logger) *Handler {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Handler{store: store, log: log}
}

// Routes mounts the scenario endpoints on the router.
func (h *Handler) Routes(r chi.Router) {
	r.Get("/api/scenarios", h.list)
	r.Post("/api/scenarios", h.create)
	r.Get("/api/scenarios/{id}", h.get)
	r.Delete("/api/scenarios/{id}", h.delete)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	list, err := h.store.List(r.Context())
	if err != nil {
		h.log.ErrorContext(r.Context(), "scenario list failed", slog.Any("error", err))
		httpx.Error(w, http.StatusInternalServerError, "Failed to fetch scenarios")
		return
	}
	httpx.JSON(w, http.StatusOK, list)
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req CreateRequest
	if err := httpx.Decode(r, &req); err != nil {
		if httpx.IsValidationError(err) {
			httpx.Error(w, http.StatusBadRequest, "Invalid input")
			return
		}
		h.log.ErrorContext(r.Context(), "scenario decode failed", slog.Any("error", err))
		httpx.Error(w, http.StatusBadRequest, "Invalid input")
		return
	}

	sc := Scenario{
		Name:           optional(sanitizer.Text(req.Name)),
		Email:          optional(req.Email),
		CalculatorData: req.CalculatorData,
		PlannerData:    req.PlannerData,
	}

	created, err := h.store.Create(r.Context(), sc)
	if err != nil {
		h.log.ErrorContext(r.Context(), "scenario create failed", slog.Any("error", err))
		httpx.Error(w, http.StatusInternalServerError, "Failed to create scenario")
		return
	}

	httpx.JSON(w, http.StatusCreated, map[string]string{"id": created.ID})
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	sc, err := h.store.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			httpx.Error(w, http.StatusNotFound, "Scenario not found")
			return
		}
		h.log.ErrorContext(r.Context(), "scenario get failed", slog.Any("error", err))
		httpx.Error(w, http.StatusInternalServerError, "Failed to fetch scenario")
		return
	}
	httpx.JSON(w, http.StatusOK, sc)
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	if err := h.store.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		if errors.Is(err, ErrNotFound) {
			httpx.Error(w, http.StatusNotFound, "Scenario not found")
			return
		}
		h.log.ErrorContext(r.Context(), "scenario delete failed", slog.Any("error", err))
		httpx.Error(w, http.StatusInternalServerError, "Failed to delete scenario")
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]bool{"success": true})
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
