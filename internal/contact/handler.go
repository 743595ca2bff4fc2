package contact

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/cryptocoin/app/internal/httpx"
	"github.com/cryptocoin/app/pkg/job"
	"github.com/cryptocoin/app/pkg/sanitizer"
)

// Enqueuer is the slice of the job manager the handler needs.
type Enqueuer interface {
	Enqueue(ctx context.Context, name string, payload any, opts ...job.EnqueueOption) error
}

// Handler serves the contact form endpoint.
type Handler struct {
	jobs Enqueuer
	log  *slog.Logger
}

// NewHandler wires the contact endpoint. A nil logger discards output.
func NewHandler(jobs Enqueuer, log *slog.Logger) *Handler {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Handler{jobs: jobs, log: log}
}

// Routes mounts the contact endpoint on the router.
func (h *Handler) Routes(r chi.Router) {
	r.Post("/api/contact", h.submit)
}

func (h *Handler) submit(w http.ResponseWriter, r *http.Request) {
	var msg Message
	if err := httpx.Decode(r, &msg); err != nil {
		httpx.Error(w, http.StatusBadRequest, "Invalid input")
		return
	}

	// User-supplied text ends up in an email body; strip markup before
	// it leaves the process.
	msg.Name = sanitizer.Text(msg.Name)
	msg.Message = sanitizer.Text(msg.Message)

	if err := h.jobs.Enqueue(r.Context(), TaskName, msg, job.MaxAttempts(5)); err != nil {
		h.log.ErrorContext(r.Context(), "contact enqueue failed", slog.Any("error", err))
		httpx.Error(w, http.StatusInternalServerError, "Failed to process message")
		return
	}

	httpx.JSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "Message received",
	})
}
