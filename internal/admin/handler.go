package admin

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"warden/pkg/platform/httputil"
	"warden/pkg/requestcontext"
)

type service interface {
	State(ctx context.Context) (*StateResponse, error)
	Reset(ctx context.Context) error
}

type Handler struct {
	service service
	logger  *slog.Logger
}

func NewHandler(svc service, logger *slog.Logger) *Handler {
	return &Handler{service: svc, logger: logger}
}

// Register mounts the routes on r. Callers apply the admin token guard.
func (h *Handler) Register(r chi.Router) {
	r.Get("/admin/state", h.HandleState)
	r.Post("/admin/reset", h.HandleReset)
}

func (h *Handler) HandleState(w http.ResponseWriter, r *http.Request) {
	state, err := h.service.State(r.Context())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, state)
}

func (h *Handler) HandleReset(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if err := h.service.Reset(ctx); err != nil {
		h.logger.ErrorContext(ctx, "reset failed",
			"request_id", requestcontext.RequestID(ctx),
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, ResetResponse{Success: true})
}
