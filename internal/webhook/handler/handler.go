package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"warden/internal/webhook/service"
	"warden/internal/webhook/signing"
	id "warden/pkg/domain"
	dErrors "warden/pkg/domain-errors"
	"warden/pkg/platform/httputil"
	"warden/pkg/requestcontext"
)

const maxEventsLimit = 1000

// Service is the webhook surface used by the HTTP layer.
type Service interface {
	Emit(ctx context.Context, resultID id.ResultID, trigger signing.EventType, opts service.EmitOptions) (*signing.Event, error)
	Verify(ctx context.Context, body []byte, headers signing.Headers) (*signing.Verification, error)
	Log(ctx context.Context, limit int) ([]signing.Event, error)
}

type Handler struct {
	service Service
	logger  *slog.Logger
}

func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

func (h *Handler) Register(r chi.Router) {
	r.Post("/webhooks/emit", h.HandleEmit)
	r.Post("/webhooks/verify", h.HandleVerify)
	r.Get("/webhooks/events", h.HandleEvents)
}

// HandleEmit signs and logs an event for a record's current state.
func (h *Handler) HandleEmit(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[EmitRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}
	ev, err := h.service.Emit(ctx, id.ResultID(req.ResultID), signing.EventType(req.EventType),
		service.EmitOptions{DecisionTags: req.DecisionTags})
	if err != nil {
		h.logger.WarnContext(ctx, "webhook emit failed",
			"request_id", requestID,
			"result_id", req.ResultID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, ev)
}

// HandleVerify reports the verification trace. An invalid signature is still
// a 200; the result says why it failed.
func (h *Handler) HandleVerify(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	req, ok := httputil.DecodeAndPrepare[VerifyRequest](w, r, h.logger, ctx, requestcontext.RequestID(ctx))
	if !ok {
		return
	}
	v, err := h.service.Verify(ctx, []byte(req.PayloadJSON), req.Headers)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, v)
}

func (h *Handler) HandleEvents(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 || n > maxEventsLimit {
			httputil.WriteError(w, dErrors.New(dErrors.CodeValidation, "limit must be between 0 and 1000"))
			return
		}
		limit = n
	}
	events, err := h.service.Log(r.Context(), limit)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, EventsResponse{Count: len(events), Events: events})
}
