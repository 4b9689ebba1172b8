package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"warden/internal/screening/decision"
	"warden/internal/screening/models"
	"warden/internal/screening/service"
	"warden/internal/watchlist"
	id "warden/pkg/domain"
	"warden/pkg/platform/httputil"
	"warden/pkg/requestcontext"
)

// Service is the screening surface used by the HTTP layer.
type Service interface {
	DataFiles() []watchlist.DataFile
	Search(ctx context.Context, req service.SearchRequest) (*service.SearchResults, error)
	GetRecord(ctx context.Context, resultID id.ResultID) (*models.ScreeningRecord, error)
	SearchRecords(ctx context.Context, filter models.RecordFilter) ([]*models.ScreeningRecord, error)
	SetRecordState(ctx context.Context, resultID id.ResultID, patch models.StatePatch) (*models.ScreeningRecord, error)
	GetRun(ctx context.Context, runID id.RunID) (*models.Run, error)
	SearchRuns(ctx context.Context, filter models.RunFilter) ([]*models.Run, error)
	Decide(ctx context.Context, runID id.RunID, t decision.Thresholds) (*service.DecisionReport, error)
}

// Handler wires the lists, results and screening endpoints.
type Handler struct {
	service    Service
	logger     *slog.Logger
	thresholds decision.Thresholds
}

// New constructs a handler. thresholds fill in values a decide request omits.
func New(service Service, logger *slog.Logger, thresholds decision.Thresholds) *Handler {
	return &Handler{service: service, logger: logger, thresholds: thresholds}
}

func (h *Handler) Register(r chi.Router) {
	r.Get("/lists/datafiles", h.HandleDataFiles)
	r.Post("/lists/search", h.HandleSearch)

	r.Post("/results/records/search", h.HandleSearchRecords)
	r.Get("/results/records/{resultID}", h.HandleGetRecord)
	r.Post("/results/records/{resultID}/state", h.HandleSetRecordState)
	r.Post("/results/runs/search", h.HandleSearchRuns)
	r.Get("/results/runs/{runID}", h.HandleGetRun)

	r.Post("/screening/runs/{runID}/decisions", h.HandleDecide)
}

func (h *Handler) HandleDataFiles(w http.ResponseWriter, _ *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, DataFilesResponse{DataFiles: h.service.DataFiles()})
}

// HandleSearch handles POST /lists/search.
func (h *Handler) HandleSearch(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[SearchRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}
	res, err := h.service.Search(ctx, req.ToService())
	if err != nil {
		h.logger.WarnContext(ctx, "search failed",
			"request_id", requestID,
			"record_count", len(req.Input.Records),
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, FromSearchResults(res))
}

func (h *Handler) HandleGetRecord(w http.ResponseWriter, r *http.Request) {
	resultID, err := id.ParseResultID(chi.URLParam(r, "resultID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	rec, err := h.service.GetRecord(r.Context(), resultID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, rec)
}

func (h *Handler) HandleSearchRecords(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	req, ok := httputil.DecodeAndPrepare[SearchRecordsRequest](w, r, h.logger, ctx, requestcontext.RequestID(ctx))
	if !ok {
		return
	}
	recs, err := h.service.SearchRecords(ctx, req.ToFilter())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, RecordsResponse{Records: recs})
}

// HandleSetRecordState handles POST /results/records/{resultID}/state.
func (h *Handler) HandleSetRecordState(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	resultID, err := id.ParseResultID(chi.URLParam(r, "resultID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	req, ok := httputil.DecodeAndPrepare[SetStateRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}
	rec, err := h.service.SetRecordState(ctx, resultID, req.StatePatch)
	if err != nil {
		h.logger.WarnContext(ctx, "set record state failed",
			"request_id", requestID,
			"result_id", resultID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, SetStateResponse{Success: true, Record: rec})
}

func (h *Handler) HandleGetRun(w http.ResponseWriter, r *http.Request) {
	runID, err := id.ParseRunID(chi.URLParam(r, "runID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	run, err := h.service.GetRun(r.Context(), runID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, run)
}

func (h *Handler) HandleSearchRuns(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	req, ok := httputil.DecodeAndPrepare[SearchRunsRequest](w, r, h.logger, ctx, requestcontext.RequestID(ctx))
	if !ok {
		return
	}
	runs, err := h.service.SearchRuns(ctx, models.RunFilter{Status: models.RunStatus(req.Status)})
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, RunsResponse{Runs: runs})
}

// HandleDecide handles POST /screening/runs/{runID}/decisions. An empty
// body decides with the configured thresholds.
func (h *Handler) HandleDecide(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	runID, err := id.ParseRunID(chi.URLParam(r, "runID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	req := &DecideRequest{}
	if r.ContentLength != 0 {
		var ok bool
		if req, ok = httputil.DecodeAndPrepare[DecideRequest](w, r, h.logger, ctx, requestID); !ok {
			return
		}
	}
	report, err := h.service.Decide(ctx, runID, req.Thresholds(h.thresholds))
	if err != nil {
		h.logger.WarnContext(ctx, "decide failed",
			"request_id", requestID,
			"run_id", runID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, report)
}
