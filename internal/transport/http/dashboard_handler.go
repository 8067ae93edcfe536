package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	apierrors "genaidash/internal/errors"
	"genaidash/internal/history"
	"genaidash/internal/middleware"
	"genaidash/internal/services"
	api "genaidash/pkg/contracts/api/v1"
)

// MaxHistoryLimit bounds the limit query parameter of the run listing
const MaxHistoryLimit = 500

// DashboardHandler handles data processing and dashboard generation requests
// with RFC 7807 errors
type DashboardHandler struct {
	service      DashboardServiceInterface
	validator    *middleware.RequestValidator
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
}

// NewDashboardHandler creates a new dashboard handler
func NewDashboardHandler(service DashboardServiceInterface, logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *DashboardHandler {
	return &DashboardHandler{
		service:      service,
		validator:    middleware.NewRequestValidator(logger, errorHandler),
		logger:       logger.With(slog.String("component", "dashboard_handler")),
		errorHandler: errorHandler,
	}
}

// Routes returns the dashboard routes
func (h *DashboardHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(render.SetContentType(render.ContentTypeJSON))

	r.Get("/settings", h.GetSettings)
	r.With(middleware.ContentTypeValidator("application/json")).Post("/process", h.Process)

	r.Route("/dashboards", func(r chi.Router) {
		r.Get("/", h.ListRuns)
		r.Get("/{runID}", h.GetRun)
		r.With(middleware.ContentTypeValidator("application/json")).Post("/", h.Generate)
	})

	return r
}

// GetSettings handles GET /api/settings
func (h *DashboardHandler) GetSettings(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, h.service.Settings())
}

// Process handles POST /api/process
func (h *DashboardHandler) Process(w http.ResponseWriter, r *http.Request) {
	var req api.ProcessRequest
	if !h.validator.Decode(w, r, &req) {
		return
	}

	summary, err := h.service.Summarize(r.Context(), req.Sources)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	render.JSON(w, r, api.ProcessResponse{
		Rows:    summary.Rows,
		Columns: summary.Columns,
	})
}

// Generate handles POST /api/dashboards
func (h *DashboardHandler) Generate(w http.ResponseWriter, r *http.Request) {
	var req api.GenerateDashboardRequest
	if !h.validator.Decode(w, r, &req) {
		return
	}

	run, err := h.service.Generate(r.Context(), services.GenerateRequest{
		Region:       req.Region,
		Sources:      req.Sources,
		OutputBucket: req.OutputBucket,
	})
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	h.logger.InfoContext(r.Context(), "dashboard request completed",
		slog.String("run_id", run.ID),
		slog.Int("rows", run.Rows))

	render.Status(r, http.StatusCreated)
	render.JSON(w, r, api.GenerateDashboardResponse{
		RunID: run.ID,
		URL:   run.URL,
	})
}

// ListRuns handles GET /api/dashboards
func (h *DashboardHandler) ListRuns(w http.ResponseWriter, r *http.Request) {
	limit, ok := h.validator.QueryInt(w, r, "limit", 1, MaxHistoryLimit, history.DefaultListLimit)
	if !ok {
		return
	}

	runs, err := h.service.History(r.Context(), limit)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	render.JSON(w, r, api.HistoryResponse{Runs: runs})
}

// GetRun handles GET /api/dashboards/{runID}
func (h *DashboardHandler) GetRun(w http.ResponseWriter, r *http.Request) {
	run, err := h.service.Run(r.Context(), chi.URLParam(r, "runID"))
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	render.JSON(w, r, run)
}
