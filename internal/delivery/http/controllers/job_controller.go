package controllers

import (
	"log/slog"
	"net/http"

	"noshowblocklist/internal/delivery/http/helpers"
	"noshowblocklist/internal/delivery/http/middleware"
	"noshowblocklist/internal/domain"
)

// ScanSuccessResponse is the success envelope for POST /jobs/scan.
type ScanSuccessResponse struct {
	Data  *domain.ScanReport `json:"data"`
	Error *helpers.APIError  `json:"error"`
}

// DecisionsSuccessResponse is the success envelope for GET /events/{slug}/decisions.
type DecisionsSuccessResponse struct {
	Data  []*domain.Decision `json:"data"`
	Error *helpers.APIError  `json:"error"`
}

type JobController struct {
	Logger  *slog.Logger
	Scanner domain.NoShowScanner
	Journal domain.DecisionJournal
}

func NewJobController(logger *slog.Logger, scanner domain.NoShowScanner, journal domain.DecisionJournal) *JobController {
	return &JobController{
		Logger:  logger,
		Scanner: scanner,
		Journal: journal,
	}
}

// RunScan godoc
// @Summary Run the no-show scan now
// @Description Scans every ended, unchecked registry event and updates the blocklist. Waits for any run already holding the sheets lock.
// @Tags jobs
// @Produce json
// @Security BearerAuth
// @Success 200 {object} controllers.ScanSuccessResponse "data contains the scan report"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /jobs/scan [post]
func (c *JobController) RunScan(w http.ResponseWriter, r *http.Request) {
	operator, _ := middleware.OperatorFromContext(r.Context())
	c.Logger.InfoContext(r.Context(), "manual scan requested", "operator", operator)

	report, err := c.Scanner.Scan(r.Context())
	if err != nil {
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, "scan failed")
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, report)
}

// ListDecisions godoc
// @Summary List approval decisions for an event
// @Description Returns the approve and deny calls recorded for the event, oldest first. Empty when no journal database is configured.
// @Tags jobs
// @Produce json
// @Security BearerAuth
// @Param slug path string true "Event slug"
// @Success 200 {object} controllers.DecisionsSuccessResponse "data contains the decisions"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{slug}/decisions [get]
func (c *JobController) ListDecisions(w http.ResponseWriter, r *http.Request) {
	slug := r.PathValue("slug")
	if slug == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "event slug is required")
		return
	}
	decisions, err := c.Journal.ListByEvent(r.Context(), slug)
	if err != nil {
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, "failed to list decisions")
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, decisions)
}
