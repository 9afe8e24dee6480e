// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	service "github.com/okian/salesboard/internal/app"
	"github.com/okian/salesboard/internal/domain/leaderboard"
	"github.com/okian/salesboard/internal/domain/model"
	"github.com/okian/salesboard/pkg/logger"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	Settings(ctx context.Context) service.Settings
	Leaderboard(ctx context.Context, start, end model.Date) (leaderboard.Report, error)
	LogActivity(ctx context.Context, req service.LogRequest) (model.ActivityEvent, error)
	UpdateScores(ctx context.Context, activities []model.Activity) error
	UpdateMembers(ctx context.Context, members []model.Member) error
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler *HealthHandler
	statsHandler  *StatsHandler
	dataHandler   *DataHandler
	exportHandler *ExportHandler
	logger        logger.Logger
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider) *Server {
	log := logger.Named("api")
	return &Server{
		healthHandler: NewHealthHandler(),
		statsHandler:  NewStatsHandler(statsProvider),
		dataHandler:   NewDataHandler(deps, log),
		exportHandler: NewExportHandler(deps, log),
		logger:        log,
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	if mux == nil {
		panic("mux is nil")
	}
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/api/data", MetricsMiddleware(RecoverMiddleware(s.dataHandler.HandleData, s.logger), "data"))
	mux.HandleFunc("/api/leaderboard.xlsx", MetricsMiddleware(RecoverMiddleware(s.exportHandler.HandleExport, s.logger), "export"))
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type messageResponse struct {
	Message string               `json:"message"`
	Event   *model.ActivityEvent `json:"event,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil && status < http.StatusInternalServerError {
		msg = err.Error()
		var apiErr *Error
		if errors.As(err, &apiErr) {
			msg = apiErr.Message()
		}
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// classify maps a handler error to its status code and error code.
// Anything not recognised as a client error is a 500.
func classify(err error) (int, string) {
	switch {
	case errors.Is(err, ErrMethodNotAllowed):
		return http.StatusMethodNotAllowed, "method_not_allowed"
	case errors.Is(err, ErrUnknownAction):
		return http.StatusBadRequest, "unknown_action"
	case errors.Is(err, service.ErrUnknownMember):
		return http.StatusBadRequest, "unknown_member"
	case errors.Is(err, service.ErrDuplicateMemberName):
		return http.StatusBadRequest, "duplicate_member"
	case errors.Is(err, leaderboard.ErrInvalidRange):
		return http.StatusBadRequest, "invalid_range"
	case errors.Is(err, service.ErrInvalidRequest), errors.Is(err, ErrBadRequest):
		return http.StatusBadRequest, "bad_request"
	default:
		return http.StatusInternalServerError, "internal_error"
	}
}

// fail writes err using classify. Server errors are logged, never echoed.
func fail(ctx context.Context, w http.ResponseWriter, log logger.Logger, err error) {
	status, code := classify(err)
	if status >= http.StatusInternalServerError {
		log.Error(ctx, "request failed", logger.Error(err))
	}
	writeError(w, status, code, err)
}
