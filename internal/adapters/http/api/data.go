package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	service "github.com/okian/salesboard/internal/app"
	"github.com/okian/salesboard/internal/domain/model"
	"github.com/okian/salesboard/pkg/logger"
)

// Actions accepted by /api/data.
const (
	ActionSettings      = "settings"
	ActionLeaderboard   = "leaderboard"
	ActionLogActivity   = "logActivity"
	ActionUpdateScores  = "updateScores"
	ActionUpdateMembers = "updateMembers"
)

const maxBodyBytes = 1 << 20

// dataRequest is the POST envelope: an action name and its payload.
type dataRequest struct {
	Action  string          `json:"action"`
	Payload json.RawMessage `json:"payload"`
}

type scoresPayload struct {
	Activities *[]model.Activity `json:"activities"`
}

type membersPayload struct {
	Members *[]model.Member `json:"members"`
}

// DataHandler serves the action-dispatched /api/data endpoint.
type DataHandler struct {
	deps   Dependencies
	logger logger.Logger
}

// NewDataHandler creates a new data handler.
func NewDataHandler(deps Dependencies, log logger.Logger) *DataHandler {
	return &DataHandler{deps: deps, logger: log}
}

// HandleData handles GET and POST /api/data requests.
func (h *DataHandler) HandleData(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.handleGet(w, r)
	case http.MethodPost:
		h.handlePost(w, r)
	default:
		w.Header().Set("Allow", "GET, POST")
		fail(r.Context(), w, h.logger, NewKind("api.data", fmt.Errorf("%w: %s", ErrMethodNotAllowed, r.Method)))
	}
}

func (h *DataHandler) handleGet(w http.ResponseWriter, r *http.Request) {
	const op = "api.data.get"
	q := r.URL.Query()
	switch action := q.Get("action"); action {
	case ActionSettings:
		writeJSON(w, http.StatusOK, h.deps.Settings(r.Context()))
	case ActionLeaderboard:
		start, end, err := parseRange(q.Get("startDate"), q.Get("endDate"))
		if err != nil {
			fail(r.Context(), w, h.logger, WrapKind(op, ErrBadRequest, err))
			return
		}
		report, err := h.deps.Leaderboard(r.Context(), start, end)
		if err != nil {
			fail(r.Context(), w, h.logger, Wrap(op, err))
			return
		}
		writeJSON(w, http.StatusOK, report.Boards)
	default:
		fail(r.Context(), w, h.logger, WrapKind(op, ErrUnknownAction, fmt.Errorf("invalid GET action %q", action)))
	}
}

func (h *DataHandler) handlePost(w http.ResponseWriter, r *http.Request) {
	const op = "api.data.post"
	ctx := r.Context()

	var req dataRequest
	if err := decode(w, r, &req); err != nil {
		fail(ctx, w, h.logger, WrapKind(op, ErrBadRequest, err))
		return
	}

	switch req.Action {
	case ActionLogActivity:
		var payload service.LogRequest
		if err := decodePayload(req.Payload, &payload); err != nil {
			fail(ctx, w, h.logger, WrapKind(op, ErrBadRequest, err))
			return
		}
		e, err := h.deps.LogActivity(ctx, payload)
		if err != nil {
			fail(ctx, w, h.logger, Wrap(op, err))
			return
		}
		writeJSON(w, http.StatusCreated, messageResponse{Message: "Activity logged successfully.", Event: &e})

	case ActionUpdateScores:
		var payload scoresPayload
		if err := decodePayload(req.Payload, &payload); err != nil {
			fail(ctx, w, h.logger, WrapKind(op, ErrBadRequest, err))
			return
		}
		if payload.Activities == nil {
			fail(ctx, w, h.logger, WrapKind(op, ErrBadRequest, errors.New("payload.activities is required")))
			return
		}
		if err := h.deps.UpdateScores(ctx, *payload.Activities); err != nil {
			fail(ctx, w, h.logger, Wrap(op, err))
			return
		}
		writeJSON(w, http.StatusOK, messageResponse{Message: "Activity scores updated successfully."})

	case ActionUpdateMembers:
		var payload membersPayload
		if err := decodePayload(req.Payload, &payload); err != nil {
			fail(ctx, w, h.logger, WrapKind(op, ErrBadRequest, err))
			return
		}
		if payload.Members == nil {
			fail(ctx, w, h.logger, WrapKind(op, ErrBadRequest, errors.New("payload.members is required")))
			return
		}
		if err := h.deps.UpdateMembers(ctx, *payload.Members); err != nil {
			fail(ctx, w, h.logger, Wrap(op, err))
			return
		}
		writeJSON(w, http.StatusOK, messageResponse{Message: "Team members updated successfully."})

	default:
		fail(ctx, w, h.logger, WrapKind(op, ErrUnknownAction, fmt.Errorf("invalid POST action %q", req.Action)))
	}
}

func decode(w http.ResponseWriter, r *http.Request, v any) error {
	body := http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(body).Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return errors.New("request body is empty")
		}
		return fmt.Errorf("malformed request body: %w", err)
	}
	return nil
}

func decodePayload(raw json.RawMessage, v any) error {
	if len(raw) == 0 || string(raw) == "null" {
		return errors.New("payload is required")
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("malformed payload: %w", err)
	}
	return nil
}

func parseRange(startRaw, endRaw string) (model.Date, model.Date, error) {
	if startRaw == "" || endRaw == "" {
		return model.Date{}, model.Date{}, errors.New("startDate and endDate are required")
	}
	start, err := model.ParseDate(startRaw)
	if err != nil {
		return model.Date{}, model.Date{}, fmt.Errorf("startDate: %w", err)
	}
	end, err := model.ParseDate(endRaw)
	if err != nil {
		return model.Date{}, model.Date{}, fmt.Errorf("endDate: %w", err)
	}
	return start, end, nil
}
