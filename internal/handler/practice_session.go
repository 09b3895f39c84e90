package handler

import (
	"bytes"
	"encoding/json"
	"net/http"

	"github.com/practicelog/practicelog/internal/ctxkeys"
	"github.com/practicelog/practicelog/internal/model"
	"github.com/practicelog/practicelog/internal/service"
)

// Any duration in a request body is ignored; it is always derived from start and end.
type sessionRequest struct {
	Date      *model.Date  `json:"date"`
	StartTime *model.Clock `json:"start_time" validate:"required"`
	EndTime   *model.Clock `json:"end_time" validate:"required"`
	Notes     *string      `json:"notes" validate:"omitempty,max=5000"`
	GoalID    *string      `json:"goal_id" validate:"omitempty,uuid"`
}

type sessionPatchRequest struct {
	Date      *model.Date    `json:"date"`
	StartTime *model.Clock   `json:"start_time"`
	EndTime   *model.Clock   `json:"end_time"`
	Notes     *string        `json:"notes" validate:"omitempty,max=5000"`
	GoalID    nullableString `json:"goal_id"`
}

// nullableString records whether a JSON field was present, so an explicit
// null can be told apart from an omitted field.
type nullableString struct {
	Set   bool
	Value *string
}

func (n *nullableString) UnmarshalJSON(data []byte) error {
	n.Set = true
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		n.Value = nil
		return nil
	}
	var s string
	err := json.Unmarshal(data, &s)
	if err != nil {
		return err
	}
	n.Value = &s
	return nil
}

func (r sessionRequest) input() service.SessionInput {
	return service.SessionInput{
		Date:      r.Date,
		StartTime: *r.StartTime,
		EndTime:   *r.EndTime,
		Notes:     r.Notes,
		GoalID:    r.GoalID,
	}
}

type PracticeSessionHandler struct {
	sessionService *service.PracticeSessionService
}

func NewPracticeSessionHandler(sessionService *service.PracticeSessionService) *PracticeSessionHandler {
	return &PracticeSessionHandler{
		sessionService: sessionService,
	}
}

func (h *PracticeSessionHandler) List(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	sessions, err := h.sessionService.Sessions(user.ID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, sessions)
}

func (h *PracticeSessionHandler) Create(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	var req sessionRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	session, err := h.sessionService.Create(user.ID, req.input())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, session)
}

func (h *PracticeSessionHandler) Get(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	session, err := h.sessionService.ByID(user.ID, r.PathValue("id"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, session)
}

func (h *PracticeSessionHandler) Replace(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	var req sessionRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	session, err := h.sessionService.Replace(user.ID, r.PathValue("id"), req.input())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, session)
}

func (h *PracticeSessionHandler) Patch(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	var req sessionPatchRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	session, err := h.sessionService.Patch(user.ID, r.PathValue("id"), service.SessionPatch{
		Date:      req.Date,
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
		Notes:     req.Notes,
		Goal: service.GoalLink{
			Set:    req.GoalID.Set,
			GoalID: req.GoalID.Value,
		},
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, session)
}

func (h *PracticeSessionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	err := h.sessionService.Delete(user.ID, r.PathValue("id"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
