package handler

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/practicelog/practicelog/internal/ctxkeys"
	"github.com/practicelog/practicelog/internal/model"
	"github.com/practicelog/practicelog/internal/ownership"
	"github.com/practicelog/practicelog/internal/repository"
	"github.com/practicelog/practicelog/internal/validation"
)

const maxBodyBytes = 1 << 20

// fieldIssue mirrors one entry of a 422 response body.
type fieldIssue struct {
	Loc  []string `json:"loc"`
	Msg  string   `json:"msg"`
	Type string   `json:"type"`
}

// codedDetail is the body of account errors: {"detail": {"code": ..., "reason": ...}}
// or a bare code string when there is no reason.
type codedDetail struct {
	Code   string `json:"code"`
	Reason string `json:"reason,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	err := json.NewEncoder(w).Encode(v)
	if err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func writeDetail(w http.ResponseWriter, status int, detail any) {
	writeJSON(w, status, map[string]any{"detail": detail})
}

// decodeJSON reads the request body into dst and validates it. It writes the
// error response itself and reports whether the handler should continue.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	err := json.NewDecoder(r.Body).Decode(dst)
	if err != nil {
		writeDecodeError(w, err)
		return false
	}

	err = validation.Struct(dst)
	if err != nil {
		writeValidationError(w, err)
		return false
	}

	return true
}

func writeDecodeError(w http.ResponseWriter, err error) {
	var typeErr *json.UnmarshalTypeError
	var maxErr *http.MaxBytesError

	switch {
	case errors.Is(err, io.EOF):
		writeDetail(w, http.StatusBadRequest, "Request body is empty")
	case errors.As(err, &maxErr):
		writeDetail(w, http.StatusRequestEntityTooLarge, "Request body too large")
	case errors.As(err, &typeErr):
		writeDetail(w, http.StatusUnprocessableEntity, []fieldIssue{{
			Loc:  []string{"body", typeErr.Field},
			Msg:  "expected " + typeErr.Type.String(),
			Type: "type_error",
		}})
	case errors.Is(err, model.ErrInvalidClock), errors.Is(err, model.ErrInvalidDate):
		writeDetail(w, http.StatusUnprocessableEntity, []fieldIssue{{
			Loc:  []string{"body"},
			Msg:  err.Error(),
			Type: "value_error",
		}})
	default:
		writeDetail(w, http.StatusBadRequest, "Invalid JSON body")
	}
}

func writeValidationError(w http.ResponseWriter, err error) {
	var verr *validation.Error
	if !errors.As(err, &verr) {
		writeDetail(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	issues := make([]fieldIssue, 0, len(verr.Fields))
	for _, f := range verr.Fields {
		issues = append(issues, fieldIssue{
			Loc:  []string{"body", f.Field},
			Msg:  f.Message,
			Type: "value_error",
		})
	}
	writeDetail(w, http.StatusUnprocessableEntity, issues)
}

// writeServiceError maps goal and session errors onto status codes.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, repository.ErrGoalNotFound):
		writeDetail(w, http.StatusNotFound, "Goal not found")
	case errors.Is(err, repository.ErrPracticeSessionNotFound):
		writeDetail(w, http.StatusNotFound, "Practice session not found")
	case errors.Is(err, ownership.ErrNotFound):
		writeDetail(w, http.StatusNotFound, "Not found")
	case errors.Is(err, ownership.ErrForbidden):
		writeDetail(w, http.StatusForbidden, "Not authorized to access this resource")
	case errors.Is(err, model.ErrEndBeforeStart):
		writeDetail(w, http.StatusUnprocessableEntity, []fieldIssue{{
			Loc:  []string{"body", "end_time"},
			Msg:  err.Error(),
			Type: "value_error",
		}})
	default:
		slog.Error("request failed",
			"error", err,
			"method", r.Method,
			"path", r.URL.Path,
			"request_id", ctxkeys.RequestID(r.Context()),
		)
		writeDetail(w, http.StatusInternalServerError, "Internal server error")
	}
}
