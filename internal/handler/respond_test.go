package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/practicelog/practicelog/internal/model"
	"github.com/practicelog/practicelog/internal/ownership"
	"github.com/practicelog/practicelog/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeJSON(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		status int
	}{
		{"valid", `{"start_time":"09:00","end_time":"10:00"}`, 0},
		{"empty body", ``, http.StatusBadRequest},
		{"malformed", `{"start_time":`, http.StatusBadRequest},
		{"bad clock", `{"start_time":"9 o'clock","end_time":"10:00"}`, http.StatusUnprocessableEntity},
		{"bad date", `{"date":"May 1st","start_time":"09:00","end_time":"10:00"}`, http.StatusUnprocessableEntity},
		{"wrong type", `{"start_time":"09:00","end_time":"10:00","notes":7}`, http.StatusUnprocessableEntity},
		{"missing field", `{"start_time":"09:00"}`, http.StatusUnprocessableEntity},
		{"bad goal id", `{"start_time":"09:00","end_time":"10:00","goal_id":"abc"}`, http.StatusUnprocessableEntity},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/practice_sessions", strings.NewReader(tt.body))

			var dst sessionRequest
			ok := decodeJSON(rec, req, &dst)
			if tt.status == 0 {
				assert.True(t, ok)
				assert.Equal(t, model.MustClock(9, 0), *dst.StartTime)
				return
			}
			assert.False(t, ok)
			assert.Equal(t, tt.status, rec.Code, rec.Body.String())
		})
	}
}

func TestDecodeJSONMidnight(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/practice_sessions", strings.NewReader(`{"start_time":"00:00","end_time":"00:30"}`))

	var dst sessionRequest
	require.True(t, decodeJSON(rec, req, &dst), rec.Body.String())
	assert.Equal(t, model.Clock{}, *dst.StartTime)
}

func TestNullableString(t *testing.T) {
	var absent sessionPatchRequest
	require.NoError(t, json.Unmarshal([]byte(`{"notes":"x"}`), &absent))
	assert.False(t, absent.GoalID.Set)

	var cleared sessionPatchRequest
	require.NoError(t, json.Unmarshal([]byte(`{"goal_id":null}`), &cleared))
	assert.True(t, cleared.GoalID.Set)
	assert.Nil(t, cleared.GoalID.Value)

	var linked sessionPatchRequest
	require.NoError(t, json.Unmarshal([]byte(`{"goal_id":"g1"}`), &linked))
	assert.True(t, linked.GoalID.Set)
	assert.Equal(t, "g1", *linked.GoalID.Value)
}

func TestWriteServiceError(t *testing.T) {
	tests := []struct {
		err    error
		status int
		detail string
	}{
		{repository.ErrGoalNotFound, http.StatusNotFound, `"Goal not found"`},
		{repository.ErrPracticeSessionNotFound, http.StatusNotFound, `"Practice session not found"`},
		{ownership.ErrNotFound, http.StatusNotFound, `"Not found"`},
		{ownership.ErrForbidden, http.StatusForbidden, `"Not authorized to access this resource"`},
		{fmt.Errorf("wrapped: %w", model.ErrEndBeforeStart), http.StatusUnprocessableEntity, ""},
		{fmt.Errorf("disk on fire"), http.StatusInternalServerError, `"Internal server error"`},
	}

	for _, tt := range tests {
		rec := httptest.NewRecorder()
		writeServiceError(rec, httptest.NewRequest(http.MethodGet, "/", nil), tt.err)
		assert.Equal(t, tt.status, rec.Code, tt.err.Error())
		if tt.detail != "" {
			assert.JSONEq(t, `{"detail":`+tt.detail+`}`, rec.Body.String())
		}
	}
}
