package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/practicelog/practicelog/internal/ctxkeys"
	"github.com/practicelog/practicelog/internal/model"
	"github.com/stretchr/testify/assert"
)

type stubAuthenticator map[string]*model.User

func (s stubAuthenticator) Authenticate(token string) (*model.User, error) {
	user, ok := s[token]
	if !ok {
		return nil, errors.New("bad token")
	}
	return user, nil
}

func TestAuth(t *testing.T) {
	player := &model.User{ID: "u1"}
	auth := Auth(stubAuthenticator{"good": player})

	var seen *model.User
	h := auth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = ctxkeys.User(r.Context())
	}))

	tests := []struct {
		name   string
		header string
		want   *model.User
	}{
		{"bearer", "Bearer good", player},
		{"lowercase scheme", "bearer good", player},
		{"bad token", "Bearer forged", nil},
		{"basic scheme", "Basic good", nil},
		{"no header", "", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			seen = nil
			req := httptest.NewRequest(http.MethodGet, "/goals", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			h.ServeHTTP(httptest.NewRecorder(), req)
			assert.Equal(t, tt.want, seen)
		})
	}
}

func TestRequireAuth(t *testing.T) {
	h := RequireAuth(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})

	rec := httptest.NewRecorder()
	h(rec, httptest.NewRequest(http.MethodGet, "/goals", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Bearer", rec.Header().Get("WWW-Authenticate"))
	assert.JSONEq(t, `{"detail":"Unauthorized"}`, rec.Body.String())

	req := httptest.NewRequest(http.MethodGet, "/goals", nil)
	req = req.WithContext(ctxkeys.WithUser(req.Context(), &model.User{ID: "u1"}))
	rec = httptest.NewRecorder()
	h(rec, req)
	assert.Equal(t, http.StatusTeapot, rec.Code)
}
