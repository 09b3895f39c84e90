package service

import (
	"encoding/json"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/practicelog/practicelog/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memoryStorage struct {
	objects    map[string][]byte
	presignErr error
}

func newMemoryStorage() *memoryStorage {
	return &memoryStorage{objects: map[string][]byte{}}
}

func (m *memoryStorage) Save(path, contentType string, body io.Reader) error {
	data, err := io.ReadAll(body)
	if err != nil {
		return err
	}
	m.objects[path] = data
	return nil
}

func (m *memoryStorage) Delete(path string) error {
	delete(m.objects, path)
	return nil
}

func (m *memoryStorage) PresignedURL(path string, expiry time.Duration) (string, error) {
	if m.presignErr != nil {
		return "", m.presignErr
	}
	return "https://bucket.test/" + path, nil
}

func seedExport(t *testing.T, env *testEnv) *model.User {
	t.Helper()

	user := env.register(t, "player@example.com")
	goal := env.goal(t, user.ID, "scales")
	env.goal(t, user.ID, "arpeggios")

	_, err := env.sessionService.Create(user.ID, SessionInput{
		StartTime: model.MustClock(9, 0),
		EndTime:   model.MustClock(9, 40),
		GoalID:    &goal.ID,
	})
	require.NoError(t, err)
	return user
}

func TestExportInline(t *testing.T) {
	env := newTestEnv(t)
	user := seedExport(t, env)
	exports := NewExportService(env.goals, env.sessions, nil, time.Hour)

	result, err := exports.Export(user.ID)
	require.NoError(t, err)
	require.NotNil(t, result.Document)
	assert.Empty(t, result.URL)
	require.Len(t, result.Document.Goals, 2)

	sessions := 0
	for _, g := range result.Document.Goals {
		assert.Equal(t, user.ID, g.Goal.UserID)
		assert.NotNil(t, g.PracticeSessions)
		sessions += len(g.PracticeSessions)
	}
	assert.Equal(t, 1, sessions)
}

func TestExportStored(t *testing.T) {
	env := newTestEnv(t)
	user := seedExport(t, env)
	store := newMemoryStorage()
	exports := NewExportService(env.goals, env.sessions, store, 15*time.Minute)

	result, err := exports.Export(user.ID)
	require.NoError(t, err)
	assert.Nil(t, result.Document)
	assert.Equal(t, 15*time.Minute, result.ExpiresIn)
	assert.True(t, strings.HasPrefix(result.URL, "https://bucket.test/exports/"+user.ID+"/"))

	require.Len(t, store.objects, 1)
	for _, body := range store.objects {
		var doc model.Export
		require.NoError(t, json.Unmarshal(body, &doc))
		assert.Len(t, doc.Goals, 2)
	}
}

func TestExportPresignFailureRemovesObject(t *testing.T) {
	env := newTestEnv(t)
	user := seedExport(t, env)
	store := newMemoryStorage()
	store.presignErr = errors.New("signing unavailable")
	exports := NewExportService(env.goals, env.sessions, store, time.Minute)

	_, err := exports.Export(user.ID)
	assert.ErrorIs(t, err, store.presignErr)
	assert.Empty(t, store.objects)
}

func TestExportPath(t *testing.T) {
	at := time.Date(2024, 3, 9, 18, 4, 5, 0, time.UTC)
	assert.Equal(t, "exports/u1/20240309T180405Z.json", ExportPath("u1", at))
}
