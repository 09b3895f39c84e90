package repository

import (
	"testing"

	"github.com/practicelog/practicelog/internal/model"
	"github.com/practicelog/practicelog/internal/ownership"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPracticeSessionRepositoryComputesDuration(t *testing.T) {
	database := newTestDB(t)
	repo := NewPracticeSessionRepository(database)
	user := createUser(t, database, "violist@example.com")
	goal := createGoal(t, database, user.ID, "Telemann concerto")

	session := createSession(t, database, &goal.ID, model.MustClock(9, 0), model.MustClock(10, 30))
	assert.Equal(t, 90, session.Duration)

	found, err := repo.ByID(session.ID)
	require.NoError(t, err)
	assert.Equal(t, 90, found.Duration)
	assert.Equal(t, model.MustClock(9, 0), found.StartTime)
	assert.Equal(t, "2024-05-01", found.Date.String())

	// a stale duration on the struct is never written
	found.EndTime = model.MustClock(9, 20)
	found.Duration = 90
	require.NoError(t, repo.Update(found))

	found, err = repo.ByID(session.ID)
	require.NoError(t, err)
	assert.Equal(t, 20, found.Duration)
}

func TestPracticeSessionRepositoryRejectsEndBeforeStart(t *testing.T) {
	database := newTestDB(t)
	repo := NewPracticeSessionRepository(database)

	err := repo.Create(&model.PracticeSession{
		ID:        "s1",
		StartTime: model.MustClock(10, 0),
		EndTime:   model.MustClock(9, 0),
	})
	assert.ErrorIs(t, err, model.ErrEndBeforeStart)

	_, err = repo.ByID("s1")
	assert.ErrorIs(t, err, ErrPracticeSessionNotFound)
}

func TestPracticeSessionRepositorySessionsExcludeOrphans(t *testing.T) {
	database := newTestDB(t)
	repo := NewPracticeSessionRepository(database)
	alice := createUser(t, database, "alice@example.com")
	bob := createUser(t, database, "bob@example.com")

	aliceGoal := createGoal(t, database, alice.ID, "vibrato")
	bobGoal := createGoal(t, database, bob.ID, "shifting")

	mine := createSession(t, database, &aliceGoal.ID, model.MustClock(9, 0), model.MustClock(9, 30))
	createSession(t, database, &bobGoal.ID, model.MustClock(9, 0), model.MustClock(9, 30))
	createSession(t, database, nil, model.MustClock(11, 0), model.MustClock(12, 0))

	sessions, err := repo.Sessions(alice.ID)
	require.NoError(t, err)
	require.Len(t, sessions, 1)
	assert.Equal(t, mine.ID, sessions[0].ID)

	byGoal, err := repo.ByGoal(bobGoal.ID)
	require.NoError(t, err)
	assert.Len(t, byGoal, 1)

	sessions, err = repo.Sessions("nobody")
	require.NoError(t, err)
	assert.NotNil(t, sessions)
	assert.Empty(t, sessions)
}

func TestPracticeSessionRepositoryDelete(t *testing.T) {
	database := newTestDB(t)
	repo := NewPracticeSessionRepository(database)

	session := createSession(t, database, nil, model.MustClock(7, 0), model.MustClock(7, 5))
	require.NoError(t, repo.Delete(session.ID))

	err := repo.Delete(session.ID)
	assert.ErrorIs(t, err, ErrPracticeSessionNotFound)
	assert.ErrorIs(t, err, ownership.ErrNotFound)

	err = repo.Update(session)
	assert.ErrorIs(t, err, ErrPracticeSessionNotFound)
}
