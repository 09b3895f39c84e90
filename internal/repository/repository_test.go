package repository

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/practicelog/practicelog/internal/db"
	"github.com/practicelog/practicelog/internal/model"
	"github.com/stretchr/testify/require"
)

func newTestDB(t *testing.T) *sqlx.DB {
	t.Helper()

	connection := filepath.Join(t.TempDir(), "test.db") + "?_pragma=foreign_keys(1)"
	database, err := db.Init("sqlite", connection)
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })

	err = db.RunMigrations(database.DB, "sqlite")
	require.NoError(t, err)

	return database
}

func createUser(t *testing.T, database *sqlx.DB, email string) *model.User {
	t.Helper()

	user := &model.User{
		ID:           uuid.New().String(),
		Email:        email,
		PasswordHash: "hash",
		IsActive:     true,
		CreatedAt:    time.Now(),
	}
	require.NoError(t, NewUserRepository(database).Create(user))
	return user
}

func createGoal(t *testing.T, database *sqlx.DB, userID, title string) *model.Goal {
	t.Helper()

	now := time.Now()
	goal := &model.Goal{
		ID:          uuid.New().String(),
		UserID:      userID,
		Title:       title,
		Description: model.DefaultGoalDescription,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	require.NoError(t, NewGoalRepository(database).Create(goal))
	return goal
}

func createSession(t *testing.T, database *sqlx.DB, goalID *string, start, end model.Clock) *model.PracticeSession {
	t.Helper()

	now := time.Now()
	session := &model.PracticeSession{
		ID:        uuid.New().String(),
		Date:      model.Date{Year: 2024, Month: time.May, Day: 1},
		StartTime: start,
		EndTime:   end,
		Notes:     model.DefaultSessionNotes,
		GoalID:    goalID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	require.NoError(t, NewPracticeSessionRepository(database).Create(session))
	return session
}
