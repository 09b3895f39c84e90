package service

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/practicelog/practicelog/internal/db"
	"github.com/practicelog/practicelog/internal/model"
	"github.com/practicelog/practicelog/internal/ownership"
	"github.com/practicelog/practicelog/internal/repository"
	"github.com/stretchr/testify/require"
)

const testPassword = "violin-etudes-daily"

type testEnv struct {
	users    repository.UserRepository
	tokens   repository.TokenRepository
	goals    repository.GoalRepository
	sessions repository.PracticeSessionRepository

	auth           *AuthService
	userService    *UserService
	goalService    *GoalService
	sessionService *PracticeSessionService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	connection := filepath.Join(t.TempDir(), "test.db") + "?_pragma=foreign_keys(1)"
	database, err := db.Init("sqlite", connection)
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })
	require.NoError(t, db.RunMigrations(database.DB, "sqlite"))

	env := &testEnv{
		users:    repository.NewUserRepository(database),
		tokens:   repository.NewTokenRepository(database),
		goals:    repository.NewGoalRepository(database),
		sessions: repository.NewPracticeSessionRepository(database),
	}

	guard := ownership.NewGuard(env.goals, env.sessions)
	email := NewEmailService("", "noreply@practicelog.test", "https://practicelog.test", "PracticeLog", true)

	env.auth = NewAuthService(env.users, env.tokens, email, "test-secret", time.Hour, 24*time.Hour, time.Hour)
	env.userService = NewUserService(env.users, env.auth)
	env.goalService = NewGoalService(env.goals, env.sessions, guard)
	env.sessionService = NewPracticeSessionService(env.sessions, guard)

	return env
}

func (e *testEnv) register(t *testing.T, email string) *model.User {
	t.Helper()

	user, err := e.auth.Register(email, testPassword)
	require.NoError(t, err)
	return user
}

func (e *testEnv) goal(t *testing.T, userID, title string) *model.Goal {
	t.Helper()

	goal, err := e.goalService.Create(userID, GoalInput{Title: title})
	require.NoError(t, err)
	return goal
}

func strPtr(s string) *string { return &s }

func clockPtr(c model.Clock) *model.Clock { return &c }
