package model

import "time"

// Summary aggregates a user's goals and owner-scoped practice sessions.
type Summary struct {
	Goals            int `db:"goals" json:"goals"`
	CompletedGoals   int `db:"completed_goals" json:"completed_goals"`
	PracticeSessions int `db:"practice_sessions" json:"practice_sessions"`
	TotalMinutes     int `db:"total_minutes" json:"total_minutes"`
}

type GoalExport struct {
	Goal             *Goal              `json:"goal"`
	PracticeSessions []*PracticeSession `json:"practice_sessions"`
}

type Export struct {
	ExportedAt time.Time     `json:"exported_at"`
	Goals      []*GoalExport `json:"goals"`
}
