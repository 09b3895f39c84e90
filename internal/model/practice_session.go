package model

import (
	"time"
)

const DefaultSessionNotes = "No notes provided."

type PracticeSession struct {
	ID        string    `db:"id" json:"id"`
	Date      Date      `db:"date" json:"date"`
	StartTime Clock     `db:"start_time" json:"start_time"`
	EndTime   Clock     `db:"end_time" json:"end_time"`
	Duration  int       `db:"duration" json:"duration"`
	Notes     string    `db:"notes" json:"notes"`
	GoalID    *string   `db:"goal_id" json:"goal_id"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// ComputeDuration derives Duration from StartTime and EndTime.
// It must run immediately before every insert and update.
func (s *PracticeSession) ComputeDuration() error {
	minutes, err := MinutesBetween(s.StartTime, s.EndTime)
	if err != nil {
		return err
	}
	s.Duration = minutes
	return nil
}

func (s *PracticeSession) HasGoal() bool {
	return s.GoalID != nil && *s.GoalID != ""
}
