package model

import (
	"time"
)

const DefaultGoalDescription = "No description provided."

type Goal struct {
	ID          string    `db:"id" json:"id"`
	UserID      string    `db:"user_id" json:"user_id"`
	Title       string    `db:"title" json:"title"`
	Description string    `db:"description" json:"description"`
	Complete    bool      `db:"complete" json:"complete"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}

// OwnedBy reports whether userID owns the goal.
func (g *Goal) OwnedBy(userID string) bool {
	return g != nil && userID != "" && g.UserID == userID
}
