package repository

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/practicelog/practicelog/internal/model"
	"github.com/practicelog/practicelog/internal/ownership"
)

const (
	GoalSortRecent   = "recent"
	GoalSortComplete = "complete"
	GoalSortTitle    = "title"
)

var (
	ErrGoalNotFound = fmt.Errorf("goal %w", ownership.ErrNotFound)
)

// GoalRepository stores goals. ByID is unscoped; callers apply the ownership guard.
type GoalRepository interface {
	Create(goal *model.Goal) error
	ByID(goalID string) (*model.Goal, error)
	Goals(userID, sortBy string) ([]*model.Goal, error)
	Update(goal *model.Goal) error
	Delete(goalID string) error
	Summary(userID string) (*model.Summary, error)
}

type goalRepository struct {
	db *sqlx.DB
}

func NewGoalRepository(db *sqlx.DB) GoalRepository {
	return &goalRepository{db: db}
}

func (r *goalRepository) Create(goal *model.Goal) error {
	query := `INSERT INTO goals (id, user_id, title, description, complete, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := r.db.Exec(query,
		goal.ID,
		goal.UserID,
		goal.Title,
		goal.Description,
		goal.Complete,
		goal.CreatedAt,
		goal.UpdatedAt,
	)

	return err
}

func (r *goalRepository) ByID(goalID string) (*model.Goal, error) {
	goal := &model.Goal{}
	query := `SELECT * FROM goals WHERE id = $1`

	err := r.db.Get(goal, query, goalID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrGoalNotFound
	}
	if err != nil {
		return nil, err
	}

	return goal, nil
}

func (r *goalRepository) Goals(userID, sortBy string) ([]*model.Goal, error) {
	goals := []*model.Goal{}

	var orderBy string
	switch sortBy {
	case GoalSortComplete:
		orderBy = "ORDER BY complete ASC, updated_at DESC"
	case GoalSortTitle:
		orderBy = "ORDER BY LOWER(title) ASC"
	default: // GoalSortRecent or empty
		orderBy = "ORDER BY updated_at DESC"
	}

	query := `SELECT * FROM goals WHERE user_id = $1 ` + orderBy

	err := r.db.Select(&goals, query, userID)
	if err != nil {
		return nil, err
	}

	return goals, nil
}

// Update writes the mutable columns. user_id is never rewritten.
func (r *goalRepository) Update(goal *model.Goal) error {
	goal.UpdatedAt = time.Now()
	query := `UPDATE goals
	          SET title = $1, description = $2, complete = $3, updated_at = $4
	          WHERE id = $5`

	result, err := r.db.Exec(query,
		goal.Title,
		goal.Description,
		goal.Complete,
		goal.UpdatedAt,
		goal.ID,
	)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
		return ErrGoalNotFound
	}

	return nil
}

// Delete removes the goal and unlinks its practice sessions in one transaction.
// Sessions are kept with a NULL goal_id.
func (r *goalRepository) Delete(goalID string) error {
	tx, err := r.db.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.Exec(`UPDATE practice_sessions SET goal_id = NULL, updated_at = $1 WHERE goal_id = $2`, time.Now(), goalID)
	if err != nil {
		return fmt.Errorf("failed to unlink practice sessions: %w", err)
	}

	result, err := tx.Exec(`DELETE FROM goals WHERE id = $1`, goalID)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
		return ErrGoalNotFound
	}

	return tx.Commit()
}

func (r *goalRepository) Summary(userID string) (*model.Summary, error) {
	summary := &model.Summary{}
	query := `SELECT
	            (SELECT COUNT(*) FROM goals WHERE user_id = $1) AS goals,
	            (SELECT COUNT(*) FROM goals WHERE user_id = $1 AND complete = TRUE) AS completed_goals,
	            (SELECT COUNT(*) FROM practice_sessions ps
	               JOIN goals g ON ps.goal_id = g.id WHERE g.user_id = $1) AS practice_sessions,
	            (SELECT COALESCE(SUM(ps.duration), 0) FROM practice_sessions ps
	               JOIN goals g ON ps.goal_id = g.id WHERE g.user_id = $1) AS total_minutes`

	err := r.db.Get(summary, query, userID)
	if err != nil {
		return nil, err
	}

	return summary, nil
}
