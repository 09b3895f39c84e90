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

var (
	ErrPracticeSessionNotFound = fmt.Errorf("practice session %w", ownership.ErrNotFound)
)

// PracticeSessionRepository stores practice sessions. Create and Update recompute
// the duration from start/end immediately before writing.
type PracticeSessionRepository interface {
	Create(session *model.PracticeSession) error
	ByID(sessionID string) (*model.PracticeSession, error)
	Sessions(userID string) ([]*model.PracticeSession, error)
	ByGoal(goalID string) ([]*model.PracticeSession, error)
	Update(session *model.PracticeSession) error
	Delete(sessionID string) error
}

type practiceSessionRepository struct {
	db *sqlx.DB
}

func NewPracticeSessionRepository(db *sqlx.DB) PracticeSessionRepository {
	return &practiceSessionRepository{db: db}
}

func (r *practiceSessionRepository) Create(session *model.PracticeSession) error {
	err := session.ComputeDuration()
	if err != nil {
		return err
	}

	query := `INSERT INTO practice_sessions (id, date, start_time, end_time, duration, notes, goal_id, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	_, err = r.db.Exec(query,
		session.ID,
		session.Date,
		session.StartTime,
		session.EndTime,
		session.Duration,
		session.Notes,
		session.GoalID,
		session.CreatedAt,
		session.UpdatedAt,
	)

	return err
}

func (r *practiceSessionRepository) ByID(sessionID string) (*model.PracticeSession, error) {
	session := &model.PracticeSession{}
	query := `SELECT * FROM practice_sessions WHERE id = $1`

	err := r.db.Get(session, query, sessionID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrPracticeSessionNotFound
	}
	if err != nil {
		return nil, err
	}

	return session, nil
}

// Sessions returns the sessions reachable from userID through their goal.
// Sessions without a goal are never included.
func (r *practiceSessionRepository) Sessions(userID string) ([]*model.PracticeSession, error) {
	sessions := []*model.PracticeSession{}
	query := `SELECT ps.* FROM practice_sessions ps
	          JOIN goals g ON ps.goal_id = g.id
	          WHERE g.user_id = $1
	          ORDER BY ps.date DESC, ps.start_time DESC`

	err := r.db.Select(&sessions, query, userID)
	if err != nil {
		return nil, err
	}

	return sessions, nil
}

func (r *practiceSessionRepository) ByGoal(goalID string) ([]*model.PracticeSession, error) {
	sessions := []*model.PracticeSession{}
	query := `SELECT * FROM practice_sessions WHERE goal_id = $1 ORDER BY date DESC, start_time DESC`

	err := r.db.Select(&sessions, query, goalID)
	if err != nil {
		return nil, err
	}

	return sessions, nil
}

func (r *practiceSessionRepository) Update(session *model.PracticeSession) error {
	err := session.ComputeDuration()
	if err != nil {
		return err
	}

	session.UpdatedAt = time.Now()
	query := `UPDATE practice_sessions
	          SET date = $1, start_time = $2, end_time = $3, duration = $4, notes = $5, goal_id = $6, updated_at = $7
	          WHERE id = $8`

	result, err := r.db.Exec(query,
		session.Date,
		session.StartTime,
		session.EndTime,
		session.Duration,
		session.Notes,
		session.GoalID,
		session.UpdatedAt,
		session.ID,
	)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
		return ErrPracticeSessionNotFound
	}

	return nil
}

func (r *practiceSessionRepository) Delete(sessionID string) error {
	result, err := r.db.Exec(`DELETE FROM practice_sessions WHERE id = $1`, sessionID)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
		return ErrPracticeSessionNotFound
	}

	return nil
}
