package service

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/practicelog/practicelog/internal/metrics"
	"github.com/practicelog/practicelog/internal/model"
	"github.com/practicelog/practicelog/internal/ownership"
	"github.com/practicelog/practicelog/internal/repository"
)

// SessionInput carries every writable session field (create and full update).
// Duration is never part of the input.
type SessionInput struct {
	Date      *model.Date
	StartTime model.Clock
	EndTime   model.Clock
	Notes     *string
	GoalID    *string
}

// GoalLink is a patch field that tells "absent" apart from an explicit null.
type GoalLink struct {
	Set    bool
	GoalID *string
}

type SessionPatch struct {
	Date      *model.Date
	StartTime *model.Clock
	EndTime   *model.Clock
	Notes     *string
	Goal      GoalLink
}

type PracticeSessionService struct {
	repo  repository.PracticeSessionRepository
	guard *ownership.Guard
}

func NewPracticeSessionService(repo repository.PracticeSessionRepository, guard *ownership.Guard) *PracticeSessionService {
	return &PracticeSessionService{
		repo:  repo,
		guard: guard,
	}
}

// Create stores a new session. Linking to a goal requires owning that goal.
// A session created without a goal is valid but not visible to owner-scoped reads.
func (s *PracticeSessionService) Create(userID string, in SessionInput) (*model.PracticeSession, error) {
	err := s.authorizeLink(userID, in.GoalID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	session := &model.PracticeSession{
		ID:        uuid.New().String(),
		Date:      dateOrToday(in.Date),
		StartTime: in.StartTime,
		EndTime:   in.EndTime,
		Notes:     notesOrDefault(in.Notes),
		GoalID:    normalizeGoalID(in.GoalID),
		CreatedAt: now,
		UpdatedAt: now,
	}

	err = s.repo.Create(session)
	if err != nil {
		return nil, fmt.Errorf("failed to create practice session: %w", err)
	}

	metrics.RecordSession(session.Duration)
	slog.Info("practice session created", "user_id", userID, "session_id", session.ID, "duration", session.Duration)
	return session, nil
}

func (s *PracticeSessionService) ByID(userID, sessionID string) (*model.PracticeSession, error) {
	return s.guard.Session(userID, sessionID)
}

func (s *PracticeSessionService) Sessions(userID string) ([]*model.PracticeSession, error) {
	return s.repo.Sessions(userID)
}

// Replace overwrites every writable field, including the goal link.
func (s *PracticeSessionService) Replace(userID, sessionID string, in SessionInput) (*model.PracticeSession, error) {
	session, err := s.guard.Session(userID, sessionID)
	if err != nil {
		return nil, err
	}

	err = s.authorizeLink(userID, in.GoalID)
	if err != nil {
		return nil, err
	}

	session.Date = dateOrToday(in.Date)
	session.StartTime = in.StartTime
	session.EndTime = in.EndTime
	session.Notes = notesOrDefault(in.Notes)
	session.GoalID = normalizeGoalID(in.GoalID)

	err = s.repo.Update(session)
	if err != nil {
		return nil, fmt.Errorf("failed to update practice session: %w", err)
	}

	return session, nil
}

// Patch changes only the fields present. The duration is recomputed on every
// write, whether or not start or end changed.
func (s *PracticeSessionService) Patch(userID, sessionID string, patch SessionPatch) (*model.PracticeSession, error) {
	session, err := s.guard.Session(userID, sessionID)
	if err != nil {
		return nil, err
	}

	if patch.Date != nil {
		session.Date = *patch.Date
	}
	if patch.StartTime != nil {
		session.StartTime = *patch.StartTime
	}
	if patch.EndTime != nil {
		session.EndTime = *patch.EndTime
	}
	if patch.Notes != nil {
		session.Notes = *patch.Notes
	}
	if patch.Goal.Set {
		err = s.authorizeLink(userID, patch.Goal.GoalID)
		if err != nil {
			return nil, err
		}
		session.GoalID = normalizeGoalID(patch.Goal.GoalID)
	}

	err = s.repo.Update(session)
	if err != nil {
		return nil, fmt.Errorf("failed to update practice session: %w", err)
	}

	return session, nil
}

func (s *PracticeSessionService) Delete(userID, sessionID string) error {
	_, err := s.guard.Session(userID, sessionID)
	if err != nil {
		return err
	}

	err = s.repo.Delete(sessionID)
	if err != nil {
		return err
	}

	slog.Info("practice session deleted", "user_id", userID, "session_id", sessionID)
	return nil
}

func (s *PracticeSessionService) authorizeLink(userID string, goalID *string) error {
	goalID = normalizeGoalID(goalID)
	if goalID == nil {
		return nil
	}
	_, err := s.guard.Goal(userID, *goalID)
	return err
}

func normalizeGoalID(goalID *string) *string {
	if goalID == nil || strings.TrimSpace(*goalID) == "" {
		return nil
	}
	id := strings.TrimSpace(*goalID)
	return &id
}

func dateOrToday(date *model.Date) model.Date {
	if date == nil || date.IsZero() {
		return model.Today()
	}
	return *date
}

func notesOrDefault(notes *string) string {
	if notes == nil || strings.TrimSpace(*notes) == "" {
		return model.DefaultSessionNotes
	}
	return *notes
}
