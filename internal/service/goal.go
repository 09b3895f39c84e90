package service

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/practicelog/practicelog/internal/model"
	"github.com/practicelog/practicelog/internal/ownership"
	"github.com/practicelog/practicelog/internal/repository"
)

// GoalInput carries every writable goal field (create and full update).
type GoalInput struct {
	Title       string
	Description *string
	Complete    bool
}

// GoalPatch carries only the fields a partial update sets.
type GoalPatch struct {
	Title       *string
	Description *string
	Complete    *bool
}

type GoalService struct {
	repo        repository.GoalRepository
	sessionRepo repository.PracticeSessionRepository
	guard       *ownership.Guard
}

func NewGoalService(
	repo repository.GoalRepository,
	sessionRepo repository.PracticeSessionRepository,
	guard *ownership.Guard,
) *GoalService {
	return &GoalService{
		repo:        repo,
		sessionRepo: sessionRepo,
		guard:       guard,
	}
}

func (s *GoalService) Create(userID string, in GoalInput) (*model.Goal, error) {
	now := time.Now()
	goal := &model.Goal{
		ID:          uuid.New().String(),
		UserID:      userID,
		Title:       strings.TrimSpace(in.Title),
		Description: descriptionOrDefault(in.Description),
		Complete:    in.Complete,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	err := s.repo.Create(goal)
	if err != nil {
		return nil, fmt.Errorf("failed to create goal: %w", err)
	}

	slog.Info("goal created", "user_id", userID, "goal_id", goal.ID)
	return goal, nil
}

func (s *GoalService) ByID(userID, goalID string) (*model.Goal, error) {
	return s.guard.Goal(userID, goalID)
}

func (s *GoalService) Goals(userID, sortBy string) ([]*model.Goal, error) {
	return s.repo.Goals(userID, sortBy)
}

// Replace overwrites every writable field. An omitted description resets to the default.
func (s *GoalService) Replace(userID, goalID string, in GoalInput) (*model.Goal, error) {
	goal, err := s.guard.Goal(userID, goalID)
	if err != nil {
		return nil, err
	}

	goal.Title = strings.TrimSpace(in.Title)
	goal.Description = descriptionOrDefault(in.Description)
	goal.Complete = in.Complete

	err = s.repo.Update(goal)
	if err != nil {
		return nil, err
	}

	return goal, nil
}

// Patch changes only the fields present in the patch.
func (s *GoalService) Patch(userID, goalID string, patch GoalPatch) (*model.Goal, error) {
	goal, err := s.guard.Goal(userID, goalID)
	if err != nil {
		return nil, err
	}

	if patch.Title != nil {
		goal.Title = strings.TrimSpace(*patch.Title)
	}
	if patch.Description != nil {
		goal.Description = *patch.Description
	}
	if patch.Complete != nil {
		goal.Complete = *patch.Complete
	}

	err = s.repo.Update(goal)
	if err != nil {
		return nil, err
	}

	return goal, nil
}

// Delete removes the goal. Its practice sessions survive with no goal.
func (s *GoalService) Delete(userID, goalID string) error {
	_, err := s.guard.Goal(userID, goalID)
	if err != nil {
		return err
	}

	err = s.repo.Delete(goalID)
	if err != nil {
		return err
	}

	slog.Info("goal deleted", "user_id", userID, "goal_id", goalID)
	return nil
}

func (s *GoalService) Sessions(userID, goalID string) ([]*model.PracticeSession, error) {
	_, err := s.guard.Goal(userID, goalID)
	if err != nil {
		return nil, err
	}

	return s.sessionRepo.ByGoal(goalID)
}

func (s *GoalService) Summary(userID string) (*model.Summary, error) {
	return s.repo.Summary(userID)
}

func descriptionOrDefault(description *string) string {
	if description == nil || strings.TrimSpace(*description) == "" {
		return model.DefaultGoalDescription
	}
	return *description
}
