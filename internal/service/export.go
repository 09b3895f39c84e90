package service

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/practicelog/practicelog/internal/model"
	"github.com/practicelog/practicelog/internal/repository"
	"github.com/practicelog/practicelog/internal/storage"
)

// ExportResult holds either the inline document or a download link to the stored copy.
type ExportResult struct {
	Document  *model.Export
	URL       string
	ExpiresIn time.Duration
}

type ExportService struct {
	goalRepo    repository.GoalRepository
	sessionRepo repository.PracticeSessionRepository
	storage     storage.Storage
	urlExpiry   time.Duration
}

// NewExportService accepts a nil storage; exports are then returned inline.
func NewExportService(
	goalRepo repository.GoalRepository,
	sessionRepo repository.PracticeSessionRepository,
	storage storage.Storage,
	urlExpiry time.Duration,
) *ExportService {
	return &ExportService{
		goalRepo:    goalRepo,
		sessionRepo: sessionRepo,
		storage:     storage,
		urlExpiry:   urlExpiry,
	}
}

// Build collects every goal the user owns with its practice sessions.
func (s *ExportService) Build(userID string) (*model.Export, error) {
	goals, err := s.goalRepo.Goals(userID, repository.GoalSortRecent)
	if err != nil {
		return nil, fmt.Errorf("failed to list goals: %w", err)
	}

	export := &model.Export{
		ExportedAt: time.Now().UTC(),
		Goals:      make([]*model.GoalExport, 0, len(goals)),
	}

	for _, goal := range goals {
		sessions, err := s.sessionRepo.ByGoal(goal.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to list sessions for goal %s: %w", goal.ID, err)
		}
		export.Goals = append(export.Goals, &model.GoalExport{
			Goal:             goal,
			PracticeSessions: sessions,
		})
	}

	return export, nil
}

func (s *ExportService) Export(userID string) (*ExportResult, error) {
	export, err := s.Build(userID)
	if err != nil {
		return nil, err
	}

	if s.storage == nil {
		return &ExportResult{Document: export}, nil
	}

	body, err := json.Marshal(export)
	if err != nil {
		return nil, fmt.Errorf("failed to encode export: %w", err)
	}

	path := ExportPath(userID, export.ExportedAt)
	err = s.storage.Save(path, "application/json", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}

	url, err := s.storage.PresignedURL(path, s.urlExpiry)
	if err != nil {
		delErr := s.storage.Delete(path)
		if delErr != nil {
			slog.Error("failed to delete export after presign failure", "error", delErr, "path", path)
		}
		return nil, err
	}

	slog.Info("export stored", "user_id", userID, "path", path, "goals", len(export.Goals))
	return &ExportResult{URL: url, ExpiresIn: s.urlExpiry}, nil
}

func ExportPath(userID string, at time.Time) string {
	return fmt.Sprintf("exports/%s/%s.json", userID, at.UTC().Format("20060102T150405Z"))
}
