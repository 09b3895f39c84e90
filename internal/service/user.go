package service

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/practicelog/practicelog/internal/model"
	"github.com/practicelog/practicelog/internal/repository"
	"github.com/practicelog/practicelog/internal/validation"
)

// UserPatch holds the self-service account changes.
type UserPatch struct {
	Email    *string
	Password *string
}

type UserService struct {
	userRepository repository.UserRepository
	authService    *AuthService
}

func NewUserService(userRepository repository.UserRepository, authService *AuthService) *UserService {
	return &UserService{
		userRepository: userRepository,
		authService:    authService,
	}
}

// Update applies a patch to the caller's own account. Changing the email
// clears the verified flag.
func (s *UserService) Update(userID string, patch UserPatch) (*model.User, error) {
	user, err := s.userRepository.ByID(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	if patch.Email != nil {
		email := validation.NormalizeEmail(*patch.Email)
		err = validation.ValidateEmail(email)
		if err != nil {
			return nil, ErrInvalidEmail
		}
		if email != user.Email {
			user.Email = email
			user.IsVerified = false
		}
	}

	if patch.Password != nil {
		err = s.authService.ValidatePassword(*patch.Password, user.Email)
		if err != nil {
			return nil, err
		}
		hash, err := s.authService.HashPassword(*patch.Password)
		if err != nil {
			return nil, fmt.Errorf("failed to hash password: %w", err)
		}
		user.PasswordHash = hash
	}

	err = s.userRepository.Update(user)
	if errors.Is(err, repository.ErrDuplicateEmail) {
		return nil, ErrEmailAlreadyExists
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	slog.Info("user updated", "user_id", user.ID)
	return user, nil
}
