package service

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/practicelog/practicelog/internal/model"
	"github.com/practicelog/practicelog/internal/repository"
	"github.com/practicelog/practicelog/internal/validation"
	"golang.org/x/crypto/bcrypt"
)

const jwtAudience = "practicelog:auth"

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailAlreadyExists = errors.New("email already exists")
	ErrInvalidPassword    = errors.New("invalid password")
	ErrInvalidEmail       = errors.New("invalid email address")
	ErrInvalidToken       = errors.New("invalid or expired token")
	ErrAlreadyVerified    = errors.New("user already verified")
	ErrInactiveUser       = errors.New("user is inactive")
)

type AuthService struct {
	userRepository           repository.UserRepository
	tokenRepository          repository.TokenRepository
	emailService             *EmailService
	jwtSecret                string
	jwtExpiry                time.Duration
	tokenEmailVerifyExpiry   time.Duration
	tokenPasswordResetExpiry time.Duration
}

func NewAuthService(
	userRepository repository.UserRepository,
	tokenRepository repository.TokenRepository,
	emailService *EmailService,
	jwtSecret string,
	jwtExpiry time.Duration,
	tokenEmailVerifyExpiry time.Duration,
	tokenPasswordResetExpiry time.Duration,
) *AuthService {
	return &AuthService{
		userRepository:           userRepository,
		tokenRepository:          tokenRepository,
		emailService:             emailService,
		jwtSecret:                jwtSecret,
		jwtExpiry:                jwtExpiry,
		tokenEmailVerifyExpiry:   tokenEmailVerifyExpiry,
		tokenPasswordResetExpiry: tokenPasswordResetExpiry,
	}
}

// Register creates an active, unverified account.
func (s *AuthService) Register(email, password string) (*model.User, error) {
	email = validation.NormalizeEmail(email)

	err := validation.ValidateEmail(email)
	if err != nil {
		return nil, ErrInvalidEmail
	}

	err = s.ValidatePassword(password, email)
	if err != nil {
		return nil, err
	}

	hash, err := s.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &model.User{
		ID:           uuid.New().String(),
		Email:        email,
		PasswordHash: hash,
		IsActive:     true,
		CreatedAt:    time.Now(),
	}

	err = s.userRepository.Create(user)
	if errors.Is(err, repository.ErrDuplicateEmail) {
		return nil, ErrEmailAlreadyExists
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	slog.Info("user registered", "user_id", user.ID)
	return user, nil
}

// Login checks credentials. Inactive accounts are reported as bad credentials.
func (s *AuthService) Login(email, password string) (*model.User, error) {
	email = validation.NormalizeEmail(email)

	user, err := s.userRepository.ByEmail(email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, fmt.Errorf("invalid credentials: %w", ErrInvalidCredentials)
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	err = s.ComparePassword(password, user.PasswordHash)
	if err != nil {
		return nil, fmt.Errorf("invalid credentials: %w", ErrInvalidCredentials)
	}

	if !user.IsActive {
		return nil, fmt.Errorf("inactive user: %w", ErrInvalidCredentials)
	}

	return user, nil
}

// ValidatePassword applies the password rules and rejects passwords that contain the email.
func (s *AuthService) ValidatePassword(password, email string) error {
	err := validation.ValidatePassword(password)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidPassword, err)
	}
	if email != "" && validation.ContainsEmail(password, email) {
		return fmt.Errorf("%w: password should not contain e-mail", ErrInvalidPassword)
	}
	return nil
}

func (s *AuthService) HashPassword(password string) (string, error) {
	hashedBytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashedBytes), nil
}

func (s *AuthService) ComparePassword(password, hash string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
}

func (s *AuthService) GenerateToken() (string, error) {
	bytes := make([]byte, 32)
	_, err := rand.Read(bytes)
	if err != nil {
		return "", err
	}
	return hex.EncodeToString(bytes), nil
}

func (s *AuthService) GenerateJWT(user *model.User) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   user.ID,
		Audience:  jwt.ClaimStrings{jwtAudience},
		ExpiresAt: jwt.NewNumericDate(now.Add(s.jwtExpiry)),
		IssuedAt:  jwt.NewNumericDate(now),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	tokenString, err := token.SignedString([]byte(s.jwtSecret))
	if err != nil {
		return "", err
	}

	return tokenString, nil
}

// VerifyJWT validates the signature, expiry and audience and returns the user id.
func (s *AuthService) VerifyJWT(tokenString string) (string, error) {
	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (any, error) {
		return []byte(s.jwtSecret), nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithAudience(jwtAudience),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return "", err
	}

	if !token.Valid || claims.Subject == "" {
		return "", fmt.Errorf("invalid token")
	}

	return claims.Subject, nil
}

// Authenticate resolves a bearer token to an active user.
func (s *AuthService) Authenticate(tokenString string) (*model.User, error) {
	userID, err := s.VerifyJWT(tokenString)
	if err != nil {
		return nil, err
	}

	user, err := s.userRepository.ByID(userID)
	if err != nil {
		return nil, err
	}

	if !user.IsActive {
		return nil, ErrInactiveUser
	}

	return user, nil
}

// RequestVerification mails a verification link. Unknown, inactive and already
// verified accounts are skipped silently so the endpoint cannot enumerate emails.
func (s *AuthService) RequestVerification(email string) error {
	email = validation.NormalizeEmail(email)

	user, err := s.userRepository.ByEmail(email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			slog.Info("verification requested for unknown email")
			return nil
		}
		return fmt.Errorf("failed to get user: %w", err)
	}

	if !user.IsActive || user.IsVerified {
		return nil
	}

	token, err := s.issueToken(user.ID, model.TokenTypeEmailVerify, s.tokenEmailVerifyExpiry)
	if err != nil {
		return err
	}

	err = s.emailService.SendVerificationEmail(user.Email, token)
	if err != nil {
		slog.Error("failed to send verification email", "error", err, "user_id", user.ID)
		return fmt.Errorf("failed to send email: %w", err)
	}

	return nil
}

func (s *AuthService) Verify(token string) (*model.User, error) {
	tokenModel, err := s.tokenRepository.ConsumeToken(token, model.TokenTypeEmailVerify)
	if err != nil {
		return nil, ErrInvalidToken
	}

	user, err := s.userRepository.ByID(tokenModel.UserID)
	if err != nil {
		return nil, ErrInvalidToken
	}

	if user.IsVerified {
		return nil, ErrAlreadyVerified
	}

	user.IsVerified = true
	err = s.userRepository.Update(user)
	if err != nil {
		return nil, fmt.Errorf("failed to verify user: %w", err)
	}

	err = s.emailService.SendWelcomeEmail(user.Email)
	if err != nil {
		slog.Warn("failed to send welcome email", "error", err, "user_id", user.ID)
	}

	slog.Info("user verified", "user_id", user.ID)
	return user, nil
}

// ForgotPassword mails a reset link. Like RequestVerification it never reveals
// whether the email exists.
func (s *AuthService) ForgotPassword(email string) error {
	email = validation.NormalizeEmail(email)

	user, err := s.userRepository.ByEmail(email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			slog.Info("forgot password requested for unknown email")
			return nil
		}
		return fmt.Errorf("failed to get user: %w", err)
	}

	if !user.IsActive {
		return nil
	}

	token, err := s.issueToken(user.ID, model.TokenTypePasswordReset, s.tokenPasswordResetExpiry)
	if err != nil {
		return err
	}

	err = s.emailService.SendPasswordResetEmail(user.Email, token)
	if err != nil {
		slog.Error("failed to send password reset email", "error", err, "user_id", user.ID)
		return fmt.Errorf("failed to send email: %w", err)
	}

	return nil
}

func (s *AuthService) ResetPassword(token, password string) (*model.User, error) {
	// Validate against the token's user first so a rejected password leaves
	// the reset link usable
	tokenModel, err := s.tokenRepository.Peek(token, model.TokenTypePasswordReset)
	if err != nil {
		return nil, ErrInvalidToken
	}

	user, err := s.userRepository.ByID(tokenModel.UserID)
	if err != nil || !user.IsActive {
		return nil, ErrInvalidToken
	}

	err = s.ValidatePassword(password, user.Email)
	if err != nil {
		return nil, err
	}

	consumed, err := s.tokenRepository.ConsumeToken(token, model.TokenTypePasswordReset)
	if err != nil || consumed.UserID != user.ID {
		return nil, ErrInvalidToken
	}

	hash, err := s.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user.PasswordHash = hash
	err = s.userRepository.Update(user)
	if err != nil {
		return nil, fmt.Errorf("failed to reset password: %w", err)
	}

	slog.Info("password reset", "user_id", user.ID)
	return user, nil
}

// issueToken replaces any outstanding token of the same type with a fresh one.
func (s *AuthService) issueToken(userID, tokenType string, expiry time.Duration) (string, error) {
	err := s.tokenRepository.DeleteByUserAndType(userID, tokenType)
	if err != nil {
		slog.Warn("failed to delete old tokens", "error", err, "user_id", userID, "type", tokenType)
	}

	value, err := s.GenerateToken()
	if err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}

	err = s.tokenRepository.Create(&model.Token{
		UserID:    userID,
		Type:      tokenType,
		Token:     value,
		ExpiresAt: time.Now().Add(expiry),
	})
	if err != nil {
		return "", fmt.Errorf("failed to create token: %w", err)
	}

	return value, nil
}
