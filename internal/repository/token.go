package repository

import (
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/practicelog/practicelog/internal/model"
)

var (
	ErrTokenNotFound = errors.New("token not found")
)

type TokenRepository interface {
	Create(token *model.Token) error
	Peek(token, tokenType string) (*model.Token, error)
	ConsumeToken(token, tokenType string) (*model.Token, error)
	DeleteByUserAndType(userID, tokenType string) error
}

type tokenRepository struct {
	db *sqlx.DB
}

func NewTokenRepository(db *sqlx.DB) TokenRepository {
	return &tokenRepository{db: db}
}

func (r *tokenRepository) Create(token *model.Token) error {
	if token.ID == "" {
		token.ID = uuid.New().String()
	}
	if token.CreatedAt.IsZero() {
		token.CreatedAt = time.Now()
	}

	query := `
		INSERT INTO tokens (id, user_id, type, token, expires_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := r.db.Exec(query,
		token.ID,
		token.UserID,
		token.Type,
		token.Token,
		token.ExpiresAt,
		token.CreatedAt,
	)
	return err
}

// Peek returns an unused, unexpired token without marking it used.
func (r *tokenRepository) Peek(token, tokenType string) (*model.Token, error) {
	var t model.Token
	query := `
		SELECT id, user_id, type, token
		FROM tokens
		WHERE token = $1
		AND type = $2
		AND used_at IS NULL
		AND expires_at > $3
	`

	err := r.db.Get(&t, query, token, tokenType, time.Now())
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrTokenNotFound
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// ConsumeToken atomically marks an unused, unexpired token of the given type as used.
// A second consumer of the same token gets ErrTokenNotFound. Only the identifying
// columns are returned.
func (r *tokenRepository) ConsumeToken(token, tokenType string) (*model.Token, error) {
	var t model.Token
	now := time.Now()

	// Check and mark in a single statement so two concurrent requests
	// cannot both redeem the same token
	query := `
		UPDATE tokens
		SET used_at = $1
		WHERE token = $2
		AND type = $3
		AND used_at IS NULL
		AND expires_at > $4
		RETURNING id, user_id, type, token
	`

	err := r.db.Get(&t, query, now, token, tokenType, now)
	// No row means unknown, wrong type, already used or expired
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrTokenNotFound
	}
	if err != nil {
		return nil, err
	}

	t.UsedAt = &now
	return &t, nil
}

// DeleteByUserAndType revokes outstanding tokens. Used ones stay as an audit trail.
func (r *tokenRepository) DeleteByUserAndType(userID, tokenType string) error {
	query := `DELETE FROM tokens WHERE user_id = $1 AND type = $2 AND used_at IS NULL`
	_, err := r.db.Exec(query, userID, tokenType)
	return err
}
