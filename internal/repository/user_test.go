package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserRepository(t *testing.T) {
	database := newTestDB(t)
	repo := NewUserRepository(database)

	user := createUser(t, database, "singer@example.com")

	found, err := repo.ByEmail("singer@example.com")
	require.NoError(t, err)
	assert.Equal(t, user.ID, found.ID)
	assert.True(t, found.IsActive)
	assert.False(t, found.IsVerified)

	_, err = repo.ByEmail("nobody@example.com")
	assert.ErrorIs(t, err, ErrUserNotFound)

	dup := *user
	dup.ID = "another-id"
	assert.ErrorIs(t, repo.Create(&dup), ErrDuplicateEmail)

	found.IsVerified = true
	require.NoError(t, repo.Update(found))

	found, err = repo.ByID(user.ID)
	require.NoError(t, err)
	assert.True(t, found.IsVerified)
}
