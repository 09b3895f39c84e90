package storage

import (
	"testing"

	"github.com/practicelog/practicelog/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWithoutBucket(t *testing.T) {
	s, err := New(&config.Config{S3Region: "us-east-1"})
	require.NoError(t, err)
	assert.Nil(t, s)
}
