package service

import (
	"testing"

	"github.com/practicelog/practicelog/internal/markdown"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderEmail(t *testing.T) {
	md := markdown.NewParser()
	data := emailData{URL: "https://practicelog.test/auth/verify?token=abc123", AppName: "PracticeLog"}

	content, err := renderEmail(md, "verify", data)
	require.NoError(t, err)
	assert.Equal(t, "Verify your email for PracticeLog", content.Subject)
	assert.Contains(t, content.HTML, `href="https://practicelog.test/auth/verify?token=abc123"`)
	assert.Contains(t, content.Text, "https://practicelog.test/auth/verify?token=abc123")
	assert.NotContains(t, content.Text, "subject:")
	assert.NotContains(t, content.HTML, "subject:")
}

func TestRenderEmailTemplates(t *testing.T) {
	md := markdown.NewParser()
	data := emailData{URL: "https://practicelog.test/x", AppName: "PracticeLog"}

	for name, subject := range map[string]string{
		"verify":         "Verify your email for PracticeLog",
		"reset_password": "Reset your password for PracticeLog",
		"welcome":        "Welcome to PracticeLog!",
	} {
		content, err := renderEmail(md, name, data)
		require.NoError(t, err, name)
		assert.Equal(t, subject, content.Subject, name)
		assert.Contains(t, content.Text, "The PracticeLog Team", name)
	}

	_, err := renderEmail(md, "missing", data)
	assert.Error(t, err)
}

func TestEmailServiceSend(t *testing.T) {
	dev := NewEmailService("", "noreply@practicelog.test", "https://practicelog.test", "PracticeLog", true)
	assert.NoError(t, dev.SendVerificationEmail("player@example.com", "abc"))
	assert.NoError(t, dev.SendWelcomeEmail("player@example.com"))

	unconfigured := NewEmailService("", "noreply@practicelog.test", "https://practicelog.test", "PracticeLog", false)
	assert.ErrorIs(t, unconfigured.SendPasswordResetEmail("player@example.com", "abc"), ErrEmailNotConfigured)
}
