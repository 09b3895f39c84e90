package service

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"

	"github.com/practicelog/practicelog/internal/markdown"
	"github.com/resend/resend-go/v2"
)

var ErrEmailNotConfigured = fmt.Errorf("email service not configured (missing RESEND_API_KEY)")

type EmailService struct {
	client    *resend.Client
	markdown  *markdown.Parser
	fromEmail string
	isDev     bool
	appURL    string
	appName   string
}

func NewEmailService(apiKey, fromEmail, appURL, appName string, isDev bool) *EmailService {
	var client *resend.Client
	if apiKey != "" && !isDev {
		client = resend.NewClient(apiKey)
	}

	return &EmailService{
		client:    client,
		markdown:  markdown.NewParser(),
		fromEmail: fromEmail,
		isDev:     isDev,
		appURL:    appURL,
		appName:   appName,
	}
}

func (s *EmailService) SendVerificationEmail(email, token string) error {
	verifyURL := fmt.Sprintf("%s/auth/verify?token=%s", s.appURL, url.QueryEscape(token))
	return s.send("verify", email, verifyURL)
}

func (s *EmailService) SendPasswordResetEmail(email, token string) error {
	resetURL := fmt.Sprintf("%s/auth/reset-password?token=%s", s.appURL, url.QueryEscape(token))
	return s.send("reset_password", email, resetURL)
}

func (s *EmailService) SendWelcomeEmail(email string) error {
	dashboardURL := fmt.Sprintf("%s/dashboard", s.appURL)
	return s.send("welcome", email, dashboardURL)
}

func (s *EmailService) send(kind, to, link string) error {
	content, err := renderEmail(s.markdown, kind, emailData{URL: link, AppName: s.appName})
	if err != nil {
		return err
	}

	if s.isDev {
		slog.Info("email sent (dev mode)", "type", kind, "to", to, "subject", content.Subject, "url", link)
		return nil
	}

	if s.client == nil {
		return ErrEmailNotConfigured
	}

	params := &resend.SendEmailRequest{
		From:    s.fromEmail,
		To:      []string{to},
		Subject: content.Subject,
		Text:    content.Text,
		Html:    content.HTML,
	}

	_, err = s.client.Emails.SendWithContext(context.Background(), params)
	if err == nil {
		slog.Info("email sent", "type", kind, "to", to)
	}
	return err
}
