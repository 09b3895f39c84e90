package service

import (
	"bytes"
	"embed"
	"fmt"
	"text/template"

	"github.com/practicelog/practicelog/internal/markdown"
)

//go:embed templates/*.md
var emailTemplatesFS embed.FS

var emailTemplates = template.Must(template.ParseFS(emailTemplatesFS, "templates/*.md"))

type emailData struct {
	URL     string
	AppName string
}

type emailContent struct {
	Subject string
	Text    string
	HTML    string
}

// renderEmail executes templates/<name>.md and renders it twice: the markdown
// body is the plain-text part, goldmark output is the HTML part. The subject
// comes from the frontmatter.
func renderEmail(md *markdown.Parser, name string, data emailData) (*emailContent, error) {
	var buf bytes.Buffer
	err := emailTemplates.ExecuteTemplate(&buf, name+".md", data)
	if err != nil {
		return nil, fmt.Errorf("failed to execute email template %s: %w", name, err)
	}
	source := buf.Bytes()

	html, meta, err := md.ParseWithFrontmatter(source)
	if err != nil {
		return nil, fmt.Errorf("failed to render email template %s: %w", name, err)
	}

	subject, _ := meta["subject"].(string)
	if subject == "" {
		return nil, fmt.Errorf("email template %s has no subject", name)
	}

	return &emailContent{
		Subject: subject,
		Text:    string(markdown.StripFrontmatter(source)),
		HTML:    string(html),
	}, nil
}
