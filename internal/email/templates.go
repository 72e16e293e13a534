package email

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
)

//go:embed templates/*.html
var templateFS embed.FS

type baseEmailData struct {
	Title    string
	Heading  string
	CTALabel string
	CTAURL   string
}

type leadAlertEmailData struct {
	baseEmailData
	LeadName  string
	LeadEmail string
	Company   string
	Tier      string
	Score     int
	Source    string
	FollowUp  bool
}

type assessmentResultsEmailData struct {
	baseEmailData
	Name            string
	Score           int
	Strengths       []string
	Weaknesses      []string
	Recommendations []string
}

func renderEmailTemplate(name string, data any) (string, error) {
	templates := []string{"templates/base.html", "templates/" + name}
	tmpl, err := template.New("base.html").ParseFS(templateFS, templates...)
	if err != nil {
		return "", fmt.Errorf("parse email template %s: %w", name, err)
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "email", data); err != nil {
		return "", fmt.Errorf("execute email template %s: %w", name, err)
	}
	return buf.String(), nil
}
