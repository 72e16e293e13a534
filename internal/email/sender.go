// Package email renders and delivers transactional email for the
// marketing site: sales alerts for hot leads and assessment results for
// prospects.
package email

import "context"

// LeadAlertData fills the sales alert template.
type LeadAlertData struct {
	LeadName    string
	LeadEmail   string
	Company     string
	Tier        string
	Score       int
	Source      string
	AdminURL    string
	FollowUp    bool
	CapturedAgo string
}

// AssessmentResultsData fills the prospect-facing results template.
type AssessmentResultsData struct {
	Name            string
	Score           int
	Strengths       []string
	Weaknesses      []string
	Recommendations []string
	Locale          string
	ResultsURL      string
}

// Sender delivers rendered email. Implemented by SMTPSender; a nil-safe
// NoopSender stands in when SMTP is not configured.
type Sender interface {
	SendLeadAlertEmail(ctx context.Context, toEmail string, data LeadAlertData) error
	SendAssessmentResultsEmail(ctx context.Context, toEmail string, data AssessmentResultsData) error
}

// NoopSender drops all mail. Used when EMAIL_ENABLED is false so the rest
// of the notification pipeline still runs in development.
type NoopSender struct{}

func (NoopSender) SendLeadAlertEmail(context.Context, string, LeadAlertData) error {
	return nil
}

func (NoopSender) SendAssessmentResultsEmail(context.Context, string, AssessmentResultsData) error {
	return nil
}
