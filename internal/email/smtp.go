package email

import (
	"context"
	"fmt"
	"net"
	"time"

	"madfam_site_backend/platform/config"

	gomail "github.com/wneessen/go-mail"
)

// SMTPSender implements Sender over a direct SMTP connection via go-mail.
type SMTPSender struct {
	host      string
	port      int
	username  string
	password  string
	fromName  string
	fromEmail string
}

// NewSMTPSender creates a new SMTPSender with the given SMTP credentials.
func NewSMTPSender(host string, port int, username, password, fromEmail, fromName string) *SMTPSender {
	return &SMTPSender{
		host:      host,
		port:      port,
		username:  username,
		password:  password,
		fromName:  fromName,
		fromEmail: fromEmail,
	}
}

// NewSenderFromConfig returns an SMTPSender when email is enabled, and a
// NoopSender otherwise.
func NewSenderFromConfig(cfg config.EmailConfig) Sender {
	if !cfg.GetEmailEnabled() {
		return NoopSender{}
	}
	return NewSMTPSender(
		cfg.GetSMTPHost(),
		cfg.GetSMTPPort(),
		cfg.GetSMTPUsername(),
		cfg.GetSMTPPassword(),
		cfg.GetEmailFromAddress(),
		cfg.GetEmailFromName(),
	)
}

func (s *SMTPSender) send(ctx context.Context, toEmail, subject, htmlContent string) error {
	msg := gomail.NewMsg()
	if err := msg.FromFormat(s.fromName, s.fromEmail); err != nil {
		return fmt.Errorf("smtp from: %w", err)
	}
	if err := msg.To(toEmail); err != nil {
		return fmt.Errorf("smtp to: %w", err)
	}
	msg.Subject(subject)
	msg.SetBodyString(gomail.TypeTextHTML, htmlContent)

	client, err := gomail.NewClient(s.host,
		gomail.WithPort(s.port),
		gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
		gomail.WithUsername(s.username),
		gomail.WithPassword(s.password),
		gomail.WithTLSPortPolicy(gomail.TLSOpportunistic),
		gomail.WithTimeout(15*time.Second),
		gomail.WithDialContextFunc(func(dctx context.Context, _ string, addr string) (net.Conn, error) {
			return (&net.Dialer{}).DialContext(dctx, "tcp4", addr)
		}),
	)
	if err != nil {
		return fmt.Errorf("smtp client: %w", err)
	}

	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("smtp send: %w", err)
	}

	return nil
}

// SendLeadAlertEmail notifies the sales inbox about a hot or stale lead.
func (s *SMTPSender) SendLeadAlertEmail(ctx context.Context, toEmail string, data LeadAlertData) error {
	heading := "Nuevo lead caliente"
	if data.FollowUp {
		heading = "Lead sin seguimiento"
	}
	content, err := renderEmailTemplate("lead_alert.html", leadAlertEmailData{
		baseEmailData: baseEmailData{
			Title:    heading,
			Heading:  heading,
			CTALabel: "Ver en el panel",
			CTAURL:   data.AdminURL,
		},
		LeadName:  data.LeadName,
		LeadEmail: data.LeadEmail,
		Company:   data.Company,
		Tier:      data.Tier,
		Score:     data.Score,
		Source:    data.Source,
		FollowUp:  data.FollowUp,
	})
	if err != nil {
		return err
	}
	return s.send(ctx, toEmail, leadAlertSubject(data.LeadName, data.Score, data.FollowUp), content)
}

// SendAssessmentResultsEmail delivers the scored assessment to the prospect.
func (s *SMTPSender) SendAssessmentResultsEmail(ctx context.Context, toEmail string, data AssessmentResultsData) error {
	content, err := renderEmailTemplate("assessment_results.html", assessmentResultsEmailData{
		baseEmailData: baseEmailData{
			Title:    "Resultados",
			Heading:  "Tu evaluación de madurez digital",
			CTALabel: "Agenda una llamada",
			CTAURL:   data.ResultsURL,
		},
		Name:            data.Name,
		Score:           data.Score,
		Strengths:       data.Strengths,
		Weaknesses:      data.Weaknesses,
		Recommendations: data.Recommendations,
	})
	if err != nil {
		return err
	}
	return s.send(ctx, toEmail, assessmentResultsSubject(data.Locale), content)
}

var _ Sender = (*SMTPSender)(nil)
