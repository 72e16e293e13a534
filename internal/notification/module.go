// Package notification turns domain events into email. Handlers on the
// capture side write outbox rows; the delivery handler runs in the
// scheduler worker and sends through the configured email.Sender with
// retry and backoff.
package notification

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"madfam_site_backend/internal/email"
	"madfam_site_backend/internal/events"
	leadrepo "madfam_site_backend/internal/leads/repository"
	"madfam_site_backend/internal/notification/outbox"
	"madfam_site_backend/platform/config"
	"madfam_site_backend/platform/logger"

	"github.com/google/uuid"
)

const (
	templateLeadAlert         = "lead_alert"
	templateAssessmentResults = "assessment_results"

	maxOutboxRetryAttempts = 5
	outboxRetryBaseDelay   = time.Minute
	outboxRetryMaxDelay    = 60 * time.Minute
)

// LeadReader provides the lead lookups the follow-up check needs.
type LeadReader interface {
	GetByID(ctx context.Context, id uuid.UUID) (leadrepo.Lead, error)
}

type leadAlertPayload struct {
	ToEmail string `json:"toEmail"`
	email.LeadAlertData
}

type assessmentResultsPayload struct {
	ToEmail string `json:"toEmail"`
	email.AssessmentResultsData
}

// Module handles all notification-related event subscriptions.
type Module struct {
	sender email.Sender
	outbox *outbox.Repository
	leads  LeadReader
	cfg    config.NotificationConfig
	log    *logger.Logger
}

// New creates a new notification module.
func New(sender email.Sender, outboxRepo *outbox.Repository, leads LeadReader, cfg config.NotificationConfig, log *logger.Logger) *Module {
	return &Module{
		sender: sender,
		outbox: outboxRepo,
		leads:  leads,
		cfg:    cfg,
		log:    log,
	}
}

// RegisterCaptureHandlers subscribes the enqueue-side handlers. Used by
// the API process.
func (m *Module) RegisterCaptureHandlers(bus events.Bus) {
	bus.Subscribe(events.LeadCaptured{}.EventName(), m)
	bus.Subscribe(events.AssessmentCompleted{}.EventName(), m)
	m.log.Info("notification capture handlers registered")
}

// RegisterDeliveryHandlers subscribes the delivery-side handlers. Used by
// the scheduler worker process.
func (m *Module) RegisterDeliveryHandlers(bus events.Bus) {
	bus.Subscribe(events.NotificationOutboxDue{}.EventName(), m)
	bus.Subscribe(events.LeadFollowUpDue{}.EventName(), m)
	m.log.Info("notification delivery handlers registered")
}

// Handle routes events to the appropriate handler method.
func (m *Module) Handle(ctx context.Context, event events.Event) error {
	switch e := event.(type) {
	case events.LeadCaptured:
		return m.handleLeadCaptured(ctx, e)
	case events.AssessmentCompleted:
		return m.handleAssessmentCompleted(ctx, e)
	case events.LeadFollowUpDue:
		return m.handleLeadFollowUpDue(ctx, e)
	case events.NotificationOutboxDue:
		return m.handleNotificationOutboxDue(ctx, e)
	default:
		m.log.Warn("unhandled event type", "event", event.EventName())
		return nil
	}
}

// handleLeadCaptured alerts sales about leads scoring at or above the
// configured threshold.
func (m *Module) handleLeadCaptured(ctx context.Context, e events.LeadCaptured) error {
	if e.Score < m.cfg.GetLeadNotifyThreshold() {
		return nil
	}
	salesEmail := m.cfg.GetSalesEmail()
	if salesEmail == "" {
		m.log.Warn("sales email not configured; lead alert dropped", "leadId", e.LeadID)
		return nil
	}

	id, err := m.outbox.Insert(ctx, outbox.InsertParams{
		Kind:     "email",
		Template: templateLeadAlert,
		Payload: leadAlertPayload{
			ToEmail: salesEmail,
			LeadAlertData: email.LeadAlertData{
				LeadName:  e.Name,
				LeadEmail: e.Email,
				Company:   e.Company,
				Tier:      e.Tier,
				Score:     e.Score,
				Source:    e.Source,
				AdminURL:  m.leadAdminURL(e.LeadID),
			},
		},
	})
	if err != nil {
		return fmt.Errorf("enqueue lead alert: %w", err)
	}
	m.log.Info("lead alert enqueued", "outboxId", id, "leadId", e.LeadID, "score", e.Score)
	return nil
}

// handleAssessmentCompleted mails the scored results to the prospect.
func (m *Module) handleAssessmentCompleted(ctx context.Context, e events.AssessmentCompleted) error {
	id, err := m.outbox.Insert(ctx, outbox.InsertParams{
		Kind:     "email",
		Template: templateAssessmentResults,
		Payload: assessmentResultsPayload{
			ToEmail: e.Email,
			AssessmentResultsData: email.AssessmentResultsData{
				Name:            e.Name,
				Score:           e.Score,
				Strengths:       e.Strengths,
				Weaknesses:      e.Weaknesses,
				Recommendations: e.Recommendations,
				Locale:          e.Locale,
				ResultsURL:      m.cfg.GetAppBaseURL() + "/contacto",
			},
		},
	})
	if err != nil {
		return fmt.Errorf("enqueue assessment results: %w", err)
	}
	m.log.Info("assessment results enqueued", "outboxId", id, "assessmentId", e.AssessmentID)
	return nil
}

// handleLeadFollowUpDue re-alerts sales about leads still untouched when
// the follow-up reminder fires.
func (m *Module) handleLeadFollowUpDue(ctx context.Context, e events.LeadFollowUpDue) error {
	if m.leads == nil {
		return nil
	}
	lead, err := m.leads.GetByID(ctx, e.LeadID)
	if err != nil {
		if err == leadrepo.ErrLeadNotFound {
			return nil
		}
		return err
	}
	// Only still-untouched leads get the reminder.
	if lead.Status != leadrepo.StatusNew || lead.Unsubscribed {
		return nil
	}
	salesEmail := m.cfg.GetSalesEmail()
	if salesEmail == "" {
		return nil
	}

	tier := ""
	if lead.Tier != nil {
		tier = *lead.Tier
	}
	id, err := m.outbox.Insert(ctx, outbox.InsertParams{
		Kind:     "email",
		Template: templateLeadAlert,
		Payload: leadAlertPayload{
			ToEmail: salesEmail,
			LeadAlertData: email.LeadAlertData{
				LeadName:  lead.Name,
				LeadEmail: lead.Email,
				Company:   lead.Company,
				Tier:      tier,
				Score:     lead.Score,
				Source:    lead.Source,
				AdminURL:  m.leadAdminURL(lead.ID),
				FollowUp:  true,
			},
		},
	})
	if err != nil {
		return fmt.Errorf("enqueue follow-up alert: %w", err)
	}
	m.log.Info("lead follow-up alert enqueued", "outboxId", id, "leadId", lead.ID)
	return nil
}

// handleNotificationOutboxDue delivers one claimed outbox record. Failures
// reschedule with exponential backoff until the attempt limit, then the
// record is marked failed for manual review.
func (m *Module) handleNotificationOutboxDue(ctx context.Context, e events.NotificationOutboxDue) error {
	rec, err := m.outbox.GetByID(ctx, e.OutboxID)
	if err != nil {
		return err
	}
	if rec.Status == outbox.StatusSucceeded || rec.Status == outbox.StatusFailed {
		return nil
	}
	if err := m.outbox.MarkProcessing(ctx, rec.ID); err != nil {
		return err
	}

	sendErr := m.deliver(ctx, rec)
	if sendErr == nil {
		if err := m.outbox.MarkSucceeded(ctx, rec.ID); err != nil {
			return err
		}
		m.log.Info("notification delivered", "outboxId", rec.ID, "template", rec.Template)
		return nil
	}

	attempts := rec.Attempts + 1
	msg := sendErr.Error()
	if attempts >= maxOutboxRetryAttempts {
		m.log.Error("notification delivery failed permanently", "outboxId", rec.ID, "template", rec.Template, "error", sendErr)
		return m.outbox.MarkFailed(ctx, rec.ID, msg)
	}

	delay := retryDelay(attempts)
	m.log.Warn("notification delivery failed; retrying", "outboxId", rec.ID, "template", rec.Template, "attempt", attempts, "retryIn", delay, "error", sendErr)
	return m.outbox.MarkPendingAt(ctx, rec.ID, time.Now().UTC().Add(delay), &msg)
}

func (m *Module) deliver(ctx context.Context, rec outbox.Record) error {
	switch rec.Template {
	case templateLeadAlert:
		var p leadAlertPayload
		if err := json.Unmarshal(rec.Payload, &p); err != nil {
			return fmt.Errorf("invalid payload: %w", err)
		}
		return m.sender.SendLeadAlertEmail(ctx, p.ToEmail, p.LeadAlertData)
	case templateAssessmentResults:
		var p assessmentResultsPayload
		if err := json.Unmarshal(rec.Payload, &p); err != nil {
			return fmt.Errorf("invalid payload: %w", err)
		}
		return m.sender.SendAssessmentResultsEmail(ctx, p.ToEmail, p.AssessmentResultsData)
	default:
		return fmt.Errorf("unknown outbox template: %s", rec.Template)
	}
}

func (m *Module) leadAdminURL(id uuid.UUID) string {
	return m.cfg.GetAppBaseURL() + "/admin/leads/" + id.String()
}

func retryDelay(attempt int) time.Duration {
	delay := outboxRetryBaseDelay
	for i := 1; i < attempt; i++ {
		delay *= 2
		if delay >= outboxRetryMaxDelay {
			return outboxRetryMaxDelay
		}
	}
	return delay
}

var _ events.Handler = (*Module)(nil)
