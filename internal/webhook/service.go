package webhook

import (
	"context"
	"time"

	"madfam_site_backend/internal/events"
	leadrepo "madfam_site_backend/internal/leads/repository"
	"madfam_site_backend/platform/apperr"
	"madfam_site_backend/platform/logger"

	"github.com/google/uuid"
)

// Marketing event types sent by the automation platform.
const (
	EventLeadUpdated       = "lead.updated"
	EventEmailOpened       = "email.opened"
	EventEmailClicked      = "email.clicked"
	EventEmailUnsubscribed = "email.unsubscribed"
	EventCampaignCompleted = "campaign.completed"
)

// MarketingEvent is the inbound webhook payload.
type MarketingEvent struct {
	Event      string         `json:"event" validate:"required,max=100"`
	Email      string         `json:"email" validate:"omitempty,email,max=320"`
	Status     string         `json:"status" validate:"omitempty,max=50"`
	CampaignID string         `json:"campaignId" validate:"omitempty,uuid"`
	OccurredAt time.Time      `json:"occurredAt"`
	Metadata   map[string]any `json:"metadata"`
}

// ProcessResult reports what the receiver did with an event.
type ProcessResult struct {
	Event   string `json:"event"`
	Handled bool   `json:"handled"`
}

// LeadDirectory is the slice of the leads repository the receiver needs.
type LeadDirectory interface {
	FindByEmail(ctx context.Context, email string) (leadrepo.Lead, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status string) error
	MarkUnsubscribed(ctx context.Context, email string) error
}

// TouchpointWriter records marketing interactions.
type TouchpointWriter interface {
	InsertTouchpoint(ctx context.Context, tp Touchpoint) error
}

var validLeadStatuses = map[string]bool{
	leadrepo.StatusNew:          true,
	leadrepo.StatusEngaged:      true,
	leadrepo.StatusQualified:    true,
	leadrepo.StatusUnsubscribed: true,
}

// Service processes inbound marketing events against the lead directory.
type Service struct {
	leads       LeadDirectory
	touchpoints TouchpointWriter
	bus         events.Bus
	log         *logger.Logger
}

// NewService creates the webhook receiver service.
func NewService(leads LeadDirectory, touchpoints TouchpointWriter, bus events.Bus, log *logger.Logger) *Service {
	return &Service{leads: leads, touchpoints: touchpoints, bus: bus, log: log}
}

// Process dispatches one marketing event. Known events update the lead
// directory; unknown events are recorded as unhandled touchpoints and
// acknowledged anyway so the sender does not retry forever.
func (s *Service) Process(ctx context.Context, evt MarketingEvent, sourceDomain string) (ProcessResult, error) {
	var handled bool
	var err error

	switch evt.Event {
	case EventLeadUpdated:
		handled, err = s.handleLeadUpdated(ctx, evt)
	case EventEmailOpened, EventEmailClicked:
		handled, err = s.handleEngagement(ctx, evt)
	case EventEmailUnsubscribed:
		handled, err = s.handleUnsubscribe(ctx, evt)
	case EventCampaignCompleted:
		handled = true
	default:
		handled = false
	}
	if err != nil {
		return ProcessResult{}, err
	}

	s.recordTouchpoint(ctx, evt, sourceDomain, handled)
	s.log.WebhookEvent(evt.Event, handled)

	var leadID *uuid.UUID
	if lead, lookupErr := s.findLead(ctx, evt.Email); lookupErr == nil {
		id := lead.ID
		leadID = &id
	}
	s.bus.Publish(ctx, events.MarketingEventReceived{
		BaseEvent:    events.NewBaseEvent(),
		EventType:    evt.Event,
		LeadID:       leadID,
		SourceDomain: sourceDomain,
	})

	return ProcessResult{Event: evt.Event, Handled: handled}, nil
}

func (s *Service) handleLeadUpdated(ctx context.Context, evt MarketingEvent) (bool, error) {
	if evt.Email == "" {
		return false, apperr.Validation("lead.updated requires an email")
	}
	if !validLeadStatuses[evt.Status] {
		return false, apperr.Validation("unknown lead status: " + evt.Status)
	}

	lead, err := s.leads.FindByEmail(ctx, evt.Email)
	if err != nil {
		if err == leadrepo.ErrLeadNotFound {
			// Not an error worth a retry; the contact never filled a form.
			return false, nil
		}
		return false, apperr.Wrap(apperr.KindInternal, "failed to look up lead", err)
	}
	if err := s.leads.UpdateStatus(ctx, lead.ID, evt.Status); err != nil {
		return false, apperr.Wrap(apperr.KindInternal, "failed to update lead status", err)
	}
	s.publishStatusChange(ctx, lead.ID, lead.Status, evt.Status, evt.Event)
	return true, nil
}

// handleEngagement promotes a fresh lead to engaged on its first open or
// click. Later opens only add touchpoints.
func (s *Service) handleEngagement(ctx context.Context, evt MarketingEvent) (bool, error) {
	if evt.Email == "" {
		return false, apperr.Validation(evt.Event + " requires an email")
	}
	lead, err := s.leads.FindByEmail(ctx, evt.Email)
	if err != nil {
		if err == leadrepo.ErrLeadNotFound {
			return false, nil
		}
		return false, apperr.Wrap(apperr.KindInternal, "failed to look up lead", err)
	}
	if lead.Status == leadrepo.StatusNew {
		if err := s.leads.UpdateStatus(ctx, lead.ID, leadrepo.StatusEngaged); err != nil {
			return false, apperr.Wrap(apperr.KindInternal, "failed to update lead status", err)
		}
		s.publishStatusChange(ctx, lead.ID, lead.Status, leadrepo.StatusEngaged, evt.Event)
	}
	return true, nil
}

// publishStatusChange announces an actual transition; same-status updates
// stay quiet.
func (s *Service) publishStatusChange(ctx context.Context, leadID uuid.UUID, oldStatus, newStatus, source string) {
	if oldStatus == newStatus {
		return
	}
	s.bus.Publish(ctx, events.LeadStatusChanged{
		BaseEvent: events.NewBaseEvent(),
		LeadID:    leadID,
		OldStatus: oldStatus,
		NewStatus: newStatus,
		Source:    source,
	})
}

func (s *Service) handleUnsubscribe(ctx context.Context, evt MarketingEvent) (bool, error) {
	if evt.Email == "" {
		return false, apperr.Validation("email.unsubscribed requires an email")
	}
	if err := s.leads.MarkUnsubscribed(ctx, evt.Email); err != nil {
		return false, apperr.Wrap(apperr.KindInternal, "failed to unsubscribe lead", err)
	}
	return true, nil
}

func (s *Service) recordTouchpoint(ctx context.Context, evt MarketingEvent, sourceDomain string, handled bool) {
	var leadID *uuid.UUID
	if lead, err := s.findLead(ctx, evt.Email); err == nil {
		id := lead.ID
		leadID = &id
	}
	tp := Touchpoint{
		LeadID:       leadID,
		Email:        evt.Email,
		EventType:    evt.Event,
		SourceDomain: sourceDomain,
		Handled:      handled,
		Metadata:     evt.Metadata,
		OccurredAt:   evt.OccurredAt,
	}
	if err := s.touchpoints.InsertTouchpoint(ctx, tp); err != nil {
		s.log.DatabaseError("webhook.insert_touchpoint", err)
	}
}

func (s *Service) findLead(ctx context.Context, email string) (leadrepo.Lead, error) {
	if email == "" {
		return leadrepo.Lead{}, leadrepo.ErrLeadNotFound
	}
	return s.leads.FindByEmail(ctx, email)
}
