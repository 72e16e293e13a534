// Package events provides domain event definitions for decoupled,
// event-driven communication between modules.
// Infrastructure (Bus, Handler) is in platform/events.
package events

import (
	"madfam_site_backend/platform/events"
	"madfam_site_backend/platform/logger"

	"github.com/google/uuid"
)

// Re-export platform types for convenience
type (
	Event       = events.Event
	Bus         = events.Bus
	Handler     = events.Handler
	HandlerFunc = events.HandlerFunc
	BaseEvent   = events.BaseEvent
	InMemoryBus = events.InMemoryBus
)

// Re-export platform functions
var NewBaseEvent = events.NewBaseEvent

// NewInMemoryBus creates a new in-memory event bus.
func NewInMemoryBus(log *logger.Logger) *InMemoryBus {
	return events.NewInMemoryBus(log)
}

// =============================================================================
// Leads Domain Events
// =============================================================================

// LeadCaptured is published when a new lead is captured from a site form.
type LeadCaptured struct {
	BaseEvent
	LeadID  uuid.UUID `json:"leadId"`
	Email   string    `json:"email"`
	Name    string    `json:"name"`
	Company string    `json:"company,omitempty"`
	Tier    string    `json:"tier,omitempty"`
	Score   int       `json:"score"`
	Source  string    `json:"source,omitempty"`
	Locale  string    `json:"locale,omitempty"`
}

func (e LeadCaptured) EventName() string { return "leads.lead.captured" }

// LeadStatusChanged is published when a marketing-automation webhook
// transitions a lead's status.
type LeadStatusChanged struct {
	BaseEvent
	LeadID    uuid.UUID `json:"leadId"`
	OldStatus string    `json:"oldStatus"`
	NewStatus string    `json:"newStatus"`
	Source    string    `json:"source"`
}

func (e LeadStatusChanged) EventName() string { return "leads.status.changed" }

// =============================================================================
// Assessment Domain Events
// =============================================================================

// AssessmentCompleted is published when an AI-readiness assessment is scored.
// It carries the full result so subscribers can render it without a read
// back into the assessment store.
type AssessmentCompleted struct {
	BaseEvent
	AssessmentID    uuid.UUID `json:"assessmentId"`
	Email           string    `json:"email"`
	Name            string    `json:"name,omitempty"`
	Score           int       `json:"score"`
	Strengths       []string  `json:"strengths,omitempty"`
	Weaknesses      []string  `json:"weaknesses,omitempty"`
	Recommendations []string  `json:"recommendations,omitempty"`
	Locale          string    `json:"locale,omitempty"`
}

func (e AssessmentCompleted) EventName() string { return "assessment.completed" }

// =============================================================================
// Webhook Domain Events
// =============================================================================

// MarketingEventReceived is published for every accepted webhook event,
// after its record writer has run.
type MarketingEventReceived struct {
	BaseEvent
	EventType    string     `json:"eventType"`
	LeadID       *uuid.UUID `json:"leadId,omitempty"`
	SourceDomain string     `json:"sourceDomain,omitempty"`
}

func (e MarketingEventReceived) EventName() string { return "webhook.marketing.received" }

// =============================================================================
// Notification Domain Events
// =============================================================================

// NotificationOutboxDue is published by the scheduler worker when an outbox
// row is due for delivery.
type NotificationOutboxDue struct {
	BaseEvent
	OutboxID uuid.UUID `json:"outboxId"`
}

func (e NotificationOutboxDue) EventName() string { return "notification.outbox.due" }

// LeadFollowUpDue is published by the scheduler worker when a lead's
// follow-up reminder fires.
type LeadFollowUpDue struct {
	BaseEvent
	LeadID uuid.UUID `json:"leadId"`
}

func (e LeadFollowUpDue) EventName() string { return "leads.followup.due" }
