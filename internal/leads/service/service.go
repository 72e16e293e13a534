// Package service implements lead capture: scoring, phone normalization,
// persistence, and downstream notification triggers.
package service

import (
	"context"
	"time"

	"madfam_site_backend/internal/events"
	"madfam_site_backend/internal/leads/domain"
	"madfam_site_backend/internal/leads/repository"
	"madfam_site_backend/internal/leads/scoring"
	"madfam_site_backend/internal/leads/transport"
	"madfam_site_backend/platform/apperr"
	"madfam_site_backend/platform/config"
	"madfam_site_backend/platform/logger"
	"madfam_site_backend/platform/phone"

	"github.com/google/uuid"
)

// duplicateWindow suppresses double-submits from the same visitor.
const duplicateWindow = 60 * time.Second

// followUpDelay is how long after capture the follow-up reminder fires.
const followUpDelay = 48 * time.Hour

// FollowUpScheduler schedules a delayed follow-up reminder for a lead.
// Satisfied by scheduler.Client; nil when redis is not configured.
type FollowUpScheduler interface {
	ScheduleLeadFollowUp(ctx context.Context, leadID uuid.UUID, runAt time.Time) error
}

// Service handles lead capture and admin reads.
type Service struct {
	repo      *repository.Repository
	tables    scoring.Tables
	bus       events.Bus
	cfg       config.LeadsConfig
	log       *logger.Logger
	scheduler FollowUpScheduler
}

// New creates a new leads service with the production scoring tables.
func New(repo *repository.Repository, bus events.Bus, cfg config.LeadsConfig, log *logger.Logger) *Service {
	return &Service{
		repo:   repo,
		tables: scoring.DefaultTables(),
		bus:    bus,
		cfg:    cfg,
		log:    log,
	}
}

// SetFollowUpScheduler wires the optional reminder scheduler.
func (s *Service) SetFollowUpScheduler(sched FollowUpScheduler) {
	s.scheduler = sched
}

// Create captures a lead: strict tier parsing, phone normalization,
// scoring, duplicate suppression, persistence, and event publication.
func (s *Service) Create(ctx context.Context, req transport.CreateLeadRequest) (transport.LeadResponse, error) {
	var tier *domain.Tier
	if req.Tier != "" {
		parsed, err := domain.ParseTier(req.Tier)
		if err != nil {
			return transport.LeadResponse{}, err
		}
		tier = &parsed
	}

	normalizedPhone := phone.NormalizeE164(req.Phone, s.cfg.GetDefaultRegion())

	score := scoring.Score(scoring.Signal{
		Email:   req.Email,
		Company: req.Company,
		Phone:   normalizedPhone,
		Message: req.Message,
		Tier:    tier,
	}, s.tables)

	// Duplicate submits within the window return the existing lead instead
	// of creating a second record. A failed check never loses a lead.
	dupID, err := s.repo.FindRecentDuplicate(ctx, req.Email, duplicateWindow)
	if err != nil {
		s.log.DatabaseError("leads.find_duplicate", err)
	} else if dupID != nil {
		existing, err := s.repo.GetByID(ctx, *dupID)
		if err == nil {
			s.log.Info("duplicate lead submit ignored", "leadId", *dupID)
			return toResponse(existing), nil
		}
	}

	var tierStr *string
	if tier != nil {
		v := string(*tier)
		tierStr = &v
	}

	lead, err := s.repo.Create(ctx, repository.Lead{
		Name:    req.Name,
		Email:   req.Email,
		Company: req.Company,
		Phone:   normalizedPhone,
		Message: req.Message,
		Tier:    tierStr,
		Source:  req.Source,
		Locale:  req.Locale,
		Score:   score,
	})
	if err != nil {
		return transport.LeadResponse{}, apperr.Wrap(apperr.KindInternal, "failed to store lead", err)
	}

	s.log.LeadCaptured(lead.ID.String(), lead.Score, lead.Source)

	tierValue := ""
	if tier != nil {
		tierValue = string(*tier)
	}
	s.bus.Publish(ctx, events.LeadCaptured{
		BaseEvent: events.NewBaseEvent(),
		LeadID:    lead.ID,
		Email:     lead.Email,
		Name:      lead.Name,
		Company:   lead.Company,
		Tier:      tierValue,
		Score:     lead.Score,
		Source:    lead.Source,
		Locale:    lead.Locale,
	})

	if s.scheduler != nil {
		if err := s.scheduler.ScheduleLeadFollowUp(ctx, lead.ID, time.Now().Add(followUpDelay)); err != nil {
			s.log.Warn("failed to schedule lead follow-up", "leadId", lead.ID, "error", err)
		}
	}

	return toResponse(lead), nil
}

// Get returns a single lead for admin review.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (transport.LeadResponse, error) {
	lead, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if err == repository.ErrLeadNotFound {
			return transport.LeadResponse{}, apperr.NotFound("lead not found")
		}
		return transport.LeadResponse{}, apperr.Wrap(apperr.KindInternal, "failed to load lead", err)
	}
	return toResponse(lead), nil
}

// List returns leads matching the admin filter.
func (s *Service) List(ctx context.Context, q transport.ListLeadsQuery) ([]transport.LeadResponse, error) {
	leads, err := s.repo.List(ctx, repository.ListFilter{
		MinScore: q.MinScore,
		Status:   q.Status,
		Limit:    q.Limit,
		Offset:   q.Offset,
	})
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "failed to list leads", err)
	}

	result := make([]transport.LeadResponse, len(leads))
	for i, l := range leads {
		result[i] = toResponse(l)
	}
	return result, nil
}

func toResponse(l repository.Lead) transport.LeadResponse {
	tier := ""
	if l.Tier != nil {
		tier = *l.Tier
	}
	return transport.LeadResponse{
		ID:        l.ID,
		Name:      l.Name,
		Email:     l.Email,
		Company:   l.Company,
		Phone:     l.Phone,
		Message:   l.Message,
		Tier:      tier,
		Source:    l.Source,
		Locale:    l.Locale,
		Score:     l.Score,
		Status:    l.Status,
		CreatedAt: l.CreatedAt,
	}
}
