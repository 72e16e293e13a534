package assessment

import (
	"context"

	"madfam_site_backend/internal/events"
	"madfam_site_backend/platform/apperr"
	"madfam_site_backend/platform/logger"

	"github.com/google/uuid"
)

// Service scores and stores assessment submissions.
type Service struct {
	repo   *Repository
	rubric Rubric
	bus    events.Bus
	log    *logger.Logger
}

// NewService creates the assessment service with the production rubric.
func NewService(repo *Repository, bus events.Bus, log *logger.Logger) *Service {
	return &Service{
		repo:   repo,
		rubric: DefaultRubric(),
		bus:    bus,
		log:    log,
	}
}

// Submit scores the answers, persists the submission, and publishes the
// completion event that drives the results email.
func (s *Service) Submit(ctx context.Context, req SubmitRequest) (SubmitResponse, error) {
	result := ScoreAssessment(req.Answers, s.rubric)

	stored, err := s.repo.Create(ctx, storedAssessment{
		Name:    req.Name,
		Email:   req.Email,
		Company: req.Company,
		Locale:  req.Locale,
		Answers: req.Answers,
		Result:  result,
	})
	if err != nil {
		return SubmitResponse{}, apperr.Wrap(apperr.KindInternal, "failed to store assessment", err)
	}

	s.log.Info("assessment completed",
		"assessmentId", stored.ID,
		"score", result.Score,
	)

	s.bus.Publish(ctx, events.AssessmentCompleted{
		BaseEvent:       events.NewBaseEvent(),
		AssessmentID:    stored.ID,
		Email:           stored.Email,
		Name:            stored.Name,
		Score:           result.Score,
		Strengths:       result.Strengths,
		Weaknesses:      result.Weaknesses,
		Recommendations: result.Recommendations,
		Locale:          stored.Locale,
	})

	return SubmitResponse{
		ID:        stored.ID,
		Result:    stored.Result,
		CreatedAt: stored.CreatedAt,
	}, nil
}

// Get returns a stored submission for admin review.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (Record, error) {
	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if err == ErrNotFound {
			return Record{}, apperr.NotFound("assessment not found")
		}
		return Record{}, apperr.Wrap(apperr.KindInternal, "failed to load assessment", err)
	}
	return toRecord(a), nil
}

// List returns stored submissions for the admin dashboard.
func (s *Service) List(ctx context.Context, q ListQuery) ([]Record, error) {
	items, err := s.repo.List(ctx, q)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "failed to list assessments", err)
	}
	out := make([]Record, len(items))
	for i, a := range items {
		out[i] = toRecord(a)
	}
	return out, nil
}

func toRecord(a storedAssessment) Record {
	return Record{
		ID:        a.ID,
		Name:      a.Name,
		Email:     a.Email,
		Company:   a.Company,
		Locale:    a.Locale,
		Result:    a.Result,
		CreatedAt: a.CreatedAt,
	}
}
