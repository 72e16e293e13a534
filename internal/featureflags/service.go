package featureflags

import (
	"context"

	"madfam_site_backend/platform/apperr"
	"madfam_site_backend/platform/logger"
)

// Service evaluates and administers feature flags.
type Service struct {
	repo        *Repository
	cache       *Cache
	environment string
	log         *logger.Logger
}

// NewService creates the feature flag service bound to one environment.
func NewService(repo *Repository, cache *Cache, environment string, log *logger.Logger) *Service {
	return &Service{repo: repo, cache: cache, environment: environment, log: log}
}

// Evaluate answers whether a flag is on for the given user in this
// service's environment. Unknown keys are a not-found error so clients can
// distinguish a missing flag from a disabled one.
func (s *Service) Evaluate(ctx context.Context, key, userID string) (EvaluationResponse, error) {
	flag, err := s.load(ctx, key)
	if err != nil {
		return EvaluationResponse{}, err
	}
	return EvaluationResponse{
		Key:     key,
		Enabled: Evaluate(flag, s.environment, userID),
	}, nil
}

// EvaluateAll evaluates every flag for the given user in one call, for
// clients that bootstrap their flag set on page load.
func (s *Service) EvaluateAll(ctx context.Context, userID string) (map[string]bool, error) {
	flags, err := s.repo.List(ctx)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "failed to list flags", err)
	}
	out := make(map[string]bool, len(flags))
	for _, f := range flags {
		out[f.Key] = Evaluate(f, s.environment, userID)
	}
	return out, nil
}

// Upsert creates or replaces a flag and invalidates its cache entry.
func (s *Service) Upsert(ctx context.Context, key string, req UpsertRequest) (Flag, error) {
	flag, err := s.repo.Upsert(ctx, key, req)
	if err != nil {
		return Flag{}, apperr.Wrap(apperr.KindInternal, "failed to store flag", err)
	}
	s.cache.Invalidate(ctx, key)
	rollout := -1
	if flag.RolloutPercentage != nil {
		rollout = *flag.RolloutPercentage
	}
	s.log.Info("feature flag updated", "key", key, "rollout", rollout)
	return flag, nil
}

// Get returns one flag definition.
func (s *Service) Get(ctx context.Context, key string) (Flag, error) {
	return s.load(ctx, key)
}

// List returns all flag definitions.
func (s *Service) List(ctx context.Context) ([]Flag, error) {
	flags, err := s.repo.List(ctx)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "failed to list flags", err)
	}
	return flags, nil
}

// Delete removes a flag and drops it from the cache.
func (s *Service) Delete(ctx context.Context, key string) error {
	if err := s.repo.Delete(ctx, key); err != nil {
		if err == ErrFlagNotFound {
			return apperr.NotFound("feature flag not found")
		}
		return apperr.Wrap(apperr.KindInternal, "failed to delete flag", err)
	}
	s.cache.Invalidate(ctx, key)
	return nil
}

func (s *Service) load(ctx context.Context, key string) (Flag, error) {
	if flag, ok := s.cache.Get(ctx, key); ok {
		return flag, nil
	}
	flag, err := s.repo.GetByKey(ctx, key)
	if err != nil {
		if err == ErrFlagNotFound {
			return Flag{}, apperr.NotFound("feature flag not found")
		}
		return Flag{}, apperr.Wrap(apperr.KindInternal, "failed to load flag", err)
	}
	s.cache.Set(ctx, flag)
	return flag, nil
}
