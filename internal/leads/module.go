// Package leads provides the lead capture bounded context module.
// This file defines the module that encapsulates all lead setup and
// route registration.
package leads

import (
	"madfam_site_backend/internal/events"
	apphttp "madfam_site_backend/internal/http"
	"madfam_site_backend/internal/leads/handler"
	"madfam_site_backend/internal/leads/repository"
	"madfam_site_backend/internal/leads/service"
	"madfam_site_backend/platform/config"
	"madfam_site_backend/platform/logger"
	"madfam_site_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the leads bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
	repo    *repository.Repository
}

// NewModule creates and initializes the leads module with all its dependencies.
func NewModule(pool *pgxpool.Pool, bus events.Bus, cfg config.LeadsConfig, val *validator.Validator, log *logger.Logger) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, bus, cfg, log)
	h := handler.New(svc, val)

	return &Module{
		handler: h,
		service: svc,
		repo:    repo,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "leads"
}

// Service exposes the lead service to sibling modules (webhook receiver).
func (m *Module) Service() *service.Service {
	return m.service
}

// Repository exposes the lead repository to the webhook record writers.
func (m *Module) Repository() *repository.Repository {
	return m.repo
}

// SetFollowUpScheduler wires the optional asynq-backed reminder scheduler.
func (m *Module) SetFollowUpScheduler(s service.FollowUpScheduler) {
	m.service.SetFollowUpScheduler(s)
}

// RegisterRoutes mounts lead routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	// Public capture endpoint, behind the stricter form limiter
	public := ctx.V1.Group("/leads")
	public.Use(ctx.FormRateLimiter.RateLimit())
	public.POST("", m.handler.HandleCreate)

	// Admin review endpoints (JWT + admin role)
	admin := ctx.Admin.Group("/leads")
	admin.GET("", m.handler.HandleList)
	admin.GET("/:id", m.handler.HandleGet)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
