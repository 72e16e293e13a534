package webhook

import (
	"madfam_site_backend/internal/events"
	apphttp "madfam_site_backend/internal/http"
	"madfam_site_backend/platform/logger"
	"madfam_site_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the webhook bounded context module implementing http.Module.
type Module struct {
	handler *Handler
	repo    *Repository
}

// NewModule creates the webhook module. The lead directory comes from the
// leads module so marketing events operate on the same records.
func NewModule(pool *pgxpool.Pool, leads LeadDirectory, bus events.Bus, val *validator.Validator, log *logger.Logger) *Module {
	repo := NewRepository(pool)
	svc := NewService(leads, repo, bus, log)
	return &Module{handler: NewHandler(svc, repo, val), repo: repo}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "webhook"
}

// RegisterRoutes mounts webhook routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	// Inbound receiver, authenticated by API key instead of JWT
	receiver := ctx.V1.Group("/webhook")
	receiver.Use(APIKeyAuthMiddleware(m.repo))
	receiver.POST("/marketing", m.handler.HandleMarketingEvent)

	admin := ctx.Admin.Group("/webhook")
	admin.POST("/keys", m.handler.HandleCreateKey)
	admin.GET("/keys", m.handler.HandleListKeys)
	admin.DELETE("/keys/:id", m.handler.HandleRevokeKey)
	admin.GET("/touchpoints", m.handler.HandleListTouchpoints)
	admin.POST("/campaigns", m.handler.HandleCreateCampaign)
	admin.GET("/campaigns", m.handler.HandleListCampaigns)
	admin.GET("/campaigns/:id/qr", m.handler.HandleCampaignQR)
}

var _ apphttp.Module = (*Module)(nil)
