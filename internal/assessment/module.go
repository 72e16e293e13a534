package assessment

import (
	"madfam_site_backend/internal/events"
	apphttp "madfam_site_backend/internal/http"
	"madfam_site_backend/platform/logger"
	"madfam_site_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the assessment bounded context module implementing http.Module.
type Module struct {
	handler *Handler
}

// NewModule creates and initializes the assessment module.
func NewModule(pool *pgxpool.Pool, bus events.Bus, val *validator.Validator, log *logger.Logger) *Module {
	repo := NewRepository(pool)
	svc := NewService(repo, bus, log)
	return &Module{handler: NewHandler(svc, val)}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "assessment"
}

// RegisterRoutes mounts assessment routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	public := ctx.V1.Group("/assessment")
	public.Use(ctx.FormRateLimiter.RateLimit())
	public.POST("", m.handler.HandleSubmit)

	admin := ctx.Admin.Group("/assessments")
	admin.GET("", m.handler.HandleList)
	admin.GET("/:id", m.handler.HandleGet)
}

var _ apphttp.Module = (*Module)(nil)
