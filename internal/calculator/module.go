package calculator

import (
	apphttp "madfam_site_backend/internal/http"
	"madfam_site_backend/platform/config"
	"madfam_site_backend/platform/logger"
	"madfam_site_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the calculator bounded context module implementing http.Module.
type Module struct {
	handler *Handler
}

// NewModule creates the calculator module, loading rate table overrides
// from the configured path when one is set.
func NewModule(pool *pgxpool.Pool, cfg config.CalculatorConfig, val *validator.Validator, log *logger.Logger) (*Module, error) {
	tables, err := LoadTables(cfg.GetRateTablesPath())
	if err != nil {
		return nil, err
	}
	repo := NewRepository(pool)
	return &Module{handler: NewHandler(tables, repo, val, log)}, nil
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "calculator"
}

// RegisterRoutes mounts calculator routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	group := ctx.V1.Group("/calculator")
	group.Use(ctx.FormRateLimiter.RateLimit())
	group.POST("/roi", m.handler.HandleROI)
	group.POST("/estimate", m.handler.HandleEstimate)
}

var _ apphttp.Module = (*Module)(nil)
