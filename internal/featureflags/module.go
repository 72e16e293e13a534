package featureflags

import (
	apphttp "madfam_site_backend/internal/http"
	"madfam_site_backend/platform/config"
	"madfam_site_backend/platform/logger"
	"madfam_site_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

// Module is the feature flags bounded context module implementing http.Module.
type Module struct {
	handler *Handler
}

// NewModule creates the feature flags module. The redis client may be nil,
// in which case evaluation reads postgres directly.
func NewModule(pool *pgxpool.Pool, redisClient *redis.Client, cfg config.FlagCacheConfig, val *validator.Validator, log *logger.Logger) *Module {
	repo := NewRepository(pool)
	cache := NewCache(redisClient, cfg.GetFlagCacheTTL(), log)
	svc := NewService(repo, cache, cfg.GetFlagEnvironment(), log)
	return &Module{handler: NewHandler(svc, val)}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "featureflags"
}

// RegisterRoutes mounts flag routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	public := ctx.V1.Group("/flags")
	public.GET("", m.handler.HandleEvaluateAll)
	public.GET("/:key", m.handler.HandleEvaluate)

	admin := ctx.Admin.Group("/flags")
	admin.GET("", m.handler.HandleList)
	admin.GET("/:key", m.handler.HandleGet)
	admin.PUT("/:key", m.handler.HandleUpsert)
	admin.DELETE("/:key", m.handler.HandleDelete)
}

var _ apphttp.Module = (*Module)(nil)
