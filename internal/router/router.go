package router

import (
	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/jwalitptl/clinic-api/config"
	"github.com/jwalitptl/clinic-api/internal/middleware"
	"github.com/jwalitptl/clinic-api/pkg/metrics"
)

type Handler interface {
	RegisterRoutes(*gin.RouterGroup)
}

type RouterConfig struct {
	RateLimit      config.RateLimitConfig
	AllowedOrigins []string
	MaxBodySize    int64
	Metrics        *metrics.Metrics
}

type Router struct {
	engine *gin.Engine
}

func NewRouter(cfg RouterConfig, handlers ...Handler) *Router {
	engine := gin.New()
	validation := middleware.DefaultValidationConfig()
	middleware.RegisterJSONTagNames()

	if cfg.MaxBodySize <= 0 {
		cfg.MaxBodySize = middleware.DefaultMaxBodySize
	}

	engine.Use(
		middleware.RequestID(),
		middleware.Logger(),
		middleware.Recovery(),
	)
	if cfg.Metrics != nil {
		engine.Use(middleware.Metrics(cfg.Metrics))
	}
	engine.Use(middleware.CORS(cfg.AllowedOrigins))

	if cfg.RateLimit.Enabled {
		rateLimiter := middleware.NewRateLimiter(middleware.RateLimiterConfig{
			Rate:  rate.Limit(cfg.RateLimit.RequestsPerSecond),
			Burst: cfg.RateLimit.Burst,
		})
		engine.Use(rateLimiter.RateLimit())
	}

	engine.Use(
		middleware.SizeLimit(cfg.MaxBodySize),
		middleware.ErrorHandler(validation),
	)

	root := engine.Group("")
	for _, h := range handlers {
		h.RegisterRoutes(root)
	}

	return &Router{engine: engine}
}

func (r *Router) Engine() *gin.Engine {
	return r.engine
}
