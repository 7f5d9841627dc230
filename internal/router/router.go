package router // router wires middleware and registers the API routes

import (
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/iliyamo/eco-education/internal/config"
	"github.com/iliyamo/eco-education/internal/handler"
	"github.com/iliyamo/eco-education/internal/middleware"
)

// Options carries what New needs besides the handler.  A nil Redis client
// turns the response cache and the rate limiter into pass-throughs.
type Options struct {
	Redis     *redis.Client
	Cache     config.CacheConfig
	RateLimit config.RateLimitConfig
	Log       *zap.Logger
}

// New builds the echo instance with the shared middleware chain and every
// route registered.
func New(h *handler.Handler, opt Options) *echo.Echo {
	if opt.Log == nil {
		opt.Log = zap.NewNop()
	}
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()

	e.Use(echomw.Recover())
	e.Use(middleware.RequestID())
	e.Use(middleware.RequestLogger(opt.Log))
	e.Use(middleware.Identity(h.Cfg.JWTSecret))
	e.Use(middleware.NewRedisCache(opt.Cache, opt.Redis, opt.Log))

	limit := middleware.NewTokenBucket(opt.RateLimit, opt.Redis, opt.Log)
	RegisterRoutes(e, h, limit)
	return e
}

// RegisterRoutes registers the health check and the /api surface.  limit
// wraps the write endpoints.
func RegisterRoutes(e *echo.Echo, h *handler.Handler, limit echo.MiddlewareFunc) {
	e.GET("/healthz", h.Health)

	api := e.Group("/api")

	api.POST("/auth/login", h.Login, limit)

	// ---- Users ----
	api.POST("/users", h.CreateUser, limit)
	api.GET("/users", h.GetUserByUsername)
	api.GET("/users/:id", h.GetUser)
	api.GET("/users/:id/language", h.GetUserLanguage)
	api.PATCH("/users/:id/language", h.UpdateUserLanguage, limit)
	api.PATCH("/users/:id/accessibility", h.UpdateUserAccessibility, limit)

	// ---- Static content ----
	api.GET("/tips", h.ListTips)
	api.GET("/tips/:id", h.GetTip)
	api.POST("/tips", h.CreateTip, limit)

	api.GET("/challenges", h.ListChallenges)
	api.GET("/challenges/:id", h.GetChallenge)
	api.POST("/challenges", h.CreateChallenge, limit)

	api.GET("/articles", h.ListArticles)
	api.GET("/articles/:id", h.GetArticle)
	api.POST("/articles", h.CreateArticle, limit)

	// ---- Activities ----
	api.GET("/users/:id/activities", h.ListUserActivities)
	api.POST("/activities", h.CreateActivity, limit)

	// ---- Forum ----
	api.GET("/posts", h.ListPosts)
	api.GET("/posts/:id", h.GetPost)
	api.POST("/posts", h.CreatePost, limit)
	api.POST("/posts/:id/like", h.LikePost, limit)

	// ---- Resources ----
	api.GET("/resources", h.ListResources)
	api.GET("/resources/search", h.SearchResources)
	api.GET("/resources/:id", h.GetResource)
	api.POST("/resources", h.CreateResource, limit)
}
