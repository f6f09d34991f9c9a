package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jhnmartin/join-gradient/internal/middleware"
	"github.com/jhnmartin/join-gradient/pkg/response"
)

// RouterConfig holds everything the router needs
type RouterConfig struct {
	EventHandler  *EventHandler
	MemberHandler *MemberHandler
	SystemHandler *SystemHandler
	RateLimit     *middleware.RateLimitConfig // nil disables rate limiting
	Debug         bool
}

// NewRouter builds the gin engine with all routes and middleware attached
func NewRouter(cfg *RouterConfig) *gin.Engine {
	if !cfg.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(middleware.RequestID())
	r.Use(middleware.RequestLogger())
	r.Use(middleware.Recovery())

	if cfg.RateLimit != nil {
		r.Use(middleware.RateLimiter(*cfg.RateLimit))
	}

	// A wrong verb on a known route is a client error, not a missing route
	r.HandleMethodNotAllowed = true
	r.NoMethod(func(c *gin.Context) {
		c.JSON(http.StatusMethodNotAllowed, response.MethodNotAllowed(""))
	})
	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, response.NotFound(""))
	})

	r.GET("/health", cfg.SystemHandler.Health)

	api := r.Group("/api")
	{
		api.GET("/cron", cfg.SystemHandler.Cron)

		events := api.Group("/webhooks/events")
		{
			events.POST("/created", cfg.EventHandler.Created)
			events.POST("/updated", cfg.EventHandler.Updated)
			events.POST("/deleted", cfg.EventHandler.Deleted)
		}

		members := api.Group("/webhooks/members")
		{
			members.POST("/created", cfg.MemberHandler.Created)
			members.POST("/updated", cfg.MemberHandler.Updated)
		}
	}

	return r
}
