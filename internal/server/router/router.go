package router

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/mamadbah2/ridershift/internal/domain/models"
	"github.com/mamadbah2/ridershift/internal/metrics"
	"github.com/mamadbah2/ridershift/internal/server/handlers"
)

// Handlers groups the HTTP adapters mounted by New.
type Handlers struct {
	Auth   *handlers.AuthHandler
	Shifts *handlers.ShiftHandler
	Dues   *handlers.DueHandler
	Admin  *handlers.AdminHandler

	// Webhook is mounted only when WhatsApp is configured.
	Webhook *handlers.WebhookHandler
}

// New wires the Gin engine with required routes and middlewares.
func New(h Handlers, tokens handlers.TokenParser, m *metrics.Metrics, gatherer prometheus.Gatherer, logger *zap.Logger) *gin.Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(zapLoggerMiddleware(logger))
	r.Use(metricsMiddleware(m))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	if gatherer != nil {
		r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))
	}

	if h.Webhook != nil {
		r.GET("/webhook", h.Webhook.Verify)
		r.POST("/webhook", h.Webhook.Receive)
	}

	api := r.Group("/api")
	api.POST("/auth/login", h.Auth.Login)

	authed := api.Group("", handlers.Authenticate(tokens))
	authed.POST("/auth/logout", h.Auth.Logout)
	authed.GET("/auth/me", h.Auth.Me)
	authed.GET("/fees", h.Admin.Fees)

	rider := authed.Group("", handlers.RequireRole(models.RoleRider))
	rider.POST("/shifts/preview", h.Shifts.Preview)
	rider.POST("/shifts", h.Shifts.Submit)
	rider.GET("/shifts/mine", h.Shifts.Mine)
	rider.GET("/shifts/last-balance", h.Shifts.LastBalance)
	rider.POST("/dues", h.Dues.Create)

	admin := authed.Group("/admin", handlers.RequireRole(models.RoleAdmin))
	admin.GET("/shifts", h.Shifts.List)
	admin.GET("/shifts/export.xlsx", h.Shifts.Export)
	admin.POST("/shifts/:id/close", h.Shifts.Close)
	admin.POST("/shifts/:id/collect-cash", h.Shifts.CollectCash)
	admin.GET("/stats", h.Shifts.Stats)
	admin.GET("/dues", h.Dues.Summary)
	admin.POST("/dues/:id/pay", h.Dues.Pay)
	admin.GET("/riders", h.Admin.ListRiders)
	admin.POST("/riders", h.Admin.CreateRider)
	admin.PUT("/fees", h.Admin.UpdateFees)

	logger.Info("router initialized")
	return r
}

func zapLoggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		logger.Info("request completed",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("duration", time.Since(start)),
			zap.String("client_ip", c.ClientIP()))
	}
}

func metricsMiddleware(m *metrics.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.ObserveRequest(c.Request.Method, route, c.Writer.Status(), time.Since(start))
	}
}
