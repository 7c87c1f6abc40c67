package router

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mamadbah2/buffalo/internal/domain/models"
	"github.com/mamadbah2/buffalo/internal/server/handlers"
	"github.com/mamadbah2/buffalo/internal/server/metrics"
	"github.com/mamadbah2/buffalo/internal/service/forms"
)

const (
	requestIDHeader = "X-Request-ID"
	requestIDKey    = "request_id"
)

// Handlers groups every HTTP adapter mounted by the router.
type Handlers struct {
	Buffalos          *handlers.BuffaloHandler
	ExpenseDrafts     *handlers.DraftHandler[models.Expense]
	ShareholderDrafts *handlers.DraftHandler[forms.ShareholderRow]
	Reports           *handlers.ReportHandler
}

// Options tune the middleware chain. A nil Metrics disables /metrics.
type Options struct {
	CORSAllowedOrigins []string
	Metrics            *metrics.Metrics
}

// New wires the Gin engine with required routes and middlewares.
func New(h Handlers, opts Options, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(requestIDMiddleware())
	r.Use(zapLoggerMiddleware(logger))
	if opts.Metrics != nil {
		r.Use(opts.Metrics.Middleware())
	}
	r.Use(cors.New(corsConfig(opts.CORSAllowedOrigins)))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	if opts.Metrics != nil {
		r.GET("/metrics", gin.WrapH(opts.Metrics.Handler()))
	}

	api := r.Group("/api")
	api.GET("/dashboard", h.Buffalos.Dashboard)

	buffalos := api.Group("/buffalos")
	buffalos.GET("", h.Buffalos.List)
	buffalos.POST("", h.Buffalos.Create)
	buffalos.GET("/:id", h.Buffalos.Detail)
	buffalos.GET("/:id/breakdown", h.Buffalos.Breakdown)
	buffalos.PUT("/:id", h.Buffalos.UpdateInfo)
	buffalos.PUT("/:id/expenses", h.Buffalos.UpdateExpenses)
	buffalos.PUT("/:id/shareholders", h.Buffalos.UpdateShareholders)
	buffalos.PUT("/:id/weight", h.Buffalos.UpdateWeight)
	buffalos.DELETE("/:id", h.Buffalos.Delete)

	h.ExpenseDrafts.Register(buffalos.Group("/:id/drafts/expenses"))
	h.ShareholderDrafts.Register(buffalos.Group("/:id/drafts/shareholders"))

	if h.Reports != nil {
		api.POST("/reports/send", h.Reports.Send)
	}

	if logger != nil {
		logger.Info("router initialized")
	}

	return r
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Content-Length", "Accept-Encoding", requestIDHeader},
		ExposeHeaders: []string{"Content-Length", requestIDHeader},
		MaxAge:        12 * time.Hour,
	}
	if len(origins) == 0 || (len(origins) == 1 && origins[0] == "*") {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
	}
	return cfg
}

func requestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(requestIDKey, id)
		c.Header(requestIDHeader, id)
		c.Next()
	}
}

func zapLoggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = zap.NewNop()
	}

	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		logger.Info("request completed",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("duration", time.Since(start)),
			zap.String("client_ip", c.ClientIP()),
			zap.String("request_id", c.GetString(requestIDKey)))
	}
}
