package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Options struct {
	JWTSecret string
	JWTIssuer string
	RateLimit float64 // writes per second per user, 0 disables limiting
	RateBurst int
}

type Handler struct {
	logger      *zap.Logger
	sessions    SessionService
	progression ProgressionService
	mistakes    MistakeService
	db          Pinger
	jwtSecret   string
	jwtIssuer   string
	limiter     *userLimiter
}

func NewHandler(
	logger *zap.Logger,
	sessions SessionService,
	progression ProgressionService,
	mistakes MistakeService,
	db Pinger,
	opts Options,
) *Handler {
	h := &Handler{
		logger:      logger,
		sessions:    sessions,
		progression: progression,
		mistakes:    mistakes,
		db:          db,
		jwtSecret:   opts.JWTSecret,
		jwtIssuer:   opts.JWTIssuer,
	}
	if opts.RateLimit > 0 {
		h.limiter = newUserLimiter(opts.RateLimit, opts.RateBurst)
	}
	return h
}

// RunJanitor evicts idle rate-limit buckets until ctx is done.
func (h *Handler) RunJanitor(ctx context.Context) {
	if h.limiter != nil {
		h.limiter.janitor(ctx)
	}
}

// Router builds the gin engine. Extra middleware (metrics) runs before routing.
func (h *Handler) Router(metricsHandler gin.HandlerFunc, middleware ...gin.HandlerFunc) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), h.requestLogger())
	r.Use(middleware...)

	r.GET("/healthz", h.health)
	if metricsHandler != nil {
		r.GET("/metrics", metricsHandler)
	}

	api := r.Group("/api/v1", h.authMiddleware())

	write := []gin.HandlerFunc{}
	if h.limiter != nil {
		write = append(write, h.limiter.middleware())
	}
	limited := func(fn gin.HandlerFunc) []gin.HandlerFunc {
		return append(append([]gin.HandlerFunc{}, write...), fn)
	}

	api.POST("/sessions", limited(h.submitSession)...)
	api.GET("/sessions", h.listSessions)

	api.GET("/progress", h.getProgress)
	api.GET("/achievements", h.listAchievements)
	api.GET("/mastery/:wordID", h.getMastery)

	api.GET("/mistakes", h.listMistakes)
	api.POST("/mistakes", limited(h.recordMistake)...)
	api.DELETE("/mistakes", limited(h.clearMistakes)...)
	api.GET("/mistakes/:wordID", h.mistakeExists)
	api.PATCH("/mistakes/:wordID", limited(h.adjustMistake)...)
	api.DELETE("/mistakes/:wordID", limited(h.removeMistake)...)

	admin := api.Group("/admin", requireRole(RoleAdmin))
	admin.POST("/users/:userID/xp", h.grantXP)

	return r
}

func (h *Handler) health(c *gin.Context) {
	if h.db != nil {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		if err := h.db.Ping(ctx); err != nil {
			h.logger.Warn("health check failed", zap.Error(err))
			abortWithError(c, http.StatusServiceUnavailable, "database unavailable")
			return
		}
	}
	success(c, gin.H{"status": "ok"})
}

func (h *Handler) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		h.logger.Debug("http request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
			zap.Int64("user_id", currentUserID(c)),
		)
	}
}
