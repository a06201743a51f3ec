package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"

	"github.com/DCWS-dev/ai-landing/internal/auth"
	"github.com/DCWS-dev/ai-landing/internal/config"
	"github.com/DCWS-dev/ai-landing/internal/prodamus"
	"github.com/DCWS-dev/ai-landing/internal/storage"
	"github.com/DCWS-dev/ai-landing/internal/wayforpay"
)

// PaymentNotifier is the best-effort side-effect channel for confirmed
// payments. Implementations must never let a failure escape.
type PaymentNotifier interface {
	PaymentReceived(ctx context.Context, user *storage.User, gateway, cardPan string)
}

// UpdateHandler processes inbound Telegram updates.
type UpdateHandler interface {
	HandleUpdate(ctx context.Context, update *models.Update)
}

// Server wires the HTTP API: admin auth, order creation, the two payment
// webhooks and the bot webhook. All collaborators are injected; handlers
// hold no mutable state of their own.
type Server struct {
	cfg       *config.Config
	store     storage.Store
	auth      *auth.Service
	prodamus  *prodamus.Client
	wayforpay *wayforpay.Client
	notifier  PaymentNotifier
	updates   UpdateHandler
	log       *zap.Logger
}

func New(cfg *config.Config, store storage.Store, authSvc *auth.Service,
	pd *prodamus.Client, wfp *wayforpay.Client,
	notifier PaymentNotifier, updates UpdateHandler, log *zap.Logger) *Server {

	return &Server{
		cfg:       cfg,
		store:     store,
		auth:      authSvc,
		prodamus:  pd,
		wayforpay: wfp,
		notifier:  notifier,
		updates:   updates,
		log:       log,
	}
}

// Handler builds the gin engine with all routes registered.
func (s *Server) Handler() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), s.requestLogger())
	r.HandleMethodNotAllowed = true

	r.GET("/health", s.handleHealth)

	api := r.Group("/api")
	api.POST("/auth", s.handleAuth)
	api.POST("/create-payment", s.handleCreatePayment)
	api.GET("/users", s.handleListUsers)
	api.POST("/webhook/prodamus", s.handleProdamusWebhook)
	api.POST("/webhook/wayforpay", s.handleWayForPayWebhook)
	api.POST("/webhook/telegram", s.handleTelegramWebhook)

	return r
}

func (s *Server) handleHealth(c *gin.Context) {
	c.String(http.StatusOK, "OK")
}

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		s.log.Info("request completed",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
		)
	}
}
