package api

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"trade-journal-go/internal/auth"
	"trade-journal-go/internal/repository"
	"trade-journal-go/internal/upload"
)

// Handler holds the dependencies of every API endpoint.
type Handler struct {
	log      *zap.Logger
	tokens   *auth.Manager
	users    repository.UserRepository
	trades   repository.TradeRepository
	orders   repository.OrderRepository
	uploads  repository.UploadRepository
	pipeline *upload.Pipeline
}

// NewHandler creates the API handler set.
func NewHandler(
	log *zap.Logger,
	tokens *auth.Manager,
	users repository.UserRepository,
	trades repository.TradeRepository,
	orders repository.OrderRepository,
	uploads repository.UploadRepository,
	pipeline *upload.Pipeline,
) *Handler {
	return &Handler{
		log:      log,
		tokens:   tokens,
		users:    users,
		trades:   trades,
		orders:   orders,
		uploads:  uploads,
		pipeline: pipeline,
	}
}

// RegisterRoutes mounts all endpoints under /api/v1.
func (h *Handler) RegisterRoutes(r *gin.Engine) {
	v1 := r.Group("/api/v1")

	v1.POST("/users", h.Register)
	v1.POST("/users/login", h.Login)

	authed := v1.Group("", AuthRequired(h.tokens))
	authed.POST("/orders/upload", h.UploadOrders)
	authed.GET("/orders", h.ListOrders)
	authed.GET("/uploads", h.ListUploads)
	authed.GET("/trades", h.ListTrades)
	authed.GET("/trades/:id", h.GetTrade)
	authed.PUT("/trades/:id", h.UpdateTrade)
	authed.DELETE("/trades/:id", h.DeleteTrade)
	authed.GET("/statistics", h.Statistics)
}
