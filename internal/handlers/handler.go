package handlers

import (
	"context"
	"net/http"
	"strconv"

	"grc-integrator/internal/evaluation"
	"grc-integrator/internal/importer"
	"grc-integrator/internal/middleware"
	"grc-integrator/internal/orchestrator"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Handler struct {
	db          *gorm.DB
	store       *importer.Store
	orch        *orchestrator.Orchestrator
	evaluations *evaluation.Service
	logger      *zap.Logger
}

func New(
	db *gorm.DB,
	store *importer.Store,
	orch *orchestrator.Orchestrator,
	evaluations *evaluation.Service,
	logger *zap.Logger,
) *Handler {
	return &Handler{
		db:          db,
		store:       store,
		orch:        orch,
		evaluations: evaluations,
		logger:      logger.With(zap.String("handler", "api")),
	}
}

func parseID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + name})
		return 0, false
	}
	return uint(id), true
}

func (h *Handler) internalError(c *gin.Context, msg string, err error) {
	h.logger.Error(msg,
		zap.String("request_id", c.GetString(middleware.RequestIDKey)),
		zap.Error(err))
	c.JSON(http.StatusInternalServerError, gin.H{"error": msg})
}

// actorContext: контекст запроса с пользователем для журнала аудита.
func actorContext(c *gin.Context) context.Context {
	ctx := c.Request.Context()
	if uid := middleware.CurrentUserID(c); uid > 0 {
		ctx = orchestrator.WithActor(ctx, uid)
	}
	return ctx
}
