package server

import (
	"net/http"

	"grc-integrator/internal/config"
	"grc-integrator/internal/handlers"
	"grc-integrator/internal/middleware"
	"grc-integrator/internal/models"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const sessionName = "grc_session"

func NewRouter(cfg *config.Config, db *gorm.DB, h *handlers.Handler, logger *zap.Logger) *gin.Engine {
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()

	rm := middleware.NewRequestMiddleware(logger)
	r.Use(rm.ProcessRequest())
	r.Use(rm.RecoverPanic())

	store := cookie.NewStore([]byte(cfg.SessionSecret))
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   12 * 60 * 60,
		HttpOnly: true,
		Secure:   cfg.Environment == "production",
		SameSite: http.SameSiteLaxMode,
	})
	r.Use(sessions.Sessions(sessionName, store))
	r.Use(middleware.InjectUser(db))

	// HEALTHCHECK
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "up", "name": "grc-integrator"})
	})

	// AUTH
	r.POST("/login", h.Login)
	r.POST("/logout", h.Logout)

	api := r.Group("/api")
	api.Use(middleware.RequireAuth())
	api.GET("/me", h.Me)

	operator := middleware.RequireRole(models.RoleAdmin, models.RoleOperator)

	// БАНДЛЫ
	api.GET("/bundles", h.ListBundles)
	api.POST("/bundles/sync", operator, h.SyncBundles)
	api.POST("/bundles/import-all", operator, h.ImportAllBundles)
	api.POST("/bundles/:code/import", operator, h.ImportBundle)

	// СТАНДАРТЫ И КРИТЕРИИ
	api.GET("/standards", h.ListStandards)
	api.GET("/standards/:code", h.ShowStandard)
	api.POST("/criteria/sync", operator, h.SyncCriteria)

	// БИБЛИОТЕКИ
	api.GET("/libraries", h.ListLibraries)
	api.POST("/libraries", operator, h.CreateLibrary)
	api.GET("/libraries/:id/tree", h.LibraryTree)
	api.GET("/libraries/:id/opengrc", h.LibraryOpenGRC)

	// ОЦЕНКА ДОКАЗАТЕЛЬСТВ
	api.GET("/controls/:id/evaluations", h.ListEvaluations)
	api.POST("/controls/:id/evaluations", operator, h.EvaluateControl)

	// АУДИТ
	api.GET("/audit", h.ListAuditLogs)

	return r
}
