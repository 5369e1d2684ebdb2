package handlers

import (
	"net/http"
	"strconv"

	"grc-integrator/internal/models"

	"github.com/gin-gonic/gin"
)

func (h *Handler) ListAuditLogs(c *gin.Context) {
	limit := 200
	if v, err := strconv.Atoi(c.Query("limit")); err == nil && v > 0 && v <= 1000 {
		limit = v
	}

	q := h.db.WithContext(c.Request.Context()).
		Preload("User").
		Order("created_at desc, id desc").
		Limit(limit)
	if entity := c.Query("entity"); entity != "" {
		q = q.Where("entity = ?", entity)
	}

	var logs []models.AuditLog
	if err := q.Find(&logs).Error; err != nil {
		h.internalError(c, "failed to load audit log", err)
		return
	}
	c.JSON(http.StatusOK, logs)
}
