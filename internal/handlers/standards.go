package handlers

import (
	"net/http"

	"grc-integrator/internal/models"

	"github.com/gin-gonic/gin"
)

func (h *Handler) ListStandards(c *gin.Context) {
	list, err := h.store.ListStandards(c.Request.Context(), models.StandardStatus(c.Query("status")))
	if err != nil {
		h.internalError(c, "failed to load standards", err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h *Handler) ShowStandard(c *gin.Context) {
	std, err := h.store.StandardWithControls(c.Request.Context(), c.Param("code"))
	if err != nil {
		h.internalError(c, "failed to load standard", err)
		return
	}
	if std == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "standard not found"})
		return
	}
	c.JSON(http.StatusOK, std)
}

func (h *Handler) SyncCriteria(c *gin.Context) {
	c.JSON(http.StatusOK, h.orch.SyncCriteria(actorContext(c)))
}
