package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (h *Handler) ListBundles(c *gin.Context) {
	list, err := h.store.ListBundles(c.Request.Context())
	if err != nil {
		h.internalError(c, "failed to load bundles", err)
		return
	}
	c.JSON(http.StatusOK, list)
}

// SyncBundles: ответ всегда 200, успех или ошибка лежат в отчёте.
func (h *Handler) SyncBundles(c *gin.Context) {
	c.JSON(http.StatusOK, h.orch.SyncBundles(actorContext(c)))
}

func (h *Handler) ImportBundle(c *gin.Context) {
	code := c.Param("code")

	b, err := h.store.FindBundle(c.Request.Context(), code)
	if err != nil {
		h.internalError(c, "failed to load bundle", err)
		return
	}
	if b == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "bundle not found"})
		return
	}

	c.JSON(http.StatusOK, h.orch.Import(actorContext(c), b))
}

func (h *Handler) ImportAllBundles(c *gin.Context) {
	batch, err := h.orch.ImportAll(actorContext(c))
	if err != nil {
		h.internalError(c, "failed to import bundles", err)
		return
	}
	c.JSON(http.StatusOK, batch)
}
