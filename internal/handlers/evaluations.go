package handlers

import (
	"errors"
	"net/http"
	"strings"

	"grc-integrator/internal/evaluation"
	"grc-integrator/internal/middleware"

	"github.com/gin-gonic/gin"
)

type evaluationForm struct {
	Evidence string `json:"evidence" binding:"required"`
}

func (h *Handler) EvaluateControl(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var form evaluationForm
	if err := c.ShouldBindJSON(&form); err != nil || strings.TrimSpace(form.Evidence) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "evidence is required"})
		return
	}

	var requestedBy *uint
	if uid := middleware.CurrentUserID(c); uid > 0 {
		requestedBy = &uid
	}

	ev, err := h.evaluations.Evaluate(c.Request.Context(), id, form.Evidence, requestedBy)
	if errors.Is(err, evaluation.ErrControlNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "control not found"})
		return
	}
	if err != nil {
		h.internalError(c, "failed to evaluate evidence", err)
		return
	}
	c.JSON(http.StatusCreated, ev)
}

func (h *Handler) ListEvaluations(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	list, err := h.evaluations.List(c.Request.Context(), id)
	if err != nil {
		h.internalError(c, "failed to load evaluations", err)
		return
	}
	c.JSON(http.StatusOK, list)
}
