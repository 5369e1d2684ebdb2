package handlers

import (
	"errors"
	"io"
	"net/http"

	"grc-integrator/internal/library"
	"grc-integrator/internal/models"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const maxLibrarySize = 16 << 20

func (h *Handler) ListLibraries(c *gin.Context) {
	var list []models.Library
	err := h.db.WithContext(c.Request.Context()).
		Omit("content").
		Order("name asc").
		Find(&list).Error
	if err != nil {
		h.internalError(c, "failed to load libraries", err)
		return
	}
	c.JSON(http.StatusOK, list)
}

// CreateLibrary: загрузка библиотеки администратором, upsert по urn.
func (h *Handler) CreateLibrary(c *gin.Context) {
	body, err := io.ReadAll(io.LimitReader(c.Request.Body, maxLibrarySize))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read body"})
		return
	}

	lib, err := library.Parse(body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	row, err := lib.ToModel()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	err = h.db.WithContext(c.Request.Context()).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "urn"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"ref_id", "name", "version", "description", "provider", "locale", "is_loaded", "content", "updated_at",
		}),
	}).Create(row).Error
	if err != nil {
		h.internalError(c, "failed to save library", err)
		return
	}

	var saved models.Library
	if err := h.db.WithContext(c.Request.Context()).Omit("content").Where("urn = ?", lib.URN).First(&saved).Error; err != nil {
		h.internalError(c, "failed to load library", err)
		return
	}

	h.logger.Info("library stored", zap.String("urn", lib.URN), zap.Int("nodes", len(lib.Nodes())))
	c.JSON(http.StatusCreated, saved)
}

func (h *Handler) loadLibrary(c *gin.Context) (*library.Library, bool) {
	id, ok := parseID(c, "id")
	if !ok {
		return nil, false
	}

	var row models.Library
	if err := h.db.WithContext(c.Request.Context()).First(&row, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "library not found"})
			return nil, false
		}
		h.internalError(c, "failed to load library", err)
		return nil, false
	}

	lib, err := library.FromModel(&row)
	if err != nil {
		h.internalError(c, "failed to decode library", err)
		return nil, false
	}
	return lib, true
}

func (h *Handler) LibraryTree(c *gin.Context) {
	lib, ok := h.loadLibrary(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"library_id": lib.ID,
		"urn":        lib.URN,
		"roots":      library.BuildTree(lib.Nodes()),
	})
}

// LibraryOpenGRC: экспорт в формат OpenGRC: ?type=bundle|standard|full.
func (h *Handler) LibraryOpenGRC(c *gin.Context) {
	lib, ok := h.loadLibrary(c)
	if !ok {
		return
	}

	res := library.ToOpenGRC(lib, c.DefaultQuery("type", library.OutputFull))
	if res == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "library not found"})
		return
	}
	c.JSON(http.StatusOK, res)
}
