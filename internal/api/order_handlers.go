package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"trade-journal-go/internal/journal"
	"trade-journal-go/internal/repository"
	"trade-journal-go/internal/upload"
)

// UploadOrders ingests one statement file. Responds 201 with the upload
// summary, or 400 carrying the full list of row validation errors
// (strict mode: any bad row rejects the whole file).
func (h *Handler) UploadOrders(c *gin.Context) {
	userID := currentUserID(c)

	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "A statement file is required"})
		return
	}
	timezone := c.PostForm("timezone")

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Could not read the uploaded file"})
		return
	}
	defer file.Close()

	result, err := h.pipeline.Process(c.Request.Context(), userID, fileHeader.Filename, file, timezone)
	if err != nil {
		var aggErr *journal.AggregationError
		var persistErr *repository.PersistenceError
		switch {
		case errors.As(err, &aggErr):
			h.log.Error("Aggregation failed", zap.Uint("user_id", userID), zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		case errors.As(err, &persistErr):
			h.log.Error("Batch rolled back", zap.Uint("user_id", userID), zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to persist upload"})
		case errors.Is(err, upload.ErrTooManyRows):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		}
		return
	}

	if len(result.RowErrors) > 0 {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":      "File rejected: invalid rows",
			"upload":     result.Upload,
			"row_errors": result.RowErrors,
		})
		return
	}

	c.JSON(http.StatusCreated, result)
}

// ListOrders returns the user's flat execution log.
func (h *Handler) ListOrders(c *gin.Context) {
	userID := currentUserID(c)

	orders, err := h.orders.ListByUser(userID)
	if err != nil {
		h.log.Error("Failed to list orders", zap.Uint("user_id", userID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list orders"})
		return
	}

	c.JSON(http.StatusOK, orders)
}

// ListUploads returns the user's upload history, most recent first.
func (h *Handler) ListUploads(c *gin.Context) {
	userID := currentUserID(c)

	uploads, err := h.uploads.ListByUser(userID)
	if err != nil {
		h.log.Error("Failed to list uploads", zap.Uint("user_id", userID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list uploads"})
		return
	}

	c.JSON(http.StatusOK, uploads)
}
