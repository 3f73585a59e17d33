package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"trade-journal-go/internal/repository"
)

// ListTrades returns the user's trades ordered by entry time descending,
// each with its executions in chronological order. A user with no
// uploads gets an empty list, not an error.
func (h *Handler) ListTrades(c *gin.Context) {
	userID := currentUserID(c)

	trades, err := h.trades.ListByUser(userID)
	if err != nil {
		h.log.Error("Failed to list trades", zap.Uint("user_id", userID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list trades"})
		return
	}

	c.JSON(http.StatusOK, trades)
}

// GetTrade returns one trade with its executions.
func (h *Handler) GetTrade(c *gin.Context) {
	userID := currentUserID(c)
	tradeID, ok := tradeIDParam(c)
	if !ok {
		return
	}

	trade, err := h.trades.GetByID(userID, tradeID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Trade not found"})
			return
		}
		h.log.Error("Failed to get trade", zap.Uint("trade_id", tradeID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get trade"})
		return
	}

	c.JSON(http.StatusOK, trade)
}

type updateTradeRequest struct {
	Notes string `json:"notes"`
}

// UpdateTrade changes the user-editable fields of a trade. Aggregated
// figures are derived data and cannot be edited.
func (h *Handler) UpdateTrade(c *gin.Context) {
	userID := currentUserID(c)
	tradeID, ok := tradeIDParam(c)
	if !ok {
		return
	}

	var req updateTradeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	trade, err := h.trades.UpdateNotes(userID, tradeID, req.Notes)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Trade not found"})
			return
		}
		h.log.Error("Failed to update trade", zap.Uint("trade_id", tradeID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update trade"})
		return
	}

	c.JSON(http.StatusOK, trade)
}

// DeleteTrade removes a trade together with its constituent orders.
func (h *Handler) DeleteTrade(c *gin.Context) {
	userID := currentUserID(c)
	tradeID, ok := tradeIDParam(c)
	if !ok {
		return
	}

	if err := h.trades.Delete(userID, tradeID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Trade not found"})
			return
		}
		h.log.Error("Failed to delete trade", zap.Uint("trade_id", tradeID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete trade"})
		return
	}

	c.Status(http.StatusNoContent)
}

func tradeIDParam(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid trade id"})
		return 0, false
	}
	return uint(id), true
}
