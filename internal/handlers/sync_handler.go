package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"order_ledger/internal/models"
	"order_ledger/internal/services"
)

type SyncHandler struct {
	syncService services.SyncService
}

func NewSyncHandler(syncService services.SyncService) *SyncHandler {
	return &SyncHandler{syncService: syncService}
}

type syncRequest struct {
	Orders    []models.Draft `json:"orders"`
	CashierID uint           `json:"cashier_id"`
}

// SyncOrders ingests a batch of offline drafts. A structurally invalid payload
// or a missing cashier fails the request as a whole; everything else is
// per-draft data in the response.
func (h *SyncHandler) SyncOrders(c *gin.Context) {
	var req syncRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: orders must be a list"})
		return
	}
	if req.CashierID == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "cashier_id is required"})
		return
	}

	resp, err := h.syncService.SyncOrders(c.Request.Context(), req.CashierID, req.Orders)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
