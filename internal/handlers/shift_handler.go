package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"order_ledger/internal/services"
)

type ShiftHandler struct {
	shiftService services.ShiftService
}

func NewShiftHandler(shiftService services.ShiftService) *ShiftHandler {
	return &ShiftHandler{shiftService: shiftService}
}

type openShiftRequest struct {
	CashierID    uint    `json:"cashier_id"`
	StartingCash float64 `json:"starting_cash"`
}

func (h *ShiftHandler) OpenShift(c *gin.Context) {
	var req openShiftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}
	shift, err := h.shiftService.Open(req.CashierID, req.StartingCash)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, shift)
}

type closeShiftRequest struct {
	EndingCash float64 `json:"ending_cash"`
	Notes      string  `json:"notes"`
}

func (h *ShiftHandler) CloseShift(c *gin.Context) {
	shiftID, err := parseID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid shift id"})
		return
	}
	var req closeShiftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}
	shift, err := h.shiftService.Close(shiftID, req.EndingCash, req.Notes)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, shift)
}

func (h *ShiftHandler) CurrentShift(c *gin.Context) {
	cashierID, err := parseID(c.Param("cashier_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid cashier id"})
		return
	}
	shift, err := h.shiftService.FindOpenShift(cashierID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, shift)
}

func (h *ShiftHandler) GetShift(c *gin.Context) {
	shiftID, err := parseID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid shift id"})
		return
	}
	shift, err := h.shiftService.GetShift(shiftID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, shift)
}

func (h *ShiftHandler) ShiftSummary(c *gin.Context) {
	shiftID, err := parseID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid shift id"})
		return
	}
	summary, err := h.shiftService.Summary(shiftID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}
