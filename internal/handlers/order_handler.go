package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"order_ledger/internal/apperrors"
	"order_ledger/internal/services"
)

type OrderHandler struct {
	orderService services.OrderService
	shiftService services.ShiftService
}

func NewOrderHandler(orderService services.OrderService, shiftService services.ShiftService) *OrderHandler {
	return &OrderHandler{orderService: orderService, shiftService: shiftService}
}

type createOrderRequest struct {
	Items []struct {
		MenuID   uint   `json:"menu_id"`
		Quantity int    `json:"quantity"`
		Notes    string `json:"notes"`
	} `json:"items"`
	PaymentMethod string     `json:"payment_method"`
	Notes         string     `json:"notes"`
	Discount      float64    `json:"discount"`
	CashierID     uint       `json:"cashier_id"`
	CreatedAt     *time.Time `json:"created_at"`
}

func (h *OrderHandler) CreateOrder(c *gin.Context) {
	var req createOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	serviceReq := services.CreateOrderRequest{
		PaymentMethod:   req.PaymentMethod,
		Notes:           req.Notes,
		Discount:        req.Discount,
		OwnerID:         req.CashierID,
		ClientCreatedAt: req.CreatedAt,
	}
	for _, item := range req.Items {
		serviceReq.Items = append(serviceReq.Items, services.CreateOrderItem{
			MenuID:   item.MenuID,
			Quantity: item.Quantity,
			Notes:    item.Notes,
		})
	}

	// New checkouts land on the cashier's open shift when one exists.
	if shift, err := h.shiftService.FindOpenShift(req.CashierID); err == nil {
		serviceReq.ShiftID = &shift.ID
	} else if !apperrors.IsNotFound(err) {
		respondError(c, err)
		return
	}

	order, err := h.orderService.CreateOrder(c.Request.Context(), serviceReq)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, order)
}

func (h *OrderHandler) GetOrder(c *gin.Context) {
	id, err := parseID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid order id"})
		return
	}
	order, err := h.orderService.GetOrder(id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

func (h *OrderHandler) ListOrders(c *gin.Context) {
	if status := c.Query("status"); status != "" {
		orders, err := h.orderService.GetOrdersByStatus(status)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, orders)
		return
	}
	orders, err := h.orderService.GetAllOrders()
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, orders)
}

type addItemRequest struct {
	MenuID    uint   `json:"menu_id"`
	Quantity  int    `json:"quantity"`
	Notes     string `json:"notes"`
	CashierID uint   `json:"cashier_id"`
}

func (h *OrderHandler) AddItem(c *gin.Context) {
	orderID, err := parseID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid order id"})
		return
	}
	var req addItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}
	item, err := h.orderService.AddItem(c.Request.Context(), orderID, req.CashierID, req.MenuID, req.Quantity, req.Notes)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

type updateItemRequest struct {
	Quantity  *int    `json:"quantity"`
	Notes     *string `json:"notes"`
	CashierID uint    `json:"cashier_id"`
}

func (h *OrderHandler) UpdateItem(c *gin.Context) {
	orderID, err := parseID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid order id"})
		return
	}
	itemID, err := parseID(c.Param("item_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid item id"})
		return
	}
	var req updateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}
	item, err := h.orderService.UpdateItem(c.Request.Context(), orderID, itemID, req.CashierID,
		services.ItemUpdate{Quantity: req.Quantity, Notes: req.Notes})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

func (h *OrderHandler) RemoveItem(c *gin.Context) {
	orderID, err := parseID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid order id"})
		return
	}
	itemID, err := parseID(c.Param("item_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid item id"})
		return
	}
	cashierID := parseQueryID(c, "cashier_id")
	err = h.orderService.RemoveItem(c.Request.Context(), orderID, itemID, cashierID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "removed"})
}

type updateOrderRequest struct {
	Status    *string `json:"status"`
	Notes     *string `json:"notes"`
	CashierID uint    `json:"cashier_id"`
}

func (h *OrderHandler) UpdateOrder(c *gin.Context) {
	orderID, err := parseID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid order id"})
		return
	}
	var req updateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}
	order, err := h.orderService.UpdateOrder(c.Request.Context(), orderID, req.CashierID,
		services.OrderUpdate{Status: req.Status, Notes: req.Notes})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

func (h *OrderHandler) ListModifications(c *gin.Context) {
	orderID, err := parseID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid order id"})
		return
	}
	mods, err := h.orderService.GetModifications(orderID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, mods)
}

func parseID(s string) (uint, error) {
	v, err := strconv.ParseUint(s, 10, 32)
	return uint(v), err
}

func parseQueryID(c *gin.Context, key string) uint {
	v, _ := strconv.ParseUint(c.Query(key), 10, 32)
	return uint(v)
}
