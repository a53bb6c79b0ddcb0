package models

import (
	"time"
)

type Order struct {
	ID            uint        `json:"id" gorm:"primaryKey"`
	OrderNumber   string      `json:"order_number" gorm:"unique;not null"`
	Status        string      `json:"status" gorm:"default:'PENDING'"` // PENDING, PREPARING, READY, COMPLETED, CANCELLED
	Subtotal      float64     `json:"subtotal" gorm:"not null"`
	Tax           float64     `json:"tax"`
	Discount      float64     `json:"discount"`
	Total         float64     `json:"total" gorm:"not null"`
	PaymentMethod string      `json:"payment_method" gorm:"default:'CASH'"` // CASH, CARD, QRIS
	OwnerID       uint        `json:"owner_id" gorm:"not null"`
	ShiftID       *uint       `json:"shift_id" gorm:"index"`
	Notes         string      `json:"notes"`
	Items         []OrderItem `json:"items" gorm:"foreignKey:OrderID"`
	CreatedAt     time.Time   `json:"created_at"`
	UpdatedAt     time.Time   `json:"updated_at"`
}

type OrderStatus string

const (
	OrderPending   OrderStatus = "PENDING"
	OrderPreparing OrderStatus = "PREPARING"
	OrderReady     OrderStatus = "READY"
	OrderCompleted OrderStatus = "COMPLETED"
	OrderCancelled OrderStatus = "CANCELLED"
)

type PaymentMethod string

const (
	PaymentCash PaymentMethod = "CASH"
	PaymentCard PaymentMethod = "CARD"
	PaymentQRIS PaymentMethod = "QRIS"
)

// nextStatuses holds the single allowed forward transition per status.
// CANCELLED is reachable from any non-terminal status instead.
var nextStatuses = map[OrderStatus]OrderStatus{
	OrderPending:   OrderPreparing,
	OrderPreparing: OrderReady,
	OrderReady:     OrderCompleted,
}

// IsMutable reports whether the order's line items may still change.
func (o *Order) IsMutable() bool {
	return o.Status == string(OrderPending) || o.Status == string(OrderPreparing)
}

// CanTransitionTo reports whether a status change from the order's current
// status to target is allowed.
func (o *Order) CanTransitionTo(target OrderStatus) bool {
	if target == OrderCancelled {
		return o.Status != string(OrderCompleted) && o.Status != string(OrderCancelled)
	}
	return nextStatuses[OrderStatus(o.Status)] == target
}

func ValidOrderStatus(s string) bool {
	switch OrderStatus(s) {
	case OrderPending, OrderPreparing, OrderReady, OrderCompleted, OrderCancelled:
		return true
	}
	return false
}

func ValidPaymentMethod(m string) bool {
	switch PaymentMethod(m) {
	case PaymentCash, PaymentCard, PaymentQRIS:
		return true
	}
	return false
}
