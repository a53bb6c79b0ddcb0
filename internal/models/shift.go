package models

import (
	"time"
)

// Shift tracks one cashier's drawer between opening and closing the till.
// At most one OPEN shift exists per cashier; OPEN → CLOSED is one-way.
type Shift struct {
	ID           uint       `json:"id" gorm:"primaryKey"`
	CashierID    uint       `json:"cashier_id" gorm:"index;not null"`
	Status       string     `json:"status" gorm:"default:'OPEN'"` // OPEN, CLOSED
	StartingCash float64    `json:"starting_cash" gorm:"not null"`
	EndingCash   *float64   `json:"ending_cash"`
	ExpectedCash *float64   `json:"expected_cash"`
	Discrepancy  *float64   `json:"discrepancy"` // signed: positive = surplus, negative = shortage
	Notes        string     `json:"notes"`
	OpenedAt     time.Time  `json:"opened_at"`
	ClosedAt     *time.Time `json:"closed_at"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

type ShiftStatus string

const (
	ShiftOpen   ShiftStatus = "OPEN"
	ShiftClosed ShiftStatus = "CLOSED"
)

// ShiftSummary aggregates a shift's completed sales by payment method.
type ShiftSummary struct {
	ShiftID      uint               `json:"shift_id"`
	OrderCount   int                `json:"order_count"`
	TotalSales   float64            `json:"total_sales"`
	ByPayment    map[string]float64 `json:"by_payment"`
}
