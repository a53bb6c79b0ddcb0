package models

import (
	"time"
)

// OrderItem is a single line on an order. Price is snapshotted from the menu
// at insertion time and never follows later catalog price changes.
type OrderItem struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	OrderID   uint      `json:"order_id" gorm:"index;not null"`
	MenuID    uint      `json:"menu_id" gorm:"not null"`
	Quantity  int       `json:"quantity" gorm:"not null"`
	Price     float64   `json:"price" gorm:"not null"`
	Notes     string    `json:"notes"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// LineTotal is the item's contribution to the order subtotal.
func (i *OrderItem) LineTotal() float64 {
	return i.Price * float64(i.Quantity)
}

// SameLine reports whether another (menuID, notes) pair belongs on this line.
// Matching lines are merged by incrementing quantity instead of duplicated.
func (i *OrderItem) SameLine(menuID uint, notes string) bool {
	return i.MenuID == menuID && i.Notes == notes
}
