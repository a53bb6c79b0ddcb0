package models

import (
	"time"

	"gorm.io/gorm"
)

// MenuItem is the catalog entry orders reference. The ledger reads it, never
// mutates it; price changes only affect items snapshotted afterwards.
type MenuItem struct {
	ID          uint           `json:"id" gorm:"primaryKey"`
	Name        string         `json:"name" gorm:"not null"`
	Category    string         `json:"category"`
	Price       float64        `json:"price" gorm:"not null"`
	IsAvailable bool           `json:"is_available" gorm:"default:true"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `json:"deleted_at" gorm:"index"`
}
