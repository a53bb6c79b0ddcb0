package models

import (
	"time"

	"gorm.io/gorm"
)

type Cashier struct {
	ID        uint           `json:"id" gorm:"primaryKey"`
	Username  string         `json:"username" gorm:"unique;not null"`
	FullName  string         `json:"full_name"`
	Role      string         `json:"role" gorm:"default:'cashier'"` // admin, cashier
	PinHash   string         `json:"-" gorm:"not null"`
	IsActive  bool           `json:"is_active" gorm:"default:true"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"deleted_at" gorm:"index"`
}

type CashierRole string

const (
	RoleAdmin   CashierRole = "admin"
	RoleCashier CashierRole = "cashier"
)
