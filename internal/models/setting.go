package models

import (
	"time"
)

// PosSetting is a named numeric configuration row, e.g. tax_rate.
type PosSetting struct {
	ID              uint      `json:"id" gorm:"primaryKey"`
	SettingName     string    `json:"setting_name" gorm:"unique;not null"` // tax_rate
	PercentageValue float64   `json:"percentage_value"`
	IsActive        bool      `json:"is_active" gorm:"default:true"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

const SettingTaxRate = "tax_rate"
