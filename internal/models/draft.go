package models

import (
	"time"
)

// Draft is a client-composed order that has not been committed server-side.
// Client-supplied totals are advisory; the server recomputes them from
// snapshot prices when the draft commits.
type Draft struct {
	LocalID       string      `json:"local_id,omitempty"`
	Items         []DraftItem `json:"items"`
	Subtotal      float64     `json:"subtotal"`
	Tax           float64     `json:"tax,omitempty"`
	Discount      float64     `json:"discount,omitempty"`
	Total         float64     `json:"total"`
	PaymentMethod string      `json:"payment_method,omitempty"`
	Notes         string      `json:"notes,omitempty"`
	CreatedAt     *time.Time  `json:"created_at,omitempty"`
}

type DraftItem struct {
	MenuID   uint    `json:"menu_id"`
	Quantity int     `json:"quantity"`
	Price    float64 `json:"price"`
	Notes    string  `json:"notes,omitempty"`
}

// FailedDraft pairs a rejected draft with the first reason it failed.
type FailedDraft struct {
	Order Draft  `json:"order"`
	Error string `json:"error"`
}

// SyncResponse is the batch reconciliation result. Per-draft failures are
// data, never errors that abort sibling drafts.
type SyncResponse struct {
	Success     bool          `json:"success"`
	Synced      []Order       `json:"synced"`
	Failed      []FailedDraft `json:"failed"`
	Total       int           `json:"total"`
	SyncedCount int           `json:"synced_count"`
	FailedCount int           `json:"failed_count"`
}
