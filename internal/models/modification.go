package models

import (
	"encoding/json"
	"time"
)

// OrderModification is one append-only audit record. Every successful mutating
// call against an order writes exactly one row, in the same transaction as the
// mutation itself. Rows are never updated or deleted.
type OrderModification struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	OrderID     uint      `json:"order_id" gorm:"index;not null"`
	ActorID     uint      `json:"actor_id" gorm:"not null"`
	Action      string    `json:"action" gorm:"not null"`
	Description string    `json:"description"`
	Changes     string    `json:"changes" gorm:"type:text"`
	CreatedAt   time.Time `json:"created_at"`
}

type ModificationAction string

const (
	ActionItemAdded       ModificationAction = "ITEM_ADDED"
	ActionItemRemoved     ModificationAction = "ITEM_REMOVED"
	ActionQuantityChanged ModificationAction = "QUANTITY_CHANGED"
	ActionNotesUpdated    ModificationAction = "NOTES_UPDATED"
	ActionStatusChanged   ModificationAction = "STATUS_CHANGED"
	ActionOrderUpdated    ModificationAction = "ORDER_UPDATED"
)

// ChangeSet carries the typed before/after fields for one audit row. Only the
// fields relevant to the action are set; it is JSON-serialized at the storage
// boundary, never stored as a free-form map.
type ChangeSet struct {
	MenuID         *uint    `json:"menu_id,omitempty"`
	ItemID         *uint    `json:"item_id,omitempty"`
	QuantityBefore *int     `json:"quantity_before,omitempty"`
	QuantityAfter  *int     `json:"quantity_after,omitempty"`
	Price          *float64 `json:"price,omitempty"`
	NotesBefore    *string  `json:"notes_before,omitempty"`
	NotesAfter     *string  `json:"notes_after,omitempty"`
	StatusBefore   *string  `json:"status_before,omitempty"`
	StatusAfter    *string  `json:"status_after,omitempty"`
	TotalBefore    *float64 `json:"total_before,omitempty"`
	TotalAfter     *float64 `json:"total_after,omitempty"`
}

// Encode serializes the change set for storage.
func (c ChangeSet) Encode() string {
	data, err := json.Marshal(c)
	if err != nil {
		return "{}"
	}
	return string(data)
}
