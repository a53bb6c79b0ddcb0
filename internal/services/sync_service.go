package services

import (
	"context"
	"fmt"

	"order_ledger/internal/apperrors"
	"order_ledger/internal/models"
)

// SyncService ingests batches of offline-drafted orders. Each draft is
// validated and committed independently; one malformed draft never blocks the
// rest of the batch, because losing every pending sale to a single bad record
// would defeat the point of offline recovery.
type SyncService interface {
	SyncOrders(ctx context.Context, ownerID uint, drafts []models.Draft) (*models.SyncResponse, error)
}

type syncService struct {
	orderService OrderService
	shiftService ShiftService
	catalog      CatalogService
}

func NewSyncService(orderService OrderService, shiftService ShiftService, catalog CatalogService) SyncService {
	return &syncService{orderService: orderService, shiftService: shiftService, catalog: catalog}
}

func (s *syncService) SyncOrders(ctx context.Context, ownerID uint, drafts []models.Draft) (*models.SyncResponse, error) {
	resp := &models.SyncResponse{
		Success: true,
		Synced:  []models.Order{},
		Failed:  []models.FailedDraft{},
		Total:   len(drafts),
	}

	// Committed drafts land on the owner's open shift, if there is one.
	var shiftID *uint
	if shift, err := s.shiftService.FindOpenShift(ownerID); err == nil {
		shiftID = &shift.ID
	} else if !apperrors.IsNotFound(err) {
		return nil, err
	}

	for _, draft := range drafts {
		order, err := s.syncOne(ctx, ownerID, shiftID, draft)
		if err != nil {
			resp.Failed = append(resp.Failed, models.FailedDraft{Order: draft, Error: err.Error()})
			resp.FailedCount++
			continue
		}
		resp.Synced = append(resp.Synced, *order)
		resp.SyncedCount++
	}
	return resp, nil
}

// syncOne runs the per-draft pipeline. The first failing check becomes the
// draft's recorded reason.
func (s *syncService) syncOne(ctx context.Context, ownerID uint, shiftID *uint, draft models.Draft) (*models.Order, error) {
	if len(draft.Items) == 0 {
		return nil, fmt.Errorf("At least one item is required")
	}
	for _, item := range draft.Items {
		if item.MenuID == 0 {
			return nil, fmt.Errorf("item is missing a menu id")
		}
		if item.Quantity <= 0 {
			return nil, fmt.Errorf("quantity must be greater than zero")
		}
		if item.Price < 0 {
			return nil, fmt.Errorf("item price must not be negative")
		}
	}
	if draft.Subtotal < 0 || draft.Tax < 0 || draft.Discount < 0 || draft.Total < 0 {
		return nil, fmt.Errorf("order amounts must not be negative")
	}

	// One batched existence query for all referenced menu items.
	ids := make([]uint, 0, len(draft.Items))
	for _, item := range draft.Items {
		ids = append(ids, item.MenuID)
	}
	found, err := s.catalog.ListMenuItems(ids)
	if err != nil {
		return nil, fmt.Errorf("menu lookup failed: %v", err)
	}
	byID := make(map[uint]models.MenuItem, len(found))
	for _, m := range found {
		byID[m.ID] = m
	}
	for _, item := range draft.Items {
		menu, ok := byID[item.MenuID]
		if !ok {
			return nil, fmt.Errorf("menu item %d not found", item.MenuID)
		}
		if !menu.IsAvailable {
			return nil, fmt.Errorf("menu item %s is not available", menu.Name)
		}
	}

	paymentMethod := draft.PaymentMethod
	if paymentMethod == "" {
		paymentMethod = string(models.PaymentCash)
	}
	if !models.ValidPaymentMethod(paymentMethod) {
		return nil, fmt.Errorf("invalid payment method: %s", paymentMethod)
	}

	req := CreateOrderRequest{
		PaymentMethod:   paymentMethod,
		Notes:           draft.Notes,
		Discount:        draft.Discount,
		OwnerID:         ownerID,
		ShiftID:         shiftID,
		ClientCreatedAt: draft.CreatedAt,
	}
	for _, item := range draft.Items {
		req.Items = append(req.Items, CreateOrderItem{
			MenuID:   item.MenuID,
			Quantity: item.Quantity,
			Notes:    item.Notes,
		})
	}
	return s.orderService.CreateOrder(ctx, req)
}
