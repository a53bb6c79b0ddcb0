package services

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"gorm.io/gorm"

	"order_ledger/internal/apperrors"
	"order_ledger/internal/models"
	"order_ledger/internal/repository"
)

// OrderService is the mutation engine for orders. Every mutating call
// recomputes the derived totals and writes exactly one audit row, atomically
// with the mutation. Mutations on the same order are serialized; different
// orders proceed independently.
type OrderService interface {
	CreateOrder(ctx context.Context, req CreateOrderRequest) (*models.Order, error)
	GetOrder(id uint) (*models.Order, error)
	GetOrdersByStatus(status string) ([]models.Order, error)
	GetOrdersByShift(shiftID uint) ([]models.Order, error)
	GetAllOrders() ([]models.Order, error)
	AddItem(ctx context.Context, orderID, actorID, menuID uint, quantity int, notes string) (*models.OrderItem, error)
	UpdateItem(ctx context.Context, orderID, itemID, actorID uint, upd ItemUpdate) (*models.OrderItem, error)
	RemoveItem(ctx context.Context, orderID, itemID, actorID uint) error
	UpdateOrder(ctx context.Context, orderID, actorID uint, upd OrderUpdate) (*models.Order, error)
	GetModifications(orderID uint) ([]models.OrderModification, error)
}

type CreateOrderRequest struct {
	Items           []CreateOrderItem
	PaymentMethod   string
	Notes           string
	Discount        float64
	OwnerID         uint
	ShiftID         *uint
	ClientCreatedAt *time.Time
}

type CreateOrderItem struct {
	MenuID   uint
	Quantity int
	Notes    string
}

type ItemUpdate struct {
	Quantity *int
	Notes    *string
}

type OrderUpdate struct {
	Status *string
	Notes  *string
}

type orderService struct {
	orderRepo     repository.OrderRepository
	settingRepo   repository.SettingRepository
	catalog       CatalogService
	numberRetries int

	// one mutex per order id; serializes load-recompute-save cycles
	locks sync.Map
}

func NewOrderService(orderRepo repository.OrderRepository, settingRepo repository.SettingRepository, catalog CatalogService, numberRetries int) OrderService {
	if numberRetries <= 0 {
		numberRetries = 5
	}
	return &orderService{
		orderRepo:     orderRepo,
		settingRepo:   settingRepo,
		catalog:       catalog,
		numberRetries: numberRetries,
	}
}

func (s *orderService) lockOrder(id uint) func() {
	v, _ := s.locks.LoadOrStore(id, &sync.Mutex{})
	mu := v.(*sync.Mutex)
	mu.Lock()
	return mu.Unlock
}

// taxRate returns the configured tax rate as a fraction, e.g. 0.10 for 10%.
func (s *orderService) taxRate() (float64, error) {
	setting, err := s.settingRepo.GetSetting(models.SettingTaxRate)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, nil
		}
		return 0, fmt.Errorf("failed to get tax rate: %w", err)
	}
	return setting.PercentageValue / 100, nil
}

// recompute rederives subtotal, tax and total from the order's items. The
// discount is carried as-is and never rederived.
func (s *orderService) recompute(order *models.Order) error {
	rate, err := s.taxRate()
	if err != nil {
		return err
	}
	subtotal := 0.0
	for i := range order.Items {
		subtotal += order.Items[i].LineTotal()
	}
	order.Subtotal = subtotal
	order.Tax = subtotal * rate
	order.Total = order.Subtotal + order.Tax - order.Discount
	return nil
}

func generateOrderNumber(now time.Time) string {
	return fmt.Sprintf("POS-%s-%04d", now.Format("20060102-150405"), rand.Intn(10000))
}

func (s *orderService) CreateOrder(ctx context.Context, req CreateOrderRequest) (*models.Order, error) {
	if len(req.Items) == 0 {
		return nil, apperrors.New(apperrors.InvalidArgument, "At least one item is required")
	}
	if req.Discount < 0 {
		return nil, apperrors.New(apperrors.InvalidArgument, "discount must not be negative")
	}
	if req.PaymentMethod == "" {
		req.PaymentMethod = string(models.PaymentCash)
	}
	if !models.ValidPaymentMethod(req.PaymentMethod) {
		return nil, apperrors.New(apperrors.InvalidArgument, "invalid payment method: %s", req.PaymentMethod)
	}

	order := &models.Order{
		Status:        string(models.OrderPending),
		PaymentMethod: req.PaymentMethod,
		Discount:      req.Discount,
		OwnerID:       req.OwnerID,
		ShiftID:       req.ShiftID,
		Notes:         req.Notes,
	}

	for _, in := range req.Items {
		if in.Quantity <= 0 {
			return nil, apperrors.New(apperrors.InvalidArgument, "quantity must be greater than zero")
		}
		menu, err := s.catalog.GetMenuItem(ctx, in.MenuID)
		if err != nil {
			if apperrors.IsNotFound(err) {
				return nil, apperrors.New(apperrors.InvalidArgument, "menu item %d not found", in.MenuID)
			}
			return nil, err
		}
		if !menu.IsAvailable {
			return nil, apperrors.New(apperrors.InvalidArgument, "menu item %s is not available", menu.Name)
		}

		merged := false
		for i := range order.Items {
			if order.Items[i].SameLine(in.MenuID, in.Notes) {
				order.Items[i].Quantity += in.Quantity
				merged = true
				break
			}
		}
		if !merged {
			order.Items = append(order.Items, models.OrderItem{
				MenuID:   in.MenuID,
				Quantity: in.Quantity,
				Price:    menu.Price,
				Notes:    in.Notes,
			})
		}
	}

	if err := s.recompute(order); err != nil {
		return nil, err
	}
	if req.ClientCreatedAt != nil {
		order.CreatedAt = *req.ClientCreatedAt
	}

	// Order numbers encode date+time+random suffix; collisions are unlikely
	// but possible, so a duplicate key is retried with a fresh number.
	var lastErr error
	for attempt := 0; attempt < s.numberRetries; attempt++ {
		order.OrderNumber = generateOrderNumber(time.Now())
		mod := &models.OrderModification{
			ActorID:     req.OwnerID,
			Action:      string(models.ActionOrderUpdated),
			Description: "Order created",
			Changes: models.ChangeSet{
				StatusAfter: strPtr(order.Status),
				TotalAfter:  floatPtr(order.Total),
			}.Encode(),
		}
		err := s.orderRepo.CreateWithItems(order, mod)
		if err == nil {
			return order, nil
		}
		if !errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, err
		}
		lastErr = err
	}
	return nil, apperrors.New(apperrors.Conflict, "could not allocate a unique order number: %v", lastErr)
}

func (s *orderService) GetOrder(id uint) (*models.Order, error) {
	order, err := s.orderRepo.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.New(apperrors.NotFound, "order %d not found", id)
		}
		return nil, err
	}
	return order, nil
}

func (s *orderService) GetOrdersByStatus(status string) ([]models.Order, error) {
	if !models.ValidOrderStatus(status) {
		return nil, apperrors.New(apperrors.InvalidArgument, "invalid order status: %s", status)
	}
	return s.orderRepo.GetByStatus(status)
}

func (s *orderService) GetOrdersByShift(shiftID uint) ([]models.Order, error) {
	return s.orderRepo.GetByShiftID(shiftID)
}

func (s *orderService) GetAllOrders() ([]models.Order, error) {
	return s.orderRepo.GetAll()
}

func (s *orderService) AddItem(ctx context.Context, orderID, actorID, menuID uint, quantity int, notes string) (*models.OrderItem, error) {
	unlock := s.lockOrder(orderID)
	defer unlock()

	order, err := s.GetOrder(orderID)
	if err != nil {
		return nil, err
	}
	if !order.IsMutable() {
		return nil, apperrors.New(apperrors.InvalidState, "order %s can no longer be modified", order.OrderNumber)
	}
	if quantity <= 0 {
		return nil, apperrors.New(apperrors.InvalidArgument, "quantity must be greater than zero")
	}

	menu, err := s.catalog.GetMenuItem(ctx, menuID)
	if err != nil {
		return nil, err
	}
	if !menu.IsAvailable {
		return nil, apperrors.New(apperrors.InvalidArgument, "menu item %s is not available", menu.Name)
	}

	// Same menu item with the same notes merges into the existing line.
	var item *models.OrderItem
	var mod *models.OrderModification
	for i := range order.Items {
		if order.Items[i].SameLine(menuID, notes) {
			item = &order.Items[i]
			before := item.Quantity
			item.Quantity += quantity
			mod = &models.OrderModification{
				OrderID:     orderID,
				ActorID:     actorID,
				Action:      string(models.ActionQuantityChanged),
				Description: fmt.Sprintf("Increased quantity of menu item %d to %d", menuID, item.Quantity),
				Changes: models.ChangeSet{
					ItemID:         uintPtr(item.ID),
					MenuID:         uintPtr(menuID),
					QuantityBefore: intPtr(before),
					QuantityAfter:  intPtr(item.Quantity),
				}.Encode(),
			}
			break
		}
	}
	if item == nil {
		order.Items = append(order.Items, models.OrderItem{
			OrderID:  orderID,
			MenuID:   menuID,
			Quantity: quantity,
			Price:    menu.Price,
			Notes:    notes,
		})
		item = &order.Items[len(order.Items)-1]
		mod = &models.OrderModification{
			OrderID:     orderID,
			ActorID:     actorID,
			Action:      string(models.ActionItemAdded),
			Description: fmt.Sprintf("Added %dx %s", quantity, menu.Name),
			Changes: models.ChangeSet{
				MenuID:        uintPtr(menuID),
				QuantityAfter: intPtr(quantity),
				Price:         floatPtr(menu.Price),
			}.Encode(),
		}
	}

	if err := s.recompute(order); err != nil {
		return nil, err
	}
	if err := s.orderRepo.SaveItemWithAudit(order, item, mod); err != nil {
		return nil, err
	}
	return item, nil
}

func (s *orderService) UpdateItem(ctx context.Context, orderID, itemID, actorID uint, upd ItemUpdate) (*models.OrderItem, error) {
	unlock := s.lockOrder(orderID)
	defer unlock()

	order, err := s.GetOrder(orderID)
	if err != nil {
		return nil, err
	}
	if !order.IsMutable() {
		return nil, apperrors.New(apperrors.InvalidState, "order %s can no longer be modified", order.OrderNumber)
	}

	var item *models.OrderItem
	for i := range order.Items {
		if order.Items[i].ID == itemID {
			item = &order.Items[i]
			break
		}
	}
	if item == nil {
		return nil, apperrors.New(apperrors.NotFound, "order item %d not found", itemID)
	}

	changes := models.ChangeSet{ItemID: uintPtr(itemID), MenuID: uintPtr(item.MenuID)}
	quantityChanged := false
	notesChanged := false

	if upd.Quantity != nil {
		if *upd.Quantity <= 0 {
			return nil, apperrors.New(apperrors.InvalidArgument, "quantity must be greater than zero")
		}
		if *upd.Quantity != item.Quantity {
			changes.QuantityBefore = intPtr(item.Quantity)
			changes.QuantityAfter = upd.Quantity
			item.Quantity = *upd.Quantity
			quantityChanged = true
		}
	}
	if upd.Notes != nil && *upd.Notes != item.Notes {
		changes.NotesBefore = strPtr(item.Notes)
		changes.NotesAfter = upd.Notes
		item.Notes = *upd.Notes
		notesChanged = true
	}
	if !quantityChanged && !notesChanged {
		return item, nil
	}

	if quantityChanged {
		if err := s.recompute(order); err != nil {
			return nil, err
		}
	}

	// One audit row per call, even when both fields change.
	action := models.ActionOrderUpdated
	switch {
	case quantityChanged && !notesChanged:
		action = models.ActionQuantityChanged
	case notesChanged && !quantityChanged:
		action = models.ActionNotesUpdated
	}
	mod := &models.OrderModification{
		OrderID:     orderID,
		ActorID:     actorID,
		Action:      string(action),
		Description: fmt.Sprintf("Updated item %d", itemID),
		Changes:     changes.Encode(),
	}
	if err := s.orderRepo.SaveItemWithAudit(order, item, mod); err != nil {
		return nil, err
	}
	return item, nil
}

func (s *orderService) RemoveItem(ctx context.Context, orderID, itemID, actorID uint) error {
	unlock := s.lockOrder(orderID)
	defer unlock()

	order, err := s.GetOrder(orderID)
	if err != nil {
		return err
	}
	if !order.IsMutable() {
		return apperrors.New(apperrors.InvalidState, "order %s can no longer be modified", order.OrderNumber)
	}

	idx := -1
	for i := range order.Items {
		if order.Items[i].ID == itemID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return apperrors.New(apperrors.NotFound, "order item %d not found", itemID)
	}

	removed := order.Items[idx]
	order.Items = append(order.Items[:idx], order.Items[idx+1:]...)
	if err := s.recompute(order); err != nil {
		return err
	}

	mod := &models.OrderModification{
		OrderID:     orderID,
		ActorID:     actorID,
		Action:      string(models.ActionItemRemoved),
		Description: fmt.Sprintf("Removed %dx menu item %d", removed.Quantity, removed.MenuID),
		Changes: models.ChangeSet{
			ItemID:         uintPtr(itemID),
			MenuID:         uintPtr(removed.MenuID),
			QuantityBefore: intPtr(removed.Quantity),
			Price:          floatPtr(removed.Price),
		}.Encode(),
	}
	return s.orderRepo.DeleteItemWithAudit(order, itemID, mod)
}

func (s *orderService) UpdateOrder(ctx context.Context, orderID, actorID uint, upd OrderUpdate) (*models.Order, error) {
	unlock := s.lockOrder(orderID)
	defer unlock()

	order, err := s.GetOrder(orderID)
	if err != nil {
		return nil, err
	}

	if upd.Status != nil && *upd.Status != order.Status {
		if !models.ValidOrderStatus(*upd.Status) {
			return nil, apperrors.New(apperrors.InvalidArgument, "invalid order status: %s", *upd.Status)
		}
		if !order.CanTransitionTo(models.OrderStatus(*upd.Status)) {
			return nil, apperrors.New(apperrors.InvalidArgument, "cannot change status from %s to %s", order.Status, *upd.Status)
		}
		before := order.Status
		order.Status = *upd.Status
		mod := &models.OrderModification{
			OrderID:     orderID,
			ActorID:     actorID,
			Action:      string(models.ActionStatusChanged),
			Description: fmt.Sprintf("Status changed from %s to %s", before, order.Status),
			Changes: models.ChangeSet{
				StatusBefore: strPtr(before),
				StatusAfter:  upd.Status,
			}.Encode(),
		}
		if err := s.orderRepo.SaveWithAudit(order, mod); err != nil {
			return nil, err
		}
	}

	// Notes may change regardless of status, and get their own audit row.
	if upd.Notes != nil && *upd.Notes != order.Notes {
		before := order.Notes
		order.Notes = *upd.Notes
		mod := &models.OrderModification{
			OrderID:     orderID,
			ActorID:     actorID,
			Action:      string(models.ActionNotesUpdated),
			Description: "Order notes updated",
			Changes: models.ChangeSet{
				NotesBefore: strPtr(before),
				NotesAfter:  upd.Notes,
			}.Encode(),
		}
		if err := s.orderRepo.SaveWithAudit(order, mod); err != nil {
			return nil, err
		}
	}

	return order, nil
}

func (s *orderService) GetModifications(orderID uint) ([]models.OrderModification, error) {
	if _, err := s.GetOrder(orderID); err != nil {
		return nil, err
	}
	return s.orderRepo.GetModifications(orderID)
}

func intPtr(v int) *int           { return &v }
func uintPtr(v uint) *uint        { return &v }
func strPtr(v string) *string     { return &v }
func floatPtr(v float64) *float64 { return &v }
