package services

import (
	"context"
	"sync"
	"time"

	"gorm.io/gorm"

	"order_ledger/internal/apperrors"
	"order_ledger/internal/models"
)

// In-memory fakes implementing the repository interfaces. They mimic the two
// gorm behaviors the services depend on: gorm.ErrRecordNotFound for misses
// and gorm.ErrDuplicatedKey for order number collisions.

func cloneOrder(o *models.Order) *models.Order {
	c := *o
	c.Items = make([]models.OrderItem, len(o.Items))
	copy(c.Items, o.Items)
	return &c
}

type fakeOrderRepo struct {
	mu         sync.Mutex
	orders     map[uint]*models.Order
	mods       map[uint][]models.OrderModification
	numbers    map[string]uint
	nextOrder  uint
	nextItem   uint
	collisions int // force this many duplicate-key failures on create
}

func newFakeOrderRepo() *fakeOrderRepo {
	return &fakeOrderRepo{
		orders:  make(map[uint]*models.Order),
		mods:    make(map[uint][]models.OrderModification),
		numbers: make(map[string]uint),
	}
}

func (r *fakeOrderRepo) CreateWithItems(order *models.Order, mod *models.OrderModification) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.collisions > 0 {
		r.collisions--
		return gorm.ErrDuplicatedKey
	}
	if _, taken := r.numbers[order.OrderNumber]; taken {
		return gorm.ErrDuplicatedKey
	}

	r.nextOrder++
	order.ID = r.nextOrder
	if order.CreatedAt.IsZero() {
		order.CreatedAt = time.Now()
	}
	for i := range order.Items {
		r.nextItem++
		order.Items[i].ID = r.nextItem
		order.Items[i].OrderID = order.ID
	}
	r.numbers[order.OrderNumber] = order.ID
	r.orders[order.ID] = cloneOrder(order)

	mod.OrderID = order.ID
	r.mods[order.ID] = append(r.mods[order.ID], *mod)
	return nil
}

func (r *fakeOrderRepo) GetByID(id uint) (*models.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.orders[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return cloneOrder(o), nil
}

func (r *fakeOrderRepo) GetByShiftID(shiftID uint) ([]models.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Order
	for _, o := range r.orders {
		if o.ShiftID != nil && *o.ShiftID == shiftID {
			out = append(out, *cloneOrder(o))
		}
	}
	return out, nil
}

func (r *fakeOrderRepo) GetByStatus(status string) ([]models.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Order
	for _, o := range r.orders {
		if o.Status == status {
			out = append(out, *cloneOrder(o))
		}
	}
	return out, nil
}

func (r *fakeOrderRepo) GetAll() ([]models.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Order
	for _, o := range r.orders {
		out = append(out, *cloneOrder(o))
	}
	return out, nil
}

func (r *fakeOrderRepo) SaveWithAudit(order *models.Order, mod *models.OrderModification) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.orders[order.ID] = cloneOrder(order)
	r.mods[order.ID] = append(r.mods[order.ID], *mod)
	return nil
}

func (r *fakeOrderRepo) SaveItemWithAudit(order *models.Order, item *models.OrderItem, mod *models.OrderModification) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if item.ID == 0 {
		r.nextItem++
		item.ID = r.nextItem
	}
	r.orders[order.ID] = cloneOrder(order)
	r.mods[order.ID] = append(r.mods[order.ID], *mod)
	return nil
}

func (r *fakeOrderRepo) DeleteItemWithAudit(order *models.Order, itemID uint, mod *models.OrderModification) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.orders[order.ID] = cloneOrder(order)
	r.mods[order.ID] = append(r.mods[order.ID], *mod)
	return nil
}

func (r *fakeOrderRepo) GetItem(orderID, itemID uint) (*models.OrderItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.orders[orderID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	for i := range o.Items {
		if o.Items[i].ID == itemID {
			item := o.Items[i]
			return &item, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeOrderRepo) GetModifications(orderID uint) ([]models.OrderModification, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]models.OrderModification(nil), r.mods[orderID]...), nil
}

type fakeShiftRepo struct {
	mu     sync.Mutex
	shifts map[uint]*models.Shift
	nextID uint
	orders *fakeOrderRepo
}

func newFakeShiftRepo(orders *fakeOrderRepo) *fakeShiftRepo {
	return &fakeShiftRepo{shifts: make(map[uint]*models.Shift), orders: orders}
}

func (r *fakeShiftRepo) Create(shift *models.Shift) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	shift.ID = r.nextID
	c := *shift
	r.shifts[shift.ID] = &c
	return nil
}

func (r *fakeShiftRepo) GetByID(id uint) (*models.Shift, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.shifts[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	c := *s
	return &c, nil
}

func (r *fakeShiftRepo) FindOpen(cashierID uint) (*models.Shift, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, s := range r.shifts {
		if s.CashierID == cashierID && s.Status == string(models.ShiftOpen) {
			c := *s
			return &c, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeShiftRepo) CloseShift(shift *models.Shift, compute func(cashTotal float64)) error {
	cashTotal := 0.0
	if r.orders != nil {
		orders, _ := r.orders.GetByShiftID(shift.ID)
		for _, o := range orders {
			if o.Status == string(models.OrderCompleted) && o.PaymentMethod == string(models.PaymentCash) {
				cashTotal += o.Total
			}
		}
	}
	compute(cashTotal)

	r.mu.Lock()
	defer r.mu.Unlock()
	c := *shift
	r.shifts[shift.ID] = &c
	return nil
}

func (r *fakeShiftRepo) Summary(shiftID uint) (*models.ShiftSummary, error) {
	summary := &models.ShiftSummary{ShiftID: shiftID, ByPayment: make(map[string]float64)}
	if r.orders == nil {
		return summary, nil
	}
	orders, _ := r.orders.GetByShiftID(shiftID)
	for _, o := range orders {
		if o.Status != string(models.OrderCompleted) {
			continue
		}
		summary.OrderCount++
		summary.TotalSales += o.Total
		summary.ByPayment[o.PaymentMethod] += o.Total
	}
	return summary, nil
}

type fakeCashierRepo struct {
	cashiers map[uint]*models.Cashier
}

func newFakeCashierRepo(ids ...uint) *fakeCashierRepo {
	r := &fakeCashierRepo{cashiers: make(map[uint]*models.Cashier)}
	for _, id := range ids {
		r.cashiers[id] = &models.Cashier{ID: id, Username: "cashier", IsActive: true}
	}
	return r
}

func (r *fakeCashierRepo) Create(c *models.Cashier) error {
	r.cashiers[c.ID] = c
	return nil
}

func (r *fakeCashierRepo) GetByID(id uint) (*models.Cashier, error) {
	c, ok := r.cashiers[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return c, nil
}

func (r *fakeCashierRepo) GetByUsername(username string) (*models.Cashier, error) {
	for _, c := range r.cashiers {
		if c.Username == username {
			return c, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeCashierRepo) GetAll() ([]models.Cashier, error) {
	var out []models.Cashier
	for _, c := range r.cashiers {
		out = append(out, *c)
	}
	return out, nil
}

func (r *fakeCashierRepo) Update(c *models.Cashier) error {
	r.cashiers[c.ID] = c
	return nil
}

type fakeCatalog struct {
	items map[uint]models.MenuItem
}

func newFakeCatalog(items ...models.MenuItem) *fakeCatalog {
	c := &fakeCatalog{items: make(map[uint]models.MenuItem)}
	for _, item := range items {
		c.items[item.ID] = item
	}
	return c
}

func (c *fakeCatalog) GetMenuItem(_ context.Context, id uint) (*models.MenuItem, error) {
	item, ok := c.items[id]
	if !ok {
		return nil, apperrors.New(apperrors.NotFound, "menu item %d not found", id)
	}
	return &item, nil
}

func (c *fakeCatalog) ListMenuItems(ids []uint) ([]models.MenuItem, error) {
	var out []models.MenuItem
	seen := make(map[uint]bool)
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		if item, ok := c.items[id]; ok {
			out = append(out, item)
		}
	}
	return out, nil
}

type fakeSettingRepo struct {
	taxPct float64
	unset  bool
}

func (r *fakeSettingRepo) CreateSetting(*models.PosSetting) error { return nil }
func (r *fakeSettingRepo) UpdateSetting(*models.PosSetting) error { return nil }

func (r *fakeSettingRepo) GetSetting(name string) (*models.PosSetting, error) {
	if r.unset {
		return nil, gorm.ErrRecordNotFound
	}
	return &models.PosSetting{SettingName: name, PercentageValue: r.taxPct, IsActive: true}, nil
}
