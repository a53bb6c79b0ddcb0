package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"order_ledger/internal/apperrors"
	"order_ledger/internal/models"
)

func newTestOrderService() (OrderService, *fakeOrderRepo, *fakeCatalog) {
	repo := newFakeOrderRepo()
	catalog := newFakeCatalog(
		models.MenuItem{ID: 1, Name: "Nasi Goreng", Price: 15000, IsAvailable: true},
		models.MenuItem{ID: 2, Name: "Es Teh", Price: 5000, IsAvailable: true},
		models.MenuItem{ID: 3, Name: "Ayam Bakar", Price: 30000, IsAvailable: false},
	)
	svc := NewOrderService(repo, &fakeSettingRepo{taxPct: 10}, catalog, 5)
	return svc, repo, catalog
}

func createTestOrder(t *testing.T, svc OrderService) *models.Order {
	t.Helper()
	order, err := svc.CreateOrder(context.Background(), CreateOrderRequest{
		Items:   []CreateOrderItem{{MenuID: 1, Quantity: 2}},
		OwnerID: 1,
	})
	require.NoError(t, err)
	return order
}

// assertTotals checks the derived-total invariants the ledger guarantees
// after every committed mutation.
func assertTotals(t *testing.T, svc OrderService, orderID uint) *models.Order {
	t.Helper()
	order, err := svc.GetOrder(orderID)
	require.NoError(t, err)

	subtotal := 0.0
	for _, item := range order.Items {
		subtotal += item.Price * float64(item.Quantity)
	}
	assert.InDelta(t, subtotal, order.Subtotal, 1e-9)
	assert.InDelta(t, order.Subtotal+order.Tax-order.Discount, order.Total, 1e-9)
	return order
}

func TestCreateOrderComputesTotals(t *testing.T) {
	svc, _, _ := newTestOrderService()

	order, err := svc.CreateOrder(context.Background(), CreateOrderRequest{
		Items:    []CreateOrderItem{{MenuID: 1, Quantity: 2}, {MenuID: 2, Quantity: 1}},
		Discount: 2000,
		OwnerID:  1,
	})
	require.NoError(t, err)

	assert.Equal(t, string(models.OrderPending), order.Status)
	assert.Equal(t, string(models.PaymentCash), order.PaymentMethod)
	assert.InDelta(t, 35000, order.Subtotal, 1e-9)
	assert.InDelta(t, 3500, order.Tax, 1e-9)
	assert.InDelta(t, 36500, order.Total, 1e-9)
	assert.NotEmpty(t, order.OrderNumber)
	assertTotals(t, svc, order.ID)
}

func TestCreateOrderMergesDuplicateLines(t *testing.T) {
	svc, _, _ := newTestOrderService()

	order, err := svc.CreateOrder(context.Background(), CreateOrderRequest{
		Items: []CreateOrderItem{
			{MenuID: 1, Quantity: 1},
			{MenuID: 1, Quantity: 2},
			{MenuID: 1, Quantity: 1, Notes: "extra spicy"},
		},
		OwnerID: 1,
	})
	require.NoError(t, err)

	require.Len(t, order.Items, 2)
	assert.Equal(t, 3, order.Items[0].Quantity)
	assert.Equal(t, 1, order.Items[1].Quantity)
	assert.Equal(t, "extra spicy", order.Items[1].Notes)
}

func TestCreateOrderRejectsBadInput(t *testing.T) {
	svc, _, _ := newTestOrderService()
	ctx := context.Background()

	_, err := svc.CreateOrder(ctx, CreateOrderRequest{OwnerID: 1})
	assert.True(t, apperrors.IsInvalidArgument(err))

	_, err = svc.CreateOrder(ctx, CreateOrderRequest{
		Items:   []CreateOrderItem{{MenuID: 99, Quantity: 1}},
		OwnerID: 1,
	})
	assert.True(t, apperrors.IsInvalidArgument(err), "unknown menu item should be InvalidArgument on create")

	_, err = svc.CreateOrder(ctx, CreateOrderRequest{
		Items:   []CreateOrderItem{{MenuID: 3, Quantity: 1}},
		OwnerID: 1,
	})
	assert.True(t, apperrors.IsInvalidArgument(err), "unavailable menu item")

	_, err = svc.CreateOrder(ctx, CreateOrderRequest{
		Items:   []CreateOrderItem{{MenuID: 1, Quantity: 0}},
		OwnerID: 1,
	})
	assert.True(t, apperrors.IsInvalidArgument(err), "non-positive quantity")

	_, err = svc.CreateOrder(ctx, CreateOrderRequest{
		Items:         []CreateOrderItem{{MenuID: 1, Quantity: 1}},
		PaymentMethod: "BARTER",
		OwnerID:       1,
	})
	assert.True(t, apperrors.IsInvalidArgument(err), "unknown payment method")
}

func TestCreateOrderRetriesNumberCollision(t *testing.T) {
	svc, repo, _ := newTestOrderService()
	repo.collisions = 2

	order, err := svc.CreateOrder(context.Background(), CreateOrderRequest{
		Items:   []CreateOrderItem{{MenuID: 1, Quantity: 1}},
		OwnerID: 1,
	})
	require.NoError(t, err)
	assert.NotZero(t, order.ID)
}

func TestCreateOrderCollisionRetriesExhaust(t *testing.T) {
	svc, repo, _ := newTestOrderService()
	repo.collisions = 5

	_, err := svc.CreateOrder(context.Background(), CreateOrderRequest{
		Items:   []CreateOrderItem{{MenuID: 1, Quantity: 1}},
		OwnerID: 1,
	})
	assert.True(t, apperrors.IsConflict(err))
}

func TestCreateOrderKeepsClientTimestamp(t *testing.T) {
	svc, _, _ := newTestOrderService()
	clientTime := time.Date(2026, 8, 20, 13, 45, 0, 0, time.UTC)

	order, err := svc.CreateOrder(context.Background(), CreateOrderRequest{
		Items:           []CreateOrderItem{{MenuID: 1, Quantity: 1}},
		OwnerID:         1,
		ClientCreatedAt: &clientTime,
	})
	require.NoError(t, err)
	assert.True(t, order.CreatedAt.Equal(clientTime))
}

func TestTotalsInvariantAcrossMutations(t *testing.T) {
	svc, _, _ := newTestOrderService()
	ctx := context.Background()

	order := createTestOrder(t, svc)
	assertTotals(t, svc, order.ID)

	item, err := svc.AddItem(ctx, order.ID, 1, 2, 3, "")
	require.NoError(t, err)
	assertTotals(t, svc, order.ID)

	qty := 1
	_, err = svc.UpdateItem(ctx, order.ID, item.ID, 1, ItemUpdate{Quantity: &qty})
	require.NoError(t, err)
	assertTotals(t, svc, order.ID)

	err = svc.RemoveItem(ctx, order.ID, item.ID, 1)
	require.NoError(t, err)
	assertTotals(t, svc, order.ID)
}

func TestAddThenRemoveRestoresTotals(t *testing.T) {
	svc, _, _ := newTestOrderService()
	ctx := context.Background()

	order := createTestOrder(t, svc)
	before := assertTotals(t, svc, order.ID)

	item, err := svc.AddItem(ctx, order.ID, 1, 2, 1, "no ice")
	require.NoError(t, err)
	require.NoError(t, svc.RemoveItem(ctx, order.ID, item.ID, 1))

	after := assertTotals(t, svc, order.ID)
	assert.Equal(t, before.Subtotal, after.Subtotal)
	assert.Equal(t, before.Tax, after.Tax)
	assert.Equal(t, before.Total, after.Total)
	assert.Len(t, after.Items, len(before.Items))
}

func TestAddItemMergesExistingLine(t *testing.T) {
	svc, _, _ := newTestOrderService()
	ctx := context.Background()

	order := createTestOrder(t, svc)
	item, err := svc.AddItem(ctx, order.ID, 1, 1, 3, "")
	require.NoError(t, err)

	assert.Equal(t, 5, item.Quantity, "2 existing + 3 added merge into one line")

	updated, err := svc.GetOrder(order.ID)
	require.NoError(t, err)
	assert.Len(t, updated.Items, 1)

	mods, err := svc.GetModifications(order.ID)
	require.NoError(t, err)
	require.Len(t, mods, 2)
	assert.Equal(t, string(models.ActionQuantityChanged), mods[1].Action)
}

func TestAddItemGuards(t *testing.T) {
	svc, _, _ := newTestOrderService()
	ctx := context.Background()

	_, err := svc.AddItem(ctx, 42, 1, 1, 1, "")
	assert.True(t, apperrors.IsNotFound(err), "unknown order")

	order := createTestOrder(t, svc)

	_, err = svc.AddItem(ctx, order.ID, 1, 99, 1, "")
	assert.True(t, apperrors.IsNotFound(err), "unknown menu item")

	_, err = svc.AddItem(ctx, order.ID, 1, 3, 1, "")
	assert.True(t, apperrors.IsInvalidArgument(err), "unavailable menu item")

	_, err = svc.AddItem(ctx, order.ID, 1, 1, -1, "")
	assert.True(t, apperrors.IsInvalidArgument(err), "non-positive quantity")

	// ready orders can no longer be modified
	preparing := string(models.OrderPreparing)
	ready := string(models.OrderReady)
	_, err = svc.UpdateOrder(ctx, order.ID, 1, OrderUpdate{Status: &preparing})
	require.NoError(t, err)
	_, err = svc.UpdateOrder(ctx, order.ID, 1, OrderUpdate{Status: &ready})
	require.NoError(t, err)

	_, err = svc.AddItem(ctx, order.ID, 1, 1, 1, "")
	assert.True(t, apperrors.IsInvalidState(err))
}

func TestItemMutationsRejectedOnceReady(t *testing.T) {
	svc, _, _ := newTestOrderService()
	ctx := context.Background()

	order := createTestOrder(t, svc)
	itemID := order.Items[0].ID

	preparing := string(models.OrderPreparing)
	ready := string(models.OrderReady)
	_, err := svc.UpdateOrder(ctx, order.ID, 1, OrderUpdate{Status: &preparing})
	require.NoError(t, err)
	_, err = svc.UpdateOrder(ctx, order.ID, 1, OrderUpdate{Status: &ready})
	require.NoError(t, err)

	qty := 5
	_, err = svc.UpdateItem(ctx, order.ID, itemID, 1, ItemUpdate{Quantity: &qty})
	assert.True(t, apperrors.IsInvalidState(err), "item update on a ready order")

	err = svc.RemoveItem(ctx, order.ID, itemID, 1)
	assert.True(t, apperrors.IsInvalidState(err), "item removal from a ready order")
}

func TestConcurrentMutationsSerializePerOrder(t *testing.T) {
	svc, _, _ := newTestOrderService()
	ctx := context.Background()

	order := createTestOrder(t, svc) // 2x menu 1

	// Parallel adds against one order: half merge into the existing line, half
	// grow a second one. No increment may be lost and every success must leave
	// its audit row.
	const workers = 8
	errs := make(chan error, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		menuID := uint(1)
		if i%2 == 0 {
			menuID = 2
		}
		wg.Add(1)
		go func(menuID uint) {
			defer wg.Done()
			_, err := svc.AddItem(ctx, order.ID, 1, menuID, 1, "")
			errs <- err
		}(menuID)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	final := assertTotals(t, svc, order.ID)
	require.Len(t, final.Items, 2)
	quantities := map[uint]int{}
	for _, item := range final.Items {
		quantities[item.MenuID] = item.Quantity
	}
	assert.Equal(t, 6, quantities[1], "2 initial + 4 merged adds")
	assert.Equal(t, 4, quantities[2])

	mods, err := svc.GetModifications(order.ID)
	require.NoError(t, err)
	assert.Len(t, mods, 1+workers, "creation row plus one row per add")
}

func TestUpdateItemWritesOneAuditRow(t *testing.T) {
	svc, _, _ := newTestOrderService()
	ctx := context.Background()

	order := createTestOrder(t, svc)
	itemID := order.Items[0].ID

	qty := 4
	notes := "less salt"
	_, err := svc.UpdateItem(ctx, order.ID, itemID, 1, ItemUpdate{Quantity: &qty, Notes: &notes})
	require.NoError(t, err)

	mods, err := svc.GetModifications(order.ID)
	require.NoError(t, err)
	require.Len(t, mods, 2, "creation row plus exactly one row for the two-field update")
	assert.Equal(t, string(models.ActionOrderUpdated), mods[1].Action)
	assertTotals(t, svc, order.ID)
}

func TestUpdateItemQuantityOnly(t *testing.T) {
	svc, _, _ := newTestOrderService()
	ctx := context.Background()

	order := createTestOrder(t, svc)
	qty := 7
	item, err := svc.UpdateItem(ctx, order.ID, order.Items[0].ID, 1, ItemUpdate{Quantity: &qty})
	require.NoError(t, err)
	assert.Equal(t, 7, item.Quantity)

	mods, _ := svc.GetModifications(order.ID)
	require.Len(t, mods, 2)
	assert.Equal(t, string(models.ActionQuantityChanged), mods[1].Action)
}

func TestUpdateItemRejectsZeroQuantity(t *testing.T) {
	svc, _, _ := newTestOrderService()

	order := createTestOrder(t, svc)
	qty := 0
	_, err := svc.UpdateItem(context.Background(), order.ID, order.Items[0].ID, 1, ItemUpdate{Quantity: &qty})
	assert.True(t, apperrors.IsInvalidArgument(err))
}

func TestRemoveItemNotFound(t *testing.T) {
	svc, _, _ := newTestOrderService()

	order := createTestOrder(t, svc)
	err := svc.RemoveItem(context.Background(), order.ID, 999, 1)
	assert.True(t, apperrors.IsNotFound(err))
}

func TestStatusTransitions(t *testing.T) {
	svc, _, _ := newTestOrderService()
	ctx := context.Background()

	set := func(orderID uint, status string) error {
		_, err := svc.UpdateOrder(ctx, orderID, 1, OrderUpdate{Status: &status})
		return err
	}

	order := createTestOrder(t, svc)

	// skipping a step is rejected
	err := set(order.ID, string(models.OrderReady))
	assert.True(t, apperrors.IsInvalidArgument(err))

	require.NoError(t, set(order.ID, string(models.OrderPreparing)))
	require.NoError(t, set(order.ID, string(models.OrderReady)))
	require.NoError(t, set(order.ID, string(models.OrderCompleted)))

	// completed is terminal, even for cancellation
	err = set(order.ID, string(models.OrderCancelled))
	assert.True(t, apperrors.IsInvalidArgument(err))

	// cancel from a non-terminal state, then nothing more is allowed
	second := createTestOrder(t, svc)
	require.NoError(t, set(second.ID, string(models.OrderPreparing)))
	require.NoError(t, set(second.ID, string(models.OrderCancelled)))

	err = set(second.ID, string(models.OrderCompleted))
	assert.True(t, apperrors.IsInvalidArgument(err), "cancelled orders cannot be completed")
}

func TestUpdateOrderNotesAnyStatus(t *testing.T) {
	svc, _, _ := newTestOrderService()
	ctx := context.Background()

	order := createTestOrder(t, svc)
	cancelled := string(models.OrderCancelled)
	_, err := svc.UpdateOrder(ctx, order.ID, 1, OrderUpdate{Status: &cancelled})
	require.NoError(t, err)

	notes := "customer walked out"
	updated, err := svc.UpdateOrder(ctx, order.ID, 1, OrderUpdate{Notes: &notes})
	require.NoError(t, err)
	assert.Equal(t, notes, updated.Notes)
}

func TestAuditRowPerSuccessfulMutation(t *testing.T) {
	svc, _, _ := newTestOrderService()
	ctx := context.Background()

	order := createTestOrder(t, svc) // 1: creation row
	item, err := svc.AddItem(ctx, order.ID, 1, 2, 1, "")
	require.NoError(t, err) // 2
	qty := 3
	_, err = svc.UpdateItem(ctx, order.ID, item.ID, 1, ItemUpdate{Quantity: &qty})
	require.NoError(t, err) // 3
	require.NoError(t, svc.RemoveItem(ctx, order.ID, item.ID, 1)) // 4
	preparing := string(models.OrderPreparing)
	_, err = svc.UpdateOrder(ctx, order.ID, 1, OrderUpdate{Status: &preparing})
	require.NoError(t, err) // 5

	// a failed mutation must not add a row
	_, err = svc.AddItem(ctx, order.ID, 1, 99, 1, "")
	require.Error(t, err)

	mods, err := svc.GetModifications(order.ID)
	require.NoError(t, err)
	assert.Len(t, mods, 5)
}

func TestDiscountCarriedNotRederived(t *testing.T) {
	svc, _, _ := newTestOrderService()
	ctx := context.Background()

	order, err := svc.CreateOrder(ctx, CreateOrderRequest{
		Items:    []CreateOrderItem{{MenuID: 1, Quantity: 1}},
		Discount: 5000,
		OwnerID:  1,
	})
	require.NoError(t, err)

	_, err = svc.AddItem(ctx, order.ID, 1, 2, 2, "")
	require.NoError(t, err)

	updated := assertTotals(t, svc, order.ID)
	assert.InDelta(t, 5000, updated.Discount, 1e-9)
}
