package repository

import (
	"order_ledger/internal/models"

	"gorm.io/gorm"
)

// OrderRepository persists orders, their items and their audit trail. Every
// mutating method writes the mutation, the recomputed totals and exactly one
// audit row in a single transaction.
type OrderRepository interface {
	CreateWithItems(order *models.Order, mod *models.OrderModification) error
	GetByID(id uint) (*models.Order, error)
	GetByShiftID(shiftID uint) ([]models.Order, error)
	GetByStatus(status string) ([]models.Order, error)
	GetAll() ([]models.Order, error)
	SaveWithAudit(order *models.Order, mod *models.OrderModification) error
	SaveItemWithAudit(order *models.Order, item *models.OrderItem, mod *models.OrderModification) error
	DeleteItemWithAudit(order *models.Order, itemID uint, mod *models.OrderModification) error
	GetItem(orderID, itemID uint) (*models.OrderItem, error)
	GetModifications(orderID uint) ([]models.OrderModification, error)
}

type orderRepository struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) OrderRepository {
	return &orderRepository{db: db}
}

func (r *orderRepository) CreateWithItems(order *models.Order, mod *models.OrderModification) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(order).Error; err != nil {
			return err
		}
		mod.OrderID = order.ID
		return tx.Create(mod).Error
	})
}

func (r *orderRepository) GetByID(id uint) (*models.Order, error) {
	var order models.Order
	err := r.db.Preload("Items").First(&order, id).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *orderRepository) GetByShiftID(shiftID uint) ([]models.Order, error) {
	var orders []models.Order
	err := r.db.Preload("Items").Where("shift_id = ?", shiftID).Find(&orders).Error
	return orders, err
}

func (r *orderRepository) GetByStatus(status string) ([]models.Order, error) {
	var orders []models.Order
	err := r.db.Preload("Items").Where("status = ?", status).Find(&orders).Error
	return orders, err
}

func (r *orderRepository) GetAll() ([]models.Order, error) {
	var orders []models.Order
	err := r.db.Preload("Items").Find(&orders).Error
	return orders, err
}

func (r *orderRepository) SaveWithAudit(order *models.Order, mod *models.OrderModification) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Items").Save(order).Error; err != nil {
			return err
		}
		return tx.Create(mod).Error
	})
}

func (r *orderRepository) SaveItemWithAudit(order *models.Order, item *models.OrderItem, mod *models.OrderModification) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(item).Error; err != nil {
			return err
		}
		if err := tx.Omit("Items").Save(order).Error; err != nil {
			return err
		}
		return tx.Create(mod).Error
	})
}

func (r *orderRepository) DeleteItemWithAudit(order *models.Order, itemID uint, mod *models.OrderModification) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&models.OrderItem{}, itemID).Error; err != nil {
			return err
		}
		if err := tx.Omit("Items").Save(order).Error; err != nil {
			return err
		}
		return tx.Create(mod).Error
	})
}

func (r *orderRepository) GetItem(orderID, itemID uint) (*models.OrderItem, error) {
	var item models.OrderItem
	err := r.db.Where("order_id = ?", orderID).First(&item, itemID).Error
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *orderRepository) GetModifications(orderID uint) ([]models.OrderModification, error) {
	var mods []models.OrderModification
	err := r.db.Where("order_id = ?", orderID).Order("created_at asc, id asc").Find(&mods).Error
	return mods, err
}
