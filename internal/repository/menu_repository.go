package repository

import (
	"order_ledger/internal/models"

	"gorm.io/gorm"
)

type MenuRepository interface {
	GetByID(id uint) (*models.MenuItem, error)
	// ListByIDs resolves all referenced menu items in one query; callers check
	// for absent ids themselves.
	ListByIDs(ids []uint) ([]models.MenuItem, error)
	GetAll() ([]models.MenuItem, error)
	Create(item *models.MenuItem) error
}

type menuRepository struct {
	db *gorm.DB
}

func NewMenuRepository(db *gorm.DB) MenuRepository {
	return &menuRepository{db: db}
}

func (r *menuRepository) GetByID(id uint) (*models.MenuItem, error) {
	var item models.MenuItem
	err := r.db.First(&item, id).Error
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *menuRepository) ListByIDs(ids []uint) ([]models.MenuItem, error) {
	var items []models.MenuItem
	if len(ids) == 0 {
		return items, nil
	}
	err := r.db.Where("id IN ?", ids).Find(&items).Error
	return items, err
}

func (r *menuRepository) GetAll() ([]models.MenuItem, error) {
	var items []models.MenuItem
	err := r.db.Find(&items).Error
	return items, err
}

func (r *menuRepository) Create(item *models.MenuItem) error {
	return r.db.Create(item).Error
}
