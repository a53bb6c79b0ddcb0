package repository

import (
	"order_ledger/internal/models"

	"gorm.io/gorm"
)

type CashierRepository interface {
	Create(cashier *models.Cashier) error
	GetByID(id uint) (*models.Cashier, error)
	GetByUsername(username string) (*models.Cashier, error)
	GetAll() ([]models.Cashier, error)
	Update(cashier *models.Cashier) error
}

type cashierRepository struct {
	db *gorm.DB
}

func NewCashierRepository(db *gorm.DB) CashierRepository {
	return &cashierRepository{db: db}
}

func (r *cashierRepository) Create(cashier *models.Cashier) error {
	return r.db.Create(cashier).Error
}

func (r *cashierRepository) GetByID(id uint) (*models.Cashier, error) {
	var cashier models.Cashier
	err := r.db.First(&cashier, id).Error
	if err != nil {
		return nil, err
	}
	return &cashier, nil
}

func (r *cashierRepository) GetByUsername(username string) (*models.Cashier, error) {
	var cashier models.Cashier
	err := r.db.Where("username = ?", username).First(&cashier).Error
	if err != nil {
		return nil, err
	}
	return &cashier, nil
}

func (r *cashierRepository) GetAll() ([]models.Cashier, error) {
	var cashiers []models.Cashier
	err := r.db.Find(&cashiers).Error
	return cashiers, err
}

func (r *cashierRepository) Update(cashier *models.Cashier) error {
	return r.db.Save(cashier).Error
}
