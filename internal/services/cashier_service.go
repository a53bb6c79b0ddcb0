package services

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"order_ledger/internal/apperrors"
	"order_ledger/internal/models"
	"order_ledger/internal/repository"
)

type CashierService interface {
	CreateCashier(cashier *models.Cashier, pin string) error
	GetCashierByID(id uint) (*models.Cashier, error)
	GetCashierByUsername(username string) (*models.Cashier, error)
	GetAllCashiers() ([]models.Cashier, error)
	VerifyPin(username, pin string) (*models.Cashier, error)
}

type cashierService struct {
	cashierRepo repository.CashierRepository
}

func NewCashierService(cashierRepo repository.CashierRepository) CashierService {
	return &cashierService{cashierRepo: cashierRepo}
}

func (s *cashierService) CreateCashier(cashier *models.Cashier, pin string) error {
	if len(pin) < 4 {
		return apperrors.New(apperrors.InvalidArgument, "pin must be at least 4 characters")
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(pin), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	cashier.PinHash = string(hashed)
	return s.cashierRepo.Create(cashier)
}

func (s *cashierService) GetCashierByID(id uint) (*models.Cashier, error) {
	cashier, err := s.cashierRepo.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.New(apperrors.NotFound, "cashier %d not found", id)
		}
		return nil, err
	}
	return cashier, nil
}

func (s *cashierService) GetCashierByUsername(username string) (*models.Cashier, error) {
	cashier, err := s.cashierRepo.GetByUsername(username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.New(apperrors.NotFound, "cashier %s not found", username)
		}
		return nil, err
	}
	return cashier, nil
}

func (s *cashierService) GetAllCashiers() ([]models.Cashier, error) {
	return s.cashierRepo.GetAll()
}

func (s *cashierService) VerifyPin(username, pin string) (*models.Cashier, error) {
	cashier, err := s.GetCashierByUsername(username)
	if err != nil {
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(cashier.PinHash), []byte(pin)); err != nil {
		return nil, apperrors.New(apperrors.InvalidArgument, "invalid pin")
	}
	return cashier, nil
}
