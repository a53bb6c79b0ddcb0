package services

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"order_ledger/internal/apperrors"
	"order_ledger/internal/models"
	"order_ledger/internal/repository"
)

// ShiftService owns the cash drawer lifecycle: one OPEN shift per cashier,
// closed exactly once, with the drawer count reconciled against recorded
// cash sales.
type ShiftService interface {
	Open(cashierID uint, startingCash float64) (*models.Shift, error)
	Close(shiftID uint, endingCash float64, notes string) (*models.Shift, error)
	FindOpenShift(cashierID uint) (*models.Shift, error)
	GetShift(id uint) (*models.Shift, error)
	Summary(shiftID uint) (*models.ShiftSummary, error)
}

type shiftService struct {
	shiftRepo   repository.ShiftRepository
	cashierRepo repository.CashierRepository
}

func NewShiftService(shiftRepo repository.ShiftRepository, cashierRepo repository.CashierRepository) ShiftService {
	return &shiftService{shiftRepo: shiftRepo, cashierRepo: cashierRepo}
}

func (s *shiftService) Open(cashierID uint, startingCash float64) (*models.Shift, error) {
	if startingCash < 0 {
		return nil, apperrors.New(apperrors.InvalidArgument, "starting cash must not be negative")
	}
	if _, err := s.cashierRepo.GetByID(cashierID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.New(apperrors.NotFound, "cashier %d not found", cashierID)
		}
		return nil, err
	}

	if open, err := s.shiftRepo.FindOpen(cashierID); err == nil {
		return nil, apperrors.New(apperrors.Conflict, "cashier %d already has an open shift (%d)", cashierID, open.ID)
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	shift := &models.Shift{
		CashierID:    cashierID,
		Status:       string(models.ShiftOpen),
		StartingCash: startingCash,
		OpenedAt:     time.Now(),
	}
	if err := s.shiftRepo.Create(shift); err != nil {
		return nil, err
	}
	return shift, nil
}

func (s *shiftService) Close(shiftID uint, endingCash float64, notes string) (*models.Shift, error) {
	if endingCash < 0 {
		return nil, apperrors.New(apperrors.InvalidArgument, "ending cash must not be negative")
	}

	shift, err := s.GetShift(shiftID)
	if err != nil {
		return nil, err
	}
	if shift.Status == string(models.ShiftClosed) {
		return nil, apperrors.New(apperrors.InvalidState, "shift %d is already closed", shiftID)
	}

	// The cash sum and the shift update run in one transaction so a
	// mid-mutation order total cannot leak into the expected-cash figure.
	err = s.shiftRepo.CloseShift(shift, func(cashTotal float64) {
		now := time.Now()
		expected := shift.StartingCash + cashTotal
		discrepancy := endingCash - expected

		shift.Status = string(models.ShiftClosed)
		shift.EndingCash = &endingCash
		shift.ExpectedCash = &expected
		shift.Discrepancy = &discrepancy
		shift.ClosedAt = &now
		if notes != "" {
			shift.Notes = notes
		}
	})
	if err != nil {
		return nil, err
	}
	return shift, nil
}

func (s *shiftService) FindOpenShift(cashierID uint) (*models.Shift, error) {
	shift, err := s.shiftRepo.FindOpen(cashierID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.New(apperrors.NotFound, "cashier %d has no open shift", cashierID)
		}
		return nil, err
	}
	return shift, nil
}

func (s *shiftService) GetShift(id uint) (*models.Shift, error) {
	shift, err := s.shiftRepo.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.New(apperrors.NotFound, "shift %d not found", id)
		}
		return nil, err
	}
	return shift, nil
}

func (s *shiftService) Summary(shiftID uint) (*models.ShiftSummary, error) {
	if _, err := s.GetShift(shiftID); err != nil {
		return nil, err
	}
	return s.shiftRepo.Summary(shiftID)
}
