package repository

import (
	"order_ledger/internal/models"

	"gorm.io/gorm"
)

type ShiftRepository interface {
	Create(shift *models.Shift) error
	GetByID(id uint) (*models.Shift, error)
	// FindOpen returns the cashier's OPEN shift, or gorm.ErrRecordNotFound.
	FindOpen(cashierID uint) (*models.Shift, error)
	// CloseShift sums the shift's completed cash sales and saves the shift,
	// both inside one transaction so the sum is a consistent snapshot. The
	// compute callback receives the sum and fills in the closing fields.
	CloseShift(shift *models.Shift, compute func(cashTotal float64)) error
	Summary(shiftID uint) (*models.ShiftSummary, error)
}

type shiftRepository struct {
	db *gorm.DB
}

func NewShiftRepository(db *gorm.DB) ShiftRepository {
	return &shiftRepository{db: db}
}

func (r *shiftRepository) Create(shift *models.Shift) error {
	return r.db.Create(shift).Error
}

func (r *shiftRepository) GetByID(id uint) (*models.Shift, error) {
	var shift models.Shift
	err := r.db.First(&shift, id).Error
	if err != nil {
		return nil, err
	}
	return &shift, nil
}

func (r *shiftRepository) FindOpen(cashierID uint) (*models.Shift, error) {
	var shift models.Shift
	err := r.db.Where("cashier_id = ? AND status = ?", cashierID, string(models.ShiftOpen)).First(&shift).Error
	if err != nil {
		return nil, err
	}
	return &shift, nil
}

func (r *shiftRepository) CloseShift(shift *models.Shift, compute func(cashTotal float64)) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var cashTotal float64
		err := tx.Model(&models.Order{}).
			Where("shift_id = ? AND status = ? AND payment_method = ?",
				shift.ID, string(models.OrderCompleted), string(models.PaymentCash)).
			Select("COALESCE(SUM(total), 0)").
			Scan(&cashTotal).Error
		if err != nil {
			return err
		}
		compute(cashTotal)
		return tx.Save(shift).Error
	})
}

func (r *shiftRepository) Summary(shiftID uint) (*models.ShiftSummary, error) {
	type row struct {
		PaymentMethod string
		Count         int
		Sum           float64
	}
	var rows []row
	err := r.db.Model(&models.Order{}).
		Where("shift_id = ? AND status = ?", shiftID, string(models.OrderCompleted)).
		Select("payment_method, COUNT(*) as count, COALESCE(SUM(total), 0) as sum").
		Group("payment_method").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	summary := &models.ShiftSummary{ShiftID: shiftID, ByPayment: make(map[string]float64)}
	for _, r := range rows {
		summary.OrderCount += r.Count
		summary.TotalSales += r.Sum
		summary.ByPayment[r.PaymentMethod] = r.Sum
	}
	return summary, nil
}
