package repository

import (
	"order_ledger/internal/models"

	"gorm.io/gorm"
)

type SettingRepository interface {
	CreateSetting(setting *models.PosSetting) error
	GetSetting(settingName string) (*models.PosSetting, error)
	UpdateSetting(setting *models.PosSetting) error
}

type settingRepository struct {
	db *gorm.DB
}

func NewSettingRepository(db *gorm.DB) SettingRepository {
	return &settingRepository{db: db}
}

func (r *settingRepository) CreateSetting(setting *models.PosSetting) error {
	return r.db.Create(setting).Error
}

func (r *settingRepository) GetSetting(settingName string) (*models.PosSetting, error) {
	var setting models.PosSetting
	err := r.db.Where("setting_name = ? AND is_active = ?", settingName, true).First(&setting).Error
	if err != nil {
		return nil, err
	}
	return &setting, nil
}

func (r *settingRepository) UpdateSetting(setting *models.PosSetting) error {
	return r.db.Save(setting).Error
}
