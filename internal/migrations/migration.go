package migrations

import (
	"log"
	"order_ledger/internal/models"
	"order_ledger/internal/repository"
	"order_ledger/internal/services"

	"gorm.io/gorm"
)

// RunMigrations creates the schema and seeds the data a fresh install needs:
// a default cashier, the tax rate setting and a starter menu.
func RunMigrations(db *gorm.DB) error {
	log.Println("Running database migrations...")

	err := db.AutoMigrate(
		&models.Cashier{},
		&models.MenuItem{},
		&models.PosSetting{},
		&models.Shift{},
		&models.Order{},
		&models.OrderItem{},
		&models.OrderModification{},
	)
	if err != nil {
		return err
	}

	if err := createDefaultData(db); err != nil {
		log.Printf("Warning: Failed to create default data: %v", err)
	}

	log.Println("Database migrations completed successfully!")
	return nil
}

func createDefaultData(db *gorm.DB) error {
	log.Println("Creating default data...")

	cashierRepo := repository.NewCashierRepository(db)
	cashierService := services.NewCashierService(cashierRepo)
	settingRepo := repository.NewSettingRepository(db)
	menuRepo := repository.NewMenuRepository(db)

	if existing, err := cashierService.GetCashierByUsername("admin"); err == nil && existing != nil {
		log.Println("Default cashier already exists")
		return nil
	}

	log.Println("Creating default cashier...")
	admin := &models.Cashier{
		Username: "admin",
		FullName: "Administrator",
		Role:     string(models.RoleAdmin),
		IsActive: true,
	}
	if err := cashierService.CreateCashier(admin, "123456"); err != nil {
		log.Printf("Warning: Failed to create default cashier: %v", err)
	} else {
		log.Println("Default cashier created (username: admin)")
	}

	log.Println("Creating default settings...")
	taxSetting := &models.PosSetting{
		SettingName:     models.SettingTaxRate,
		PercentageValue: 10.0,
		IsActive:        true,
	}
	settingRepo.CreateSetting(taxSetting)

	log.Println("Creating starter menu...")
	starters := []models.MenuItem{
		{Name: "Nasi Goreng", Category: "Main", Price: 25000, IsAvailable: true},
		{Name: "Mie Goreng", Category: "Main", Price: 22000, IsAvailable: true},
		{Name: "Ayam Bakar", Category: "Main", Price: 30000, IsAvailable: true},
		{Name: "Es Teh", Category: "Drinks", Price: 5000, IsAvailable: true},
		{Name: "Es Jeruk", Category: "Drinks", Price: 7000, IsAvailable: true},
	}
	for i := range starters {
		menuRepo.Create(&starters[i])
	}

	log.Println("Default data created successfully!")
	return nil
}
