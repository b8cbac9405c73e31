package migrations

import (
	"log"

	"marketplace_platform/internal/models"
	"marketplace_platform/internal/repository"
	"marketplace_platform/internal/services"

	"gorm.io/gorm"
)

// RunMigrations creates/updates the schema and seeds default data.
func RunMigrations(db *gorm.DB) error {
	log.Println("Running database migrations...")

	err := db.AutoMigrate(
		&models.User{},
		&models.Vendor{},
		&models.Product{},
		&models.Order{},
		&models.OrderLine{},
		&models.Commission{},
		&models.Payout{},
		&models.AuditLog{},
	)
	if err != nil {
		return err
	}

	// Idempotency guard for commission generation: at most one
	// generation-created record per order line. Settlement-split children
	// (parent_id set) are exempt. AutoMigrate cannot express a partial
	// index, so it is created directly.
	err = db.Exec(`
		CREATE UNIQUE INDEX IF NOT EXISTS idx_commissions_order_line_root
		ON commissions (order_line_id)
		WHERE parent_id IS NULL AND deleted_at IS NULL
	`).Error
	if err != nil {
		return err
	}

	if err := createDefaultData(db); err != nil {
		log.Printf("Warning: Failed to create default data: %v", err)
	}

	log.Println("Database migrations completed successfully!")
	return nil
}

// createDefaultData seeds the admin account.
func createDefaultData(db *gorm.DB) error {
	userRepo := repository.NewUserRepository(db)
	userService := services.NewUserService(userRepo)

	existingUser, err := userService.GetUserByUsername("admin")
	if err == nil && existingUser != nil {
		log.Println("Admin user already exists")
		return nil
	}

	log.Println("Creating admin user...")
	admin := &models.User{
		Username: "admin",
		Email:    "admin@marketplace.local",
		IsAdmin:  true,
		IsActive: true,
	}
	if err := userService.CreateUser(admin, "admin123"); err != nil {
		return err
	}
	log.Println("Admin user created (username: admin)")
	return nil
}
