package database

import (
	"log"
	"os"

	"github.com/SokThavireak/sushi-store/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func Connect() (*gorm.DB, error) {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		dsn = "host=localhost user=postgres password=postgres dbname=sushi_store port=5432 sslmode=disable"
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		return nil, err
	}

	return db, nil
}

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Location{},
		&models.Category{},
		&models.Product{},
		&models.CartItem{},
		&models.Order{},
		&models.OrderItem{},
		&models.StockItem{},
		&models.StockRequest{},
		&models.StockRequestItem{},
		&models.DailyInventoryLog{},
		&models.DailyInventoryItem{},
	)
}

// CreateDefaultAdmin seeds a persisted admin account on first run so the
// system is usable before any environment superuser is configured.
func CreateDefaultAdmin(db *gorm.DB) error {
	adminEmail := os.Getenv("DEFAULT_ADMIN_EMAIL")
	adminPassword := os.Getenv("DEFAULT_ADMIN_PASSWORD")

	if adminEmail == "" {
		adminEmail = "admin@sushi.store"
	}
	if adminPassword == "" {
		adminPassword = "admin123"
	}

	var existingUser models.User
	result := db.Where("email = ?", adminEmail).First(&existingUser)
	if result.Error == nil {
		return nil
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(adminPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	admin := models.User{
		Email:    adminEmail,
		Password: string(hashedPassword),
		Role:     models.RoleAdmin,
		Name:     "Admin User",
	}

	if err := db.Create(&admin).Error; err != nil {
		return err
	}

	log.Printf("Default admin created: %s", adminEmail)
	return nil
}

// CreateDefaultLocation seeds a first store so location-scoped flows have a
// fallback before any locations are configured.
func CreateDefaultLocation(db *gorm.DB) error {
	var count int64
	if err := db.Model(&models.Location{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	loc := models.Location{
		Name:        "Main Branch",
		Address:     "1 Market Street",
		Status:      models.LocationStatusOpen,
		HoursMonFri: "10:00 - 21:00",
		HoursSatSun: "11:00 - 22:00",
	}

	if err := db.Create(&loc).Error; err != nil {
		return err
	}

	log.Printf("Default location created: %s", loc.Name)
	return nil
}
