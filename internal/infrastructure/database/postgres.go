package database

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/sangkips/posdelivery-api/internal/config"
	"github.com/sangkips/posdelivery-api/internal/domain/entity"
	"github.com/sangkips/posdelivery-api/pkg/utils"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewPostgresDB creates a new PostgreSQL database connection. SQL is logged
// through zerolog: every statement in debug mode, warnings and slow queries otherwise.
func NewPostgresDB(cfg *config.DatabaseConfig, debug bool, log zerolog.Logger) (*gorm.DB, error) {
	logLevel := logger.Warn
	if debug {
		logLevel = logger.Info
	}
	gormLog := log.With().Str("component", "gorm").Logger()

	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN:                  cfg.DSN(),
		PreferSimpleProtocol: true, // disables implicit prepared statement usage
	}), &gorm.Config{
		Logger: logger.New(&gormLog, logger.Config{
			SlowThreshold:             500 * time.Millisecond,
			LogLevel:                  logLevel,
			IgnoreRecordNotFoundError: true,
		}),
		NowFunc: func() time.Time { return time.Now().UTC() },
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(time.Hour)

	log.Info().Str("host", cfg.Host).Str("database", cfg.Name).Msg("connected to PostgreSQL")
	return db, nil
}

// AutoMigrate runs GORM auto-migration for all entities
func AutoMigrate(db *gorm.DB, log zerolog.Logger) error {
	log.Info().Msg("running database migrations")

	err := db.AutoMigrate(
		&entity.User{},

		&entity.Product{},
		&entity.Customer{},

		&entity.Transaction{},
		&entity.TransactionItem{},
		&entity.DeliveryBatch{},
		&entity.DeliveryBatchItem{},
		&entity.Refund{},
		&entity.Invoice{},

		&entity.BusinessSettings{},
		&entity.IdempotencyKey{},
	)
	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	log.Info().Msg("database migrations completed")
	return nil
}

// SeedDefaultData creates the settings row and, when configured, the first admin account.
func SeedDefaultData(db *gorm.DB, admin config.AdminConfig, log zerolog.Logger) error {
	var settings entity.BusinessSettings
	err := db.First(&settings, "id = ?", entity.BusinessSettingsID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		if err := db.Create(entity.DefaultBusinessSettings()).Error; err != nil {
			return fmt.Errorf("create default settings: %w", err)
		}
		log.Info().Msg("default business settings created")
	} else if err != nil {
		return fmt.Errorf("load settings: %w", err)
	}

	if admin.Email == "" || admin.Password == "" {
		return nil
	}

	email := strings.ToLower(strings.TrimSpace(admin.Email))
	var existing entity.User
	err = db.Where("email = ?", email).First(&existing).Error
	if err == nil {
		log.Debug().Str("email", email).Msg("admin user already exists")
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("look up admin user: %w", err)
	}

	hashed, err := utils.HashPassword(admin.Password)
	if err != nil {
		return fmt.Errorf("hash admin password: %w", err)
	}
	name := admin.Name
	if name == "" {
		name = "Administrator"
	}

	user := entity.User{
		Name:     name,
		Email:    email,
		Password: hashed,
		Role:     "admin",
		IsActive: true,
	}
	if err := db.Create(&user).Error; err != nil {
		return fmt.Errorf("create admin user: %w", err)
	}

	log.Info().Str("email", email).Msg("admin user created")
	return nil
}
