package storage

import (
	"complaintdesk/backend/internal/config"
	"complaintdesk/backend/internal/models"
	"context"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// OpenDatabase connects to the database selected by cfg.DBDriver.
func OpenDatabase(cfg *config.Config) (*gorm.DB, error) {
	var dialector gorm.Dialector

	switch cfg.DBDriver {
	case "mysql":
		dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
			cfg.DBUser, cfg.DBPassword, cfg.DBHost, cfg.DBPort, cfg.DBName)
		dialector = mysql.Open(dsn)
	case "postgres", "postgresql":
		dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
			cfg.DBHost, cfg.DBPort, cfg.DBUser, cfg.DBPassword, cfg.DBName)
		dialector = postgres.Open(dsn)
	case "sqlite":
		dialector = sqlite.Open(cfg.DBPath + "?_foreign_keys=on")
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.DBDriver)
	}

	level := logger.Warn
	if cfg.Debug {
		level = logger.Info
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:         logger.Default.LogMode(level),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s: %w", cfg.DBDriver, err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	if cfg.DBDriver == "sqlite" {
		sqlDB.SetMaxOpenConns(1)
	} else {
		sqlDB.SetMaxIdleConns(10)
		sqlDB.SetMaxOpenConns(100)
		sqlDB.SetConnMaxLifetime(time.Hour)
	}

	return db, nil
}

// OpenRedis connects to Redis and verifies the connection.
func OpenRedis(ctx context.Context, cfg *config.Config) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", cfg.RedisAddr, err)
	}
	return rdb, nil
}

// Migrate creates or updates every table the application uses.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.AccessToken{},
		&models.ComplaintCategory{},
		&models.ComplaintType{},
		&models.Destination{},
		&models.Complaint{},
		&models.Attachment{},
	)
}

var (
	seedComplaintTypes = []string{"Technical Issue", "Service Complaint", "Billing Error", "Product Defect", "Suggestion", "General Inquiry"}
	seedCategories     = []string{"Technical Issue", "Service Complaint", "Billing Error", "Product Defect", "Suggestion", "General Inquiry"}
	seedDestinations   = []string{"Customer Service", "Technical Support", "Management", "Sales Department", "Billing Department", "Returns Department"}
)

// Seed inserts the reference rows served by the configs endpoint. Rows are
// matched by name, so running it twice adds nothing.
func Seed(ctx context.Context, db *gorm.DB) (int, error) {
	created := 0
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		n, err := seedNames(tx, seedComplaintTypes, func(name string) *models.ComplaintType {
			return &models.ComplaintType{Name: name}
		})
		if err != nil {
			return err
		}
		created += n

		n, err = seedNames(tx, seedCategories, func(name string) *models.ComplaintCategory {
			return &models.ComplaintCategory{Name: name}
		})
		if err != nil {
			return err
		}
		created += n

		n, err = seedNames(tx, seedDestinations, func(name string) *models.Destination {
			return &models.Destination{Name: name}
		})
		created += n
		return err
	})
	if err != nil {
		log.Printf("ERROR: Failed to seed reference data: %v", err)
		return 0, err
	}
	return created, nil
}

func seedNames[T any](tx *gorm.DB, names []string, build func(name string) *T) (int, error) {
	created := 0
	for _, name := range names {
		var count int64
		if err := tx.Model(new(T)).Where("name = ?", name).Count(&count).Error; err != nil {
			return created, err
		}
		if count > 0 {
			continue
		}
		if err := tx.Create(build(name)).Error; err != nil {
			return created, err
		}
		created++
	}
	return created, nil
}
