// Package database opens the PostgreSQL connection and owns the schema.
package database

import (
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/sharath018/business-directory-backend/config"
	"github.com/sharath018/business-directory-backend/internal/auditlog"
	"github.com/sharath018/business-directory-backend/internal/auth"
	"github.com/sharath018/business-directory-backend/internal/billing"
	"github.com/sharath018/business-directory-backend/internal/business"
	"github.com/sharath018/business-directory-backend/internal/catalog"
	"github.com/sharath018/business-directory-backend/internal/notification"
	"github.com/sharath018/business-directory-backend/internal/promotion"
	"github.com/sharath018/business-directory-backend/internal/submission"
)

func DSN(cfg *config.Config) string {
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=UTC",
		cfg.DBHost, cfg.DBUser, cfg.DBPassword, cfg.DBName, cfg.DBPort, cfg.DBSSLMode)
}

// Connect opens the pool. SQL is logged through log at warn level and above,
// plus statements slower than 500ms.
func Connect(cfg *config.Config, log zerolog.Logger) (*gorm.DB, error) {
	gormLog := log.With().Str("component", "gorm").Logger()
	db, err := gorm.Open(postgres.Open(DSN(cfg)), &gorm.Config{
		Logger: logger.New(&gormLog, logger.Config{
			SlowThreshold:             500 * time.Millisecond,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
		}),
		NowFunc: func() time.Time { return time.Now().UTC() },
	})
	if err != nil {
		return nil, fmt.Errorf("connect to postgres %s:%s: %w", cfg.DBHost, cfg.DBPort, err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)
	return db, nil
}

// Models lists every table in migration order.
func Models() []interface{} {
	return []interface{}{
		&auth.UserRole{},
		&auth.User{},
		&catalog.Category{},
		&catalog.Zone{},
		&catalog.BusinessPlan{},
		&catalog.Media{},
		&submission.PendingBusinessSubmission{},
		&business.Business{},
		&promotion.Offer{},
		&promotion.Ad{},
		&billing.PlanPayment{},
		&notification.NotificationLog{},
		&auditlog.AuditLog{},
	}
}

func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(Models()...); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return nil
}
