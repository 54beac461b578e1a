package db

import (
	"gorm.io/gorm"

	"github.com/ikkim/clientbook-backend/internal/app/model"
	"github.com/ikkim/clientbook-backend/pkg/logger"
)

// Models lists every table in dependency order (parents first).
func Models() []interface{} {
	return []interface{}{
		&model.Client{},
		&model.EmployeeBenefit{},
		&model.BenefitPlan{},
		&model.CommercialInsurance{},
		&model.CommercialPlan{},
		&model.Feedback{},
	}
}

// Migrate creates missing tables, columns and indexes. It is safe to run on every start.
func Migrate() error {
	return MigrateDB(DB)
}

func MigrateDB(conn *gorm.DB) error {
	logger.Info("Running database migrations...")

	models := Models()
	if err := conn.AutoMigrate(models...); err != nil {
		logger.Error("Failed to run migrations", err)
		return err
	}

	logger.Info("Database migrations completed successfully", map[string]interface{}{
		"models_count": len(models),
	})
	return nil
}
