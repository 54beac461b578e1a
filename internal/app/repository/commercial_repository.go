package repository

import (
	"github.com/ikkim/clientbook-backend/internal/app/model"
	"github.com/ikkim/clientbook-backend/pkg/logger"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CommercialFilter struct {
	TaxID  string
	Status string
}

type CommercialRepository interface {
	WithTx(tx *gorm.DB) CommercialRepository
	Create(record *model.CommercialInsurance) error
	FindAll(filter CommercialFilter) ([]model.CommercialInsurance, error)
	FindByID(id uint) (*model.CommercialInsurance, error)
	FindFirstByTaxID(taxID string) (*model.CommercialInsurance, error)
	Update(record *model.CommercialInsurance) error
	ReplacePlans(record *model.CommercialInsurance) error
	Delete(id uint) error
	Count() (int64, error)
}

type commercialRepository struct {
	db *gorm.DB
}

func NewCommercialRepository(db *gorm.DB) CommercialRepository {
	return &commercialRepository{db: db}
}

func (r *commercialRepository) WithTx(tx *gorm.DB) CommercialRepository {
	return &commercialRepository{db: tx}
}

func (r *commercialRepository) baseQuery() *gorm.DB {
	return r.db.Model(&model.CommercialInsurance{}).
		Preload("Client").
		Preload("Plans", func(db *gorm.DB) *gorm.DB {
			return db.Order("plan_type ASC, plan_number ASC")
		})
}

func (r *commercialRepository) Create(record *model.CommercialInsurance) error {
	logger.Debug("Creating commercial record in database", map[string]interface{}{
		"tax_id":     record.TaxID,
		"plan_count": len(record.Plans),
	})

	if err := r.db.Omit(clause.Associations).Create(record).Error; err != nil {
		logger.Error("Failed to create commercial record in database", err, map[string]interface{}{
			"tax_id": record.TaxID,
		})
		return err
	}

	if err := r.insertPlans(record); err != nil {
		return err
	}

	logger.Debug("Commercial record created in database", map[string]interface{}{
		"commercial_id": record.ID,
		"tax_id":        record.TaxID,
	})
	return nil
}

func (r *commercialRepository) FindAll(filter CommercialFilter) ([]model.CommercialInsurance, error) {
	logger.Debug("Finding commercial records", map[string]interface{}{
		"tax_id": filter.TaxID,
		"status": filter.Status,
	})

	query := r.baseQuery()
	if filter.TaxID != "" {
		query = query.Where("tax_id = ?", filter.TaxID)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}

	var records []model.CommercialInsurance
	if err := query.Order("id ASC").Find(&records).Error; err != nil {
		logger.Error("Failed to find commercial records", err)
		return nil, err
	}
	return records, nil
}

func (r *commercialRepository) FindByID(id uint) (*model.CommercialInsurance, error) {
	var record model.CommercialInsurance
	if err := r.baseQuery().First(&record, id).Error; err != nil {
		if err != gorm.ErrRecordNotFound {
			logger.Error("Failed to find commercial record by ID", err, map[string]interface{}{
				"commercial_id": id,
			})
		}
		return nil, err
	}
	return &record, nil
}

func (r *commercialRepository) FindFirstByTaxID(taxID string) (*model.CommercialInsurance, error) {
	var record model.CommercialInsurance
	if err := r.baseQuery().Where("tax_id = ?", taxID).Order("id ASC").First(&record).Error; err != nil {
		if err != gorm.ErrRecordNotFound {
			logger.Error("Failed to find commercial record by tax ID", err, map[string]interface{}{
				"tax_id": taxID,
			})
		}
		return nil, err
	}
	return &record, nil
}

func (r *commercialRepository) Update(record *model.CommercialInsurance) error {
	logger.Debug("Updating commercial record in database", map[string]interface{}{
		"commercial_id": record.ID,
	})

	if err := r.db.Omit(clause.Associations).Save(record).Error; err != nil {
		logger.Error("Failed to update commercial record in database", err, map[string]interface{}{
			"commercial_id": record.ID,
		})
		return err
	}
	return nil
}

func (r *commercialRepository) ReplacePlans(record *model.CommercialInsurance) error {
	if err := r.db.Where("commercial_insurance_id = ?", record.ID).Delete(&model.CommercialPlan{}).Error; err != nil {
		logger.Error("Failed to delete commercial plans", err, map[string]interface{}{
			"commercial_id": record.ID,
		})
		return err
	}
	return r.insertPlans(record)
}

func (r *commercialRepository) insertPlans(record *model.CommercialInsurance) error {
	if len(record.Plans) == 0 {
		return nil
	}
	for i := range record.Plans {
		record.Plans[i].ID = 0
		record.Plans[i].CommercialInsuranceID = record.ID
	}
	if err := r.db.Create(&record.Plans).Error; err != nil {
		logger.Error("Failed to insert commercial plans", err, map[string]interface{}{
			"commercial_id": record.ID,
			"plan_count":    len(record.Plans),
		})
		return err
	}
	return nil
}

func (r *commercialRepository) Delete(id uint) error {
	logger.Debug("Deleting commercial record", map[string]interface{}{
		"commercial_id": id,
	})

	if err := r.db.Where("commercial_insurance_id = ?", id).Delete(&model.CommercialPlan{}).Error; err != nil {
		logger.Error("Failed to delete commercial plans", err, map[string]interface{}{
			"commercial_id": id,
		})
		return err
	}
	if err := r.db.Delete(&model.CommercialInsurance{}, id).Error; err != nil {
		logger.Error("Failed to delete commercial record", err, map[string]interface{}{
			"commercial_id": id,
		})
		return err
	}
	return nil
}

func (r *commercialRepository) Count() (int64, error) {
	var count int64
	err := r.db.Model(&model.CommercialInsurance{}).Count(&count).Error
	return count, err
}
