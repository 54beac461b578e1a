package repository

import (
	"strings"

	"github.com/ikkim/clientbook-backend/internal/app/model"
	"github.com/ikkim/clientbook-backend/pkg/logger"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type BenefitFilter struct {
	TaxID  string
	POC    string
	Status string
}

// PocCount is one row of the enrollment POC workload summary.
type PocCount struct {
	POC   string `json:"poc"`
	Count int64  `json:"count"`
}

type BenefitRepository interface {
	WithTx(tx *gorm.DB) BenefitRepository
	Create(benefit *model.EmployeeBenefit) error
	FindAll(filter BenefitFilter) ([]model.EmployeeBenefit, error)
	FindByID(id uint) (*model.EmployeeBenefit, error)
	FindFirstByTaxID(taxID string) (*model.EmployeeBenefit, error)
	Update(benefit *model.EmployeeBenefit) error
	ReplacePlans(benefit *model.EmployeeBenefit) error
	Delete(id uint) error
	Count() (int64, error)
	PocSummary() ([]PocCount, error)
	CountWithoutPoc() (int64, error)
	ReassignPoc(fromPOC string, toPOC *string) (int64, error)
	ReassignPocByIDs(ids []uint, toPOC *string) (int64, error)
}

type benefitRepository struct {
	db *gorm.DB
}

func NewBenefitRepository(db *gorm.DB) BenefitRepository {
	return &benefitRepository{db: db}
}

func (r *benefitRepository) WithTx(tx *gorm.DB) BenefitRepository {
	return &benefitRepository{db: tx}
}

func (r *benefitRepository) baseQuery() *gorm.DB {
	return r.db.Model(&model.EmployeeBenefit{}).
		Preload("Client").
		Preload("Plans", func(db *gorm.DB) *gorm.DB {
			return db.Order("plan_type ASC, plan_number ASC")
		})
}

// Create inserts the record and then its plans.
func (r *benefitRepository) Create(benefit *model.EmployeeBenefit) error {
	logger.Debug("Creating benefit record in database", map[string]interface{}{
		"tax_id":     benefit.TaxID,
		"plan_count": len(benefit.Plans),
	})

	if err := r.db.Omit(clause.Associations).Create(benefit).Error; err != nil {
		logger.Error("Failed to create benefit record in database", err, map[string]interface{}{
			"tax_id": benefit.TaxID,
		})
		return err
	}

	if err := r.insertPlans(benefit); err != nil {
		return err
	}

	logger.Debug("Benefit record created in database", map[string]interface{}{
		"benefit_id": benefit.ID,
		"tax_id":     benefit.TaxID,
	})
	return nil
}

func (r *benefitRepository) FindAll(filter BenefitFilter) ([]model.EmployeeBenefit, error) {
	logger.Debug("Finding benefit records", map[string]interface{}{
		"tax_id": filter.TaxID,
		"poc":    filter.POC,
		"status": filter.Status,
	})

	query := r.baseQuery()
	if filter.TaxID != "" {
		query = query.Where("tax_id = ?", filter.TaxID)
	}
	if filter.POC != "" {
		query = query.Where("enrollment_poc = ?", filter.POC)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}

	var benefits []model.EmployeeBenefit
	if err := query.Order("id ASC").Find(&benefits).Error; err != nil {
		logger.Error("Failed to find benefit records", err)
		return nil, err
	}
	return benefits, nil
}

func (r *benefitRepository) FindByID(id uint) (*model.EmployeeBenefit, error) {
	var benefit model.EmployeeBenefit
	if err := r.baseQuery().First(&benefit, id).Error; err != nil {
		if err != gorm.ErrRecordNotFound {
			logger.Error("Failed to find benefit record by ID", err, map[string]interface{}{
				"benefit_id": id,
			})
		}
		return nil, err
	}
	return &benefit, nil
}

// FindFirstByTaxID returns the oldest record for the client; legacy data may hold several.
func (r *benefitRepository) FindFirstByTaxID(taxID string) (*model.EmployeeBenefit, error) {
	var benefit model.EmployeeBenefit
	if err := r.baseQuery().Where("tax_id = ?", taxID).Order("id ASC").First(&benefit).Error; err != nil {
		if err != gorm.ErrRecordNotFound {
			logger.Error("Failed to find benefit record by tax ID", err, map[string]interface{}{
				"tax_id": taxID,
			})
		}
		return nil, err
	}
	return &benefit, nil
}

// Update saves every scalar column. Plans are written by ReplacePlans.
func (r *benefitRepository) Update(benefit *model.EmployeeBenefit) error {
	logger.Debug("Updating benefit record in database", map[string]interface{}{
		"benefit_id": benefit.ID,
	})

	if err := r.db.Omit(clause.Associations).Save(benefit).Error; err != nil {
		logger.Error("Failed to update benefit record in database", err, map[string]interface{}{
			"benefit_id": benefit.ID,
		})
		return err
	}
	return nil
}

// ReplacePlans deletes every stored plan of the record and inserts benefit.Plans.
func (r *benefitRepository) ReplacePlans(benefit *model.EmployeeBenefit) error {
	if err := r.db.Where("employee_benefit_id = ?", benefit.ID).Delete(&model.BenefitPlan{}).Error; err != nil {
		logger.Error("Failed to delete benefit plans", err, map[string]interface{}{
			"benefit_id": benefit.ID,
		})
		return err
	}
	return r.insertPlans(benefit)
}

func (r *benefitRepository) insertPlans(benefit *model.EmployeeBenefit) error {
	if len(benefit.Plans) == 0 {
		return nil
	}
	for i := range benefit.Plans {
		benefit.Plans[i].ID = 0
		benefit.Plans[i].EmployeeBenefitID = benefit.ID
	}
	if err := r.db.Create(&benefit.Plans).Error; err != nil {
		logger.Error("Failed to insert benefit plans", err, map[string]interface{}{
			"benefit_id": benefit.ID,
			"plan_count": len(benefit.Plans),
		})
		return err
	}
	return nil
}

func (r *benefitRepository) Delete(id uint) error {
	logger.Debug("Deleting benefit record", map[string]interface{}{
		"benefit_id": id,
	})

	if err := r.db.Where("employee_benefit_id = ?", id).Delete(&model.BenefitPlan{}).Error; err != nil {
		logger.Error("Failed to delete benefit plans", err, map[string]interface{}{
			"benefit_id": id,
		})
		return err
	}
	if err := r.db.Delete(&model.EmployeeBenefit{}, id).Error; err != nil {
		logger.Error("Failed to delete benefit record", err, map[string]interface{}{
			"benefit_id": id,
		})
		return err
	}
	return nil
}

func (r *benefitRepository) Count() (int64, error) {
	var count int64
	err := r.db.Model(&model.EmployeeBenefit{}).Count(&count).Error
	return count, err
}

func (r *benefitRepository) PocSummary() ([]PocCount, error) {
	var rows []PocCount
	err := r.db.Model(&model.EmployeeBenefit{}).
		Select("enrollment_poc AS poc, COUNT(*) AS count").
		Where("enrollment_poc IS NOT NULL AND enrollment_poc <> ''").
		Group("enrollment_poc").
		Order("count DESC, poc ASC").
		Scan(&rows).Error
	if err != nil {
		logger.Error("Failed to summarize enrollment POCs", err)
		return nil, err
	}
	return rows, nil
}

func (r *benefitRepository) CountWithoutPoc() (int64, error) {
	var count int64
	err := r.db.Model(&model.EmployeeBenefit{}).
		Where("enrollment_poc IS NULL OR enrollment_poc = ''").
		Count(&count).Error
	return count, err
}

func (r *benefitRepository) ReassignPoc(fromPOC string, toPOC *string) (int64, error) {
	result := r.db.Model(&model.EmployeeBenefit{}).
		Where("enrollment_poc = ?", strings.TrimSpace(fromPOC)).
		Update("enrollment_poc", toPOC)
	if result.Error != nil {
		logger.Error("Failed to reassign enrollment POC", result.Error, map[string]interface{}{
			"from_poc": fromPOC,
		})
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

func (r *benefitRepository) ReassignPocByIDs(ids []uint, toPOC *string) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	result := r.db.Model(&model.EmployeeBenefit{}).
		Where("id IN ?", ids).
		Update("enrollment_poc", toPOC)
	if result.Error != nil {
		logger.Error("Failed to reassign enrollment POC by IDs", result.Error, map[string]interface{}{
			"record_count": len(ids),
		})
		return 0, result.Error
	}
	return result.RowsAffected, nil
}
