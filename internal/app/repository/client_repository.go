package repository

import (
	"strings"

	"github.com/ikkim/clientbook-backend/internal/app/model"
	"github.com/ikkim/clientbook-backend/pkg/logger"
	"gorm.io/gorm"
)

type ClientFilter struct {
	Search string
	Status string
}

type ClientRepository interface {
	WithTx(tx *gorm.DB) ClientRepository
	Create(client *model.Client) error
	FindAll(filter ClientFilter) ([]model.Client, error)
	FindByID(id uint) (*model.Client, error)
	FindByTaxID(taxID string) (*model.Client, error)
	ExistsByTaxID(taxID string) (bool, error)
	Update(client *model.Client) error
	RenameTaxID(oldTaxID, newTaxID string) error
	DeleteCascade(client *model.Client) error
	Count() (int64, error)
	CountWithoutBenefits() (int64, error)
	CountWithoutCommercial() (int64, error)
}

type clientRepository struct {
	db *gorm.DB
}

func NewClientRepository(db *gorm.DB) ClientRepository {
	return &clientRepository{db: db}
}

func (r *clientRepository) WithTx(tx *gorm.DB) ClientRepository {
	return &clientRepository{db: tx}
}

func (r *clientRepository) Create(client *model.Client) error {
	logger.Debug("Creating client in database", map[string]interface{}{
		"tax_id": client.TaxID,
	})

	if err := r.db.Create(client).Error; err != nil {
		logger.Error("Failed to create client in database", err, map[string]interface{}{
			"tax_id": client.TaxID,
		})
		return err
	}

	logger.Debug("Client created in database", map[string]interface{}{
		"client_id": client.ID,
		"tax_id":    client.TaxID,
	})
	return nil
}

func (r *clientRepository) FindAll(filter ClientFilter) ([]model.Client, error) {
	logger.Debug("Finding clients", map[string]interface{}{
		"search": filter.Search,
		"status": filter.Status,
	})

	query := r.db.Model(&model.Client{})
	if s := strings.TrimSpace(filter.Search); s != "" {
		pattern := "%" + strings.ToLower(s) + "%"
		query = query.Where("LOWER(client_name) LIKE ? OR LOWER(tax_id) LIKE ? OR LOWER(contact_person) LIKE ?", pattern, pattern, pattern)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}

	var clients []model.Client
	if err := query.Order("client_name ASC, id ASC").Find(&clients).Error; err != nil {
		logger.Error("Failed to find clients", err)
		return nil, err
	}

	logger.Debug("Clients found", map[string]interface{}{
		"count": len(clients),
	})
	return clients, nil
}

func (r *clientRepository) FindByID(id uint) (*model.Client, error) {
	logger.Debug("Finding client by ID", map[string]interface{}{
		"client_id": id,
	})

	var client model.Client
	if err := r.db.First(&client, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			logger.Debug("Client not found", map[string]interface{}{
				"client_id": id,
			})
		} else {
			logger.Error("Failed to find client by ID", err, map[string]interface{}{
				"client_id": id,
			})
		}
		return nil, err
	}
	return &client, nil
}

func (r *clientRepository) FindByTaxID(taxID string) (*model.Client, error) {
	var client model.Client
	if err := r.db.Where("tax_id = ?", taxID).First(&client).Error; err != nil {
		if err != gorm.ErrRecordNotFound {
			logger.Error("Failed to find client by tax ID", err, map[string]interface{}{
				"tax_id": taxID,
			})
		}
		return nil, err
	}
	return &client, nil
}

func (r *clientRepository) ExistsByTaxID(taxID string) (bool, error) {
	var count int64
	if err := r.db.Model(&model.Client{}).Where("tax_id = ?", taxID).Count(&count).Error; err != nil {
		logger.Error("Failed to check client tax ID", err, map[string]interface{}{
			"tax_id": taxID,
		})
		return false, err
	}
	return count > 0, nil
}

func (r *clientRepository) Update(client *model.Client) error {
	logger.Debug("Updating client in database", map[string]interface{}{
		"client_id": client.ID,
	})

	if err := r.db.Save(client).Error; err != nil {
		logger.Error("Failed to update client in database", err, map[string]interface{}{
			"client_id": client.ID,
		})
		return err
	}
	return nil
}

// RenameTaxID moves child records to a client's new tax ID.
func (r *clientRepository) RenameTaxID(oldTaxID, newTaxID string) error {
	for _, m := range []interface{}{&model.EmployeeBenefit{}, &model.CommercialInsurance{}} {
		if err := r.db.Model(m).Where("tax_id = ?", oldTaxID).Update("tax_id", newTaxID).Error; err != nil {
			logger.Error("Failed to move child records to new tax ID", err, map[string]interface{}{
				"old_tax_id": oldTaxID,
				"new_tax_id": newTaxID,
			})
			return err
		}
	}
	return nil
}

// DeleteCascade removes the client with its benefit and commercial records and their plans.
func (r *clientRepository) DeleteCascade(client *model.Client) error {
	logger.Debug("Deleting client with dependents", map[string]interface{}{
		"client_id": client.ID,
		"tax_id":    client.TaxID,
	})

	benefitIDs := r.db.Model(&model.EmployeeBenefit{}).Select("id").Where("tax_id = ?", client.TaxID)
	commercialIDs := r.db.Model(&model.CommercialInsurance{}).Select("id").Where("tax_id = ?", client.TaxID)

	steps := []struct {
		name string
		run  func() error
	}{
		{"benefit_plans", func() error {
			return r.db.Where("employee_benefit_id IN (?)", benefitIDs).Delete(&model.BenefitPlan{}).Error
		}},
		{"commercial_plans", func() error {
			return r.db.Where("commercial_insurance_id IN (?)", commercialIDs).Delete(&model.CommercialPlan{}).Error
		}},
		{"employee_benefits", func() error {
			return r.db.Where("tax_id = ?", client.TaxID).Delete(&model.EmployeeBenefit{}).Error
		}},
		{"commercial_insurance", func() error {
			return r.db.Where("tax_id = ?", client.TaxID).Delete(&model.CommercialInsurance{}).Error
		}},
		{"clients", func() error {
			return r.db.Delete(&model.Client{}, client.ID).Error
		}},
	}

	for _, step := range steps {
		if err := step.run(); err != nil {
			logger.Error("Failed to delete client dependents", err, map[string]interface{}{
				"client_id": client.ID,
				"table":     step.name,
			})
			return err
		}
	}

	logger.Debug("Client deleted", map[string]interface{}{
		"client_id": client.ID,
	})
	return nil
}

func (r *clientRepository) Count() (int64, error) {
	var count int64
	err := r.db.Model(&model.Client{}).Count(&count).Error
	return count, err
}

func (r *clientRepository) CountWithoutBenefits() (int64, error) {
	var count int64
	err := r.db.Model(&model.Client{}).
		Where("NOT EXISTS (SELECT 1 FROM employee_benefits eb WHERE eb.tax_id = clients.tax_id)").
		Count(&count).Error
	return count, err
}

func (r *clientRepository) CountWithoutCommercial() (int64, error) {
	var count int64
	err := r.db.Model(&model.Client{}).
		Where("NOT EXISTS (SELECT 1 FROM commercial_insurance ci WHERE ci.tax_id = clients.tax_id)").
		Count(&count).Error
	return count, err
}
