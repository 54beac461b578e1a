package service

import (
	"encoding/json"
	"errors"
	"strings"

	"github.com/ikkim/clientbook-backend/internal/app/model"
	"github.com/ikkim/clientbook-backend/internal/app/repository"
	"github.com/ikkim/clientbook-backend/pkg/logger"
	"gorm.io/gorm"
)

var ErrCommercialNotFound = errors.New("commercial insurance record not found")

// CommercialInput is a create or patch body for a commercial insurance record.
type CommercialInput struct {
	TaxID           model.Optional[string] `json:"tax_id"`
	Status          model.Optional[string] `json:"status"`
	OutstandingItem model.Optional[string] `json:"outstanding_item"`
	Remarks         model.Optional[string] `json:"remarks"`
	Plans           *[]PlanInput           `json:"plans"`

	Coverages map[string]CoverageInput `json:"-"`
}

func (in *CommercialInput) UnmarshalJSON(data []byte) error {
	type plain CommercialInput
	if err := json.Unmarshal(data, (*plain)(in)); err != nil {
		return err
	}
	coverages, err := decodeCoverageInputs(data, model.CommercialCoverages)
	if err != nil {
		return err
	}
	in.Coverages = coverages
	return nil
}

func (in CommercialInput) apply(c *model.CommercialInsurance) error {
	in.Status.Apply(&c.Status)
	in.OutstandingItem.Apply(&c.OutstandingItem)
	in.Remarks.Apply(&c.Remarks)

	for prefix, cov := range in.Coverages {
		if target := c.Coverage(prefix); target != nil {
			cov.applyCommercial(target)
		}
	}

	if in.Plans != nil {
		plans, err := commercialPlansFromInput(*in.Plans)
		if err != nil {
			return err
		}
		c.SetPlans(plans)
	}
	return nil
}

type CommercialService interface {
	ListCommercial(filter repository.CommercialFilter) ([]model.CommercialInsurance, error)
	GetCommercial(id uint) (*model.CommercialInsurance, error)
	CreateCommercial(input CommercialInput) (*model.CommercialInsurance, error)
	UpdateCommercial(id uint, input CommercialInput) (*model.CommercialInsurance, error)
	DeleteCommercial(id uint) error
	CloneCommercial(id uint) (*model.CommercialInsurance, error)
}

type commercialService struct {
	db             *gorm.DB
	clientRepo     repository.ClientRepository
	commercialRepo repository.CommercialRepository
	notifier       Notifier
}

func NewCommercialService(db *gorm.DB, clientRepo repository.ClientRepository, commercialRepo repository.CommercialRepository, notifier Notifier) CommercialService {
	if notifier == nil {
		notifier = NopNotifier{}
	}
	return &commercialService{
		db:             db,
		clientRepo:     clientRepo,
		commercialRepo: commercialRepo,
		notifier:       notifier,
	}
}

func (s *commercialService) ListCommercial(filter repository.CommercialFilter) ([]model.CommercialInsurance, error) {
	return s.commercialRepo.FindAll(filter)
}

func (s *commercialService) GetCommercial(id uint) (*model.CommercialInsurance, error) {
	record, err := s.commercialRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCommercialNotFound
		}
		return nil, err
	}
	return record, nil
}

func (s *commercialService) CreateCommercial(input CommercialInput) (*model.CommercialInsurance, error) {
	taxID := strings.TrimSpace(input.TaxID.Get(""))
	if taxID == "" {
		return nil, ErrTaxIDRequired
	}

	record := &model.CommercialInsurance{TaxID: taxID}
	if err := input.apply(record); err != nil {
		return nil, err
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := requireParent(s.clientRepo.WithTx(tx), taxID); err != nil {
			return err
		}
		return s.commercialRepo.WithTx(tx).Create(record)
	})
	if err != nil {
		return nil, err
	}

	logger.Info("Commercial record created", map[string]interface{}{
		"commercial_id": record.ID,
		"tax_id":        taxID,
		"plan_count":    len(record.Plans),
	})
	s.notifier.Notify(EntityCommercial, ActionCreated)
	return s.GetCommercial(record.ID)
}

func (s *commercialService) UpdateCommercial(id uint, input CommercialInput) (*model.CommercialInsurance, error) {
	err := s.db.Transaction(func(tx *gorm.DB) error {
		records := s.commercialRepo.WithTx(tx)

		record, err := records.FindByID(id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrCommercialNotFound
			}
			return err
		}

		if input.TaxID.Present {
			taxID := strings.TrimSpace(input.TaxID.Get(""))
			if taxID == "" {
				return ErrTaxIDRequired
			}
			if taxID != record.TaxID {
				if err := requireParent(s.clientRepo.WithTx(tx), taxID); err != nil {
					return err
				}
				record.TaxID = taxID
			}
		}

		if err := input.apply(record); err != nil {
			return err
		}
		record.Client = nil
		if err := records.Update(record); err != nil {
			return err
		}
		if input.Plans != nil {
			return records.ReplacePlans(record)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info("Commercial record updated", map[string]interface{}{
		"commercial_id":  id,
		"plans_replaced": input.Plans != nil,
	})
	s.notifier.Notify(EntityCommercial, ActionUpdated)
	return s.GetCommercial(id)
}

func (s *commercialService) DeleteCommercial(id uint) error {
	err := s.db.Transaction(func(tx *gorm.DB) error {
		records := s.commercialRepo.WithTx(tx)
		if _, err := records.FindByID(id); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrCommercialNotFound
			}
			return err
		}
		return records.Delete(id)
	})
	if err != nil {
		return err
	}

	logger.Info("Commercial record deleted", map[string]interface{}{
		"commercial_id": id,
	})
	s.notifier.Notify(EntityCommercial, ActionDeleted)
	return nil
}

func (s *commercialService) CloneCommercial(id uint) (*model.CommercialInsurance, error) {
	var clone *model.CommercialInsurance
	err := s.db.Transaction(func(tx *gorm.DB) error {
		records := s.commercialRepo.WithTx(tx)
		source, err := records.FindByID(id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrCommercialNotFound
			}
			return err
		}
		clone = source.Clone()
		return records.Create(clone)
	})
	if err != nil {
		return nil, err
	}

	logger.Info("Commercial record cloned", map[string]interface{}{
		"source_id":     id,
		"commercial_id": clone.ID,
	})
	s.notifier.Notify(EntityCommercial, ActionCloned)
	return s.GetCommercial(clone.ID)
}
