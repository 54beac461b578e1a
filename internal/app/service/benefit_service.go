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

var (
	ErrBenefitNotFound    = errors.New("benefit record not found")
	ErrParentClientAbsent = errors.New("no client exists with this tax_id")
	ErrPocReassignInvalid = errors.New("either from_poc or record_ids is required")
)

// BenefitInput is a create or patch body for an employee benefit record.
// Plans, when sent, replace every stored plan of the record.
type BenefitInput struct {
	TaxID                  model.Optional[string] `json:"tax_id"`
	FormFireCode           model.Optional[string] `json:"form_fire_code"`
	EnrollmentPOC          model.Optional[string] `json:"enrollment_poc"`
	Funding                model.Optional[string] `json:"funding"`
	NumEmployeesAtRenewal  model.Optional[int]    `json:"num_employees_at_renewal"`
	WaitingPeriod          model.Optional[string] `json:"waiting_period"`
	DeductibleAccumulation model.Optional[string] `json:"deductible_accumulation"`
	PreviousCarrier        model.Optional[string] `json:"previous_carrier"`
	CobraCarrier           model.Optional[string] `json:"cobra_carrier"`
	Status                 model.Optional[string] `json:"status"`
	OutstandingItem        model.Optional[string] `json:"outstanding_item"`
	Remarks                model.Optional[string] `json:"remarks"`
	EmployerContribution   model.Optional[string] `json:"employer_contribution"`
	EmployeeContribution   model.Optional[string] `json:"employee_contribution"`
	Plans                  *[]PlanInput           `json:"plans"`

	Coverages map[string]CoverageInput `json:"-"`
}

func (in *BenefitInput) UnmarshalJSON(data []byte) error {
	type plain BenefitInput
	if err := json.Unmarshal(data, (*plain)(in)); err != nil {
		return err
	}
	coverages, err := decodeCoverageInputs(data, model.BenefitCoverages)
	if err != nil {
		return err
	}
	in.Coverages = coverages
	return nil
}

func (in BenefitInput) apply(b *model.EmployeeBenefit) error {
	in.FormFireCode.Apply(&b.FormFireCode)
	in.EnrollmentPOC.Apply(&b.EnrollmentPOC)
	in.Funding.Apply(&b.Funding)
	in.NumEmployeesAtRenewal.Apply(&b.NumEmployeesAtRenewal)
	in.WaitingPeriod.Apply(&b.WaitingPeriod)
	in.DeductibleAccumulation.Apply(&b.DeductibleAccumulation)
	in.PreviousCarrier.Apply(&b.PreviousCarrier)
	in.CobraCarrier.Apply(&b.CobraCarrier)
	in.Status.Apply(&b.Status)
	in.OutstandingItem.Apply(&b.OutstandingItem)
	in.Remarks.Apply(&b.Remarks)
	in.EmployerContribution.Apply(&b.EmployerContribution)
	in.EmployeeContribution.Apply(&b.EmployeeContribution)

	for prefix, cov := range in.Coverages {
		if target := b.Coverage(prefix); target != nil {
			cov.applyBenefit(target)
		}
	}

	if in.Plans != nil {
		plans, err := benefitPlansFromInput(*in.Plans)
		if err != nil {
			return err
		}
		b.SetPlans(plans)
	}
	return nil
}

// PocSummary is the enrollment POC workload overview.
type PocSummary struct {
	Pocs            []repository.PocCount `json:"pocs"`
	UnassignedCount int64                 `json:"unassigned_count"`
}

// PocReassignInput moves benefit records to a new enrollment POC, selected
// either by their current POC or by id.
type PocReassignInput struct {
	FromPOC   *string `json:"from_poc"`
	RecordIDs []uint  `json:"record_ids"`
	ToPOC     *string `json:"to_poc"`
}

type BenefitService interface {
	ListBenefits(filter repository.BenefitFilter) ([]model.EmployeeBenefit, error)
	GetBenefit(id uint) (*model.EmployeeBenefit, error)
	CreateBenefit(input BenefitInput) (*model.EmployeeBenefit, error)
	UpdateBenefit(id uint, input BenefitInput) (*model.EmployeeBenefit, error)
	DeleteBenefit(id uint) error
	CloneBenefit(id uint) (*model.EmployeeBenefit, error)
	PocSummary() (*PocSummary, error)
	ReassignPoc(input PocReassignInput) (int64, error)
}

type benefitService struct {
	db          *gorm.DB
	clientRepo  repository.ClientRepository
	benefitRepo repository.BenefitRepository
	notifier    Notifier
}

func NewBenefitService(db *gorm.DB, clientRepo repository.ClientRepository, benefitRepo repository.BenefitRepository, notifier Notifier) BenefitService {
	if notifier == nil {
		notifier = NopNotifier{}
	}
	return &benefitService{
		db:          db,
		clientRepo:  clientRepo,
		benefitRepo: benefitRepo,
		notifier:    notifier,
	}
}

func (s *benefitService) ListBenefits(filter repository.BenefitFilter) ([]model.EmployeeBenefit, error) {
	return s.benefitRepo.FindAll(filter)
}

func (s *benefitService) GetBenefit(id uint) (*model.EmployeeBenefit, error) {
	benefit, err := s.benefitRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBenefitNotFound
		}
		return nil, err
	}
	return benefit, nil
}

func (s *benefitService) CreateBenefit(input BenefitInput) (*model.EmployeeBenefit, error) {
	taxID := strings.TrimSpace(input.TaxID.Get(""))
	if taxID == "" {
		return nil, ErrTaxIDRequired
	}

	benefit := &model.EmployeeBenefit{TaxID: taxID}
	if err := input.apply(benefit); err != nil {
		return nil, err
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := requireParent(s.clientRepo.WithTx(tx), taxID); err != nil {
			return err
		}
		return s.benefitRepo.WithTx(tx).Create(benefit)
	})
	if err != nil {
		return nil, err
	}

	logger.Info("Benefit record created", map[string]interface{}{
		"benefit_id": benefit.ID,
		"tax_id":     taxID,
		"plan_count": len(benefit.Plans),
	})
	s.notifier.Notify(EntityBenefit, ActionCreated)
	return s.GetBenefit(benefit.ID)
}

func (s *benefitService) UpdateBenefit(id uint, input BenefitInput) (*model.EmployeeBenefit, error) {
	err := s.db.Transaction(func(tx *gorm.DB) error {
		benefits := s.benefitRepo.WithTx(tx)

		benefit, err := benefits.FindByID(id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrBenefitNotFound
			}
			return err
		}

		if input.TaxID.Present {
			taxID := strings.TrimSpace(input.TaxID.Get(""))
			if taxID == "" {
				return ErrTaxIDRequired
			}
			if taxID != benefit.TaxID {
				if err := requireParent(s.clientRepo.WithTx(tx), taxID); err != nil {
					return err
				}
				benefit.TaxID = taxID
			}
		}

		if err := input.apply(benefit); err != nil {
			return err
		}
		benefit.Client = nil
		if err := benefits.Update(benefit); err != nil {
			return err
		}
		if input.Plans != nil {
			return benefits.ReplacePlans(benefit)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info("Benefit record updated", map[string]interface{}{
		"benefit_id":     id,
		"plans_replaced": input.Plans != nil,
	})
	s.notifier.Notify(EntityBenefit, ActionUpdated)
	return s.GetBenefit(id)
}

func (s *benefitService) DeleteBenefit(id uint) error {
	err := s.db.Transaction(func(tx *gorm.DB) error {
		benefits := s.benefitRepo.WithTx(tx)
		if _, err := benefits.FindByID(id); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrBenefitNotFound
			}
			return err
		}
		return benefits.Delete(id)
	})
	if err != nil {
		return err
	}

	logger.Info("Benefit record deleted", map[string]interface{}{
		"benefit_id": id,
	})
	s.notifier.Notify(EntityBenefit, ActionDeleted)
	return nil
}

// CloneBenefit copies a record and its plans for the same client.
func (s *benefitService) CloneBenefit(id uint) (*model.EmployeeBenefit, error) {
	var clone *model.EmployeeBenefit
	err := s.db.Transaction(func(tx *gorm.DB) error {
		benefits := s.benefitRepo.WithTx(tx)
		source, err := benefits.FindByID(id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrBenefitNotFound
			}
			return err
		}
		clone = source.Clone()
		return benefits.Create(clone)
	})
	if err != nil {
		return nil, err
	}

	logger.Info("Benefit record cloned", map[string]interface{}{
		"source_id":  id,
		"benefit_id": clone.ID,
	})
	s.notifier.Notify(EntityBenefit, ActionCloned)
	return s.GetBenefit(clone.ID)
}

func (s *benefitService) PocSummary() (*PocSummary, error) {
	pocs, err := s.benefitRepo.PocSummary()
	if err != nil {
		return nil, err
	}
	if pocs == nil {
		pocs = []repository.PocCount{}
	}
	unassigned, err := s.benefitRepo.CountWithoutPoc()
	if err != nil {
		return nil, err
	}
	return &PocSummary{Pocs: pocs, UnassignedCount: unassigned}, nil
}

// ReassignPoc sets the enrollment POC of the selected records. A blank
// to_poc clears it.
func (s *benefitService) ReassignPoc(input PocReassignInput) (int64, error) {
	toPOC := input.ToPOC
	if toPOC != nil {
		trimmed := strings.TrimSpace(*toPOC)
		toPOC = &trimmed
		if trimmed == "" {
			toPOC = nil
		}
	}

	var (
		updated int64
		err     error
	)
	switch {
	case len(input.RecordIDs) > 0:
		updated, err = s.benefitRepo.ReassignPocByIDs(input.RecordIDs, toPOC)
	case input.FromPOC != nil && strings.TrimSpace(*input.FromPOC) != "":
		updated, err = s.benefitRepo.ReassignPoc(*input.FromPOC, toPOC)
	default:
		return 0, ErrPocReassignInvalid
	}
	if err != nil {
		return 0, err
	}

	logger.Info("Enrollment POC reassigned", map[string]interface{}{
		"updated": updated,
	})
	if updated > 0 {
		s.notifier.Notify(EntityBenefit, ActionUpdated)
	}
	return updated, nil
}

func requireParent(clients repository.ClientRepository, taxID string) error {
	exists, err := clients.ExistsByTaxID(taxID)
	if err != nil {
		return err
	}
	if !exists {
		return ErrParentClientAbsent
	}
	return nil
}
