package model

import "time"

// BenefitCoverage is the flat column group of a single-instance benefit type.
type BenefitCoverage struct {
	Carrier         *string `gorm:"column:carrier;type:varchar(255)" json:"carrier"`
	RenewalDate     *Date   `gorm:"column:renewal_date" json:"renewal_date"`
	Flag            bool    `gorm:"column:flag;default:false" json:"flag"`
	Remarks         *string `gorm:"column:remarks;type:text" json:"remarks"`
	OutstandingItem *string `gorm:"column:outstanding_item;type:text" json:"outstanding_item"`
}

// IsEmpty reports whether nothing is recorded for the coverage.
func (c BenefitCoverage) IsEmpty() bool {
	return c.Carrier == nil && c.RenewalDate == nil && !c.Flag && c.Remarks == nil && c.OutstandingItem == nil
}

// PlanMirror holds the legacy flat copy of a repeatable type's first plan.
type PlanMirror struct {
	Carrier     *string `gorm:"column:carrier;type:varchar(255)" json:"carrier"`
	RenewalDate *Date   `gorm:"column:renewal_date" json:"renewal_date"`
}

type EmployeeBenefit struct {
	ID    uint   `gorm:"primarykey" json:"id"`
	TaxID string `gorm:"type:varchar(50);not null;index" json:"tax_id"`

	FormFireCode           *string `gorm:"type:varchar(100)" json:"form_fire_code"`
	EnrollmentPOC          *string `gorm:"column:enrollment_poc;type:varchar(255);index" json:"enrollment_poc"`
	Funding                *string `gorm:"type:varchar(100)" json:"funding"`
	NumEmployeesAtRenewal  *int    `json:"num_employees_at_renewal"`
	WaitingPeriod          *string `gorm:"type:varchar(100)" json:"waiting_period"`
	DeductibleAccumulation *string `gorm:"type:varchar(100)" json:"deductible_accumulation"`
	PreviousCarrier        *string `gorm:"type:varchar(255)" json:"previous_carrier"`
	CobraCarrier           *string `gorm:"type:varchar(255)" json:"cobra_carrier"`
	Status                 *string `gorm:"type:varchar(50)" json:"status"`
	OutstandingItem        *string `gorm:"type:text" json:"outstanding_item"`
	Remarks                *string `gorm:"type:text" json:"remarks"`
	EmployerContribution   *string `gorm:"type:varchar(50)" json:"employer_contribution"`
	EmployeeContribution   *string `gorm:"type:varchar(50)" json:"employee_contribution"`

	// Legacy mirrors of plan_number 1 per repeatable type.
	CurrentCarrier *string    `gorm:"type:varchar(255)" json:"current_carrier"`
	RenewalDate    *Date      `json:"renewal_date"`
	Dental         PlanMirror `gorm:"embedded;embeddedPrefix:dental_" json:"dental_primary"`
	Vision         PlanMirror `gorm:"embedded;embeddedPrefix:vision_" json:"vision_primary"`
	LifeADND       PlanMirror `gorm:"embedded;embeddedPrefix:life_adnd_" json:"life_adnd_primary"`

	LTD             BenefitCoverage `gorm:"embedded;embeddedPrefix:ltd_" json:"ltd"`
	STD             BenefitCoverage `gorm:"embedded;embeddedPrefix:std_" json:"std"`
	K401            BenefitCoverage `gorm:"embedded;embeddedPrefix:k401_" json:"k401"`
	CriticalIllness BenefitCoverage `gorm:"embedded;embeddedPrefix:critical_illness_" json:"critical_illness"`
	Accident        BenefitCoverage `gorm:"embedded;embeddedPrefix:accident_" json:"accident"`
	Hospital        BenefitCoverage `gorm:"embedded;embeddedPrefix:hospital_" json:"hospital"`
	VoluntaryLife   BenefitCoverage `gorm:"embedded;embeddedPrefix:voluntary_life_" json:"voluntary_life"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relationships
	Client *Client       `gorm:"foreignKey:TaxID;references:TaxID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"client,omitempty"`
	Plans  []BenefitPlan `gorm:"foreignKey:EmployeeBenefitID;constraint:OnDelete:CASCADE" json:"plans"`
}

func (EmployeeBenefit) TableName() string {
	return "employee_benefits"
}

var benefitSingles = map[string]func(*EmployeeBenefit) *BenefitCoverage{
	"ltd":              func(b *EmployeeBenefit) *BenefitCoverage { return &b.LTD },
	"std":              func(b *EmployeeBenefit) *BenefitCoverage { return &b.STD },
	"k401":             func(b *EmployeeBenefit) *BenefitCoverage { return &b.K401 },
	"critical_illness": func(b *EmployeeBenefit) *BenefitCoverage { return &b.CriticalIllness },
	"accident":         func(b *EmployeeBenefit) *BenefitCoverage { return &b.Accident },
	"hospital":         func(b *EmployeeBenefit) *BenefitCoverage { return &b.Hospital },
	"voluntary_life":   func(b *EmployeeBenefit) *BenefitCoverage { return &b.VoluntaryLife },
}

var benefitMirrors = map[string]func(*EmployeeBenefit) (**string, **Date){
	"medical":   func(b *EmployeeBenefit) (**string, **Date) { return &b.CurrentCarrier, &b.RenewalDate },
	"dental":    func(b *EmployeeBenefit) (**string, **Date) { return &b.Dental.Carrier, &b.Dental.RenewalDate },
	"vision":    func(b *EmployeeBenefit) (**string, **Date) { return &b.Vision.Carrier, &b.Vision.RenewalDate },
	"life_adnd": func(b *EmployeeBenefit) (**string, **Date) { return &b.LifeADND.Carrier, &b.LifeADND.RenewalDate },
}

// Coverage returns the flat column group for a single-instance type, or nil.
func (b *EmployeeBenefit) Coverage(prefix string) *BenefitCoverage {
	if get, ok := benefitSingles[prefix]; ok {
		return get(b)
	}
	return nil
}

// PlansOf returns the plans of one repeatable type ordered by plan number.
func (b *EmployeeBenefit) PlansOf(planType string) []BenefitPlan {
	var out []BenefitPlan
	for _, p := range b.Plans {
		if p.PlanType == planType {
			out = append(out, p)
		}
	}
	sortByPlanNumber(out, func(p *BenefitPlan) int { return p.PlanNumber })
	return out
}

// SetPlans normalizes plans and refreshes the legacy mirror columns.
func (b *EmployeeBenefit) SetPlans(plans []BenefitPlan) {
	b.Plans = NormalizeBenefitPlans(plans)
	for i := range b.Plans {
		b.Plans[i].EmployeeBenefitID = b.ID
	}
	b.SyncMirrors()
}

// SyncMirrors copies plan_number 1 of every repeatable type into its flat columns.
func (b *EmployeeBenefit) SyncMirrors() {
	for planType, mirror := range benefitMirrors {
		carrier, renewal := mirror(b)
		*carrier, *renewal = nil, nil
		if plans := b.PlansOf(planType); len(plans) > 0 {
			*carrier = cloneString(plans[0].Carrier)
			*renewal = cloneDate(plans[0].RenewalDate)
		}
	}
}

// Clone copies the record and its plans without identity or relationships.
func (b *EmployeeBenefit) Clone() *EmployeeBenefit {
	out := *b
	out.ID = 0
	out.CreatedAt = time.Time{}
	out.UpdatedAt = time.Time{}
	out.Client = nil
	out.Plans = make([]BenefitPlan, len(b.Plans))
	for i, p := range b.Plans {
		p.ID = 0
		p.EmployeeBenefitID = 0
		out.Plans[i] = p
	}
	return &out
}

func cloneString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}

func cloneDate(d *Date) *Date {
	if d == nil {
		return nil
	}
	v := *d
	return &v
}
