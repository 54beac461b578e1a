package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// CommercialCoverage is the flat column group of a single-instance commercial product.
type CommercialCoverage struct {
	Carrier     *string             `gorm:"column:carrier;type:varchar(255)" json:"carrier"`
	Limit       *string             `gorm:"column:limit;type:varchar(100)" json:"limit"`
	Premium     decimal.NullDecimal `gorm:"column:premium;type:decimal(12,2)" json:"premium"`
	RenewalDate *Date               `gorm:"column:renewal_date" json:"renewal_date"`
	Flag        bool                `gorm:"column:flag;default:false" json:"flag"`

	Remarks         *string `gorm:"column:remarks;type:text" json:"remarks"`
	OutstandingItem *string `gorm:"column:outstanding_item;type:text" json:"outstanding_item"`
}

func (c CommercialCoverage) IsEmpty() bool {
	return c.Carrier == nil && c.Limit == nil && !c.Premium.Valid && c.RenewalDate == nil && !c.Flag &&
		c.Remarks == nil && c.OutstandingItem == nil
}

// CommercialMirror holds the legacy flat copy of a repeatable product's first plan.
type CommercialMirror struct {
	Carrier     *string             `gorm:"column:carrier;type:varchar(255)" json:"carrier"`
	Limit       *string             `gorm:"column:limit;type:varchar(100)" json:"limit"`
	Premium     decimal.NullDecimal `gorm:"column:premium;type:decimal(12,2)" json:"premium"`
	RenewalDate *Date               `gorm:"column:renewal_date" json:"renewal_date"`
}

type CommercialInsurance struct {
	ID    uint   `gorm:"primarykey" json:"id"`
	TaxID string `gorm:"type:varchar(50);not null;index" json:"tax_id"`

	Status          *string `gorm:"type:varchar(50)" json:"status"`
	OutstandingItem *string `gorm:"type:text" json:"outstanding_item"`
	Remarks         *string `gorm:"type:text" json:"remarks"`

	// Legacy mirrors of plan_number 1 per repeatable product.
	Umbrella       CommercialMirror `gorm:"embedded;embeddedPrefix:umbrella_" json:"umbrella_primary"`
	ProfessionalEO CommercialMirror `gorm:"embedded;embeddedPrefix:professional_eo_" json:"professional_eo_primary"`
	Cyber          CommercialMirror `gorm:"embedded;embeddedPrefix:cyber_" json:"cyber_primary"`
	Crime          CommercialMirror `gorm:"embedded;embeddedPrefix:crime_" json:"crime_primary"`

	GeneralLiability  CommercialCoverage `gorm:"embedded;embeddedPrefix:general_liability_" json:"general_liability"`
	Property          CommercialCoverage `gorm:"embedded;embeddedPrefix:property_" json:"property"`
	BOP               CommercialCoverage `gorm:"embedded;embeddedPrefix:bop_" json:"bop"`
	WorkersComp       CommercialCoverage `gorm:"embedded;embeddedPrefix:workers_comp_" json:"workers_comp"`
	Auto              CommercialCoverage `gorm:"embedded;embeddedPrefix:auto_" json:"auto"`
	EPLI              CommercialCoverage `gorm:"embedded;embeddedPrefix:epli_" json:"epli"`
	NYDBL             CommercialCoverage `gorm:"embedded;embeddedPrefix:nydbl_" json:"nydbl"`
	Surety            CommercialCoverage `gorm:"embedded;embeddedPrefix:surety_" json:"surety"`
	ProductLiability  CommercialCoverage `gorm:"embedded;embeddedPrefix:product_liability_" json:"product_liability"`
	Flood             CommercialCoverage `gorm:"embedded;embeddedPrefix:flood_" json:"flood"`
	DirectorsOfficers CommercialCoverage `gorm:"embedded;embeddedPrefix:directors_officers_" json:"directors_officers"`
	Fiduciary         CommercialCoverage `gorm:"embedded;embeddedPrefix:fiduciary_" json:"fiduciary"`
	InlandMarine      CommercialCoverage `gorm:"embedded;embeddedPrefix:inland_marine_" json:"inland_marine"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relationships
	Client *Client          `gorm:"foreignKey:TaxID;references:TaxID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"client,omitempty"`
	Plans  []CommercialPlan `gorm:"foreignKey:CommercialInsuranceID;constraint:OnDelete:CASCADE" json:"plans"`
}

func (CommercialInsurance) TableName() string {
	return "commercial_insurance"
}

var commercialSingles = map[string]func(*CommercialInsurance) *CommercialCoverage{
	"general_liability":  func(c *CommercialInsurance) *CommercialCoverage { return &c.GeneralLiability },
	"property":           func(c *CommercialInsurance) *CommercialCoverage { return &c.Property },
	"bop":                func(c *CommercialInsurance) *CommercialCoverage { return &c.BOP },
	"workers_comp":       func(c *CommercialInsurance) *CommercialCoverage { return &c.WorkersComp },
	"auto":               func(c *CommercialInsurance) *CommercialCoverage { return &c.Auto },
	"epli":               func(c *CommercialInsurance) *CommercialCoverage { return &c.EPLI },
	"nydbl":              func(c *CommercialInsurance) *CommercialCoverage { return &c.NYDBL },
	"surety":             func(c *CommercialInsurance) *CommercialCoverage { return &c.Surety },
	"product_liability":  func(c *CommercialInsurance) *CommercialCoverage { return &c.ProductLiability },
	"flood":              func(c *CommercialInsurance) *CommercialCoverage { return &c.Flood },
	"directors_officers": func(c *CommercialInsurance) *CommercialCoverage { return &c.DirectorsOfficers },
	"fiduciary":          func(c *CommercialInsurance) *CommercialCoverage { return &c.Fiduciary },
	"inland_marine":      func(c *CommercialInsurance) *CommercialCoverage { return &c.InlandMarine },
}

var commercialMirrors = map[string]func(*CommercialInsurance) *CommercialMirror{
	"umbrella":        func(c *CommercialInsurance) *CommercialMirror { return &c.Umbrella },
	"professional_eo": func(c *CommercialInsurance) *CommercialMirror { return &c.ProfessionalEO },
	"cyber":           func(c *CommercialInsurance) *CommercialMirror { return &c.Cyber },
	"crime":           func(c *CommercialInsurance) *CommercialMirror { return &c.Crime },
}

// Coverage returns the flat column group for a single-instance product, or nil.
func (c *CommercialInsurance) Coverage(prefix string) *CommercialCoverage {
	if get, ok := commercialSingles[prefix]; ok {
		return get(c)
	}
	return nil
}

// PlansOf returns the plans of one repeatable product ordered by plan number.
func (c *CommercialInsurance) PlansOf(planType string) []CommercialPlan {
	var out []CommercialPlan
	for _, p := range c.Plans {
		if p.PlanType == planType {
			out = append(out, p)
		}
	}
	sortByPlanNumber(out, func(p *CommercialPlan) int { return p.PlanNumber })
	return out
}

// SetPlans normalizes plans and refreshes the legacy mirror columns.
func (c *CommercialInsurance) SetPlans(plans []CommercialPlan) {
	c.Plans = NormalizeCommercialPlans(plans)
	for i := range c.Plans {
		c.Plans[i].CommercialInsuranceID = c.ID
	}
	c.SyncMirrors()
}

// SyncMirrors copies plan_number 1 of every repeatable product into its flat columns.
func (c *CommercialInsurance) SyncMirrors() {
	for planType, get := range commercialMirrors {
		mirror := get(c)
		*mirror = CommercialMirror{}
		if plans := c.PlansOf(planType); len(plans) > 0 {
			first := plans[0]
			*mirror = CommercialMirror{
				Carrier:     cloneString(first.Carrier),
				Limit:       cloneString(first.CoverageLimit),
				Premium:     first.Premium,
				RenewalDate: cloneDate(first.RenewalDate),
			}
		}
	}
}

// Clone copies the record and its plans without identity or relationships.
func (c *CommercialInsurance) Clone() *CommercialInsurance {
	out := *c
	out.ID = 0
	out.CreatedAt = time.Time{}
	out.UpdatedAt = time.Time{}
	out.Client = nil
	out.Plans = make([]CommercialPlan, len(c.Plans))
	for i, p := range c.Plans {
		p.ID = 0
		p.CommercialInsuranceID = 0
		out.Plans[i] = p
	}
	return &out
}
