package model

import "github.com/shopspring/decimal"

// CommercialPlan is one numbered instance of a repeatable commercial product.
type CommercialPlan struct {
	ID                    uint                `gorm:"primarykey" json:"id"`
	CommercialInsuranceID uint                `gorm:"not null;uniqueIndex:idx_commercial_plan_slot" json:"commercial_insurance_id"`
	PlanType              string              `gorm:"type:varchar(50);not null;uniqueIndex:idx_commercial_plan_slot" json:"plan_type"`
	PlanNumber            int                 `gorm:"not null;uniqueIndex:idx_commercial_plan_slot" json:"plan_number"`
	Carrier               *string             `gorm:"type:varchar(255)" json:"carrier"`
	CoverageLimit         *string             `gorm:"type:varchar(100)" json:"coverage_limit"`
	Premium               decimal.NullDecimal `gorm:"type:decimal(12,2)" json:"premium"`
	RenewalDate           *Date               `json:"renewal_date"`
	Flag                  bool                `gorm:"default:false" json:"flag"`
	Remarks               *string             `gorm:"type:text" json:"remarks"`
	OutstandingItem       *string             `gorm:"type:text" json:"outstanding_item"`
}

func (CommercialPlan) TableName() string {
	return "commercial_plans"
}

// NormalizeCommercialPlans groups plans by product in catalogue order and
// renumbers each group 1..n. Plans of unknown products are dropped.
func NormalizeCommercialPlans(plans []CommercialPlan) []CommercialPlan {
	return normalizePlans(CommercialCoverages, plans,
		func(p *CommercialPlan) string { return p.PlanType },
		func(p *CommercialPlan) *int { return &p.PlanNumber },
	)
}
