package model

import "sort"

// BenefitPlan is one numbered instance of a repeatable benefit type.
type BenefitPlan struct {
	ID                uint    `gorm:"primarykey" json:"id"`
	EmployeeBenefitID uint    `gorm:"not null;uniqueIndex:idx_benefit_plan_slot" json:"employee_benefit_id"`
	PlanType          string  `gorm:"type:varchar(50);not null;uniqueIndex:idx_benefit_plan_slot" json:"plan_type"`
	PlanNumber        int     `gorm:"not null;uniqueIndex:idx_benefit_plan_slot" json:"plan_number"`
	Carrier           *string `gorm:"type:varchar(255)" json:"carrier"`
	RenewalDate       *Date   `json:"renewal_date"`
	Flag              bool    `gorm:"default:false" json:"flag"`
	WaitingPeriod     *string `gorm:"type:varchar(100)" json:"waiting_period"`
	Remarks           *string `gorm:"type:text" json:"remarks"`
	OutstandingItem   *string `gorm:"type:text" json:"outstanding_item"`
}

func (BenefitPlan) TableName() string {
	return "benefit_plans"
}

// NormalizeBenefitPlans groups plans by type in catalogue order and
// renumbers each group 1..n, keeping the relative order of the input.
// Plans of unknown types are dropped.
func NormalizeBenefitPlans(plans []BenefitPlan) []BenefitPlan {
	return normalizePlans(BenefitCoverages, plans,
		func(p *BenefitPlan) string { return p.PlanType },
		func(p *BenefitPlan) *int { return &p.PlanNumber },
	)
}

func normalizePlans[P any](catalogue []CoverageType, plans []P, typeOf func(*P) string, number func(*P) *int) []P {
	out := make([]P, 0, len(plans))
	for _, ct := range catalogue {
		if ct.Cardinality != Repeatable {
			continue
		}
		var group []P
		for _, p := range plans {
			if typeOf(&p) == ct.Prefix {
				group = append(group, p)
			}
		}
		// Explicit numbers order the group; unnumbered plans follow in input order.
		sort.SliceStable(group, func(i, j int) bool {
			ni, nj := *number(&group[i]), *number(&group[j])
			if ni <= 0 || nj <= 0 {
				return ni > 0 && nj <= 0
			}
			return ni < nj
		})
		for i := range group {
			*number(&group[i]) = i + 1
		}
		out = append(out, group...)
	}
	return out
}

func sortByPlanNumber[P any](plans []P, number func(*P) int) {
	sort.SliceStable(plans, func(i, j int) bool {
		return number(&plans[i]) < number(&plans[j])
	})
}
