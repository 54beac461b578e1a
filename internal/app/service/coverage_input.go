package service

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/ikkim/clientbook-backend/internal/app/model"
	"github.com/shopspring/decimal"
)

var ErrInvalidPlanType = errors.New("invalid plan type")

// CoverageInput patches one single-instance coverage group. Limit and
// Premium apply to commercial products only.
type CoverageInput struct {
	Carrier         model.Optional[string]       `json:"carrier"`
	RenewalDate     model.Optional[model.Date]   `json:"renewal_date"`
	Flag            model.Optional[bool]         `json:"flag"`
	Limit           model.Optional[string]       `json:"limit"`
	Premium         model.Optional[model.Amount] `json:"premium"`
	Remarks         model.Optional[string]       `json:"remarks"`
	OutstandingItem model.Optional[string]       `json:"outstanding_item"`
}

// PlanInput is one plan of a repeatable type in a create or update body.
type PlanInput struct {
	PlanType        string       `json:"plan_type"`
	PlanNumber      int          `json:"plan_number"`
	Carrier         *string      `json:"carrier"`
	RenewalDate     *model.Date  `json:"renewal_date"`
	Flag            bool         `json:"flag"`
	WaitingPeriod   *string      `json:"waiting_period"`
	CoverageLimit   *string      `json:"coverage_limit"`
	Premium         model.Amount `json:"premium"`
	Remarks         *string      `json:"remarks"`
	OutstandingItem *string      `json:"outstanding_item"`
}

// decodeCoverageInputs collects coverage patches for every single-instance
// type of catalogue. A type may be sent as a nested object ("ltd": {...})
// or as flat columns ("ltd_carrier", "ltd_remarks", ...); flat keys
// win when both are present.
func decodeCoverageInputs(data []byte, catalogue []model.CoverageType) (map[string]CoverageInput, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}

	out := make(map[string]CoverageInput)
	for _, ct := range model.FilterCoverages(catalogue, model.Single) {
		var in CoverageInput
		found := false

		if nested, ok := raw[ct.Prefix]; ok && string(nested) != "null" {
			if err := json.Unmarshal(nested, &in); err != nil {
				return nil, fmt.Errorf("%s: %w", ct.Prefix, err)
			}
			found = true
		}

		flat := map[string]json.RawMessage{}
		for _, sub := range []string{"carrier", "renewal_date", "flag", "limit", "premium", "remarks", "outstanding_item"} {
			if v, ok := raw[ct.Prefix+"_"+sub]; ok {
				flat[sub] = v
			}
		}
		if len(flat) > 0 {
			merged, err := json.Marshal(flat)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", ct.Prefix, err)
			}
			var flatIn CoverageInput
			if err := json.Unmarshal(merged, &flatIn); err != nil {
				return nil, fmt.Errorf("%s: %w", ct.Prefix, err)
			}
			overlayCoverageInput(&in, flatIn)
			found = true
		}

		if found {
			out[ct.Prefix] = in
		}
	}
	return out, nil
}

func overlayCoverageInput(dst *CoverageInput, src CoverageInput) {
	if src.Carrier.Present {
		dst.Carrier = src.Carrier
	}
	if src.RenewalDate.Present {
		dst.RenewalDate = src.RenewalDate
	}
	if src.Flag.Present {
		dst.Flag = src.Flag
	}
	if src.Limit.Present {
		dst.Limit = src.Limit
	}
	if src.Premium.Present {
		dst.Premium = src.Premium
	}
	if src.Remarks.Present {
		dst.Remarks = src.Remarks
	}
	if src.OutstandingItem.Present {
		dst.OutstandingItem = src.OutstandingItem
	}
}

func (in CoverageInput) applyBenefit(cov *model.BenefitCoverage) {
	in.Carrier.Apply(&cov.Carrier)
	in.RenewalDate.Apply(&cov.RenewalDate)
	in.Flag.ApplyValue(&cov.Flag)
	in.Remarks.Apply(&cov.Remarks)
	in.OutstandingItem.Apply(&cov.OutstandingItem)
}

func (in CoverageInput) applyCommercial(cov *model.CommercialCoverage) {
	in.Carrier.Apply(&cov.Carrier)
	in.Limit.Apply(&cov.Limit)
	in.RenewalDate.Apply(&cov.RenewalDate)
	in.Flag.ApplyValue(&cov.Flag)
	in.Remarks.Apply(&cov.Remarks)
	in.OutstandingItem.Apply(&cov.OutstandingItem)
	if in.Premium.Present {
		cov.Premium = amountOf(in.Premium.Value)
	}
}

func amountOf(a *model.Amount) decimal.NullDecimal {
	if a == nil {
		return decimal.NullDecimal{}
	}
	return a.NullDecimal
}

func benefitPlansFromInput(inputs []PlanInput) ([]model.BenefitPlan, error) {
	plans := make([]model.BenefitPlan, 0, len(inputs))
	for _, in := range inputs {
		planType := strings.TrimSpace(in.PlanType)
		if !model.IsRepeatable(model.BenefitCoverages, planType) {
			return nil, fmt.Errorf("%w: %q", ErrInvalidPlanType, in.PlanType)
		}
		plans = append(plans, model.BenefitPlan{
			PlanType:        planType,
			PlanNumber:      in.PlanNumber,
			Carrier:         in.Carrier,
			RenewalDate:     model.DatePtr(in.RenewalDate),
			Flag:            in.Flag,
			WaitingPeriod:   in.WaitingPeriod,
			Remarks:         in.Remarks,
			OutstandingItem: in.OutstandingItem,
		})
	}
	return plans, nil
}

func commercialPlansFromInput(inputs []PlanInput) ([]model.CommercialPlan, error) {
	plans := make([]model.CommercialPlan, 0, len(inputs))
	for _, in := range inputs {
		planType := strings.TrimSpace(in.PlanType)
		if !model.IsRepeatable(model.CommercialCoverages, planType) {
			return nil, fmt.Errorf("%w: %q", ErrInvalidPlanType, in.PlanType)
		}
		plans = append(plans, model.CommercialPlan{
			PlanType:        planType,
			PlanNumber:      in.PlanNumber,
			Carrier:         in.Carrier,
			CoverageLimit:   in.CoverageLimit,
			Premium:         in.Premium.NullDecimal,
			RenewalDate:     model.DatePtr(in.RenewalDate),
			Flag:            in.Flag,
			Remarks:         in.Remarks,
			OutstandingItem: in.OutstandingItem,
		})
	}
	return plans, nil
}
