package service

import (
	"strings"
	"time"

	"github.com/ikkim/clientbook-backend/internal/app/model"
	"github.com/ikkim/clientbook-backend/internal/spreadsheet"
	"github.com/shopspring/decimal"
)

const (
	SheetClients    = "Clients"
	SheetBenefits   = "Employee Benefits"
	SheetCommercial = "Commercial"

	keyField  = "tax_id"
	keyHeader = "Tax ID"
)

// column binds one sheet field to an entity.
type column[T any] struct {
	spreadsheet.Field
	get func(*T) interface{}
	set func(*T, interface{})
}

type sheetMapping[T any] struct {
	base     spreadsheet.SheetSpec
	globals  []column[T]
	trailing []column[T]
}

// Spec returns the layout description of the sheet.
func (m sheetMapping[T]) Spec() spreadsheet.SheetSpec {
	spec := m.base
	spec.Globals = columnFields(m.globals)
	spec.Trailing = columnFields(m.trailing)
	return spec
}

func (m sheetMapping[T]) encodeGlobals(e *T, vals spreadsheet.Values) {
	for _, cols := range [][]column[T]{m.globals, m.trailing} {
		for _, c := range cols {
			vals[c.Key] = c.get(e)
		}
	}
}

// applyGlobals copies the non-blank decoded values onto e. Blank cells keep
// the stored value.
func (m sheetMapping[T]) applyGlobals(e *T, vals spreadsheet.Values) {
	for _, cols := range [][]column[T]{m.globals, m.trailing} {
		for _, c := range cols {
			if c.ReadOnly || c.set == nil {
				continue
			}
			if v, ok := vals[c.Key]; ok && v != nil {
				c.set(e, v)
			}
		}
	}
}

func columnFields[T any](cols []column[T]) []spreadsheet.Field {
	out := make([]spreadsheet.Field, len(cols))
	for i, c := range cols {
		out[i] = c.Field
	}
	return out
}

func textColumn[T any](key, header string, ptr func(*T) **string) column[T] {
	return column[T]{
		Field: spreadsheet.Field{Key: key, Header: header, Kind: spreadsheet.KindText},
		get:   func(e *T) interface{} { return stringValue(*ptr(e)) },
		set: func(e *T, v interface{}) {
			if s := asString(v); s != nil {
				*ptr(e) = s
			}
		},
	}
}

func intColumn[T any](key, header string, ptr func(*T) **int) column[T] {
	return column[T]{
		Field: spreadsheet.Field{Key: key, Header: header, Kind: spreadsheet.KindInt},
		get: func(e *T) interface{} {
			if p := *ptr(e); p != nil {
				return *p
			}
			return nil
		},
		set: func(e *T, v interface{}) {
			if n, ok := v.(int); ok {
				*ptr(e) = &n
			}
		},
	}
}

func decimalColumn[T any](key, header string, ptr func(*T) *decimal.NullDecimal) column[T] {
	return column[T]{
		Field: spreadsheet.Field{Key: key, Header: header, Kind: spreadsheet.KindDecimal},
		get:   func(e *T) interface{} { return decimalValue(*ptr(e)) },
		set: func(e *T, v interface{}) {
			if d := asDecimal(v); d.Valid {
				*ptr(e) = d
			}
		},
	}
}

func taxIDColumn[T any](ptr func(*T) *string) column[T] {
	return column[T]{
		Field: spreadsheet.Field{Key: keyField, Header: keyHeader, Kind: spreadsheet.KindText},
		get:   func(e *T) interface{} { return *ptr(e) },
		set: func(e *T, v interface{}) {
			if s, ok := v.(string); ok {
				*ptr(e) = strings.TrimSpace(s)
			}
		},
	}
}

func clientNameColumn[T any](client func(*T) *model.Client) column[T] {
	return column[T]{
		Field: spreadsheet.Field{Key: "client_name", Header: "Client Name", Kind: spreadsheet.KindText, ReadOnly: true},
		get:   func(e *T) interface{} { return client(e).Name() },
	}
}

var clientMapping = sheetMapping[model.Client]{
	base: spreadsheet.SheetSpec{
		Name:     SheetClients,
		KeyField: keyField,
		Section:  "Client Information",
	},
	globals: []column[model.Client]{
		taxIDColumn(func(c *model.Client) *string { return &c.TaxID }),
		textColumn("client_name", "Client Name", func(c *model.Client) **string { return &c.ClientName }),
		textColumn("contact_person", "Contact Person", func(c *model.Client) **string { return &c.ContactPerson }),
		textColumn("email", "Email", func(c *model.Client) **string { return &c.Email }),
		textColumn("phone_number", "Phone Number", func(c *model.Client) **string { return &c.PhoneNumber }),
		textColumn("address_line_1", "Address Line 1", func(c *model.Client) **string { return &c.AddressLine1 }),
		textColumn("address_line_2", "Address Line 2", func(c *model.Client) **string { return &c.AddressLine2 }),
		textColumn("city", "City", func(c *model.Client) **string { return &c.City }),
		textColumn("state", "State", func(c *model.Client) **string { return &c.State }),
		textColumn("zip_code", "Zip Code", func(c *model.Client) **string { return &c.ZipCode }),
		{
			Field: spreadsheet.Field{Key: "status", Header: "Status", Kind: spreadsheet.KindText},
			get:   func(c *model.Client) interface{} { return c.Status },
			set: func(c *model.Client, v interface{}) {
				if s := asString(v); s != nil {
					c.Status = strings.TrimSpace(*s)
				}
			},
		},
		decimalColumn("gross_revenue", "Gross Revenue", func(c *model.Client) *decimal.NullDecimal { return &c.GrossRevenue }),
		intColumn("total_ees", "Total EEs", func(c *model.Client) **int { return &c.TotalEES }),
	},
}

var (
	remarksField         = spreadsheet.Field{Key: spreadsheet.FieldRemarks, Header: "Remarks", Kind: spreadsheet.KindText}
	outstandingItemField = spreadsheet.Field{Key: spreadsheet.FieldOutstandingItem, Header: "Outstanding Item", Kind: spreadsheet.KindText}

	benefitPlanFields = []spreadsheet.Field{
		{Key: spreadsheet.FieldCarrier, Header: "Carrier", Kind: spreadsheet.KindText},
		{Key: spreadsheet.FieldRenewalDate, Header: "Renewal Date", Kind: spreadsheet.KindDate},
		{Key: spreadsheet.FieldFlag, Header: "Flag", Kind: spreadsheet.KindBool},
		{Key: spreadsheet.FieldWaitingPeriod, Header: "Waiting Period", Kind: spreadsheet.KindText},
		remarksField,
		outstandingItemField,
	}
	benefitSingleFields = []spreadsheet.Field{
		benefitPlanFields[0],
		benefitPlanFields[1],
		benefitPlanFields[2],
		remarksField,
		outstandingItemField,
	}

	commercialFields = []spreadsheet.Field{
		{Key: spreadsheet.FieldCarrier, Header: "Carrier", Kind: spreadsheet.KindText},
		{Key: spreadsheet.FieldRenewalDate, Header: "Renewal Date", Kind: spreadsheet.KindDate},
		{Key: spreadsheet.FieldLimit, Header: "Limit", Kind: spreadsheet.KindText},
		{Key: spreadsheet.FieldPremium, Header: "Premium", Kind: spreadsheet.KindDecimal},
		{Key: spreadsheet.FieldFlag, Header: "Flag", Kind: spreadsheet.KindBool},
		remarksField,
		outstandingItemField,
	}
)

var benefitMapping = sheetMapping[model.EmployeeBenefit]{
	base: spreadsheet.SheetSpec{
		Name:            SheetBenefits,
		KeyField:        keyField,
		Section:         "Benefit Details",
		Repeatable:      sheetCoverages(model.BenefitCoverages, model.Repeatable),
		PlanFields:      benefitPlanFields,
		Singles:         sheetCoverages(model.BenefitCoverages, model.Single),
		SingleFields:    benefitSingleFields,
		TrailingSection: "Contributions",
		Aliases: map[string]spreadsheet.ColumnRef{
			"Current Carrier": {Role: spreadsheet.RolePlan, Coverage: "medical", Field: spreadsheet.FieldCarrier},
			"Renewal Date":    {Role: spreadsheet.RolePlan, Coverage: "medical", Field: spreadsheet.FieldRenewalDate},
		},
	},
	globals: []column[model.EmployeeBenefit]{
		taxIDColumn(func(b *model.EmployeeBenefit) *string { return &b.TaxID }),
		clientNameColumn(func(b *model.EmployeeBenefit) *model.Client { return b.Client }),
		textColumn("status", "Status", func(b *model.EmployeeBenefit) **string { return &b.Status }),
		textColumn("form_fire_code", "Form Fire Code", func(b *model.EmployeeBenefit) **string { return &b.FormFireCode }),
		textColumn("enrollment_poc", "Enrollment POC", func(b *model.EmployeeBenefit) **string { return &b.EnrollmentPOC }),
		textColumn("funding", "Funding", func(b *model.EmployeeBenefit) **string { return &b.Funding }),
		intColumn("num_employees_at_renewal", "# of Employees at Renewal", func(b *model.EmployeeBenefit) **int { return &b.NumEmployeesAtRenewal }),
		textColumn("waiting_period", "Waiting Period", func(b *model.EmployeeBenefit) **string { return &b.WaitingPeriod }),
		textColumn("deductible_accumulation", "Deductible Accumulation", func(b *model.EmployeeBenefit) **string { return &b.DeductibleAccumulation }),
		textColumn("previous_carrier", "Previous Carrier", func(b *model.EmployeeBenefit) **string { return &b.PreviousCarrier }),
		textColumn("cobra_carrier", "Cobra Administrator", func(b *model.EmployeeBenefit) **string { return &b.CobraCarrier }),
		textColumn("outstanding_item", "Outstanding Item", func(b *model.EmployeeBenefit) **string { return &b.OutstandingItem }),
		textColumn("remarks", "Remarks", func(b *model.EmployeeBenefit) **string { return &b.Remarks }),
	},
	trailing: []column[model.EmployeeBenefit]{
		textColumn("employer_contribution", "Employer Contribution %", func(b *model.EmployeeBenefit) **string { return &b.EmployerContribution }),
		textColumn("employee_contribution", "Employee Contribution %", func(b *model.EmployeeBenefit) **string { return &b.EmployeeContribution }),
	},
}

var commercialMapping = sheetMapping[model.CommercialInsurance]{
	base: spreadsheet.SheetSpec{
		Name:         SheetCommercial,
		KeyField:     keyField,
		Section:      "Commercial Details",
		Repeatable:   sheetCoverages(model.CommercialCoverages, model.Repeatable),
		PlanFields:   commercialFields,
		Singles:      sheetCoverages(model.CommercialCoverages, model.Single),
		SingleFields: commercialFields,
	},
	globals: []column[model.CommercialInsurance]{
		taxIDColumn(func(c *model.CommercialInsurance) *string { return &c.TaxID }),
		clientNameColumn(func(c *model.CommercialInsurance) *model.Client { return c.Client }),
		textColumn("status", "Status", func(c *model.CommercialInsurance) **string { return &c.Status }),
		textColumn("outstanding_item", "Outstanding Item", func(c *model.CommercialInsurance) **string { return &c.OutstandingItem }),
		textColumn("remarks", "Remarks", func(c *model.CommercialInsurance) **string { return &c.Remarks }),
	},
}

func sheetCoverages(catalogue []model.CoverageType, cardinality model.Cardinality) []spreadsheet.Coverage {
	var out []spreadsheet.Coverage
	for _, ct := range model.FilterCoverages(catalogue, cardinality) {
		out = append(out, spreadsheet.Coverage{Key: ct.Prefix, Label: ct.Label})
	}
	return out
}

// Client

func clientRecord(c *model.Client) spreadsheet.Record {
	rec := spreadsheet.NewRecord()
	clientMapping.encodeGlobals(c, rec.Globals)
	return rec
}

func applyClientRecord(c *model.Client, rec spreadsheet.Record) {
	clientMapping.applyGlobals(c, rec.Globals)
}

// Employee benefits

func benefitRecord(b *model.EmployeeBenefit) spreadsheet.Record {
	rec := spreadsheet.NewRecord()
	benefitMapping.encodeGlobals(b, rec.Globals)

	for _, ct := range model.FilterCoverages(model.BenefitCoverages, model.Repeatable) {
		for _, p := range b.PlansOf(ct.Prefix) {
			rec.Plans[ct.Prefix] = append(rec.Plans[ct.Prefix], spreadsheet.Values{
				spreadsheet.FieldCarrier:         stringValue(p.Carrier),
				spreadsheet.FieldRenewalDate:     dateValue(p.RenewalDate),
				spreadsheet.FieldFlag:            p.Flag,
				spreadsheet.FieldWaitingPeriod:   stringValue(p.WaitingPeriod),
				spreadsheet.FieldRemarks:         stringValue(p.Remarks),
				spreadsheet.FieldOutstandingItem: stringValue(p.OutstandingItem),
			})
		}
	}

	for _, ct := range model.FilterCoverages(model.BenefitCoverages, model.Single) {
		cov := b.Coverage(ct.Prefix)
		rec.Singles[ct.Prefix] = spreadsheet.Values{
			spreadsheet.FieldCarrier:         stringValue(cov.Carrier),
			spreadsheet.FieldRenewalDate:     dateValue(cov.RenewalDate),
			spreadsheet.FieldFlag:            cov.Flag,
			spreadsheet.FieldRemarks:         stringValue(cov.Remarks),
			spreadsheet.FieldOutstandingItem: stringValue(cov.OutstandingItem),
		}
	}
	return rec
}

// applyBenefitRecord merges a decoded row into b. Plans are replaced for
// every repeatable type the sheet carries columns for; other types keep
// their stored plans.
func applyBenefitRecord(b *model.EmployeeBenefit, rec spreadsheet.Record) {
	benefitMapping.applyGlobals(b, rec.Globals)

	for prefix, vals := range rec.Singles {
		cov := b.Coverage(prefix)
		if cov == nil {
			continue
		}
		if s := asString(vals[spreadsheet.FieldCarrier]); s != nil {
			cov.Carrier = s
		}
		if d := asDate(vals[spreadsheet.FieldRenewalDate]); d != nil {
			cov.RenewalDate = d
		}
		if f, ok := vals[spreadsheet.FieldFlag].(bool); ok {
			cov.Flag = f
		}
		applyNotes(&cov.Remarks, &cov.OutstandingItem, vals)
	}

	var plans []model.BenefitPlan
	for _, ct := range model.FilterCoverages(model.BenefitCoverages, model.Repeatable) {
		decoded, bound := rec.Plans[ct.Prefix]
		if !bound {
			plans = append(plans, b.PlansOf(ct.Prefix)...)
			continue
		}
		for i, vals := range decoded {
			plan := model.BenefitPlan{
				PlanType:      ct.Prefix,
				PlanNumber:    i + 1,
				Carrier:       asString(vals[spreadsheet.FieldCarrier]),
				RenewalDate:   asDate(vals[spreadsheet.FieldRenewalDate]),
				WaitingPeriod: asString(vals[spreadsheet.FieldWaitingPeriod]),
			}
			applyNotes(&plan.Remarks, &plan.OutstandingItem, vals)
			plan.Flag, _ = vals[spreadsheet.FieldFlag].(bool)
			plans = append(plans, plan)
		}
	}
	b.SetPlans(plans)
}

// Commercial insurance

func commercialRecord(c *model.CommercialInsurance) spreadsheet.Record {
	rec := spreadsheet.NewRecord()
	commercialMapping.encodeGlobals(c, rec.Globals)

	for _, ct := range model.FilterCoverages(model.CommercialCoverages, model.Repeatable) {
		for _, p := range c.PlansOf(ct.Prefix) {
			rec.Plans[ct.Prefix] = append(rec.Plans[ct.Prefix], spreadsheet.Values{
				spreadsheet.FieldCarrier:         stringValue(p.Carrier),
				spreadsheet.FieldRenewalDate:     dateValue(p.RenewalDate),
				spreadsheet.FieldLimit:           stringValue(p.CoverageLimit),
				spreadsheet.FieldPremium:         decimalValue(p.Premium),
				spreadsheet.FieldFlag:            p.Flag,
				spreadsheet.FieldRemarks:         stringValue(p.Remarks),
				spreadsheet.FieldOutstandingItem: stringValue(p.OutstandingItem),
			})
		}
	}

	for _, ct := range model.FilterCoverages(model.CommercialCoverages, model.Single) {
		cov := c.Coverage(ct.Prefix)
		rec.Singles[ct.Prefix] = spreadsheet.Values{
			spreadsheet.FieldCarrier:         stringValue(cov.Carrier),
			spreadsheet.FieldRenewalDate:     dateValue(cov.RenewalDate),
			spreadsheet.FieldLimit:           stringValue(cov.Limit),
			spreadsheet.FieldPremium:         decimalValue(cov.Premium),
			spreadsheet.FieldFlag:            cov.Flag,
			spreadsheet.FieldRemarks:         stringValue(cov.Remarks),
			spreadsheet.FieldOutstandingItem: stringValue(cov.OutstandingItem),
		}
	}
	return rec
}

func applyCommercialRecord(c *model.CommercialInsurance, rec spreadsheet.Record) {
	commercialMapping.applyGlobals(c, rec.Globals)

	for prefix, vals := range rec.Singles {
		cov := c.Coverage(prefix)
		if cov == nil {
			continue
		}
		if s := asString(vals[spreadsheet.FieldCarrier]); s != nil {
			cov.Carrier = s
		}
		if s := asString(vals[spreadsheet.FieldLimit]); s != nil {
			cov.Limit = s
		}
		if d := asDecimal(vals[spreadsheet.FieldPremium]); d.Valid {
			cov.Premium = d
		}
		if d := asDate(vals[spreadsheet.FieldRenewalDate]); d != nil {
			cov.RenewalDate = d
		}
		if f, ok := vals[spreadsheet.FieldFlag].(bool); ok {
			cov.Flag = f
		}
		applyNotes(&cov.Remarks, &cov.OutstandingItem, vals)
	}

	var plans []model.CommercialPlan
	for _, ct := range model.FilterCoverages(model.CommercialCoverages, model.Repeatable) {
		decoded, bound := rec.Plans[ct.Prefix]
		if !bound {
			plans = append(plans, c.PlansOf(ct.Prefix)...)
			continue
		}
		for i, vals := range decoded {
			plan := model.CommercialPlan{
				PlanType:      ct.Prefix,
				PlanNumber:    i + 1,
				Carrier:       asString(vals[spreadsheet.FieldCarrier]),
				CoverageLimit: asString(vals[spreadsheet.FieldLimit]),
				Premium:       asDecimal(vals[spreadsheet.FieldPremium]),
				RenewalDate:   asDate(vals[spreadsheet.FieldRenewalDate]),
			}
			plan.Flag, _ = vals[spreadsheet.FieldFlag].(bool)
			applyNotes(&plan.Remarks, &plan.OutstandingItem, vals)
			plans = append(plans, plan)
		}
	}
	c.SetPlans(plans)
}

// applyNotes copies non-blank per-coverage remarks and outstanding items.
func applyNotes(remarks, outstanding **string, vals spreadsheet.Values) {
	if s := asString(vals[spreadsheet.FieldRemarks]); s != nil {
		*remarks = s
	}
	if s := asString(vals[spreadsheet.FieldOutstandingItem]); s != nil {
		*outstanding = s
	}
}

// Value conversion between model fields and codec values.

func stringValue(s *string) interface{} {
	if s == nil {
		return nil
	}
	return *s
}

func dateValue(d *model.Date) interface{} {
	if d == nil || d.IsZero() {
		return nil
	}
	return d.Time
}

func decimalValue(d decimal.NullDecimal) interface{} {
	if !d.Valid {
		return nil
	}
	return d.Decimal
}

func asString(v interface{}) *string {
	s, ok := v.(string)
	if !ok || s == "" {
		return nil
	}
	return &s
}

func asDate(v interface{}) *model.Date {
	t, ok := v.(time.Time)
	if !ok || t.IsZero() {
		return nil
	}
	d := model.DateOf(t)
	return &d
}

func asDecimal(v interface{}) decimal.NullDecimal {
	if d, ok := v.(decimal.Decimal); ok {
		return decimal.NewNullDecimal(d)
	}
	return decimal.NullDecimal{}
}
