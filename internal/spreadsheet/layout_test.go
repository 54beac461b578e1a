package spreadsheet

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var coverageFields = []Field{
	{Key: FieldCarrier, Header: "Carrier"},
	{Key: FieldRenewalDate, Header: "Renewal Date", Kind: KindDate},
	{Key: FieldLimit, Header: "Limit"},
	{Key: FieldPremium, Header: "Premium", Kind: KindDecimal},
	{Key: FieldFlag, Header: "Flag", Kind: KindBool},
}

func testSpec() SheetSpec {
	return SheetSpec{
		Name:     "Coverage",
		KeyField: "tax_id",
		Section:  "Details",
		Globals: []Field{
			{Key: "tax_id", Header: "Tax ID"},
			{Key: "client_name", Header: "Client Name", ReadOnly: true},
			{Key: "remarks", Header: "Remarks"},
			{Key: "headcount", Header: "Headcount", Kind: KindInt},
		},
		Repeatable: []Coverage{
			{Key: "dental", Label: "Dental"},
			{Key: "cyber", Label: "Cyber"},
		},
		PlanFields:      coverageFields,
		Singles:         []Coverage{{Key: "general_liability", Label: "General Liability"}},
		SingleFields:    coverageFields,
		TrailingSection: "Contributions",
		Trailing:        []Field{{Key: "employer_contribution", Header: "Employer Contribution %"}},
		Aliases: map[string]ColumnRef{
			"Current Carrier": {Role: RolePlan, Coverage: "cyber", Slot: 0, Field: FieldCarrier},
		},
	}
}

func TestPlan_ColumnOrder(t *testing.T) {
	layout := Plan(testSpec(), map[string]int{"dental": 2})

	headers := layout.Headers()
	require.Len(t, headers, 4+2*5+5+5+1)
	assert.Equal(t, "Tax ID", headers[0])
	assert.Equal(t, "Dental 1 Carrier", headers[4])
	assert.Equal(t, "Dental 2 Carrier", headers[9])
	assert.Equal(t, "Dental 2 Flag", headers[13])
	assert.Equal(t, "Cyber 1 Carrier", headers[14])
	assert.Equal(t, "General Liability Carrier", headers[19])
	assert.Equal(t, "Employer Contribution %", headers[len(headers)-1])

	assert.Equal(t, RoleDisplay, layout.Columns[1].Role)
	assert.Equal(t, 1, layout.Columns[9].Slot)
	assert.Equal(t, map[string]int{"dental": 2, "cyber": 1}, layout.Counts)
}

func TestPlan_IsDeterministic(t *testing.T) {
	counts := map[string]int{"dental": 3, "cyber": 0}
	assert.Equal(t, Plan(testSpec(), counts).Columns, Plan(testSpec(), counts).Columns)
}

func TestLayout_Sections(t *testing.T) {
	layout := Plan(testSpec(), map[string]int{"dental": 2})

	sections := layout.Sections()
	require.Len(t, sections, 5)
	assert.Equal(t, Section{Label: "Details", First: 0, Last: 3}, sections[0])
	assert.Equal(t, Section{Label: "Dental", First: 4, Last: 13}, sections[1])
	assert.Equal(t, Section{Label: "Cyber", First: 14, Last: 18}, sections[2])
	assert.Equal(t, Section{Label: "General Liability", First: 19, Last: 23}, sections[3])
	assert.Equal(t, Section{Label: "Contributions", First: 24, Last: 24}, sections[4])
}

func TestCountsFromHeaders(t *testing.T) {
	tests := []struct {
		name    string
		headers []string
		want    map[string]int
	}{
		{
			name:    "Numbered groups",
			headers: []string{"Tax ID", "Dental 1 Carrier", " dental 3  renewal date ", "Cyber 2 Premium"},
			want:    map[string]int{"dental": 3, "cyber": 2},
		},
		{
			name:    "Legacy unnumbered group",
			headers: []string{"Dental Carrier", "Dental Renewal Date"},
			want:    map[string]int{"dental": 1, "cyber": 1},
		},
		{
			name:    "Unknown sub-field ignored",
			headers: []string{"Dental 7 Notes", "Cyber 4"},
			want:    map[string]int{"dental": 1, "cyber": 1},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CountsFromHeaders(testSpec(), tt.headers))
		})
	}
}

func TestBind_ToleratesHeaderQuirks(t *testing.T) {
	headers := []string{"Tax ID ", " Remarks", "Dental Carrier", "CYBER 1 CARRIER", "Unknown", "Tax ID", "Current Carrier"}
	layout := Plan(testSpec(), CountsFromHeaders(testSpec(), headers))

	b := Bind(layout, headers)

	keyIdx, ok := b.KeyIndex()
	require.True(t, ok)
	assert.Equal(t, 0, keyIdx)

	assert.Equal(t, "remarks", b.Columns[1].Field)
	assert.Equal(t, ColumnRef{Role: RolePlan, Coverage: "dental", Slot: 0, Field: FieldCarrier}, b.Columns[2].ColumnRef)
	assert.Equal(t, "cyber", b.Columns[3].Coverage)

	_, bound := b.Columns[4]
	assert.False(t, bound, "unknown header")
	_, bound = b.Columns[5]
	assert.False(t, bound, "duplicate header")
	_, bound = b.Columns[6]
	assert.False(t, bound, "alias of an already bound column")

	assert.Equal(t, []string{"dental", "cyber"}, b.PlanCoverages())
	assert.Equal(t, []int{0, 1, 2, 3}, b.Positions())
}

func TestBind_Alias(t *testing.T) {
	headers := []string{"Tax ID", "Current Carrier"}
	b := Bind(Plan(testSpec(), nil), headers)

	require.Contains(t, b.Columns, 1)
	assert.Equal(t, ColumnRef{Role: RolePlan, Coverage: "cyber", Slot: 0, Field: FieldCarrier}, b.Columns[1].ColumnRef)
}

func TestNormalizeHeader(t *testing.T) {
	assert.Equal(t, "client name", NormalizeHeader("  Client   Name "))
	assert.Equal(t, "", NormalizeHeader("   "))
}
