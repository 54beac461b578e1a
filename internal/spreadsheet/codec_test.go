package spreadsheet

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func cellAt(t *testing.T, layout Layout, row []interface{}, ref ColumnRef) interface{} {
	t.Helper()
	idx, ok := layout.Index(ref)
	require.True(t, ok, "column %+v", ref)
	return row[idx]
}

func planRef(cov string, slot int, field string) ColumnRef {
	return ColumnRef{Role: RolePlan, Coverage: cov, Slot: slot, Field: field}
}

func singleRef(cov, field string) ColumnRef {
	return ColumnRef{Role: RoleSingle, Coverage: cov, Field: field}
}

func TestEncode_PlaceholdersOnlyForPresentGroups(t *testing.T) {
	layout := Plan(testSpec(), map[string]int{"dental": 2})
	renewal := time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)

	rec := NewRecord()
	rec.Globals["tax_id"] = "12-3456789"
	rec.Globals["client_name"] = "Acme Corp"
	rec.Plans["dental"] = []Values{{FieldCarrier: "Delta Dental"}}
	rec.Singles["general_liability"] = Values{FieldRenewalDate: renewal}

	row := Encode(layout, rec)
	require.Len(t, row, len(layout.Columns))

	assert.Equal(t, "12-3456789", row[0])
	assert.Equal(t, "Acme Corp", row[1])
	assert.Equal(t, "Delta Dental", cellAt(t, layout, row, planRef("dental", 0, FieldCarrier)))
	assert.Equal(t, "N/A", cellAt(t, layout, row, planRef("dental", 0, FieldLimit)))
	assert.Equal(t, 0, cellAt(t, layout, row, planRef("dental", 0, FieldPremium)))
	assert.Nil(t, cellAt(t, layout, row, planRef("dental", 0, FieldRenewalDate)))
	assert.Nil(t, cellAt(t, layout, row, planRef("dental", 1, FieldCarrier)))
	assert.Nil(t, cellAt(t, layout, row, planRef("cyber", 0, FieldCarrier)))

	assert.Equal(t, "None", cellAt(t, layout, row, singleRef("general_liability", FieldCarrier)))
	assert.Equal(t, renewal, cellAt(t, layout, row, singleRef("general_liability", FieldRenewalDate)))
}

func TestEncode_SingleWithoutCarrierKeepsStoredValues(t *testing.T) {
	layout := Plan(testSpec(), nil)
	rec := NewRecord()
	rec.Singles["general_liability"] = Values{
		FieldLimit:   "1M",
		FieldPremium: decimal.RequireFromString("1800"),
		FieldFlag:    true,
	}

	row := Encode(layout, rec)
	assert.Nil(t, cellAt(t, layout, row, singleRef("general_liability", FieldCarrier)))
	assert.Nil(t, cellAt(t, layout, row, singleRef("general_liability", FieldRenewalDate)))
	assert.Equal(t, "1M", cellAt(t, layout, row, singleRef("general_liability", FieldLimit)))
	assert.Equal(t, 1800.0, cellAt(t, layout, row, singleRef("general_liability", FieldPremium)))
	assert.Equal(t, true, cellAt(t, layout, row, singleRef("general_liability", FieldFlag)))
}

func TestEncode_EmptySingleStaysBlank(t *testing.T) {
	layout := Plan(testSpec(), nil)
	rec := NewRecord()
	rec.Singles["general_liability"] = Values{FieldFlag: false}

	row := Encode(layout, rec)
	for _, field := range []string{FieldCarrier, FieldLimit, FieldPremium, FieldFlag} {
		assert.Nil(t, cellAt(t, layout, row, singleRef("general_liability", field)), field)
	}
}

func TestParseCell(t *testing.T) {
	tests := []struct {
		name string
		kind Kind
		raw  string
		want interface{}
	}{
		{name: "Text verbatim", kind: KindText, raw: " Acme ", want: " Acme "},
		{name: "Text sentinel None", kind: KindText, raw: "None", want: nil},
		{name: "Text sentinel N/A", kind: KindText, raw: "n/a", want: nil},
		{name: "Blank", kind: KindText, raw: "   ", want: nil},
		{name: "Excel serial", kind: KindDate, raw: "45658", want: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)},
		{name: "ISO date", kind: KindDate, raw: "2025-07-01", want: time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)},
		{name: "US date", kind: KindDate, raw: "7/1/2025", want: time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)},
		{name: "Bad date", kind: KindDate, raw: "soon", want: nil},
		{name: "Money", kind: KindDecimal, raw: "$2,450.50", want: decimal.RequireFromString("2450.50")},
		{name: "Negative money", kind: KindDecimal, raw: "(10.00)", want: nil},
		{name: "Money sentinel", kind: KindDecimal, raw: "N/A", want: nil},
		{name: "Integer", kind: KindInt, raw: "42", want: 42},
		{name: "Integer with zero fraction", kind: KindInt, raw: "42.0", want: 42},
		{name: "Fractional integer", kind: KindInt, raw: "12.7", want: nil},
		{name: "Flag", kind: KindBool, raw: "Yes", want: true},
		{name: "Raw boolean", kind: KindBool, raw: "0", want: false},
		{name: "Bad flag", kind: KindBool, raw: "maybe", want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseCell(tt.kind, tt.raw)
			if want, ok := tt.want.(decimal.Decimal); ok {
				require.IsType(t, decimal.Decimal{}, got)
				assert.True(t, want.Equal(got.(decimal.Decimal)), "got %v", got)
				return
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDecode_PresenceAndSentinels(t *testing.T) {
	layout := Plan(testSpec(), map[string]int{"dental": 3})
	headers := layout.Headers()
	b := Bind(layout, headers)

	cells := make([]string, len(headers))
	set := func(ref ColumnRef, v string) {
		idx, ok := layout.Index(ref)
		require.True(t, ok)
		cells[idx] = v
	}
	cells[0] = "12-3456789"
	cells[1] = "Ignored Name"
	set(planRef("dental", 0, FieldCarrier), "None")
	set(planRef("dental", 0, FieldLimit), "5M")
	set(planRef("dental", 1, FieldCarrier), "MetLife")
	set(planRef("dental", 2, FieldRenewalDate), "2026-01-01")
	set(singleRef("general_liability", FieldCarrier), "None")
	set(singleRef("general_liability", FieldLimit), "N/A")

	rec := Decode(b, cells)

	assert.Equal(t, "12-3456789", rec.Globals["tax_id"])
	assert.NotContains(t, rec.Globals, "client_name")

	dental := rec.Plans["dental"]
	require.Len(t, dental, 2, "slot with only a limit is not present")
	assert.Equal(t, "MetLife", dental[0][FieldCarrier])
	assert.Nil(t, dental[1][FieldCarrier])
	assert.Equal(t, time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC), dental[1][FieldRenewalDate])

	cyber, bound := rec.Plans["cyber"]
	assert.True(t, bound)
	assert.Empty(t, cyber)

	gl := rec.Singles["general_liability"]
	assert.False(t, IsPresent(gl))
	assert.Nil(t, gl[FieldCarrier])
	assert.Nil(t, gl[FieldLimit])
}

func TestEncodeDecode_CarrierOnlyPlanSurvives(t *testing.T) {
	layout := Plan(testSpec(), map[string]int{"dental": 1})
	rec := NewRecord()
	rec.Globals["tax_id"] = "12-3456789"
	rec.Plans["dental"] = []Values{{FieldCarrier: "Delta Dental"}}

	row := Encode(layout, rec)
	cells := make([]string, len(row))
	for i, v := range row {
		switch val := v.(type) {
		case string:
			cells[i] = val
		case int:
			cells[i] = "0"
		}
	}

	decoded := Decode(Bind(layout, layout.Headers()), cells)

	dental := decoded.Plans["dental"]
	require.Len(t, dental, 1)
	assert.Equal(t, "Delta Dental", dental[0][FieldCarrier])
	assert.Nil(t, dental[0][FieldRenewalDate])
	assert.Nil(t, dental[0][FieldLimit], "N/A placeholder decodes to blank")
}

func TestDecode_ShortRow(t *testing.T) {
	layout := Plan(testSpec(), nil)
	rec := Decode(Bind(layout, layout.Headers()), []string{"12-3456789"})

	assert.Equal(t, "12-3456789", rec.Globals["tax_id"])
	assert.Empty(t, rec.Plans["dental"])
}
