package spreadsheet

import (
	"strconv"
	"strings"
	"time"

	"github.com/ikkim/clientbook-backend/pkg/util"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

// Values holds field values keyed by field key. Text is string, dates are
// time.Time, decimals are decimal.Decimal, integers int and flags bool. A
// missing key or nil value means blank.
type Values map[string]interface{}

// Record is the sheet-neutral form of one row.
type Record struct {
	Globals Values
	Plans   map[string][]Values
	Singles map[string]Values
}

func NewRecord() Record {
	return Record{
		Globals: Values{},
		Plans:   map[string][]Values{},
		Singles: map[string]Values{},
	}
}

// Placeholders written into a present coverage group for blank sub-fields.
var placeholders = map[string]interface{}{
	FieldCarrier: "None",
	FieldLimit:   "N/A",
	FieldPremium: 0,
}

// Encode renders rec as one row aligned with layout.Columns. Blank cells are
// nil. Stored values are always written; placeholders fill only the blank
// sub-fields of present groups.
func Encode(layout Layout, rec Record) []interface{} {
	row := make([]interface{}, len(layout.Columns))
	for i, col := range layout.Columns {
		switch col.Role {
		case RoleGlobal, RoleDisplay:
			row[i] = cellValue(col.Kind, rec.Globals[col.Field])
		case RolePlan:
			plans := rec.Plans[col.Coverage]
			if col.Slot < len(plans) {
				row[i] = presentValue(col, plans[col.Slot][col.Field])
			}
		case RoleSingle:
			vals := rec.Singles[col.Coverage]
			if IsPresent(vals) {
				row[i] = presentValue(col, vals[col.Field])
			} else {
				row[i] = cellValue(col.Kind, vals[col.Field])
			}
		}
	}
	return row
}

func presentValue(col Column, v interface{}) interface{} {
	if out := cellValue(col.Kind, v); out != nil {
		return out
	}
	return placeholders[col.Field]
}

func cellValue(kind Kind, v interface{}) interface{} {
	switch val := v.(type) {
	case nil:
		return nil
	case string:
		if val == "" {
			return nil
		}
		return val
	case *string:
		if val == nil || *val == "" {
			return nil
		}
		return *val
	case time.Time:
		if val.IsZero() {
			return nil
		}
		return util.TruncateDate(val)
	case decimal.Decimal:
		return val.InexactFloat64()
	case decimal.NullDecimal:
		if !val.Valid {
			return nil
		}
		return val.Decimal.InexactFloat64()
	case bool:
		if kind == KindBool && !val {
			return nil
		}
		return val
	default:
		return val
	}
}

// IsPresent reports whether a coverage group has a carrier or a renewal date.
func IsPresent(vals Values) bool {
	return vals[FieldCarrier] != nil || vals[FieldRenewalDate] != nil
}

// Decode reads one data row through binding. Sentinel text and unparseable
// dates, numbers and flags decode as blank. Plan slots keep their sheet
// order; a slot is dropped unless it is present. Every bound repeatable
// type gets an entry in Plans, empty when no slot is present.
func Decode(b Binding, cells []string) Record {
	rec := NewRecord()
	slots := make(map[string]map[int]Values)

	for _, i := range b.Positions() {
		col := b.Columns[i]
		if col.Role == RoleDisplay {
			continue
		}
		var raw string
		if i < len(cells) {
			raw = cells[i]
		}
		v := ParseCell(col.Kind, raw)

		switch col.Role {
		case RoleGlobal:
			if v != nil {
				rec.Globals[col.Field] = v
			}
		case RolePlan:
			if slots[col.Coverage] == nil {
				slots[col.Coverage] = make(map[int]Values)
			}
			if slots[col.Coverage][col.Slot] == nil {
				slots[col.Coverage][col.Slot] = Values{}
			}
			if v != nil {
				slots[col.Coverage][col.Slot][col.Field] = v
			}
		case RoleSingle:
			if rec.Singles[col.Coverage] == nil {
				rec.Singles[col.Coverage] = Values{}
			}
			if v != nil {
				rec.Singles[col.Coverage][col.Field] = v
			}
		}
	}

	for _, cov := range b.PlanCoverages() {
		plans := []Values{}
		for slot := 0; slot < b.Layout.Counts[cov]; slot++ {
			if vals, ok := slots[cov][slot]; ok && IsPresent(vals) {
				plans = append(plans, vals)
			}
		}
		rec.Plans[cov] = plans
	}
	return rec
}

// excelDateLimit is the serial of 9999-12-31.
const excelDateLimit = 2958465

// ParseCell converts raw cell text to a value of kind, or nil when blank or
// unreadable. Text passes through unchanged unless it is blank or a sentinel.
func ParseCell(kind Kind, raw string) interface{} {
	if strings.TrimSpace(raw) == "" || util.IsSentinel(raw) {
		return nil
	}

	switch kind {
	case KindDate:
		if serial, err := strconv.ParseFloat(strings.TrimSpace(raw), 64); err == nil && serial > 0 && serial <= excelDateLimit {
			if t, err := excelize.ExcelDateToTime(serial, false); err == nil {
				return util.TruncateDate(t)
			}
		}
		if t, ok := util.ParseDate(raw); ok {
			return t
		}
		return nil
	case KindDecimal:
		if d, ok := util.ParseMoney(raw); ok {
			return d
		}
		return nil
	case KindInt:
		if d, ok := util.ParseMoney(raw); ok && d.IsInteger() {
			return int(d.IntPart())
		}
		return nil
	case KindBool:
		if v, ok := util.ParseFlag(raw); ok {
			return v
		}
		return nil
	default:
		return raw
	}
}
