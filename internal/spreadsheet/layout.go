// Package spreadsheet turns coverage records into workbook rows and back.
//
// A SheetSpec describes a sheet declaratively: its global fields, its
// repeatable coverage types (written as numbered column groups), its
// single-instance coverage types and any trailing globals. Plan builds a
// deterministic Layout from a spec and the number of plan groups to reserve
// per repeatable type; Encode and Decode map one Record to one row under that
// Layout; Writer and Book handle the excelize side.
package spreadsheet

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Kind is the value type of a column.
type Kind int

const (
	KindText Kind = iota
	KindDate
	KindDecimal
	KindInt
	KindBool
)

// Role says which part of a Record a column belongs to.
type Role int

const (
	RoleGlobal Role = iota
	RoleDisplay
	RolePlan
	RoleSingle
)

// Sub-field keys shared by plan and single-instance column groups.
const (
	FieldCarrier         = "carrier"
	FieldRenewalDate     = "renewal_date"
	FieldLimit           = "limit"
	FieldPremium         = "premium"
	FieldFlag            = "flag"
	FieldWaitingPeriod   = "waiting_period"
	FieldRemarks         = "remarks"
	FieldOutstandingItem = "outstanding_item"
)

// Field is one column template.
type Field struct {
	Key      string
	Header   string
	Kind     Kind
	ReadOnly bool // written on export, ignored on import
}

// Coverage is a coverage type as the sheet sees it.
type Coverage struct {
	Key   string
	Label string
}

// ColumnRef identifies what a column holds independently of its position.
type ColumnRef struct {
	Role     Role
	Coverage string
	Slot     int // 0-based plan index, RolePlan only
	Field    string
}

type SheetSpec struct {
	Name            string
	KeyField        string
	Section         string
	Globals         []Field
	Repeatable      []Coverage
	PlanFields      []Field
	Singles         []Coverage
	SingleFields    []Field
	TrailingSection string
	Trailing        []Field
	// Aliases maps legacy header text to a column.
	Aliases map[string]ColumnRef
}

// Column is one planned column.
type Column struct {
	ColumnRef
	Header  string
	Section string
	Kind    Kind
}

// Layout is the ordered column list of one sheet.
type Layout struct {
	Spec    SheetSpec
	Columns []Column
	Counts  map[string]int
}

// Section is a run of adjacent columns sharing a banner label.
type Section struct {
	Label string
	First int
	Last  int
}

// Plan lays out spec with counts[coverage] plan groups per repeatable type.
// Missing or non-positive counts reserve one group. The result depends only
// on its arguments.
func Plan(spec SheetSpec, counts map[string]int) Layout {
	layout := Layout{Spec: spec, Counts: make(map[string]int, len(spec.Repeatable))}

	for _, f := range spec.Globals {
		layout.Columns = append(layout.Columns, globalColumn(f, spec.Section))
	}

	for _, cov := range spec.Repeatable {
		n := counts[cov.Key]
		if n < 1 {
			n = 1
		}
		layout.Counts[cov.Key] = n
		for slot := 0; slot < n; slot++ {
			for _, f := range spec.PlanFields {
				layout.Columns = append(layout.Columns, Column{
					ColumnRef: ColumnRef{Role: RolePlan, Coverage: cov.Key, Slot: slot, Field: f.Key},
					Header:    PlanHeader(cov, slot, f),
					Section:   cov.Label,
					Kind:      f.Kind,
				})
			}
		}
	}

	for _, cov := range spec.Singles {
		for _, f := range spec.SingleFields {
			layout.Columns = append(layout.Columns, Column{
				ColumnRef: ColumnRef{Role: RoleSingle, Coverage: cov.Key, Field: f.Key},
				Header:    SingleHeader(cov, f),
				Section:   cov.Label,
				Kind:      f.Kind,
			})
		}
	}

	for _, f := range spec.Trailing {
		layout.Columns = append(layout.Columns, globalColumn(f, spec.TrailingSection))
	}

	return layout
}

func globalColumn(f Field, section string) Column {
	role := RoleGlobal
	if f.ReadOnly {
		role = RoleDisplay
	}
	return Column{
		ColumnRef: ColumnRef{Role: role, Field: f.Key},
		Header:    f.Header,
		Section:   section,
		Kind:      f.Kind,
	}
}

// PlanHeader names a plan column, e.g. "Dental 2 Carrier".
func PlanHeader(cov Coverage, slot int, f Field) string {
	return fmt.Sprintf("%s %d %s", cov.Label, slot+1, f.Header)
}

// SingleHeader names a single-instance column, e.g. "LTD Renewal Date".
func SingleHeader(cov Coverage, f Field) string {
	return cov.Label + " " + f.Header
}

// Headers returns the column-name row.
func (l Layout) Headers() []string {
	out := make([]string, len(l.Columns))
	for i, c := range l.Columns {
		out[i] = c.Header
	}
	return out
}

// Sections groups adjacent columns with the same banner label.
func (l Layout) Sections() []Section {
	var out []Section
	for i, c := range l.Columns {
		if n := len(out); n > 0 && out[n-1].Label == c.Section {
			out[n-1].Last = i
			continue
		}
		out = append(out, Section{Label: c.Section, First: i, Last: i})
	}
	return out
}

// Index returns the position of ref in the layout.
func (l Layout) Index(ref ColumnRef) (int, bool) {
	for i, c := range l.Columns {
		if c.ColumnRef == ref {
			return i, true
		}
	}
	return -1, false
}

// NormalizeHeader lowercases and collapses whitespace so that historical
// headers such as " Phone Number" or "Client Name " still match.
func NormalizeHeader(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}

// CountsFromHeaders reads the number of plan groups per repeatable type from
// an existing header row. A legacy unnumbered group counts as one.
func CountsFromHeaders(spec SheetSpec, headers []string) map[string]int {
	counts := make(map[string]int, len(spec.Repeatable))
	fieldHeaders := make(map[string]bool, len(spec.PlanFields))
	for _, f := range spec.PlanFields {
		fieldHeaders[NormalizeHeader(f.Header)] = true
	}

	for _, raw := range headers {
		h := NormalizeHeader(raw)
		for _, cov := range spec.Repeatable {
			prefix := NormalizeHeader(cov.Label) + " "
			if !strings.HasPrefix(h, prefix) {
				continue
			}
			rest := h[len(prefix):]
			n := 1
			if num, tail, ok := strings.Cut(rest, " "); ok {
				if v, err := strconv.Atoi(num); err == nil {
					n, rest = v, tail
				}
			}
			if fieldHeaders[rest] && n > counts[cov.Key] {
				counts[cov.Key] = n
			}
		}
	}

	for _, cov := range spec.Repeatable {
		if counts[cov.Key] < 1 {
			counts[cov.Key] = 1
		}
	}
	return counts
}

// Binding maps sheet column positions to layout columns.
type Binding struct {
	Layout  Layout
	Columns map[int]Column
}

// Bind matches a header row against layout. Matching ignores case and
// surrounding or repeated whitespace; legacy headers resolve through the
// spec's aliases and the unnumbered "<Label> <Field>" form of plan slot 1.
// When a header appears twice the first occurrence wins.
func Bind(layout Layout, headers []string) Binding {
	lookup := make(map[string]Column, len(layout.Columns))
	for _, c := range layout.Columns {
		lookup[NormalizeHeader(c.Header)] = c
	}

	byRef := make(map[ColumnRef]Column, len(layout.Columns))
	for _, c := range layout.Columns {
		byRef[c.ColumnRef] = c
	}
	for _, cov := range layout.Spec.Repeatable {
		for _, f := range layout.Spec.PlanFields {
			legacy := NormalizeHeader(cov.Label + " " + f.Header)
			ref := ColumnRef{Role: RolePlan, Coverage: cov.Key, Slot: 0, Field: f.Key}
			if _, taken := lookup[legacy]; !taken {
				lookup[legacy] = byRef[ref]
			}
		}
	}
	for alias, ref := range layout.Spec.Aliases {
		if c, ok := byRef[ref]; ok {
			if _, taken := lookup[NormalizeHeader(alias)]; !taken {
				lookup[NormalizeHeader(alias)] = c
			}
		}
	}

	b := Binding{Layout: layout, Columns: make(map[int]Column)}
	seen := make(map[ColumnRef]bool)
	for i, h := range headers {
		c, ok := lookup[NormalizeHeader(h)]
		if !ok || seen[c.ColumnRef] {
			continue
		}
		seen[c.ColumnRef] = true
		b.Columns[i] = c
	}
	return b
}

// KeyIndex returns the sheet position of the natural key column.
func (b Binding) KeyIndex() (int, bool) {
	for i, c := range b.Columns {
		if c.Role == RoleGlobal && c.Field == b.Layout.Spec.KeyField {
			return i, true
		}
	}
	return -1, false
}

// PlanCoverages returns the repeatable types with at least one bound column,
// in spec order.
func (b Binding) PlanCoverages() []string {
	bound := make(map[string]bool)
	for _, c := range b.Columns {
		if c.Role == RolePlan {
			bound[c.Coverage] = true
		}
	}
	var out []string
	for _, cov := range b.Layout.Spec.Repeatable {
		if bound[cov.Key] {
			out = append(out, cov.Key)
		}
	}
	return out
}

// Kinds returns the value kind of every bound sheet position.
func (b Binding) Kinds() map[int]Kind {
	out := make(map[int]Kind, len(b.Columns))
	for i, c := range b.Columns {
		out[i] = c.Kind
	}
	return out
}

// Positions returns the bound sheet positions in ascending order.
func (b Binding) Positions() []int {
	out := make([]int, 0, len(b.Columns))
	for i := range b.Columns {
		out = append(out, i)
	}
	sort.Ints(out)
	return out
}
