package spreadsheet

import (
	"errors"
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

// ErrUnreadable is returned when the upload cannot be opened as a workbook.
var ErrUnreadable = errors.New("workbook could not be read")

// headerSearchRows bounds how far down the column-name row may sit.
const headerSearchRows = 2

// Merge is a merged range copied from a sheet's header rows.
type Merge struct {
	Start string
	End   string
	Value string
}

// Sheet is one worksheet loaded as raw cell text.
type Sheet struct {
	Name string
	Rows [][]string
	// HeaderRow is the 0-based index of the column-name row, -1 until located.
	HeaderRow int
	Merges    []Merge
}

// DataRow is one row below the header.
type DataRow struct {
	Number int // 1-based sheet row number
	Cells  []string
}

// Book is an opened upload.
type Book struct {
	sheets []*Sheet
}

// Open reads every sheet of r. Cell text is read raw so that dates arrive as
// serial numbers and numbers without display formatting.
func Open(r io.Reader) (*Book, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnreadable, err)
	}
	defer f.Close()

	book := &Book{}
	for _, name := range f.GetSheetList() {
		rows, err := f.GetRows(name, excelize.Options{RawCellValue: true})
		if err != nil {
			return nil, fmt.Errorf("%w: sheet %q: %v", ErrUnreadable, name, err)
		}
		sheet := &Sheet{Name: name, Rows: rows, HeaderRow: -1}

		merges, err := f.GetMergeCells(name)
		if err != nil {
			return nil, fmt.Errorf("%w: sheet %q merges: %v", ErrUnreadable, name, err)
		}
		for _, mc := range merges {
			sheet.Merges = append(sheet.Merges, Merge{
				Start: mc.GetStartAxis(),
				End:   mc.GetEndAxis(),
				Value: mc.GetCellValue(),
			})
		}
		book.sheets = append(book.sheets, sheet)
	}
	return book, nil
}

// Sheet returns the sheet called name, compared like headers.
func (b *Book) Sheet(name string) (*Sheet, bool) {
	want := NormalizeHeader(name)
	for _, s := range b.sheets {
		if NormalizeHeader(s.Name) == want {
			return s, true
		}
	}
	return nil, false
}

// SheetNames lists the sheets in workbook order.
func (b *Book) SheetNames() []string {
	names := make([]string, len(b.sheets))
	for i, s := range b.sheets {
		names[i] = s.Name
	}
	return names
}

// LocateHeader finds the column-name row: the first of the top rows holding
// a cell equal to keyHeader. A title banner above it is allowed.
func (s *Sheet) LocateHeader(keyHeader string) bool {
	want := NormalizeHeader(keyHeader)
	for i := 0; i < len(s.Rows) && i < headerSearchRows; i++ {
		for _, cell := range s.Rows[i] {
			if NormalizeHeader(cell) == want {
				s.HeaderRow = i
				return true
			}
		}
	}
	return false
}

// Headers returns the column-name row, or nil before LocateHeader succeeds.
func (s *Sheet) Headers() []string {
	if s.HeaderRow < 0 || s.HeaderRow >= len(s.Rows) {
		return nil
	}
	return s.Rows[s.HeaderRow]
}

// HeaderMerges returns the merged ranges lying entirely within the rows up
// to and including the header row.
func (s *Sheet) HeaderMerges() []Merge {
	var out []Merge
	for _, m := range s.Merges {
		_, endRow, err := excelize.CellNameToCoordinates(m.End)
		if err != nil {
			continue
		}
		if endRow <= s.HeaderRow+1 {
			out = append(out, m)
		}
	}
	return out
}

// DataRows returns the non-blank rows below the header.
func (s *Sheet) DataRows() []DataRow {
	if s.HeaderRow < 0 {
		return nil
	}
	var out []DataRow
	for i := s.HeaderRow + 1; i < len(s.Rows); i++ {
		if isBlankRow(s.Rows[i]) {
			continue
		}
		out = append(out, DataRow{Number: i + 1, Cells: s.Rows[i]})
	}
	return out
}

func isBlankRow(cells []string) bool {
	for _, c := range cells {
		if NormalizeHeader(c) != "" {
			return false
		}
	}
	return true
}
