package spreadsheet

import (
	"strconv"
	"strings"

	"github.com/ikkim/clientbook-backend/pkg/util"
	"github.com/xuri/excelize/v2"
)

// ErrorColumnHeader heads the column appended to every failed sheet.
const ErrorColumnHeader = "Error"

// RowFailure is a data row that could not be imported.
type RowFailure struct {
	Row     DataRow
	Message string
}

// FailedSheet collects the failures of one uploaded sheet.
type FailedSheet struct {
	Sheet    *Sheet
	Kinds    map[int]Kind
	Failures []RowFailure
}

// AddErrorSheet reproduces the header rows of fs.Sheet, merges included,
// appends an Error column and writes each failed row beneath with its
// original cells. Cells of date, decimal, integer and flag columns are
// written typed so the sheet can be corrected and uploaded again.
func (w *Writer) AddErrorSheet(fs FailedSheet) error {
	src := fs.Sheet
	name := src.Name
	if err := w.newSheet(name); err != nil {
		return err
	}

	headerStyle, err := w.style("header")
	if err != nil {
		return err
	}
	errorStyle, err := w.style("error")
	if err != nil {
		return err
	}

	width := 0
	for r := 0; r <= src.HeaderRow && r < len(src.Rows); r++ {
		if len(src.Rows[r]) > width {
			width = len(src.Rows[r])
		}
	}
	errorCol := width + 1

	for r := 0; r <= src.HeaderRow && r < len(src.Rows); r++ {
		row := make([]interface{}, len(src.Rows[r]))
		for i, v := range src.Rows[r] {
			if v != "" {
				row[i] = v
			}
		}
		if err := w.writeCells(name, r+1, row); err != nil {
			return err
		}
		if width > 0 {
			last, _ := excelize.CoordinatesToCellName(errorCol, r+1)
			first, _ := excelize.CoordinatesToCellName(1, r+1)
			if err := w.file.SetCellStyle(name, first, last, headerStyle); err != nil {
				return err
			}
		}
	}

	for _, m := range src.HeaderMerges() {
		if err := w.file.MergeCell(name, m.Start, m.End); err != nil {
			return err
		}
	}

	errHeader, _ := excelize.CoordinatesToCellName(errorCol, src.HeaderRow+1)
	if err := w.file.SetCellValue(name, errHeader, ErrorColumnHeader); err != nil {
		return err
	}

	dateStyle, err := w.style("date")
	if err != nil {
		return err
	}

	for i, failure := range fs.Failures {
		rowNum := src.HeaderRow + 2 + i
		row := make([]interface{}, len(failure.Row.Cells))
		for c, raw := range failure.Row.Cells {
			row[c] = typedCell(fs.Kinds[c], raw)
		}
		if err := w.writeCells(name, rowNum, row); err != nil {
			return err
		}
		for c := range failure.Row.Cells {
			if fs.Kinds[c] != KindDate || row[c] == nil {
				continue
			}
			if _, isNumber := row[c].(float64); !isNumber {
				continue
			}
			cell, _ := excelize.CoordinatesToCellName(c+1, rowNum)
			if err := w.file.SetCellStyle(name, cell, cell, dateStyle); err != nil {
				return err
			}
		}

		msgCell, _ := excelize.CoordinatesToCellName(errorCol, rowNum)
		if err := w.file.SetCellValue(name, msgCell, failure.Message); err != nil {
			return err
		}
		if err := w.file.SetCellStyle(name, msgCell, msgCell, errorStyle); err != nil {
			return err
		}
	}

	errColName, _ := excelize.ColumnNumberToName(errorCol)
	return w.file.SetColWidth(name, errColName, errColName, maxColumnWidth)
}

// typedCell restores the cell type of raw for the column kind. Text the
// kind cannot hold is written back unchanged.
func typedCell(kind Kind, raw string) interface{} {
	if raw == "" {
		return nil
	}
	trimmed := strings.TrimSpace(raw)
	switch kind {
	case KindDate, KindDecimal, KindInt:
		if f, err := strconv.ParseFloat(trimmed, 64); err == nil {
			return f
		}
	case KindBool:
		if v, ok := util.ParseFlag(trimmed); ok {
			return v
		}
	}
	return raw
}
