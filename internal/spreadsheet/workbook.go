package spreadsheet

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

// ContentType is the MIME type of the workbooks this package writes.
const ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

const (
	bannerRow    = 1
	headerRow    = 2
	firstDataRow = 3

	minColumnWidth = 12.0
	maxColumnWidth = 40.0
)

var (
	dateFormat  = "yyyy-mm-dd"
	moneyFormat = "#,##0.00"
)

// Writer assembles a workbook one sheet at a time.
type Writer struct {
	file       *excelize.File
	styleCache map[string]int
	sheets     int
}

func NewWriter() *Writer {
	return &Writer{
		file:       excelize.NewFile(),
		styleCache: make(map[string]int),
	}
}

// AddSheet writes a banner row of merged section labels, the header row and
// one row per entry of rows. Rows must be aligned with layout.Columns.
func (w *Writer) AddSheet(layout Layout, rows [][]interface{}) error {
	name := layout.Spec.Name
	if err := w.newSheet(name); err != nil {
		return err
	}

	bannerStyle, err := w.style("banner")
	if err != nil {
		return err
	}
	headerStyle, err := w.style("header")
	if err != nil {
		return err
	}

	for _, sec := range layout.Sections() {
		first, _ := excelize.CoordinatesToCellName(sec.First+1, bannerRow)
		last, _ := excelize.CoordinatesToCellName(sec.Last+1, bannerRow)
		if err := w.file.SetCellValue(name, first, sec.Label); err != nil {
			return err
		}
		if sec.Last > sec.First {
			if err := w.file.MergeCell(name, first, last); err != nil {
				return err
			}
		}
		if err := w.file.SetCellStyle(name, first, last, bannerStyle); err != nil {
			return err
		}
	}

	headers := layout.Headers()
	if len(headers) == 0 {
		return nil
	}
	if err := w.file.SetSheetRow(name, "A2", &headers); err != nil {
		return err
	}
	lastHeader, _ := excelize.CoordinatesToCellName(len(headers), headerRow)
	if err := w.file.SetCellStyle(name, "A2", lastHeader, headerStyle); err != nil {
		return err
	}

	for r, row := range rows {
		if err := w.writeCells(name, firstDataRow+r, row); err != nil {
			return err
		}
	}

	kinds := make([]Kind, len(layout.Columns))
	for i, c := range layout.Columns {
		kinds[i] = c.Kind
	}
	if err := w.styleColumns(name, kinds, firstDataRow, firstDataRow+len(rows)-1); err != nil {
		return err
	}
	if err := w.sizeColumns(name, headers); err != nil {
		return err
	}

	return w.file.SetPanes(name, &excelize.Panes{
		Freeze:      true,
		YSplit:      headerRow,
		TopLeftCell: "A3",
		ActivePane:  "bottomLeft",
	})
}

func (w *Writer) newSheet(name string) error {
	w.sheets++
	if w.sheets == 1 {
		return w.file.SetSheetName(w.file.GetSheetName(0), name)
	}
	_, err := w.file.NewSheet(name)
	return err
}

func (w *Writer) writeCells(sheet string, row int, cells []interface{}) error {
	for c, v := range cells {
		if v == nil {
			continue
		}
		cell, err := excelize.CoordinatesToCellName(c+1, row)
		if err != nil {
			return err
		}
		if err := w.file.SetCellValue(sheet, cell, v); err != nil {
			return fmt.Errorf("write %s!%s: %w", sheet, cell, err)
		}
	}
	return nil
}

// styleColumns applies number formats to date and decimal columns over rows first..last.
func (w *Writer) styleColumns(sheet string, kinds []Kind, first, last int) error {
	if last < first {
		return nil
	}
	for c, kind := range kinds {
		var key string
		switch kind {
		case KindDate:
			key = "date"
		case KindDecimal:
			key = "money"
		default:
			continue
		}
		styleID, err := w.style(key)
		if err != nil {
			return err
		}
		top, _ := excelize.CoordinatesToCellName(c+1, first)
		bottom, _ := excelize.CoordinatesToCellName(c+1, last)
		if err := w.file.SetCellStyle(sheet, top, bottom, styleID); err != nil {
			return err
		}
	}
	return nil
}

func (w *Writer) sizeColumns(sheet string, headers []string) error {
	for i, h := range headers {
		width := float64(len(h)) + 2
		if width < minColumnWidth {
			width = minColumnWidth
		}
		if width > maxColumnWidth {
			width = maxColumnWidth
		}
		col, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return err
		}
		if err := w.file.SetColWidth(sheet, col, col, width); err != nil {
			return err
		}
	}
	return nil
}

func (w *Writer) style(key string) (int, error) {
	if id, ok := w.styleCache[key]; ok {
		return id, nil
	}

	var style *excelize.Style
	switch key {
	case "banner":
		style = &excelize.Style{
			Font:      &excelize.Font{Bold: true, Color: "FFFFFF"},
			Fill:      excelize.Fill{Type: "pattern", Color: []string{"1F4E78"}, Pattern: 1},
			Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
		}
	case "header":
		style = &excelize.Style{
			Font:      &excelize.Font{Bold: true},
			Fill:      excelize.Fill{Type: "pattern", Color: []string{"D9E1F2"}, Pattern: 1},
			Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center", WrapText: true},
			Border: []excelize.Border{
				{Type: "bottom", Color: "8EA9DB", Style: 1},
			},
		}
	case "error":
		style = &excelize.Style{
			Font: &excelize.Font{Color: "9C0006"},
			Fill: excelize.Fill{Type: "pattern", Color: []string{"FFC7CE"}, Pattern: 1},
		}
	case "date":
		style = &excelize.Style{CustomNumFmt: &dateFormat}
	case "money":
		style = &excelize.Style{CustomNumFmt: &moneyFormat}
	default:
		return 0, fmt.Errorf("unknown style %q", key)
	}

	id, err := w.file.NewStyle(style)
	if err != nil {
		return 0, err
	}
	w.styleCache[key] = id
	return id, nil
}

// Bytes serializes the workbook.
func (w *Writer) Bytes() ([]byte, error) {
	buf, err := w.file.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (w *Writer) Close() error {
	return w.file.Close()
}
