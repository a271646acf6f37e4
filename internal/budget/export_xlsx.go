package budget

import (
	"fmt"
	"io"

	"github.com/rotisserie/eris"
	"github.com/xuri/excelize/v2"
)

const xlsxSheet = "Orçamento"

// WriteXLSX writes b as a single-sheet workbook: title and date, the column
// header row, one row per line and a closing "Total Global" row.
func WriteXLSX(b *Budget, info ExportInfo, w io.Writer) error {
	snap := snapshotOf(b)

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), xlsxSheet); err != nil {
		return eris.Wrap(err, "budget: set sheet name")
	}

	columns := []string{"A", "B", "C", "D", "E", "F", "G", "H", "I"}
	lastCol := columns[len(columns)-1]
	widths := []float64{6, 12, 50, 14, 10, 10, 14, 9, 16}
	for i, col := range columns {
		if err := f.SetColWidth(xlsxSheet, col, col, widths[i]); err != nil {
			return eris.Wrapf(err, "budget: set col width %s", col)
		}
	}

	titleStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true, Size: 14}})
	if err != nil {
		return eris.Wrap(err, "budget: title style")
	}
	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "#FFFFFF", Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#333333"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
		Border:    thinBorders(),
	})
	if err != nil {
		return eris.Wrap(err, "budget: header style")
	}
	textStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Size: 10}, Border: thinBorders()})
	if err != nil {
		return eris.Wrap(err, "budget: text style")
	}
	// NumFmt 4 is "#,##0.00".
	numStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Size: 10}, Border: thinBorders(), NumFmt: 4})
	if err != nil {
		return eris.Wrap(err, "budget: number style")
	}
	totalStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true, Size: 11}, NumFmt: 4})
	if err != nil {
		return eris.Wrap(err, "budget: total style")
	}

	if err := f.MergeCell(xlsxSheet, "A1", lastCol+"1"); err != nil {
		return eris.Wrap(err, "budget: merge title")
	}
	f.SetCellValue(xlsxSheet, "A1", sanitizeCell(info.title()))
	f.SetCellStyle(xlsxSheet, "A1", lastCol+"1", titleStyle)
	f.SetCellValue(xlsxSheet, "A2", "Data: "+info.date())

	for i, h := range exportHeaders {
		f.SetCellValue(xlsxSheet, columns[i]+"3", h)
	}
	f.SetCellStyle(xlsxSheet, "A3", lastCol+"3", headerStyle)

	row := 4
	for _, l := range snap.lines {
		r := fmt.Sprint(row)
		f.SetCellValue(xlsxSheet, "A"+r, l.Seq)
		f.SetCellValue(xlsxSheet, "B"+r, sanitizeCell(l.Code))
		f.SetCellValue(xlsxSheet, "C"+r, sanitizeCell(l.Description))
		f.SetCellValue(xlsxSheet, "D"+r, sanitizeCell(string(l.Kind)))
		f.SetCellValue(xlsxSheet, "E"+r, sanitizeCell(l.Unit))
		f.SetCellValue(xlsxSheet, "F"+r, l.Quantity.InexactFloat64())
		f.SetCellValue(xlsxSheet, "G"+r, l.UnitPrice.InexactFloat64())
		f.SetCellValue(xlsxSheet, "H"+r, l.BDI.InexactFloat64())
		f.SetCellValue(xlsxSheet, "I"+r, l.Total.Round(2).InexactFloat64())
		f.SetCellStyle(xlsxSheet, "A"+r, "E"+r, textStyle)
		f.SetCellStyle(xlsxSheet, "F"+r, "I"+r, numStyle)
		row++
	}

	r := fmt.Sprint(row)
	f.SetCellValue(xlsxSheet, "H"+r, "Total Global")
	f.SetCellValue(xlsxSheet, "I"+r, snap.total.Round(2).InexactFloat64())
	f.SetCellStyle(xlsxSheet, "H"+r, "I"+r, totalStyle)

	if err := f.Write(w); err != nil {
		return eris.Wrap(err, "budget: write xlsx")
	}
	return nil
}

// sanitizeCell prefixes text that Excel would read as a formula.
func sanitizeCell(s string) string {
	if s == "" {
		return s
	}
	switch s[0] {
	case '=', '+', '-', '@', '\t', '\r', '|':
		return "'" + s
	}
	return s
}

func thinBorders() []excelize.Border {
	sides := []string{"left", "top", "bottom", "right"}
	borders := make([]excelize.Border, len(sides))
	for i, side := range sides {
		borders[i] = excelize.Border{Type: side, Color: "#000000", Style: 1}
	}
	return borders
}
