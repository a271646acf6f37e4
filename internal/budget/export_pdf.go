package budget

import (
	"fmt"

	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/orientation"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/rotisserie/eris"

	"github.com/sells-group/budget-cli/internal/model"
)

// pdfWidths are the grid widths (out of 12) of exportHeaders.
var pdfWidths = []int{1, 1, 3, 1, 1, 1, 1, 1, 2}

// RenderPDF renders b as a landscape A4 document.
func RenderPDF(b *Budget, info ExportInfo) ([]byte, error) {
	snap := snapshotOf(b)

	cfg := config.NewBuilder().
		WithOrientation(orientation.Horizontal).
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).
		WithTopMargin(10).
		WithRightMargin(10).
		WithPageNumber(props.PageNumber{
			Pattern: "Página {current} de {total}",
			Place:   props.RightBottom,
			Size:    7,
			Color:   &props.Color{Red: 120, Green: 120, Blue: 120},
		}).
		Build()

	m := maroto.New(cfg)

	m.AddRows(
		row.New(12).Add(
			col.New(12).Add(text.New(info.title(), props.Text{Size: 16, Style: fontstyle.Bold, Align: align.Center})),
		),
		row.New(8).Add(
			col.New(12).Add(text.New("Data: "+info.date(), props.Text{
				Size:  9,
				Align: align.Right,
				Color: &props.Color{Red: 80, Green: 80, Blue: 80},
			})),
		),
		row.New(4),
	)

	addPDFHeader(m)
	for _, l := range snap.lines {
		addPDFLine(m, l)
	}

	summaryCell := &props.Cell{BackgroundColor: &props.Color{Red: 240, Green: 240, Blue: 240}}
	bold := props.Text{Size: 9, Style: fontstyle.Bold, Align: align.Right}
	m.AddRows(
		row.New(6),
		row.New(8).Add(
			col.New(10).Add(text.New("Total Global", bold)).WithStyle(summaryCell),
			col.New(2).Add(text.New(FormatBRL(snap.total), bold)).WithStyle(summaryCell),
		),
	)

	doc, err := m.Generate()
	if err != nil {
		return nil, eris.Wrap(err, "budget: generate pdf")
	}
	return doc.GetBytes(), nil
}

func addPDFHeader(m core.Maroto) {
	headerCell := &props.Cell{BackgroundColor: &props.Color{Red: 33, Green: 37, Blue: 41}}
	headerText := props.Text{
		Size:  8,
		Style: fontstyle.Bold,
		Align: align.Center,
		Color: &props.Color{Red: 255, Green: 255, Blue: 255},
	}

	r := row.New(8)
	for i, h := range exportHeaders {
		r = r.Add(col.New(pdfWidths[i]).Add(text.New(h, headerText)).WithStyle(headerCell))
	}
	m.AddRows(r)
}

func addPDFLine(m core.Maroto, l model.BudgetLine) {
	center := props.Text{Size: 7, Align: align.Center}
	left := props.Text{Size: 7, Align: align.Left}
	right := props.Text{Size: 7, Align: align.Right}

	cells := []struct {
		value string
		style props.Text
	}{
		{fmt.Sprint(l.Seq), center},
		{l.Code, center},
		{l.Description, left},
		{string(l.Kind), center},
		{l.Unit, center},
		{FormatNumber(l.Quantity), right},
		{FormatBRL(l.UnitPrice), right},
		{FormatNumber(l.BDI), right},
		{FormatBRL(l.Total), right},
	}

	r := row.New(7)
	for i, c := range cells {
		r = r.Add(col.New(pdfWidths[i]).Add(text.New(c.value, c.style)))
	}
	m.AddRows(r)
}
