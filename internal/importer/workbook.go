package importer

import (
	"context"
	"strconv"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sells-group/budget-cli/internal/model"
)

// Options names the worksheets of the price base.
type Options struct {
	ItemSheet        string // default "item"
	CompositionSheet string // default "analiticas"
}

func (o Options) withDefaults() Options {
	if o.ItemSheet == "" {
		o.ItemSheet = "item"
	}
	if o.CompositionSheet == "" {
		o.CompositionSheet = "analiticas"
	}
	return o
}

// Workbook is the cleaned content of a price base.
type Workbook struct {
	Items []model.Item
	Links []model.CompositionLink
	Stats Result
}

// ReadWorkbook opens the price base at path and parses its item and
// composition sheets concurrently.
func ReadWorkbook(ctx context.Context, path string, opts Options) (*Workbook, error) {
	opts = opts.withDefaults()

	f, err := xlsx.OpenFile(path)
	if err != nil {
		return nil, eris.Wrap(err, "importer: open workbook")
	}

	itemRows, err := sheetRows(f, opts.ItemSheet)
	if err != nil {
		return nil, err
	}
	linkRows, err := sheetRows(f, opts.CompositionSheet)
	if err != nil {
		return nil, err
	}

	var (
		wb        Workbook
		itemStats Result
		linkStats Result
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		wb.Items, itemStats, err = parseItems(gctx, itemRows, opts.ItemSheet)
		return err
	})
	g.Go(func() error {
		var err error
		wb.Links, linkStats, err = parseLinks(gctx, linkRows, opts.CompositionSheet)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	wb.Stats = Result{
		Items:          len(wb.Items),
		Links:          len(wb.Links),
		DroppedItems:   itemStats.DroppedItems,
		DuplicateItems: itemStats.DuplicateItems,
		DroppedLinks:   linkStats.DroppedLinks,
		ParseFailures:  itemStats.ParseFailures + linkStats.ParseFailures,
	}
	return &wb, nil
}

func sheetRows(f *xlsx.File, name string) ([][]string, error) {
	sheet, ok := f.Sheet[name]
	if !ok {
		return nil, eris.Errorf("importer: sheet %q not found", name)
	}
	rows := make([][]string, 0, len(sheet.Rows))
	for _, row := range sheet.Rows {
		if row == nil {
			rows = append(rows, nil)
			continue
		}
		rows = append(rows, rowToStrings(row))
	}
	return rows, nil
}

func rowToStrings(row *xlsx.Row) []string {
	cells := make([]string, len(row.Cells))
	for j, cell := range row.Cells {
		cells[j] = cellText(cell)
	}
	return cells
}

// cellText returns the stored value of numeric cells instead of their
// display format, which may round costs and coefficients.
func cellText(cell *xlsx.Cell) string {
	if cell.Type() == xlsx.CellTypeNumeric {
		if f, err := cell.Float(); err == nil {
			return strconv.FormatFloat(f, 'f', -1, 64)
		}
		return cell.Value
	}
	return cell.String()
}

// parseItems cleans the item sheet. Rows without a code are dropped; a
// repeated code keeps its first row.
func parseItems(ctx context.Context, rows [][]string, sheet string) ([]model.Item, Result, error) {
	var st Result
	if len(rows) == 0 {
		return nil, st, eris.Errorf("importer: sheet %q is empty", sheet)
	}
	cols, err := indexHeader(rows[0], itemRenames, itemRequired, sheet)
	if err != nil {
		return nil, st, err
	}

	seen := make(map[string]struct{}, len(rows))
	items := make([]model.Item, 0, len(rows)-1)
	for n, row := range rows[1:] {
		if n%1000 == 0 && ctx.Err() != nil {
			return nil, st, eris.Wrap(ctx.Err(), "importer: parse items")
		}

		code := CleanText(cols.get(row, colCode))
		if code == "" {
			st.DroppedItems++
			continue
		}
		if _, dup := seen[code]; dup {
			st.DuplicateItems++
			continue
		}
		seen[code] = struct{}{}

		raw := cols.get(row, colCost)
		cost, ok := ParseNumber(raw)
		if !ok {
			st.ParseFailures++
			zap.L().Debug("importer: unparseable cost",
				zap.String("sheet", sheet), zap.String("code", code), zap.String("value", raw))
		}

		items = append(items, model.Item{
			Code:           code,
			Description:    CleanText(cols.get(row, colDescription)),
			Unit:           CleanText(cols.get(row, colUnit)),
			ReferenceCost:  cost,
			Kind:           CleanText(cols.get(row, colKind)),
			Classification: CleanText(cols.get(row, colClassification)),
		})
	}
	return items, st, nil
}

// parseLinks cleans the composition sheet. Links whose coefficient is not
// positive, or that lack either code, are dropped.
func parseLinks(ctx context.Context, rows [][]string, sheet string) ([]model.CompositionLink, Result, error) {
	var st Result
	if len(rows) == 0 {
		return nil, st, eris.Errorf("importer: sheet %q is empty", sheet)
	}
	cols, err := indexHeader(rows[0], compositionRenames, compositionRequired, sheet)
	if err != nil {
		return nil, st, err
	}

	links := make([]model.CompositionLink, 0, len(rows)-1)
	for n, row := range rows[1:] {
		if n%1000 == 0 && ctx.Err() != nil {
			return nil, st, eris.Wrap(ctx.Err(), "importer: parse links")
		}

		parent := CleanText(cols.get(row, colParent))
		child := CleanText(cols.get(row, colChild))
		raw := cols.get(row, colCoefficient)
		qty, ok := ParseNumber(raw)
		if !ok {
			st.ParseFailures++
			zap.L().Debug("importer: unparseable coefficient",
				zap.String("sheet", sheet), zap.String("parent", parent), zap.String("value", raw))
		}
		if parent == "" || child == "" || !qty.IsPositive() {
			st.DroppedLinks++
			continue
		}

		links = append(links, model.CompositionLink{ParentCode: parent, ChildCode: child, Coefficient: qty})
	}
	return links, st, nil
}
