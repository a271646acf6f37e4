// Package importer loads the spreadsheet price base into the catalog store,
// replacing whatever catalog was there before.
package importer

import (
	"context"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/budget-cli/internal/store"
)

// Result reports what an import loaded and what it skipped.
type Result struct {
	Items          int `json:"items"`
	Links          int `json:"links"`
	DroppedItems   int `json:"dropped_items"`   // no code
	DuplicateItems int `json:"duplicate_items"` // code already seen
	DroppedLinks   int `json:"dropped_links"`   // missing code or coefficient <= 0
	ParseFailures  int `json:"parse_failures"`  // numbers read as 0
}

// Run reads the workbook at path and swaps it into st in one transaction.
// Unparseable numbers never abort the import; they load as 0 and are counted.
func Run(ctx context.Context, st store.Store, path string, opts Options) (*Result, error) {
	start := time.Now()
	log := zap.L().With(zap.String("file", path))

	wb, err := ReadWorkbook(ctx, path, opts)
	if err != nil {
		return nil, err
	}

	if err := st.ReplaceCatalog(ctx, wb.Items, wb.Links); err != nil {
		return nil, eris.Wrap(err, "importer: replace catalog")
	}

	res := wb.Stats
	log.Info("importer: catalog replaced",
		zap.Int("items", res.Items),
		zap.Int("links", res.Links),
		zap.Int("dropped_items", res.DroppedItems),
		zap.Int("duplicate_items", res.DuplicateItems),
		zap.Int("dropped_links", res.DroppedLinks),
		zap.Int("parse_failures", res.ParseFailures),
		zap.Duration("elapsed", time.Since(start)),
	)
	if res.ParseFailures > 0 {
		log.Warn("importer: some numbers could not be parsed and were loaded as 0",
			zap.Int("count", res.ParseFailures))
	}
	return &res, nil
}
