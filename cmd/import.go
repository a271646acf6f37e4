package main

import (
	"context"
	"fmt"
	"io"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/budget-cli/internal/importer"
)

var (
	importFile             string
	importItemSheet        string
	importCompositionSheet string
)

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Replace the catalog with a spreadsheet price base",
	RunE: func(cmd *cobra.Command, _ []string) error {
		if importFile != "" {
			cfg.Import.File = importFile
		}
		if importItemSheet != "" {
			cfg.Import.ItemSheet = importItemSheet
		}
		if importCompositionSheet != "" {
			cfg.Import.CompositionSheet = importCompositionSheet
		}

		res, err := runImport(cmd.Context())
		if err != nil {
			return err
		}
		formatImportResult(cmd.OutOrStdout(), res)
		return nil
	},
}

func runImport(ctx context.Context) (*importer.Result, error) {
	if err := cfg.Validate("import"); err != nil {
		return nil, err
	}

	st, err := initStore(ctx)
	if err != nil {
		return nil, err
	}
	defer st.Close() //nolint:errcheck

	if err := st.Migrate(ctx); err != nil {
		return nil, eris.Wrap(err, "migrate store")
	}

	res, err := importer.Run(ctx, st, cfg.Import.File, importer.Options{
		ItemSheet:        cfg.Import.ItemSheet,
		CompositionSheet: cfg.Import.CompositionSheet,
	})
	if err != nil {
		return nil, eris.Wrap(err, "import workbook")
	}
	return res, nil
}

func formatImportResult(out io.Writer, res *importer.Result) {
	_, _ = fmt.Fprintf(out, "%d items imported into insumos\n", res.Items)
	_, _ = fmt.Fprintf(out, "%d links imported into composicoes\n", res.Links)
	if skipped := res.DroppedItems + res.DuplicateItems + res.DroppedLinks; skipped > 0 {
		_, _ = fmt.Fprintf(out, "skipped: %d items without code, %d duplicate codes, %d invalid links\n",
			res.DroppedItems, res.DuplicateItems, res.DroppedLinks)
	}
	if res.ParseFailures > 0 {
		_, _ = fmt.Fprintf(out, "warning: %d numbers could not be parsed and were loaded as 0\n", res.ParseFailures)
	}
}

func init() {
	importCmd.Flags().StringVar(&importFile, "file", "", "path to the price base workbook (default from config)")
	importCmd.Flags().StringVar(&importItemSheet, "item-sheet", "", "sheet holding priced items (default from config)")
	importCmd.Flags().StringVar(&importCompositionSheet, "composition-sheet", "", "sheet holding composition links (default from config)")
	rootCmd.AddCommand(importCmd)
}
