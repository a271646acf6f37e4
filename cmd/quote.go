package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/rotisserie/eris"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/budget-cli/internal/budget"
	"github.com/sells-group/budget-cli/internal/catalog"
)

var (
	quoteBDI   float64
	quoteTitle string
	quoteXLSX  string
	quotePDF   string
)

var quoteCmd = &cobra.Command{
	Use:   "quote <code[=qty]>...",
	Short: "Build a budget from catalog codes and optionally export it",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		svc, st, err := openCatalog(ctx, "catalog")
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		bdi := defaultBDI()
		if cmd.Flags().Changed("bdi") {
			bdi = decimal.NewFromFloat(quoteBDI)
		}

		b, err := buildQuote(ctx, svc, bdi, args)
		if err != nil {
			return err
		}
		formatBudget(cmd.OutOrStdout(), b)

		info := budget.ExportInfo{Title: quoteTitle, CreatedAt: time.Now()}
		if quoteXLSX != "" {
			if err := exportXLSX(b, info, quoteXLSX); err != nil {
				return err
			}
		}
		if quotePDF != "" {
			data, err := budget.RenderPDF(b, info)
			if err != nil {
				return err
			}
			if err := os.WriteFile(quotePDF, data, 0o644); err != nil {
				return eris.Wrapf(err, "write %s", quotePDF)
			}
			zap.L().Info("budget exported", zap.String("path", quotePDF))
		}
		return nil
	},
}

// buildQuote adds one resolved line per "code" or "code=qty" argument.
func buildQuote(ctx context.Context, svc *catalog.Service, bdi decimal.Decimal, args []string) (*budget.Budget, error) {
	b := budget.New(bdi)
	for _, arg := range args {
		code, qty, err := parseQuoteArg(arg)
		if err != nil {
			return nil, err
		}
		entry, err := svc.Describe(ctx, code)
		if catalog.IsNotFound(err) {
			return nil, fmt.Errorf("code %s is neither a composition nor a priced item", code)
		}
		if err != nil {
			return nil, err
		}
		if _, err := b.AddResolved(entry.Item, entry.Resolution, qty); err != nil {
			return nil, err
		}
	}
	return b, nil
}

func parseQuoteArg(arg string) (string, decimal.Decimal, error) {
	code, rawQty, hasQty := strings.Cut(arg, "=")
	code = strings.TrimSpace(code)
	if code == "" {
		return "", decimal.Zero, eris.Errorf("invalid line %q: empty code", arg)
	}
	if !hasQty {
		return code, decimal.Zero, nil
	}
	qty, err := decimal.NewFromString(strings.ReplaceAll(strings.TrimSpace(rawQty), ",", "."))
	if err != nil || !qty.IsPositive() {
		return "", decimal.Zero, eris.Errorf("invalid line %q: quantity must be a positive number", arg)
	}
	return code, qty, nil
}

func exportXLSX(b *budget.Budget, info budget.ExportInfo, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return eris.Wrapf(err, "create %s", path)
	}
	if err := budget.WriteXLSX(b, info, f); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return eris.Wrapf(err, "close %s", path)
	}
	zap.L().Info("budget exported", zap.String("path", path))
	return nil
}

func formatBudget(out io.Writer, b *budget.Budget) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "ITEM\tCODE\tDESCRIPTION\tKIND\tUNIT\tQTY\tUNIT PRICE\tBDI %\tTOTAL")
	for _, l := range b.Lines() {
		_, _ = fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			l.Seq,
			l.Code,
			truncate(l.Description, 40),
			l.Kind,
			l.Unit,
			l.Quantity.String(),
			budget.FormatNumber(l.UnitPrice),
			l.BDI.String(),
			budget.FormatNumber(l.Total),
		)
	}
	_ = w.Flush()
	_, _ = fmt.Fprintf(out, "\nTotal: %s\n", budget.FormatBRL(b.Total()))
}

func init() {
	quoteCmd.Flags().Float64Var(&quoteBDI, "bdi", 0, "BDI percent for every line (default from config)")
	quoteCmd.Flags().StringVar(&quoteTitle, "title", "", "title printed on exports")
	quoteCmd.Flags().StringVar(&quoteXLSX, "xlsx", "", "write the budget to this .xlsx file")
	quoteCmd.Flags().StringVar(&quotePDF, "pdf", "", "write the budget to this .pdf file")
	rootCmd.AddCommand(quoteCmd)
}
