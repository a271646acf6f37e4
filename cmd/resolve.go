package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/sells-group/budget-cli/internal/budget"
	"github.com/sells-group/budget-cli/internal/catalog"
	"github.com/sells-group/budget-cli/internal/model"
)

var resolveCmd = &cobra.Command{
	Use:   "resolve <code>",
	Short: "Show the unit cost a code enters a budget with",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		svc, st, err := openCatalog(ctx, "catalog")
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		entry, err := svc.Describe(ctx, args[0])
		if catalog.IsNotFound(err) {
			return fmt.Errorf("code %s is neither a composition nor a priced item", args[0])
		}
		if err != nil {
			return err
		}

		formatEntry(cmd.OutOrStdout(), entry)
		return nil
	},
}

func formatEntry(out io.Writer, e *catalog.Entry) {
	res := e.Resolution
	_, _ = fmt.Fprintf(out, "Code:        %s\n", res.Code)
	if e.Item.Description != "" {
		_, _ = fmt.Fprintf(out, "Description: %s\n", e.Item.Description)
	}
	if e.Item.Unit != "" {
		_, _ = fmt.Fprintf(out, "Unit:        %s\n", e.Item.Unit)
	}
	_, _ = fmt.Fprintf(out, "Kind:        %s\n", res.Kind)
	_, _ = fmt.Fprintf(out, "Unit cost:   %s\n", budget.FormatBRL(res.Cost))

	if res.Kind != model.KindComposition {
		return
	}

	_, _ = fmt.Fprintln(out)
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "CHILD\tDESCRIPTION\tUNIT\tCOEFFICIENT\tCOST\tSUBTOTAL")
	for _, c := range res.Children {
		desc, unit, cost := "(missing)", "-", "-"
		if c.Description != nil {
			desc = truncate(*c.Description, 50)
		}
		if c.Unit != nil {
			unit = *c.Unit
		}
		if c.ReferenceCost.Valid {
			cost = budget.FormatNumber(c.ReferenceCost.Decimal)
		}
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
			c.ChildCode, desc, unit, c.Coefficient.String(), cost, budget.FormatNumber(c.Cost()))
	}
	_ = w.Flush()
}

func init() {
	rootCmd.AddCommand(resolveCmd)
}
