package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/sells-group/budget-cli/internal/store"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show catalog counts",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		svc, st, err := openCatalog(ctx, "catalog")
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		stats, err := svc.Stats(ctx)
		if err != nil {
			return err
		}
		formatStats(cmd.OutOrStdout(), cfg.Store.Driver, stats)
		return nil
	},
}

func formatStats(out io.Writer, driver string, s *store.CatalogStats) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintf(w, "Store:\t%s\n", driver)
	_, _ = fmt.Fprintf(w, "Items:\t%d\n", s.Items)
	_, _ = fmt.Fprintf(w, "Composition links:\t%d\n", s.Links)
	_, _ = fmt.Fprintf(w, "Compositions:\t%d\n", s.Compositions)
	_ = w.Flush()
}

func init() {
	rootCmd.AddCommand(statusCmd)
}
