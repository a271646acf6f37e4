package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/sells-group/budget-cli/internal/budget"
	"github.com/sells-group/budget-cli/internal/catalog"
	"github.com/sells-group/budget-cli/internal/model"
	"github.com/sells-group/budget-cli/internal/search"
)

var (
	searchExclude string
	searchSort    string
	searchLimit   int
)

var searchCmd = &cobra.Command{
	Use:   "search [terms...]",
	Short: "Search the catalog by description or code",
	Long: "Every term must match the description (? = one character, * = any run) or equal the code.\n" +
		"Rows whose description contains any --exclude term are dropped.",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		svc, st, err := openCatalog(ctx, "catalog")
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		sort, _ := model.ParseSortMode(searchSort)
		items, err := svc.Search(ctx, search.Query{
			Contains: strings.Join(args, " "),
			Excludes: searchExclude,
			Sort:     sort,
			Limit:    searchLimit,
		})
		if catalog.IsEmptyQuery(err) {
			_, _ = fmt.Fprintln(cmd.ErrOrStderr(), "enter at least one search term")
			return nil
		}
		if err != nil {
			return err
		}

		formatSearchResults(cmd.OutOrStdout(), items)
		return nil
	},
}

func formatSearchResults(out io.Writer, items []model.Item) {
	if len(items) == 0 {
		_, _ = fmt.Fprintln(out, "no items found")
		return
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "CODE\tDESCRIPTION\tUNIT\tCOST\tKIND")
	for _, it := range items {
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			it.Code,
			truncate(it.Description, 60),
			it.Unit,
			budget.FormatNumber(it.ReferenceCost),
			it.Kind,
		)
	}
	_ = w.Flush()
	_, _ = fmt.Fprintf(out, "\n%d items\n", len(items))
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}

func init() {
	searchCmd.Flags().StringVar(&searchExclude, "exclude", "", "space separated terms the description must not contain")
	searchCmd.Flags().StringVar(&searchSort, "sort", string(model.DefaultSortMode), "cost_ascending, cost_descending or description_ascending")
	searchCmd.Flags().IntVar(&searchLimit, "limit", 0, "maximum rows (default and cap from config)")
	rootCmd.AddCommand(searchCmd)
}
