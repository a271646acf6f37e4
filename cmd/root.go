package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/budget-cli/internal/config"
)

var cfg *config.Config

// Persistent overrides applied on top of config.yaml and BUDGET_* variables.
var (
	storeDriver string
	databaseURL string
	logLevel    string
)

var rootCmd = &cobra.Command{
	Use:   "budget-cli",
	Short: "Construction budget price catalog",
	Long: "Imports a spreadsheet price base (insumos and composicoes), searches it,\n" +
		"resolves composition costs and builds budgets from the CLI or over HTTP.",
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		applyOverrides(c)
		cfg = c

		if err := config.InitLogger(cfg.Log); err != nil {
			return fmt.Errorf("init logger: %w", err)
		}
		zap.L().Debug("catalog store selected",
			zap.String("driver", cfg.Store.Driver),
			zap.String("command", cmd.Name()),
		)
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
}

// applyOverrides copies non-empty persistent flags into c.
func applyOverrides(c *config.Config) {
	if storeDriver != "" {
		c.Store.Driver = storeDriver
	}
	if databaseURL != "" {
		c.Store.DatabaseURL = databaseURL
	}
	if logLevel != "" {
		c.Log.Level = logLevel
	}
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&storeDriver, "store", "", "catalog backend: sqlite, postgres or memory (default from config)")
	pf.StringVar(&databaseURL, "db", "", "SQLite path or Postgres URL (default from config)")
	pf.StringVar(&logLevel, "log-level", "", "debug, info, warn or error (default from config)")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
