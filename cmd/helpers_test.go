package main

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx/v2"

	"github.com/sells-group/budget-cli/internal/config"
)

// testConfig returns a config with the production defaults and a fresh
// SQLite catalog under t.TempDir().
func testConfig(t *testing.T) *config.Config {
	t.Helper()
	dir := t.TempDir()
	return &config.Config{
		Store: config.StoreConfig{
			Driver:      "sqlite",
			DatabaseURL: filepath.Join(dir, "orcamento_obras.db"),
		},
		Search: config.SearchConfig{MaxResults: 100},
		Budget: config.BudgetConfig{DefaultBDI: 25},
		Import: config.ImportConfig{
			File:             filepath.Join(dir, "base_pesquisa.xlsx"),
			ItemSheet:        "item",
			CompositionSheet: "analiticas",
		},
		Server: config.ServerConfig{Port: 8080},
		Log:    config.LogConfig{Level: "info", Format: "json"},
	}
}

// writePriceBase saves a small workbook at cfg.Import.File.
func writePriceBase(t *testing.T, path string) {
	t.Helper()
	sheets := map[string][][]string{
		"item": {
			{"Código", "Descrição", "Tipo", "Unidade", "Custo"},
			{"0001", "Cimento Portland CP-II", "Material", "SC", "42,50"},
			{"0002", "Areia media lavada", "Material", "M3", "90"},
			{"0003", "Betoneira 400 L", "Equipamento", "H", "abc"},
			{"C001", "Argamassa de cimento e areia", "Composicao", "M3", ""},
		},
		"analiticas": {
			{"Código da Composição", "Código do Item", "Coeficiente"},
			{"C001", "0001", "0,5"},
			{"C001", "0002", "0.04"},
			{"C001", "0002", "0"},
		},
	}

	f := xlsx.NewFile()
	for name, rows := range sheets {
		sheet, err := f.AddSheet(name)
		require.NoError(t, err)
		for _, rowData := range rows {
			row := sheet.AddRow()
			for _, cellData := range rowData {
				row.AddCell().SetString(cellData)
			}
		}
	}
	require.NoError(t, f.Save(path))
}

// loadedConfig installs a test config whose catalog was filled by runImport.
func loadedConfig(t *testing.T) {
	t.Helper()
	cfg = testConfig(t)
	writePriceBase(t, cfg.Import.File)
	_, err := runImport(context.Background())
	require.NoError(t, err)
}
