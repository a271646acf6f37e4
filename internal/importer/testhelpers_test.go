package importer

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx/v2"
)

func createTestXLSX(t *testing.T, sheets map[string][][]string) string {
	t.Helper()
	f := xlsx.NewFile()
	for name, rows := range sheets {
		sheet, err := f.AddSheet(name)
		require.NoError(t, err)
		for _, rowData := range rows {
			row := sheet.AddRow()
			for _, cellData := range rowData {
				cell := row.AddCell()
				cell.SetString(cellData)
			}
		}
	}
	path := filepath.Join(t.TempDir(), "base_pesquisa.xlsx")
	require.NoError(t, f.Save(path))
	return path
}

// numericCell is a number stored in the workbook with a display format.
type numericCell struct {
	value  float64
	format string
}

// createNumericXLSX builds a workbook whose cells are strings or numericCell values.
func createNumericXLSX(t *testing.T, sheets map[string][][]any) string {
	t.Helper()
	f := xlsx.NewFile()
	for name, rows := range sheets {
		sheet, err := f.AddSheet(name)
		require.NoError(t, err)
		for _, rowData := range rows {
			row := sheet.AddRow()
			for _, cellData := range rowData {
				cell := row.AddCell()
				switch v := cellData.(type) {
				case numericCell:
					cell.SetFloatWithFormat(v.value, v.format)
				case string:
					cell.SetString(v)
				}
			}
		}
	}
	path := filepath.Join(t.TempDir(), "base_numerica.xlsx")
	require.NoError(t, f.Save(path))
	return path
}

// priceBase is a workbook laid out like the real base: accented, mixed-case
// headers and both number conventions.
func priceBase() map[string][][]string {
	return map[string][][]string{
		"item": {
			{"Código", " Descrição ", "Tipo", "Unidade", "Custo", "Classificação"},
			{"0001", "Cimento\tPortland  CP-II", "Material", "SC", "42,50", "Aglomerante"},
			{"0002", "Areia media\nlavada", "Material", "M3", "R$ 1.250,50", ""},
			{"0003", "Piso ceramico", "Material", "M2", "99.18", "#N/D"},
			{"", "sem codigo", "Material", "UN", "1", ""},
			{"0001", "Duplicado", "Material", "SC", "1", ""},
			{"0004", "Betoneira", "Equipamento", "H", "abc", ""},
			{"C001", "Argamassa", "Composicao", "M3", "", ""},
		},
		"analiticas": {
			{"Código da Composição", "Código do Item", "Coeficiente"},
			{"C001", "0001", "0,5"},
			{"C001", "0002", "0.04"},
			{"C001", "9999", "2"},
			{"C001", "0003", "0"},
			{"C001", "0004", "-1"},
			{"C001", "", "1"},
			{"C001", "0003", "x"},
		},
	}
}
