package sheet

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/JonMunkholm/catalog-import/internal/core"
)

// TemplateFileName is the download name of the import template.
const TemplateFileName = "catalog_import_template.xlsx"

const (
	templateSheet     = "Products"
	instructionsSheet = "Instructions"
)

var templateExample = []any{"Cordless Drill", "Power Tools", 89.99, 12}

// Template builds an XLSX workbook with the import header row, one example
// row, and an instructions sheet.
func Template() (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", templateSheet); err != nil {
		return nil, err
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"4472C4"}, Pattern: 1},
		Border: []excelize.Border{
			{Type: "bottom", Color: "000000", Style: 1},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("header style: %w", err)
	}

	for i, header := range core.ImportColumns {
		cell, _ := excelize.CoordinatesToCellName(i+1, core.HeaderRowIndex)
		if err := f.SetCellValue(templateSheet, cell, header); err != nil {
			return nil, err
		}
		if err := f.SetCellStyle(templateSheet, cell, cell, headerStyle); err != nil {
			return nil, err
		}
		colName, _ := excelize.ColumnNumberToName(i + 1)
		if err := f.SetColWidth(templateSheet, colName, colName, 22); err != nil {
			return nil, err
		}

		example, _ := excelize.CoordinatesToCellName(i+1, core.HeaderRowIndex+1)
		if err := f.SetCellValue(templateSheet, example, templateExample[i]); err != nil {
			return nil, err
		}
	}

	if _, err := f.NewSheet(instructionsSheet); err != nil {
		return nil, err
	}
	lines := []string{
		"Product Catalog Import",
		"",
		"Product Name and Category are required.",
		"Price and Quantity must be entered as numbers, not text.",
		"Categories that do not exist yet are created automatically.",
		"A product with the same name in the same category is updated.",
		"Rows with errors are skipped and listed in import_errors.txt.",
	}
	for i, line := range lines {
		if err := f.SetCellValue(instructionsSheet, fmt.Sprintf("A%d", i+1), line); err != nil {
			return nil, err
		}
	}
	if err := f.SetColWidth(instructionsSheet, "A", "A", 70); err != nil {
		return nil, err
	}

	idx, err := f.GetSheetIndex(templateSheet)
	if err != nil {
		return nil, err
	}
	f.SetActiveSheet(idx)

	return f.WriteToBuffer()
}
