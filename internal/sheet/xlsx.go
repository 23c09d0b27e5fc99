package sheet

import (
	"bytes"
	"fmt"
	"strconv"

	"github.com/xuri/excelize/v2"

	"github.com/JonMunkholm/catalog-import/internal/core"
)

// XLSX reads the active worksheet of an Office Open XML workbook.
type XLSX struct{}

var _ core.SheetSource = XLSX{}

// Parse returns the data rows of the active worksheet.
func (XLSX) Parse(data []byte) ([]core.RawRow, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	sheetName := f.GetSheetName(f.GetActiveSheetIndex())
	if sheetName == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, fmt.Errorf("workbook has no sheets")
		}
		sheetName = sheets[0]
	}

	values, err := f.GetRows(sheetName, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheetName, err)
	}

	var rows []core.RawRow
	for r := core.HeaderRowIndex; r < len(values); r++ {
		index := r + 1
		cells := make([]any, len(core.ImportColumns))
		for c := range cells {
			if c >= len(values[r]) {
				continue
			}
			cell, err := typedCell(f, sheetName, c+1, index, values[r][c])
			if err != nil {
				return nil, err
			}
			cells[c] = cell
		}
		if blankRow(cells) {
			continue
		}
		rows = append(rows, rawRow(cells, index))
	}
	return rows, nil
}

// typedCell converts a raw cell value according to the cell's stored type.
func typedCell(f *excelize.File, sheet string, col, row int, raw string) (any, error) {
	if raw == "" {
		return nil, nil
	}

	ref, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return nil, err
	}
	cellType, err := f.GetCellType(sheet, ref)
	if err != nil {
		return nil, fmt.Errorf("cell %s: %w", ref, err)
	}

	switch cellType {
	case excelize.CellTypeUnset, excelize.CellTypeNumber:
		// Untyped cells hold numbers, possibly cached formula results.
		if v := core.NumericLiteral(raw); v != nil {
			return v, nil
		}
		return raw, nil
	case excelize.CellTypeBool:
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return raw, nil
		}
		return b, nil
	default:
		return raw, nil
	}
}

func blankRow(cells []any) bool {
	for _, c := range cells {
		if !core.IsBlank(c) {
			return false
		}
	}
	return true
}

func rawRow(cells []any, index int) core.RawRow {
	return core.RawRow{
		ProductName:  cells[0],
		CategoryName: cells[1],
		Price:        cells[2],
		Quantity:     cells[3],
		Index:        index,
	}
}
