package core

// validation.go checks raw sheet rows before they reach the store.
//
// Every rule is evaluated on its own, so a single row can contribute several
// entries to the error log. A row is valid only when no rule fails.

import "strings"

// RowValidator validates raw rows and records failures in an ErrorLog.
type RowValidator struct {
	log *ErrorLog
}

// NewRowValidator creates a validator writing to log.
func NewRowValidator(log *ErrorLog) *RowValidator {
	return &RowValidator{log: log}
}

// Validate checks one row and returns its converted form.
// The boolean is false when any rule failed; the log then holds one entry per
// failed rule, in rule order.
func (v *RowValidator) Validate(row RawRow) (ValidatedRow, bool) {
	valid := true

	if IsBlank(row.ProductName) || IsBlank(row.CategoryName) {
		v.log.Addf("Row %d: Missing 'Product Name' or 'Category'.", row.Index)
		valid = false
	}
	if !IsNumeric(row.Price) {
		v.log.Addf("Row %d: Invalid price '%s' - must be numeric.", row.Index, CellText(row.Price))
		valid = false
	}
	if !IsNumeric(row.Quantity) {
		v.log.Addf("Row %d: Invalid quantity '%s' - must be numeric.", row.Index, CellText(row.Quantity))
		valid = false
	}

	if !valid {
		return ValidatedRow{Raw: row}, false
	}

	return ValidatedRow{
		Raw:      row,
		Valid:    true,
		Name:     strings.TrimSpace(CellText(row.ProductName)),
		Category: strings.TrimSpace(CellText(row.CategoryName)),
		Price:    ToDecimal(row.Price),
		Quantity: ToQuantity(row.Quantity),
	}, true
}

// ValidateAll validates rows in order and returns the valid ones.
func (v *RowValidator) ValidateAll(rows []RawRow) []ValidatedRow {
	valid := make([]ValidatedRow, 0, len(rows))
	for _, row := range rows {
		if vr, ok := v.Validate(row); ok {
			valid = append(valid, vr)
		}
	}
	return valid
}
