package core

// convert.go turns typed sheet cells into the values a Product stores.
//
// Sheet sources hand over cells as nil, string, float64, int64 or bool. Only
// integer and floating-point cells count as numeric; a string that merely
// looks like a number is still a string. Text-only formats (CSV) type their
// cells with NumericLiteral before the rows reach validation.

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// numericRegex matches integers, decimals, and scientific notation.
var numericRegex = regexp.MustCompile(`^[+-]?(\d+(\.\d*)?|\.\d+)([eE][+-]?\d+)?$`)

// integerRegex matches plain integers that fit the int64 fast path.
var integerRegex = regexp.MustCompile(`^[+-]?\d{1,18}$`)

// IsNumeric reports whether a cell holds an integer or floating-point value.
func IsNumeric(v any) bool {
	switch n := v.(type) {
	case int, int32, int64:
		return true
	case float32:
		return !math.IsNaN(float64(n)) && !math.IsInf(float64(n), 0)
	case float64:
		return !math.IsNaN(n) && !math.IsInf(n, 0)
	default:
		return false
	}
}

// IsBlank reports whether a cell is absent or holds only whitespace.
func IsBlank(v any) bool {
	switch s := v.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(s) == ""
	default:
		return false
	}
}

// CellText renders a cell the way it appears in log messages.
// Empty cells render as the empty string.
func CellText(v any) string {
	switch c := v.(type) {
	case nil:
		return ""
	case string:
		return c
	case int:
		return strconv.Itoa(c)
	case int32:
		return strconv.FormatInt(int64(c), 10)
	case int64:
		return strconv.FormatInt(c, 10)
	case float32:
		return strconv.FormatFloat(float64(c), 'f', -1, 32)
	case float64:
		return strconv.FormatFloat(c, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(c)
	default:
		return ""
	}
}

// ToDecimal converts a numeric cell to a decimal. Non-numeric cells yield zero.
func ToDecimal(v any) decimal.Decimal {
	switch n := v.(type) {
	case int:
		return decimal.NewFromInt(int64(n))
	case int32:
		return decimal.NewFromInt32(n)
	case int64:
		return decimal.NewFromInt(n)
	case float32:
		return decimal.NewFromFloat32(n)
	case float64:
		return decimal.NewFromFloat(n)
	default:
		return decimal.Zero
	}
}

// ToQuantity converts a numeric cell to a whole quantity.
// Fractional quantities are truncated toward zero.
func ToQuantity(v any) int64 {
	switch n := v.(type) {
	case int:
		return int64(n)
	case int32:
		return int64(n)
	case int64:
		return n
	case float32:
		return int64(math.Trunc(float64(n)))
	case float64:
		return int64(math.Trunc(n))
	default:
		return 0
	}
}

// NumericLiteral types a text cell from a format without cell types.
// Plain integers become int64, other numeric literals float64, and anything
// else is returned unchanged (blank text becomes nil).
func NumericLiteral(s string) any {
	t := strings.TrimSpace(s)
	if t == "" {
		return nil
	}
	if integerRegex.MatchString(t) {
		if i, err := strconv.ParseInt(t, 10, 64); err == nil {
			return i
		}
	}
	if numericRegex.MatchString(t) {
		if f, err := strconv.ParseFloat(t, 64); err == nil {
			return f
		}
	}
	return s
}
