package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRowValidator_Validate(t *testing.T) {
	tests := []struct {
		name    string
		row     RawRow
		wantOK  bool
		wantLog []string
	}{
		{
			name:   "valid row",
			row:    row(2, "Widget", "Tools", 9.99, int64(5)),
			wantOK: true,
		},
		{
			name:    "missing product name",
			row:     row(2, nil, "Tools", 1.0, int64(1)),
			wantLog: []string{"Row 2: Missing 'Product Name' or 'Category'."},
		},
		{
			name:    "whitespace category counts as missing",
			row:     row(4, "Widget", "   ", 1.0, int64(1)),
			wantLog: []string{"Row 4: Missing 'Product Name' or 'Category'."},
		},
		{
			name:    "numeric-looking string price is not numeric",
			row:     row(3, "Gadget", "Tools", "9.99", int64(1)),
			wantLog: []string{"Row 3: Invalid price '9.99' - must be numeric."},
		},
		{
			name:    "text price",
			row:     row(3, "Gadget", "Tools", "abc", int64(1)),
			wantLog: []string{"Row 3: Invalid price 'abc' - must be numeric."},
		},
		{
			name:    "empty quantity renders as empty text",
			row:     row(5, "Gadget", "Tools", 2.5, nil),
			wantLog: []string{"Row 5: Invalid quantity '' - must be numeric."},
		},
		{
			name:    "boolean quantity is not numeric",
			row:     row(6, "Gadget", "Tools", 2.5, true),
			wantLog: []string{"Row 6: Invalid quantity 'true' - must be numeric."},
		},
		{
			name: "every failed rule is reported in order",
			row:  row(7, "", nil, "x", "y"),
			wantLog: []string{
				"Row 7: Missing 'Product Name' or 'Category'.",
				"Row 7: Invalid price 'x' - must be numeric.",
				"Row 7: Invalid quantity 'y' - must be numeric.",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			log := &ErrorLog{}
			vr, ok := NewRowValidator(log).Validate(tt.row)

			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.wantOK, vr.Valid)
			if tt.wantLog == nil {
				assert.True(t, log.Empty())
			} else {
				assert.Equal(t, tt.wantLog, log.Entries())
			}
		})
	}
}

func TestRowValidator_Conversion(t *testing.T) {
	log := &ErrorLog{}
	vr, ok := NewRowValidator(log).Validate(row(9, "  Widget ", " Tools", int64(12), 2.9))
	require.True(t, ok)

	assert.Equal(t, "Widget", vr.Name)
	assert.Equal(t, "Tools", vr.Category)
	assert.Equal(t, "12", vr.Price.String())
	assert.Equal(t, int64(2), vr.Quantity)
	assert.Equal(t, 9, vr.Index())
}

func TestRowValidator_ValidateAll(t *testing.T) {
	log := &ErrorLog{}
	rows := []RawRow{
		row(2, "A", "X", 1.0, int64(1)),
		row(3, "B", "X", "bad", int64(1)),
		row(4, "C", "Y", 2.0, int64(2)),
	}

	valid := NewRowValidator(log).ValidateAll(rows)

	require.Len(t, valid, 2)
	assert.Equal(t, 2, valid[0].Index())
	assert.Equal(t, 4, valid[1].Index())
	assert.Equal(t, 1, log.Len())
}
