package sheet

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCSV_Parse(t *testing.T) {
	data := []byte("\xEF\xBB\xBFProduct Name,Category,Price,Quantity\n" +
		"Widget,Tools,9.99,5\n" +
		",,,\n" +
		"Gadget,Toys,abc\n")

	rows, err := CSV{}.Parse(data)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, "Widget", rows[0].ProductName)
	assert.Equal(t, 9.99, rows[0].Price)
	assert.Equal(t, int64(5), rows[0].Quantity)
	assert.Equal(t, 2, rows[0].Index)

	assert.Equal(t, "abc", rows[1].Price)
	assert.Nil(t, rows[1].Quantity)
	assert.Equal(t, 4, rows[1].Index)
}

func TestCSV_Semicolon(t *testing.T) {
	rows, err := CSV{Comma: ';'}.Parse([]byte("a;b;c;d\nWidget;Tools;1.5;2\n"))
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, 1.5, rows[0].Price)
}

func TestCSV_InvalidUTF8(t *testing.T) {
	rows, err := CSV{}.Parse([]byte("h1,h2,h3,h4\nCaf\xe9,Drinks,1,1\n"))
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Caf\uFFFD", rows[0].ProductName)
}

func TestCleanCell(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{input: "  Widget  ", want: "Widget"},
		{input: `="00123"`, want: "00123"},
		{input: "=42", want: "42"},
		{input: `"quoted"`, want: "quoted"},
		{input: "", want: ""},
	}

	for _, tt := range tests {
		if got := CleanCell(tt.input); got != tt.want {
			t.Errorf("CleanCell(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestSelect(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		data    []byte
		want    any
		wantErr bool
	}{
		{name: "xlsx extension", file: "catalog.XLSX", want: XLSX{}},
		{name: "csv extension", file: "catalog.csv", want: CSV{}},
		{name: "tsv extension", file: "catalog.tsv", want: CSV{Comma: '\t'}},
		{name: "sniff zip", file: "upload", data: []byte("PK\x03\x04rest"), want: XLSX{}},
		{name: "sniff text", file: "upload", data: []byte("a,b,c,d\n"), want: CSV{}},
		{name: "binary without extension", file: "upload", data: []byte{0x00, 0x01}, wantErr: true},
		{name: "unknown extension", file: "catalog.pdf", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Select(tt.file, tt.data)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrUnsupportedFormat)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
