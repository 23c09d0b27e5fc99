package sheet

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/JonMunkholm/catalog-import/internal/core"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// CSV reads comma-separated text. Invalid UTF-8 is replaced and a leading
// byte order mark is dropped.
type CSV struct {
	// Comma overrides the field delimiter. Zero means ','.
	Comma rune
}

var _ core.SheetSource = CSV{}

// Parse returns the data rows of the file.
func (s CSV) Parse(data []byte) ([]core.RawRow, error) {
	data = bytes.TrimPrefix(sanitizeUTF8(data), utf8BOM)

	r := csv.NewReader(bytes.NewReader(data))
	r.FieldsPerRecord = -1
	r.LazyQuotes = true
	if s.Comma != 0 {
		r.Comma = s.Comma
	}

	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}

	var rows []core.RawRow
	for i := core.HeaderRowIndex; i < len(records); i++ {
		cells := make([]any, len(core.ImportColumns))
		for c := range cells {
			if c < len(records[i]) {
				cells[c] = core.NumericLiteral(CleanCell(records[i][c]))
			}
		}
		if blankRow(cells) {
			continue
		}
		rows = append(rows, rawRow(cells, i+1))
	}
	return rows, nil
}

// CleanCell strips spreadsheet export artifacts: surrounding whitespace, the
// ="..." text-forcing wrapper, and surrounding quotes.
func CleanCell(s string) string {
	s = strings.TrimSpace(s)

	if strings.HasPrefix(s, "=\"") && strings.HasSuffix(s, "\"") && len(s) >= 3 {
		s = s[2 : len(s)-1]
	} else if strings.HasPrefix(s, "=") {
		s = s[1:]
	}

	return strings.Trim(s, `"'`)
}

func sanitizeUTF8(data []byte) []byte {
	if utf8.Valid(data) {
		return data
	}

	var buf bytes.Buffer
	buf.Grow(len(data))

	for len(data) > 0 {
		r, size := utf8.DecodeRune(data)
		if r == utf8.RuneError && size == 1 {
			buf.WriteRune('\uFFFD')
			data = data[1:]
		} else {
			buf.WriteRune(r)
			data = data[size:]
		}
	}

	return buf.Bytes()
}
