package sheet

import (
	"bytes"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/JonMunkholm/catalog-import/internal/core"
)

// ErrUnsupportedFormat is returned for files that are neither XLSX nor CSV.
var ErrUnsupportedFormat = errors.New("unsupported file format")

var zipMagic = []byte("PK\x03\x04")

// Select picks the source for an uploaded file. The extension decides when
// it is known; otherwise a zip signature selects XLSX and plain text CSV.
// It matches core.SourceSelector.
func Select(fileName string, data []byte) (core.SheetSource, error) {
	switch ext := strings.ToLower(filepath.Ext(fileName)); ext {
	case ".xlsx", ".xlsm":
		return XLSX{}, nil
	case ".csv":
		return CSV{}, nil
	case ".tsv":
		return CSV{Comma: '\t'}, nil
	case "", ".txt", ".bin":
		// sniff below
	default:
		return nil, fmt.Errorf("%w %q", ErrUnsupportedFormat, ext)
	}

	if bytes.HasPrefix(data, zipMagic) {
		return XLSX{}, nil
	}
	if bytes.IndexByte(data[:min(len(data), 512)], 0) >= 0 {
		return nil, fmt.Errorf("%w: binary content", ErrUnsupportedFormat)
	}
	return CSV{}, nil
}
