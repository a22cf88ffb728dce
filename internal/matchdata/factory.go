package matchdata

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Reader turns a match file into a Table.
type Reader interface {
	Read(src io.Reader) (*Table, error)
}

// ReaderFor picks a reader by file extension.
func ReaderFor(filename string) (Reader, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".csv":
		return NewCSVReader(), nil
	case ".tsv":
		return &CSVReader{Comma: '\t'}, nil
	case ".xlsx", ".xls":
		return NewXLSXReader(), nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFile, filename)
	}
}

// Load reads and validates the match file at path.
func Load(path string) (*Table, error) {
	r, err := ReaderFor(path)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open match data: %w", err)
	}
	defer f.Close()

	t, err := r.Read(f)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", filepath.Base(path), err)
	}
	if err := t.Validate(); err != nil {
		return nil, err
	}
	return t, nil
}
