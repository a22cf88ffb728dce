package matchdata

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
)

// CSVReader reads comma-separated match files with a header row.
type CSVReader struct {
	Comma rune
}

func NewCSVReader() *CSVReader {
	return &CSVReader{Comma: ','}
}

func (r *CSVReader) Read(src io.Reader) (*Table, error) {
	reader := csv.NewReader(src)
	reader.Comma = r.Comma
	reader.FieldsPerRecord = -1
	reader.ReuseRecord = false

	header, err := reader.Read()
	if err == io.EOF {
		return nil, ErrEmptyTable
	}
	if err != nil {
		return nil, fmt.Errorf("read CSV header: %w", err)
	}
	// Spreadsheet exports often start with a UTF-8 BOM.
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}

	var rows [][]string
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read CSV: %w", err)
		}
		if len(record) == 1 && strings.TrimSpace(record[0]) == "" {
			continue
		}
		rows = append(rows, record)
	}
	return NewTable(header, rows)
}
