package matchdata

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

const sampleCSV = "\ufeffID,Name_1,Name_2,Result_CUR_1,Result_CUR_2,Serve1stPCT_1,Serve1stPCT_2\n" +
	"1,A,B,6-4 6-3,4-6 3-6,0.6,nan\n" +
	"2,B,A,6-4 3-6 7-5,4-6 6-3 5-7,,0.8\n"

func TestCSVReader(t *testing.T) {
	table, err := NewCSVReader().Read(strings.NewReader(sampleCSV))
	require.NoError(t, err)
	require.NoError(t, table.Validate())

	assert.Equal(t, 2, table.Len())
	assert.True(t, table.Has("ID"), "BOM must be stripped from the first header")

	name, ok := table.Value(ColName2, 1)
	assert.True(t, ok)
	assert.Equal(t, "A", name)

	result, _ := table.Value(ColResult1, 1)
	assert.Equal(t, "6-4 3-6 7-5", result)
}

func TestTableFloat(t *testing.T) {
	table, err := NewCSVReader().Read(strings.NewReader(sampleCSV))
	require.NoError(t, err)

	v, ok := table.Float("Serve1stPCT_1", 0)
	assert.True(t, ok)
	assert.Equal(t, 0.6, v)

	tests := []struct {
		name string
		col  string
		row  int
	}{
		{"nan marker", "Serve1stPCT_2", 0},
		{"empty cell", "Serve1stPCT_1", 1},
		{"absent column", "Aces_1", 0},
		{"row out of range", "Serve1stPCT_1", 5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, ok := table.Float(tt.col, tt.row)
			assert.False(t, ok)
		})
	}
}

func TestTableFloatCell(t *testing.T) {
	table, err := NewTable([]string{"Serve1stPCT_1"}, [][]string{{"0.65"}, {"65%"}, {"0,65"}, {"NaN"}, {""}})
	require.NoError(t, err)

	v, ok, err := table.FloatCell("Serve1stPCT_1", 0)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 0.65, v)

	for _, row := range []int{1, 2} {
		_, ok, err := table.FloatCell("Serve1stPCT_1", row)
		assert.False(t, ok)
		assert.ErrorIs(t, err, ErrMalformedNumber, "row %d", row)

		_, ok = table.Float("Serve1stPCT_1", row)
		assert.False(t, ok)
	}
	for _, row := range []int{3, 4} {
		_, ok, err := table.FloatCell("Serve1stPCT_1", row)
		assert.False(t, ok)
		assert.NoError(t, err, "missing markers are not malformed")
	}
}

func TestTableInt(t *testing.T) {
	table, err := NewTable([]string{"ID"}, [][]string{{"7"}, {"12.0"}, {"1.5"}, {"abc"}})
	require.NoError(t, err)

	v, err := table.Int(ColID, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(7), v)

	v, err = table.Int(ColID, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(12), v)

	_, err = table.Int(ColID, 2)
	assert.Error(t, err)
	_, err = table.Int(ColID, 3)
	assert.Error(t, err)
	_, err = table.Int("Missing", 0)
	assert.ErrorIs(t, err, ErrMissingColumn)
}

func TestNewTable(t *testing.T) {
	_, err := NewTable(nil, nil)
	assert.ErrorIs(t, err, ErrEmptyTable)

	_, err = NewTable([]string{"ID", "ID"}, nil)
	assert.ErrorIs(t, err, ErrDuplicateColumn)

	table, err := NewTable([]string{"ID", "Name_1", "Name_2"}, [][]string{{"1"}})
	require.NoError(t, err)
	v, ok := table.Value(ColName2, 0)
	assert.True(t, ok, "short rows are padded")
	assert.Equal(t, "", v)

	err = table.Validate()
	require.ErrorIs(t, err, ErrMissingColumn)
	assert.Contains(t, err.Error(), ColResult1)
}

func TestCSVReader_Empty(t *testing.T) {
	_, err := NewCSVReader().Read(strings.NewReader(""))
	assert.ErrorIs(t, err, ErrEmptyTable)
}

func TestXLSXReader(t *testing.T) {
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	rows := [][]any{
		{"ID", "Name_1", "Name_2", "Result_CUR_1", "Result_CUR_2", "Serve1stPCT_1", "Serve1stPCT_2"},
		{1, "A", "B", "6-4 6-3", "4-6 3-6", 0.6, 0.5},
	}
	for i, r := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(sheet, cell, &r))
	}
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	require.NoError(t, f.Close())

	table, err := NewXLSXReader().Read(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	require.NoError(t, table.Validate())
	assert.Equal(t, 1, table.Len())

	id, err := table.Int(ColID, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(1), id)

	v, ok := table.Float("Serve1stPCT_2", 0)
	assert.True(t, ok)
	assert.Equal(t, 0.5, v)
}

func TestReaderFor(t *testing.T) {
	tests := []struct {
		filename string
		wantErr  bool
	}{
		{"matches.csv", false},
		{"MATCHES.CSV", false},
		{"matches.tsv", false},
		{"matches.xlsx", false},
		{"matches.json", true},
		{"matches", true},
	}
	for _, tt := range tests {
		t.Run(tt.filename, func(t *testing.T) {
			r, err := ReaderFor(tt.filename)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrUnsupportedFile)
				return
			}
			require.NoError(t, err)
			assert.NotNil(t, r)
		})
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "matches.tsv")
	data := strings.ReplaceAll(strings.TrimPrefix(sampleCSV, "\ufeff"), ",", "\t")
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	table, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 2, table.Len())

	bad := filepath.Join(dir, "bad.csv")
	require.NoError(t, os.WriteFile(bad, []byte("ID,Name_1\n1,A\n"), 0o644))
	_, err = Load(bad)
	assert.ErrorIs(t, err, ErrMissingColumn)

	_, err = Load(filepath.Join(dir, "missing.csv"))
	assert.Error(t, err)
}
