package normalize

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
)

// table is the schema-agnostic view of a spreadsheet export: one header row
// plus data rows. numbered[i] carries the 1-based data row number of rows[i]
// (header excluded), so error reporting survives ragged files.
type table struct {
	headers  []string
	rows     []Row
	numbered []int
}

// readTable decodes file bytes into a table. The extension picks the codec:
// .xlsx goes through excelize, everything else is treated as CSV.
func readTable(content []byte, filename string) (*table, error) {
	if strings.EqualFold(filepath.Ext(filename), ".xlsx") {
		return readXLSX(content)
	}
	return readCSV(content)
}

func readCSV(content []byte) (*table, error) {
	// Exports written on Windows often lead with a UTF-8 BOM.
	content = bytes.TrimPrefix(content, []byte("\xef\xbb\xbf"))

	r := csv.NewReader(bytes.NewReader(content))
	r.TrimLeadingSpace = true
	r.FieldsPerRecord = -1

	headers, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("readCSV: reading header row: %w", err)
	}

	t := &table{headers: headers}
	for n := 1; ; n++ {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("readCSV: reading row %d: %w", n, err)
		}
		t.rows = append(t.rows, recordToRow(headers, record))
		t.numbered = append(t.numbered, n)
	}
	return t, nil
}

func readXLSX(content []byte) (*table, error) {
	f, err := excelize.OpenReader(bytes.NewReader(content))
	if err != nil {
		return nil, fmt.Errorf("readXLSX: opening workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("readXLSX: workbook has no sheets")
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("readXLSX: reading sheet %q: %w", sheets[0], err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("readXLSX: sheet %q is empty", sheets[0])
	}

	t := &table{headers: rows[0]}
	for i, record := range rows[1:] {
		t.rows = append(t.rows, recordToRow(t.headers, record))
		t.numbered = append(t.numbered, i+1)
	}
	return t, nil
}

func recordToRow(headers, record []string) Row {
	row := make(Row, len(headers))
	for i, h := range headers {
		if i < len(record) {
			row[h] = record[i]
		} else {
			row[h] = ""
		}
	}
	return row
}
