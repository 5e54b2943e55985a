package main

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"strings"
)

// utf8BOM is prepended to every written file so spreadsheet tools detect the
// encoding; accent-heavy Portuguese headers break without it.
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// writeCSV writes a semicolon-delimited table with a UTF-8 byte-order marker.
func writeCSV(path string, table Table) error {
	var buf bytes.Buffer
	buf.Write(utf8BOM)
	w := csv.NewWriter(&buf)
	w.Comma = ';'
	if err := w.Write(table.Headers); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := w.WriteAll(table.Rows); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := w.Error(); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return os.WriteFile(path, buf.Bytes(), 0644)
}

// readCSV reads a semicolon-delimited table, tolerating a leading BOM and
// ragged rows (the portal occasionally emits short lines).
func readCSV(path string) (Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Table{}, err
	}
	data = bytes.TrimPrefix(data, utf8BOM)

	r := csv.NewReader(bytes.NewReader(data))
	r.Comma = ';'
	r.FieldsPerRecord = -1
	r.LazyQuotes = true
	records, err := r.ReadAll()
	if err != nil {
		return Table{}, fmt.Errorf("read %s: %w", path, err)
	}
	if len(records) == 0 {
		return Table{}, fmt.Errorf("read %s: empty file", path)
	}
	return Table{Headers: records[0], Rows: records[1:]}, nil
}

// readLines loads the trimmed, non-empty lines of a hierarchy source file in
// file order.
func readLines(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	text := strings.TrimPrefix(string(data), string(utf8BOM))
	var lines []string
	for _, l := range strings.Split(text, "\n") {
		if t := strings.TrimSpace(l); t != "" {
			lines = append(lines, t)
		}
	}
	return lines, nil
}
