// Package export writes query results to CSV and JSON files.
package export

import (
	"bufio"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Format selects the encoding of an exported file.
type Format string

const (
	CSV  Format = "csv"
	JSON Format = "json"
)

// Ext is the file extension for f, dot included.
func (f Format) Ext() string { return "." + string(f) }

// ParseFormat accepts "csv" or "json" in any case.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(s)); f {
	case CSV, JSON:
		return f, nil
	}
	return "", fmt.Errorf("unknown export format %q", s)
}

// Write encodes the header and every row to w.
func Write(w io.Writer, f Format, columns []string, rows [][]string) error {
	switch f {
	case CSV:
		return writeCSV(w, columns, rows)
	case JSON:
		return writeJSON(w, columns, rows)
	}
	return fmt.Errorf("unknown export format %q", string(f))
}

// ToFile writes the result to path, appending the extension of f when the
// path lacks it, and returns the path written.
func ToFile(path string, f Format, columns []string, rows [][]string) (string, error) {
	if !strings.HasSuffix(strings.ToLower(path), f.Ext()) {
		path += f.Ext()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", err
	}

	file, err := os.Create(path)
	if err != nil {
		return "", err
	}
	if err := Write(file, f, columns, rows); err != nil {
		file.Close()
		return "", err
	}
	return path, file.Close()
}

func writeCSV(w io.Writer, columns []string, rows [][]string) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(columns); err != nil {
		return err
	}
	for _, row := range rows {
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// writeJSON emits an array with one object per row. Keys follow column
// order, which encoding a map would lose.
func writeJSON(w io.Writer, columns []string, rows [][]string) error {
	keys := make([][]byte, len(columns))
	for i, c := range columns {
		k, err := json.Marshal(c)
		if err != nil {
			return err
		}
		keys[i] = k
	}

	bw := bufio.NewWriter(w)
	bw.WriteString("[")
	for i, row := range rows {
		if i > 0 {
			bw.WriteString(",")
		}
		bw.WriteString("\n  {")
		for j, k := range keys {
			if j > 0 {
				bw.WriteString(", ")
			}
			var cell string
			if j < len(row) {
				cell = row[j]
			}
			v, err := json.Marshal(cell)
			if err != nil {
				return err
			}
			bw.Write(k)
			bw.WriteString(": ")
			bw.Write(v)
		}
		bw.WriteString("}")
	}
	if len(rows) > 0 {
		bw.WriteString("\n")
	}
	bw.WriteString("]\n")
	return bw.Flush()
}
