package metadata

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// OutputName is the sheet written next to the extracted images
const OutputName = "pdf_info.xls"

// WriteTSV writes the header row and one data row to path
func WriteTSV(path string, record Record) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", filepath.Base(path), err)
	}

	if err := EncodeTSV(f, record); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// cellSpace flattens the separators a cell may not contain
var cellSpace = strings.NewReplacer("\t", " ", "\r\n", " ", "\r", " ", "\n", " ")

// EncodeTSV writes the header row and one data row to w. Cells are written
// verbatim, without quoting; tabs and line breaks inside a value become spaces.
func EncodeTSV(w io.Writer, record Record) error {
	if _, err := io.WriteString(w, strings.Join(header, "\t")+"\n"); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	values := record.Values()
	for i, v := range values {
		values[i] = cellSpace.Replace(v)
	}
	if _, err := io.WriteString(w, strings.Join(values, "\t")+"\n"); err != nil {
		return fmt.Errorf("failed to write record: %w", err)
	}
	return nil
}

// ReadTSV reads a sheet written by WriteTSV
func ReadTSV(path string) (Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return Record{}, fmt.Errorf("failed to open %s: %w", filepath.Base(path), err)
	}
	defer f.Close()

	return DecodeTSV(f)
}

// DecodeTSV parses a header row and one data row. The header must match
// the fixed field order.
func DecodeTSV(r io.Reader) (Record, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return Record{}, fmt.Errorf("failed to read sheet: %w", err)
	}

	text := strings.ReplaceAll(string(data), "\r\n", "\n")
	rows := strings.Split(strings.TrimSuffix(text, "\n"), "\n")
	if len(rows) < 2 {
		return Record{}, fmt.Errorf("sheet has %d rows, want 2", len(rows))
	}

	names := strings.Split(rows[0], "\t")
	for i, name := range header {
		if i >= len(names) || names[i] != name {
			return Record{}, fmt.Errorf("unexpected header column %d", i)
		}
	}
	return FromValues(strings.Split(rows[1], "\t")), nil
}

// Print writes one "field  >  value" line per field
func Print(w io.Writer, record Record) error {
	values := record.Values()
	for i, name := range header {
		if _, err := fmt.Fprintf(w, "%s  >  %s\n", name, values[i]); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w)
	return err
}
