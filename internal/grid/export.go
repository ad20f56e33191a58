package grid

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

// Export formats.
const (
	FormatCSV  = "csv"
	FormatXLSX = "xlsx"
)

// DefaultSheet is the sheet name used for XLSX exports.
const DefaultSheet = "Sheet1"

// Record returns the header row and one string row per input row.
func Record[T any](columns []Column[T], rows []T) ([]string, [][]string) {
	header := make([]string, len(columns))
	for i, c := range columns {
		header[i] = c.Title
	}
	out := make([][]string, len(rows))
	for r, row := range rows {
		cells := make([]string, len(columns))
		for i, c := range columns {
			cells[i] = c.Value(row)
		}
		out[r] = cells
	}
	return header, out
}

// WriteCSV writes a header row of column titles followed by one line per row.
func WriteCSV[T any](w io.Writer, columns []Column[T], rows []T) error {
	header, records := Record(columns, rows)

	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("writing csv header: %w", err)
	}
	if err := cw.WriteAll(records); err != nil {
		return fmt.Errorf("writing csv rows: %w", err)
	}
	return nil
}

// WriteXLSX writes a single-sheet workbook with a bold header row.
func WriteXLSX[T any](w io.Writer, columns []Column[T], rows []T) error {
	header, records := Record(columns, rows)

	f := excelize.NewFile()
	defer func() {
		_ = f.Close()
	}()

	headerStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("creating header style: %w", err)
	}

	if err = writeSheetRow(f, 1, header); err != nil {
		return err
	}
	for i, rec := range records {
		if err = writeSheetRow(f, i+2, rec); err != nil {
			return err
		}
	}

	if len(header) > 0 {
		last, cellErr := excelize.CoordinatesToCellName(len(header), 1)
		if cellErr != nil {
			return fmt.Errorf("resolving header range: %w", cellErr)
		}
		if err = f.SetCellStyle(DefaultSheet, "A1", last, headerStyle); err != nil {
			return fmt.Errorf("styling header: %w", err)
		}
	}
	for i, c := range columns {
		if c.Width <= 0 {
			continue
		}
		name, nameErr := excelize.ColumnNumberToName(i + 1)
		if nameErr != nil {
			return fmt.Errorf("resolving column name: %w", nameErr)
		}
		if err = f.SetColWidth(DefaultSheet, name, name, float64(c.Width)); err != nil {
			return fmt.Errorf("setting column width: %w", err)
		}
	}

	if _, err = f.WriteTo(w); err != nil {
		return fmt.Errorf("writing xlsx: %w", err)
	}
	return nil
}

func writeSheetRow(f *excelize.File, row int, cells []string) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return fmt.Errorf("resolving row %d: %w", row, err)
	}
	values := make([]interface{}, len(cells))
	for i, v := range cells {
		values[i] = v
	}
	if err = f.SetSheetRow(DefaultSheet, cell, &values); err != nil {
		return fmt.Errorf("writing row %d: %w", row, err)
	}
	return nil
}
