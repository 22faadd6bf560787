package export

import (
	"encoding/csv"
	"fmt"
	"io"
)

// Column maps a record key to a CSV header.
type Column struct {
	Key   string
	Title string
}

// Table is a flat roster ready to be written as CSV.
type Table struct {
	Columns []Column
	Rows    []map[string]string
}

// WriteCSV writes the table to w with a header row. A UTF-8 BOM is prefixed
// so spreadsheet tools pick the right encoding for non-ASCII names.
func WriteCSV(w io.Writer, table Table) error {
	if len(table.Columns) == 0 {
		return fmt.Errorf("csv requires at least one column")
	}
	if _, err := io.WriteString(w, "\ufeff"); err != nil {
		return fmt.Errorf("write csv bom: %w", err)
	}

	writer := csv.NewWriter(w)
	header := make([]string, len(table.Columns))
	for i, col := range table.Columns {
		header[i] = col.Title
	}
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}

	record := make([]string, len(table.Columns))
	for _, row := range table.Rows {
		for i, col := range table.Columns {
			record[i] = row[col.Key]
		}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}
	return nil
}
