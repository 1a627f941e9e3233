package extract

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strings"

	"github.com/extrame/xls"
	"github.com/xuri/excelize/v2"
)

// maxXLSRows bounds legacy .xls reads; the format predates streaming access.
const maxXLSRows = 100000

func extractTabular(data []byte, filename string) (string, error) {
	switch {
	case strings.HasSuffix(filename, ".csv"):
		return extractCSV(data)
	case strings.HasSuffix(filename, ".xlsx"):
		return extractXLSX(data)
	default:
		return extractXLS(data)
	}
}

func extractCSV(data []byte) (string, error) {
	reader := csv.NewReader(bytes.NewReader(data))
	reader.FieldsPerRecord = -1
	records, err := reader.ReadAll()
	if err != nil {
		return "", fmt.Errorf("read csv: %w", err)
	}
	return joinRows(records), nil
}

func extractXLSX(data []byte) (string, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("open xlsx: %w", err)
	}
	defer f.Close()

	var sheets []string
	for _, name := range f.GetSheetList() {
		rows, err := f.GetRows(name)
		if err != nil {
			return "", fmt.Errorf("read sheet %s: %w", name, err)
		}
		if text := joinRows(rows); text != "" {
			sheets = append(sheets, text)
		}
	}
	return strings.Join(sheets, "\n"), nil
}

func extractXLS(data []byte) (string, error) {
	wb, err := xls.OpenReader(bytes.NewReader(data), "utf-8")
	if err != nil {
		return "", fmt.Errorf("open xls: %w", err)
	}
	return joinRows(wb.ReadAllCells(maxXLSRows)), nil
}

func joinRows(rows [][]string) string {
	lines := make([]string, 0, len(rows))
	for _, row := range rows {
		line := strings.TrimSpace(strings.Join(row, " "))
		if line != "" {
			lines = append(lines, line)
		}
	}
	return strings.Join(lines, "\n")
}
