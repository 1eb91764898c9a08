package datasource

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
)

func readCSV(r io.Reader) (rawTable, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return rawTable{}, fmt.Errorf("empty CSV file")
	}
	if err != nil {
		return rawTable{}, fmt.Errorf("reading CSV header: %w", err)
	}
	header = cleanHeader(header)

	var rows [][]string
	for line := 2; ; line++ {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return rawTable{}, fmt.Errorf("reading CSV line %d: %w", line, err)
		}
		if len(record) > len(header) {
			return rawTable{}, fmt.Errorf("CSV line %d has %d fields, header has %d", line, len(record), len(header))
		}
		rows = append(rows, record)
	}
	return rawTable{columns: header, rows: rows}, nil
}

// cleanHeader remove o BOM e espaços dos nomes de coluna.
func cleanHeader(header []string) []string {
	out := make([]string, len(header))
	for i, h := range header {
		if i == 0 {
			h = strings.TrimPrefix(h, "\ufeff")
		}
		out[i] = strings.TrimSpace(h)
	}
	return out
}
