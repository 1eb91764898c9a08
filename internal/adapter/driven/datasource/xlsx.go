package datasource

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

// readXLSX lê a primeira planilha; a primeira linha é o cabeçalho.
func readXLSX(r io.Reader) (rawTable, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return rawTable{}, fmt.Errorf("opening XLSX: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return rawTable{}, fmt.Errorf("XLSX file has no sheets")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return rawTable{}, fmt.Errorf("reading sheet %s: %w", sheets[0], err)
	}
	if len(rows) == 0 {
		return rawTable{}, fmt.Errorf("sheet %s is empty", sheets[0])
	}
	return rawTable{columns: cleanHeader(rows[0]), rows: rows[1:]}, nil
}
