// Package dataset implementa a tabela em memória consumida pelos agregadores:
// tabelas imutáveis, visões preguiçosas com predicados conjuntivos e um
// catálogo de datasets nomeados.
package dataset

import (
	"fmt"

	"github.com/diillson/fundraising-dashboard-go/internal/shared/types"
)

// Table é uma tabela imutável com colunas nomeadas.
type Table struct {
	name    string
	columns []string
	index   map[string]int
	rows    [][]any
}

// NewTable cria uma tabela. Cada linha deve ter exatamente len(columns) células.
func NewTable(name string, columns []string, rows [][]any) (*Table, error) {
	index := make(map[string]int, len(columns))
	for i, c := range columns {
		if _, dup := index[c]; dup {
			return nil, fmt.Errorf("dataset %s: duplicated column %q", name, c)
		}
		index[c] = i
	}
	for i, row := range rows {
		if len(row) != len(columns) {
			return nil, fmt.Errorf("dataset %s: row %d has %d cells, expected %d", name, i, len(row), len(columns))
		}
	}
	return &Table{
		name:    name,
		columns: append([]string(nil), columns...),
		index:   index,
		rows:    rows,
	}, nil
}

// FromRecords monta uma tabela a partir de mapas coluna→valor.
// Colunas ausentes em um registro ficam nil.
func FromRecords(name string, columns []string, records []map[string]any) (*Table, error) {
	rows := make([][]any, len(records))
	for i, rec := range records {
		row := make([]any, len(columns))
		for j, c := range columns {
			row[j] = rec[c]
		}
		rows[i] = row
	}
	return NewTable(name, columns, rows)
}

// Name retorna o nome do dataset.
func (t *Table) Name() string { return t.name }

// Columns retorna uma cópia da lista de colunas.
func (t *Table) Columns() []string { return append([]string(nil), t.columns...) }

// Len retorna o número de linhas.
func (t *Table) Len() int { return len(t.rows) }

// HasColumn reporta se a coluna existe.
func (t *Table) HasColumn(col string) bool {
	_, ok := t.index[col]
	return ok
}

func (t *Table) columnIndex(col string) (int, error) {
	i, ok := t.index[col]
	if !ok {
		return 0, fmt.Errorf("%w: %s.%s", types.ErrUnknownColumn, t.name, col)
	}
	return i, nil
}

// Require falha se alguma das colunas não existir.
func (t *Table) Require(cols ...string) error {
	for _, c := range cols {
		if _, err := t.columnIndex(c); err != nil {
			return err
		}
	}
	return nil
}

// View devolve uma visão sem filtros de toda a tabela.
func (t *Table) View() *View {
	return &View{table: t}
}
