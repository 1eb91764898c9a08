package dataset

import (
	"fmt"
	"sort"
	"time"

	"github.com/samber/lo"
)

// Op é o operador de um predicado.
type Op string

const (
	OpEq    Op = "=="
	OpIn    Op = "in"
	OpNotIn Op = "not-in"
)

// Predicate é uma tripla (coluna, operador, valor). Para OpIn e OpNotIn,
// Value deve ser um []any.
type Predicate struct {
	Column string
	Op     Op
	Value  any
}

// Eq cria um predicado de igualdade.
func Eq(col string, v any) Predicate { return Predicate{Column: col, Op: OpEq, Value: v} }

// In cria um predicado de pertinência.
func In[T any](col string, vs ...T) Predicate {
	return Predicate{Column: col, Op: OpIn, Value: lo.ToAnySlice(vs)}
}

// NotIn cria um predicado de exclusão.
func NotIn[T any](col string, vs ...T) Predicate {
	return Predicate{Column: col, Op: OpNotIn, Value: lo.ToAnySlice(vs)}
}

func (p Predicate) match(v any) bool {
	switch p.Op {
	case OpEq:
		return equalValues(v, p.Value)
	case OpIn, OpNotIn:
		values, _ := p.Value.([]any)
		found := lo.ContainsBy(values, func(x any) bool { return equalValues(v, x) })
		if p.Op == OpIn {
			return found
		}
		return !found
	}
	return false
}

// View é uma visão preguiçosa: guarda predicados e projeção, e só percorre
// a tabela em Collect.
type View struct {
	table *Table
	preds []Predicate
	cols  []string
}

// Dataset retorna o nome do dataset de origem.
func (v *View) Dataset() string { return v.table.name }

// Filter devolve uma nova visão com os predicados adicionais (conjunção).
// Colunas desconhecidas e operadores inválidos falham imediatamente.
func (v *View) Filter(preds ...Predicate) (*View, error) {
	for _, p := range preds {
		if _, err := v.table.columnIndex(p.Column); err != nil {
			return nil, err
		}
		switch p.Op {
		case OpEq:
		case OpIn, OpNotIn:
			if _, ok := p.Value.([]any); !ok {
				return nil, fmt.Errorf("predicate %s %s: value must be a list", p.Column, p.Op)
			}
		default:
			return nil, fmt.Errorf("predicate on %s: unsupported operator %q", p.Column, p.Op)
		}
	}
	next := &View{
		table: v.table,
		preds: append(append([]Predicate(nil), v.preds...), preds...),
		cols:  v.cols,
	}
	return next, nil
}

// Select projeta a visão nas colunas indicadas.
func (v *View) Select(cols ...string) (*View, error) {
	if err := v.table.Require(cols...); err != nil {
		return nil, err
	}
	return &View{table: v.table, preds: v.preds, cols: append([]string(nil), cols...)}, nil
}

// Collect materializa a visão.
func (v *View) Collect() *Frame {
	cols := v.cols
	if cols == nil {
		cols = v.table.columns
	}
	positions := make([]int, len(cols))
	for i, c := range cols {
		positions[i] = v.table.index[c]
	}
	predPos := make([]int, len(v.preds))
	for i, p := range v.preds {
		predPos[i] = v.table.index[p.Column]
	}

	var rows [][]any
	for _, row := range v.table.rows {
		keep := true
		for i, p := range v.preds {
			if !p.match(row[predPos[i]]) {
				keep = false
				break
			}
		}
		if !keep {
			continue
		}
		out := make([]any, len(positions))
		for i, pos := range positions {
			out[i] = row[pos]
		}
		rows = append(rows, out)
	}
	return newFrame(cols, rows)
}

// Frame é o resultado materializado de uma visão.
type Frame struct {
	columns []string
	index   map[string]int
	rows    [][]any
}

func newFrame(cols []string, rows [][]any) *Frame {
	index := make(map[string]int, len(cols))
	for i, c := range cols {
		index[c] = i
	}
	return &Frame{columns: cols, index: index, rows: rows}
}

// Len retorna o número de linhas.
func (f *Frame) Len() int { return len(f.rows) }

// Columns retorna as colunas do frame.
func (f *Frame) Columns() []string { return append([]string(nil), f.columns...) }

// Value retorna a célula bruta. Colunas fora da projeção retornam nil.
func (f *Frame) Value(i int, col string) any {
	pos, ok := f.index[col]
	if !ok {
		return nil
	}
	return f.rows[i][pos]
}

// Float retorna a célula como float64; nil e textos não numéricos valem 0.
func (f *Frame) Float(i int, col string) float64 {
	v, _ := toFloat(f.Value(i, col))
	return v
}

// Int retorna a célula como inteiro.
func (f *Frame) Int(i int, col string) int {
	return int(f.Float(i, col))
}

// String retorna a célula formatada; nil vira "".
func (f *Frame) String(i int, col string) string {
	return toString(f.Value(i, col))
}

// Time retorna a célula como data, quando possível.
func (f *Frame) Time(i int, col string) (time.Time, bool) {
	switch x := f.Value(i, col).(type) {
	case time.Time:
		return x, true
	case string:
		return parseTime(x)
	}
	return time.Time{}, false
}

// Sum soma uma coluna numérica.
func (f *Frame) Sum(col string) float64 {
	var total float64
	for i := range f.rows {
		total += f.Float(i, col)
	}
	return total
}

// Unique devolve os valores distintos de uma coluna na ordem de primeira
// aparição. Com desc, ordena do maior para o menor.
func (f *Frame) Unique(col string, desc bool) []any {
	pos, ok := f.index[col]
	if !ok {
		return nil
	}
	seen := make(map[any]struct{})
	var out []any
	for _, row := range f.rows {
		k := key(row[pos])
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, row[pos])
	}
	if desc {
		sort.SliceStable(out, func(a, b int) bool { return Compare(out[a], out[b]) > 0 })
	}
	return out
}

// SortBy reordena as linhas pela coluna indicada, de forma estável.
func (f *Frame) SortBy(col string) *Frame {
	rows := append([][]any(nil), f.rows...)
	pos, ok := f.index[col]
	if ok {
		sort.SliceStable(rows, func(a, b int) bool { return Compare(rows[a][pos], rows[b][pos]) < 0 })
	}
	return newFrame(f.columns, rows)
}
