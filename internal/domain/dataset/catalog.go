package dataset

import (
	"fmt"
	"sort"

	"github.com/diillson/fundraising-dashboard-go/internal/shared/types"
)

// Catalog agrupa os datasets nomeados carregados na inicialização.
// Depois de criado é somente leitura, e pode ser compartilhado entre goroutines.
type Catalog struct {
	tables map[string]*Table
}

// NewCatalog cria um catálogo a partir das tabelas informadas.
func NewCatalog(tables ...*Table) (*Catalog, error) {
	c := &Catalog{tables: make(map[string]*Table, len(tables))}
	for _, t := range tables {
		if _, dup := c.tables[t.name]; dup {
			return nil, fmt.Errorf("dataset %s registered twice", t.name)
		}
		c.tables[t.name] = t
	}
	return c, nil
}

// Names lista os datasets em ordem alfabética.
func (c *Catalog) Names() []string {
	names := make([]string, 0, len(c.tables))
	for n := range c.tables {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Table devolve o dataset pelo nome.
func (c *Catalog) Table(name string) (*Table, error) {
	t, ok := c.tables[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", types.ErrUnknownDataset, name)
	}
	return t, nil
}

// Require valida que o dataset existe e contém as colunas informadas.
func (c *Catalog) Require(name string, cols ...string) error {
	t, err := c.Table(name)
	if err != nil {
		return err
	}
	return t.Require(cols...)
}

// Filter devolve uma visão preguiçosa do dataset com os predicados aplicados.
func (c *Catalog) Filter(name string, preds ...Predicate) (*View, error) {
	t, err := c.Table(name)
	if err != nil {
		return nil, err
	}
	return t.View().Filter(preds...)
}

// UniqueValues devolve os valores distintos de uma coluna, em ordem de
// inserção ou, com sortDesc, do maior para o menor.
func (c *Catalog) UniqueValues(name, col string, sortDesc bool) ([]any, error) {
	v, err := c.Filter(name)
	if err != nil {
		return nil, err
	}
	v, err = v.Select(col)
	if err != nil {
		return nil, err
	}
	return v.Collect().Unique(col, sortDesc), nil
}

// UniqueCount conta os valores distintos (não nulos) de uma coluna na visão.
func (c *Catalog) UniqueCount(v *View, col string) (int, error) {
	v, err := v.Select(col)
	if err != nil {
		return 0, err
	}
	count := 0
	for _, val := range v.Collect().Unique(col, false) {
		if val != nil {
			count++
		}
	}
	return count, nil
}

// MaxValue devolve o maior valor de uma coluna, ou nil para dataset vazio.
func (c *Catalog) MaxValue(name, col string) (any, error) {
	values, err := c.UniqueValues(name, col, true)
	if err != nil {
		return nil, err
	}
	if len(values) == 0 {
		return nil, nil
	}
	return values[0], nil
}
