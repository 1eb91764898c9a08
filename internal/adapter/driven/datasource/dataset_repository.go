// Package datasource carrega os datasets nomeados a partir de arquivos locais
// (CSV, XLSX), objetos S3 ou tabelas Postgres.
package datasource

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/diillson/fundraising-dashboard-go/internal/domain/dataset"
	"github.com/diillson/fundraising-dashboard-go/internal/domain/repository"
	"github.com/diillson/fundraising-dashboard-go/internal/shared/types"
)

// rawTable é o conteúdo textual de uma fonte antes da inferência de tipos.
type rawTable struct {
	columns []string
	rows    [][]string
}

// DatasetRepositoryImpl implementa o DatasetRepository. O catálogo é lido uma
// única vez; chamadas seguintes devolvem o mesmo resultado.
type DatasetRepositoryImpl struct {
	objects *objectStore
	tables  *sqlSource

	once    sync.Once
	catalog *dataset.Catalog
	err     error
}

// NewDatasetRepository cria o repositório. awsProfile é usado apenas por
// fontes s3://; vazio usa a cadeia padrão de credenciais.
func NewDatasetRepository(awsProfile string) repository.DatasetRepository {
	return &DatasetRepositoryImpl{
		objects: newObjectStore(awsProfile),
		tables:  newSQLSource(),
	}
}

// UseAWSProfile troca o perfil das fontes s3:// antes do primeiro Load.
func (r *DatasetRepositoryImpl) UseAWSProfile(profile string) {
	if profile == "" || profile == r.objects.profile {
		return
	}
	r.objects = newObjectStore(profile)
}

// Load lê todas as fontes e monta o catálogo.
func (r *DatasetRepositoryImpl) Load(ctx context.Context, sources map[string]types.SourceConfig) (*dataset.Catalog, error) {
	r.once.Do(func() {
		r.catalog, r.err = r.load(ctx, sources)
	})
	return r.catalog, r.err
}

func (r *DatasetRepositoryImpl) load(ctx context.Context, sources map[string]types.SourceConfig) (*dataset.Catalog, error) {
	if len(sources) == 0 {
		return nil, types.ErrNoSourcesConfigured
	}

	names := make([]string, 0, len(sources))
	for name := range sources {
		names = append(names, name)
	}
	sort.Strings(names)

	tables := make([]*dataset.Table, 0, len(names))
	for _, name := range names {
		raw, err := r.read(ctx, sources[name])
		if err != nil {
			return nil, fmt.Errorf("dataset %s: %w", name, err)
		}
		tbl, err := buildTable(name, raw)
		if err != nil {
			return nil, err
		}
		tables = append(tables, tbl)
	}
	return dataset.NewCatalog(tables...)
}

func (r *DatasetRepositoryImpl) read(ctx context.Context, src types.SourceConfig) (rawTable, error) {
	path := strings.TrimSpace(src.Path)
	switch {
	case path == "":
		return rawTable{}, fmt.Errorf("empty source path")
	case strings.HasPrefix(path, "s3://"):
		return r.objects.read(ctx, path)
	case isPostgresDSN(path):
		return r.tables.read(ctx, path, src.Table)
	}

	f, err := os.Open(path)
	if err != nil {
		return rawTable{}, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()
	return decode(path, f)
}

// decode escolhe o leitor pela extensão do arquivo.
func decode(path string, r io.Reader) (rawTable, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return readCSV(r)
	case ".xlsx":
		return readXLSX(r)
	}
	return rawTable{}, fmt.Errorf("unsupported dataset format: %s", path)
}

// buildTable infere o tipo de cada coluna e monta a tabela.
func buildTable(name string, raw rawTable) (*dataset.Table, error) {
	columns := make([][]any, len(raw.columns))
	for j := range raw.columns {
		cells := make([]string, len(raw.rows))
		for i, row := range raw.rows {
			if j < len(row) {
				cells[i] = row[j]
			}
		}
		columns[j] = dataset.InferColumn(cells)
	}

	rows := make([][]any, len(raw.rows))
	for i := range raw.rows {
		row := make([]any, len(raw.columns))
		for j := range raw.columns {
			row[j] = columns[j][i]
		}
		rows[i] = row
	}
	return dataset.NewTable(name, raw.columns, rows)
}
