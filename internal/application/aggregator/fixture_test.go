package aggregator

import (
	"testing"

	"github.com/diillson/fundraising-dashboard-go/internal/domain/dataset"
)

var mergedColumns = []string{
	ColPaymentFY, ColPaymentFM, ColPaymentAmount, ColPaymentCFAmount, ColPaymentPlatform,
	ColPaymentPortfolio, ColPledgeChapterType, ColPledgeDonorChapter, ColPledgeFrequencyType,
}

type payment struct {
	fy        string
	fm        float64
	amount    float64
	cf        float64
	platform  any
	portfolio string
	chapterTy any
	chapter   any
	freqType  any
}

func mergedTable(t *testing.T, payments []payment) *dataset.Table {
	t.Helper()
	records := make([]map[string]any, 0, len(payments))
	for _, p := range payments {
		portfolio := p.portfolio
		if portfolio == "" {
			portfolio = "Top Charities"
		}
		records = append(records, map[string]any{
			ColPaymentFY:           p.fy,
			ColPaymentFM:           p.fm,
			ColPaymentAmount:       p.amount,
			ColPaymentCFAmount:     p.cf,
			ColPaymentPlatform:     p.platform,
			ColPaymentPortfolio:    portfolio,
			ColPledgeChapterType:   p.chapterTy,
			ColPledgeDonorChapter:  p.chapter,
			ColPledgeFrequencyType: p.freqType,
		})
	}
	tbl, err := dataset.FromRecords(DatasetMerged, mergedColumns, records)
	if err != nil {
		t.Fatalf("merged table: %v", err)
	}
	return tbl
}

func table(t *testing.T, name string, columns []string, records []map[string]any) *dataset.Table {
	t.Helper()
	tbl, err := dataset.FromRecords(name, columns, records)
	if err != nil {
		t.Fatalf("%s table: %v", name, err)
	}
	return tbl
}

// emptyTables devolve os datasets auxiliares vazios, com o esquema completo.
func emptyTables(t *testing.T, except ...string) []*dataset.Table {
	t.Helper()
	skip := map[string]bool{}
	for _, e := range except {
		skip[e] = true
	}
	var out []*dataset.Table
	for name, cols := range RequiredColumns {
		if skip[name] {
			continue
		}
		out = append(out, table(t, name, cols, nil))
	}
	return out
}

func catalog(t *testing.T, tables ...*dataset.Table) *dataset.Catalog {
	t.Helper()
	names := make([]string, 0, len(tables))
	for _, tbl := range tables {
		names = append(names, tbl.Name())
	}
	all := append(emptyTables(t, names...), tables...)
	c, err := dataset.NewCatalog(all...)
	if err != nil {
		t.Fatalf("catalog: %v", err)
	}
	return c
}
