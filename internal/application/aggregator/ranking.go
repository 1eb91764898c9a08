package aggregator

import (
	"fmt"
	"sort"

	"github.com/diillson/fundraising-dashboard-go/internal/domain/dataset"
	"github.com/diillson/fundraising-dashboard-go/internal/domain/entity"
	"github.com/diillson/fundraising-dashboard-go/internal/domain/fiscal"
	"github.com/diillson/fundraising-dashboard-go/internal/shared/types"
)

// RankingAggregator monta o top-N de capítulos no ano selecionado e no anterior.
type RankingAggregator struct {
	src  Source
	opts Options
}

// NewRankingAggregator cria o agregador de ranking.
func NewRankingAggregator(src Source, opts Options) *RankingAggregator {
	return &RankingAggregator{src: src, opts: opts}
}

// TopChapters pivota money moved por capítulo nos dois anos fiscais, mantém os
// n maiores por total e agrupa o restante em "Other". "Unknown" e "Other"
// vão sempre para o fim.
func (r *RankingAggregator) TopChapters(fy string, n int) (entity.Ranking, error) {
	if n < 1 {
		return entity.Ranking{}, fmt.Errorf("%w: got %d", types.ErrInvalidTopN, n)
	}
	prior, err := fiscal.Prior(fy)
	if err != nil {
		return entity.Ranking{}, err
	}
	v, err := r.src.Filter(DatasetMerged,
		dataset.In(ColPaymentFY, fy, prior),
		dataset.NotIn(ColPaymentPortfolio, r.opts.ExcludedPortfolios...),
	)
	if err != nil {
		return entity.Ranking{}, fmt.Errorf("ranking: %w", err)
	}
	if v, err = v.Select(ColPledgeDonorChapter, ColPaymentFY, ColPaymentAmount); err != nil {
		return entity.Ranking{}, fmt.Errorf("ranking: %w", err)
	}
	f := v.Collect()

	var rows []entity.RankRow
	index := map[string]int{}
	for i := 0; i < f.Len(); i++ {
		chapter := category(f.String(i, ColPledgeDonorChapter))
		pos, ok := index[chapter]
		if !ok {
			pos = len(rows)
			index[chapter] = pos
			rows = append(rows, entity.RankRow{Chapter: chapter})
		}
		amount := f.Float(i, ColPaymentAmount)
		if f.String(i, ColPaymentFY) == fy {
			rows[pos].Selected += amount
		} else {
			rows[pos].Prior += amount
		}
	}
	for i := range rows {
		rows[i].Total = rows[i].Selected + rows[i].Prior
	}

	return entity.Ranking{
		SelectedFY: fy,
		PriorFY:    prior,
		TopN:       n,
		Rows:       RankTop(rows, n),
	}, nil
}

// RankTop ordena por total decrescente, corta em n com uma linha "Other" para
// o restante e fixa "Unknown"/"Other" no fim, preservando a ordem entre eles.
func RankTop(rows []entity.RankRow, n int) []entity.RankRow {
	sorted := append([]entity.RankRow(nil), rows...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Total > sorted[j].Total })

	if len(sorted) > n {
		other := entity.RankRow{Chapter: entity.LabelOther}
		for _, row := range sorted[n:] {
			other.Selected += row.Selected
			other.Prior += row.Prior
			other.Total += row.Total
		}
		sorted = append(sorted[:n:n], other)
	}

	sort.SliceStable(sorted, func(i, j int) bool {
		pi, pj := pinned(sorted[i].Chapter), pinned(sorted[j].Chapter)
		if pi != pj {
			return pj
		}
		if pi {
			return false
		}
		return sorted[i].Total > sorted[j].Total
	})
	return sorted
}

func pinned(label string) bool {
	return label == entity.LabelUnknown || label == entity.LabelOther
}
