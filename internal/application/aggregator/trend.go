package aggregator

import (
	"fmt"
	"math"

	"github.com/diillson/fundraising-dashboard-go/internal/domain/dataset"
	"github.com/diillson/fundraising-dashboard-go/internal/domain/entity"
	"github.com/diillson/fundraising-dashboard-go/internal/domain/fiscal"
	"github.com/diillson/fundraising-dashboard-go/internal/shared/types"
	"github.com/samber/lo"
)

// TrendAggregator monta as séries mensais do ano fiscal.
type TrendAggregator struct {
	src  Source
	opts Options
}

// NewTrendAggregator cria o agregador de tendências.
func NewTrendAggregator(src Source, opts Options) *TrendAggregator {
	return &TrendAggregator{src: src, opts: opts}
}

// monthly acumula valores por mês fiscal; has marca meses com ao menos uma linha.
type monthly struct {
	sum [fiscal.MonthsPerYear]float64
	has [fiscal.MonthsPerYear]bool
}

func (m *monthly) add(fm int, v float64) {
	if fm < 1 || fm > fiscal.MonthsPerYear {
		return
	}
	m.sum[fm-1] += v
	m.has[fm-1] = true
}

func (m *monthly) total() float64 {
	return lo.Sum(m.sum[:])
}

// values devolve as 12 posições, nil onde não há dados.
func (m *monthly) values() []*float64 {
	out := make([]*float64, fiscal.MonthsPerYear)
	for i := range out {
		if m.has[i] {
			out[i] = ptr(m.sum[i])
		}
	}
	return out
}

func (t *TrendAggregator) monthlyTotals(fy, amountCol string) (*monthly, error) {
	v, err := moneyMoved(t.src, t.opts, fy)
	if err != nil {
		return nil, err
	}
	if v, err = v.Select(ColPaymentFM, amountCol); err != nil {
		return nil, err
	}
	f := v.Collect()
	m := &monthly{}
	for i := 0; i < f.Len(); i++ {
		m.add(f.Int(i, ColPaymentFM), f.Float(i, amountCol))
	}
	return m, nil
}

func validateAmount(amount entity.AmountType) error {
	switch amount {
	case entity.AmountActual, entity.AmountCounterfactual:
		return nil
	}
	return fmt.Errorf("%w: %q", types.ErrInvalidAmountType, amount)
}

// Cumulative monta a série acumulada do ano fiscal e a linha de ritmo baseada
// na sazonalidade do ano anterior escalada para a meta atual.
// Meses sem dados até o último mês com dados contam como zero; os meses
// seguintes ficam nil.
func (t *TrendAggregator) Cumulative(fy string, amount entity.AmountType, target float64) (entity.CumulativeTrend, error) {
	if err := validateAmount(amount); err != nil {
		return entity.CumulativeTrend{}, err
	}
	labels, err := fiscal.MonthLabels(fy)
	if err != nil {
		return entity.CumulativeTrend{}, err
	}
	current, err := t.monthlyTotals(fy, string(amount))
	if err != nil {
		return entity.CumulativeTrend{}, fmt.Errorf("cumulative trend: %w", err)
	}
	prior, err := fiscal.Prior(fy)
	if err != nil {
		return entity.CumulativeTrend{}, err
	}
	previous, err := t.monthlyTotals(prior, string(amount))
	if err != nil {
		return entity.CumulativeTrend{}, fmt.Errorf("cumulative trend: prior year: %w", err)
	}

	out := entity.CumulativeTrend{
		FiscalYear: fy,
		AmountType: amount,
		Labels:     labels,
		Monthly:    make([]*float64, fiscal.MonthsPerYear),
		Cumulative: make([]*float64, fiscal.MonthsPerYear),
		Pacing:     Pacing(previous.sum[:], target),
		Target:     target,
	}
	for i := fiscal.MonthsPerYear - 1; i >= 0; i-- {
		if current.has[i] {
			out.CurrentMonth = i + 1
			break
		}
	}
	var running float64
	for i := 0; i < out.CurrentMonth; i++ {
		running += current.sum[i]
		out.Monthly[i] = ptr(current.sum[i])
		out.Cumulative[i] = ptr(running)
	}
	out.Current = running
	out.Achieved = percentOf(running, target)
	return out, nil
}

// Pacing distribui target pelos meses na proporção de prior e acumula.
// Sem histórico (total zero), o ritmo é linear.
func Pacing(prior []float64, target float64) []float64 {
	out := make([]float64, fiscal.MonthsPerYear)
	total := lo.Sum(prior)
	var running float64
	for i := range out {
		if total > 0 {
			if i < len(prior) {
				running += prior[i] / total * target
			}
			out[i] = running
			continue
		}
		out[i] = target * float64(i+1) / fiscal.MonthsPerYear
	}
	return out
}

// Monthly devolve valores mensais (não acumulados). Sem dimensão, há uma
// única série "MM"; com dimensão, uma série por valor na ordem de primeira
// aparição após ordenar por mês fiscal.
func (t *TrendAggregator) Monthly(fy string, amount entity.AmountType, drilldown string) (entity.MonthlyTrend, error) {
	if err := validateAmount(amount); err != nil {
		return entity.MonthlyTrend{}, err
	}
	if err := ValidateDrilldown(drilldown, DrilldownOptions); err != nil {
		return entity.MonthlyTrend{}, err
	}
	labels, err := fiscal.MonthLabels(fy)
	if err != nil {
		return entity.MonthlyTrend{}, err
	}
	out := entity.MonthlyTrend{FiscalYear: fy, Dimension: drilldown, Labels: labels}

	if drilldown == "" {
		m, err := t.monthlyTotals(fy, string(amount))
		if err != nil {
			return entity.MonthlyTrend{}, fmt.Errorf("monthly trend: %w", err)
		}
		out.Series = []entity.Series{{Name: "MM", Values: m.values()}}
		return out, nil
	}

	v, err := moneyMoved(t.src, t.opts, fy)
	if err != nil {
		return entity.MonthlyTrend{}, fmt.Errorf("monthly trend: %w", err)
	}
	if v, err = v.Select(ColPaymentFM, drilldown, string(amount)); err != nil {
		return entity.MonthlyTrend{}, fmt.Errorf("monthly trend: %w", err)
	}
	out.Series = splitByDimension(v.Collect().SortBy(ColPaymentFM), ColPaymentFM, drilldown,
		func(f *dataset.Frame, i int) float64 { return f.Float(i, string(amount)) })
	return out, nil
}

// splitByDimension agrupa por (mês, dimensão) e devolve uma série por valor da dimensão.
func splitByDimension(f *dataset.Frame, fmCol, dim string, value func(*dataset.Frame, int) float64) []entity.Series {
	var order []string
	groups := map[string]*monthly{}
	for i := 0; i < f.Len(); i++ {
		name := category(f.String(i, dim))
		m, ok := groups[name]
		if !ok {
			m = &monthly{}
			groups[name] = m
			order = append(order, name)
		}
		m.add(f.Int(i, fmCol), value(f, i))
	}
	series := make([]entity.Series, 0, len(order))
	for _, name := range order {
		series = append(series, entity.Series{Name: name, Values: groups[name].values()})
	}
	return series
}

// FrequencyBreakdown soma o valor real por mês e tipo de frequência. As três
// categorias são fixas; tipos nulos ou desconhecidos contam como Unspecified.
func (t *TrendAggregator) FrequencyBreakdown(fy string) (entity.MonthlyTrend, error) {
	labels, err := fiscal.MonthLabels(fy)
	if err != nil {
		return entity.MonthlyTrend{}, err
	}
	v, err := moneyMoved(t.src, t.opts, fy)
	if err != nil {
		return entity.MonthlyTrend{}, fmt.Errorf("frequency breakdown: %w", err)
	}
	if v, err = v.Select(ColPaymentFM, ColPledgeFrequencyType, ColPaymentAmount); err != nil {
		return entity.MonthlyTrend{}, fmt.Errorf("frequency breakdown: %w", err)
	}
	f := v.Collect()
	groups := make(map[string]*monthly, len(FrequencyTypes))
	for _, ft := range FrequencyTypes {
		groups[ft] = &monthly{}
	}
	for i := 0; i < f.Len(); i++ {
		ft := f.String(i, ColPledgeFrequencyType)
		if _, ok := groups[ft]; !ok {
			ft = FrequencyUnspecified
		}
		groups[ft].add(f.Int(i, ColPaymentFM), f.Float(i, ColPaymentAmount))
	}
	out := entity.MonthlyTrend{FiscalYear: fy, Dimension: ColPledgeFrequencyType, Labels: labels}
	for _, ft := range FrequencyTypes {
		out.Series = append(out.Series, entity.Series{
			Name:   ft,
			Color:  FrequencyColors[ft],
			Values: groups[ft].values(),
		})
	}
	return out, nil
}

// attritionView filtra o dataset de atrito no ano fiscal, aplicando o corte
// configurado (meses fiscais >= cutoff ficam de fora).
func attritionView(src Source, opts Options, fy string) (*dataset.View, error) {
	preds := []dataset.Predicate{dataset.Eq(ColPledgeStartFY, fy)}
	if cutoff, ok := opts.AttritionCutoffs[fy]; ok && cutoff > 0 {
		preds = append(preds, dataset.In(ColPledgeStartFM, lo.RangeFrom(1, cutoff-1)...))
	}
	return src.Filter(DatasetAttrition, preds...)
}

// Attrition calcula a taxa de atrito mensal (cancelados/total, como razão).
// Meses sem compromissos ficam nil.
func (t *TrendAggregator) Attrition(fy, drilldown string) (entity.MonthlyTrend, error) {
	if err := ValidateDrilldown(drilldown, AttritionDrilldownOptions); err != nil {
		return entity.MonthlyTrend{}, err
	}
	labels, err := fiscal.MonthLabels(fy)
	if err != nil {
		return entity.MonthlyTrend{}, err
	}
	v, err := attritionView(t.src, t.opts, fy)
	if err != nil {
		return entity.MonthlyTrend{}, fmt.Errorf("attrition trend: %w", err)
	}
	f := v.Collect().SortBy(ColPledgeStartFM)

	var order []string
	totals := map[string]*monthly{}
	cancelled := map[string]*monthly{}
	for i := 0; i < f.Len(); i++ {
		name := "Attrition Rate"
		if drilldown != "" {
			name = category(f.String(i, drilldown))
		}
		if _, ok := totals[name]; !ok {
			totals[name], cancelled[name] = &monthly{}, &monthly{}
			order = append(order, name)
		}
		fm := f.Int(i, ColPledgeStartFM)
		totals[name].add(fm, f.Float(i, ColTotalPledgeCount))
		cancelled[name].add(fm, f.Float(i, ColCancelledCount))
	}

	out := entity.MonthlyTrend{FiscalYear: fy, Dimension: drilldown, Labels: labels}
	for _, name := range order {
		values := make([]*float64, fiscal.MonthsPerYear)
		for m := 0; m < fiscal.MonthsPerYear; m++ {
			if !totals[name].has[m] {
				continue
			}
			if rate := AttritionRate(cancelled[name].sum[m], totals[name].sum[m]); !math.IsNaN(rate) {
				values[m] = ptr(rate)
			}
		}
		out.Series = append(out.Series, entity.Series{Name: name, Values: values})
	}
	return out, nil
}
