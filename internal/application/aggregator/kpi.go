package aggregator

import (
	"fmt"
	"math"

	"github.com/diillson/fundraising-dashboard-go/internal/domain/dataset"
	"github.com/diillson/fundraising-dashboard-go/internal/domain/entity"
	"github.com/diillson/fundraising-dashboard-go/internal/domain/fiscal"
	"github.com/diillson/fundraising-dashboard-go/internal/shared/format"
	"github.com/diillson/fundraising-dashboard-go/internal/shared/types"
)

// KPIAggregator calcula os indicadores escalares de um ano fiscal.
type KPIAggregator struct {
	src  Source
	opts Options
}

// NewKPIAggregator cria o agregador de KPIs.
func NewKPIAggregator(src Source, opts Options) *KPIAggregator {
	return &KPIAggregator{src: src, opts: opts}
}

// Compute calcula money moved, counterfactual, ARR ativo, atrito e contagens
// de doadores e compromissos ativos, cada um contra sua meta.
func (a *KPIAggregator) Compute(fy string, targets entity.TargetConfig) (entity.KPISet, error) {
	if fy == "" {
		return entity.KPISet{}, fmt.Errorf("kpis: %w: fiscal year", types.ErrMissingFilterValue)
	}
	if _, err := fiscal.Parse(fy); err != nil {
		return entity.KPISet{}, err
	}

	mmView, err := moneyMoved(a.src, a.opts, fy)
	if err != nil {
		return entity.KPISet{}, fmt.Errorf("kpis: money moved: %w", err)
	}
	mm := mmView.Collect()

	arrView, err := a.src.Filter(DatasetActiveARR, dataset.Eq(ColPledgeStartFY, fy))
	if err != nil {
		return entity.KPISet{}, fmt.Errorf("kpis: active arr: %w", err)
	}

	attrition, err := a.attritionPercent(fy)
	if err != nil {
		return entity.KPISet{}, err
	}

	donors, err := a.activeCount(fy, StatusActiveDonor, StatusOneTime)
	if err != nil {
		return entity.KPISet{}, err
	}
	pledges, err := a.activeCount(fy, StatusActiveDonor)
	if err != nil {
		return entity.KPISet{}, err
	}

	set := entity.KPISet{FiscalYear: fy}
	set.Items = append(set.Items,
		moneyKPI(entity.TargetMoneyMoved, "Money Moved FYTD", mm.Sum(ColPaymentAmount), targets),
		moneyKPI(entity.TargetCounterfactualMM, "CF Money Moved FYTD", mm.Sum(ColPaymentCFAmount), targets),
		moneyKPI(entity.TargetActiveARR, "Active Annualized Run Rate", arrView.Collect().Sum(ColContributionARR), targets),
		rateKPI(entity.TargetPledgeAttrition, "Pledge Attrition Rate", attrition, targets),
		countKPI(entity.TargetActiveDonors, "Active Donors", float64(donors), targets),
		countKPI(entity.TargetActivePledges, "Active Pledges", float64(pledges), targets),
	)
	return set, nil
}

// attritionPercent devolve cancelados/total em pontos percentuais, ou NaN sem
// denominador. O cartão cobre o ano fiscal inteiro; o corte de meses vale só
// para a tendência.
func (a *KPIAggregator) attritionPercent(fy string) (float64, error) {
	v, err := a.src.Filter(DatasetAttrition, dataset.Eq(ColPledgeStartFY, fy))
	if err != nil {
		return 0, fmt.Errorf("kpis: attrition: %w", err)
	}
	f := v.Collect()
	return AttritionRate(f.Sum(ColCancelledCount), f.Sum(ColTotalPledgeCount)) * 100, nil
}

// activeCount conta doadores distintos com status permitido entre os
// compromissos iniciados até o ano fiscal selecionado.
func (a *KPIAggregator) activeCount(fy string, statuses ...string) (int, error) {
	years, err := a.src.UniqueValues(DatasetPledges, ColPledgeStartFY, false)
	if err != nil {
		return 0, fmt.Errorf("kpis: pledge years: %w", err)
	}
	var eligible []string
	for _, y := range years {
		label, ok := y.(string)
		if !ok {
			continue
		}
		before, err := fiscal.Before(fy, label)
		if err != nil {
			continue
		}
		if !before {
			eligible = append(eligible, label)
		}
	}
	v, err := a.src.Filter(DatasetPledges,
		dataset.In(ColPledgeStartFY, eligible...),
		dataset.In(ColPledgeStatus, statuses...),
	)
	if err != nil {
		return 0, fmt.Errorf("kpis: active pledges: %w", err)
	}
	n, err := a.src.UniqueCount(v, ColDonorID)
	if err != nil {
		return 0, fmt.Errorf("kpis: active pledges: %w", err)
	}
	return n, nil
}

// AttritionRate devolve cancelled/total, ou NaN quando total é zero.
func AttritionRate(cancelled, total float64) float64 {
	if total <= 0 {
		return math.NaN()
	}
	return cancelled / total
}

func percentOf(value, goal float64) float64 {
	if goal == 0 {
		return 0
	}
	return value / goal
}

func moneyKPI(key, label string, value float64, targets entity.TargetConfig) entity.KPI {
	goal := targets.Get(key)
	pct := percentOf(value, goal)
	return entity.KPI{
		Key:           key,
		Label:         label,
		Value:         value,
		Target:        goal,
		PercentOfGoal: pct,
		Display:       format.Money(value, 2),
		GoalDisplay:   fmt.Sprintf("of %s Target (%s)", format.Money(goal, 0), format.Percent(pct, 2)),
		Unit:          "$",
		Defined:       true,
	}
}

func countKPI(key, label string, value float64, targets entity.TargetConfig) entity.KPI {
	goal := targets.Get(key)
	pct := percentOf(value, goal)
	return entity.KPI{
		Key:           key,
		Label:         label,
		Value:         value,
		Target:        goal,
		PercentOfGoal: pct,
		Display:       format.Count(value),
		GoalDisplay:   fmt.Sprintf("of %s Target (%s)", format.Count(goal), format.Percent(pct, 2)),
		Unit:          "#",
		Defined:       true,
	}
}

// rateKPI recebe a taxa em pontos percentuais.
func rateKPI(key, label string, value float64, targets entity.TargetConfig) entity.KPI {
	goal := targets.Get(key)
	k := entity.KPI{
		Key:         key,
		Label:       label,
		Target:      goal,
		Display:     "n/a",
		GoalDisplay: fmt.Sprintf("%s%% Target", format.Count(goal)),
		Unit:        "%",
	}
	if math.IsNaN(value) {
		return k
	}
	k.Value = value
	k.PercentOfGoal = percentOf(value, goal)
	k.Display = format.Percent(value/100, 1)
	k.Defined = true
	return k
}
