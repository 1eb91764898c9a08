package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/diillson/fundraising-dashboard-go/internal/domain/entity"
	"github.com/diillson/fundraising-dashboard-go/internal/shared/types"
	"github.com/samber/lo"
)

var errNotInitialized = errors.New("dashboard not initialized")

// kpiMarker identifica os cartões de KPI na tabela de dependências.
const kpiMarker = "kpis"

// affected declara quais saídas dependem de cada campo do estado de filtros.
var affected = map[entity.FilterField][]string{
	entity.FieldFiscalYear:         append([]string{kpiMarker}, entity.ChartIDs...),
	entity.FieldAmountType:         {kpiMarker, entity.ChartCumulative, entity.ChartMonthly},
	entity.FieldDrilldown:          {entity.ChartMonthly},
	entity.FieldAttritionDrilldown: {entity.ChartAttrition},
	entity.FieldViewMode:           {entity.ChartSankey},
	entity.FieldTopN:               {entity.ChartDumbbell},
	entity.FieldTargets:            {kpiMarker, entity.ChartCumulative, entity.ChartAttrition},
}

// AffectedOutputs devolve as saídas a recalcular para os campos alterados,
// na ordem da página. "kpis" representa os cartões de KPI.
func AffectedOutputs(fields ...entity.FilterField) []string {
	set := map[string]bool{}
	for _, f := range fields {
		for _, id := range affected[f] {
			set[id] = true
		}
	}
	order := append([]string{kpiMarker}, entity.ChartIDs...)
	return lo.Filter(order, func(id string, _ int) bool { return set[id] })
}

// ChangedFields compara dois estados e devolve os campos diferentes.
func ChangedFields(prev, next entity.FilterState) []entity.FilterField {
	var out []entity.FilterField
	if prev.FiscalYear != next.FiscalYear {
		out = append(out, entity.FieldFiscalYear)
	}
	if prev.AmountType != next.AmountType {
		out = append(out, entity.FieldAmountType)
	}
	if prev.Drilldown != next.Drilldown {
		out = append(out, entity.FieldDrilldown)
	}
	if prev.AttritionDrilldown != next.AttritionDrilldown {
		out = append(out, entity.FieldAttritionDrilldown)
	}
	if prev.ViewMode != next.ViewMode {
		out = append(out, entity.FieldViewMode)
	}
	if prev.TopN != next.TopN {
		out = append(out, entity.FieldTopN)
	}
	if !prev.Targets.Equal(next.Targets) {
		out = append(out, entity.FieldTargets)
	}
	return out
}

func (uc *DashboardUseCase) normalize(s entity.FilterState) entity.FilterState {
	if s.AmountType == "" {
		s.AmountType = entity.AmountActual
	}
	if s.ViewMode == "" {
		s.ViewMode = entity.ViewActual
	}
	if s.TopN == 0 {
		s.TopN = entity.DefaultTopN
	}
	if s.Targets == nil {
		s.Targets = uc.TargetsFor(s.FiscalYear)
	}
	return s
}

// Handle processa um evento de filtro: recalcula apenas as saídas afetadas
// pelos campos que mudaram e, se o evento pedir, dispara a narrativa do
// gráfico indicado fora do fluxo de recálculo. Qualquer mudança de estado
// invalida narrativas pendentes.
func (uc *DashboardUseCase) Handle(ctx context.Context, ev entity.FilterEvent) (Update, error) {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	if uc.catalog == nil {
		return Update{}, errNotInitialized
	}

	state := uc.normalize(ev.State)
	if err := ValidateState(state); err != nil {
		return Update{}, err
	}

	var outputs []string
	if !uc.built {
		outputs = AffectedOutputs(entity.FieldFiscalYear)
	} else {
		fields := ChangedFields(uc.state, state)
		if ev.Changed != entity.FieldNone {
			fields = append(fields, ev.Changed)
		}
		outputs = AffectedOutputs(fields...)
		if len(fields) > 0 && uc.insights != nil {
			uc.insights.Invalidate()
		}
	}

	upd := Update{State: state}
	for _, id := range outputs {
		if id == kpiMarker {
			set, err := uc.kpi.Compute(state.FiscalYear, state.Targets)
			if err != nil {
				return Update{}, err
			}
			upd.KPIs = &set
			continue
		}
		c, err := uc.buildChart(id, state)
		if err != nil {
			return Update{}, fmt.Errorf("building %s: %w", id, err)
		}
		upd.Charts = append(upd.Charts, c)
	}

	uc.state = state
	uc.built = true
	if upd.KPIs != nil {
		uc.kpis = *upd.KPIs
	}
	for _, c := range upd.Charts {
		uc.charts[c.ID] = c
	}

	if ev.ChartID != "" {
		ch, err := uc.requestInsight(ctx, ev.ChartID)
		if err != nil {
			return Update{}, err
		}
		upd.Insight = ch
	}
	return upd, nil
}

func (uc *DashboardUseCase) buildChart(id string, s entity.FilterState) (entity.Chart, error) {
	switch id {
	case entity.ChartCumulative:
		target := s.Targets.Get(entity.TargetMoneyMoved)
		if s.AmountType == entity.AmountCounterfactual {
			target = s.Targets.Get(entity.TargetCounterfactualMM)
		}
		t, err := uc.trend.Cumulative(s.FiscalYear, s.AmountType, target)
		if err != nil {
			return entity.Chart{}, err
		}
		return uc.builder.Cumulative(t), nil
	case entity.ChartMonthly:
		t, err := uc.trend.Monthly(s.FiscalYear, s.AmountType, s.Drilldown)
		if err != nil {
			return entity.Chart{}, err
		}
		return uc.builder.Monthly(t), nil
	case entity.ChartFrequency:
		t, err := uc.trend.FrequencyBreakdown(s.FiscalYear)
		if err != nil {
			return entity.Chart{}, err
		}
		return uc.builder.Frequency(t), nil
	case entity.ChartDumbbell:
		r, err := uc.ranking.TopChapters(s.FiscalYear, s.TopN)
		if err != nil {
			return entity.Chart{}, err
		}
		return uc.builder.Dumbbell(r), nil
	case entity.ChartSankey:
		g, err := uc.flow.ARRFlow(s.FiscalYear, s.ViewMode)
		if err != nil {
			return entity.Chart{}, err
		}
		return uc.builder.Sankey(g), nil
	case entity.ChartAttrition:
		t, err := uc.trend.Attrition(s.FiscalYear, s.AttritionDrilldown)
		if err != nil {
			return entity.Chart{}, err
		}
		return uc.builder.Attrition(t, s.Targets.Get(entity.TargetPledgeAttrition)), nil
	}
	return entity.Chart{}, fmt.Errorf("%w: %s", types.ErrUnknownChart, id)
}

// requestInsight envia o último gráfico construído com esse id ao dispatcher.
// Sem gerador configurado, devolve imediatamente um Insight indisponível.
// A geração não herda o cancelamento de ctx: a narrativa chega fora da
// requisição que a pediu e só é descartada por uma geração mais nova.
func (uc *DashboardUseCase) requestInsight(ctx context.Context, chartID string) (<-chan entity.Insight, error) {
	c, ok := uc.charts[chartID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", types.ErrUnknownChart, chartID)
	}
	if uc.insights == nil {
		ch := make(chan entity.Insight, 1)
		ch <- entity.Insight{
			ChartID:   chartID,
			Text:      entity.InsightUnavailableText,
			Status:    entity.InsightUnavailable,
			Error:     types.ErrInsightUnavailable.Error(),
			CreatedAt: time.Now(),
		}
		close(ch)
		return ch, nil
	}
	return uc.insights.Request(context.WithoutCancel(ctx), c), nil
}

// RequestInsight pede a narrativa de um gráfico já construído, sem recalcular nada.
func (uc *DashboardUseCase) RequestInsight(ctx context.Context, chartID string) (<-chan entity.Insight, error) {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	return uc.requestInsight(ctx, chartID)
}

// Insights devolve o histórico de narrativas, mais recente primeiro.
func (uc *DashboardUseCase) Insights() []entity.Insight {
	if uc.insights == nil {
		return nil
	}
	return uc.insights.Messages()
}

// State devolve o estado de filtros atual.
func (uc *DashboardUseCase) State() entity.FilterState {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	s := uc.state
	if s.Targets != nil {
		s.Targets = s.Targets.Merge(nil)
	}
	return s
}

// Addr devolve o endereço do servidor HTTP configurado.
func (uc *DashboardUseCase) Addr() string {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	if uc.cfg == nil {
		return ""
	}
	return uc.cfg.Addr
}

// Chart devolve o último gráfico construído com o id informado.
func (uc *DashboardUseCase) Chart(id string) (entity.Chart, error) {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	c, ok := uc.charts[id]
	if !ok {
		return entity.Chart{}, fmt.Errorf("%w: %s", types.ErrUnknownChart, id)
	}
	return c, nil
}

// Snapshot devolve o painel completo no estado atual, para exportação.
func (uc *DashboardUseCase) Snapshot() (entity.DashboardReport, error) {
	opts, err := uc.FilterOptions()
	if err != nil {
		return entity.DashboardReport{}, err
	}
	uc.mu.Lock()
	defer uc.mu.Unlock()
	if !uc.built {
		return entity.DashboardReport{}, errNotInitialized
	}
	report := entity.DashboardReport{
		GeneratedAt: time.Now(),
		DataAsOf:    opts.DataAsOf,
		State:       uc.state,
		KPIs:        uc.kpis,
	}
	for _, id := range entity.ChartIDs {
		if c, ok := uc.charts[id]; ok {
			report.Charts = append(report.Charts, c)
		}
	}
	if uc.insights != nil {
		report.Insights = uc.insights.Messages()
	}
	return report, nil
}
