// Package chart converte a saída dos agregadores em descrições de gráfico:
// séries, rótulos de eixo e linhas de referência. Não agrega dados.
package chart

import (
	"fmt"

	"github.com/diillson/fundraising-dashboard-go/internal/domain/entity"
	"github.com/diillson/fundraising-dashboard-go/internal/shared/format"
)

// Milestones são as frações da meta marcadas no gráfico acumulado.
var Milestones = []float64{0.25, 0.5, 0.75, 1}

const (
	colorPrimary   = "#006466"
	colorSecondary = "#065A60"
)

// Builder monta os gráficos do painel.
type Builder struct{}

// NewBuilder cria um Builder.
func NewBuilder() *Builder {
	return &Builder{}
}

func points(labels []string, values []*float64, text func(float64) string) []entity.Point {
	out := make([]entity.Point, len(labels))
	for i, l := range labels {
		out[i] = entity.Point{X: l}
		if i < len(values) && values[i] != nil {
			v := *values[i]
			out[i].Y = &v
			if text != nil {
				out[i].Text = text(v)
			}
		}
	}
	return out
}

func money1(v float64) string { return format.Money(v, 1) }
func money2(v float64) string { return format.Money(v, 2) }

// Cumulative monta o gráfico de money moved acumulado com a linha de ritmo,
// a linha até a meta, o marcador da posição atual e os marcos de 25/50/75/100%.
func (b *Builder) Cumulative(t entity.CumulativeTrend) entity.Chart {
	c := entity.Chart{
		ID:      entity.ChartCumulative,
		Title:   "Monthly Cumulative Money Moved",
		Kind:    entity.KindLine,
		XLabels: append([]string(nil), t.Labels...),
		YUnit:   "$",
	}
	if t.AmountType == entity.AmountCounterfactual {
		c.Title = "Monthly Cumulative Counterfactual Money Moved"
	}

	pacing := make([]*float64, len(t.Pacing))
	for i := range t.Pacing {
		v := t.Pacing[i]
		pacing[i] = &v
	}
	c.Series = append(c.Series,
		entity.ChartSeries{Name: "Selected FY (Cumulative)", Color: colorPrimary, Points: points(t.Labels, t.Cumulative, money1)},
		entity.ChartSeries{Name: "Target Run Rate", Color: colorSecondary, Dashed: true, Points: points(t.Labels, pacing, nil)},
	)

	last := len(t.Labels) - 1
	if t.CurrentMonth > 0 && last >= 0 {
		cur := t.Current
		target := t.Target
		c.Markers = append(c.Markers, entity.Point{
			X:    t.Labels[t.CurrentMonth-1],
			Y:    &cur,
			Text: format.Percent(t.Achieved, 2) + " Achieved",
		})
		c.Series = append(c.Series, entity.ChartSeries{
			Name:   "Target",
			Color:  colorSecondary,
			Dashed: true,
			Points: []entity.Point{
				{X: t.Labels[t.CurrentMonth-1], Y: &cur},
				{X: t.Labels[last], Y: &target, Text: "Target: " + money2(t.Target)},
			},
		})
	}
	if last >= 0 {
		target := t.Target
		c.Markers = append(c.Markers, entity.Point{X: t.Labels[last], Y: &target, Text: "Target: " + money1(t.Target)})
	}
	c.References = MilestoneReferences(t.Target, t.Current)
	return c
}

// MilestoneReferences devolve as linhas de marco da meta, marcando como
// atingidas as que estão abaixo ou no valor atual.
func MilestoneReferences(target, current float64) []entity.Reference {
	refs := make([]entity.Reference, 0, len(Milestones))
	for _, m := range Milestones {
		value := target * m
		achieved := value <= current
		var label string
		if m == 1 {
			label = format.Millions(value) + " Target"
		} else {
			label = fmt.Sprintf("%s (%.0f%%)", format.Millions(value), m*100)
		}
		if achieved {
			label += " Achieved"
		}
		refs = append(refs, entity.Reference{Label: label, Value: value, Achieved: achieved})
	}
	return refs
}

// Monthly monta o gráfico de linhas mensal (com ou sem detalhamento).
func (b *Builder) Monthly(t entity.MonthlyTrend) entity.Chart {
	c := entity.Chart{
		ID:      entity.ChartMonthly,
		Title:   "Monthly Money Moved",
		Kind:    entity.KindLine,
		XLabels: append([]string(nil), t.Labels...),
		YUnit:   "$",
	}
	if t.Dimension != "" {
		c.Title = "Monthly Money Moved by " + t.Dimension
	}
	for _, s := range t.Series {
		var text func(float64) string
		if t.Dimension == "" {
			text = money2
		}
		color := s.Color
		if color == "" && t.Dimension == "" {
			color = colorPrimary
		}
		c.Series = append(c.Series, entity.ChartSeries{Name: s.Name, Color: color, Points: points(t.Labels, s.Values, text)})
	}
	return c
}

// Frequency monta o gráfico de barras recorrente vs. pontual.
func (b *Builder) Frequency(t entity.MonthlyTrend) entity.Chart {
	c := entity.Chart{
		ID:      entity.ChartFrequency,
		Title:   "Recurring vs One-Time Money Moved",
		Kind:    entity.KindBar,
		XLabels: append([]string(nil), t.Labels...),
		YUnit:   "$",
	}
	for _, s := range t.Series {
		c.Series = append(c.Series, entity.ChartSeries{Name: s.Name, Color: s.Color, Points: points(t.Labels, s.Values, money2)})
	}
	return c
}

// Attrition monta a tendência da taxa de atrito. targetPercent é a meta em
// pontos percentuais (ex.: 18).
func (b *Builder) Attrition(t entity.MonthlyTrend, targetPercent float64) entity.Chart {
	c := entity.Chart{
		ID:      entity.ChartAttrition,
		Title:   "Pledge Attrition Rate",
		Kind:    entity.KindLine,
		XLabels: append([]string(nil), t.Labels...),
		YUnit:   "%",
		References: []entity.Reference{{
			Label: fmt.Sprintf("%s%% Target", format.Count(targetPercent)),
			Value: targetPercent / 100,
		}},
	}
	if t.Dimension != "" {
		c.Title = "Pledge Attrition Rate by " + t.Dimension
	}
	for _, s := range t.Series {
		var text func(float64) string
		if t.Dimension == "" {
			text = func(v float64) string { return format.Percent(v, 2) }
		}
		c.Series = append(c.Series, entity.ChartSeries{Name: s.Name, Points: points(t.Labels, s.Values, text)})
	}
	return c
}

// Dumbbell monta o gráfico de halteres do ranking: uma série por ano fiscal,
// com o eixo de categorias na ordem do ranking.
func (b *Builder) Dumbbell(r entity.Ranking) entity.Chart {
	c := entity.Chart{
		ID:    entity.ChartDumbbell,
		Title: fmt.Sprintf("Top %d Donor Chapters: %s vs %s", r.TopN, r.SelectedFY, r.PriorFY),
		Kind:  entity.KindDumbbell,
		YUnit: "$",
	}
	prior := entity.ChartSeries{Name: r.PriorFY, Color: colorSecondary}
	selected := entity.ChartSeries{Name: r.SelectedFY, Color: colorPrimary}
	for _, row := range r.Rows {
		c.XLabels = append(c.XLabels, row.Chapter)
		p, s := row.Prior, row.Selected
		prior.Points = append(prior.Points, entity.Point{X: row.Chapter, Y: &p, Text: money2(p)})
		selected.Points = append(selected.Points, entity.Point{X: row.Chapter, Y: &s, Text: money2(s)})
	}
	c.Series = []entity.ChartSeries{prior, selected}
	return c
}

// Sankey embala o grafo de fluxo de ARR.
func (b *Builder) Sankey(g entity.FlowGraph) entity.Chart {
	title := "Annualized Run Rate Flow : Chapter Type → Frequency → Current ARR"
	if g.Mode == entity.ViewTarget {
		title = fmt.Sprintf("Annualized Run Rate Flow (What it would take to reach %s) : Chapter Type → Frequency → Current ARR & Remaining",
			format.Millions(g.TargetTotal))
	}
	flow := g
	c := entity.Chart{
		ID:    entity.ChartSankey,
		Title: title,
		Kind:  entity.KindSankey,
		YUnit: "$",
		Flow:  &flow,
	}
	for _, n := range g.Nodes {
		c.XLabels = append(c.XLabels, n.Name)
	}
	return c
}
