package entity

// IDs estáveis dos gráficos do painel.
const (
	ChartCumulative = "money-moved-cumulative-graph"
	ChartMonthly    = "money-moved-line-graph"
	ChartFrequency  = "recurring-money-moved-bar-graph"
	ChartDumbbell   = "chapter-dumbell-graph"
	ChartSankey     = "active-pledge-arr-sankey-graph"
	ChartAttrition  = "attrition-rate-line-graph"
)

// ChartIDs lista os gráficos na ordem da página.
var ChartIDs = []string{
	ChartCumulative,
	ChartMonthly,
	ChartFrequency,
	ChartDumbbell,
	ChartSankey,
	ChartAttrition,
}

// ChartKind é a família de gráfico.
type ChartKind string

const (
	KindLine     ChartKind = "line"
	KindBar      ChartKind = "bar"
	KindDumbbell ChartKind = "dumbbell"
	KindSankey   ChartKind = "sankey"
)

// Point é um ponto (x, y). Y nil marca ausência de dados.
type Point struct {
	X    string   `json:"x"`
	Y    *float64 `json:"y"`
	Text string   `json:"text,omitempty"`
}

// ChartSeries é uma série nomeada de pontos.
type ChartSeries struct {
	Name   string  `json:"name"`
	Color  string  `json:"color,omitempty"`
	Dashed bool    `json:"dashed,omitempty"`
	Points []Point `json:"points"`
}

// Reference é uma linha horizontal fixa (meta ou marco).
type Reference struct {
	Label    string  `json:"label"`
	Value    float64 `json:"value"`
	Achieved bool    `json:"achieved"`
}

// Chart é a descrição completa de um gráfico, sem estilo visual.
type Chart struct {
	ID         string        `json:"id"`
	Title      string        `json:"title"`
	Kind       ChartKind     `json:"kind"`
	XLabels    []string      `json:"x_labels"`
	YUnit      string        `json:"y_unit,omitempty"`
	Series     []ChartSeries `json:"series"`
	References []Reference   `json:"references,omitempty"`
	Markers    []Point       `json:"markers,omitempty"`
	Flow       *FlowGraph    `json:"flow,omitempty"`
}

// Aligned devolve um ponto por rótulo de labels, casando pelo X. Rótulos sem
// ponto na série ficam com Y nil; pontos cujo X não está em labels são
// ignorados. Uma série sem nenhum X segue a posição.
func (s ChartSeries) Aligned(labels []string) []Point {
	out := make([]Point, len(labels))
	byX := make(map[string]Point, len(s.Points))
	for _, p := range s.Points {
		if p.X != "" {
			byX[p.X] = p
		}
	}
	for i, l := range labels {
		switch p, ok := byX[l]; {
		case ok:
			out[i] = p
		case len(byX) == 0 && i < len(s.Points):
			out[i] = s.Points[i]
			out[i].X = l
		default:
			out[i] = Point{X: l}
		}
	}
	return out
}
