package entity

// Sinks do fluxo de ARR.
const (
	SinkActual = "Actual ARR"
	SinkGap    = "Gap to Target"
)

// FlowGroup é a soma de ARR de uma combinação (tipo de capítulo, frequência).
type FlowGroup struct {
	ChapterType string  `json:"chapter_type"`
	Frequency   string  `json:"frequency"`
	Actual      float64 `json:"actual"`
	TargetShare float64 `json:"target_share"`
	Gap         float64 `json:"gap"`
}

// FlowNode é um nó do grafo com o total exibido.
type FlowNode struct {
	Name  string  `json:"name"`
	Stage int     `json:"stage"`
	Total float64 `json:"total"`
}

// FlowLink é uma aresta ponderada entre dois nós.
type FlowLink struct {
	Source string  `json:"source"`
	Target string  `json:"target"`
	Value  float64 `json:"value"`
}

// FlowGraph é o grafo tipo capítulo → frequência → ARR.
type FlowGraph struct {
	FiscalYear  string      `json:"fiscal_year"`
	Mode        ViewMode    `json:"mode"`
	Groups      []FlowGroup `json:"groups"`
	Nodes       []FlowNode  `json:"nodes"`
	Links       []FlowLink  `json:"links"`
	ActualTotal float64     `json:"actual_total"`
	GapTotal    float64     `json:"gap_total"`
	TargetTotal float64     `json:"target_total"`
}
