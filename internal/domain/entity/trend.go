package entity

// Series é uma série mensal com 12 posições (FM1..FM12). Posições nil são
// meses sem dados.
type Series struct {
	Name   string     `json:"name"`
	Color  string     `json:"color,omitempty"`
	Values []*float64 `json:"values"`
}

// MonthlyTrend é um conjunto de séries sobre o mesmo eixo de meses fiscais.
type MonthlyTrend struct {
	FiscalYear string   `json:"fiscal_year"`
	Dimension  string   `json:"dimension,omitempty"`
	Labels     []string `json:"labels"`
	Series     []Series `json:"series"`
}

// CumulativeTrend é a série acumulada de money moved com a linha de ritmo
// do ano anterior.
type CumulativeTrend struct {
	FiscalYear   string     `json:"fiscal_year"`
	AmountType   AmountType `json:"amount_type"`
	Labels       []string   `json:"labels"`
	Monthly      []*float64 `json:"monthly"`
	Cumulative   []*float64 `json:"cumulative"`
	Pacing       []float64  `json:"pacing"`
	CurrentMonth int        `json:"current_month"`
	Current      float64    `json:"current"`
	Target       float64    `json:"target"`
	Achieved     float64    `json:"achieved"`
}
