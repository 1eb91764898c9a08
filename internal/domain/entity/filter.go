package entity

// AmountType seleciona a coluna de valor usada em money moved.
type AmountType string

const (
	AmountActual         AmountType = "payment_amount_usd"
	AmountCounterfactual AmountType = "payment_cf_amount_usd"
)

// ViewMode controla o gráfico de fluxo de ARR.
type ViewMode string

const (
	ViewActual ViewMode = "actual"
	ViewTarget ViewMode = "target"
)

// FilterField identifica qual campo do estado de filtros mudou.
type FilterField string

const (
	FieldNone               FilterField = ""
	FieldFiscalYear         FilterField = "fiscal_year"
	FieldAmountType         FilterField = "amount_type"
	FieldDrilldown          FilterField = "drilldown"
	FieldAttritionDrilldown FilterField = "attrition_drilldown"
	FieldViewMode           FilterField = "view_mode"
	FieldTopN               FilterField = "top_n"
	FieldTargets            FilterField = "targets"
)

const (
	MinTopN     = 3
	MaxTopN     = 50
	DefaultTopN = 10
)

// FilterState é o estado de filtros de uma sessão, entrada de todo agregador.
type FilterState struct {
	FiscalYear         string       `json:"fiscal_year"`
	AmountType         AmountType   `json:"amount_type"`
	Drilldown          string       `json:"drilldown,omitempty"`
	AttritionDrilldown string       `json:"attrition_drilldown,omitempty"`
	ViewMode           ViewMode     `json:"view_mode"`
	TopN               int          `json:"top_n"`
	Targets            TargetConfig `json:"targets"`
}

// FilterEvent é o comando enviado ao caso de uso quando um filtro muda ou
// quando o usuário pede a narrativa de um gráfico.
type FilterEvent struct {
	Changed FilterField `json:"changed_field"`
	ChartID string      `json:"requested_chart_id,omitempty"`
	State   FilterState `json:"state"`
}
