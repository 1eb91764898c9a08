package entity

import "time"

// DashboardReport é o retrato completo do painel para um estado de filtros,
// usado pelos exportadores.
type DashboardReport struct {
	GeneratedAt time.Time   `json:"generated_at"`
	DataAsOf    string      `json:"data_as_of"`
	State       FilterState `json:"state"`
	KPIs        KPISet      `json:"kpis"`
	Charts      []Chart     `json:"charts"`
	Insights    []Insight   `json:"insights,omitempty"`
}

// FilterOptions são os valores aceitos pelos controles de filtro.
type FilterOptions struct {
	FiscalYears         []string `json:"fiscal_years"`
	TargetYears         []string `json:"target_years"`
	AmountTypes         []string `json:"amount_types"`
	Drilldowns          []string `json:"drilldowns"`
	AttritionDrilldowns []string `json:"attrition_drilldowns"`
	ViewModes           []string `json:"view_modes"`
	MinTopN             int      `json:"min_top_n"`
	MaxTopN             int      `json:"max_top_n"`
	DataAsOf            string   `json:"data_as_of"`
}
