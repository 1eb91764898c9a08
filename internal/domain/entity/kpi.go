package entity

// KPI é um indicador escalar comparado com sua meta.
// Quando Defined é false (ex.: taxa sem denominador), Value e PercentOfGoal
// não têm significado e Display traz "n/a".
type KPI struct {
	Key           string  `json:"key"`
	Label         string  `json:"label"`
	Value         float64 `json:"value"`
	Target        float64 `json:"target"`
	PercentOfGoal float64 `json:"percent_of_goal"`
	Display       string  `json:"display"`
	GoalDisplay   string  `json:"goal_display"`
	Unit          string  `json:"unit"`
	Defined       bool    `json:"defined"`
}

// KPISet agrupa os KPIs de um ano fiscal.
type KPISet struct {
	FiscalYear string `json:"fiscal_year"`
	Items      []KPI  `json:"items"`
}

// Find devolve o KPI pela chave.
func (s KPISet) Find(key string) (KPI, bool) {
	for _, k := range s.Items {
		if k.Key == key {
			return k, true
		}
	}
	return KPI{}, false
}
