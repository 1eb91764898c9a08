package entity

// Chaves da configuração de metas.
const (
	TargetMoneyMoved       = "money_moved"
	TargetCounterfactualMM = "counterfactual_mm"
	TargetActiveARR        = "active_arr"
	TargetPledgeAttrition  = "pledge_attrition"
	TargetActiveDonors     = "active_donors"
	TargetActivePledges    = "active_pledges"
	TargetChapterARR       = "chapter_arr"
	TargetAllPledges       = "all_pledges"
	TargetFuturePledges    = "future_pledges"
	TargetFutureARR        = "future_arr"
)

// TargetKeys lista as metas na ordem do formulário.
var TargetKeys = []string{
	TargetMoneyMoved,
	TargetCounterfactualMM,
	TargetActiveARR,
	TargetPledgeAttrition,
	TargetActiveDonors,
	TargetActivePledges,
	TargetChapterARR,
	TargetAllPledges,
	TargetFuturePledges,
	TargetFutureARR,
}

// TargetLabels são os rótulos exibidos no formulário de metas.
var TargetLabels = map[string]string{
	TargetMoneyMoved:       "Money Moved ($M)",
	TargetCounterfactualMM: "Counterfactual MM ($M)",
	TargetActiveARR:        "Active ARR Run Rate ($M)",
	TargetPledgeAttrition:  "Pledge Attrition Rate (%)",
	TargetActiveDonors:     "Total number of active donors",
	TargetActivePledges:    "Total number of active pledges",
	TargetChapterARR:       "Chapter ARR ($)",
	TargetAllPledges:       "All Pledges (active + future)",
	TargetFuturePledges:    "Future Pledges",
	TargetFutureARR:        "Future ARR ($)",
}

// TargetConfig mapeia o nome de um KPI para sua meta numérica.
type TargetConfig map[string]float64

// DefaultTargets devolve uma cópia nova das metas padrão.
func DefaultTargets() TargetConfig {
	return TargetConfig{
		TargetMoneyMoved:       1_800_000,
		TargetCounterfactualMM: 1_260_000,
		TargetActiveARR:        1_200_000,
		TargetPledgeAttrition:  18,
		TargetActiveDonors:     1200,
		TargetActivePledges:    850,
		TargetChapterARR:       670000,
		TargetAllPledges:       1850,
		TargetFuturePledges:    1000,
		TargetFutureARR:        600000,
	}
}

// Get devolve a meta configurada, caindo para o padrão quando ausente.
func (t TargetConfig) Get(key string) float64 {
	if v, ok := t[key]; ok {
		return v
	}
	return DefaultTargets()[key]
}

// Merge devolve uma cópia de t com as chaves de override sobrescritas.
func (t TargetConfig) Merge(override map[string]float64) TargetConfig {
	out := make(TargetConfig, len(t)+len(override))
	for k, v := range t {
		out[k] = v
	}
	for k, v := range override {
		out[k] = v
	}
	return out
}

// Equal reporta se as duas configurações têm os mesmos valores efetivos.
func (t TargetConfig) Equal(other TargetConfig) bool {
	for _, k := range TargetKeys {
		if t.Get(k) != other.Get(k) {
			return false
		}
	}
	return true
}
