// Package aggregator calcula KPIs, tendências mensais, ranking de capítulos e
// o fluxo de ARR a partir do catálogo de datasets. Cada agregador é uma função
// pura de (dataset, estado de filtros).
package aggregator

import (
	"fmt"

	"github.com/diillson/fundraising-dashboard-go/internal/domain/dataset"
	"github.com/diillson/fundraising-dashboard-go/internal/domain/entity"
	"github.com/diillson/fundraising-dashboard-go/internal/shared/types"
	"github.com/samber/lo"
)

// Nomes dos datasets.
const (
	DatasetMerged    = "merged"
	DatasetPledges   = "pledges"
	DatasetPayments  = "payments"
	DatasetActiveARR = "pledge_active_arr"
	DatasetAttrition = "pledge_attrition"
)

// Colunas consumidas.
const (
	ColPaymentFY             = "payment_date_fy"
	ColPaymentFM             = "payment_date_fm"
	ColPaymentDate           = "payment_date"
	ColPaymentAmount         = "payment_amount_usd"
	ColPaymentCFAmount       = "payment_cf_amount_usd"
	ColPaymentPlatform       = "payment_platform"
	ColPaymentPortfolio      = "payment_portfolio"
	ColPledgeChapterType     = "pledge_chapter_type"
	ColPledgeDonorChapter    = "pledge_donor_chapter"
	ColPledgeFrequencyType   = "pledge_frequency_type"
	ColPledgeFrequency       = "pledge_frequency"
	ColPledgeStatus          = "pledge_status"
	ColPledgeStartFY         = "pledge_starts_at_fy"
	ColPledgeStartFM         = "pledge_starts_at_fm"
	ColPledgePaymentPlatform = "pledge_payment_platform"
	ColDonorID               = "donor_id"
	ColContributionARR       = "pledge_contribution_arr_usd"
	ColTotalPledgeCount      = "total_pledge_count"
	ColCancelledCount        = "is_cancelled_count"
)

// Status de compromisso considerados ativos.
const (
	StatusActiveDonor = "Active donor"
	StatusOneTime     = "One-Time"
)

// Tipos de frequência, em ordem fixa, e suas cores.
const (
	FrequencyRecurring   = "Recurring"
	FrequencyOneTime     = "One-Time"
	FrequencyUnspecified = "Unspecified"
)

var FrequencyTypes = []string{FrequencyRecurring, FrequencyOneTime, FrequencyUnspecified}

var FrequencyColors = map[string]string{
	FrequencyRecurring:   "#0078D4",
	FrequencyOneTime:     "#006466",
	FrequencyUnspecified: "#498205",
}

// Dimensões aceitas para detalhamento.
var (
	DrilldownOptions          = []string{ColPaymentPlatform, ColPledgeChapterType}
	AttritionDrilldownOptions = []string{ColPledgePaymentPlatform, ColPledgeChapterType}
)

// DefaultExcludedPortfolios são os portfólios que nunca entram em money moved.
var DefaultExcludedPortfolios = []string{
	"One for the World Discretionary Fund",
	"One for the World Operating Costs",
}

// DefaultARRTarget é a meta total distribuída no modo "target" do fluxo.
const DefaultARRTarget = 1_200_000

// DefaultAttritionCutoffs trunca a tendência de atrito de anos com dados
// incompletos: meses fiscais >= cutoff são descartados.
var DefaultAttritionCutoffs = map[string]int{"FY2024-2025": 9}

// RequiredColumns lista as colunas que cada dataset precisa ter.
var RequiredColumns = map[string][]string{
	DatasetMerged: {
		ColPaymentFY, ColPaymentFM, ColPaymentAmount, ColPaymentCFAmount, ColPaymentPlatform,
		ColPaymentPortfolio, ColPledgeChapterType, ColPledgeDonorChapter, ColPledgeFrequencyType,
	},
	DatasetPledges:   {ColDonorID, ColPledgeStatus, ColPledgeStartFY},
	DatasetPayments:  {ColPaymentDate},
	DatasetActiveARR: {ColPledgeChapterType, ColPledgeFrequency, ColContributionARR, ColPledgeStartFY},
	DatasetAttrition: {
		ColPledgeStartFY, ColPledgeStartFM, ColTotalPledgeCount, ColCancelledCount,
		ColPledgeChapterType, ColPledgePaymentPlatform,
	},
}

// Source é o subconjunto do catálogo usado pelos agregadores.
type Source interface {
	Filter(name string, preds ...dataset.Predicate) (*dataset.View, error)
	UniqueValues(name, col string, sortDesc bool) ([]any, error)
	UniqueCount(v *dataset.View, col string) (int, error)
}

// Options são os parâmetros de negócio configuráveis.
type Options struct {
	ExcludedPortfolios []string
	ARRTarget          float64
	AttritionCutoffs   map[string]int
}

// DefaultOptions devolve as opções padrão.
func DefaultOptions() Options {
	cutoffs := make(map[string]int, len(DefaultAttritionCutoffs))
	for k, v := range DefaultAttritionCutoffs {
		cutoffs[k] = v
	}
	return Options{
		ExcludedPortfolios: append([]string(nil), DefaultExcludedPortfolios...),
		ARRTarget:          DefaultARRTarget,
		AttritionCutoffs:   cutoffs,
	}
}

// ValidateDrilldown aceita vazio (sem detalhamento) ou uma das dimensões permitidas.
func ValidateDrilldown(dim string, allowed []string) error {
	if dim == "" || lo.Contains(allowed, dim) {
		return nil
	}
	return fmt.Errorf("%w: %q (allowed: %v)", types.ErrInvalidDrilldown, dim, allowed)
}

// moneyMoved filtra o dataset merged no ano fiscal, sem os portfólios excluídos.
func moneyMoved(src Source, opts Options, fy string) (*dataset.View, error) {
	return src.Filter(DatasetMerged,
		dataset.Eq(ColPaymentFY, fy),
		dataset.NotIn(ColPaymentPortfolio, opts.ExcludedPortfolios...),
	)
}

// category normaliza rótulos categóricos; vazio vira "Unknown".
func category(s string) string {
	if s == "" {
		return entity.LabelUnknown
	}
	return s
}

func ptr(f float64) *float64 { return &f }
