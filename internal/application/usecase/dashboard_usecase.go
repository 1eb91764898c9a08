package usecase

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/diillson/fundraising-dashboard-go/internal/application/aggregator"
	"github.com/diillson/fundraising-dashboard-go/internal/application/chart"
	"github.com/diillson/fundraising-dashboard-go/internal/application/insight"
	"github.com/diillson/fundraising-dashboard-go/internal/domain/dataset"
	"github.com/diillson/fundraising-dashboard-go/internal/domain/entity"
	"github.com/diillson/fundraising-dashboard-go/internal/domain/fiscal"
	"github.com/diillson/fundraising-dashboard-go/internal/domain/repository"
	"github.com/diillson/fundraising-dashboard-go/internal/shared/types"
)

// DashboardUseCase handles the main dashboard functionality.
type DashboardUseCase struct {
	datasetRepo repository.DatasetRepository
	exportRepo  repository.ExportRepository
	configRepo  repository.ConfigRepository
	insightRepo repository.InsightRepository
	console     types.ConsoleInterface

	mu       sync.Mutex
	cfg      *types.Config
	catalog  *dataset.Catalog
	opts     aggregator.Options
	kpi      *aggregator.KPIAggregator
	trend    *aggregator.TrendAggregator
	ranking  *aggregator.RankingAggregator
	flow     *aggregator.FlowAggregator
	builder  *chart.Builder
	insights *insight.Dispatcher

	built  bool
	state  entity.FilterState
	kpis   entity.KPISet
	charts map[string]entity.Chart
}

// Update é o resultado de um evento de filtro: apenas o que foi recalculado.
type Update struct {
	State   entity.FilterState    `json:"state"`
	KPIs    *entity.KPISet        `json:"kpis,omitempty"`
	Charts  []entity.Chart        `json:"charts"`
	Insight <-chan entity.Insight `json:"-"`
}

// insightConfigurer é implementado pelos geradores que aceitam a seção
// insight da configuração carregada.
type insightConfigurer interface {
	Configure(types.InsightConfig)
}

// profileConfigurer é implementado pelos repositórios de dados que leem do S3.
type profileConfigurer interface {
	UseAWSProfile(profile string)
}

// NewDashboardUseCase creates a new dashboard use case.
func NewDashboardUseCase(
	datasetRepo repository.DatasetRepository,
	exportRepo repository.ExportRepository,
	configRepo repository.ConfigRepository,
	insightRepo repository.InsightRepository,
	console types.ConsoleInterface,
) *DashboardUseCase {
	return &DashboardUseCase{
		datasetRepo: datasetRepo,
		exportRepo:  exportRepo,
		configRepo:  configRepo,
		insightRepo: insightRepo,
		console:     console,
		builder:     chart.NewBuilder(),
		charts:      make(map[string]entity.Chart),
	}
}

// Initialize carrega a configuração e os datasets, valida o esquema e monta
// os agregadores. Deve ser chamado uma vez antes de Handle.
func (uc *DashboardUseCase) Initialize(ctx context.Context, args *types.CLIArgs) error {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	if uc.catalog != nil {
		return nil
	}

	cfg := uc.configRepo.DefaultConfig()
	if args.ConfigFile != "" {
		loaded, err := uc.configRepo.LoadConfigFile(args.ConfigFile)
		if err != nil {
			return fmt.Errorf("loading config file: %w", err)
		}
		cfg = loaded
	}
	applyArgs(cfg, args)
	if len(cfg.Sources) == 0 {
		cfg.Sources = defaultSources(cfg.DataDir)
	}

	if p, ok := uc.datasetRepo.(profileConfigurer); ok {
		p.UseAWSProfile(cfg.AWSProfile)
	}
	catalog, err := uc.datasetRepo.Load(ctx, cfg.Sources)
	if err != nil {
		return fmt.Errorf("loading datasets: %w", err)
	}
	if err := ValidateSchema(catalog); err != nil {
		return err
	}

	uc.cfg = cfg
	uc.catalog = catalog
	uc.opts = optionsFrom(cfg)
	uc.kpi = aggregator.NewKPIAggregator(catalog, uc.opts)
	uc.trend = aggregator.NewTrendAggregator(catalog, uc.opts)
	uc.ranking = aggregator.NewRankingAggregator(catalog, uc.opts)
	uc.flow = aggregator.NewFlowAggregator(catalog, uc.opts)
	if c, ok := uc.insightRepo.(insightConfigurer); ok {
		c.Configure(cfg.Insight)
	}
	if uc.insightRepo != nil {
		uc.insights = insight.NewDispatcher(uc.insightRepo, time.Duration(cfg.Insight.TimeoutSeconds)*time.Second)
	}
	return nil
}

func applyArgs(cfg *types.Config, args *types.CLIArgs) {
	if args.DataDir != "" {
		cfg.DataDir = args.DataDir
	}
	if args.Addr != "" {
		cfg.Addr = args.Addr
	}
	if args.ReportName != "" {
		cfg.ReportName = args.ReportName
	}
	if len(args.ReportType) > 0 {
		cfg.ReportType = args.ReportType
	}
	if args.Dir != "" {
		cfg.Dir = args.Dir
	}
}

// defaultSources procura um arquivo <dataset>.csv por dataset no diretório de dados.
func defaultSources(dir string) map[string]types.SourceConfig {
	sources := make(map[string]types.SourceConfig, len(aggregator.RequiredColumns))
	for name := range aggregator.RequiredColumns {
		sources[name] = types.SourceConfig{Path: filepath.Join(dir, name+".csv")}
	}
	return sources
}

func optionsFrom(cfg *types.Config) aggregator.Options {
	opts := aggregator.DefaultOptions()
	if cfg.ExcludedPortfolios != nil {
		opts.ExcludedPortfolios = cfg.ExcludedPortfolios
	}
	if cfg.ARRTarget > 0 {
		opts.ARRTarget = cfg.ARRTarget
	}
	if cfg.AttritionCutoffs != nil {
		opts.AttritionCutoffs = cfg.AttritionCutoffs
	}
	return opts
}

// ValidateSchema falha se algum dataset ou coluna exigida estiver ausente.
func ValidateSchema(c *dataset.Catalog) error {
	for name, cols := range aggregator.RequiredColumns {
		if err := c.Require(name, cols...); err != nil {
			return fmt.Errorf("invalid dataset schema: %w", err)
		}
	}
	return nil
}

// TargetsFor devolve as metas efetivas de um ano fiscal: padrão, depois as
// globais do arquivo de configuração, depois as específicas do ano.
func (uc *DashboardUseCase) TargetsFor(fy string) entity.TargetConfig {
	targets := entity.DefaultTargets()
	if uc.cfg == nil {
		return targets
	}
	return targets.Merge(uc.cfg.Targets).Merge(uc.cfg.TargetsByFY[fy])
}

// DefaultState devolve o estado inicial: ano fiscal mais recente, valor
// real, sem detalhamento e top-N padrão.
func (uc *DashboardUseCase) DefaultState() (entity.FilterState, error) {
	opts, err := uc.FilterOptions()
	if err != nil {
		return entity.FilterState{}, err
	}
	if len(opts.FiscalYears) == 0 {
		return entity.FilterState{}, fmt.Errorf("%w: no fiscal years in %s", types.ErrMissingFilterValue, aggregator.DatasetMerged)
	}
	topN := entity.DefaultTopN
	if uc.cfg != nil && uc.cfg.DefaultTopN > 0 {
		topN = uc.cfg.DefaultTopN
	}
	fy := opts.FiscalYears[0]
	return entity.FilterState{
		FiscalYear: fy,
		AmountType: entity.AmountActual,
		ViewMode:   entity.ViewActual,
		TopN:       topN,
		Targets:    uc.TargetsFor(fy),
	}, nil
}

// StateFromArgs aplica as flags da linha de comando sobre o estado padrão.
func (uc *DashboardUseCase) StateFromArgs(args *types.CLIArgs) (entity.FilterState, error) {
	state, err := uc.DefaultState()
	if err != nil {
		return entity.FilterState{}, err
	}
	if args.FiscalYear != "" {
		state.FiscalYear = args.FiscalYear
		state.Targets = uc.TargetsFor(args.FiscalYear)
	}
	if args.AmountType != "" {
		state.AmountType = ParseAmountType(args.AmountType)
	}
	if args.ViewMode != "" {
		state.ViewMode = entity.ViewMode(args.ViewMode)
	}
	if args.TopN != 0 {
		state.TopN = args.TopN
	}
	state.Drilldown = args.Drilldown
	state.AttritionDrilldown = args.AttritionDrilldown
	return state, nil
}

// ParseAmountType aceita os apelidos "actual"/"mm" e "counterfactual"/"cf",
// além dos nomes de coluna.
func ParseAmountType(s string) entity.AmountType {
	switch strings.ToLower(s) {
	case "actual", "mm":
		return entity.AmountActual
	case "counterfactual", "cf":
		return entity.AmountCounterfactual
	}
	return entity.AmountType(s)
}

// FilterOptions lista os valores aceitos pelos controles de filtro.
func (uc *DashboardUseCase) FilterOptions() (entity.FilterOptions, error) {
	if uc.catalog == nil {
		return entity.FilterOptions{}, errNotInitialized
	}
	years, err := uc.catalog.UniqueValues(aggregator.DatasetMerged, aggregator.ColPaymentFY, true)
	if err != nil {
		return entity.FilterOptions{}, err
	}
	opts := entity.FilterOptions{
		AmountTypes:         []string{string(entity.AmountActual), string(entity.AmountCounterfactual)},
		Drilldowns:          append([]string(nil), aggregator.DrilldownOptions...),
		AttritionDrilldowns: append([]string(nil), aggregator.AttritionDrilldownOptions...),
		ViewModes:           []string{string(entity.ViewActual), string(entity.ViewTarget)},
		MinTopN:             entity.MinTopN,
		MaxTopN:             entity.MaxTopN,
	}
	for _, y := range years {
		if label, ok := y.(string); ok && label != "" {
			opts.FiscalYears = append(opts.FiscalYears, label)
		}
	}
	for start := 2025; start <= 2045; start++ {
		opts.TargetYears = append(opts.TargetYears, fiscal.Label(start))
	}
	asOf, err := uc.catalog.MaxValue(aggregator.DatasetPayments, aggregator.ColPaymentDate)
	if err != nil {
		return entity.FilterOptions{}, err
	}
	opts.DataAsOf = formatAsOf(asOf)
	return opts, nil
}

func formatAsOf(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case time.Time:
		return x.Format("2006-01-02")
	case string:
		return x
	}
	return fmt.Sprint(v)
}

// ValidateState confere o estado de filtros.
func ValidateState(s entity.FilterState) error {
	if s.FiscalYear == "" {
		return fmt.Errorf("%w: fiscal year", types.ErrMissingFilterValue)
	}
	if _, err := fiscal.Parse(s.FiscalYear); err != nil {
		return err
	}
	if s.AmountType != entity.AmountActual && s.AmountType != entity.AmountCounterfactual {
		return fmt.Errorf("%w: %q", types.ErrInvalidAmountType, s.AmountType)
	}
	if s.ViewMode != entity.ViewActual && s.ViewMode != entity.ViewTarget {
		return fmt.Errorf("%w: %q", types.ErrInvalidViewMode, s.ViewMode)
	}
	if s.TopN < entity.MinTopN || s.TopN > entity.MaxTopN {
		return fmt.Errorf("%w: got %d", types.ErrInvalidTopN, s.TopN)
	}
	if err := aggregator.ValidateDrilldown(s.Drilldown, aggregator.DrilldownOptions); err != nil {
		return err
	}
	return aggregator.ValidateDrilldown(s.AttritionDrilldown, aggregator.AttritionDrilldownOptions)
}
