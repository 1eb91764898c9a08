package usecase

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/diillson/fundraising-dashboard-go/internal/application/aggregator"
	"github.com/diillson/fundraising-dashboard-go/internal/domain/dataset"
	"github.com/diillson/fundraising-dashboard-go/internal/domain/entity"
	"github.com/diillson/fundraising-dashboard-go/internal/domain/repository"
	"github.com/diillson/fundraising-dashboard-go/internal/shared/types"
)

type fakeDatasetRepo struct {
	catalog *dataset.Catalog
	sources map[string]types.SourceConfig
}

func (r *fakeDatasetRepo) Load(_ context.Context, sources map[string]types.SourceConfig) (*dataset.Catalog, error) {
	r.sources = sources
	return r.catalog, nil
}

type fakeConfigRepo struct {
	cfg *types.Config
}

func (r *fakeConfigRepo) DefaultConfig() *types.Config {
	if r.cfg != nil {
		return r.cfg
	}
	return &types.Config{DataDir: "data", DefaultTopN: 10}
}

func (r *fakeConfigRepo) LoadConfigFile(string) (*types.Config, error) {
	return r.DefaultConfig(), nil
}

type fakeExportRepo struct {
	mu    sync.Mutex
	calls []string
}

func (r *fakeExportRepo) record(kind string) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, kind)
	return "out." + kind, nil
}

func (r *fakeExportRepo) ExportToJSON(entity.DashboardReport, string, string) (string, error) {
	return r.record("json")
}
func (r *fakeExportRepo) ExportToCSV(entity.DashboardReport, string, string) (string, error) {
	return r.record("csv")
}
func (r *fakeExportRepo) ExportToPDF(entity.DashboardReport, string, string) (string, error) {
	return r.record("pdf")
}
func (r *fakeExportRepo) ExportToXLSX(entity.DashboardReport, string, string) (string, error) {
	return r.record("xlsx")
}
func (r *fakeExportRepo) ExportToHTML(entity.DashboardReport, string, string) (string, error) {
	return r.record("html")
}

type fakeInsightRepo struct {
	text  string
	err   error
	delay time.Duration
}

func (r *fakeInsightRepo) GenerateInsight(ctx context.Context, _ string) (string, error) {
	if r.delay > 0 {
		select {
		case <-time.After(r.delay):
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	return r.text, r.err
}

// quietConsole descarta a saída e guarda os avisos.
type quietConsole struct {
	mu       sync.Mutex
	warnings []string
	errors   []string
}

func (c *quietConsole) Print(...interface{}) {}
func (c *quietConsole) Printf(string, ...interface{}) {}
func (c *quietConsole) Println(...interface{}) {}
func (c *quietConsole) LogInfo(string, ...interface{}) {}
func (c *quietConsole) LogWarning(format string, _ ...interface{}) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.warnings = append(c.warnings, format)
}
func (c *quietConsole) LogError(format string, _ ...interface{}) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.errors = append(c.errors, format)
}
func (c *quietConsole) LogSuccess(string, ...interface{}) {}
func (c *quietConsole) Status(string) types.StatusHandle { return noopHandle{} }
func (c *quietConsole) ProgressWithTotal(string, int) types.ProgressHandle { return noopHandle{} }
func (c *quietConsole) CreateTable() types.TableInterface { return &noopTable{} }
func (c *quietConsole) DisplayTrendBars(string, []types.MonthlyValue) {}
func (c *quietConsole) DisplayKPICards([]types.KPICard) {}

type noopHandle struct{}

func (noopHandle) Update(string) {}
func (noopHandle) Increment() {}
func (noopHandle) Stop() {}

type noopTable struct{ rows int }

func (t *noopTable) AddColumn(string, ...interface{}) {}
func (t *noopTable) AddRow(...interface{}) { t.rows++ }
func (t *noopTable) Render() string { return "" }

func records(t *testing.T, name string, rows ...map[string]any) *dataset.Table {
	t.Helper()
	tbl, err := dataset.FromRecords(name, aggregator.RequiredColumns[name], rows)
	if err != nil {
		t.Fatalf("%s: %v", name, err)
	}
	return tbl
}

func mergedRow(fy string, fm float64, amount float64, chapter, chapterType, platform, freq string) map[string]any {
	return map[string]any{
		aggregator.ColPaymentFY:           fy,
		aggregator.ColPaymentFM:           fm,
		aggregator.ColPaymentAmount:       amount,
		aggregator.ColPaymentCFAmount:     amount * 0.7,
		aggregator.ColPaymentPlatform:     platform,
		aggregator.ColPaymentPortfolio:    "Top Charities",
		aggregator.ColPledgeChapterType:   chapterType,
		aggregator.ColPledgeDonorChapter:  chapter,
		aggregator.ColPledgeFrequencyType: freq,
	}
}

// fixtureCatalog monta dois anos fiscais com dados suficientes para todos os gráficos.
func fixtureCatalog(t *testing.T) *dataset.Catalog {
	t.Helper()
	merged := records(t, aggregator.DatasetMerged,
		mergedRow("FY2024-2025", 1, 100000, "Alpha", "Corporate", "Stripe", "Recurring"),
		mergedRow("FY2024-2025", 2, 150000, "Beta", "University", "PayPal", "One-Time"),
		mergedRow("FY2024-2025", 3, 250000, "Gamma", "Corporate", "Stripe", "Recurring"),
		mergedRow("FY2023-2024", 1, 80000, "Alpha", "Corporate", "Stripe", "Recurring"),
		mergedRow("FY2023-2024", 5, 120000, "Delta", "University", "PayPal", "One-Time"),
	)
	pledges := records(t, aggregator.DatasetPledges,
		map[string]any{aggregator.ColDonorID: "d1", aggregator.ColPledgeStatus: aggregator.StatusActiveDonor, aggregator.ColPledgeStartFY: "FY2023-2024"},
		map[string]any{aggregator.ColDonorID: "d2", aggregator.ColPledgeStatus: aggregator.StatusActiveDonor, aggregator.ColPledgeStartFY: "FY2024-2025"},
		map[string]any{aggregator.ColDonorID: "d3", aggregator.ColPledgeStatus: "Churned donor", aggregator.ColPledgeStartFY: "FY2024-2025"},
	)
	payments := records(t, aggregator.DatasetPayments,
		map[string]any{aggregator.ColPaymentDate: "2024-09-15"},
		map[string]any{aggregator.ColPaymentDate: "2024-07-02"},
	)
	arr := records(t, aggregator.DatasetActiveARR,
		map[string]any{aggregator.ColPledgeChapterType: "Corporate", aggregator.ColPledgeFrequency: "Monthly", aggregator.ColContributionARR: 300000.0, aggregator.ColPledgeStartFY: "FY2024-2025"},
		map[string]any{aggregator.ColPledgeChapterType: "University", aggregator.ColPledgeFrequency: "Annually", aggregator.ColContributionARR: 100000.0, aggregator.ColPledgeStartFY: "FY2023-2024"},
	)
	attrition := records(t, aggregator.DatasetAttrition,
		map[string]any{
			aggregator.ColPledgeStartFY: "FY2024-2025", aggregator.ColPledgeStartFM: 1.0,
			aggregator.ColTotalPledgeCount: 20.0, aggregator.ColCancelledCount: 5.0,
			aggregator.ColPledgeChapterType: "Corporate", aggregator.ColPledgePaymentPlatform: "Stripe",
		},
	)
	c, err := dataset.NewCatalog(merged, pledges, payments, arr, attrition)
	if err != nil {
		t.Fatalf("catalog: %v", err)
	}
	return c
}

func newTestUseCase(t *testing.T, insightRepo *fakeInsightRepo) (*DashboardUseCase, *fakeExportRepo, *quietConsole) {
	t.Helper()
	exp := &fakeExportRepo{}
	con := &quietConsole{}
	var ir repository.InsightRepository
	if insightRepo != nil {
		ir = insightRepo
	}
	uc := NewDashboardUseCase(&fakeDatasetRepo{catalog: fixtureCatalog(t)}, exp, &fakeConfigRepo{}, ir, con)
	return uc, exp, con
}
