package httpapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/diillson/fundraising-dashboard-go/internal/application/usecase"
	"github.com/diillson/fundraising-dashboard-go/internal/domain/entity"
	"github.com/diillson/fundraising-dashboard-go/internal/shared/types"
	"github.com/diillson/fundraising-dashboard-go/pkg/console"
)

type fakeDashboard struct {
	state   entity.FilterState
	events  []entity.FilterEvent
	charts  map[string]entity.Chart
	insight entity.Insight
}

func newFakeDashboard() *fakeDashboard {
	return &fakeDashboard{
		state: entity.FilterState{
			FiscalYear: "FY2024-2025",
			AmountType: entity.AmountActual,
			ViewMode:   entity.ViewActual,
			TopN:       10,
			Targets:    entity.TargetConfig{entity.TargetMoneyMoved: 2_000_000},
		},
		charts: map[string]entity.Chart{
			entity.ChartMonthly: {ID: entity.ChartMonthly, Title: "Monthly Money Moved", Kind: entity.KindLine, XLabels: []string{"Jul"}},
		},
		insight: entity.Insight{ChartID: entity.ChartMonthly, Text: "Strong July.", Status: entity.InsightOK},
	}
}

func (d *fakeDashboard) FilterOptions() (entity.FilterOptions, error) {
	return entity.FilterOptions{FiscalYears: []string{"FY2024-2025", "FY2023-2024"}, MinTopN: 3, MaxTopN: 50}, nil
}

func (d *fakeDashboard) State() entity.FilterState { return d.state }

func (d *fakeDashboard) Handle(_ context.Context, ev entity.FilterEvent) (usecase.Update, error) {
	d.events = append(d.events, ev)
	if ev.State.TopN < 3 {
		return usecase.Update{}, fmt.Errorf("%w: got %d", types.ErrInvalidTopN, ev.State.TopN)
	}
	d.state = ev.State
	return usecase.Update{State: ev.State, Charts: []entity.Chart{d.charts[entity.ChartMonthly]}}, nil
}

func (d *fakeDashboard) Chart(id string) (entity.Chart, error) {
	c, ok := d.charts[id]
	if !ok {
		return entity.Chart{}, fmt.Errorf("%w: %s", types.ErrUnknownChart, id)
	}
	return c, nil
}

func (d *fakeDashboard) RequestInsight(_ context.Context, id string) (<-chan entity.Insight, error) {
	if _, err := d.Chart(id); err != nil {
		return nil, err
	}
	ch := make(chan entity.Insight, 1)
	ch <- d.insight
	close(ch)
	return ch, nil
}

func (d *fakeDashboard) Insights() []entity.Insight { return nil }

func (d *fakeDashboard) Snapshot() (entity.DashboardReport, error) {
	return entity.DashboardReport{
		State:  d.state,
		KPIs:   entity.KPISet{FiscalYear: d.state.FiscalYear, Items: []entity.KPI{{Key: "money_moved", Value: 500000}}},
		Charts: []entity.Chart{d.charts[entity.ChartMonthly]},
	}, nil
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestRoutes(t *testing.T) {
	tests := []struct {
		name   string
		method string
		path   string
		body   string
		status int
		want   string
	}{
		{"filters", http.MethodGet, "/api/filters", "", http.StatusOK, `"fiscal_years":["FY2024-2025","FY2023-2024"]`},
		{"kpis", http.MethodGet, "/api/kpis", "", http.StatusOK, `"money_moved"`},
		{"charts", http.MethodGet, "/api/charts", "", http.StatusOK, entity.ChartMonthly},
		{"chart", http.MethodGet, "/api/charts/" + entity.ChartMonthly, "", http.StatusOK, `"Monthly Money Moved"`},
		{"unknown chart", http.MethodGet, "/api/charts/pie", "", http.StatusNotFound, "unknown chart id"},
		{"insight", http.MethodPost, "/api/charts/" + entity.ChartMonthly + "/insight", "", http.StatusOK, "Strong July."},
		{"insight unknown", http.MethodPost, "/api/charts/pie/insight", "", http.StatusNotFound, "unknown chart id"},
		{"insights empty", http.MethodGet, "/api/insights", "", http.StatusOK, "[]"},
		{"report", http.MethodGet, "/api/report", "", http.StatusOK, `"charts"`},
		{"invalid top n", http.MethodPost, "/api/filters", `{"changed_field":"top_n","state":{"top_n":1}}`, http.StatusBadRequest, "top-N"},
		{"bad body", http.MethodPost, "/api/filters", `{`, http.StatusBadRequest, "invalid request body"},
		{"page", http.MethodGet, "/", "", http.StatusOK, "Monthly Money Moved"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := NewServer(newFakeDashboard(), ":0", console.NewConsole())
			rec := do(t, srv.Router(), tt.method, tt.path, tt.body)
			if rec.Code != tt.status {
				t.Fatalf("expected status %d, got %d: %s", tt.status, rec.Code, rec.Body.String())
			}
			if !strings.Contains(rec.Body.String(), tt.want) {
				t.Fatalf("expected %q in body %s", tt.want, rec.Body.String())
			}
		})
	}
}

func TestPostFiltersMergesWithCurrentState(t *testing.T) {
	dash := newFakeDashboard()
	h := NewServer(dash, ":0", console.NewConsole()).Router()

	rec := do(t, h, http.MethodPost, "/api/filters", `{"changed_field":"top_n","state":{"top_n":15}}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected status %d: %s", rec.Code, rec.Body.String())
	}
	ev := dash.events[0]
	if ev.Changed != entity.FieldTopN || ev.State.TopN != 15 || ev.State.FiscalYear != "FY2024-2025" {
		t.Fatalf("unexpected event %+v", ev)
	}
	if ev.State.Targets[entity.TargetMoneyMoved] != 2_000_000 {
		t.Fatalf("targets not kept: %+v", ev.State.Targets)
	}

	var upd usecase.Update
	if err := json.Unmarshal(rec.Body.Bytes(), &upd); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if upd.State.TopN != 15 || len(upd.Charts) != 1 {
		t.Fatalf("unexpected update %+v", upd)
	}
}

func TestPostFiltersFiscalYearResetsTargets(t *testing.T) {
	dash := newFakeDashboard()
	h := NewServer(dash, ":0", console.NewConsole()).Router()

	rec := do(t, h, http.MethodPost, "/api/filters", `{"changed_field":"fiscal_year","state":{"fiscal_year":"FY2023-2024"}}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected status %d: %s", rec.Code, rec.Body.String())
	}
	if dash.events[0].State.Targets != nil {
		t.Fatalf("expected targets to be recomputed for the new year, got %+v", dash.events[0].State.Targets)
	}
}
