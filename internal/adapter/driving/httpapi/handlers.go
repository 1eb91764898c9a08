package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/diillson/fundraising-dashboard-go/internal/adapter/driven/export"
	"github.com/diillson/fundraising-dashboard-go/internal/domain/entity"
	"github.com/diillson/fundraising-dashboard-go/internal/shared/types"
	"github.com/go-chi/chi/v5"
)

type filtersResponse struct {
	Options entity.FilterOptions `json:"options"`
	State   entity.FilterState   `json:"state"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError traduz erros do domínio para status HTTP.
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, types.ErrUnknownChart), errors.Is(err, types.ErrUnknownDataset):
		status = http.StatusNotFound
	case errors.Is(err, types.ErrInvalidTopN),
		errors.Is(err, types.ErrInvalidDrilldown),
		errors.Is(err, types.ErrInvalidAmountType),
		errors.Is(err, types.ErrInvalidViewMode),
		errors.Is(err, types.ErrInvalidFiscalYear),
		errors.Is(err, types.ErrMissingFilterValue),
		errors.Is(err, types.ErrUnknownColumn):
		status = http.StatusBadRequest
	}
	writeJSON(w, status, errorResponse{Error: err.Error()})
}

// GetFilters handles GET /api/filters
func (s *Server) GetFilters(w http.ResponseWriter, r *http.Request) {
	opts, err := s.dash.FilterOptions()
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, filtersResponse{Options: opts, State: s.dash.State()})
}

// PostFilters handles POST /api/filters. O corpo é um FilterEvent; campos do
// estado ausentes mantêm o valor atual. Ao trocar o ano fiscal sem metas no
// corpo, valem as metas configuradas para o novo ano.
func (s *Server) PostFilters(w http.ResponseWriter, r *http.Request) {
	current := s.dash.State()
	ev := entity.FilterEvent{State: current}
	ev.State.Targets = nil
	if err := json.NewDecoder(r.Body).Decode(&ev); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body: " + err.Error()})
		return
	}
	if ev.State.Targets == nil && ev.State.FiscalYear == current.FiscalYear {
		ev.State.Targets = current.Targets
	}

	upd, err := s.dash.Handle(r.Context(), ev)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, upd)
}

// GetKPIs handles GET /api/kpis
func (s *Server) GetKPIs(w http.ResponseWriter, r *http.Request) {
	report, err := s.dash.Snapshot()
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, report.KPIs)
}

// ListCharts handles GET /api/charts
func (s *Server) ListCharts(w http.ResponseWriter, r *http.Request) {
	report, err := s.dash.Snapshot()
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, report.Charts)
}

// GetChart handles GET /api/charts/{id}
func (s *Server) GetChart(w http.ResponseWriter, r *http.Request) {
	c, err := s.dash.Chart(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

// PostInsight handles POST /api/charts/{id}/insight. Espera a narrativa ou o
// fim da requisição.
func (s *Server) PostInsight(w http.ResponseWriter, r *http.Request) {
	ch, err := s.dash.RequestInsight(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	select {
	case in := <-ch:
		status := http.StatusOK
		if in.Status == entity.InsightStale {
			status = http.StatusConflict
		}
		writeJSON(w, status, in)
	case <-r.Context().Done():
		writeJSON(w, http.StatusGatewayTimeout, errorResponse{Error: r.Context().Err().Error()})
	}
}

// ListInsights handles GET /api/insights
func (s *Server) ListInsights(w http.ResponseWriter, r *http.Request) {
	insights := s.dash.Insights()
	if insights == nil {
		insights = []entity.Insight{}
	}
	writeJSON(w, http.StatusOK, insights)
}

// GetReport handles GET /api/report
func (s *Server) GetReport(w http.ResponseWriter, r *http.Request) {
	report, err := s.dash.Snapshot()
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

// Page handles GET /
func (s *Server) Page(w http.ResponseWriter, r *http.Request) {
	report, err := s.dash.Snapshot()
	if err != nil {
		http.Error(w, "Dashboard not ready", http.StatusServiceUnavailable)
		return
	}
	w.Header().Set("Content-Type", "text/html")
	if err := export.RenderHTML(w, report); err != nil {
		s.console.LogError("Failed to render page: %s", err)
	}
}
