// Package httpapi expõe o painel por HTTP: filtros, KPIs, gráficos e
// narrativas em JSON, mais uma página HTML com os gráficos.
package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/diillson/fundraising-dashboard-go/internal/application/usecase"
	"github.com/diillson/fundraising-dashboard-go/internal/domain/entity"
	"github.com/diillson/fundraising-dashboard-go/internal/shared/types"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Dashboard é o que a API precisa do caso de uso.
type Dashboard interface {
	FilterOptions() (entity.FilterOptions, error)
	State() entity.FilterState
	Handle(ctx context.Context, ev entity.FilterEvent) (usecase.Update, error)
	Chart(id string) (entity.Chart, error)
	RequestInsight(ctx context.Context, chartID string) (<-chan entity.Insight, error)
	Insights() []entity.Insight
	Snapshot() (entity.DashboardReport, error)
}

// Server é o servidor HTTP do painel.
type Server struct {
	dash    Dashboard
	console types.ConsoleInterface
	addr    string
}

// NewServer cria o servidor.
func NewServer(dash Dashboard, addr string, console types.ConsoleInterface) *Server {
	return &Server{dash: dash, addr: addr, console: console}
}

// Router monta as rotas.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Compress(5))

	r.Get("/", s.Page)

	r.Get("/api/filters", s.GetFilters)
	r.Post("/api/filters", s.PostFilters)
	r.Get("/api/kpis", s.GetKPIs)
	r.Get("/api/charts", s.ListCharts)
	r.Get("/api/charts/{id}", s.GetChart)
	r.Post("/api/charts/{id}/insight", s.PostInsight)
	r.Get("/api/insights", s.ListInsights)
	r.Get("/api/report", s.GetReport)

	return r
}

// ListenAndServe atende até o contexto ser cancelado.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.console.LogInfo("Server starting on http://localhost%s", s.addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s.console.LogInfo("Shutting down server...")
		return srv.Shutdown(shutdownCtx)
	}
}
