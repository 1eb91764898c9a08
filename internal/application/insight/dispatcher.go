// Package insight despacha pedidos de narrativa para o gerador externo fora do
// fluxo de recálculo dos gráficos. Cada gráfico tem no máximo um pedido em
// andamento; resultados que chegam depois de uma mudança de filtros são
// marcados como stale e descartados do histórico.
package insight

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/diillson/fundraising-dashboard-go/internal/domain/entity"
	"github.com/diillson/fundraising-dashboard-go/internal/domain/repository"
	"github.com/google/uuid"
)

type pending struct {
	id         string
	generation uint64
	cancel     context.CancelFunc
}

// Dispatcher encaminha gráficos ao InsightRepository.
type Dispatcher struct {
	repo    repository.InsightRepository
	timeout time.Duration

	mu         sync.Mutex
	generation uint64
	inflight   map[string]*pending
	messages   []entity.Insight
}

// NewDispatcher cria um Dispatcher. timeout <= 0 desliga o limite por pedido.
func NewDispatcher(repo repository.InsightRepository, timeout time.Duration) *Dispatcher {
	return &Dispatcher{
		repo:     repo,
		timeout:  timeout,
		inflight: make(map[string]*pending),
	}
}

// Request pede a narrativa do gráfico sem bloquear. O canal recebe exatamente
// um Insight e é fechado em seguida. Um pedido anterior para o mesmo gráfico
// é cancelado.
func (d *Dispatcher) Request(ctx context.Context, chart entity.Chart) <-chan entity.Insight {
	out := make(chan entity.Insight, 1)
	id := uuid.NewString()

	payload, err := json.Marshal(chart)
	if err != nil {
		out <- unavailable(id, chart.ID, fmt.Errorf("serializing chart: %w", err))
		close(out)
		return out
	}

	var reqCtx context.Context
	var cancel context.CancelFunc
	if d.timeout > 0 {
		reqCtx, cancel = context.WithTimeout(ctx, d.timeout)
	} else {
		reqCtx, cancel = context.WithCancel(ctx)
	}

	d.mu.Lock()
	if prev, ok := d.inflight[chart.ID]; ok {
		prev.cancel()
	}
	req := &pending{id: id, generation: d.generation, cancel: cancel}
	d.inflight[chart.ID] = req
	d.mu.Unlock()

	go func() {
		defer close(out)
		defer cancel()

		text, err := d.repo.GenerateInsight(reqCtx, string(payload))
		out <- d.finish(chart.ID, req, text, err)
	}()
	return out
}

func (d *Dispatcher) finish(chartID string, req *pending, text string, err error) entity.Insight {
	d.mu.Lock()
	defer d.mu.Unlock()

	current, ok := d.inflight[chartID]
	if ok && current == req {
		delete(d.inflight, chartID)
	}
	if !ok || current != req || req.generation != d.generation {
		return entity.Insight{
			RequestID: req.id,
			ChartID:   chartID,
			Status:    entity.InsightStale,
			CreatedAt: time.Now(),
		}
	}

	ins := entity.Insight{
		RequestID: req.id,
		ChartID:   chartID,
		Text:      text,
		Status:    entity.InsightOK,
		CreatedAt: time.Now(),
	}
	if err != nil {
		ins = unavailable(req.id, chartID, err)
	}
	d.messages = append([]entity.Insight{ins}, d.messages...)
	return ins
}

func unavailable(id, chartID string, err error) entity.Insight {
	return entity.Insight{
		RequestID: id,
		ChartID:   chartID,
		Text:      entity.InsightUnavailableText,
		Status:    entity.InsightUnavailable,
		Error:     err.Error(),
		CreatedAt: time.Now(),
	}
}

// Invalidate cancela todos os pedidos em andamento. É chamado a cada mudança
// de filtros: respostas que ainda chegarem viram stale.
func (d *Dispatcher) Invalidate() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.generation++
	for id, p := range d.inflight {
		p.cancel()
		delete(d.inflight, id)
	}
}

// Pending reporta quantos pedidos estão em andamento.
func (d *Dispatcher) Pending() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.inflight)
}

// Messages devolve o histórico de narrativas, mais recente primeiro.
func (d *Dispatcher) Messages() []entity.Insight {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]entity.Insight(nil), d.messages...)
}
