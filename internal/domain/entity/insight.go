package entity

import "time"

// InsightStatus indica o resultado de um pedido de narrativa.
type InsightStatus string

const (
	InsightOK          InsightStatus = "ok"
	InsightUnavailable InsightStatus = "unavailable"
	InsightStale       InsightStatus = "stale"
)

// InsightUnavailableText é a mensagem exibida quando o gerador falha.
const InsightUnavailableText = "Insight unavailable"

// Insight é a narrativa gerada para um gráfico.
type Insight struct {
	RequestID string        `json:"request_id"`
	ChartID   string        `json:"chart_id"`
	Text      string        `json:"text"`
	Status    InsightStatus `json:"status"`
	Error     string        `json:"error,omitempty"`
	CreatedAt time.Time     `json:"created_at"`
}
