package repository

import "context"

// InsightRepository gera uma narrativa a partir da descrição serializada de um gráfico.
type InsightRepository interface {
	GenerateInsight(ctx context.Context, chartJSON string) (string, error)
}
