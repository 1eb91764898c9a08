package repository

import (
	"context"

	"github.com/diillson/fundraising-dashboard-go/internal/domain/dataset"
	"github.com/diillson/fundraising-dashboard-go/internal/shared/types"
)

// DatasetRepository defines the interface for loading the named datasets.
type DatasetRepository interface {
	// Load lê todas as fontes configuradas. É chamado uma vez na inicialização;
	// chamadas seguintes devolvem o mesmo catálogo.
	Load(ctx context.Context, sources map[string]types.SourceConfig) (*dataset.Catalog, error)
}
