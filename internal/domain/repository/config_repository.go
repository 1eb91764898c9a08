package repository

import (
	"github.com/diillson/fundraising-dashboard-go/internal/shared/types"
)

// ConfigRepository defines the interface for loading configuration files.
type ConfigRepository interface {
	// DefaultConfig devolve a configuração usada sem arquivo, já com os
	// valores lidos do ambiente.
	DefaultConfig() *types.Config
	LoadConfigFile(filePath string) (*types.Config, error)
}
