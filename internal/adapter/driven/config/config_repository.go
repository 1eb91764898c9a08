package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/diillson/fundraising-dashboard-go/internal/domain/repository"
	"github.com/diillson/fundraising-dashboard-go/internal/shared/types"
	"github.com/pelletier/go-toml"
	"gopkg.in/yaml.v3"
)

// Valores padrão, sobrescritos por variáveis de ambiente.
const (
	defaultDataDir        = "data"
	defaultAddr           = ":8050"
	defaultOllamaURL      = "http://localhost:11434"
	defaultOllamaModel    = "llama3.2"
	defaultInsightTimeout = 60
	defaultTopN           = 10
)

// ConfigRepositoryImpl implementa o ConfigRepository.
type ConfigRepositoryImpl struct{}

// NewConfigRepository cria uma nova implementação do ConfigRepository.
func NewConfigRepository() repository.ConfigRepository {
	return &ConfigRepositoryImpl{}
}

// DefaultConfig monta a configuração a partir do ambiente.
func (r *ConfigRepositoryImpl) DefaultConfig() *types.Config {
	return withDefaults(&types.Config{})
}

// LoadConfigFile carrega um arquivo de configuração TOML, YAML ou JSON.
// Campos ausentes no arquivo recebem os mesmos padrões de DefaultConfig.
func (r *ConfigRepositoryImpl) LoadConfigFile(filePath string) (*types.Config, error) {
	fileExtension := strings.ToLower(filepath.Ext(filePath))

	fileInfo, err := os.Stat(filePath)
	if err != nil {
		return nil, fmt.Errorf("error accessing config file: %w", err)
	}
	if fileInfo.IsDir() {
		return nil, fmt.Errorf("%s is a directory, not a file", filePath)
	}

	fileData, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	var config types.Config

	switch fileExtension {
	case ".toml":
		if err := toml.Unmarshal(fileData, &config); err != nil {
			return nil, fmt.Errorf("error parsing TOML file: %w", err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(fileData, &config); err != nil {
			return nil, fmt.Errorf("error parsing YAML file: %w", err)
		}
	case ".json":
		if err := json.Unmarshal(fileData, &config); err != nil {
			return nil, fmt.Errorf("error parsing JSON file: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported config file format: %s", fileExtension)
	}

	if err := validate(&config); err != nil {
		return nil, fmt.Errorf("invalid config file %s: %w", filePath, err)
	}
	return withDefaults(&config), nil
}

func withDefaults(c *types.Config) *types.Config {
	if c.DataDir == "" {
		c.DataDir = getEnv("FUNDRAISING_DATA_DIR", defaultDataDir)
	}
	if c.AWSProfile == "" {
		c.AWSProfile = os.Getenv("AWS_PROFILE")
	}
	if c.Addr == "" {
		c.Addr = getEnv("SERVER_ADDR", defaultAddr)
	}
	if c.Insight.Endpoint == "" {
		c.Insight.Endpoint = getEnv("OLLAMA_URL", defaultOllamaURL)
	}
	if c.Insight.Model == "" {
		c.Insight.Model = getEnv("OLLAMA_MODEL", defaultOllamaModel)
	}
	if c.Insight.TimeoutSeconds <= 0 {
		c.Insight.TimeoutSeconds = getEnvInt("INSIGHT_TIMEOUT_SECONDS", defaultInsightTimeout)
	}
	if c.DefaultTopN == 0 {
		c.DefaultTopN = defaultTopN
	}
	if len(c.ReportType) == 0 {
		c.ReportType = []string{"csv"}
	}
	return c
}

func validate(c *types.Config) error {
	if c.DefaultTopN != 0 && (c.DefaultTopN < 3 || c.DefaultTopN > 50) {
		return fmt.Errorf("%w: default_top_n=%d", types.ErrInvalidTopN, c.DefaultTopN)
	}
	if c.ARRTarget < 0 {
		return fmt.Errorf("arr_target must not be negative")
	}
	for fy, cutoff := range c.AttritionCutoffs {
		if cutoff < 1 || cutoff > 13 {
			return fmt.Errorf("attrition cutoff for %s must be between 1 and 13", fy)
		}
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value, err := strconv.Atoi(os.Getenv(key)); err == nil && value > 0 {
		return value
	}
	return defaultValue
}
