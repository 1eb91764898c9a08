package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/diillson/fundraising-dashboard-go/internal/shared/types"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestDefaultConfigReadsEnvironment(t *testing.T) {
	t.Setenv("FUNDRAISING_DATA_DIR", "/srv/fundraising")
	t.Setenv("OLLAMA_URL", "http://ollama:11434")
	t.Setenv("OLLAMA_MODEL", "")
	t.Setenv("SERVER_ADDR", "")
	t.Setenv("INSIGHT_TIMEOUT_SECONDS", "15")

	cfg := NewConfigRepository().DefaultConfig()
	if cfg.DataDir != "/srv/fundraising" {
		t.Fatalf("unexpected data dir %q", cfg.DataDir)
	}
	if cfg.Insight.Endpoint != "http://ollama:11434" || cfg.Insight.Model != "llama3.2" {
		t.Fatalf("unexpected insight config %+v", cfg.Insight)
	}
	if cfg.Insight.TimeoutSeconds != 15 || cfg.Addr != ":8050" || cfg.DefaultTopN != 10 {
		t.Fatalf("unexpected defaults %+v", cfg)
	}
}

func TestLoadConfigFileFormats(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
	}{
		{"toml", "config.toml", `
data_dir = "exports"
default_top_n = 15
arr_target = 1500000.0
excluded_portfolios = ["Operating Costs"]

[sources.merged]
path = "s3://fundraising/merged.csv"

[targets]
money_moved = 2000000.0

[targets_by_fy.FY2025-2026]
money_moved = 2200000.0

[attrition_cutoffs]
FY2024-2025 = 9
`},
		{"yaml", "config.yaml", `
data_dir: exports
default_top_n: 15
arr_target: 1500000
excluded_portfolios: [Operating Costs]
sources:
  merged:
    path: s3://fundraising/merged.csv
targets:
  money_moved: 2000000
targets_by_fy:
  FY2025-2026:
    money_moved: 2200000
attrition_cutoffs:
  FY2024-2025: 9
`},
		{"json", "config.json", `{
  "data_dir": "exports",
  "default_top_n": 15,
  "arr_target": 1500000,
  "excluded_portfolios": ["Operating Costs"],
  "sources": {"merged": {"path": "s3://fundraising/merged.csv"}},
  "targets": {"money_moved": 2000000},
  "targets_by_fy": {"FY2025-2026": {"money_moved": 2200000}},
  "attrition_cutoffs": {"FY2024-2025": 9}
}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := NewConfigRepository().LoadConfigFile(writeFile(t, tt.file, tt.content))
			if err != nil {
				t.Fatalf("LoadConfigFile: %v", err)
			}
			if cfg.DataDir != "exports" || cfg.DefaultTopN != 15 || cfg.ARRTarget != 1_500_000 {
				t.Fatalf("unexpected scalars %+v", cfg)
			}
			if cfg.Sources["merged"].Path != "s3://fundraising/merged.csv" {
				t.Fatalf("unexpected sources %+v", cfg.Sources)
			}
			if cfg.Targets["money_moved"] != 2_000_000 || cfg.TargetsByFY["FY2025-2026"]["money_moved"] != 2_200_000 {
				t.Fatalf("unexpected targets %+v / %+v", cfg.Targets, cfg.TargetsByFY)
			}
			if cfg.AttritionCutoffs["FY2024-2025"] != 9 || len(cfg.ExcludedPortfolios) != 1 {
				t.Fatalf("unexpected options %+v", cfg)
			}
			if cfg.Insight.TimeoutSeconds == 0 || cfg.Addr == "" {
				t.Fatalf("defaults not applied: %+v", cfg)
			}
		})
	}
}

func TestLoadConfigFileErrors(t *testing.T) {
	if _, err := NewConfigRepository().LoadConfigFile(filepath.Join(t.TempDir(), "missing.toml")); err == nil {
		t.Fatal("expected error for missing file")
	}
	if _, err := NewConfigRepository().LoadConfigFile(t.TempDir()); err == nil {
		t.Fatal("expected error for directory")
	}
	if _, err := NewConfigRepository().LoadConfigFile(writeFile(t, "config.ini", "a=1")); err == nil {
		t.Fatal("expected error for unsupported extension")
	}
	if _, err := NewConfigRepository().LoadConfigFile(writeFile(t, "config.yaml", "default_top_n: 2")); !errors.Is(err, types.ErrInvalidTopN) {
		t.Fatalf("expected ErrInvalidTopN, got %v", err)
	}
	if _, err := NewConfigRepository().LoadConfigFile(writeFile(t, "config.json", "{")); err == nil {
		t.Fatal("expected parse error")
	}
}
