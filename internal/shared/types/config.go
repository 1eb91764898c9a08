package types

// SourceConfig aponta para o local de onde um dataset nomeado é carregado.
// Path aceita um arquivo local (.csv, .xlsx), um objeto S3 (s3://bucket/key)
// ou um DSN Postgres (postgres://...), caso em que Table indica a tabela lida.
type SourceConfig struct {
	Path  string `json:"path" yaml:"path" toml:"path"`
	Table string `json:"table,omitempty" yaml:"table,omitempty" toml:"table,omitempty"`
}

// InsightConfig configura o gerador de narrativas externo.
type InsightConfig struct {
	Endpoint       string `json:"endpoint" yaml:"endpoint" toml:"endpoint"`
	Model          string `json:"model" yaml:"model" toml:"model"`
	TimeoutSeconds int    `json:"timeout_seconds" yaml:"timeout_seconds" toml:"timeout_seconds"`
}

// Config represents the application configuration that can be loaded from a file.
type Config struct {
	DataDir            string                        `json:"data_dir" yaml:"data_dir" toml:"data_dir"`
	AWSProfile         string                        `json:"aws_profile" yaml:"aws_profile" toml:"aws_profile"`
	Sources            map[string]SourceConfig       `json:"sources" yaml:"sources" toml:"sources"`
	Targets            map[string]float64            `json:"targets" yaml:"targets" toml:"targets"`
	TargetsByFY        map[string]map[string]float64 `json:"targets_by_fy" yaml:"targets_by_fy" toml:"targets_by_fy"`
	ARRTarget          float64                       `json:"arr_target" yaml:"arr_target" toml:"arr_target"`
	AttritionCutoffs   map[string]int                `json:"attrition_cutoffs" yaml:"attrition_cutoffs" toml:"attrition_cutoffs"`
	ExcludedPortfolios []string                      `json:"excluded_portfolios" yaml:"excluded_portfolios" toml:"excluded_portfolios"`
	Insight            InsightConfig                 `json:"insight" yaml:"insight" toml:"insight"`
	DefaultTopN        int                           `json:"default_top_n" yaml:"default_top_n" toml:"default_top_n"`
	Addr               string                        `json:"addr" yaml:"addr" toml:"addr"`
	ReportName         string                        `json:"report_name" yaml:"report_name" toml:"report_name"`
	ReportType         []string                      `json:"report_type" yaml:"report_type" toml:"report_type"`
	Dir                string                        `json:"dir" yaml:"dir" toml:"dir"`
}
