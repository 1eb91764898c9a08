package types

// CLIArgs represents the command-line arguments.
type CLIArgs struct {
	ConfigFile         string
	DataDir            string
	FiscalYear         string
	AmountType         string
	Drilldown          string
	AttritionDrilldown string
	ViewMode           string
	TopN               int
	ReportName         string
	ReportType         []string
	Dir                string
	Insight            string
	Addr               string
}
