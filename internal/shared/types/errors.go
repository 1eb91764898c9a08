package types

import "errors"

var (
	ErrUnknownDataset      = errors.New("unknown dataset")
	ErrUnknownColumn       = errors.New("unknown column")
	ErrMissingFilterValue  = errors.New("missing required filter value")
	ErrInvalidFiscalYear   = errors.New("invalid fiscal year label")
	ErrInvalidFiscalMonth  = errors.New("fiscal month must be between 1 and 12")
	ErrInvalidTopN         = errors.New("top-N must be between 3 and 50")
	ErrInvalidDrilldown    = errors.New("unsupported drill-down dimension")
	ErrInvalidAmountType   = errors.New("unsupported amount type")
	ErrInvalidViewMode     = errors.New("unsupported view mode")
	ErrUnknownChart        = errors.New("unknown chart id")
	ErrNoSourcesConfigured = errors.New("no dataset sources configured")
	ErrInsightUnavailable  = errors.New("insight unavailable")
)
