package repository

import (
	"github.com/diillson/fundraising-dashboard-go/internal/domain/entity"
)

type ExportRepository interface {
	ExportToJSON(report entity.DashboardReport, filename string, outputDir string) (string, error)
	ExportToCSV(report entity.DashboardReport, filename string, outputDir string) (string, error)
	ExportToPDF(report entity.DashboardReport, filename string, outputDir string) (string, error)
	ExportToXLSX(report entity.DashboardReport, filename string, outputDir string) (string, error)
	ExportToHTML(report entity.DashboardReport, filename string, outputDir string) (string, error)
}
