package export

import (
	"fmt"
	"path/filepath"

	"github.com/diillson/fundraising-dashboard-go/internal/domain/entity"
	"github.com/xuri/excelize/v2"
)

// sheetNames são nomes curtos de planilha (o Excel limita a 31 caracteres).
var sheetNames = map[string]string{
	entity.ChartCumulative: "Cumulative",
	entity.ChartMonthly:    "Monthly",
	entity.ChartFrequency:  "Recurring vs One-Time",
	entity.ChartDumbbell:   "Top Chapters",
	entity.ChartSankey:     "ARR Flow",
	entity.ChartAttrition:  "Attrition",
}

// ExportToXLSX grava uma planilha de KPIs e uma por gráfico.
func (r *ExportRepositoryImpl) ExportToXLSX(report entity.DashboardReport, filename, outputDir string) (string, error) {
	outputFilename, err := generateFilename(filename, outputDir, "xlsx")
	if err != nil {
		return "", err
	}

	f := excelize.NewFile()
	defer f.Close()

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "#FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#006466"}, Pattern: 1},
	})
	if err != nil {
		return "", fmt.Errorf("error creating XLSX style: %w", err)
	}

	const kpiSheet = "KPIs"
	if err := f.SetSheetName(f.GetSheetName(0), kpiSheet); err != nil {
		return "", fmt.Errorf("error naming XLSX sheet: %w", err)
	}
	kpiRows := make([][]interface{}, 0, len(report.KPIs.Items))
	for _, k := range report.KPIs.Items {
		var value interface{}
		if k.Defined {
			value = k.Value
		}
		kpiRows = append(kpiRows, []interface{}{k.Label, value, k.Target, k.Display, k.GoalDisplay})
	}
	if err := writeSheet(f, kpiSheet, []string{"KPI", "Value", "Target", "Display", "Goal"}, kpiRows, headerStyle); err != nil {
		return "", err
	}

	for _, c := range report.Charts {
		name, ok := sheetNames[c.ID]
		if !ok {
			name = c.ID
			if len(name) > 31 {
				name = name[:31]
			}
		}
		if _, err := f.NewSheet(name); err != nil {
			return "", fmt.Errorf("error creating sheet %s: %w", name, err)
		}
		header, rows := chartTable(c)
		if err := writeSheet(f, name, header, rows, headerStyle); err != nil {
			return "", err
		}
	}

	if len(report.Insights) > 0 {
		const insightSheet = "Insights"
		if _, err := f.NewSheet(insightSheet); err != nil {
			return "", fmt.Errorf("error creating sheet %s: %w", insightSheet, err)
		}
		rows := make([][]interface{}, 0, len(report.Insights))
		for _, in := range report.Insights {
			rows = append(rows, []interface{}{in.CreatedAt.Format("2006-01-02 15:04:05"), in.ChartID, string(in.Status), in.Text})
		}
		if err := writeSheet(f, insightSheet, []string{"Created", "Chart", "Status", "Text"}, rows, headerStyle); err != nil {
			return "", err
		}
	}

	if err := f.SaveAs(outputFilename); err != nil {
		return "", fmt.Errorf("error writing XLSX file: %w", err)
	}
	return filepath.Abs(outputFilename)
}

func writeSheet(f *excelize.File, sheet string, header []string, rows [][]interface{}, headerStyle int) error {
	headerRow := make([]interface{}, len(header))
	for i, h := range header {
		headerRow[i] = h
	}
	if err := f.SetSheetRow(sheet, "A1", &headerRow); err != nil {
		return fmt.Errorf("error writing sheet %s: %w", sheet, err)
	}
	last, _ := excelize.CoordinatesToCellName(len(header), 1)
	if err := f.SetCellStyle(sheet, "A1", last, headerStyle); err != nil {
		return fmt.Errorf("error styling sheet %s: %w", sheet, err)
	}
	for i, row := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		row := row
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("error writing sheet %s: %w", sheet, err)
		}
	}
	return nil
}
