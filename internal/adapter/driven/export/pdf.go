package export

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/diillson/fundraising-dashboard-go/internal/domain/entity"
	"github.com/diillson/fundraising-dashboard-go/internal/shared/format"
	"github.com/jung-kurt/gofpdf"
)

// ExportToPDF gera um relatório com os cartões de KPI, uma tabela por gráfico
// e as narrativas geradas na sessão.
func (r *ExportRepositoryImpl) ExportToPDF(report entity.DashboardReport, filename, outputDir string) (string, error) {
	outputFilename, err := generateFilename(filename, outputDir, "pdf")
	if err != nil {
		return "", err
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	headerColor := [3]int{0, 100, 102}
	headerTextColor := [3]int{255, 255, 255}
	sectionTitleColor := [3]int{0, 0, 0}
	bodyTextColor := [3]int{50, 50, 50}
	lineColor := [3]int{200, 200, 200}

	pdf.SetFooterFunc(func() {
		pdf.SetY(-15)
		pdf.SetFont("Arial", "I", 8)
		pdf.SetTextColor(128, 128, 128)
		footerText := fmt.Sprintf("Generated by Fundraising Dashboard | %s", report.GeneratedAt.Format("2006-01-02 15:04"))
		pdf.CellFormat(0, 10, tr(footerText), "", 0, "L", false, 0, "")
		pdf.CellFormat(0, 10, fmt.Sprintf("Page %d", pdf.PageNo()), "", 0, "R", false, 0, "")
	})

	sectionTitle := func(title string) {
		pdf.SetFont("Arial", "B", 12)
		pdf.SetTextColor(sectionTitleColor[0], sectionTitleColor[1], sectionTitleColor[2])
		pdf.MultiCell(190, 6, tr(title), "", "L", false)
		pdf.Ln(1)
		pdf.SetDrawColor(lineColor[0], lineColor[1], lineColor[2])
		pdf.Line(pdf.GetX(), pdf.GetY(), pdf.GetX()+190, pdf.GetY())
		pdf.Ln(3)
	}

	pdf.AddPage()
	pdf.SetFillColor(headerColor[0], headerColor[1], headerColor[2])
	pdf.SetTextColor(headerTextColor[0], headerTextColor[1], headerTextColor[2])
	pdf.SetFont("Arial", "B", 14)
	pdf.CellFormat(0, 12, tr(fmt.Sprintf("  Fundraising Dashboard: %s", report.State.FiscalYear)), "", 1, "L", true, 0, "")

	pdf.SetFont("Arial", "", 10)
	pdf.SetFillColor(240, 240, 240)
	pdf.SetTextColor(bodyTextColor[0], bodyTextColor[1], bodyTextColor[2])
	subtitle := fmt.Sprintf("  Amount: %s", report.State.AmountType)
	if report.DataAsOf != "" {
		subtitle += fmt.Sprintf("  |  Data as of %s", report.DataAsOf)
	}
	pdf.CellFormat(0, 8, tr(subtitle), "", 1, "L", true, 0, "")
	pdf.Ln(8)

	sectionTitle("Key Indicators")
	for _, k := range report.KPIs.Items {
		pdf.SetFont("Arial", "B", 10)
		pdf.CellFormat(70, 7, tr(k.Label), "B", 0, "L", false, 0, "")
		pdf.SetFont("Arial", "B", 11)
		pdf.CellFormat(40, 7, tr(k.Display), "B", 0, "R", false, 0, "")
		pdf.SetFont("Arial", "", 9)
		pdf.CellFormat(80, 7, tr(k.GoalDisplay), "B", 1, "L", false, 0, "")
	}
	pdf.Ln(8)

	for _, c := range report.Charts {
		header, rows := chartTable(c)
		if len(rows) == 0 {
			continue
		}
		if pdf.GetY() > 230 {
			pdf.AddPage()
		}
		sectionTitle(c.Title)

		width := 190.0 / float64(len(header))
		pdf.SetFont("Arial", "B", 8)
		for _, h := range header {
			pdf.CellFormat(width, 6, tr(h), "B", 0, "L", false, 0, "")
		}
		pdf.Ln(-1)
		pdf.SetFont("Arial", "", 8)
		for _, row := range rows {
			for _, cell := range row {
				pdf.CellFormat(width, 5, tr(pdfCell(cell, c.YUnit)), "", 0, "L", false, 0, "")
			}
			pdf.Ln(-1)
		}
		for _, ref := range c.References {
			pdf.SetFont("Arial", "I", 8)
			pdf.CellFormat(0, 5, tr(ref.Label), "", 1, "L", false, 0, "")
		}
		pdf.Ln(6)
	}

	if len(report.Insights) > 0 {
		pdf.AddPage()
		sectionTitle("Insights")
		for _, in := range report.Insights {
			pdf.SetFont("Arial", "B", 9)
			pdf.CellFormat(0, 6, tr(fmt.Sprintf("%s (%s)", in.ChartID, in.CreatedAt.Format(time.Kitchen))), "", 1, "L", false, 0, "")
			pdf.SetFont("Arial", "", 9)
			pdf.MultiCell(190, 5, tr(in.Text), "", "L", false)
			pdf.Ln(3)
		}
	}

	if err := pdf.OutputFileAndClose(outputFilename); err != nil {
		return "", fmt.Errorf("error writing PDF file: %w", err)
	}

	return filepath.Abs(outputFilename)
}

func pdfCell(v interface{}, unit string) string {
	switch x := v.(type) {
	case nil:
		return "-"
	case string:
		return x
	case float64:
		switch unit {
		case "$":
			return format.Money(x, 2)
		case "%":
			return format.Percent(x, 2)
		}
		return format.Count(x)
	}
	return fmt.Sprint(v)
}
