package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/diillson/fundraising-dashboard-go/internal/domain/entity"
	"github.com/diillson/fundraising-dashboard-go/internal/shared/format"
	"github.com/diillson/fundraising-dashboard-go/internal/shared/types"
	"github.com/fatih/color"
)

// RunDashboard executa o painel no terminal: carrega os dados, calcula todas
// as saídas para o estado vindo das flags, exibe o resultado e exporta os
// relatórios pedidos.
func (uc *DashboardUseCase) RunDashboard(ctx context.Context, args *types.CLIArgs) error {
	status := uc.console.Status("Loading datasets...")
	if err := uc.Initialize(ctx, args); err != nil {
		status.Stop()
		return err
	}
	status.Stop()

	state, err := uc.StateFromArgs(args)
	if err != nil {
		return err
	}

	progress := uc.console.ProgressWithTotal("Computing dashboard", len(entity.ChartIDs)+1)
	upd, err := uc.Handle(ctx, entity.FilterEvent{State: state, ChartID: args.Insight})
	if err != nil {
		progress.Stop()
		return err
	}
	for range AffectedOutputs(entity.FieldFiscalYear) {
		progress.Increment()
	}
	progress.Stop()

	opts, err := uc.FilterOptions()
	if err != nil {
		return err
	}
	uc.render(upd, opts.DataAsOf)

	if upd.Insight != nil {
		wait := uc.console.Status(fmt.Sprintf("Generating insight for %s...", args.Insight))
		var in entity.Insight
		select {
		case in = <-upd.Insight:
		case <-ctx.Done():
			wait.Stop()
			return ctx.Err()
		}
		wait.Stop()
		if in.Status == entity.InsightOK {
			uc.console.Println(color.CyanString("Insight (%s):", in.ChartID))
			uc.console.Println(in.Text)
		} else {
			uc.console.LogWarning("%s: %s", in.Text, in.Error)
		}
	}

	cfg := uc.cfg
	if cfg.ReportName == "" {
		return nil
	}
	report, err := uc.Snapshot()
	if err != nil {
		return err
	}
	for _, reportType := range cfg.ReportType {
		switch reportType {
		case "json":
			jsonPath, err := uc.exportRepo.ExportToJSON(report, cfg.ReportName, cfg.Dir)
			if err != nil {
				uc.console.LogError("Failed to export to JSON: %s", err)
			} else {
				uc.console.LogSuccess("Successfully exported to JSON: %s", jsonPath)
			}
		case "csv":
			csvPath, err := uc.exportRepo.ExportToCSV(report, cfg.ReportName, cfg.Dir)
			if err != nil {
				uc.console.LogError("Failed to export to CSV: %s", err)
			} else {
				uc.console.LogSuccess("Successfully exported to CSV: %s", csvPath)
			}
		case "pdf":
			pdfPath, err := uc.exportRepo.ExportToPDF(report, cfg.ReportName, cfg.Dir)
			if err != nil {
				uc.console.LogError("Failed to export to PDF: %s", err)
			} else {
				uc.console.LogSuccess("Successfully exported to PDF: %s", pdfPath)
			}
		case "xlsx":
			xlsxPath, err := uc.exportRepo.ExportToXLSX(report, cfg.ReportName, cfg.Dir)
			if err != nil {
				uc.console.LogError("Failed to export to XLSX: %s", err)
			} else {
				uc.console.LogSuccess("Successfully exported to XLSX: %s", xlsxPath)
			}
		case "html":
			htmlPath, err := uc.exportRepo.ExportToHTML(report, cfg.ReportName, cfg.Dir)
			if err != nil {
				uc.console.LogError("Failed to export to HTML: %s", err)
			} else {
				uc.console.LogSuccess("Successfully exported to HTML: %s", htmlPath)
			}
		default:
			uc.console.LogWarning("Unsupported report type: %s", reportType)
		}
	}
	return nil
}

func (uc *DashboardUseCase) render(upd Update, asOf string) {
	s := upd.State
	header := fmt.Sprintf("Fundraising Dashboard | %s | %s", s.FiscalYear, amountLabel(s.AmountType))
	if asOf != "" {
		header += " | Data as of " + asOf
	}
	uc.console.Println(color.New(color.Bold).Sprint(header))

	if upd.KPIs != nil {
		uc.console.DisplayKPICards(KPICards(*upd.KPIs))
	}

	for _, c := range upd.Charts {
		switch c.ID {
		case entity.ChartCumulative, entity.ChartMonthly:
			if len(c.Series) > 0 {
				uc.console.DisplayTrendBars(c.Title, MonthlyValues(c.Series[0]))
			}
		case entity.ChartDumbbell:
			uc.console.Println(c.Title)
			uc.console.Print(uc.rankingTable(c).Render())
		case entity.ChartSankey:
			if c.Flow != nil {
				uc.console.Println(c.Title)
				uc.console.Print(uc.flowTable(*c.Flow).Render())
			}
		}
	}
}

func amountLabel(t entity.AmountType) string {
	if t == entity.AmountCounterfactual {
		return "Counterfactual Money Moved"
	}
	return "Money Moved"
}

// KPICards converte os KPIs para o formato de cartão do console.
func KPICards(set entity.KPISet) []types.KPICard {
	cards := make([]types.KPICard, 0, len(set.Items))
	for _, k := range set.Items {
		card := types.KPICard{Title: k.Label, Value: k.Display, Goal: k.GoalDisplay}
		if k.Defined {
			card.Percent = format.Percent(k.PercentOfGoal, 1)
		}
		cards = append(cards, card)
	}
	return cards
}

// MonthlyValues converte uma série em valores mensais para as barras de tendência.
func MonthlyValues(s entity.ChartSeries) []types.MonthlyValue {
	out := make([]types.MonthlyValue, len(s.Points))
	for i, p := range s.Points {
		out[i] = types.MonthlyValue{Month: p.X, Value: p.Y}
	}
	return out
}

func (uc *DashboardUseCase) rankingTable(c entity.Chart) types.TableInterface {
	table := uc.console.CreateTable()
	table.AddColumn("Chapter")
	for _, s := range c.Series {
		table.AddColumn(s.Name)
	}
	table.AddColumn("Change")
	for i, chapter := range c.XLabels {
		row := []interface{}{chapter}
		var vals []float64
		for _, s := range c.Series {
			v := 0.0
			if i < len(s.Points) && s.Points[i].Y != nil {
				v = *s.Points[i].Y
			}
			vals = append(vals, v)
			row = append(row, format.Money(v, 2))
		}
		row = append(row, changeCell(vals))
		table.AddRow(row...)
	}
	return table
}

// changeCell mostra a variação entre a primeira série (ano anterior) e a última.
func changeCell(vals []float64) string {
	if len(vals) < 2 {
		return ""
	}
	prior, selected := vals[0], vals[len(vals)-1]
	if prior == 0 {
		return "n/a"
	}
	change := (selected - prior) / prior
	text := format.Percent(change, 1)
	if change >= 0 {
		return color.GreenString("↑ %s", text)
	}
	return color.RedString("↓ %s", strings.TrimPrefix(text, "-"))
}

func (uc *DashboardUseCase) flowTable(g entity.FlowGraph) types.TableInterface {
	table := uc.console.CreateTable()
	table.AddColumn("Source")
	table.AddColumn("Target")
	table.AddColumn("ARR")
	for _, l := range g.Links {
		table.AddRow(l.Source, l.Target, format.Money(l.Value, 0))
	}
	table.AddRow(color.New(color.Bold).Sprint("Total"), entity.SinkActual, format.Money(g.ActualTotal, 0))
	if g.Mode == entity.ViewTarget {
		table.AddRow("", entity.SinkGap, format.Money(g.GapTotal, 0))
	}
	return table
}
