package export

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/diillson/fundraising-dashboard-go/internal/domain/entity"
	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
)

const (
	chartWidth  = "1100px"
	chartHeight = "480px"
)

// ExportToHTML grava uma página estática com todos os gráficos.
func (r *ExportRepositoryImpl) ExportToHTML(report entity.DashboardReport, filename, outputDir string) (string, error) {
	outputFilename, err := generateFilename(filename, outputDir, "html")
	if err != nil {
		return "", err
	}

	file, err := os.Create(outputFilename)
	if err != nil {
		return "", fmt.Errorf("error creating HTML file: %w", err)
	}
	defer file.Close()

	if err := RenderHTML(file, report); err != nil {
		return "", err
	}
	return filepath.Abs(outputFilename)
}

// RenderHTML escreve a página de gráficos do relatório. Também é servida
// pela API HTTP.
func RenderHTML(w io.Writer, report entity.DashboardReport) error {
	page := components.NewPage()
	page.PageTitle = fmt.Sprintf("Fundraising Dashboard %s", report.State.FiscalYear)
	for _, c := range report.Charts {
		page.AddCharts(renderChart(c))
	}
	if err := page.Render(w); err != nil {
		return fmt.Errorf("error rendering HTML page: %w", err)
	}
	return nil
}

func globalOpts(c entity.Chart) []charts.GlobalOpts {
	return []charts.GlobalOpts{
		charts.WithInitializationOpts(opts.Initialization{Width: chartWidth, Height: chartHeight}),
		charts.WithTitleOpts(opts.Title{Title: c.Title}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true), Top: "30"}),
	}
}

func renderChart(c entity.Chart) components.Charter {
	switch c.Kind {
	case entity.KindSankey:
		return sankeyChart(c)
	case entity.KindBar:
		return barChart(c, "total")
	case entity.KindDumbbell:
		return barChart(c, "")
	}
	return lineChart(c)
}

func lineData(points []entity.Point) []opts.LineData {
	data := make([]opts.LineData, len(points))
	for i, p := range points {
		if p.Y == nil {
			data[i] = opts.LineData{Value: nil}
			continue
		}
		data[i] = opts.LineData{Value: *p.Y, Name: p.Text}
	}
	return data
}

func lineChart(c entity.Chart) *charts.Line {
	line := charts.NewLine()
	line.SetGlobalOptions(globalOpts(c)...)
	line.SetXAxis(c.XLabels)

	for i, s := range c.Series {
		seriesOpts := []charts.SeriesOpts{
			charts.WithLineStyleOpts(lineStyle(s)),
			charts.WithItemStyleOpts(opts.ItemStyle{Color: s.Color}),
		}
		if i == 0 && len(c.References) > 0 {
			items := make([]opts.MarkLineNameYAxisItem, 0, len(c.References))
			for _, ref := range c.References {
				items = append(items, opts.MarkLineNameYAxisItem{Name: ref.Label, YAxis: ref.Value})
			}
			seriesOpts = append(seriesOpts, charts.WithMarkLineNameYAxisItemOpts(items...))
		}
		if i == 0 && len(c.Markers) > 0 {
			seriesOpts = append(seriesOpts, charts.WithMarkPointNameCoordItemOpts(markPoints(c.Markers)...))
		}
		line.AddSeries(s.Name, lineData(s.Aligned(c.XLabels)), seriesOpts...)
	}
	return line
}

// markPoints posiciona os marcadores pela categoria do eixo x.
func markPoints(markers []entity.Point) []opts.MarkPointNameCoordItem {
	items := make([]opts.MarkPointNameCoordItem, 0, len(markers))
	for _, m := range markers {
		if m.Y == nil {
			continue
		}
		items = append(items, opts.MarkPointNameCoordItem{
			Name:       m.Text,
			Coordinate: []interface{}{m.X, *m.Y},
			Value:      m.Text,
			Symbol:     "pin",
			SymbolSize: 60,
			Label:      &opts.Label{Show: opts.Bool(true), Formatter: "{b}"},
		})
	}
	return items
}

func lineStyle(s entity.ChartSeries) opts.LineStyle {
	style := opts.LineStyle{Color: s.Color}
	if s.Dashed {
		style.Type = "dashed"
	}
	return style
}

func barChart(c entity.Chart, stack string) *charts.Bar {
	bar := charts.NewBar()
	bar.SetGlobalOptions(globalOpts(c)...)
	bar.SetXAxis(c.XLabels)
	for _, s := range c.Series {
		aligned := s.Aligned(c.XLabels)
		data := make([]opts.BarData, len(aligned))
		for i, p := range aligned {
			if p.Y != nil {
				data[i] = opts.BarData{Value: *p.Y, Name: p.Text}
			}
		}
		bar.AddSeries(s.Name, data,
			charts.WithItemStyleOpts(opts.ItemStyle{Color: s.Color}),
			charts.WithBarChartOpts(opts.BarChart{Stack: stack}),
		)
	}
	return bar
}

func sankeyChart(c entity.Chart) *charts.Sankey {
	sankey := charts.NewSankey()
	sankey.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Width: chartWidth, Height: chartHeight}),
		charts.WithTitleOpts(opts.Title{Title: c.Title}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "item"}),
	)
	if c.Flow == nil {
		return sankey
	}

	nodes := make([]opts.SankeyNode, 0, len(c.Flow.Nodes))
	for _, n := range c.Flow.Nodes {
		nodes = append(nodes, opts.SankeyNode{Name: n.Name})
	}
	links := make([]opts.SankeyLink, 0, len(c.Flow.Links))
	for _, l := range c.Flow.Links {
		links = append(links, opts.SankeyLink{Source: l.Source, Target: l.Target, Value: float32(l.Value)})
	}
	sankey.AddSeries("ARR", nodes, links,
		charts.WithLabelOpts(opts.Label{Show: opts.Bool(true)}),
	)
	return sankey
}
