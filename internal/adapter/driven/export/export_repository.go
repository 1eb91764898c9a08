package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/diillson/fundraising-dashboard-go/internal/domain/entity"
	"github.com/diillson/fundraising-dashboard-go/internal/domain/repository"
)

// ExportRepositoryImpl implementa o ExportRepository.
type ExportRepositoryImpl struct{}

// NewExportRepository cria uma nova implementação do ExportRepository.
func NewExportRepository() repository.ExportRepository {
	return &ExportRepositoryImpl{}
}

// ExportToJSON grava o relatório completo, com KPIs, gráficos e narrativas.
func (r *ExportRepositoryImpl) ExportToJSON(report entity.DashboardReport, filename, outputDir string) (string, error) {
	outputFilename, err := generateFilename(filename, outputDir, "json")
	if err != nil {
		return "", err
	}

	file, err := os.Create(outputFilename)
	if err != nil {
		return "", fmt.Errorf("error creating JSON file: %w", err)
	}
	defer file.Close()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(report); err != nil {
		return "", fmt.Errorf("error encoding JSON data: %w", err)
	}

	return filepath.Abs(outputFilename)
}

// ExportToCSV grava o relatório em formato longo: uma linha por ponto de
// cada série, mais uma linha por KPI.
func (r *ExportRepositoryImpl) ExportToCSV(report entity.DashboardReport, filename, outputDir string) (string, error) {
	outputFilename, err := generateFilename(filename, outputDir, "csv")
	if err != nil {
		return "", err
	}

	file, err := os.Create(outputFilename)
	if err != nil {
		return "", fmt.Errorf("error creating CSV file: %w", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	if err := writer.WriteAll(longRecords(report)); err != nil {
		return "", fmt.Errorf("error writing CSV file: %w", err)
	}

	return filepath.Abs(outputFilename)
}

func longRecords(report entity.DashboardReport) [][]string {
	records := [][]string{{"Fiscal Year", "Chart", "Series", "Label", "Value", "Display"}}
	fy := report.State.FiscalYear

	for _, k := range report.KPIs.Items {
		value := ""
		if k.Defined {
			value = formatFloat(k.Value)
		}
		records = append(records, []string{fy, "kpis", k.Label, k.GoalDisplay, value, k.Display})
	}
	for _, c := range report.Charts {
		if c.Flow != nil {
			for _, l := range c.Flow.Links {
				records = append(records, []string{fy, c.ID, l.Source, l.Target, formatFloat(l.Value), ""})
			}
			continue
		}
		for _, s := range c.Series {
			for _, p := range s.Points {
				value := ""
				if p.Y != nil {
					value = formatFloat(*p.Y)
				}
				records = append(records, []string{fy, c.ID, s.Name, p.X, value, p.Text})
			}
		}
		for _, ref := range c.References {
			records = append(records, []string{fy, c.ID, "reference", ref.Label, formatFloat(ref.Value), ""})
		}
		for _, m := range c.Markers {
			if m.Y != nil {
				records = append(records, []string{fy, c.ID, "marker", m.X, formatFloat(*m.Y), m.Text})
			}
		}
	}
	return records
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// chartTable converte um gráfico em tabela larga: uma coluna por série, ou
// origem/destino/valor para o grafo de fluxo.
func chartTable(c entity.Chart) ([]string, [][]interface{}) {
	if c.Flow != nil {
		header := []string{"Source", "Target", "ARR"}
		rows := make([][]interface{}, 0, len(c.Flow.Links))
		for _, l := range c.Flow.Links {
			rows = append(rows, []interface{}{l.Source, l.Target, l.Value})
		}
		return header, rows
	}

	header := []string{"Label"}
	for _, s := range c.Series {
		header = append(header, s.Name)
	}
	aligned := make([][]entity.Point, len(c.Series))
	for j, s := range c.Series {
		aligned[j] = s.Aligned(c.XLabels)
	}
	rows := make([][]interface{}, 0, len(c.XLabels)+len(c.Markers))
	for i, label := range c.XLabels {
		row := []interface{}{label}
		for j := range c.Series {
			var v interface{}
			if p := aligned[j][i]; p.Y != nil {
				v = *p.Y
			}
			row = append(row, v)
		}
		rows = append(rows, row)
	}
	// marcadores: uma linha cada, valor na primeira coluna de série
	for _, m := range c.Markers {
		if m.Y == nil {
			continue
		}
		row := make([]interface{}, len(header))
		row[0] = fmt.Sprintf("%s (%s)", m.X, m.Text)
		if len(row) > 1 {
			row[1] = *m.Y
		}
		rows = append(rows, row)
	}
	return header, rows
}

// generateFilename cria um nome de arquivo único com timestamp e garante que o diretório exista.
func generateFilename(base, dir, ext string) (string, error) {
	if dir == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("could not get current working directory: %w", err)
		}
		dir = cwd
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("error creating output directory '%s': %w", dir, err)
	}
	timestamp := time.Now().Format("20060102_150405")
	filename := fmt.Sprintf("%s_%s.%s", base, timestamp, ext)
	return filepath.Join(dir, filename), nil
}
