package console

import (
	"fmt"
	"strings"

	"github.com/diillson/fundraising-dashboard-go/internal/shared/format"
	"github.com/diillson/fundraising-dashboard-go/internal/shared/types"
	"github.com/fatih/color"
	"github.com/pterm/pterm"
)

// Console é uma implementação do ConsoleInterface.
type Console struct{}

// NewConsole cria um novo Console.
func NewConsole() *Console {
	return &Console{}
}

// Print imprime no console.
func (c *Console) Print(a ...interface{}) {
	fmt.Print(a...)
}

// Printf imprime uma string formatada no console.
func (c *Console) Printf(format string, a ...interface{}) {
	fmt.Printf(format, a...)
}

// Println imprime no console com uma nova linha.
func (c *Console) Println(a ...interface{}) {
	fmt.Println(a...)
}

// LogInfo registra uma mensagem de informação.
func (c *Console) LogInfo(format string, a ...interface{}) {
	pterm.Info.Printfln(format, a...)
}

// LogWarning registra uma mensagem de aviso.
func (c *Console) LogWarning(format string, a ...interface{}) {
	pterm.Warning.Printfln(format, a...)
}

// LogError registra uma mensagem de erro.
func (c *Console) LogError(format string, a ...interface{}) {
	pterm.Error.Printfln(format, a...)
}

// LogSuccess registra uma mensagem de sucesso.
func (c *Console) LogSuccess(format string, a ...interface{}) {
	pterm.Success.Printfln(format, a...)
}

// statusHandle é uma implementação do StatusHandle.
type statusHandle struct {
	spinner *pterm.SpinnerPrinter
}

// Status cria um spinner de status com a mensagem especificada.
func (c *Console) Status(message string) types.StatusHandle {
	spinner, _ := pterm.DefaultSpinner.Start(message)
	return &statusHandle{spinner: spinner}
}

// Cores predefinidas para uso consistente
var (
	BrightMagenta = color.New(color.FgMagenta, color.Bold).SprintFunc()
	BrightGreen   = color.New(color.FgGreen, color.Bold).SprintFunc()
	BrightYellow  = color.New(color.FgYellow, color.Bold).SprintFunc()
	BrightRed     = color.New(color.FgRed, color.Bold).SprintFunc()
	BrightCyan    = color.New(color.FgCyan, color.Bold).SprintFunc()
)

// Update atualiza a mensagem de status.
func (h *statusHandle) Update(message string) {
	if h.spinner != nil {
		h.spinner.UpdateText(message)
	}
}

// Stop pára o spinner de status.
func (h *statusHandle) Stop() {
	if h.spinner != nil {
		h.spinner.Stop()
	}
}

// progressHandle é uma implementação do ProgressHandle.
type progressHandle struct {
	bar *pterm.ProgressbarPrinter
}

// ProgressWithTotal cria uma barra de progresso com total de passos.
func (c *Console) ProgressWithTotal(title string, total int) types.ProgressHandle {
	bar, _ := pterm.DefaultProgressbar.
		WithTotal(total).
		WithTitle(title).
		WithShowElapsedTime(true).
		WithShowCount(true).
		WithRemoveWhenDone(true).
		Start()
	return &progressHandle{bar: bar}
}

// Increment incrementa a barra de progresso.
func (h *progressHandle) Increment() {
	if h.bar != nil {
		h.bar.Increment()
	}
}

// Stop pára a barra de progresso.
func (h *progressHandle) Stop() {
	if h.bar != nil {
		h.bar.Stop()
	}
}

// Table é uma implementação do TableInterface.
type Table struct {
	columns []string
	rows    [][]string
}

// CreateTable cria uma nova tabela.
func (c *Console) CreateTable() types.TableInterface {
	return &Table{
		columns: []string{},
		rows:    [][]string{},
	}
}

// AddColumn adiciona uma coluna à tabela.
func (t *Table) AddColumn(name string, options ...interface{}) {
	t.columns = append(t.columns, name)
}

// AddRow adiciona uma linha à tabela.
func (t *Table) AddRow(cells ...interface{}) {
	processedCells := make([]string, len(cells))
	for i, cell := range cells {
		processedCells[i] = fmt.Sprint(cell)
	}
	t.rows = append(t.rows, processedCells)
}

// Render renderiza a tabela como uma string.
func (t *Table) Render() string {
	tableData := pterm.TableData{t.columns}
	for _, row := range t.rows {
		tableData = append(tableData, row)
	}

	table := pterm.DefaultTable.
		WithHasHeader().
		WithBoxed().
		WithHeaderStyle(pterm.NewStyle(pterm.FgLightCyan)).
		WithData(tableData)

	renderedTable, _ := table.Srender()
	return renderedTable
}

// DisplayKPICards exibe os KPIs como cartões lado a lado.
func (c *Console) DisplayKPICards(cards []types.KPICard) {
	if len(cards) == 0 {
		return
	}
	var panels pterm.Panels
	var row []pterm.Panel
	for i, card := range cards {
		body := fmt.Sprintf("%s\n%s\n%s",
			pterm.NewStyle(pterm.FgLightCyan, pterm.Bold).Sprint(card.Value),
			card.Goal,
			BrightYellow(card.Percent),
		)
		box := pterm.DefaultBox.WithTitle(card.Title).WithBoxStyle(pterm.NewStyle(pterm.FgCyan)).Sprint(body)
		row = append(row, pterm.Panel{Data: box})
		if (i+1)%3 == 0 {
			panels = append(panels, row)
			row = nil
		}
	}
	if len(row) > 0 {
		panels = append(panels, row)
	}
	_ = pterm.DefaultPanel.WithPanels(panels).WithPadding(2).Render()
}

// DisplayTrendBars exibe os valores mensais como barras horizontais, com a
// variação em relação ao mês anterior.
func (c *Console) DisplayTrendBars(title string, values []types.MonthlyValue) {
	maxValue := 0.0
	for _, mv := range values {
		if mv.Value != nil && *mv.Value > maxValue {
			maxValue = *mv.Value
		}
	}

	if maxValue == 0 {
		pterm.Warning.Printfln("No money moved recorded for %s", title)
		return
	}

	tableData := pterm.TableData{
		{"Month", "Value", "", "MoM Change"},
	}

	var prev *float64
	for _, mv := range values {
		if mv.Value == nil {
			tableData = append(tableData, []string{mv.Month, "n/a", "", ""})
			prev = nil
			continue
		}
		v := *mv.Value
		bar := strings.Repeat("█", int((v/maxValue)*40))
		barColor := pterm.FgBlue.Sprint(bar)
		change := ""

		if prev != nil {
			switch {
			case *prev < 0.01:
				change = pterm.FgYellow.Sprint("N/A")
			default:
				pct := (v - *prev) / *prev
				switch {
				case pct > 0:
					change = pterm.FgGreen.Sprint("+" + format.Percent(pct, 2))
					barColor = pterm.FgGreen.Sprint(bar)
				case pct < 0:
					change = pterm.FgRed.Sprint(format.Percent(pct, 2))
					barColor = pterm.FgRed.Sprint(bar)
				default:
					change = pterm.FgYellow.Sprint("0%")
					barColor = pterm.FgYellow.Sprint(bar)
				}
			}
		}

		tableData = append(tableData, []string{mv.Month, format.Money(v, 2), barColor, change})
		cur := v
		prev = &cur
	}

	rendered, _ := pterm.DefaultTable.WithHasHeader().WithData(tableData).Srender()
	panel := pterm.DefaultBox.WithTitle(title).WithBoxStyle(pterm.NewStyle(pterm.FgCyan)).Sprint(rendered)
	fmt.Println("\n" + panel)
}
