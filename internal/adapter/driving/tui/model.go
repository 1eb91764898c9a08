// Package tui é o painel interativo no terminal: os mesmos filtros da página
// web, trocados por teclas, com KPIs, gráficos em forma de tabela e a
// narrativa do gráfico selecionado.
package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/diillson/fundraising-dashboard-go/internal/application/usecase"
	"github.com/diillson/fundraising-dashboard-go/internal/domain/entity"
	"github.com/diillson/fundraising-dashboard-go/internal/shared/format"
)

// Dashboard é o que o terminal precisa do caso de uso.
type Dashboard interface {
	FilterOptions() (entity.FilterOptions, error)
	Handle(ctx context.Context, ev entity.FilterEvent) (usecase.Update, error)
	RequestInsight(ctx context.Context, chartID string) (<-chan entity.Insight, error)
}

var (
	accent      = lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Bold(true)
	subtle      = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
	panel       = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(1, 2)
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("63")).Bold(true)
	goodStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Bold(true)
	badStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("203")).Bold(true)
)

type chartItem struct {
	id    string
	title string
	desc  string
}

func (c chartItem) Title() string       { return c.title }
func (c chartItem) Description() string { return c.desc }
func (c chartItem) FilterValue() string { return c.title }

type updateMsg struct{ upd usecase.Update }

type insightMsg struct{ in entity.Insight }

type errMsg struct{ err error }

type model struct {
	ctx      context.Context
	dash     Dashboard
	opts     entity.FilterOptions
	state    entity.FilterState
	kpis     entity.KPISet
	charts   map[string]entity.Chart
	insights map[string]entity.Insight
	pending  map[string]bool
	list     list.Model
	status   string
	err      error
	ready    bool
	width    int
	height   int
}

// New monta o modelo a partir do estado inicial de filtros.
func New(ctx context.Context, dash Dashboard, state entity.FilterState) (tea.Model, error) {
	return newModel(ctx, dash, state)
}

func newModel(ctx context.Context, dash Dashboard, state entity.FilterState) (model, error) {
	opts, err := dash.FilterOptions()
	if err != nil {
		return model{}, err
	}
	listModel := list.New(chartItems(nil), list.NewDefaultDelegate(), 0, 0)
	listModel.Title = "Charts"
	listModel.SetShowStatusBar(false)
	listModel.SetFilteringEnabled(false)
	listModel.SetShowHelp(false)

	return model{
		ctx:      ctx,
		dash:     dash,
		opts:     opts,
		state:    state,
		charts:   make(map[string]entity.Chart),
		insights: make(map[string]entity.Insight),
		pending:  make(map[string]bool),
		list:     listModel,
		status:   "Loading...",
	}, nil
}

// Run abre o painel em tela cheia até o usuário sair.
func Run(ctx context.Context, dash Dashboard, state entity.FilterState) error {
	m, err := New(ctx, dash, state)
	if err != nil {
		return err
	}
	if _, err := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx)).Run(); err != nil {
		return fmt.Errorf("running terminal dashboard: %w", err)
	}
	return nil
}

func chartItems(charts map[string]entity.Chart) []list.Item {
	items := make([]list.Item, 0, len(entity.ChartIDs))
	for _, id := range entity.ChartIDs {
		c, ok := charts[id]
		if !ok {
			continue
		}
		items = append(items, chartItem{id: id, title: c.Title, desc: string(c.Kind)})
	}
	return items
}

// Init força o cálculo completo do estado inicial.
func (m model) Init() tea.Cmd {
	return m.handle(entity.FieldFiscalYear, m.state)
}

func (m model) handle(field entity.FilterField, state entity.FilterState) tea.Cmd {
	ctx, dash := m.ctx, m.dash
	return func() tea.Msg {
		upd, err := dash.Handle(ctx, entity.FilterEvent{Changed: field, State: state})
		if err != nil {
			return errMsg{err}
		}
		return updateMsg{upd}
	}
}

func (m model) requestInsight(chartID string) tea.Cmd {
	ctx, dash := m.ctx, m.dash
	return func() tea.Msg {
		ch, err := dash.RequestInsight(ctx, chartID)
		if err != nil {
			return errMsg{err}
		}
		select {
		case in := <-ch:
			return insightMsg{in}
		case <-ctx.Done():
			return errMsg{ctx.Err()}
		}
	}
}

func (m model) selectedChart() (string, bool) {
	item, ok := m.list.SelectedItem().(chartItem)
	if !ok {
		return "", false
	}
	return item.id, true
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		listHeight := msg.Height - 16
		if listHeight < 8 {
			listHeight = 8
		}
		m.list.SetSize(36, listHeight)
		m.ready = true
		return m, nil
	case updateMsg:
		m.state = msg.upd.State
		if msg.upd.KPIs != nil {
			m.kpis = *msg.upd.KPIs
		}
		if len(msg.upd.Charts) > 0 {
			// narrativas antigas não valem mais para os gráficos novos
			m.insights = make(map[string]entity.Insight)
			m.pending = make(map[string]bool)
		}
		for _, c := range msg.upd.Charts {
			m.charts[c.ID] = c
		}
		index := m.list.Index()
		m.list.SetItems(chartItems(m.charts))
		m.list.Select(index)
		m.err = nil
		m.status = "Updated " + m.state.FiscalYear
		return m, nil
	case insightMsg:
		delete(m.pending, msg.in.ChartID)
		if msg.in.Status == entity.InsightStale {
			return m, nil
		}
		m.insights[msg.in.ChartID] = msg.in
		return m, nil
	case errMsg:
		m.err = msg.err
		return m, nil
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "y":
			next := m.state
			next.FiscalYear = cycle(m.opts.FiscalYears, m.state.FiscalYear)
			next.Targets = nil
			return m, m.handle(entity.FieldFiscalYear, next)
		case "a":
			next := m.state
			if next.AmountType == entity.AmountCounterfactual {
				next.AmountType = entity.AmountActual
			} else {
				next.AmountType = entity.AmountCounterfactual
			}
			return m, m.handle(entity.FieldAmountType, next)
		case "d":
			next := m.state
			next.Drilldown = cycle(withNone(m.opts.Drilldowns), m.state.Drilldown)
			return m, m.handle(entity.FieldDrilldown, next)
		case "t":
			next := m.state
			next.AttritionDrilldown = cycle(withNone(m.opts.AttritionDrilldowns), m.state.AttritionDrilldown)
			return m, m.handle(entity.FieldAttritionDrilldown, next)
		case "v":
			next := m.state
			if next.ViewMode == entity.ViewTarget {
				next.ViewMode = entity.ViewActual
			} else {
				next.ViewMode = entity.ViewTarget
			}
			return m, m.handle(entity.FieldViewMode, next)
		case "+", "=":
			if m.state.TopN >= m.opts.MaxTopN {
				return m, nil
			}
			next := m.state
			next.TopN++
			return m, m.handle(entity.FieldTopN, next)
		case "-":
			if m.state.TopN <= m.opts.MinTopN {
				return m, nil
			}
			next := m.state
			next.TopN--
			return m, m.handle(entity.FieldTopN, next)
		case "i":
			id, ok := m.selectedChart()
			if !ok || m.pending[id] {
				return m, nil
			}
			m.pending[id] = true
			return m, m.requestInsight(id)
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// cycle devolve o valor seguinte a current em values, voltando ao início.
func cycle(values []string, current string) string {
	if len(values) == 0 {
		return current
	}
	for i, v := range values {
		if v == current {
			return values[(i+1)%len(values)]
		}
	}
	return values[0]
}

func withNone(values []string) []string {
	return append([]string{""}, values...)
}

func (m model) View() string {
	if !m.ready {
		return "Loading fundraising dashboard..."
	}

	header := headerStyle.Render("Fundraising Dashboard")
	meta := subtle.Render("y fiscal year · a amount · d drilldown · t attrition · v view · +/- top N · i insight · q quit")
	filters := accent.Render(m.filterLine())
	stamp := subtle.Render("Data as of " + m.opts.DataAsOf + " · " + m.status)

	left := panel.Render(m.list.View())
	right := panel.Render(m.detail())
	columns := lipgloss.JoinHorizontal(lipgloss.Top, left, right)

	parts := []string{header, meta, filters, stamp, renderKPIs(m.kpis), columns}
	if m.err != nil {
		parts = append(parts, badStyle.Render("Error: "+m.err.Error()))
	}
	return strings.Join(parts, "\n\n")
}

func (m model) filterLine() string {
	drill, attr := m.state.Drilldown, m.state.AttritionDrilldown
	if drill == "" {
		drill = "none"
	}
	if attr == "" {
		attr = "none"
	}
	amount := "Money Moved"
	if m.state.AmountType == entity.AmountCounterfactual {
		amount = "Counterfactual MM"
	}
	return fmt.Sprintf("%s · %s · drilldown %s · attrition %s · view %s · top %d",
		m.state.FiscalYear, amount, drill, attr, m.state.ViewMode, m.state.TopN)
}

func (m model) detail() string {
	id, ok := m.selectedChart()
	if !ok {
		return "No chart selected"
	}
	c := m.charts[id]
	body := headerStyle.Render(c.Title) + "\n\n" + renderChart(c)

	switch in, done := m.insights[id]; {
	case m.pending[id]:
		body += "\n\n" + subtle.Render("Generating insight...")
	case done && in.Status == entity.InsightOK:
		body += "\n\n" + accent.Render("Insight") + "\n" + in.Text
	case done:
		body += "\n\n" + badStyle.Render(in.Text)
	}
	return body
}

func renderKPIs(set entity.KPISet) string {
	cards := make([]string, 0, len(set.Items))
	for _, k := range set.Items {
		pct := "n/a"
		style := subtle
		if k.Defined {
			pct = format.Percent(k.PercentOfGoal, 1)
			style = badStyle
			if k.PercentOfGoal >= 1 {
				style = goodStyle
			}
		}
		cards = append(cards, panel.Render(fmt.Sprintf("%s\n%s\n%s",
			subtle.Render(k.Label), style.Render(k.Display), subtle.Render("goal "+k.GoalDisplay+" · "+pct))))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, cards...)
}

// renderChart mostra o gráfico como tabela: uma linha por rótulo do eixo x e
// uma coluna por série. O fluxo vira a lista de arestas.
func renderChart(c entity.Chart) string {
	var b strings.Builder
	if c.Flow != nil {
		for _, l := range c.Flow.Links {
			fmt.Fprintf(&b, "%-28s → %-28s %s\n", l.Source, l.Target, format.Money(l.Value, 0))
		}
		fmt.Fprintf(&b, "\nActual %s · Gap %s · Target %s",
			format.Money(c.Flow.ActualTotal, 0), format.Money(c.Flow.GapTotal, 0), format.Money(c.Flow.TargetTotal, 0))
		return b.String()
	}

	fmt.Fprintf(&b, "%-14s", "")
	for _, s := range c.Series {
		fmt.Fprintf(&b, "%16s", truncate(s.Name, 15))
	}
	b.WriteString("\n")
	aligned := make([][]entity.Point, len(c.Series))
	for j, s := range c.Series {
		aligned[j] = s.Aligned(c.XLabels)
	}
	for i, label := range c.XLabels {
		fmt.Fprintf(&b, "%-14s", truncate(label, 13))
		for j := range c.Series {
			v := "-"
			if p := aligned[j][i]; p.Y != nil {
				v = cell(*p.Y, c.YUnit)
			}
			fmt.Fprintf(&b, "%16s", v)
		}
		b.WriteString("\n")
	}
	for _, m := range c.Markers {
		if m.Y == nil {
			continue
		}
		fmt.Fprintf(&b, "\n● %s: %s (%s)", m.X, m.Text, cell(*m.Y, c.YUnit))
	}
	for _, r := range c.References {
		mark := "✗"
		if r.Achieved {
			mark = "✓"
		}
		fmt.Fprintf(&b, "\n%s %s: %s", mark, r.Label, cell(r.Value, c.YUnit))
	}
	return strings.TrimRight(b.String(), "\n")
}

func cell(v float64, unit string) string {
	if unit == "%" {
		return format.Percent(v, 1)
	}
	return format.Money(v, 0)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
