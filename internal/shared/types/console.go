package types

// ConsoleInterface define a interface para saída no console.
type ConsoleInterface interface {
	Print(a ...interface{})
	Printf(format string, a ...interface{})
	Println(a ...interface{})

	LogInfo(format string, a ...interface{})
	LogWarning(format string, a ...interface{})
	LogError(format string, a ...interface{})
	LogSuccess(format string, a ...interface{})

	Status(message string) StatusHandle
	ProgressWithTotal(title string, total int) ProgressHandle

	CreateTable() TableInterface
	DisplayTrendBars(title string, values []MonthlyValue)
	DisplayKPICards(cards []KPICard)
}

// StatusHandle é uma interface para atualizar uma mensagem de status.
type StatusHandle interface {
	Update(message string)
	Stop()
}

// ProgressHandle é uma interface para atualizar uma barra de progresso.
type ProgressHandle interface {
	Increment()
	Stop()
}

// TableInterface define a interface para criar e manipular tabelas.
type TableInterface interface {
	AddColumn(name string, options ...interface{})
	AddRow(cells ...interface{})
	Render() string
}

// MonthlyValue representa o valor de um mês fiscal, usado para gráficos de tendência.
// Value nil significa mês sem dados.
type MonthlyValue struct {
	Month string   `json:"month"`
	Value *float64 `json:"value"`
}

// KPICard é a versão de exibição de um KPI.
type KPICard struct {
	Title   string `json:"title"`
	Value   string `json:"value"`
	Goal    string `json:"goal"`
	Percent string `json:"percent"`
}
