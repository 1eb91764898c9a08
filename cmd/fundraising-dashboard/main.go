package main

import (
	"fmt"
	"os"
	"time"

	"github.com/diillson/fundraising-dashboard-go/internal/adapter/driven/config"
	"github.com/diillson/fundraising-dashboard-go/internal/adapter/driven/datasource"
	"github.com/diillson/fundraising-dashboard-go/internal/adapter/driven/export"
	"github.com/diillson/fundraising-dashboard-go/internal/adapter/driven/insight"
	"github.com/diillson/fundraising-dashboard-go/internal/adapter/driving/cli"
	"github.com/diillson/fundraising-dashboard-go/internal/application/usecase"
	"github.com/diillson/fundraising-dashboard-go/pkg/console"
	"github.com/diillson/fundraising-dashboard-go/pkg/version"
)

func main() {
	// Inicializa o aplicativo CLI
	app := cli.NewCLIApp(version.Version)

	// Inicializa os repositórios; os padrões vêm do ambiente e o arquivo de
	// configuração é aplicado no Initialize
	configRepo := config.NewConfigRepository()
	defaults := configRepo.DefaultConfig()
	datasetRepo := datasource.NewDatasetRepository(defaults.AWSProfile)
	exportRepo := export.NewExportRepository()
	insightRepo := insight.NewOllamaRepository(
		defaults.Insight.Endpoint,
		defaults.Insight.Model,
		time.Duration(defaults.Insight.TimeoutSeconds)*time.Second,
	)
	consoleImpl := console.NewConsole()

	// Inicializa o caso de uso
	dashboardUseCase := usecase.NewDashboardUseCase(
		datasetRepo,
		exportRepo,
		configRepo,
		insightRepo,
		consoleImpl,
	)

	app.SetDashboardUseCase(dashboardUseCase)
	app.SetConsole(consoleImpl)

	if err := app.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
