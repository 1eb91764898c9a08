package cli

import (
	"context"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/diillson/fundraising-dashboard-go/pkg/version"

	"github.com/diillson/fundraising-dashboard-go/internal/adapter/driving/httpapi"
	"github.com/diillson/fundraising-dashboard-go/internal/adapter/driving/tui"
	"github.com/diillson/fundraising-dashboard-go/internal/application/usecase"
	"github.com/diillson/fundraising-dashboard-go/internal/domain/entity"
	"github.com/diillson/fundraising-dashboard-go/internal/shared/types"
	"github.com/spf13/cobra"
)

// CLIApp represents the command-line interface application.
type CLIApp struct {
	rootCmd          *cobra.Command
	dashboardUseCase *usecase.DashboardUseCase
	console          types.ConsoleInterface
	version          string
}

// NewCLIApp cria uma nova aplicação CLI.
func NewCLIApp(versionStr string) *CLIApp {
	app := &CLIApp{
		version: versionStr,
	}

	formattedVersion := version.FormatVersion()

	rootCmd := &cobra.Command{
		Use:     "fundraising-dashboard",
		Short:   "Fundraising Dashboard CLI",
		Version: formattedVersion,
		RunE:    app.runCommand,
	}

	rootCmd.SetVersionTemplate(`{{printf "Fundraising Dashboard version: %s\n" .Version}}`)

	flags := rootCmd.PersistentFlags()
	flags.StringP("config-file", "C", "", "Path to a TOML, YAML, or JSON configuration file")
	flags.StringP("data-dir", "D", "", "Directory holding the <dataset>.csv files (default: $FUNDRAISING_DATA_DIR or ./data)")
	flags.String("fy", "", "Fiscal year to display, e.g. FY2024-2025 (default: latest in the data)")
	flags.String("amount-type", "", "Amount type: actual or counterfactual")
	flags.String("drilldown", "", "Split monthly money moved by: payment_platform, pledge_chapter_type")
	flags.String("attrition-drilldown", "", "Split pledge attrition by: pledge_payment_platform, pledge_chapter_type")
	flags.String("view-mode", "", "ARR flow view: actual or target")
	flags.Int("top-n", 0, "Number of chapters in the ranking (3-50)")
	flags.StringP("report-name", "n", "", "Specify the base name for the report file (without extension)")
	flags.StringSliceP("report-type", "y", nil, "Specify report types: csv, json, pdf, xlsx, html")
	flags.StringP("dir", "d", "", "Directory to save the report files (default: current directory)")
	flags.String("insight", "", "Chart id to generate a narrative insight for")
	flags.String("addr", "", "Address for the serve command (default: $SERVER_ADDR or :8050)")

	rootCmd.AddCommand(&cobra.Command{
		Use:   "serve",
		Short: "Serve the dashboard over HTTP",
		RunE:  app.serveCommand,
	})
	rootCmd.AddCommand(&cobra.Command{
		Use:   "tui",
		Short: "Open the interactive terminal dashboard",
		RunE:  app.tuiCommand,
	})

	app.rootCmd = rootCmd
	return app
}

// Execute runs the CLI application.
func (app *CLIApp) Execute() error {
	return app.rootCmd.Execute()
}

// parseArgs parses command-line arguments into a CLIArgs struct.
func (app *CLIApp) parseArgs() (*types.CLIArgs, error) {
	flags := app.rootCmd.PersistentFlags()
	configFile, _ := flags.GetString("config-file")
	dataDir, _ := flags.GetString("data-dir")
	fy, _ := flags.GetString("fy")
	amountType, _ := flags.GetString("amount-type")
	drilldown, _ := flags.GetString("drilldown")
	attritionDrilldown, _ := flags.GetString("attrition-drilldown")
	viewMode, _ := flags.GetString("view-mode")
	topN, _ := flags.GetInt("top-n")
	reportName, _ := flags.GetString("report-name")
	reportType, _ := flags.GetStringSlice("report-type")
	dir, _ := flags.GetString("dir")
	insight, _ := flags.GetString("insight")
	addr, _ := flags.GetString("addr")

	// vazio mantém o diretório da configuração
	if dir != "" {
		absDir, err := filepath.Abs(dir)
		if err != nil {
			return nil, err
		}
		dir = absDir
	}

	args := &types.CLIArgs{
		ConfigFile:         configFile,
		DataDir:            dataDir,
		FiscalYear:         fy,
		AmountType:         amountType,
		Drilldown:          drilldown,
		AttritionDrilldown: attritionDrilldown,
		ViewMode:           viewMode,
		TopN:               topN,
		ReportName:         reportName,
		ReportType:         reportType,
		Dir:                dir,
		Insight:            insight,
		Addr:               addr,
	}

	return args, nil
}

// runCommand é o ponto de entrada principal para o comando CLI.
func (app *CLIApp) runCommand(cmd *cobra.Command, args []string) error {
	displayWelcomeBanner(app.version)

	go version.CheckLatestVersion(app.version)

	cliArgs, err := app.parseArgs()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return app.dashboardUseCase.RunDashboard(ctx, cliArgs)
}

// prepare carrega os dados e calcula o estado inicial vindo das flags.
func (app *CLIApp) prepare(ctx context.Context) (entity.FilterState, error) {
	cliArgs, err := app.parseArgs()
	if err != nil {
		return entity.FilterState{}, err
	}

	status := app.console.Status("Loading datasets...")
	err = app.dashboardUseCase.Initialize(ctx, cliArgs)
	status.Stop()
	if err != nil {
		return entity.FilterState{}, err
	}

	state, err := app.dashboardUseCase.StateFromArgs(cliArgs)
	if err != nil {
		return entity.FilterState{}, err
	}
	return state, nil
}

// serveCommand sobe o servidor HTTP até receber SIGINT/SIGTERM.
func (app *CLIApp) serveCommand(cmd *cobra.Command, args []string) error {
	displayWelcomeBanner(app.version)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	state, err := app.prepare(ctx)
	if err != nil {
		return err
	}
	if _, err := app.dashboardUseCase.Handle(ctx, entity.FilterEvent{Changed: entity.FieldFiscalYear, State: state}); err != nil {
		return err
	}

	server := httpapi.NewServer(app.dashboardUseCase, app.dashboardUseCase.Addr(), app.console)
	return server.ListenAndServe(ctx)
}

// tuiCommand abre o painel interativo no terminal.
func (app *CLIApp) tuiCommand(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	state, err := app.prepare(ctx)
	if err != nil {
		return err
	}
	return tui.Run(ctx, app.dashboardUseCase, state)
}

// SetDashboardUseCase sets the dashboard use case for the CLI app.
func (app *CLIApp) SetDashboardUseCase(useCase *usecase.DashboardUseCase) {
	app.dashboardUseCase = useCase
}

// SetConsole define o console usado pelos subcomandos.
func (app *CLIApp) SetConsole(console types.ConsoleInterface) {
	app.console = console
}
