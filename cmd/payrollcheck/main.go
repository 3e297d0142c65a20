package main

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/chijunzheng/spreadsheet-payroll-automation/internal/config"
	"github.com/chijunzheng/spreadsheet-payroll-automation/internal/history"
	"github.com/chijunzheng/spreadsheet-payroll-automation/internal/runner"
	"github.com/chijunzheng/spreadsheet-payroll-automation/internal/server"
)

var (
	// Global flags
	verbose    bool
	configPath string

	// run flags
	csvPath  string
	xlsxPath string
	outDir   string

	logger *zap.Logger
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "payrollcheck",
	Short: "Reconcile punch-clock exports against payroll timesheets",
	Long: `payrollcheck compares a punch-clock CSV export with the manually
maintained weekly timesheet spreadsheet and reports every discrepancy,
plus a pass/fail status per employee-week written back into the sheet.

It is meant to run before payroll so manual-entry errors are caught
while they are still cheap to fix.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		zapCfg := zap.NewProductionConfig()
		if verbose {
			zapCfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		logger, err = zapCfg.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

// runCmd executes one validation run
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Validate one punch CSV against one timesheet XLSX",
	Long: `Runs the full reconciliation once: reads the punch export, scans the
timesheet for weekly employee blocks, compares recorded against expected
clock times, and writes the discrepancy report plus a validated copy of
the workbook into the output directory.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		summary, err := runner.New(cfg, logger).Run(csvPath, xlsxPath, outDir)
		if err != nil {
			return err
		}
		fmt.Printf("Discrepancies: %d\n", summary.Discrepancies)
		fmt.Printf("Employees OK: %d\n", summary.OK)
		fmt.Printf("Employees Needs Attention: %d\n", summary.NeedsAttention)
		fmt.Printf("Report: %s\n", summary.ReportPath)
		fmt.Printf("Validated XLSX: %s\n", summary.ValidatedPath)
		return nil
	},
}

// serveCmd hosts the local upload page
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the local upload server",
	Long: `Hosts a loopback-only web page where payroll staff upload the two
files and download the results. Each upload runs in its own directory
under the configured outputs root.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if outDir != "" {
			cfg.Server.OutputsDir = outDir
		}

		hist, err := history.Open(filepath.Join(cfg.Server.OutputsDir, "history.db"))
		if err != nil {
			return fmt.Errorf("failed to open run history: %w", err)
		}
		defer hist.Close()

		srv := server.New(cfg.Server, runner.New(cfg, logger), hist, logger)
		listener, err := srv.Listen()
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		fmt.Printf("Payroll Validator running at http://%s/\n", listener.Addr())
		return srv.Serve(ctx, listener)
	},
}

func loadConfig() (*config.Config, error) {
	if configPath == "" {
		return config.Default(), nil
	}
	return config.Load(configPath)
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to a YAML config file")

	runCmd.Flags().StringVar(&csvPath, "csv", "", "path to the punch report CSV")
	runCmd.Flags().StringVar(&xlsxPath, "xlsx", "", "path to the filled payroll XLSX")
	runCmd.Flags().StringVar(&outDir, "out-dir", "outputs", "directory for the report and validated XLSX")
	_ = runCmd.MarkFlagRequired("csv")
	_ = runCmd.MarkFlagRequired("xlsx")

	serveCmd.Flags().StringVar(&outDir, "out-dir", "", "override the outputs root directory")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(serveCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
