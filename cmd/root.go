// =============================================================================
// TPV Report - Root Command
// =============================================================================
//
// This file defines the root command for the Cobra CLI. Running the root
// command without a subcommand builds the reports.
//
// COBRA CLI STRUCTURE:
//   rootCmd (tpvreport)       load, aggregate, write reports
//   └── versionCmd (tpvreport version)
//
// CONFIGURATION:
//   The root command is responsible for:
//   1. Setting up the flags and binding them to viper
//   2. Loading the configuration (flags > env > config file > defaults)
//   3. Setting up logging
//
// =============================================================================

package cmd

import (
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ginjaninja78/tpv-report/internal/config"
)

// =============================================================================
// GLOBAL VARIABLES
// =============================================================================

// cfgFile holds the path to an explicit configuration file.
var cfgFile string

// verbose enables debug logging when set to true.
var verbose bool

// v is the viper instance the flags are bound to.
var v = viper.New()

// =============================================================================
// ROOT COMMAND DEFINITION
// =============================================================================

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "tpvreport",
	Short: "TPV Report - Consolidate TPV/markup spreadsheets into HTML charts",
	Long: `TPV Report reads every CSV and Excel spreadsheet in a data directory,
consolidates the rows, and computes per-customer totals of TPV (total payment
volume) and average markup. The results are written as interactive HTML
charts, plus monthly trend charts when the spreadsheets carry a Data column.

Every file must have the columns Cliente, Tpv and Markup (header case and
surrounding spaces are ignored). Files that cannot be read or lack a column
are skipped with a warning.

Example Usage:
  tpvreport                                   # Read ./data, write ./reports
  tpvreport --data-dir planilhas --report-dir relatorios
  tpvreport --encoding latin1 --verbose       # Legacy CSV exports
  TPVREPORT_REPORT_DIR=/tmp/out tpvreport     # Override via environment`,

	SilenceUsage: true,

	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(v, cfgFile)
		if err != nil {
			return err
		}
		if verbose {
			cfg.LogLevel = "debug"
		}

		_, err = runReport(cfg, newLogger(cfg))
		return err
	},
}

// =============================================================================
// EXECUTE FUNCTION
// =============================================================================

// Execute runs the root command. It is called by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		log.Error("run failed", "err", err)
		os.Exit(1)
	}
}

// newLogger builds the process logger for cfg.
func newLogger(cfg *config.Config) *log.Logger {
	return log.NewWithOptions(os.Stderr, log.Options{
		Prefix:          "tpvreport",
		ReportTimestamp: true,
		Level:           cfg.Level(),
	})
}

// =============================================================================
// INITIALIZATION
// =============================================================================

// init sets up the flags and binds them to the configuration keys.
func init() {
	// Errors are logged by Execute.
	rootCmd.SilenceErrors = true

	// ==========================================================================
	// PERSISTENT FLAGS
	// ==========================================================================

	rootCmd.PersistentFlags().StringVar(
		&cfgFile,
		"config",
		"",
		"Path to a YAML config file (default is ./tpvreport.yaml if present)",
	)

	rootCmd.PersistentFlags().BoolVarP(
		&verbose,
		"verbose",
		"v",
		false,
		"Enable verbose output for debugging",
	)

	// ==========================================================================
	// RUN FLAGS
	// ==========================================================================

	flags := rootCmd.Flags()
	flags.String("data-dir", config.DefaultDataDir, "Directory containing the .csv/.xlsx/.xls files")
	flags.String("report-dir", config.DefaultReportDir, "Directory the reports are written to")
	flags.String("encoding", config.DefaultEncoding, "Text encoding of the CSV files: IANA names and aliases (utf-8, latin1, cp850) or WHATWG labels (cp1252)")
	flags.Bool("manifest", true, "Write manifest.yaml next to the reports")

	for key, flag := range map[string]string{
		"data_dir":       "data-dir",
		"report_dir":     "report-dir",
		"encoding":       "encoding",
		"write_manifest": "manifest",
	} {
		if err := v.BindPFlag(key, flags.Lookup(flag)); err != nil {
			panic(err)
		}
	}
}
