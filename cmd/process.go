// =============================================================================
// TPV Report - Report Pipeline
// =============================================================================
//
// This file runs one report: the whole pipeline behind the root command.
//
// PROCESSING PIPELINE:
//   1. Load and consolidate every spreadsheet in the data directory
//   2. Summarize per customer, log the first rows of the summary
//   3. Build the monthly series (when the data is dated)
//   4. Create the report directory
//   5. Write the charts, the summary workbook and the run manifest
//
// Nothing is written when loading fails.
//
// =============================================================================

package cmd

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"

	"github.com/ginjaninja78/tpv-report/internal/aggregator"
	"github.com/ginjaninja78/tpv-report/internal/chartwriter"
	"github.com/ginjaninja78/tpv-report/internal/config"
	"github.com/ginjaninja78/tpv-report/internal/loader"
	"github.com/ginjaninja78/tpv-report/internal/types"
	"github.com/ginjaninja78/tpv-report/pkg/utils"
)

// summaryPreviewRows is how many summary rows are logged after aggregation.
const summaryPreviewRows = 5

// =============================================================================
// RUN RESULT
// =============================================================================

// RunResult describes the outcome of one report run.
type RunResult struct {
	Dataset   *types.Dataset
	Summaries []types.CustomerSummary
	Monthly   []types.MonthlyPoint

	// Reports lists every file written, in write order.
	Reports []string

	// Manifest is the manifest path, empty when disabled.
	Manifest string
}

// =============================================================================
// MAIN PIPELINE FUNCTION
// =============================================================================

// runReport builds all reports for cfg.
//
// PARAMETERS:
//   - cfg: The validated run configuration.
//   - logger: Receives progress and per-file warnings.
//
// RETURNS:
//   - The run result.
//   - An error if loading fails or a report cannot be written.
func runReport(cfg *config.Config, logger *log.Logger) (*RunResult, error) {
	start := time.Now()
	fm := utils.NewFileManager(cfg.DataDir, cfg.ReportDir)

	logger.Info("reading spreadsheets", "dir", cfg.DataDir)

	// ==========================================================================
	// STEP 1: LOAD
	// ==========================================================================
	ds, err := loader.Load(cfg.DataDir, loader.Options{
		Encoding: cfg.Encoding,
		Logger:   logger,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load data: %w", err)
	}

	logger.Info("dataset consolidated",
		"files", len(ds.Files),
		"skipped", len(ds.Notices),
		"rows", ds.Len(),
	)

	// ==========================================================================
	// STEP 2-3: AGGREGATE
	// ==========================================================================
	result := &RunResult{
		Dataset:   ds,
		Summaries: aggregator.Summarize(ds),
		Monthly:   aggregator.Monthly(ds),
	}

	logSummaryPreview(logger, result.Summaries)

	if result.Monthly == nil {
		logger.Info("no dated rows, skipping the time series charts")
	}

	// ==========================================================================
	// STEP 4-5: WRITE
	// ==========================================================================
	if err := fm.EnsureReportDir(); err != nil {
		return nil, err
	}

	writer := chartwriter.New(fm, chartwriter.Options{
		Width:      cfg.Chart.Width,
		Height:     cfg.Chart.Height,
		AssetsHost: cfg.Chart.AssetsHost,
	})

	paths, err := writer.WriteCustomerCharts(result.Summaries)
	result.Reports = append(result.Reports, paths...)
	if err != nil {
		return result, err
	}

	paths, err = writer.WriteMonthlyCharts(result.Monthly)
	result.Reports = append(result.Reports, paths...)
	if err != nil {
		return result, err
	}

	if cfg.WriteWorkbook {
		path, err := writer.WriteSummaryWorkbook(result.Summaries)
		if err != nil {
			return result, err
		}
		result.Reports = append(result.Reports, path)
	}

	for _, path := range result.Reports {
		logger.Info("report written", "path", path)
	}

	if cfg.WriteManifest {
		path, err := writeManifest(fm, start, result)
		if err != nil {
			return result, err
		}
		result.Manifest = path
		logger.Debug("manifest written", "path", path)
	}

	logger.Info("processing complete",
		"customers", len(result.Summaries),
		"months", len(result.Monthly),
		"duration", time.Since(start).Round(time.Millisecond),
	)

	return result, nil
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

// logSummaryPreview logs the first summary rows.
func logSummaryPreview(logger *log.Logger, summaries []types.CustomerSummary) {
	n := min(len(summaries), summaryPreviewRows)

	logger.Info("summary by customer", "customers", len(summaries), "showing", n)
	for _, s := range summaries[:n] {
		markup := "-"
		if s.MarkupMedio.Valid {
			markup = fmt.Sprintf("%.4f", s.MarkupMedio.Float64)
		}
		logger.Info("customer",
			"cliente", s.Cliente,
			"tpv_total", s.TpvTotal,
			"markup_medio", markup,
			"registros", s.Registros,
		)
	}
}

// writeManifest records the run in the report directory.
func writeManifest(fm *utils.FileManager, start time.Time, result *RunResult) (string, error) {
	manifest := fm.NewRunManifest(start)
	manifest.TotalRows = result.Dataset.Len()
	manifest.Customers = len(result.Summaries)
	manifest.Months = len(result.Monthly)
	manifest.Files = result.Dataset.Files
	manifest.Notices = result.Dataset.Notices

	for _, path := range result.Reports {
		manifest.Reports = append(manifest.Reports, filepath.Base(path))
	}

	manifest.EndTime = time.Now()
	return fm.WriteManifest(manifest)
}
