package cmd

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/ginjaninja78/tpv-report/internal/chartwriter"
	"github.com/ginjaninja78/tpv-report/internal/config"
	"github.com/ginjaninja78/tpv-report/internal/loader"
	"github.com/ginjaninja78/tpv-report/internal/types"
	"github.com/ginjaninja78/tpv-report/pkg/utils"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{
		DataDir:       t.TempDir(),
		ReportDir:     filepath.Join(t.TempDir(), "out", "reports"),
		Encoding:      config.DefaultEncoding,
		LogLevel:      config.DefaultLogLevel,
		WriteManifest: true,
		WriteWorkbook: true,
		Chart:         config.ChartSettings{Width: "900px", Height: "500px"},
	}
}

func writeData(t *testing.T, cfg *config.Config, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(cfg.DataDir, name), []byte(content), 0o644))
}

func quietLogger() *log.Logger {
	return log.New(io.Discard)
}

func TestRunReportAcmeGlobex(t *testing.T) {
	cfg := testConfig(t)
	writeData(t, cfg, "vendas.csv", "Cliente,Tpv,Markup\nAcme,100,10\nGlobex,50,20\nAcme,200,30\n")

	result, err := runReport(cfg, quietLogger())
	require.NoError(t, err)

	assert.Equal(t, []types.CustomerSummary{
		{Cliente: "Acme", TpvTotal: 300, MarkupMedio: types.Float(20), Registros: 2},
		{Cliente: "Globex", TpvTotal: 50, MarkupMedio: types.Float(20), Registros: 1},
	}, result.Summaries)
	assert.Nil(t, result.Monthly)

	for _, name := range []string{
		chartwriter.TpvByCustomerFile,
		chartwriter.MarkupByCustomerFile,
		chartwriter.SummaryWorkbookFile,
		utils.ManifestFileName,
	} {
		assert.FileExists(t, filepath.Join(cfg.ReportDir, name))
	}
	assert.NoFileExists(t, filepath.Join(cfg.ReportDir, chartwriter.TpvOverTimeFile))
	assert.NoFileExists(t, filepath.Join(cfg.ReportDir, chartwriter.MarkupOverTimeFile))
}

func TestRunReportWithDates(t *testing.T) {
	cfg := testConfig(t)
	writeData(t, cfg, "vendas.csv", "Cliente,Tpv,Markup,Data\nAcme,10,1,2024-01-05\nGlobex,20,3,2024-01-28\nAcme,5,2,2024-02-10\n")

	result, err := runReport(cfg, quietLogger())
	require.NoError(t, err)

	require.Len(t, result.Monthly, 2)
	assert.Equal(t, 30.0, result.Monthly[0].TpvTotal)
	assert.FileExists(t, filepath.Join(cfg.ReportDir, chartwriter.TpvOverTimeFile))
	assert.FileExists(t, filepath.Join(cfg.ReportDir, chartwriter.MarkupOverTimeFile))
}

func TestRunReportSkipsUnsupportedFiles(t *testing.T) {
	cfg := testConfig(t)
	writeData(t, cfg, "leia.txt", "Cliente,Tpv,Markup\nIgnorado,1,1\n")
	writeData(t, cfg, "vendas.csv", "Cliente,Tpv,Markup\nAcme,1,1\n")

	result, err := runReport(cfg, quietLogger())
	require.NoError(t, err)

	require.Len(t, result.Summaries, 1)
	assert.Equal(t, "Acme", result.Summaries[0].Cliente)

	data, err := os.ReadFile(result.Manifest)
	require.NoError(t, err)

	var manifest utils.RunManifest
	require.NoError(t, yaml.Unmarshal(data, &manifest))
	assert.Equal(t, 1, manifest.TotalRows)
	require.Len(t, manifest.Notices, 1)
	assert.Equal(t, "leia.txt", manifest.Notices[0].File)
	assert.Contains(t, manifest.Reports, chartwriter.TpvByCustomerFile)
}

func TestRunReportNoValidData(t *testing.T) {
	cfg := testConfig(t)

	_, err := runReport(cfg, quietLogger())
	require.ErrorIs(t, err, loader.ErrNoValidData)
	assert.Contains(t, err.Error(), "no valid data")

	// No report is written, not even the directory.
	assert.NoDirExists(t, cfg.ReportDir)
}

func TestRunReportOptionalOutputs(t *testing.T) {
	cfg := testConfig(t)
	cfg.WriteManifest = false
	cfg.WriteWorkbook = false
	writeData(t, cfg, "vendas.csv", "Cliente,Tpv,Markup\nAcme,1,1\n")

	result, err := runReport(cfg, quietLogger())
	require.NoError(t, err)

	assert.Empty(t, result.Manifest)
	assert.Len(t, result.Reports, 2)
	assert.NoFileExists(t, filepath.Join(cfg.ReportDir, utils.ManifestFileName))
	assert.NoFileExists(t, filepath.Join(cfg.ReportDir, chartwriter.SummaryWorkbookFile))
}
