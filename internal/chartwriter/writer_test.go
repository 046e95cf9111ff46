package chartwriter

import (
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/ginjaninja78/tpv-report/internal/types"
	"github.com/ginjaninja78/tpv-report/pkg/utils"
)

func newWriter(t *testing.T) *Writer {
	t.Helper()
	fm := utils.NewFileManager("", t.TempDir())
	return New(fm, DefaultOptions())
}

var summaries = []types.CustomerSummary{
	{Cliente: "Acme", TpvTotal: 300, MarkupMedio: types.Float(20), Registros: 2},
	{Cliente: "Globex", TpvTotal: 50, MarkupMedio: types.Float(25), Registros: 1},
	{Cliente: "Initech", TpvTotal: 75, Registros: 1},
}

func TestWriteCustomerCharts(t *testing.T) {
	w := newWriter(t)

	paths, err := w.WriteCustomerCharts(summaries)
	require.NoError(t, err)
	require.Len(t, paths, 2)
	assert.Equal(t, TpvByCustomerFile, filepath.Base(paths[0]))
	assert.Equal(t, MarkupByCustomerFile, filepath.Base(paths[1]))

	html, err := os.ReadFile(paths[0])
	require.NoError(t, err)
	assert.Contains(t, string(html), "TPV total por cliente")
	assert.Contains(t, string(html), "Globex")
}

func TestWriteCustomerChartsOverwrites(t *testing.T) {
	w := newWriter(t)
	path := w.fm.ReportPath(TpvByCustomerFile)
	require.NoError(t, os.WriteFile(path, []byte("stale"), 0o644))

	_, err := w.WriteCustomerCharts(summaries)
	require.NoError(t, err)

	html, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(html), "stale")
}

func TestWriteMonthlyCharts(t *testing.T) {
	w := newWriter(t)
	points := []types.MonthlyPoint{
		{Month: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), TpvTotal: 30, MarkupMedio: types.Float(2), Registros: 2},
		{Month: time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC), TpvTotal: 5, Registros: 1},
	}

	paths, err := w.WriteMonthlyCharts(points)
	require.NoError(t, err)
	require.Len(t, paths, 2)
	assert.Equal(t, TpvOverTimeFile, filepath.Base(paths[0]))
	assert.Equal(t, MarkupOverTimeFile, filepath.Base(paths[1]))

	html, err := os.ReadFile(paths[0])
	require.NoError(t, err)
	assert.Contains(t, string(html), "2024-02")
}

func TestWriteMonthlyChartsEmpty(t *testing.T) {
	w := newWriter(t)

	paths, err := w.WriteMonthlyCharts(nil)
	require.NoError(t, err)
	assert.Empty(t, paths)
	assert.NoFileExists(t, w.fm.ReportPath(TpvOverTimeFile))
}

func TestWriteChartsMissingReportDir(t *testing.T) {
	fm := utils.NewFileManager("", filepath.Join(t.TempDir(), "nao-existe"))

	_, err := New(fm, DefaultOptions()).WriteCustomerCharts(summaries)
	assert.ErrorContains(t, err, "failed to create report")
}

func TestSeriesData(t *testing.T) {
	assert.Equal(t, []opts.BarData{{Value: 20.0}, {Value: 25.0}, {Value: "-"}}, markupBarData(summaries))
	assert.Equal(t, []opts.BarData{{Value: 300.0}, {Value: 50.0}, {Value: 75.0}}, tpvBarData(summaries))
	assert.Equal(t, []string{"Acme", "Globex", "Initech"}, customerNames(summaries))

	points := []types.MonthlyPoint{{Month: time.Date(2023, 12, 1, 0, 0, 0, 0, time.UTC)}}
	assert.Equal(t, []string{"2023-12"}, monthLabels(points))
	assert.Equal(t, []opts.LineData{{Value: "-"}}, markupLineData(points))
}

func TestInfiniteValues(t *testing.T) {
	huge := []types.CustomerSummary{
		{Cliente: "Acme", TpvTotal: math.Inf(1), MarkupMedio: types.Float(math.Inf(-1)), Registros: 1},
		{Cliente: "Globex", TpvTotal: 10, MarkupMedio: types.Float(math.NaN()), Registros: 1},
	}

	assert.Equal(t, []opts.BarData{{Value: "-"}, {Value: 10.0}}, tpvBarData(huge))
	assert.Equal(t, []opts.BarData{{Value: "-"}, {Value: "-"}}, markupBarData(huge))

	w := newWriter(t)
	_, err := w.WriteCustomerCharts(huge)
	require.NoError(t, err)

	path, err := w.WriteSummaryWorkbook(huge)
	require.NoError(t, err)

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(summarySheet)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"Acme", "inf", "-inf", "1"}, rows[1])

	markup, err := f.GetCellValue(summarySheet, "C3")
	require.NoError(t, err)
	assert.Empty(t, markup)
}

func TestWriteSummaryWorkbook(t *testing.T) {
	w := newWriter(t)

	path, err := w.WriteSummaryWorkbook(summaries)
	require.NoError(t, err)
	assert.Equal(t, SummaryWorkbookFile, filepath.Base(path))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(summarySheet)
	require.NoError(t, err)
	require.Len(t, rows, 4)
	assert.Equal(t, SummaryHeaders, rows[0])
	assert.Equal(t, []string{"Acme", "300", "20", "2"}, rows[1])
	assert.Equal(t, "Initech", rows[3][0])

	markup, err := f.GetCellValue(summarySheet, "C4")
	require.NoError(t, err)
	assert.Empty(t, markup)
}
