// =============================================================================
// TPV Report - Chart Writer Module
// =============================================================================
//
// This module renders the aggregated views as standalone HTML chart pages
// using github.com/go-echarts/go-echarts/v2.
//
// REPORT FILES:
//   tpv_por_cliente.html           bar, TpvTotal per customer, largest first
//   markup_por_cliente.html        bar, MarkupMedio per customer, largest first
//   tpv_ao_longo_do_tempo.html     line, TpvTotal per month (dated data only)
//   markup_ao_longo_do_tempo.html  line, MarkupMedio per month (dated data only)
//
// Existing files are overwritten. Missing means and infinite values are
// drawn as gaps.
//
// =============================================================================

package chartwriter

import (
	"fmt"
	"io"
	"math"
	"os"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/ginjaninja78/tpv-report/internal/aggregator"
	"github.com/ginjaninja78/tpv-report/internal/types"
	"github.com/ginjaninja78/tpv-report/pkg/utils"
)

// Report file names.
const (
	TpvByCustomerFile    = "tpv_por_cliente.html"
	MarkupByCustomerFile = "markup_por_cliente.html"
	TpvOverTimeFile      = "tpv_ao_longo_do_tempo.html"
	MarkupOverTimeFile   = "markup_ao_longo_do_tempo.html"
)

// Chart titles and axis labels.
const (
	titleTpvByCustomer    = "TPV total por cliente"
	titleMarkupByCustomer = "Markup médio por cliente"
	titleTpvOverTime      = "Evolução do TPV ao longo do tempo"
	titleMarkupOverTime   = "Evolução do markup médio ao longo do tempo"

	labelCliente = "Cliente"
	labelTpv     = "TPV Total"
	labelMarkup  = "Markup médio"
	labelData    = "Data"
)

// missingValue is the ECharts placeholder for a gap in a series.
const missingValue = "-"

// monthLayout formats the x-axis labels of the time series.
const monthLayout = "2006-01"

// =============================================================================
// WRITER
// =============================================================================

// Options controls the chart page layout.
type Options struct {
	// Width and Height are CSS sizes of the chart canvas, e.g. "1100px".
	Width  string
	Height string

	// AssetsHost overrides where the ECharts script is loaded from.
	// Empty means the go-echarts default CDN.
	AssetsHost string
}

// DefaultOptions returns the default chart layout.
func DefaultOptions() Options {
	return Options{
		Width:  "1100px",
		Height: "550px",
	}
}

// Writer writes report files into the report directory of a FileManager.
type Writer struct {
	fm      *utils.FileManager
	options Options
}

// New creates a new Writer.
func New(fm *utils.FileManager, options Options) *Writer {
	return &Writer{fm: fm, options: options}
}

// WriteCustomerCharts writes the two per-customer bar charts.
//
// RETURNS:
//   - The paths written, in a fixed order.
//   - An error if a file cannot be written.
func (w *Writer) WriteCustomerCharts(summaries []types.CustomerSummary) ([]string, error) {
	byTpv := aggregator.SortByTpvTotal(summaries)
	byMarkup := aggregator.SortByMarkupMedio(summaries)

	pages := []struct {
		name  string
		chart *charts.Bar
	}{
		{TpvByCustomerFile, w.customerBar(titleTpvByCustomer, labelTpv, customerNames(byTpv), tpvBarData(byTpv))},
		{MarkupByCustomerFile, w.customerBar(titleMarkupByCustomer, labelMarkup, customerNames(byMarkup), markupBarData(byMarkup))},
	}

	var written []string
	for _, page := range pages {
		path, err := w.render(page.name, page.chart)
		if err != nil {
			return written, err
		}
		written = append(written, path)
	}

	return written, nil
}

// WriteMonthlyCharts writes the two time series line charts. Nothing is
// written when points is empty.
func (w *Writer) WriteMonthlyCharts(points []types.MonthlyPoint) ([]string, error) {
	if len(points) == 0 {
		return nil, nil
	}

	months := monthLabels(points)
	pages := []struct {
		name  string
		chart *charts.Line
	}{
		{TpvOverTimeFile, w.monthlyLine(titleTpvOverTime, labelTpv, months, tpvLineData(points))},
		{MarkupOverTimeFile, w.monthlyLine(titleMarkupOverTime, labelMarkup, months, markupLineData(points))},
	}

	var written []string
	for _, page := range pages {
		path, err := w.render(page.name, page.chart)
		if err != nil {
			return written, err
		}
		written = append(written, path)
	}

	return written, nil
}

// =============================================================================
// CHART CONSTRUCTION
// =============================================================================

func (w *Writer) initOptions(title string) opts.Initialization {
	return opts.Initialization{
		PageTitle:  title,
		Width:      w.options.Width,
		Height:     w.options.Height,
		AssetsHost: w.options.AssetsHost,
	}
}

func (w *Writer) customerBar(title, yName string, xs []string, data []opts.BarData) *charts.Bar {
	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(w.initOptions(title)),
		charts.WithTitleOpts(opts.Title{Title: title}),
		charts.WithXAxisOpts(opts.XAxis{
			Name:      labelCliente,
			AxisLabel: &opts.AxisLabel{Rotate: 45, Interval: "0"},
		}),
		charts.WithYAxisOpts(opts.YAxis{Name: yName}),
	)
	bar.SetXAxis(xs).AddSeries(yName, data)
	return bar
}

func (w *Writer) monthlyLine(title, yName string, xs []string, data []opts.LineData) *charts.Line {
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(w.initOptions(title)),
		charts.WithTitleOpts(opts.Title{Title: title}),
		charts.WithXAxisOpts(opts.XAxis{
			Name:      labelData,
			AxisLabel: &opts.AxisLabel{Rotate: 45},
		}),
		charts.WithYAxisOpts(opts.YAxis{Name: yName}),
	)
	line.SetXAxis(xs).AddSeries(yName, data)
	return line
}

// renderer is implemented by every go-echarts chart.
type renderer interface {
	Render(w io.Writer) error
}

// render writes one chart page, replacing any existing file.
func (w *Writer) render(name string, chart renderer) (string, error) {
	path := w.fm.ReportPath(name)

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create report %s: %w", name, err)
	}

	if err := chart.Render(f); err != nil {
		f.Close()
		return "", fmt.Errorf("failed to render report %s: %w", name, err)
	}

	if err := f.Close(); err != nil {
		return "", fmt.Errorf("failed to write report %s: %w", name, err)
	}

	return path, nil
}

// =============================================================================
// SERIES DATA
// =============================================================================

func customerNames(summaries []types.CustomerSummary) []string {
	names := make([]string, len(summaries))
	for i, s := range summaries {
		names[i] = s.Cliente
	}
	return names
}

func monthLabels(points []types.MonthlyPoint) []string {
	labels := make([]string, len(points))
	for i, p := range points {
		labels[i] = p.Month.Format(monthLayout)
	}
	return labels
}

// seriesValue returns the value to plot, or the gap placeholder.
func seriesValue(v types.NullFloat) interface{} {
	if !v.Valid {
		return missingValue
	}
	return chartValue(v.Float64)
}

// chartValue drops values ECharts cannot carry: JSON has no Inf.
func chartValue(v float64) interface{} {
	if math.IsInf(v, 0) || math.IsNaN(v) {
		return missingValue
	}
	return v
}

func tpvBarData(summaries []types.CustomerSummary) []opts.BarData {
	data := make([]opts.BarData, len(summaries))
	for i, s := range summaries {
		data[i] = opts.BarData{Value: chartValue(s.TpvTotal)}
	}
	return data
}

func markupBarData(summaries []types.CustomerSummary) []opts.BarData {
	data := make([]opts.BarData, len(summaries))
	for i, s := range summaries {
		data[i] = opts.BarData{Value: seriesValue(s.MarkupMedio)}
	}
	return data
}

func tpvLineData(points []types.MonthlyPoint) []opts.LineData {
	data := make([]opts.LineData, len(points))
	for i, p := range points {
		data[i] = opts.LineData{Value: chartValue(p.TpvTotal)}
	}
	return data
}

func markupLineData(points []types.MonthlyPoint) []opts.LineData {
	data := make([]opts.LineData, len(points))
	for i, p := range points {
		data[i] = opts.LineData{Value: seriesValue(p.MarkupMedio)}
	}
	return data
}
