package chartwriter

import (
	"fmt"
	"math"

	"github.com/xuri/excelize/v2"

	"github.com/ginjaninja78/tpv-report/internal/types"
)

// SummaryWorkbookFile is the per-customer summary exported next to the charts.
const SummaryWorkbookFile = "resumo_por_cliente.xlsx"

// summarySheet is the name of the single sheet in the summary workbook.
const summarySheet = "Resumo"

// SummaryHeaders are the column headers of the summary workbook.
var SummaryHeaders = []string{"Cliente", "Tpv_Total", "Markup_Medio", "Registros"}

// WriteSummaryWorkbook exports the per-customer summary as an .xlsx file.
//
// Rows keep the order of summaries. A missing MarkupMedio is left as an empty
// cell; infinite values are written as the text "inf" / "-inf".
//
// RETURNS:
//   - The path to the workbook.
//   - An error if the workbook cannot be built or saved.
func (w *Writer) WriteSummaryWorkbook(summaries []types.CustomerSummary) (string, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), summarySheet); err != nil {
		return "", fmt.Errorf("failed to name sheet: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return "", fmt.Errorf("failed to create header style: %w", err)
	}

	header := make([]interface{}, len(SummaryHeaders))
	for i, h := range SummaryHeaders {
		header[i] = h
	}
	if err := f.SetSheetRow(summarySheet, "A1", &header); err != nil {
		return "", fmt.Errorf("failed to write header: %w", err)
	}
	if err := f.SetRowStyle(summarySheet, 1, 1, headerStyle); err != nil {
		return "", fmt.Errorf("failed to style header: %w", err)
	}

	for i, s := range summaries {
		var markup interface{}
		if s.MarkupMedio.Valid {
			markup = cellValue(s.MarkupMedio.Float64)
		}

		row := []interface{}{s.Cliente, cellValue(s.TpvTotal), markup, s.Registros}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return "", err
		}
		if err := f.SetSheetRow(summarySheet, cell, &row); err != nil {
			return "", fmt.Errorf("failed to write row for %s: %w", s.Cliente, err)
		}
	}

	if err := f.SetColWidth(summarySheet, "A", "A", 30); err != nil {
		return "", fmt.Errorf("failed to size columns: %w", err)
	}

	path := w.fm.ReportPath(SummaryWorkbookFile)
	if err := f.SaveAs(path); err != nil {
		return "", fmt.Errorf("failed to save workbook: %w", err)
	}

	return path, nil
}

// cellValue returns v, or its text form when the cell cannot hold it.
func cellValue(v float64) interface{} {
	switch {
	case math.IsInf(v, 1):
		return "inf"
	case math.IsInf(v, -1):
		return "-inf"
	case math.IsNaN(v):
		return nil
	}
	return v
}
