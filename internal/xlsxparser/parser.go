// =============================================================================
// TPV Report - Workbook Parser Module
// =============================================================================
//
// This module reads the first sheet of a spreadsheet workbook into a raw
// table of strings, the same shape the CSV parser produces.
//
// SUPPORTED FORMATS:
//   - .xlsx (Office Open XML) via github.com/xuri/excelize/v2
//   - .xls  (BIFF8, Excel 97-2003) via github.com/extrame/xls
//
// CELL VALUES:
//   Cells are read raw: numbers are not run through their number format, so
//   "1.234,50" style display strings never reach the loader. Date cells in
//   .xlsx therefore arrive as serial day numbers; the table is flagged with
//   SerialDates so the loader converts them. The .xls reader renders numbers
//   stored with a built-in date format as "2006.01" (year and month only).
//
// SHEET LAYOUT:
//   Row 1 is the header. Any column wider than the header gets an
//   "Unnamed: N" name; short rows are padded with empty cells.
//
// =============================================================================

package xlsxparser

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/extrame/xls"
	"github.com/xuri/excelize/v2"

	"github.com/ginjaninja78/tpv-report/internal/types"
)

// Charset is handed to the .xls reader for pre-BIFF8 byte strings.
const Charset = "utf-8"

// =============================================================================
// PARSER FUNCTIONS
// =============================================================================

// Parse reads the first sheet of an .xlsx or .xls workbook.
//
// PARAMETERS:
//   - filePath: The path to the workbook. The extension selects the reader.
//
// RETURNS:
//   - The sheet as a table. A workbook with an empty first sheet yields a
//     table with no headers, which the loader reports as missing columns.
//   - An error if the workbook cannot be opened or read.
func Parse(filePath string) (*types.Table, error) {
	switch strings.ToLower(filepath.Ext(filePath)) {
	case ".xlsx":
		return ParseXLSX(filePath)
	case ".xls":
		return ParseXLS(filePath)
	default:
		return nil, fmt.Errorf("unsupported workbook extension: %s", filepath.Ext(filePath))
	}
}

// ParseXLSX reads the first sheet of an Office Open XML workbook.
func ParseXLSX(filePath string) (*types.Table, error) {
	f, err := excelize.OpenFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	sheetName := f.GetSheetName(0)
	if sheetName == "" {
		return nil, fmt.Errorf("workbook has no sheets")
	}

	rows, err := f.GetRows(sheetName, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("failed to read rows: %w", err)
	}

	table := buildTable(rows)
	table.SourceFile = filePath
	table.SerialDates = true

	if props, err := f.GetWorkbookProps(); err == nil && props.Date1904 != nil {
		table.Date1904 = *props.Date1904
	}

	return table, nil
}

// ParseXLS reads the first sheet of a legacy BIFF workbook.
//
// The xls reader panics on some malformed files; the panic is turned into an
// error so one bad file cannot abort the run.
func ParseXLS(filePath string) (table *types.Table, err error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer file.Close()

	defer func() {
		if r := recover(); r != nil {
			table = nil
			err = fmt.Errorf("failed to read workbook: %v", r)
		}
	}()

	workbook, err := xls.OpenReader(file, Charset)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}

	sheet := workbook.GetSheet(0)
	if sheet == nil {
		return nil, fmt.Errorf("workbook has no sheets")
	}

	// ReadAllCells walks the sheets in order and stops after max rows, so
	// asking for exactly this sheet's rows never reaches the second sheet.
	// Rows the sheet does not store come back as nil.
	var rows [][]string
	if sheet.MaxRow > 0 {
		rows = workbook.ReadAllCells(int(sheet.MaxRow) + 1)
	} else if header := firstRow(sheet); header != nil {
		rows = [][]string{header}
	}

	table = buildTable(trimTrailingEmpty(rows))
	table.SourceFile = filePath
	table.SerialDates = true

	return table, nil
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

// firstRow reads row 0 of a sheet that has at most one row. It returns nil
// for a sheet without rows, where the xls reader's Row panics.
func firstRow(sheet *xls.WorkSheet) (cells []string) {
	defer func() {
		if recover() != nil {
			cells = nil
		}
	}()

	row := sheet.Row(0)
	cells = make([]string, row.LastCol())
	for j := row.FirstCol(); j < row.LastCol(); j++ {
		cells[j] = row.Col(j)
	}
	return cells
}

// buildTable turns ragged sheet rows into a rectangular table.
func buildTable(rows [][]string) *types.Table {
	if len(rows) == 0 {
		return &types.Table{Headers: []string{}, Rows: [][]string{}}
	}

	width := 0
	for _, row := range rows {
		if len(row) > width {
			width = len(row)
		}
	}

	headers := make([]string, width)
	copy(headers, rows[0])
	for i, header := range headers {
		if strings.TrimSpace(header) == "" {
			headers[i] = fmt.Sprintf("Unnamed: %d", i)
		}
	}

	data := make([][]string, 0, len(rows)-1)
	for _, row := range rows[1:] {
		cells := make([]string, width)
		copy(cells, row)
		data = append(data, cells)
	}

	return &types.Table{Headers: headers, Rows: data}
}

// trimTrailingEmpty drops blank rows at the end of a sheet.
func trimTrailingEmpty(rows [][]string) [][]string {
	end := len(rows)
	for end > 0 && isRowEmpty(rows[end-1]) {
		end--
	}
	return rows[:end]
}

// isRowEmpty checks if a row contains only empty values.
func isRowEmpty(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
