// =============================================================================
// TPV Report - Loader Module
// =============================================================================
//
// This module builds the consolidated dataset for a run. It orchestrates the
// per-file pipeline, from discovery to typed records.
//
// LOADING PIPELINE (per file, in lexicographic order):
//   1. Dispatch on extension (.csv / .xlsx / .xls, case-insensitive)
//   2. Parse the file into a raw table
//   3. Normalize the header names (strip + title case)
//   4. Check the required columns (Cliente, Tpv, Markup)
//   5. Coerce Tpv / Markup to numbers and Data (if present) to dates
//   6. Append the rows to the dataset
//
// FAILURE POLICY:
//   A file that cannot be read, has the wrong extension or lacks a required
//   column is skipped as a whole and reported as a notice. Only two
//   conditions fail the load: the data directory cannot be read, or no file
//   at all could be loaded (ErrNoValidData).
//
// =============================================================================

package loader

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/ginjaninja78/tpv-report/internal/csvparser"
	"github.com/ginjaninja78/tpv-report/internal/types"
	"github.com/ginjaninja78/tpv-report/internal/validation"
	"github.com/ginjaninja78/tpv-report/internal/xlsxparser"
	"github.com/ginjaninja78/tpv-report/pkg/utils"
)

// ErrNoValidData is returned when no file in the data directory could be loaded.
var ErrNoValidData = errors.New("no valid data")

// =============================================================================
// LOADER STRUCTURE
// =============================================================================

// Options configures a Loader.
type Options struct {
	// Encoding is the text encoding for CSV files. Empty means UTF-8.
	Encoding string

	// Logger receives notices and progress. Nil discards everything.
	Logger *log.Logger
}

// Loader reads a data directory into a types.Dataset.
type Loader struct {
	encoding string
	logger   *log.Logger
}

// New creates a new Loader.
func New(opts Options) *Loader {
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}

	return &Loader{
		encoding: opts.Encoding,
		logger:   logger,
	}
}

// =============================================================================
// MAIN LOADING FUNCTION
// =============================================================================

// Load is shorthand for New(opts).Load(dir).
func Load(dir string, opts Options) (*types.Dataset, error) {
	return New(opts).Load(dir)
}

// Load reads every supported file in dir and concatenates the rows.
//
// PARAMETERS:
//   - dir: The data directory.
//
// RETURNS:
//   - The consolidated dataset, including the notices raised on the way.
//   - An error if dir cannot be read, or ErrNoValidData (wrapped) if no file
//     could be loaded.
func (l *Loader) Load(dir string) (*types.Dataset, error) {
	files, err := utils.NewFileManager(dir, "").DiscoverInputFiles()
	if err != nil {
		return nil, err
	}

	dataset := &types.Dataset{Records: []types.Record{}}

	for _, path := range files {
		name := filepath.Base(path)

		records, hasData, notice := l.loadFile(path)
		if notice != nil {
			dataset.Notices = append(dataset.Notices, *notice)
			continue
		}

		l.logger.Info("loaded file", "file", name, "rows", len(records))

		dataset.Records = append(dataset.Records, records...)
		dataset.Files = append(dataset.Files, types.FileStat{Name: name, Rows: len(records), HasData: hasData})
		dataset.HasData = dataset.HasData || hasData
	}

	if len(dataset.Files) == 0 {
		return nil, fmt.Errorf("%w: no readable file with columns %s found in %s",
			ErrNoValidData, strings.Join(types.RequiredColumns, ", "), dir)
	}

	return dataset, nil
}

// =============================================================================
// PER-FILE PIPELINE
// =============================================================================

// loadFile runs the pipeline for one file.
//
// RETURNS:
//   - The file's records in row order.
//   - Whether the file had a Data column.
//   - A notice if the file was skipped; records are nil in that case.
func (l *Loader) loadFile(path string) ([]types.Record, bool, *types.Notice) {
	name := filepath.Base(path)

	table, err := l.readTable(path)
	if errors.Is(err, errUnsupported) {
		return nil, false, l.notice(name, types.NoticeUnsupported, "unsupported file type, skipping", nil)
	}
	if err != nil {
		return nil, false, l.notice(name, types.NoticeParseFailed, "failed to read file", err)
	}

	headers := NormalizeHeaders(table.Headers)

	if err := validation.RequireColumns(headers, types.RequiredColumns); err != nil {
		return nil, false, l.notice(name, types.NoticeMissingColumns, "file skipped", err)
	}

	columns, duplicates := validation.Index(headers)
	if len(duplicates) > 0 {
		l.logger.Warn("duplicate columns after normalization, using the first of each",
			"file", name, "columns", duplicates)
	}

	return l.buildRecords(name, table, columns), columns.Has(types.ColumnData), nil
}

var errUnsupported = errors.New("unsupported file type")

// readTable dispatches on the file extension.
func (l *Loader) readTable(path string) (*types.Table, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		settings := csvparser.DefaultSettings()
		if l.encoding != "" {
			settings.Encoding = l.encoding
		}
		return csvparser.Parse(path, settings)
	case ".xlsx", ".xls":
		return xlsxparser.Parse(path)
	default:
		return nil, errUnsupported
	}
}

// buildRecords coerces the rows of a validated table.
//
// Rows without a customer are dropped: they cannot be grouped and would only
// show up in the monthly totals.
func (l *Loader) buildRecords(name string, table *types.Table, columns validation.ColumnIndex) []types.Record {
	clienteCol := columns[types.ColumnCliente]
	tpvCol := columns[types.ColumnTpv]
	markupCol := columns[types.ColumnMarkup]
	dataCol, hasData := columns[types.ColumnData]

	records := make([]types.Record, 0, len(table.Rows))
	var noCliente, badTpv, badMarkup, badData int
	// firstBad is the 1-based data row of the first record with a missing value.
	firstBad := 0

	for i, row := range table.Rows {
		cliente := row[clienteCol]
		if IsMissing(cliente) {
			noCliente++
			continue
		}

		record := types.Record{
			Cliente: cliente,
			Tpv:     ParseNumber(row[tpvCol]),
			Markup:  ParseNumber(row[markupCol]),
			Source:  name,
			Row:     i + 1,
		}
		if !record.Tpv.Valid {
			badTpv++
		}
		if !record.Markup.Valid {
			badMarkup++
		}

		if hasData {
			record.Data = ParseDate(row[dataCol], table.SerialDates, table.Date1904)
			if !record.Data.Valid {
				badData++
			}
		}

		missing := !record.Tpv.Valid || !record.Markup.Valid || (hasData && !record.Data.Valid)
		if firstBad == 0 && missing {
			firstBad = record.Row
		}

		records = append(records, record)
	}

	if noCliente+badTpv+badMarkup+badData > 0 {
		l.logger.Debug("coerced cells to missing",
			"file", name,
			"rows_without_cliente", noCliente,
			"tpv", badTpv,
			"markup", badMarkup,
			"data", badData,
			"first_row", firstBad,
		)
	}

	return records
}

// notice logs and returns a diagnostic for a skipped file.
func (l *Loader) notice(file string, kind types.NoticeKind, message string, cause error) *types.Notice {
	if cause != nil {
		message = fmt.Sprintf("%s: %v", message, cause)
	}
	l.logger.Warn(message, "file", file, "kind", kind)

	return &types.Notice{File: file, Kind: kind, Message: message}
}
