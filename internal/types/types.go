// =============================================================================
// TPV Report - Shared Types
// =============================================================================
//
// This package contains shared types used across multiple modules to avoid
// import cycles. Types defined here are used by:
//   - loader
//   - aggregator
//   - chartwriter
//   - cmd (report pipeline)
//
// MISSING VALUES:
//   Cells that cannot be coerced are carried as NullFloat / NullTime with
//   Valid == false. They are never stored as zero, so sums and means skip
//   them by construction.
//
// =============================================================================

package types

import "time"

// =============================================================================
// COLUMN NAMES
// =============================================================================

// Logical column names after header normalization.
const (
	ColumnCliente = "Cliente"
	ColumnTpv     = "Tpv"
	ColumnMarkup  = "Markup"
	ColumnData    = "Data"
)

// RequiredColumns are the columns every source file must carry.
var RequiredColumns = []string{ColumnCliente, ColumnTpv, ColumnMarkup}

// =============================================================================
// NULLABLE VALUES
// =============================================================================

// NullFloat is a float64 that may be missing.
type NullFloat struct {
	Float64 float64
	Valid   bool
}

// Float returns a valid NullFloat holding v.
func Float(v float64) NullFloat {
	return NullFloat{Float64: v, Valid: true}
}

// NullTime is a time.Time that may be missing.
type NullTime struct {
	Time  time.Time
	Valid bool
}

// Time returns a valid NullTime holding t.
func Time(t time.Time) NullTime {
	return NullTime{Time: t, Valid: true}
}

// =============================================================================
// RECORDS
// =============================================================================

// Record is one normalized row from one source file.
type Record struct {
	// Cliente is the customer identity exactly as it appeared in the cell.
	Cliente string

	// Tpv is the payment volume.
	Tpv NullFloat

	// Markup is the markup for the row.
	Markup NullFloat

	// Data is only set when the source file had a Data column.
	Data NullTime

	// Source is the base name of the file the row came from.
	Source string

	// Row is the 1-based data row number inside Source (header excluded).
	Row int
}

// Table is a raw sheet of strings read from one file: a header row plus data
// rows, each row exactly len(Headers) cells wide.
type Table struct {
	// Headers contains the column headers exactly as read (not normalized).
	Headers []string

	// Rows contains the data rows.
	Rows [][]string

	// SourceFile is the path the table was read from.
	SourceFile string

	// SerialDates is set by workbook readers: a purely numeric cell in a date
	// column is an Excel serial day number, not free text.
	SerialDates bool

	// Date1904 selects the 1904 date system for serial dates.
	Date1904 bool
}

// FileStat describes one file that made it into the dataset.
type FileStat struct {
	Name    string `yaml:"name"`
	Rows    int    `yaml:"rows"`
	HasData bool   `yaml:"has_data"`
}

// Dataset is the consolidated, ordered set of records for one run.
type Dataset struct {
	// Records holds every row in file order, then row order.
	Records []Record

	// HasData is true when at least one loaded file had a Data column.
	HasData bool

	// Files lists the files that were loaded, in load order.
	Files []FileStat

	// Notices are the per-file diagnostics raised while loading.
	Notices []Notice
}

// Len returns the number of records.
func (d *Dataset) Len() int {
	return len(d.Records)
}

// =============================================================================
// DIAGNOSTICS
// =============================================================================

// NoticeKind classifies a diagnostic raised by the loader.
type NoticeKind string

const (
	// NoticeUnsupported is raised for files with an unknown extension.
	NoticeUnsupported NoticeKind = "unsupported"

	// NoticeParseFailed is raised when a file cannot be read or parsed.
	NoticeParseFailed NoticeKind = "parse_failed"

	// NoticeMissingColumns is raised when a required column is absent.
	NoticeMissingColumns NoticeKind = "missing_columns"
)

// Notice is a non-fatal diagnostic about one file.
type Notice struct {
	File    string     `yaml:"file"`
	Kind    NoticeKind `yaml:"kind"`
	Message string     `yaml:"message"`
}

// =============================================================================
// AGGREGATES
// =============================================================================

// CustomerSummary holds the per-customer aggregate metrics.
type CustomerSummary struct {
	Cliente string

	// TpvTotal is the sum of the non-missing Tpv values (0 when none).
	TpvTotal float64

	// MarkupMedio is the mean of the non-missing Markup values.
	// Missing when the group has no Markup at all.
	MarkupMedio NullFloat

	// Registros counts every row in the group.
	Registros int
}

// MonthlyPoint is one bucket of the monthly time series.
type MonthlyPoint struct {
	// Month is the first day of the calendar month, at midnight UTC.
	Month time.Time

	TpvTotal    float64
	MarkupMedio NullFloat
	Registros   int
}
