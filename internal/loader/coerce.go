// =============================================================================
// TPV Report - Normalization and Coercion
// =============================================================================
//
// This module converts raw cell strings into typed values and normalizes
// header names so independently authored spreadsheets line up.
//
// HEADER NORMALIZATION:
//   strip surrounding whitespace, then title-case:
//     " cliente "  -> "Cliente"
//     "TPV"        -> "Tpv"
//     "tpv_total"  -> "Tpv_Total"
//     "data venda" -> "Data Venda"
//     "3d"         -> "3D"
//
// COERCION:
//   Numbers and dates that cannot be read become missing values. Coercion
//   never fails a file.
//
// =============================================================================

package loader

import (
	"errors"
	"math"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/araddon/dateparse"
	"github.com/xuri/excelize/v2"

	"github.com/ginjaninja78/tpv-report/internal/types"
)

// missingTokens are cell values that read as "no value" in any column.
// These follow the usual spreadsheet/dataframe conventions.
var missingTokens = map[string]struct{}{
	"":         {},
	"#N/A":     {},
	"#N/A N/A": {},
	"#NA":      {},
	"-1.#IND":  {},
	"-1.#QNAN": {},
	"-NaN":     {},
	"-nan":     {},
	"1.#IND":   {},
	"1.#QNAN":  {},
	"<NA>":     {},
	"N/A":      {},
	"NA":       {},
	"NULL":     {},
	"NaN":      {},
	"None":     {},
	"n/a":      {},
	"nan":      {},
	"null":     {},
}

// xlsMonthLayout is how the .xls reader renders cells with a built-in date
// format.
const xlsMonthLayout = "2006.01"

// =============================================================================
// HEADERS
// =============================================================================

// NormalizeHeader strips surrounding whitespace and title-cases the name.
func NormalizeHeader(header string) string {
	return TitleCase(strings.TrimSpace(header))
}

// NormalizeHeaders applies NormalizeHeader to every header.
func NormalizeHeaders(headers []string) []string {
	normalized := make([]string, len(headers))
	for i, header := range headers {
		normalized[i] = NormalizeHeader(header)
	}
	return normalized
}

// TitleCase upper-cases the first cased letter of every word and lower-cases
// the rest. A word starts after any character that is not a cased letter, so
// digits, underscores and apostrophes all start a new word.
func TitleCase(s string) string {
	var b strings.Builder
	b.Grow(len(s))

	previousCased := false
	for _, r := range s {
		switch {
		case isCased(r) && previousCased:
			b.WriteRune(unicode.ToLower(r))
		case isCased(r):
			b.WriteRune(unicode.ToTitle(r))
		default:
			b.WriteRune(r)
		}
		previousCased = isCased(r)
	}

	return b.String()
}

// isCased reports whether r has case.
func isCased(r rune) bool {
	return unicode.IsUpper(r) || unicode.IsLower(r) || unicode.IsTitle(r)
}

// =============================================================================
// VALUES
// =============================================================================

// IsMissing reports whether a raw cell holds no value.
func IsMissing(cell string) bool {
	_, ok := missingTokens[cell]
	return ok
}

// ParseNumber coerces a cell to a number.
//
// EXAMPLES:
//   "100"    -> 100
//   " 1.5 "  -> 1.5
//   "1e3"    -> 1000
//   "1e400"  -> +Inf
//   "1,5"    -> missing
//   "0x1p4"  -> missing
//   "abc"    -> missing
//   "NaN"    -> missing
func ParseNumber(cell string) types.NullFloat {
	cell = strings.TrimSpace(cell)
	if IsMissing(cell) || isHexLiteral(cell) {
		return types.NullFloat{}
	}

	value, err := strconv.ParseFloat(cell, 64)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return types.NullFloat{}
	}
	if math.IsNaN(value) {
		return types.NullFloat{}
	}

	return types.Float(value)
}

// isHexLiteral reports whether s is a Go hex literal such as "0x1p4".
func isHexLiteral(s string) bool {
	s = strings.TrimLeft(s, "+-")
	return len(s) > 1 && s[0] == '0' && (s[1] == 'x' || s[1] == 'X')
}

// ParseDate coerces a cell to a date.
//
// PARAMETERS:
//   - cell: The raw cell value.
//   - serial: When true, purely numeric cells are Excel serial day numbers,
//     and "2024.03" is a month as rendered by the .xls reader.
//   - date1904: Selects the 1904 date system for serial numbers.
//
// FORMATS:
//   Anything github.com/araddon/dateparse recognizes: ISO 8601, RFC 3339,
//   "2024/01/05", "01/05/2024" (month first), "Jan 5, 2024", and more.
//   Strings without a zone are read as UTC.
func ParseDate(cell string, serial, date1904 bool) types.NullTime {
	cell = strings.TrimSpace(cell)
	if IsMissing(cell) {
		return types.NullTime{}
	}

	if serial {
		if t, err := time.Parse(xlsMonthLayout, cell); err == nil {
			return types.Time(t)
		}
		if days, err := strconv.ParseFloat(cell, 64); err == nil {
			t, err := excelize.ExcelDateToTime(days, date1904)
			if err != nil {
				return types.NullTime{}
			}
			return types.Time(t)
		}
	}

	t, err := dateparse.ParseIn(cell, time.UTC)
	if err != nil {
		return types.NullTime{}
	}

	return types.Time(t)
}
