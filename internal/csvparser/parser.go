// =============================================================================
// TPV Report - CSV Parser Module
// =============================================================================
//
// This module is responsible for parsing delimited text files into a raw
// table of strings. It handles:
//   - Text encodings other than UTF-8 (latin1, windows-1252, ...)
//   - A leading byte order mark
//   - Rows shorter than the header (padded with empty cells)
//   - Rows longer than the header (the whole file is rejected)
//
// The parser does not interpret values. Header normalization and type
// coercion happen in the loader so CSV and workbook files share one path.
//
// =============================================================================

package csvparser

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/ginjaninja78/tpv-report/internal/types"
)

// =============================================================================
// SETTINGS
// =============================================================================

// Settings controls how a file is decoded and split.
type Settings struct {
	// Encoding is a WHATWG encoding label. Empty means UTF-8.
	Encoding string

	// Delimiter is the field separator. Zero means comma.
	Delimiter rune
}

// DefaultSettings returns comma-separated UTF-8.
func DefaultSettings() Settings {
	return Settings{Encoding: "utf-8", Delimiter: ','}
}

// =============================================================================
// ERRORS
// =============================================================================

// ErrEmptyFile is returned when a file has no header row.
var ErrEmptyFile = errors.New("no columns to parse from file")

// FieldCountError is returned when a data row has more fields than the header.
type FieldCountError struct {
	Line     int
	Expected int
	Got      int
}

// Error implements the error interface.
func (e *FieldCountError) Error() string {
	return fmt.Sprintf("expected %d fields in line %d, saw %d", e.Expected, e.Line, e.Got)
}

// =============================================================================
// PARSER FUNCTIONS
// =============================================================================

// Parse reads a delimited text file and returns the parsed table.
//
// PARAMETERS:
//   - filePath: The path to the file.
//   - settings: Encoding and delimiter.
//
// RETURNS:
//   - The parsed table.
//   - An error if the file cannot be opened, decoded or split.
func Parse(filePath string, settings Settings) (*types.Table, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}

	table, err := ParseBytes(data, settings)
	if err != nil {
		return nil, err
	}

	table.SourceFile = filePath
	return table, nil
}

// ParseBytes parses an in-memory file.
func ParseBytes(data []byte, settings Settings) (*types.Table, error) {
	reader, err := decode(data, settings.Encoding)
	if err != nil {
		return nil, err
	}

	csvReader := csv.NewReader(reader)
	configureReader(csvReader, settings)

	headers, err := csvReader.Read()
	if err == io.EOF {
		return nil, ErrEmptyFile
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	table := &types.Table{
		Headers: cleanHeaders(headers),
		Rows:    [][]string{},
	}

	for {
		record, err := csvReader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read CSV: %w", err)
		}

		if len(record) > len(table.Headers) {
			line, _ := csvReader.FieldPos(0)
			return nil, &FieldCountError{Line: line, Expected: len(table.Headers), Got: len(record)}
		}

		// Short rows are padded so every row lines up with the header.
		if len(record) < len(table.Headers) {
			padded := make([]string, len(table.Headers))
			copy(padded, record)
			record = padded
		}

		table.Rows = append(table.Rows, record)
	}

	return table, nil
}

// decode returns a reader producing UTF-8 text.
//
// ENCODING HANDLING:
//   UTF-8 input is validated up front, so a latin1 file read as UTF-8 fails
//   loudly instead of producing replacement characters. Other encodings are
//   transcoded with golang.org/x/text. A byte order mark always wins over the
//   configured encoding.
func decode(data []byte, label string) (io.Reader, error) {
	enc, err := LookupEncoding(label)
	if err != nil {
		return nil, err
	}

	if isUTF8(enc) {
		data = bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))
		if !utf8.Valid(data) {
			return nil, fmt.Errorf("'utf-8' codec can't decode byte at offset %d: invalid UTF-8", invalidOffset(data))
		}
		return bytes.NewReader(data), nil
	}

	return transform.NewReader(bytes.NewReader(data), unicode.BOMOverride(enc.NewDecoder())), nil
}

// invalidOffset returns the offset of the first byte that is not valid UTF-8.
func invalidOffset(data []byte) int {
	offset := 0
	for len(data) > 0 {
		r, size := utf8.DecodeRune(data)
		if r == utf8.RuneError && size <= 1 {
			return offset
		}
		offset += size
		data = data[size:]
	}
	return offset
}

// configureReader configures the CSV reader based on the settings.
func configureReader(reader *csv.Reader, settings Settings) {
	reader.Comma = ','
	if settings.Delimiter != 0 {
		reader.Comma = settings.Delimiter
	}

	// Row width is checked against the header by ParseBytes.
	reader.FieldsPerRecord = -1

	// Allow lazy quotes (quotes that don't follow strict CSV rules).
	reader.LazyQuotes = true

	// Cell values are kept exactly as written; leading spaces included.
	reader.TrimLeadingSpace = false
}

// cleanHeaders names unnamed columns after their position.
//
// Header text is otherwise left untouched; stripping and title-casing are the
// loader's job.
func cleanHeaders(headers []string) []string {
	cleaned := make([]string, len(headers))

	for i, header := range headers {
		if strings.TrimSpace(header) == "" {
			header = fmt.Sprintf("Unnamed: %d", i)
		}
		cleaned[i] = header
	}

	return cleaned
}
