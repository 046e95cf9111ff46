// =============================================================================
// TPV Report - Validation Engine
// =============================================================================
//
// This module checks a normalized header row before any value is coerced.
// Validation is intentionally shallow: a file is accepted when every
// required column is present, nothing more. Cell values are never
// validated; unusable cells become missing during coercion instead.
//
// ERROR HANDLING:
//   - Missing columns are reported together in a single error
//   - The loader turns that error into one notice and skips the file
//
// =============================================================================

package validation

import (
	"fmt"
	"strings"
)

// =============================================================================
// VALIDATION ERROR TYPES
// =============================================================================

// MissingColumnsError lists the required columns a file did not carry.
type MissingColumnsError struct {
	// Missing holds the absent column names in required order.
	Missing []string

	// Found holds the normalized columns that were present.
	Found []string
}

// Error implements the error interface.
func (e *MissingColumnsError) Error() string {
	return fmt.Sprintf("required columns not found: %s (found: %s)",
		strings.Join(e.Missing, ", "),
		strings.Join(e.Found, ", "),
	)
}

// =============================================================================
// COLUMN INDEX
// =============================================================================

// ColumnIndex maps a normalized column name to its position in a row.
type ColumnIndex map[string]int

// Index builds a ColumnIndex. When two headers normalize to the same name the
// first one wins; the duplicates are returned so the caller can log them.
func Index(headers []string) (ColumnIndex, []string) {
	index := make(ColumnIndex, len(headers))
	var duplicates []string

	for i, header := range headers {
		if _, exists := index[header]; exists {
			duplicates = append(duplicates, header)
			continue
		}
		index[header] = i
	}

	return index, duplicates
}

// Has reports whether the column exists.
func (c ColumnIndex) Has(name string) bool {
	_, ok := c[name]
	return ok
}

// =============================================================================
// VALIDATION FUNCTIONS
// =============================================================================

// RequireColumns checks that every name in required is in headers.
//
// PARAMETERS:
//   - headers: The normalized header row.
//   - required: The column names that must be present.
//
// RETURNS:
//   - nil if all columns are present.
//   - A *MissingColumnsError otherwise.
func RequireColumns(headers []string, required []string) error {
	index, _ := Index(headers)

	var missing []string
	for _, name := range required {
		if !index.Has(name) {
			missing = append(missing, name)
		}
	}

	if len(missing) == 0 {
		return nil
	}

	found := make([]string, len(headers))
	copy(found, headers)

	return &MissingColumnsError{Missing: missing, Found: found}
}
