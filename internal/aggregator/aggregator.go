// =============================================================================
// TPV Report - Aggregator Module
// =============================================================================
//
// This module reduces the consolidated dataset to the two views the reports
// are built from:
//   - one summary row per customer (Summarize)
//   - one point per calendar month (Monthly)
//
// MISSING VALUES:
//   Sums skip missing values and are 0 when every value is missing. Means
//   skip missing values and are missing when every value is missing. Row
//   counts include every row of the group regardless.
//
// =============================================================================

package aggregator

import (
	"sort"
	"time"

	"github.com/ginjaninja78/tpv-report/internal/types"
)

// accumulator collects the running totals of one group.
type accumulator struct {
	tpvSum      float64
	markupSum   float64
	markupCount int
	rows        int
}

func (a *accumulator) add(record types.Record) {
	a.rows++
	if record.Tpv.Valid {
		a.tpvSum += record.Tpv.Float64
	}
	if record.Markup.Valid {
		a.markupSum += record.Markup.Float64
		a.markupCount++
	}
}

func (a *accumulator) markupMean() types.NullFloat {
	if a.markupCount == 0 {
		return types.NullFloat{}
	}
	return types.Float(a.markupSum / float64(a.markupCount))
}

// =============================================================================
// PER-CUSTOMER SUMMARY
// =============================================================================

// Summarize groups the dataset by customer.
//
// Customers are matched on the exact Cliente value: "Acme" and "acme " are
// different groups.
//
// RETURNS:
//   - One summary per distinct customer, sorted by Cliente ascending.
func Summarize(ds *types.Dataset) []types.CustomerSummary {
	groups := make(map[string]*accumulator)
	for _, record := range ds.Records {
		acc, ok := groups[record.Cliente]
		if !ok {
			acc = &accumulator{}
			groups[record.Cliente] = acc
		}
		acc.add(record)
	}

	summaries := make([]types.CustomerSummary, 0, len(groups))
	for cliente, acc := range groups {
		summaries = append(summaries, types.CustomerSummary{
			Cliente:     cliente,
			TpvTotal:    acc.tpvSum,
			MarkupMedio: acc.markupMean(),
			Registros:   acc.rows,
		})
	}

	sort.Slice(summaries, func(i, j int) bool {
		return summaries[i].Cliente < summaries[j].Cliente
	})

	return summaries
}

// SortByTpvTotal orders summaries by TpvTotal, largest first. Ties are broken
// by Cliente. The input is not modified.
func SortByTpvTotal(summaries []types.CustomerSummary) []types.CustomerSummary {
	sorted := append([]types.CustomerSummary(nil), summaries...)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].TpvTotal != sorted[j].TpvTotal {
			return sorted[i].TpvTotal > sorted[j].TpvTotal
		}
		return sorted[i].Cliente < sorted[j].Cliente
	})
	return sorted
}

// SortByMarkupMedio orders summaries by MarkupMedio, largest first, with
// missing means last. Ties are broken by Cliente. The input is not modified.
func SortByMarkupMedio(summaries []types.CustomerSummary) []types.CustomerSummary {
	sorted := append([]types.CustomerSummary(nil), summaries...)
	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i].MarkupMedio, sorted[j].MarkupMedio
		if a.Valid != b.Valid {
			return a.Valid
		}
		if a.Valid && a.Float64 != b.Float64 {
			return a.Float64 > b.Float64
		}
		return sorted[i].Cliente < sorted[j].Cliente
	})
	return sorted
}

// =============================================================================
// MONTHLY TIME SERIES
// =============================================================================

// Monthly buckets the dated rows of the dataset by calendar month.
//
// RETURNS:
//   - One point per month that has at least one dated row, oldest first.
//   - nil when the dataset has no Data column or no valid date at all. The
//     caller skips the time series reports in that case.
func Monthly(ds *types.Dataset) []types.MonthlyPoint {
	if !ds.HasData {
		return nil
	}

	groups := make(map[time.Time]*accumulator)
	for _, record := range ds.Records {
		if !record.Data.Valid {
			continue
		}

		month := MonthStart(record.Data.Time)
		acc, ok := groups[month]
		if !ok {
			acc = &accumulator{}
			groups[month] = acc
		}
		acc.add(record)
	}

	if len(groups) == 0 {
		return nil
	}

	points := make([]types.MonthlyPoint, 0, len(groups))
	for month, acc := range groups {
		points = append(points, types.MonthlyPoint{
			Month:       month,
			TpvTotal:    acc.tpvSum,
			MarkupMedio: acc.markupMean(),
			Registros:   acc.rows,
		})
	}

	sort.Slice(points, func(i, j int) bool {
		return points[i].Month.Before(points[j].Month)
	})

	return points
}

// MonthStart returns midnight UTC on the first day of t's month. The calendar
// month is taken in t's own location.
func MonthStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}
