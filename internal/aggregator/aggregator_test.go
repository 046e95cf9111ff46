package aggregator

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ginjaninja78/tpv-report/internal/types"
)

func record(cliente string, tpv, markup types.NullFloat) types.Record {
	return types.Record{Cliente: cliente, Tpv: tpv, Markup: markup}
}

func dated(cliente string, tpv, markup float64, date string) types.Record {
	r := record(cliente, types.Float(tpv), types.Float(markup))
	if date != "" {
		d, err := time.Parse("2006-01-02", date)
		if err != nil {
			panic(err)
		}
		r.Data = types.Time(d)
	}
	return r
}

func TestSummarizeAcmeGlobex(t *testing.T) {
	ds := &types.Dataset{Records: []types.Record{
		record("Acme", types.Float(100), types.Float(10)),
		record("Globex", types.Float(50), types.Float(20)),
		record("Acme", types.Float(200), types.Float(30)),
	}}

	summaries := Summarize(ds)

	assert.Equal(t, []types.CustomerSummary{
		{Cliente: "Acme", TpvTotal: 300, MarkupMedio: types.Float(20), Registros: 2},
		{Cliente: "Globex", TpvTotal: 50, MarkupMedio: types.Float(20), Registros: 1},
	}, summaries)
}

func TestSummarizeMissingValues(t *testing.T) {
	ds := &types.Dataset{Records: []types.Record{
		record("Acme", types.NullFloat{}, types.NullFloat{}),
		record("Acme", types.NullFloat{}, types.NullFloat{}),
		record("Globex", types.Float(5), types.NullFloat{}),
		record("Globex", types.NullFloat{}, types.Float(4)),
	}}

	summaries := Summarize(ds)
	require.Len(t, summaries, 2)

	acme := summaries[0]
	assert.Equal(t, 0.0, acme.TpvTotal)
	assert.False(t, acme.MarkupMedio.Valid)
	assert.Equal(t, 2, acme.Registros)

	globex := summaries[1]
	assert.Equal(t, 5.0, globex.TpvTotal)
	assert.Equal(t, types.Float(4), globex.MarkupMedio)
	assert.Equal(t, 2, globex.Registros)
}

func TestSummarizeExactCustomerMatch(t *testing.T) {
	ds := &types.Dataset{Records: []types.Record{
		record("Acme", types.Float(1), types.Float(1)),
		record("acme", types.Float(1), types.Float(1)),
		record("Acme ", types.Float(1), types.Float(1)),
	}}

	assert.Len(t, Summarize(ds), 3)
}

func TestSummarizeEmpty(t *testing.T) {
	assert.Empty(t, Summarize(&types.Dataset{}))
}

func TestSortByTpvTotal(t *testing.T) {
	summaries := []types.CustomerSummary{
		{Cliente: "B", TpvTotal: 10},
		{Cliente: "A", TpvTotal: 10},
		{Cliente: "C", TpvTotal: 30},
	}

	sorted := SortByTpvTotal(summaries)

	assert.Equal(t, []string{"C", "A", "B"}, names(sorted))
	assert.Equal(t, "B", summaries[0].Cliente, "input must not be reordered")
}

func TestSortByMarkupMedio(t *testing.T) {
	summaries := []types.CustomerSummary{
		{Cliente: "A", MarkupMedio: types.NullFloat{}},
		{Cliente: "B", MarkupMedio: types.Float(1)},
		{Cliente: "C", MarkupMedio: types.Float(5)},
		{Cliente: "D", MarkupMedio: types.Float(1)},
	}

	assert.Equal(t, []string{"C", "B", "D", "A"}, names(SortByMarkupMedio(summaries)))
}

func TestMonthlySameMonth(t *testing.T) {
	ds := &types.Dataset{HasData: true, Records: []types.Record{
		dated("Acme", 10, 1, "2024-01-05"),
		dated("Globex", 20, 3, "2024-01-28"),
		dated("Acme", 5, 7, "2024-02-01"),
	}}

	points := Monthly(ds)
	require.Len(t, points, 2)

	assert.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), points[0].Month)
	assert.Equal(t, 30.0, points[0].TpvTotal)
	assert.Equal(t, types.Float(2), points[0].MarkupMedio)
	assert.Equal(t, 2, points[0].Registros)

	assert.Equal(t, time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC), points[1].Month)
	assert.Equal(t, 5.0, points[1].TpvTotal)
}

func TestMonthlyOrderAndMissingDates(t *testing.T) {
	ds := &types.Dataset{HasData: true, Records: []types.Record{
		dated("Acme", 1, 1, "2024-03-10"),
		dated("Acme", 1, 1, ""),
		dated("Acme", 1, 1, "2023-12-31"),
	}}

	points := Monthly(ds)
	require.Len(t, points, 2)
	assert.Equal(t, 2023, points[0].Month.Year())
	assert.Equal(t, time.March, points[1].Month.Month())
}

func TestMonthlyWithoutDates(t *testing.T) {
	withoutColumn := &types.Dataset{Records: []types.Record{dated("Acme", 1, 1, "2024-01-01")}}
	assert.Nil(t, Monthly(withoutColumn))

	allMissing := &types.Dataset{HasData: true, Records: []types.Record{dated("Acme", 1, 1, "")}}
	assert.Nil(t, Monthly(allMissing))
}

func TestMonthStart(t *testing.T) {
	loc := time.FixedZone("BRT", -3*60*60)
	got := MonthStart(time.Date(2024, 5, 31, 23, 0, 0, 0, loc))
	assert.Equal(t, time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC), got)
}

func names(summaries []types.CustomerSummary) []string {
	out := make([]string, len(summaries))
	for i, s := range summaries {
		out[i] = s.Cliente
	}
	return out
}
