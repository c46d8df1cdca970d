package ingest_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tradelens/tradelens/internal/ingest"
	"github.com/tradelens/tradelens/internal/models"
)

func TestParse_CoercesNumbers(t *testing.T) {
	t.Parallel()

	tbl, err := ingest.Parse(strings.NewReader("year,gdpGrowth,country\n2020,2.1,indonesia\n2021,-0.4, vietnam \n"))
	require.NoError(t, err)
	assert.Equal(t, []string{"year", "gdpGrowth", "country"}, tbl.Header())

	rows := tbl.Collect()
	require.Len(t, rows, 2)

	year, ok := rows[0].Number("year")
	require.True(t, ok)
	assert.InDelta(t, 2020, year, 0)
	assert.Equal(t, "indonesia", rows[0].Text("country"))

	_, ok = rows[0].Number("country")
	assert.False(t, ok)

	assert.InDelta(t, -0.4, rows[1].NumberOr("gdpGrowth", 0), 1e-9)
	assert.Equal(t, "vietnam", rows[1].Text("country"))
	assert.Equal(t, 3, rows[1].Line)
}

func TestParse_SkipsBlankLines(t *testing.T) {
	t.Parallel()

	tbl, err := ingest.Parse(strings.NewReader("id,name\n\nenergy,Energy\n,\n\r\ntech,Technology\n"))
	require.NoError(t, err)

	rows := tbl.Collect()
	require.Len(t, rows, 2)
	assert.Equal(t, "energy", rows[0].Text("id"))
	assert.Equal(t, "tech", rows[1].Text("id"))
}

func TestParse_EmptyCellsAreAbsent(t *testing.T) {
	t.Parallel()

	tbl, err := ingest.Parse(strings.NewReader("year,exports,imports,balance\n2020,290,-140,\n"))
	require.NoError(t, err)

	rows := tbl.Collect()
	require.Len(t, rows, 1)
	assert.Contains(t, rows[0].Fields, "exports")
	assert.NotContains(t, rows[0].Fields, "balance")
}

func TestParse_FlagsMalformedRowWithoutAborting(t *testing.T) {
	t.Parallel()

	tbl, err := ingest.Parse(strings.NewReader("id,name,exportValue\nenergy,Energy\nmaterials,Materials,55.3\n"))
	require.NoError(t, err)

	rows := tbl.Collect()
	require.Len(t, rows, 2)
	assert.True(t, errors.Is(rows[0].Err, ingest.ErrFieldCount))
	assert.Equal(t, "energy", rows[0].Text("id"))
	assert.NoError(t, rows[1].Err)
}

func TestParse_QuotedListCell(t *testing.T) {
	t.Parallel()

	tbl, err := ingest.Parse(strings.NewReader("id,companies\ntech,\"TSMC, UMC, Intel\"\n"))
	require.NoError(t, err)

	rows := tbl.Collect()
	require.Len(t, rows, 1)
	assert.Equal(t, "TSMC, UMC, Intel", rows[0].Text("companies"))
}

func TestParse_NoHeader(t *testing.T) {
	t.Parallel()

	for _, in := range []string{"", "\n\n", ",,\n1,2,3\n"} {
		_, err := ingest.Parse(strings.NewReader(in))
		assert.ErrorIs(t, err, models.ErrNoHeader, "input %q", in)
	}
}

func TestParse_StripsByteOrderMark(t *testing.T) {
	t.Parallel()

	tbl, err := ingest.Parse(strings.NewReader("\ufeffyear,exports\n2020,1\n"))
	require.NoError(t, err)
	assert.Equal(t, "year", tbl.Header()[0])
}

func TestRows_IsRestartable(t *testing.T) {
	t.Parallel()

	tbl, err := ingest.Parse(strings.NewReader("year\n2020\n2021\n2022\n"))
	require.NoError(t, err)

	first := 0
	for range tbl.Rows() {
		first++
		if first == 2 {
			break
		}
	}

	assert.Equal(t, 2, first)
	assert.Len(t, tbl.Collect(), 3)
	assert.Len(t, tbl.Collect(), 3)
}

func TestParse_NonNumericLookalikes(t *testing.T) {
	t.Parallel()

	tbl, err := ingest.Parse(strings.NewReader("a,b,c,d\nNaN,Inf,0x10,1e3\n"))
	require.NoError(t, err)

	row := tbl.Collect()[0]
	for _, k := range []string{"a", "b", "c"} {
		_, ok := row.Number(k)
		assert.False(t, ok, "column %s should stay text", k)
	}

	v, ok := row.Number("d")
	require.True(t, ok)
	assert.InDelta(t, 1000, v, 0)
}
