package merge_test

import (
	"iter"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/tradelens/tradelens/internal/ingest"
	"github.com/tradelens/tradelens/internal/merge"
)

var fixedNow = time.Date(2025, 4, 9, 12, 0, 0, 0, time.UTC)

func opts(bulk bool, country string) merge.Options {
	return merge.Options{Bulk: bulk, Country: country, Now: func() time.Time { return fixedNow }}
}

func rowsOf(t *testing.T, csv string) iter.Seq[ingest.Row] {
	t.Helper()

	tbl, err := ingest.Parse(strings.NewReader(csv))
	require.NoError(t, err)

	return tbl.Rows()
}
