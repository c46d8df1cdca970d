package localstore_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tradelens/tradelens/internal/localstore"
	"github.com/tradelens/tradelens/internal/models"
)

func openStore(t *testing.T) *localstore.Store {
	t.Helper()

	s, err := localstore.Open(context.Background(), filepath.Join(t.TempDir(), "local.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	return s
}

func TestReadMissing(t *testing.T) {
	t.Parallel()

	s := openStore(t)

	_, err := s.Read(context.Background(), models.KindIndustry)
	assert.ErrorIs(t, err, models.ErrDocumentNotFound)
}

func TestWriteReadOverwrite(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := openStore(t)

	require.NoError(t, s.Write(ctx, models.KindCompany, []byte(`{"a":1}`)))
	require.NoError(t, s.Write(ctx, models.KindCompany, []byte(`{"b":2}`)))

	got, err := s.Read(ctx, models.KindCompany)
	require.NoError(t, err)
	assert.JSONEq(t, `{"b":2}`, string(got))

	entries, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "asean_company_data", entries[0].Key)
	assert.Equal(t, 7, entries[0].Bytes)
}

func TestKindsAreIsolated(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := openStore(t)

	require.NoError(t, s.Write(ctx, models.KindMacro, []byte(`{}`)))
	require.NoError(t, s.Write(ctx, models.KindIndustry, []byte(`[]`)))
	require.NoError(t, s.Delete(ctx, models.KindMacro))
	require.NoError(t, s.Delete(ctx, models.KindCompany))

	_, err := s.Read(ctx, models.KindMacro)
	assert.ErrorIs(t, err, models.ErrDocumentNotFound)

	got, err := s.Read(ctx, models.KindIndustry)
	require.NoError(t, err)
	assert.Equal(t, "[]", string(got))
}

func TestReopenKeepsData(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "local.db")

	s, err := localstore.Open(ctx, path)
	require.NoError(t, err)
	require.NoError(t, s.Write(ctx, models.KindMacro, []byte(`{"all":{}}`)))
	require.NoError(t, s.Close())

	s, err = localstore.Open(ctx, path)
	require.NoError(t, err)
	defer s.Close()

	got, err := s.Read(ctx, models.KindMacro)
	require.NoError(t, err)
	assert.Equal(t, `{"all":{}}`, string(got))
}
