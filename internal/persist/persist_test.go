package persist_test

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tradelens/tradelens/client"
	"github.com/tradelens/tradelens/internal/models"
	"github.com/tradelens/tradelens/internal/persist"
	"github.com/tradelens/tradelens/internal/sample"
)

// memTier is an in-memory Tier with optional failure hooks.
type memTier struct {
	mu      sync.Mutex
	docs    map[models.Kind][]byte
	writes  atomic.Int32
	readFn  func(ctx context.Context) error
	writeFn func(ctx context.Context) error
}

func newMemTier() *memTier {
	return &memTier{docs: map[models.Kind][]byte{}}
}

func (m *memTier) Read(ctx context.Context, kind models.Kind) ([]byte, error) {
	if m.readFn != nil {
		if err := m.readFn(ctx); err != nil {
			return nil, err
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	doc, ok := m.docs[kind]
	if !ok {
		return nil, models.ErrDocumentNotFound
	}

	return doc, nil
}

func (m *memTier) Write(ctx context.Context, kind models.Kind, doc []byte) error {
	m.writes.Add(1)
	if m.writeFn != nil {
		if err := m.writeFn(ctx); err != nil {
			return err
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.docs[kind] = append([]byte(nil), doc...)

	return nil
}

func (m *memTier) get(kind models.Kind) []byte {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.docs[kind]
}

func testLogger() *logrus.Logger {
	l := logrus.New()
	l.SetLevel(logrus.ErrorLevel)

	return l
}

func macroManager(local, server persist.Tier) *persist.Manager[models.MacroDataset] {
	return persist.NewManager(persist.Config[models.MacroDataset]{
		Kind:    models.KindMacro,
		Local:   local,
		Server:  server,
		Log:     testLogger(),
		Timeout: 200 * time.Millisecond,
		Retries: 2,
		Backoff: time.Millisecond,
		Default: sample.Macro,
		IsEmpty: models.MacroDataset.IsEmpty,
	})
}

const indonesiaDoc = `{"indonesia":{"gdpGrowth":[],"tradeBalance":[{"year":2020,"exports":290,"imports":-140,"balance":150}]}}`

func TestLoad_PrefersServer(t *testing.T) {
	t.Parallel()

	local, server := newMemTier(), newMemTier()
	server.docs[models.KindMacro] = []byte(indonesiaDoc)
	local.docs[models.KindMacro] = []byte(`{"laos":{"gdpGrowth":[{"year":2020}],"tradeBalance":[]}}`)

	got, src := macroManager(local, server).Load(context.Background())

	assert.Equal(t, persist.SourceServer, src)
	assert.Equal(t, []string{"indonesia"}, got.Countries())
	assert.Equal(t, int32(0), server.writes.Load())
}

func TestLoad_LocalRepairsServer(t *testing.T) {
	t.Parallel()

	local, server := newMemTier(), newMemTier()
	server.docs[models.KindMacro] = []byte(`{}`)
	local.docs[models.KindMacro] = []byte(indonesiaDoc)

	got, src := macroManager(local, server).Load(context.Background())

	assert.Equal(t, persist.SourceLocal, src)
	require.Contains(t, got, "indonesia")
	assert.InDelta(t, 150, got["indonesia"].TradeBalance[0].Balance, 0)

	var repaired models.MacroDataset
	require.NoError(t, json.Unmarshal(server.get(models.KindMacro), &repaired))
	assert.Equal(t, got, repaired)
}

func TestLoad_MalformedAndFailingTiersFallThrough(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		setup  func(local, server *memTier)
		source persist.Source
	}{
		{
			name: "malformed server json",
			setup: func(local, server *memTier) {
				server.docs[models.KindMacro] = []byte(`{"indonesia":`)
				local.docs[models.KindMacro] = []byte(indonesiaDoc)
			},
			source: persist.SourceLocal,
		},
		{
			name: "server unreachable",
			setup: func(local, server *memTier) {
				server.readFn = func(context.Context) error { return errors.New("connection refused") }
				local.docs[models.KindMacro] = []byte(indonesiaDoc)
			},
			source: persist.SourceLocal,
		},
		{
			name: "wrong shape on both tiers",
			setup: func(local, server *memTier) {
				server.docs[models.KindMacro] = []byte(`[1,2,3]`)
				local.docs[models.KindMacro] = []byte(`"hello"`)
			},
			source: persist.SourceDefault,
		},
		{
			name:   "nothing stored",
			setup:  func(local, server *memTier) {},
			source: persist.SourceDefault,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			local, server := newMemTier(), newMemTier()
			tc.setup(local, server)

			got, src := macroManager(local, server).Load(context.Background())
			assert.Equal(t, tc.source, src)
			assert.False(t, got.IsEmpty())
		})
	}
}

func TestLoad_DefaultIndustryIsEmpty(t *testing.T) {
	t.Parallel()

	m := persist.NewManager(persist.Config[models.IndustryDataset]{
		Kind:    models.KindIndustry,
		Local:   newMemTier(),
		Server:  newMemTier(),
		Log:     testLogger(),
		Default: sample.Industry,
		IsEmpty: models.IndustryDataset.IsEmpty,
	})

	got, src := m.Load(context.Background())
	assert.Equal(t, persist.SourceDefault, src)
	assert.Empty(t, got)
}

func TestLoad_HungServerIsBounded(t *testing.T) {
	t.Parallel()

	local, server := newMemTier(), newMemTier()
	server.readFn = func(ctx context.Context) error {
		<-ctx.Done()
		return ctx.Err()
	}
	server.writeFn = server.readFn
	local.docs[models.KindMacro] = []byte(indonesiaDoc)

	start := time.Now()
	_, src := macroManager(local, server).Load(context.Background())

	assert.Equal(t, persist.SourceLocal, src)
	assert.Less(t, time.Since(start), 2*time.Second)
}

func TestSave_WritesBothTiers(t *testing.T) {
	t.Parallel()

	local, server := newMemTier(), newMemTier()
	m := macroManager(local, server)

	require.NoError(t, m.Save(context.Background(), sample.Macro()))
	assert.NotEmpty(t, local.get(models.KindMacro), "local write is synchronous")

	m.Flush()
	assert.Equal(t, local.get(models.KindMacro), server.get(models.KindMacro))
}

func TestSave_IsIdempotent(t *testing.T) {
	t.Parallel()

	local, server := newMemTier(), newMemTier()
	m := macroManager(local, server)
	snap := sample.Macro()

	require.NoError(t, m.Save(context.Background(), snap))
	m.Flush()
	firstLocal, firstServer := local.get(models.KindMacro), server.get(models.KindMacro)

	require.NoError(t, m.Save(context.Background(), snap))
	m.Flush()

	assert.Equal(t, firstLocal, local.get(models.KindMacro))
	assert.Equal(t, firstServer, server.get(models.KindMacro))
}

func TestSave_ServerFailureIsBestEffort(t *testing.T) {
	t.Parallel()

	local, server := newMemTier(), newMemTier()
	server.writeFn = func(context.Context) error { return errors.New("503") }
	m := macroManager(local, server)

	require.NoError(t, m.Save(context.Background(), sample.Macro()))
	m.Flush()

	assert.NotEmpty(t, local.get(models.KindMacro))
	assert.Nil(t, server.get(models.KindMacro))
	assert.Equal(t, int32(3), server.writes.Load(), "one attempt plus two retries")
}

func TestSave_LocalFailureIsReturned(t *testing.T) {
	t.Parallel()

	local, server := newMemTier(), newMemTier()
	local.writeFn = func(context.Context) error { return errors.New("disk full") }
	m := macroManager(local, server)

	err := m.Save(context.Background(), sample.Macro())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "local tier")

	m.Flush()
	assert.NotEmpty(t, server.get(models.KindMacro), "server write still attempted")
}

func TestSave_WithoutServer(t *testing.T) {
	t.Parallel()

	local := newMemTier()
	m := macroManager(local, nil)

	require.NoError(t, m.Save(context.Background(), sample.Macro()))
	m.Flush()

	got, src := m.Load(context.Background())
	assert.Equal(t, persist.SourceLocal, src)
	assert.Equal(t, sample.Macro(), got)
}

func TestSave_LastSaveWinsOnServer(t *testing.T) {
	t.Parallel()

	local, server := newMemTier(), newMemTier()
	m := macroManager(local, server)

	for year := 2000; year < 2010; year++ {
		snap := models.MacroDataset{"all": {GDPGrowth: []models.GDPGrowthRecord{{Year: year}}}}
		require.NoError(t, m.Save(context.Background(), snap))
	}
	m.Flush()

	var got models.MacroDataset
	require.NoError(t, json.Unmarshal(server.get(models.KindMacro), &got))
	assert.Equal(t, 2009, got["all"].GDPGrowth[0].Year)
}

func TestSave_ServerRetriesOnlyTransientFailures(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		err   error
		tries int32
	}{
		{name: "invalid document", err: &client.APIError{StatusCode: 400, Code: "invalid_document"}, tries: 1},
		{name: "payload too large", err: &client.APIError{StatusCode: 413, Code: "payload_too_large"}, tries: 1},
		{name: "unknown kind", err: &client.APIError{StatusCode: 404, Code: "not_found"}, tries: 1},
		{name: "rate limited", err: &client.APIError{StatusCode: 429, Code: "rate_limited"}, tries: 3},
		{name: "server error", err: &client.APIError{StatusCode: 502, Code: "unknown"}, tries: 3},
		{name: "transport", err: errors.New("connection refused"), tries: 3},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			local, server := newMemTier(), newMemTier()
			server.writeFn = func(context.Context) error { return tc.err }
			m := macroManager(local, server)

			require.NoError(t, m.Save(context.Background(), sample.Macro()))
			m.Flush()

			assert.Equal(t, tc.tries, server.writes.Load())
			assert.NotEmpty(t, local.get(models.KindMacro))
		})
	}
}
