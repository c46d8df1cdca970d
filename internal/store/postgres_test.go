package store_test

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tradelens/tradelens/internal/db"
	"github.com/tradelens/tradelens/internal/db/migrations"
	"github.com/tradelens/tradelens/internal/dbpool"
	"github.com/tradelens/tradelens/internal/models"
	"github.com/tradelens/tradelens/internal/store"
)

func TestPostgresStoreGet(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectQuery("SELECT body FROM documents WHERE kind").
		WithArgs("company").
		WillReturnRows(pgxmock.NewRows([]string{"body"}).AddRow([]byte(`{"tech":{}}`)))

	s := store.NewPostgresStore(mock, testLogger())

	got, err := s.Get(context.Background(), models.KindCompany)
	require.NoError(t, err)
	assert.Equal(t, `{"tech":{}}`, string(got))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStoreGetMissing(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectQuery("SELECT body FROM documents WHERE kind").
		WithArgs("macro").
		WillReturnRows(pgxmock.NewRows([]string{"body"}))

	s := store.NewPostgresStore(mock, testLogger())

	_, err = s.Get(context.Background(), models.KindMacro)
	assert.ErrorIs(t, err, models.ErrDocumentNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStorePut(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	at := time.Date(2025, 4, 2, 10, 0, 0, 0, time.UTC)
	mock.ExpectQuery("INSERT INTO documents").
		WithArgs("industry", `[{"id":"steel"}]`).
		WillReturnRows(pgxmock.NewRows([]string{"updated_at"}).AddRow(at))

	s := store.NewPostgresStore(mock, testLogger())

	got, err := s.Put(context.Background(), models.KindIndustry, []byte(`[{"id":"steel"}]`))
	require.NoError(t, err)
	assert.Equal(t, at, got)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStorePutError(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	boom := errors.New("connection reset")
	mock.ExpectQuery("INSERT INTO documents").WillReturnError(boom)

	s := store.NewPostgresStore(mock, testLogger())

	_, err = s.Put(context.Background(), models.KindMacro, []byte(`{}`))
	assert.ErrorIs(t, err, boom)
}

func TestPostgresStorePing(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectQuery("SELECT COUNT").WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(3))

	s := store.NewPostgresStore(mock, testLogger())
	assert.NoError(t, s.Ping(context.Background()))
	assert.Equal(t, "postgres", s.Driver())
}

func TestPostgresStoreIntegration(t *testing.T) {
	dbURL := os.Getenv("TEST_DATABASE_URL")
	if dbURL == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	ctx := context.Background()

	pool, err := dbpool.NewPool(ctx, dbURL, 4)
	require.NoError(t, err)
	defer pool.Close()

	require.NoError(t, db.RunMigrations(ctx, pool, testLogger(), migrations.FS))

	s := store.NewPostgresStore(pool, testLogger())

	_, err = s.Put(ctx, models.KindCompany, []byte(`{"tech":{"id":"tech","name":"Technology","subIndustries":[]}}`))
	require.NoError(t, err)

	got, err := s.Get(ctx, models.KindCompany)
	require.NoError(t, err)
	assert.JSONEq(t, `{"tech":{"id":"tech","name":"Technology","subIndustries":[]}}`, string(got))
}
