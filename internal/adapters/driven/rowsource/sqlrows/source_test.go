package sqlrows

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"github.com/custodia-labs/dbfeed-cli/internal/core/domain"
)

func newTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	// Each connection gets its own in-memory database; keep one.
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })

	_, err = db.Exec(`CREATE TABLE docs (id INTEGER PRIMARY KEY, name TEXT, data BLOB)`)
	require.NoError(t, err)
	return db
}

func drain(t *testing.T, source *Source) ([]domain.Row, error) {
	t.Helper()
	rowsCh, errsCh := source.Rows(context.Background())

	var rows []domain.Row
	for rowsCh != nil || errsCh != nil {
		select {
		case row, ok := <-rowsCh:
			if !ok {
				rowsCh = nil
				continue
			}
			rows = append(rows, row)
		case err, ok := <-errsCh:
			if !ok {
				errsCh = nil
				continue
			}
			return rows, err
		}
	}
	return rows, nil
}

func TestRows_StreamsAllRows(t *testing.T) {
	db := newTestDB(t)
	_, err := db.Exec(`INSERT INTO docs (id, name) VALUES (1, 'first'), (2, 'second')`)
	require.NoError(t, err)
	source := New(db, "SELECT id, name FROM docs ORDER BY id")

	rows, err := drain(t, source)

	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, []string{"id", "name"}, rows[0].Columns())

	name, ok := rows[0].Value("name")
	require.True(t, ok)
	assert.Equal(t, "first", name)
}

func TestRows_BlobBecomesBytesLob(t *testing.T) {
	db := newTestDB(t)
	_, err := db.Exec(`INSERT INTO docs (id, name, data) VALUES (1, 'doc', ?)`, []byte("hello world"))
	require.NoError(t, err)
	source := New(db, "SELECT id, name, data FROM docs")

	rows, err := drain(t, source)

	require.NoError(t, err)
	require.Len(t, rows, 1)
	v, ok := rows[0].Value("data")
	require.True(t, ok)
	lob, ok := v.(domain.BytesLob)
	require.True(t, ok)
	assert.Equal(t, "hello world", string(lob))
}

func TestRows_NullValues(t *testing.T) {
	db := newTestDB(t)
	_, err := db.Exec(`INSERT INTO docs (id, name, data) VALUES (1, NULL, NULL)`)
	require.NoError(t, err)
	source := New(db, "SELECT id, name, data FROM docs")

	rows, err := drain(t, source)

	require.NoError(t, err)
	require.Len(t, rows, 1)
	name, ok := rows[0].Value("name")
	require.True(t, ok)
	assert.Nil(t, name)
}

func TestRows_EmptyResultSet(t *testing.T) {
	db := newTestDB(t)
	source := New(db, "SELECT id, name FROM docs")

	rows, err := drain(t, source)

	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestRows_QueryError(t *testing.T) {
	db := newTestDB(t)
	source := New(db, "SELECT broken FROM nowhere")

	rows, err := drain(t, source)

	assert.Error(t, err)
	assert.Empty(t, rows)
}

func TestRows_ContextCancelled(t *testing.T) {
	db := newTestDB(t)
	_, err := db.Exec(`INSERT INTO docs (id, name) VALUES (1, 'a'), (2, 'b'), (3, 'c')`)
	require.NoError(t, err)
	source := New(db, "SELECT id, name FROM docs")

	ctx, cancel := context.WithCancel(context.Background())
	rowsCh, errsCh := source.Rows(ctx)

	// Take one row, then cancel; the producer must stop.
	<-rowsCh
	cancel()
	for range rowsCh {
	}
	for range errsCh {
	}
}

func TestOpen_InvalidDriver(t *testing.T) {
	_, err := Open("no-such-driver", "dsn", "SELECT 1")

	assert.Error(t, err)
}

func TestClose(t *testing.T) {
	db := newTestDB(t)
	source := New(db, "SELECT id FROM docs")

	assert.NoError(t, source.Close())
}
