package feedfile

import (
	"bufio"
	"context"
	"encoding/base64"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/dbfeed-cli/internal/core/domain"
)

func newTestSink(t *testing.T) (*Sink, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "feed.jsonl")
	sink, err := New(path)
	require.NoError(t, err)
	return sink, path
}

func readRecords(t *testing.T, path string) []record {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	var records []record
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		var r record
		require.NoError(t, json.Unmarshal(scanner.Bytes(), &r))
		records = append(records, r)
	}
	require.NoError(t, scanner.Err())
	return records
}

func testHandle(body io.ReadCloser) *domain.Handle {
	return domain.NewHandle(&domain.Document{
		DocID:      "MSxsYXN0XzAx",
		Properties: map[string]string{"id": "1"},
		MIMEType:   "text/html",
		Body:       body,
	})
}

func TestDeliver_WritesAddRecord(t *testing.T) {
	sink, path := newTestSink(t)
	body := io.NopCloser(strings.NewReader("<html>row</html>"))

	require.NoError(t, sink.Deliver(context.Background(), testHandle(body)))
	require.NoError(t, sink.Close())

	records := readRecords(t, path)
	require.Len(t, records, 1)
	assert.Equal(t, "add", records[0].Action)
	assert.Equal(t, "MSxsYXN0XzAx", records[0].DocID)
	assert.Equal(t, "text/html", records[0].MIMEType)
	assert.Equal(t, "1", records[0].Properties["id"])

	content, err := base64.StdEncoding.DecodeString(records[0].Content)
	require.NoError(t, err)
	assert.Equal(t, "<html>row</html>", string(content))
}

func TestDeliver_NoBody(t *testing.T) {
	sink, path := newTestSink(t)
	handle := domain.NewHandle(&domain.Document{
		DocID:     "ref-doc",
		SearchURL: "http://example.com/item/1",
	})

	require.NoError(t, sink.Deliver(context.Background(), handle))
	require.NoError(t, sink.Close())

	records := readRecords(t, path)
	require.Len(t, records, 1)
	assert.Empty(t, records[0].Content)
	assert.Equal(t, "http://example.com/item/1", records[0].URL)
}

func TestDelete_WritesDeleteRecord(t *testing.T) {
	sink, path := newTestSink(t)

	require.NoError(t, sink.Delete(context.Background(), "gone-doc"))
	require.NoError(t, sink.Close())

	records := readRecords(t, path)
	require.Len(t, records, 1)
	assert.Equal(t, "delete", records[0].Action)
	assert.Equal(t, "gone-doc", records[0].DocID)
}

func TestSink_RecordsInOrder(t *testing.T) {
	sink, path := newTestSink(t)
	ctx := context.Background()

	require.NoError(t, sink.Deliver(ctx, testHandle(io.NopCloser(strings.NewReader("a")))))
	require.NoError(t, sink.Delete(ctx, "other"))
	require.NoError(t, sink.Close())

	records := readRecords(t, path)
	require.Len(t, records, 2)
	assert.Equal(t, "add", records[0].Action)
	assert.Equal(t, "delete", records[1].Action)
}

func TestNew_TruncatesPrevious(t *testing.T) {
	path := filepath.Join(t.TempDir(), "feed.jsonl")
	require.NoError(t, os.WriteFile(path, []byte("stale\n"), 0600))

	sink, err := New(path)
	require.NoError(t, err)
	require.NoError(t, sink.Close())

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Empty(t, content)
}

func TestNew_InvalidPath(t *testing.T) {
	_, err := New(filepath.Join(t.TempDir(), "missing", "feed.jsonl"))

	assert.Error(t, err)
}
