package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/dbfeed-cli/internal/adapters/driven/serializer/xmlrow"
	"github.com/custodia-labs/dbfeed-cli/internal/core/domain"
)

func urlConfig() domain.ConnectorConfig {
	cfg := baseConfig()
	cfg.Mode = domain.FeedModeCompleteURL
	cfg.URLColumn = "url"
	return cfg
}

func docIDConfig() domain.ConnectorConfig {
	cfg := baseConfig()
	cfg.Mode = domain.FeedModeDocID
	cfg.DocIDColumn = "ref"
	cfg.BaseURL = "http://host/docs/"
	return cfg
}

func urlRow() domain.Row {
	return domain.NewRow(
		[]string{"id", "lastName", "url", "ref"},
		map[string]any{
			"id":       1,
			"lastName": "last_01",
			"url":      "http://example.com/item/1",
			"ref":      "1",
		},
	)
}

func urlDocument(t *testing.T, cfg domain.ConnectorConfig, row domain.Row) (domain.Snapshot, *domain.Document) {
	t.Helper()
	factory, err := NewDocumentFactory(cfg, xmlrow.New())
	require.NoError(t, err)
	snapshot, holder, err := factory.BuildSnapshot(context.Background(), row)
	require.NoError(t, err)
	handle, err := holder.BuildHandle(context.Background())
	require.NoError(t, err)
	return snapshot, handle.Document()
}

func TestURLBuilder_CompleteURLVerbatim(t *testing.T) {
	_, doc := urlDocument(t, urlConfig(), urlRow())

	assert.Equal(t, "http://example.com/item/1", doc.SearchURL)
	assert.Equal(t, "http://example.com/item/1", doc.Property(domain.PropSearchURL))
	assert.Equal(t, "http://example.com/item/1", doc.Property(domain.PropDisplayURL))
}

func TestURLBuilder_BaseURLJoinsDocID(t *testing.T) {
	_, doc := urlDocument(t, docIDConfig(), urlRow())

	assert.Equal(t, "http://host/docs/1", doc.SearchURL)
	assert.Equal(t, "http://host/docs/1", doc.Property(domain.PropSearchURL))
}

func TestURLBuilder_NoBody(t *testing.T) {
	_, doc := urlDocument(t, urlConfig(), urlRow())

	assert.Nil(t, doc.Body)
	assert.Empty(t, doc.MIMEType)
}

func TestURLBuilder_ChecksumMatchesMetadataMode(t *testing.T) {
	// The url strategy digests the same row serialization as the
	// metadata strategy, so any column change reindexes.
	row := domain.NewRow(
		[]string{"id", "lastName", "url"},
		map[string]any{"id": 1, "lastName": "last_01", "url": "http://example.com/item/1"},
	)

	urlSnap, _ := urlDocument(t, urlConfig(), row)
	metaSnap, _ := metadataDocument(t, baseConfig(), row)

	assert.Equal(t, metaSnap.Checksum, urlSnap.Checksum)
}

func TestURLBuilder_LobOnlyChangeDoesNotReindex(t *testing.T) {
	cfg := urlConfig()
	cfg.LobColumn = "payload"
	rowA := domain.NewRow(
		[]string{"id", "lastName", "url", "payload"},
		map[string]any{"id": 1, "lastName": "last_01", "url": "http://example.com/item/1", "payload": domain.BytesLob("v1")},
	)
	rowB := domain.NewRow(
		[]string{"id", "lastName", "url", "payload"},
		map[string]any{"id": 1, "lastName": "last_01", "url": "http://example.com/item/1", "payload": domain.BytesLob("v2 is longer")},
	)

	snapA, _ := urlDocument(t, cfg, rowA)
	snapB, _ := urlDocument(t, cfg, rowB)

	assert.Equal(t, snapA.Checksum, snapB.Checksum)
}

func TestURLBuilder_MetadataProperties(t *testing.T) {
	_, doc := urlDocument(t, urlConfig(), urlRow())

	assert.Equal(t, "1", doc.Property("id"))
	assert.Equal(t, "last_01", doc.Property("lastName"))
}

func TestURLBuilder_MissingURLColumn(t *testing.T) {
	factory, err := NewDocumentFactory(urlConfig(), xmlrow.New())
	require.NoError(t, err)
	row := domain.NewRow(
		[]string{"id", "lastName"},
		map[string]any{"id": 1, "lastName": "last_01"},
	)

	_, _, err = factory.BuildSnapshot(context.Background(), row)

	assert.ErrorIs(t, err, domain.ErrMissingColumn)
}

func TestURLBuilder_EmptyURLValue(t *testing.T) {
	factory, err := NewDocumentFactory(urlConfig(), xmlrow.New())
	require.NoError(t, err)
	row := domain.NewRow(
		[]string{"id", "lastName", "url"},
		map[string]any{"id": 1, "lastName": "last_01", "url": ""},
	)

	_, _, err = factory.BuildSnapshot(context.Background(), row)

	assert.ErrorIs(t, err, domain.ErrMissingColumn)
}

func TestURLBuilder_NumericDocIDColumn(t *testing.T) {
	cfg := docIDConfig()
	row := domain.NewRow(
		[]string{"id", "lastName", "ref"},
		map[string]any{"id": 1, "lastName": "last_01", "ref": int64(42)},
	)

	_, doc := urlDocument(t, cfg, row)

	assert.Equal(t, "http://host/docs/42", doc.SearchURL)
}
