package services

import (
	"context"
	"fmt"

	"github.com/custodia-labs/dbfeed-cli/internal/core/domain"
	"github.com/custodia-labs/dbfeed-cli/internal/core/ports/driven"
)

// urlMode distinguishes the two URL strategy sub-modes.
type urlMode int

const (
	// urlModeComplete takes the reference verbatim from the URL column.
	urlModeComplete urlMode = iota

	// urlModeBase joins the configured base URL with the doc-id column.
	urlModeBase
)

// Ensure urlBuilder implements the interface.
var _ ContentBuilder = (*urlBuilder)(nil)

// urlBuilder feeds an external reference instead of a content body.
// The checksum still covers the row's metadata serialization, identical
// to the metadata strategy: change detection reacts to any column
// change, not just the URL column.
type urlBuilder struct {
	cfg        domain.ConnectorConfig
	serializer driven.RowSerializer
	mode       urlMode
}

func newURLBuilder(cfg domain.ConnectorConfig, serializer driven.RowSerializer, mode urlMode) *urlBuilder {
	return &urlBuilder{cfg: cfg, serializer: serializer, mode: mode}
}

// Mode returns the feed mode this builder implements.
func (b *urlBuilder) Mode() domain.FeedMode {
	if b.mode == urlModeComplete {
		return domain.FeedModeCompleteURL
	}
	return domain.FeedModeDocID
}

// BuildContent digests the row's metadata serialization and resolves
// the external reference. No content body is produced.
func (b *urlBuilder) BuildContent(_ context.Context, row domain.Row, primaryKey []string, _ string) (domain.ContentHolder, error) {
	body, err := b.serializer.Serialize(row, primaryKey, effectiveSkipColumns(b.cfg))
	if err != nil {
		return domain.ContentHolder{}, fmt.Errorf("serialize row: %w", err)
	}
	url, err := b.reference(row)
	if err != nil {
		return domain.ContentHolder{}, err
	}
	return domain.ContentHolder{
		Checksum: domain.Checksum(body),
		URL:      url,
	}, nil
}

// BuildDocument assembles the reference document: non-skipped metadata
// properties plus the URL. No body is transmitted for indexing.
func (b *urlBuilder) BuildDocument(_ context.Context, holder *DocumentHolder) (*domain.Document, error) {
	props, err := metadataProperties(holder.Row, effectiveSkipColumns(b.cfg))
	if err != nil {
		return nil, err
	}
	setLastModified(b.cfg, holder.Row, props)
	props[domain.PropSearchURL] = holder.Content.URL
	props[domain.PropDisplayURL] = holder.Content.URL

	return &domain.Document{
		DocID:      holder.DocID,
		Properties: props,
		SearchURL:  holder.Content.URL,
	}, nil
}

// reference resolves the external URL for the row under the sub-mode.
func (b *urlBuilder) reference(row domain.Row) (string, error) {
	switch b.mode {
	case urlModeComplete:
		v, err := b.columnValue(row, b.cfg.URLColumn)
		if err != nil {
			return "", err
		}
		return v, nil
	default:
		v, err := b.columnValue(row, b.cfg.DocIDColumn)
		if err != nil {
			return "", err
		}
		return b.cfg.BaseURL + v, nil
	}
}

func (b *urlBuilder) columnValue(row domain.Row, name string) (string, error) {
	col, ok := row.Resolve(name)
	if !ok {
		return "", fmt.Errorf("%w: %q", domain.ErrMissingColumn, name)
	}
	v, _ := row.Value(col)
	s, err := domain.FormatValue(v)
	if err != nil {
		return "", fmt.Errorf("format column %q: %w", name, err)
	}
	if s == "" {
		return "", fmt.Errorf("%w: column %q is empty", domain.ErrMissingColumn, name)
	}
	return s, nil
}
