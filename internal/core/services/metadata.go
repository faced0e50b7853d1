package services

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/custodia-labs/dbfeed-cli/internal/core/domain"
	"github.com/custodia-labs/dbfeed-cli/internal/core/ports/driven"
)

// metadataMIMEType is the generic text marker for metadata-fed bodies.
const metadataMIMEType = "text/html"

// Ensure metadataBuilder implements the interface.
var _ ContentBuilder = (*metadataBuilder)(nil)

// metadataBuilder feeds the serialized row itself as the document body.
// The checksum covers the canonical serialization of every non-skipped
// column, so any metadata change triggers re-indexing.
type metadataBuilder struct {
	cfg        domain.ConnectorConfig
	serializer driven.RowSerializer
}

func newMetadataBuilder(cfg domain.ConnectorConfig, serializer driven.RowSerializer) *metadataBuilder {
	return &metadataBuilder{cfg: cfg, serializer: serializer}
}

// Mode returns the feed mode this builder implements.
func (b *metadataBuilder) Mode() domain.FeedMode {
	return domain.FeedModeNone
}

// BuildContent serializes the row and digests the serialized bytes.
func (b *metadataBuilder) BuildContent(_ context.Context, row domain.Row, primaryKey []string, _ string) (domain.ContentHolder, error) {
	body, err := b.serializer.Serialize(row, primaryKey, effectiveSkipColumns(b.cfg))
	if err != nil {
		return domain.ContentHolder{}, fmt.Errorf("serialize row: %w", err)
	}
	return domain.ContentHolder{
		Checksum: domain.Checksum(body),
		MIMEType: metadataMIMEType,
		Content:  body,
	}, nil
}

// BuildDocument assembles the metadata document: every non-skipped
// column as a property, the last-modified property when configured, a
// synthesized display URL, and the serialized row as the body.
func (b *metadataBuilder) BuildDocument(_ context.Context, holder *DocumentHolder) (*domain.Document, error) {
	props, err := metadataProperties(holder.Row, effectiveSkipColumns(b.cfg))
	if err != nil {
		return nil, err
	}
	setLastModified(b.cfg, holder.Row, props)
	props[domain.PropDisplayURL] = displayURL(b.cfg.Name, holder.DocID)

	return &domain.Document{
		DocID:      holder.DocID,
		Properties: props,
		MIMEType:   holder.Content.MIMEType,
		Body:       io.NopCloser(bytes.NewReader(holder.Content.Content)),
	}, nil
}
