package services

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/gabriel-vasile/mimetype"

	"github.com/custodia-labs/dbfeed-cli/internal/core/domain"
	"github.com/custodia-labs/dbfeed-cli/internal/core/ports/driven"
	"github.com/custodia-labs/dbfeed-cli/internal/logger"
	"github.com/custodia-labs/dbfeed-cli/internal/metrics"
)

// sniffHeadSize is how much lob content is buffered for MIME sniffing.
// Matches the mimetype library's default read limit.
const sniffHeadSize = 3072

// Ensure lobBuilder implements the interface.
var _ ContentBuilder = (*lobBuilder)(nil)

// lobBuilder feeds large-object column content as the document body.
// The checksum covers the lob bytes concatenated with the row's
// metadata serialization, so either a content change or a metadata
// change triggers re-indexing.
type lobBuilder struct {
	cfg        domain.ConnectorConfig
	serializer driven.RowSerializer
}

func newLobBuilder(cfg domain.ConnectorConfig, serializer driven.RowSerializer) *lobBuilder {
	return &lobBuilder{cfg: cfg, serializer: serializer}
}

// Mode returns the feed mode this builder implements.
func (b *lobBuilder) Mode() domain.FeedMode {
	return domain.FeedModeLob
}

// BuildContent streams the lob through the digest, appends the metadata
// serialization, and sniffs the content type from the leading bytes.
// The lob itself is kept as a re-openable value, not a live stream.
func (b *lobBuilder) BuildContent(ctx context.Context, row domain.Row, primaryKey []string, docID string) (domain.ContentHolder, error) {
	lob, err := b.lobValue(row)
	if err != nil {
		return domain.ContentHolder{}, err
	}
	meta, err := b.serializer.Serialize(row, primaryKey, effectiveSkipColumns(b.cfg))
	if err != nil {
		return domain.ContentHolder{}, fmt.Errorf("serialize row: %w", err)
	}

	digest := domain.NewDigest()
	var head bytes.Buffer
	size, err := b.digestLob(ctx, lob, digest, &head)
	if err != nil {
		return domain.ContentHolder{}, err
	}
	digest.Write(meta)

	oversize := b.cfg.MaxContentBytes > 0 && size > b.cfg.MaxContentBytes
	if oversize {
		logger.Warn("document %s: large object of %d bytes exceeds the %d byte limit, body will be skipped",
			docID, size, b.cfg.MaxContentBytes)
	}

	return domain.ContentHolder{
		Checksum: digest.Sum(),
		MIMEType: b.sniff(head.Bytes()),
		Lob:      lob,
		Oversize: oversize,
	}, nil
}

// BuildDocument re-opens the lob as the document body. Oversize content
// is delivered metadata-only, with a log signal and a counter.
func (b *lobBuilder) BuildDocument(ctx context.Context, holder *DocumentHolder) (*domain.Document, error) {
	props, err := metadataProperties(holder.Row, effectiveSkipColumns(b.cfg))
	if err != nil {
		return nil, err
	}
	setLastModified(b.cfg, holder.Row, props)
	props[domain.PropDisplayURL] = displayURL(b.cfg.Name, holder.DocID)

	doc := &domain.Document{
		DocID:      holder.DocID,
		Properties: props,
		MIMEType:   holder.Content.MIMEType,
	}

	if holder.Content.Oversize {
		logger.Warn("document %s: delivering metadata only, large object body skipped", holder.DocID)
		metrics.LobBodiesSkipped.Inc()
		return doc, nil
	}

	body, err := holder.Content.Lob.Open(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: reopen large object: %w", domain.ErrContentAcquisition, err)
	}
	doc.Body = body
	return doc, nil
}

// lobValue extracts the configured lob column as a re-openable value.
func (b *lobBuilder) lobValue(row domain.Row) (domain.LobValue, error) {
	col, ok := row.Resolve(b.cfg.LobColumn)
	if !ok {
		return nil, fmt.Errorf("%w: %q", domain.ErrMissingColumn, b.cfg.LobColumn)
	}
	v, _ := row.Value(col)
	switch x := v.(type) {
	case nil:
		return domain.BytesLob(nil), nil
	case domain.LobValue:
		return x, nil
	case []byte:
		return domain.BytesLob(x), nil
	case string:
		return domain.BytesLob(x), nil
	default:
		return nil, fmt.Errorf("%w: column %q holds %T, not large-object content",
			domain.ErrContentAcquisition, b.cfg.LobColumn, v)
	}
}

// digestLob streams the lob content through the digest, capturing the
// leading bytes for sniffing. The stream is closed on every exit path.
func (b *lobBuilder) digestLob(ctx context.Context, lob domain.LobValue, digest *domain.Digest, head *bytes.Buffer) (int64, error) {
	rc, err := lob.Open(ctx)
	if err != nil {
		return 0, fmt.Errorf("%w: open large object: %w", domain.ErrContentAcquisition, err)
	}
	defer rc.Close()

	headCapture := &headWriter{buf: head, limit: sniffHeadSize}
	size, err := io.Copy(io.MultiWriter(digest, headCapture), rc)
	if err != nil {
		return 0, fmt.Errorf("%w: read large object: %w", domain.ErrContentAcquisition, err)
	}
	return size, nil
}

// sniff determines the content type from the leading bytes, using the
// configured override when sniffing is inconclusive.
func (b *lobBuilder) sniff(head []byte) string {
	if len(head) == 0 {
		if b.cfg.MIMETypeOverride != "" {
			return b.cfg.MIMETypeOverride
		}
		return "application/octet-stream"
	}
	detected := mimetype.Detect(head)
	if b.cfg.MIMETypeOverride != "" && detected.Is("application/octet-stream") {
		return b.cfg.MIMETypeOverride
	}
	return detected.String()
}

// headWriter captures the first limit bytes written through it.
type headWriter struct {
	buf   *bytes.Buffer
	limit int
}

func (w *headWriter) Write(p []byte) (int, error) {
	if remaining := w.limit - w.buf.Len(); remaining > 0 {
		if len(p) > remaining {
			w.buf.Write(p[:remaining])
		} else {
			w.buf.Write(p)
		}
	}
	return len(p), nil
}
