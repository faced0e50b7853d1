package services

import (
	"context"
	"fmt"
	"time"

	"github.com/custodia-labs/dbfeed-cli/internal/core/domain"
	"github.com/custodia-labs/dbfeed-cli/internal/core/ports/driven"
	"github.com/custodia-labs/dbfeed-cli/internal/logger"
	"github.com/custodia-labs/dbfeed-cli/internal/metrics"
)

// ContentBuilder is one of the three interchangeable row-to-content
// strategies: metadata, url, lob. A builder is selected once per
// connector, holds no per-row state, and is safe for concurrent use.
type ContentBuilder interface {
	// Mode returns the feed mode this builder implements.
	Mode() domain.FeedMode

	// BuildContent computes the checksum and the content payload for a
	// row. Called once per row, at snapshot time.
	BuildContent(ctx context.Context, row domain.Row, primaryKey []string, docID string) (domain.ContentHolder, error)

	// BuildDocument assembles the full deliverable document from an
	// already-computed holder. Called lazily, only when the differ
	// detects a change.
	BuildDocument(ctx context.Context, holder *DocumentHolder) (*domain.Document, error)
}

// DocumentHolder binds a row, its primary key, its docid and its
// content holder to the builder that produced them. It is constructed
// exactly once per row per pass, by BuildSnapshot, and is the only path
// to a document handle: the type system enforces that a snapshot is
// derived before its handle.
type DocumentHolder struct {
	builder ContentBuilder

	// Row is the immutable source row.
	Row domain.Row

	// PrimaryKey holds the resolved row column names in identifier
	// order.
	PrimaryKey []string

	// DocID is the derived document identifier.
	DocID string

	// Content is the checksum and payload computed at snapshot time.
	Content domain.ContentHolder
}

// BuildHandle materializes the full deliverable document. It may be
// invoked much later than snapshot construction; lob content is
// re-opened rather than held as a live stream.
func (h *DocumentHolder) BuildHandle(ctx context.Context) (*domain.Handle, error) {
	doc, err := h.builder.BuildDocument(ctx, h)
	if err != nil {
		return nil, err
	}
	return domain.NewHandle(doc), nil
}

// DocumentFactory constructs snapshots and handles for rows. It owns
// the resolved strategy and the primary-key configuration; no other
// component re-derives the feed mode.
type DocumentFactory struct {
	cfg     domain.ConnectorConfig
	builder ContentBuilder
}

// NewDocumentFactory resolves the feed mode and returns a factory bound
// to the selected strategy.
//
// The mode table: complete-URL with a URL column configured selects the
// url strategy; base-URL+doc-id with a doc-id column selects the url
// strategy in its base sub-mode; lob with a lob column selects the lob
// strategy; everything else falls back to metadata mode. The fallback
// is logged and counted, never raised as an error, and normalizes the
// mode on a private copy only — the caller's config is not mutated.
func NewDocumentFactory(cfg domain.ConnectorConfig, serializer driven.RowSerializer) (*DocumentFactory, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cfg = cfg.Clone()

	var builder ContentBuilder
	switch {
	case cfg.Mode == domain.FeedModeCompleteURL && cfg.URLColumn != "":
		logger.Info("connector %s: external metadata feed with complete document URL", cfg.Name)
		builder = newURLBuilder(cfg, serializer, urlModeComplete)
	case cfg.Mode == domain.FeedModeDocID && cfg.DocIDColumn != "":
		logger.Info("connector %s: external metadata feed with base URL and document id", cfg.Name)
		builder = newURLBuilder(cfg, serializer, urlModeBase)
	case cfg.Mode == domain.FeedModeLob && cfg.LobColumn != "":
		logger.Info("connector %s: content feed for large object data", cfg.Name)
		builder = newLobBuilder(cfg, serializer)
	default:
		if cfg.Mode != domain.FeedModeNone && cfg.Mode != "" {
			logger.Warn("connector %s: feed mode %q is missing its required column, falling back to metadata mode",
				cfg.Name, cfg.Mode)
			metrics.ModeFallbacks.Inc()
		} else {
			logger.Info("connector %s: content feed for row metadata", cfg.Name)
		}
		cfg.Mode = domain.FeedModeNone
		builder = newMetadataBuilder(cfg, serializer)
	}

	return &DocumentFactory{cfg: cfg, builder: builder}, nil
}

// Mode returns the effective feed mode after fallback normalization.
func (f *DocumentFactory) Mode() domain.FeedMode {
	return f.builder.Mode()
}

// BuildSnapshot converts a row into its change-detection snapshot and
// the holder from which the handle can later be built.
func (f *DocumentFactory) BuildSnapshot(ctx context.Context, row domain.Row) (domain.Snapshot, *DocumentHolder, error) {
	primaryKey, err := resolvePrimaryKey(f.cfg.PrimaryKey, row)
	if err != nil {
		return domain.Snapshot{}, nil, err
	}
	docID, err := domain.DocID(primaryKey, row)
	if err != nil {
		return domain.Snapshot{}, nil, err
	}
	content, err := f.builder.BuildContent(ctx, row, primaryKey, docID)
	if err != nil {
		return domain.Snapshot{}, nil, err
	}

	snapshot := domain.Snapshot{DocID: docID, Checksum: content.Checksum}
	if _, err := snapshot.Serialize(); err != nil {
		// Impossible given the fixed schema; fatal, not a row failure.
		return domain.Snapshot{}, nil, err
	}

	holder := &DocumentHolder{
		builder:    f.builder,
		Row:        row,
		PrimaryKey: primaryKey,
		DocID:      docID,
		Content:    content,
	}
	return snapshot, holder, nil
}

// BuildHandle materializes the deliverable document for a holder
// produced by this factory's BuildSnapshot.
func (f *DocumentFactory) BuildHandle(ctx context.Context, holder *DocumentHolder) (*domain.Handle, error) {
	return holder.BuildHandle(ctx)
}

// resolvePrimaryKey matches the configured key columns against the
// row's columns, case-insensitively, returning actual column names in
// configured order.
func resolvePrimaryKey(configured []string, row domain.Row) ([]string, error) {
	resolved := make([]string, 0, len(configured))
	for _, name := range configured {
		col, ok := row.Resolve(name)
		if !ok {
			return nil, fmt.Errorf("%w: %q", domain.ErrMissingPrimaryKey, name)
		}
		resolved = append(resolved, col)
	}
	return resolved, nil
}

// effectiveSkipColumns is the configured skip list plus the columns
// handled separately: the last-modified column and the lob column.
func effectiveSkipColumns(cfg domain.ConnectorConfig) []string {
	skip := make([]string, 0, len(cfg.SkipColumns)+2)
	skip = append(skip, cfg.SkipColumns...)
	if cfg.LastModifiedColumn != "" {
		skip = append(skip, cfg.LastModifiedColumn)
	}
	if cfg.LobColumn != "" {
		skip = append(skip, cfg.LobColumn)
	}
	return skip
}

// metadataProperties stringifies every non-skipped column of the row.
// Null values are omitted, matching the feed contract.
func metadataProperties(row domain.Row, skipColumns []string) (map[string]string, error) {
	props := make(map[string]string)
	for _, col := range row.Columns() {
		if domain.ColumnInList(skipColumns, col) {
			logger.Debug("skipping metadata indexing of column %s", col)
			continue
		}
		v, _ := row.Value(col)
		if v == nil {
			continue
		}
		s, err := domain.FormatValue(v)
		if err != nil {
			return nil, fmt.Errorf("format column %q: %w", col, err)
		}
		props[col] = s
	}
	return props, nil
}

// setLastModified adds the last-modified property when the configured
// column holds a timestamp value.
func setLastModified(cfg domain.ConnectorConfig, row domain.Row, props map[string]string) {
	if cfg.LastModifiedColumn == "" {
		return
	}
	col, ok := row.Resolve(cfg.LastModifiedColumn)
	if !ok {
		return
	}
	v, _ := row.Value(col)
	if ts, ok := v.(time.Time); ok {
		props[domain.PropLastModified] = ts.UTC().Format(time.RFC3339)
	}
}

// displayURL synthesizes the display URL used when no explicit URL is
// configured.
func displayURL(connectorName, docID string) string {
	return fmt.Sprintf("dbfeed://%s.localhost/%s", connectorName, docID)
}
