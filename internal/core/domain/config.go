package domain

import "fmt"

// FeedMode selects how a row becomes a document.
type FeedMode string

const (
	// FeedModeNone feeds serialized row metadata as the document body.
	FeedModeNone FeedMode = "none"

	// FeedModeCompleteURL feeds an external reference taken verbatim
	// from a URL column.
	FeedModeCompleteURL FeedMode = "url"

	// FeedModeDocID feeds an external reference built from a base URL
	// and a document-id column.
	FeedModeDocID FeedMode = "docid"

	// FeedModeLob feeds large-object column content as the document
	// body.
	FeedModeLob FeedMode = "lob"
)

// ConnectorConfig is the per-connector configuration this subsystem
// consumes. It is resolved once at startup; strategies hold a private
// copy and never mutate the caller's value.
type ConnectorConfig struct {
	// Name is the connector name, used in synthesized display URLs.
	Name string

	// PrimaryKey lists the columns whose values identify a row, in
	// identifier order. Matched case-insensitively against row columns.
	PrimaryKey []string

	// SkipColumns lists columns excluded from metadata properties and
	// from the canonical serialization.
	SkipColumns []string

	// LastModifiedColumn names an optional timestamp column surfaced as
	// the last-modified property and excluded from the checksum.
	LastModifiedColumn string

	// Mode is the requested feed mode. If the mode's required column is
	// not configured the connector falls back to FeedModeNone.
	Mode FeedMode

	// URLColumn names the column holding a complete document URL
	// (FeedModeCompleteURL).
	URLColumn string

	// DocIDColumn names the column holding the external document id
	// (FeedModeDocID).
	DocIDColumn string

	// BaseURL is the prefix joined with the DocIDColumn value
	// (FeedModeDocID).
	BaseURL string

	// LobColumn names the large-object column (FeedModeLob).
	LobColumn string

	// MIMETypeOverride is used when lob content sniffing is
	// inconclusive.
	MIMETypeOverride string

	// MaxContentBytes caps the lob body size delivered for indexing.
	// Zero means no cap. Oversize bodies are skipped, metadata is still
	// delivered.
	MaxContentBytes int64
}

// Validate checks the fields every mode requires.
func (c ConnectorConfig) Validate() error {
	if c.Name == "" {
		return fmt.Errorf("%w: connector name is required", ErrInvalidInput)
	}
	if len(c.PrimaryKey) == 0 {
		return fmt.Errorf("%w: at least one primary key column is required", ErrInvalidInput)
	}
	return nil
}

// Clone returns a deep copy, so mode normalization stays local to the
// component that performed it.
func (c ConnectorConfig) Clone() ConnectorConfig {
	cp := c
	cp.PrimaryKey = make([]string, len(c.PrimaryKey))
	copy(cp.PrimaryKey, c.PrimaryKey)
	cp.SkipColumns = make([]string, len(c.SkipColumns))
	copy(cp.SkipColumns, c.SkipColumns)
	return cp
}
