package domain

import "io"

// Document is the full deliverable payload for a changed row: its
// visible properties, optional external reference, and optional body.
//
// The checksum is deliberately not a property. It lives only in the
// serialized snapshot, so consumers of the feed never see it.
type Document struct {
	// DocID is the document identifier.
	DocID string

	// Properties are the visible metadata properties: every non-skipped
	// column (stringified) plus the synthesized google: properties.
	Properties map[string]string

	// MIMEType is the body content type. Empty when the document
	// carries only a reference.
	MIMEType string

	// SearchURL is the external reference for the URL feed modes.
	// Empty otherwise.
	SearchURL string

	// Body is the document content stream. Nil when the document
	// carries only metadata or a reference. The consumer owns the
	// stream and must close it.
	Body io.ReadCloser
}

// Property returns a visible property value, or "" when absent.
func (d *Document) Property(name string) string {
	return d.Properties[name]
}

// Handle wraps a strategy-produced document for delivery. It applies no
// further transformation; it exists so the sink API deals in one type.
type Handle struct {
	doc *Document
}

// NewHandle wraps a document.
func NewHandle(doc *Document) *Handle {
	return &Handle{doc: doc}
}

// DocID returns the wrapped document's identifier.
func (h *Handle) DocID() string {
	return h.doc.DocID
}

// Document returns the wrapped document.
func (h *Handle) Document() *Document {
	return h.doc
}
