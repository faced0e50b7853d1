// Package feedfile spools delivered documents to a JSON-lines file.
// The delivery transport to the indexing backend is out of scope; the
// spool is what a transport would consume.
package feedfile

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/custodia-labs/dbfeed-cli/internal/core/domain"
	"github.com/custodia-labs/dbfeed-cli/internal/core/ports/driven"
)

// Ensure Sink implements the interface.
var _ driven.DocumentSink = (*Sink)(nil)

// Sink writes one JSON record per delivered document or deletion.
// Bodies are base64-encoded into the record; oversize lob bodies never
// reach the sink, the differ already delivers those metadata-only.
type Sink struct {
	mu  sync.Mutex
	f   *os.File
	enc *json.Encoder
}

// record is one spool line.
type record struct {
	Action     string            `json:"action"`
	DocID      string            `json:"docid"`
	URL        string            `json:"url,omitempty"`
	MIMEType   string            `json:"mimetype,omitempty"`
	Properties map[string]string `json:"properties,omitempty"`
	Content    string            `json:"content,omitempty"`
}

// New creates a sink writing to path, truncating any previous spool.
func New(path string) (*Sink, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("creating feed file: %w", err)
	}
	return &Sink{f: f, enc: json.NewEncoder(f)}, nil
}

// Deliver writes an add record. The document body is consumed and
// closed here.
func (s *Sink) Deliver(_ context.Context, handle *domain.Handle) error {
	doc := handle.Document()

	var content string
	if doc.Body != nil {
		defer doc.Body.Close()
		raw, err := io.ReadAll(doc.Body)
		if err != nil {
			return fmt.Errorf("reading document body %s: %w", doc.DocID, err)
		}
		content = base64.StdEncoding.EncodeToString(raw)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enc.Encode(record{
		Action:     "add",
		DocID:      doc.DocID,
		URL:        doc.SearchURL,
		MIMEType:   doc.MIMEType,
		Properties: doc.Properties,
		Content:    content,
	}); err != nil {
		return fmt.Errorf("writing feed record %s: %w", doc.DocID, err)
	}
	return nil
}

// Delete writes a delete record.
func (s *Sink) Delete(_ context.Context, docID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enc.Encode(record{Action: "delete", DocID: docID}); err != nil {
		return fmt.Errorf("writing delete record %s: %w", docID, err)
	}
	return nil
}

// Close flushes and closes the spool file.
func (s *Sink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.f.Close()
}
