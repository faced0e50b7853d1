package domain

import (
	"encoding/json"
	"fmt"
)

// Property names on the feed wire. The docid and checksum names also
// form the snapshot's serialized shape.
const (
	// PropDocID is the document identifier property.
	PropDocID = "google:docid"

	// PropChecksum is the snapshot checksum field. It appears only in
	// the serialized snapshot, never as a visible document property.
	PropChecksum = "google:sum"

	// PropLastModified is the last-modified timestamp property.
	PropLastModified = "google:lastmodified"

	// PropDisplayURL is the document's display URL property.
	PropDisplayURL = "google:displayurl"

	// PropSearchURL is the external reference URL property used by the
	// URL feed modes.
	PropSearchURL = "google:searchurl"

	// PropMIMEType is the document content type property.
	PropMIMEType = "google:mimetype"
)

// Snapshot pairs a document identifier with its content checksum. Its
// serialized form is what the differ persists and compares between
// traversal passes.
type Snapshot struct {
	// DocID is the document identifier derived from the primary key.
	DocID string

	// Checksum is the 40-hex-character digest of the strategy-relevant
	// content.
	Checksum string
}

// Serialize renders the canonical wire form: a UTF-8 JSON object with
// exactly two fields, docid then checksum, in fixed order. The form is
// built by hand because the field order is part of the contract and
// must be byte-stable across passes.
func (s Snapshot) Serialize() (string, error) {
	if s.DocID == "" || s.Checksum == "" {
		return "", fmt.Errorf("%w: docid=%q checksum=%q", ErrEncodingInvariant, s.DocID, s.Checksum)
	}
	docID, err := json.Marshal(s.DocID)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrEncodingInvariant, err)
	}
	sum, err := json.Marshal(s.Checksum)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrEncodingInvariant, err)
	}
	return `{"` + PropDocID + `":` + string(docID) + `,"` + PropChecksum + `":` + string(sum) + `}`, nil
}

// ParseSnapshot reads a serialized snapshot back into its two fields.
// Used when loading persisted state written by a previous pass.
func ParseSnapshot(serialized string) (Snapshot, error) {
	var fields map[string]string
	if err := json.Unmarshal([]byte(serialized), &fields); err != nil {
		return Snapshot{}, fmt.Errorf("parse snapshot: %w", err)
	}
	s := Snapshot{DocID: fields[PropDocID], Checksum: fields[PropChecksum]}
	if s.DocID == "" || s.Checksum == "" {
		return Snapshot{}, fmt.Errorf("%w: missing field in %q", ErrInvalidInput, serialized)
	}
	return s, nil
}
