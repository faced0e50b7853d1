package domain

// ContentHolder carries the computed checksum and, depending on the
// feed mode, the content payload a document handle will be built from.
// Exactly one of Content, URL or Lob is populated; a pure metadata
// snapshot may carry only serialized row text in Content.
//
// A ContentHolder never holds a live stream: Lob content is held as a
// re-openable LobValue so handles can be built long after the snapshot.
type ContentHolder struct {
	// Checksum is the digest of the content relevant for change
	// detection under the active feed mode.
	Checksum string

	// MIMEType is the content type of the payload, when known.
	MIMEType string

	// Content is the serialized row text used as the document body in
	// metadata mode. Nil for the URL modes.
	Content []byte

	// URL is the external reference in the URL feed modes.
	URL string

	// Lob is the large-object content in lob mode.
	Lob LobValue

	// Oversize marks lob content that exceeded the configured body
	// threshold. The handle is delivered metadata-only.
	Oversize bool
}
