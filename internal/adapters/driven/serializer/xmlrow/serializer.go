// Package xmlrow renders rows into the canonical HTML-table form used
// for checksums and for metadata-fed document bodies.
package xmlrow

import (
	"bytes"
	"encoding/xml"
	"fmt"

	"github.com/custodia-labs/dbfeed-cli/internal/core/domain"
	"github.com/custodia-labs/dbfeed-cli/internal/core/ports/driven"
)

// titlePrefix opens the document title; primary-key pairs follow it.
const titlePrefix = "Database Connector Result"

// Ensure Serializer implements the interface.
var _ driven.RowSerializer = (*Serializer)(nil)

// Serializer produces byte-stable output: the title carries the
// primary-key name=value pairs in key order, the table cells carry
// every non-skipped column in row order, and values are XML-escaped.
// Because the change-detection checksum is computed over these bytes,
// any format change here invalidates all stored snapshots.
type Serializer struct{}

// New creates a canonical row serializer.
func New() *Serializer {
	return &Serializer{}
}

// Serialize renders the row, excluding skipColumns.
func (s *Serializer) Serialize(row domain.Row, primaryKey, skipColumns []string) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString("<html><title>")
	buf.WriteString(titlePrefix)
	for _, col := range primaryKey {
		buf.WriteString(" ")
		if err := writePair(&buf, row, col); err != nil {
			return nil, err
		}
	}
	buf.WriteString(`</title><body><table border="1"><tr>`)
	for _, col := range row.Columns() {
		if domain.ColumnInList(skipColumns, col) {
			continue
		}
		buf.WriteString("<td>")
		if err := writePair(&buf, row, col); err != nil {
			return nil, err
		}
		buf.WriteString("</td>")
	}
	buf.WriteString("</tr></table></body></html>")
	return buf.Bytes(), nil
}

// writePair writes "name=value" with both sides XML-escaped.
func writePair(buf *bytes.Buffer, row domain.Row, col string) error {
	v, _ := row.Value(col)
	s, err := domain.FormatValue(v)
	if err != nil {
		return fmt.Errorf("column %q: %w", col, err)
	}
	if err := xml.EscapeText(buf, []byte(col)); err != nil {
		return fmt.Errorf("%w: escape column name %q: %w", domain.ErrSerialization, col, err)
	}
	buf.WriteString("=")
	if err := xml.EscapeText(buf, []byte(s)); err != nil {
		return fmt.Errorf("%w: escape value of %q: %w", domain.ErrSerialization, col, err)
	}
	return nil
}
