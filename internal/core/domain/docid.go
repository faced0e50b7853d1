package domain

import (
	"encoding/base64"
	"fmt"
	"strings"
)

// docIDDelimiter joins primary-key values before encoding. Key values
// are not expected to contain it; distinct key tuples therefore never
// collide.
const docIDDelimiter = ","

// DocID derives the document identifier for a row: the standard base64
// encoding of the primary-key values joined by the delimiter, in key
// order. It is a pure function of (primaryKey, row) and safe for use as
// an external reference token.
func DocID(primaryKey []string, row Row) (string, error) {
	parts := make([]string, 0, len(primaryKey))
	for _, name := range primaryKey {
		col, ok := row.Resolve(name)
		if !ok {
			return "", fmt.Errorf("%w: %q", ErrMissingPrimaryKey, name)
		}
		v, _ := row.Value(col)
		s, err := FormatValue(v)
		if err != nil {
			return "", fmt.Errorf("format key column %q: %w", name, err)
		}
		parts = append(parts, s)
	}
	joined := strings.Join(parts, docIDDelimiter)
	return base64.StdEncoding.EncodeToString([]byte(joined)), nil
}

// DecodeDocID reverses DocID, returning the primary-key values. Used for
// diagnostics only; the identifier is otherwise opaque.
func DecodeDocID(docID string) ([]string, error) {
	raw, err := base64.StdEncoding.DecodeString(docID)
	if err != nil {
		return nil, fmt.Errorf("decode docid: %w", err)
	}
	return strings.Split(string(raw), docIDDelimiter), nil
}
