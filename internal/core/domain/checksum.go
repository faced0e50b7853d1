package domain

import (
	"crypto/sha1"
	"encoding/hex"
	"hash"
)

// Checksum returns the lowercase hex SHA-1 digest of b: a 40-character
// fixed-length string. SHA-1 is the connector's change-detection digest,
// not a security boundary.
func Checksum(b []byte) string {
	sum := sha1.Sum(b)
	return hex.EncodeToString(sum[:])
}

// Digest computes a checksum incrementally, for content that is streamed
// rather than buffered.
type Digest struct {
	h hash.Hash
}

// NewDigest returns an empty incremental digest.
func NewDigest() *Digest {
	return &Digest{h: sha1.New()}
}

// Write adds bytes to the digest. It never returns an error.
func (d *Digest) Write(p []byte) (int, error) {
	return d.h.Write(p)
}

// Sum returns the lowercase hex digest of everything written so far.
func (d *Digest) Sum() string {
	return hex.EncodeToString(d.h.Sum(nil))
}
