// Package hash computes content fingerprints for change detection.
//
// Fingerprints are computed over raw, undecoded bytes so line-ending
// differences are never masked by text decoding. The fingerprint is not a
// security primitive; at corpus scale the collision risk of 48 bits of
// xxh3-128 output is treated as negligible.
package hash

import (
	"encoding/hex"
	"io"
	"os"

	"github.com/zeebo/xxh3"
)

// Width is the fingerprint length in hex characters
const Width = 12

// Sum returns the 12-character lowercase hex fingerprint of data
func Sum(data []byte) string {
	digest := xxh3.Hash128(data).Bytes()
	return hex.EncodeToString(digest[:Width/2])
}

// SumFile fingerprints a file's byte content without decoding it
func SumFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer func() { _ = f.Close() }()

	h := xxh3.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}
	digest := h.Sum128().Bytes()
	return hex.EncodeToString(digest[:Width/2]), nil
}
