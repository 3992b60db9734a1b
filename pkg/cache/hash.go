package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// ResultKey derives the key of a merge result from the input bytes and the
// options that shape the output. Each option is hashed with its type and
// %v form, so every value contributes, NaN included. The key format is
// result:<sha256>.
func ResultKey(input []byte, opts ...any) string {
	h := sha256.New()
	h.Write(input)
	for _, o := range opts {
		fmt.Fprintf(h, "\x00%T=%v", o, o)
	}
	return "result:" + hex.EncodeToString(h.Sum(nil))
}

// Hash computes the hex SHA-256 of data.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
