// package repositories persists the two artifacts the recommender serves
// from: the tokenization store (vocabulary + tokenized playlists) and the
// model store (embedding table + training config).
//
// Both live in one schema-versioned SQLite database. Each is written once
// per build/training run (saving replaces the previous artifact) and is
// read-only on the query path. Loading re-validates the invariants the
// writer guaranteed (dense tokens, embedding ⊆ vocabulary) and fails with
// shared.ErrDataIntegrity instead of letting a corrupt pair surface as
// confusing lookup failures downstream.
package repositories

import (
	"encoding/binary"
	"fmt"
	"math"
)

// encodeVector packs a float64 vector as a little-endian BLOB.
func encodeVector(v []float64) []byte {
	buf := make([]byte, 8*len(v))
	for i, x := range v {
		binary.LittleEndian.PutUint64(buf[i*8:], math.Float64bits(x))
	}
	return buf
}

// decodeVector unpacks a little-endian BLOB into a float64 vector of the
// expected dimensionality.
func decodeVector(buf []byte, dim int) ([]float64, error) {
	if len(buf) != 8*dim {
		return nil, fmt.Errorf("vector blob is %d bytes, expected %d", len(buf), 8*dim)
	}
	v := make([]float64, dim)
	for i := range v {
		v[i] = math.Float64frombits(binary.LittleEndian.Uint64(buf[i*8:]))
	}
	return v, nil
}
