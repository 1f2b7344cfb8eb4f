package fs

import (
	"fmt"

	"github.com/cespare/xxhash/v2"
	"go.trai.ch/hotswap/internal/core/ports"
)

// Hasher fingerprints definition file contents with XXHash.
type Hasher struct{}

// NewHasher creates a new Hasher.
func NewHasher() *Hasher {
	return &Hasher{}
}

// Sum returns the fingerprint of data.
func (h *Hasher) Sum(data []byte) uint64 {
	return xxhash.Sum64(data)
}

// FileHash reads id from fsys and returns its fingerprint.
func (h *Hasher) FileHash(fsys ports.FileSystem, id string) (uint64, error) {
	data, err := fsys.ReadFile(id)
	if err != nil {
		return 0, err
	}
	return h.Sum(data), nil
}

// Format renders a fingerprint the way it is printed to users.
func Format(sum uint64) string {
	return fmt.Sprintf("%016x", sum)
}
