package core

import (
	"encoding/binary"
	"encoding/hex"

	"github.com/cespare/xxhash/v2"
)

// HashKind computes the tag stored for an entry of the given kind: the little-endian xxhash64
// of the kind descriptor, hex encoded. Equal hashes mean the kind is unchanged, not the value.
func HashKind(kind SecretKind) string {
	var sum [8]byte
	binary.LittleEndian.PutUint64(sum[:], xxhash.Sum64String(string(kind)))
	return hex.EncodeToString(sum[:])
}
