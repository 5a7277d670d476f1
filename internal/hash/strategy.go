// Package hash provides the byte-fold hash strategies used to place keys in
// a reftable bucket.
package hash

import (
	"encoding/binary"
	"strings"
	"unsafe"

	"github.com/23skdu/slabkit/internal/errors"
)

// Strategy is a 32-bit left fold over a byte sequence. Accumulate is applied
// once per byte starting from Seed.
type Strategy struct {
	Name       string
	Accumulate func(acc uint32, b byte) uint32
	Seed       uint32
}

// DJB2 is Bernstein's hash: acc*33 + b, seeded with 5381.
var DJB2 = Strategy{
	Name: "djb2",
	Accumulate: func(acc uint32, b byte) uint32 {
		return (acc << 5) + acc + uint32(b)
	},
	Seed: 5381,
}

// FNV1a is the 32-bit Fowler-Noll-Vo 1a hash.
var FNV1a = Strategy{
	Name: "fnv1a",
	Accumulate: func(acc uint32, b byte) uint32 {
		acc ^= uint32(b)
		acc *= 16777619
		return acc
	},
	Seed: 2166136261,
}

const addrSize = int(unsafe.Sizeof(uintptr(0)))

// Generate folds s over b. An empty input yields the seed.
func Generate(b []byte, s Strategy) uint32 {
	acc := s.Seed
	for _, c := range b {
		acc = s.Accumulate(acc, c)
	}
	return acc
}

// GenerateAddress hashes the little-endian bytes of addr. The fold covers
// the full pointer width of the platform.
func GenerateAddress(addr uintptr, s Strategy) uint32 {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], uint64(addr))
	return Generate(buf[:addrSize], s)
}

// Strategies lists the built-in strategies in a stable order.
func Strategies() []Strategy {
	return []Strategy{DJB2, FNV1a}
}

// ByName resolves a strategy by its case-insensitive name.
func ByName(name string) (Strategy, error) {
	for _, s := range Strategies() {
		if strings.EqualFold(s.Name, name) {
			return s, nil
		}
	}
	return Strategy{}, errors.Newf(errors.ErrorTypeConfiguration, "hash.ByName",
		"unknown hash strategy %q", name)
}
