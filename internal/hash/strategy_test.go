package hash

import (
	"encoding/binary"
	"testing"
	"unsafe"

	"github.com/23skdu/slabkit/internal/errors"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/segmentio/fasthash/fnv1a"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerate_KnownValues(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		strategy Strategy
		want     uint32
	}{
		{"djb2 empty", "", DJB2, 5381},
		{"djb2 a", "a", DJB2, 177670},
		{"djb2 ab", "ab", DJB2, 5863208},
		{"fnv1a empty", "", FNV1a, 2166136261},
		{"fnv1a a", "a", FNV1a, 0xe40c292c},
		{"fnv1a foobar", "foobar", FNV1a, 0xbf9cf968},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Generate([]byte(tt.input), tt.strategy))
		})
	}
}

func TestFNV1a_MatchesFasthash(t *testing.T) {
	inputs := []string{"", "a", "slab", "reference table", "\x00\x01\x02\xff"}
	for _, in := range inputs {
		assert.Equal(t, fnv1a.HashBytes32([]byte(in)), Generate([]byte(in), FNV1a), "input %q", in)
	}
}

func TestGenerateAddress_UsesLittleEndianBytes(t *testing.T) {
	var x int64
	addr := uintptr(unsafe.Pointer(&x))

	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], uint64(addr))
	size := int(unsafe.Sizeof(addr))

	for _, s := range Strategies() {
		assert.Equal(t, Generate(buf[:size], s), GenerateAddress(addr, s), s.Name)
	}
}

func TestGenerateAddress_Deterministic(t *testing.T) {
	addr := uintptr(0x12345678)
	assert.Equal(t, GenerateAddress(addr, DJB2), GenerateAddress(addr, DJB2))
	assert.NotEqual(t, GenerateAddress(addr, DJB2), GenerateAddress(addr+8, DJB2))
}

func TestByName(t *testing.T) {
	s, err := ByName("djb2")
	require.NoError(t, err)
	assert.Equal(t, "djb2", s.Name)

	s, err = ByName("FNV1A")
	require.NoError(t, err)
	assert.Equal(t, "fnv1a", s.Name)

	_, err = ByName("murmur")
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrInvalidConfig)
}

func TestStrategies(t *testing.T) {
	names := make([]string, 0)
	for _, s := range Strategies() {
		names = append(names, s.Name)
	}
	assert.Equal(t, []string{"djb2", "fnv1a"}, names)
}

func TestGenerate_Properties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	properties.Property("fold is incremental", prop.ForAll(
		func(prefix, suffix []byte) bool {
			for _, s := range Strategies() {
				acc := Generate(prefix, s)
				for _, c := range suffix {
					acc = s.Accumulate(acc, c)
				}
				if acc != Generate(append(append([]byte{}, prefix...), suffix...), s) {
					return false
				}
			}
			return true
		},
		gen.SliceOf(gen.UInt8()),
		gen.SliceOf(gen.UInt8()),
	))

	properties.Property("fnv1a agrees with fasthash", prop.ForAll(
		func(b []byte) bool {
			return Generate(b, FNV1a) == fnv1a.HashBytes32(b)
		},
		gen.SliceOf(gen.UInt8()),
	))

	properties.TestingRun(t)
}

func FuzzGenerateAddress(f *testing.F) {
	f.Add(uint64(0))
	f.Add(uint64(0xdeadbeef))
	f.Fuzz(func(t *testing.T, addr uint64) {
		a := uintptr(addr)
		for _, s := range Strategies() {
			if GenerateAddress(a, s) != GenerateAddress(a, s) {
				t.Fatalf("%s not deterministic for %x", s.Name, addr)
			}
		}
	})
}
