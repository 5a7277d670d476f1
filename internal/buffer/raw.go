// Package buffer provides bounds-checked typed arrays: FixedBuffer with an
// immutable capacity and GrowableBuffer with doubling growth.
package buffer

import (
	"bytes"
	"unsafe"
)

// rawBytes views the elements of s as their underlying bytes.
func rawBytes[T any](s []T) []byte {
	if len(s) == 0 {
		return nil
	}
	size := int(unsafe.Sizeof(s[0]))
	return unsafe.Slice((*byte)(unsafe.Pointer(&s[0])), len(s)*size)
}

// regionOf returns the base address and byte length of s for heap tracking.
func regionOf[T any](s []T) (uintptr, int) {
	b := rawBytes(s)
	if len(b) == 0 {
		return 0, 0
	}
	return uintptr(unsafe.Pointer(&b[0])), len(b)
}

func equalRaw[T any](a, b []T) bool {
	return bytes.Equal(rawBytes(a), rawBytes(b))
}
