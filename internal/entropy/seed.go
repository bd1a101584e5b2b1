// Package entropy derives run seeds when none is configured.
package entropy

import (
	"crypto/rand"
	"encoding/binary"
)

// Seed returns a fresh non-negative seed for an unseeded run. Runs that
// need reproducibility pass their own fixed seed instead.
func Seed() int64 {
	var buf [8]byte
	if _, err := rand.Read(buf[:]); err != nil {
		// Never expected; a fixed seed beats failing startup.
		return 1
	}
	return int64(binary.LittleEndian.Uint64(buf[:]) &^ (1 << 63))
}
