package util

import "runtime"

// WriteConcurrency returns the number of files written in parallel during an
// export.
//
// Formula: min(max(runtime.NumCPU() * 2, 4), 32)
//
// Writes are I/O bound, so twice the core count keeps the disk busy without
// opening an unbounded number of files.
func WriteConcurrency() int {
	n := runtime.NumCPU() * 2
	if n < 4 {
		n = 4
	}
	if n > 32 {
		n = 32
	}
	return n
}

// WriteConcurrencyWithOverride uses override when positive.
func WriteConcurrencyWithOverride(override int) int {
	if override > 0 {
		return override
	}
	return WriteConcurrency()
}
