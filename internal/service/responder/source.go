package responder

import "math/rand/v2"

// Source yields uniformly distributed values in [0,1).
type Source interface {
	Float64() float64
}

// SourceFunc adapts a plain function to Source.
type SourceFunc func() float64

// Float64 implements Source.
func (f SourceFunc) Float64() float64 { return f() }

// DefaultSource draws from the process-wide generator of math/rand/v2.
var DefaultSource Source = SourceFunc(rand.Float64)

// Fixed returns a Source that always yields v. Useful to force a candidate index in tests.
func Fixed(v float64) Source {
	return SourceFunc(func() float64 { return v })
}

// Pick samples pool uniformly. pool must not be empty.
func Pick(src Source, pool []string) string {
	idx := int(src.Float64() * float64(len(pool)))
	if idx < 0 {
		idx = 0
	}
	if idx >= len(pool) {
		idx = len(pool) - 1
	}
	return pool[idx]
}
