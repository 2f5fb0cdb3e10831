package bloom

import "math"

// EstimateFalsePositiveRate returns the textbook false positive probability
// of a filter with m bits and k probes after n distinct insertions:
//
//	p = (1 - e^(-k*n/m))^k
//
// It assumes independent, uniformly distributed probes. For SchemeSingle the
// effective k is 1 whatever the configured probe count.
func EstimateFalsePositiveRate(k int, n, m uint64) float64 {
	if m == 0 || k < 1 {
		return 1
	}
	if n == 0 {
		return 0
	}
	fill := 1 - math.Exp(-float64(k)*float64(n)/float64(m))
	return math.Pow(fill, float64(k))
}

// ObservedFalsePositiveRate estimates the false positive probability from the
// current fill ratio: a random absent item passes when all of its k probes hit
// set bits.
func (f *Filter) ObservedFalsePositiveRate() float64 {
	k := f.probes
	if f.scheme == SchemeSingle {
		k = 1
	}
	return math.Pow(f.FillRatio(), float64(k))
}
