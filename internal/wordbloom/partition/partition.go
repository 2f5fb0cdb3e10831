// Package partition cuts a slice of n items into contiguous per-worker chunks.
package partition

// Span is a half-open range [Start, End) of item indices.
type Span struct {
	Start, End int
}

// Len is the number of items in s.
func (s Span) Len() int { return s.End - s.Start }

// Split splits n items into min(workers, n) contiguous spans of n/workers
// items each, with the final span taking the remainder. A worker count below 1
// is treated as 1, and zero items yield no spans.
func Split(n, workers int) []Span {
	if n <= 0 {
		return nil
	}
	if workers > n {
		workers = n
	}
	if workers < 1 {
		workers = 1
	}

	size := n / workers
	spans := make([]Span, workers)
	for i := range spans {
		start := i * size
		end := start + size
		if i == workers-1 {
			end = n
		}
		spans[i] = Span{Start: start, End: end}
	}
	return spans
}
