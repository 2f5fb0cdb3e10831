// Package score folds membership query results into accuracy counts.
package score

import (
	"sync"

	"wordbloom.lopezb.com/internal/wordbloom/partition"
)

// Query is one labelled membership question: Expected is true when the word
// is believed to be in the set.
type Query struct {
	Word     string
	Expected bool
}

// Membership is anything that can answer a membership query.
type Membership interface {
	Query(item string) bool
}

// Result aggregates query outcomes. A false positive is a query answered
// "present" whose label says absent; a false negative is the reverse.
type Result struct {
	Correct        int
	Incorrect      int
	FalsePositives int
	FalseNegatives int
}

// Total is the number of queries scored.
func (r Result) Total() int { return r.Correct + r.Incorrect }

// Accuracy is Correct / Total, or 0 when nothing was scored.
func (r Result) Accuracy() float64 {
	if r.Total() == 0 {
		return 0
	}
	return float64(r.Correct) / float64(r.Total())
}

// Add merges another partial result into r.
func (r *Result) Add(o Result) {
	r.Correct += o.Correct
	r.Incorrect += o.Incorrect
	r.FalsePositives += o.FalsePositives
	r.FalseNegatives += o.FalseNegatives
}

func (r *Result) record(got, expected bool) {
	switch {
	case got == expected:
		r.Correct++
	case got:
		r.Incorrect++
		r.FalsePositives++
	default:
		r.Incorrect++
		r.FalseNegatives++
	}
}

// Evaluate runs every query against m and counts the outcomes. Queries are
// split into contiguous chunks across workers; each worker keeps its own
// partial Result and the partials are summed once all have finished. m must
// not be mutated while Evaluate runs.
func Evaluate(m Membership, queries []Query, workers int) Result {
	var total Result

	spans := partition.Split(len(queries), workers)
	if len(spans) <= 1 {
		for _, q := range queries {
			total.record(m.Query(q.Word), q.Expected)
		}
		return total
	}

	partials := make([]Result, len(spans))

	var wg sync.WaitGroup
	for w, s := range spans {
		chunk := queries[s.Start:s.End]
		partial := &partials[w]

		wg.Go(func() {
			for _, q := range chunk {
				partial.record(m.Query(q.Word), q.Expected)
			}
		})
	}
	wg.Wait()

	for _, p := range partials {
		total.Add(p)
	}
	return total
}
