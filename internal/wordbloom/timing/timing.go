// Package timing measures the wall-clock duration of scoped operations and
// reports them in recording order unless reordered.
package timing

import (
	"fmt"
	"io"
	"log/slog"
	"time"
)

// Measure runs fn and returns how long it took on the monotonic clock.
func Measure(fn func()) time.Duration {
	start := time.Now()
	fn()
	return time.Since(start)
}

// Phase is one named, measured step. An enclosing phase spans other phases,
// like the overall run time, and is left out of Total.
type Phase struct {
	Name      string
	Duration  time.Duration
	Enclosing bool
}

// Report collects phases in recording order. The zero value is ready to use.
// A Report is not safe for concurrent use.
type Report struct {
	phases []Phase
}

// Record appends a phase with an already measured duration.
func (r *Report) Record(name string, d time.Duration) {
	r.phases = append(r.phases, Phase{Name: name, Duration: d})
}

// RecordEnclosing appends a phase that spans previously recorded ones.
func (r *Report) RecordEnclosing(name string, d time.Duration) {
	r.phases = append(r.phases, Phase{Name: name, Duration: d, Enclosing: true})
}

// Time measures fn and records it under name.
func (r *Report) Time(name string, fn func()) time.Duration {
	d := Measure(fn)
	r.Record(name, d)
	return d
}

// Phases returns a copy of the recorded phases.
func (r *Report) Phases() []Phase {
	return append([]Phase(nil), r.phases...)
}

// Lookup returns the duration of the first phase called name.
func (r *Report) Lookup(name string) (time.Duration, bool) {
	for _, p := range r.phases {
		if p.Name == name {
			return p.Duration, true
		}
	}
	return 0, false
}

// Total sums the durations of all phases that are not enclosing.
func (r *Report) Total() time.Duration {
	var total time.Duration
	for _, p := range r.phases {
		if !p.Enclosing {
			total += p.Duration
		}
	}
	return total
}

// Reorder returns a copy of r with the named phases first, in the given
// order, followed by the remaining phases in recording order. Names that were
// never recorded are ignored.
func (r *Report) Reorder(names ...string) *Report {
	out := &Report{phases: make([]Phase, 0, len(r.phases))}
	taken := make([]bool, len(r.phases))

	for _, name := range names {
		for i, p := range r.phases {
			if !taken[i] && p.Name == name {
				out.phases = append(out.phases, p)
				taken[i] = true
				break
			}
		}
	}
	for i, p := range r.phases {
		if !taken[i] {
			out.phases = append(out.phases, p)
		}
	}
	return out
}

// WriteTo prints one "Overall <Name> Time: <seconds> s" line per phase.
func (r *Report) WriteTo(w io.Writer) (int64, error) {
	var written int64
	for _, p := range r.phases {
		n, err := fmt.Fprintf(w, "Overall %s Time: %g s\n", p.Name, p.Duration.Seconds())
		written += int64(n)
		if err != nil {
			return written, err
		}
	}
	return written, nil
}

// Log emits one info record per phase.
func (r *Report) Log(logger *slog.Logger) {
	for _, p := range r.phases {
		logger.Info("phase completed", "phase", p.Name, "duration", p.Duration)
	}
}
