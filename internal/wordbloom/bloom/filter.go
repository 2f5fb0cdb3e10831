// Package bloom implements a fixed-size Bloom filter over words with a
// data-parallel bulk construction path.
//
// A Bloom filter answers "definitely not present" or "possibly present". Items
// are never stored; each one is reduced to k probe positions in a bit array of
// M bits, and insertion sets those bits. A query that finds any probe bit clear
// proves the item was never inserted. When all probe bits are set the item is
// only *possibly* present, because other items may have set the same bits.
//
// Bits only ever go from 0 to 1. Insertions are therefore a pure union: they
// commute, they are idempotent, and they cannot produce a false negative no
// matter how concurrent writers interleave.
//
// Probe Derivation
// ================
//
// The base hash is Jenkins' one-at-a-time function (see package jenkins). A
// single 32-bit value reduced modulo M gives one position; re-reducing the same
// value k times gives the same position k times, which degenerates the filter
// into k=1. The Scheme type names how k distinct positions are derived:
//
//   - SchemeDouble (default): Kirsch-Mitzenmacher double hashing,
//     pos_i = (h1 + i*h2) mod M, where h1 is the Jenkins hash and h2 is the
//     upper half of the item's xxHash, forced odd.
//   - SchemeSalted: pos_i = jenkins(item + "\x00" + decimal(i)) mod M. The
//     Jenkins state after the prefix is computed once per item.
//   - SchemeSeeded: pos_i = murmur3(item, seed=i) mod M.
//   - SchemeSingle: pos_i = jenkins(item) mod M for every i. All probes
//     collapse onto one bit, so the filter behaves as if k were 1. It exists
//     for bit-compatible comparison with older word-list benchmarks.
//
// Concurrency Model
// =================
//
// BulkInsert statically partitions the *items* (not the bit array) into one
// contiguous chunk per worker and runs the sequential insert logic on each
// chunk in its own goroutine against the shared array. The array is packed
// into uint64 words, so two workers may target different bits of the same
// word. Every write is an atomic OR and every read an atomic load, which keeps
// such writes from clobbering each other without any lock.
//
// Insert phases and query phases are expected not to overlap. Querying while
// another goroutine inserts is memory safe but the answer for the item being
// inserted is unspecified.
//
// Data Layout
// ===========
//
//	+----------+----------+-----+----------------+
//	| Word 0   | Word 1   | ... | Word (M-1)/64  |
//	| bits 0.. | bits 64..|     | unused tail    |
//	+----------+----------+-----+----------------+
//	  64 bits    64 bits
//
// Bit p lives in word p/64 at bit p%64. Tail bits past M are never touched.
package bloom

import (
	"errors"
	"math/bits"
	"sync"

	"github.com/bits-and-blooms/bitset"

	"wordbloom.lopezb.com/internal/wordbloom/partition"
)

const (
	// Defaults: ten million bits, four probes, four workers.
	DefaultBits    = 10_000_000
	DefaultProbes  = 4
	DefaultWorkers = 4

	// MaxBits bounds the bit array at 16 GiB of memory. Larger requests are
	// rejected at construction instead of letting the allocator abort the
	// process.
	MaxBits = 1 << 37
)

var (
	ErrInvalidBits    = errors.New("bloom: bit array size must be at least 1")
	ErrInvalidProbes  = errors.New("bloom: probe count must be at least 1")
	ErrInvalidWorkers = errors.New("bloom: worker count must be at least 1")
	ErrInvalidScheme  = errors.New("bloom: unknown probe scheme")
	ErrAllocation     = errors.New("bloom: cannot allocate bit array")
)

// Config holds the construction parameters of a Filter. They are fixed for
// the lifetime of the filter.
type Config struct {
	// Bits is M, the length of the bit array.
	Bits uint64

	// Probes is k, the number of bit positions derived per item.
	Probes int

	// Workers is the number of goroutines BulkInsert fans out to. A value of 1
	// makes BulkInsert identical to calling Insert in a loop.
	Workers int

	// Scheme selects how the k probe positions are derived.
	Scheme Scheme
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		Bits:    DefaultBits,
		Probes:  DefaultProbes,
		Workers: DefaultWorkers,
		Scheme:  SchemeDouble,
	}
}

// Validate reports the first configuration error, if any. Nothing is clamped.
func (c Config) Validate() error {
	if c.Bits == 0 {
		return ErrInvalidBits
	}
	if c.Probes < 1 {
		return ErrInvalidProbes
	}
	if c.Workers < 1 {
		return ErrInvalidWorkers
	}
	if !c.Scheme.valid() {
		return ErrInvalidScheme
	}
	if c.Bits > MaxBits {
		return ErrAllocation
	}
	return nil
}

// Filter is a Bloom filter with a fixed bit array and probe count.
type Filter struct {
	bits    bitArray
	probes  int
	workers int
	scheme  Scheme
}

// New allocates an empty filter. Configuration errors and allocation failures
// are returned before any filter is observable.
func New(cfg Config) (*Filter, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	arr, err := newBitArray(cfg.Bits)
	if err != nil {
		return nil, err
	}

	return &Filter{
		bits:    arr,
		probes:  cfg.Probes,
		workers: cfg.Workers,
		scheme:  cfg.Scheme,
	}, nil
}

// Insert sets the k probe bits of item. Any string is valid, including the
// empty string, and inserting the same item again changes nothing.
func (f *Filter) Insert(item string) {
	p := newProber(f.scheme, item, f.bits.n)
	for i := 0; i < f.probes; i++ {
		f.bits.set(p.at(i))
	}
}

// Query reports whether item is possibly present. It returns false as soon as
// one probe bit is clear; a false answer is always correct.
func (f *Filter) Query(item string) bool {
	p := newProber(f.scheme, item, f.bits.n)
	for i := 0; i < f.probes; i++ {
		if !f.bits.test(p.at(i)) {
			return false
		}
	}
	return true
}

// BulkInsert inserts all items using the configured worker count and blocks
// until every worker has finished.
func (f *Filter) BulkInsert(items []string) {
	f.BulkInsertN(items, f.workers)
}

// BulkInsertN is BulkInsert with an explicit worker count. A count below 1
// falls back to the configured one.
func (f *Filter) BulkInsertN(items []string, workers int) {
	//
	// DESIGN
	// ------
	//
	// The item slice is cut into contiguous chunks up front, one per worker,
	// the last one absorbing the remainder. Workers share nothing but the bit
	// array, and the only operation they perform on it is an atomic OR, so
	// the final state is the union of every chunk's bits regardless of
	// scheduling.
	//
	// With a single worker (or a single item) we stay on the calling
	// goroutine, which is exactly the sequential path.
	//

	if workers < 1 {
		workers = f.workers
	}

	spans := partition.Split(len(items), workers)
	if len(spans) <= 1 {
		for _, item := range items {
			f.Insert(item)
		}
		return
	}

	var wg sync.WaitGroup
	for _, s := range spans {
		chunk := items[s.Start:s.End]
		wg.Go(func() {
			for _, item := range chunk {
				f.Insert(item)
			}
		})
	}
	wg.Wait()
}

// Positions returns the probe set of item in probe order. Positions may repeat
// when probes collide.
func (f *Filter) Positions(item string) []uint64 {
	p := newProber(f.scheme, item, f.bits.n)
	out := make([]uint64, f.probes)
	for i := range out {
		out[i] = p.at(i)
	}
	return out
}

// Test reports whether bit pos is set. Positions outside [0, M) report false.
func (f *Filter) Test(pos uint64) bool {
	if pos >= f.bits.n {
		return false
	}
	return f.bits.test(pos)
}

// Bits returns M.
func (f *Filter) Bits() uint64 { return f.bits.n }

// Probes returns k.
func (f *Filter) Probes() int { return f.probes }

// Workers returns the default BulkInsert fan-out.
func (f *Filter) Workers() int { return f.workers }

// Scheme returns the probe derivation scheme.
func (f *Filter) Scheme() Scheme { return f.scheme }

// SetBits counts the bits currently set.
func (f *Filter) SetBits() uint64 {
	var n uint64
	for i := range f.bits.words {
		n += uint64(bits.OnesCount64(f.bits.load(i)))
	}
	return n
}

// FillRatio is the fraction of bits set, in [0, 1].
func (f *Filter) FillRatio() float64 {
	return float64(f.SetBits()) / float64(f.bits.n)
}

// Snapshot copies the bit array into a bitset of length M.
func (f *Filter) Snapshot() *bitset.BitSet {
	words := make([]uint64, len(f.bits.words))
	for i := range words {
		words[i] = f.bits.load(i)
	}
	return bitset.FromWithLength(uint(f.bits.n), words)
}

// Equal reports whether two filters share a configuration and have identical
// bit arrays. The worker count is not part of the comparison.
func (f *Filter) Equal(other *Filter) bool {
	if f.bits.n != other.bits.n || f.probes != other.probes || f.scheme != other.scheme {
		return false
	}
	for i := range f.bits.words {
		if f.bits.load(i) != other.bits.load(i) {
			return false
		}
	}
	return true
}
