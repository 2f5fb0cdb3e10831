package bloom

import (
	"fmt"
	"strconv"

	"github.com/cespare/xxhash/v2"
	"github.com/twmb/murmur3"

	"wordbloom.lopezb.com/internal/wordbloom/jenkins"
)

// Scheme names a method for deriving k probe positions from one item.
type Scheme uint8

const (
	// SchemeDouble steps from the Jenkins hash by an odd xxHash-derived stride.
	SchemeDouble Scheme = iota
	// SchemeSalted hashes the item suffixed with each probe index.
	SchemeSalted
	// SchemeSeeded runs murmur3 once per probe with the probe index as seed.
	SchemeSeeded
	// SchemeSingle puts every probe on the plain Jenkins position.
	SchemeSingle
)

// saltSeparator joins an item and its probe index under SchemeSalted.
const saltSeparator = "\x00"

var schemeNames = [...]string{
	SchemeDouble: "double",
	SchemeSalted: "salted",
	SchemeSeeded: "seeded",
	SchemeSingle: "single",
}

func (s Scheme) valid() bool {
	return int(s) < len(schemeNames)
}

func (s Scheme) String() string {
	if !s.valid() {
		return "Scheme(" + strconv.Itoa(int(s)) + ")"
	}
	return schemeNames[s]
}

// ParseScheme maps a scheme name back to its value.
func ParseScheme(name string) (Scheme, error) {
	for i, n := range schemeNames {
		if n == name {
			return Scheme(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidScheme, name)
}

// MarshalText implements encoding.TextMarshaler.
func (s Scheme) MarshalText() ([]byte, error) {
	if !s.valid() {
		return nil, fmt.Errorf("%w: %d", ErrInvalidScheme, s)
	}
	return []byte(schemeNames[s]), nil
}

// UnmarshalText implements encoding.TextUnmarshaler, which lets flag.TextVar
// and envconfig decode scheme names directly.
func (s *Scheme) UnmarshalText(text []byte) error {
	v, err := ParseScheme(string(text))
	if err != nil {
		return err
	}
	*s = v
	return nil
}

// prober computes the probe positions of one item. Whatever can be shared
// between probes is hashed once in newProber.
type prober struct {
	scheme Scheme
	m      uint64
	h1, h2 uint64
	state  uint32
	data   []byte
	buf    [20]byte
}

func newProber(scheme Scheme, item string, m uint64) prober {
	p := prober{scheme: scheme, m: m}

	switch scheme {
	case SchemeDouble:
		p.h1 = uint64(jenkins.Sum32(item))
		// An odd step keeps consecutive probes from repeating when M is a
		// power of two.
		p.h2 = (xxhash.Sum64String(item) >> 32) | 1
	case SchemeSalted:
		p.state = jenkins.Accumulate(jenkins.Accumulate(0, item), saltSeparator)
	case SchemeSeeded:
		p.data = []byte(item)
	case SchemeSingle:
		p.h1 = uint64(jenkins.Sum32(item)) % m
	}

	return p
}

// at returns the position of probe i, in [0, M).
func (p *prober) at(i int) uint64 {
	switch p.scheme {
	case SchemeDouble:
		return (p.h1 + uint64(i)*p.h2) % p.m
	case SchemeSalted:
		suffix := strconv.AppendUint(p.buf[:0], uint64(i), 10)
		return uint64(jenkins.Finish(jenkins.AccumulateBytes(p.state, suffix))) % p.m
	case SchemeSeeded:
		return uint64(murmur3.SeedSum32(uint32(i), p.data)) % p.m
	default:
		return p.h1
	}
}
