package bloom

import (
	"errors"
	"strconv"
	"testing"

	"github.com/twmb/murmur3"

	"wordbloom.lopezb.com/internal/wordbloom/jenkins"
)

func TestScheme_TextRoundTrip(t *testing.T) {
	for _, scheme := range allSchemes {
		text, err := scheme.MarshalText()
		if err != nil {
			t.Fatalf("MarshalText(%d) failed: %v", scheme, err)
		}

		var got Scheme
		if err := got.UnmarshalText(text); err != nil {
			t.Fatalf("UnmarshalText(%q) failed: %v", text, err)
		}
		if got != scheme {
			t.Errorf("round trip of %v gave %v", scheme, got)
		}
	}
}

func TestParseScheme_Unknown(t *testing.T) {
	if _, err := ParseScheme("triple"); !errors.Is(err, ErrInvalidScheme) {
		t.Errorf("ParseScheme(triple) error = %v, want ErrInvalidScheme", err)
	}
	if _, err := Scheme(9).MarshalText(); !errors.Is(err, ErrInvalidScheme) {
		t.Errorf("MarshalText(9) error = %v, want ErrInvalidScheme", err)
	}
	if got := Scheme(9).String(); got != "Scheme(9)" {
		t.Errorf("String() = %q", got)
	}
}

// TestProber_MatchesDefinitions recomputes every scheme from its definition.
func TestProber_MatchesDefinitions(t *testing.T) {
	const m = 1_000_003
	items := []string{"", "a", "whale", "Ishmael", "to be or not to be"}

	for _, item := range items {
		for i := 0; i < 12; i++ {
			single := newProber(SchemeSingle, item, m)
			if got, want := single.at(i), uint64(jenkins.Sum32(item))%m; got != want {
				t.Errorf("single(%q, %d) = %d, want %d", item, i, got, want)
			}

			salted := newProber(SchemeSalted, item, m)
			want := uint64(jenkins.Sum32(item+saltSeparator+strconv.Itoa(i))) % m
			if got := salted.at(i); got != want {
				t.Errorf("salted(%q, %d) = %d, want %d", item, i, got, want)
			}

			seeded := newProber(SchemeSeeded, item, m)
			want = uint64(murmur3.SeedSum32(uint32(i), []byte(item))) % m
			if got := seeded.at(i); got != want {
				t.Errorf("seeded(%q, %d) = %d, want %d", item, i, got, want)
			}

			double := newProber(SchemeDouble, item, m)
			if got := double.at(0); got != uint64(jenkins.Sum32(item))%m {
				t.Errorf("double(%q, 0) = %d, want the Jenkins position", item, got)
			}
			if double.h2%2 != 1 {
				t.Errorf("double(%q) step %d is even", item, double.h2)
			}
		}
	}
}

// TestProber_SeededVectors pins SchemeSeeded to murmur3 x86_32 output. With
// M = 2^32 the reduction is the identity.
func TestProber_SeededVectors(t *testing.T) {
	testCases := []struct {
		item string
		i    int
		want uint64
	}{
		{item: "", i: 1, want: 0x514e28b7},
		{item: "abc", i: 2, want: 0x96c13c57},
		{item: "whale", i: 0, want: 0x44eed0d9},
		{item: "whale", i: 3, want: 0x4ec83b62},
	}

	for _, tc := range testCases {
		p := newProber(SchemeSeeded, tc.item, 1<<32)
		if got := p.at(tc.i); got != tc.want {
			t.Errorf("seeded(%q, %d) = %#x, want %#x", tc.item, tc.i, got, tc.want)
		}
	}
}

// TestSeeded_ConcurrentTailBytes runs seeded probes on items whose length is
// not a multiple of four from several goroutines, so `go test -race` exercises
// murmur3's tail handling under checkptr.
func TestSeeded_ConcurrentTailBytes(t *testing.T) {
	f := newTestFilter(t, 1024, 4, 4, SchemeSeeded)
	items := []string{"a", "ab", "abc", "whale", "Ishmael", "harpoons", "Queequeg!"}
	for i := 0; i < 6; i++ {
		items = append(items, items...)
	}

	f.BulkInsert(items)

	for _, item := range items[:7] {
		if !f.Query(item) {
			t.Fatalf("false negative for %q", item)
		}
	}
}
