package jenkins

import (
	"testing"
)

func TestSum32_KnownVectors(t *testing.T) {
	testCases := []struct {
		name  string
		input string
		want  uint32
	}{
		{name: "empty", input: "", want: 0},
		{name: "single byte", input: "a", want: 0xca2e9442},
		{name: "pangram", input: "The quick brown fox jumps over the lazy dog", want: 0x519e91f5},
		{name: "cat", input: "cat", want: 0x4503a9a9},
		{name: "dog", input: "dog", want: 0x8b09733b},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Sum32(tc.input); got != tc.want {
				t.Errorf("Sum32(%q) = %#08x, want %#08x", tc.input, got, tc.want)
			}
			if got := Sum32Bytes([]byte(tc.input)); got != tc.want {
				t.Errorf("Sum32Bytes(%q) = %#08x, want %#08x", tc.input, got, tc.want)
			}
		})
	}
}

func TestSum32_Deterministic(t *testing.T) {
	for _, s := range []string{"", "x", "hello world", "Bloom"} {
		if Sum32(s) != Sum32(s) {
			t.Errorf("Sum32(%q) is not stable across calls", s)
		}
	}
}

func TestAccumulate_Streaming(t *testing.T) {
	word := "shakespeare"
	for split := 0; split <= len(word); split++ {
		h := Accumulate(0, word[:split])
		h = AccumulateBytes(h, []byte(word[split:]))
		if got, want := Finish(h), Sum32(word); got != want {
			t.Errorf("split at %d: got %#08x, want %#08x", split, got, want)
		}
	}
}

func TestSum32_OrderSensitive(t *testing.T) {
	// Same multiset of bytes, different order.
	if Sum32("ab") == Sum32("ba") {
		t.Error("Sum32 should not be commutative over input bytes")
	}
	if Sum32("listen") == Sum32("silent") {
		t.Error("anagrams should hash differently")
	}
}

// TestSum32_Avalanche flips one input bit and checks that a healthy share of
// output bits change on average.
func TestSum32_Avalanche(t *testing.T) {
	const trials = 2000
	totalFlipped := 0

	for i := 0; i < trials; i++ {
		buf := []byte{byte(i), byte(i >> 8), 'w', 'o', 'r', 'd'}
		base := Sum32Bytes(buf)

		buf[2] ^= 1 << uint(i%8)
		diff := base ^ Sum32Bytes(buf)

		for diff != 0 {
			totalFlipped += int(diff & 1)
			diff >>= 1
		}
	}

	avg := float64(totalFlipped) / trials
	t.Logf("average flipped output bits: %.2f / 32", avg)

	if avg < 10 || avg > 22 {
		t.Errorf("average flipped bits %.2f outside [10, 22]", avg)
	}
}

func BenchmarkSum32(b *testing.B) {
	word := "extraordinarily"
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		_ = Sum32(word)
	}
}
