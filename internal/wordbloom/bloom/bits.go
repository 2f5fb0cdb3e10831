package bloom

import (
	"fmt"
	"sync/atomic"
)

// bitArray is a packed array of n bits safe for concurrent set and test.
type bitArray struct {
	words []uint64
	n     uint64
}

// newBitArray allocates n zeroed bits. A makeslice panic (length out of range
// for this platform) is turned into ErrAllocation.
func newBitArray(n uint64) (arr bitArray, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %d bits: %v", ErrAllocation, n, r)
		}
	}()

	numWords := (n + 63) / 64
	if numWords != uint64(int(numWords)) {
		return bitArray{}, fmt.Errorf("%w: %d bits exceed address space", ErrAllocation, n)
	}

	return bitArray{words: make([]uint64, int(numWords)), n: n}, nil
}

// set turns bit pos on. The load first skips the read-modify-write on bits that
// are already set, which is the common case once a filter fills up.
func (b *bitArray) set(pos uint64) {
	w := &b.words[pos>>6]
	mask := uint64(1) << (pos & 63)
	if atomic.LoadUint64(w)&mask != 0 {
		return
	}
	atomic.OrUint64(w, mask)
}

func (b *bitArray) test(pos uint64) bool {
	return atomic.LoadUint64(&b.words[pos>>6])&(uint64(1)<<(pos&63)) != 0
}

func (b *bitArray) load(i int) uint64 {
	return atomic.LoadUint64(&b.words[i])
}
