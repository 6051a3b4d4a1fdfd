package sim

import (
	"encoding/binary"
	"math"

	"github.com/cespare/xxhash/v2"
	"github.com/zeusync/foresight/internal/core/collision"
)

// Digest fingerprints the contact stream of a run. Two runs of the same
// scenario must produce the same digest; replays and regression tests rely on it.
type Digest struct {
	h   *xxhash.Digest
	buf [8]byte
}

func NewDigest() *Digest {
	return &Digest{h: xxhash.New()}
}

// Add folds one contact into the digest.
func (d *Digest) Add(tick int, a, b string, r collision.Result) {
	d.putUint64(uint64(tick))
	_, _ = d.h.WriteString(a)
	_, _ = d.h.Write([]byte{0})
	_, _ = d.h.WriteString(b)
	_, _ = d.h.Write([]byte{0})
	d.putUint64(uint64(r.Step))
	d.putUint64(math.Float64bits(r.Distance))
}

func (d *Digest) Sum64() uint64 { return d.h.Sum64() }

func (d *Digest) putUint64(v uint64) {
	binary.LittleEndian.PutUint64(d.buf[:], v)
	_, _ = d.h.Write(d.buf[:])
}
