package quant

import "github.com/woodale/indexpal/rgba"

// HistogramConfig carries the per-channel bucket resolution in bits. Each
// width is clamped to [1, 8].
type HistogramConfig struct {
	RBits, GBits, BBits, ABits int
}

// DefaultHistogramConfig is the 5/6/5/5 resolution used by the histogram
// palette optimizer; green gets the extra bit.
var DefaultHistogramConfig = HistogramConfig{RBits: 5, GBits: 6, BBits: 5, ABits: 5}

func clampBits(b int) int {
	if b < 1 {
		return 1
	}
	if b > 8 {
		return 8
	}
	return b
}

// ColorHistogram counts fed colors in a fixed-resolution multi-dimensional
// bucket array over quantized RGBA space.
type ColorHistogram struct {
	cfg     HistogramConfig
	buckets []uint32
}

// NewColorHistogram returns an empty histogram with the given resolution.
func NewColorHistogram(cfg HistogramConfig) *ColorHistogram {
	cfg.RBits = clampBits(cfg.RBits)
	cfg.GBits = clampBits(cfg.GBits)
	cfg.BBits = clampBits(cfg.BBits)
	cfg.ABits = clampBits(cfg.ABits)
	return &ColorHistogram{
		cfg:     cfg,
		buckets: make([]uint32, 1<<uint(cfg.RBits+cfg.GBits+cfg.BBits+cfg.ABits)),
	}
}

func (h *ColorHistogram) bucketOf(c rgba.Color) int {
	r := int(c.R()) >> uint(8-h.cfg.RBits)
	g := int(c.G()) >> uint(8-h.cfg.GBits)
	b := int(c.B()) >> uint(8-h.cfg.BBits)
	a := int(c.A()) >> uint(8-h.cfg.ABits)
	return ((r<<uint(h.cfg.GBits)|g)<<uint(h.cfg.BBits)|b)<<uint(h.cfg.ABits) | a
}

// AddColor increments the bucket holding c.
func (h *ColorHistogram) AddColor(c rgba.Color) {
	h.buckets[h.bucketOf(c)]++
}

// Weight returns the accumulated count of the bucket holding c.
func (h *ColorHistogram) Weight(c rgba.Color) uint32 {
	return h.buckets[h.bucketOf(c)]
}

// expand scales a quantized channel value back to full 8-bit range so that
// the lowest bucket maps to 0 and the highest to 255.
func expand(v, bits int) uint8 {
	max := (1 << uint(bits)) - 1
	return uint8(v * 255 / max)
}

// dequantize reconstructs the representative full-resolution color of bucket i.
func (h *ColorHistogram) dequantize(i int) rgba.Color {
	a := i & ((1 << uint(h.cfg.ABits)) - 1)
	i >>= uint(h.cfg.ABits)
	b := i & ((1 << uint(h.cfg.BBits)) - 1)
	i >>= uint(h.cfg.BBits)
	g := i & ((1 << uint(h.cfg.GBits)) - 1)
	i >>= uint(h.cfg.GBits)
	r := i

	return rgba.Rgba(
		expand(r, h.cfg.RBits),
		expand(g, h.cfg.GBits),
		expand(b, h.cfg.BBits),
		expand(a, h.cfg.ABits))
}

// bucketWeight pairs a populated bucket with its accumulated count.
type bucketWeight struct {
	bucket int
	count  uint32
}

// populated returns every non-empty bucket in ascending bucket order.
func (h *ColorHistogram) populated() []bucketWeight {
	var weights []bucketWeight
	for i, count := range h.buckets {
		if count > 0 {
			weights = append(weights, bucketWeight{bucket: i, count: count})
		}
	}
	return weights
}
