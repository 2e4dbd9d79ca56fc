package palette

import "github.com/woodale/indexpal/rgba"

// Table resolution in bits per channel. 5/5/5/3 keeps the whole table at
// 256 KB of int16 entries while still separating nearby palette entries.
const (
	mapRBits = 5
	mapGBits = 5
	mapBBits = 5
	mapABits = 3

	mapEntries = 1 << (mapRBits + mapGBits + mapBBits + mapABits)
)

// Channel weights for the nearest-color distance. Green dominates, matching
// its contribution to perceived luminance; alpha is weighted high so
// translucent colors are not matched to opaque ones.
const (
	weightR = 2
	weightG = 4
	weightB = 3
	weightA = 8
)

// Copied from color.sqDiff
func sqDiff(x, y uint8) uint32 {
	d := uint32(x) - uint32(y)
	return (d * d) >> 2
}

// RgbMap maps arbitrary colors to their nearest palette index. Lookups are
// cached per quantized table cell, so repeated queries over an image cost one
// palette scan per distinct cell. The palette must not be mutated while the
// map is in use.
type RgbMap struct {
	p       *Palette
	entries []int16 // -1 marks a cell not yet computed
}

// NewRgbMap returns an empty lookup map over p.
func NewRgbMap(p *Palette) *RgbMap {
	m := &RgbMap{
		p:       p,
		entries: make([]int16, mapEntries),
	}
	for i := range m.entries {
		m.entries[i] = -1
	}
	return m
}

func mapIndex(c rgba.Color) int {
	r := int(c.R()) >> (8 - mapRBits)
	g := int(c.G()) >> (8 - mapGBits)
	b := int(c.B()) >> (8 - mapBBits)
	a := int(c.A()) >> (8 - mapABits)
	return ((r<<mapGBits|g)<<mapBBits|b)<<mapABits | a
}

func distance(c1, c2 rgba.Color) uint32 {
	return weightR*sqDiff(c1.R(), c2.R()) +
		weightG*sqDiff(c1.G(), c2.G()) +
		weightB*sqDiff(c1.B(), c2.B()) +
		weightA*sqDiff(c1.A(), c2.A())
}

// nearest scans the palette for the entry closest to c, skipping the mask
// index. Ties resolve to the lowest index.
func (m *RgbMap) nearest(c rgba.Color) int {
	best := -1
	bestDist := uint32(1<<32 - 1)
	for i := 0; i < m.p.Size(); i++ {
		if i == m.p.MaskIndex() {
			continue
		}
		if d := distance(c, m.p.Color(i)); d < bestDist {
			best, bestDist = i, d
		}
	}
	if best < 0 {
		// Palette holds only the mask entry.
		best = 0
	}
	return best
}

// MapColor returns the palette index nearest to c. Fully transparent colors
// map to the mask index when the palette designates one.
func (m *RgbMap) MapColor(c rgba.Color) int {
	if c.Transparent() && m.p.MaskIndex() != NoMask {
		return m.p.MaskIndex()
	}
	i := mapIndex(c)
	if m.entries[i] < 0 {
		m.entries[i] = int16(m.nearest(c))
	}
	return int(m.entries[i])
}
