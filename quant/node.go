package quant

import "github.com/woodale/indexpal/rgba"

// node is one cell of the color tree. Channel sums accumulate at the deepest
// node reached during insertion; during reduction a parent absorbs its
// children's accumulators into its own, so after partial merging an internal
// node can carry a color band of its own alongside surviving children.
type node struct {
	children []*node

	pixelCount uint64
	rSum       uint64
	gSum       uint64
	bSum       uint64
	aSum       uint64

	// Palette index assigned to surviving bands during generation.
	index int
}

// octant selects the child slot for c at the given level using the level-th
// most significant bit of each channel.
func octant(c rgba.Color, level int, withAlpha bool) int {
	mask := uint8(0x80) >> uint(level)
	i := 0
	if c.R()&mask != 0 {
		i |= 4
	}
	if c.G()&mask != 0 {
		i |= 2
	}
	if c.B()&mask != 0 {
		i |= 1
	}
	if withAlpha && c.A()&mask != 0 {
		i |= 8
	}
	return i
}

func (n *node) accumulate(c rgba.Color) {
	n.pixelCount++
	n.rSum += uint64(c.R())
	n.gSum += uint64(c.G())
	n.bSum += uint64(c.B())
	n.aSum += uint64(c.A())
}

// absorb folds child into n's own accumulators.
func (n *node) absorb(child *node) {
	n.pixelCount += child.pixelCount
	n.rSum += child.rSum
	n.gSum += child.gSum
	n.bSum += child.bSum
	n.aSum += child.aSum
}

// average returns the mean color of the pixels accumulated at n, rounded to
// the nearest integer per channel. Only valid for populated nodes.
func (n *node) average() rgba.Color {
	half := n.pixelCount / 2
	return rgba.Rgba(
		uint8((n.rSum+half)/n.pixelCount),
		uint8((n.gSum+half)/n.pixelCount),
		uint8((n.bSum+half)/n.pixelCount),
		uint8((n.aSum+half)/n.pixelCount))
}

// appendBands collects populated nodes depth first, children before their
// parent's own band, which is deterministic for any feeding order.
func (n *node) appendBands(bands []*node) []*node {
	for _, c := range n.children {
		if c != nil {
			bands = c.appendBands(bands)
		}
	}
	if n.pixelCount > 0 {
		bands = append(bands, n)
	}
	return bands
}

// countBands returns the number of populated nodes under and including n.
func (n *node) countBands() int {
	count := 0
	for _, c := range n.children {
		if c != nil {
			count += c.countBands()
		}
	}
	if n.pixelCount > 0 {
		count++
	}
	return count
}
