/*
Package quant implements the two palette quantizers: an octree color tree
with weighted reduction, and a histogram optimizer that picks the palette
directly from bucket weights.

Both are single-use builders; feed one or more images (or individual colors),
then generate the palette exactly once.
*/
package quant

import (
	"image"
	"sort"

	"github.com/woodale/indexpal/palette"
	"github.com/woodale/indexpal/rgba"
)

const (
	minDepth = 1
	maxDepth = 8
)

// Octree builds a color tree from fed pixels and reduces it to at most the
// target number of color bands, each band becoming one palette entry.
type Octree struct {
	root      *node
	levels    [][]*node // internal nodes per level, in creation order
	target    int
	levelDeep int
	withAlpha bool
}

// NewOctree returns an octree quantizer producing at most target colors from
// a tree levelDeep levels deep. The depth is clamped to [1, 8]. When
// withAlpha is set the tree partitions alpha alongside the color channels,
// otherwise fully transparent pixels are skipped while feeding.
func NewOctree(target, levelDeep int, withAlpha bool) *Octree {
	if levelDeep < minDepth {
		levelDeep = minDepth
	}
	if levelDeep > maxDepth {
		levelDeep = maxDepth
	}
	t := &Octree{
		levels:    make([][]*node, levelDeep),
		target:    target,
		levelDeep: levelDeep,
		withAlpha: withAlpha,
	}
	t.root = t.newNode(0)
	return t
}

func (t *Octree) newNode(level int) *node {
	n := &node{}
	if level < t.levelDeep {
		n.children = make([]*node, t.childCount())
		t.levels[level] = append(t.levels[level], n)
	}
	return n
}

func (t *Octree) childCount() int {
	if t.withAlpha {
		return 16
	}
	return 8
}

// FeedImage inserts every pixel of m in row-major order.
func (t *Octree) FeedImage(m image.Image) {
	b := m.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			c := rgba.FromColor(m.At(x, y))
			if !t.withAlpha && c.Transparent() {
				continue
			}
			t.AddColor(c)
		}
	}
}

// AddColor descends from the root, creating children on demand, and
// accumulates c at the deepest level. Colors are never inserted below the
// configured depth, so insertion is O(levelDeep).
func (t *Octree) AddColor(c rgba.Color) {
	if !t.withAlpha {
		c = rgba.Rgba(c.R(), c.G(), c.B(), 0xff)
	}
	n := t.root
	for level := 0; level < t.levelDeep; level++ {
		i := octant(c, level, t.withAlpha)
		if n.children[i] == nil {
			n.children[i] = t.newNode(level + 1)
		}
		n = n.children[i]
	}
	n.accumulate(c)
}

// childRef pairs a child with its octant slot for merge ordering.
type childRef struct {
	slot  int
	child *node
}

// reduce merges bands upward until at most target remain. Levels are
// processed deepest first and, within a level, parents in creation order; a
// parent absorbs its children lightest first (ties: lowest octant slot), so
// heavy bands survive as long as possible. Merging stops the moment the
// band count reaches the target, which can leave a parent holding both its
// own merged band and unmerged heavier children.
func (t *Octree) reduce(bands int) {
	for level := t.levelDeep - 1; level >= 0; level-- {
		for _, n := range t.levels[level] {
			if bands <= t.target {
				return
			}
			if n.children == nil {
				continue
			}

			var refs []childRef
			for slot, c := range n.children {
				if c != nil {
					refs = append(refs, childRef{slot: slot, child: c})
				}
			}
			sort.SliceStable(refs, func(i, j int) bool {
				return refs[i].child.pixelCount < refs[j].child.pixelCount
			})

			merged := 0
			for _, ref := range refs {
				wasBand := n.pixelCount > 0
				n.absorb(ref.child)
				n.children[ref.slot] = nil
				merged++
				if wasBand {
					bands--
				}
				if bands <= t.target {
					break
				}
			}
			if merged == len(refs) {
				n.children = nil
			}
		}
	}
}

// GeneratePalette reduces the tree, averages each surviving band and writes
// the resulting colors into pal ordered by descending pixel count, skipping
// the slot reserved by maskIndex (pass palette.NoMask to use every slot).
// The palette is resized to the number of entries written, plus the mask
// slot when reserved. Each surviving band is assigned its palette index for
// later GetIndex lookups.
func (t *Octree) GeneratePalette(pal *palette.Palette, maskIndex int) {
	mask := 0
	if maskIndex != palette.NoMask {
		mask = 1
	}

	if t.target <= 0 {
		pal.Resize(mask)
		return
	}

	if bands := t.root.countBands(); bands > t.target {
		t.reduce(bands)
	}
	bands := t.root.appendBands(nil)

	// Most populated bands first; equal weights keep collection order.
	sort.SliceStable(bands, func(i, j int) bool {
		return bands[i].pixelCount > bands[j].pixelCount
	})

	pal.Resize(len(bands) + mask)
	slot := 0
	for _, n := range bands {
		if slot == maskIndex {
			slot++
		}
		n.index = slot
		pal.SetColor(slot, n.average())
		slot++
	}
}

// GetIndex re-descends the reduced tree and returns the palette index of the
// band absorbing c's octant path. The lookup is O(levelDeep) and exact for
// any color whose path reaches a surviving band. Call only after
// GeneratePalette.
func (t *Octree) GetIndex(c rgba.Color) int {
	if !t.withAlpha {
		c = rgba.Rgba(c.R(), c.G(), c.B(), 0xff)
	}
	n := t.root
	for level := 0; n.children != nil; level++ {
		next := n.children[octant(c, level, t.withAlpha)]
		if next == nil {
			// Dead octant: the color was merged into this node's own band,
			// or never fed at all. Fall back to the node band if it has
			// one, otherwise to the lowest populated sibling.
			if n.pixelCount > 0 {
				return n.index
			}
			for _, child := range n.children {
				if child != nil {
					next = child
					break
				}
			}
			if next == nil {
				return 0
			}
		}
		n = next
	}
	return n.index
}
