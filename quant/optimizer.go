package quant

import (
	"image"
	"sort"

	"github.com/woodale/indexpal/palette"
	"github.com/woodale/indexpal/rgba"
)

// PaletteOptimizer selects a palette directly from histogram bucket weights,
// preferring the most frequently occurring color regions over the octree's
// spatial merging.
type PaletteOptimizer struct {
	histogram *ColorHistogram
}

// NewPaletteOptimizer returns an optimizer at the default 5/6/5/5 resolution.
func NewPaletteOptimizer() *PaletteOptimizer {
	return NewPaletteOptimizerConfig(DefaultHistogramConfig)
}

// NewPaletteOptimizerConfig returns an optimizer with a custom resolution.
func NewPaletteOptimizerConfig(cfg HistogramConfig) *PaletteOptimizer {
	return &PaletteOptimizer{
		histogram: NewColorHistogram(cfg),
	}
}

// FeedImage feeds every pixel of m in row-major order. When withAlpha is
// unset, fully transparent pixels are skipped and the rest are fed opaque.
func (o *PaletteOptimizer) FeedImage(m image.Image, withAlpha bool) {
	b := m.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			c := rgba.FromColor(m.At(x, y))
			if !withAlpha {
				if c.Transparent() {
					continue
				}
				c = rgba.Rgba(c.R(), c.G(), c.B(), 0xff)
			}
			o.FeedColor(c)
		}
	}
}

// FeedColor feeds a single color.
func (o *PaletteOptimizer) FeedColor(c rgba.Color) {
	o.histogram.AddColor(c)
}

// Calculate fills pal with the heaviest populated buckets, dequantized back
// to full-resolution colors. Buckets rank by descending weight; equal
// weights resolve to the lower bucket index. When maskIndex addresses a
// palette slot, that slot receives the transparent mask color and is
// excluded from selection. Slots beyond the populated bucket count keep
// their default color.
func (o *PaletteOptimizer) Calculate(pal *palette.Palette, maskIndex int) {
	weights := o.histogram.populated()
	sort.SliceStable(weights, func(i, j int) bool {
		return weights[i].count > weights[j].count
	})

	next := 0
	for slot := 0; slot < pal.Size() && next < len(weights); slot++ {
		if slot == maskIndex {
			continue
		}
		pal.SetColor(slot, o.histogram.dequantize(weights[next].bucket))
		next++
	}

	if maskIndex >= 0 && maskIndex < pal.Size() {
		pal.SetColor(maskIndex, rgba.Rgba(0, 0, 0, 0))
		pal.SetMaskIndex(maskIndex)
	}
}
