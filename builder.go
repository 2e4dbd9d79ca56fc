package indexpal

import (
	"errors"
	"image"
	"image/color"
	"image/draw"

	"github.com/ericpauley/go-quantize/quantize"
	"github.com/woodale/indexpal/palette"
	"github.com/woodale/indexpal/quant"
	"github.com/woodale/indexpal/rgba"
	"github.com/woodale/indexpal/task"
)

// Strategy selects which quantizer builds the palette.
type Strategy int

const (
	// StrategyOctree uses the octree color tree with weighted reduction.
	StrategyOctree Strategy = iota
	// StrategyHistogram picks the heaviest histogram buckets.
	StrategyHistogram
	// StrategyMedianCut uses median-cut over the composited frames.
	StrategyMedianCut
)

// ParseStrategy converts a strategy name as accepted on the command line.
func ParseStrategy(s string) (Strategy, error) {
	switch s {
	case "", "octree":
		return StrategyOctree, nil
	case "histogram":
		return StrategyHistogram, nil
	case "mediancut":
		return StrategyMedianCut, nil
	}
	return StrategyOctree, errors.New("indexpal: unknown strategy " + s)
}

// Sprite provides, per frame index, a fully composited RGBA image. Frame
// compositing itself is the provider's concern; the builder only reads the
// flattened result.
type Sprite interface {
	FrameCount() int
	Frame(i int) (image.Image, error)
}

// Tree depth used for palette building; full channel precision so that
// small color sets survive quantization exactly.
const builderTreeDepth = 8

// maskIndex is the palette slot reserved for full transparency.
const maskIndex = 0

func minimalPalette(pal *palette.Palette) *palette.Palette {
	pal.Resize(1)
	pal.SetColor(maskIndex, rgba.Rgba(0, 0, 0, 0))
	pal.SetMaskIndex(maskIndex)
	return pal
}

// CreatePaletteFromSprite builds one palette covering the frames
// [fromFrame, toFrame] of spr, feeding every frame into the quantizer
// selected by strategy. Color statistics accumulate across the whole range,
// so the palette reflects the entire animation. Index 0 is reserved as the
// transparent mask entry.
//
// pal gives the target palette size and receives the result; passing nil
// uses a new 256-entry palette. The delegate, if non-nil, is polled at every
// frame boundary: on cancellation the palette generated from the frames
// already fed is returned, or a minimal mask-only palette if no frame
// completed. An empty frame range also yields the minimal palette.
func CreatePaletteFromSprite(spr Sprite, fromFrame, toFrame int, withAlpha bool, pal *palette.Palette, delegate task.Delegate, strategy Strategy) (*palette.Palette, error) {
	if pal == nil || pal.Size() == 0 {
		pal = palette.New(palette.MaxSize)
	}

	if fromFrame < 0 {
		fromFrame = 0
	}
	if last := spr.FrameCount() - 1; toFrame > last {
		toFrame = last
	}
	if fromFrame > toFrame {
		return minimalPalette(pal), nil
	}

	switch strategy {
	case StrategyHistogram:
		return histogramPalette(spr, fromFrame, toFrame, withAlpha, pal, delegate)
	case StrategyMedianCut:
		return medianCutPalette(spr, fromFrame, toFrame, pal, delegate)
	default:
		return octreePalette(spr, fromFrame, toFrame, withAlpha, pal, delegate)
	}
}

// feedFrames drives the per-frame loop shared by all strategies: frames are
// visited in ascending order, the delegate is polled before each one and
// progress is reported after. It returns the number of frames fed before
// completion or cancellation.
func feedFrames(spr Sprite, from, to int, delegate task.Delegate, feed func(image.Image) error) (int, error) {
	total := to - from + 1
	for i := from; i <= to; i++ {
		if delegate != nil && delegate.Canceled() {
			return i - from, nil
		}

		frame, err := spr.Frame(i)
		if err != nil {
			return i - from, err
		}
		if err := feed(frame); err != nil {
			return i - from, err
		}

		if delegate != nil {
			delegate.Progress(float64(i-from+1) / float64(total))
		}
	}
	return total, nil
}

func octreePalette(spr Sprite, from, to int, withAlpha bool, pal *palette.Palette, delegate task.Delegate) (*palette.Palette, error) {
	tree := quant.NewOctree(pal.Size()-1, builderTreeDepth, withAlpha)

	fed, err := feedFrames(spr, from, to, delegate, func(m image.Image) error {
		tree.FeedImage(m)
		return nil
	})
	if err != nil {
		return nil, err
	}
	if fed == 0 {
		return minimalPalette(pal), nil
	}

	tree.GeneratePalette(pal, maskIndex)
	pal.SetColor(maskIndex, rgba.Rgba(0, 0, 0, 0))
	pal.SetMaskIndex(maskIndex)
	return pal, nil
}

func histogramPalette(spr Sprite, from, to int, withAlpha bool, pal *palette.Palette, delegate task.Delegate) (*palette.Palette, error) {
	optimizer := quant.NewPaletteOptimizer()

	fed, err := feedFrames(spr, from, to, delegate, func(m image.Image) error {
		optimizer.FeedImage(m, withAlpha)
		return nil
	})
	if err != nil {
		return nil, err
	}
	if fed == 0 {
		return minimalPalette(pal), nil
	}

	optimizer.Calculate(pal, maskIndex)
	return pal, nil
}

// medianCutPalette stacks the composited frames into one tall image and runs
// the median-cut quantizer over it, so cross-frame color weights are still
// respected despite the quantizer's single-image interface.
func medianCutPalette(spr Sprite, from, to int, pal *palette.Palette, delegate task.Delegate) (*palette.Palette, error) {
	var frames []image.Image
	width, height := 0, 0

	fed, err := feedFrames(spr, from, to, delegate, func(m image.Image) error {
		frames = append(frames, m)
		if w := m.Bounds().Dx(); w > width {
			width = w
		}
		height += m.Bounds().Dy()
		return nil
	})
	if err != nil {
		return nil, err
	}
	if fed == 0 || width == 0 || height == 0 {
		return minimalPalette(pal), nil
	}

	stack := image.NewNRGBA(image.Rect(0, 0, width, height))
	y := 0
	for _, m := range frames {
		b := m.Bounds()
		draw.Draw(stack, image.Rect(0, y, b.Dx(), y+b.Dy()), m, b.Min, draw.Src)
		y += b.Dy()
	}

	// Transparent pixels carry no weight, keeping both genuine transparency
	// and the canvas padding around narrower frames out of the palette; the
	// mask entry covers them.
	q := quantize.MedianCutQuantizer{
		Weighting: func(m image.Image, x, y int) uint32 {
			if _, _, _, a := m.At(x, y).RGBA(); a == 0 {
				return 0
			}
			return 1
		},
	}
	colors := q.Quantize(make(color.Palette, 0, pal.Size()-1), stack)

	pal.Resize(len(colors) + 1)
	for i, c := range colors {
		pal.SetColor(i+1, rgba.FromColor(c))
	}
	pal.SetColor(maskIndex, rgba.Rgba(0, 0, 0, 0))
	pal.SetMaskIndex(maskIndex)
	return pal, nil
}
