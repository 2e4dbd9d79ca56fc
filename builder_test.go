package indexpal

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/woodale/indexpal/palette"
	"github.com/woodale/indexpal/quant"
	"github.com/woodale/indexpal/rgba"
)

type fakeDelegate struct {
	canceled bool
	progress []float64
}

func (d *fakeDelegate) Canceled() bool {
	return d.canceled
}

func (d *fakeDelegate) Progress(fraction float64) {
	d.progress = append(d.progress, fraction)
}

type frameSprite struct {
	frames []image.Image
}

func (s *frameSprite) FrameCount() int {
	return len(s.frames)
}

func (s *frameSprite) Frame(i int) (image.Image, error) {
	return s.frames[i], nil
}

func solidFrame(c color.NRGBA, w, h int) *image.NRGBA {
	m := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			m.SetNRGBA(x, y, c)
		}
	}
	return m
}

func TestCreatePaletteSingleFrameMatchesDirectQuantize(t *testing.T) {
	m := image.NewNRGBA(image.Rect(0, 0, 2, 1))
	m.SetNRGBA(0, 0, color.NRGBA{R: 255, A: 255})
	m.SetNRGBA(1, 0, color.NRGBA{B: 255, A: 255})

	pal, err := CreatePaletteFromSprite(NewImageSprite(m), 0, 0, false, palette.New(8), nil, StrategyOctree)
	require.NoError(t, err)

	tree := quant.NewOctree(7, 8, false)
	tree.FeedImage(m)
	direct := palette.New(0)
	tree.GeneratePalette(direct, 0)

	require.Equal(t, direct.Size(), pal.Size())
	for i := 1; i < pal.Size(); i++ {
		assert.Equal(t, direct.Color(i), pal.Color(i))
	}
}

func TestCreatePaletteReservesMask(t *testing.T) {
	spr := &frameSprite{frames: []image.Image{solidFrame(color.NRGBA{R: 255, A: 255}, 2, 2)}}

	pal, err := CreatePaletteFromSprite(spr, 0, 0, false, palette.New(16), nil, StrategyOctree)
	require.NoError(t, err)

	assert.Equal(t, 0, pal.MaskIndex())
	assert.Equal(t, rgba.Rgba(0, 0, 0, 0), pal.Color(0))
	assert.Equal(t, rgba.Rgba(255, 0, 0, 255), pal.Color(1))
}

func TestCreatePaletteAccumulatesAcrossFrames(t *testing.T) {
	spr := &frameSprite{frames: []image.Image{
		solidFrame(color.NRGBA{R: 255, A: 255}, 2, 2),
		solidFrame(color.NRGBA{G: 255, A: 255}, 2, 2),
		solidFrame(color.NRGBA{B: 255, A: 255}, 2, 2),
	}}

	pal, err := CreatePaletteFromSprite(spr, 0, 2, false, palette.New(16), nil, StrategyOctree)
	require.NoError(t, err)

	// One entry per frame color plus the mask.
	require.Equal(t, 4, pal.Size())
}

func TestCreatePaletteEmptyRange(t *testing.T) {
	spr := &frameSprite{frames: []image.Image{solidFrame(color.NRGBA{R: 255, A: 255}, 1, 1)}}

	pal, err := CreatePaletteFromSprite(spr, 3, 1, false, palette.New(16), nil, StrategyOctree)
	require.NoError(t, err)

	require.Equal(t, 1, pal.Size())
	assert.Equal(t, 0, pal.MaskIndex())
	assert.True(t, pal.Color(0).Transparent())
}

func TestCreatePaletteCanceledBeforeAnyFrame(t *testing.T) {
	spr := &frameSprite{frames: []image.Image{solidFrame(color.NRGBA{R: 255, A: 255}, 1, 1)}}

	pal, err := CreatePaletteFromSprite(spr, 0, 0, false, palette.New(16), &fakeDelegate{canceled: true}, StrategyOctree)
	require.NoError(t, err)
	require.Equal(t, 1, pal.Size())
	assert.True(t, pal.Color(0).Transparent())
}

func TestCreatePaletteReportsProgressPerFrame(t *testing.T) {
	spr := &frameSprite{frames: []image.Image{
		solidFrame(color.NRGBA{R: 255, A: 255}, 1, 1),
		solidFrame(color.NRGBA{G: 255, A: 255}, 1, 1),
		solidFrame(color.NRGBA{B: 255, A: 255}, 1, 1),
	}}

	d := &fakeDelegate{}
	_, err := CreatePaletteFromSprite(spr, 0, 2, false, nil, d, StrategyOctree)
	require.NoError(t, err)

	assert.InDeltaSlice(t, []float64{1.0 / 3, 2.0 / 3, 1}, d.progress, 1e-9)
}

func TestCreatePaletteHistogramStrategy(t *testing.T) {
	spr := &frameSprite{frames: []image.Image{
		solidFrame(color.NRGBA{R: 255, A: 255}, 2, 1),
		solidFrame(color.NRGBA{G: 255, A: 255}, 1, 1),
	}}

	pal, err := CreatePaletteFromSprite(spr, 0, 1, false, palette.New(4), nil, StrategyHistogram)
	require.NoError(t, err)

	require.Equal(t, 4, pal.Size())
	assert.Equal(t, 0, pal.MaskIndex())
	// Red covers two pixels to green's one, so it ranks first.
	assert.Equal(t, rgba.Rgba(255, 0, 0, 255), pal.Color(1))
	assert.Equal(t, rgba.Rgba(0, 255, 0, 255), pal.Color(2))
}

func TestCreatePaletteMedianCutStrategy(t *testing.T) {
	spr := &frameSprite{frames: []image.Image{
		solidFrame(color.NRGBA{R: 255, A: 255}, 2, 2),
		solidFrame(color.NRGBA{B: 255, A: 255}, 2, 2),
	}}

	pal, err := CreatePaletteFromSprite(spr, 0, 1, false, palette.New(8), nil, StrategyMedianCut)
	require.NoError(t, err)

	assert.LessOrEqual(t, pal.Size(), 8)
	assert.Equal(t, 0, pal.MaskIndex())
	assert.Greater(t, pal.Size(), 1)
}

func TestCreatePaletteMedianCutMixedFrameSizes(t *testing.T) {
	// The narrow frame leaves padding on the stacked canvas; that padding
	// must not surface as a black palette entry.
	spr := &frameSprite{frames: []image.Image{
		solidFrame(color.NRGBA{R: 255, A: 255}, 2, 2),
		solidFrame(color.NRGBA{B: 255, A: 255}, 1, 1),
	}}

	pal, err := CreatePaletteFromSprite(spr, 0, 1, false, palette.New(8), nil, StrategyMedianCut)
	require.NoError(t, err)

	require.Equal(t, 3, pal.Size())
	got := map[rgba.Color]bool{}
	for i := 1; i < pal.Size(); i++ {
		got[pal.Color(i)] = true
	}
	assert.True(t, got[rgba.Rgba(255, 0, 0, 255)])
	assert.True(t, got[rgba.Rgba(0, 0, 255, 255)])
}

func TestParseStrategy(t *testing.T) {
	for name, want := range map[string]Strategy{
		"":          StrategyOctree,
		"octree":    StrategyOctree,
		"histogram": StrategyHistogram,
		"mediancut": StrategyMedianCut,
	} {
		got, err := ParseStrategy(name)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}

	_, err := ParseStrategy("bogus")
	assert.Error(t, err)
}
