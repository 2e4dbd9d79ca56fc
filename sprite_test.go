package indexpal

import (
	"image"
	"image/color"
	"image/gif"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestImageSprite(t *testing.T) {
	m := image.NewNRGBA(image.Rect(0, 0, 1, 1))
	s := NewImageSprite(m)

	require.Equal(t, 1, s.FrameCount())
	frame, err := s.Frame(0)
	require.NoError(t, err)
	assert.Equal(t, image.Image(m), frame)
}

func gifFrame(r image.Rectangle, c color.RGBA) *image.Paletted {
	pm := image.NewPaletted(r, color.Palette{color.RGBA{}, c})
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			pm.SetColorIndex(x, y, 1)
		}
	}
	return pm
}

func TestGIFSpriteCompositesFrames(t *testing.T) {
	red := color.RGBA{R: 255, A: 255}
	green := color.RGBA{G: 255, A: 255}

	g := &gif.GIF{
		Image: []*image.Paletted{
			gifFrame(image.Rect(0, 0, 2, 2), red),
			gifFrame(image.Rect(0, 0, 1, 1), green),
		},
		Delay:    []int{10, 10},
		Disposal: []byte{gif.DisposalNone, gif.DisposalNone},
		Config: image.Config{
			Width:  2,
			Height: 2,
		},
	}

	s := NewGIFSprite(g)
	require.Equal(t, 2, s.FrameCount())

	first, err := s.Frame(0)
	require.NoError(t, err)
	assert.Equal(t, color.NRGBA{R: 255, A: 255}, first.(*image.NRGBA).NRGBAAt(1, 1))

	// The second frame only paints (0,0); the rest of the canvas keeps the
	// first frame's pixels.
	second, err := s.Frame(1)
	require.NoError(t, err)
	assert.Equal(t, color.NRGBA{G: 255, A: 255}, second.(*image.NRGBA).NRGBAAt(0, 0))
	assert.Equal(t, color.NRGBA{R: 255, A: 255}, second.(*image.NRGBA).NRGBAAt(1, 1))
}

func TestGIFSpriteDisposalBackground(t *testing.T) {
	red := color.RGBA{R: 255, A: 255}
	green := color.RGBA{G: 255, A: 255}

	g := &gif.GIF{
		Image: []*image.Paletted{
			gifFrame(image.Rect(0, 0, 2, 1), red),
			gifFrame(image.Rect(0, 0, 1, 1), green),
		},
		Delay:    []int{10, 10},
		Disposal: []byte{gif.DisposalBackground, gif.DisposalNone},
		Config: image.Config{
			Width:  2,
			Height: 1,
		},
	}

	s := NewGIFSprite(g)

	// Frame one was disposed to background, so only the green paint
	// survives into frame two.
	second, err := s.Frame(1)
	require.NoError(t, err)
	assert.Equal(t, color.NRGBA{G: 255, A: 255}, second.(*image.NRGBA).NRGBAAt(0, 0))
	assert.Equal(t, color.NRGBA{}, second.(*image.NRGBA).NRGBAAt(1, 0))
}

func TestGIFSpriteDisposalPrevious(t *testing.T) {
	red := color.RGBA{R: 255, A: 255}
	green := color.RGBA{G: 255, A: 255}
	blue := color.RGBA{B: 255, A: 255}

	g := &gif.GIF{
		Image: []*image.Paletted{
			gifFrame(image.Rect(0, 0, 2, 1), red),
			gifFrame(image.Rect(0, 0, 1, 1), green),
			gifFrame(image.Rect(1, 0, 2, 1), blue),
		},
		Delay:    []int{10, 10, 10},
		Disposal: []byte{gif.DisposalNone, gif.DisposalPrevious, gif.DisposalNone},
		Config: image.Config{
			Width:  2,
			Height: 1,
		},
	}

	s := NewGIFSprite(g)

	// The green frame restores to the previous canvas after display, so
	// the third frame sees red at (0,0), not green.
	third, err := s.Frame(2)
	require.NoError(t, err)
	assert.Equal(t, color.NRGBA{R: 255, A: 255}, third.(*image.NRGBA).NRGBAAt(0, 0))
	assert.Equal(t, color.NRGBA{B: 255, A: 255}, third.(*image.NRGBA).NRGBAAt(1, 0))
}
