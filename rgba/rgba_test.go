package rgba

import (
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPackUnpack(t *testing.T) {
	c := Rgba(1, 2, 3, 4)
	assert.Equal(t, uint8(1), c.R())
	assert.Equal(t, uint8(2), c.G())
	assert.Equal(t, uint8(3), c.B())
	assert.Equal(t, uint8(4), c.A())
}

func TestTransparent(t *testing.T) {
	assert.True(t, Rgba(255, 255, 255, 0).Transparent())
	assert.False(t, Rgba(0, 0, 0, 1).Transparent())
}

func TestFromColor(t *testing.T) {
	assert.Equal(t, Rgba(10, 20, 30, 255), FromColor(color.NRGBA{R: 10, G: 20, B: 30, A: 255}))
	assert.Equal(t, Rgba(99, 0, 0, 0), FromColor(color.NRGBA{R: 99, A: 0}))
	assert.Equal(t, Color(0), FromColor(color.RGBA{}))

	// Premultiplied values are converted back to straight alpha.
	assert.Equal(t, Rgba(255, 0, 0, 128), FromColor(color.RGBA{R: 128, A: 128}))
}

func TestNRGBA(t *testing.T) {
	want := color.NRGBA{R: 1, G: 2, B: 3, A: 4}
	assert.Equal(t, want, Rgba(1, 2, 3, 4).NRGBA())
}
