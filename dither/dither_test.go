package dither

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/woodale/indexpal/rgba"
)

func TestBayerMatrix2(t *testing.T) {
	m := BayerMatrix(2)
	require.Equal(t, 2, m.Rows())
	require.Equal(t, 2, m.Cols())
	assert.Equal(t, []int{0, 2, 3, 1}, m.data)
	assert.Equal(t, 3, m.max)
}

func TestBayerMatrix4(t *testing.T) {
	m := BayerMatrix(4)
	require.Equal(t, 4, m.Rows())

	want := []int{
		0, 8, 2, 10,
		12, 4, 14, 6,
		3, 11, 1, 9,
		15, 7, 13, 5,
	}
	assert.Equal(t, want, m.data)
	assert.Equal(t, 15, m.max)
}

func TestBayerMatrixClampsSize(t *testing.T) {
	assert.Equal(t, 2, BayerMatrix(0).Rows())
	assert.Equal(t, 4, BayerMatrix(3).Rows())
	assert.Equal(t, 8, BayerMatrix(64).Rows())
}

func TestMatrixTiling(t *testing.T) {
	m := BayerMatrix(4)
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			assert.Equal(t, m.At(x, y), m.At(x+4, y+8))
		}
	}
}

func TestNewMatrixValidatesDimensions(t *testing.T) {
	assert.Panics(t, func() {
		NewMatrix(2, 2, []int{0, 1, 2}, 2)
	})
}

func TestApplyDeterministic(t *testing.T) {
	m := BayerMatrix(8)
	c := rgba.Rgba(100, 150, 200, 77)

	first := m.Apply(3, 5, c)
	assert.Equal(t, first, m.Apply(3, 5, c))
}

func TestApplyBoundsAndAlpha(t *testing.T) {
	m := BayerMatrix(8)

	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			c := m.Apply(x, y, rgba.Rgba(128, 128, 128, 77))

			assert.Equal(t, uint8(77), c.A(), "alpha must not dither")
			assert.InDelta(t, 128, int(c.R()), spread/2)
			assert.Equal(t, c.R(), c.G())
			assert.Equal(t, c.G(), c.B())
		}
	}
}

func TestApplyClamps(t *testing.T) {
	m := BayerMatrix(8)
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			hi := m.Apply(x, y, rgba.Rgba(255, 255, 255, 255))
			lo := m.Apply(x, y, rgba.Rgba(0, 0, 0, 255))
			assert.Equal(t, uint8(255), hi.A())
			assert.True(t, lo.R() <= uint8(spread/2))
			assert.True(t, hi.R() >= uint8(255-spread/2))
		}
	}
}
