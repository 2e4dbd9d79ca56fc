/*
Package dither implements ordered (matrix-based) dithering support for the
pixel remapper.

A Matrix is a fixed 2-D table of thresholds tiled over image coordinates by
modulo indexing. Applying a matrix perturbs each source color by an offset
derived from the threshold at that pixel before the nearest-palette lookup,
distributing quantization error in a periodic pattern. The result depends
only on (x, y, source color, matrix), so output is reproducible across runs.
*/
package dither

import "github.com/woodale/indexpal/rgba"

// Algorithm selects the dithering variant applied during remapping.
type Algorithm int

const (
	// None disables dithering.
	None Algorithm = iota
	// Ordered perturbs each pixel by its matrix threshold before lookup.
	Ordered
)

// Amplitude of the threshold offset in channel units. A full-range matrix
// shifts each channel by at most half this value in either direction.
const spread = 32

// Matrix is a tiled threshold table. The zero Matrix is not valid; use
// NewMatrix or BayerMatrix.
type Matrix struct {
	rows, cols int
	data       []int
	max        int
}

// NewMatrix builds a matrix from row-major data with the given dimensions.
// Thresholds range over [0, max].
func NewMatrix(rows, cols int, data []int, max int) *Matrix {
	if len(data) != rows*cols {
		panic("dither: matrix data does not match dimensions")
	}
	return &Matrix{
		rows: rows,
		cols: cols,
		data: data,
		max:  max,
	}
}

// BayerMatrix returns the n by n Bayer threshold matrix, built by the usual
// recursive doubling. n must be a power of two; it is clamped to [2, 8].
func BayerMatrix(n int) *Matrix {
	switch {
	case n <= 2:
		n = 2
	case n <= 4:
		n = 4
	default:
		n = 8
	}

	size := 2
	data := []int{0, 2, 3, 1}
	for size < n {
		next := make([]int, size*size*4)
		for y := 0; y < size; y++ {
			for x := 0; x < size; x++ {
				v := 4 * data[y*size+x]
				next[y*2*size+x] = v
				next[y*2*size+x+size] = v + 2
				next[(y+size)*2*size+x] = v + 3
				next[(y+size)*2*size+x+size] = v + 1
			}
		}
		size *= 2
		data = next
	}

	return NewMatrix(size, size, data, size*size-1)
}

// Rows returns the matrix height.
func (m *Matrix) Rows() int { return m.rows }

// Cols returns the matrix width.
func (m *Matrix) Cols() int { return m.cols }

// At returns the threshold for pixel (x, y), tiling by modulo.
func (m *Matrix) At(x, y int) int {
	return m.data[(y%m.rows)*m.cols+(x%m.cols)]
}

func clamp(v int) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v)
}

// Apply offsets the color channels of c by the threshold at (x, y), mapped
// to a signed offset in [-spread/2, spread/2]. Alpha is left untouched so
// transparency decisions are not affected by dithering.
func (m *Matrix) Apply(x, y int, c rgba.Color) rgba.Color {
	if m.max == 0 {
		return c
	}
	offset := ((2*m.At(x, y) - m.max) * spread) / (2 * m.max)
	return rgba.Rgba(
		clamp(int(c.R())+offset),
		clamp(int(c.G())+offset),
		clamp(int(c.B())+offset),
		c.A())
}
