/*
Package palette implements the ordered, bounded color palette produced by the
quantizers and consumed by the pixel remapper.

A palette holds up to 256 packed colors; entry order is significant because
the entry index is the pixel value in indexed-color images. One index may be
designated as the mask, conventionally representing full transparency. The
package also provides RgbMap, a cached nearest-color lookup table built once
over a palette.

Palette implements the encoding.BinaryMarshaler and
encoding.BinaryUnmarshaler interfaces; the binary form is what the palette
cache stores on disk.
*/
package palette

import (
	"bytes"
	"encoding/binary"
	"errors"
	"image/color"

	"github.com/woodale/indexpal/rgba"
)

// MaxSize is the largest number of entries a palette can hold.
const MaxSize = 256

// NoMask marks a palette without a reserved transparent entry.
const NoMask = -1

// Palette is an ordered sequence of packed colors with an optional mask
// index.
type Palette struct {
	colors    []rgba.Color
	maskIndex int
}

// New returns a palette with size entries, all opaque black, and no mask
// index. The size is clamped to [0, MaxSize].
func New(size int) *Palette {
	if size < 0 {
		size = 0
	}
	if size > MaxSize {
		size = MaxSize
	}
	p := &Palette{
		colors:    make([]rgba.Color, size),
		maskIndex: NoMask,
	}
	for i := range p.colors {
		p.colors[i] = rgba.Rgba(0, 0, 0, 0xff)
	}
	return p
}

// Size returns the number of entries.
func (p *Palette) Size() int {
	return len(p.colors)
}

// Resize grows or shrinks the palette to size entries. New entries are opaque
// black. A mask index outside the new size is cleared.
func (p *Palette) Resize(size int) {
	if size < 0 {
		size = 0
	}
	if size > MaxSize {
		size = MaxSize
	}
	for len(p.colors) < size {
		p.colors = append(p.colors, rgba.Rgba(0, 0, 0, 0xff))
	}
	p.colors = p.colors[:size]
	if p.maskIndex >= size {
		p.maskIndex = NoMask
	}
}

// Color returns the entry at index i.
func (p *Palette) Color(i int) rgba.Color {
	return p.colors[i]
}

// SetColor replaces the entry at index i.
func (p *Palette) SetColor(i int, c rgba.Color) {
	p.colors[i] = c
}

// MaskIndex returns the reserved transparent entry index, or NoMask.
func (p *Palette) MaskIndex() int {
	return p.maskIndex
}

// SetMaskIndex designates the entry at index i as the mask. Passing an index
// outside the palette clears the mask.
func (p *Palette) SetMaskIndex(i int) {
	if i < 0 || i >= len(p.colors) {
		p.maskIndex = NoMask
		return
	}
	p.maskIndex = i
}

// ColorPalette returns the palette as a stdlib color.Palette suitable for
// image.NewPaletted.
func (p *Palette) ColorPalette() color.Palette {
	cp := make(color.Palette, len(p.colors))
	for i, c := range p.colors {
		cp[i] = c.NRGBA()
	}
	return cp
}

// FromColorPalette converts a stdlib color.Palette, truncating at MaxSize.
func FromColorPalette(cp color.Palette) *Palette {
	if len(cp) > MaxSize {
		cp = cp[:MaxSize]
	}
	p := New(len(cp))
	for i, c := range cp {
		p.colors[i] = rgba.FromColor(c)
	}
	return p
}

// MarshalBinary encodes the palette into binary form and returns the result.
func (p *Palette) MarshalBinary() ([]byte, error) {
	if len(p.colors) > MaxSize {
		return nil, errors.New("palette: more than 256 entries")
	}

	b := new(bytes.Buffer)

	if err := binary.Write(b, binary.LittleEndian, uint16(len(p.colors))); err != nil {
		return nil, err
	}
	if err := binary.Write(b, binary.LittleEndian, int16(p.maskIndex)); err != nil {
		return nil, err
	}
	for _, c := range p.colors {
		if err := binary.Write(b, binary.LittleEndian, uint32(c)); err != nil {
			return nil, err
		}
	}

	return b.Bytes(), nil
}

// UnmarshalBinary decodes the palette from binary form.
func (p *Palette) UnmarshalBinary(data []byte) error {
	b := bytes.NewReader(data)

	var length uint16
	if err := binary.Read(b, binary.LittleEndian, &length); err != nil {
		return err
	}
	if length > MaxSize {
		return errors.New("palette: more than 256 entries")
	}

	var mask int16
	if err := binary.Read(b, binary.LittleEndian, &mask); err != nil {
		return err
	}

	colors := make([]rgba.Color, length)
	for i := range colors {
		var v uint32
		if err := binary.Read(b, binary.LittleEndian, &v); err != nil {
			return err
		}
		colors[i] = rgba.Color(v)
	}

	p.colors = colors
	p.maskIndex = NoMask
	if mask >= 0 && int(mask) < len(colors) {
		p.maskIndex = int(mask)
	}

	return nil
}
