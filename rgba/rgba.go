/*
Package rgba implements the packed 32-bit color value used throughout the
library.

A Color holds four 8-bit channels in R | G<<8 | B<<16 | A<<24 order. All
quantization and remapping code works on this representation rather than on
color.Color interface values to keep the per-pixel hot paths allocation free.
*/
package rgba

import "image/color"

// Color is a packed non-premultiplied RGBA value.
type Color uint32

const (
	rShift = 0
	gShift = 8
	bShift = 16
	aShift = 24
)

// Rgba packs the four channels into a Color.
func Rgba(r, g, b, a uint8) Color {
	return Color(uint32(r)<<rShift | uint32(g)<<gShift | uint32(b)<<bShift | uint32(a)<<aShift)
}

// R returns the red channel.
func (c Color) R() uint8 { return uint8(c >> rShift) }

// G returns the green channel.
func (c Color) G() uint8 { return uint8(c >> gShift) }

// B returns the blue channel.
func (c Color) B() uint8 { return uint8(c >> bShift) }

// A returns the alpha channel.
func (c Color) A() uint8 { return uint8(c >> aShift) }

// Transparent reports whether the color is fully transparent.
func (c Color) Transparent() bool { return c.A() == 0 }

// FromColor converts any color.Color to a packed Color, undoing alpha
// premultiplication so channel values are always straight.
func FromColor(c color.Color) Color {
	if n, ok := c.(color.NRGBA); ok {
		return Rgba(n.R, n.G, n.B, n.A)
	}
	r, g, b, a := c.RGBA()
	if a == 0 {
		return 0
	}
	if a == 0xffff {
		return Rgba(uint8(r>>8), uint8(g>>8), uint8(b>>8), 0xff)
	}
	return Rgba(
		uint8(r*0xff/a),
		uint8(g*0xff/a),
		uint8(b*0xff/a),
		uint8(a>>8))
}

// NRGBA returns the color as a stdlib color.NRGBA value.
func (c Color) NRGBA() color.NRGBA {
	return color.NRGBA{R: c.R(), G: c.G(), B: c.B(), A: c.A()}
}
