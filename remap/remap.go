/*
Package remap implements pixel-format conversion: RGBA, grayscale and
indexed images can be converted to any of the three formats, with optional
ordered dithering when the destination is indexed.

Conversion walks the source row by row and polls the task delegate after
every row, so large conversions can be cooperatively canceled.
*/
package remap

import (
	"errors"
	"image"

	"github.com/woodale/indexpal/dither"
	"github.com/woodale/indexpal/palette"
	"github.com/woodale/indexpal/rgba"
	"github.com/woodale/indexpal/task"
)

// PixelFormat identifies the destination pixel representation.
type PixelFormat int

const (
	// FormatRGBA is 8 bits per channel non-premultiplied RGBA.
	FormatRGBA PixelFormat = iota
	// FormatGrayscale is 8-bit luminance.
	FormatGrayscale
	// FormatIndexed is 8-bit palette indices.
	FormatIndexed
)

var (
	// ErrCanceled is returned when the delegate reports cancellation. The
	// destination buffer may hold a partially written result.
	ErrCanceled = errors.New("remap: canceled")

	errWrongSize = errors.New("remap: destination image is wrong size")
	errWrongType = errors.New("remap: destination image does not match format")
	errNoPalette = errors.New("remap: indexed conversion requires a palette")
)

// Options carries the conversion parameters for Convert.
type Options struct {
	// Format is the destination pixel format.
	Format PixelFormat

	// Algorithm and Matrix configure dithering. Dithering applies only when
	// the destination format is indexed.
	Algorithm dither.Algorithm
	Matrix    *dither.Matrix

	// Palette is the destination palette for indexed conversion, and the
	// palette interpreting an indexed source.
	Palette *palette.Palette

	// Lookup is the nearest-color map over Palette. If nil, one is built.
	Lookup *palette.RgbMap

	// IsBackground flattens source alpha against an opaque background
	// instead of mapping transparent pixels to the mask.
	IsBackground bool

	// MaskColor is the color given to mask-index pixels when expanding an
	// indexed source to RGBA with IsBackground unset.
	MaskColor rgba.Color

	// Delegate, if non-nil, is polled once per row.
	Delegate task.Delegate
}

func luma(c rgba.Color) uint8 {
	return uint8((299*uint32(c.R()) + 587*uint32(c.G()) + 114*uint32(c.B())) / 1000)
}

// flatten composites c against an opaque black background.
func flatten(c rgba.Color) rgba.Color {
	a := uint32(c.A())
	return rgba.Rgba(
		uint8(uint32(c.R())*a/255),
		uint8(uint32(c.G())*a/255),
		uint8(uint32(c.B())*a/255),
		0xff)
}

// sourceColor reads the pixel at (x, y) as a packed color. Mask-index pixels
// of an indexed source become opts.MaskColor unless flattening against a
// background.
func sourceColor(src image.Image, x, y int, opts *Options) rgba.Color {
	if pm, ok := src.(*image.Paletted); ok && opts.Palette != nil {
		if i := int(pm.ColorIndexAt(x, y)); i == opts.Palette.MaskIndex() {
			if opts.IsBackground {
				return flatten(opts.MaskColor)
			}
			return opts.MaskColor
		}
	}
	c := rgba.FromColor(src.At(x, y))
	if opts.IsBackground {
		return flatten(c)
	}
	return c
}

// Convert converts src to the format given in opts. If dst is nil a new
// image of matching dimensions is allocated and returned; otherwise dst must
// match the source dimensions and the destination format, and is written in
// place. On cancellation Convert returns a nil image and ErrCanceled.
func Convert(src image.Image, dst image.Image, opts Options) (image.Image, error) {
	b := src.Bounds()
	r := image.Rect(0, 0, b.Dx(), b.Dy())

	if dst != nil {
		db := dst.Bounds()
		if db.Dx() != b.Dx() || db.Dy() != b.Dy() {
			return nil, errWrongSize
		}
	}

	switch opts.Format {
	case FormatIndexed:
		if opts.Palette == nil {
			return nil, errNoPalette
		}
		pm, ok := dst.(*image.Paletted)
		if dst != nil && !ok {
			return nil, errWrongType
		}
		if pm == nil {
			pm = image.NewPaletted(r, opts.Palette.ColorPalette())
		}
		if err := convertIndexed(src, pm, &opts); err != nil {
			return nil, err
		}
		return pm, nil

	case FormatGrayscale:
		gm, ok := dst.(*image.Gray)
		if dst != nil && !ok {
			return nil, errWrongType
		}
		if gm == nil {
			gm = image.NewGray(r)
		}
		if err := convertGray(src, gm, &opts); err != nil {
			return nil, err
		}
		return gm, nil

	default:
		nm, ok := dst.(*image.NRGBA)
		if dst != nil && !ok {
			return nil, errWrongType
		}
		if nm == nil {
			nm = image.NewNRGBA(r)
		}
		if err := convertRGBA(src, nm, &opts); err != nil {
			return nil, err
		}
		return nm, nil
	}
}

// pollRow checks for cancellation before each row and reports progress after
// it. Polling before the first row guarantees a pre-canceled delegate leaves
// the destination untouched.
func pollRow(d task.Delegate, row, height int) error {
	if d == nil {
		return nil
	}
	if d.Canceled() {
		return ErrCanceled
	}
	if row > 0 {
		d.Progress(float64(row) / float64(height))
	}
	return nil
}

func convertIndexed(src image.Image, dst *image.Paletted, opts *Options) error {
	lookup := opts.Lookup
	if lookup == nil {
		lookup = palette.NewRgbMap(opts.Palette)
	}
	maskIndex := opts.Palette.MaskIndex()
	dithering := opts.Algorithm == dither.Ordered && opts.Matrix != nil

	sb, db := src.Bounds(), dst.Bounds()
	w, h := sb.Dx(), sb.Dy()
	for y := 0; y < h; y++ {
		if err := pollRow(opts.Delegate, y, h); err != nil {
			return err
		}
		for x := 0; x < w; x++ {
			c := sourceColor(src, sb.Min.X+x, sb.Min.Y+y, opts)

			if !opts.IsBackground && c.Transparent() && maskIndex != palette.NoMask {
				dst.SetColorIndex(db.Min.X+x, db.Min.Y+y, uint8(maskIndex))
				continue
			}

			if dithering {
				c = opts.Matrix.Apply(x, y, c)
			}
			dst.SetColorIndex(db.Min.X+x, db.Min.Y+y, uint8(lookup.MapColor(c)))
		}
	}

	if opts.Delegate != nil {
		opts.Delegate.Progress(1)
	}
	return nil
}

func convertGray(src image.Image, dst *image.Gray, opts *Options) error {
	sb, db := src.Bounds(), dst.Bounds()
	w, h := sb.Dx(), sb.Dy()
	for y := 0; y < h; y++ {
		if err := pollRow(opts.Delegate, y, h); err != nil {
			return err
		}
		for x := 0; x < w; x++ {
			c := sourceColor(src, sb.Min.X+x, sb.Min.Y+y, opts)
			dst.Pix[dst.PixOffset(db.Min.X+x, db.Min.Y+y)] = luma(c)
		}
	}

	if opts.Delegate != nil {
		opts.Delegate.Progress(1)
	}
	return nil
}

func convertRGBA(src image.Image, dst *image.NRGBA, opts *Options) error {
	sb, db := src.Bounds(), dst.Bounds()
	w, h := sb.Dx(), sb.Dy()
	for y := 0; y < h; y++ {
		if err := pollRow(opts.Delegate, y, h); err != nil {
			return err
		}
		for x := 0; x < w; x++ {
			c := sourceColor(src, sb.Min.X+x, sb.Min.Y+y, opts)
			dst.SetNRGBA(db.Min.X+x, db.Min.Y+y, c.NRGBA())
		}
	}

	if opts.Delegate != nil {
		opts.Delegate.Progress(1)
	}
	return nil
}
