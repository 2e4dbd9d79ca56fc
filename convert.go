package indexpal

import (
	"fmt"
	"image"
	"image/gif"
	_ "image/jpeg"
	"image/png"
	"os"
	"path/filepath"

	"github.com/woodale/indexpal/dither"
	"github.com/woodale/indexpal/palette"
	"github.com/woodale/indexpal/remap"
	"github.com/woodale/indexpal/rgba"
	xdraw "golang.org/x/image/draw"
)

// ConvertOptions controls file conversion.
type ConvertOptions struct {
	// Colors is the target palette size including the mask entry. Zero
	// means 256.
	Colors int

	// Strategy selects the quantizer.
	Strategy Strategy

	// TrackAlpha partitions alpha alongside the color channels while
	// quantizing.
	TrackAlpha bool

	// Dither enables ordered dithering with a Bayer matrix of MatrixSize
	// (2, 4 or 8; zero means 8).
	Dither     bool
	MatrixSize int

	// Background flattens transparency against an opaque background
	// instead of reserving the mask entry for it.
	Background bool

	// Scale, when greater than one, upscales the output by that factor
	// with nearest-neighbor sampling. Useful for pixel-art previews.
	Scale int
}

func (o ConvertOptions) colors() int {
	if o.Colors <= 0 || o.Colors > palette.MaxSize {
		return palette.MaxSize
	}
	return o.Colors
}

// loadSprite decodes src into a Sprite. Animated GIFs keep every frame; any
// other decodable format becomes a single-frame sprite. The returned GIF is
// non-nil only for GIF sources and carries the animation metadata.
func loadSprite(src string) (Sprite, *gif.GIF, error) {
	f, err := os.Open(src)
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()

	if filepath.Ext(src) == ".gif" {
		g, err := gif.DecodeAll(f)
		if err != nil {
			return nil, nil, err
		}
		return NewGIFSprite(g), g, nil
	}

	m, _, err := image.Decode(f)
	if err != nil {
		return nil, nil, err
	}
	return NewImageSprite(m), nil, nil
}

// Quantize returns the palette for the file at src, consulting the cache
// first when one is configured.
func (ip *IndexPal) Quantize(src string, spr Sprite, opts ConvertOptions) (*palette.Palette, error) {
	var key string
	if ip.db != nil {
		sha, err := shaFile(src)
		if err != nil {
			return nil, err
		}
		// Different sizes, strategies or alpha tracking over the same
		// content are distinct cache entries.
		key = fmt.Sprintf("%s-%d-%d-%t", sha, opts.colors(), opts.Strategy, opts.TrackAlpha)
		pal, err := ip.db.Find(key)
		if err != nil {
			return nil, err
		}
		if pal != nil {
			ip.logger.Printf("palette cache hit for \"%s\"\n", src)
			return pal, nil
		}
	}

	pal, err := CreatePaletteFromSprite(spr, 0, spr.FrameCount()-1, opts.TrackAlpha, palette.New(opts.colors()), nil, opts.Strategy)
	if err != nil {
		return nil, err
	}

	if ip.db != nil {
		if err := ip.db.Store(key, pal); err != nil {
			return nil, err
		}
	}

	return pal, nil
}

// Palette returns the palette ConvertFile would use for src, without
// converting anything.
func (ip *IndexPal) Palette(src string, opts ConvertOptions) (*palette.Palette, error) {
	spr, _, err := loadSprite(src)
	if err != nil {
		return nil, err
	}
	return ip.Quantize(src, spr, opts)
}

func scalePaletted(m *image.Paletted, factor int) *image.Paletted {
	b := m.Bounds()
	out := image.NewPaletted(image.Rect(0, 0, b.Dx()*factor, b.Dy()*factor), m.Palette)
	xdraw.NearestNeighbor.Scale(out, out.Bounds(), m, b, xdraw.Src, nil)
	return out
}

// ConvertFile quantizes the image or animation at src and writes the
// remapped result to dst. A ".gif" destination keeps every frame and the
// source timing; any other destination is written as an indexed PNG of the
// first frame.
func (ip *IndexPal) ConvertFile(src, dst string, opts ConvertOptions) error {
	spr, srcGIF, err := loadSprite(src)
	if err != nil {
		return err
	}

	pal, err := ip.Quantize(src, spr, opts)
	if err != nil {
		return err
	}

	lookup := palette.NewRgbMap(pal)

	var matrix *dither.Matrix
	algorithm := dither.None
	if opts.Dither {
		algorithm = dither.Ordered
		matrix = dither.BayerMatrix(opts.MatrixSize)
	}

	remapOpts := remap.Options{
		Format:       remap.FormatIndexed,
		Algorithm:    algorithm,
		Matrix:       matrix,
		Palette:      pal,
		Lookup:       lookup,
		IsBackground: opts.Background,
		MaskColor:    rgba.Rgba(0, 0, 0, 0),
	}

	frames := make([]*image.Paletted, spr.FrameCount())
	for i := range frames {
		frame, err := spr.Frame(i)
		if err != nil {
			return err
		}
		out, err := remap.Convert(frame, nil, remapOpts)
		if err != nil {
			return err
		}
		frames[i] = out.(*image.Paletted)
		if opts.Scale > 1 {
			frames[i] = scalePaletted(frames[i], opts.Scale)
		}
	}

	f, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer f.Close()

	if filepath.Ext(dst) == ".gif" {
		out := &gif.GIF{
			Image:     frames,
			Delay:     make([]int, len(frames)),
			LoopCount: 0,
		}
		if srcGIF != nil {
			copy(out.Delay, srcGIF.Delay)
			out.LoopCount = srcGIF.LoopCount
		}
		return gif.EncodeAll(f, out)
	}

	return png.Encode(f, frames[0])
}
