package indexpal

import (
	"image"
	"image/draw"
	"image/gif"
)

// ImageSprite adapts a single still image to the Sprite interface.
type ImageSprite struct {
	m image.Image
}

// NewImageSprite returns a one-frame sprite over m.
func NewImageSprite(m image.Image) *ImageSprite {
	return &ImageSprite{m: m}
}

// FrameCount returns 1.
func (s *ImageSprite) FrameCount() int {
	return 1
}

// Frame returns the wrapped image.
func (s *ImageSprite) Frame(i int) (image.Image, error) {
	return s.m, nil
}

// GIFSprite adapts a decoded animated GIF to the Sprite interface. Frames
// are composited to flat RGBA up front, honoring each frame's disposal
// method, so Frame always returns the full canvas as displayed.
type GIFSprite struct {
	frames []*image.NRGBA
}

// NewGIFSprite composites every frame of g and returns the sprite.
func NewGIFSprite(g *gif.GIF) *GIFSprite {
	w, h := g.Config.Width, g.Config.Height
	if w == 0 || h == 0 {
		if len(g.Image) > 0 {
			b := g.Image[0].Bounds()
			w, h = b.Max.X, b.Max.Y
		}
	}
	bounds := image.Rect(0, 0, w, h)

	s := &GIFSprite{
		frames: make([]*image.NRGBA, 0, len(g.Image)),
	}

	canvas := image.NewNRGBA(bounds)
	for i, frame := range g.Image {
		var previous *image.NRGBA
		if i < len(g.Disposal) && g.Disposal[i] == gif.DisposalPrevious {
			previous = image.NewNRGBA(bounds)
			draw.Draw(previous, bounds, canvas, image.Point{}, draw.Src)
		}

		// GIF transparency is part of the frame palette, so Over composites
		// only the opaque pixels.
		draw.Draw(canvas, frame.Bounds(), frame, frame.Bounds().Min, draw.Over)

		shown := image.NewNRGBA(bounds)
		draw.Draw(shown, bounds, canvas, image.Point{}, draw.Src)
		s.frames = append(s.frames, shown)

		if i < len(g.Disposal) {
			switch g.Disposal[i] {
			case gif.DisposalBackground:
				// The background is treated as transparent, matching how
				// browsers render disposed regions.
				clear := frame.Bounds()
				draw.Draw(canvas, clear, image.Transparent, image.Point{}, draw.Src)
			case gif.DisposalPrevious:
				canvas = previous
			}
		}
	}

	return s
}

// FrameCount returns the number of frames.
func (s *GIFSprite) FrameCount() int {
	return len(s.frames)
}

// Frame returns the composited canvas for frame i.
func (s *GIFSprite) Frame(i int) (image.Image, error) {
	return s.frames[i], nil
}
