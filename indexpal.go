/*
Package indexpal is a library for reducing full-color images and animations
to bounded-size palettes and remapping them to indexed color.

The heavy lifting lives in the subpackages: quant holds the octree and
histogram quantizers, palette the palette and nearest-color lookup types,
dither the ordered-dither matrices and remap the pixel-format converter.
This package ties them together at the sprite level: building one palette
over a whole animation frame range, caching generated palettes in a small
sqlite database keyed by source content, and batch-converting directory
trees.
*/
package indexpal

import "log"

// IndexPal converts image files to indexed color, consulting a palette cache
// so identical inputs are only quantized once.
type IndexPal struct {
	db     *PaletteDB
	logger *log.Logger
}

// New returns an IndexPal using the given palette cache. The cache may be
// nil, in which case every conversion quantizes from scratch.
func New(db *PaletteDB, logger *log.Logger) *IndexPal {
	return &IndexPal{
		db:     db,
		logger: logger,
	}
}
