package io

import (
	"iter"
	"math/bits"
)

const (
	DISPLAY_WIDTH  = 64
	DISPLAY_HEIGHT = 32
)

// Frame is a copy of the display. Each row is 64 pixels, column 0 in the MSB.
type Frame [DISPLAY_HEIGHT]uint64

// At returns true if the pixel at (x, y) is lit. Coordinates wrap.
func (fr Frame) At(x, y int) bool {
	x = wrap(x, DISPLAY_WIDTH)
	y = wrap(y, DISPLAY_HEIGHT)
	return (fr[y]>>(DISPLAY_WIDTH-1-x))&1 != 0
}

// Lit returns the number of lit pixels.
func (fr Frame) Lit() (count int) {
	for _, row := range fr {
		count += bits.OnesCount64(row)
	}
	return
}

// Rows returns an iterator over the row index and row pixels.
func (fr Frame) Rows() iter.Seq2[int, uint64] {
	return func(yield func(y int, row uint64) bool) {
		for y, row := range fr {
			if !yield(y, row) {
				return
			}
		}
	}
}

func wrap(v, n int) int {
	v %= n
	if v < 0 {
		v += n
	}
	return v
}

// Display is the 64x32 monochrome framebuffer.
type Display struct {
	frame Frame
	dirty bool
}

// Clear all pixels.
func (d *Display) Clear() {
	clear(d.frame[:])
	d.dirty = true
}

// DrawSprite XORs 8 pixel wide rows onto the display with the top left
// corner at (x, y). Rows and columns that fall off an edge wrap around.
// Returns true if any lit pixel was turned off.
func (d *Display) DrawSprite(x, y byte, rows []byte) (collided bool) {
	col := int(x) % DISPLAY_WIDTH
	top := int(y) % DISPLAY_HEIGHT

	for n, data := range rows {
		row := (top + n) % DISPLAY_HEIGHT
		sprite := bits.RotateLeft64(uint64(data)<<(DISPLAY_WIDTH-8), -col)
		if d.frame[row]&sprite != 0 {
			collided = true
		}
		d.frame[row] ^= sprite
	}

	d.dirty = true
	return
}

// Snapshot returns a copy of the current pixels.
func (d *Display) Snapshot() Frame {
	return d.frame
}

// Dirty returns true if the display changed since the last ClearDirty().
func (d *Display) Dirty() bool {
	return d.dirty
}

// ClearDirty marks the display as presented.
func (d *Display) ClearDirty() {
	d.dirty = false
}
