// Package steg hides byte payloads in the low-order bits of an RGB image's
// channel bytes and recovers them again.
package steg

import (
	"errors"
	"fmt"
	"image"
	"slices"

	"github.com/knvi/stgv/bit"
)

// endMarker terminates every encoded message so the decoder can find the
// payload end without an explicit length.
const endMarker = "$TGV"

var (
	// ErrMarkerNotFound reports a decode that exhausted its scan without
	// seeing the end marker. The image likely carries no message encoded
	// with matching parameters.
	ErrMarkerNotFound = errors.New("encoded message not found in image")
	// ErrCapacityExceeded reports a message too large for the carrier.
	ErrCapacityExceeded = errors.New("message exceeds image capacity")
)

// Codec runs one bit strategy and one pixel distribution over a single
// encode or decode pass. Strategy state advances once per bit, so the same
// strategy value must drive the whole pass and must not be reused for
// another one.
type Codec struct {
	Strategy bit.Strategy
	Dist     *Distribution
	// EndSeq appends the end marker when encoding and requires it when
	// decoding. On by default.
	EndSeq bool
}

func New(s bit.Strategy, d *Distribution) *Codec {
	return &Codec{Strategy: s, Dist: d, EndSeq: true}
}

// Capacity returns the most payload bytes a w×h image can carry with the
// end marker enabled and every channel of every pixel in use.
func Capacity(w, h int) int {
	return (w*h*3 - len(endMarker)*8) / 8
}

// MaxBytes returns the theoretical payload capacity of img in bytes. A
// Linear distribution with a visit count below the maximum realizes less
// than this ceiling.
func (c *Codec) MaxBytes(img *image.RGBA) int {
	b := img.Bounds()
	return Capacity(b.Dx(), b.Dy())
}

// CheckFits reports whether a message of msgLen bytes fits img, returning
// ErrCapacityExceeded when it does not. Encode itself does not re-check;
// callers run this before encoding.
func (c *Codec) CheckFits(img *image.RGBA, msgLen int) error {
	if max := c.MaxBytes(img); msgLen > max {
		return fmt.Errorf("%w: %d > %d bytes", ErrCapacityExceeded, msgLen, max)
	}
	return nil
}

// Encode hides msg in a copy of img and returns the copy; img itself is
// never mutated. Three bits land in each visited pixel, one per channel in
// R, G, B order, with the final pixel's trailing channels left untouched
// when the bitstream runs out mid-pixel. With a Linear distribution the
// computed visit count is recorded in c.Dist.Count for the caller, who
// must pass the same count when decoding.
//
// Callers are responsible for checking capacity first (CheckFits); an
// oversized message makes the raster scan run off the grid and panic.
func (c *Codec) Encode(img *image.RGBA, msg []byte) (*image.RGBA, error) {
	data := msg
	if c.EndSeq {
		data = make([]byte, 0, len(msg)+len(endMarker))
		data = append(data, msg...)
		data = append(data, endMarker...)
	}
	bits := expandBits(data)

	out := &image.RGBA{
		Pix:    slices.Clone(img.Pix),
		Stride: img.Stride,
		Rect:   img.Rect,
	}
	b := out.Bounds()

	// one pixel visit per 3 bits
	n := (len(bits) + 2) / 3
	if c.Dist.Kind == Linear {
		c.Dist.Count = n
	}

	for v, pt := range c.Dist.visits(n, b.Dx(), b.Dy()) {
		off := out.PixOffset(b.Min.X+pt.X, b.Min.Y+pt.Y)
		for i := range 3 {
			k := v*3 + i
			if k == len(bits) {
				break
			}
			c.Strategy.Encode(bits[k], &out.Pix[off+i])
		}
	}
	return out, nil
}

// Decode extracts a message hidden in img. The distribution must visit the
// same coordinates in the same order the encode used: all pixels in raster
// order for Sequential, or the encode-reported visit count for Linear.
func (c *Codec) Decode(img *image.RGBA) ([]byte, error) {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()

	n := w * h
	if c.Dist.Kind == Linear {
		n = c.Dist.Count
	}

	end := expandBits([]byte(endMarker))
	bits := make([]uint8, 0, n*3)

scan:
	for _, pt := range c.Dist.visits(n, w, h) {
		off := img.PixOffset(b.Min.X+pt.X, b.Min.Y+pt.Y)
		for i := range 3 {
			if hasEnd(bits, end) {
				break scan
			}
			bits = append(bits, c.Strategy.Decode(img.Pix[off+i]))
		}
	}

	if c.EndSeq {
		if !hasEnd(bits, end) {
			return nil, ErrMarkerNotFound
		}
		bits = bits[:len(bits)-len(end)]
	}
	return packBits(bits)
}

// expandBits expands data to one element per bit, msb first within each
// byte.
func expandBits(data []byte) []uint8 {
	bits := make([]uint8, 0, len(data)*8)
	for _, b := range data {
		for i := 7; i >= 0; i-- {
			bits = append(bits, (b>>i)&1)
		}
	}
	return bits
}

// packBits regroups bits into bytes, msb first. A bit count that does not
// divide into whole bytes means the stream is garbled.
func packBits(bits []uint8) ([]byte, error) {
	if rem := len(bits) % 8; rem != 0 {
		return nil, fmt.Errorf("reconstructing message: %d trailing bits do not form a whole byte", rem)
	}
	msg := make([]byte, 0, len(bits)/8)
	for i := 0; i < len(bits); i += 8 {
		var b byte
		for _, v := range bits[i : i+8] {
			b = b<<1 | v
		}
		msg = append(msg, b)
	}
	return msg, nil
}

func hasEnd(bits, end []uint8) bool {
	if len(bits) < len(end) {
		return false
	}
	return slices.Equal(bits[len(bits)-len(end):], end)
}
