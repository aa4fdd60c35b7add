// Package bit implements the strategies that pick which bit of a color
// channel byte carries one payload bit.
package bit

import (
	"crypto/sha256"
	"encoding/binary"
	"fmt"
	"math/rand/v2"
)

// Mask selects a single low-order bit of a channel byte.
type Mask uint8

const (
	MaskOne   Mask = 0b0000_0001
	MaskTwo   Mask = 0b0000_0010
	MaskFour  Mask = 0b0000_0100
	MaskEight Mask = 0b0000_1000
)

// MaskFor maps a significant-bit index in [1,4] to its power-of-two mask.
func MaskFor(n uint8) (Mask, error) {
	if n < 1 || n > 4 {
		return 0, fmt.Errorf("no bitmask for value %d", n)
	}
	return Mask(1 << (n - 1)), nil
}

// Strategy encodes one payload bit into a channel byte and extracts it
// again. Implementations carrying generator state must see encode and
// decode calls in the same order and quantity, or the chosen bit positions
// diverge and every later bit is corrupted.
type Strategy interface {
	// Encode sets or clears a single bit of *channel, leaving all other
	// bits untouched.
	Encode(bit uint8, channel *uint8)
	// Decode returns the payload bit (0 or 1) carried by channel.
	Decode(channel uint8) uint8
}

// LSB always targets the least significant bit. Stateless, so one value
// may serve any number of encode and decode passes.
type LSB struct{}

func (LSB) Encode(bit uint8, channel *uint8) {
	if bit == 0 {
		*channel &^= uint8(MaskOne)
	} else {
		*channel |= uint8(MaskOne)
	}
}

func (LSB) Decode(channel uint8) uint8 {
	return channel & uint8(MaskOne)
}

// RSB targets one of the max least significant bits, chosen per call by a
// seeded generator. The generator advances exactly once per bit processed,
// so decoding with the same seed, max and bit order replays the mask
// sequence the encode used. An RSB value must not be shared across
// unrelated passes.
type RSB struct {
	max uint8
	rng *rand.Rand
}

// NewRSB returns a strategy writing to one of the max (1-4) low bits of
// each channel byte, with per-bit mask choices drawn from a PCG generator
// seeded from seed.
func NewRSB(max uint8, seed string) (*RSB, error) {
	if max < 1 || max > 4 {
		return nil, fmt.Errorf("max significant bit must be between 1 and 4, got %d", max)
	}
	sum := sha256.Sum256([]byte(seed))
	src := rand.NewPCG(
		binary.LittleEndian.Uint64(sum[0:8]),
		binary.LittleEndian.Uint64(sum[8:16]),
	)
	return &RSB{max: max, rng: rand.New(src)}, nil
}

func (r *RSB) draw() Mask {
	n := uint8(r.rng.IntN(int(r.max))) + 1
	mask, _ := MaskFor(n) // n is always in [1,4]
	return mask
}

func (r *RSB) Encode(bit uint8, channel *uint8) {
	mask := r.draw()
	if bit == 0 {
		*channel &^= uint8(mask)
	} else {
		*channel |= uint8(mask)
	}
}

func (r *RSB) Decode(channel uint8) uint8 {
	if channel&uint8(r.draw()) != 0 {
		return 1
	}
	return 0
}
