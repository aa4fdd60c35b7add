package steg

import (
	"fmt"
	"image"
	"math"
	"strconv"
	"strings"
)

// DistKind enumerates the supported pixel scan orders.
type DistKind int

const (
	// Sequential visits pixels in raster order from the top-left corner.
	Sequential DistKind = iota
	// Linear spreads the visits evenly across the whole image.
	Linear
)

// Distribution maps pixel-visit indices to coordinates. The zero value is
// the sequential raster scan.
type Distribution struct {
	Kind DistKind
	// Count is the number of pixel visits a Linear distribution makes.
	// Encoding derives it from the message length and records it here;
	// decoding requires the caller to supply the value the encode
	// reported, or the visited coordinates diverge silently.
	Count int
}

// UnmarshalText parses "sequential", "linear" or "linear-N", where N is
// the visit count reported by a linear encode and required to decode.
func (d *Distribution) UnmarshalText(text []byte) error {
	name, arg, _ := strings.Cut(string(text), "-")
	switch name {
	case "sequential":
		*d = Distribution{Kind: Sequential}
	case "linear":
		var count int
		if arg != "" {
			n, err := strconv.ParseUint(arg, 10, 32)
			if err != nil {
				return fmt.Errorf("parsing message length in linear bit distribution: %w", err)
			}
			count = int(n)
		}
		*d = Distribution{Kind: Linear, Count: count}
	default:
		return fmt.Errorf("unknown bit distribution %q", name)
	}
	return nil
}

func (d Distribution) String() string {
	if d.Kind == Linear {
		return fmt.Sprintf("linear-%d", d.Count)
	}
	return "sequential"
}

// Linspace returns n evenly spaced sample points over the closed interval
// [a, b], each floored to an integer. The first sample is floor(a) and the
// last floor(b).
func Linspace(a, b float64, n int) []int {
	if n <= 0 {
		return nil
	}
	out := make([]int, n)
	if n == 1 {
		out[0] = int(math.Floor(a))
		return out
	}
	step := (b - a) / float64(n-1)
	for i := range out {
		out[i] = int(math.Floor(a + float64(i)*step))
	}
	return out
}

// visits returns the ordered pixel coordinates for n visits over a w×h
// grid. Sequential takes the first n pixels in raster order; Linear spreads
// n visits evenly over the whole grid.
func (d Distribution) visits(n, w, h int) []image.Point {
	pts := make([]image.Point, 0, n)
	switch d.Kind {
	case Linear:
		for _, idx := range Linspace(0, float64(w*h-1), n) {
			pts = append(pts, image.Pt(idx%w, idx/w))
		}
	default:
		for k := range n {
			pts = append(pts, image.Pt(k%w, k/w))
		}
	}
	return pts
}
