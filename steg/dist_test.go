package steg

import (
	"image"
	"slices"
	"testing"
)

func TestDistributionUnmarshalText(t *testing.T) {
	for _, tc := range []struct {
		in   string
		want Distribution
	}{
		{in: "sequential", want: Distribution{Kind: Sequential}},
		{in: "linear", want: Distribution{Kind: Linear}},
		{in: "linear-42", want: Distribution{Kind: Linear, Count: 42}},
	} {
		t.Run(tc.in, func(t *testing.T) {
			var d Distribution
			if err := d.UnmarshalText([]byte(tc.in)); err != nil {
				t.Fatalf("UnmarshalText(%q): %v", tc.in, err)
			}
			if d != tc.want {
				t.Fatalf("UnmarshalText(%q) = %+v, want %+v", tc.in, d, tc.want)
			}
		})
	}

	for _, in := range []string{"linear-x", "linear--3", "diagonal", ""} {
		var d Distribution
		if err := d.UnmarshalText([]byte(in)); err == nil {
			t.Fatalf("UnmarshalText(%q): expected error, got nil", in)
		}
	}
}

func TestDistributionString(t *testing.T) {
	if got := (Distribution{Kind: Sequential}).String(); got != "sequential" {
		t.Fatalf("String() = %q, want %q", got, "sequential")
	}
	if got := (Distribution{Kind: Linear, Count: 7}).String(); got != "linear-7" {
		t.Fatalf("String() = %q, want %q", got, "linear-7")
	}
}

func TestLinspace(t *testing.T) {
	for _, tc := range []struct {
		name string
		a, b float64
		n    int
		want []int
	}{
		{name: "three_over_ten", a: 0, b: 9, n: 3, want: []int{0, 4, 9}},
		{name: "all_points", a: 0, b: 9, n: 10, want: []int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}},
		{name: "single", a: 0, b: 9, n: 1, want: []int{0}},
		{name: "endpoints_only", a: 0, b: 15, n: 2, want: []int{0, 15}},
		{name: "empty", a: 0, b: 9, n: 0, want: nil},
	} {
		t.Run(tc.name, func(t *testing.T) {
			got := Linspace(tc.a, tc.b, tc.n)
			if !slices.Equal(got, tc.want) {
				t.Fatalf("Linspace(%v, %v, %d) = %v, want %v", tc.a, tc.b, tc.n, got, tc.want)
			}
		})
	}
}

func TestSequentialVisits(t *testing.T) {
	d := Distribution{Kind: Sequential}
	got := d.visits(6, 4, 4)
	want := []image.Point{
		{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 2, Y: 0}, {X: 3, Y: 0},
		{X: 0, Y: 1}, {X: 1, Y: 1},
	}
	if !slices.Equal(got, want) {
		t.Fatalf("visits(6, 4, 4) = %v, want %v", got, want)
	}
}

func TestLinearVisitsSpanImage(t *testing.T) {
	d := Distribution{Kind: Linear}
	got := d.visits(3, 5, 2) // 10 pixels, indices 0..9
	want := []image.Point{
		{X: 0, Y: 0}, // index 0
		{X: 4, Y: 0}, // index 4
		{X: 4, Y: 1}, // index 9
	}
	if !slices.Equal(got, want) {
		t.Fatalf("visits(3, 5, 2) = %v, want %v", got, want)
	}
}
