package cmp

import (
	"bytes"
	"testing"
)

func TestCompressRoundTrip(t *testing.T) {
	for _, tc := range []struct {
		name string
		data []byte
	}{
		{name: "empty", data: nil},
		{name: "text", data: []byte("a message worth hiding, repeated and repeated and repeated")},
		{name: "binary", data: bytes.Repeat([]byte{0x00, 0xFF, 0x41}, 512)},
	} {
		t.Run(tc.name, func(t *testing.T) {
			comp, err := Compress(tc.data)
			if err != nil {
				t.Fatalf("Compress: %v", err)
			}
			got, err := Decompress(comp)
			if err != nil {
				t.Fatalf("Decompress: %v", err)
			}
			if !bytes.Equal(got, tc.data) {
				t.Fatalf("round trip changed data: got %d bytes, want %d", len(got), len(tc.data))
			}
		})
	}
}

func TestDecompressRejectsGarbage(t *testing.T) {
	if _, err := Decompress([]byte("not a zstd stream")); err == nil {
		t.Fatalf("expected error for non-zstd input, got nil")
	}
}
