// Package cmp compresses messages before embedding so more data fits a
// given carrier image.
package cmp

import (
	"bytes"
	"fmt"
	"io"

	"github.com/klauspost/compress/zstd"
)

// Compress returns data as a zstd stream.
func Compress(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	enc, err := zstd.NewWriter(&buf)
	if err != nil {
		return nil, fmt.Errorf("could not create compressor: %w", err)
	}
	if _, err := enc.Write(data); err != nil {
		enc.Close()
		return nil, fmt.Errorf("could not compress message: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("could not flush compressed message: %w", err)
	}
	return buf.Bytes(), nil
}

// Decompress reverses Compress.
func Decompress(data []byte) ([]byte, error) {
	dec, err := zstd.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("could not create decompressor: %w", err)
	}
	defer dec.Close()

	plain, err := io.ReadAll(dec)
	if err != nil {
		return nil, fmt.Errorf("could not decompress message: %w", err)
	}
	return plain, nil
}
