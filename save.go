package main

import (
	"fmt"
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
)

// save writes the mutated carrier to dest, picking the format from the
// file extension. The image is written to a temporary file first and
// renamed into place once fully encoded.
func save(img image.Image, dest string) (err error) {
	outType := strings.TrimPrefix(strings.ToLower(filepath.Ext(dest)), ".")
	switch outType {
	case "jpg":
		outType = "jpeg"
	case "jpeg", "gif":
		// lossy or paletted re-encoding garbles the embedded bits
		slog.Warn("output format is not lossless, the hidden message will not survive", "format", outType)
	}

	destDir := filepath.Dir(dest)
	outFile, err := os.CreateTemp(destDir, filepath.Base(dest))
	if err != nil {
		return fmt.Errorf("could not create temporary destination for %q: %w", dest, err)
	}
	canRename := false
	defer func() {
		if defErr := outFile.Sync(); defErr != nil && err == nil {
			err = fmt.Errorf("could not flush destination %q: %w", dest, defErr)
		}
		if defErr := outFile.Close(); defErr != nil && err == nil {
			err = fmt.Errorf("could not close destination %q: %w", dest, defErr)
		}

		if canRename && err == nil {
			if defErr := os.Rename(outFile.Name(), dest); defErr != nil {
				err = fmt.Errorf("could not rename destination file %q: %w", dest, defErr)
			}
		}
	}()

	if err = writeImage(outFile, img, outType); err != nil {
		return err
	}

	canRename = true
	return err
}

func writeImage(w io.Writer, img image.Image, outType string) error {
	switch outType {
	case "gif":
		if err := gif.Encode(w, img, nil); err != nil {
			return fmt.Errorf("could not encode GIF output: %w", err)
		}
	case "jpeg":
		if err := jpeg.Encode(w, img, &jpeg.Options{Quality: 100}); err != nil {
			return fmt.Errorf("could not encode JPEG output: %w", err)
		}
	case "png":
		enc := png.Encoder{
			CompressionLevel: png.BestCompression,
			BufferPool:       pngPool,
		}
		if err := enc.Encode(w, img); err != nil {
			return fmt.Errorf("could not encode PNG output: %w", err)
		}
	case "bmp":
		if err := bmp.Encode(w, img); err != nil {
			return fmt.Errorf("could not encode BMP output: %w", err)
		}
	case "tiff":
		if err := tiff.Encode(w, img, nil); err != nil {
			return fmt.Errorf("could not encode TIFF output: %w", err)
		}
	default:
		return fmt.Errorf("unsupported output format: %s", outType)
	}
	return nil
}

type pngEncoderBufferPool struct {
	pool sync.Pool
}

func (p *pngEncoderBufferPool) Get() *png.EncoderBuffer {
	return p.pool.Get().(*png.EncoderBuffer)
}

func (p *pngEncoderBufferPool) Put(buf *png.EncoderBuffer) {
	p.pool.Put(buf)
}

var pngPool = &pngEncoderBufferPool{
	pool: sync.Pool{
		New: func() any {
			return &png.EncoderBuffer{}
		},
	},
}
